// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// Demo account credentials. The demo identity is synthetic: it is never
// written to the credential store and always authenticates when the demo
// login is enabled.
const (
	DemoUserID       = "demo-user"
	DemoUserName     = "Demo User"
	DemoUserEmail    = "demo@example.com"
	DemoUserPassword = "password123"
)

// User represents a registered identity used for authentication and for
// owning analysis history records.
// Sensitive fields must never leave the credential store.
type User struct {
	// ID is the opaque unique identifier assigned at signup.
	// History items reference it through HistoryItem.UserID.
	ID string `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the unique, case-sensitive login key.
	Email string `json:"email"`

	// PasswordHash is the encoded salted argon2id hash of the password.
	PasswordHash string `json:"passwordHash,omitempty"`

	// Password holds a plaintext password found in legacy records only.
	// It is read for compatibility and dropped once a hash replaces it.
	Password string `json:"password,omitempty"`
}

// Public returns a copy of u with every credential field removed.
// This is the shape kept in the session slot and returned to callers.
func (u User) Public() User {
	return User{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

// IsDemo reports whether u is the built-in demo identity.
func (u User) IsDemo() bool {
	return u.ID == DemoUserID
}

// DemoUser returns the synthetic demo identity.
func DemoUser() User {
	return User{
		ID:    DemoUserID,
		Name:  DemoUserName,
		Email: DemoUserEmail,
	}
}
