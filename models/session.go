// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// SessionState is the state of the session manager state machine.
type SessionState int

const (
	// Unauthenticated means no identity is attached to the session.
	Unauthenticated SessionState = iota
	// Authenticating means a login, signup or restore is in flight.
	Authenticating
	// Authenticated means an identity is attached to the session.
	Authenticated
)

// String implements [fmt.Stringer].
func (s SessionState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// BackendStatus is the last observed state of the detection backend.
type BackendStatus string

const (
	BackendChecking    BackendStatus = "checking"
	BackendHealthy     BackendStatus = "healthy"
	BackendUnreachable BackendStatus = "unreachable"
)

// Message returns the human-readable status line.
func (s BackendStatus) Message() string {
	switch s {
	case BackendHealthy:
		return "Backend connected"
	case BackendUnreachable:
		return "Backend unreachable"
	default:
		return "Checking backend..."
	}
}

// LogoutHistoryPolicy decides what happens to stored history on logout.
type LogoutHistoryPolicy string

const (
	// LogoutClearAll removes every history record of every user.
	LogoutClearAll LogoutHistoryPolicy = "global"
	// LogoutClearOwn removes only the logging-out user's records.
	LogoutClearOwn LogoutHistoryPolicy = "user"
	// LogoutKeep leaves history untouched.
	LogoutKeep LogoutHistoryPolicy = "keep"
)

// IsValid reports whether p is a known policy.
func (p LogoutHistoryPolicy) IsValid() bool {
	switch p {
	case LogoutClearAll, LogoutClearOwn, LogoutKeep:
		return true
	}
	return false
}
