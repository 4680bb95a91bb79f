package store

import (
	"context"

	"github.com/MKhiriev/deepguard/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// Keys owned by the repositories. They are disjoint; each repository reads
// and writes exactly one of them.
const (
	KeyCurrentUser     = "currentUser"
	KeyRegisteredUsers = "registeredUsers"
	KeyAnalysisHistory = "analysisHistory"
)

// UpdateFunc receives the current value stored under a key (found is false
// when the key is absent) and returns the value to write back. Returning an
// error aborts the update and leaves the stored value untouched.
type UpdateFunc func(value string, found bool) (string, error)

// KeyValueStore is a namespace of string keys holding JSON-serialised values.
//
// Update runs a full read-modify-write cycle on one key as a single unit:
// concurrent Update calls on the same key never lose each other's writes.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Close() error
}

// CredentialRepository persists registered identities under
// [KeyRegisteredUsers]. At most one identity exists per email.
type CredentialRepository interface {
	// ListIdentities returns every stored identity in stored order. Absent or
	// corrupt data yields an empty slice.
	ListIdentities(ctx context.Context) ([]models.User, error)
	// Upsert replaces the identity with the same email in place or appends it.
	// Upsert and Create never write User.Password; an identity with a
	// plaintext password and no hash fails with [ErrPlaintextPassword].
	Upsert(ctx context.Context, user models.User) error
	// Create appends user, failing with [ErrLoginAlreadyExists] when the email
	// is taken. The check and the write happen in one update.
	Create(ctx context.Context, user models.User) error
	// FindByEmail returns the identity with exactly this email.
	FindByEmail(ctx context.Context, email string) (models.User, error)
}

// HistoryRepository persists analysis records under [KeyAnalysisHistory],
// most recent first.
type HistoryRepository interface {
	Append(ctx context.Context, item models.HistoryItem) error
	ListAll(ctx context.Context) ([]models.HistoryItem, error)
	ListForUser(ctx context.Context, userID string) ([]models.HistoryItem, error)
	FindByID(ctx context.Context, id string) (models.HistoryItem, error)
	DeleteByID(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	ClearForUser(ctx context.Context, userID string) error
}

// SessionRepository persists the current identity under [KeyCurrentUser].
// Stored identities never carry a password or password hash.
type SessionRepository interface {
	Load(ctx context.Context) (models.User, bool, error)
	Save(ctx context.Context, user models.User) error
	Clear(ctx context.Context) error
}
