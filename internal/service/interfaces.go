package service

import (
	"context"

	"github.com/MKhiriev/deepguard/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/servicemock/service_mock.go -package=servicemock

// AuthService registers and authenticates identities against the credential
// store and issues API tokens.
type AuthService interface {
	// RegisterUser creates an identity from user.Name, user.Email and the
	// plaintext user.Password. The returned identity carries no credentials.
	RegisterUser(ctx context.Context, user models.User) (models.User, error)
	// Login checks the demo credential first, then the credential store.
	Login(ctx context.Context, user models.User) (models.User, error)
	// GetUser returns the public identity with the given id.
	GetUser(ctx context.Context, userID string) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AuthResult is delivered by the asynchronous session calls.
type AuthResult struct {
	User models.User
	Err  error
}

// SessionManager holds the single current identity of a local client and
// mirrors it to the session slot.
type SessionManager interface {
	State() models.SessionState
	CurrentUser() (models.User, bool)

	// Login and Signup block until the attempt completes and the configured
	// latency floor has passed. On failure the state is Unauthenticated and
	// nothing is persisted.
	Login(ctx context.Context, email, password string) (models.User, error)
	Signup(ctx context.Context, name, email, password string) (models.User, error)

	// LoginAsync and SignupAsync run the blocking call in a goroutine and
	// deliver exactly one result on the returned channel.
	LoginAsync(ctx context.Context, email, password string) <-chan AuthResult
	SignupAsync(ctx context.Context, name, email, password string) <-chan AuthResult

	// Logout always succeeds. It clears the session slot and purges history
	// according to the logout policy.
	Logout(ctx context.Context)

	// Restore resolves the initial state from the session slot.
	Restore(ctx context.Context) models.SessionState
}

// HistoryService manages analysis records on behalf of one identity.
type HistoryService interface {
	// Record appends a record for userID. Without a user it does nothing and
	// returns a nil item.
	Record(ctx context.Context, userID, filename string, result models.AnalysisResult) (*models.HistoryItem, error)
	ListForUser(ctx context.Context, userID string) ([]models.HistoryItem, error)
	// Get and Delete only see records owned by userID; anything else is
	// reported as [store.ErrHistoryItemNotFound].
	Get(ctx context.Context, userID, id string) (models.HistoryItem, error)
	Delete(ctx context.Context, userID, id string) error
	// PurgeOnLogout applies the logout history policy for userID.
	PurgeOnLogout(ctx context.Context, userID string) error
}

// DetectionService runs analyses and records successful ones.
type DetectionService interface {
	// Start validates media and launches an analysis for userID.
	Start(ctx context.Context, userID string, media models.MediaFile) (*AnalysisTask, error)
	// Analyze runs an analysis to completion.
	Analyze(ctx context.Context, userID string, media models.MediaFile) (models.AnalysisResult, *models.HistoryItem, error)
	// Rerun analyses media again under the filename of a stored record.
	Rerun(ctx context.Context, userID, historyID string, media models.MediaFile) (*AnalysisTask, error)
}

// HealthService tracks the last observed status of the detection backend.
type HealthService interface {
	// Check probes the backend and caches the outcome.
	Check(ctx context.Context) models.BackendStatus
	// Status returns the cached status, probing first if none is known yet.
	Status(ctx context.Context) models.BackendStatus
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
