package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/mock"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ── RegisterUser ─────────────────────────────────────────────────────────────

func TestAuthService_RegisterUser_HashesPassword(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)

	user, err := s.auth.RegisterUser(ctx, models.User{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)

	assert.Equal(t, models.User{ID: "id-1", Name: "Alice", Email: "alice@x.io"}, user)

	stored, err := s.storages.CredentialRepository.FindByEmail(ctx, "alice@x.io")
	require.NoError(t, err)
	assert.Empty(t, stored.Password)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.Contains(t, stored.PasswordHash, "$argon2id$")
}

func TestAuthService_RegisterUser_Duplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)

	_, err := s.auth.RegisterUser(ctx, models.User{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.auth.RegisterUser(ctx, models.User{Name: "Bob", Email: "alice@x.io", Password: "other12"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)
	assert.Equal(t, "User with this email already exists", err.Error())

	users, err := s.storages.CredentialRepository.ListIdentities(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Alice", users[0].Name)
}

func TestAuthService_RegisterUser_DemoEmailReserved(t *testing.T) {
	s := newTestStack(t, models.LogoutClearAll)

	_, err := s.auth.RegisterUser(context.Background(),
		models.User{Name: "Mallory", Email: models.DemoUserEmail, Password: "whatever"})
	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)
}

func TestAuthService_RegisterUser_DemoEmailFreeWhenDemoDisabled(t *testing.T) {
	storages := store.NewStoragesFromKV(store.NewMemoryStore(), logger.Nop())
	svc := NewAuthService(storages.CredentialRepository, fastHasher(), &sequentialIDs{}, AuthOptions{}, logger.Nop())

	user, err := svc.RegisterUser(context.Background(),
		models.User{Name: "Dee", Email: models.DemoUserEmail, Password: "whatever"})
	require.NoError(t, err)
	assert.Equal(t, models.DemoUserEmail, user.Email)
}

func TestAuthService_RegisterUser_EmptyFields(t *testing.T) {
	s := newTestStack(t, models.LogoutClearAll)

	_, err := s.auth.RegisterUser(context.Background(), models.User{Name: "Alice", Email: "alice@x.io"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_RegisterUser_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credentials := mock.NewMockCredentialRepository(ctrl)
	ids := mock.NewMockIDGenerator(ctrl)
	hasher := mock.NewMockPasswordHasher(ctrl)
	svc := NewAuthService(credentials, hasher, ids, AuthOptions{}, logger.Nop())

	hasher.EXPECT().Hash("secret1").Return("hash", nil)
	ids.EXPECT().Generate().Return("u-1")
	credentials.EXPECT().Create(gomock.Any(), models.User{ID: "u-1", Name: "Alice", Email: "alice@x.io", PasswordHash: "hash"}).
		Return(errors.New("disk full"))

	_, err := svc.RegisterUser(context.Background(), models.User{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	var ve *ValidationError
	assert.False(t, errors.As(err, &ve))
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)
	_, err := s.auth.RegisterUser(ctx, models.User{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)

	user, err := s.auth.Login(ctx, models.User{Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.Empty(t, user.PasswordHash)

	for _, attempt := range []models.User{
		{Email: "alice@x.io", Password: "wrong"},
		{Email: "Alice@x.io", Password: "secret1"},
		{Email: "nobody@x.io", Password: "secret1"},
		{Email: "", Password: ""},
	} {
		_, err = s.auth.Login(ctx, attempt)
		require.Error(t, err, attempt.Email)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		assert.Equal(t, "Invalid email or password", err.Error())
	}
}

func TestAuthService_Login_Demo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// the credential store must not be consulted for the demo credential
	credentials := mock.NewMockCredentialRepository(ctrl)
	svc := NewAuthService(credentials, fastHasher(), &sequentialIDs{}, AuthOptions{DemoEnabled: true}, logger.Nop())

	user, err := svc.Login(context.Background(), models.User{Email: "demo@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, models.User{ID: "demo-user", Name: "Demo User", Email: "demo@example.com"}, user)
}

func TestAuthService_Login_DemoDisabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credentials := mock.NewMockCredentialRepository(ctrl)
	credentials.EXPECT().FindByEmail(gomock.Any(), models.DemoUserEmail).Return(models.User{}, store.ErrNoUserWasFound)
	svc := NewAuthService(credentials, fastHasher(), &sequentialIDs{}, AuthOptions{}, logger.Nop())

	_, err := svc.Login(context.Background(), models.User{Email: models.DemoUserEmail, Password: models.DemoUserPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_LegacyPlaintextIsUpgraded(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)
	require.NoError(t, s.storages.KeyValueStore.Set(ctx, store.KeyRegisteredUsers,
		`[{"id":"legacy-1","name":"Old","email":"old@x.io","password":"secret1"}]`))

	_, err := s.auth.Login(ctx, models.User{Email: "old@x.io", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := s.auth.Login(ctx, models.User{Email: "old@x.io", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "legacy-1", user.ID)

	stored, err := s.storages.CredentialRepository.FindByEmail(ctx, "old@x.io")
	require.NoError(t, err)
	assert.Empty(t, stored.Password)
	assert.NotEmpty(t, stored.PasswordHash)

	_, err = s.auth.Login(ctx, models.User{Email: "old@x.io", Password: "secret1"})
	assert.NoError(t, err)
}

func TestAuthService_Login_MalformedHash(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)
	require.NoError(t, s.storages.CredentialRepository.Upsert(ctx,
		models.User{ID: "1", Email: "bad@x.io", PasswordHash: "not-a-hash"}))

	_, err := s.auth.Login(ctx, models.User{Email: "bad@x.io", Password: "anything"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	credentials := mock.NewMockCredentialRepository(ctrl)
	credentials.EXPECT().FindByEmail(gomock.Any(), "alice@x.io").Return(models.User{}, errors.New("connection reset"))
	svc := NewAuthService(credentials, fastHasher(), &sequentialIDs{}, AuthOptions{}, logger.Nop())

	_, err := svc.Login(context.Background(), models.User{Email: "alice@x.io", Password: "secret1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

// ── GetUser ──────────────────────────────────────────────────────────────────

func TestAuthService_GetUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)
	alice, err := s.auth.RegisterUser(ctx, models.User{Name: "Alice", Email: "alice@x.io", Password: "secret1"})
	require.NoError(t, err)

	got, err := s.auth.GetUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, alice, got)

	got, err = s.auth.GetUser(ctx, models.DemoUserID)
	require.NoError(t, err)
	assert.True(t, got.IsDemo())

	_, err = s.auth.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNoUserWasFound)
}

// ── tokens ───────────────────────────────────────────────────────────────────

func TestAuthService_TokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)

	token, err := s.auth.CreateToken(ctx, models.User{ID: "u-42"})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := s.auth.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, "u-42", parsed.UserID)

	_, err = s.auth.ParseToken(ctx, token.SignedString+"x")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestAuthService_ParseToken_WrongKey(t *testing.T) {
	ctx := context.Background()
	issuer := NewAuthService(nil, nil, nil, AuthOptions{TokenSignKey: "a", TokenIssuer: "i", TokenDuration: time.Hour}, logger.Nop())
	verifier := NewAuthService(nil, nil, nil, AuthOptions{TokenSignKey: "b", TokenIssuer: "i", TokenDuration: time.Hour}, logger.Nop())

	token, err := issuer.CreateToken(ctx, models.User{ID: "u-1"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(ctx, token.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
