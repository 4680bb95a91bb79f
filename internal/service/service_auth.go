package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/deepguard/internal/app"
	"github.com/MKhiriev/deepguard/internal/crypto"
	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/internal/utils"
	"github.com/MKhiriev/deepguard/models"
)

// AuthOptions carries the security parameters of [NewAuthService].
type AuthOptions struct {
	// DemoEnabled accepts the built-in demo credential.
	DemoEnabled bool

	// TokenSignKey, TokenIssuer and TokenDuration configure API tokens. They
	// may be empty for the terminal client, which never issues tokens.
	TokenSignKey  string
	TokenIssuer   string
	TokenDuration time.Duration
}

// authService is the concrete implementation of AuthService.
// It registers identities with argon2id password hashes, verifies logins
// against the credential store, and handles the JWT token lifecycle.
type authService struct {
	// credentials is the data-access layer used to create and look up
	// identities.
	credentials store.CredentialRepository

	// hasher derives and verifies password hashes.
	hasher crypto.PasswordHasher

	// ids assigns identifiers to new identities.
	ids utils.IDGenerator

	demoEnabled bool

	tokenSignKey  string
	tokenIssuer   string
	tokenDuration time.Duration

	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// CredentialRepository.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(credentials store.CredentialRepository, hasher crypto.PasswordHasher, ids utils.IDGenerator, opts AuthOptions, logger *logger.Logger) AuthService {
	return &authService{
		credentials:   credentials,
		hasher:        hasher,
		ids:           ids,
		demoEnabled:   opts.DemoEnabled,
		tokenSignKey:  opts.TokenSignKey,
		tokenIssuer:   opts.TokenIssuer,
		tokenDuration: opts.TokenDuration,
		logger:        logger,
	}
}

// RegisterUser creates a new identity.
//
// Returns the public identity or:
//   - ErrInvalidDataProvided if Email or Password is empty.
//   - a [ValidationError] wrapping store.ErrLoginAlreadyExists if the email
//     is registered, or is the demo email while the demo login is enabled.
//   - a wrapped storage or hashing error.
func (a *authService) RegisterUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if user.Email == "" || user.Password == "" {
		log.Error().Str("func", "*authService.RegisterUser").Str("email", user.Email).Msg("invalid user data provided")
		return models.User{}, ErrInvalidDataProvided
	}
	if a.demoEnabled && user.Email == models.DemoUserEmail {
		return models.User{}, newValidationError(app.MsgUserAlreadyExists, store.ErrLoginAlreadyExists)
	}

	hash, err := a.hasher.Hash(user.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.RegisterUser").Msg("password hashing failed")
		return models.User{}, fmt.Errorf("password hashing failed: %w", err)
	}

	created := models.User{
		ID:           a.ids.Generate(),
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: hash,
	}

	err = a.credentials.Create(ctx, created)
	if errors.Is(err, store.ErrLoginAlreadyExists) {
		log.Info().Str("func", "*authService.RegisterUser").Str("email", user.Email).Msg("email already registered")
		return models.User{}, newValidationError(app.MsgUserAlreadyExists, err)
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.RegisterUser").Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return created.Public(), nil
}

// Login authenticates an identity by exact, case-sensitive email and
// password.
//
// The demo credential is checked before the credential store. A stored
// legacy record holding a plaintext password is compared directly and
// re-hashed after the first successful login.
//
// Every mismatch, including an unknown email, yields the same
// [ValidationError].
func (a *authService) Login(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	if a.demoEnabled && user.Email == models.DemoUserEmail && user.Password == models.DemoUserPassword {
		log.Debug().Str("func", "*authService.Login").Msg("demo login")
		return models.DemoUser(), nil
	}
	if user.Email == "" || user.Password == "" {
		return models.User{}, invalidCredentials()
	}

	found, err := a.credentials.FindByEmail(ctx, user.Email)
	if errors.Is(err, store.ErrNoUserWasFound) {
		log.Debug().Str("func", "*authService.Login").Str("email", user.Email).Msg("no such user")
		return models.User{}, invalidCredentials()
	}
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Str("email", user.Email).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	ok, legacy := a.verify(ctx, found, user.Password)
	if !ok {
		log.Debug().Str("func", "*authService.Login").Str("id", found.ID).Msg("wrong password")
		return models.User{}, invalidCredentials()
	}
	if legacy {
		a.upgradeLegacyPassword(ctx, found, user.Password)
	}

	return found.Public(), nil
}

// GetUser resolves the demo identity without touching the store.
func (a *authService) GetUser(ctx context.Context, userID string) (models.User, error) {
	if userID == models.DemoUserID {
		if !a.demoEnabled {
			return models.User{}, store.ErrNoUserWasFound
		}
		return models.DemoUser(), nil
	}

	users, err := a.credentials.ListIdentities(ctx)
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}
	for _, u := range users {
		if u.ID == userID {
			return u.Public(), nil
		}
	}

	return models.User{}, store.ErrNoUserWasFound
}

// CreateToken issues a signed JWT for the given user.
//
// The token is signed with the configured tokenSignKey, carries the
// configured tokenIssuer as the "iss" claim, and expires after tokenDuration.
func (a *authService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	token, err := utils.GenerateJWTToken(a.tokenIssuer, user.ID, a.tokenDuration, a.tokenSignKey)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return token, nil
}

// ParseToken validates and parses a raw JWT string. Any validation failure
// (expired, wrong issuer, malformed) is normalised to
// ErrTokenIsExpiredOrInvalid.
func (a *authService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	token, err := utils.ValidateAndParseJWTToken(tokenString, a.tokenSignKey, a.tokenIssuer)
	if err != nil {
		return models.Token{}, ErrTokenIsExpiredOrInvalid
	}

	return token, nil
}

// verify reports whether password matches stored, and whether the match was
// against a legacy plaintext password.
func (a *authService) verify(ctx context.Context, stored models.User, password string) (ok, legacy bool) {
	if stored.PasswordHash != "" {
		match, err := a.hasher.Verify(password, stored.PasswordHash)
		if err != nil {
			logger.FromContext(ctx).Warn().Err(err).Str("func", "*authService.verify").
				Str("id", stored.ID).Msg("stored password hash is malformed")
			return false, false
		}
		return match, false
	}

	if stored.Password == "" {
		return false, false
	}
	return subtle.ConstantTimeCompare([]byte(stored.Password), []byte(password)) == 1, true
}

// upgradeLegacyPassword replaces a plaintext password with its hash. A
// failure only costs the upgrade; the login itself has already succeeded.
func (a *authService) upgradeLegacyPassword(ctx context.Context, user models.User, password string) {
	log := logger.FromContext(ctx)

	hash, err := a.hasher.Hash(password)
	if err != nil {
		log.Err(err).Str("func", "*authService.upgradeLegacyPassword").Msg("password hashing failed")
		return
	}

	user.PasswordHash = hash
	user.Password = ""
	if err = a.credentials.Upsert(ctx, user); err != nil {
		log.Err(err).Str("func", "*authService.upgradeLegacyPassword").Str("id", user.ID).Msg("error storing upgraded hash")
		return
	}

	log.Info().Str("func", "*authService.upgradeLegacyPassword").Str("id", user.ID).Msg("legacy password re-hashed")
}
