// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/models"
)

// sessionManager is the state machine behind a local client session.
//
// Transitions:
//
//	Unauthenticated --Login/Signup--> Authenticating --ok--> Authenticated
//	                                                 --err-> Unauthenticated
//	Authenticated   --Logout------------------------------> Unauthenticated
//	(start)         --Restore-> Authenticating --> Authenticated | Unauthenticated
type sessionManager struct {
	mu    sync.RWMutex
	state models.SessionState
	user  models.User

	auth     AuthService
	sessions store.SessionRepository
	history  HistoryService

	// latency is the minimum duration of Login and Signup. Zero or negative
	// disables the floor.
	latency time.Duration

	logger *logger.Logger
}

// NewSessionManager constructs a SessionManager in the Unauthenticated
// state. Call Restore to pick up a persisted session.
func NewSessionManager(auth AuthService, sessions store.SessionRepository, history HistoryService, latency time.Duration, logger *logger.Logger) SessionManager {
	return &sessionManager{
		state:    models.Unauthenticated,
		auth:     auth,
		sessions: sessions,
		history:  history,
		latency:  latency,
		logger:   logger,
	}
}

func (m *sessionManager) State() models.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *sessionManager) CurrentUser() (models.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.user, m.state == models.Authenticated
}

func (m *sessionManager) Login(ctx context.Context, email, password string) (models.User, error) {
	return m.authenticate(ctx, "*sessionManager.Login", func(ctx context.Context) (models.User, error) {
		return m.auth.Login(ctx, models.User{Email: email, Password: password})
	})
}

func (m *sessionManager) Signup(ctx context.Context, name, email, password string) (models.User, error) {
	return m.authenticate(ctx, "*sessionManager.Signup", func(ctx context.Context) (models.User, error) {
		return m.auth.RegisterUser(ctx, models.User{Name: name, Email: email, Password: password})
	})
}

func (m *sessionManager) LoginAsync(ctx context.Context, email, password string) <-chan AuthResult {
	return async(func() (models.User, error) { return m.Login(ctx, email, password) })
}

func (m *sessionManager) SignupAsync(ctx context.Context, name, email, password string) <-chan AuthResult {
	return async(func() (models.User, error) { return m.Signup(ctx, name, email, password) })
}

func async(fn func() (models.User, error)) <-chan AuthResult {
	ch := make(chan AuthResult, 1)
	go func() {
		defer close(ch)
		user, err := fn()
		ch <- AuthResult{User: user, Err: err}
	}()
	return ch
}

// authenticate waits out the latency floor before running attempt, so a
// cancelled context fails the call before anything is written.
func (m *sessionManager) authenticate(ctx context.Context, funcName string, attempt func(context.Context) (models.User, error)) (models.User, error) {
	log := logger.FromContext(ctx)

	m.setState(models.Authenticating, models.User{})

	if err := m.waitLatency(ctx); err != nil {
		m.setState(models.Unauthenticated, models.User{})
		return models.User{}, err
	}

	user, err := attempt(ctx)
	if err != nil {
		log.Debug().Err(err).Str("func", funcName).Msg("authentication failed")
		m.setState(models.Unauthenticated, models.User{})
		return models.User{}, err
	}

	user = user.Public()
	if err = m.sessions.Save(ctx, user); err != nil {
		log.Err(err).Str("func", funcName).Msg("error persisting session, keeping it in memory")
	}

	m.setState(models.Authenticated, user)
	log.Info().Str("func", funcName).Str("user_id", user.ID).Msg("authenticated")

	return user, nil
}

func (m *sessionManager) waitLatency(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(m.latency)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (m *sessionManager) Logout(ctx context.Context) {
	log := logger.FromContext(ctx)

	m.mu.Lock()
	user := m.user
	m.state = models.Unauthenticated
	m.user = models.User{}
	m.mu.Unlock()

	if err := m.sessions.Clear(ctx); err != nil {
		log.Err(err).Str("func", "*sessionManager.Logout").Msg("error clearing session slot")
	}
	if err := m.history.PurgeOnLogout(ctx, user.ID); err != nil {
		log.Err(err).Str("func", "*sessionManager.Logout").Msg("error purging history")
	}

	log.Info().Str("func", "*sessionManager.Logout").Str("user_id", user.ID).Msg("logged out")
}

func (m *sessionManager) Restore(ctx context.Context) models.SessionState {
	log := logger.FromContext(ctx)

	m.setState(models.Authenticating, models.User{})

	user, found, err := m.sessions.Load(ctx)
	if err != nil {
		log.Err(err).Str("func", "*sessionManager.Restore").Msg("error loading session slot")
	}
	if err != nil || !found {
		m.setState(models.Unauthenticated, models.User{})
		return models.Unauthenticated
	}

	m.setState(models.Authenticated, user.Public())
	log.Info().Str("func", "*sessionManager.Restore").Str("user_id", user.ID).Msg("session restored")

	return models.Authenticated
}

func (m *sessionManager) setState(state models.SessionState, user models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
	m.user = user
}
