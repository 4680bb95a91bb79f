// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/models"
)

// credentialRepository stores registered identities as a JSON array under
// [KeyRegisteredUsers].
//
// All methods obtain a context-scoped logger via [logger.FromContext].
type credentialRepository struct {
	kv     KeyValueStore
	logger *logger.Logger
}

// NewCredentialRepository constructs a [CredentialRepository] over kv.
func NewCredentialRepository(kv KeyValueStore, logger *logger.Logger) CredentialRepository {
	logger.Debug().Msg("creating credential repository")
	return &credentialRepository{
		kv:     kv,
		logger: logger,
	}
}

// ListIdentities never surfaces corruption: a damaged collection is logged
// and reported as empty.
func (r *credentialRepository) ListIdentities(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx)

	raw, found, err := r.kv.Get(ctx, KeyRegisteredUsers)
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.ListIdentities").Msg("error reading identities")
		return nil, err
	}

	users, err := decodeList[models.User](raw, found)
	if err != nil {
		log.Warn().Err(err).Str("func", "*credentialRepository.ListIdentities").Msg("identities are corrupted, treating as empty")
	}

	return users, nil
}

// Upsert replaces the identity whose email matches in place, keeping its
// index, or appends it.
func (r *credentialRepository) Upsert(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	user, err := forStorage(user)
	if err != nil {
		log.Error().Str("func", "*credentialRepository.Upsert").Str("id", user.ID).Msg("identity has no password hash")
		return err
	}

	err = r.kv.Update(ctx, KeyRegisteredUsers, func(raw string, found bool) (string, error) {
		users := r.decodeForWrite(ctx, raw, found)

		replaced := false
		for i := range users {
			if users[i].Email == user.Email {
				users[i] = user
				replaced = true
				break
			}
		}
		if !replaced {
			users = append(users, user)
		}

		return encodeList(users)
	})
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.Upsert").Msg("error saving identity")
		return err
	}

	return nil
}

// Create appends user unless its email is already registered. The
// uniqueness check and the write run inside one key update.
func (r *credentialRepository) Create(ctx context.Context, user models.User) error {
	log := logger.FromContext(ctx)

	user, err := forStorage(user)
	if err != nil {
		log.Error().Str("func", "*credentialRepository.Create").Str("id", user.ID).Msg("identity has no password hash")
		return err
	}

	err = r.kv.Update(ctx, KeyRegisteredUsers, func(raw string, found bool) (string, error) {
		users := r.decodeForWrite(ctx, raw, found)

		for _, u := range users {
			if u.Email == user.Email {
				return "", ErrLoginAlreadyExists
			}
		}

		return encodeList(append(users, user))
	})
	if errors.Is(err, ErrLoginAlreadyExists) {
		log.Debug().Str("func", "*credentialRepository.Create").Msg("email already registered")
		return err
	}
	if err != nil {
		log.Err(err).Str("func", "*credentialRepository.Create").Msg("error creating identity")
		return err
	}

	return nil
}

// forStorage drops the legacy plaintext field. An identity that carries a
// plaintext password but no hash is rejected with [ErrPlaintextPassword].
func forStorage(user models.User) (models.User, error) {
	if user.Password != "" && user.PasswordHash == "" {
		return user, ErrPlaintextPassword
	}
	user.Password = ""
	return user, nil
}

// FindByEmail performs an exact, case-sensitive match.
func (r *credentialRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	users, err := r.ListIdentities(ctx)
	if err != nil {
		return models.User{}, err
	}

	for _, u := range users {
		if u.Email == email {
			return u, nil
		}
	}

	return models.User{}, ErrNoUserWasFound
}

func (r *credentialRepository) decodeForWrite(ctx context.Context, raw string, found bool) []models.User {
	users, err := decodeList[models.User](raw, found)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("func", "*credentialRepository.decodeForWrite").
			Msg("identities are corrupted, overwriting")
	}
	return users
}
