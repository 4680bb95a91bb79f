package store

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/models"
)

// sessionRepository keeps the identity of the current session under
// [KeyCurrentUser].
type sessionRepository struct {
	kv     KeyValueStore
	logger *logger.Logger
}

// NewSessionRepository constructs a [SessionRepository] over kv.
func NewSessionRepository(kv KeyValueStore, logger *logger.Logger) SessionRepository {
	logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		kv:     kv,
		logger: logger,
	}
}

// Load reports found=false for an empty or corrupt slot.
func (r *sessionRepository) Load(ctx context.Context) (models.User, bool, error) {
	log := logger.FromContext(ctx)

	raw, found, err := r.kv.Get(ctx, KeyCurrentUser)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Load").Msg("error reading session slot")
		return models.User{}, false, err
	}
	if !found || raw == "" {
		return models.User{}, false, nil
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.ID == "" {
		log.Warn().Err(err).Str("func", "*sessionRepository.Load").Msg("session slot is corrupted, ignoring")
		return models.User{}, false, nil
	}

	return user.Public(), true, nil
}

// Save writes the public projection of user; credentials never reach the slot.
func (r *sessionRepository) Save(ctx context.Context, user models.User) error {
	data, err := json.Marshal(user.Public())
	if err != nil {
		return err
	}

	if err := r.kv.Set(ctx, KeyCurrentUser, string(data)); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sessionRepository.Save").Msg("error writing session slot")
		return err
	}

	return nil
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	if err := r.kv.Remove(ctx, KeyCurrentUser); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*sessionRepository.Clear").Msg("error clearing session slot")
		return err
	}

	return nil
}
