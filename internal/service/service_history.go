package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/internal/utils"
	"github.com/MKhiriev/deepguard/models"
)

type historyService struct {
	history store.HistoryRepository
	ids     utils.IDGenerator
	policy  models.LogoutHistoryPolicy
	now     func() time.Time

	logger *logger.Logger
}

// NewHistoryService constructs a HistoryService. An empty policy means
// [models.LogoutClearAll].
func NewHistoryService(history store.HistoryRepository, ids utils.IDGenerator, policy models.LogoutHistoryPolicy, logger *logger.Logger) HistoryService {
	if policy == "" {
		policy = models.LogoutClearAll
	}

	return &historyService{
		history: history,
		ids:     ids,
		policy:  policy,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *historyService) Record(ctx context.Context, userID, filename string, result models.AnalysisResult) (*models.HistoryItem, error) {
	log := logger.FromContext(ctx)

	if userID == "" {
		log.Debug().Err(ErrMissingSession).Str("func", "*historyService.Record").Msg("skipping history record")
		return nil, nil
	}

	item := models.HistoryItem{
		ID:         s.ids.Generate(),
		Filename:   filename,
		UploadTime: s.now().UTC(),
		Result:     result,
		UserID:     userID,
	}
	if err := s.history.Append(ctx, item); err != nil {
		return nil, fmt.Errorf("error recording analysis: %w", err)
	}

	log.Debug().Str("func", "*historyService.Record").Str("id", item.ID).Str("user_id", userID).Msg("analysis recorded")
	return &item, nil
}

func (s *historyService) ListForUser(ctx context.Context, userID string) ([]models.HistoryItem, error) {
	if userID == "" {
		return []models.HistoryItem{}, nil
	}

	return s.history.ListForUser(ctx, userID)
}

func (s *historyService) Get(ctx context.Context, userID, id string) (models.HistoryItem, error) {
	item, err := s.history.FindByID(ctx, id)
	if err != nil {
		return models.HistoryItem{}, err
	}
	if userID == "" || item.UserID != userID {
		return models.HistoryItem{}, store.ErrHistoryItemNotFound
	}

	return item, nil
}

func (s *historyService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}

	return s.history.DeleteByID(ctx, id)
}

func (s *historyService) PurgeOnLogout(ctx context.Context, userID string) error {
	switch s.policy {
	case models.LogoutKeep:
		return nil
	case models.LogoutClearOwn:
		if userID == "" {
			return nil
		}
		return s.history.ClearForUser(ctx, userID)
	default:
		return s.history.Clear(ctx)
	}
}
