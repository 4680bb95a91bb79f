package store

import (
	"context"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/MKhiriev/deepguard/models"
)

// historyRepository stores every analysis record, of every user, as one JSON
// array under [KeyAnalysisHistory], newest first.
type historyRepository struct {
	kv     KeyValueStore
	logger *logger.Logger
}

// NewHistoryRepository constructs a [HistoryRepository] over kv.
func NewHistoryRepository(kv KeyValueStore, logger *logger.Logger) HistoryRepository {
	logger.Debug().Msg("creating history repository")
	return &historyRepository{
		kv:     kv,
		logger: logger,
	}
}

func (r *historyRepository) Append(ctx context.Context, item models.HistoryItem) error {
	err := r.kv.Update(ctx, KeyAnalysisHistory, func(raw string, found bool) (string, error) {
		items := r.decode(ctx, raw, found)

		next := make([]models.HistoryItem, 0, len(items)+1)
		next = append(next, item)
		next = append(next, items...)

		return encodeList(next)
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*historyRepository.Append").Msg("error appending history item")
		return err
	}

	return nil
}

func (r *historyRepository) ListAll(ctx context.Context) ([]models.HistoryItem, error) {
	raw, found, err := r.kv.Get(ctx, KeyAnalysisHistory)
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*historyRepository.ListAll").Msg("error reading history")
		return nil, err
	}

	return r.decode(ctx, raw, found), nil
}

func (r *historyRepository) ListForUser(ctx context.Context, userID string) ([]models.HistoryItem, error) {
	items, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	return models.FilterByUser(items, userID), nil
}

func (r *historyRepository) FindByID(ctx context.Context, id string) (models.HistoryItem, error) {
	items, err := r.ListAll(ctx)
	if err != nil {
		return models.HistoryItem{}, err
	}

	for _, item := range items {
		if item.ID == id {
			return item, nil
		}
	}

	return models.HistoryItem{}, ErrHistoryItemNotFound
}

// DeleteByID removes every record with this id. Deleting an unknown id is
// not an error.
func (r *historyRepository) DeleteByID(ctx context.Context, id string) error {
	return r.removeWhere(ctx, "*historyRepository.DeleteByID", func(item models.HistoryItem) bool {
		return item.ID == id
	})
}

// Clear drops the whole collection for every user.
func (r *historyRepository) Clear(ctx context.Context) error {
	if err := r.kv.Remove(ctx, KeyAnalysisHistory); err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*historyRepository.Clear").Msg("error clearing history")
		return err
	}

	return nil
}

// ClearForUser drops only the records owned by userID.
func (r *historyRepository) ClearForUser(ctx context.Context, userID string) error {
	return r.removeWhere(ctx, "*historyRepository.ClearForUser", func(item models.HistoryItem) bool {
		return item.UserID == userID
	})
}

func (r *historyRepository) removeWhere(ctx context.Context, funcName string, match func(models.HistoryItem) bool) error {
	err := r.kv.Update(ctx, KeyAnalysisHistory, func(raw string, found bool) (string, error) {
		items := r.decode(ctx, raw, found)

		kept := items[:0]
		for _, item := range items {
			if !match(item) {
				kept = append(kept, item)
			}
		}

		return encodeList(kept)
	})
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", funcName).Msg("error removing history items")
		return err
	}

	return nil
}

func (r *historyRepository) decode(ctx context.Context, raw string, found bool) []models.HistoryItem {
	items, err := decodeList[models.HistoryItem](raw, found)
	if err != nil {
		logger.FromContext(ctx).Warn().Err(err).Str("func", "*historyRepository.decode").Msg("history is corrupted, treating as empty")
	}
	return items
}
