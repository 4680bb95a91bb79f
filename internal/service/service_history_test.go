package service

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/deepguard/internal/store"
	"github.com/MKhiriev/deepguard/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_RecordAndListPerUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)

	first := s.record(t, "u1", "a.mp4")
	s.record(t, "u2", "b.mp4")
	third := s.record(t, "u1", "c.wav")

	u1, err := s.history.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, u1, 2)
	assert.Equal(t, third.ID, u1[0].ID, "most recent first")
	assert.Equal(t, first.ID, u1[1].ID)

	u2, err := s.history.ListForUser(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, u2, 1)
	assert.Equal(t, "b.mp4", u2[0].Filename)

	none, err := s.history.ListForUser(ctx, "")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestHistoryService_RecordWithoutSessionIsNoop(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)

	item, err := s.history.Record(ctx, "", "a.mp4", models.AnalysisResult{Verdict: models.VerdictFake})
	require.NoError(t, err)
	assert.Nil(t, item)

	all, err := s.storages.HistoryRepository.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHistoryService_RecordStampsUTCTime(t *testing.T) {
	s := newTestStack(t, models.LogoutClearAll)
	fixed := time.Date(2026, 3, 1, 12, 30, 0, 123456789, time.FixedZone("X", 3600))
	s.history.(*historyService).now = func() time.Time { return fixed }

	item := s.record(t, "u1", "a.mp4")
	assert.True(t, item.UploadTime.Equal(fixed))
	assert.Equal(t, time.UTC, item.UploadTime.Location())

	stored, err := s.storages.HistoryRepository.FindByID(context.Background(), item.ID)
	require.NoError(t, err)
	assert.True(t, stored.UploadTime.Equal(fixed), "nanoseconds survive persistence")
}

func TestHistoryService_GetAndDeleteOnlyOwn(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearAll)
	mine := s.record(t, "u1", "a.mp4")
	theirs := s.record(t, "u2", "b.mp4")

	got, err := s.history.Get(ctx, "u1", mine.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.mp4", got.Filename)

	_, err = s.history.Get(ctx, "u1", theirs.ID)
	assert.ErrorIs(t, err, store.ErrHistoryItemNotFound)

	assert.ErrorIs(t, s.history.Delete(ctx, "u1", theirs.ID), store.ErrHistoryItemNotFound)
	require.NoError(t, s.history.Delete(ctx, "u1", mine.ID))
	assert.ErrorIs(t, s.history.Delete(ctx, "u1", mine.ID), store.ErrHistoryItemNotFound)

	all, err := s.storages.HistoryRepository.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, theirs.ID, all[0].ID)
}

func TestHistoryService_PurgeOnLogoutDefaultsToGlobal(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, "")
	s.record(t, "u1", "a.mp4")
	s.record(t, "u2", "b.mp4")

	require.NoError(t, s.history.PurgeOnLogout(ctx, "u1"))

	all, err := s.storages.HistoryRepository.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestHistoryService_PurgeOwnWithoutUser(t *testing.T) {
	ctx := context.Background()
	s := newTestStack(t, models.LogoutClearOwn)
	s.record(t, "u1", "a.mp4")

	require.NoError(t, s.history.PurgeOnLogout(ctx, ""))

	all, err := s.storages.HistoryRepository.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
