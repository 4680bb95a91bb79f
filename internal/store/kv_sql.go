package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const sqlUpdateAttempts = 3

// sqlStore is the database-backed [KeyValueStore] shared by the PostgreSQL
// and SQLite connections. A NULL value is a reserved, not yet written key.
type sqlStore struct {
	db      *DB
	queries kvQueries
	now     func() time.Time
}

// NewSQLStore wraps an open, migrated connection.
func NewSQLStore(db *DB) KeyValueStore {
	return &sqlStore{
		db:      db,
		queries: newKVQueries(db.dialect),
		now:     time.Now,
	}
}

func (s *sqlStore) Get(ctx context.Context, key string) (string, bool, error) {
	query, args, err := s.queries.selectValue(key, false)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value sql.NullString
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		s.db.logger.Err(err).Str("func", "*sqlStore.Get").Str("key", key).Msg("error selecting value")
		return "", false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value.String, value.Valid, nil
}

func (s *sqlStore) Set(ctx context.Context, key, value string) error {
	query, args, err := s.queries.upsertValue(key, value, s.now().UTC())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.db.logger.Err(err).Str("func", "*sqlStore.Set").Str("key", key).Msg("error upserting value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqlStore) Remove(ctx context.Context, key string) error {
	query, args, err := s.queries.deleteKey(key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		s.db.logger.Err(err).Str("func", "*sqlStore.Remove").Str("key", key).Msg("error deleting value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Update retries the whole transaction when the driver reports a transient
// failure (serialization, deadlock, busy database).
func (s *sqlStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	var err error
	for attempt := 1; attempt <= sqlUpdateAttempts; attempt++ {
		err = s.updateOnce(ctx, key, fn)
		if err == nil || s.db.errorClassificator == nil ||
			s.db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		s.db.logger.Warn().Err(err).Str("func", "*sqlStore.Update").
			Int("attempt", attempt).Msg("retrying key update")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * 20 * time.Millisecond):
		}
	}

	return err
}

func (s *sqlStore) updateOnce(ctx context.Context, key string, fn UpdateFunc) error {
	log := s.db.logger

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", "*sqlStore.updateOnce").Msg("error beginning transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	now := s.now().UTC()

	reserve, args, err := s.queries.reserveKey(key, now)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err := tx.ExecContext(ctx, reserve, args...); err != nil {
		log.Err(err).Str("func", "*sqlStore.updateOnce").Msg("error reserving key")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	selectQuery, args, err := s.queries.selectValue(key, true)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	var current sql.NullString
	if err := tx.QueryRowContext(ctx, selectQuery, args...).Scan(&current); err != nil {
		log.Err(err).Str("func", "*sqlStore.updateOnce").Msg("error scanning current value")
		return fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	next, err := fn(current.String, current.Valid)
	if err != nil {
		return err
	}

	upsert, args, err := s.queries.upsertValue(key, next, now)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err := tx.ExecContext(ctx, upsert, args...); err != nil {
		log.Err(err).Str("func", "*sqlStore.updateOnce").Msg("error writing value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err := tx.Commit(); err != nil {
		log.Err(err).Str("func", "*sqlStore.updateOnce").Msg("error committing transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
