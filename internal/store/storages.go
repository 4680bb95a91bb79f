package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/deepguard/internal/config"
	"github.com/MKhiriev/deepguard/internal/logger"
)

// Storages groups the repositories sharing one [KeyValueStore].
type Storages struct {
	KeyValueStore        KeyValueStore
	CredentialRepository CredentialRepository
	HistoryRepository    HistoryRepository
	SessionRepository    SessionRepository
}

// NewStorages opens the backend selected by cfg.DSN and wires the
// repositories over it:
//   - "memory"                          in-process map
//   - "file:///path" or a bare path     JSON document guarded by a file lock
//   - "sqlite:///path"                  SQLite database, migrated on open
//   - "postgres://..."                  PostgreSQL database, migrated on open
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("func", "NewStorages").Msg("creating new storages...")

	kv, err := openKeyValueStore(ctx, cfg.DSN, log)
	if err != nil {
		return nil, err
	}

	return NewStoragesFromKV(kv, log), nil
}

// NewStoragesFromKV wires the repositories over an already open store.
func NewStoragesFromKV(kv KeyValueStore, log *logger.Logger) *Storages {
	return &Storages{
		KeyValueStore:        kv,
		CredentialRepository: NewCredentialRepository(kv, log),
		HistoryRepository:    NewHistoryRepository(kv, log),
		SessionRepository:    NewSessionRepository(kv, log),
	}
}

// Close releases the underlying backend.
func (s *Storages) Close() error {
	return s.KeyValueStore.Close()
}

func openKeyValueStore(ctx context.Context, dsn string, log *logger.Logger) (KeyValueStore, error) {
	switch {
	case dsn == "memory":
		return NewMemoryStore(), nil

	case strings.HasPrefix(dsn, "file://"):
		return NewFileStore(strings.TrimPrefix(dsn, "file://"), log)

	case strings.HasPrefix(dsn, "sqlite://"):
		db, err := NewConnectSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"), log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		return migrated(db)

	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := NewConnectPostgres(ctx, dsn, log)
		if err != nil {
			return nil, fmt.Errorf("postgres connection error: %w", err)
		}
		return migrated(db)

	case dsn != "" && !strings.Contains(dsn, "://"):
		return NewFileStore(dsn, log)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
}

func migrated(db *DB) (KeyValueStore, error) {
	if err := db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return NewSQLStore(db), nil
}
