// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/MKhiriev/deepguard/internal/logger"
	"github.com/gofrs/flock"
)

const fileLockRetryDelay = 10 * time.Millisecond

// fileStore keeps every key in a single JSON object on disk. Writes go to a
// temporary file that is renamed over the document.
//
// The in-process mutex serialises goroutines; the flock on "<path>.lock"
// serialises processes sharing the same document (two terminals).
type fileStore struct {
	path   string
	mu     sync.Mutex
	lock   *flock.Flock
	logger *logger.Logger
	closed bool
}

// NewFileStore opens (or lazily creates) a JSON document at path.
func NewFileStore(path string, log *logger.Logger) (KeyValueStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		log.Err(err).Str("func", "NewFileStore").Msg("error creating state directory")
		return nil, fmt.Errorf("%w: %w", ErrWritingFile, err)
	}

	log.Debug().Str("func", "NewFileStore").Str("path", path).Msg("file store opened")
	return &fileStore{
		path:   path,
		lock:   flock.New(path + ".lock"),
		logger: log,
	}, nil
}

func (f *fileStore) Get(ctx context.Context, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := f.withLock(ctx, true, func(doc map[string]string) (bool, error) {
		value, found = doc[key]
		return false, nil
	})

	return value, found, err
}

func (f *fileStore) Set(ctx context.Context, key, value string) error {
	return f.withLock(ctx, false, func(doc map[string]string) (bool, error) {
		doc[key] = value
		return true, nil
	})
}

func (f *fileStore) Remove(ctx context.Context, key string) error {
	return f.withLock(ctx, false, func(doc map[string]string) (bool, error) {
		if _, ok := doc[key]; !ok {
			return false, nil
		}
		delete(doc, key)
		return true, nil
	})
}

func (f *fileStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	return f.withLock(ctx, false, func(doc map[string]string) (bool, error) {
		current, found := doc[key]
		next, err := fn(current, found)
		if err != nil {
			return false, err
		}
		doc[key] = next
		return true, nil
	})
}

func (f *fileStore) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	return f.lock.Close()
}

// withLock loads the document under the file lock, runs fn and persists the
// document when fn reports a change.
func (f *fileStore) withLock(ctx context.Context, shared bool, fn func(doc map[string]string) (bool, error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrStoreClosed
	}

	var (
		locked bool
		err    error
	)
	if shared {
		locked, err = f.lock.TryRLockContext(ctx, fileLockRetryDelay)
	} else {
		locked, err = f.lock.TryLockContext(ctx, fileLockRetryDelay)
	}
	if err != nil || !locked {
		f.logger.Err(err).Str("func", "*fileStore.withLock").Msg("error acquiring file lock")
		return errors.Join(ErrLockingFile, err)
	}
	defer func() {
		if unlockErr := f.lock.Unlock(); unlockErr != nil {
			f.logger.Err(unlockErr).Str("func", "*fileStore.withLock").Msg("error releasing file lock")
		}
	}()

	doc, err := f.read()
	if err != nil {
		return err
	}

	changed, err := fn(doc)
	if err != nil || !changed {
		return err
	}

	return f.write(doc)
}

func (f *fileStore) read() (map[string]string, error) {
	doc := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		f.logger.Err(err).Str("func", "*fileStore.read").Msg("error reading state file")
		return nil, fmt.Errorf("%w: %w", ErrReadingFile, err)
	}
	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		// a damaged document behaves like an empty one; the next write replaces it
		f.logger.Warn().Err(err).Str("func", "*fileStore.read").Msg("state file is corrupted, starting empty")
		return make(map[string]string), nil
	}

	return doc, nil
}

func (f *fileStore) write(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		f.logger.Err(err).Str("func", "*fileStore.write").Msg("error creating temp file")
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(data); err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, f.path)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		f.logger.Err(err).Str("func", "*fileStore.write").Msg("error writing state file")
		return fmt.Errorf("%w: %w", ErrWritingFile, err)
	}

	return nil
}
