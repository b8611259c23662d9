// Package outcome keeps the flat JSON logs of attempted applications.
package outcome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetry = 50 * time.Millisecond

// Store is a JSON array on disk. Every Append rereads the whole array,
// adds one record and rewrites it; prior records are never changed.
type Store[T any] struct {
	path string
	lock *flock.Flock
}

func NewStore[T any](path string) *Store[T] {
	return &Store[T]{path: path, lock: flock.New(path + ".lock")}
}

func (s *Store[T]) Path() string { return s.path }

// ReadAll returns every record. A missing file is an empty log.
func (s *Store[T]) ReadAll() ([]T, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return []T{}, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return records, nil
}

// Append adds rec under an exclusive file lock. A log that cannot be parsed
// is left untouched and reported.
func (s *Store[T]) Append(ctx context.Context, rec T) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	locked, err := s.lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock %s: %w", s.path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", s.path)
	}
	defer s.lock.Unlock()

	records, err := s.ReadAll()
	if err != nil {
		return err
	}
	records = append(records, rec)

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}
