package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/niksmo/storefront/internal/core/port"
)

var _ port.RecordStorage = (*MemoryStorage)(nil)

type recordKey struct {
	profile string
	key     string
}

// MemoryStorage keeps records in process memory. Safe for concurrent use.
type MemoryStorage struct {
	mu      sync.RWMutex
	records map[recordKey][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{records: make(map[recordKey][]byte)}
}

func (s *MemoryStorage) Get(
	ctx context.Context, profile, key string,
) ([]byte, error) {
	const op = "MemoryStorage.Get"

	if err := s.check(ctx, profile, key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.records[recordKey{profile, key}]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return append([]byte(nil), v...), nil
}

func (s *MemoryStorage) Set(
	ctx context.Context, profile, key string, value []byte,
) error {
	const op = "MemoryStorage.Set"

	if err := s.check(ctx, profile, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[recordKey{profile, key}] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStorage) Delete(ctx context.Context, profile, key string) error {
	const op = "MemoryStorage.Delete"

	if err := s.check(ctx, profile, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.records, recordKey{profile, key})
	return nil
}

func (s *MemoryStorage) Ping(context.Context) error {
	return nil
}

func (s *MemoryStorage) Close() error {
	return nil
}

func (s *MemoryStorage) check(ctx context.Context, profile, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return checkRecord(profile, key)
}
