package cache

import (
	"context"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed keys in process memory.
// It does not share state between instances.
type InMemoryIdempotencyStore struct {
	entries *ttlMap[struct{}]
}

// NewInMemoryIdempotencyStore creates a store with a background janitor
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{entries: newTTLMap[struct{}](5 * time.Minute)}
}

// MarkProcessed returns true if the key was not yet marked
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	return s.entries.setIfAbsent(key, struct{}{}, ttl), nil
}

// IsProcessed reports whether a live mark exists
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	_, ok := s.entries.get(key)
	return ok, nil
}

// Close stops the janitor. Safe to call more than once.
func (s *InMemoryIdempotencyStore) Close() error {
	s.entries.stop()
	return nil
}

// Size returns the number of stored keys, expired ones included until swept
func (s *InMemoryIdempotencyStore) Size() int {
	return s.entries.len()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
