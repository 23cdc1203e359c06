package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pulosarok/desa/internal/domain/shared"
	"github.com/redis/go-redis/v9"
)

const idempotencyKeyPrefix = "desa:event:"

// NewIdempotencyStore returns a Redis store when client is set, otherwise an in-process one
func NewIdempotencyStore(client *redis.Client) shared.IdempotencyStore {
	if client == nil {
		return NewMemoryIdempotencyStore()
	}
	return NewRedisIdempotencyStore(client)
}

// MemoryIdempotencyStore keeps processed event ids in a map.
// It does not share state between processes.
type MemoryIdempotencyStore struct {
	mu        sync.Mutex
	entries   map[string]time.Time
	clock     func() time.Time
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewMemoryIdempotencyStore creates the store and starts its sweeper
func NewMemoryIdempotencyStore() *MemoryIdempotencyStore {
	s := &MemoryIdempotencyStore{
		entries: make(map[string]time.Time),
		clock:   time.Now,
		stopCh:  make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanupLoop()
	return s
}

// MarkProcessed marks eventID until ttl passes
func (s *MemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if exp, ok := s.entries[eventID]; ok && now.Before(exp) {
		return false, nil
	}
	s.entries[eventID] = now.Add(ttl)
	return true, nil
}

// IsProcessed reports whether eventID is marked and not expired
func (s *MemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.entries[eventID]
	return ok && s.clock().Before(exp), nil
}

// Close stops the sweeper. Safe to call more than once.
func (s *MemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
	})
	return nil
}

// Size returns the number of stored ids
func (s *MemoryIdempotencyStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryIdempotencyStore) cleanupLoop() {
	defer s.wg.Done()
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

func (s *MemoryIdempotencyStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	for id, exp := range s.entries {
		if now.After(exp) {
			delete(s.entries, id)
		}
	}
}

// RedisIdempotencyStore marks events with SETNX so all instances agree
type RedisIdempotencyStore struct {
	client *redis.Client
}

// NewRedisIdempotencyStore wraps an existing client
func NewRedisIdempotencyStore(client *redis.Client) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{client: client}
}

// MarkProcessed sets the marker only if it is absent
func (s *RedisIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, idempotencyKeyPrefix+eventID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark event %s: %w", eventID, err)
	}
	return ok, nil
}

// IsProcessed checks for the marker
func (s *RedisIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	n, err := s.client.Exists(ctx, idempotencyKeyPrefix+eventID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check event %s: %w", eventID, err)
	}
	return n > 0, nil
}

var (
	_ shared.IdempotencyStore = (*MemoryIdempotencyStore)(nil)
	_ shared.IdempotencyStore = (*RedisIdempotencyStore)(nil)
)
