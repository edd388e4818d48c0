// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/confkb/internal/platform/constants"
)

// # Attempt Tracking

// AttemptStore counts failed logins per client inside a fixed window that
// starts at the first failure.
type AttemptStore interface {
	// Failures returns the current count and how long until it expires.
	Failures(ctx context.Context, client string) (int, time.Duration, error)

	// RecordFailure increments the count and returns the new value.
	RecordFailure(ctx context.Context, client string) (int, error)

	// Reset forgets the client.
	Reset(ctx context.Context, client string) error
}

// # Redis Implementation

// RedisAttemptStore keeps counters in Redis so every API instance sees them.
type RedisAttemptStore struct {
	client *redis.Client
	window time.Duration
}

// NewRedisAttemptStore creates a Redis-backed [AttemptStore].
func NewRedisAttemptStore(client *redis.Client, window time.Duration) *RedisAttemptStore {
	return &RedisAttemptStore{client: client, window: window}
}

/*
Failures reads the counter of client.

Returns:
  - int: Failed attempts in the current window (0 when none)
  - time.Duration: Time left in the window
  - error: Connectivity errors
*/
func (repository *RedisAttemptStore) Failures(ctx context.Context, client string) (int, time.Duration, error) {
	key := fmt.Sprintf(constants.RedisKeyLoginAttempts, client)

	count, err := repository.client.Get(ctx, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("redis_login_attempts_get_failed: %w", err)
	}

	ttl, err := repository.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("redis_login_attempts_ttl_failed: %w", err)
	}

	return count, max(ttl, 0), nil
}

// RecordFailure increments the counter and starts the window on the first failure.
func (repository *RedisAttemptStore) RecordFailure(ctx context.Context, client string) (int, error) {
	key := fmt.Sprintf(constants.RedisKeyLoginAttempts, client)

	count, err := repository.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis_login_attempts_incr_failed: %w", err)
	}

	if count == 1 {
		if err := repository.client.Expire(ctx, key, repository.window).Err(); err != nil {
			return 0, fmt.Errorf("redis_login_attempts_expire_failed: %w", err)
		}
	}

	return int(count), nil
}

// Reset deletes the counter.
func (repository *RedisAttemptStore) Reset(ctx context.Context, client string) error {
	key := fmt.Sprintf(constants.RedisKeyLoginAttempts, client)

	if err := repository.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis_login_attempts_delete_failed: %w", err)
	}
	return nil
}

// # In-Memory Implementation

// MemoryAttemptStore is the single-instance fallback used without Redis.
type MemoryAttemptStore struct {
	mu      sync.Mutex
	window  time.Duration
	now     func() time.Time
	entries map[string]attemptEntry
}

type attemptEntry struct {
	count   int
	expires time.Time
}

// NewMemoryAttemptStore creates an in-process [AttemptStore].
func NewMemoryAttemptStore(window time.Duration, now func() time.Time) *MemoryAttemptStore {
	if now == nil {
		now = time.Now
	}
	return &MemoryAttemptStore{
		window:  window,
		now:     now,
		entries: map[string]attemptEntry{},
	}
}

func (store *MemoryAttemptStore) Failures(_ context.Context, client string) (int, time.Duration, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.live(client)
	if !ok {
		return 0, 0, nil
	}
	return entry.count, entry.expires.Sub(store.now()), nil
}

func (store *MemoryAttemptStore) RecordFailure(_ context.Context, client string) (int, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	entry, ok := store.live(client)
	if !ok {
		entry = attemptEntry{expires: store.now().Add(store.window)}
	}
	entry.count++
	store.entries[client] = entry
	return entry.count, nil
}

func (store *MemoryAttemptStore) Reset(_ context.Context, client string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	delete(store.entries, client)
	return nil
}

// live returns the unexpired entry of client, dropping a stale one.
func (store *MemoryAttemptStore) live(client string) (attemptEntry, bool) {
	entry, ok := store.entries[client]
	if !ok {
		return attemptEntry{}, false
	}
	if !store.now().Before(entry.expires) {
		delete(store.entries, client)
		return attemptEntry{}, false
	}
	return entry, true
}
