// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/confkb/internal/platform/constants"
)

// ErrCacheMiss is returned by [Cache] getters when the key is absent.
var ErrCacheMiss = errors.New("article: cache miss")

// Cache stores the derived public aggregates (year histogram, tag list).
//
// Every admin write calls Invalidate. Failures are reported to the caller,
// which treats the cache as best effort.
type Cache interface {
	GetYearStats(ctx context.Context) ([]YearStat, error)
	SetYearStats(ctx context.Context, stats []YearStat) error
	GetTags(ctx context.Context) ([]string, error)
	SetTags(ctx context.Context, tags []string) error
	Invalidate(ctx context.Context) error
}

// # Redis Cache

// RedisCache implements [Cache] with JSON values under fixed keys.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache whose entries expire after ttl.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

var _ Cache = (*RedisCache)(nil)

// GetYearStats reads the cached histogram.
func (cache *RedisCache) GetYearStats(ctx context.Context) ([]YearStat, error) {
	var stats []YearStat
	if err := cache.get(ctx, constants.RedisKeyYearStats, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// SetYearStats stores the histogram.
func (cache *RedisCache) SetYearStats(ctx context.Context, stats []YearStat) error {
	return cache.set(ctx, constants.RedisKeyYearStats, stats)
}

// GetTags reads the cached tag list.
func (cache *RedisCache) GetTags(ctx context.Context) ([]string, error) {
	var tags []string
	if err := cache.get(ctx, constants.RedisKeyTags, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// SetTags stores the tag list.
func (cache *RedisCache) SetTags(ctx context.Context, tags []string) error {
	return cache.set(ctx, constants.RedisKeyTags, tags)
}

// Invalidate drops both aggregates.
func (cache *RedisCache) Invalidate(ctx context.Context) error {
	if err := cache.client.Del(ctx, constants.RedisKeyYearStats, constants.RedisKeyTags).Err(); err != nil {
		return fmt.Errorf("redis_article_cache_invalidate_failed: %w", err)
	}
	return nil
}

func (cache *RedisCache) get(ctx context.Context, key string, target any) error {
	raw, err := cache.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return fmt.Errorf("redis_article_cache_get_failed: %w", err)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("redis_article_cache_decode_failed: %w", err)
	}
	return nil
}

func (cache *RedisCache) set(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis_article_cache_encode_failed: %w", err)
	}

	if err := cache.client.Set(ctx, key, raw, cache.ttl).Err(); err != nil {
		return fmt.Errorf("redis_article_cache_set_failed: %w", err)
	}
	return nil
}

// # No-op Cache

// NoopCache is used when no Redis URL is configured. Every read misses.
type NoopCache struct{}

var _ Cache = NoopCache{}

func (NoopCache) GetYearStats(context.Context) ([]YearStat, error) { return nil, ErrCacheMiss }
func (NoopCache) SetYearStats(context.Context, []YearStat) error { return nil }
func (NoopCache) GetTags(context.Context) ([]string, error) { return nil, ErrCacheMiss }
func (NoopCache) SetTags(context.Context, []string) error { return nil }
func (NoopCache) Invalidate(context.Context) error { return nil }
