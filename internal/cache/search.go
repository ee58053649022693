// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// search.go caches encoded search results in Valkey. Any catalog write
// clears the whole prefix, since a renamed category or brand can change
// the answer to any query.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// searchKeyPrefix is the Valkey key prefix for cached search results.
	searchKeyPrefix = "search:"

	// DefaultSearchTTL is how long a search result stays cached.
	DefaultSearchTTL = time.Minute
)

// SearchCache stores search results in Valkey. A nil *SearchCache is a
// valid cache that never hits.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache creates a search cache backed by client. It returns nil
// when client is nil so callers can run without Valkey.
func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &SearchCache{client: client, ttl: ttl}
}

// Get returns the cached value for key.
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, searchKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("search cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores val under key with the configured TTL.
func (c *SearchCache) Set(ctx context.Context, key string, val []byte) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, searchKeyPrefix+key, val, c.ttl).Err(); err != nil {
		slog.Warn("search cache set error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached search result by scanning for the
// prefix. It returns the number of keys removed.
func (c *SearchCache) InvalidateAll(ctx context.Context) int {
	if c == nil {
		return 0
	}
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, searchKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("search cache scan error", "error", err)
			return deleted
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("search cache bulk delete error", "error", err)
			} else {
				deleted += len(keys)
			}
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("search cache cleared", "deleted", deleted)
	}
	return deleted
}
