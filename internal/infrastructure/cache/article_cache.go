package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const articleKeyPrefix = "quote:article:"

// InMemoryArticleCache holds articles in process memory. It serves as the L1
// tier and as the fallback when Redis is not configured.
type InMemoryArticleCache struct {
	entries *ttlMap[catalog.Article]
}

// NewInMemoryArticleCache creates an empty cache
func NewInMemoryArticleCache() *InMemoryArticleCache {
	return &InMemoryArticleCache{entries: newTTLMap[catalog.Article](defaultCleanupInterval)}
}

// Get returns a copy of the cached article, or nil on a miss
func (c *InMemoryArticleCache) Get(_ context.Context, id uuid.UUID) (*catalog.Article, error) {
	a, ok := c.entries.get(id.String())
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// Set stores a copy of the article
func (c *InMemoryArticleCache) Set(_ context.Context, article *catalog.Article, ttl time.Duration) error {
	if article == nil {
		return nil
	}
	c.entries.set(article.ID.String(), *article, ttl)
	return nil
}

// Delete evicts one article
func (c *InMemoryArticleCache) Delete(_ context.Context, id uuid.UUID) error {
	c.entries.delete(id.String())
	return nil
}

// InvalidateAll empties the cache
func (c *InMemoryArticleCache) InvalidateAll(_ context.Context) error {
	c.entries.clear()
	return nil
}

// Close stops the janitor
func (c *InMemoryArticleCache) Close() error {
	c.entries.stop()
	return nil
}

// RedisArticleCache stores articles as JSON under quote:article:<id>
type RedisArticleCache struct {
	client redis.UniversalClient
}

// NewRedisArticleCache creates a cache on an existing client
func NewRedisArticleCache(client redis.UniversalClient) *RedisArticleCache {
	return &RedisArticleCache{client: client}
}

// Get returns the cached article, or nil on a miss
func (c *RedisArticleCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	raw, err := c.client.Get(ctx, articleKeyPrefix+id.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read article %s from cache: %w", id, err)
	}
	var article catalog.Article
	if err := json.Unmarshal(raw, &article); err != nil {
		// a stale layout is treated as a miss
		_ = c.client.Del(ctx, articleKeyPrefix+id.String()).Err()
		return nil, nil
	}
	return &article, nil
}

// Set stores the article with a TTL
func (c *RedisArticleCache) Set(ctx context.Context, article *catalog.Article, ttl time.Duration) error {
	if article == nil {
		return nil
	}
	raw, err := json.Marshal(article)
	if err != nil {
		return fmt.Errorf("failed to encode article %s: %w", article.ID, err)
	}
	if err := c.client.Set(ctx, articleKeyPrefix+article.ID.String(), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache article %s: %w", article.ID, err)
	}
	return nil
}

// Delete evicts one article
func (c *RedisArticleCache) Delete(ctx context.Context, id uuid.UUID) error {
	if err := c.client.Del(ctx, articleKeyPrefix+id.String()).Err(); err != nil {
		return fmt.Errorf("failed to evict article %s: %w", id, err)
	}
	return nil
}

// InvalidateAll deletes every article key, scanning in batches
func (c *RedisArticleCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, articleKeyPrefix+"*", 500).Result()
		if err != nil {
			return fmt.Errorf("failed to scan article cache: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to clear article cache: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}
