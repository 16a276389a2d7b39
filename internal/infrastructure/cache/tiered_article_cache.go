package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// l1TTL caps how long an instance trusts its local copy
const l1TTL = time.Minute

// ArticleInvalidator broadcasts evictions to other instances
type ArticleInvalidator interface {
	Publish(ctx context.Context, articleID string) error
	Subscribe(ctx context.Context, fn func(InvalidationMessage)) error
	Close() error
}

// SharedArticleStore is the L2 tier, normally a RedisArticleCache
type SharedArticleStore interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Article, error)
	Set(ctx context.Context, article *catalog.Article, ttl time.Duration) error
	Delete(ctx context.Context, id uuid.UUID) error
	InvalidateAll(ctx context.Context) error
}

// TieredArticleCache reads through a local L1 and a shared Redis L2.
// Evictions go to both tiers and are announced to peers.
type TieredArticleCache struct {
	l1          *InMemoryArticleCache
	l2          SharedArticleStore
	invalidator ArticleInvalidator
	logger      *zap.Logger

	l1Hits, l2Hits, misses int64
}

// NewTieredArticleCache creates a tiered cache. invalidator may be nil for a single instance.
func NewTieredArticleCache(l1 *InMemoryArticleCache, l2 SharedArticleStore, invalidator ArticleInvalidator, logger *zap.Logger) *TieredArticleCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TieredArticleCache{l1: l1, l2: l2, invalidator: invalidator, logger: logger}
}

// Get checks L1, then L2, promoting L2 hits into L1
func (c *TieredArticleCache) Get(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	if a, _ := c.l1.Get(ctx, id); a != nil {
		atomic.AddInt64(&c.l1Hits, 1)
		return a, nil
	}
	a, err := c.l2.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		atomic.AddInt64(&c.misses, 1)
		return nil, nil
	}
	atomic.AddInt64(&c.l2Hits, 1)
	_ = c.l1.Set(ctx, a, l1TTL)
	return a, nil
}

// Set writes both tiers; L1 keeps the shorter of ttl and l1TTL
func (c *TieredArticleCache) Set(ctx context.Context, article *catalog.Article, ttl time.Duration) error {
	_ = c.l1.Set(ctx, article, min(ttl, l1TTL))
	return c.l2.Set(ctx, article, ttl)
}

// Delete evicts from both tiers and tells peers
func (c *TieredArticleCache) Delete(ctx context.Context, id uuid.UUID) error {
	_ = c.l1.Delete(ctx, id)
	if err := c.l2.Delete(ctx, id); err != nil {
		return err
	}
	c.announce(ctx, id.String())
	return nil
}

// InvalidateAll clears both tiers and tells peers
func (c *TieredArticleCache) InvalidateAll(ctx context.Context) error {
	_ = c.l1.InvalidateAll(ctx)
	if err := c.l2.InvalidateAll(ctx); err != nil {
		return err
	}
	c.announce(ctx, "")
	return nil
}

// StartInvalidationSubscription applies peer evictions to L1 until ctx ends
func (c *TieredArticleCache) StartInvalidationSubscription(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}
	return c.invalidator.Subscribe(ctx, c.applyRemote)
}

func (c *TieredArticleCache) applyRemote(m InvalidationMessage) {
	ctx := context.Background()
	if m.ArticleID == "" {
		_ = c.l1.InvalidateAll(ctx)
		return
	}
	id, err := uuid.Parse(m.ArticleID)
	if err != nil {
		c.logger.Warn("Invalid article id in invalidation", zap.String("article_id", m.ArticleID))
		return
	}
	_ = c.l1.Delete(ctx, id)
}

func (c *TieredArticleCache) announce(ctx context.Context, articleID string) {
	if c.invalidator == nil {
		return
	}
	if err := c.invalidator.Publish(ctx, articleID); err != nil {
		c.logger.Warn("Failed to announce article invalidation", zap.Error(err))
	}
}

// Stats returns hit counters
func (c *TieredArticleCache) Stats() (l1Hits, l2Hits, misses int64) {
	return atomic.LoadInt64(&c.l1Hits), atomic.LoadInt64(&c.l2Hits), atomic.LoadInt64(&c.misses)
}

// Close stops the invalidation subscription and the L1 janitor
func (c *TieredArticleCache) Close() error {
	if c.invalidator != nil {
		_ = c.invalidator.Close()
	}
	return c.l1.Close()
}
