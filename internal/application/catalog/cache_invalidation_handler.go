package catalog

import (
	"context"
	"fmt"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"go.uber.org/zap"
)

// ArticleCacheInvalidationHandler evicts an article from the cache when its
// validity window moves
type ArticleCacheInvalidationHandler struct {
	cache  ArticleCache
	logger *zap.Logger
}

// NewArticleCacheInvalidationHandler creates a new handler
func NewArticleCacheInvalidationHandler(cache ArticleCache, logger *zap.Logger) *ArticleCacheInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleCacheInvalidationHandler{cache: cache, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *ArticleCacheInvalidationHandler) EventTypes() []string {
	return []string{catalog.EventTypeArticleValidityChanged}
}

// Handle processes an ArticleValidityChangedEvent
func (h *ArticleCacheInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*catalog.ArticleValidityChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			catalog.EventTypeArticleValidityChanged, event.EventType())
	}
	if h.cache == nil {
		return nil
	}
	if err := h.cache.Delete(ctx, changed.ArticleID); err != nil {
		h.logger.Warn("failed to evict article from cache",
			zap.String("article_id", changed.ArticleID.String()),
			zap.Error(err))
	}
	return nil
}
