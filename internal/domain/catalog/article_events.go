package catalog

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeArticle = "Article"

// Event type constants
const (
	EventTypeArticleValidityChanged = "ArticleValidityChanged"
	EventTypeArticleSyncCompleted   = "ArticleSyncCompleted"
)

// ArticleValidityChangedEvent is published when the validity window of an article moves
type ArticleValidityChangedEvent struct {
	shared.BaseDomainEvent
	ArticleID     uuid.UUID  `json:"article_id"`
	OldValidFrom  *time.Time `json:"old_valid_from,omitempty"`
	OldValidUntil *time.Time `json:"old_valid_until,omitempty"`
	ValidFrom     *time.Time `json:"valid_from,omitempty"`
	ValidUntil    *time.Time `json:"valid_until,omitempty"`
}

// NewArticleValidityChangedEvent creates a new ArticleValidityChangedEvent
func NewArticleValidityChangedEvent(a *Article, oldFrom, oldUntil *time.Time) *ArticleValidityChangedEvent {
	return &ArticleValidityChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleValidityChanged, AggregateTypeArticle, a.ID),
		ArticleID:       a.ID,
		OldValidFrom:    oldFrom,
		OldValidUntil:   oldUntil,
		ValidFrom:       a.ValidFrom,
		ValidUntil:      a.ValidUntil,
	}
}

// ArticleSyncCompletedEvent is published when an article sync run finishes
type ArticleSyncCompletedEvent struct {
	shared.BaseDomainEvent
	RunID     uuid.UUID     `json:"run_id"`
	Status    SyncRunStatus `json:"status"`
	Processed int           `json:"processed"`
	Failed    int           `json:"failed"`
}

// NewArticleSyncCompletedEvent creates a new ArticleSyncCompletedEvent
func NewArticleSyncCompletedEvent(run *ArticleSyncRun) *ArticleSyncCompletedEvent {
	return &ArticleSyncCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeArticleSyncCompleted, "ArticleSyncRun", run.ID),
		RunID:           run.ID,
		Status:          run.Status,
		Processed:       run.Processed,
		Failed:          run.Failed,
	}
}
