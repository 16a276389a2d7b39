package catalog

import (
	"context"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// ArticleRepository defines the persistence interface for cached Robaws articles
type ArticleRepository interface {
	// FindByID finds an article by ID with its children preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Article, error)

	// FindByIDs finds articles by IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Article, error)

	// FindByRobawsID finds an article by its Robaws article id
	FindByRobawsID(ctx context.Context, robawsArticleID string) (*Article, error)

	// FindAll returns articles matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Article, error)

	// FindCandidates returns active articles that could serve a route, children preloaded.
	// Articles without POL/POD restriction are always included.
	FindCandidates(ctx context.Context, polCode, podCode string, at time.Time) ([]Article, error)

	// Save creates or updates an article
	Save(ctx context.Context, article *Article) error

	// AttachChild stores a parent/child link
	AttachChild(ctx context.Context, link ArticleChild) error

	// Count returns the number of articles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// DeactivateNotSyncedSince switches off active articles whose last sync
	// is before the given time, or that were never synced
	DeactivateNotSyncedSince(ctx context.Context, before time.Time) (int64, error)
}

// ArticleSyncRunRepository defines the persistence interface for sync runs
type ArticleSyncRunRepository interface {
	// FindByID finds a run by ID
	FindByID(ctx context.Context, id uuid.UUID) (*ArticleSyncRun, error)

	// FindRecent returns the newest runs first
	FindRecent(ctx context.Context, limit int) ([]ArticleSyncRun, error)

	// FindRunning returns the run in progress, if any
	FindRunning(ctx context.Context) (*ArticleSyncRun, error)

	// Save creates or updates a run
	Save(ctx context.Context, run *ArticleSyncRun) error
}
