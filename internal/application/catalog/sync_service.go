package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/integration"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArticleSource lists the Robaws article catalogue page by page
type ArticleSource interface {
	ListArticles(ctx context.Context, page, size int) (*integration.ArticlePage, error)
}

// ArticleSyncConfig holds configuration for the article sync
type ArticleSyncConfig struct {
	// PageSize is the number of articles requested per page
	PageSize int
	// MaxPages stops runaway paging when Robaws misreports totals
	MaxPages int
	// StaleAfter is how long an unfinished run may go without progress
	// before a new run takes over
	StaleAfter time.Duration
}

// DefaultArticleSyncConfig returns the default configuration
func DefaultArticleSyncConfig() ArticleSyncConfig {
	return ArticleSyncConfig{PageSize: 100, MaxPages: 500, StaleAfter: 2 * time.Hour}
}

// ArticleSyncService pulls the Robaws article catalogue into the local cache
type ArticleSyncService struct {
	source      ArticleSource
	articleRepo catalog.ArticleRepository
	runRepo     catalog.ArticleSyncRunRepository
	cache       ArticleCache
	publisher   shared.EventPublisher
	logger      *zap.Logger
	config      ArticleSyncConfig
	now         func() time.Time
}

// NewArticleSyncService creates a new ArticleSyncService
func NewArticleSyncService(
	source ArticleSource,
	articleRepo catalog.ArticleRepository,
	runRepo catalog.ArticleSyncRunRepository,
	cache ArticleCache,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *ArticleSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArticleSyncService{
		source:      source,
		articleRepo: articleRepo,
		runRepo:     runRepo,
		cache:       cache,
		publisher:   publisher,
		logger:      logger,
		config:      DefaultArticleSyncConfig(),
		now:         time.Now,
	}
}

// SetConfig sets the service configuration
func (s *ArticleSyncService) SetConfig(cfg ArticleSyncConfig) {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultArticleSyncConfig().PageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultArticleSyncConfig().MaxPages
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultArticleSyncConfig().StaleAfter
	}
	s.config = cfg
}

// Start creates a pending run. Only one run may be in progress at a time; a
// run that stopped making progress is marked failed and replaced.
func (s *ArticleSyncService) Start(ctx context.Context, trigger string) (*catalog.ArticleSyncRun, error) {
	if s.source == nil {
		return nil, shared.NewDomainError("ROBAWS_NOT_CONFIGURED", "Robaws integration is not configured")
	}
	running, err := s.runRepo.FindRunning(ctx)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if running != nil {
		if !running.IsStale(s.now(), s.config.StaleAfter) {
			return nil, shared.NewDomainError("SYNC_IN_PROGRESS", "An article sync is already running")
		}
		s.logger.Warn("abandoning stale article sync run",
			zap.String("run_id", running.ID.String()),
			zap.Time("last_progress", running.UpdatedAt))
		running.Fail(fmt.Errorf("abandoned: no progress since %s", running.UpdatedAt.Format(time.RFC3339)))
		s.finish(ctx, running)
	}
	run := catalog.NewArticleSyncRun(trigger)
	if err := s.runRepo.Save(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to save sync run: %w", err)
	}
	return run, nil
}

// Sync starts a run and executes it to the end
func (s *ArticleSyncService) Sync(ctx context.Context, trigger string) (*catalog.ArticleSyncRun, error) {
	run, err := s.Start(ctx, trigger)
	if err != nil {
		return nil, err
	}
	return run, s.Run(ctx, run)
}

// Trigger starts a run and executes it in the background. The returned run is
// still pending; its progress is read back through Progress.
func (s *ArticleSyncService) Trigger(ctx context.Context) (*SyncRunResponse, error) {
	run, err := s.Start(ctx, "manual")
	if err != nil {
		return nil, err
	}
	resp := ToSyncRunResponse(run)
	go func() {
		if err := s.Run(context.WithoutCancel(ctx), run); err != nil {
			s.logger.Error("manual article sync failed", zap.String("run_id", run.ID.String()), zap.Error(err))
		}
	}()
	return &resp, nil
}

// Run pages through Robaws, upserts every article by its Robaws id and saves
// the run after each page. Per-article failures are counted and skipped; a
// failing page request or a cancelled ctx fails the run. After a complete run
// without failures, articles Robaws no longer lists are deactivated. The final
// state is saved even when ctx is already cancelled.
func (s *ArticleSyncService) Run(ctx context.Context, run *catalog.ArticleSyncRun) error {
	if err := run.Start(); err != nil {
		return err
	}
	s.saveRun(ctx, run)
	s.logger.Info("article sync started", zap.String("run_id", run.ID.String()), zap.String("trigger", run.Trigger))

	links := make(map[string][]integration.RobawsArticleChild)
	complete := false
	for page := 0; page < s.config.MaxPages; page++ {
		result, err := s.source.ListArticles(ctx, page, s.config.PageSize)
		if err != nil {
			s.logger.Error("article sync page failed",
				zap.String("run_id", run.ID.String()),
				zap.Int("page", page),
				zap.Error(err))
			run.Fail(err)
			s.finish(ctx, run)
			return fmt.Errorf("failed to list Robaws articles: %w", err)
		}
		run.SetTotal(result.TotalItems)

		for i := range result.Items {
			item := &result.Items[i]
			created, err := s.upsert(ctx, item)
			if err != nil {
				s.logger.Warn("article sync item failed",
					zap.String("run_id", run.ID.String()),
					zap.String("robaws_article_id", item.ID),
					zap.Error(err))
				run.RecordFailure(err)
				continue
			}
			if created {
				run.RecordCreated()
			} else {
				run.RecordUpdated()
			}
			if len(item.Children) > 0 {
				links[strings.TrimSpace(item.ID)] = item.Children
			}
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warn("article sync interrupted",
				zap.String("run_id", run.ID.String()),
				zap.Int("page", page),
				zap.Error(err))
			run.Fail(err)
			s.finish(ctx, run)
			return fmt.Errorf("article sync interrupted: %w", err)
		}
		s.saveRun(ctx, run)

		if !result.HasMore() {
			complete = true
			break
		}
	}

	s.linkChildren(ctx, links)
	if complete && run.Failed == 0 {
		s.deactivateMissing(ctx, run)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("failed to invalidate article cache", zap.Error(err))
		}
	}

	run.Finish()
	s.finish(ctx, run)
	s.logger.Info("article sync finished",
		zap.String("run_id", run.ID.String()),
		zap.String("status", string(run.Status)),
		zap.Int("created", run.Created),
		zap.Int("updated", run.Updated),
		zap.Int("failed", run.Failed),
		zap.Int("deactivated", run.Deactivated),
		zap.Duration("duration", run.Duration()))
	return nil
}

// Progress returns the run in progress and the latest runs
func (s *ArticleSyncService) Progress(ctx context.Context, limit int) (*SyncProgressResponse, error) {
	runs, err := s.runRepo.FindRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	resp := &SyncProgressResponse{Recent: make([]SyncRunResponse, 0, len(runs))}
	for i := range runs {
		r := ToSyncRunResponse(&runs[i])
		resp.Recent = append(resp.Recent, r)
		if resp.Running == nil && !runs[i].Status.IsTerminal() {
			running := r
			resp.Running = &running
		}
	}
	return resp, nil
}

// GetRun returns one sync run
func (s *ArticleSyncService) GetRun(ctx context.Context, id uuid.UUID) (*SyncRunResponse, error) {
	run, err := s.runRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSyncRunResponse(run)
	return &resp, nil
}

// upsert stores one Robaws article and reports whether it was new
func (s *ArticleSyncService) upsert(ctx context.Context, item *integration.RobawsArticle) (bool, error) {
	data := toArticleData(item)
	now := s.now()

	existing, err := s.articleRepo.FindByRobawsID(ctx, data.RobawsArticleID)
	switch {
	case err == nil:
		if err := existing.ApplyRobawsData(data, now); err != nil {
			return false, err
		}
		return false, s.articleRepo.Save(ctx, existing)
	case errors.Is(err, shared.ErrNotFound):
		article, err := catalog.NewArticle(data.RobawsArticleID, data.Name, data.UnitType, data.UnitPrice)
		if err != nil {
			return false, err
		}
		if err := article.ApplyRobawsData(data, now); err != nil {
			return false, err
		}
		return true, s.articleRepo.Save(ctx, article)
	default:
		return false, err
	}
}

// deactivateMissing switches off cached articles the run did not see.
// Articles are never deleted so quotation lines keep their reference.
func (s *ArticleSyncService) deactivateMissing(ctx context.Context, run *catalog.ArticleSyncRun) {
	if run.StartedAt == nil {
		return
	}
	n, err := s.articleRepo.DeactivateNotSyncedSince(ctx, *run.StartedAt)
	if err != nil {
		s.logger.Warn("failed to deactivate articles missing from Robaws",
			zap.String("run_id", run.ID.String()),
			zap.Error(err))
		return
	}
	run.RecordDeactivated(int(n))
	if n > 0 {
		s.logger.Info("deactivated articles missing from Robaws",
			zap.String("run_id", run.ID.String()),
			zap.Int64("count", n))
	}
}

// linkChildren attaches add-on articles once every page is stored, so a
// parent may reference children that arrive on a later page
func (s *ArticleSyncService) linkChildren(ctx context.Context, links map[string][]integration.RobawsArticleChild) {
	for parentRobawsID, children := range links {
		parent, err := s.articleRepo.FindByRobawsID(ctx, parentRobawsID)
		if err != nil {
			continue
		}
		for i, c := range children {
			child, err := s.articleRepo.FindByRobawsID(ctx, c.ArticleID)
			if err != nil {
				s.logger.Debug("child article not cached",
					zap.String("parent", parentRobawsID),
					zap.String("child", c.ArticleID))
				continue
			}
			if child.ID == parent.ID {
				continue
			}
			link := catalog.ArticleChild{ParentID: parent.ID, ChildID: child.ID, IsRequired: c.Required, SortOrder: i}
			if err := s.articleRepo.AttachChild(ctx, link); err != nil {
				s.logger.Warn("failed to link child article",
					zap.String("parent", parentRobawsID),
					zap.String("child", c.ArticleID),
					zap.Error(err))
			}
		}
	}
}

func (s *ArticleSyncService) saveRun(ctx context.Context, run *catalog.ArticleSyncRun) {
	if err := s.runRepo.Save(ctx, run); err != nil {
		s.logger.Error("failed to save sync run progress", zap.String("run_id", run.ID.String()), zap.Error(err))
	}
}

// finish stores the final state of a run. It outlives ctx so a cancelled run
// never stays "running".
func (s *ArticleSyncService) finish(ctx context.Context, run *catalog.ArticleSyncRun) {
	ctx = context.WithoutCancel(ctx)
	s.saveRun(ctx, run)
	if err := shared.PublishAndClear(ctx, s.publisher, run); err != nil {
		s.logger.Warn("failed to publish sync run events", zap.Error(err))
	}
}

func toArticleData(item *integration.RobawsArticle) catalog.RobawsArticleData {
	return catalog.RobawsArticleData{
		RobawsArticleID: strings.TrimSpace(item.ID),
		Code:            item.Code,
		Name:            item.Name,
		Description:     item.Description,
		Category:        item.Category,
		VehicleCategory: item.VehicleCategory,
		UnitType:        valueobject.UnitBasis(strings.ToUpper(strings.TrimSpace(item.Unit))),
		UnitPrice:       item.SalePrice,
		Currency:        item.Currency,
		Carrier:         item.Carrier,
		ServiceTypes:    item.ServiceTypes,
		PolCode:         item.PolCode,
		PodCode:         item.PodCode,
		CommodityTypes:  item.CommodityTypes,
		IsParent:        item.IsParent || len(item.Children) > 0,
		IsSurcharge:     item.IsSurcharge,
		IsMandatory:     item.IsMandatory,
		IsActive:        item.Active,
	}
}
