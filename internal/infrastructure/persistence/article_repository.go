package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormArticleRepository implements ArticleRepository using GORM
type GormArticleRepository struct {
	db *gorm.DB
}

// NewGormArticleRepository creates a new GormArticleRepository
func NewGormArticleRepository(db *gorm.DB) *GormArticleRepository {
	return &GormArticleRepository{db: db}
}

func preloadChildren(db *gorm.DB) *gorm.DB {
	return db.Preload("Children", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC")
	}).Preload("Children.Child")
}

// FindByID finds an article with its child articles
func (r *GormArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	var article catalog.Article
	if err := preloadChildren(r.db.WithContext(ctx)).First(&article, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &article, nil
}

// FindByIDs loads several articles, children not included
func (r *GormArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Article, error) {
	if len(ids) == 0 {
		return []catalog.Article{}, nil
	}
	var articles []catalog.Article
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// FindByRobawsID finds an article by its Robaws id
func (r *GormArticleRepository) FindByRobawsID(ctx context.Context, robawsArticleID string) (*catalog.Article, error) {
	var article catalog.Article
	if err := r.db.WithContext(ctx).
		Where("robaws_article_id = ?", strings.TrimSpace(robawsArticleID)).
		First(&article).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &article, nil
}

// FindAll returns articles matching the filter
func (r *GormArticleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	var articles []catalog.Article
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Article{}), filter)
	query = applyPaging(query, filter, ArticleSortFields, "name")
	if err := query.Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// FindCandidates returns active articles valid on `at` whose route restriction
// is empty or matches the given ports. Children are preloaded.
func (r *GormArticleRepository) FindCandidates(ctx context.Context, polCode, podCode string, at time.Time) ([]catalog.Article, error) {
	day := time.Date(at.Year(), at.Month(), at.Day(), 0, 0, 0, 0, time.UTC)
	query := preloadChildren(r.db.WithContext(ctx)).
		Where("is_active = ?", true).
		Where("valid_from IS NULL OR valid_from <= ?", day).
		Where("valid_until IS NULL OR valid_until >= ?", day)
	if polCode != "" {
		query = query.Where("pol_code = '' OR pol_code IS NULL OR pol_code = ?", strings.ToUpper(polCode))
	}
	if podCode != "" {
		query = query.Where("pod_code = '' OR pod_code IS NULL OR pod_code = ?", strings.ToUpper(podCode))
	}

	var articles []catalog.Article
	if err := query.Order("name ASC").Find(&articles).Error; err != nil {
		return nil, err
	}
	return articles, nil
}

// Save creates or updates the article row. Child links are written by AttachChild.
func (r *GormArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(article).Error
}

// AttachChild upserts a parent-child link
func (r *GormArticleRepository) AttachChild(ctx context.Context, link catalog.ArticleChild) error {
	link.Child = nil
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "parent_id"}, {Name: "child_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"is_required", "sort_order"}),
		}).
		Create(&link).Error
}

// Count counts articles matching the filter
func (r *GormArticleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Article{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeactivateNotSyncedSince switches off active articles the last sync did not touch
func (r *GormArticleRepository) DeactivateNotSyncedSince(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&catalog.Article{}).
		Where("is_active = ?", true).
		Where("(last_synced_at IS NULL OR last_synced_at < ?)", before).
		Updates(map[string]any{"is_active": false, "updated_at": time.Now()})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *GormArticleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR robaws_article_id = ?", pattern, pattern, strings.TrimSpace(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "carrier":
			query = query.Where("carrier = ?", value)
		case "unit_type":
			query = query.Where("unit_type = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "is_parent":
			query = query.Where("is_parent = ?", value)
		case "pol_code":
			query = query.Where("pol_code = ?", value)
		case "pod_code":
			query = query.Where("pod_code = ?", value)
		case "service_type":
			if s, ok := value.(string); ok && s != "" {
				query = query.Where("service_types LIKE ?", `%"`+strings.ToUpper(s)+`"%`)
			}
		}
	}
	return query
}

// GormArticleSyncRunRepository implements ArticleSyncRunRepository using GORM
type GormArticleSyncRunRepository struct {
	db *gorm.DB
}

// NewGormArticleSyncRunRepository creates a new GormArticleSyncRunRepository
func NewGormArticleSyncRunRepository(db *gorm.DB) *GormArticleSyncRunRepository {
	return &GormArticleSyncRunRepository{db: db}
}

// FindByID finds a sync run by ID
func (r *GormArticleSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ArticleSyncRun, error) {
	var run catalog.ArticleSyncRun
	if err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &run, nil
}

// FindRecent returns the latest runs, newest first
func (r *GormArticleSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]catalog.ArticleSyncRun, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []catalog.ArticleSyncRun
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

// FindRunning returns the run in progress, or ErrNotFound
func (r *GormArticleSyncRunRepository) FindRunning(ctx context.Context) (*catalog.ArticleSyncRun, error) {
	var run catalog.ArticleSyncRun
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []catalog.SyncRunStatus{catalog.SyncRunPending, catalog.SyncRunRunning}).
		Order("created_at DESC").
		First(&run).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &run, nil
}

// Save creates or updates a sync run
func (r *GormArticleSyncRunRepository) Save(ctx context.Context, run *catalog.ArticleSyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

var (
	_ catalog.ArticleRepository        = (*GormArticleRepository)(nil)
	_ catalog.ArticleSyncRunRepository = (*GormArticleSyncRunRepository)(nil)
)
