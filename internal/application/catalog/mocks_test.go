package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/integration"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Mocks
// ============================================================================

// MockArticleRepository is a mock implementation of catalog.ArticleRepository
type MockArticleRepository struct {
	mock.Mock
}

func (m *MockArticleRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Article, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindByRobawsID(ctx context.Context, robawsArticleID string) (*catalog.Article, error) {
	args := m.Called(ctx, robawsArticleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Article, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindCandidates(ctx context.Context, polCode, podCode string, at time.Time) ([]catalog.Article, error) {
	args := m.Called(ctx, polCode, podCode, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *MockArticleRepository) AttachChild(ctx context.Context, link catalog.ArticleChild) error {
	return m.Called(ctx, link).Error(0)
}

func (m *MockArticleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) DeactivateNotSyncedSince(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MockSyncRunRepository is a mock implementation of catalog.ArticleSyncRunRepository
type MockSyncRunRepository struct {
	mock.Mock
}

func (m *MockSyncRunRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ArticleSyncRun, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ArticleSyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindRecent(ctx context.Context, limit int) ([]catalog.ArticleSyncRun, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ArticleSyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) FindRunning(ctx context.Context) (*catalog.ArticleSyncRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ArticleSyncRun), args.Error(1)
}

func (m *MockSyncRunRepository) Save(ctx context.Context, run *catalog.ArticleSyncRun) error {
	return m.Called(ctx, run).Error(0)
}

// MockArticleSource is a mock implementation of ArticleSource
type MockArticleSource struct {
	mock.Mock
}

func (m *MockArticleSource) ListArticles(ctx context.Context, page, size int) (*integration.ArticlePage, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ArticlePage), args.Error(1)
}

// memoryCache is a map-backed ArticleCache for tests
type memoryCache struct {
	mu          sync.Mutex
	items       map[uuid.UUID]*catalog.Article
	getErr      error
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[uuid.UUID]*catalog.Article)}
}

func (c *memoryCache) Get(_ context.Context, id uuid.UUID) (*catalog.Article, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.items[id], nil
}

func (c *memoryCache) Set(_ context.Context, a *catalog.Article, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[a.ID] = a
	return nil
}

func (c *memoryCache) Delete(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, id)
	return nil
}

func (c *memoryCache) InvalidateAll(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[uuid.UUID]*catalog.Article)
	c.invalidated++
	return nil
}

type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
