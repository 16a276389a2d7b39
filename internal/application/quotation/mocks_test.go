package quotation

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/integration"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/pricing"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/schedule"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Mocks
// ============================================================================

// MockQuotationRepository is a mock implementation of quotation.QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.QuotationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.QuotationRequest), args.Error(1)
}

func (m *MockQuotationRepository) FindByNumber(ctx context.Context, number string) (*quotation.QuotationRequest, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.QuotationRequest), args.Error(1)
}

func (m *MockQuotationRepository) FindByIDWithDeleted(ctx context.Context, id uuid.UUID) (*quotation.QuotationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.QuotationRequest), args.Error(1)
}

func (m *MockQuotationRepository) List(ctx context.Context, filter quotation.ListFilter) ([]quotation.QuotationRequest, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]quotation.QuotationRequest), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *quotation.QuotationRequest) error {
	return m.Called(ctx, q).Error(0)
}

func (m *MockQuotationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	args := m.Called(ctx, number)
	return args.Bool(0), args.Error(1)
}

// MockScheduleRepository is a mock implementation of schedule.ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*schedule.SailingSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.SailingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]schedule.SailingSchedule, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]schedule.SailingSchedule), args.Get(1).(int64), args.Error(2)
}

func (m *MockScheduleRepository) Search(ctx context.Context, c schedule.SearchCriteria) ([]schedule.SailingSchedule, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.SailingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Save(ctx context.Context, s *schedule.SailingSchedule) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockRobawsClient is a mock implementation of integration.RobawsClient
type MockRobawsClient struct {
	mock.Mock
}

func (m *MockRobawsClient) CreateOffer(ctx context.Context, payload integration.OfferPayload) (*integration.OfferResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.OfferResult), args.Error(1)
}

func (m *MockRobawsClient) ListArticles(ctx context.Context, page, size int) (*integration.ArticlePage, error) {
	args := m.Called(ctx, page, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ArticlePage), args.Error(1)
}

func (m *MockRobawsClient) FindClientByEmail(ctx context.Context, email string) (*integration.RobawsClientRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.RobawsClientRecord), args.Error(1)
}

// MockAttachmentRepository is a mock implementation of quotation.AttachmentRepository
type MockAttachmentRepository struct {
	mock.Mock
}

func (m *MockAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Attachment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) FindByQuotation(ctx context.Context, quotationID uuid.UUID) ([]quotation.Attachment, error) {
	args := m.Called(ctx, quotationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quotation.Attachment), args.Error(1)
}

func (m *MockAttachmentRepository) Save(ctx context.Context, a *quotation.Attachment) error {
	return m.Called(ctx, a).Error(0)
}

// ============================================================================
// Fakes
// ============================================================================

// counterSequence hands out increasing numbers per year
type counterSequence struct {
	mu   sync.Mutex
	last map[int]int
}

func newCounterSequence() *counterSequence {
	return &counterSequence{last: map[int]int{}}
}

func (s *counterSequence) Next(_ context.Context, year int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[year]++
	return s.last[year], nil
}

// staticPorts resolves inputs against a fixed port list by code or lower-cased name
type staticPorts struct {
	ports map[string]*port.Port
}

func newStaticPorts(ports ...*port.Port) *staticPorts {
	m := make(map[string]*port.Port, len(ports))
	for _, p := range ports {
		m[p.Code] = p
	}
	return &staticPorts{ports: m}
}

func (s *staticPorts) ResolveOne(_ context.Context, input string) (*port.Port, error) {
	if p, ok := s.ports[strings.ToUpper(strings.TrimSpace(input))]; ok {
		return p, nil
	}
	for _, p := range s.ports {
		if strings.EqualFold(p.Name, strings.TrimSpace(input)) {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (s *staticPorts) FindByCodes(_ context.Context, codes []string) (map[string]*port.Port, error) {
	out := make(map[string]*port.Port)
	for _, c := range codes {
		if p, ok := s.ports[c]; ok {
			out[c] = p
		}
	}
	return out, nil
}

// staticArticles serves a fixed catalog
type staticArticles struct {
	articles    map[uuid.UUID]*catalog.Article
	suggestions []catalog.Suggestion
	criteria    catalog.SuggestCriteria
}

func newStaticArticles(articles ...*catalog.Article) *staticArticles {
	m := make(map[uuid.UUID]*catalog.Article, len(articles))
	for _, a := range articles {
		m[a.ID] = a
	}
	return &staticArticles{articles: m}
}

func (s *staticArticles) GetArticle(_ context.Context, id uuid.UUID) (*catalog.Article, error) {
	if a, ok := s.articles[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (s *staticArticles) SuggestArticles(_ context.Context, criteria catalog.SuggestCriteria, limit int) ([]catalog.Suggestion, error) {
	s.criteria = criteria
	if limit > 0 && len(s.suggestions) > limit {
		return s.suggestions[:limit], nil
	}
	return s.suggestions, nil
}

// staticMargins always returns the same calculator
type staticMargins struct {
	rules    []pricing.MarginRule
	profile  *pricing.PricingProfile
	customer pricing.Customer
}

func (s *staticMargins) CalculatorFor(_ context.Context, customer pricing.Customer, _ time.Time) (*pricing.MarginCalculator, *pricing.PricingProfile, error) {
	s.customer = customer
	return pricing.NewMarginCalculator(s.rules), s.profile, nil
}

// recordingPublisher collects published events
type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.EventType())
	}
	return out
}

// memoryStorage is an object store keeping uploads in a map
type memoryStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: map[string][]byte{}}
}

func (s *memoryStorage) GenerateUploadURL(_ context.Context, key, _ string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/upload/" + key, time.Now().Add(expiresIn), nil
}

func (s *memoryStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://storage.test/download/" + key, time.Now().Add(expiresIn), nil
}

func (s *memoryStorage) DeleteObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

func (s *memoryStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

func (s *memoryStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = data
	return nil
}

// memoryIdempotency remembers keys for the life of the test
type memoryIdempotency struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemoryIdempotency() *memoryIdempotency {
	return &memoryIdempotency{seen: map[string]bool{}}
}

func (m *memoryIdempotency) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.seen[key] {
		return false, nil
	}
	m.seen[key] = true
	return true, nil
}

func (m *memoryIdempotency) IsProcessed(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seen[key], nil
}

func (m *memoryIdempotency) Close() error { return nil }

// staticRenderer returns fixed bytes
type staticRenderer struct {
	pdf []byte
	err error
}

func (r *staticRenderer) RenderOffer(_ context.Context, _ *quotation.QuotationRequest) ([]byte, error) {
	return r.pdf, r.err
}
