package tariff

import (
	"context"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockTariffRepository struct {
	mock.Mock
}

func (m *MockTariffRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.Tariff, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.Tariff), args.Error(1)
}

func (m *MockTariffRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tariff.Tariff, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]tariff.Tariff), args.Error(1)
}

func (m *MockTariffRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tariff.Tariff, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]tariff.Tariff), args.Error(1)
}

func (m *MockTariffRepository) FindByCarrier(ctx context.Context, carrier string) ([]tariff.Tariff, error) {
	args := m.Called(ctx, carrier)
	return args.Get(0).([]tariff.Tariff), args.Error(1)
}

func (m *MockTariffRepository) FindByMapping(ctx context.Context, mappingID uuid.UUID) ([]tariff.Tariff, error) {
	args := m.Called(ctx, mappingID)
	return args.Get(0).([]tariff.Tariff), args.Error(1)
}

func (m *MockTariffRepository) Save(ctx context.Context, t *tariff.Tariff) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTariffRepository) SaveBatch(ctx context.Context, tariffs []*tariff.Tariff) error {
	args := m.Called(ctx, tariffs)
	return args.Error(0)
}

func (m *MockTariffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTariffRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

type MockCarrierMappingRepository struct {
	mock.Mock
}

func (m *MockCarrierMappingRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.CarrierMapping, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.CarrierMapping), args.Error(1)
}

func (m *MockCarrierMappingRepository) FindByKey(ctx context.Context, carrier, portCode, vehicleCategory string) (*tariff.CarrierMapping, error) {
	args := m.Called(ctx, carrier, portCode, vehicleCategory)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tariff.CarrierMapping), args.Error(1)
}

func (m *MockCarrierMappingRepository) FindByCarrier(ctx context.Context, carrier string) ([]tariff.CarrierMapping, error) {
	args := m.Called(ctx, carrier)
	return args.Get(0).([]tariff.CarrierMapping), args.Error(1)
}

func (m *MockCarrierMappingRepository) Save(ctx context.Context, mapping *tariff.CarrierMapping) error {
	args := m.Called(ctx, mapping)
	return args.Error(0)
}

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
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) FindCandidates(ctx context.Context, polCode, podCode string, at time.Time) ([]catalog.Article, error) {
	args := m.Called(ctx, polCode, podCode, at)
	return args.Get(0).([]catalog.Article), args.Error(1)
}

func (m *MockArticleRepository) Save(ctx context.Context, article *catalog.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}

func (m *MockArticleRepository) AttachChild(ctx context.Context, link catalog.ArticleChild) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockArticleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockArticleRepository) DeactivateNotSyncedSince(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
