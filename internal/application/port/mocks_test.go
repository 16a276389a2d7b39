package port

import (
	"context"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockPortRepository is a mock implementation of port.PortRepository
type MockPortRepository struct {
	mock.Mock
}

func (m *MockPortRepository) FindByID(ctx context.Context, id uuid.UUID) (*port.Port, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Port), args.Error(1)
}

func (m *MockPortRepository) FindByCode(ctx context.Context, code string) (*port.Port, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Port), args.Error(1)
}

func (m *MockPortRepository) FindByCodes(ctx context.Context, codes []string) (map[string]*port.Port, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*port.Port), args.Error(1)
}

func (m *MockPortRepository) FindAll(ctx context.Context, filter shared.Filter) ([]port.Port, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.Port), args.Error(1)
}

func (m *MockPortRepository) FindActive(ctx context.Context) ([]port.Port, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.Port), args.Error(1)
}

func (m *MockPortRepository) Save(ctx context.Context, p *port.Port) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPortRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPortRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockPortRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockPortAliasRepository is a mock implementation of port.PortAliasRepository
type MockPortAliasRepository struct {
	mock.Mock
}

func (m *MockPortAliasRepository) FindByID(ctx context.Context, id uuid.UUID) (*port.PortAlias, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PortAlias), args.Error(1)
}

func (m *MockPortAliasRepository) FindByNormalized(ctx context.Context, normalized string) (*port.PortAlias, error) {
	args := m.Called(ctx, normalized)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PortAlias), args.Error(1)
}

func (m *MockPortAliasRepository) FindAll(ctx context.Context, filter shared.Filter) ([]port.PortAlias, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.PortAlias), args.Error(1)
}

func (m *MockPortAliasRepository) FindByPort(ctx context.Context, portID uuid.UUID) ([]port.PortAlias, error) {
	args := m.Called(ctx, portID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.PortAlias), args.Error(1)
}

func (m *MockPortAliasRepository) FindActive(ctx context.Context) ([]port.PortAlias, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.PortAlias), args.Error(1)
}

func (m *MockPortAliasRepository) Save(ctx context.Context, alias *port.PortAlias) error {
	return m.Called(ctx, alias).Error(0)
}

func (m *MockPortAliasRepository) SaveBatch(ctx context.Context, aliases []*port.PortAlias) error {
	return m.Called(ctx, aliases).Error(0)
}

func (m *MockPortAliasRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPortAliasRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
