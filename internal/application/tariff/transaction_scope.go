package tariff

import (
	"context"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
)

// TransactionScope runs a unit of work over the tariff repositories.
// Everything done through the repositories handed to fn commits or rolls back together.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to tariff repositories bound to one transaction
type TransactionalRepositories interface {
	TariffRepo() tariff.TariffRepository
	MappingRepo() tariff.CarrierMappingRepository
}

// NoOpTransactionScope hands out the plain repositories without a transaction.
// Used in tests.
type NoOpTransactionScope struct {
	tariffRepo  tariff.TariffRepository
	mappingRepo tariff.CarrierMappingRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(tariffRepo tariff.TariffRepository, mappingRepo tariff.CarrierMappingRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{tariffRepo: tariffRepo, mappingRepo: mappingRepo}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// TariffRepo returns the tariff repository
func (s *NoOpTransactionScope) TariffRepo() tariff.TariffRepository {
	return s.tariffRepo
}

// MappingRepo returns the carrier mapping repository
func (s *NoOpTransactionScope) MappingRepo() tariff.CarrierMappingRepository {
	return s.mappingRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
