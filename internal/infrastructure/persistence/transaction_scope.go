package persistence

import (
	"context"

	appquotation "github.com/Patrickscodegit/Beconnect-sub010/internal/application/quotation"
	apptariff "github.com/Patrickscodegit/Beconnect-sub010/internal/application/tariff"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
	"gorm.io/gorm"
)

// GormTariffTransactionScope implements the tariff TransactionScope using GORM transactions.
// Repositories handed to the callback share the transaction.
type GormTariffTransactionScope struct {
	db *gorm.DB
}

// NewGormTariffTransactionScope creates a new GormTariffTransactionScope
func NewGormTariffTransactionScope(db *gorm.DB) *GormTariffTransactionScope {
	return &GormTariffTransactionScope{db: db}
}

// Execute runs fn in a transaction; an error rolls everything back
func (s *GormTariffTransactionScope) Execute(ctx context.Context, fn func(repos apptariff.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTariffRepositories{tx: tx})
	})
}

type gormTariffRepositories struct {
	tx *gorm.DB
}

func (r *gormTariffRepositories) TariffRepo() tariff.TariffRepository {
	return NewGormTariffRepository(r.tx)
}

func (r *gormTariffRepositories) MappingRepo() tariff.CarrierMappingRepository {
	return NewGormCarrierMappingRepository(r.tx)
}

// GormQuotationTransactionScope implements the quotation TransactionScope using GORM transactions
type GormQuotationTransactionScope struct {
	db *gorm.DB
}

// NewGormQuotationTransactionScope creates a new GormQuotationTransactionScope
func NewGormQuotationTransactionScope(db *gorm.DB) *GormQuotationTransactionScope {
	return &GormQuotationTransactionScope{db: db}
}

// Execute runs fn in a transaction; an error rolls everything back
func (s *GormQuotationTransactionScope) Execute(ctx context.Context, fn func(repos appquotation.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormQuotationRepositories{tx: tx})
	})
}

type gormQuotationRepositories struct {
	tx *gorm.DB
}

func (r *gormQuotationRepositories) QuotationRepo() quotation.QuotationRepository {
	return NewGormQuotationRepository(r.tx)
}

func (r *gormQuotationRepositories) Sequence() quotation.RequestNumberSequence {
	return NewGormRequestNumberSequence(r.tx)
}

var (
	_ apptariff.TransactionScope             = (*GormTariffTransactionScope)(nil)
	_ apptariff.TransactionalRepositories    = (*gormTariffRepositories)(nil)
	_ appquotation.TransactionScope          = (*GormQuotationTransactionScope)(nil)
	_ appquotation.TransactionalRepositories = (*gormQuotationRepositories)(nil)
)
