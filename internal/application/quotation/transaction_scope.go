package quotation

import (
	"context"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
)

// TransactionScope runs request-number allocation and the first save of a
// request in one database transaction. A failed save gives the number back.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to quotation repositories bound to one transaction
type TransactionalRepositories interface {
	QuotationRepo() quotation.QuotationRepository
	Sequence() quotation.RequestNumberSequence
}

// NoOpTransactionScope runs without a transaction (tests)
type NoOpTransactionScope struct {
	quotationRepo quotation.QuotationRepository
	sequence      quotation.RequestNumberSequence
}

// NewNoOpTransactionScope creates a NoOpTransactionScope
func NewNoOpTransactionScope(quotationRepo quotation.QuotationRepository, sequence quotation.RequestNumberSequence) *NoOpTransactionScope {
	return &NoOpTransactionScope{quotationRepo: quotationRepo, sequence: sequence}
}

// Execute runs fn directly
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// QuotationRepo returns the quotation repository
func (s *NoOpTransactionScope) QuotationRepo() quotation.QuotationRepository {
	return s.quotationRepo
}

// Sequence returns the request number sequence
func (s *NoOpTransactionScope) Sequence() quotation.RequestNumberSequence {
	return s.sequence
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
