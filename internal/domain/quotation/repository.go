package quotation

import (
	"context"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// ListFilter narrows a quotation listing
type ListFilter struct {
	shared.Filter
	Status         Status
	Source         Source
	ContactEmail   string
	RobawsClientID string
	// OwnerOnly restricts results to ContactEmail or RobawsClientID
	OwnerOnly      bool
	IncludeDeleted bool
}

// QuotationRepository defines the persistence interface for quotation requests.
// Lookups exclude soft deleted rows unless noted.
type QuotationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*QuotationRequest, error)
	FindByNumber(ctx context.Context, number string) (*QuotationRequest, error)

	// FindByIDWithDeleted also returns soft deleted requests
	FindByIDWithDeleted(ctx context.Context, id uuid.UUID) (*QuotationRequest, error)

	List(ctx context.Context, filter ListFilter) ([]QuotationRequest, int64, error)

	// Save persists the aggregate with its commodity items and article lines
	Save(ctx context.Context, q *QuotationRequest) error

	ExistsByNumber(ctx context.Context, number string) (bool, error)
}
