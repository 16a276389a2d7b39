package quotation

import (
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	EventTypeQuotationSubmitted     = "QuotationRequestSubmitted"
	EventTypeQuotationStatusChanged = "QuotationStatusChanged"
	EventTypeQuotationPriced        = "QuotationPriced"
)

// QuotationSubmittedEvent is raised when a new request is created
type QuotationSubmittedEvent struct {
	shared.BaseDomainEvent
	RequestNumber string `json:"request_number"`
	Source        Source `json:"source"`
	ContactEmail  string `json:"contact_email"`
	PolCode       string `json:"pol_code"`
	PodCode       string `json:"pod_code"`
	Urgent        bool   `json:"urgent"`
}

// NewQuotationSubmittedEvent creates the event from the aggregate
func NewQuotationSubmittedEvent(q *QuotationRequest) *QuotationSubmittedEvent {
	return &QuotationSubmittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationSubmitted, AggregateTypeQuotation, q.ID),
		RequestNumber:   q.RequestNumber,
		Source:          q.Source,
		ContactEmail:    q.Contact.ContactEmail,
		PolCode:         q.Route.PolCode,
		PodCode:         q.Route.PodCode,
		Urgent:          q.Urgent,
	}
}

// QuotationStatusChangedEvent is raised on every lifecycle transition
type QuotationStatusChangedEvent struct {
	shared.BaseDomainEvent
	RequestNumber string `json:"request_number"`
	OldStatus     Status `json:"old_status"`
	NewStatus     Status `json:"new_status"`
	Reason        string `json:"reason,omitempty"`
}

// NewQuotationStatusChangedEvent creates the event
func NewQuotationStatusChangedEvent(q *QuotationRequest, old, next Status, reason string) *QuotationStatusChangedEvent {
	return &QuotationStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationStatusChanged, AggregateTypeQuotation, q.ID),
		RequestNumber:   q.RequestNumber,
		OldStatus:       old,
		NewStatus:       next,
		Reason:          reason,
	}
}

// QuotationPricedEvent carries the computed totals
type QuotationPricedEvent struct {
	shared.BaseDomainEvent
	RequestNumber string          `json:"request_number"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	VatCode       string          `json:"vat_code"`
	Total         decimal.Decimal `json:"total"`
}

// NewQuotationPricedEvent creates the event
func NewQuotationPricedEvent(q *QuotationRequest) *QuotationPricedEvent {
	return &QuotationPricedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationPriced, AggregateTypeQuotation, q.ID),
		RequestNumber:   q.RequestNumber,
		Subtotal:        q.Totals.Subtotal,
		VatCode:         q.Totals.VatCode,
		Total:           q.Totals.Total,
	}
}
