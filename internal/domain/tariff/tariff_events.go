package tariff

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeTariff = "Tariff"

// Event type constants
const (
	EventTypeTariffUpdated = "TariffUpdated"
)

// TariffUpdatedEvent is published when the amounts or validity of a tariff change
type TariffUpdatedEvent struct {
	shared.BaseDomainEvent
	TariffID   uuid.UUID       `json:"tariff_id"`
	MappingID  uuid.UUID       `json:"mapping_id"`
	OldTotal   decimal.Decimal `json:"old_total"`
	NewTotal   decimal.Decimal `json:"new_total"`
	ValidFrom  *time.Time      `json:"valid_from,omitempty"`
	ValidUntil *time.Time      `json:"valid_until,omitempty"`
}

// NewTariffUpdatedEvent creates a new TariffUpdatedEvent
func NewTariffUpdatedEvent(t *Tariff, oldTotal decimal.Decimal) *TariffUpdatedEvent {
	return &TariffUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTariffUpdated, AggregateTypeTariff, t.ID),
		TariffID:        t.ID,
		MappingID:       t.MappingID,
		OldTotal:        oldTotal,
		NewTotal:        t.Total(),
		ValidFrom:       t.ValidFrom,
		ValidUntil:      t.ValidUntil,
	}
}
