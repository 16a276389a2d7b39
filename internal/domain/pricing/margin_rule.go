package pricing

import (
	"context"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarginType determines how a margin rule value is applied to a purchase price
type MarginType string

const (
	MarginTypePercentage MarginType = "percentage"
	MarginTypeFixed      MarginType = "fixed"
)

// IsValid returns true if the margin type is known
func (t MarginType) IsValid() bool {
	return t == MarginTypePercentage || t == MarginTypeFixed
}

// MarginRule is a configurable markup applied on top of carrier purchase rates.
// An empty VehicleCategory or UnitBasis acts as a wildcard.
type MarginRule struct {
	shared.BaseEntity
	ProfileID       *uuid.UUID            `gorm:"type:uuid;index"`
	Name            string                `gorm:"type:varchar(100);not null"`
	VehicleCategory string                `gorm:"type:varchar(50);index"`
	UnitBasis       valueobject.UnitBasis `gorm:"type:varchar(20);index"`
	MarginType      MarginType            `gorm:"type:varchar(20);not null"`
	Value           decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Priority        int                   `gorm:"not null;default:0"`
	IsActive        bool                  `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (MarginRule) TableName() string {
	return "margin_rules"
}

// NewMarginRule creates a validated margin rule
func NewMarginRule(name, vehicleCategory string, basis valueobject.UnitBasis, marginType MarginType, value decimal.Decimal) (*MarginRule, error) {
	rule := &MarginRule{
		BaseEntity:      shared.NewBaseEntity(),
		Name:            strings.TrimSpace(name),
		VehicleCategory: normalizeCategory(vehicleCategory),
		UnitBasis:       basis,
		MarginType:      marginType,
		Value:           value,
		IsActive:        true,
	}
	if err := rule.Validate(); err != nil {
		return nil, err
	}
	return rule, nil
}

// Validate checks the rule invariants
func (r *MarginRule) Validate() error {
	if r.Name == "" {
		return shared.NewDomainError("INVALID_NAME", "Margin rule name cannot be empty")
	}
	if !r.MarginType.IsValid() {
		return shared.NewDomainError("INVALID_MARGIN_TYPE", "Margin type must be percentage or fixed")
	}
	if r.UnitBasis != "" && !r.UnitBasis.IsValid() {
		return shared.NewDomainError("INVALID_UNIT_BASIS", "Unknown unit basis: "+string(r.UnitBasis))
	}
	if r.Value.IsNegative() {
		return shared.NewDomainError("INVALID_VALUE", "Margin value must be >= 0")
	}
	return nil
}

// Update replaces the matching and value fields of the rule
func (r *MarginRule) Update(name, vehicleCategory string, basis valueobject.UnitBasis, marginType MarginType, value decimal.Decimal, priority int) error {
	next := *r
	next.Name = strings.TrimSpace(name)
	next.VehicleCategory = normalizeCategory(vehicleCategory)
	next.UnitBasis = basis
	next.MarginType = marginType
	next.Value = value
	next.Priority = priority
	if err := next.Validate(); err != nil {
		return err
	}
	*r = next
	r.Touch()
	return nil
}

// SetActive toggles the rule
func (r *MarginRule) SetActive(active bool) {
	r.IsActive = active
	r.Touch()
}

// Apply returns the margin amount this rule adds to basePrice, rounded to cents
func (r *MarginRule) Apply(basePrice decimal.Decimal) decimal.Decimal {
	switch r.MarginType {
	case MarginTypePercentage:
		return valueobject.RoundMoney(basePrice.Mul(r.Value).Div(decimal.NewFromInt(100)))
	case MarginTypeFixed:
		return valueobject.RoundMoney(r.Value)
	}
	return decimal.Zero
}

func (r *MarginRule) hasCategory() bool {
	return r.VehicleCategory != ""
}

func (r *MarginRule) hasBasis() bool {
	return r.UnitBasis != ""
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

// MarginRuleRepository defines the persistence interface for margin rules
type MarginRuleRepository interface {
	// FindByID finds a rule by ID
	FindByID(ctx context.Context, id uuid.UUID) (*MarginRule, error)

	// FindAll returns rules matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]MarginRule, error)

	// FindActiveGlobal returns active rules that do not belong to a pricing profile
	FindActiveGlobal(ctx context.Context) ([]MarginRule, error)

	// FindByProfile returns the rules attached to a pricing profile
	FindByProfile(ctx context.Context, profileID uuid.UUID) ([]MarginRule, error)

	// Save creates or updates a rule
	Save(ctx context.Context, rule *MarginRule) error

	// Delete removes a rule
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of rules matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
