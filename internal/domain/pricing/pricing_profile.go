package pricing

import (
	"context"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// PricingProfile groups margin rules that apply to one customer, a customer
// type, or everybody (the default profile)
type PricingProfile struct {
	shared.BaseAggregateRoot
	Name           string       `gorm:"type:varchar(100);not null"`
	Description    string       `gorm:"type:text"`
	RobawsClientID string       `gorm:"type:varchar(50);index"`
	CustomerType   string       `gorm:"type:varchar(50);index"`
	IsDefault      bool         `gorm:"not null;default:false"`
	IsActive       bool         `gorm:"not null;default:true"`
	ValidFrom      *time.Time   `gorm:"type:date"`
	ValidUntil     *time.Time   `gorm:"type:date"`
	Rules          []MarginRule `gorm:"foreignKey:ProfileID"`
}

// TableName returns the table name for GORM
func (PricingProfile) TableName() string {
	return "pricing_profiles"
}

// NewPricingProfile creates a new pricing profile
func NewPricingProfile(name string) (*PricingProfile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Pricing profile name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Pricing profile name cannot exceed 100 characters")
	}
	return &PricingProfile{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		IsActive:          true,
	}, nil
}

// AssignToCustomer scopes the profile to a single Robaws client
func (p *PricingProfile) AssignToCustomer(robawsClientID string) {
	p.RobawsClientID = strings.TrimSpace(robawsClientID)
	p.CustomerType = ""
	p.IsDefault = false
	p.touch()
}

// AssignToCustomerType scopes the profile to a customer type (e.g. "forwarder", "private")
func (p *PricingProfile) AssignToCustomerType(customerType string) {
	p.RobawsClientID = ""
	p.CustomerType = strings.ToLower(strings.TrimSpace(customerType))
	p.IsDefault = false
	p.touch()
}

// MarkDefault makes the profile the fallback for everybody
func (p *PricingProfile) MarkDefault() {
	p.RobawsClientID = ""
	p.CustomerType = ""
	p.IsDefault = true
	p.touch()
}

// SetValidity sets the validity window. Either end may be nil.
func (p *PricingProfile) SetValidity(from, until *time.Time) error {
	if from != nil && until != nil && until.Before(*from) {
		return shared.NewDomainError("INVALID_VALIDITY", "Valid until must not be before valid from")
	}
	p.ValidFrom = from
	p.ValidUntil = until
	p.touch()
	return nil
}

// SetActive toggles the profile
func (p *PricingProfile) SetActive(active bool) {
	p.IsActive = active
	p.touch()
}

// Rename changes the profile name and description
func (p *PricingProfile) Rename(name, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Pricing profile name cannot be empty")
	}
	p.Name = name
	p.Description = description
	p.touch()
	return nil
}

// IsValidOn reports whether the profile is active and inside its validity window on the given day
func (p *PricingProfile) IsValidOn(at time.Time) bool {
	if !p.IsActive {
		return false
	}
	day := truncateDay(at)
	if p.ValidFrom != nil && day.Before(truncateDay(*p.ValidFrom)) {
		return false
	}
	if p.ValidUntil != nil && day.After(truncateDay(*p.ValidUntil)) {
		return false
	}
	return true
}

func (p *PricingProfile) touch() {
	p.Touch()
	p.IncrementVersion()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PricingProfileRepository defines the persistence interface for pricing profiles
type PricingProfileRepository interface {
	// FindByID finds a profile by ID, rules included
	FindByID(ctx context.Context, id uuid.UUID) (*PricingProfile, error)

	// FindAll returns profiles matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]PricingProfile, error)

	// FindActive returns all active profiles with their rules preloaded
	FindActive(ctx context.Context) ([]PricingProfile, error)

	// Save creates or updates a profile
	Save(ctx context.Context, profile *PricingProfile) error

	// Delete removes a profile and its rules
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of profiles matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
