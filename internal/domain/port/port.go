package port

import (
	"context"
	"regexp"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// PortType classifies a location
type PortType string

const (
	PortTypeSeaport PortType = "seaport"
	PortTypeAirport PortType = "airport"
	PortTypeInland  PortType = "inland"
)

// IsValid returns true if the port type is known
func (t PortType) IsValid() bool {
	switch t {
	case PortTypeSeaport, PortTypeAirport, PortTypeInland:
		return true
	}
	return false
}

var unlocodePattern = regexp.MustCompile(`^[A-Z]{2}[A-Z2-9]{3}$`)

// IsUNLocode reports whether s looks like a UN/LOCODE (e.g. BEANR)
func IsUNLocode(s string) bool {
	return unlocodePattern.MatchString(s)
}

// Port is a port of loading, discharge or an inland location
type Port struct {
	shared.BaseAggregateRoot
	Code     string   `gorm:"type:varchar(5);not null;uniqueIndex"`
	Name     string   `gorm:"type:varchar(120);not null"`
	Country  string   `gorm:"type:varchar(2);not null;index"`
	Region   string   `gorm:"type:varchar(60)"`
	Type     PortType `gorm:"type:varchar(20);not null;default:'seaport'"`
	IsActive bool     `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Port) TableName() string {
	return "ports"
}

// NewPort creates a port with a UN/LOCODE, a display name and its country
func NewPort(code, name, country string, portType PortType) (*Port, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !IsUNLocode(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Port code must be a 5 character UN/LOCODE")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Port name cannot be empty")
	}
	c := valueobject.NewCountry(country)
	if c.IsEmpty() {
		return nil, shared.NewDomainError("INVALID_COUNTRY", "Port country must be an ISO 3166 alpha-2 code")
	}
	if portType == "" {
		portType = PortTypeSeaport
	}
	if !portType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown port type: "+string(portType))
	}
	return &Port{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Country:           c.String(),
		Type:              portType,
		IsActive:          true,
	}, nil
}

// Update changes the descriptive fields of a port. The code is immutable.
func (p *Port) Update(name, country, region string, portType PortType) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Port name cannot be empty")
	}
	c := valueobject.NewCountry(country)
	if c.IsEmpty() {
		return shared.NewDomainError("INVALID_COUNTRY", "Port country must be an ISO 3166 alpha-2 code")
	}
	if !portType.IsValid() {
		return shared.NewDomainError("INVALID_TYPE", "Unknown port type: "+string(portType))
	}
	p.Name = name
	p.Country = c.String()
	p.Region = strings.TrimSpace(region)
	p.Type = portType
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetActive toggles the port
func (p *Port) SetActive(active bool) {
	p.IsActive = active
	p.Touch()
	p.IncrementVersion()
}

// CountryCode returns the port country as a value object
func (p *Port) CountryCode() valueobject.Country {
	return valueobject.Country(p.Country)
}

// Label renders "Antwerp (BEANR)"
func (p *Port) Label() string {
	return p.Name + " (" + p.Code + ")"
}

// PortRepository defines the persistence interface for ports
type PortRepository interface {
	// FindByID finds a port by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Port, error)

	// FindByCode finds a port by UN/LOCODE
	FindByCode(ctx context.Context, code string) (*Port, error)

	// FindByCodes returns the ports for a set of codes, keyed by code
	FindByCodes(ctx context.Context, codes []string) (map[string]*Port, error)

	// FindAll returns ports matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Port, error)

	// FindActive returns all active ports
	FindActive(ctx context.Context) ([]Port, error)

	// Save creates or updates a port
	Save(ctx context.Context, port *Port) error

	// Delete removes a port
	Delete(ctx context.Context, id uuid.UUID) error

	// ExistsByCode checks if a port code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Count returns the number of ports matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
