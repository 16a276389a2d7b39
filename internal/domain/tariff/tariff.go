package tariff

import (
	"context"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amounts holds the purchase cost components of a tariff
type Amounts struct {
	BaseFreight    decimal.Decimal
	BAF            decimal.Decimal
	ETS            decimal.Decimal
	PortAdditional decimal.Decimal
	AdminFee       decimal.Decimal
	THC            decimal.Decimal
}

// Validate checks that no component is negative
func (a Amounts) Validate() error {
	fields := map[string]decimal.Decimal{
		"base_freight":    a.BaseFreight,
		"baf":             a.BAF,
		"ets":             a.ETS,
		"port_additional": a.PortAdditional,
		"admin_fee":       a.AdminFee,
		"thc":             a.THC,
	}
	for name, v := range fields {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_AMOUNT", name+" must be >= 0")
		}
	}
	return nil
}

// Tariff is a carrier purchase rate for one carrier mapping
type Tariff struct {
	shared.BaseAggregateRoot
	MappingID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	BaseFreight    decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	BAF            decimal.Decimal       `gorm:"column:baf;type:decimal(18,2);not null;default:0"`
	ETS            decimal.Decimal       `gorm:"column:ets;type:decimal(18,2);not null;default:0"`
	PortAdditional decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	AdminFee       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	THC            decimal.Decimal       `gorm:"column:thc;type:decimal(18,2);not null;default:0"`
	Currency       string                `gorm:"type:varchar(3);not null;default:'EUR'"`
	UnitBasis      valueobject.UnitBasis `gorm:"type:varchar(20);not null;default:'UNIT'"`
	ValidFrom      *time.Time            `gorm:"type:date"`
	ValidUntil     *time.Time            `gorm:"type:date"`
	IsActive       bool                  `gorm:"not null;default:true"`
	Notes          string                `gorm:"type:text"`
	Mapping        *CarrierMapping       `gorm:"foreignKey:MappingID"`
}

// TableName returns the table name for GORM
func (Tariff) TableName() string {
	return "carrier_tariffs"
}

// NewTariff creates a tariff for a carrier mapping
func NewTariff(mappingID uuid.UUID, amounts Amounts, basis valueobject.UnitBasis) (*Tariff, error) {
	if mappingID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MAPPING", "Tariff must belong to a carrier mapping")
	}
	if err := amounts.Validate(); err != nil {
		return nil, err
	}
	if basis == "" {
		basis = valueobject.UnitBasisUnit
	}
	if !basis.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT_BASIS", "Unknown unit basis: "+string(basis))
	}
	t := &Tariff{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		MappingID:         mappingID,
		Currency:          string(valueobject.DefaultCurrency),
		UnitBasis:         basis,
		IsActive:          true,
	}
	t.setAmounts(amounts)
	return t, nil
}

// Amounts returns the cost components
func (t *Tariff) Amounts() Amounts {
	return Amounts{
		BaseFreight:    t.BaseFreight,
		BAF:            t.BAF,
		ETS:            t.ETS,
		PortAdditional: t.PortAdditional,
		AdminFee:       t.AdminFee,
		THC:            t.THC,
	}
}

// Total returns the sum of all cost components
func (t *Tariff) Total() decimal.Decimal {
	return t.BaseFreight.Add(t.BAF).Add(t.ETS).Add(t.PortAdditional).Add(t.AdminFee).Add(t.THC)
}

// UpdateAmounts replaces the cost components.
// It returns false when every component is unchanged.
func (t *Tariff) UpdateAmounts(amounts Amounts) (bool, error) {
	if err := amounts.Validate(); err != nil {
		return false, err
	}
	if t.Amounts().equal(amounts) {
		return false, nil
	}
	old := t.Total()
	t.setAmounts(amounts)
	t.touch()
	t.AddDomainEvent(NewTariffUpdatedEvent(t, old))
	return true, nil
}

// UpdateBaseFreight changes only the base freight, used by the rate matrix.
func (t *Tariff) UpdateBaseFreight(amount decimal.Decimal) (bool, error) {
	a := t.Amounts()
	a.BaseFreight = amount
	return t.UpdateAmounts(a)
}

// SetValidity sets the validity window. Either end may be open.
func (t *Tariff) SetValidity(from, until *time.Time) (bool, error) {
	if from != nil && until != nil && until.Before(*from) {
		return false, shared.NewDomainError("INVALID_VALIDITY", "Valid until must not be before valid from")
	}
	if sameDay(t.ValidFrom, from) && sameDay(t.ValidUntil, until) {
		return false, nil
	}
	old := t.Total()
	t.ValidFrom = dayPtr(from)
	t.ValidUntil = dayPtr(until)
	t.touch()
	t.AddDomainEvent(NewTariffUpdatedEvent(t, old))
	return true, nil
}

// SetActive toggles the tariff
func (t *Tariff) SetActive(active bool) {
	if t.IsActive == active {
		return
	}
	t.IsActive = active
	t.touch()
}

// SetCurrency changes the currency
func (t *Tariff) SetCurrency(currency string) error {
	c := valueobject.Currency(strings.ToUpper(strings.TrimSpace(currency)))
	if !c.IsValid() {
		return shared.NewDomainError("INVALID_CURRENCY", "Unsupported currency: "+currency)
	}
	t.Currency = string(c)
	return nil
}

// IsValidOn reports whether the tariff is active and valid on the given day
func (t *Tariff) IsValidOn(at time.Time) bool {
	if !t.IsActive {
		return false
	}
	day := dayOf(at)
	if t.ValidFrom != nil && day.Before(dayOf(*t.ValidFrom)) {
		return false
	}
	if t.ValidUntil != nil && day.After(dayOf(*t.ValidUntil)) {
		return false
	}
	return true
}

func (t *Tariff) setAmounts(a Amounts) {
	t.BaseFreight = valueobject.RoundMoney(a.BaseFreight)
	t.BAF = valueobject.RoundMoney(a.BAF)
	t.ETS = valueobject.RoundMoney(a.ETS)
	t.PortAdditional = valueobject.RoundMoney(a.PortAdditional)
	t.AdminFee = valueobject.RoundMoney(a.AdminFee)
	t.THC = valueobject.RoundMoney(a.THC)
}

func (t *Tariff) touch() {
	t.Touch()
	t.IncrementVersion()
}

func (a Amounts) equal(b Amounts) bool {
	r := valueobject.RoundMoney
	return r(a.BaseFreight).Equal(r(b.BaseFreight)) &&
		r(a.BAF).Equal(r(b.BAF)) &&
		r(a.ETS).Equal(r(b.ETS)) &&
		r(a.PortAdditional).Equal(r(b.PortAdditional)) &&
		r(a.AdminFee).Equal(r(b.AdminFee)) &&
		r(a.THC).Equal(r(b.THC))
}

func sameDay(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return dayOf(*a).Equal(dayOf(*b))
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := dayOf(*t)
	return &v
}

// TariffRepository defines the persistence interface for tariffs
type TariffRepository interface {
	// FindByID finds a tariff by ID, mapping preloaded
	FindByID(ctx context.Context, id uuid.UUID) (*Tariff, error)

	// FindByIDs finds tariffs by IDs
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Tariff, error)

	// FindAll returns tariffs matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Tariff, error)

	// FindByCarrier returns the tariffs of every mapping of a carrier, mappings preloaded
	FindByCarrier(ctx context.Context, carrier string) ([]Tariff, error)

	// FindByMapping returns the tariffs of one mapping, newest validity first
	FindByMapping(ctx context.Context, mappingID uuid.UUID) ([]Tariff, error)

	// Save creates or updates a tariff
	Save(ctx context.Context, tariff *Tariff) error

	// SaveBatch updates tariffs in one statement batch
	SaveBatch(ctx context.Context, tariffs []*Tariff) error

	// Delete removes a tariff
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of tariffs matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
