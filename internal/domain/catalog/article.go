package catalog

import (
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service types an article can be sold under
const (
	ServiceRoroExport    = "RORO_EXPORT"
	ServiceRoroImport    = "RORO_IMPORT"
	ServiceFCLExport     = "FCL_EXPORT"
	ServiceFCLImport     = "FCL_IMPORT"
	ServiceLCLExport     = "LCL_EXPORT"
	ServiceLCLImport     = "LCL_IMPORT"
	ServiceBreakbulk     = "BREAKBULK"
	ServiceAirExport     = "AIR_EXPORT"
	ServiceAirImport     = "AIR_IMPORT"
	ServiceCrossTrade    = "CROSSTRADE"
	ServiceRoadTransport = "ROAD_TRANSPORT"
	ServiceCustoms       = "CUSTOMS"
)

// Article is a sellable line item cached from Robaws
type Article struct {
	shared.BaseAggregateRoot
	RobawsArticleID string                `gorm:"type:varchar(50);not null;uniqueIndex"`
	Code            string                `gorm:"type:varchar(50);index"`
	Name            string                `gorm:"type:varchar(255);not null"`
	Description     string                `gorm:"type:text"`
	Category        string                `gorm:"type:varchar(50);index"`
	VehicleCategory string                `gorm:"type:varchar(50);index"`
	UnitType        valueobject.UnitBasis `gorm:"type:varchar(20);not null;default:'UNIT'"`
	UnitPrice       decimal.Decimal       `gorm:"type:decimal(18,4);not null;default:0"`
	Currency        string                `gorm:"type:varchar(3);not null;default:'EUR'"`
	Carrier         string                `gorm:"type:varchar(50);index"`
	ServiceTypes    []string              `gorm:"type:text;serializer:json"`
	PolCode         string                `gorm:"type:varchar(5);index"`
	PodCode         string                `gorm:"type:varchar(5);index"`
	CommodityTypes  []string              `gorm:"type:text;serializer:json"`
	IsParent        bool                  `gorm:"not null;default:false"`
	IsSurcharge     bool                  `gorm:"not null;default:false"`
	IsMandatory     bool                  `gorm:"not null;default:false"`
	ValidFrom       *time.Time            `gorm:"type:date"`
	ValidUntil      *time.Time            `gorm:"type:date"`
	IsActive        bool                  `gorm:"not null;default:true"`
	LastSyncedAt    *time.Time
	Children        []ArticleChild `gorm:"foreignKey:ParentID"`
}

// TableName returns the table name for GORM
func (Article) TableName() string {
	return "articles"
}

// ArticleChild links an add-on article to its parent
type ArticleChild struct {
	ParentID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChildID    uuid.UUID `gorm:"type:uuid;primaryKey"`
	IsRequired bool      `gorm:"not null;default:false"`
	SortOrder  int       `gorm:"not null;default:0"`
	Child      *Article  `gorm:"foreignKey:ChildID"`
}

// TableName returns the table name for GORM
func (ArticleChild) TableName() string {
	return "article_children"
}

// NewArticle creates an article for a Robaws article id
func NewArticle(robawsArticleID, name string, unitType valueobject.UnitBasis, unitPrice decimal.Decimal) (*Article, error) {
	robawsArticleID = strings.TrimSpace(robawsArticleID)
	if robawsArticleID == "" {
		return nil, shared.NewDomainError("INVALID_ROBAWS_ID", "Robaws article id cannot be empty")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Article name cannot be empty")
	}
	if unitType == "" {
		unitType = valueobject.UnitBasisUnit
	}
	if !unitType.IsValid() {
		return nil, shared.NewDomainError("INVALID_UNIT_TYPE", "Unknown unit type: "+string(unitType))
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price must be >= 0")
	}
	return &Article{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RobawsArticleID:   robawsArticleID,
		Name:              strings.TrimSpace(name),
		UnitType:          unitType,
		UnitPrice:         unitPrice,
		Currency:          string(valueobject.DefaultCurrency),
		ServiceTypes:      []string{},
		CommodityTypes:    []string{},
		IsActive:          true,
	}, nil
}

// RobawsArticleData is the subset of a Robaws article record the cache keeps
type RobawsArticleData struct {
	RobawsArticleID string
	Code            string
	Name            string
	Description     string
	Category        string
	VehicleCategory string
	UnitType        valueobject.UnitBasis
	UnitPrice       decimal.Decimal
	Currency        string
	Carrier         string
	ServiceTypes    []string
	PolCode         string
	PodCode         string
	CommodityTypes  []string
	IsParent        bool
	IsSurcharge     bool
	IsMandatory     bool
	IsActive        bool
}

// ApplyRobawsData overwrites the cached fields with the remote record.
// Validity dates are not touched, they are owned by the tariff date sync.
func (a *Article) ApplyRobawsData(d RobawsArticleData, syncedAt time.Time) error {
	if strings.TrimSpace(d.Name) == "" {
		return shared.NewDomainError("INVALID_NAME", "Article name cannot be empty")
	}
	if d.UnitPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price must be >= 0")
	}
	unit := d.UnitType
	if unit == "" || !unit.IsValid() {
		unit = valueobject.UnitBasisUnit
	}
	currency := strings.ToUpper(strings.TrimSpace(d.Currency))
	if currency == "" {
		currency = string(valueobject.DefaultCurrency)
	}

	a.Code = strings.TrimSpace(d.Code)
	a.Name = strings.TrimSpace(d.Name)
	a.Description = d.Description
	a.Category = strings.ToLower(strings.TrimSpace(d.Category))
	a.VehicleCategory = strings.ToLower(strings.TrimSpace(d.VehicleCategory))
	a.UnitType = unit
	a.UnitPrice = d.UnitPrice
	a.Currency = currency
	a.Carrier = strings.ToUpper(strings.TrimSpace(d.Carrier))
	a.ServiceTypes = upperAll(d.ServiceTypes)
	a.PolCode = strings.ToUpper(strings.TrimSpace(d.PolCode))
	a.PodCode = strings.ToUpper(strings.TrimSpace(d.PodCode))
	a.CommodityTypes = lowerAll(d.CommodityTypes)
	a.IsParent = d.IsParent
	a.IsSurcharge = d.IsSurcharge
	a.IsMandatory = d.IsMandatory
	a.IsActive = d.IsActive
	a.LastSyncedAt = &syncedAt
	a.Touch()
	a.IncrementVersion()
	return nil
}

// SetValidity copies validity dates onto the article.
// It returns false without touching the article when nothing changes.
func (a *Article) SetValidity(from, until *time.Time) (bool, error) {
	if from != nil && until != nil && until.Before(*from) {
		return false, shared.NewDomainError("INVALID_VALIDITY", "Valid until must not be before valid from")
	}
	if sameDay(a.ValidFrom, from) && sameDay(a.ValidUntil, until) {
		return false, nil
	}
	oldFrom, oldUntil := a.ValidFrom, a.ValidUntil
	a.ValidFrom = copyTime(from)
	a.ValidUntil = copyTime(until)
	a.Touch()
	a.IncrementVersion()
	a.AddDomainEvent(NewArticleValidityChangedEvent(a, oldFrom, oldUntil))
	return true, nil
}

// IsValidOn reports whether the article is active and valid on the given day
func (a *Article) IsValidOn(at time.Time) bool {
	if !a.IsActive {
		return false
	}
	day := dayOf(at)
	if a.ValidFrom != nil && day.Before(dayOf(*a.ValidFrom)) {
		return false
	}
	if a.ValidUntil != nil && day.After(dayOf(*a.ValidUntil)) {
		return false
	}
	return true
}

// HasServiceType reports whether the article is sold under a service type
func (a *Article) HasServiceType(serviceType string) bool {
	return containsFold(a.ServiceTypes, serviceType)
}

// HasCommodityType reports whether the article applies to a commodity type
func (a *Article) HasCommodityType(commodity string) bool {
	return containsFold(a.CommodityTypes, commodity)
}

// AddChild attaches an add-on article
func (a *Article) AddChild(child *Article, required bool) error {
	if child == nil || child.ID == a.ID {
		return shared.NewDomainError("INVALID_CHILD", "An article cannot be its own child")
	}
	for _, c := range a.Children {
		if c.ChildID == child.ID {
			return shared.NewDomainError("CHILD_EXISTS", "Child article already attached")
		}
	}
	a.Children = append(a.Children, ArticleChild{
		ParentID:   a.ID,
		ChildID:    child.ID,
		IsRequired: required,
		SortOrder:  len(a.Children),
		Child:      child,
	})
	a.IsParent = true
	a.Touch()
	return nil
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

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := dayOf(*t)
	return &v
}

func containsFold(list []string, v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return false
	}
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func upperAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
