package port

import (
	"context"
	"strings"
	"unicode"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// AliasType describes where an alias comes from
type AliasType string

const (
	AliasTypeName        AliasType = "name"
	AliasTypeCode        AliasType = "code"
	AliasTypeMisspelling AliasType = "misspelling"
	AliasTypeLocal       AliasType = "local"
)

// IsValid returns true if the alias type is known
func (t AliasType) IsValid() bool {
	switch t {
	case AliasTypeName, AliasTypeCode, AliasTypeMisspelling, AliasTypeLocal:
		return true
	}
	return false
}

// PortAlias is an alternative spelling that resolves to a port
type PortAlias struct {
	shared.BaseEntity
	PortID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Alias           string    `gorm:"type:varchar(120);not null"`
	NormalizedAlias string    `gorm:"type:varchar(120);not null;uniqueIndex"`
	AliasType       AliasType `gorm:"type:varchar(20);not null;default:'name'"`
	IsActive        bool      `gorm:"not null;default:true"`
	Port            *Port     `gorm:"foreignKey:PortID"`
}

// TableName returns the table name for GORM
func (PortAlias) TableName() string {
	return "port_aliases"
}

// NewPortAlias creates an alias for a port
func NewPortAlias(portID uuid.UUID, alias string, aliasType AliasType) (*PortAlias, error) {
	alias = strings.TrimSpace(alias)
	normalized := NormalizeAlias(alias)
	if normalized == "" {
		return nil, shared.NewDomainError("INVALID_ALIAS", "Alias cannot be empty")
	}
	if aliasType == "" {
		aliasType = AliasTypeName
	}
	if !aliasType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALIAS_TYPE", "Unknown alias type: "+string(aliasType))
	}
	return &PortAlias{
		BaseEntity:      shared.NewBaseEntity(),
		PortID:          portID,
		Alias:           alias,
		NormalizedAlias: normalized,
		AliasType:       aliasType,
		IsActive:        true,
	}, nil
}

// Toggle flips the active flag
func (a *PortAlias) Toggle() {
	a.IsActive = !a.IsActive
	a.Touch()
}

var diacritics = runes.Remove(runes.In(unicode.Mn))

// NormalizeAlias folds a free-text port name into a comparable key:
// accents stripped, lower case, punctuation turned into spaces, whitespace collapsed.
// "Zeebrugge-Brügge " and "zeebrugge brugge" normalise to the same key.
func NormalizeAlias(s string) string {
	t := transform.Chain(norm.NFD, diacritics, norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(folded)

	var b strings.Builder
	b.Grow(len(folded))
	space := false
	for _, r := range folded {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r)
			space = false
			continue
		}
		space = true
	}
	return b.String()
}

// PortAliasRepository defines the persistence interface for port aliases
type PortAliasRepository interface {
	// FindByID finds an alias by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PortAlias, error)

	// FindByNormalized finds an alias by its normalised key
	FindByNormalized(ctx context.Context, normalized string) (*PortAlias, error)

	// FindAll returns aliases matching the filter, ports preloaded
	FindAll(ctx context.Context, filter shared.Filter) ([]PortAlias, error)

	// FindByPort returns all aliases of a port
	FindByPort(ctx context.Context, portID uuid.UUID) ([]PortAlias, error)

	// FindActive returns all active aliases
	FindActive(ctx context.Context) ([]PortAlias, error)

	// Save creates or updates an alias
	Save(ctx context.Context, alias *PortAlias) error

	// SaveBatch creates aliases in one statement
	SaveBatch(ctx context.Context, aliases []*PortAlias) error

	// Delete removes an alias
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of aliases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
