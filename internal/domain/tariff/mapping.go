package tariff

import (
	"context"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// Well-known carriers
const (
	CarrierGrimaldi = "GRIMALDI"
	CarrierSallaum  = "SALLAUM"
	CarrierNMT      = "NMT"
)

// Vehicle categories used in RoRo tariffs
const (
	VehicleCar       = "car"
	VehicleSmallVan  = "small_van"
	VehicleBigVan    = "big_van"
	VehicleSUV       = "suv"
	VehicleTruck     = "truck"
	VehicleTrailer   = "trailer"
	VehicleMachinery = "machinery"
)

// VehicleCategories lists the categories in display order
var VehicleCategories = []string{
	VehicleCar, VehicleSUV, VehicleSmallVan, VehicleBigVan, VehicleTruck, VehicleTrailer, VehicleMachinery,
}

// CarrierMapping binds carrier + port + vehicle category to the Robaws article that sells it
type CarrierMapping struct {
	shared.BaseEntity
	Carrier         string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_carrier_mapping,priority:1"`
	PortCode        string     `gorm:"type:varchar(5);not null;uniqueIndex:idx_carrier_mapping,priority:2"`
	VehicleCategory string     `gorm:"type:varchar(50);not null;uniqueIndex:idx_carrier_mapping,priority:3"`
	ArticleID       *uuid.UUID `gorm:"type:uuid;index"`
	IsPrimary       bool       `gorm:"not null;default:false"`
	IsActive        bool       `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CarrierMapping) TableName() string {
	return "carrier_article_mappings"
}

// NewCarrierMapping creates a mapping
func NewCarrierMapping(carrier, portCode, vehicleCategory string) (*CarrierMapping, error) {
	carrier = strings.ToUpper(strings.TrimSpace(carrier))
	portCode = strings.ToUpper(strings.TrimSpace(portCode))
	vehicleCategory = strings.ToLower(strings.TrimSpace(vehicleCategory))
	if carrier == "" {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Carrier cannot be empty")
	}
	if len(portCode) != 5 {
		return nil, shared.NewDomainError("INVALID_PORT", "Port code must be a 5 character UN/LOCODE")
	}
	if vehicleCategory == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Vehicle category cannot be empty")
	}
	return &CarrierMapping{
		BaseEntity:      shared.NewBaseEntity(),
		Carrier:         carrier,
		PortCode:        portCode,
		VehicleCategory: vehicleCategory,
		IsActive:        true,
	}, nil
}

// LinkArticle points the mapping at a Robaws article
func (m *CarrierMapping) LinkArticle(articleID uuid.UUID) {
	m.ArticleID = &articleID
	m.Touch()
}

// CarrierMappingRepository defines the persistence interface for carrier mappings
type CarrierMappingRepository interface {
	// FindByID finds a mapping by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CarrierMapping, error)

	// FindByKey finds a mapping by carrier, port and vehicle category
	FindByKey(ctx context.Context, carrier, portCode, vehicleCategory string) (*CarrierMapping, error)

	// FindByCarrier returns every mapping of a carrier
	FindByCarrier(ctx context.Context, carrier string) ([]CarrierMapping, error)

	// Save creates or updates a mapping
	Save(ctx context.Context, mapping *CarrierMapping) error
}
