package persistence

import (
	"context"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTariffRepository implements TariffRepository using GORM
type GormTariffRepository struct {
	db *gorm.DB
}

// NewGormTariffRepository creates a new GormTariffRepository
func NewGormTariffRepository(db *gorm.DB) *GormTariffRepository {
	return &GormTariffRepository{db: db}
}

// FindByID finds a tariff with its carrier mapping
func (r *GormTariffRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.Tariff, error) {
	var t tariff.Tariff
	if err := r.db.WithContext(ctx).Preload("Mapping").First(&t, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &t, nil
}

// FindByIDs loads several tariffs with their mappings
func (r *GormTariffRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]tariff.Tariff, error) {
	if len(ids) == 0 {
		return []tariff.Tariff{}, nil
	}
	var tariffs []tariff.Tariff
	if err := r.db.WithContext(ctx).Preload("Mapping").Where("id IN ?", ids).Find(&tariffs).Error; err != nil {
		return nil, err
	}
	return tariffs, nil
}

// FindAll returns tariffs matching the filter
func (r *GormTariffRepository) FindAll(ctx context.Context, filter shared.Filter) ([]tariff.Tariff, error) {
	var tariffs []tariff.Tariff
	query := r.applyFilter(r.db.WithContext(ctx).Model(&tariff.Tariff{}).Preload("Mapping"), filter)
	query = applyPaging(query, filter, TariffSortFields, "created_at")
	if err := query.Find(&tariffs).Error; err != nil {
		return nil, err
	}
	return tariffs, nil
}

// FindByCarrier returns every tariff of a carrier's mappings
func (r *GormTariffRepository) FindByCarrier(ctx context.Context, carrier string) ([]tariff.Tariff, error) {
	var tariffs []tariff.Tariff
	if err := r.db.WithContext(ctx).
		Preload("Mapping").
		Where("mapping_id IN (?)", r.mappingIDsOf(ctx, carrier)).
		Order("valid_from ASC").
		Find(&tariffs).Error; err != nil {
		return nil, err
	}
	return tariffs, nil
}

// FindByMapping returns the tariffs of one carrier mapping
func (r *GormTariffRepository) FindByMapping(ctx context.Context, mappingID uuid.UUID) ([]tariff.Tariff, error) {
	var tariffs []tariff.Tariff
	if err := r.db.WithContext(ctx).Where("mapping_id = ?", mappingID).Order("valid_from ASC").Find(&tariffs).Error; err != nil {
		return nil, err
	}
	return tariffs, nil
}

// Save creates or updates a tariff
func (r *GormTariffRepository) Save(ctx context.Context, t *tariff.Tariff) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(t).Error
}

// SaveBatch saves several tariffs in one transaction. Any failure rolls all of them back.
func (r *GormTariffRepository) SaveBatch(ctx context.Context, tariffs []*tariff.Tariff) error {
	if len(tariffs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, t := range tariffs {
			if err := tx.Omit(clause.Associations).Save(t).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a tariff
func (r *GormTariffRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&tariff.Tariff{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts tariffs matching the filter
func (r *GormTariffRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&tariff.Tariff{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormTariffRepository) mappingIDsOf(ctx context.Context, carrier string) *gorm.DB {
	return r.db.WithContext(ctx).Model(&tariff.CarrierMapping{}).
		Select("id").
		Where("carrier = ?", strings.ToUpper(strings.TrimSpace(carrier)))
}

func (r *GormTariffRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "mapping_id":
			query = query.Where("mapping_id = ?", value)
		case "carrier":
			if s, ok := value.(string); ok {
				query = query.Where("mapping_id IN (?)", r.db.Model(&tariff.CarrierMapping{}).
					Select("id").Where("carrier = ?", strings.ToUpper(s)))
			}
		case "port_code":
			if s, ok := value.(string); ok {
				query = query.Where("mapping_id IN (?)", r.db.Model(&tariff.CarrierMapping{}).
					Select("id").Where("port_code = ?", strings.ToUpper(s)))
			}
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "unit_basis":
			query = query.Where("unit_basis = ?", value)
		}
	}
	return query
}

// GormCarrierMappingRepository implements CarrierMappingRepository using GORM
type GormCarrierMappingRepository struct {
	db *gorm.DB
}

// NewGormCarrierMappingRepository creates a new GormCarrierMappingRepository
func NewGormCarrierMappingRepository(db *gorm.DB) *GormCarrierMappingRepository {
	return &GormCarrierMappingRepository{db: db}
}

// FindByID finds a mapping by ID
func (r *GormCarrierMappingRepository) FindByID(ctx context.Context, id uuid.UUID) (*tariff.CarrierMapping, error) {
	var m tariff.CarrierMapping
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &m, nil
}

// FindByKey finds the mapping of a carrier, port and vehicle category
func (r *GormCarrierMappingRepository) FindByKey(ctx context.Context, carrier, portCode, vehicleCategory string) (*tariff.CarrierMapping, error) {
	var m tariff.CarrierMapping
	if err := r.db.WithContext(ctx).
		Where("carrier = ? AND port_code = ? AND vehicle_category = ?",
			strings.ToUpper(strings.TrimSpace(carrier)),
			strings.ToUpper(strings.TrimSpace(portCode)),
			strings.ToLower(strings.TrimSpace(vehicleCategory))).
		First(&m).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &m, nil
}

// FindByCarrier returns the mappings of a carrier ordered by port and category
func (r *GormCarrierMappingRepository) FindByCarrier(ctx context.Context, carrier string) ([]tariff.CarrierMapping, error) {
	var mappings []tariff.CarrierMapping
	if err := r.db.WithContext(ctx).
		Where("carrier = ?", strings.ToUpper(strings.TrimSpace(carrier))).
		Order("port_code ASC, vehicle_category ASC").
		Find(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

// Save creates or updates a mapping
func (r *GormCarrierMappingRepository) Save(ctx context.Context, m *tariff.CarrierMapping) error {
	return r.db.WithContext(ctx).Save(m).Error
}

var (
	_ tariff.TariffRepository         = (*GormTariffRepository)(nil)
	_ tariff.CarrierMappingRepository = (*GormCarrierMappingRepository)(nil)
)
