package persistence

import (
	"context"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/pricing"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMarginRuleRepository implements MarginRuleRepository using GORM
type GormMarginRuleRepository struct {
	db *gorm.DB
}

// NewGormMarginRuleRepository creates a new GormMarginRuleRepository
func NewGormMarginRuleRepository(db *gorm.DB) *GormMarginRuleRepository {
	return &GormMarginRuleRepository{db: db}
}

// FindByID finds a rule by its ID
func (r *GormMarginRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.MarginRule, error) {
	var rule pricing.MarginRule
	if err := r.db.WithContext(ctx).First(&rule, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &rule, nil
}

// FindAll returns rules matching the filter
func (r *GormMarginRuleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.MarginRule, error) {
	var rules []pricing.MarginRule
	query := r.applyFilter(r.db.WithContext(ctx).Model(&pricing.MarginRule{}), filter)
	query = applyPaging(query, filter, MarginRuleSortFields, "priority")
	if err := query.Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindActiveGlobal returns active rules that are not attached to a profile
func (r *GormMarginRuleRepository) FindActiveGlobal(ctx context.Context) ([]pricing.MarginRule, error) {
	var rules []pricing.MarginRule
	if err := r.db.WithContext(ctx).
		Where("profile_id IS NULL AND is_active = ?", true).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// FindByProfile returns the rules of a profile ordered by priority
func (r *GormMarginRuleRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]pricing.MarginRule, error) {
	var rules []pricing.MarginRule
	if err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// Save creates or updates a rule
func (r *GormMarginRuleRepository) Save(ctx context.Context, rule *pricing.MarginRule) error {
	return r.db.WithContext(ctx).Save(rule).Error
}

// Delete removes a rule
func (r *GormMarginRuleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&pricing.MarginRule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts rules matching the filter
func (r *GormMarginRuleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&pricing.MarginRule{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormMarginRuleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "profile_id":
			if value == nil {
				query = query.Where("profile_id IS NULL")
			} else {
				query = query.Where("profile_id = ?", value)
			}
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "vehicle_category":
			query = query.Where("vehicle_category = ?", value)
		case "unit_basis":
			query = query.Where("unit_basis = ?", value)
		}
	}
	return query
}

// GormPricingProfileRepository implements PricingProfileRepository using GORM
type GormPricingProfileRepository struct {
	db *gorm.DB
}

// NewGormPricingProfileRepository creates a new GormPricingProfileRepository
func NewGormPricingProfileRepository(db *gorm.DB) *GormPricingProfileRepository {
	return &GormPricingProfileRepository{db: db}
}

// FindByID finds a profile by ID with its rules
func (r *GormPricingProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingProfile, error) {
	var profile pricing.PricingProfile
	if err := r.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("priority DESC, created_at ASC") }).
		First(&profile, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &profile, nil
}

// FindAll returns profiles matching the filter, without rules
func (r *GormPricingProfileRepository) FindAll(ctx context.Context, filter shared.Filter) ([]pricing.PricingProfile, error) {
	var profiles []pricing.PricingProfile
	query := r.applyFilter(r.db.WithContext(ctx).Model(&pricing.PricingProfile{}), filter)
	query = applyPaging(query, filter, PricingProfileSortFields, "name")
	if err := query.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// FindActive returns active profiles with their active rules preloaded
func (r *GormPricingProfileRepository) FindActive(ctx context.Context) ([]pricing.PricingProfile, error) {
	var profiles []pricing.PricingProfile
	if err := r.db.WithContext(ctx).
		Preload("Rules", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("priority DESC, created_at ASC")
		}).
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}

// Save creates or updates the profile row. Rules are saved through the rule repository.
func (r *GormPricingProfileRepository) Save(ctx context.Context, profile *pricing.PricingProfile) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(profile).Error
}

// Delete removes a profile together with its rules
func (r *GormPricingProfileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("profile_id = ?", id).Delete(&pricing.MarginRule{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&pricing.PricingProfile{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts profiles matching the filter
func (r *GormPricingProfileRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&pricing.PricingProfile{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPricingProfileRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("LOWER(name) LIKE ?", likePattern(filter.Search))
	}
	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		case "is_default":
			query = query.Where("is_default = ?", value)
		case "customer_type":
			query = query.Where("customer_type = ?", value)
		case "robaws_client_id":
			query = query.Where("robaws_client_id = ?", value)
		}
	}
	return query
}

var (
	_ pricing.MarginRuleRepository     = (*GormMarginRuleRepository)(nil)
	_ pricing.PricingProfileRepository = (*GormPricingProfileRepository)(nil)
)
