package persistence

import (
	"context"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/schedule"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GormScheduleRepository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// FindByID finds a sailing by ID
func (r *GormScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*schedule.SailingSchedule, error) {
	var s schedule.SailingSchedule
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &s, nil
}

// FindAll returns one page of sailings and the total count
func (r *GormScheduleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]schedule.SailingSchedule, int64, error) {
	query := r.db.WithContext(ctx).Model(&schedule.SailingSchedule{})
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(vessel_name) LIKE ? OR LOWER(voyage_number) LIKE ? OR LOWER(carrier) LIKE ?", pattern, pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "carrier":
			query = query.Where("carrier = ?", value)
		case "pol_code":
			query = query.Where("pol_code = ?", value)
		case "pod_code":
			query = query.Where("pod_code = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sailings []schedule.SailingSchedule
	if err := applyPaging(query.Session(&gorm.Session{}), filter, ScheduleSortFields, "ets").Find(&sailings).Error; err != nil {
		return nil, 0, err
	}
	return sailings, total, nil
}

// Search returns active sailings leaving on or after c.From, earliest first
func (r *GormScheduleRepository) Search(ctx context.Context, c schedule.SearchCriteria) ([]schedule.SailingSchedule, error) {
	query := r.db.WithContext(ctx).Where("is_active = ?", true)
	if !c.From.IsZero() {
		query = query.Where("ets >= ?", c.From)
	}
	if c.PolCode != "" {
		query = query.Where("pol_code = ?", strings.ToUpper(strings.TrimSpace(c.PolCode)))
	}
	if c.PodCode != "" {
		query = query.Where("pod_code = ?", strings.ToUpper(strings.TrimSpace(c.PodCode)))
	}
	if c.Carrier != "" {
		query = query.Where("carrier = ?", strings.ToUpper(strings.TrimSpace(c.Carrier)))
	}
	if c.Limit > 0 {
		query = query.Limit(c.Limit)
	}

	var sailings []schedule.SailingSchedule
	if err := query.Order("ets ASC").Find(&sailings).Error; err != nil {
		return nil, err
	}
	return sailings, nil
}

// Save creates or updates a sailing
func (r *GormScheduleRepository) Save(ctx context.Context, s *schedule.SailingSchedule) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// Delete removes a sailing
func (r *GormScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&schedule.SailingSchedule{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ schedule.ScheduleRepository = (*GormScheduleRepository)(nil)
