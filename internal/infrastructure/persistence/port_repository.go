package persistence

import (
	"context"
	"strings"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPortRepository implements PortRepository using GORM
type GormPortRepository struct {
	db *gorm.DB
}

// NewGormPortRepository creates a new GormPortRepository
func NewGormPortRepository(db *gorm.DB) *GormPortRepository {
	return &GormPortRepository{db: db}
}

// FindByID finds a port by its ID
func (r *GormPortRepository) FindByID(ctx context.Context, id uuid.UUID) (*port.Port, error) {
	var p port.Port
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

// FindByCode finds a port by its UN/LOCODE
func (r *GormPortRepository) FindByCode(ctx context.Context, code string) (*port.Port, error) {
	var p port.Port
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&p).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &p, nil
}

// FindByCodes loads several ports at once, keyed by code. Unknown codes are absent from the map.
func (r *GormPortRepository) FindByCodes(ctx context.Context, codes []string) (map[string]*port.Port, error) {
	out := make(map[string]*port.Port, len(codes))
	if len(codes) == 0 {
		return out, nil
	}
	normalized := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.ToUpper(strings.TrimSpace(c)); c != "" {
			normalized = append(normalized, c)
		}
	}
	var ports []port.Port
	if err := r.db.WithContext(ctx).Where("code IN ?", normalized).Find(&ports).Error; err != nil {
		return nil, err
	}
	for i := range ports {
		out[ports[i].Code] = &ports[i]
	}
	return out, nil
}

// FindAll returns ports matching the filter
func (r *GormPortRepository) FindAll(ctx context.Context, filter shared.Filter) ([]port.Port, error) {
	var ports []port.Port
	query := r.applyFilter(r.db.WithContext(ctx).Model(&port.Port{}), filter)
	query = applyPaging(query, filter, PortSortFields, "code")
	if err := query.Find(&ports).Error; err != nil {
		return nil, err
	}
	return ports, nil
}

// FindActive returns all active ports
func (r *GormPortRepository) FindActive(ctx context.Context) ([]port.Port, error) {
	var ports []port.Port
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("code ASC").Find(&ports).Error; err != nil {
		return nil, err
	}
	return ports, nil
}

// Save creates or updates a port
func (r *GormPortRepository) Save(ctx context.Context, p *port.Port) error {
	return r.db.WithContext(ctx).Save(p).Error
}

// Delete removes a port together with its aliases
func (r *GormPortRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("port_id = ?", id).Delete(&port.PortAlias{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&port.Port{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// ExistsByCode checks whether a port with the code exists
func (r *GormPortRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&port.Port{}).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count counts ports matching the filter
func (r *GormPortRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&port.Port{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPortRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("LOWER(code) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "country":
			if s, ok := value.(string); ok {
				value = strings.ToUpper(s)
			}
			query = query.Where("country = ?", value)
		case "region":
			query = query.Where("region = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

// GormPortAliasRepository implements PortAliasRepository using GORM
type GormPortAliasRepository struct {
	db *gorm.DB
}

// NewGormPortAliasRepository creates a new GormPortAliasRepository
func NewGormPortAliasRepository(db *gorm.DB) *GormPortAliasRepository {
	return &GormPortAliasRepository{db: db}
}

// FindByID finds an alias by its ID
func (r *GormPortAliasRepository) FindByID(ctx context.Context, id uuid.UUID) (*port.PortAlias, error) {
	var a port.PortAlias
	if err := r.db.WithContext(ctx).Preload("Port").First(&a, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &a, nil
}

// FindByNormalized finds an alias by its normalized form
func (r *GormPortAliasRepository) FindByNormalized(ctx context.Context, normalized string) (*port.PortAlias, error) {
	var a port.PortAlias
	if err := r.db.WithContext(ctx).Where("normalized_alias = ?", normalized).First(&a).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &a, nil
}

// FindAll returns aliases matching the filter with their ports
func (r *GormPortAliasRepository) FindAll(ctx context.Context, filter shared.Filter) ([]port.PortAlias, error) {
	var aliases []port.PortAlias
	query := r.applyFilter(r.db.WithContext(ctx).Model(&port.PortAlias{}).Preload("Port"), filter)
	query = applyPaging(query, filter, PortAliasSortFields, "normalized_alias")
	if err := query.Find(&aliases).Error; err != nil {
		return nil, err
	}
	return aliases, nil
}

// FindByPort returns the aliases of a port
func (r *GormPortAliasRepository) FindByPort(ctx context.Context, portID uuid.UUID) ([]port.PortAlias, error) {
	var aliases []port.PortAlias
	if err := r.db.WithContext(ctx).Where("port_id = ?", portID).Order("normalized_alias ASC").Find(&aliases).Error; err != nil {
		return nil, err
	}
	return aliases, nil
}

// FindActive returns all active aliases
func (r *GormPortAliasRepository) FindActive(ctx context.Context) ([]port.PortAlias, error) {
	var aliases []port.PortAlias
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Find(&aliases).Error; err != nil {
		return nil, err
	}
	return aliases, nil
}

// Save creates or updates an alias
func (r *GormPortAliasRepository) Save(ctx context.Context, alias *port.PortAlias) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(alias).Error
}

// SaveBatch inserts several aliases in one transaction
func (r *GormPortAliasRepository) SaveBatch(ctx context.Context, aliases []*port.PortAlias) error {
	if len(aliases) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, a := range aliases {
			if err := tx.Omit(clause.Associations).Save(a).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an alias
func (r *GormPortAliasRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&port.PortAlias{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts aliases matching the filter
func (r *GormPortAliasRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&port.PortAlias{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormPortAliasRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(port.NormalizeAlias(filter.Search))
		query = query.Where("normalized_alias LIKE ?", pattern)
	}
	for key, value := range filter.Filters {
		switch key {
		case "port_id":
			query = query.Where("port_id = ?", value)
		case "alias_type":
			query = query.Where("alias_type = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}
	return query
}

var (
	_ port.PortRepository      = (*GormPortRepository)(nil)
	_ port.PortAliasRepository = (*GormPortAliasRepository)(nil)
)
