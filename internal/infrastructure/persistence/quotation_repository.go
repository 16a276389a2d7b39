package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormQuotationRepository implements QuotationRepository using GORM.
// The aggregate is stored through models.QuotationRequestModel; commodity
// items and article lines are replaced as a whole on every save.
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

func preloadQuotationChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("CommodityItems", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Articles", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") })
}

// FindByID finds a non-deleted request by ID
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.QuotationRequest, error) {
	var model models.QuotationRequestModel
	if err := preloadQuotationChildren(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds a non-deleted request by its QR number
func (r *GormQuotationRepository) FindByNumber(ctx context.Context, number string) (*quotation.QuotationRequest, error) {
	var model models.QuotationRequestModel
	if err := preloadQuotationChildren(r.db.WithContext(ctx)).
		Where("request_number = ?", strings.ToUpper(strings.TrimSpace(number))).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByIDWithDeleted finds a request by ID including soft deleted ones
func (r *GormQuotationRepository) FindByIDWithDeleted(ctx context.Context, id uuid.UUID) (*quotation.QuotationRequest, error) {
	var model models.QuotationRequestModel
	if err := preloadQuotationChildren(r.db.WithContext(ctx).Unscoped()).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// List returns one page of requests and the total number of matches
func (r *GormQuotationRepository) List(ctx context.Context, filter quotation.ListFilter) ([]quotation.QuotationRequest, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.QuotationRequestModel{})
	if filter.IncludeDeleted {
		base = base.Unscoped()
	}
	base = r.applyFilter(base, filter)

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.QuotationRequestModel
	query := applyPaging(preloadQuotationChildren(base.Session(&gorm.Session{})), filter.Filter, QuotationSortFields, "created_at")
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	out := make([]quotation.QuotationRequest, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, total, nil
}

// Save upserts the request row and replaces its child rows in one transaction.
// The write is unscoped so that soft delete and restore both persist.
func (r *GormQuotationRepository) Save(ctx context.Context, q *quotation.QuotationRequest) error {
	model := models.QuotationRequestModelFromDomain(q)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Omit(clause.Associations).Save(model).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", q.ID).Delete(&models.CommodityItemModel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("quotation_id = ?", q.ID).Delete(&models.ArticleLineModel{}).Error; err != nil {
			return err
		}
		if len(model.CommodityItems) > 0 {
			if err := tx.Create(&model.CommodityItems).Error; err != nil {
				return err
			}
		}
		if len(model.Articles) > 0 {
			if err := tx.Create(&model.Articles).Error; err != nil {
				return err
			}
		}
		syncChildIDs(q, model)
		return nil
	})
}

// ExistsByNumber checks whether a number was ever issued, soft deleted requests included
func (r *GormQuotationRepository) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Unscoped().Model(&models.QuotationRequestModel{}).
		Where("request_number = ?", strings.ToUpper(strings.TrimSpace(number))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter quotation.ListFilter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where(
			"LOWER(request_number) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(contact_email) LIKE ? OR LOWER(client_name) LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Source != "" {
		query = query.Where("source = ?", filter.Source)
	}
	email := strings.ToLower(strings.TrimSpace(filter.ContactEmail))
	client := strings.TrimSpace(filter.RobawsClientID)
	switch {
	case filter.OwnerOnly && email != "" && client != "":
		query = query.Where("contact_email = ? OR robaws_client_id = ?", email, client)
	case filter.OwnerOnly && email != "":
		query = query.Where("contact_email = ?", email)
	case filter.OwnerOnly && client != "":
		query = query.Where("robaws_client_id = ?", client)
	case filter.OwnerOnly:
		// an owner scope without identity matches nothing
		query = query.Where("1 = 0")
	default:
		if email != "" {
			query = query.Where("contact_email = ?", email)
		}
		if client != "" {
			query = query.Where("robaws_client_id = ?", client)
		}
	}
	for key, value := range filter.Filters {
		switch key {
		case "pol_code":
			query = query.Where("pol_code = ?", value)
		case "pod_code":
			query = query.Where("pod_code = ?", value)
		case "service_type":
			query = query.Where("service_type = ?", value)
		case "urgent":
			query = query.Where("urgent = ?", value)
		case "exported":
			if value == true {
				query = query.Where("robaws_offer_id <> ''")
			} else {
				query = query.Where("robaws_offer_id = '' OR robaws_offer_id IS NULL")
			}
		case "created_from":
			query = query.Where("created_at >= ?", value)
		case "created_to":
			query = query.Where("created_at <= ?", value)
		}
	}
	return query
}

// syncChildIDs copies generated child ids back onto the aggregate
func syncChildIDs(q *quotation.QuotationRequest, m *models.QuotationRequestModel) {
	for i := range q.CommodityItems {
		if i < len(m.CommodityItems) {
			q.CommodityItems[i].ID = m.CommodityItems[i].ID
		}
	}
	for i := range q.Articles {
		if i < len(m.Articles) {
			q.Articles[i].ID = m.Articles[i].ID
		}
	}
}

// GormQuotationAttachmentRepository implements AttachmentRepository using GORM
type GormQuotationAttachmentRepository struct {
	db *gorm.DB
}

// NewGormQuotationAttachmentRepository creates a new GormQuotationAttachmentRepository
func NewGormQuotationAttachmentRepository(db *gorm.DB) *GormQuotationAttachmentRepository {
	return &GormQuotationAttachmentRepository{db: db}
}

// FindByID finds an attachment by its ID
func (r *GormQuotationAttachmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Attachment, error) {
	var model models.QuotationAttachmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByQuotation returns the non-deleted attachments of a quotation, oldest first
func (r *GormQuotationAttachmentRepository) FindByQuotation(ctx context.Context, quotationID uuid.UUID) ([]quotation.Attachment, error) {
	var rows []models.QuotationAttachmentModel
	if err := r.db.WithContext(ctx).
		Where("quotation_id = ? AND status <> ?", quotationID, quotation.AttachmentStatusDeleted).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]quotation.Attachment, 0, len(rows))
	for i := range rows {
		out = append(out, *rows[i].ToDomain())
	}
	return out, nil
}

// Save creates or updates an attachment
func (r *GormQuotationAttachmentRepository) Save(ctx context.Context, a *quotation.Attachment) error {
	model := &models.QuotationAttachmentModel{}
	model.FromDomain(a)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormRequestNumberSequence allocates QR numbers from one counter row per year
type GormRequestNumberSequence struct {
	db *gorm.DB
}

// NewGormRequestNumberSequence creates a new GormRequestNumberSequence
func NewGormRequestNumberSequence(db *gorm.DB) *GormRequestNumberSequence {
	return &GormRequestNumberSequence{db: db}
}

// Next increments and returns the counter of the given year. The counter row
// is locked for the rest of the surrounding transaction, so numbers are never
// handed out twice.
func (s *GormRequestNumberSequence) Next(ctx context.Context, year int) (int, error) {
	var next int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seed := models.RequestSequenceModel{Year: year, UpdatedAt: time.Now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
			return err
		}

		var row models.RequestSequenceModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("year = ?", year).
			First(&row).Error; err != nil {
			return err
		}

		next = row.LastValue + 1
		return tx.Model(&models.RequestSequenceModel{}).
			Where("year = ?", year).
			Updates(map[string]any{"last_value": next, "updated_at": time.Now()}).Error
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

var (
	_ quotation.QuotationRepository   = (*GormQuotationRepository)(nil)
	_ quotation.AttachmentRepository  = (*GormQuotationAttachmentRepository)(nil)
	_ quotation.RequestNumberSequence = (*GormRequestNumberSequence)(nil)
)
