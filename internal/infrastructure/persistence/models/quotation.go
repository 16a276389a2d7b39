package models

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// QuotationRequestModel is the persistence model for the QuotationRequest aggregate
type QuotationRequestModel struct {
	AggregateModel
	RequestNumber    string           `gorm:"type:varchar(32);not null;uniqueIndex"`
	Source           quotation.Source `gorm:"type:varchar(20);not null"`
	Status           quotation.Status `gorm:"type:varchar(20);not null;index"`
	ServiceType      string           `gorm:"type:varchar(50)"`
	ContactName      string           `gorm:"type:varchar(200);not null"`
	ContactEmail     string           `gorm:"type:varchar(200);not null;index"`
	ContactPhone     string           `gorm:"type:varchar(50)"`
	ClientName       string           `gorm:"type:varchar(200)"`
	RobawsClientID   string           `gorm:"type:varchar(50);index"`
	CustomerType     string           `gorm:"type:varchar(50)"`
	CustomerCountry  string           `gorm:"type:varchar(2)"`
	ClientReference  string           `gorm:"type:varchar(100)"`
	PorCode          string           `gorm:"type:varchar(5)"`
	PolCode          string           `gorm:"type:varchar(5);not null"`
	PodCode          string           `gorm:"type:varchar(5);not null"`
	FdestCode        string           `gorm:"type:varchar(5)"`
	CargoDescription string           `gorm:"type:text"`
	ScheduleID       *uuid.UUID       `gorm:"type:uuid"`
	PricingProfileID *uuid.UUID       `gorm:"type:uuid"`
	SubtotalAmount   decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	VatCode          string           `gorm:"type:varchar(50)"`
	VatRate          decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	VatAmount        decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	TotalAmount      decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0"`
	Currency         string           `gorm:"type:varchar(3);not null;default:'EUR'"`
	RobawsOfferID    string           `gorm:"type:varchar(50)"`
	ExportedAt       *time.Time
	PricedAt         *time.Time
	Urgent           bool                 `gorm:"not null;default:false"`
	Notes            string               `gorm:"type:text"`
	SubmittedBy      *uuid.UUID           `gorm:"type:uuid"`
	DeletedAt        gorm.DeletedAt       `gorm:"index"`
	CommodityItems   []CommodityItemModel `gorm:"foreignKey:QuotationID"`
	Articles         []ArticleLineModel   `gorm:"foreignKey:QuotationID"`
}

// TableName returns the table name for GORM
func (QuotationRequestModel) TableName() string {
	return "quotation_requests"
}

// ToDomain converts the model, children included, to the domain aggregate
func (m *QuotationRequestModel) ToDomain() *quotation.QuotationRequest {
	q := &quotation.QuotationRequest{
		BaseAggregateRoot: m.ToAggregateRoot(),
		RequestNumber:     m.RequestNumber,
		Source:            m.Source,
		Status:            m.Status,
		ServiceType:       m.ServiceType,
		Contact: quotation.Contact{
			ContactName:     m.ContactName,
			ContactEmail:    m.ContactEmail,
			ContactPhone:    m.ContactPhone,
			ClientName:      m.ClientName,
			RobawsClientID:  m.RobawsClientID,
			CustomerType:    m.CustomerType,
			CustomerCountry: valueobject.Country(m.CustomerCountry),
			ClientReference: m.ClientReference,
		},
		Route: quotation.Route{
			PorCode:   m.PorCode,
			PolCode:   m.PolCode,
			PodCode:   m.PodCode,
			FdestCode: m.FdestCode,
		},
		CargoDescription: m.CargoDescription,
		ScheduleID:       m.ScheduleID,
		PricingProfileID: m.PricingProfileID,
		Totals: quotation.Totals{
			Subtotal:  m.SubtotalAmount,
			VatCode:   m.VatCode,
			VatRate:   m.VatRate,
			VatAmount: m.VatAmount,
			Total:     m.TotalAmount,
		},
		Currency:      valueobject.Currency(m.Currency),
		RobawsOfferID: m.RobawsOfferID,
		ExportedAt:    m.ExportedAt,
		PricedAt:      m.PricedAt,
		Urgent:        m.Urgent,
		Notes:         m.Notes,
		SubmittedBy:   m.SubmittedBy,
	}
	if m.DeletedAt.Valid {
		t := m.DeletedAt.Time
		q.DeletedAt = &t
	}
	q.CommodityItems = make([]quotation.CommodityItem, 0, len(m.CommodityItems))
	for i := range m.CommodityItems {
		q.CommodityItems = append(q.CommodityItems, m.CommodityItems[i].ToDomain())
	}
	q.Articles = make([]quotation.ArticleLine, 0, len(m.Articles))
	for i := range m.Articles {
		q.Articles = append(q.Articles, m.Articles[i].ToDomain())
	}
	return q
}

// FromDomain populates the model from the domain aggregate
func (m *QuotationRequestModel) FromDomain(q *quotation.QuotationRequest) {
	m.FromDomainAggregateRoot(q.BaseAggregateRoot)
	m.RequestNumber = q.RequestNumber
	m.Source = q.Source
	m.Status = q.Status
	m.ServiceType = q.ServiceType
	m.ContactName = q.Contact.ContactName
	m.ContactEmail = q.Contact.ContactEmail
	m.ContactPhone = q.Contact.ContactPhone
	m.ClientName = q.Contact.ClientName
	m.RobawsClientID = q.Contact.RobawsClientID
	m.CustomerType = q.Contact.CustomerType
	m.CustomerCountry = q.Contact.CustomerCountry.String()
	m.ClientReference = q.Contact.ClientReference
	m.PorCode = q.Route.PorCode
	m.PolCode = q.Route.PolCode
	m.PodCode = q.Route.PodCode
	m.FdestCode = q.Route.FdestCode
	m.CargoDescription = q.CargoDescription
	m.ScheduleID = q.ScheduleID
	m.PricingProfileID = q.PricingProfileID
	m.SubtotalAmount = q.Totals.Subtotal
	m.VatCode = q.Totals.VatCode
	m.VatRate = q.Totals.VatRate
	m.VatAmount = q.Totals.VatAmount
	m.TotalAmount = q.Totals.Total
	m.Currency = string(q.Currency)
	if m.Currency == "" {
		m.Currency = string(valueobject.DefaultCurrency)
	}
	m.RobawsOfferID = q.RobawsOfferID
	m.ExportedAt = q.ExportedAt
	m.PricedAt = q.PricedAt
	m.Urgent = q.Urgent
	m.Notes = q.Notes
	m.SubmittedBy = q.SubmittedBy
	m.DeletedAt = gorm.DeletedAt{}
	if q.DeletedAt != nil {
		m.DeletedAt = gorm.DeletedAt{Time: *q.DeletedAt, Valid: true}
	}

	m.CommodityItems = make([]CommodityItemModel, 0, len(q.CommodityItems))
	for i := range q.CommodityItems {
		var item CommodityItemModel
		item.FromDomain(q.ID, &q.CommodityItems[i])
		m.CommodityItems = append(m.CommodityItems, item)
	}
	m.Articles = make([]ArticleLineModel, 0, len(q.Articles))
	for i := range q.Articles {
		var line ArticleLineModel
		line.FromDomain(q.ID, &q.Articles[i])
		m.Articles = append(m.Articles, line)
	}
}

// QuotationRequestModelFromDomain creates a new persistence model from the aggregate
func QuotationRequestModelFromDomain(q *quotation.QuotationRequest) *QuotationRequestModel {
	m := &QuotationRequestModel{}
	m.FromDomain(q)
	return m
}

// CommodityItemModel is one cargo line of a quotation request
type CommodityItemModel struct {
	ID          uuid.UUID               `gorm:"type:uuid;primary_key"`
	QuotationID uuid.UUID               `gorm:"type:uuid;not null;index"`
	Type        quotation.CommodityType `gorm:"type:varchar(20);not null"`
	Description string                  `gorm:"type:varchar(255)"`
	Make        string                  `gorm:"type:varchar(100)"`
	Model       string                  `gorm:"type:varchar(100)"`
	Quantity    int                     `gorm:"not null;default:1"`
	LengthCm    decimal.Decimal         `gorm:"type:decimal(10,2);not null;default:0"`
	WidthCm     decimal.Decimal         `gorm:"type:decimal(10,2);not null;default:0"`
	HeightCm    decimal.Decimal         `gorm:"type:decimal(10,2);not null;default:0"`
	WeightKg    decimal.Decimal         `gorm:"type:decimal(12,2);not null;default:0"`
	SortOrder   int                     `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (CommodityItemModel) TableName() string {
	return "quotation_commodity_items"
}

// ToDomain converts the model to a domain commodity item
func (m *CommodityItemModel) ToDomain() quotation.CommodityItem {
	return quotation.CommodityItem{
		ID:          m.ID,
		Type:        m.Type,
		Description: m.Description,
		Make:        m.Make,
		Model:       m.Model,
		Quantity:    m.Quantity,
		LengthCm:    m.LengthCm,
		WidthCm:     m.WidthCm,
		HeightCm:    m.HeightCm,
		WeightKg:    m.WeightKg,
		SortOrder:   m.SortOrder,
	}
}

// FromDomain populates the model from a domain commodity item
func (m *CommodityItemModel) FromDomain(quotationID uuid.UUID, c *quotation.CommodityItem) {
	m.ID = c.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.QuotationID = quotationID
	m.Type = c.Type
	m.Description = c.Description
	m.Make = c.Make
	m.Model = c.Model
	m.Quantity = c.Quantity
	m.LengthCm = c.LengthCm
	m.WidthCm = c.WidthCm
	m.HeightCm = c.HeightCm
	m.WeightKg = c.WeightKg
	m.SortOrder = c.SortOrder
}

// ArticleLineModel is one priced article of a quotation request.
// Quantities keep four decimals for fractional LM/CBM bases.
type ArticleLineModel struct {
	ID              uuid.UUID             `gorm:"type:uuid;primary_key"`
	QuotationID     uuid.UUID             `gorm:"type:uuid;not null;index"`
	ArticleID       *uuid.UUID            `gorm:"type:uuid"`
	RobawsArticleID string                `gorm:"type:varchar(50)"`
	ParentLineID    *uuid.UUID            `gorm:"type:uuid"`
	Description     string                `gorm:"type:varchar(255);not null"`
	VehicleCategory string                `gorm:"type:varchar(50)"`
	UnitType        valueobject.UnitBasis `gorm:"type:varchar(20);not null"`
	Quantity        decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	PurchasePrice   decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	MarginAmount    decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	UnitPrice       decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal        decimal.Decimal       `gorm:"type:decimal(18,2);not null;default:0"`
	SortOrder       int                   `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ArticleLineModel) TableName() string {
	return "quotation_articles"
}

// ToDomain converts the model to a domain article line
func (m *ArticleLineModel) ToDomain() quotation.ArticleLine {
	return quotation.ArticleLine{
		ID:              m.ID,
		ArticleID:       m.ArticleID,
		RobawsArticleID: m.RobawsArticleID,
		ParentLineID:    m.ParentLineID,
		Description:     m.Description,
		VehicleCategory: m.VehicleCategory,
		UnitType:        m.UnitType,
		Quantity:        m.Quantity,
		PurchasePrice:   m.PurchasePrice,
		MarginAmount:    m.MarginAmount,
		UnitPrice:       m.UnitPrice,
		Subtotal:        m.Subtotal,
		SortOrder:       m.SortOrder,
	}
}

// FromDomain populates the model from a domain article line
func (m *ArticleLineModel) FromDomain(quotationID uuid.UUID, l *quotation.ArticleLine) {
	m.ID = l.ID
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.QuotationID = quotationID
	m.ArticleID = l.ArticleID
	m.RobawsArticleID = l.RobawsArticleID
	m.ParentLineID = l.ParentLineID
	m.Description = l.Description
	m.VehicleCategory = l.VehicleCategory
	m.UnitType = l.UnitType
	m.Quantity = l.Quantity
	m.PurchasePrice = l.PurchasePrice
	m.MarginAmount = l.MarginAmount
	m.UnitPrice = l.UnitPrice
	m.Subtotal = l.Subtotal
	m.SortOrder = l.SortOrder
}

// QuotationAttachmentModel is the persistence model for quotation attachments
type QuotationAttachmentModel struct {
	BaseModel
	QuotationID uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Kind        quotation.AttachmentKind   `gorm:"type:varchar(20);not null"`
	Status      quotation.AttachmentStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	FileName    string                     `gorm:"column:file_name;type:varchar(255);not null"`
	FileSize    int64                      `gorm:"column:file_size;type:bigint;not null"`
	ContentType string                     `gorm:"column:content_type;type:varchar(100);not null"`
	StorageKey  string                     `gorm:"column:storage_key;type:varchar(500);not null"`
	UploadedBy  *uuid.UUID                 `gorm:"column:uploaded_by;type:uuid"`
}

// TableName returns the table name for GORM
func (QuotationAttachmentModel) TableName() string {
	return "quotation_attachments"
}

// ToDomain converts the model to a domain attachment
func (m *QuotationAttachmentModel) ToDomain() *quotation.Attachment {
	return &quotation.Attachment{
		BaseEntity:  m.BaseModel.ToDomain(),
		QuotationID: m.QuotationID,
		Kind:        m.Kind,
		Status:      m.Status,
		FileName:    m.FileName,
		FileSize:    m.FileSize,
		ContentType: m.ContentType,
		StorageKey:  m.StorageKey,
		UploadedBy:  m.UploadedBy,
	}
}

// FromDomain populates the model from a domain attachment
func (m *QuotationAttachmentModel) FromDomain(a *quotation.Attachment) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.QuotationID = a.QuotationID
	m.Kind = a.Kind
	m.Status = a.Status
	m.FileName = a.FileName
	m.FileSize = a.FileSize
	m.ContentType = a.ContentType
	m.StorageKey = a.StorageKey
	m.UploadedBy = a.UploadedBy
}

// RequestSequenceModel holds the last issued request number of a year
type RequestSequenceModel struct {
	Year      int `gorm:"primaryKey;autoIncrement:false"`
	LastValue int `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (RequestSequenceModel) TableName() string {
	return "quotation_request_sequences"
}
