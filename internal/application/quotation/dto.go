package quotation

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Actor is the authenticated caller. Customers only see their own requests.
type Actor struct {
	UserID         *uuid.UUID
	Email          string
	RobawsClientID string
	CustomerType   string
	Staff          bool
}

// ContactInput carries the customer details of a request
type ContactInput struct {
	ContactName     string `json:"contact_name" binding:"max=120"`
	ContactEmail    string `json:"contact_email" binding:"required,email,max=255"`
	ContactPhone    string `json:"contact_phone" binding:"max=50"`
	ClientName      string `json:"client_name" binding:"max=255"`
	RobawsClientID  string `json:"robaws_client_id" binding:"max=50"`
	CustomerType    string `json:"customer_type" binding:"max=50"`
	CustomerCountry string `json:"customer_country" binding:"omitempty,iso_country"`
	ClientReference string `json:"client_reference" binding:"max=100"`
}

// RouteInput accepts UN/LOCODEs or free-text port names
type RouteInput struct {
	Por   string `json:"por" binding:"max=120"`
	Pol   string `json:"pol" binding:"required,max=120"`
	Pod   string `json:"pod" binding:"required,max=120"`
	Fdest string `json:"fdest" binding:"max=120"`
}

// CommodityItemInput is one cargo line
type CommodityItemInput struct {
	Type        string          `json:"type" binding:"required,oneof=car suv van truck machinery container breakbulk other"`
	Description string          `json:"description" binding:"max=255"`
	Make        string          `json:"make" binding:"max=60"`
	Model       string          `json:"model" binding:"max=60"`
	Quantity    int             `json:"quantity" binding:"required,min=1,max=999"`
	LengthCm    decimal.Decimal `json:"length_cm"`
	WidthCm     decimal.Decimal `json:"width_cm"`
	HeightCm    decimal.Decimal `json:"height_cm"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
}

func (in CommodityItemInput) toDomain() (*quotation.CommodityItem, error) {
	item, err := quotation.NewCommodityItem(quotation.CommodityType(in.Type), in.Description, in.Quantity,
		in.LengthCm, in.WidthCm, in.HeightCm, in.WeightKg)
	if err != nil {
		return nil, err
	}
	item.Make = in.Make
	item.Model = in.Model
	return item, nil
}

// SubmitRequest creates a quotation request
type SubmitRequest struct {
	ServiceType      string               `json:"service_type" binding:"required,max=50"`
	Contact          ContactInput         `json:"contact" binding:"required"`
	Route            RouteInput           `json:"route" binding:"required"`
	CargoDescription string               `json:"cargo_description" binding:"max=2000"`
	CommodityItems   []CommodityItemInput `json:"commodity_items" binding:"omitempty,max=50,dive"`
	ScheduleID       *uuid.UUID           `json:"schedule_id"`
	Urgent           bool                 `json:"urgent"`
	Notes            string               `json:"notes" binding:"max=4000"`
	Source           string               `json:"source" binding:"omitempty,oneof=customer staff intake"`
}

// UpdateDetailsRequest changes the free-form fields
type UpdateDetailsRequest struct {
	ServiceType      string     `json:"service_type" binding:"required,max=50"`
	CargoDescription string     `json:"cargo_description" binding:"max=2000"`
	Notes            string     `json:"notes" binding:"max=4000"`
	Urgent           bool       `json:"urgent"`
	ScheduleID       *uuid.UUID `json:"schedule_id"`
	ClearSchedule    bool       `json:"clear_schedule"`
}

// CommodityItemsRequest replaces the cargo lines
type CommodityItemsRequest struct {
	Items []CommodityItemInput `json:"items" binding:"max=50,dive"`
}

// AddArticleRequest adds an article line. Quantity defaults to the cargo
// quantity for the article's unit type; UnitPrice overrides the article price.
type AddArticleRequest struct {
	ArticleID       uuid.UUID        `json:"article_id" binding:"required"`
	Quantity        *decimal.Decimal `json:"quantity"`
	UnitPrice       *decimal.Decimal `json:"unit_price"`
	IncludeRequired bool             `json:"include_required"`
}

// UpdateArticleQuantityRequest changes the quantity of a line
type UpdateArticleQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"required"`
}

// AutoSelectRequest applies the smart selector to the request
type AutoSelectRequest struct {
	Carrier       string `json:"carrier"`
	CommodityType string `json:"commodity_type"`
	Limit         int    `json:"limit" binding:"omitempty,min=1,max=50"`
	MinScore      int    `json:"min_score" binding:"omitempty,min=0,max=100"`
	SkipRequired  bool   `json:"skip_required"`
}

// AutoSelectResponse reports the lines the selector added
type AutoSelectResponse struct {
	Added     []ArticleLineResponse `json:"added"`
	Skipped   int                   `json:"skipped"`
	Quotation QuotationResponse     `json:"quotation"`
}

// ChangeStatusRequest moves a request through its lifecycle
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending processing quoted accepted rejected expired cancelled"`
	Reason string `json:"reason" binding:"max=500"`
}

// ExportRequest pushes a request to Robaws as an offer. Extraction holds
// document extraction data that fills fields the request leaves empty.
type ExportRequest struct {
	Extraction map[string]any `json:"extraction"`
	Force      bool           `json:"force"`
}

// ExportResponse is the result of an export
type ExportResponse struct {
	RequestNumber   string     `json:"request_number"`
	OfferID         string     `json:"offer_id"`
	OfferNumber     string     `json:"offer_number,omitempty"`
	AlreadyExported bool       `json:"already_exported"`
	ExportedAt      *time.Time `json:"exported_at,omitempty"`
}

// PriceResponse is a priced request with the VAT branch that applied
type PriceResponse struct {
	Quotation    QuotationResponse `json:"quotation"`
	VatTreatment string            `json:"vat_treatment"`
	ProfileName  string            `json:"profile_name,omitempty"`
}

// OfferDocumentResponse points at a rendered offer PDF
type OfferDocumentResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	FileName     string    `json:"file_name"`
	DownloadURL  string    `json:"download_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// ListFilter represents filter options for the quotation list
type ListFilter struct {
	Search         string     `form:"search"`
	Status         string     `form:"status" binding:"omitempty,oneof=pending processing quoted accepted rejected expired cancelled"`
	Source         string     `form:"source" binding:"omitempty,oneof=customer staff intake"`
	PolCode        string     `form:"pol_code"`
	PodCode        string     `form:"pod_code"`
	ServiceType    string     `form:"service_type"`
	Urgent         *bool      `form:"urgent"`
	Exported       *bool      `form:"exported"`
	CreatedFrom    *time.Time `form:"created_from" time_format:"2006-01-02"`
	CreatedTo      *time.Time `form:"created_to" time_format:"2006-01-02"`
	IncludeDeleted bool       `form:"include_deleted"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size" binding:"omitempty,max=200"`
	OrderBy        string     `form:"order_by"`
	OrderDir       string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CommodityItemResponse is a cargo line with its derived volumes
type CommodityItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Description string          `json:"description,omitempty"`
	Make        string          `json:"make,omitempty"`
	Model       string          `json:"model,omitempty"`
	Quantity    int             `json:"quantity"`
	LengthCm    decimal.Decimal `json:"length_cm"`
	WidthCm     decimal.Decimal `json:"width_cm"`
	HeightCm    decimal.Decimal `json:"height_cm"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	CBM         decimal.Decimal `json:"cbm"`
	LM          decimal.Decimal `json:"lm"`
}

// CargoResponse sums the cargo lines
type CargoResponse struct {
	Units    int             `json:"units"`
	CBM      decimal.Decimal `json:"cbm"`
	LM       decimal.Decimal `json:"lm"`
	WeightKg decimal.Decimal `json:"weight_kg"`
}

// ArticleLineResponse is a priced article line
type ArticleLineResponse struct {
	ID              uuid.UUID       `json:"id"`
	ArticleID       *uuid.UUID      `json:"article_id,omitempty"`
	RobawsArticleID string          `json:"robaws_article_id,omitempty"`
	ParentLineID    *uuid.UUID      `json:"parent_line_id,omitempty"`
	Description     string          `json:"description"`
	VehicleCategory string          `json:"vehicle_category,omitempty"`
	UnitType        string          `json:"unit_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	PurchasePrice   decimal.Decimal `json:"purchase_price"`
	MarginAmount    decimal.Decimal `json:"margin_amount"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
}

// QuotationResponse represents a quotation request in API responses
type QuotationResponse struct {
	ID               uuid.UUID               `json:"id"`
	RequestNumber    string                  `json:"request_number"`
	Source           string                  `json:"source"`
	Status           string                  `json:"status"`
	ServiceType      string                  `json:"service_type"`
	ContactName      string                  `json:"contact_name,omitempty"`
	ContactEmail     string                  `json:"contact_email"`
	ContactPhone     string                  `json:"contact_phone,omitempty"`
	ClientName       string                  `json:"client_name,omitempty"`
	RobawsClientID   string                  `json:"robaws_client_id,omitempty"`
	CustomerType     string                  `json:"customer_type,omitempty"`
	CustomerCountry  string                  `json:"customer_country,omitempty"`
	ClientReference  string                  `json:"client_reference,omitempty"`
	PorCode          string                  `json:"por_code,omitempty"`
	PolCode          string                  `json:"pol_code"`
	PodCode          string                  `json:"pod_code"`
	FdestCode        string                  `json:"fdest_code,omitempty"`
	CargoDescription string                  `json:"cargo_description,omitempty"`
	CommodityItems   []CommodityItemResponse `json:"commodity_items"`
	Cargo            CargoResponse           `json:"cargo"`
	ScheduleID       *uuid.UUID              `json:"schedule_id,omitempty"`
	Articles         []ArticleLineResponse   `json:"articles"`
	PricingProfileID *uuid.UUID              `json:"pricing_profile_id,omitempty"`
	Currency         string                  `json:"currency"`
	SubtotalAmount   decimal.Decimal         `json:"subtotal_amount"`
	VatCode          string                  `json:"vat_code,omitempty"`
	VatRate          decimal.Decimal         `json:"vat_rate"`
	VatAmount        decimal.Decimal         `json:"vat_amount"`
	TotalAmount      decimal.Decimal         `json:"total_amount"`
	PricedAt         *time.Time              `json:"priced_at,omitempty"`
	RobawsOfferID    string                  `json:"robaws_offer_id,omitempty"`
	ExportedAt       *time.Time              `json:"exported_at,omitempty"`
	Urgent           bool                    `json:"urgent"`
	Notes            string                  `json:"notes,omitempty"`
	DeletedAt        *time.Time              `json:"deleted_at,omitempty"`
	Version          int                     `json:"version"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// ToQuotationResponse converts a domain QuotationRequest
func ToQuotationResponse(q *quotation.QuotationRequest) QuotationResponse {
	cargo := q.Cargo()
	resp := QuotationResponse{
		ID:               q.ID,
		RequestNumber:    q.RequestNumber,
		Source:           string(q.Source),
		Status:           string(q.Status),
		ServiceType:      q.ServiceType,
		ContactName:      q.Contact.ContactName,
		ContactEmail:     q.Contact.ContactEmail,
		ContactPhone:     q.Contact.ContactPhone,
		ClientName:       q.Contact.ClientName,
		RobawsClientID:   q.Contact.RobawsClientID,
		CustomerType:     q.Contact.CustomerType,
		CustomerCountry:  q.Contact.CustomerCountry.String(),
		ClientReference:  q.Contact.ClientReference,
		PorCode:          q.Route.PorCode,
		PolCode:          q.Route.PolCode,
		PodCode:          q.Route.PodCode,
		FdestCode:        q.Route.FdestCode,
		CargoDescription: q.CargoDescription,
		CommodityItems:   make([]CommodityItemResponse, 0, len(q.CommodityItems)),
		Cargo: CargoResponse{
			Units:    cargo.Units,
			CBM:      cargo.CBM,
			LM:       cargo.LM,
			WeightKg: cargo.WeightKg,
		},
		ScheduleID:       q.ScheduleID,
		Articles:         make([]ArticleLineResponse, 0, len(q.Articles)),
		PricingProfileID: q.PricingProfileID,
		Currency:         string(q.Currency),
		SubtotalAmount:   q.Totals.Subtotal,
		VatCode:          q.Totals.VatCode,
		VatRate:          q.Totals.VatRate,
		VatAmount:        q.Totals.VatAmount,
		TotalAmount:      q.Totals.Total,
		PricedAt:         q.PricedAt,
		RobawsOfferID:    q.RobawsOfferID,
		ExportedAt:       q.ExportedAt,
		Urgent:           q.Urgent,
		Notes:            q.Notes,
		DeletedAt:        q.DeletedAt,
		Version:          q.Version,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
	for i := range q.CommodityItems {
		item := &q.CommodityItems[i]
		resp.CommodityItems = append(resp.CommodityItems, CommodityItemResponse{
			ID:          item.ID,
			Type:        string(item.Type),
			Description: item.Description,
			Make:        item.Make,
			Model:       item.Model,
			Quantity:    item.Quantity,
			LengthCm:    item.LengthCm,
			WidthCm:     item.WidthCm,
			HeightCm:    item.HeightCm,
			WeightKg:    item.WeightKg,
			CBM:         item.CBM(),
			LM:          item.LM(),
		})
	}
	for i := range q.Articles {
		resp.Articles = append(resp.Articles, ToArticleLineResponse(&q.Articles[i]))
	}
	return resp
}

// ToArticleLineResponse converts a domain ArticleLine
func ToArticleLineResponse(l *quotation.ArticleLine) ArticleLineResponse {
	return ArticleLineResponse{
		ID:              l.ID,
		ArticleID:       l.ArticleID,
		RobawsArticleID: l.RobawsArticleID,
		ParentLineID:    l.ParentLineID,
		Description:     l.Description,
		VehicleCategory: l.VehicleCategory,
		UnitType:        string(l.UnitType),
		Quantity:        l.Quantity,
		PurchasePrice:   l.PurchasePrice,
		MarginAmount:    l.MarginAmount,
		SellingPrice:    l.UnitPrice,
		Subtotal:        l.Subtotal,
	}
}

// InitiateUploadRequest starts a presigned attachment upload
type InitiateUploadRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	FileSize    int64  `json:"file_size" binding:"required,min=1"`
	ContentType string `json:"content_type" binding:"required"`
}

// InitiateUploadResponse returns the presigned upload target
type InitiateUploadResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	UploadURL    string    `json:"upload_url"`
	ExpiresAt    time.Time `json:"expires_at"`
	StorageKey   string    `json:"storage_key"`
}

// AttachmentResponse represents an attachment in API responses
type AttachmentResponse struct {
	ID          uuid.UUID `json:"id"`
	QuotationID uuid.UUID `json:"quotation_id"`
	Kind        string    `json:"kind"`
	Status      string    `json:"status"`
	FileName    string    `json:"file_name"`
	FileSize    int64     `json:"file_size"`
	ContentType string    `json:"content_type"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToAttachmentResponse converts a domain Attachment
func ToAttachmentResponse(a *quotation.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		QuotationID: a.QuotationID,
		Kind:        string(a.Kind),
		Status:      string(a.Status),
		FileName:    a.FileName,
		FileSize:    a.FileSize,
		ContentType: a.ContentType,
		CreatedAt:   a.CreatedAt,
	}
}

// DownloadURLResponse is a presigned download link
type DownloadURLResponse struct {
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

func countryOf(code string) valueobject.Country {
	return valueobject.NewCountry(code)
}
