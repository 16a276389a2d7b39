package tariff

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AmountsInput carries the cost components of a tariff
type AmountsInput struct {
	BaseFreight    decimal.Decimal `json:"base_freight"`
	BAF            decimal.Decimal `json:"baf"`
	ETS            decimal.Decimal `json:"ets"`
	PortAdditional decimal.Decimal `json:"port_additional"`
	AdminFee       decimal.Decimal `json:"admin_fee"`
	THC            decimal.Decimal `json:"thc"`
}

func (a AmountsInput) toDomain() tariff.Amounts {
	return tariff.Amounts{
		BaseFreight:    a.BaseFreight,
		BAF:            a.BAF,
		ETS:            a.ETS,
		PortAdditional: a.PortAdditional,
		AdminFee:       a.AdminFee,
		THC:            a.THC,
	}
}

// CreateTariffRequest creates a tariff. The carrier mapping is looked up by
// carrier, port and vehicle category and created when missing.
type CreateTariffRequest struct {
	Carrier         string     `json:"carrier" binding:"required,max=50"`
	PortCode        string     `json:"port_code" binding:"required,unlocode"`
	VehicleCategory string     `json:"vehicle_category" binding:"required,max=50"`
	ArticleID       *uuid.UUID `json:"article_id"`
	AmountsInput
	Currency   string     `json:"currency" binding:"omitempty,len=3"`
	UnitBasis  string     `json:"unit_basis" binding:"omitempty,oneof=LM CBM UNIT SHIPMENT WM"`
	ValidFrom  *time.Time `json:"valid_from"`
	ValidUntil *time.Time `json:"valid_until"`
	Notes      string     `json:"notes" binding:"max=2000"`
}

// UpdateTariffRequest updates a tariff; nil fields are left alone
type UpdateTariffRequest struct {
	Amounts    *AmountsInput `json:"amounts"`
	Currency   *string       `json:"currency" binding:"omitempty,len=3"`
	ValidFrom  *time.Time    `json:"valid_from"`
	ValidUntil *time.Time    `json:"valid_until"`
	// ClearValidity opens both ends of the validity window
	ClearValidity bool    `json:"clear_validity"`
	IsActive      *bool   `json:"is_active"`
	Notes         *string `json:"notes" binding:"omitempty,max=2000"`
}

// TariffUpdate is one row of a bulk save
type TariffUpdate struct {
	ID uuid.UUID `json:"id" binding:"required"`
	UpdateTariffRequest
}

// BulkSaveRequest saves several tariffs at once
type BulkSaveRequest struct {
	Tariffs []TariffUpdate `json:"tariffs" binding:"required,min=1,max=500,dive"`
}

// BulkSaveResponse reports the outcome of a bulk save
type BulkSaveResponse struct {
	Saved        int      `json:"saved"`
	Unchanged    int      `json:"unchanged"`
	ArticlesSync int      `json:"articles_synced"`
	TariffIDs    []string `json:"tariff_ids"`
}

// SaveMatrixRequest applies rate matrix cell edits
type SaveMatrixRequest struct {
	Cells []tariff.CellUpdate `json:"cells" binding:"required,min=1,dive"`
}

// SaveMatrixResponse reports the outcome of a matrix save
type SaveMatrixResponse struct {
	Changed int         `json:"changed"`
	Unknown []uuid.UUID `json:"unknown,omitempty"`
}

// TariffListFilter represents filter options for the tariff list
type TariffListFilter struct {
	Carrier   string `form:"carrier"`
	PortCode  string `form:"port_code"`
	MappingID string `form:"mapping_id"`
	IsActive  *bool  `form:"is_active"`
	UnitBasis string `form:"unit_basis"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MappingResponse is a carrier mapping in API responses
type MappingResponse struct {
	ID              uuid.UUID  `json:"id"`
	Carrier         string     `json:"carrier"`
	PortCode        string     `json:"port_code"`
	VehicleCategory string     `json:"vehicle_category"`
	ArticleID       *uuid.UUID `json:"article_id,omitempty"`
	IsPrimary       bool       `json:"is_primary"`
}

// TariffResponse is a tariff in API responses
type TariffResponse struct {
	ID             uuid.UUID        `json:"id"`
	MappingID      uuid.UUID        `json:"mapping_id"`
	Mapping        *MappingResponse `json:"mapping,omitempty"`
	BaseFreight    decimal.Decimal  `json:"base_freight"`
	BAF            decimal.Decimal  `json:"baf"`
	ETS            decimal.Decimal  `json:"ets"`
	PortAdditional decimal.Decimal  `json:"port_additional"`
	AdminFee       decimal.Decimal  `json:"admin_fee"`
	THC            decimal.Decimal  `json:"thc"`
	Total          decimal.Decimal  `json:"total"`
	Currency       string           `json:"currency"`
	UnitBasis      string           `json:"unit_basis"`
	ValidFrom      *time.Time       `json:"valid_from,omitempty"`
	ValidUntil     *time.Time       `json:"valid_until,omitempty"`
	IsActive       bool             `json:"is_active"`
	Notes          string           `json:"notes,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	Version        int              `json:"version"`
}

// ToTariffResponse converts a domain Tariff to TariffResponse
func ToTariffResponse(t *tariff.Tariff) TariffResponse {
	resp := TariffResponse{
		ID:             t.ID,
		MappingID:      t.MappingID,
		BaseFreight:    t.BaseFreight,
		BAF:            t.BAF,
		ETS:            t.ETS,
		PortAdditional: t.PortAdditional,
		AdminFee:       t.AdminFee,
		THC:            t.THC,
		Total:          t.Total(),
		Currency:       t.Currency,
		UnitBasis:      string(t.UnitBasis),
		ValidFrom:      t.ValidFrom,
		ValidUntil:     t.ValidUntil,
		IsActive:       t.IsActive,
		Notes:          t.Notes,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
		Version:        t.Version,
	}
	if t.Mapping != nil {
		m := ToMappingResponse(t.Mapping)
		resp.Mapping = &m
	}
	return resp
}

// ToTariffResponses converts a slice of tariffs
func ToTariffResponses(tariffs []tariff.Tariff) []TariffResponse {
	out := make([]TariffResponse, len(tariffs))
	for i := range tariffs {
		out[i] = ToTariffResponse(&tariffs[i])
	}
	return out
}

// ToMappingResponse converts a carrier mapping
func ToMappingResponse(m *tariff.CarrierMapping) MappingResponse {
	return MappingResponse{
		ID:              m.ID,
		Carrier:         m.Carrier,
		PortCode:        m.PortCode,
		VehicleCategory: m.VehicleCategory,
		ArticleID:       m.ArticleID,
		IsPrimary:       m.IsPrimary,
	}
}
