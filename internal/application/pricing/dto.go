package pricing

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/pricing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MarginRuleRequest creates or replaces a margin rule
type MarginRuleRequest struct {
	ProfileID       *uuid.UUID      `json:"profile_id"`
	Name            string          `json:"name" binding:"required,max=100"`
	VehicleCategory string          `json:"vehicle_category" binding:"max=50"`
	UnitBasis       string          `json:"unit_basis" binding:"omitempty,oneof=LM CBM UNIT SHIPMENT WM"`
	MarginType      string          `json:"margin_type" binding:"required,oneof=percentage fixed"`
	Value           decimal.Decimal `json:"value"`
	Priority        int             `json:"priority"`
	IsActive        *bool           `json:"is_active"`
}

// MarginRuleResponse is a margin rule in API responses
type MarginRuleResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProfileID       *uuid.UUID      `json:"profile_id,omitempty"`
	Name            string          `json:"name"`
	VehicleCategory string          `json:"vehicle_category"`
	UnitBasis       string          `json:"unit_basis"`
	MarginType      string          `json:"margin_type"`
	Value           decimal.Decimal `json:"value"`
	Priority        int             `json:"priority"`
	IsActive        bool            `json:"is_active"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToMarginRuleResponse converts a domain MarginRule
func ToMarginRuleResponse(r *pricing.MarginRule) MarginRuleResponse {
	return MarginRuleResponse{
		ID:              r.ID,
		ProfileID:       r.ProfileID,
		Name:            r.Name,
		VehicleCategory: r.VehicleCategory,
		UnitBasis:       string(r.UnitBasis),
		MarginType:      string(r.MarginType),
		Value:           r.Value,
		Priority:        r.Priority,
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

// ProfileRequest creates or updates a pricing profile. At most one of
// RobawsClientID, CustomerType and IsDefault scopes the profile.
type ProfileRequest struct {
	Name           string     `json:"name" binding:"required,max=100"`
	Description    string     `json:"description" binding:"max=1000"`
	RobawsClientID string     `json:"robaws_client_id" binding:"max=50"`
	CustomerType   string     `json:"customer_type" binding:"max=50"`
	IsDefault      bool       `json:"is_default"`
	IsActive       *bool      `json:"is_active"`
	ValidFrom      *time.Time `json:"valid_from"`
	ValidUntil     *time.Time `json:"valid_until"`
}

// ProfileResponse is a pricing profile in API responses
type ProfileResponse struct {
	ID             uuid.UUID            `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	RobawsClientID string               `json:"robaws_client_id,omitempty"`
	CustomerType   string               `json:"customer_type,omitempty"`
	IsDefault      bool                 `json:"is_default"`
	IsActive       bool                 `json:"is_active"`
	ValidFrom      *time.Time           `json:"valid_from,omitempty"`
	ValidUntil     *time.Time           `json:"valid_until,omitempty"`
	Rules          []MarginRuleResponse `json:"rules,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Version        int                  `json:"version"`
}

// ToProfileResponse converts a domain PricingProfile
func ToProfileResponse(p *pricing.PricingProfile) ProfileResponse {
	resp := ProfileResponse{
		ID:             p.ID,
		Name:           p.Name,
		Description:    p.Description,
		RobawsClientID: p.RobawsClientID,
		CustomerType:   p.CustomerType,
		IsDefault:      p.IsDefault,
		IsActive:       p.IsActive,
		ValidFrom:      p.ValidFrom,
		ValidUntil:     p.ValidUntil,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
		Version:        p.Version,
	}
	for i := range p.Rules {
		resp.Rules = append(resp.Rules, ToMarginRuleResponse(&p.Rules[i]))
	}
	return resp
}

// ListFilter represents paging and search options for rule and profile lists
type ListFilter struct {
	Search    string `form:"search"`
	ProfileID string `form:"profile_id"`
	IsActive  *bool  `form:"is_active"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PreviewRequest asks what margin a customer would get on a base price
type PreviewRequest struct {
	BasePrice       decimal.Decimal `json:"base_price"`
	VehicleCategory string          `json:"vehicle_category"`
	UnitBasis       string          `json:"unit_basis" binding:"omitempty,oneof=LM CBM UNIT SHIPMENT WM"`
	RobawsClientID  string          `json:"robaws_client_id"`
	CustomerType    string          `json:"customer_type"`
	At              *time.Time      `json:"at"`
}

// PreviewResponse is the resolved margin and selling price
type PreviewResponse struct {
	BasePrice    decimal.Decimal `json:"base_price"`
	Margin       decimal.Decimal `json:"margin"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Tier         string          `json:"tier"`
	RuleID       *uuid.UUID      `json:"rule_id,omitempty"`
	RuleName     string          `json:"rule_name,omitempty"`
	ProfileID    *uuid.UUID      `json:"profile_id,omitempty"`
	ProfileName  string          `json:"profile_name,omitempty"`
}

// VatRequest asks for the VAT code of a route
type VatRequest struct {
	OriginCountry      string `form:"origin" json:"origin" binding:"omitempty,iso_country"`
	DestinationCountry string `form:"destination" json:"destination" binding:"omitempty,iso_country"`
}
