package port

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/google/uuid"
)

// CreatePortRequest represents a request to create a port
type CreatePortRequest struct {
	Code    string `json:"code" binding:"required,unlocode"`
	Name    string `json:"name" binding:"required,max=120"`
	Country string `json:"country" binding:"required,iso_country"`
	Region  string `json:"region" binding:"max=60"`
	Type    string `json:"type" binding:"omitempty,oneof=seaport airport inland"`
}

// UpdatePortRequest represents a request to update a port
type UpdatePortRequest struct {
	Name     string `json:"name" binding:"required,max=120"`
	Country  string `json:"country" binding:"required,iso_country"`
	Region   string `json:"region" binding:"max=60"`
	Type     string `json:"type" binding:"required,oneof=seaport airport inland"`
	IsActive *bool  `json:"is_active"`
}

// PortResponse represents a port in API responses
type PortResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Region    string    `json:"region,omitempty"`
	Type      string    `json:"type"`
	IsActive  bool      `json:"is_active"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToPortResponse converts a domain Port
func ToPortResponse(p *port.Port) PortResponse {
	return PortResponse{
		ID:        p.ID,
		Code:      p.Code,
		Name:      p.Name,
		Country:   p.Country,
		Region:    p.Region,
		Type:      string(p.Type),
		IsActive:  p.IsActive,
		Label:     p.Label(),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// PortListFilter represents filter options for the port list
type PortListFilter struct {
	Search   string `form:"search"`
	Country  string `form:"country"`
	Region   string `form:"region"`
	Type     string `form:"type" binding:"omitempty,oneof=seaport airport inland"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=200"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ResolveRequest resolves free-text port names
type ResolveRequest struct {
	Inputs []string `json:"inputs" binding:"required,min=1,max=200"`
}

// ResolveResult is the resolution of one input
type ResolveResult struct {
	Input    string        `json:"input"`
	Resolved bool          `json:"resolved"`
	Kind     string        `json:"kind,omitempty"`
	Port     *PortResponse `json:"port,omitempty"`
	AliasID  *uuid.UUID    `json:"alias_id,omitempty"`
}

// CreateAliasRequest represents a request to add an alias to a port
type CreateAliasRequest struct {
	PortID    uuid.UUID `json:"port_id" binding:"required"`
	Alias     string    `json:"alias" binding:"required,max=120"`
	AliasType string    `json:"alias_type" binding:"omitempty,oneof=name code misspelling local"`
}

// BulkCreateAliasesRequest adds several aliases to one port
type BulkCreateAliasesRequest struct {
	PortID    uuid.UUID `json:"port_id" binding:"required"`
	Aliases   []string  `json:"aliases" binding:"required,min=1,max=200"`
	AliasType string    `json:"alias_type" binding:"omitempty,oneof=name code misspelling local"`
}

// BulkCreateAliasesResponse reports which aliases were created or skipped
type BulkCreateAliasesResponse struct {
	Created []AliasResponse `json:"created"`
	Skipped []SkippedAlias  `json:"skipped"`
}

// SkippedAlias is an alias that was not created
type SkippedAlias struct {
	Alias  string `json:"alias"`
	Reason string `json:"reason"`
}

// AliasResponse represents a port alias in API responses
type AliasResponse struct {
	ID              uuid.UUID     `json:"id"`
	PortID          uuid.UUID     `json:"port_id"`
	Alias           string        `json:"alias"`
	NormalizedAlias string        `json:"normalized_alias"`
	AliasType       string        `json:"alias_type"`
	IsActive        bool          `json:"is_active"`
	Port            *PortResponse `json:"port,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// ToAliasResponse converts a domain PortAlias
func ToAliasResponse(a *port.PortAlias) AliasResponse {
	resp := AliasResponse{
		ID:              a.ID,
		PortID:          a.PortID,
		Alias:           a.Alias,
		NormalizedAlias: a.NormalizedAlias,
		AliasType:       string(a.AliasType),
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
	}
	if a.Port != nil {
		p := ToPortResponse(a.Port)
		resp.Port = &p
	}
	return resp
}

// AliasListFilter represents filter options for the alias workbench
type AliasListFilter struct {
	Search    string `form:"search"`
	PortID    string `form:"port_id"`
	AliasType string `form:"alias_type"`
	IsActive  *bool  `form:"is_active"`
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size" binding:"omitempty,max=200"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}
