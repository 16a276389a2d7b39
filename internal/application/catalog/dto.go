package catalog

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ArticleResponse represents a cached Robaws article in API responses
type ArticleResponse struct {
	ID              uuid.UUID       `json:"id"`
	RobawsArticleID string          `json:"robaws_article_id"`
	Code            string          `json:"code,omitempty"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Category        string          `json:"category,omitempty"`
	VehicleCategory string          `json:"vehicle_category,omitempty"`
	UnitType        string          `json:"unit_type"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	Currency        string          `json:"currency"`
	Carrier         string          `json:"carrier,omitempty"`
	ServiceTypes    []string        `json:"service_types"`
	PolCode         string          `json:"pol_code,omitempty"`
	PodCode         string          `json:"pod_code,omitempty"`
	CommodityTypes  []string        `json:"commodity_types"`
	IsParent        bool            `json:"is_parent"`
	IsSurcharge     bool            `json:"is_surcharge"`
	IsMandatory     bool            `json:"is_mandatory"`
	ValidFrom       *time.Time      `json:"valid_from,omitempty"`
	ValidUntil      *time.Time      `json:"valid_until,omitempty"`
	IsActive        bool            `json:"is_active"`
	LastSyncedAt    *time.Time      `json:"last_synced_at,omitempty"`
	Children        []ChildResponse `json:"children,omitempty"`
}

// ChildResponse is an add-on article of a parent
type ChildResponse struct {
	ArticleID  uuid.UUID `json:"article_id"`
	Name       string    `json:"name,omitempty"`
	IsRequired bool      `json:"is_required"`
}

// ToArticleResponse converts a domain Article
func ToArticleResponse(a *catalog.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:              a.ID,
		RobawsArticleID: a.RobawsArticleID,
		Code:            a.Code,
		Name:            a.Name,
		Description:     a.Description,
		Category:        a.Category,
		VehicleCategory: a.VehicleCategory,
		UnitType:        string(a.UnitType),
		UnitPrice:       a.UnitPrice,
		Currency:        a.Currency,
		Carrier:         a.Carrier,
		ServiceTypes:    a.ServiceTypes,
		PolCode:         a.PolCode,
		PodCode:         a.PodCode,
		CommodityTypes:  a.CommodityTypes,
		IsParent:        a.IsParent,
		IsSurcharge:     a.IsSurcharge,
		IsMandatory:     a.IsMandatory,
		ValidFrom:       a.ValidFrom,
		ValidUntil:      a.ValidUntil,
		IsActive:        a.IsActive,
		LastSyncedAt:    a.LastSyncedAt,
	}
	if resp.ServiceTypes == nil {
		resp.ServiceTypes = []string{}
	}
	if resp.CommodityTypes == nil {
		resp.CommodityTypes = []string{}
	}
	for _, c := range a.Children {
		child := ChildResponse{ArticleID: c.ChildID, IsRequired: c.IsRequired}
		if c.Child != nil {
			child.Name = c.Child.Name
		}
		resp.Children = append(resp.Children, child)
	}
	return resp
}

// ArticleListFilter represents filter options for the article list
type ArticleListFilter struct {
	Search      string `form:"search"`
	Category    string `form:"category"`
	Carrier     string `form:"carrier"`
	UnitType    string `form:"unit_type" binding:"omitempty,oneof=LM CBM UNIT SHIPMENT WM"`
	ServiceType string `form:"service_type"`
	PolCode     string `form:"pol_code"`
	PodCode     string `form:"pod_code"`
	IsActive    *bool  `form:"is_active"`
	IsParent    *bool  `form:"is_parent"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size" binding:"omitempty,max=200"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SuggestRequest asks the smart selector for articles matching a shipment
type SuggestRequest struct {
	ServiceType   string     `form:"service_type" json:"service_type"`
	Carrier       string     `form:"carrier" json:"carrier"`
	PolCode       string     `form:"pol_code" json:"pol_code"`
	PodCode       string     `form:"pod_code" json:"pod_code"`
	CommodityType string     `form:"commodity_type" json:"commodity_type"`
	Date          *time.Time `form:"date" json:"date" time_format:"2006-01-02"`
	Limit         int        `form:"limit" json:"limit" binding:"omitempty,min=1,max=100"`
}

// SuggestionResponse is a ranked article
type SuggestionResponse struct {
	Article ArticleResponse `json:"article"`
	Score   int             `json:"score"`
	Reasons []string        `json:"reasons"`
}

// AdditionalServicesResponse lists the add-ons of a parent article
type AdditionalServicesResponse struct {
	Parent   ArticleResponse   `json:"parent"`
	Required []ArticleResponse `json:"required"`
	Optional []ArticleResponse `json:"optional"`
}

// SyncRunResponse represents an article sync run
type SyncRunResponse struct {
	ID              uuid.UUID  `json:"id"`
	Trigger         string     `json:"trigger"`
	Status          string     `json:"status"`
	Total           int        `json:"total"`
	Processed       int        `json:"processed"`
	Created         int        `json:"created"`
	Updated         int        `json:"updated"`
	Failed          int        `json:"failed"`
	Deactivated     int        `json:"deactivated"`
	ProgressPercent int        `json:"progress_percent"`
	DurationSeconds float64    `json:"duration_seconds"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
	LastError       string     `json:"last_error,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToSyncRunResponse converts a domain ArticleSyncRun
func ToSyncRunResponse(r *catalog.ArticleSyncRun) SyncRunResponse {
	return SyncRunResponse{
		ID:              r.ID,
		Trigger:         r.Trigger,
		Status:          string(r.Status),
		Total:           r.Total,
		Processed:       r.Processed,
		Created:         r.Created,
		Updated:         r.Updated,
		Failed:          r.Failed,
		Deactivated:     r.Deactivated,
		ProgressPercent: r.ProgressPercent(),
		DurationSeconds: r.Duration().Seconds(),
		StartedAt:       r.StartedAt,
		FinishedAt:      r.FinishedAt,
		LastError:       r.LastError,
		CreatedAt:       r.CreatedAt,
	}
}

// SyncProgressResponse is the sync dashboard payload
type SyncProgressResponse struct {
	Running *SyncRunResponse  `json:"running,omitempty"`
	Recent  []SyncRunResponse `json:"recent"`
}
