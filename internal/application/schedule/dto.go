package schedule

import (
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/schedule"
	"github.com/google/uuid"
)

// ScheduleRequest creates or replaces a sailing
type ScheduleRequest struct {
	Carrier      string    `json:"carrier" binding:"required,max=50"`
	ServiceName  string    `json:"service_name" binding:"max=120"`
	PolCode      string    `json:"pol_code" binding:"required,unlocode"`
	PodCode      string    `json:"pod_code" binding:"required,unlocode"`
	VesselName   string    `json:"vessel_name" binding:"required,max=120"`
	VoyageNumber string    `json:"voyage_number" binding:"max=50"`
	ETS          time.Time `json:"ets" binding:"required"`
	ETA          time.Time `json:"eta" binding:"required"`
	TransitDays  int       `json:"transit_days" binding:"min=0,max=365"`
	Frequency    string    `json:"frequency" binding:"max=50"`
	IsActive     *bool     `json:"is_active"`
}

func (r ScheduleRequest) toSailing() schedule.Sailing {
	return schedule.Sailing{
		Carrier:      r.Carrier,
		ServiceName:  r.ServiceName,
		PolCode:      r.PolCode,
		PodCode:      r.PodCode,
		VesselName:   r.VesselName,
		VoyageNumber: r.VoyageNumber,
		ETS:          r.ETS,
		ETA:          r.ETA,
		TransitDays:  r.TransitDays,
		Frequency:    r.Frequency,
	}
}

// ScheduleResponse represents a sailing in API responses
type ScheduleResponse struct {
	ID           uuid.UUID `json:"id"`
	Carrier      string    `json:"carrier"`
	ServiceName  string    `json:"service_name,omitempty"`
	PolCode      string    `json:"pol_code"`
	PodCode      string    `json:"pod_code"`
	VesselName   string    `json:"vessel_name"`
	VoyageNumber string    `json:"voyage_number,omitempty"`
	ETS          time.Time `json:"ets"`
	ETA          time.Time `json:"eta"`
	TransitDays  int       `json:"transit_days"`
	Frequency    string    `json:"frequency,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToScheduleResponse converts a domain SailingSchedule
func ToScheduleResponse(s *schedule.SailingSchedule) ScheduleResponse {
	return ScheduleResponse{
		ID:           s.ID,
		Carrier:      s.Carrier,
		ServiceName:  s.ServiceName,
		PolCode:      s.PolCode,
		PodCode:      s.PodCode,
		VesselName:   s.VesselName,
		VoyageNumber: s.VoyageNumber,
		ETS:          s.ETS,
		ETA:          s.ETA,
		TransitDays:  s.TransitDays,
		Frequency:    s.Frequency,
		IsActive:     s.IsActive,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

// ListFilter represents filter options for the schedule list
type ListFilter struct {
	Search   string `form:"search"`
	Carrier  string `form:"carrier"`
	PolCode  string `form:"pol_code"`
	PodCode  string `form:"pod_code"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=200"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SearchRequest finds upcoming sailings on a route
type SearchRequest struct {
	Pol     string     `form:"pol"`
	Pod     string     `form:"pod"`
	Carrier string     `form:"carrier"`
	From    *time.Time `form:"from" time_format:"2006-01-02"`
	Limit   int        `form:"limit" binding:"omitempty,min=1,max=100"`
}
