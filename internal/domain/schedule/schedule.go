package schedule

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// SailingSchedule is one published sailing between two ports
type SailingSchedule struct {
	shared.BaseAggregateRoot
	Carrier      string    `gorm:"type:varchar(50);not null;index"`
	ServiceName  string    `gorm:"type:varchar(120)"`
	PolCode      string    `gorm:"type:varchar(5);not null;index:idx_schedule_route"`
	PodCode      string    `gorm:"type:varchar(5);not null;index:idx_schedule_route"`
	VesselName   string    `gorm:"type:varchar(120);not null"`
	VoyageNumber string    `gorm:"type:varchar(50)"`
	ETS          time.Time `gorm:"type:timestamptz;not null;index"`
	ETA          time.Time `gorm:"type:timestamptz;not null"`
	TransitDays  int       `gorm:"not null;default:0"`
	Frequency    string    `gorm:"type:varchar(50)"`
	IsActive     bool      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (SailingSchedule) TableName() string {
	return "sailing_schedules"
}

// Sailing holds the editable fields of a schedule
type Sailing struct {
	Carrier      string
	ServiceName  string
	PolCode      string
	PodCode      string
	VesselName   string
	VoyageNumber string
	ETS          time.Time
	ETA          time.Time
	TransitDays  int
	Frequency    string
}

// NewSailingSchedule creates an active schedule
func NewSailingSchedule(s Sailing) (*SailingSchedule, error) {
	sched := &SailingSchedule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		IsActive:          true,
	}
	if err := sched.apply(s); err != nil {
		return nil, err
	}
	return sched, nil
}

// Update replaces the sailing details
func (s *SailingSchedule) Update(in Sailing) error {
	if err := s.apply(in); err != nil {
		return err
	}
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
	return nil
}

func (s *SailingSchedule) apply(in Sailing) error {
	in.Carrier = strings.ToUpper(strings.TrimSpace(in.Carrier))
	in.PolCode = strings.ToUpper(strings.TrimSpace(in.PolCode))
	in.PodCode = strings.ToUpper(strings.TrimSpace(in.PodCode))
	in.VesselName = strings.TrimSpace(in.VesselName)
	if in.Carrier == "" {
		return shared.NewDomainError("INVALID_CARRIER", "Carrier cannot be empty")
	}
	if in.PolCode == "" || in.PodCode == "" {
		return shared.NewDomainError("INVALID_ROUTE", "Port of loading and discharge are required")
	}
	if in.VesselName == "" {
		return shared.NewDomainError("INVALID_VESSEL", "Vessel name cannot be empty")
	}
	if in.ETS.IsZero() || in.ETA.IsZero() {
		return shared.NewDomainError("INVALID_DATES", "ETS and ETA are required")
	}
	if in.ETA.Before(in.ETS) {
		return shared.NewDomainError("INVALID_DATES", "ETA cannot be before ETS")
	}
	if in.TransitDays < 0 {
		return shared.NewDomainError("INVALID_TRANSIT_DAYS", "Transit days must be >= 0")
	}
	if in.TransitDays == 0 {
		in.TransitDays = TransitDaysBetween(in.ETS, in.ETA)
	}

	s.Carrier = in.Carrier
	s.ServiceName = strings.TrimSpace(in.ServiceName)
	s.PolCode = in.PolCode
	s.PodCode = in.PodCode
	s.VesselName = in.VesselName
	s.VoyageNumber = strings.TrimSpace(in.VoyageNumber)
	s.ETS = in.ETS
	s.ETA = in.ETA
	s.TransitDays = in.TransitDays
	s.Frequency = strings.TrimSpace(in.Frequency)
	return nil
}

// TransitDaysBetween returns whole days from ets to eta, rounded up
func TransitDaysBetween(ets, eta time.Time) int {
	if !eta.After(ets) {
		return 0
	}
	return int(math.Ceil(eta.Sub(ets).Hours() / 24))
}

// SetActive enables or disables the sailing
func (s *SailingSchedule) SetActive(active bool) {
	s.IsActive = active
	s.UpdatedAt = time.Now()
	s.IncrementVersion()
}

// IsUpcoming reports whether the vessel has not yet sailed at t
func (s *SailingSchedule) IsUpcoming(t time.Time) bool {
	return s.IsActive && !s.ETS.Before(t)
}

// SearchCriteria narrows a schedule search. Empty fields match anything.
type SearchCriteria struct {
	PolCode string
	PodCode string
	Carrier string
	From    time.Time
	Limit   int
}

// ScheduleRepository defines the persistence interface for sailings
type ScheduleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SailingSchedule, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]SailingSchedule, int64, error)

	// Search returns active sailings leaving on or after From, ordered by ETS
	Search(ctx context.Context, c SearchCriteria) ([]SailingSchedule, error)

	Save(ctx context.Context, s *SailingSchedule) error
	Delete(ctx context.Context, id uuid.UUID) error
}
