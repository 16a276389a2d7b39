package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/schedule"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultSearchLimit = 20

// PortDirectory looks ports up by code
type PortDirectory interface {
	FindByCodes(ctx context.Context, codes []string) (map[string]*port.Port, error)
}

// ScheduleService handles sailing schedule operations
type ScheduleService struct {
	scheduleRepo schedule.ScheduleRepository
	ports        PortDirectory
	logger       *zap.Logger
	now          func() time.Time
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo schedule.ScheduleRepository, ports PortDirectory, logger *zap.Logger) *ScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{scheduleRepo: scheduleRepo, ports: ports, logger: logger, now: time.Now}
}

// Create creates a sailing between two known ports
func (s *ScheduleService) Create(ctx context.Context, req ScheduleRequest) (*ScheduleResponse, error) {
	if err := s.ensurePorts(ctx, req.PolCode, req.PodCode); err != nil {
		return nil, err
	}
	sched, err := schedule.NewSailingSchedule(req.toSailing())
	if err != nil {
		return nil, err
	}
	if req.IsActive != nil && !*req.IsActive {
		sched.SetActive(false)
	}
	if err := s.scheduleRepo.Save(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	s.logger.Info("schedule created",
		zap.String("carrier", sched.Carrier),
		zap.String("vessel", sched.VesselName),
		zap.Time("ets", sched.ETS))
	resp := ToScheduleResponse(sched)
	return &resp, nil
}

// Update replaces a sailing
func (s *ScheduleService) Update(ctx context.Context, id uuid.UUID, req ScheduleRequest) (*ScheduleResponse, error) {
	sched, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensurePorts(ctx, req.PolCode, req.PodCode); err != nil {
		return nil, err
	}
	if err := sched.Update(req.toSailing()); err != nil {
		return nil, err
	}
	if req.IsActive != nil && *req.IsActive != sched.IsActive {
		sched.SetActive(*req.IsActive)
	}
	if err := s.scheduleRepo.Save(ctx, sched); err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	resp := ToScheduleResponse(sched)
	return &resp, nil
}

// GetByID retrieves a sailing
func (s *ScheduleService) GetByID(ctx context.Context, id uuid.UUID) (*ScheduleResponse, error) {
	sched, err := s.scheduleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToScheduleResponse(sched)
	return &resp, nil
}

// List returns a page of sailings
func (s *ScheduleService) List(ctx context.Context, filter ListFilter) (*shared.Paginated[ScheduleResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.Carrier != "" {
		f.Filters["carrier"] = strings.ToUpper(filter.Carrier)
	}
	if filter.PolCode != "" {
		f.Filters["pol_code"] = strings.ToUpper(filter.PolCode)
	}
	if filter.PodCode != "" {
		f.Filters["pod_code"] = strings.ToUpper(filter.PodCode)
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}

	sailings, total, err := s.scheduleRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]ScheduleResponse, len(sailings))
	for i := range sailings {
		out[i] = ToScheduleResponse(&sailings[i])
	}
	page := shared.NewPaginated(out, total, f.Page, f.PageSize)
	return &page, nil
}

// Search returns upcoming active sailings ordered by ETS. From defaults to today.
func (s *ScheduleService) Search(ctx context.Context, req SearchRequest) ([]ScheduleResponse, error) {
	from := s.now().UTC().Truncate(24 * time.Hour)
	if req.From != nil {
		from = *req.From
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	sailings, err := s.scheduleRepo.Search(ctx, schedule.SearchCriteria{
		PolCode: req.Pol,
		PodCode: req.Pod,
		Carrier: req.Carrier,
		From:    from,
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]ScheduleResponse, len(sailings))
	for i := range sailings {
		out[i] = ToScheduleResponse(&sailings[i])
	}
	return out, nil
}

// Delete removes a sailing
func (s *ScheduleService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.scheduleRepo.Delete(ctx, id)
}

func (s *ScheduleService) ensurePorts(ctx context.Context, codes ...string) error {
	if s.ports == nil {
		return nil
	}
	found, err := s.ports.FindByCodes(ctx, codes)
	if err != nil {
		return err
	}
	for _, c := range codes {
		if _, ok := found[strings.ToUpper(strings.TrimSpace(c))]; !ok {
			return shared.NewDomainError("INVALID_PORT", "Unknown port: "+c)
		}
	}
	return nil
}
