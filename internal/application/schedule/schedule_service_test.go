package schedule

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/schedule"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockScheduleRepository is a mock implementation of schedule.ScheduleRepository
type MockScheduleRepository struct {
	mock.Mock
}

func (m *MockScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*schedule.SailingSchedule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*schedule.SailingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]schedule.SailingSchedule, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]schedule.SailingSchedule), args.Get(1).(int64), args.Error(2)
}

func (m *MockScheduleRepository) Search(ctx context.Context, c schedule.SearchCriteria) ([]schedule.SailingSchedule, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]schedule.SailingSchedule), args.Error(1)
}

func (m *MockScheduleRepository) Save(ctx context.Context, s *schedule.SailingSchedule) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockScheduleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type knownPorts map[string]*port.Port

func (k knownPorts) FindByCodes(_ context.Context, codes []string) (map[string]*port.Port, error) {
	out := map[string]*port.Port{}
	for _, c := range codes {
		if p, ok := k[strings.ToUpper(c)]; ok {
			out[p.Code] = p
		}
	}
	return out, nil
}

func testPorts(t *testing.T) knownPorts {
	t.Helper()
	out := knownPorts{}
	for code, country := range map[string]string{"BEANR": "BE", "NGLOS": "NG"} {
		p, err := port.NewPort(code, code, country, port.PortTypeSeaport)
		require.NoError(t, err)
		out[code] = p
	}
	return out
}

func TestScheduleService_Create(t *testing.T) {
	ctx := context.Background()
	ets := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	t.Run("derives transit days", func(t *testing.T) {
		repo := new(MockScheduleRepository)
		repo.On("Save", ctx, mock.AnythingOfType("*schedule.SailingSchedule")).Return(nil)

		resp, err := NewScheduleService(repo, testPorts(t), nil).Create(ctx, ScheduleRequest{
			Carrier: "grimaldi", PolCode: "beanr", PodCode: "NGLOS", VesselName: "Grande Lagos",
			ETS: ets, ETA: ets.Add(13*24*time.Hour + time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, "GRIMALDI", resp.Carrier)
		assert.Equal(t, 14, resp.TransitDays)
		assert.True(t, resp.IsActive)
	})

	t.Run("rejects ETA before ETS", func(t *testing.T) {
		repo := new(MockScheduleRepository)
		_, err := NewScheduleService(repo, testPorts(t), nil).Create(ctx, ScheduleRequest{
			Carrier: "GRIMALDI", PolCode: "BEANR", PodCode: "NGLOS", VesselName: "Grande Lagos",
			ETS: ets, ETA: ets.Add(-time.Hour),
		})
		assert.True(t, shared.IsDomainError(err, "INVALID_DATES"))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown ports", func(t *testing.T) {
		repo := new(MockScheduleRepository)
		_, err := NewScheduleService(repo, testPorts(t), nil).Create(ctx, ScheduleRequest{
			Carrier: "GRIMALDI", PolCode: "BEANR", PodCode: "GHTEM", VesselName: "Grande Lagos",
			ETS: ets, ETA: ets.Add(24 * time.Hour),
		})
		assert.True(t, shared.IsDomainError(err, "INVALID_PORT"))
	})
}

func TestScheduleService_Search(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScheduleRepository)
	svc := NewScheduleService(repo, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 4, 1, 15, 30, 0, 0, time.UTC) }

	repo.On("Search", ctx, schedule.SearchCriteria{
		PolCode: "BEANR", PodCode: "NGLOS",
		From:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		Limit: defaultSearchLimit,
	}).Return([]schedule.SailingSchedule{{VesselName: "Grande Lagos", IsActive: true}}, nil)

	out, err := svc.Search(ctx, SearchRequest{Pol: "BEANR", Pod: "NGLOS"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Grande Lagos", out[0].VesselName)
}

func TestScheduleService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockScheduleRepository)
	active := true
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["carrier"] == "GRIMALDI" && f.Filters["is_active"] == true
	})).Return([]schedule.SailingSchedule{}, int64(0), nil)

	page, err := NewScheduleService(repo, nil, nil).List(ctx, ListFilter{Carrier: "grimaldi", IsActive: &active})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}
