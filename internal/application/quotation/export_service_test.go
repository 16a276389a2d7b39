package quotation

import (
	"context"
	"testing"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/integration"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/schedule"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func stringField(p integration.OfferPayload, code string) string {
	v, ok := p.ExtraFields[code]
	if !ok || v.StringValue == nil {
		return ""
	}
	return *v.StringValue
}

func TestExportService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the offer with the linked sailing", func(t *testing.T) {
		repo := new(MockQuotationRepository)
		schedules := new(MockScheduleRepository)
		client := new(MockRobawsClient)

		q := newTestQuotation(t, "BEANR", "NGLOS")
		sched := &schedule.SailingSchedule{
			Carrier:      "GRIMALDI",
			VesselName:   "Grande Lagos",
			VoyageNumber: "GLA0226",
			ETS:          time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			ETA:          time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC),
			TransitDays:  14,
		}
		sched.ID = uuid.New()
		q.ScheduleID = &sched.ID

		repo.On("FindByID", ctx, q.ID).Return(q, nil)
		repo.On("Save", ctx, q).Return(nil)
		schedules.On("FindByID", ctx, sched.ID).Return(sched, nil)
		client.On("CreateOffer", ctx, mock.MatchedBy(func(p integration.OfferPayload) bool {
			return stringField(p, integration.FieldVessel) == "Grande Lagos" &&
				stringField(p, integration.FieldPOL) == "BEANR" &&
				p.ExtraFields[integration.FieldETS].DateValue != nil &&
				*p.ExtraFields[integration.FieldETS].DateValue == "2026-03-10"
		})).Return(&integration.OfferResult{ID: "offer-1", Number: "O2026-1"}, nil)

		resp, err := NewExportService(repo, schedules, client, nil).Export(ctx, q.ID, ExportRequest{})
		require.NoError(t, err)
		assert.Equal(t, "offer-1", resp.OfferID)
		assert.Equal(t, "O2026-1", resp.OfferNumber)
		assert.False(t, resp.AlreadyExported)
		assert.Equal(t, "offer-1", q.RobawsOfferID)
		client.AssertExpectations(t)
	})

	t.Run("caller extraction wins over the sailing", func(t *testing.T) {
		repo := new(MockQuotationRepository)
		schedules := new(MockScheduleRepository)
		client := new(MockRobawsClient)

		q := newTestQuotation(t, "BEANR", "NGLOS")
		sched := &schedule.SailingSchedule{VesselName: "Grande Lagos", ETS: time.Now(), ETA: time.Now()}
		sched.ID = uuid.New()
		q.ScheduleID = &sched.ID

		repo.On("FindByID", ctx, q.ID).Return(q, nil)
		repo.On("Save", ctx, q).Return(nil)
		schedules.On("FindByID", ctx, sched.ID).Return(sched, nil)
		client.On("CreateOffer", ctx, mock.MatchedBy(func(p integration.OfferPayload) bool {
			return stringField(p, integration.FieldVessel) == "Grande Abidjan"
		})).Return(&integration.OfferResult{ID: "offer-2"}, nil)

		_, err := NewExportService(repo, schedules, client, nil).Export(ctx, q.ID, ExportRequest{
			Extraction: map[string]any{"vessel": map[string]any{"name": "Grande Abidjan"}},
		})
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("flat caller fields win and the request data is not modified", func(t *testing.T) {
		repo := new(MockQuotationRepository)
		schedules := new(MockScheduleRepository)
		client := new(MockRobawsClient)

		q := newTestQuotation(t, "BEANR", "NGLOS")
		sched := &schedule.SailingSchedule{
			VesselName:   "Grande Lagos",
			VoyageNumber: "GLA0226",
			ETS:          time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
			ETA:          time.Date(2026, 3, 24, 0, 0, 0, 0, time.UTC),
		}
		sched.ID = uuid.New()
		q.ScheduleID = &sched.ID

		repo.On("FindByID", ctx, q.ID).Return(q, nil)
		repo.On("Save", ctx, q).Return(nil)
		schedules.On("FindByID", ctx, sched.ID).Return(sched, nil)
		client.On("CreateOffer", ctx, mock.MatchedBy(func(p integration.OfferPayload) bool {
			return stringField(p, integration.FieldVessel) == "Silver Ray" &&
				stringField(p, integration.FieldVoyage) == "SR0412" &&
				p.ExtraFields[integration.FieldETS].DateValue != nil &&
				*p.ExtraFields[integration.FieldETS].DateValue == "2026-03-10"
		})).Return(&integration.OfferResult{ID: "offer-4"}, nil)

		extraction := map[string]any{"vessel": "Silver Ray", "voyage": "SR0412"}
		_, err := NewExportService(repo, schedules, client, nil).Export(ctx, q.ID, ExportRequest{Extraction: extraction})
		require.NoError(t, err)
		client.AssertExpectations(t)
		assert.Equal(t, map[string]any{"vessel": "Silver Ray", "voyage": "SR0412"}, extraction)
	})

	t.Run("nested caller group is copied", func(t *testing.T) {
		repo := new(MockQuotationRepository)
		schedules := new(MockScheduleRepository)
		client := new(MockRobawsClient)

		q := newTestQuotation(t, "BEANR", "NGLOS")
		sched := &schedule.SailingSchedule{VesselName: "Grande Lagos", VoyageNumber: "GLA0226", ETS: time.Now(), ETA: time.Now()}
		sched.ID = uuid.New()
		q.ScheduleID = &sched.ID

		repo.On("FindByID", ctx, q.ID).Return(q, nil)
		repo.On("Save", ctx, q).Return(nil)
		schedules.On("FindByID", ctx, sched.ID).Return(sched, nil)
		client.On("CreateOffer", ctx, mock.MatchedBy(func(p integration.OfferPayload) bool {
			return stringField(p, integration.FieldVessel) == "Grande Abidjan" &&
				stringField(p, integration.FieldVoyage) == "GLA0226"
		})).Return(&integration.OfferResult{ID: "offer-5"}, nil)

		group := map[string]any{"name": "Grande Abidjan"}
		_, err := NewExportService(repo, schedules, client, nil).Export(ctx, q.ID, ExportRequest{
			Extraction: map[string]any{"vessel": group},
		})
		require.NoError(t, err)
		client.AssertExpectations(t)
		assert.Equal(t, map[string]any{"name": "Grande Abidjan"}, group)
	})

	t.Run("already exported returns the existing offer", func(t *testing.T) {
		repo := new(MockQuotationRepository)
		client := new(MockRobawsClient)
		q := newTestQuotation(t, "BEANR", "NGLOS")
		require.NoError(t, q.MarkExported("offer-9"))
		repo.On("FindByID", ctx, q.ID).Return(q, nil)

		resp, err := NewExportService(repo, nil, client, nil).Export(ctx, q.ID, ExportRequest{})
		require.NoError(t, err)
		assert.True(t, resp.AlreadyExported)
		assert.Equal(t, "offer-9", resp.OfferID)
		client.AssertNotCalled(t, "CreateOffer", mock.Anything, mock.Anything)
	})

	t.Run("robaws outage maps to a retryable error", func(t *testing.T) {
		repo := new(MockQuotationRepository)
		client := new(MockRobawsClient)
		q := newTestQuotation(t, "BEANR", "NGLOS")
		repo.On("FindByID", ctx, q.ID).Return(q, nil)
		client.On("CreateOffer", ctx, mock.Anything).Return(nil, integration.ErrRobawsUnavailable)

		_, err := NewExportService(repo, nil, client, nil).Export(ctx, q.ID, ExportRequest{})
		assert.True(t, shared.IsDomainError(err, "ROBAWS_UNAVAILABLE"))
		assert.False(t, q.IsExported())
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestQuotationSubmittedHandler(t *testing.T) {
	ctx := context.Background()
	repo := new(MockQuotationRepository)
	client := new(MockRobawsClient)
	q := newTestQuotation(t, "BEANR", "NGLOS")
	repo.On("FindByID", ctx, q.ID).Return(q, nil)
	repo.On("Save", ctx, q).Return(nil)
	client.On("CreateOffer", ctx, mock.Anything).Return(&integration.OfferResult{ID: "offer-3"}, nil).Once()

	handler := NewQuotationSubmittedHandler(NewExportService(repo, nil, client, nil), newMemoryIdempotency(), nil)
	assert.Equal(t, []string{quotation.EventTypeQuotationSubmitted}, handler.EventTypes())

	event := quotation.NewQuotationSubmittedEvent(q)
	require.NoError(t, handler.Handle(ctx, event))
	require.NoError(t, handler.Handle(ctx, event))

	client.AssertNumberOfCalls(t, "CreateOffer", 1)
	assert.Equal(t, "offer-3", q.RobawsOfferID)

	err := handler.Handle(ctx, quotation.NewQuotationPricedEvent(q))
	assert.Error(t, err)
}
