package quotation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/integration"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/quotation"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/schedule"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportService pushes quotation requests to Robaws as offers
type ExportService struct {
	quotationRepo quotation.QuotationRepository
	scheduleRepo  schedule.ScheduleRepository
	client        integration.RobawsClient
	mapper        *integration.Mapper
	logger        *zap.Logger
}

// NewExportService creates a new ExportService
func NewExportService(
	quotationRepo quotation.QuotationRepository,
	scheduleRepo schedule.ScheduleRepository,
	client integration.RobawsClient,
	logger *zap.Logger,
) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		quotationRepo: quotationRepo,
		scheduleRepo:  scheduleRepo,
		client:        client,
		mapper:        integration.NewMapper(),
		logger:        logger,
	}
}

// Export creates the Robaws offer of a request. A request that was already
// exported is returned as is unless Force is set.
func (s *ExportService) Export(ctx context.Context, id uuid.UUID, req ExportRequest) (*ExportResponse, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.IsExported() && !req.Force {
		return &ExportResponse{
			RequestNumber:   q.RequestNumber,
			OfferID:         q.RobawsOfferID,
			AlreadyExported: true,
			ExportedAt:      q.ExportedAt,
		}, nil
	}
	if s.client == nil {
		return nil, shared.NewDomainError("ROBAWS_NOT_CONFIGURED", "Robaws integration is not configured")
	}

	extraction := s.withScheduleData(ctx, q, req.Extraction)
	payload := s.mapper.BuildPayload(q, extraction)
	result, err := s.client.CreateOffer(ctx, payload)
	if err != nil {
		s.logger.Error("robaws offer export failed",
			zap.String("request_number", q.RequestNumber),
			zap.Bool("retryable", integration.IsRetryable(err)),
			zap.Error(err))
		return nil, exportError(err)
	}

	if err := q.MarkExported(result.ID); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Save(ctx, q); err != nil {
		// the offer exists in Robaws; log the id so it can be linked by hand
		s.logger.Error("failed to record robaws offer",
			zap.String("request_number", q.RequestNumber),
			zap.String("offer_id", result.ID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to save quotation: %w", err)
	}

	s.logger.Info("quotation exported to robaws",
		zap.String("request_number", q.RequestNumber),
		zap.String("offer_id", result.ID))

	return &ExportResponse{
		RequestNumber: q.RequestNumber,
		OfferID:       result.ID,
		OfferNumber:   result.Number,
		ExportedAt:    q.ExportedAt,
	}, nil
}

// withScheduleData returns a copy of extraction with the vessel fields of
// the linked sailing added. Fields the caller provided under any key are
// kept and extraction itself is never modified.
func (s *ExportService) withScheduleData(ctx context.Context, q *quotation.QuotationRequest, extraction map[string]any) map[string]any {
	out := make(map[string]any, len(extraction)+1)
	for k, v := range extraction {
		out[k] = v
	}
	if q.ScheduleID == nil || s.scheduleRepo == nil {
		return out
	}
	sched, err := s.scheduleRepo.FindByID(ctx, *q.ScheduleID)
	if err != nil {
		s.logger.Warn("linked schedule not loaded",
			zap.String("request_number", q.RequestNumber),
			zap.Error(err))
		return out
	}

	type vesselDefault struct {
		code  string
		key   string
		value any
	}
	defaults := []vesselDefault{
		{integration.FieldVessel, "name", sched.VesselName},
		{integration.FieldVoyage, "voyage", sched.VoyageNumber},
		{integration.FieldETS, "ets", sched.ETS.Format(time.DateOnly)},
		{integration.FieldETA, "eta", sched.ETA.Format(time.DateOnly)},
		{integration.FieldShippingLine, "shipping_line", sched.Carrier},
	}
	if sched.TransitDays > 0 {
		defaults = append(defaults, vesselDefault{integration.FieldTransitTime, "transit_time", sched.TransitDays})
	}

	missing := make(map[string]any, len(defaults))
	for _, d := range defaults {
		if !s.mapper.Provides(extraction, d.code) {
			missing[d.key] = d.value
		}
	}
	if len(missing) == 0 {
		return out
	}

	switch group := extraction["vessel"].(type) {
	case map[string]any:
		vessel := make(map[string]any, len(group)+len(missing))
		for k, v := range group {
			vessel[k] = v
		}
		for k, v := range missing {
			vessel[k] = v
		}
		out["vessel"] = vessel
	case nil:
		out["vessel"] = missing
	default:
		// a flat vessel name; the rest goes to flat keys
		for k, v := range missing {
			if k == "name" {
				k = "vessel_name"
			}
			out[k] = v
		}
	}
	return out
}

func exportError(err error) error {
	switch {
	case errors.Is(err, integration.ErrRobawsNotConfigured):
		return shared.NewDomainError("ROBAWS_NOT_CONFIGURED", "Robaws integration is not configured")
	case errors.Is(err, integration.ErrRobawsAuthFailed):
		return shared.NewDomainError("ROBAWS_AUTH_FAILED", "Robaws rejected the credentials")
	case integration.IsRetryable(err):
		return shared.NewDomainError("ROBAWS_UNAVAILABLE", "Robaws is temporarily unavailable, try again later")
	}
	return shared.NewDomainError("ROBAWS_EXPORT_FAILED", "Robaws offer could not be created")
}

// QuotationSubmittedHandler exports new requests to Robaws when auto export is on
type QuotationSubmittedHandler struct {
	exporter    *ExportService
	idempotency shared.IdempotencyStore
	ttl         time.Duration
	logger      *zap.Logger
}

// NewQuotationSubmittedHandler creates a new QuotationSubmittedHandler
func NewQuotationSubmittedHandler(exporter *ExportService, idempotency shared.IdempotencyStore, logger *zap.Logger) *QuotationSubmittedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuotationSubmittedHandler{
		exporter:    exporter,
		idempotency: idempotency,
		ttl:         24 * time.Hour,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *QuotationSubmittedHandler) EventTypes() []string {
	return []string{quotation.EventTypeQuotationSubmitted}
}

// Handle exports the submitted request. Failures are logged and the request
// stays available for a manual export.
func (h *QuotationSubmittedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	submitted, ok := event.(*quotation.QuotationSubmittedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %T", event)
	}
	log := h.logger.With(
		zap.String("event_id", submitted.EventID().String()),
		zap.String("request_number", submitted.RequestNumber))

	if h.idempotency != nil {
		fresh, err := h.idempotency.MarkProcessed(ctx, "quotation-export:"+submitted.EventID().String(), h.ttl)
		if err != nil {
			log.Warn("idempotency check failed, exporting anyway", zap.Error(err))
		} else if !fresh {
			log.Debug("event already handled")
			return nil
		}
	}

	resp, err := h.exporter.Export(ctx, submitted.AggregateID(), ExportRequest{})
	if err != nil {
		log.Error("auto export failed", zap.Error(err))
		return nil
	}
	log.Info("auto export done", zap.String("offer_id", resp.OfferID))
	return nil
}

var _ shared.EventHandler = (*QuotationSubmittedHandler)(nil)
