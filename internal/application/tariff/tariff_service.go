package tariff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared/valueobject"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TariffService handles carrier tariff operations
type TariffService struct {
	tariffRepo  tariff.TariffRepository
	mappingRepo tariff.CarrierMappingRepository
	txScope     TransactionScope
	dateSync    *TariffDateSyncService
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewTariffService creates a new TariffService
func NewTariffService(
	tariffRepo tariff.TariffRepository,
	mappingRepo tariff.CarrierMappingRepository,
	txScope TransactionScope,
	dateSync *TariffDateSyncService,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TariffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TariffService{
		tariffRepo:  tariffRepo,
		mappingRepo: mappingRepo,
		txScope:     txScope,
		dateSync:    dateSync,
		publisher:   publisher,
		logger:      logger,
	}
}

// Create creates a tariff, creating the carrier mapping on first use
func (s *TariffService) Create(ctx context.Context, req CreateTariffRequest) (*TariffResponse, error) {
	mapping, err := s.mappingRepo.FindByKey(ctx, req.Carrier, req.PortCode, req.VehicleCategory)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		mapping, err = tariff.NewCarrierMapping(req.Carrier, req.PortCode, req.VehicleCategory)
		if err != nil {
			return nil, err
		}
		if req.ArticleID != nil {
			mapping.LinkArticle(*req.ArticleID)
		}
		if err := s.mappingRepo.Save(ctx, mapping); err != nil {
			return nil, fmt.Errorf("failed to save carrier mapping: %w", err)
		}
	} else if req.ArticleID != nil && (mapping.ArticleID == nil || *mapping.ArticleID != *req.ArticleID) {
		mapping.LinkArticle(*req.ArticleID)
		if err := s.mappingRepo.Save(ctx, mapping); err != nil {
			return nil, fmt.Errorf("failed to save carrier mapping: %w", err)
		}
	}

	t, err := tariff.NewTariff(mapping.ID, req.AmountsInput.toDomain(), valueobject.UnitBasis(req.UnitBasis))
	if err != nil {
		return nil, err
	}
	if req.Currency != "" {
		if err := t.SetCurrency(req.Currency); err != nil {
			return nil, err
		}
	}
	if _, err := t.SetValidity(req.ValidFrom, req.ValidUntil); err != nil {
		return nil, err
	}
	t.Notes = strings.TrimSpace(req.Notes)
	t.Mapping = mapping

	if err := s.tariffRepo.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to save tariff: %w", err)
	}
	s.publish(ctx, t)

	resp := ToTariffResponse(t)
	return &resp, nil
}

// GetByID returns a tariff
func (s *TariffService) GetByID(ctx context.Context, id uuid.UUID) (*TariffResponse, error) {
	t, err := s.tariffRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTariffResponse(t)
	return &resp, nil
}

// List returns one page of tariffs
func (s *TariffService) List(ctx context.Context, filter TariffListFilter) (*shared.Paginated[TariffResponse], error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Filters:  map[string]interface{}{},
	}.Normalize()
	if filter.Carrier != "" {
		f.Filters["carrier"] = filter.Carrier
	}
	if filter.PortCode != "" {
		f.Filters["port_code"] = filter.PortCode
	}
	if filter.MappingID != "" {
		id, err := uuid.Parse(filter.MappingID)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid mapping id")
		}
		f.Filters["mapping_id"] = id
	}
	if filter.IsActive != nil {
		f.Filters["is_active"] = *filter.IsActive
	}
	if filter.UnitBasis != "" {
		f.Filters["unit_basis"] = strings.ToUpper(filter.UnitBasis)
	}

	tariffs, err := s.tariffRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.tariffRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := shared.NewPaginated(ToTariffResponses(tariffs), total, f.Page, f.PageSize)
	return &page, nil
}

// Update applies changes to one tariff
func (s *TariffService) Update(ctx context.Context, id uuid.UUID, req UpdateTariffRequest) (*TariffResponse, error) {
	t, err := s.tariffRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := applyUpdate(t, req)
	if err != nil {
		return nil, err
	}
	if changed {
		if err := s.tariffRepo.Save(ctx, t); err != nil {
			return nil, fmt.Errorf("failed to save tariff: %w", err)
		}
		s.publish(ctx, t)
	}
	resp := ToTariffResponse(t)
	return &resp, nil
}

// Delete removes a tariff
func (s *TariffService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.tariffRepo.Delete(ctx, id)
}

// BulkSave applies all updates in one transaction. Any failure rolls every
// update back. Unchanged tariffs are not written.
func (s *TariffService) BulkSave(ctx context.Context, req BulkSaveRequest) (*BulkSaveResponse, error) {
	var changed []*tariff.Tariff
	unchanged := 0

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		changed = changed[:0]
		unchanged = 0
		for _, u := range req.Tariffs {
			t, err := repos.TariffRepo().FindByID(ctx, u.ID)
			if err != nil {
				if errors.Is(err, shared.ErrNotFound) {
					return shared.NewDomainError("NOT_FOUND", "Tariff not found: "+u.ID.String())
				}
				return err
			}
			did, err := applyUpdate(t, u.UpdateTariffRequest)
			if err != nil {
				return err
			}
			if did {
				changed = append(changed, t)
			} else {
				unchanged++
			}
		}
		return repos.TariffRepo().SaveBatch(ctx, changed)
	})
	if err != nil {
		s.logger.Error("bulk tariff save failed",
			zap.Int("tariffs", len(req.Tariffs)),
			zap.Error(err))
		return nil, bulkSaveError(err)
	}

	resp := &BulkSaveResponse{Saved: len(changed), Unchanged: unchanged, TariffIDs: make([]string, 0, len(changed))}
	for _, t := range changed {
		resp.TariffIDs = append(resp.TariffIDs, t.ID.String())
		if s.syncDates(ctx, t) {
			resp.ArticlesSync++
		}
		s.publish(ctx, t)
	}
	s.logger.Info("bulk tariff save",
		zap.Int("saved", resp.Saved),
		zap.Int("unchanged", resp.Unchanged),
		zap.Int("articles_synced", resp.ArticlesSync))
	return resp, nil
}

// bulkSaveError reports a failed bulk save as "Failed to save: {message}".
// Domain errors keep their code, anything else becomes TARIFF_SAVE_FAILED.
func bulkSaveError(err error) error {
	code := "TARIFF_SAVE_FAILED"
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
	}
	return shared.NewDomainError(code, "Failed to save: "+err.Error())
}

// SyncDates pushes the validity dates of a tariff to its article
func (s *TariffService) SyncDates(ctx context.Context, id uuid.UUID) (bool, error) {
	t, err := s.tariffRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if s.dateSync == nil {
		return false, nil
	}
	return s.dateSync.SyncTariffDatesToArticle(ctx, t)
}

// GetRateMatrix builds the purchase rate grid of a carrier's secondary destinations
func (s *TariffService) GetRateMatrix(ctx context.Context, carrier string, at time.Time) (*tariff.RateMatrix, error) {
	carrier = strings.ToUpper(strings.TrimSpace(carrier))
	if carrier == "" {
		return nil, shared.NewDomainError("INVALID_CARRIER", "Carrier is required")
	}
	mappings, err := s.mappingRepo.FindByCarrier(ctx, carrier)
	if err != nil {
		return nil, err
	}
	tariffs, err := s.tariffRepo.FindByCarrier(ctx, carrier)
	if err != nil {
		return nil, err
	}
	return tariff.BuildRateMatrix(carrier, mappings, tariffs, at), nil
}

// SaveRateMatrix applies base freight edits of matrix cells in one transaction.
// Cells of other carriers are reported as unknown.
func (s *TariffService) SaveRateMatrix(ctx context.Context, carrier string, req SaveMatrixRequest) (*SaveMatrixResponse, error) {
	carrier = strings.ToUpper(strings.TrimSpace(carrier))
	ids := make([]uuid.UUID, 0, len(req.Cells))
	for _, c := range req.Cells {
		ids = append(ids, c.TariffID)
	}

	var changed []*tariff.Tariff
	var unknown []uuid.UUID
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		loaded, err := repos.TariffRepo().FindByIDs(ctx, ids)
		if err != nil {
			return err
		}
		own := make([]*tariff.Tariff, 0, len(loaded))
		for i := range loaded {
			if loaded[i].Mapping != nil && loaded[i].Mapping.Carrier == carrier {
				own = append(own, &loaded[i])
			}
		}
		changed, unknown, err = tariff.ApplyCellUpdates(own, req.Cells)
		if err != nil {
			return err
		}
		return repos.TariffRepo().SaveBatch(ctx, changed)
	})
	if err != nil {
		s.logger.Error("rate matrix save failed",
			zap.String("carrier", carrier),
			zap.Error(err))
		return nil, err
	}

	for _, t := range changed {
		s.publish(ctx, t)
	}
	return &SaveMatrixResponse{Changed: len(changed), Unknown: unknown}, nil
}

func (s *TariffService) syncDates(ctx context.Context, t *tariff.Tariff) bool {
	if s.dateSync == nil {
		return false
	}
	synced, err := s.dateSync.SyncTariffDatesToArticle(ctx, t)
	if err != nil {
		s.logger.Error("tariff date sync failed",
			zap.String("tariff_id", t.ID.String()),
			zap.Error(err))
		return false
	}
	return synced
}

func (s *TariffService) publish(ctx context.Context, t *tariff.Tariff) {
	if err := shared.PublishAndClear(ctx, s.publisher, t); err != nil {
		s.logger.Warn("failed to publish tariff events",
			zap.String("tariff_id", t.ID.String()),
			zap.Error(err))
	}
}

// applyUpdate reports whether anything on the tariff changed
func applyUpdate(t *tariff.Tariff, req UpdateTariffRequest) (bool, error) {
	changed := false
	if req.Amounts != nil {
		did, err := t.UpdateAmounts(req.Amounts.toDomain())
		if err != nil {
			return false, err
		}
		changed = changed || did
	}

	switch {
	case req.ClearValidity:
		did, err := t.SetValidity(nil, nil)
		if err != nil {
			return false, err
		}
		changed = changed || did
	case req.ValidFrom != nil || req.ValidUntil != nil:
		from, until := t.ValidFrom, t.ValidUntil
		if req.ValidFrom != nil {
			from = req.ValidFrom
		}
		if req.ValidUntil != nil {
			until = req.ValidUntil
		}
		did, err := t.SetValidity(from, until)
		if err != nil {
			return false, err
		}
		changed = changed || did
	}

	if req.Currency != nil && !strings.EqualFold(*req.Currency, t.Currency) {
		if err := t.SetCurrency(*req.Currency); err != nil {
			return false, err
		}
		changed = true
	}
	if req.IsActive != nil && *req.IsActive != t.IsActive {
		t.SetActive(*req.IsActive)
		changed = true
	}
	if req.Notes != nil && strings.TrimSpace(*req.Notes) != t.Notes {
		t.Notes = strings.TrimSpace(*req.Notes)
		changed = true
	}
	return changed, nil
}
