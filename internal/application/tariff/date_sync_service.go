package tariff

import (
	"context"
	"errors"
	"fmt"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
	"go.uber.org/zap"
)

// TariffDateSyncService copies tariff validity dates onto the Robaws article
// that sells the tariff's carrier mapping
type TariffDateSyncService struct {
	mappingRepo tariff.CarrierMappingRepository
	articleRepo catalog.ArticleRepository
	publisher   shared.EventPublisher
	logger      *zap.Logger
}

// NewTariffDateSyncService creates a new TariffDateSyncService
func NewTariffDateSyncService(
	mappingRepo tariff.CarrierMappingRepository,
	articleRepo catalog.ArticleRepository,
	publisher shared.EventPublisher,
	logger *zap.Logger,
) *TariffDateSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TariffDateSyncService{
		mappingRepo: mappingRepo,
		articleRepo: articleRepo,
		publisher:   publisher,
		logger:      logger,
	}
}

// SyncTariffDatesToArticle writes ValidFrom/ValidUntil of the tariff onto the
// mapped article. It returns false and writes nothing when the mapping has no
// article or the dates already match.
func (s *TariffDateSyncService) SyncTariffDatesToArticle(ctx context.Context, t *tariff.Tariff) (bool, error) {
	mapping := t.Mapping
	if mapping == nil {
		m, err := s.mappingRepo.FindByID(ctx, t.MappingID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				s.logger.Warn("tariff has no carrier mapping",
					zap.String("tariff_id", t.ID.String()),
					zap.String("mapping_id", t.MappingID.String()))
				return false, nil
			}
			return false, fmt.Errorf("failed to load carrier mapping: %w", err)
		}
		mapping = m
	}
	if mapping.ArticleID == nil {
		s.logger.Debug("carrier mapping is not linked to an article",
			zap.String("mapping_id", mapping.ID.String()))
		return false, nil
	}

	article, err := s.articleRepo.FindByID(ctx, *mapping.ArticleID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("mapped article not found",
				zap.String("mapping_id", mapping.ID.String()),
				zap.String("article_id", mapping.ArticleID.String()))
			return false, nil
		}
		return false, fmt.Errorf("failed to load article: %w", err)
	}

	changed, err := article.SetValidity(t.ValidFrom, t.ValidUntil)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}
	if err := s.articleRepo.Save(ctx, article); err != nil {
		return false, fmt.Errorf("failed to save article: %w", err)
	}

	s.logger.Info("tariff dates synced to article",
		zap.String("tariff_id", t.ID.String()),
		zap.String("article_id", article.ID.String()),
		zap.String("robaws_article_id", article.RobawsArticleID))

	if err := shared.PublishAndClear(ctx, s.publisher, article); err != nil {
		s.logger.Warn("failed to publish article events",
			zap.String("article_id", article.ID.String()),
			zap.Error(err))
	}
	return true, nil
}

// TariffUpdatedHandler runs the date sync whenever a tariff changes
type TariffUpdatedHandler struct {
	tariffRepo tariff.TariffRepository
	sync       *TariffDateSyncService
	logger     *zap.Logger
}

// NewTariffUpdatedHandler creates a new TariffUpdatedHandler
func NewTariffUpdatedHandler(tariffRepo tariff.TariffRepository, sync *TariffDateSyncService, logger *zap.Logger) *TariffUpdatedHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TariffUpdatedHandler{tariffRepo: tariffRepo, sync: sync, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *TariffUpdatedHandler) EventTypes() []string {
	return []string{tariff.EventTypeTariffUpdated}
}

// Handle processes a TariffUpdatedEvent. Failures are logged, the publisher is never failed.
func (h *TariffUpdatedHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	updated, ok := event.(*tariff.TariffUpdatedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			tariff.EventTypeTariffUpdated, event.EventType())
	}

	t, err := h.tariffRepo.FindByID(ctx, updated.TariffID)
	if err != nil {
		h.logger.Error("failed to load updated tariff",
			zap.String("tariff_id", updated.TariffID.String()),
			zap.Error(err))
		return nil
	}
	if _, err := h.sync.SyncTariffDatesToArticle(ctx, t); err != nil {
		h.logger.Error("tariff date sync failed",
			zap.String("tariff_id", t.ID.String()),
			zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*TariffUpdatedHandler)(nil)
