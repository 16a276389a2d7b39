package tariff

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/catalog"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestTariff(t *testing.T, mappingID uuid.UUID, base int64) *tariff.Tariff {
	t.Helper()
	tr, err := tariff.NewTariff(mappingID, tariff.Amounts{BaseFreight: decimal.NewFromInt(base)}, "")
	require.NoError(t, err)
	return tr
}

func newService(tariffRepo *MockTariffRepository, mappingRepo *MockCarrierMappingRepository, dateSync *TariffDateSyncService, pub shared.EventPublisher) *TariffService {
	return NewTariffService(tariffRepo, mappingRepo, NewNoOpTransactionScope(tariffRepo, mappingRepo), dateSync, pub, zap.NewNop())
}

func TestTariffService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the mapping on first use", func(t *testing.T) {
		tariffRepo := new(MockTariffRepository)
		mappingRepo := new(MockCarrierMappingRepository)
		svc := newService(tariffRepo, mappingRepo, nil, nil)

		mappingRepo.On("FindByKey", ctx, "grimaldi", "NGLOS", "car").Return(nil, shared.ErrNotFound)
		mappingRepo.On("Save", ctx, mock.AnythingOfType("*tariff.CarrierMapping")).Return(nil)
		tariffRepo.On("Save", ctx, mock.AnythingOfType("*tariff.Tariff")).Return(nil)

		resp, err := svc.Create(ctx, CreateTariffRequest{
			Carrier:         "grimaldi",
			PortCode:        "NGLOS",
			VehicleCategory: "car",
			AmountsInput: AmountsInput{
				BaseFreight: decimal.NewFromInt(750),
				BAF:         decimal.NewFromInt(45),
			},
		})
		require.NoError(t, err)
		assert.True(t, resp.Total.Equal(decimal.NewFromInt(795)))
		require.NotNil(t, resp.Mapping)
		assert.Equal(t, "GRIMALDI", resp.Mapping.Carrier)
		assert.Equal(t, "EUR", resp.Currency)
		mappingRepo.AssertExpectations(t)
		tariffRepo.AssertExpectations(t)
	})

	t.Run("rejects negative amounts", func(t *testing.T) {
		tariffRepo := new(MockTariffRepository)
		mappingRepo := new(MockCarrierMappingRepository)
		svc := newService(tariffRepo, mappingRepo, nil, nil)

		mapping, err := tariff.NewCarrierMapping("GRIMALDI", "NGLOS", "car")
		require.NoError(t, err)
		mappingRepo.On("FindByKey", ctx, "GRIMALDI", "NGLOS", "car").Return(mapping, nil)

		_, err = svc.Create(ctx, CreateTariffRequest{
			Carrier:         "GRIMALDI",
			PortCode:        "NGLOS",
			VehicleCategory: "car",
			AmountsInput:    AmountsInput{BaseFreight: decimal.NewFromInt(-1)},
		})
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "INVALID_AMOUNT"))
		tariffRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestTariffService_BulkSave(t *testing.T) {
	ctx := context.Background()
	mappingID := uuid.New()

	t.Run("writes only changed tariffs", func(t *testing.T) {
		tariffRepo := new(MockTariffRepository)
		mappingRepo := new(MockCarrierMappingRepository)
		pub := &recordingPublisher{}
		svc := newService(tariffRepo, mappingRepo, nil, pub)

		changed := newTestTariff(t, mappingID, 100)
		same := newTestTariff(t, mappingID, 50)
		tariffRepo.On("FindByID", ctx, changed.ID).Return(changed, nil)
		tariffRepo.On("FindByID", ctx, same.ID).Return(same, nil)
		tariffRepo.On("SaveBatch", ctx, mock.MatchedBy(func(ts []*tariff.Tariff) bool {
			return len(ts) == 1 && ts[0].ID == changed.ID
		})).Return(nil)

		resp, err := svc.BulkSave(ctx, BulkSaveRequest{Tariffs: []TariffUpdate{
			{ID: changed.ID, UpdateTariffRequest: UpdateTariffRequest{Amounts: &AmountsInput{BaseFreight: decimal.NewFromInt(120)}}},
			{ID: same.ID, UpdateTariffRequest: UpdateTariffRequest{Amounts: &AmountsInput{BaseFreight: decimal.NewFromInt(50)}}},
		}})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Saved)
		assert.Equal(t, 1, resp.Unchanged)
		assert.Equal(t, []string{changed.ID.String()}, resp.TariffIDs)
		require.Len(t, pub.events, 1)
		assert.Equal(t, tariff.EventTypeTariffUpdated, pub.events[0].EventType())
		tariffRepo.AssertExpectations(t)
	})

	t.Run("an unknown tariff aborts the whole batch", func(t *testing.T) {
		tariffRepo := new(MockTariffRepository)
		mappingRepo := new(MockCarrierMappingRepository)
		svc := newService(tariffRepo, mappingRepo, nil, nil)

		known := newTestTariff(t, mappingID, 100)
		missing := uuid.New()
		tariffRepo.On("FindByID", ctx, known.ID).Return(known, nil)
		tariffRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.BulkSave(ctx, BulkSaveRequest{Tariffs: []TariffUpdate{
			{ID: known.ID, UpdateTariffRequest: UpdateTariffRequest{Amounts: &AmountsInput{BaseFreight: decimal.NewFromInt(130)}}},
			{ID: missing, UpdateTariffRequest: UpdateTariffRequest{Amounts: &AmountsInput{BaseFreight: decimal.NewFromInt(10)}}},
		}})
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "NOT_FOUND"))
		assert.Equal(t, "Failed to save: Tariff not found: "+missing.String(), err.Error())
		tariffRepo.AssertNotCalled(t, "SaveBatch", mock.Anything, mock.Anything)
	})

	t.Run("a failed write is reported as Failed to save", func(t *testing.T) {
		tariffRepo := new(MockTariffRepository)
		mappingRepo := new(MockCarrierMappingRepository)
		pub := &recordingPublisher{}
		svc := newService(tariffRepo, mappingRepo, nil, pub)

		tr := newTestTariff(t, mappingID, 100)
		tariffRepo.On("FindByID", ctx, tr.ID).Return(tr, nil)
		tariffRepo.On("SaveBatch", ctx, mock.Anything).Return(errors.New("deadlock detected"))

		_, err := svc.BulkSave(ctx, BulkSaveRequest{Tariffs: []TariffUpdate{
			{ID: tr.ID, UpdateTariffRequest: UpdateTariffRequest{Amounts: &AmountsInput{BaseFreight: decimal.NewFromInt(140)}}},
		}})
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "TARIFF_SAVE_FAILED"))
		assert.Equal(t, "Failed to save: deadlock detected", err.Error())
		assert.Empty(t, pub.events)
	})

	t.Run("rejects inverted validity", func(t *testing.T) {
		tariffRepo := new(MockTariffRepository)
		mappingRepo := new(MockCarrierMappingRepository)
		svc := newService(tariffRepo, mappingRepo, nil, nil)

		tr := newTestTariff(t, mappingID, 100)
		tariffRepo.On("FindByID", ctx, tr.ID).Return(tr, nil)
		from := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
		until := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

		_, err := svc.BulkSave(ctx, BulkSaveRequest{Tariffs: []TariffUpdate{
			{ID: tr.ID, UpdateTariffRequest: UpdateTariffRequest{ValidFrom: &from, ValidUntil: &until}},
		}})
		require.Error(t, err)
		assert.True(t, shared.IsDomainError(err, "INVALID_VALIDITY"))
	})
}

func TestTariffService_SaveRateMatrix(t *testing.T) {
	ctx := context.Background()
	tariffRepo := new(MockTariffRepository)
	mappingRepo := new(MockCarrierMappingRepository)
	svc := newService(tariffRepo, mappingRepo, nil, nil)

	grimaldi, err := tariff.NewCarrierMapping("GRIMALDI", "NGLOS", "car")
	require.NoError(t, err)
	sallaum, err := tariff.NewCarrierMapping("SALLAUM", "NGLOS", "car")
	require.NoError(t, err)

	own := newTestTariff(t, grimaldi.ID, 700)
	own.Mapping = grimaldi
	other := newTestTariff(t, sallaum.ID, 650)
	other.Mapping = sallaum

	tariffRepo.On("FindByIDs", ctx, []uuid.UUID{own.ID, other.ID}).Return([]tariff.Tariff{*own, *other}, nil)
	tariffRepo.On("SaveBatch", ctx, mock.MatchedBy(func(ts []*tariff.Tariff) bool {
		return len(ts) == 1 && ts[0].ID == own.ID && ts[0].BaseFreight.Equal(decimal.NewFromInt(725))
	})).Return(nil)

	resp, err := svc.SaveRateMatrix(ctx, "grimaldi", SaveMatrixRequest{Cells: []tariff.CellUpdate{
		{TariffID: own.ID, BaseFreight: decimal.NewFromInt(725)},
		{TariffID: other.ID, BaseFreight: decimal.NewFromInt(600)},
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Changed)
	assert.Equal(t, []uuid.UUID{other.ID}, resp.Unknown)
	tariffRepo.AssertExpectations(t)
}

func TestTariffDateSyncService_SyncTariffDatesToArticle(t *testing.T) {
	ctx := context.Background()

	article, err := catalog.NewArticle("1042", "Seafreight Lagos car", "", decimal.NewFromInt(800))
	require.NoError(t, err)
	mapping, err := tariff.NewCarrierMapping("GRIMALDI", "NGLOS", "car")
	require.NoError(t, err)
	mapping.LinkArticle(article.ID)

	tr := newTestTariff(t, mapping.ID, 700)
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	_, err = tr.SetValidity(&from, &until)
	require.NoError(t, err)

	mappingRepo := new(MockCarrierMappingRepository)
	articleRepo := new(MockArticleRepository)
	pub := &recordingPublisher{}
	svc := NewTariffDateSyncService(mappingRepo, articleRepo, pub, zap.NewNop())

	mappingRepo.On("FindByID", ctx, mapping.ID).Return(mapping, nil)
	articleRepo.On("FindByID", ctx, article.ID).Return(article, nil)
	articleRepo.On("Save", ctx, article).Return(nil).Once()

	synced, err := svc.SyncTariffDatesToArticle(ctx, tr)
	require.NoError(t, err)
	assert.True(t, synced)
	require.NotNil(t, article.ValidFrom)
	assert.Equal(t, from, *article.ValidFrom)
	assert.Equal(t, until, *article.ValidUntil)
	require.Len(t, pub.events, 1)
	assert.Equal(t, catalog.EventTypeArticleValidityChanged, pub.events[0].EventType())

	// dates already match: nothing is written
	synced, err = svc.SyncTariffDatesToArticle(ctx, tr)
	require.NoError(t, err)
	assert.False(t, synced)
	articleRepo.AssertNumberOfCalls(t, "Save", 1)
}

func TestTariffDateSyncService_UnlinkedMapping(t *testing.T) {
	ctx := context.Background()
	mapping, err := tariff.NewCarrierMapping("GRIMALDI", "BJCOO", "suv")
	require.NoError(t, err)
	tr := newTestTariff(t, mapping.ID, 900)
	tr.Mapping = mapping

	articleRepo := new(MockArticleRepository)
	svc := NewTariffDateSyncService(new(MockCarrierMappingRepository), articleRepo, nil, nil)

	synced, err := svc.SyncTariffDatesToArticle(ctx, tr)
	require.NoError(t, err)
	assert.False(t, synced)
	articleRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestTariffUpdatedHandler(t *testing.T) {
	handler := NewTariffUpdatedHandler(new(MockTariffRepository), nil, zap.NewNop())
	assert.Equal(t, []string{tariff.EventTypeTariffUpdated}, handler.EventTypes())

	other := shared.NewBaseDomainEvent("Other", "Other", uuid.New())
	err := handler.Handle(context.Background(), &other)
	assert.Error(t, err)
}
