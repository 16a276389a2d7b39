package handler

import (
	"net/http"
	"strings"
	"testing"

	tariffapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/tariff"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/tariff"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/persistence"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/dto"
	"github.com/Patrickscodegit/Beconnect-sub010/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTariffEngine(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.NewSQLiteDB(t, &tariff.CarrierMapping{}, &tariff.Tariff{})

	svc := tariffapp.NewTariffService(
		persistence.NewGormTariffRepository(db),
		persistence.NewGormCarrierMappingRepository(db),
		persistence.NewGormTariffTransactionScope(db),
		nil, nil, zap.NewNop(),
	)
	h := NewTariffHandler(svc)

	engine := gin.New()
	g := engine.Group("/tariffs")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.PUT("/bulk", h.BulkSave)
	g.GET("/:id", h.GetByID)
	return engine, db
}

func createTariff(t *testing.T, engine *gin.Engine, carrier, portCode string) string {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/tariffs", map[string]any{
		"carrier":          carrier,
		"port_code":        portCode,
		"vehicle_category": "car",
		"base_freight":     "450",
		"baf":              "35",
		"unit_basis":       "UNIT",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeResponse(t, w).Data.(map[string]any)["id"].(string)
}

func TestTariffHandler_BulkSave(t *testing.T) {
	engine, _ := setupTariffEngine(t)
	first := createTariff(t, engine, "GRIMALDI", "NGLOS")
	second := createTariff(t, engine, "GRIMALDI", "BJCOO")

	w := doJSON(t, engine, http.MethodPut, "/tariffs/bulk", map[string]any{
		"tariffs": []map[string]any{
			{"id": first, "amounts": map[string]any{"base_freight": "475", "baf": "35"}},
			{"id": second, "notes": nil},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := testutil.DecodeData[tariffapp.BulkSaveResponse](t, w)
	assert.Equal(t, 1, result.Saved)
	assert.Equal(t, 1, result.Unchanged)
	assert.Equal(t, []string{first}, result.TariffIDs)

	got := testutil.DecodeData[tariffapp.TariffResponse](t, doJSON(t, engine, http.MethodGet, "/tariffs/"+first, nil))
	assert.Equal(t, "475", got.BaseFreight.String())
	assert.Equal(t, "510", got.Total.String())
}

func TestTariffHandler_BulkSaveFailure(t *testing.T) {
	t.Run("unknown tariff", func(t *testing.T) {
		engine, _ := setupTariffEngine(t)
		known := createTariff(t, engine, "GRIMALDI", "NGLOS")
		missing := uuid.New().String()

		w := doJSON(t, engine, http.MethodPut, "/tariffs/bulk", map[string]any{
			"tariffs": []map[string]any{
				{"id": known, "amounts": map[string]any{"base_freight": "500"}},
				{"id": missing, "amounts": map[string]any{"base_freight": "500"}},
			},
		})
		testutil.AssertError(t, w, http.StatusNotFound, dto.ErrCodeNotFound)
		assert.Equal(t, "Failed to save: Tariff not found: "+missing, decodeResponse(t, w).Error.Message)

		// the batch rolled back
		got := testutil.DecodeData[tariffapp.TariffResponse](t, doJSON(t, engine, http.MethodGet, "/tariffs/"+known, nil))
		assert.Equal(t, "450", got.BaseFreight.String())
	})

	t.Run("database error", func(t *testing.T) {
		engine, db := setupTariffEngine(t)
		id := createTariff(t, engine, "GRIMALDI", "NGLOS")
		require.NoError(t, db.Migrator().DropTable(&tariff.Tariff{}))

		w := doJSON(t, engine, http.MethodPut, "/tariffs/bulk", map[string]any{
			"tariffs": []map[string]any{{"id": id, "amounts": map[string]any{"base_freight": "500"}}},
		})
		testutil.AssertError(t, w, http.StatusInternalServerError, dto.ErrCodeInternal)
		msg := decodeResponse(t, w).Error.Message
		assert.True(t, strings.HasPrefix(msg, "Failed to save: "), msg)
		assert.Greater(t, len(msg), len("Failed to save: "))
	})

	t.Run("empty batch", func(t *testing.T) {
		engine, _ := setupTariffEngine(t)
		w := doJSON(t, engine, http.MethodPut, "/tariffs/bulk", map[string]any{"tariffs": []any{}})
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})
}

func TestTariffHandler_List(t *testing.T) {
	engine, _ := setupTariffEngine(t)
	createTariff(t, engine, "GRIMALDI", "NGLOS")
	createTariff(t, engine, "GRIMALDI", "BJCOO")
	createTariff(t, engine, "SALLAUM", "NGLOS")

	w := doJSON(t, engine, http.MethodGet, "/tariffs?carrier=grimaldi&page=1&page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.PageSize)
	assert.Len(t, resp.Data, 1)

	t.Run("page size above limit", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/tariffs?page_size=500", nil)
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})

	t.Run("bad order direction", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodGet, "/tariffs?order_dir=sideways", nil)
		testutil.AssertError(t, w, http.StatusBadRequest, dto.ErrCodeValidation)
	})
}
