package handler

import (
	"net/http"
	"testing"

	portapp "github.com/Patrickscodegit/Beconnect-sub010/internal/application/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/port"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/persistence"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/dto"
	"github.com/Patrickscodegit/Beconnect-sub010/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPortEngine(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewSQLiteDB(t, &port.Port{}, &port.PortAlias{})

	portRepo := persistence.NewGormPortRepository(db)
	aliasRepo := persistence.NewGormPortAliasRepository(db)
	h := NewPortHandler(portapp.NewPortService(portRepo, aliasRepo), portapp.NewAliasWorkbenchService(portRepo, aliasRepo))

	engine := gin.New()
	g := engine.Group("/ports")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.POST("/resolve", h.Resolve)
	g.GET("/code/:code", h.GetByCode)
	g.GET("/:id", h.GetByID)
	g.DELETE("/:id", h.Delete)
	g.POST("/aliases", h.CreateAlias)
	g.POST("/aliases/unresolved", h.Unresolved)
	return engine
}

func createPort(t *testing.T, engine *gin.Engine, code, name, country string) map[string]any {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/ports", map[string]any{
		"code": code, "name": name, "country": country, "type": "seaport",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeResponse(t, w).Data.(map[string]any)
}

func TestPortHandler_Create(t *testing.T) {
	engine := setupPortEngine(t)

	data := createPort(t, engine, "beanr", "Antwerp", "BE")
	assert.Equal(t, "BEANR", data["code"])
	assert.Equal(t, "BE", data["country"])
	assert.Equal(t, true, data["is_active"])

	t.Run("duplicate code", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/ports", map[string]any{
			"code": "BEANR", "name": "Antwerpen", "country": "BE",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w).Error.Code)
	})

	t.Run("validation", func(t *testing.T) {
		w := doJSON(t, engine, http.MethodPost, "/ports", map[string]any{
			"code": "ANTWERP", "name": "", "country": "B3",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		fields := map[string]bool{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = true
		}
		assert.True(t, fields["code"])
		assert.True(t, fields["name"])
		assert.True(t, fields["country"])
	})
}

func TestPortHandler_GetAndDelete(t *testing.T) {
	engine := setupPortEngine(t)
	created := createPort(t, engine, "NGLOS", "Lagos", "NG")
	id := created["id"].(string)

	w := doJSON(t, engine, http.MethodGet, "/ports/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/ports/code/nglos", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lagos", decodeResponse(t, w).Data.(map[string]any)["name"])

	w = doJSON(t, engine, http.MethodDelete, "/ports/"+id, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/ports/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, dto.ErrCodeNotFound, decodeResponse(t, w).Error.Code)

	w = doJSON(t, engine, http.MethodDelete, "/ports/"+id, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPortHandler_List(t *testing.T) {
	engine := setupPortEngine(t)
	createPort(t, engine, "BEANR", "Antwerp", "BE")
	createPort(t, engine, "BEZEE", "Zeebrugge", "BE")
	createPort(t, engine, "NGLOS", "Lagos", "NG")

	w := doJSON(t, engine, http.MethodGet, "/ports?country=BE&page=1&page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)
	assert.Len(t, resp.Data.([]any), 1)

	w = doJSON(t, engine, http.MethodGet, "/ports?order_dir=sideways", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPortHandler_ResolveAndAliases(t *testing.T) {
	engine := setupPortEngine(t)
	antwerp := createPort(t, engine, "BEANR", "Antwerp", "BE")

	w := doJSON(t, engine, http.MethodPost, "/ports/aliases", map[string]any{
		"port_id": antwerp["id"], "alias": "Antwerpen",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(t, engine, http.MethodPost, "/ports/resolve", map[string]any{
		"inputs": []string{"BEANR", "antwerpen", "Atlantis"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	results := decodeResponse(t, w).Data.([]any)
	require.Len(t, results, 3)
	for i, want := range []bool{true, true, false} {
		r := results[i].(map[string]any)
		assert.Equal(t, want, r["resolved"], r["input"])
	}
	assert.Equal(t, "BEANR", results[1].(map[string]any)["port"].(map[string]any)["code"])

	w = doJSON(t, engine, http.MethodPost, "/ports/aliases/unresolved", map[string]any{
		"inputs": []string{"Antwerpen", "Atlantis"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"Atlantis"}, decodeResponse(t, w).Data)

	w = doJSON(t, engine, http.MethodPost, "/ports/resolve", map[string]any{"inputs": []string{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
