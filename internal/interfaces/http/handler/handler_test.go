package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/infrastructure/auth"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/dto"
	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/middleware"
	"github.com/Patrickscodegit/Beconnect-sub010/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.DoJSON(t, engine, method, path, body)
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	return testutil.DecodeResponse(t, w)
}

// withClaims installs claims the way JWTAuth does
func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.JWTClaimsKey, claims)
		c.Set(middleware.JWTUserIDKey, claims.UserID)
		c.Set(middleware.JWTRoleKey, claims.Role)
		c.Next()
	}
}

func TestHandleError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"already exists", shared.NewDomainError("ALREADY_EXISTS", "dup"), http.StatusConflict, dto.ErrCodeAlreadyExists},
		{"invalid input", shared.NewDomainError("INVALID_CODE", "bad code"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"external", shared.NewDomainError("EXPORT_FAILED", "robaws down"), http.StatusBadGateway, dto.ErrCodeExternalService},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := &BaseHandler{}
			engine := gin.New()
			engine.Use(middleware.RequestID())
			engine.GET("/", func(c *gin.Context) { h.HandleError(c, tc.err) })

			w := doJSON(t, engine, http.MethodGet, "/", nil)
			assert.Equal(t, tc.status, w.Code)
			resp := decodeResponse(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tc.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestHandleError_HidesInternalMessage(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) { h.HandleError(c, errors.New("pq: relation missing")) })

	resp := decodeResponse(t, doJSON(t, engine, http.MethodGet, "/", nil))
	assert.NotContains(t, resp.Error.Message, "pq")
}

func TestUUIDParam(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.GET("/:id", func(c *gin.Context) {
		id, ok := h.uuidParam(c, "id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id.String())
	})

	w := doJSON(t, engine, http.MethodGet, "/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeInvalidInput, decodeResponse(t, w).Error.Code)

	id := uuid.New()
	w = doJSON(t, engine, http.MethodGet, "/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id.String(), w.Body.String())
}

func TestActor(t *testing.T) {
	h := &BaseHandler{}
	userID := uuid.New()

	engine := gin.New()
	engine.GET("/anon", func(c *gin.Context) {
		a := h.actor(c)
		assert.Nil(t, a.UserID)
		assert.False(t, a.Staff)
		c.Status(http.StatusOK)
	})
	engine.GET("/customer", withClaims(&auth.Claims{
		UserID:         userID.String(),
		Email:          "buyer@example.com",
		Role:           "customer",
		RobawsClientID: "4711",
		CustomerType:   "FORWARDER",
	}), func(c *gin.Context) {
		a := h.actor(c)
		require.NotNil(t, a.UserID)
		assert.Equal(t, userID, *a.UserID)
		assert.Equal(t, "buyer@example.com", a.Email)
		assert.Equal(t, "4711", a.RobawsClientID)
		assert.Equal(t, "FORWARDER", a.CustomerType)
		assert.False(t, a.Staff)
		c.Status(http.StatusOK)
	})
	engine.GET("/staff", withClaims(&auth.Claims{UserID: userID.String(), Role: "staff"}), func(c *gin.Context) {
		assert.True(t, h.actor(c).Staff)
		c.Status(http.StatusOK)
	})

	for _, p := range []string{"/anon", "/customer", "/staff"} {
		assert.Equal(t, http.StatusOK, doJSON(t, engine, http.MethodGet, p, nil).Code, p)
	}
}

func TestRespondPage_EmptyItems(t *testing.T) {
	h := &BaseHandler{}
	engine := gin.New()
	engine.GET("/", func(c *gin.Context) {
		page := shared.NewPaginated[string](nil, 0, 1, 20)
		respondPage(h, c, &page)
	})

	w := doJSON(t, engine, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(mustField(t, w.Body.Bytes(), "data")))
	resp := decodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(0), resp.Meta.Total)
}

func mustField(t *testing.T, body []byte, field string) json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(body, &m))
	return m[field]
}

func TestSystemHandler(t *testing.T) {
	h := NewSystemHandler("Beconnect Quotation API", "1.2.3")
	h.AddCheck("database", func(context.Context) error { return nil })

	engine := gin.New()
	engine.GET("/health", h.Health)
	engine.GET("/health/ready", h.Ready)
	engine.GET("/system/info", h.GetSystemInfo)

	assert.Equal(t, http.StatusOK, doJSON(t, engine, http.MethodGet, "/health", nil).Code)

	w := doJSON(t, engine, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	resp := decodeResponse(t, doJSON(t, engine, http.MethodGet, "/system/info", nil))
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Beconnect Quotation API", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])

	h.AddCheck("redis", func(context.Context) error { return errors.New("connection refused") })
	w = doJSON(t, engine, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp = decodeResponse(t, w)
	assert.False(t, resp.Success)
	checks := resp.Data.(map[string]any)["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["database"])
	assert.Equal(t, "connection refused", checks["redis"])
}
