package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestDomainGroup_RegistersUnderVersion(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	NewRouter(engine).Register(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "test", group.Name())
	assert.Equal(t, "/test", group.Prefix())
}

func TestDomainGroup_SubgroupInheritsMiddleware(t *testing.T) {
	engine := gin.New()
	var calls []string

	parent := NewDomainGroup("parent", "/parent").Use(func(c *gin.Context) {
		calls = append(calls, "parent")
		c.Next()
	})
	child := parent.Group("child", "/child").Use(func(c *gin.Context) {
		calls = append(calls, "child")
		c.Next()
	})
	child.DELETE("/:id", func(c *gin.Context) { c.String(http.StatusOK, c.Param("id")) })
	NewRouter(engine).Register(parent).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/parent/child/42", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "42", w.Body.String())
	assert.Equal(t, []string{"parent", "child"}, calls)
}

func TestRouter_RegisterRoot(t *testing.T) {
	engine := gin.New()
	group := NewDomainGroup("health", "/health")
	group.GET("", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	NewRouter(engine).RegisterRoot(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func deny(status int) gin.HandlerFunc {
	return func(c *gin.Context) { c.AbortWithStatus(status) }
}

func allow(c *gin.Context) { c.Next() }

func mountedEngine(g Guards) (*gin.Engine, *Router) {
	engine := gin.New()
	h := Handlers{
		System:    handler.NewSystemHandler("test", "0.0.0"),
		Auth:      handler.NewAuthHandler(nil),
		User:      handler.NewUserHandler(nil),
		Port:      handler.NewPortHandler(nil, nil),
		Tariff:    handler.NewTariffHandler(nil),
		Article:   handler.NewArticleHandler(nil, nil),
		Pricing:   handler.NewPricingHandler(nil),
		Quotation: handler.NewQuotationHandler(nil, nil, nil, nil),
		Portal:    handler.NewPortalHandler(nil, nil),
		Schedule:  handler.NewScheduleHandler(nil),
	}
	r := NewRouter(engine).Mount(h, g)
	r.Setup()
	return engine, r
}

func TestMount_RouteTable(t *testing.T) {
	_, r := mountedEngine(Guards{Authenticated: allow, Staff: allow, Admin: allow})

	registered := make(map[RouteInfo]bool)
	for _, rt := range r.Routes() {
		registered[rt] = true
	}

	expected := []RouteInfo{
		{http.MethodGet, "/health"},
		{http.MethodGet, "/api/v1/health"},
		{http.MethodPost, "/api/v1/auth/login"},
		{http.MethodPost, "/api/v1/auth/refresh"},
		{http.MethodPost, "/api/v1/auth/logout"},
		{http.MethodGet, "/api/v1/auth/me"},
		{http.MethodPost, "/api/v1/portal/quotations"},
		{http.MethodGet, "/api/v1/portal/quotations"},
		{http.MethodGet, "/api/v1/portal/quotations/:number"},
		{http.MethodPost, "/api/v1/portal/quotations/:number/attachments"},
		{http.MethodPost, "/api/v1/ports/resolve"},
		{http.MethodGet, "/api/v1/ports/aliases"},
		{http.MethodPost, "/api/v1/ports/aliases/bulk"},
		{http.MethodPost, "/api/v1/ports/aliases/:id/toggle"},
		{http.MethodPost, "/api/v1/ports/aliases/unresolved"},
		{http.MethodPut, "/api/v1/tariffs/bulk"},
		{http.MethodPost, "/api/v1/tariffs/:id/sync-dates"},
		{http.MethodGet, "/api/v1/tariffs/matrix/:carrier"},
		{http.MethodPut, "/api/v1/tariffs/matrix/:carrier"},
		{http.MethodGet, "/api/v1/articles/suggest"},
		{http.MethodGet, "/api/v1/articles/:id/additional-services"},
		{http.MethodPost, "/api/v1/articles/sync"},
		{http.MethodGet, "/api/v1/articles/sync/progress"},
		{http.MethodPost, "/api/v1/pricing/preview"},
		{http.MethodGet, "/api/v1/pricing/vat"},
		{http.MethodPut, "/api/v1/pricing/rules/:id"},
		{http.MethodDelete, "/api/v1/pricing/profiles/:id"},
		{http.MethodPost, "/api/v1/quotations/:id/articles/auto-select"},
		{http.MethodPost, "/api/v1/quotations/:id/price"},
		{http.MethodPost, "/api/v1/quotations/:id/status"},
		{http.MethodPost, "/api/v1/quotations/:id/restore"},
		{http.MethodPost, "/api/v1/quotations/:id/export"},
		{http.MethodPost, "/api/v1/quotations/:id/offer-pdf"},
		{http.MethodGet, "/api/v1/schedules/search"},
		{http.MethodPost, "/api/v1/users/:id/deactivate"},
	}
	for _, rt := range expected {
		assert.True(t, registered[rt], "missing %s %s", rt.Method, rt.Path)
	}
}

func TestMount_Guards(t *testing.T) {
	engine, _ := mountedEngine(Guards{
		Authenticated: allow,
		Staff:         deny(http.StatusForbidden),
		Admin:         deny(http.StatusTeapot),
		Login:         deny(http.StatusTooManyRequests),
	})

	cases := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/v1/ports", http.StatusForbidden},
		{http.MethodPost, "/api/v1/quotations/abc/price", http.StatusForbidden},
		{http.MethodGet, "/api/v1/schedules/search", http.StatusForbidden},
		{http.MethodGet, "/api/v1/users", http.StatusTeapot},
		{http.MethodPost, "/api/v1/auth/login", http.StatusTooManyRequests},
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/api/v1/system/info", http.StatusOK},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestRouter_RoutesSorted(t *testing.T) {
	_, r := mountedEngine(Guards{Authenticated: allow, Staff: allow, Admin: allow})
	routes := r.Routes()
	require.NotEmpty(t, routes)
	for i := 1; i < len(routes); i++ {
		assert.LessOrEqual(t, routes[i-1].Path, routes[i].Path)
	}
}
