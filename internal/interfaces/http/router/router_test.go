package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func ok(body string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, body)
	}
}

func TestRouterSetup(t *testing.T) {
	t.Run("mounts under default v1 prefix", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		billing := NewDomainGroup("billing", "")
		billing.GET("/invoices", ok("invoice list"))
		r.Register(billing).Setup()

		w := serve(engine, http.MethodGet, "/api/v1/invoices")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "invoice list", w.Body.String())
	})

	t.Run("honors a custom API version", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine, WithAPIVersion("v2"))

		billing := NewDomainGroup("billing", "")
		billing.GET("/invoices", ok("v2"))
		r.Register(billing).Setup()

		assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/invoices").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v2/invoices").Code)
	})

	t.Run("router middleware applies to registered routes only", func(t *testing.T) {
		engine := gin.New()
		engine.GET("/health", ok("healthy"))

		r := NewRouter(engine)
		r.Use(func(c *gin.Context) {
			c.Header("X-Api-Scope", "billing")
			c.Next()
		})

		billing := NewDomainGroup("billing", "")
		billing.GET("/invoices", ok("list"))
		r.Register(billing).Setup()

		w := serve(engine, http.MethodGet, "/api/v1/invoices")
		assert.Equal(t, "billing", w.Header().Get("X-Api-Scope"))

		w = serve(engine, http.MethodGet, "/health")
		assert.Empty(t, w.Header().Get("X-Api-Scope"), "engine-level routes bypass router middleware")
	})

	t.Run("registers multiple domains side by side", func(t *testing.T) {
		engine := gin.New()
		r := NewRouter(engine)

		billing := NewDomainGroup("billing", "")
		billing.GET("/invoices", ok("invoices"))

		system := NewDomainGroup("system", "/system")
		system.GET("/info", ok("info"))

		r.Register(billing).Register(system).Setup()

		assert.Equal(t, "invoices", serve(engine, http.MethodGet, "/api/v1/invoices").Body.String())
		assert.Equal(t, "info", serve(engine, http.MethodGet, "/api/v1/system/info").Body.String())
	})
}

func TestDomainGroup(t *testing.T) {
	mount := func(g *DomainGroup) *gin.Engine {
		engine := gin.New()
		g.RegisterRoutes(engine.Group("/api/v1"))
		return engine
	}

	t.Run("records every verb", func(t *testing.T) {
		g := NewDomainGroup("billing", "")
		g.POST("/invoices", func(c *gin.Context) { c.Status(http.StatusCreated) }).
			GET("/invoices/:id", ok("one")).
			PUT("/invoices/:id", ok("updated")).
			PATCH("/invoices/:id", ok("patched")).
			DELETE("/invoices/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		engine := mount(g)

		assert.Equal(t, http.StatusCreated, serve(engine, http.MethodPost, "/api/v1/invoices").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/invoices/42").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPut, "/api/v1/invoices/42").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPatch, "/api/v1/invoices/42").Code)
		assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodDelete, "/api/v1/invoices/42").Code)
	})

	t.Run("group middleware wraps its routes", func(t *testing.T) {
		g := NewDomainGroup("billing", "")
		g.Use(func(c *gin.Context) {
			c.Header("X-Domain", "billing")
			c.Next()
		})
		g.GET("/invoices", ok("list"))

		w := serve(mount(g), http.MethodGet, "/api/v1/invoices")
		assert.Equal(t, "billing", w.Header().Get("X-Domain"))
	})

	t.Run("subgroups nest under the parent prefix", func(t *testing.T) {
		g := NewDomainGroup("billing", "/billing")
		invoices := g.Group("invoices", "/invoices")
		invoices.GET("", ok("invoices"))
		proposals := g.Group("proposals", "/proposals")
		proposals.GET("", ok("proposals"))

		engine := mount(g)

		assert.Equal(t, "invoices", serve(engine, http.MethodGet, "/api/v1/billing/invoices").Body.String())
		assert.Equal(t, "proposals", serve(engine, http.MethodGet, "/api/v1/billing/proposals").Body.String())
	})

	t.Run("keeps its declared name", func(t *testing.T) {
		assert.Equal(t, "billing", NewDomainGroup("billing", "").Name())
	})
}
