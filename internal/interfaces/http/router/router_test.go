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

func TestNewRouter(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.registrars)
}

func TestRouterWithAPIVersion(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterRegister(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("test", "/test")
	r.Register(group)

	assert.Len(t, r.registrars, 1)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	group := NewDomainGroup("test", "/test")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	r.Register(group)
	r.Setup()

	// Test the route was registered
	req := httptest.NewRequest("GET", "/api/v1/test/ping", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("posyandu", "/posyandu")
		assert.Equal(t, "posyandu", g.Name())
		assert.Equal(t, "/posyandu", g.Prefix())
	})

	t.Run("registers GET route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "items")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/test/items", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("registers POST route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.POST("/items", func(c *gin.Context) {
			c.String(http.StatusCreated, "created")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("POST", "/api/v1/test/items", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("registers PUT route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.PUT("/items/:id", func(c *gin.Context) {
			c.String(http.StatusOK, "updated")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("PUT", "/api/v1/test/items/123", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("registers PATCH route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.PATCH("/items/:id", func(c *gin.Context) {
			c.String(http.StatusOK, "patched")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("PATCH", "/api/v1/test/items/123", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("registers DELETE route", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.DELETE("/items/:id", func(c *gin.Context) {
			c.String(http.StatusNoContent, "")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("DELETE", "/api/v1/test/items/123", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("applies middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")

		// Add middleware that sets a header
		g.Use(func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})

		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		req := httptest.NewRequest("GET", "/api/v1/test/items", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("reference", "/reference")

		dusun := g.Group("dusun", "/dusun")
		dusun.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "dusun list")
		})

		penduduk := g.Group("penduduk", "/penduduk")
		penduduk.GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "penduduk list")
		})

		api := engine.Group("/api/v1")
		g.RegisterRoutes(api)

		assertRoute(t, engine, "GET", "/api/v1/reference/dusun", http.StatusOK, "dusun list")
		assertRoute(t, engine, "GET", "/api/v1/reference/penduduk", http.StatusOK, "penduduk list")
	})

	t.Run("lists direct routes", func(t *testing.T) {
		g := NewDomainGroup("letters", "/letters")
		g.GET("", func(c *gin.Context) {}).POST("/:id/submit", func(c *gin.Context) {})

		assert.Equal(t, []string{"GET /letters", "POST /letters/:id/submit"}, g.Routes())
	})
}

type staticRegistrar string

func (s staticRegistrar) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", func(c *gin.Context) { c.String(http.StatusOK, string(s)) })
}

func TestDomainGroupMount(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("business", "/business")
	g.Use(func(c *gin.Context) {
		c.Header("X-Group", "business")
		c.Next()
	})
	g.Mount("/koperasi", staticRegistrar("koperasi")).Mount("/ukm", staticRegistrar("ukm"))

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := assertRoute(t, engine, "GET", "/api/v1/business/koperasi", http.StatusOK, "koperasi")
	assert.Equal(t, "business", w.Header().Get("X-Group"), "mounted registrars inherit group middleware")
	assertRoute(t, engine, "GET", "/api/v1/business/ukm", http.StatusOK, "ukm")
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)
	r.Use(func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	})

	g := NewDomainGroup("letters", "/letters")
	g.GET("", func(c *gin.Context) { c.String(http.StatusOK, "letters") })
	r.Register(g).Setup()
	engine.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	assertRoute(t, engine, "GET", "/api/v1/letters", http.StatusUnauthorized, "")
	assertRoute(t, engine, "GET", "/health", http.StatusOK, "ok")

	req := httptest.NewRequest("GET", "/api/v1/letters", nil)
	req.Header.Set("Authorization", "Bearer x")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMultipleDomainGroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	letters := NewDomainGroup("letters", "/letters")
	letters.GET("/stats", func(c *gin.Context) {
		c.String(http.StatusOK, "stats")
	})

	public := NewDomainGroup("public", "/public")
	public.GET("/news", func(c *gin.Context) {
		c.String(http.StatusOK, "news")
	})

	r.Register(letters).Register(public)
	r.Setup()

	assertRoute(t, engine, "GET", "/api/v1/letters/stats", http.StatusOK, "stats")
	assertRoute(t, engine, "GET", "/api/v1/public/news", http.StatusOK, "news")
}

func TestChainedMethodCalls(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	g := NewDomainGroup("test", "/test")
	g.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
		POST("/b", func(c *gin.Context) { c.String(http.StatusOK, "b") }).
		PUT("/c", func(c *gin.Context) { c.String(http.StatusOK, "c") })

	r.Register(g).Setup()

	tests := []struct {
		method string
		path   string
	}{
		{"GET", "/api/v1/test/a"},
		{"POST", "/api/v1/test/b"},
		{"PUT", "/api/v1/test/c"},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "Route %s %s should work", tt.method, tt.path)
	}
}

func assertRoute(t *testing.T, engine *gin.Engine, method, path string, status int, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, status, w.Code)
	if body != "" {
		assert.Equal(t, body, w.Body.String())
	}
	return w
}
