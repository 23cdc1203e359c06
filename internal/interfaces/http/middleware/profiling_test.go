package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestExtractControllerFromRoute(t *testing.T) {
	tests := []struct {
		route string
		want  string
	}{
		{"/api/v1/letters/:id/sign", "letters"},
		{"/api/v1/public/news/:slug", "public"},
		{"/api/v2/posyandu/schedules", "posyandu"},
		{"/health", "health"},
		{"/api/v1/:id", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractControllerFromRoute(tt.route), tt.route)
	}
}

func TestIsVersionSegment(t *testing.T) {
	assert.True(t, isVersionSegment("v1"))
	assert.True(t, isVersionSegment("V12"))
	assert.False(t, isVersionSegment("v"))
	assert.False(t, isVersionSegment("villages"))
	assert.False(t, isVersionSegment("1"))
}

func TestProfilingWithConfig(t *testing.T) {
	var labels []string
	router := gin.New()
	router.Use(ProfilingWithConfig(DefaultProfilingConfig()))
	router.GET("/api/v1/letters/:id", func(c *gin.Context) {
		labels = extractProfilingLabels(c)
		c.Status(http.StatusOK)
	})
	router.GET("/health", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/letters/9", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{
		ProfilingLabelMethod, http.MethodGet,
		ProfilingLabelRoute, "/api/v1/letters/:id",
		ProfilingLabelController, "letters",
	}, labels)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProfilingWithConfig_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(ProfilingWithConfig(ProfilingConfig{}))
	router.GET("/x", func(c *gin.Context) {
		c.Status(http.StatusTeapot)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
