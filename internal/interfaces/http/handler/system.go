package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Pinger is anything the health check can probe, normally the database
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemOptions describes the running deployment
type SystemOptions struct {
	Name        string
	Version     string
	Environment string
	// Features reports optional subsystems, e.g. "ai", "pdf", "redis"
	Features map[string]bool
	// Database backs /health; nil reports the service as healthy
	Database Pinger
	// HealthTimeout bounds the database ping, one second by default
	HealthTimeout time.Duration
}

// SystemHandler serves /health and the /system endpoints
type SystemHandler struct {
	BaseHandler
	opts      SystemOptions
	startTime time.Time
	now       func() time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(opts SystemOptions) *SystemHandler {
	if opts.HealthTimeout <= 0 {
		opts.HealthTimeout = time.Second
	}
	return &SystemHandler{opts: opts, startTime: time.Now(), now: time.Now}
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name        string          `json:"name" example:"desa-api"`
	Version     string          `json:"version" example:"1.0.0"`
	Environment string          `json:"environment" example:"production"`
	GoVersion   string          `json:"go_version" example:"go1.25.5"`
	Uptime      string          `json:"uptime" example:"1h30m45s"`
	Features    map[string]bool `json:"features"`
}

// GetSystemInfo godoc
// @ID           getSystemSystemInfo
// @Summary      Get system information
// @Description  Version, uptime and which optional subsystems (AI, PDF rendering, Redis) are enabled
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	features := h.opts.Features
	if features == nil {
		features = map[string]bool{}
	}
	h.Success(c, SystemInfoResponse{
		Name:        h.opts.Name,
		Version:     h.opts.Version,
		Environment: h.opts.Environment,
		GoVersion:   runtime.Version(),
		Uptime:      h.now().Sub(h.startTime).Round(time.Second).String(),
		Features:    features,
	})
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{Message: "pong", Timestamp: h.now().Format(time.RFC3339)})
}

// HealthResponse is the body of /health
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database" example:"ok"`
	Time     string `json:"time" example:"2026-01-23T12:00:00Z"`
}

// Health answers 200 when the database responds to a ping and 503 otherwise.
// It is mounted outside /api/v1 and skips the response envelope so load
// balancers can read it directly.
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "healthy", Database: "ok", Time: h.now().Format(time.RFC3339)}
	if h.opts.Database != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), h.opts.HealthTimeout)
		defer cancel()
		if err := h.opts.Database.Ping(ctx); err != nil {
			logger.FromGin(c).Warn("Health check failed", zap.Error(err))
			resp.Status, resp.Database = "unhealthy", "error"
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}
