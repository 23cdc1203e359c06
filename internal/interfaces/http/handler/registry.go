package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/domain/shared"
)

// RegistryService is the CRUD surface shared by the simple village registers
type RegistryService[Req, Resp any] interface {
	Create(ctx context.Context, tenantID uuid.UUID, req Req) (*Resp, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req Req) (*Resp, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*Resp, error)
	List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Resp, int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// RegistryOptions describes the list filters a register accepts
type RegistryOptions struct {
	// Filters are equality filters read from the query string
	Filters []string
	// DateColumn receives the from and to query parameters as an inclusive range
	DateColumn string
}

// RegistryHandler serves CRUD endpoints for one register. Registers without
// their own workflow (cooperatives, assets, immunizations, events) share it.
type RegistryHandler[Req, Resp any] struct {
	BaseHandler
	svc  RegistryService[Req, Resp]
	opts RegistryOptions
}

// NewRegistryHandler creates a handler over a register service
func NewRegistryHandler[Req, Resp any](svc RegistryService[Req, Resp], opts RegistryOptions) *RegistryHandler[Req, Resp] {
	return &RegistryHandler[Req, Resp]{svc: svc, opts: opts}
}

// RegisterRoutes mounts the five CRUD routes on rg
func (h *RegistryHandler[Req, Resp]) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create stores a new entry
func (h *RegistryHandler[Req, Resp]) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns one page of entries
func (h *RegistryHandler[Req, Resp]) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, h.opts.Filters...), h.opts.DateColumn)
	if !ok {
		return
	}
	items, total, err := h.svc.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// Get returns one entry
func (h *RegistryHandler[Req, Resp]) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update replaces an entry
func (h *RegistryHandler[Req, Resp]) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete removes an entry
func (h *RegistryHandler[Req, Resp]) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

const dateLayout = "2006-01-02"

// dateRange adds the from and to query parameters to f as an inclusive
// range on column. It writes a 400 when either date is malformed.
func (h *BaseHandler) dateRange(c *gin.Context, f shared.Filter, column string) (shared.Filter, bool) {
	if column == "" {
		return f, true
	}
	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "from must be a date in YYYY-MM-DD format")
			return f, false
		}
		f = f.With(column+"__gte", from)
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(dateLayout, raw)
		if err != nil {
			h.BadRequest(c, "to must be a date in YYYY-MM-DD format")
			return f, false
		}
		f = f.With(column+"__lte", to.Add(24*time.Hour-time.Nanosecond))
	}
	return f, true
}
