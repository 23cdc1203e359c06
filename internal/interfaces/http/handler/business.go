package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/business"
)

// BusinessHandler handles business categories and the UMKM summary. The
// individual registers are served by RegistryHandler.
type BusinessHandler struct {
	BaseHandler
	service *business.Service
}

// NewBusinessHandler creates a new BusinessHandler
func NewBusinessHandler(service *business.Service) *BusinessHandler {
	return &BusinessHandler{service: service}
}

// CreateCategory godoc
// @ID           createBusinessCategory
// @Summary      Create business category
// @Tags         business
// @Accept       json
// @Produce      json
// @Param        request body business.CategoryRequest true "Category"
// @Success      201 {object} APIResponse[business.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business/categories [post]
func (h *BusinessHandler) CreateCategory(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req business.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateCategory(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListCategories godoc
// @ID           listBusinessCategories
// @Summary      List business categories
// @Tags         business
// @Produce      json
// @Param        is_active query bool false "Active only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]business.CategoryResponse]
// @Security     BearerAuth
// @Router       /business/categories [get]
func (h *BusinessHandler) ListCategories(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "is_active")
	items, total, err := h.service.ListCategories(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// UpdateCategory godoc
// @ID           updateBusinessCategory
// @Summary      Update business category
// @Tags         business
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body business.CategoryRequest true "Category"
// @Success      200 {object} APIResponse[business.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business/categories/{id} [put]
func (h *BusinessHandler) UpdateCategory(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req business.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateCategory(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCategory godoc
// @ID           deleteBusinessCategory
// @Summary      Delete business category
// @Tags         business
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /business/categories/{id} [delete]
func (h *BusinessHandler) DeleteCategory(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Summary godoc
// @ID           getBusinessSummary
// @Summary      Business summary
// @Description  Counts per register and status plus the total book value of village assets
// @Tags         business
// @Produce      json
// @Success      200 {object} APIResponse[business.SummaryResponse]
// @Security     BearerAuth
// @Router       /business/summary [get]
func (h *BusinessHandler) Summary(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.service.Summary(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
