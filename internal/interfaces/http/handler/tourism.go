package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/tourism"
)

// TourismHandler handles tourism categories, destinations and review
// moderation. Events and packages use RegistryHandler.
type TourismHandler struct {
	BaseHandler
	service *tourism.Service
}

// NewTourismHandler creates a new TourismHandler
func NewTourismHandler(service *tourism.Service) *TourismHandler {
	return &TourismHandler{service: service}
}

// CreateCategory godoc
// @ID           createTourismCategory
// @Summary      Create tourism category
// @Tags         tourism
// @Accept       json
// @Produce      json
// @Param        request body tourism.CategoryRequest true "Category"
// @Success      201 {object} APIResponse[tourism.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/categories [post]
func (h *TourismHandler) CreateCategory(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req tourism.CategoryRequest
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
// @ID           listTourismCategories
// @Summary      List tourism categories
// @Tags         tourism
// @Produce      json
// @Param        is_active query bool false "Active only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]tourism.CategoryResponse]
// @Security     BearerAuth
// @Router       /tourism/categories [get]
func (h *TourismHandler) ListCategories(c *gin.Context) {
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
// @ID           updateTourismCategory
// @Summary      Update tourism category
// @Tags         tourism
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body tourism.CategoryRequest true "Category"
// @Success      200 {object} APIResponse[tourism.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/categories/{id} [put]
func (h *TourismHandler) UpdateCategory(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req tourism.CategoryRequest
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
// @ID           deleteTourismCategory
// @Summary      Delete tourism category
// @Description  Categories that still hold destinations cannot be deleted
// @Tags         tourism
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/categories/{id} [delete]
func (h *TourismHandler) DeleteCategory(c *gin.Context) {
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

// CreateLocation godoc
// @ID           createTourismLocation
// @Summary      Create destination
// @Description  New destinations start as drafts. The slug is derived from the title.
// @Tags         tourism
// @Accept       json
// @Produce      json
// @Param        request body tourism.LocationRequest true "Destination"
// @Success      201 {object} APIResponse[tourism.LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/locations [post]
func (h *TourismHandler) CreateLocation(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req tourism.LocationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateLocation(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListLocations godoc
// @ID           listTourismLocations
// @Summary      List destinations
// @Tags         tourism
// @Produce      json
// @Param        search query string false "Title or address"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        location_type query string false "Type" Enums(natural, cultural, historical, religious, culinary, adventure, education, other)
// @Param        status query string false "Status" Enums(draft, published, archived)
// @Param        featured query bool false "Featured only"
// @Param        is_active query bool false "Active only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]tourism.LocationResponse]
// @Security     BearerAuth
// @Router       /tourism/locations [get]
func (h *TourismHandler) ListLocations(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "category_id", "location_type", "status", "featured", "is_active")
	items, total, err := h.service.ListLocations(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetLocation godoc
// @ID           getTourismLocation
// @Summary      Get destination
// @Tags         tourism
// @Produce      json
// @Param        id path string true "Destination ID" format(uuid)
// @Success      200 {object} APIResponse[tourism.LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/locations/{id} [get]
func (h *TourismHandler) GetLocation(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetLocation(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateLocation godoc
// @ID           updateTourismLocation
// @Summary      Update destination
// @Tags         tourism
// @Accept       json
// @Produce      json
// @Param        id path string true "Destination ID" format(uuid)
// @Param        request body tourism.LocationRequest true "Destination"
// @Success      200 {object} APIResponse[tourism.LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/locations/{id} [put]
func (h *TourismHandler) UpdateLocation(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req tourism.LocationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateLocation(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PublishLocation godoc
// @ID           publishTourismLocation
// @Summary      Publish destination
// @Description  Make a destination public. The first publication stamps published_at.
// @Tags         tourism
// @Produce      json
// @Param        id path string true "Destination ID" format(uuid)
// @Success      200 {object} APIResponse[tourism.LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/locations/{id}/publish [post]
func (h *TourismHandler) PublishLocation(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.PublishLocation(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ArchiveLocation godoc
// @ID           archiveTourismLocation
// @Summary      Archive destination
// @Tags         tourism
// @Produce      json
// @Param        id path string true "Destination ID" format(uuid)
// @Success      200 {object} APIResponse[tourism.LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/locations/{id}/archive [post]
func (h *TourismHandler) ArchiveLocation(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.ArchiveLocation(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteLocation godoc
// @ID           deleteTourismLocation
// @Summary      Delete destination
// @Tags         tourism
// @Param        id path string true "Destination ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/locations/{id} [delete]
func (h *TourismHandler) DeleteLocation(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteLocation(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListReviews godoc
// @ID           listTourismReviews
// @Summary      List reviews
// @Description  All reviews including unapproved and flagged ones
// @Tags         tourism
// @Produce      json
// @Param        location_id query string false "Destination ID" format(uuid)
// @Param        rating query int false "Rating" minimum(1) maximum(5)
// @Param        is_approved query bool false "Approved"
// @Param        is_flagged query bool false "Flagged"
// @Param        visit_type query string false "Visit type" Enums(personal, family, group, business)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]tourism.ReviewResponse]
// @Security     BearerAuth
// @Router       /tourism/reviews [get]
func (h *TourismHandler) ListReviews(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "location_id", "rating", "is_approved", "is_flagged", "visit_type")
	items, total, err := h.service.ListReviews(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// ApproveReview godoc
// @ID           approveTourismReview
// @Summary      Approve review
// @Tags         tourism
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Success      200 {object} APIResponse[tourism.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/reviews/{id}/approve [post]
func (h *TourismHandler) ApproveReview(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.ApproveReview(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// FlagReview godoc
// @ID           flagTourismReview
// @Summary      Flag review
// @Tags         tourism
// @Accept       json
// @Produce      json
// @Param        id path string true "Review ID" format(uuid)
// @Param        request body tourism.FlagReviewRequest true "Reason"
// @Success      200 {object} APIResponse[tourism.ReviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/reviews/{id}/flag [post]
func (h *TourismHandler) FlagReview(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req tourism.FlagReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.FlagReview(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteReview godoc
// @ID           deleteTourismReview
// @Summary      Delete review
// @Tags         tourism
// @Param        id path string true "Review ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tourism/reviews/{id} [delete]
func (h *TourismHandler) DeleteReview(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteReview(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
