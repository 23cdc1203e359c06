package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/application/public"
)

// ContentHandler lets staff maintain the village profile, news articles and
// the contact inbox behind the public pages
type ContentHandler struct {
	BaseHandler
	service *public.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service *public.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// GetProfile godoc
// @ID           getVillageProfile
// @Summary      Village profile
// @Tags         content
// @Produce      json
// @Success      200 {object} APIResponse[public.ProfileResponse]
// @Security     BearerAuth
// @Router       /content/profile [get]
func (h *ContentHandler) GetProfile(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.service.GetProfile(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpsertProfile godoc
// @ID           upsertVillageProfile
// @Summary      Save village profile
// @Description  Create or replace the single profile of the village
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body public.ProfileRequest true "Profile"
// @Success      200 {object} APIResponse[public.ProfileResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/profile [put]
func (h *ContentHandler) UpsertProfile(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req public.ProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpsertProfile(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateNews godoc
// @ID           createNews
// @Summary      Create news article
// @Description  Articles start as drafts
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body public.NewsRequest true "Article"
// @Success      201 {object} APIResponse[public.NewsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/news [post]
func (h *ContentHandler) CreateNews(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req public.NewsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	var author *uuid.UUID
	if id, err := getUserID(c); err == nil {
		author = &id
	}
	resp, err := h.service.CreateNews(c.Request.Context(), tenantID, author, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListNews godoc
// @ID           listNews
// @Summary      List news articles
// @Tags         content
// @Produce      json
// @Param        search query string false "Title"
// @Param        category query string false "Category" Enums(pengumuman, kegiatan, pembangunan, sosial, kesehatan, pendidikan, ekonomi, lainnya)
// @Param        status query string false "Status" Enums(draft, published, archived)
// @Param        is_featured query bool false "Featured only"
// @Param        author_id query string false "Author ID" format(uuid)
// @Param        rubric_id query string false "Rubric ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]public.NewsResponse]
// @Security     BearerAuth
// @Router       /content/news [get]
func (h *ContentHandler) ListNews(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, "category", "rubric_id", "status", "is_featured", "author_id"), "published_at")
	if !ok {
		return
	}
	items, total, err := h.service.ListNews(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetNews godoc
// @ID           getNews
// @Summary      Get news article
// @Tags         content
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Success      200 {object} APIResponse[public.NewsResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/news/{id} [get]
func (h *ContentHandler) GetNews(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetNews(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateNews godoc
// @ID           updateNews
// @Summary      Update news article
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Param        request body public.NewsRequest true "Article"
// @Success      200 {object} APIResponse[public.NewsResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/news/{id} [put]
func (h *ContentHandler) UpdateNews(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req public.NewsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateNews(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PublishNews godoc
// @ID           publishNews
// @Summary      Publish news article
// @Tags         content
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Success      200 {object} APIResponse[public.NewsResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/news/{id}/publish [post]
func (h *ContentHandler) PublishNews(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.PublishNews(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ArchiveNews godoc
// @ID           archiveNews
// @Summary      Archive news article
// @Tags         content
// @Produce      json
// @Param        id path string true "Article ID" format(uuid)
// @Success      200 {object} APIResponse[public.NewsResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/news/{id}/archive [post]
func (h *ContentHandler) ArchiveNews(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.ArchiveNews(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteNews godoc
// @ID           deleteNews
// @Summary      Delete news article
// @Tags         content
// @Param        id path string true "Article ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/news/{id} [delete]
func (h *ContentHandler) DeleteNews(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteNews(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListMessages godoc
// @ID           listContactMessages
// @Summary      List contact messages
// @Tags         content
// @Produce      json
// @Param        search query string false "Name, email or subject"
// @Param        is_read query bool false "Read state"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]public.ContactResponse]
// @Security     BearerAuth
// @Router       /content/messages [get]
func (h *ContentHandler) ListMessages(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "is_read")
	items, total, err := h.service.ListMessages(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// MarkMessageRead godoc
// @ID           markContactMessageRead
// @Summary      Mark message read
// @Tags         content
// @Produce      json
// @Param        id path string true "Message ID" format(uuid)
// @Success      200 {object} APIResponse[public.ContactResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/messages/{id}/read [post]
func (h *ContentHandler) MarkMessageRead(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.MarkMessageRead(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteMessage godoc
// @ID           deleteContactMessage
// @Summary      Delete message
// @Tags         content
// @Param        id path string true "Message ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/messages/{id} [delete]
func (h *ContentHandler) DeleteMessage(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteMessage(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
