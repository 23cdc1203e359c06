package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/public"
)

// CommentHandler lets staff moderate reader comments on news articles.
// Rubrics use RegistryHandler.
type CommentHandler struct {
	BaseHandler
	service *public.CommentService
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(service *public.CommentService) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListComments godoc
// @ID           listNewsComments
// @Summary      List comments
// @Description  All comments regardless of moderation status
// @Tags         content
// @Produce      json
// @Param        search query string false "Author or text"
// @Param        news_id query string false "Article ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, approved, rejected, spam)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]public.CommentResponse]
// @Security     BearerAuth
// @Router       /content/comments [get]
func (h *CommentHandler) ListComments(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "news_id", "parent_id", "status")
	items, total, err := h.service.ListComments(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// ModerateComment godoc
// @ID           moderateNewsComment
// @Summary      Moderate comment
// @Description  Approved comments appear on the article and count towards its comment total
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        id path string true "Comment ID" format(uuid)
// @Param        request body public.ModerateCommentRequest true "Decision"
// @Success      200 {object} APIResponse[public.CommentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/comments/{id}/moderate [post]
func (h *CommentHandler) ModerateComment(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req public.ModerateCommentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.ModerateComment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteComment godoc
// @ID           deleteNewsComment
// @Summary      Delete comment
// @Tags         content
// @Param        id path string true "Comment ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /content/comments/{id} [delete]
func (h *CommentHandler) DeleteComment(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteComment(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
