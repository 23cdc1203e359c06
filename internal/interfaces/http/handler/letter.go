package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	letterapp "github.com/pulosarok/desa/internal/application/letter"
	"github.com/pulosarok/desa/internal/interfaces/http/middleware"
)

// LetterHandler handles letter CRUD, the approval workflow and the history
type LetterHandler struct {
	BaseHandler
	letterService *letterapp.LetterService
}

// NewLetterHandler creates a new LetterHandler
func NewLetterHandler(letterService *letterapp.LetterService) *LetterHandler {
	return &LetterHandler{letterService: letterService}
}

// Create godoc
// @ID           createLetter
// @Summary      Create letter
// @Description  Create a draft letter. Content is rendered from the template when template_id is given and content is empty.
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        request body letterapp.CreateLetterRequest true "Letter"
// @Success      201 {object} APIResponse[letterapp.LetterResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters [post]
func (h *LetterHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req letterapp.CreateLetterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	letter, err := h.letterService.Create(c.Request.Context(), tenantID, getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, letter)
}

// List godoc
// @ID           listLetters
// @Summary      List letters
// @Tags         letters
// @Produce      json
// @Param        search query string false "Subject, number or public code"
// @Param        status query string false "Status" Enums(draft, submitted, in_review, approved, rejected, completed, cancelled)
// @Param        priority query string false "Priority" Enums(low, normal, high, urgent)
// @Param        letter_type_id query string false "Letter type ID" format(uuid)
// @Param        applicant_id query string false "Applicant ID" format(uuid)
// @Param        from query string false "Submitted on or after (YYYY-MM-DD)"
// @Param        to query string false "Submitted on or before (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Param        order_by query string false "Sort column"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]letterapp.LetterResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters [get]
func (h *LetterHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req letterapp.ListLettersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	f := req.Filter()
	letters, total, err := h.letterService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, letters, total, f)
}

// Get godoc
// @ID           getLetter
// @Summary      Get letter
// @Tags         letters
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id} [get]
func (h *LetterHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	letter, err := h.letterService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, letter)
}

// Update godoc
// @ID           updateLetter
// @Summary      Update letter
// @Description  Letters can be edited until they are approved, rejected or cancelled
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        request body letterapp.UpdateLetterRequest true "Changes"
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id} [put]
func (h *LetterHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.UpdateLetterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	letter, err := h.letterService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, letter)
}

// Delete godoc
// @ID           deleteLetter
// @Summary      Delete letter
// @Description  Only drafts can be deleted
// @Tags         letters
// @Param        id path string true "Letter ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id} [delete]
func (h *LetterHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.letterService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats godoc
// @ID           getLetterStats
// @Summary      Letter statistics
// @Tags         letters
// @Produce      json
// @Success      200 {object} APIResponse[letterapp.StatsResponse]
// @Security     BearerAuth
// @Router       /letters/stats [get]
func (h *LetterHandler) Stats(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	stats, err := h.letterService.Stats(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// Submit godoc
// @ID           submitLetter
// @Summary      Submit letter
// @Description  Send a draft for review. The letter number is assigned here.
// @Tags         letters
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/submit [post]
func (h *LetterHandler) Submit(c *gin.Context) {
	h.transition(c, h.letterService.Submit)
}

// StartReview godoc
// @ID           reviewLetter
// @Summary      Start review
// @Tags         letters
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/review [post]
func (h *LetterHandler) StartReview(c *gin.Context) {
	h.transition(c, h.letterService.StartReview)
}

// Approve godoc
// @ID           approveLetter
// @Summary      Approve letter
// @Description  Requires the kepala_desa or admin role. Letters that require AI validation must have a passing run.
// @Tags         letters
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/approve [post]
func (h *LetterHandler) Approve(c *gin.Context) {
	h.transition(c, h.letterService.Approve)
}

// Complete godoc
// @ID           completeLetter
// @Summary      Complete letter
// @Tags         letters
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/complete [post]
func (h *LetterHandler) Complete(c *gin.Context) {
	h.transition(c, h.letterService.Complete)
}

// Reject godoc
// @ID           rejectLetter
// @Summary      Reject letter
// @Description  Requires the kepala_desa or admin role
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        request body letterapp.TransitionRequest false "Reason"
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/reject [post]
func (h *LetterHandler) Reject(c *gin.Context) {
	h.transitionWithReason(c, h.letterService.Reject)
}

// Cancel godoc
// @ID           cancelLetter
// @Summary      Cancel letter
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        request body letterapp.TransitionRequest false "Reason"
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/cancel [post]
func (h *LetterHandler) Cancel(c *gin.Context) {
	h.transitionWithReason(c, h.letterService.Cancel)
}

// Timeline godoc
// @ID           getLetterTimeline
// @Summary      Letter history
// @Tags         letters
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Success      200 {object} APIResponse[[]letterapp.TrackingResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/tracking [get]
func (h *LetterHandler) Timeline(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	rows, err := h.letterService.Timeline(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// AddTracking godoc
// @ID           addLetterTracking
// @Summary      Record a history entry
// @Description  Record a manual step such as sent or received
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        request body letterapp.TrackingRequest true "Entry"
// @Success      201 {object} APIResponse[letterapp.TrackingResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/tracking [post]
func (h *LetterHandler) AddTracking(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.TrackingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	row, err := h.letterService.AddTracking(c.Request.Context(), tenantID, id, getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, row)
}

type transitionFunc func(ctx context.Context, tenantID, id uuid.UUID, actor letterapp.Actor) (*letterapp.LetterResponse, error)

type reasonTransitionFunc func(ctx context.Context, tenantID, id uuid.UUID, actor letterapp.Actor, reason string) (*letterapp.LetterResponse, error)

func (h *LetterHandler) transition(c *gin.Context, fn transitionFunc) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	letter, err := fn(c.Request.Context(), tenantID, id, getActor(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, letter)
}

func (h *LetterHandler) transitionWithReason(c *gin.Context, fn reasonTransitionFunc) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.TransitionRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	letter, err := fn(c.Request.Context(), tenantID, id, getActor(c), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, letter)
}

// tenantAndID resolves the village and the :id path parameter
func (h *BaseHandler) tenantAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, id, true
}
