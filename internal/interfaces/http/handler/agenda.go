package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pulosarok/desa/internal/application/agenda"
)

// AgendaHandler handles village events and their registrations. Event
// categories use RegistryHandler.
type AgendaHandler struct {
	BaseHandler
	service *agenda.Service
}

// NewAgendaHandler creates a new AgendaHandler
func NewAgendaHandler(service *agenda.Service) *AgendaHandler {
	return &AgendaHandler{service: service}
}

// CreateEvent godoc
// @ID           createAgendaEvent
// @Summary      Create event
// @Description  New events start as drafts. The slug is derived from the title.
// @Tags         agenda
// @Accept       json
// @Produce      json
// @Param        request body agenda.EventRequest true "Event"
// @Success      201 {object} APIResponse[agenda.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events [post]
func (h *AgendaHandler) CreateEvent(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req agenda.EventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateEvent(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListEvents godoc
// @ID           listAgendaEvents
// @Summary      List events
// @Tags         agenda
// @Produce      json
// @Param        search query string false "Title, summary or location"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        status query string false "Status"
// @Param        priority query string false "Priority"
// @Param        is_featured query bool false "Featured only"
// @Param        from query string false "Start date from (YYYY-MM-DD)"
// @Param        to query string false "Start date to (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]agenda.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events [get]
func (h *AgendaHandler) ListEvents(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, "category_id", "status", "priority", "is_featured", "allow_registration", "is_free"), "start_date")
	if !ok {
		return
	}
	items, total, err := h.service.ListEvents(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetEvent godoc
// @ID           getAgendaEvent
// @Summary      Get event
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.EventResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events/{id} [get]
func (h *AgendaHandler) GetEvent(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetEvent(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateEvent godoc
// @ID           updateAgendaEvent
// @Summary      Update event
// @Tags         agenda
// @Accept       json
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Param        request body agenda.EventRequest true "Event"
// @Success      200 {object} APIResponse[agenda.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events/{id} [put]
func (h *AgendaHandler) UpdateEvent(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req agenda.EventRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateEvent(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteEvent godoc
// @ID           deleteAgendaEvent
// @Summary      Delete event
// @Description  Events with registrations cannot be deleted; cancel them instead
// @Tags         agenda
// @Param        id path string true "Event ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events/{id} [delete]
func (h *AgendaHandler) DeleteEvent(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteEvent(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PublishEvent godoc
// @ID           publishAgendaEvent
// @Summary      Publish event
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.EventResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events/{id}/publish [post]
func (h *AgendaHandler) PublishEvent(c *gin.Context) {
	h.eventAction(c, h.service.PublishEvent)
}

// StartEvent godoc
// @ID           startAgendaEvent
// @Summary      Start event
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.EventResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events/{id}/start [post]
func (h *AgendaHandler) StartEvent(c *gin.Context) {
	h.eventAction(c, h.service.StartEvent)
}

// CompleteEvent godoc
// @ID           completeAgendaEvent
// @Summary      Complete event
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.EventResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events/{id}/complete [post]
func (h *AgendaHandler) CompleteEvent(c *gin.Context) {
	h.eventAction(c, h.service.CompleteEvent)
}

// CancelEvent godoc
// @ID           cancelAgendaEvent
// @Summary      Cancel event
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.EventResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events/{id}/cancel [post]
func (h *AgendaHandler) CancelEvent(c *gin.Context) {
	h.eventAction(c, h.service.CancelEvent)
}

func (h *AgendaHandler) eventAction(c *gin.Context, action func(context.Context, uuid.UUID, uuid.UUID) (*agenda.EventResponse, error)) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := action(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Register godoc
// @ID           registerAgendaParticipant
// @Summary      Register resident
// @Description  Takes a seat when the event has a limit. A cancelled registration is reopened.
// @Tags         agenda
// @Accept       json
// @Produce      json
// @Param        id path string true "Event ID" format(uuid)
// @Param        request body agenda.RegisterRequest true "Registration"
// @Success      201 {object} APIResponse[agenda.ParticipantResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/events/{id}/participants [post]
func (h *AgendaHandler) Register(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req agenda.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.Register(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListParticipants godoc
// @ID           listAgendaParticipants
// @Summary      List registrations
// @Tags         agenda
// @Produce      json
// @Param        event_id query string false "Event ID" format(uuid)
// @Param        penduduk_id query string false "Resident ID" format(uuid)
// @Param        status query string false "Status"
// @Param        registration_source query string false "Source"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]agenda.ParticipantResponse]
// @Security     BearerAuth
// @Router       /agenda/participants [get]
func (h *AgendaHandler) ListParticipants(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "event_id", "penduduk_id", "status", "registration_source")
	items, total, err := h.service.ListParticipants(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// CancelRegistration godoc
// @ID           cancelAgendaParticipant
// @Summary      Cancel registration
// @Description  Frees the seat
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.ParticipantResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/participants/{id}/cancel [post]
func (h *AgendaHandler) CancelRegistration(c *gin.Context) {
	h.participantAction(c, h.service.CancelRegistration)
}

// ConfirmParticipant godoc
// @ID           confirmAgendaParticipant
// @Summary      Confirm registration
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.ParticipantResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/participants/{id}/confirm [post]
func (h *AgendaHandler) ConfirmParticipant(c *gin.Context) {
	h.participantAction(c, h.service.ConfirmParticipant)
}

// CheckIn godoc
// @ID           checkInAgendaParticipant
// @Summary      Check in participant
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.ParticipantResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/participants/{id}/check-in [post]
func (h *AgendaHandler) CheckIn(c *gin.Context) {
	h.participantAction(c, h.service.CheckIn)
}

// MarkAbsent godoc
// @ID           markAgendaParticipantAbsent
// @Summary      Mark participant absent
// @Tags         agenda
// @Produce      json
// @Param        id path string true "Registration ID" format(uuid)
// @Success      200 {object} APIResponse[agenda.ParticipantResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /agenda/participants/{id}/absent [post]
func (h *AgendaHandler) MarkAbsent(c *gin.Context) {
	h.participantAction(c, h.service.MarkAbsent)
}

func (h *AgendaHandler) participantAction(c *gin.Context, action func(context.Context, uuid.UUID, uuid.UUID) (*agenda.ParticipantResponse, error)) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := action(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Stats godoc
// @ID           getAgendaStats
// @Summary      Agenda statistics
// @Description  Events by status and registrations by attendance
// @Tags         agenda
// @Produce      json
// @Success      200 {object} APIResponse[agenda.StatsResponse]
// @Security     BearerAuth
// @Router       /agenda/stats [get]
func (h *AgendaHandler) Stats(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.service.Stats(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
