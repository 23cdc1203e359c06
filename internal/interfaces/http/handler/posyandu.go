package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/posyandu"
)

// PosyanduHandler handles posyandu locations, schedules and the per-location
// summary. Health, immunization and nutrition records use RegistryHandler.
type PosyanduHandler struct {
	BaseHandler
	service *posyandu.Service
}

// NewPosyanduHandler creates a new PosyanduHandler
func NewPosyanduHandler(service *posyandu.Service) *PosyanduHandler {
	return &PosyanduHandler{service: service}
}

// CreateLocation godoc
// @ID           createPosyanduLocation
// @Summary      Create posyandu location
// @Tags         posyandu
// @Accept       json
// @Produce      json
// @Param        request body posyandu.LocationRequest true "Location"
// @Success      201 {object} APIResponse[posyandu.LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/locations [post]
func (h *PosyanduHandler) CreateLocation(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req posyandu.LocationRequest
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
// @ID           listPosyanduLocations
// @Summary      List posyandu locations
// @Tags         posyandu
// @Produce      json
// @Param        search query string false "Name or address"
// @Param        is_active query bool false "Active only"
// @Param        coordinator_id query string false "Coordinator resident ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]posyandu.LocationResponse]
// @Security     BearerAuth
// @Router       /posyandu/locations [get]
func (h *PosyanduHandler) ListLocations(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "is_active", "coordinator_id")
	items, total, err := h.service.ListLocations(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetLocation godoc
// @ID           getPosyanduLocation
// @Summary      Get posyandu location
// @Tags         posyandu
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[posyandu.LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/locations/{id} [get]
func (h *PosyanduHandler) GetLocation(c *gin.Context) {
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
// @ID           updatePosyanduLocation
// @Summary      Update posyandu location
// @Tags         posyandu
// @Accept       json
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Param        request body posyandu.LocationRequest true "Location"
// @Success      200 {object} APIResponse[posyandu.LocationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/locations/{id} [put]
func (h *PosyanduHandler) UpdateLocation(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req posyandu.LocationRequest
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

// DeleteLocation godoc
// @ID           deletePosyanduLocation
// @Summary      Delete posyandu location
// @Description  Locations that still have schedules cannot be deleted
// @Tags         posyandu
// @Param        id path string true "Location ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/locations/{id} [delete]
func (h *PosyanduHandler) DeleteLocation(c *gin.Context) {
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

// LocationSummary godoc
// @ID           getPosyanduLocationSummary
// @Summary      Posyandu location summary
// @Description  Schedules held and visit, immunization and nutrition counts for one location
// @Tags         posyandu
// @Produce      json
// @Param        id path string true "Location ID" format(uuid)
// @Success      200 {object} APIResponse[posyandu.LocationSummaryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/locations/{id}/summary [get]
func (h *PosyanduHandler) LocationSummary(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.LocationSummary(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateSchedule godoc
// @ID           createPosyanduSchedule
// @Summary      Create posyandu schedule
// @Tags         posyandu
// @Accept       json
// @Produce      json
// @Param        request body posyandu.ScheduleRequest true "Schedule"
// @Success      201 {object} APIResponse[posyandu.ScheduleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/schedules [post]
func (h *PosyanduHandler) CreateSchedule(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req posyandu.ScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateSchedule(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListSchedules godoc
// @ID           listPosyanduSchedules
// @Summary      List posyandu schedules
// @Tags         posyandu
// @Produce      json
// @Param        location_id query string false "Location ID" format(uuid)
// @Param        activity_type query string false "Activity" Enums(pemeriksaan, imunisasi, penyuluhan, penimbangan, vitamin, lainnya)
// @Param        is_completed query bool false "Completed"
// @Param        from query string false "On or after (YYYY-MM-DD)"
// @Param        to query string false "On or before (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]posyandu.ScheduleResponse]
// @Security     BearerAuth
// @Router       /posyandu/schedules [get]
func (h *PosyanduHandler) ListSchedules(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, "location_id", "activity_type", "is_completed"), "schedule_date")
	if !ok {
		return
	}
	items, total, err := h.service.ListSchedules(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// UpcomingSchedules godoc
// @ID           listUpcomingPosyanduSchedules
// @Summary      Upcoming posyandu schedules
// @Description  Open schedules from today, soonest first
// @Tags         posyandu
// @Produce      json
// @Param        limit query int false "Maximum rows" default(10)
// @Success      200 {object} APIResponse[[]posyandu.ScheduleResponse]
// @Security     BearerAuth
// @Router       /posyandu/schedules/upcoming [get]
func (h *PosyanduHandler) UpcomingSchedules(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	items, err := h.service.Upcoming(c.Request.Context(), tenantID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// GetSchedule godoc
// @ID           getPosyanduSchedule
// @Summary      Get posyandu schedule
// @Tags         posyandu
// @Produce      json
// @Param        id path string true "Schedule ID" format(uuid)
// @Success      200 {object} APIResponse[posyandu.ScheduleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/schedules/{id} [get]
func (h *PosyanduHandler) GetSchedule(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.GetSchedule(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSchedule godoc
// @ID           updatePosyanduSchedule
// @Summary      Update posyandu schedule
// @Tags         posyandu
// @Accept       json
// @Produce      json
// @Param        id path string true "Schedule ID" format(uuid)
// @Param        request body posyandu.ScheduleRequest true "Schedule"
// @Success      200 {object} APIResponse[posyandu.ScheduleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/schedules/{id} [put]
func (h *PosyanduHandler) UpdateSchedule(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req posyandu.ScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateSchedule(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CompleteSchedule godoc
// @ID           completePosyanduSchedule
// @Summary      Complete posyandu schedule
// @Tags         posyandu
// @Accept       json
// @Produce      json
// @Param        id path string true "Schedule ID" format(uuid)
// @Param        request body posyandu.CompleteScheduleRequest true "Attendance"
// @Success      200 {object} APIResponse[posyandu.ScheduleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/schedules/{id}/complete [post]
func (h *PosyanduHandler) CompleteSchedule(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req posyandu.CompleteScheduleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CompleteSchedule(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteSchedule godoc
// @ID           deletePosyanduSchedule
// @Summary      Delete posyandu schedule
// @Tags         posyandu
// @Param        id path string true "Schedule ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /posyandu/schedules/{id} [delete]
func (h *PosyanduHandler) DeleteSchedule(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteSchedule(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
