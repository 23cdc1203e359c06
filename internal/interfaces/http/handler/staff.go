package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/identity"
)

// StaffHandler manages the staff accounts of a village
type StaffHandler struct {
	BaseHandler
	staffService  *identity.StaffService
	tenantService *identity.TenantService
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffService *identity.StaffService, tenantService *identity.TenantService) *StaffHandler {
	return &StaffHandler{
		staffService:  staffService,
		tenantService: tenantService,
	}
}

// Create godoc
// @ID           createStaff
// @Summary      Create staff account
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        request body identity.CreateStaffRequest true "Staff account"
// @Success      201 {object} APIResponse[identity.StaffResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req identity.CreateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}

	staff, err := h.staffService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, staff)
}

// List godoc
// @ID           listStaff
// @Summary      List staff accounts
// @Tags         staff
// @Produce      json
// @Param        search query string false "Username, name or email"
// @Param        role query string false "Role" Enums(admin, operator, kepala_desa, kader)
// @Param        status query string false "Status" Enums(active, inactive, locked)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]identity.StaffResponse]
// @Security     BearerAuth
// @Router       /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "role", "status")
	items, total, err := h.staffService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// Get godoc
// @ID           getStaff
// @Summary      Get staff account
// @Tags         staff
// @Produce      json
// @Param        id path string true "Staff ID" format(uuid)
// @Success      200 {object} APIResponse[identity.StaffResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff/{id} [get]
func (h *StaffHandler) Get(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	staff, err := h.staffService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, staff)
}

// Update godoc
// @ID           updateStaff
// @Summary      Update staff account
// @Tags         staff
// @Accept       json
// @Produce      json
// @Param        id path string true "Staff ID" format(uuid)
// @Param        request body identity.UpdateStaffRequest true "Changes"
// @Success      200 {object} APIResponse[identity.StaffResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff/{id} [put]
func (h *StaffHandler) Update(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req identity.UpdateStaffRequest
	if !h.bindJSON(c, &req) {
		return
	}
	staff, err := h.staffService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, staff)
}

// Deactivate godoc
// @ID           deactivateStaff
// @Summary      Deactivate staff account
// @Tags         staff
// @Param        id path string true "Staff ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff/{id}/deactivate [post]
func (h *StaffHandler) Deactivate(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	actorID, ok := h.requireUser(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.staffService.Deactivate(c.Request.Context(), tenantID, id, actorID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateStaff
// @Summary      Activate staff account
// @Description  Re-enable an account and clear any login lock
// @Tags         staff
// @Param        id path string true "Staff ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /staff/{id}/activate [post]
func (h *StaffHandler) Activate(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.staffService.Activate(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CurrentVillage godoc
// @ID           getCurrentVillage
// @Summary      Current village
// @Description  Return the village of the authenticated staff member
// @Tags         staff
// @Produce      json
// @Success      200 {object} APIResponse[identity.TenantResponse]
// @Security     BearerAuth
// @Router       /village [get]
func (h *StaffHandler) CurrentVillage(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	village, err := h.tenantService.GetByID(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, village)
}
