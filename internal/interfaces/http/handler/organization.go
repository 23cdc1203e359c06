package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/organization"
)

// OrganizationHandler serves the organization actions that sit outside the
// plain registers. Types, organizations, periods, members and activities use
// RegistryHandler.
type OrganizationHandler struct {
	BaseHandler
	service *organization.Service
}

// NewOrganizationHandler creates a new OrganizationHandler
func NewOrganizationHandler(service *organization.Service) *OrganizationHandler {
	return &OrganizationHandler{service: service}
}

// ActivatePeriod godoc
// @ID           activateOrganizationPeriod
// @Summary      Activate board period
// @Description  The previously active period of the same organization is deactivated
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Period ID" format(uuid)
// @Success      200 {object} APIResponse[organization.PeriodResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/periods/{id}/activate [post]
func (h *OrganizationHandler) ActivatePeriod(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.ActivatePeriod(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CompleteActivity godoc
// @ID           completeOrganizationActivity
// @Summary      Complete activity
// @Tags         organizations
// @Accept       json
// @Produce      json
// @Param        id path string true "Activity ID" format(uuid)
// @Param        request body organization.CompleteActivityRequest true "Outcome"
// @Success      200 {object} APIResponse[organization.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/activities/{id}/complete [post]
func (h *OrganizationHandler) CompleteActivity(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req organization.CompleteActivityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CompleteActivity(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Overview godoc
// @ID           getOrganizationOverview
// @Summary      Organization overview
// @Description  Active period, member counts by position and activity counts
// @Tags         organizations
// @Produce      json
// @Param        id path string true "Organization ID" format(uuid)
// @Success      200 {object} APIResponse[organization.OverviewResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /organizations/{id}/overview [get]
func (h *OrganizationHandler) Overview(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.service.Overview(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
