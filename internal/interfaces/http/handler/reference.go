package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/reference"
)

// ReferenceHandler serves dusun, lorong and resident master data
type ReferenceHandler struct {
	BaseHandler
	service *reference.Service
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(service *reference.Service) *ReferenceHandler {
	return &ReferenceHandler{service: service}
}

// CreateDusun godoc
// @ID           createDusun
// @Summary      Create dusun
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        request body reference.DusunRequest true "Dusun"
// @Success      201 {object} APIResponse[reference.DusunResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/dusun [post]
func (h *ReferenceHandler) CreateDusun(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req reference.DusunRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateDusun(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateDusun godoc
// @ID           updateDusun
// @Summary      Update dusun
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        id path string true "Dusun ID" format(uuid)
// @Param        request body reference.DusunRequest true "Dusun"
// @Success      200 {object} APIResponse[reference.DusunResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/dusun/{id} [put]
func (h *ReferenceHandler) UpdateDusun(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req reference.DusunRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateDusun(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetDusun godoc
// @ID           getDusun
// @Summary      Get dusun
// @Tags         reference
// @Produce      json
// @Param        id path string true "Dusun ID" format(uuid)
// @Success      200 {object} APIResponse[reference.DusunResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/dusun/{id} [get]
func (h *ReferenceHandler) GetDusun(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetDusun(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListDusun godoc
// @ID           listDusun
// @Summary      List dusun
// @Tags         reference
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]reference.DusunResponse]
// @Security     BearerAuth
// @Router       /reference/dusun [get]
func (h *ReferenceHandler) ListDusun(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "is_active")
	items, total, err := h.service.ListDusun(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// DeleteDusun godoc
// @ID           deleteDusun
// @Summary      Delete dusun
// @Description  A dusun that still has residents cannot be deleted
// @Tags         reference
// @Param        id path string true "Dusun ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/dusun/{id} [delete]
func (h *ReferenceHandler) DeleteDusun(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteDusun(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateLorong godoc
// @ID           createLorong
// @Summary      Create lorong
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        request body reference.LorongRequest true "Lorong"
// @Success      201 {object} APIResponse[reference.LorongResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/lorong [post]
func (h *ReferenceHandler) CreateLorong(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req reference.LorongRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreateLorong(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdateLorong godoc
// @ID           updateLorong
// @Summary      Update lorong
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        id path string true "Lorong ID" format(uuid)
// @Param        request body reference.LorongRequest true "Lorong"
// @Success      200 {object} APIResponse[reference.LorongResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/lorong/{id} [put]
func (h *ReferenceHandler) UpdateLorong(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req reference.LorongRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdateLorong(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetLorong godoc
// @ID           getLorong
// @Summary      Get lorong
// @Tags         reference
// @Produce      json
// @Param        id path string true "Lorong ID" format(uuid)
// @Success      200 {object} APIResponse[reference.LorongResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/lorong/{id} [get]
func (h *ReferenceHandler) GetLorong(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetLorong(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListLorong godoc
// @ID           listLorong
// @Summary      List lorong
// @Tags         reference
// @Produce      json
// @Param        dusun_id query string false "Dusun ID" format(uuid)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]reference.LorongResponse]
// @Security     BearerAuth
// @Router       /reference/lorong [get]
func (h *ReferenceHandler) ListLorong(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "dusun_id", "is_active")
	items, total, err := h.service.ListLorong(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// DeleteLorong godoc
// @ID           deleteLorong
// @Summary      Delete lorong
// @Tags         reference
// @Param        id path string true "Lorong ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/lorong/{id} [delete]
func (h *ReferenceHandler) DeleteLorong(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteLorong(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreatePenduduk godoc
// @ID           createPenduduk
// @Summary      Register resident
// @Description  NIK must be 16 digits and unique within the village
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        request body reference.PendudukRequest true "Resident"
// @Success      201 {object} APIResponse[reference.PendudukResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/penduduk [post]
func (h *ReferenceHandler) CreatePenduduk(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req reference.PendudukRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.CreatePenduduk(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// UpdatePenduduk godoc
// @ID           updatePenduduk
// @Summary      Update resident
// @Tags         reference
// @Accept       json
// @Produce      json
// @Param        id path string true "Resident ID" format(uuid)
// @Param        request body reference.PendudukRequest true "Resident"
// @Success      200 {object} APIResponse[reference.PendudukResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/penduduk/{id} [put]
func (h *ReferenceHandler) UpdatePenduduk(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	var req reference.PendudukRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.service.UpdatePenduduk(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetPenduduk godoc
// @ID           getPenduduk
// @Summary      Get resident
// @Tags         reference
// @Produce      json
// @Param        id path string true "Resident ID" format(uuid)
// @Success      200 {object} APIResponse[reference.PendudukResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/penduduk/{id} [get]
func (h *ReferenceHandler) GetPenduduk(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.service.GetPenduduk(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// FindPendudukByNIK godoc
// @ID           findPendudukByNik
// @Summary      Find resident by NIK
// @Tags         reference
// @Produce      json
// @Param        nik path string true "16 digit NIK"
// @Success      200 {object} APIResponse[reference.PendudukResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/penduduk/nik/{nik} [get]
func (h *ReferenceHandler) FindPendudukByNIK(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.service.FindByNIK(c.Request.Context(), tenantID, c.Param("nik"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPenduduk godoc
// @ID           listPenduduk
// @Summary      List residents
// @Tags         reference
// @Produce      json
// @Param        search query string false "NIK or name"
// @Param        dusun_id query string false "Dusun ID" format(uuid)
// @Param        lorong_id query string false "Lorong ID" format(uuid)
// @Param        gender query string false "Gender" Enums(L, P)
// @Param        marital_status query string false "Marital status"
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]reference.PendudukResponse]
// @Security     BearerAuth
// @Router       /reference/penduduk [get]
func (h *ReferenceHandler) ListPenduduk(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "dusun_id", "lorong_id", "gender", "marital_status", "is_active")
	items, total, err := h.service.ListPenduduk(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// DeletePenduduk godoc
// @ID           deletePenduduk
// @Summary      Delete resident
// @Tags         reference
// @Param        id path string true "Resident ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reference/penduduk/{id} [delete]
func (h *ReferenceHandler) DeletePenduduk(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	id, ok := h.paramUUID(c, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePenduduk(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PopulationStats godoc
// @ID           getPopulationStats
// @Summary      Population statistics
// @Tags         reference
// @Produce      json
// @Success      200 {object} APIResponse[reference.PopulationStatsResponse]
// @Security     BearerAuth
// @Router       /reference/penduduk/stats [get]
func (h *ReferenceHandler) PopulationStats(c *gin.Context) {
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
