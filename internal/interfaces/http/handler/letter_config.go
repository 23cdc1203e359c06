package handler

import (
	"github.com/gin-gonic/gin"
	letterapp "github.com/pulosarok/desa/internal/application/letter"
)

// LetterConfigHandler manages letter types, templates and numbering settings
type LetterConfigHandler struct {
	BaseHandler
	typeService     *letterapp.LetterTypeService
	templateService *letterapp.TemplateService
	settingsService *letterapp.SettingsService
}

// NewLetterConfigHandler creates a new LetterConfigHandler
func NewLetterConfigHandler(
	typeService *letterapp.LetterTypeService,
	templateService *letterapp.TemplateService,
	settingsService *letterapp.SettingsService,
) *LetterConfigHandler {
	return &LetterConfigHandler{
		typeService:     typeService,
		templateService: templateService,
		settingsService: settingsService,
	}
}

// CreateType godoc
// @ID           createLetterType
// @Summary      Create letter type
// @Tags         letter-types
// @Accept       json
// @Produce      json
// @Param        request body letterapp.LetterTypeRequest true "Letter type"
// @Success      201 {object} APIResponse[letterapp.LetterTypeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-types [post]
func (h *LetterConfigHandler) CreateType(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req letterapp.LetterTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lt, err := h.typeService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lt)
}

// ListTypes godoc
// @ID           listLetterTypes
// @Summary      List letter types
// @Tags         letter-types
// @Produce      json
// @Param        search query string false "Code or name"
// @Param        is_active query bool false "Active only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]letterapp.LetterTypeResponse]
// @Security     BearerAuth
// @Router       /letter-types [get]
func (h *LetterConfigHandler) ListTypes(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "is_active")
	items, total, err := h.typeService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetType godoc
// @ID           getLetterType
// @Summary      Get letter type
// @Tags         letter-types
// @Produce      json
// @Param        id path string true "Letter type ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.LetterTypeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-types/{id} [get]
func (h *LetterConfigHandler) GetType(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	lt, err := h.typeService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lt)
}

// UpdateType godoc
// @ID           updateLetterType
// @Summary      Update letter type
// @Tags         letter-types
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter type ID" format(uuid)
// @Param        request body letterapp.LetterTypeRequest true "Letter type"
// @Success      200 {object} APIResponse[letterapp.LetterTypeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-types/{id} [put]
func (h *LetterConfigHandler) UpdateType(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.LetterTypeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lt, err := h.typeService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lt)
}

// DeleteType godoc
// @ID           deleteLetterType
// @Summary      Delete letter type
// @Description  Types that are referenced by letters cannot be deleted
// @Tags         letter-types
// @Param        id path string true "Letter type ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-types/{id} [delete]
func (h *LetterConfigHandler) DeleteType(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.typeService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateTemplate godoc
// @ID           createLetterTemplate
// @Summary      Create letter template
// @Description  Templates use {{variable}} placeholders
// @Tags         letter-templates
// @Accept       json
// @Produce      json
// @Param        request body letterapp.TemplateRequest true "Template"
// @Success      201 {object} APIResponse[letterapp.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-templates [post]
func (h *LetterConfigHandler) CreateTemplate(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req letterapp.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tpl, err := h.templateService.Create(c.Request.Context(), tenantID, getActor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tpl)
}

// ListTemplates godoc
// @ID           listLetterTemplates
// @Summary      List letter templates
// @Tags         letter-templates
// @Produce      json
// @Param        search query string false "Name"
// @Param        template_type query string false "Template type"
// @Param        letter_type_id query string false "Letter type ID" format(uuid)
// @Param        is_default query bool false "Default templates only"
// @Param        is_active query bool false "Active templates only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]letterapp.TemplateResponse]
// @Security     BearerAuth
// @Router       /letter-templates [get]
func (h *LetterConfigHandler) ListTemplates(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "template_type", "letter_type_id", "is_default", "is_active")
	items, total, err := h.templateService.List(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetTemplate godoc
// @ID           getLetterTemplate
// @Summary      Get letter template
// @Tags         letter-templates
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Success      200 {object} APIResponse[letterapp.TemplateResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-templates/{id} [get]
func (h *LetterConfigHandler) GetTemplate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	tpl, err := h.templateService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}

// UpdateTemplate godoc
// @ID           updateLetterTemplate
// @Summary      Update letter template
// @Tags         letter-templates
// @Accept       json
// @Produce      json
// @Param        id path string true "Template ID" format(uuid)
// @Param        request body letterapp.TemplateRequest true "Template"
// @Success      200 {object} APIResponse[letterapp.TemplateResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-templates/{id} [put]
func (h *LetterConfigHandler) UpdateTemplate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.TemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tpl, err := h.templateService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tpl)
}

// DeleteTemplate godoc
// @ID           deleteLetterTemplate
// @Summary      Delete letter template
// @Tags         letter-templates
// @Param        id path string true "Template ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-templates/{id} [delete]
func (h *LetterConfigHandler) DeleteTemplate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.templateService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ApplyTemplate godoc
// @ID           applyLetterTemplate
// @Summary      Apply template to letter
// @Description  Render the template with the given variables into the letter body
// @Tags         letters
// @Accept       json
// @Produce      json
// @Param        id path string true "Letter ID" format(uuid)
// @Param        request body letterapp.ApplyTemplateRequest true "Template and variables"
// @Success      200 {object} APIResponse[letterapp.LetterResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letters/{id}/apply-template [post]
func (h *LetterConfigHandler) ApplyTemplate(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req letterapp.ApplyTemplateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	letter, err := h.templateService.Apply(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, letter)
}

// GetSettings godoc
// @ID           getLetterSettings
// @Summary      Letter settings
// @Description  Return the village letterhead, numbering and AI settings. Defaults are created on first read.
// @Tags         letter-settings
// @Produce      json
// @Success      200 {object} APIResponse[letterapp.SettingsResponse]
// @Security     BearerAuth
// @Router       /letter-settings [get]
func (h *LetterConfigHandler) GetSettings(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	settings, err := h.settingsService.Get(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}

// UpdateSettings godoc
// @ID           updateLetterSettings
// @Summary      Update letter settings
// @Tags         letter-settings
// @Accept       json
// @Produce      json
// @Param        request body letterapp.UpdateSettingsRequest true "Changes"
// @Success      200 {object} APIResponse[letterapp.SettingsResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /letter-settings [put]
func (h *LetterConfigHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req letterapp.UpdateSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	settings, err := h.settingsService.Update(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, settings)
}
