package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/beneficiary"
)

// BeneficiaryHandler handles the social aid register: categories,
// beneficiaries, field verifications, aid programs and distributions
type BeneficiaryHandler struct {
	BaseHandler
	registry *beneficiary.RegistryService
	aid      *beneficiary.AidService
}

// NewBeneficiaryHandler creates a new BeneficiaryHandler
func NewBeneficiaryHandler(registry *beneficiary.RegistryService, aid *beneficiary.AidService) *BeneficiaryHandler {
	return &BeneficiaryHandler{registry: registry, aid: aid}
}

// CreateCategory godoc
// @ID           createBeneficiaryCategory
// @Summary      Create beneficiary category
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Param        request body beneficiary.CategoryRequest true "Category"
// @Success      201 {object} APIResponse[beneficiary.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiary-categories [post]
func (h *BeneficiaryHandler) CreateCategory(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req beneficiary.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.registry.CreateCategory(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListCategories godoc
// @ID           listBeneficiaryCategories
// @Summary      List beneficiary categories
// @Tags         beneficiaries
// @Produce      json
// @Param        is_active query bool false "Active only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]beneficiary.CategoryResponse]
// @Security     BearerAuth
// @Router       /beneficiary-categories [get]
func (h *BeneficiaryHandler) ListCategories(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "is_active")
	items, total, err := h.registry.ListCategories(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetCategory godoc
// @ID           getBeneficiaryCategory
// @Summary      Get beneficiary category
// @Tags         beneficiaries
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Success      200 {object} APIResponse[beneficiary.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiary-categories/{id} [get]
func (h *BeneficiaryHandler) GetCategory(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.registry.GetCategory(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateCategory godoc
// @ID           updateBeneficiaryCategory
// @Summary      Update beneficiary category
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID" format(uuid)
// @Param        request body beneficiary.CategoryRequest true "Category"
// @Success      200 {object} APIResponse[beneficiary.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiary-categories/{id} [put]
func (h *BeneficiaryHandler) UpdateCategory(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req beneficiary.CategoryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.registry.UpdateCategory(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteCategory godoc
// @ID           deleteBeneficiaryCategory
// @Summary      Delete beneficiary category
// @Tags         beneficiaries
// @Param        id path string true "Category ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiary-categories/{id} [delete]
func (h *BeneficiaryHandler) DeleteCategory(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.registry.DeleteCategory(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Enroll godoc
// @ID           enrollBeneficiary
// @Summary      Enroll beneficiary
// @Description  Register a resident in an aid category. A resident holds at most one active record per category.
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Param        request body beneficiary.BeneficiaryRequest true "Beneficiary"
// @Success      201 {object} APIResponse[beneficiary.BeneficiaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiaries [post]
func (h *BeneficiaryHandler) Enroll(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req beneficiary.BeneficiaryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.registry.Enroll(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListBeneficiaries godoc
// @ID           listBeneficiaries
// @Summary      List beneficiaries
// @Tags         beneficiaries
// @Produce      json
// @Param        penduduk_id query string false "Resident ID" format(uuid)
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        status query string false "Status" Enums(aktif, tidak_aktif, lulus, meninggal, pindah)
// @Param        economic_status query string false "Economic status" Enums(miskin, sangat_miskin, rentan_miskin, tidak_miskin)
// @Param        from query string false "Registered on or after (YYYY-MM-DD)"
// @Param        to query string false "Registered on or before (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]beneficiary.BeneficiaryResponse]
// @Security     BearerAuth
// @Router       /beneficiaries [get]
func (h *BeneficiaryHandler) ListBeneficiaries(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, "penduduk_id", "category_id", "status", "economic_status"), "registration_date")
	if !ok {
		return
	}
	items, total, err := h.registry.ListBeneficiaries(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetBeneficiary godoc
// @ID           getBeneficiary
// @Summary      Get beneficiary
// @Tags         beneficiaries
// @Produce      json
// @Param        id path string true "Beneficiary ID" format(uuid)
// @Success      200 {object} APIResponse[beneficiary.BeneficiaryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiaries/{id} [get]
func (h *BeneficiaryHandler) GetBeneficiary(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.registry.GetBeneficiary(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateBeneficiary godoc
// @ID           updateBeneficiary
// @Summary      Update beneficiary
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Param        id path string true "Beneficiary ID" format(uuid)
// @Param        request body beneficiary.BeneficiaryRequest true "Beneficiary"
// @Success      200 {object} APIResponse[beneficiary.BeneficiaryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiaries/{id} [put]
func (h *BeneficiaryHandler) UpdateBeneficiary(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req beneficiary.BeneficiaryRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.registry.UpdateBeneficiary(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteBeneficiary godoc
// @ID           deleteBeneficiary
// @Summary      Delete beneficiary
// @Tags         beneficiaries
// @Param        id path string true "Beneficiary ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiaries/{id} [delete]
func (h *BeneficiaryHandler) DeleteBeneficiary(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.registry.DeleteBeneficiary(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Verify godoc
// @ID           verifyBeneficiary
// @Summary      Record verification
// @Description  Record a field verification. A verified outcome stamps the beneficiary's verification date.
// @Tags         beneficiaries
// @Accept       json
// @Produce      json
// @Param        id path string true "Beneficiary ID" format(uuid)
// @Param        request body beneficiary.VerificationRequest true "Verification"
// @Success      201 {object} APIResponse[beneficiary.VerificationResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /beneficiaries/{id}/verifications [post]
func (h *BeneficiaryHandler) Verify(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	verifier, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req beneficiary.VerificationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.registry.Verify(c.Request.Context(), tenantID, id, verifier, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListVerifications godoc
// @ID           listBeneficiaryVerifications
// @Summary      List verifications
// @Tags         beneficiaries
// @Produce      json
// @Param        beneficiary_id query string false "Beneficiary ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, verified, rejected, need_update)
// @Param        from query string false "Verified on or after (YYYY-MM-DD)"
// @Param        to query string false "Verified on or before (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]beneficiary.VerificationResponse]
// @Security     BearerAuth
// @Router       /beneficiary-verifications [get]
func (h *BeneficiaryHandler) ListVerifications(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, "beneficiary_id", "status"), "verification_date")
	if !ok {
		return
	}
	items, total, err := h.registry.ListVerifications(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// CreateProgram godoc
// @ID           createAidProgram
// @Summary      Create aid program
// @Tags         aid
// @Accept       json
// @Produce      json
// @Param        request body beneficiary.ProgramRequest true "Program"
// @Success      201 {object} APIResponse[beneficiary.ProgramResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-programs [post]
func (h *BeneficiaryHandler) CreateProgram(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req beneficiary.ProgramRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.aid.CreateProgram(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListPrograms godoc
// @ID           listAidPrograms
// @Summary      List aid programs
// @Tags         aid
// @Produce      json
// @Param        search query string false "Program name"
// @Param        aid_type query string false "Aid type" Enums(uang, sembako, kesehatan, pendidikan, perumahan, usaha, lainnya)
// @Param        source query string false "Funding source" Enums(pusat, provinsi, kabupaten, desa, swasta, lsm, lainnya)
// @Param        is_active query bool false "Active only"
// @Param        from query string false "Starting on or after (YYYY-MM-DD)"
// @Param        to query string false "Starting on or before (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]beneficiary.ProgramResponse]
// @Security     BearerAuth
// @Router       /aid-programs [get]
func (h *BeneficiaryHandler) ListPrograms(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, "aid_type", "source", "is_active"), "start_date")
	if !ok {
		return
	}
	items, total, err := h.aid.ListPrograms(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetProgram godoc
// @ID           getAidProgram
// @Summary      Get aid program
// @Tags         aid
// @Produce      json
// @Param        id path string true "Program ID" format(uuid)
// @Success      200 {object} APIResponse[beneficiary.ProgramResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-programs/{id} [get]
func (h *BeneficiaryHandler) GetProgram(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.aid.GetProgram(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProgram godoc
// @ID           updateAidProgram
// @Summary      Update aid program
// @Tags         aid
// @Accept       json
// @Produce      json
// @Param        id path string true "Program ID" format(uuid)
// @Param        request body beneficiary.ProgramRequest true "Program"
// @Success      200 {object} APIResponse[beneficiary.ProgramResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-programs/{id} [put]
func (h *BeneficiaryHandler) UpdateProgram(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req beneficiary.ProgramRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.aid.UpdateProgram(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteProgram godoc
// @ID           deleteAidProgram
// @Summary      Delete aid program
// @Tags         aid
// @Param        id path string true "Program ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-programs/{id} [delete]
func (h *BeneficiaryHandler) DeleteProgram(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.aid.DeleteProgram(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ProgramSummary godoc
// @ID           getAidProgramSummary
// @Summary      Aid program summary
// @Description  Budget used and remaining plus distribution counts
// @Tags         aid
// @Produce      json
// @Param        id path string true "Program ID" format(uuid)
// @Success      200 {object} APIResponse[beneficiary.ProgramSummaryResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-programs/{id}/summary [get]
func (h *BeneficiaryHandler) ProgramSummary(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.aid.Summary(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreateDistribution godoc
// @ID           createAidDistribution
// @Summary      Create aid distribution
// @Description  Register a pending distribution of a program to a beneficiary
// @Tags         aid
// @Accept       json
// @Produce      json
// @Param        request body beneficiary.DistributionRequest true "Distribution"
// @Success      201 {object} APIResponse[beneficiary.DistributionResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-distributions [post]
func (h *BeneficiaryHandler) CreateDistribution(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req beneficiary.DistributionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.aid.CreateDistribution(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListDistributions godoc
// @ID           listAidDistributions
// @Summary      List aid distributions
// @Tags         aid
// @Produce      json
// @Param        aid_id query string false "Program ID" format(uuid)
// @Param        beneficiary_id query string false "Beneficiary ID" format(uuid)
// @Param        status query string false "Status" Enums(pending, approved, distributed, rejected)
// @Param        from query string false "Distributed on or after (YYYY-MM-DD)"
// @Param        to query string false "Distributed on or before (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]beneficiary.DistributionResponse]
// @Security     BearerAuth
// @Router       /aid-distributions [get]
func (h *BeneficiaryHandler) ListDistributions(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, "aid_id", "beneficiary_id", "status"), "distribution_date")
	if !ok {
		return
	}
	items, total, err := h.aid.ListDistributions(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetDistribution godoc
// @ID           getAidDistribution
// @Summary      Get aid distribution
// @Tags         aid
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} APIResponse[beneficiary.DistributionResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-distributions/{id} [get]
func (h *BeneficiaryHandler) GetDistribution(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.aid.GetDistribution(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApproveDistribution godoc
// @ID           approveAidDistribution
// @Summary      Approve aid distribution
// @Description  Fails when the program budget or beneficiary target would be exceeded
// @Tags         aid
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} APIResponse[beneficiary.DistributionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-distributions/{id}/approve [post]
func (h *BeneficiaryHandler) ApproveDistribution(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.aid.Approve(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RejectDistribution godoc
// @ID           rejectAidDistribution
// @Summary      Reject aid distribution
// @Tags         aid
// @Accept       json
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        request body beneficiary.RejectDistributionRequest false "Notes"
// @Success      200 {object} APIResponse[beneficiary.DistributionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-distributions/{id}/reject [post]
func (h *BeneficiaryHandler) RejectDistribution(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req beneficiary.RejectDistributionRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.aid.Reject(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Distribute godoc
// @ID           distributeAid
// @Summary      Mark aid as handed over
// @Tags         aid
// @Accept       json
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        request body beneficiary.DistributeRequest false "Receipt"
// @Success      200 {object} APIResponse[beneficiary.DistributionResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-distributions/{id}/distribute [post]
func (h *BeneficiaryHandler) Distribute(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	by, ok := h.requireUser(c)
	if !ok {
		return
	}
	var req beneficiary.DistributeRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.aid.Distribute(c.Request.Context(), tenantID, id, by, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteDistribution godoc
// @ID           deleteAidDistribution
// @Summary      Delete aid distribution
// @Tags         aid
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /aid-distributions/{id} [delete]
func (h *BeneficiaryHandler) DeleteDistribution(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.aid.DeleteDistribution(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
