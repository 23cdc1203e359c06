package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pulosarok/desa/internal/application/agenda"
	letterapp "github.com/pulosarok/desa/internal/application/letter"
	"github.com/pulosarok/desa/internal/application/public"
	"github.com/pulosarok/desa/internal/application/tourism"
)

// PublicServices groups the services behind the anonymous endpoints
type PublicServices struct {
	Content  *public.ContentService
	Comments *public.CommentService
	Stats    *public.StatsService
	Tourism  *tourism.Service
	Letters  *letterapp.PublicService
	Agenda   *agenda.Service
}

// PublicHandler serves the anonymous village website. The village comes from
// X-Tenant-ID, the subdomain or the configured default.
type PublicHandler struct {
	BaseHandler
	svc PublicServices
}

// NewPublicHandler creates a new PublicHandler
func NewPublicHandler(svc PublicServices) *PublicHandler {
	return &PublicHandler{svc: svc}
}

// Stats godoc
// @ID           getPublicStats
// @Summary      Village statistics
// @Description  Population, hamlets, active beneficiaries, businesses, published destinations and letters issued this year
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Success      200 {object} APIResponse[public.StatsResponse]
// @Router       /public/stats [get]
func (h *PublicHandler) Stats(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Stats.Stats(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Profile godoc
// @ID           getPublicProfile
// @Summary      Village profile
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Success      200 {object} APIResponse[public.ProfileResponse]
// @Router       /public/profile [get]
func (h *PublicHandler) Profile(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Content.GetProfile(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListNews godoc
// @ID           listPublicNews
// @Summary      Published news
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        search query string false "Title"
// @Param        category query string false "Category"
// @Param        rubric_id query string false "Rubric ID" format(uuid)
// @Param        is_featured query bool false "Featured only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]public.NewsResponse]
// @Router       /public/news [get]
func (h *PublicHandler) ListNews(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "category", "rubric_id", "is_featured")
	items, total, err := h.svc.Content.ListPublishedNews(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// ReadNews godoc
// @ID           readPublicNews
// @Summary      Read news article
// @Description  Return a published article and count the view
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        slug path string true "Article slug"
// @Success      200 {object} APIResponse[public.NewsResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /public/news/{slug} [get]
func (h *PublicHandler) ReadNews(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Content.ReadPublishedNews(c.Request.Context(), tenantID, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListComments godoc
// @ID           listPublicNewsComments
// @Summary      Article comments
// @Description  Approved comments only, without email or IP address
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        slug path string true "Article slug"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]public.CommentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /public/news/{slug}/comments [get]
func (h *PublicHandler) ListComments(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c)
	items, total, err := h.svc.Comments.ListApprovedComments(c.Request.Context(), tenantID, c.Param("slug"), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// SubmitComment godoc
// @ID           submitPublicNewsComment
// @Summary      Comment on article
// @Description  Comments stay hidden until approved by staff. Replies must target an approved comment of the same article.
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        slug path string true "Article slug"
// @Param        request body public.CommentRequest true "Comment"
// @Success      201 {object} APIResponse[public.CommentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /public/news/{slug}/comments [post]
func (h *PublicHandler) SubmitComment(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req public.CommentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Comments.SubmitComment(c.Request.Context(), tenantID, c.Param("slug"), c.ClientIP(), c.Request.UserAgent(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListEvents godoc
// @ID           listPublicEvents
// @Summary      Published events
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        search query string false "Title, summary or location"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        is_featured query bool false "Featured only"
// @Param        from query string false "Start date from (YYYY-MM-DD)"
// @Param        to query string false "Start date to (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]agenda.EventResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /public/events [get]
func (h *PublicHandler) ListEvents(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f, ok := h.dateRange(c, listFilter(c, "category_id", "is_featured", "is_free"), "start_date")
	if !ok {
		return
	}
	items, total, err := h.svc.Agenda.ListPublished(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetEvent godoc
// @ID           getPublicEvent
// @Summary      Event detail
// @Description  Return a published, ongoing or completed event and count the view
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        slug path string true "Event slug"
// @Success      200 {object} APIResponse[agenda.EventResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /public/events/{slug} [get]
func (h *PublicHandler) GetEvent(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Agenda.GetPublishedBySlug(c.Request.Context(), tenantID, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListTourism godoc
// @ID           listPublicTourism
// @Summary      Published destinations
// @Description  Published, active destinations with their average approved rating
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        search query string false "Title or address"
// @Param        category_id query string false "Category ID" format(uuid)
// @Param        location_type query string false "Type"
// @Param        featured query bool false "Featured only"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]tourism.LocationResponse]
// @Router       /public/tourism [get]
func (h *PublicHandler) ListTourism(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c, "category_id", "location_type", "featured")
	items, total, err := h.svc.Tourism.ListPublished(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// GetTourism godoc
// @ID           getPublicTourism
// @Summary      Destination detail
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        slug path string true "Destination slug"
// @Success      200 {object} APIResponse[tourism.LocationResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /public/tourism/{slug} [get]
func (h *PublicHandler) GetTourism(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Tourism.GetPublishedBySlug(c.Request.Context(), tenantID, c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListReviews godoc
// @ID           listPublicTourismReviews
// @Summary      Destination reviews
// @Description  Approved reviews only
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        slug path string true "Destination slug"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Items per page" default(20)
// @Success      200 {object} APIResponse[[]tourism.ReviewResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /public/tourism/{slug}/reviews [get]
func (h *PublicHandler) ListReviews(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	f := listFilter(c)
	items, total, err := h.svc.Tourism.ListPublicReviews(c.Request.Context(), tenantID, c.Param("slug"), f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Page(c, items, total, f)
}

// SubmitReview godoc
// @ID           submitPublicTourismReview
// @Summary      Submit review
// @Description  Reviews stay hidden until approved by staff
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        slug path string true "Destination slug"
// @Param        request body tourism.ReviewRequest true "Review"
// @Success      201 {object} APIResponse[tourism.ReviewResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /public/tourism/{slug}/reviews [post]
func (h *PublicHandler) SubmitReview(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req tourism.ReviewRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Tourism.SubmitReview(c.Request.Context(), tenantID, c.Param("slug"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// VerifyLetter godoc
// @ID           verifyPublicLetter
// @Summary      Verify letter
// @Description  Check a printed letter by the code in its QR. The signature is re-verified on every call.
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        code path string true "Public code"
// @Success      200 {object} APIResponse[letterapp.PublicVerifyResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /public/letters/verify/{code} [get]
func (h *PublicHandler) VerifyLetter(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Letters.Verify(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// TrackLetter godoc
// @ID           trackPublicLetter
// @Summary      Track letter
// @Description  Status timeline of a submitted letter
// @Tags         public
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        code path string true "Public code"
// @Success      200 {object} APIResponse[letterapp.PublicTrackResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /public/letters/track/{code} [get]
func (h *PublicHandler) TrackLetter(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	resp, err := h.svc.Letters.Track(c.Request.Context(), tenantID, c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Contact godoc
// @ID           submitPublicContact
// @Summary      Contact the village
// @Tags         public
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Village ID or code"
// @Param        request body public.ContactRequest true "Message"
// @Success      201 {object} APIResponse[public.ContactResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      429 {object} ErrorResponse
// @Router       /public/contact [post]
func (h *PublicHandler) Contact(c *gin.Context) {
	tenantID, ok := h.requireTenant(c)
	if !ok {
		return
	}
	var req public.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Content.SubmitContact(c.Request.Context(), tenantID, c.ClientIP(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
