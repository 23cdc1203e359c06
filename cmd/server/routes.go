package main

import (
	agendaapp "github.com/pulosarok/desa/internal/application/agenda"
	businessapp "github.com/pulosarok/desa/internal/application/business"
	organizationapp "github.com/pulosarok/desa/internal/application/organization"
	posyanduapp "github.com/pulosarok/desa/internal/application/posyandu"
	publicapp "github.com/pulosarok/desa/internal/application/public"
	tourismapp "github.com/pulosarok/desa/internal/application/tourism"
	"github.com/pulosarok/desa/internal/interfaces/http/handler"
	"github.com/pulosarok/desa/internal/interfaces/http/middleware"
	"github.com/pulosarok/desa/internal/interfaces/http/router"
)

type handlers struct {
	auth           *handler.AuthHandler
	staff          *handler.StaffHandler
	reference      *handler.ReferenceHandler
	letter         *handler.LetterHandler
	letterConfig   *handler.LetterConfigHandler
	letterDocument *handler.LetterDocumentHandler
	beneficiary    *handler.BeneficiaryHandler
	business       *handler.BusinessHandler
	posyandu       *handler.PosyanduHandler
	tourism        *handler.TourismHandler
	content        *handler.ContentHandler
	comments       *handler.CommentHandler
	organization   *handler.OrganizationHandler
	agenda         *handler.AgendaHandler
	public         *handler.PublicHandler
	system         *handler.SystemHandler
	// files is nil unless objects live on the local filesystem
	files *handler.FileHandler
}

// registries holds the services whose plain registers are mounted through
// RegistryHandler
type registries struct {
	business     *businessapp.Service
	posyandu     *posyanduapp.Service
	tourism      *tourismapp.Service
	organization *organizationapp.Service
	agenda       *agendaapp.Service
	comments     *publicapp.CommentService
}

// registerRoutes builds every domain group of the v1 API
func registerRoutes(r *router.Router, h *handlers, reg registries, publicLimiter *middleware.RateLimiter) {
	business, posyandu, tourism := reg.business, reg.posyandu, reg.tourism
	approvers := middleware.RequireRole(middleware.RoleKepalaDesa, middleware.RoleAdmin)

	// Auth routes
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/login", h.auth.Login)
	authRoutes.POST("/refresh", h.auth.RefreshToken)
	authRoutes.POST("/logout", h.auth.Logout)
	authRoutes.GET("/me", h.auth.Me)
	authRoutes.PUT("/password", h.auth.ChangePassword)

	// Staff accounts, admin only
	staffRoutes := router.NewDomainGroup("staff", "/staff")
	staffRoutes.Use(middleware.RequireRole(middleware.RoleAdmin))
	staffRoutes.POST("", h.staff.Create)
	staffRoutes.GET("", h.staff.List)
	staffRoutes.GET("/:id", h.staff.Get)
	staffRoutes.PUT("/:id", h.staff.Update)
	staffRoutes.POST("/:id/deactivate", h.staff.Deactivate)
	staffRoutes.POST("/:id/activate", h.staff.Activate)

	villageRoutes := router.NewDomainGroup("village", "/village")
	villageRoutes.GET("", h.staff.CurrentVillage)

	// Reference data
	referenceRoutes := router.NewDomainGroup("reference", "/reference")
	referenceRoutes.POST("/dusun", h.reference.CreateDusun)
	referenceRoutes.GET("/dusun", h.reference.ListDusun)
	referenceRoutes.GET("/dusun/:id", h.reference.GetDusun)
	referenceRoutes.PUT("/dusun/:id", h.reference.UpdateDusun)
	referenceRoutes.DELETE("/dusun/:id", h.reference.DeleteDusun)
	referenceRoutes.POST("/lorong", h.reference.CreateLorong)
	referenceRoutes.GET("/lorong", h.reference.ListLorong)
	referenceRoutes.GET("/lorong/:id", h.reference.GetLorong)
	referenceRoutes.PUT("/lorong/:id", h.reference.UpdateLorong)
	referenceRoutes.DELETE("/lorong/:id", h.reference.DeleteLorong)
	referenceRoutes.POST("/penduduk", h.reference.CreatePenduduk)
	referenceRoutes.GET("/penduduk", h.reference.ListPenduduk)
	referenceRoutes.GET("/penduduk/stats", h.reference.PopulationStats)
	referenceRoutes.GET("/penduduk/nik/:nik", h.reference.FindPendudukByNIK)
	referenceRoutes.GET("/penduduk/:id", h.reference.GetPenduduk)
	referenceRoutes.PUT("/penduduk/:id", h.reference.UpdatePenduduk)
	referenceRoutes.DELETE("/penduduk/:id", h.reference.DeletePenduduk)

	// Letters
	letterRoutes := router.NewDomainGroup("letters", "/letters")
	letterRoutes.POST("", h.letter.Create)
	letterRoutes.GET("", h.letter.List)
	letterRoutes.GET("/stats", h.letter.Stats)
	letterRoutes.POST("/ai/generate", h.letterDocument.Generate)
	letterRoutes.GET("/:id", h.letter.Get)
	letterRoutes.PUT("/:id", h.letter.Update)
	letterRoutes.DELETE("/:id", h.letter.Delete)

	// Workflow
	letterRoutes.POST("/:id/submit", h.letter.Submit)
	letterRoutes.POST("/:id/review", h.letter.StartReview)
	letterRoutes.POST("/:id/approve", approvers, h.letter.Approve)
	letterRoutes.POST("/:id/reject", approvers, h.letter.Reject)
	letterRoutes.POST("/:id/complete", h.letter.Complete)
	letterRoutes.POST("/:id/cancel", h.letter.Cancel)
	letterRoutes.GET("/:id/tracking", h.letter.Timeline)
	letterRoutes.POST("/:id/tracking", h.letter.AddTracking)
	letterRoutes.POST("/:id/apply-template", h.letterConfig.ApplyTemplate)

	// Recipients and attachments
	letterRoutes.POST("/:id/recipients", h.letterDocument.AddRecipient)
	letterRoutes.GET("/:id/recipients", h.letterDocument.ListRecipients)
	letterRoutes.PUT("/:id/recipients/:recipientId", h.letterDocument.UpdateRecipient)
	letterRoutes.DELETE("/:id/recipients/:recipientId", h.letterDocument.RemoveRecipient)
	letterRoutes.POST("/:id/attachments", h.letterDocument.CreateAttachment)
	letterRoutes.GET("/:id/attachments", h.letterDocument.ListAttachments)
	letterRoutes.POST("/:id/attachments/:attachmentId/confirm", h.letterDocument.ConfirmAttachment)
	letterRoutes.GET("/:id/attachments/:attachmentId/download", h.letterDocument.AttachmentURL)
	letterRoutes.DELETE("/:id/attachments/:attachmentId", h.letterDocument.DeleteAttachment)

	// Signatures
	letterRoutes.POST("/:id/sign", approvers, h.letterDocument.Sign)
	letterRoutes.GET("/:id/verify", h.letterDocument.VerifySignature)
	letterRoutes.GET("/:id/signatures", h.letterDocument.ListSignatures)

	// AI assistance
	letterRoutes.POST("/:id/ai/validate", h.letterDocument.Validate)
	letterRoutes.GET("/:id/ai/validation", h.letterDocument.LatestValidation)
	letterRoutes.POST("/:id/ai/improve", h.letterDocument.Improve)
	letterRoutes.POST("/:id/ai/summary", h.letterDocument.Summarize)

	// Artifacts
	letterRoutes.GET("/:id/pdf", h.letterDocument.PDF)
	letterRoutes.GET("/:id/qr", h.letterDocument.QR)
	letterRoutes.GET("/:id/artifacts/:kind/url", h.letterDocument.ArtifactURL)

	// Letter configuration
	letterTypeRoutes := router.NewDomainGroup("letter-types", "/letter-types")
	letterTypeRoutes.POST("", h.letterConfig.CreateType)
	letterTypeRoutes.GET("", h.letterConfig.ListTypes)
	letterTypeRoutes.GET("/:id", h.letterConfig.GetType)
	letterTypeRoutes.PUT("/:id", h.letterConfig.UpdateType)
	letterTypeRoutes.DELETE("/:id", h.letterConfig.DeleteType)

	templateRoutes := router.NewDomainGroup("letter-templates", "/letter-templates")
	templateRoutes.POST("", h.letterConfig.CreateTemplate)
	templateRoutes.GET("", h.letterConfig.ListTemplates)
	templateRoutes.GET("/:id", h.letterConfig.GetTemplate)
	templateRoutes.PUT("/:id", h.letterConfig.UpdateTemplate)
	templateRoutes.DELETE("/:id", h.letterConfig.DeleteTemplate)

	settingsRoutes := router.NewDomainGroup("letter-settings", "/letter-settings")
	settingsRoutes.GET("", h.letterConfig.GetSettings)
	settingsRoutes.PUT("", approvers, h.letterConfig.UpdateSettings)

	// Social aid
	beneficiaryCategoryRoutes := router.NewDomainGroup("beneficiary-categories", "/beneficiary-categories")
	beneficiaryCategoryRoutes.POST("", h.beneficiary.CreateCategory)
	beneficiaryCategoryRoutes.GET("", h.beneficiary.ListCategories)
	beneficiaryCategoryRoutes.GET("/:id", h.beneficiary.GetCategory)
	beneficiaryCategoryRoutes.PUT("/:id", h.beneficiary.UpdateCategory)
	beneficiaryCategoryRoutes.DELETE("/:id", h.beneficiary.DeleteCategory)

	beneficiaryRoutes := router.NewDomainGroup("beneficiaries", "/beneficiaries")
	beneficiaryRoutes.POST("", h.beneficiary.Enroll)
	beneficiaryRoutes.GET("", h.beneficiary.ListBeneficiaries)
	beneficiaryRoutes.GET("/:id", h.beneficiary.GetBeneficiary)
	beneficiaryRoutes.PUT("/:id", h.beneficiary.UpdateBeneficiary)
	beneficiaryRoutes.DELETE("/:id", h.beneficiary.DeleteBeneficiary)
	beneficiaryRoutes.POST("/:id/verifications", h.beneficiary.Verify)

	verificationRoutes := router.NewDomainGroup("beneficiary-verifications", "/beneficiary-verifications")
	verificationRoutes.GET("", h.beneficiary.ListVerifications)

	programRoutes := router.NewDomainGroup("aid-programs", "/aid-programs")
	programRoutes.POST("", h.beneficiary.CreateProgram)
	programRoutes.GET("", h.beneficiary.ListPrograms)
	programRoutes.GET("/:id", h.beneficiary.GetProgram)
	programRoutes.PUT("/:id", h.beneficiary.UpdateProgram)
	programRoutes.DELETE("/:id", h.beneficiary.DeleteProgram)
	programRoutes.GET("/:id/summary", h.beneficiary.ProgramSummary)

	distributionRoutes := router.NewDomainGroup("aid-distributions", "/aid-distributions")
	distributionRoutes.POST("", h.beneficiary.CreateDistribution)
	distributionRoutes.GET("", h.beneficiary.ListDistributions)
	distributionRoutes.GET("/:id", h.beneficiary.GetDistribution)
	distributionRoutes.POST("/:id/approve", approvers, h.beneficiary.ApproveDistribution)
	distributionRoutes.POST("/:id/reject", approvers, h.beneficiary.RejectDistribution)
	distributionRoutes.POST("/:id/distribute", h.beneficiary.Distribute)
	distributionRoutes.DELETE("/:id", h.beneficiary.DeleteDistribution)

	// UMKM registries
	businessRoutes := router.NewDomainGroup("business", "/business")
	businessRoutes.POST("/categories", h.business.CreateCategory)
	businessRoutes.GET("/categories", h.business.ListCategories)
	businessRoutes.PUT("/categories/:id", h.business.UpdateCategory)
	businessRoutes.DELETE("/categories/:id", h.business.DeleteCategory)
	businessRoutes.GET("/summary", h.business.Summary)
	businessRoutes.Mount("/koperasi", handler.NewRegistryHandler[businessapp.KoperasiRequest, businessapp.KoperasiResponse](
		business.Koperasi, handler.RegistryOptions{Filters: []string{"status", "category_id"}, DateColumn: "tanggal_berdiri"}))
	businessRoutes.Mount("/bumg", handler.NewRegistryHandler[businessapp.BUMGRequest, businessapp.BUMGResponse](
		business.BUMG, handler.RegistryOptions{Filters: []string{"status"}}))
	businessRoutes.Mount("/ukm", handler.NewRegistryHandler[businessapp.UKMRequest, businessapp.UKMResponse](
		business.UKM, handler.RegistryOptions{Filters: []string{"status", "skala", "category_id", "nik_pemilik"}}))
	businessRoutes.Mount("/aset", handler.NewRegistryHandler[businessapp.AsetRequest, businessapp.AsetResponse](
		business.Aset, handler.RegistryOptions{Filters: []string{"kategori", "kondisi"}, DateColumn: "tanggal_perolehan"}))
	businessRoutes.Mount("/layanan-jasa", handler.NewRegistryHandler[businessapp.LayananJasaRequest, businessapp.LayananJasaResponse](
		business.LayananJasa, handler.RegistryOptions{Filters: []string{"status", "kategori"}}))

	// Posyandu
	posyanduRoutes := router.NewDomainGroup("posyandu", "/posyandu")
	posyanduRoutes.POST("/locations", h.posyandu.CreateLocation)
	posyanduRoutes.GET("/locations", h.posyandu.ListLocations)
	posyanduRoutes.GET("/locations/:id", h.posyandu.GetLocation)
	posyanduRoutes.PUT("/locations/:id", h.posyandu.UpdateLocation)
	posyanduRoutes.DELETE("/locations/:id", h.posyandu.DeleteLocation)
	posyanduRoutes.GET("/locations/:id/summary", h.posyandu.LocationSummary)
	posyanduRoutes.POST("/schedules", h.posyandu.CreateSchedule)
	posyanduRoutes.GET("/schedules", h.posyandu.ListSchedules)
	posyanduRoutes.GET("/schedules/upcoming", h.posyandu.UpcomingSchedules)
	posyanduRoutes.GET("/schedules/:id", h.posyandu.GetSchedule)
	posyanduRoutes.PUT("/schedules/:id", h.posyandu.UpdateSchedule)
	posyanduRoutes.POST("/schedules/:id/complete", h.posyandu.CompleteSchedule)
	posyanduRoutes.DELETE("/schedules/:id", h.posyandu.DeleteSchedule)
	posyanduRoutes.Mount("/health-records", handler.NewRegistryHandler[posyanduapp.HealthRecordRequest, posyanduapp.HealthRecordResponse](
		posyandu.HealthRecords, handler.RegistryOptions{Filters: []string{"patient_id", "location_id", "patient_type"}, DateColumn: "visit_date"}))
	posyanduRoutes.Mount("/immunizations", handler.NewRegistryHandler[posyanduapp.ImmunizationRequest, posyanduapp.ImmunizationResponse](
		posyandu.Immunizations, handler.RegistryOptions{Filters: []string{"patient_id", "location_id", "vaccine_type"}, DateColumn: "immunization_date"}))
	posyanduRoutes.Mount("/nutrition", handler.NewRegistryHandler[posyanduapp.NutritionRequest, posyanduapp.NutritionResponse](
		posyandu.Nutrition, handler.RegistryOptions{Filters: []string{"patient_id", "location_id", "nutrition_status"}, DateColumn: "measurement_date"}))

	// Tourism
	tourismRoutes := router.NewDomainGroup("tourism", "/tourism")
	tourismRoutes.POST("/categories", h.tourism.CreateCategory)
	tourismRoutes.GET("/categories", h.tourism.ListCategories)
	tourismRoutes.PUT("/categories/:id", h.tourism.UpdateCategory)
	tourismRoutes.DELETE("/categories/:id", h.tourism.DeleteCategory)
	tourismRoutes.POST("/locations", h.tourism.CreateLocation)
	tourismRoutes.GET("/locations", h.tourism.ListLocations)
	tourismRoutes.GET("/locations/:id", h.tourism.GetLocation)
	tourismRoutes.PUT("/locations/:id", h.tourism.UpdateLocation)
	tourismRoutes.POST("/locations/:id/publish", h.tourism.PublishLocation)
	tourismRoutes.POST("/locations/:id/archive", h.tourism.ArchiveLocation)
	tourismRoutes.DELETE("/locations/:id", h.tourism.DeleteLocation)
	tourismRoutes.GET("/reviews", h.tourism.ListReviews)
	tourismRoutes.POST("/reviews/:id/approve", h.tourism.ApproveReview)
	tourismRoutes.POST("/reviews/:id/flag", h.tourism.FlagReview)
	tourismRoutes.DELETE("/reviews/:id", h.tourism.DeleteReview)
	tourismRoutes.Mount("/events", handler.NewRegistryHandler[tourismapp.EventRequest, tourismapp.EventResponse](
		tourism.Events, handler.RegistryOptions{Filters: []string{"location_id", "event_type", "is_featured"}, DateColumn: "start_date"}))
	tourismRoutes.Mount("/packages", handler.NewRegistryHandler[tourismapp.PackageRequest, tourismapp.PackageResponse](
		tourism.Packages, handler.RegistryOptions{Filters: []string{"location_id", "package_type", "is_active"}}))

	// Website content
	contentRoutes := router.NewDomainGroup("content", "/content")
	contentRoutes.GET("/profile", h.content.GetProfile)
	contentRoutes.PUT("/profile", h.content.UpsertProfile)
	contentRoutes.POST("/news", h.content.CreateNews)
	contentRoutes.GET("/news", h.content.ListNews)
	contentRoutes.GET("/news/:id", h.content.GetNews)
	contentRoutes.PUT("/news/:id", h.content.UpdateNews)
	contentRoutes.POST("/news/:id/publish", h.content.PublishNews)
	contentRoutes.POST("/news/:id/archive", h.content.ArchiveNews)
	contentRoutes.DELETE("/news/:id", h.content.DeleteNews)
	contentRoutes.GET("/messages", h.content.ListMessages)
	contentRoutes.POST("/messages/:id/read", h.content.MarkMessageRead)
	contentRoutes.DELETE("/messages/:id", h.content.DeleteMessage)
	contentRoutes.GET("/comments", h.comments.ListComments)
	contentRoutes.POST("/comments/:id/moderate", h.comments.ModerateComment)
	contentRoutes.DELETE("/comments/:id", h.comments.DeleteComment)
	contentRoutes.Mount("/rubrics", handler.NewRegistryHandler[publicapp.RubricRequest, publicapp.RubricResponse](
		reg.comments.Rubrics, handler.RegistryOptions{Filters: []string{"is_active"}}))

	// Community organizations
	organizationRoutes := router.NewDomainGroup("organizations", "/organizations")
	organizationRoutes.Mount("/types", handler.NewRegistryHandler[organizationapp.TypeRequest, organizationapp.TypeResponse](
		reg.organization.Types, handler.RegistryOptions{Filters: []string{"is_active"}}))
	organizationRoutes.Mount("/periods", handler.NewRegistryHandler[organizationapp.PeriodRequest, organizationapp.PeriodResponse](
		reg.organization.Periods, handler.RegistryOptions{Filters: []string{"organization_id", "is_active"}, DateColumn: "start_date"}))
	organizationRoutes.POST("/periods/:id/activate", h.organization.ActivatePeriod)
	organizationRoutes.Mount("/members", handler.NewRegistryHandler[organizationapp.MemberRequest, organizationapp.MemberResponse](
		reg.organization.Members, handler.RegistryOptions{Filters: []string{"organization_id", "penduduk_id", "period_id", "position", "status"}, DateColumn: "join_date"}))
	organizationRoutes.Mount("/activities", handler.NewRegistryHandler[organizationapp.ActivityRequest, organizationapp.ActivityResponse](
		reg.organization.Activities, handler.RegistryOptions{Filters: []string{"organization_id", "activity_type", "is_completed"}, DateColumn: "event_date"}))
	organizationRoutes.POST("/activities/:id/complete", h.organization.CompleteActivity)
	organizationRoutes.Mount("", handler.NewRegistryHandler[organizationapp.OrganizationRequest, organizationapp.OrganizationResponse](
		reg.organization.Organizations, handler.RegistryOptions{Filters: []string{"type_id", "is_active", "leader_id"}}))
	organizationRoutes.GET("/:id/overview", h.organization.Overview)

	// Village agenda
	agendaRoutes := router.NewDomainGroup("agenda", "/agenda")
	agendaRoutes.Mount("/categories", handler.NewRegistryHandler[agendaapp.CategoryRequest, agendaapp.CategoryResponse](
		reg.agenda.Categories, handler.RegistryOptions{Filters: []string{"is_active"}}))
	agendaRoutes.GET("/stats", h.agenda.Stats)
	agendaRoutes.POST("/events", h.agenda.CreateEvent)
	agendaRoutes.GET("/events", h.agenda.ListEvents)
	agendaRoutes.GET("/events/:id", h.agenda.GetEvent)
	agendaRoutes.PUT("/events/:id", h.agenda.UpdateEvent)
	agendaRoutes.DELETE("/events/:id", h.agenda.DeleteEvent)
	agendaRoutes.POST("/events/:id/publish", h.agenda.PublishEvent)
	agendaRoutes.POST("/events/:id/start", h.agenda.StartEvent)
	agendaRoutes.POST("/events/:id/complete", h.agenda.CompleteEvent)
	agendaRoutes.POST("/events/:id/cancel", h.agenda.CancelEvent)
	agendaRoutes.POST("/events/:id/participants", h.agenda.Register)
	agendaRoutes.GET("/participants", h.agenda.ListParticipants)
	agendaRoutes.POST("/participants/:id/cancel", h.agenda.CancelRegistration)
	agendaRoutes.POST("/participants/:id/confirm", h.agenda.ConfirmParticipant)
	agendaRoutes.POST("/participants/:id/check-in", h.agenda.CheckIn)
	agendaRoutes.POST("/participants/:id/absent", h.agenda.MarkAbsent)

	// Anonymous website endpoints; the JWT middleware skips this prefix
	publicRoutes := router.NewDomainGroup("public", "/public")
	publicRoutes.Use(middleware.RateLimit(publicLimiter))
	publicRoutes.GET("/stats", h.public.Stats)
	publicRoutes.GET("/profile", h.public.Profile)
	publicRoutes.GET("/news", h.public.ListNews)
	publicRoutes.GET("/news/:slug", h.public.ReadNews)
	publicRoutes.GET("/news/:slug/comments", h.public.ListComments)
	publicRoutes.POST("/news/:slug/comments", h.public.SubmitComment)
	publicRoutes.GET("/events", h.public.ListEvents)
	publicRoutes.GET("/events/:slug", h.public.GetEvent)
	publicRoutes.GET("/tourism", h.public.ListTourism)
	publicRoutes.GET("/tourism/:slug", h.public.GetTourism)
	publicRoutes.GET("/tourism/:slug/reviews", h.public.ListReviews)
	publicRoutes.POST("/tourism/:slug/reviews", h.public.SubmitReview)
	publicRoutes.GET("/letters/verify/:code", h.public.VerifyLetter)
	publicRoutes.GET("/letters/track/:code", h.public.TrackLetter)
	publicRoutes.POST("/contact", h.public.Contact)

	// Register system routes with swagger-documented handlers
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", h.system.GetSystemInfo)
	systemRoutes.GET("/ping", h.system.Ping)

	r.Register(authRoutes).
		Register(staffRoutes).
		Register(villageRoutes).
		Register(referenceRoutes).
		Register(letterRoutes).
		Register(letterTypeRoutes).
		Register(templateRoutes).
		Register(settingsRoutes).
		Register(beneficiaryCategoryRoutes).
		Register(beneficiaryRoutes).
		Register(verificationRoutes).
		Register(programRoutes).
		Register(distributionRoutes).
		Register(businessRoutes).
		Register(posyanduRoutes).
		Register(tourismRoutes).
		Register(contentRoutes).
		Register(organizationRoutes).
		Register(agendaRoutes).
		Register(publicRoutes).
		Register(systemRoutes)

	// Presigned object URLs carry their own HMAC signature instead of a token
	if h.files != nil {
		fileRoutes := router.NewDomainGroup("files", "/files")
		fileRoutes.GET("/*key", h.files.Download)
		fileRoutes.PUT("/*key", h.files.Upload)
		r.Register(fileRoutes)
	}
}
