package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"hireflow/ats-platform/internal/middleware"
	"hireflow/ats-platform/internal/models"
)

// Handlers groups every route handler the API mounts.
type Handlers struct {
	Auth          *AuthHandler
	Admin         *AdminHandler
	Jobs          *JobHandler
	Resumes       *ResumeHandler
	Matches       *MatchHandler
	Interviews    *InterviewHandler
	Templates     *TemplateHandler
	Notifications *NotificationHandler
	Analytics     *AnalyticsHandler
}

// RouteOptions carries the middleware the routes need from the caller.
type RouteOptions struct {
	Verifier    middleware.TokenVerifier
	RateLimit   int
	RateWindow  time.Duration
	DisableRate bool
}

// RegisterRoutes mounts the API under /api/v1.
func RegisterRoutes(app *fiber.App, h Handlers, opts RouteOptions) {
	api := app.Group("/api/v1")
	auth := middleware.Authenticate(opts.Verifier)
	limited := func(c *fiber.Ctx) error { return c.Next() }
	if !opts.DisableRate {
		limited = middleware.RateLimiter(opts.RateLimit, opts.RateWindow)
	}

	staff := middleware.RequireRole(models.RoleSuperAdmin, models.RoleCustomerAdmin, models.RoleRecruiter)
	recruiters := middleware.RequireRole(models.RoleCustomerAdmin, models.RoleRecruiter)
	tenant := middleware.RequireOrganization()

	// Auth
	authGroup := api.Group("/auth", limited)
	authGroup.Post("/register", h.Auth.HandleRegister)
	authGroup.Post("/login", h.Auth.HandleLogin)
	authGroup.Post("/forgot-password", h.Auth.HandleForgotPassword)
	authGroup.Post("/reset-password", h.Auth.HandleResetPassword)
	authGroup.Post("/logout", auth, h.Auth.HandleLogout)
	authGroup.Get("/profile/:userId", auth, h.Auth.HandleProfile)

	// Super admin
	super := api.Group("/super-admin", auth, middleware.RequireRole(models.RoleSuperAdmin))
	super.Get("/organizations", h.Admin.HandleListOrganizations)
	super.Post("/organizations", h.Admin.HandleCreateOrganization)
	super.Get("/organizations/:id", h.Admin.HandleGetOrganization)
	super.Put("/organizations/:id", h.Admin.HandleUpdateOrganization)
	super.Delete("/organizations/:id", h.Admin.HandleDeleteOrganization)
	super.Get("/users", h.Admin.HandleListUsers)
	super.Get("/analytics", h.Analytics.HandleOverview)

	// Organization admin
	org := api.Group("/customer-admin", auth, middleware.RequireRole(models.RoleCustomerAdmin), tenant)
	org.Get("/settings", h.Admin.HandleGetSettings)
	org.Put("/settings", h.Admin.HandleUpdateSettings)
	org.Get("/users", h.Admin.HandleListUsers)
	org.Get("/recruiters", h.Admin.HandleListRecruiters)
	org.Post("/recruiters", h.Admin.HandleCreateRecruiter)
	org.Put("/recruiters/:id", h.Admin.HandleUpdateRecruiter)
	org.Delete("/recruiters/:id", h.Admin.HandleDeleteRecruiter)
	org.Get("/matching-config", h.Admin.HandleGetMatchingConfig)
	org.Put("/matching-config", h.Admin.HandleUpdateMatchingConfig)
	org.Get("/analytics", h.Analytics.HandleOverview)

	// Public job board
	public := api.Group("/public")
	public.Get("/jobs", h.Jobs.HandlePublicList)
	public.Get("/jobs/:id", h.Jobs.HandlePublicGet)

	// Jobs
	jobs := api.Group("/jobs", auth, recruiters, tenant)
	jobs.Get("/", h.Jobs.HandleList)
	jobs.Post("/", h.Jobs.HandleCreate)
	jobs.Get("/:id", h.Jobs.HandleGet)
	jobs.Put("/:id", h.Jobs.HandleUpdate)
	jobs.Delete("/:id", h.Jobs.HandleDelete)
	jobs.Get("/:id/suggestions", h.Jobs.HandleSuggestions)

	// Resumes
	resumes := api.Group("/resumes", auth, recruiters, tenant)
	resumes.Get("/", h.Resumes.HandleList)
	resumes.Post("/upload", h.Resumes.HandleUpload)
	resumes.Post("/bulk-upload", h.Resumes.HandleBulkUpload)
	resumes.Post("/paste", h.Resumes.HandlePaste)
	resumes.Get("/:id", h.Resumes.HandleGet)
	resumes.Delete("/:id", h.Resumes.HandleDelete)
	resumes.Put("/:id/status", h.Resumes.HandleUpdateStatus)

	// Matching
	matching := api.Group("/matching", auth, recruiters, tenant)
	matching.Post("/match", h.Matches.HandleMatch)
	matching.Get("/matches/:jobId", h.Matches.HandleListForJob)
	matching.Get("/match/:id", h.Matches.HandleGet)
	matching.Put("/matches/:id/review", h.Matches.HandleReview)

	// Interviews
	interviews := api.Group("/interviews", auth, recruiters, tenant)
	interviews.Post("/invite", h.Interviews.HandleInvite)
	interviews.Get("/", h.Interviews.HandleList)
	interviews.Get("/:id", h.Interviews.HandleGet)
	interviews.Put("/:id/cancel", h.Interviews.HandleCancel)
	interviews.Post("/:id/feedback", h.Interviews.HandleFeedback)

	// Candidate token flow
	candidate := api.Group("/candidate", limited)
	candidate.Get("/interview/:token", h.Interviews.HandleCandidateGet)
	candidate.Post("/interview/:token/details", h.Interviews.HandleCandidateDetails)
	candidate.Post("/interview/:token/start", h.Interviews.HandleCandidateStart)
	candidate.Post("/interview/:token/answer", h.Interviews.HandleCandidateAnswer)
	candidate.Post("/interview/:token/complete", h.Interviews.HandleCandidateComplete)
	candidate.Get("/status/:token", h.Interviews.HandleCandidateStatus)

	// Interview templates
	templates := api.Group("/templates", auth, staff)
	templates.Get("/", h.Templates.HandleList)
	templates.Post("/", h.Templates.HandleCreate)
	templates.Put("/:id", h.Templates.HandleUpdate)
	templates.Delete("/:id", h.Templates.HandleDelete)

	// Notifications
	notifications := api.Group("/notifications", auth)
	notifications.Get("/", h.Notifications.HandleList)
	notifications.Get("/unread-count", h.Notifications.HandleUnreadCount)
	notifications.Put("/read-all", h.Notifications.HandleMarkAllRead)
	notifications.Put("/:id/read", h.Notifications.HandleMarkRead)
	notifications.Delete("/:id", h.Notifications.HandleDelete)

	// Analytics
	analytics := api.Group("/analytics", auth, staff)
	analytics.Get("/", h.Analytics.HandleOverview)
	analytics.Get("/recruiter/dashboard", middleware.RequireRole(models.RoleRecruiter), tenant, h.Analytics.HandleRecruiterDashboard)
	analytics.Get("/recruiter/jobs", middleware.RequireRole(models.RoleRecruiter), tenant, h.Analytics.HandleRecruiterJobs)
	analytics.Get("/export/matches", recruiters, tenant, h.Analytics.HandleExportMatches)
	analytics.Get("/export/resumes", recruiters, tenant, h.Analytics.HandleExportResumes)
	analytics.Get("/export/interviews", recruiters, tenant, h.Analytics.HandleExportInterviews)
}
