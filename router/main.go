package router

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/sahilchouksey/campus-events/database"
	"github.com/sahilchouksey/campus-events/handlers"
	attendance_handlers "github.com/sahilchouksey/campus-events/handlers/attendance"
	auth_handlers "github.com/sahilchouksey/campus-events/handlers/auth"
	event_handlers "github.com/sahilchouksey/campus-events/handlers/event"
	feedback_handlers "github.com/sahilchouksey/campus-events/handlers/feedback"
	registration_handlers "github.com/sahilchouksey/campus-events/handlers/registration"
	"github.com/sahilchouksey/campus-events/model"
	"github.com/sahilchouksey/campus-events/services"
	"github.com/sahilchouksey/campus-events/utils/auth"
	"github.com/sahilchouksey/campus-events/utils/cache"
	"github.com/sahilchouksey/campus-events/utils/middleware"
)

// approvedEventsTTL bounds how stale the cached approved listing can be
const approvedEventsTTL = 5 * time.Minute

// Options carries everything the routes need besides the database
type Options struct {
	JWTSecret      string
	JWTIssuer      string
	AllowedOrigins string
	// Redis is optional. Without it login throttling and the
	// approved-event cache are disabled.
	Redis *cache.RedisCache
	// Archive is optional. Without it roster archiving answers 503.
	Archive services.ObjectStore
	// RateLimitRequests per minute, 100 when zero
	RateLimitRequests int
}

func SetupRoutes(app *fiber.App, store database.Storage, opts Options) error {
	if opts.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is not set")
	}
	if opts.JWTIssuer == "" {
		opts.JWTIssuer = "campus-events-api"
	}
	if opts.RateLimitRequests == 0 {
		opts.RateLimitRequests = 100
	}

	// Initialize JWT manager with config
	jwtManager := auth.NewJWTManager(auth.JWTConfig{
		Secret:        opts.JWTSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        opts.JWTIssuer,
	})

	db := store.GetDB()

	if opts.Redis == nil {
		log.Warn("Redis is not configured. Login throttling and event caching are disabled.")
	}
	loginGuard := middleware.NewLoginGuard(opts.Redis)

	workflowOpts := []services.WorkflowOption{
		services.WithEventCache(services.NewEventCache(opts.Redis, approvedEventsTTL)),
	}
	if opts.Archive != nil {
		workflowOpts = append(workflowOpts, services.WithArchive(opts.Archive))
	}
	workflow := services.NewWorkflow(db, workflowOpts...)

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, workflow, jwtManager, loginGuard)
	eventHandler := event_handlers.NewEventHandler(workflow)
	registrationHandler := registration_handlers.NewRegistrationHandler(workflow)
	attendanceHandler := attendance_handlers.NewAttendanceHandler(workflow)
	feedbackHandler := feedback_handlers.NewFeedbackHandler(workflow)

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    opts.AllowedOrigins,
		RateLimitRequests: opts.RateLimitRequests,
		RateLimitWindow:   1 * time.Minute,
	})

	app.Get("/ping", handlers.HandleCheckHealth(store, opts.Redis))

	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", loginGuard.Guard(), authHandler.Login)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/logout-all", authMiddleware.Required(), authHandler.LogoutAll)

	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", authHandler.GetProfile)
	profileGroup.Put("/", authHandler.UpdateProfile)

	// Events. Capability checks happen in the workflow.
	events := api.Group("/events", authMiddleware.Required())
	events.Post("/", eventHandler.ProposeEvent)
	events.Get("/", eventHandler.ListEvents)
	events.Get("/:id", eventHandler.GetEvent)
	events.Post("/:id/approve",
		middleware.AdminAuditLog(db, model.AuditActionEventApprove, "event", fiber.Map{"status": model.EventStatusApproved}),
		eventHandler.ApproveEvent)
	events.Post("/:id/reject",
		middleware.AdminAuditLog(db, model.AuditActionEventReject, "event", fiber.Map{"status": model.EventStatusRejected}),
		eventHandler.RejectEvent)

	events.Post("/:id/register", registrationHandler.Register)
	events.Delete("/:id/register", registrationHandler.Unregister)

	events.Get("/:id/participants", attendanceHandler.ListParticipants)
	events.Get("/:id/participants/export", attendanceHandler.ExportRoster)
	events.Post("/:id/participants/archive", attendanceHandler.ArchiveRoster)

	events.Post("/:id/feedback", feedbackHandler.SubmitFeedback)
	events.Get("/:id/feedback", feedbackHandler.ListFeedback)

	api.Get("/registrations/me", authMiddleware.Required(), registrationHandler.Mine)

	participants := api.Group("/participants", authMiddleware.Required())
	participants.Post("/:id/attendance", attendanceHandler.MarkAttendance)
	participants.Delete("/:id/attendance", attendanceHandler.UnmarkAttendance)

	admin := api.Group("/admin", authMiddleware.Required())
	admin.Get("/dashboard", eventHandler.Dashboard)
	admin.Get("/audit", eventHandler.AuditLogs)

	return nil
}
