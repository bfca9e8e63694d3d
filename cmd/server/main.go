package main

import (
	"log"
	"time"

	"casedesk/config"
	"casedesk/db"
	"casedesk/handlers"
	"casedesk/middleware"
	"casedesk/models"
	"casedesk/services"
	"casedesk/services/jobs"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
		&models.Firm{},
		&models.User{},
		&models.Session{},
		&models.Party{},
		&models.Case{},
		&models.SecurityInterest{},
		&models.Document{},
		&models.Deadline{},
		&models.Financial{},
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize document storage
	services.InitializeStorage(cfg)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.RequestLogger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: true,
	}))

	// Make config available to handlers
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("config", cfg)
			return next(c)
		}
	})

	// Static files (the client-rendered frontend)
	e.Static("/static", "static")

	spa := func(c echo.Context) error {
		return c.File("static/index.html")
	}

	// Public page routes; signed-in users are bounced to the dashboard
	authPages := e.Group("")
	authPages.Use(middleware.RedirectIfAuthenticated())
	{
		authPages.GET("/", spa)
		authPages.GET("/login", spa)
		authPages.GET("/register", spa)
	}

	// Public API routes
	e.POST("/api/register", handlers.RegisterHandler, middleware.RegistrationRateLimiter.Middleware())
	e.POST("/api/login", handlers.LoginHandler, middleware.LoginRateLimiter.Middleware())

	// Protected page routes
	pages := e.Group("")
	pages.Use(middleware.RequireAuth())
	pages.Use(middleware.RequireFirm())
	{
		for _, path := range []string{"/dashboard", "/cases", "/cases/:id", "/parties", "/documents", "/deadlines"} {
			pages.GET(path, spa)
		}
	}

	// Protected API routes (authentication + firm required)
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	api.Use(middleware.RequireFirm())
	{
		api.POST("/logout", handlers.LogoutHandler)
		api.GET("/me", handlers.GetCurrentUserHandler)
		api.GET("/dashboard", handlers.DashboardHandler)

		// Users
		api.GET("/users", handlers.GetUsers)
		api.GET("/users/:id", handlers.GetUser)
		api.PUT("/users/:id", handlers.UpdateUser)

		// Parties
		api.GET("/parties", handlers.GetPartiesHandler)
		api.POST("/parties", handlers.CreatePartyHandler)
		api.GET("/parties/:id", handlers.GetPartyHandler)
		api.PUT("/parties/:id", handlers.UpdatePartyHandler)
		api.DELETE("/parties/:id", handlers.DeletePartyHandler)

		// Cases and case children
		api.GET("/cases", handlers.GetCasesHandler)
		api.POST("/cases", handlers.CreateCaseHandler)
		api.GET("/cases/:id", handlers.GetCaseDetailHandler)
		api.PUT("/cases/:id", handlers.UpdateCaseHandler)
		api.PUT("/cases/:id/status", handlers.UpdateCaseStatusHandler)
		api.DELETE("/cases/:id", handlers.DeleteCaseHandler)
		api.GET("/cases/:id/security-interests", handlers.GetSecurityInterestsHandler)
		api.POST("/cases/:id/security-interests", handlers.CreateSecurityInterestHandler)
		api.GET("/cases/:id/deadlines", handlers.GetCaseDeadlinesHandler)
		api.POST("/cases/:id/deadlines", handlers.CreateDeadlineHandler)
		api.GET("/cases/:id/financials", handlers.GetCaseFinancialsHandler)
		api.POST("/cases/:id/financials", handlers.CreateFinancialHandler)

		// Case-independent child record routes
		api.PUT("/security-interests/:id", handlers.UpdateSecurityInterestHandler)
		api.DELETE("/security-interests/:id", handlers.DeleteSecurityInterestHandler)
		api.PUT("/deadlines/:id", handlers.UpdateDeadlineHandler)
		api.DELETE("/deadlines/:id", handlers.DeleteDeadlineHandler)
		api.GET("/deadlines/upcoming", handlers.GetUpcomingDeadlinesHandler)
		api.DELETE("/financials/:id", handlers.DeleteFinancialHandler)

		// Documents
		api.GET("/documents", handlers.GetDocumentsHandler)
		api.POST("/documents", handlers.UploadDocumentHandler)
		api.GET("/documents/:id/download", handlers.DownloadDocumentHandler)
		api.DELETE("/documents/:id", handlers.DeleteDocumentHandler)

		// Assistant
		api.POST("/assistant", handlers.AssistantHandler, middleware.AssistantRateLimiter.Middleware())

		// Admin-only routes
		adminRoutes := api.Group("")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.POST("/users", handlers.InviteUser)
			adminRoutes.GET("/reports/cases", handlers.ExportCasesHandler)
		}
	}

	// Start background jobs (runs every hour)
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for range ticker.C {
			if err := services.CleanupExpiredSessions(db.DB); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			}

			jobs.SweepDeadlines(db.DB, cfg)
		}
	}()

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
