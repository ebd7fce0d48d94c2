package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/config"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/handlers"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/middleware"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	if cfg.Auth.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET must be set")
	}

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize Redis (optional, used by the reset activity guard)
	rdb, err := config.InitRedis(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Redis: %v", err)
	}

	// Initialize repositories
	candRepo := repositories.NewCandidateRepository(db)
	juryRepo := repositories.NewJuryMemberRepository(db)
	assignRepo := repositories.NewAssignmentRepository(db)
	evalRepo := repositories.NewEvaluationRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize notification dispatcher
	notifier := services.NewNotifier(services.NewLogMailer())
	ctx := context.Background()
	notifier.Start(ctx)

	// Initialize services
	guard := services.NewActivityGuard(rdb, cfg.Reset.GuardThreshold, cfg.Reset.GuardWindow)
	distributor := services.NewDistributorService(db, juryRepo, candRepo, assignRepo, notifier, cfg.Assignment.DefaultQuota)
	recorder := services.NewRecorderService(db, evalRepo, assignRepo, juryRepo, candRepo, notifier, cfg.Scoring)
	ranking := services.NewRankingService(evalRepo, candRepo, juryRepo, assignRepo)
	reset := services.NewResetService(db, evalRepo, auditRepo, guard, cfg.Reset.RetentionDays)
	log.Println("✅ Services initialized successfully")

	// Apply the audit retention policy once at startup
	if purged, err := reset.PurgeExpiredLogs(); err != nil {
		log.Printf("⚠️  Failed to purge expired reset logs: %v\n", err)
	} else if purged > 0 {
		log.Printf("🧹 Purged %d reset log entries past retention\n", purged)
	}

	// Initialize handlers
	validate := validator.New()
	candidateHandler := handlers.NewCandidateHandler(candRepo, validate)
	juryHandler := handlers.NewJuryMemberHandler(juryRepo, validate)
	assignmentHandler := handlers.NewAssignmentHandler(distributor, assignRepo, validate)
	evaluationHandler := handlers.NewEvaluationHandler(recorder, evalRepo, juryRepo, validate)
	rankingHandler := handlers.NewRankingHandler(ranking)
	resetHandler := handlers.NewResetHandler(reset, validate)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Award Jury Evaluation API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	auth := middleware.JWTAuth(cfg.Auth.JWTSecret)
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)
	juryOrAdmin := middleware.RequireRole(middleware.RoleJury, middleware.RoleAdmin)

	// Candidate administration
	api.Post("/candidates", auth, adminOnly, candidateHandler.HandleCreate)
	api.Get("/candidates", auth, juryOrAdmin, candidateHandler.HandleList)
	api.Get("/candidates/:id", auth, juryOrAdmin, candidateHandler.HandleGet)

	// Jury administration
	api.Post("/jury-members", auth, adminOnly, juryHandler.HandleCreate)
	api.Get("/jury-members", auth, adminOnly, juryHandler.HandleList)
	api.Post("/jury-members/:id/deactivate", auth, adminOnly, juryHandler.HandleDeactivate)

	// Assignment distribution
	api.Post("/assignments/distribute", auth, adminOnly, assignmentHandler.HandleDistribute)
	api.Get("/assignments", auth, juryOrAdmin, assignmentHandler.HandleList)

	// Evaluations
	api.Post("/evaluations", auth, middleware.RequireRole(middleware.RoleJury), evaluationHandler.HandleSubmit)
	api.Get("/evaluations/:candidate_id", auth, middleware.RequireRole(middleware.RoleJury), evaluationHandler.HandleGetOwn)

	// Rankings and progress
	api.Get("/rankings", auth, adminOnly, rankingHandler.HandleRankings)
	api.Get("/progress", auth, adminOnly, rankingHandler.HandleProgress)

	// Reset and audit
	api.Post("/resets", auth, adminOnly, resetHandler.HandleReset)
	api.Post("/resets/:backup_id/restore", auth, adminOnly, resetHandler.HandleRestore)
	api.Get("/resets/history", auth, adminOnly, resetHandler.HandleHistory)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		notifier.Stop()
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
