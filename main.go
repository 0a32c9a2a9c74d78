package main

import (
	"context"
	"learnhub/config"
	authControllers "learnhub/controllers/auth"
	courseControllers "learnhub/controllers/course"
	superAdminController "learnhub/controllers/superAdmin"
	userProfileController "learnhub/controllers/userControllers"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/middleware"
	"learnhub/repositories"
	authRoutes "learnhub/routers/authRoutes"
	courseRoutes "learnhub/routers/courseRoutes"
	superAdminRoutes "learnhub/routers/superAdmin"
	userProfileRoutes "learnhub/routers/userRoutes"
	"learnhub/services"
	"learnhub/utils"
	stdlog "log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		stdlog.Fatalf("Failed to initialize logger: %v", err)
	}
	defer log.Sync()

	db, err := database.Connect(cfg, log)
	if err != nil {
		log.Fatal("Failed to connect to the database", "error", err)
	}
	store := repositories.NewStore(db)

	notifier := newNotifier(cfg, log)
	renderer := newRenderer(cfg, log)

	authService := services.NewAuthService(store, middleware.TokenSigner(cfg.JWTKey, cfg.JWTTTL), notifier, cfg.SaltRound, log)
	catalog := services.NewCatalogService(store, log)
	enrollments := services.NewEnrollmentService(store, notifier, log)
	aggregator := services.NewEnrollmentAggregator(store, log)
	tracker := services.NewProgressTracker(store, aggregator, log)
	issuer := services.NewCertificateIssuer(store, renderer, notifier, services.IssuerConfig{
		VerifyBaseURL: cfg.PublicBaseURL,
		RenderTimeout: cfg.RendererTimeout,
	}, log)
	quizzes := services.NewQuizService(store, log)
	reviews := services.NewReviewService(store, log)
	admin := services.NewAdminService(store, log)
	notes := services.NewNoteService(store, enrollments, log)

	scheduler, err := utils.InitializeSchedulers([]utils.Job{
		{Name: "reconcile-course-counters", Spec: cfg.ReconcileCron, Run: func(ctx context.Context) error {
			_, err := admin.Reconcile(ctx)
			return err
		}},
		{Name: "retry-certificate-renders", Spec: cfg.RenderRetryCron, Run: func(ctx context.Context) error {
			_, err := issuer.RetryPendingRenders(ctx)
			return err
		}},
	}, log)
	if err != nil {
		log.Fatal("Failed to start schedulers", "error", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve rendered certificates and uploaded images
	app.Static("/"+utils.CertificateMount, cfg.CertificateDir)
	app.Static("/uploads", cfg.UploadDir)

	authRoutes.SetupAuthRoutes(app, authControllers.New(authService, log), cfg.JWTKey)
	userProfileRoutes.SetupUserRoutes(app, userProfileController.New(authService, cfg.UploadDir, cfg.PublicBaseURL, log), cfg.JWTKey)

	courseController := courseControllers.New(courseControllers.Services{
		Catalog:     catalog,
		Enrollments: enrollments,
		Tracker:     tracker,
		Issuer:      issuer,
		Quizzes:     quizzes,
		Reviews:     reviews,
		Notes:       notes,
	}, cfg.UploadDir, cfg.PublicBaseURL, log)
	courseRoutes.SetupCourseRoutes(app, courseController, cfg.JWTKey)
	courseRoutes.SetupAdminCourseRoutes(app, courseController, cfg.JWTKey)
	superAdminRoutes.SetupSuperAdminRoutes(app, superAdminController.New(admin, issuer, log), cfg.JWTKey)

	go func() {
		log.Info("Server is running", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(30 * time.Second); err != nil {
		log.Error("Server shutdown failed", "error", err)
	}
	<-scheduler.Stop().Done()
	issuer.Wait()
	enrollments.Wait()
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newNotifier sends mail through SendGrid when a key is configured and only
// logs it otherwise.
func newNotifier(cfg *config.Config, log *logger.Logger) services.Notifier {
	if cfg.SendgridAPIKey == "" {
		log.Warn("SENDGRID_API_KEY not set, emails will only be logged")
		return utils.NewLogNotifier(log)
	}
	n, err := utils.NewSendgridNotifier(cfg.SendgridAPIKey, cfg.SendgridFromEmail, cfg.SendgridFromName, log)
	if err != nil {
		log.Fatal("Failed to configure SendGrid", "error", err)
	}
	return n
}

func newRenderer(cfg *config.Config, log *logger.Logger) services.Renderer {
	switch cfg.RendererMode {
	case "local":
		r, err := utils.NewLocalRenderer(cfg.CertificateDir, cfg.PublicBaseURL, cfg.CertificateFontPath, log)
		if err != nil {
			log.Fatal("Failed to configure certificate renderer", "error", err)
		}
		return r
	case "http":
		r, err := utils.NewHTTPRenderer(cfg.RendererURL, cfg.RendererTimeout, log)
		if err != nil {
			log.Fatal("Failed to configure certificate renderer", "error", err)
		}
		return r
	default:
		return nil
	}
}
