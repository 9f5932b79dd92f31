package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"portfolio-backend/config"
	_ "portfolio-backend/docs" // Important for Swagger
	v1 "portfolio-backend/internal/delivery/http/v1"
	"portfolio-backend/internal/repository/postgres"
	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/database"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/logger"
	"portfolio-backend/pkg/security"
	"portfolio-backend/pkg/storage"
	"portfolio-backend/pkg/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// @title           Portfolio Contact API
// @version         1.0
// @description     Contact form backend: stores submissions, keeps attachments and emails the site owner.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	defer logger.Sync()
	logger.Log.Infow("Starting portfolio backend", "port", cfg.Port, "version", cfg.Version)

	ctx := context.Background()

	// 3. Setup Database
	if cfg.RunMigrations {
		if err := database.RunMigrations(cfg.DBUrl); err != nil {
			logger.Log.Fatalw("Failed to run migrations", "error", err)
		}
	}
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Fatalw("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	// 4. Setup Attachment Storage
	store, err := newAttachmentStore(ctx, cfg)
	if err != nil {
		logger.Log.Fatalw("Failed to initialize attachment storage", "driver", cfg.StorageDriver, "error", err)
	}
	intake := security.NewFileIntake(store, cfg.UploadVerifyContent)

	// 5. Setup Email Service
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	mailer, err := email.NewMailer(cfg, email.NewTransport(cfg), email.NewMetrics(registry))
	if err != nil {
		logger.Log.Fatalw("Failed to initialize email service", "error", err)
	}
	if !mailer.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - notifications will fail and be logged")
	}

	// 6. Setup UseCases
	contactRepo := postgres.NewContactRepository(dbPool)
	contactUC := usecase.NewContactUsecase(contactRepo, intake, mailer, validation.New(), usecase.ContactOptions{
		EmailTimeout: cfg.EmailTimeout,
		AttachUpload: cfg.NotifyAttachUpload,
	})
	healthUC := usecase.NewHealthUsecase(dbPool, cfg.Version)

	if cfg.AdminJWTSecret == "" {
		logger.Log.Warn("ADMIN_JWT_SECRET not set - admin contact endpoints are unauthenticated")
	}

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ContactUC: contactUC,
		HealthUC:  healthUC,
		Gatherer:  registry,
		Config:    cfg,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("Server forced to shutdown", "error", err)
	}

	// Let in-flight notification emails finish; each is bounded by EMAIL_TIMEOUT
	contactUC.Wait()

	logger.Log.Info("Server exiting")
}

func newAttachmentStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	if cfg.StorageDriver != "s3" {
		return storage.NewLocalStore(cfg.UploadDir)
	}

	client, err := storage.NewS3Client(ctx, storage.S3Config{
		Provider:        storage.S3Provider(cfg.S3Provider),
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Region:          cfg.S3Region,
		Bucket:          cfg.S3Bucket,
		Endpoint:        cfg.S3Endpoint,
	})
	if err != nil {
		return nil, err
	}
	return storage.NewS3Store(client, cfg.S3Bucket, "contact-attachments"), nil
}
