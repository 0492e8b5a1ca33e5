package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcapi "donation-matching-backend/internal/api/grpc"
	httpapi "donation-matching-backend/internal/api/http"
	"donation-matching-backend/internal/config"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/repository/postgres"
	"donation-matching-backend/internal/security"
	"donation-matching-backend/internal/service"
	"donation-matching-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	migrate := flag.Bool("migrate", false, "Apply the database schema before serving")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Donation Matching Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "grpc_address", cfg.GetGRPCAddress(), "timezone", cfg.Server.Timezone)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if *migrate {
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}

	// Initialize Repositories
	store := postgres.NewStore(db)
	retry := repository.RetryPolicy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
	}
	clock := service.SystemClock(cfg.Location())

	// Initialize Storage Service
	docStorage, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Error("Failed to initialize storage", "type", cfg.Storage.Type, "error", err)
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("Document storage ready", "type", cfg.Storage.Type)

	// Initialize Email and Push
	emailSvc := newEmailService(cfg)
	pushSvc, err := service.NewFirebasePushService(ctx, cfg.Firebase)
	if err != nil {
		logger.Error("Failed to initialize push notifications", "error", err)
		log.Fatalf("Failed to initialize push notifications: %v", err)
	}
	if pushSvc == nil {
		logger.Info("Push notifications disabled")
	}
	notifier := service.NewNotifier(
		store.NotificationRepository,
		store.BusinessRepository,
		store.BeneficiaryRepository,
		emailSvc,
		pushSvc,
		cfg.Admin.Emails,
	)

	// Initialize Services
	lifecycle := service.NewLifecycle(store, store.DonationRepository, notifier)
	donationSvc := service.NewDonationService(
		store,
		store.DonationRepository,
		store.MatchRepository,
		store.QuoteRepository,
		store.PickupRepository,
		store.BusinessRepository,
		lifecycle,
		notifier,
		retry,
		clock,
	)
	matchingSvc := service.NewMatchingService(
		store,
		store.DonationRepository,
		store.MatchRepository,
		store.BeneficiaryRepository,
		lifecycle,
		notifier,
		retry,
		clock,
	)
	quoteSvc := service.NewQuoteService(
		store,
		store.DonationRepository,
		store.MatchRepository,
		store.QuoteRepository,
		lifecycle,
		notifier,
		retry,
		clock,
		cfg.Quote.DefaultCommissionRate,
		cfg.Quote.VATRate,
	)
	gateSvc := service.NewGateService(store.DonationRepository, store.MatchRepository, store.PickupRepository, retry)
	registrationSvc := service.NewRegistrationService(
		store,
		store.ProfileRepository,
		store.BusinessRepository,
		store.BeneficiaryRepository,
		notifier,
		retry,
	)
	documentSvc := service.NewDocumentService(
		store,
		docStorage,
		store.BusinessRepository,
		store.BeneficiaryRepository,
		store.DonationRepository,
		store.MatchRepository,
		notifier,
		clock,
		cfg.PresignExpiry(),
		cfg.Storage.MaxFileSizeMB,
		cfg.Storage.AllowedTypes,
	)
	noteSvc := service.NewNotificationService(store.NotificationRepository, retry)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.Issuer)

	// Set up HTTP API
	handler := httpapi.NewHandler(httpapi.Services{
		Donations:     donationSvc,
		Matching:      matchingSvc,
		Quotes:        quoteSvc,
		Gate:          gateSvc,
		Registration:  registrationSvc,
		Documents:     documentSvc,
		Notifications: noteSvc,
	}, clock)

	// Mock storage serves its own presigned URLs
	var storageHandler *httpapi.StorageHandler
	if local, ok := docStorage.(storage.LocalStorage); ok {
		storageHandler = httpapi.NewStorageHandler(local, cfg.Storage.AllowedTypes, cfg.Storage.MaxFileSizeMB)
	}

	router := httpapi.NewRouter(handler, httpapi.NewAuthMiddleware(tokenManager, store.ProfileRepository), storageHandler)
	httpServer := &http.Server{
		Addr:              cfg.GetServerAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Set up gRPC health server
	var grpcServer *grpcapi.Server
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}
		grpcServer = grpcapi.NewServer(tokenManager)
		grpcServer.SetServing(true)
		go func() {
			logger.Info("gRPC server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	// Graceful shutdown
	if grpcServer != nil {
		grpcServer.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}

func newEmailService(cfg *config.Config) service.EmailService {
	if cfg.SendGrid.APIKey == "" {
		logger.Warn("SendGrid API key not set, emails will only be logged")
		return service.NewLogEmailService()
	}
	logger.Info("SendGrid email enabled", "from", cfg.SendGrid.FromEmail)
	return service.NewSendGridEmailService(cfg.SendGrid)
}
