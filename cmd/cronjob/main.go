package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"donation-matching-backend/internal/config"
	"donation-matching-backend/internal/jobs"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/repository/postgres"
	"donation-matching-backend/internal/scheduler"
	"donation-matching-backend/internal/service"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'send-pickup-reminders', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Donation Matching Cronjob Runner...", "log_level", cfg.Log.Level)

	ctx := context.Background()

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)
	retry := repository.RetryPolicy{
		MaxAttempts:     cfg.Retry.MaxAttempts,
		InitialInterval: cfg.Retry.InitialInterval,
		MaxInterval:     cfg.Retry.MaxInterval,
	}
	clock := service.SystemClock(cfg.Location())

	// Initialize Services
	var emailSvc service.EmailService
	if cfg.SendGrid.APIKey == "" {
		logger.Warn("SendGrid API key not set, emails will only be logged")
		emailSvc = service.NewLogEmailService()
	} else {
		emailSvc = service.NewSendGridEmailService(cfg.SendGrid)
	}
	pushSvc, err := service.NewFirebasePushService(ctx, cfg.Firebase)
	if err != nil {
		logger.Error("Failed to initialize push notifications", "error", err)
		log.Fatalf("Failed to initialize push notifications: %v", err)
	}

	// jobs run in the foreground; deliver before the job returns
	notifier := service.NewNotifier(
		store.NotificationRepository,
		store.BusinessRepository,
		store.BeneficiaryRepository,
		emailSvc,
		pushSvc,
		cfg.Admin.Emails,
		service.WithSyncDelivery(),
	)
	lifecycle := service.NewLifecycle(store, store.DonationRepository, notifier)

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

	jobServices := &jobs.Services{
		Gate:     service.NewGateService(store.DonationRepository, store.MatchRepository, store.PickupRepository, retry),
		Matching: matchingSvc,
		Notifier: notifier,
	}
	jobRepos := &jobs.Repositories{
		Businesses:    store.BusinessRepository,
		Beneficiaries: store.BeneficiaryRepository,
		Donations:     store.DonationRepository,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, jobRepos, clock, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner, cfg.Location())
	if err != nil {
		log.Fatalf("Failed to register cron jobs: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "next_runs", cronScheduler.Entries())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "send-pickup-reminders":
		jobRunner.SendPickupReminders()
	case "send-review-digest":
		jobRunner.SendReviewDigest()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - send-pickup-reminders\n")
		fmt.Printf("  - send-review-digest\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
