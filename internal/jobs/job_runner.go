package jobs

import (
	"context"

	"donation-matching-backend/internal/config"
	"donation-matching-backend/internal/logger"
	"donation-matching-backend/internal/repository"
	"donation-matching-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	repos    *Repositories
	clock    service.Clock
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Gate     service.GateService
	Matching service.MatchingService
	Notifier service.Notifier
}

// Repositories holds the read models the digest scans directly
type Repositories struct {
	Businesses    repository.BusinessRepository
	Beneficiaries repository.BeneficiaryRepository
	Donations     repository.DonationRepository
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, repos *Repositories, clock service.Clock, cfg *config.Config) *JobRunner {
	return &JobRunner{
		services: services,
		repos:    repos,
		clock:    clock,
		config:   cfg,
	}
}

// Config exposes the schedule the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context) error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	if err := jobFunc(context.Background()); err != nil {
		logger.Error("Job failed", "job", jobName, "error", err)
		return
	}
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SendPickupReminders()
	jr.SendReviewDigest()
}
