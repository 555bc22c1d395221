package jobs

import (
	"fleetrent-backend/internal/clock"
	"fleetrent-backend/internal/config"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/metrics"
	"fleetrent-backend/internal/repository"
	"fleetrent-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store     repository.Store
	contracts *service.ContractManager
	clock     clock.Clock
	metrics   *metrics.Metrics
	config    *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store repository.Store, contracts *service.ContractManager, clk clock.Clock, m *metrics.Metrics, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:     store,
		contracts: contracts,
		clock:     clk,
		metrics:   m,
		config:    cfg,
	}
}

// Config returns the configuration the jobs were built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
