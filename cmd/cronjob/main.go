package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"fleetrent-backend/internal/app"
	"fleetrent-backend/internal/config"
	"fleetrent-backend/internal/jobs"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/scheduler"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-statuses')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FleetRent Cronjob Runner...", "log_level", cfg.Log.Level)

	a, err := app.New(cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer a.Close()

	// If run-once mode, execute the specific job and exit
	if *runOnce != "" {
		if err := runJobOnce(a.JobRunner, *runOnce); err != nil {
			logger.Error("Job failed", "job", *runOnce, "error", err)
			a.Close()
			os.Exit(1)
		}
		logger.Info("Job completed successfully", "job", *runOnce)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sched, err := scheduler.NewScheduler(a.JobRunner)
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}
	sched.Start(ctx)

	logger.Info("Cronjob runner started. Press Ctrl+C to stop.", "schedule", cfg.Scheduler.ReconcileSchedule)
	<-ctx.Done()

	logger.Info("Shutting down cronjob runner...")
	sched.Stop()
	logger.Info("Cronjob runner stopped")
}

// runJobOnce executes a specific job once
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) error {
	ctx := context.Background()

	switch jobName {
	case "reconcile-statuses":
		n := jobRunner.ReconcileReservationStatuses(ctx)
		fmt.Printf("Transitioned %d reservation(s)\n", n)
		return nil
	default:
		return fmt.Errorf("unknown job: %s (valid: reconcile-statuses)", jobName)
	}
}
