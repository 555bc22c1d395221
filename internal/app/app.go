package app

import (
	"database/sql"
	"fmt"
	"net/http"

	"fleetrent-backend/internal/clock"
	"fleetrent-backend/internal/config"
	"fleetrent-backend/internal/jobs"
	"fleetrent-backend/internal/logger"
	"fleetrent-backend/internal/metrics"
	"fleetrent-backend/internal/repository"
	"fleetrent-backend/internal/repository/memory"
	"fleetrent-backend/internal/repository/postgres"
	"fleetrent-backend/internal/security"
	"fleetrent-backend/internal/service"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// App is the wired object graph shared by the server and cronjob binaries.
type App struct {
	Config       *config.Config
	Store        repository.Store
	Clock        clock.Clock
	Registry     *prometheus.Registry
	Metrics      *metrics.Metrics
	Tokens       security.TokenManager
	Contracts    *service.ContractManager
	Reservations service.ReservationService
	Auth         service.AuthService
	JobRunner    *jobs.JobRunner

	db *sql.DB
}

// New opens the configured store and builds every service on top of it.
func New(cfg *config.Config) (*App, error) {
	store, db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config: cfg,
		Store:  store,
		Clock:  clock.NewSystem(cfg.Location()),
		Tokens: security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL()),
		db:     db,
	}

	if cfg.Metrics.Enabled {
		a.Registry = prometheus.NewRegistry()
		a.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.Metrics = metrics.NewMetrics(a.Registry)
	}

	var emailSvc service.EmailService
	if cfg.Email.SendGridAPIKey != "" {
		emailSvc = service.NewEmailService(cfg.Email.SendGridAPIKey, cfg.Email.FromAddress, cfg.Email.FromName)
	} else {
		logger.Warn("SendGrid API key not configured, email notifications disabled")
		emailSvc = service.NewNoopEmailService()
	}

	a.Contracts = service.NewContractManager(store, a.Clock, a.Metrics)
	a.Reservations = service.NewReservationService(store, a.Contracts, a.Clock, cfg.Rental, emailSvc, a.Metrics)
	repos := store.Repos()
	a.Auth = service.NewAuthService(repos.Customers, repos.Employees, a.Tokens)
	a.JobRunner = jobs.NewJobRunner(store, a.Contracts, a.Clock, a.Metrics, cfg)

	return a, nil
}

// MetricsHandler serves the app registry, or nil when metrics are disabled.
func (a *App) MetricsHandler() http.Handler {
	if a.Registry == nil {
		return nil
	}
	return promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func openStore(cfg *config.Config) (repository.Store, *sql.DB, error) {
	switch cfg.Database.Type {
	case "memory":
		if cfg.Database.FixtureFile == "" {
			logger.Info("Using empty in-memory store")
			return memory.NewStore(), nil, nil
		}
		store, err := memory.LoadFixture(cfg.Database.FixtureFile)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using in-memory store", "fixture", cfg.Database.FixtureFile)
		return store, nil, nil
	default:
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("failed to ping database: %w", err)
		}
		logger.Info("Connected to database", "host", cfg.Database.Host, "database", cfg.Database.Database)
		return postgres.NewStore(db), db, nil
	}
}
