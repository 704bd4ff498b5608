// Package setup wires configuration, logging, metrics and the ledger into
// one App shared by the binaries.
package setup

import (
	"context"
	"log"
	"time"

	"github.com/doom2286/Foxcom/internal/database"
	"github.com/doom2286/Foxcom/internal/metrics"
	"github.com/doom2286/Foxcom/internal/setup/config"
	"github.com/doom2286/Foxcom/internal/setup/telemetry"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.uber.org/zap"
)

// App bundles the dependencies every binary needs.
type App struct {
	Config     *config.Config     // Application configuration
	Logger     *zap.Logger        // Main application logger
	DBLogger   *zap.Logger        // Database-specific logger
	DB         database.Client    // Ledger connection
	Metrics    *metrics.Metrics   // Ledger and quota metrics
	LogManager *telemetry.Manager // Log session management
	tracing    bool
}

// InitializeApp loads configuration, starts logging and opens the ledger.
// Pending migrations are applied when autoMigrate is set.
func InitializeApp(
	ctx context.Context, serviceType telemetry.ServiceType, logDir string, autoMigrate bool, configNames ...string,
) (*App, error) {
	cfg, _, err := config.LoadConfig(configNames...)
	if err != nil {
		return nil, err
	}

	logManager := telemetry.NewManager(serviceType, logDir, &cfg.Common.Debug)

	logger, dbLogger, err := logManager.GetLoggers()
	if err != nil {
		return nil, err
	}

	tracing := configureTracing(&cfg.Common.Telemetry, serviceType)
	if tracing {
		logger.Info("Trace export enabled", zap.String("service", cfg.Common.Telemetry.ServiceName))
	}

	m := metrics.New()

	db, err := database.NewConnection(ctx, &cfg.Common, dbLogger, autoMigrate, database.WithMetrics(m))
	if err != nil {
		logger.Error("Failed to open ledger", zap.Error(err))
		_ = logManager.Stop()
		return nil, err
	}

	logger.Info("Application initialized",
		zap.String("sqlite", cfg.Common.SQLite.Path),
		zap.Duration("voteTTL", cfg.Common.Reputation.TTL()),
		zap.Duration("pruneInterval", cfg.Common.Reputation.PruneInterval()))

	return &App{
		Config:     cfg,
		Logger:     logger,
		DBLogger:   dbLogger.Named("database"),
		DB:         db,
		Metrics:    m,
		LogManager: logManager,
		tracing:    tracing,
	}, nil
}

// configureTracing installs the Uptrace OpenTelemetry exporter so ledger
// query spans and error spans leave the process.
func configureTracing(cfg *config.Telemetry, serviceType telemetry.ServiceType) bool {
	if cfg.UptraceDSN == "" {
		return false
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(cfg.UptraceDSN),
		uptrace.WithServiceName(cfg.ServiceName+"-"+serviceType.String()),
		uptrace.WithServiceVersion(config.RepositoryVersion),
	)

	return true
}

// Cleanup releases resources in reverse initialization order. Errors are
// logged so every component still gets its cleanup attempt.
func (s *App) Cleanup() {
	if err := s.DB.Close(); err != nil {
		s.Logger.Error("Failed to close database connection", zap.Error(err))
	}

	if s.tracing {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := uptrace.Shutdown(ctx); err != nil {
			s.Logger.Error("Failed to flush traces", zap.Error(err))
		}
		cancel()
	}

	if err := s.Logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	if err := s.DBLogger.Sync(); err != nil {
		log.Printf("Failed to sync DB logger: %v", err)
	}

	if err := s.LogManager.Stop(); err != nil {
		log.Printf("Failed to close log files: %v", err)
	}
}
