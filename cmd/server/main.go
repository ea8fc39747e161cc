package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"fleet-service/internal/config"
	"fleet-service/internal/domain/services"
	"fleet-service/internal/infrastructure/cache"
	"fleet-service/internal/infrastructure/database"
	"fleet-service/internal/infrastructure/events"
	httpServer "fleet-service/internal/interfaces/http"
	httpHandlers "fleet-service/internal/interfaces/http/handlers"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Application wires configuration, storage, services and servers together.
type Application struct {
	config *config.Config
	logger *zap.Logger
	db     *database.DB
	redis  *cache.RedisCache
	nats   *events.NATSPublisher

	// Repositories
	driverRepo      repositories.DriverRepository
	vehicleRepo     repositories.VehicleRepository
	tripRepo        repositories.TripRepository
	maintenanceRepo repositories.MaintenanceRepository
	fuelRepo        repositories.FuelRepository

	// Services
	insightService   services.InsightService
	analyticsService services.AnalyticsService

	// Servers
	httpServer *httpServer.Server

	// Shutdown
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Run(); err != nil {
		app.logger.Fatal("Application failed", zap.Error(err))
	}

	app.logger.Info("Application stopped gracefully")
}

// NewApplication builds the application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	logger, err := initLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting Fleet Service",
		zap.String("version", "1.0.0"),
		zap.String("environment", cfg.Server.Environment),
		zap.Int("http_port", cfg.Server.HTTPPort),
	)

	db, err := database.NewPostgresDB(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	migrationsPath := filepath.Join("internal", "infrastructure", "database", "migrations")
	if err := db.RunMigrations(migrationsPath); err != nil {
		// Migrations may already be applied; the service can still run.
		logger.Error("Failed to run migrations", zap.Error(err))
	}

	app := &Application{
		config:   cfg,
		logger:   logger,
		db:       db,
		shutdown: make(chan struct{}),
	}

	app.initInfrastructure()
	app.initRepositories()
	app.initServices()
	app.initServers()

	return app, nil
}

func initLogger(cfg config.LoggerConfig) (*zap.Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level.SetLevel(level)

	if cfg.OutputPath != "" && cfg.OutputPath != "stdout" {
		zapConfig.OutputPaths = []string{cfg.OutputPath}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

// initInfrastructure connects the optional Redis and NATS backends. Both
// degrade rather than fail startup: analytics runs uncached without Redis,
// and events fall back to a logging publisher without NATS.
func (app *Application) initInfrastructure() {
	if app.config.Redis.Enabled {
		redisCache, err := cache.NewRedisCache(&app.config.Redis, app.logger)
		if err != nil {
			app.logger.Warn("Redis unavailable, analytics summaries will not be cached", zap.Error(err))
		} else {
			app.redis = redisCache
		}
	}

	if app.config.NATS.Enabled {
		publisher, err := events.NewNATSPublisher(&app.config.NATS, app.logger)
		if err != nil {
			app.logger.Warn("NATS unavailable, events will only be logged", zap.Error(err))
		} else {
			app.nats = publisher
		}
	}
}

func (app *Application) initRepositories() {
	app.driverRepo = repositories.NewDriverRepository(app.db, app.logger)
	app.vehicleRepo = repositories.NewVehicleRepository(app.db, app.logger)
	app.tripRepo = repositories.NewTripRepository(app.db, app.logger)
	app.maintenanceRepo = repositories.NewMaintenanceRepository(app.db, app.logger)
	app.fuelRepo = repositories.NewFuelRepository(app.db, app.logger)

	app.logger.Info("Repositories initialized")
}

func (app *Application) initServices() {
	var eventBus services.EventPublisher = &loggingEventPublisher{logger: app.logger}
	if app.nats != nil {
		eventBus = app.nats
	}

	app.insightService = services.NewInsightService(
		app.driverRepo,
		app.vehicleRepo,
		app.maintenanceRepo,
		app.fuelRepo,
		eventBus,
		app.logger,
	)

	var summaryCache services.SummaryCache
	if app.redis != nil {
		summaryCache = app.redis
	}

	app.analyticsService = services.NewAnalyticsService(
		app.driverRepo,
		app.vehicleRepo,
		app.tripRepo,
		app.maintenanceRepo,
		app.fuelRepo,
		summaryCache,
		app.config.Analytics.SummaryCacheTTL,
		app.logger,
	)

	app.logger.Info("Services initialized")
}

func (app *Application) initServers() {
	insightHandler := httpHandlers.NewInsightHandler(app.insightService, app.logger)
	analyticsHandler := httpHandlers.NewAnalyticsHandler(
		app.analyticsService,
		app.config.Analytics.DefaultRangeMonths,
		app.logger,
	)

	app.httpServer = httpServer.NewServer(
		app.config,
		app.logger,
		insightHandler,
		analyticsHandler,
		app.db.Health,
	)

	app.logger.Info("Servers initialized")
}

// Run starts the servers and background tasks, then blocks until shutdown.
func (app *Application) Run() error {
	app.wg.Add(1)
	go app.runBackgroundTasks()

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		if err := app.httpServer.Start(); err != nil {
			app.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	case <-app.shutdown:
		app.logger.Info("Received shutdown from internal source")
	}

	return app.gracefulShutdown()
}

// runBackgroundTasks periodically recomputes every driver's safety score so
// persisted scores stay current even when no client asks for them.
func (app *Application) runBackgroundTasks() {
	defer app.wg.Done()

	recomputeTicker := time.NewTicker(app.config.Analytics.RecomputeInterval)
	defer recomputeTicker.Stop()

	for {
		select {
		case <-recomputeTicker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
			if _, err := app.insightService.RecomputeAllSafetyScores(ctx); err != nil {
				app.logger.Error("Scheduled safety score recompute failed", zap.Error(err))
			}
			cancel()

		case <-app.shutdown:
			app.logger.Info("Stopping background tasks")
			return
		}
	}
}

func (app *Application) gracefulShutdown() error {
	app.logger.Info("Starting graceful shutdown")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(app.shutdown)

	if err := app.httpServer.Stop(ctx); err != nil {
		app.logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Info("All goroutines stopped")
	case <-ctx.Done():
		app.logger.Error("Shutdown timeout exceeded")
	}

	if app.nats != nil {
		app.nats.Close()
	}

	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}

	if err := app.db.Close(); err != nil {
		app.logger.Error("Failed to close database connection", zap.Error(err))
	}

	app.logger.Info("Graceful shutdown completed")
	return nil
}

// loggingEventPublisher stands in for NATS when it is disabled or down.
type loggingEventPublisher struct {
	logger *zap.Logger
}

func (p *loggingEventPublisher) PublishDriverEvent(ctx context.Context, eventType string, driverID uuid.UUID, data interface{}) error {
	p.logger.Info("Publishing driver event",
		zap.String("event_type", eventType),
		zap.String("driver_id", driverID.String()),
		zap.Any("data", data),
	)
	return nil
}

func (p *loggingEventPublisher) PublishVehicleEvent(ctx context.Context, eventType string, vehicleID uuid.UUID, data interface{}) error {
	p.logger.Info("Publishing vehicle event",
		zap.String("event_type", eventType),
		zap.String("vehicle_id", vehicleID.String()),
		zap.Any("data", data),
	)
	return nil
}
