package services

import (
	"context"
	"fmt"
	"time"

	"fleet-service/internal/domain/engine"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Event types published by the insight service.
const (
	EventSafetyScoreUpdated = "driver.safety_score.updated"
	EventMaintenanceOverdue = "maintenance.overdue"
)

var engineComputations = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fleet_engine_computations_total",
		Help: "Engine computations served, by kind.",
	},
	[]string{"kind"},
)

// EventPublisher publishes engine events to interested consumers.
type EventPublisher interface {
	PublishDriverEvent(ctx context.Context, eventType string, driverID uuid.UUID, data interface{}) error
	PublishVehicleEvent(ctx context.Context, eventType string, vehicleID uuid.UUID, data interface{}) error
}

// InsightService exposes the per-entity analytics engine operations. All
// computations run over materialized snapshots; the only write is the
// persisted safety score.
type InsightService interface {
	GetSafetyScore(ctx context.Context, driverID uuid.UUID) (*engine.SafetyScoreBreakdown, error)
	RecomputeSafetyScore(ctx context.Context, driverID uuid.UUID) (float64, error)
	RecomputeAllSafetyScores(ctx context.Context) (int, error)
	GetMaintenancePrediction(ctx context.Context, vehicleID uuid.UUID) ([]*engine.MaintenancePrediction, error)
	GetFuelAnomalies(ctx context.Context, vehicleID uuid.UUID) (*engine.FuelAnomalyResult, error)
	GetCostPrediction(ctx context.Context, vehicleID uuid.UUID) (*engine.CostPrediction, error)
}

type insightService struct {
	driverRepo      repositories.DriverRepository
	vehicleRepo     repositories.VehicleRepository
	maintenanceRepo repositories.MaintenanceRepository
	fuelRepo        repositories.FuelRepository
	eventBus        EventPublisher
	logger          *zap.Logger
}

// NewInsightService creates a new InsightService.
func NewInsightService(
	driverRepo repositories.DriverRepository,
	vehicleRepo repositories.VehicleRepository,
	maintenanceRepo repositories.MaintenanceRepository,
	fuelRepo repositories.FuelRepository,
	eventBus EventPublisher,
	logger *zap.Logger,
) InsightService {
	return &insightService{
		driverRepo:      driverRepo,
		vehicleRepo:     vehicleRepo,
		maintenanceRepo: maintenanceRepo,
		fuelRepo:        fuelRepo,
		eventBus:        eventBus,
		logger:          logger,
	}
}

// GetSafetyScore computes the safety score breakdown for one driver without
// persisting anything.
func (s *insightService) GetSafetyScore(ctx context.Context, driverID uuid.UUID) (*engine.SafetyScoreBreakdown, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return nil, err
	}

	engineComputations.WithLabelValues("safety_score").Inc()
	return engine.ComputeSafetyScore(driver, time.Now().UTC()), nil
}

// RecomputeSafetyScore computes the score, persists it onto the driver record
// and publishes an update event.
func (s *insightService) RecomputeSafetyScore(ctx context.Context, driverID uuid.UUID) (float64, error) {
	driver, err := s.driverRepo.GetByID(ctx, driverID)
	if err != nil {
		return 0, err
	}

	breakdown := engine.ComputeSafetyScore(driver, time.Now().UTC())

	if err := s.driverRepo.UpdateSafetyScore(ctx, driverID, breakdown.FinalScore); err != nil {
		return 0, fmt.Errorf("failed to persist safety score: %w", err)
	}

	eventData := map[string]interface{}{
		"score":           breakdown.FinalScore,
		"completion_rate": breakdown.CompletionRate,
		"license_valid":   breakdown.LicenseValid,
		"is_suspended":    breakdown.IsSuspended,
	}

	if err := s.eventBus.PublishDriverEvent(ctx, EventSafetyScoreUpdated, driverID, eventData); err != nil {
		// The score is already persisted; a lost event is not fatal.
		s.logger.Error("Failed to publish safety score event",
			zap.Error(err),
			zap.String("driver_id", driverID.String()),
		)
	}

	s.logger.Info("Safety score recomputed",
		zap.String("driver_id", driverID.String()),
		zap.Float64("score", breakdown.FinalScore),
	)

	return breakdown.FinalScore, nil
}

// RecomputeAllSafetyScores recomputes and persists the score for every
// driver, skipping drivers that fail individually. Returns the number of
// drivers updated.
func (s *insightService) RecomputeAllSafetyScores(ctx context.Context) (int, error) {
	drivers, err := s.driverRepo.List(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, driver := range drivers {
		if _, err := s.RecomputeSafetyScore(ctx, driver.ID); err != nil {
			s.logger.Error("Failed to recompute safety score",
				zap.Error(err),
				zap.String("driver_id", driver.ID.String()),
			)
			continue
		}
		updated++
	}

	s.logger.Info("Fleet safety scores recomputed",
		zap.Int("updated", updated),
		zap.Int("total", len(drivers)),
	)

	return updated, nil
}

// GetMaintenancePrediction projects maintenance due points for one vehicle
// and publishes an event for every overdue type.
func (s *insightService) GetMaintenancePrediction(ctx context.Context, vehicleID uuid.UUID) ([]*engine.MaintenancePrediction, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	logs, err := s.maintenanceRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	engineComputations.WithLabelValues("maintenance_prediction").Inc()
	predictions := engine.PredictMaintenance(vehicle.CurrentOdometer, logs, vehicle.CreatedAt, 0, time.Now().UTC())

	for _, prediction := range predictions {
		if prediction.Urgency != engine.UrgencyOverdue {
			continue
		}

		eventData := map[string]interface{}{
			"type":         prediction.Type,
			"km_until_due": prediction.KmUntilDue,
		}

		if err := s.eventBus.PublishVehicleEvent(ctx, EventMaintenanceOverdue, vehicleID, eventData); err != nil {
			s.logger.Error("Failed to publish overdue maintenance event",
				zap.Error(err),
				zap.String("vehicle_id", vehicleID.String()),
				zap.String("type", string(prediction.Type)),
			)
		}
	}

	return predictions, nil
}

// GetFuelAnomalies runs outlier detection over one vehicle's fill history.
func (s *insightService) GetFuelAnomalies(ctx context.Context, vehicleID uuid.UUID) (*engine.FuelAnomalyResult, error) {
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	expenses, err := s.fuelRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	engineComputations.WithLabelValues("fuel_anomaly").Inc()
	return engine.DetectFuelAnomalies(vehicleID, expenses), nil
}

// GetCostPrediction forecasts next month's operating cost for one vehicle.
func (s *insightService) GetCostPrediction(ctx context.Context, vehicleID uuid.UUID) (*engine.CostPrediction, error) {
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	expenses, err := s.fuelRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	logs, err := s.maintenanceRepo.ListByVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	engineComputations.WithLabelValues("cost_prediction").Inc()
	return engine.PredictNextMonthCost(vehicleID, expenses, logs, engine.DefaultMonthsBack, time.Now().UTC()), nil
}
