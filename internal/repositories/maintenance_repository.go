package repositories

import (
	"context"
	"fmt"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/infrastructure/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaintenanceRepository loads maintenance history for prediction and cost
// analytics.
type MaintenanceRepository interface {
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.MaintenanceLog, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]*entities.MaintenanceLog, error)
}

type maintenanceRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewMaintenanceRepository creates a new maintenance repository.
func NewMaintenanceRepository(db *database.DB, logger *zap.Logger) MaintenanceRepository {
	return &maintenanceRepository{
		db:     db,
		logger: logger,
	}
}

// ListByVehicle loads a vehicle's maintenance history, most recent service
// first.
func (r *maintenanceRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.MaintenanceLog, error) {
	logs := []*entities.MaintenanceLog{}
	query := `
		SELECT * FROM maintenance_logs
		WHERE vehicle_id = $1
		ORDER BY service_date DESC`

	if err := r.db.SelectContext(ctx, &logs, query, vehicleID); err != nil {
		r.logger.Error("Failed to list maintenance logs for vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("failed to list maintenance logs for vehicle: %w", err)
	}

	return logs, nil
}

// ListInRange loads all maintenance logs with a service date within [start, end].
func (r *maintenanceRepository) ListInRange(ctx context.Context, start, end time.Time) ([]*entities.MaintenanceLog, error) {
	logs := []*entities.MaintenanceLog{}
	query := `
		SELECT * FROM maintenance_logs
		WHERE service_date >= $1 AND service_date <= $2
		ORDER BY service_date ASC`

	if err := r.db.SelectContext(ctx, &logs, query, start, end); err != nil {
		r.logger.Error("Failed to list maintenance logs in range",
			zap.Error(err),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("failed to list maintenance logs in range: %w", err)
	}

	return logs, nil
}
