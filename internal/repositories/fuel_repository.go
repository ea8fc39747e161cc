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

// FuelRepository loads fuel fill history for efficiency and cost analytics.
type FuelRepository interface {
	ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.FuelExpense, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]*entities.FuelExpense, error)
}

type fuelRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewFuelRepository creates a new fuel expense repository.
func NewFuelRepository(db *database.DB, logger *zap.Logger) FuelRepository {
	return &fuelRepository{
		db:     db,
		logger: logger,
	}
}

// ListByVehicle loads a vehicle's fill history in odometer order, the order
// the anomaly detector consumes.
func (r *fuelRepository) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.FuelExpense, error) {
	expenses := []*entities.FuelExpense{}
	query := `
		SELECT * FROM fuel_expenses
		WHERE vehicle_id = $1
		ORDER BY odometer_at_fuel ASC`

	if err := r.db.SelectContext(ctx, &expenses, query, vehicleID); err != nil {
		r.logger.Error("Failed to list fuel expenses for vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("failed to list fuel expenses for vehicle: %w", err)
	}

	return expenses, nil
}

// ListInRange loads all fuel expenses with a fuel date within [start, end].
func (r *fuelRepository) ListInRange(ctx context.Context, start, end time.Time) ([]*entities.FuelExpense, error) {
	expenses := []*entities.FuelExpense{}
	query := `
		SELECT * FROM fuel_expenses
		WHERE fuel_date >= $1 AND fuel_date <= $2
		ORDER BY fuel_date ASC`

	if err := r.db.SelectContext(ctx, &expenses, query, start, end); err != nil {
		r.logger.Error("Failed to list fuel expenses in range",
			zap.Error(err),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("failed to list fuel expenses in range: %w", err)
	}

	return expenses, nil
}
