package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/infrastructure/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// VehicleRepository loads vehicle snapshots for the analytics engine.
type VehicleRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Vehicle, error)
	ListActive(ctx context.Context) ([]*entities.Vehicle, error)
	CountByStatus(ctx context.Context) (map[entities.VehicleStatus]int, error)
}

type vehicleRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewVehicleRepository creates a new vehicle repository.
func NewVehicleRepository(db *database.DB, logger *zap.Logger) VehicleRepository {
	return &vehicleRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID loads a single vehicle snapshot.
func (r *vehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Vehicle, error) {
	var vehicle entities.Vehicle
	query := `
		SELECT * FROM vehicles
		WHERE id = $1`

	err := r.db.GetContext(ctx, &vehicle, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrVehicleNotFound
		}
		r.logger.Error("Failed to get vehicle by ID",
			zap.Error(err),
			zap.String("vehicle_id", id.String()),
		)
		return nil, fmt.Errorf("failed to get vehicle by ID: %w", err)
	}

	return &vehicle, nil
}

// ListActive loads all non-retired vehicles ordered by name.
func (r *vehicleRepository) ListActive(ctx context.Context) ([]*entities.Vehicle, error) {
	vehicles := []*entities.Vehicle{}
	query := `
		SELECT * FROM vehicles
		WHERE is_retired = FALSE
		ORDER BY name ASC`

	if err := r.db.SelectContext(ctx, &vehicles, query); err != nil {
		r.logger.Error("Failed to list active vehicles", zap.Error(err))
		return nil, fmt.Errorf("failed to list active vehicles: %w", err)
	}

	return vehicles, nil
}

// CountByStatus counts non-retired vehicles per operational status.
func (r *vehicleRepository) CountByStatus(ctx context.Context) (map[entities.VehicleStatus]int, error) {
	rows := []struct {
		Status entities.VehicleStatus `db:"status"`
		Count  int                    `db:"count"`
	}{}

	query := `
		SELECT status, COUNT(*) AS count
		FROM vehicles
		WHERE is_retired = FALSE
		GROUP BY status`

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		r.logger.Error("Failed to count vehicles by status", zap.Error(err))
		return nil, fmt.Errorf("failed to count vehicles by status: %w", err)
	}

	counts := make(map[entities.VehicleStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
