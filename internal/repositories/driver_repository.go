package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/infrastructure/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DriverRepository loads driver snapshots and persists recomputed safety
// scores. The score update is the engine's only write path.
type DriverRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error)
	List(ctx context.Context) ([]*entities.Driver, error)
	UpdateSafetyScore(ctx context.Context, id uuid.UUID, score float64) error
}

type driverRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewDriverRepository creates a new driver repository.
func NewDriverRepository(db *database.DB, logger *zap.Logger) DriverRepository {
	return &driverRepository{
		db:     db,
		logger: logger,
	}
}

// GetByID loads a single driver snapshot.
func (r *driverRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error) {
	var driver entities.Driver
	query := `
		SELECT * FROM drivers
		WHERE id = $1`

	err := r.db.GetContext(ctx, &driver, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, entities.ErrDriverNotFound
		}
		r.logger.Error("Failed to get driver by ID",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return nil, fmt.Errorf("failed to get driver by ID: %w", err)
	}

	return &driver, nil
}

// List loads all driver snapshots ordered by name.
func (r *driverRepository) List(ctx context.Context) ([]*entities.Driver, error) {
	drivers := []*entities.Driver{}
	query := `
		SELECT * FROM drivers
		ORDER BY name ASC`

	if err := r.db.SelectContext(ctx, &drivers, query); err != nil {
		r.logger.Error("Failed to list drivers", zap.Error(err))
		return nil, fmt.Errorf("failed to list drivers: %w", err)
	}

	return drivers, nil
}

// UpdateSafetyScore writes a recomputed safety score onto the driver record.
func (r *driverRepository) UpdateSafetyScore(ctx context.Context, id uuid.UUID, score float64) error {
	query := `
		UPDATE drivers
		SET safety_score = $2, updated_at = $3
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, score, time.Now().UTC())
	if err != nil {
		r.logger.Error("Failed to update safety score",
			zap.Error(err),
			zap.String("driver_id", id.String()),
		)
		return fmt.Errorf("failed to update safety score: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}

	if rows == 0 {
		return entities.ErrDriverNotFound
	}

	return nil
}
