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

// TripRepository loads trip history for revenue, distance and activity
// analytics.
type TripRepository interface {
	ListCompletedByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.Trip, error)
	ListCompletedInRange(ctx context.Context, start, end time.Time) ([]*entities.Trip, error)
	CountPending(ctx context.Context) (int, error)
	DailyCounts(ctx context.Context, start, end time.Time) (map[string]int, error)
}

type tripRepository struct {
	db     *database.DB
	logger *zap.Logger
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(db *database.DB, logger *zap.Logger) TripRepository {
	return &tripRepository{
		db:     db,
		logger: logger,
	}
}

// ListCompletedByVehicle loads a vehicle's full completed trip history.
func (r *tripRepository) ListCompletedByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.Trip, error) {
	trips := []*entities.Trip{}
	query := `
		SELECT * FROM trips
		WHERE vehicle_id = $1 AND status = $2
		ORDER BY completed_at ASC`

	if err := r.db.SelectContext(ctx, &trips, query, vehicleID, entities.TripStatusCompleted); err != nil {
		r.logger.Error("Failed to list completed trips for vehicle",
			zap.Error(err),
			zap.String("vehicle_id", vehicleID.String()),
		)
		return nil, fmt.Errorf("failed to list completed trips for vehicle: %w", err)
	}

	return trips, nil
}

// ListCompletedInRange loads all trips completed within [start, end].
func (r *tripRepository) ListCompletedInRange(ctx context.Context, start, end time.Time) ([]*entities.Trip, error) {
	trips := []*entities.Trip{}
	query := `
		SELECT * FROM trips
		WHERE status = $1 AND completed_at >= $2 AND completed_at <= $3
		ORDER BY completed_at ASC`

	if err := r.db.SelectContext(ctx, &trips, query, entities.TripStatusCompleted, start, end); err != nil {
		r.logger.Error("Failed to list completed trips in range",
			zap.Error(err),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("failed to list completed trips in range: %w", err)
	}

	return trips, nil
}

// CountPending counts trips waiting for dispatch or in flight.
func (r *tripRepository) CountPending(ctx context.Context) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM trips
		WHERE status IN ($1, $2)`

	if err := r.db.GetContext(ctx, &count, query, entities.TripStatusDraft, entities.TripStatusDispatched); err != nil {
		r.logger.Error("Failed to count pending trips", zap.Error(err))
		return 0, fmt.Errorf("failed to count pending trips: %w", err)
	}

	return count, nil
}

// DailyCounts counts trips created per UTC day within [start, end], keyed by
// date in YYYY-MM-DD form. Days without trips are absent from the map.
func (r *tripRepository) DailyCounts(ctx context.Context, start, end time.Time) (map[string]int, error) {
	rows := []struct {
		Day   time.Time `db:"day"`
		Count int       `db:"count"`
	}{}

	query := `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, COUNT(*) AS count
		FROM trips
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY day
		ORDER BY day ASC`

	if err := r.db.SelectContext(ctx, &rows, query, start, end); err != nil {
		r.logger.Error("Failed to count trips per day", zap.Error(err))
		return nil, fmt.Errorf("failed to count trips per day: %w", err)
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Day.Format("2006-01-02")] = row.Count
	}

	return counts, nil
}
