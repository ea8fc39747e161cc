package entities

import (
	"time"

	"github.com/google/uuid"
)

// TripStatus is the dispatch state of a trip.
type TripStatus string

const (
	TripStatusDraft      TripStatus = "DRAFT"
	TripStatusDispatched TripStatus = "DISPATCHED"
	TripStatusCompleted  TripStatus = "COMPLETED"
	TripStatusCancelled  TripStatus = "CANCELLED"
)

// Trip represents a cargo trip. EndOdometer, Revenue and CompletedAt are set
// only when the trip reaches COMPLETED.
type Trip struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	TripCode      string     `json:"trip_code" db:"trip_code"`
	VehicleID     uuid.UUID  `json:"vehicle_id" db:"vehicle_id"`
	DriverID      uuid.UUID  `json:"driver_id" db:"driver_id"`
	Status        TripStatus `json:"status" db:"status"`
	Origin        string     `json:"origin" db:"origin"`
	Destination   string     `json:"destination" db:"destination"`
	CargoWeightKg float64    `json:"cargo_weight_kg" db:"cargo_weight_kg"`
	StartOdometer *float64   `json:"start_odometer,omitempty" db:"start_odometer"`
	EndOdometer   *float64   `json:"end_odometer,omitempty" db:"end_odometer"`
	Revenue       float64    `json:"revenue" db:"revenue"`
	ScheduledAt   time.Time  `json:"scheduled_at" db:"scheduled_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// IsCompleted reports whether the trip has been completed.
func (t *Trip) IsCompleted() bool {
	return t.Status == TripStatusCompleted
}

// IsPending reports whether the trip is waiting for dispatch or in flight.
func (t *Trip) IsPending() bool {
	return t.Status == TripStatusDraft || t.Status == TripStatusDispatched
}

// Distance returns the odometer distance covered by the trip. The second
// return value is false when either odometer reading is missing.
func (t *Trip) Distance() (float64, bool) {
	if t.StartOdometer == nil || t.EndOdometer == nil {
		return 0, false
	}
	return *t.EndOdometer - *t.StartOdometer, true
}
