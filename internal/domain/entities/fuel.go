package entities

import (
	"time"

	"github.com/google/uuid"
)

// FuelExpense records a single fuel fill for a vehicle. TotalCost is recorded
// at fill time and is not re-derived from Liters and CostPerLiter.
// OdometerAtFuel is non-decreasing across a vehicle's fill history.
type FuelExpense struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	VehicleID      uuid.UUID  `json:"vehicle_id" db:"vehicle_id"`
	TripID         *uuid.UUID `json:"trip_id,omitempty" db:"trip_id"`
	FuelDate       time.Time  `json:"fuel_date" db:"fuel_date"`
	Liters         float64    `json:"liters" db:"liters"`
	CostPerLiter   float64    `json:"cost_per_liter" db:"cost_per_liter"`
	TotalCost      float64    `json:"total_cost" db:"total_cost"`
	OdometerAtFuel float64    `json:"odometer_at_fuel" db:"odometer_at_fuel"`
	Station        *string    `json:"station,omitempty" db:"station"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// Validate checks fuel expense consistency.
func (f *FuelExpense) Validate() error {
	if f.VehicleID == uuid.Nil {
		return ErrInvalidVehicleID
	}

	if f.Liters <= 0 || f.CostPerLiter <= 0 {
		return ErrInvalidFuelAmount
	}

	if f.OdometerAtFuel < 0 {
		return ErrInvalidOdometer
	}

	return nil
}
