package entities

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the operational status of a vehicle.
type VehicleStatus string

const (
	VehicleStatusAvailable    VehicleStatus = "AVAILABLE"
	VehicleStatusOnTrip       VehicleStatus = "ON_TRIP"
	VehicleStatusInShop       VehicleStatus = "IN_SHOP"
	VehicleStatusOutOfService VehicleStatus = "OUT_OF_SERVICE"
)

// VehicleType is the class of a vehicle.
type VehicleType string

const (
	VehicleTypeTruck VehicleType = "TRUCK"
	VehicleTypeVan   VehicleType = "VAN"
	VehicleTypeBike  VehicleType = "BIKE"
)

// Vehicle represents a vehicle snapshot as stored in the fleet database.
// CurrentOdometer is monotonically non-decreasing over the vehicle's life.
type Vehicle struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	Name            string        `json:"name" db:"name"`
	Model           string        `json:"model" db:"model"`
	LicensePlate    string        `json:"license_plate" db:"license_plate"`
	Type            VehicleType   `json:"type" db:"type"`
	Status          VehicleStatus `json:"status" db:"status"`
	CurrentOdometer float64       `json:"current_odometer" db:"current_odometer"`
	MaxCapacityKg   float64       `json:"max_capacity_kg" db:"max_capacity_kg"`
	AcquisitionCost float64       `json:"acquisition_cost" db:"acquisition_cost"`
	AcquisitionDate time.Time     `json:"acquisition_date" db:"acquisition_date"`
	IsRetired       bool          `json:"is_retired" db:"is_retired"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the vehicle is part of the working fleet.
func (v *Vehicle) IsActive() bool {
	return !v.IsRetired
}

// Validate checks vehicle data consistency.
func (v *Vehicle) Validate() error {
	if v.Name == "" || v.LicensePlate == "" {
		return ErrInvalidName
	}

	if v.CurrentOdometer < 0 {
		return ErrInvalidOdometer
	}

	switch v.Type {
	case VehicleTypeTruck, VehicleTypeVan, VehicleTypeBike:
	default:
		return ErrInvalidVehicleType
	}

	return nil
}

// NewVehicle creates a new available vehicle.
func NewVehicle(name, model, licensePlate string, vehicleType VehicleType) *Vehicle {
	now := time.Now().UTC()
	return &Vehicle{
		ID:           uuid.New(),
		Name:         name,
		Model:        model,
		LicensePlate: licensePlate,
		Type:         vehicleType,
		Status:       VehicleStatusAvailable,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
