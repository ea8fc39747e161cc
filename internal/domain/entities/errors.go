package entities

import "errors"

// Domain errors for fleet entities
var (
	// Driver errors
	ErrDriverNotFound    = errors.New("driver not found")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidLicense    = errors.New("invalid license number")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTripCounts = errors.New("invalid trip counts")
	ErrInvalidDriverID   = errors.New("invalid driver ID")

	// Vehicle errors
	ErrVehicleNotFound    = errors.New("vehicle not found")
	ErrInvalidVehicleID   = errors.New("invalid vehicle ID")
	ErrInvalidVehicleType = errors.New("invalid vehicle type")
	ErrInvalidOdometer    = errors.New("invalid odometer reading")

	// Trip errors
	ErrTripNotFound = errors.New("trip not found")

	// Maintenance errors
	ErrInvalidMaintenanceType = errors.New("invalid maintenance type")
	ErrInvalidCost            = errors.New("invalid cost")

	// Fuel errors
	ErrInvalidFuelAmount = errors.New("invalid fuel amount")

	// Request errors
	ErrInvalidDateRange = errors.New("invalid date range")
)
