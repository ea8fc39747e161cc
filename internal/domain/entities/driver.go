package entities

import (
	"time"

	"github.com/google/uuid"
)

// DriverStatus is the duty status of a driver.
type DriverStatus string

const (
	DriverStatusOnDuty    DriverStatus = "ON_DUTY"
	DriverStatusOffDuty   DriverStatus = "OFF_DUTY"
	DriverStatusSuspended DriverStatus = "SUSPENDED"
)

// Driver represents a driver snapshot as stored in the fleet database.
type Driver struct {
	ID             uuid.UUID    `json:"id" db:"id"`
	Name           string       `json:"name" db:"name"`
	Email          string       `json:"email" db:"email"`
	Phone          string       `json:"phone" db:"phone"`
	LicenseNumber  string       `json:"license_number" db:"license_number"`
	LicenseExpiry  time.Time    `json:"license_expiry" db:"license_expiry"`
	Status         DriverStatus `json:"status" db:"status"`
	TotalTrips     int          `json:"total_trips" db:"total_trips"`
	CompletedTrips int          `json:"completed_trips" db:"completed_trips"`
	SafetyScore    float64      `json:"safety_score" db:"safety_score"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// IsSuspended reports whether the driver is currently suspended.
func (d *Driver) IsSuspended() bool {
	return d.Status == DriverStatusSuspended
}

// IsLicenseValid reports whether the driver's license is still valid at the given time.
func (d *Driver) IsLicenseValid(now time.Time) bool {
	return d.LicenseExpiry.After(now)
}

// Validate checks driver data consistency.
func (d *Driver) Validate() error {
	if d.Name == "" {
		return ErrInvalidName
	}

	if d.LicenseNumber == "" {
		return ErrInvalidLicense
	}

	if d.TotalTrips < 0 || d.CompletedTrips < 0 {
		return ErrInvalidTripCounts
	}

	if d.CompletedTrips > d.TotalTrips {
		return ErrInvalidTripCounts
	}

	switch d.Status {
	case DriverStatusOnDuty, DriverStatusOffDuty, DriverStatusSuspended:
	default:
		return ErrInvalidStatus
	}

	return nil
}

// NewDriver creates a new driver in the OFF_DUTY state.
func NewDriver(name, email, phone, licenseNumber string, licenseExpiry time.Time) *Driver {
	now := time.Now().UTC()
	return &Driver{
		ID:            uuid.New(),
		Name:          name,
		Email:         email,
		Phone:         phone,
		LicenseNumber: licenseNumber,
		LicenseExpiry: licenseExpiry,
		Status:        DriverStatusOffDuty,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
