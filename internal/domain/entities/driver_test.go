package entities

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewDriver(t *testing.T) {
	// Arrange
	name := "Ramesh Patel"
	email := "ramesh@fleet.com"
	phone := "9876543210"
	licenseNumber := "GJ0120190023456"
	licenseExpiry := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)

	// Act
	driver := NewDriver(name, email, phone, licenseNumber, licenseExpiry)

	// Assert
	assert.NotEqual(t, uuid.Nil, driver.ID)
	assert.Equal(t, name, driver.Name)
	assert.Equal(t, email, driver.Email)
	assert.Equal(t, phone, driver.Phone)
	assert.Equal(t, licenseNumber, driver.LicenseNumber)
	assert.Equal(t, DriverStatusOffDuty, driver.Status)
	assert.Equal(t, 0, driver.TotalTrips)
	assert.Equal(t, 0, driver.CompletedTrips)
	assert.Equal(t, 0.0, driver.SafetyScore)
}

func TestDriver_IsSuspended(t *testing.T) {
	tests := []struct {
		name     string
		status   DriverStatus
		expected bool
	}{
		{"On duty driver", DriverStatusOnDuty, false},
		{"Off duty driver", DriverStatusOffDuty, false},
		{"Suspended driver", DriverStatusSuspended, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := &Driver{Status: tt.status}
			assert.Equal(t, tt.expected, driver.IsSuspended())
		})
	}
}

func TestDriver_IsLicenseValid(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		licenseExpiry time.Time
		expected      bool
	}{
		{"Valid license", now.Add(24 * time.Hour), true},
		{"Expired license", now.Add(-24 * time.Hour), false},
		{"Expiring this instant", now, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			driver := &Driver{LicenseExpiry: tt.licenseExpiry}
			assert.Equal(t, tt.expected, driver.IsLicenseValid(now))
		})
	}
}

func TestDriver_Validate(t *testing.T) {
	validExpiry := time.Now().AddDate(1, 0, 0)

	tests := []struct {
		name        string
		driver      *Driver
		expectedErr error
	}{
		{
			name: "Valid driver",
			driver: &Driver{
				Name:          "Suresh Kumar",
				LicenseNumber: "GJ0120200034567",
				LicenseExpiry: validExpiry,
				Status:        DriverStatusOnDuty,
				TotalTrips:    10,
				CompletedTrips: 8,
			},
			expectedErr: nil,
		},
		{
			name: "Missing name",
			driver: &Driver{
				LicenseNumber: "GJ0120200034567",
				Status:        DriverStatusOnDuty,
			},
			expectedErr: ErrInvalidName,
		},
		{
			name: "Missing license",
			driver: &Driver{
				Name:   "Suresh Kumar",
				Status: DriverStatusOnDuty,
			},
			expectedErr: ErrInvalidLicense,
		},
		{
			name: "Completed exceeds total",
			driver: &Driver{
				Name:           "Suresh Kumar",
				LicenseNumber:  "GJ0120200034567",
				Status:         DriverStatusOnDuty,
				TotalTrips:     5,
				CompletedTrips: 6,
			},
			expectedErr: ErrInvalidTripCounts,
		},
		{
			name: "Negative trip count",
			driver: &Driver{
				Name:          "Suresh Kumar",
				LicenseNumber: "GJ0120200034567",
				Status:        DriverStatusOnDuty,
				TotalTrips:    -1,
			},
			expectedErr: ErrInvalidTripCounts,
		},
		{
			name: "Unknown status",
			driver: &Driver{
				Name:          "Suresh Kumar",
				LicenseNumber: "GJ0120200034567",
				Status:        DriverStatus("RETIRED"),
			},
			expectedErr: ErrInvalidStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.driver.Validate()
			if tt.expectedErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expectedErr)
			}
		})
	}
}
