package entities

import (
	"time"

	"github.com/google/uuid"
)

// MaintenanceType is the category of a maintenance service.
type MaintenanceType string

const (
	MaintenanceOilChange    MaintenanceType = "OIL_CHANGE"
	MaintenanceTireRotation MaintenanceType = "TIRE_ROTATION"
	MaintenanceBrakeService MaintenanceType = "BRAKE_SERVICE"
	MaintenanceEngineRepair MaintenanceType = "ENGINE_REPAIR"
	MaintenanceInspection   MaintenanceType = "INSPECTION"
	MaintenanceOther        MaintenanceType = "OTHER"
)

// MaintenanceLog records a single service performed on a vehicle.
// NextServiceKm, when set, is the odometer reading at which the next service
// of this type is explicitly scheduled.
type MaintenanceLog struct {
	ID            uuid.UUID       `json:"id" db:"id"`
	VehicleID     uuid.UUID       `json:"vehicle_id" db:"vehicle_id"`
	Type          MaintenanceType `json:"type" db:"type"`
	Description   string          `json:"description" db:"description"`
	Cost          float64         `json:"cost" db:"cost"`
	ServiceDate   time.Time       `json:"service_date" db:"service_date"`
	NextServiceKm *float64        `json:"next_service_km,omitempty" db:"next_service_km"`
	IsResolved    bool            `json:"is_resolved" db:"is_resolved"`
	VendorName    string          `json:"vendor_name" db:"vendor_name"`
	InvoiceRef    *string         `json:"invoice_ref,omitempty" db:"invoice_ref"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`
}

// Validate checks maintenance log consistency.
func (m *MaintenanceLog) Validate() error {
	if m.VehicleID == uuid.Nil {
		return ErrInvalidVehicleID
	}

	if m.Cost < 0 {
		return ErrInvalidCost
	}

	switch m.Type {
	case MaintenanceOilChange, MaintenanceTireRotation, MaintenanceBrakeService,
		MaintenanceEngineRepair, MaintenanceInspection, MaintenanceOther:
	default:
		return ErrInvalidMaintenanceType
	}

	return nil
}
