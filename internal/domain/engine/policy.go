package engine

import "fleet-service/internal/domain/entities"

// Safety score weights. The maximum achievable score before the suspension
// penalty is exactly 100 (15 + 60 + 25).
const (
	SafetyBasePoints        = 15.0
	SafetyCompletionWeight  = 60.0
	SafetyLicenseWeight     = 25.0
	SafetySuspensionPenalty = 25.0
)

// Maintenance prediction policy.
const (
	// DefaultAvgDailyKm is assumed when a vehicle has no recorded distance yet.
	DefaultAvgDailyKm = 50.0

	// Urgency tier boundaries in kilometers until due.
	DueSoonWithinKm  = 500.0
	UpcomingWithinKm = 2000.0
)

// ServiceIntervalsKm is the fixed service interval per maintenance type.
// OTHER carries an interval for completeness but is not part of the
// monitored set, since it has no fixed-interval policy behind it.
var ServiceIntervalsKm = map[entities.MaintenanceType]float64{
	entities.MaintenanceOilChange:    5000,
	entities.MaintenanceTireRotation: 10000,
	entities.MaintenanceBrakeService: 20000,
	entities.MaintenanceEngineRepair: 30000,
	entities.MaintenanceInspection:   15000,
	entities.MaintenanceOther:        10000,
}

// MonitoredTypes lists the maintenance types covered by due prediction.
var MonitoredTypes = []entities.MaintenanceType{
	entities.MaintenanceOilChange,
	entities.MaintenanceTireRotation,
	entities.MaintenanceBrakeService,
	entities.MaintenanceEngineRepair,
	entities.MaintenanceInspection,
}

// Fuel anomaly detection policy.
const (
	// ZScoreThreshold is the absolute z-score at which an efficiency point
	// is flagged as an anomaly.
	ZScoreThreshold = 2.0

	// MinFuelSamples is the minimum number of efficiency points required
	// before outliers are judged at all.
	MinFuelSamples = 3
)

// Cost prediction policy.
const (
	// DefaultMonthsBack is the size of the rolling cost history window.
	DefaultMonthsBack = 6

	// TrendSlopeThreshold classifies the regression slope, in currency
	// units per month: above +50 is INCREASING, below -50 is DECREASING.
	TrendSlopeThreshold = 50.0
)
