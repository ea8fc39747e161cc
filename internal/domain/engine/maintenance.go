package engine

import (
	"math"
	"time"

	"fleet-service/internal/domain/entities"
)

// Urgency buckets kilometers remaining until a maintenance type is due.
type Urgency string

const (
	UrgencyOverdue  Urgency = "OVERDUE"
	UrgencyDueSoon  Urgency = "DUE_SOON"
	UrgencyUpcoming Urgency = "UPCOMING"
	UrgencyOK       Urgency = "OK"
)

// MaintenancePrediction projects when one maintenance type is next due for a
// vehicle. KmUntilDue may be negative when the service is overdue;
// NextServiceDueAtKm is floored at 0 in output.
type MaintenancePrediction struct {
	Type                  entities.MaintenanceType `json:"type"`
	LastServiceOdometer   *float64                 `json:"last_service_odometer"`
	LastServiceDate       *time.Time               `json:"last_service_date"`
	NextServiceDueAtKm    float64                  `json:"next_service_due_at_km"`
	KmUntilDue            float64                  `json:"km_until_due"`
	Urgency               Urgency                  `json:"urgency"`
	EstimatedDaysUntilDue *int                     `json:"estimated_days_until_due"`
}

// PredictMaintenance projects the next due point for every monitored
// maintenance type from the vehicle's service history and average daily
// distance. Logs may be passed in any order.
func PredictMaintenance(
	currentOdometer float64,
	logs []*entities.MaintenanceLog,
	vehicleCreatedAt time.Time,
	baseOdometer float64,
	now time.Time,
) []*MaintenancePrediction {
	// Floor of one day avoids division by zero for brand-new vehicles.
	daysSinceCreation := math.Max(1, now.Sub(vehicleCreatedAt).Hours()/24)

	totalKm := currentOdometer - baseOdometer
	avgDailyKm := DefaultAvgDailyKm
	if totalKm > 0 {
		avgDailyKm = totalKm / daysSinceCreation
	}

	predictions := make([]*MaintenancePrediction, 0, len(MonitoredTypes))

	for _, serviceType := range MonitoredTypes {
		lastLog := latestLogOfType(logs, serviceType)
		intervalKm := ServiceIntervalsKm[serviceType]

		var nextServiceDueAtKm float64
		var lastServiceOdometer *float64

		switch {
		case lastLog != nil && lastLog.NextServiceKm != nil && *lastLog.NextServiceKm > 0:
			nextServiceDueAtKm = *lastLog.NextServiceKm

		case lastLog != nil:
			// Estimate the odometer at last service by walking backward
			// from the current reading at the average daily rate.
			daysSinceService := math.Max(0, now.Sub(lastLog.ServiceDate).Hours()/24)
			estimated := math.Max(0, currentOdometer-daysSinceService*avgDailyKm)
			lastServiceOdometer = &estimated
			nextServiceDueAtKm = estimated + intervalKm

		default:
			// No history: assume the vehicle has been serviced on schedule
			// and project the next interval boundary.
			kmSinceLast := math.Mod(currentOdometer, intervalKm)
			nextServiceDueAtKm = currentOdometer - kmSinceLast + intervalKm
		}

		kmUntilDue := nextServiceDueAtKm - currentOdometer

		var estimatedDaysUntilDue *int
		if avgDailyKm > 0 {
			days := int(math.Round(kmUntilDue / avgDailyKm))
			estimatedDaysUntilDue = &days
		}

		var lastServiceDate *time.Time
		if lastLog != nil {
			d := lastLog.ServiceDate
			lastServiceDate = &d
		}

		predictions = append(predictions, &MaintenancePrediction{
			Type:                  serviceType,
			LastServiceOdometer:   lastServiceOdometer,
			LastServiceDate:       lastServiceDate,
			NextServiceDueAtKm:    math.Max(0, nextServiceDueAtKm),
			KmUntilDue:            kmUntilDue,
			Urgency:               urgencyFor(kmUntilDue),
			EstimatedDaysUntilDue: estimatedDaysUntilDue,
		})
	}

	return predictions
}

// latestLogOfType returns the most recent log of the given type by service
// date, or nil when the vehicle has no history for it.
func latestLogOfType(logs []*entities.MaintenanceLog, serviceType entities.MaintenanceType) *entities.MaintenanceLog {
	var latest *entities.MaintenanceLog
	for _, log := range logs {
		if log.Type != serviceType {
			continue
		}
		if latest == nil || log.ServiceDate.After(latest.ServiceDate) {
			latest = log
		}
	}
	return latest
}

// urgencyFor maps kilometers until due onto the fixed urgency tiers.
func urgencyFor(kmUntilDue float64) Urgency {
	switch {
	case kmUntilDue <= 0:
		return UrgencyOverdue
	case kmUntilDue <= DueSoonWithinKm:
		return UrgencyDueSoon
	case kmUntilDue <= UpcomingWithinKm:
		return UrgencyUpcoming
	default:
		return UrgencyOK
	}
}
