package engine

import (
	"math"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
)

// Trend is the qualitative direction of a vehicle's monthly operating cost.
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendStable     Trend = "STABLE"
	TrendDecreasing Trend = "DECREASING"
)

// MonthlyCost is one bucket of the rolling cost history.
type MonthlyCost struct {
	Month     string  `json:"month"`
	TotalCost float64 `json:"total_cost"`
}

// CostPrediction forecasts next month's operating cost for a vehicle from
// its rolling monthly fuel and maintenance spend.
type CostPrediction struct {
	VehicleID              uuid.UUID     `json:"vehicle_id"`
	MonthlyHistory         []MonthlyCost `json:"monthly_history"`
	PredictedNextMonthCost float64       `json:"predicted_next_month_cost"`
	Trend                  Trend         `json:"trend"`
}

// PredictNextMonthCost builds a rolling monthly cost history (fuel plus
// maintenance, oldest month first, anchored at now) and extrapolates one
// month ahead with a least-squares fit. The prediction is floored at zero.
// The caller is responsible for scoping both collections to the vehicle.
func PredictNextMonthCost(
	vehicleID uuid.UUID,
	fuelExpenses []*entities.FuelExpense,
	maintenanceLogs []*entities.MaintenanceLog,
	monthsBack int,
	now time.Time,
) *CostPrediction {
	history := make([]MonthlyCost, 0, monthsBack)

	for i := 0; i < monthsBack; i++ {
		target := monthStart(now).AddDate(0, -(monthsBack - 1 - i), 0)
		start, end := target, monthEnd(target)

		var total float64
		for _, e := range fuelExpenses {
			if withinInclusive(e.FuelDate, start, end) {
				total += e.TotalCost
			}
		}
		for _, m := range maintenanceLogs {
			if withinInclusive(m.ServiceDate, start, end) {
				total += m.Cost
			}
		}

		history = append(history, MonthlyCost{
			Month:     target.Format("Jan 2006"),
			TotalCost: round2(total),
		})
	}

	values := make([]float64, len(history))
	for i, m := range history {
		values[i] = m.TotalCost
	}

	slope, intercept := linearRegression(values)
	predicted := math.Max(0, slope*float64(monthsBack+1)+intercept)

	return &CostPrediction{
		VehicleID:              vehicleID,
		MonthlyHistory:         history,
		PredictedNextMonthCost: round2(predicted),
		Trend:                  trendFor(slope),
	}
}

// trendFor classifies the regression slope against the fixed thresholds.
func trendFor(slope float64) Trend {
	switch {
	case slope > TrendSlopeThreshold:
		return TrendIncreasing
	case slope < -TrendSlopeThreshold:
		return TrendDecreasing
	default:
		return TrendStable
	}
}

// monthStart returns the first instant of t's calendar month in UTC.
func monthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// monthEnd returns the last instant of t's calendar month in UTC.
func monthEnd(t time.Time) time.Time {
	return monthStart(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}

// withinInclusive reports whether d falls inside [start, end].
func withinInclusive(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}
