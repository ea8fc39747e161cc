package engine

import (
	"math"
	"sort"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
)

// AnomalyType marks whether an efficiency outlier is above or below the mean.
type AnomalyType string

const (
	AnomalyHigh AnomalyType = "HIGH"
	AnomalyLow  AnomalyType = "LOW"
)

const (
	messageHighEfficiency = "Unusually high efficiency — verify odometer reading"
	messageLowEfficiency  = "Unusually low efficiency — possible fuel theft or leak"
)

// FuelAnomaly is a single flagged efficiency point, tagged with the fill that
// produced it.
type FuelAnomaly struct {
	ExpenseID   uuid.UUID   `json:"expense_id"`
	FuelDate    time.Time   `json:"fuel_date"`
	Efficiency  float64     `json:"efficiency"`
	ZScore      float64     `json:"z_score"`
	AnomalyType AnomalyType `json:"anomaly_type"`
	Message     string      `json:"message"`
}

// FuelAnomalyResult holds the efficiency statistics for a vehicle's fill
// history and the outliers found in it, in odometer-ascending order.
type FuelAnomalyResult struct {
	VehicleID      uuid.UUID      `json:"vehicle_id"`
	MeanEfficiency float64        `json:"mean_efficiency"`
	StdDev         float64        `json:"std_dev"`
	Anomalies      []*FuelAnomaly `json:"anomalies"`
}

type efficiencyPoint struct {
	expenseID  uuid.UUID
	fuelDate   time.Time
	efficiency float64
}

// DetectFuelAnomalies computes per-fill fuel efficiency across a vehicle's
// fill history and flags statistical outliers by z-score. Expenses may be
// passed in any order. Pairs with a non-increasing odometer or non-positive
// liters are skipped.
func DetectFuelAnomalies(vehicleID uuid.UUID, expenses []*entities.FuelExpense) *FuelAnomalyResult {
	sorted := make([]*entities.FuelExpense, len(expenses))
	copy(sorted, expenses)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].OdometerAtFuel < sorted[j].OdometerAtFuel
	})

	points := make([]efficiencyPoint, 0, len(sorted))
	for i := 1; i < len(sorted); i++ {
		prev, curr := sorted[i-1], sorted[i]
		distance := curr.OdometerAtFuel - prev.OdometerAtFuel
		if distance > 0 && curr.Liters > 0 {
			points = append(points, efficiencyPoint{
				expenseID:  curr.ID,
				fuelDate:   curr.FuelDate,
				efficiency: round2(distance / curr.Liters),
			})
		}
	}

	// Too little data to judge statistical outliers.
	if len(points) < MinFuelSamples {
		meanEfficiency := 0.0
		if len(points) > 0 {
			meanEfficiency = points[0].efficiency
		}
		return &FuelAnomalyResult{
			VehicleID:      vehicleID,
			MeanEfficiency: meanEfficiency,
			StdDev:         0,
			Anomalies:      []*FuelAnomaly{},
		}
	}

	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.efficiency
	}

	mu := mean(values)
	sigma := sampleStdDev(values, mu)

	anomalies := make([]*FuelAnomaly, 0)
	for _, point := range points {
		zScore := 0.0
		if sigma > 0 {
			zScore = (point.efficiency - mu) / sigma
		}

		if anomaly := anomalyFor(point, zScore); anomaly != nil {
			anomalies = append(anomalies, anomaly)
		}
	}

	return &FuelAnomalyResult{
		VehicleID:      vehicleID,
		MeanEfficiency: round2(mu),
		StdDev:         round2(sigma),
		Anomalies:      anomalies,
	}
}

// anomalyFor flags a point whose absolute z-score meets the threshold. The
// message branches on zScore > ZScoreThreshold rather than on the anomaly
// type: a point at exactly +ZScoreThreshold is typed HIGH but carries the
// low-efficiency message.
func anomalyFor(point efficiencyPoint, zScore float64) *FuelAnomaly {
	if math.Abs(zScore) < ZScoreThreshold {
		return nil
	}

	anomalyType := AnomalyLow
	if zScore > 0 {
		anomalyType = AnomalyHigh
	}

	message := messageLowEfficiency
	if zScore > ZScoreThreshold {
		message = messageHighEfficiency
	}

	return &FuelAnomaly{
		ExpenseID:   point.expenseID,
		FuelDate:    point.fuelDate,
		Efficiency:  point.efficiency,
		ZScore:      round2(zScore),
		AnomalyType: anomalyType,
		Message:     message,
	}
}
