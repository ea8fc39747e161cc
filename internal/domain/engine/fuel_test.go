package engine

import (
	"testing"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fillSeries builds a fill history where fill i+1 covers distances[i] km on
// 10 liters, yielding one efficiency point of distances[i]/10 km/L per pair.
func fillSeries(vehicleID uuid.UUID, distances ...float64) []*entities.FuelExpense {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	expenses := []*entities.FuelExpense{{
		ID:             uuid.New(),
		VehicleID:      vehicleID,
		FuelDate:       base,
		Liters:         10,
		CostPerLiter:   100,
		TotalCost:      1000,
		OdometerAtFuel: 0,
	}}

	odometer := 0.0
	for i, d := range distances {
		odometer += d
		expenses = append(expenses, &entities.FuelExpense{
			ID:             uuid.New(),
			VehicleID:      vehicleID,
			FuelDate:       base.AddDate(0, 0, (i+1)*7),
			Liters:         10,
			CostPerLiter:   100,
			TotalCost:      1000,
			OdometerAtFuel: odometer,
		})
	}

	return expenses
}

func TestDetectFuelAnomalies_TooFewSamples(t *testing.T) {
	vehicleID := uuid.New()

	// Two valid efficiency points: below the minimum sample count.
	result := DetectFuelAnomalies(vehicleID, fillSeries(vehicleID, 100, 120))

	require.NotNil(t, result)
	assert.Equal(t, vehicleID, result.VehicleID)
	assert.Equal(t, 10.0, result.MeanEfficiency)
	assert.Equal(t, 0.0, result.StdDev)
	assert.Empty(t, result.Anomalies)
}

func TestDetectFuelAnomalies_NoExpenses(t *testing.T) {
	vehicleID := uuid.New()

	result := DetectFuelAnomalies(vehicleID, nil)

	assert.Equal(t, 0.0, result.MeanEfficiency)
	assert.Equal(t, 0.0, result.StdDev)
	assert.Empty(t, result.Anomalies)
}

func TestDetectFuelAnomalies_FlagsHighOutlier(t *testing.T) {
	vehicleID := uuid.New()

	// Efficiencies 10,10,10,10,10,50: the last point sits past the z-score
	// threshold under the sample standard deviation.
	result := DetectFuelAnomalies(vehicleID, fillSeries(vehicleID, 100, 100, 100, 100, 100, 500))

	require.Len(t, result.Anomalies, 1)
	anomaly := result.Anomalies[0]
	assert.Equal(t, 50.0, anomaly.Efficiency)
	assert.Equal(t, AnomalyHigh, anomaly.AnomalyType)
	assert.GreaterOrEqual(t, anomaly.ZScore, ZScoreThreshold)
	assert.Contains(t, anomaly.Message, "high efficiency")
}

func TestDetectFuelAnomalies_FlagsLowOutlier(t *testing.T) {
	vehicleID := uuid.New()

	result := DetectFuelAnomalies(vehicleID, fillSeries(vehicleID, 500, 500, 500, 500, 500, 100))

	require.Len(t, result.Anomalies, 1)
	anomaly := result.Anomalies[0]
	assert.Equal(t, 10.0, anomaly.Efficiency)
	assert.Equal(t, AnomalyLow, anomaly.AnomalyType)
	assert.LessOrEqual(t, anomaly.ZScore, -ZScoreThreshold)
	assert.Contains(t, anomaly.Message, "low efficiency")
}

func TestDetectFuelAnomalies_UnorderedInput(t *testing.T) {
	vehicleID := uuid.New()
	expenses := fillSeries(vehicleID, 100, 100, 100, 100, 100, 500)

	shuffled := []*entities.FuelExpense{
		expenses[4], expenses[0], expenses[6], expenses[2], expenses[5], expenses[1], expenses[3],
	}

	ordered := DetectFuelAnomalies(vehicleID, expenses)
	fromShuffled := DetectFuelAnomalies(vehicleID, shuffled)

	assert.Equal(t, ordered, fromShuffled)
}

func TestDetectFuelAnomalies_SkipsNonMonotonicPairs(t *testing.T) {
	vehicleID := uuid.New()
	expenses := fillSeries(vehicleID, 100, 120)

	// A duplicate odometer reading produces no efficiency point, leaving
	// only two valid samples.
	duplicate := *expenses[2]
	duplicate.ID = uuid.New()
	expenses = append(expenses, &duplicate)

	result := DetectFuelAnomalies(vehicleID, expenses)
	assert.Empty(t, result.Anomalies)
	assert.Equal(t, 0.0, result.StdDev)
}

func TestDetectFuelAnomalies_PreservesOdometerOrder(t *testing.T) {
	vehicleID := uuid.New()

	// Symmetric extremes around a flat series: both are outliers and must
	// come back in odometer order, not ranked by severity.
	result := DetectFuelAnomalies(vehicleID, fillSeries(vehicleID, 100, 300, 300, 300, 300, 300, 300, 300, 300, 500))

	require.Len(t, result.Anomalies, 2)
	assert.Equal(t, 10.0, result.Anomalies[0].Efficiency)
	assert.Equal(t, AnomalyLow, result.Anomalies[0].AnomalyType)
	assert.Equal(t, 50.0, result.Anomalies[1].Efficiency)
	assert.Equal(t, AnomalyHigh, result.Anomalies[1].AnomalyType)
}

func TestDetectFuelAnomalies_Idempotent(t *testing.T) {
	vehicleID := uuid.New()
	expenses := fillSeries(vehicleID, 100, 110, 90, 105, 95, 400)

	first := DetectFuelAnomalies(vehicleID, expenses)
	second := DetectFuelAnomalies(vehicleID, expenses)

	assert.Equal(t, first, second)
}

// The flag condition is |z| >= threshold while the message branches on
// z > threshold, so the exact positive boundary is typed HIGH but keeps the
// low-efficiency message.
func TestAnomalyFor_ThresholdBoundary(t *testing.T) {
	point := efficiencyPoint{expenseID: uuid.New(), efficiency: 12.5}

	tests := []struct {
		name         string
		zScore       float64
		flagged      bool
		anomalyType  AnomalyType
		message      string
	}{
		{"just below threshold", 1.99, false, "", ""},
		{"exactly at positive threshold", 2.0, true, AnomalyHigh, messageLowEfficiency},
		{"above positive threshold", 2.01, true, AnomalyHigh, messageHighEfficiency},
		{"exactly at negative threshold", -2.0, true, AnomalyLow, messageLowEfficiency},
		{"below negative threshold", -2.5, true, AnomalyLow, messageLowEfficiency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			anomaly := anomalyFor(point, tt.zScore)
			if !tt.flagged {
				assert.Nil(t, anomaly)
				return
			}

			require.NotNil(t, anomaly)
			assert.Equal(t, tt.anomalyType, anomaly.AnomalyType)
			assert.Equal(t, tt.message, anomaly.Message)
		})
	}
}
