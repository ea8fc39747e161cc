package engine

import (
	"math"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
)

// SafetyScoreBreakdown is the component-level result of a safety score
// computation. CompletionPoints carries the rounded display value; FinalScore
// is derived from the unrounded components.
type SafetyScoreBreakdown struct {
	DriverID          uuid.UUID `json:"driver_id"`
	CompletionRate    float64   `json:"completion_rate"`
	LicenseValid      bool      `json:"license_valid"`
	IsSuspended       bool      `json:"is_suspended"`
	CompletionPoints  float64   `json:"completion_points"`
	LicensePoints     float64   `json:"license_points"`
	SuspensionPenalty float64   `json:"suspension_penalty"`
	FinalScore        float64   `json:"final_score"`
}

// ComputeSafetyScore computes a 0-100 safety score for one driver from trip
// completion ratio, license validity and suspension status. Drivers with no
// trips yet default to a perfect completion rate.
func ComputeSafetyScore(driver *entities.Driver, now time.Time) *SafetyScoreBreakdown {
	completionRate := 1.0
	if driver.TotalTrips > 0 {
		completionRate = float64(driver.CompletedTrips) / float64(driver.TotalTrips)
	}

	licenseValid := driver.IsLicenseValid(now)
	isSuspended := driver.IsSuspended()

	completionPoints := completionRate * SafetyCompletionWeight

	licensePoints := 0.0
	if licenseValid {
		licensePoints = SafetyLicenseWeight
	}

	suspensionPenalty := 0.0
	if isSuspended {
		suspensionPenalty = -SafetySuspensionPenalty
	}

	raw := SafetyBasePoints + completionPoints + licensePoints + suspensionPenalty
	finalScore := round1(math.Max(0, math.Min(100, raw)))

	return &SafetyScoreBreakdown{
		DriverID:          driver.ID,
		CompletionRate:    completionRate,
		LicenseValid:      licenseValid,
		IsSuspended:       isSuspended,
		CompletionPoints:  math.Round(completionPoints),
		LicensePoints:     licensePoints,
		SuspensionPenalty: suspensionPenalty,
		FinalScore:        finalScore,
	}
}
