package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"fleet-service/internal/domain/engine"
	"fleet-service/internal/domain/entities"
	"fleet-service/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SummaryCache caches serialized analytics payloads. A nil-byte result with
// no error is a cache miss.
type SummaryCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// FuelEfficiencyEntry is one vehicle's km-per-liter over the report range.
type FuelEfficiencyEntry struct {
	VehicleID    uuid.UUID `json:"vehicle_id"`
	VehicleName  string    `json:"vehicle_name"`
	LicensePlate string    `json:"license_plate"`
	KmPerLiter   float64   `json:"km_per_liter"`
}

// CostBreakdownEntry is one month of fleet-wide operating spend.
type CostBreakdownEntry struct {
	Month           string  `json:"month"`
	FuelCost        float64 `json:"fuel_cost"`
	MaintenanceCost float64 `json:"maintenance_cost"`
	TotalCost       float64 `json:"total_cost"`
}

// VehicleROIEntry relates a vehicle's lifetime revenue to its lifetime
// operating cost. ROI is a fraction (0.25 means 25% return); acquisition
// cost is reported alongside but not part of the denominator.
type VehicleROIEntry struct {
	VehicleID       uuid.UUID `json:"vehicle_id"`
	VehicleName     string    `json:"vehicle_name"`
	LicensePlate    string    `json:"license_plate"`
	TotalRevenue    float64   `json:"total_revenue"`
	TotalCost       float64   `json:"total_cost"`
	AcquisitionCost float64   `json:"acquisition_cost"`
	ROI             float64   `json:"roi"`
}

// DriverScoreEntry is one driver's persisted safety score.
type DriverScoreEntry struct {
	DriverID uuid.UUID `json:"driver_id"`
	Name     string    `json:"name"`
	Score    float64   `json:"score"`
}

// TopVehicle names the best-ROI vehicle of the report.
type TopVehicle struct {
	Name string  `json:"name"`
	ROI  float64 `json:"roi"`
}

// TopDriver names the highest-scoring driver of the report.
type TopDriver struct {
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

// KPISummary is the headline block of the analytics summary.
type KPISummary struct {
	AvgFuelEfficiency float64     `json:"avg_fuel_efficiency"`
	TotalCost         float64     `json:"total_cost"`
	TopVehicle        *TopVehicle `json:"top_vehicle,omitempty"`
	TopDriver         *TopDriver  `json:"top_driver,omitempty"`
}

// AnalyticsSummary is the full fleet-wide report.
type AnalyticsSummary struct {
	StartDate          string                `json:"start_date"`
	EndDate            string                `json:"end_date"`
	FuelEfficiency     []FuelEfficiencyEntry `json:"fuel_efficiency"`
	CostBreakdown      []CostBreakdownEntry  `json:"cost_breakdown"`
	VehicleROI         []VehicleROIEntry     `json:"vehicle_roi"`
	DriverSafetyScores []DriverScoreEntry    `json:"driver_safety_scores"`
	KPIs               KPISummary            `json:"kpis"`
}

// FleetStatusCount is one operational status bucket.
type FleetStatusCount struct {
	Status entities.VehicleStatus `json:"status"`
	Count  int                    `json:"count"`
}

// TripActivityPoint is one day of trip creation activity.
type TripActivityPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// FleetKPIs is the live operational headline block.
type FleetKPIs struct {
	TotalVehicles     int     `json:"total_vehicles"`
	ActiveFleet       int     `json:"active_fleet"`
	AvailableVehicles int     `json:"available_vehicles"`
	MaintenanceAlerts int     `json:"maintenance_alerts"`
	UtilizationRate   float64 `json:"utilization_rate"`
	PendingCargo      int     `json:"pending_cargo"`
}

// FleetStatusSummary is the live fleet dashboard payload.
type FleetStatusSummary struct {
	KPIs         FleetKPIs           `json:"kpis"`
	StatusCounts []FleetStatusCount  `json:"status_counts"`
	TripActivity []TripActivityPoint `json:"trip_activity"`
	GeneratedAt  time.Time           `json:"generated_at"`
}

// AnalyticsService builds fleet-wide reports by fanning the engine out over
// every active vehicle.
type AnalyticsService interface {
	GetSummary(ctx context.Context, start, end time.Time) (*AnalyticsSummary, error)
	GetFleetStatus(ctx context.Context) (*FleetStatusSummary, error)
}

type analyticsService struct {
	driverRepo      repositories.DriverRepository
	vehicleRepo     repositories.VehicleRepository
	tripRepo        repositories.TripRepository
	maintenanceRepo repositories.MaintenanceRepository
	fuelRepo        repositories.FuelRepository
	cache           SummaryCache
	cacheTTL        time.Duration
	logger          *zap.Logger
}

// NewAnalyticsService creates a new AnalyticsService. cache may be nil, in
// which case every summary is computed from scratch.
func NewAnalyticsService(
	driverRepo repositories.DriverRepository,
	vehicleRepo repositories.VehicleRepository,
	tripRepo repositories.TripRepository,
	maintenanceRepo repositories.MaintenanceRepository,
	fuelRepo repositories.FuelRepository,
	cache SummaryCache,
	cacheTTL time.Duration,
	logger *zap.Logger,
) AnalyticsService {
	return &analyticsService{
		driverRepo:      driverRepo,
		vehicleRepo:     vehicleRepo,
		tripRepo:        tripRepo,
		maintenanceRepo: maintenanceRepo,
		fuelRepo:        fuelRepo,
		cache:           cache,
		cacheTTL:        cacheTTL,
		logger:          logger,
	}
}

// vehicleReport carries one vehicle's computed slice of the summary out of
// the fan-out worker.
type vehicleReport struct {
	efficiency FuelEfficiencyEntry
	roi        VehicleROIEntry
}

// GetSummary builds the fleet-wide report for [start, end]. Efficiency is
// range-scoped; ROI covers each vehicle's full lifetime; the cost breakdown
// always covers the trailing six calendar months regardless of the range.
// A vehicle whose data fails to load is dropped from the report instead of
// failing the whole summary.
func (s *analyticsService) GetSummary(ctx context.Context, start, end time.Time) (*AnalyticsSummary, error) {
	cacheKey := fmt.Sprintf("analytics:summary:%s:%s",
		start.UTC().Format("2006-01-02"), end.UTC().Format("2006-01-02"))

	if s.cache != nil {
		if payload, err := s.cache.Get(ctx, cacheKey); err != nil {
			s.logger.Warn("Analytics cache read failed", zap.Error(err), zap.String("key", cacheKey))
		} else if payload != nil {
			var cached AnalyticsSummary
			if err := json.Unmarshal(payload, &cached); err == nil {
				return &cached, nil
			}
			s.logger.Warn("Discarding corrupt analytics cache entry", zap.String("key", cacheKey))
		}
	}

	vehicles, err := s.vehicleRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	drivers, err := s.driverRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	rangeTrips, err := s.tripRepo.ListCompletedInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	rangeFuel, err := s.fuelRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	reports := make([]*vehicleReport, len(vehicles))

	var wg sync.WaitGroup
	for i, vehicle := range vehicles {
		wg.Add(1)
		go func(i int, vehicle *entities.Vehicle) {
			defer wg.Done()

			report, err := s.buildVehicleReport(ctx, vehicle, rangeTrips, rangeFuel)
			if err != nil {
				s.logger.Error("Failed to build vehicle report, skipping vehicle",
					zap.Error(err),
					zap.String("vehicle_id", vehicle.ID.String()),
				)
				return
			}
			reports[i] = report
		}(i, vehicle)
	}
	wg.Wait()

	summary := &AnalyticsSummary{
		StartDate:          start.UTC().Format("2006-01-02"),
		EndDate:            end.UTC().Format("2006-01-02"),
		FuelEfficiency:     make([]FuelEfficiencyEntry, 0, len(vehicles)),
		VehicleROI:         make([]VehicleROIEntry, 0, len(vehicles)),
		DriverSafetyScores: make([]DriverScoreEntry, 0, len(drivers)),
	}

	for _, report := range reports {
		if report == nil {
			continue
		}
		summary.FuelEfficiency = append(summary.FuelEfficiency, report.efficiency)
		summary.VehicleROI = append(summary.VehicleROI, report.roi)
	}

	breakdown, err := s.buildCostBreakdown(ctx, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	summary.CostBreakdown = breakdown

	for _, driver := range drivers {
		summary.DriverSafetyScores = append(summary.DriverSafetyScores, DriverScoreEntry{
			DriverID: driver.ID,
			Name:     driver.Name,
			Score:    driver.SafetyScore,
		})
	}

	summary.KPIs = buildKPIs(summary)

	if s.cache != nil {
		if payload, err := json.Marshal(summary); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL); err != nil {
				s.logger.Warn("Analytics cache write failed", zap.Error(err), zap.String("key", cacheKey))
			}
		}
	}

	return summary, nil
}

// buildVehicleReport computes one vehicle's efficiency and ROI entries.
// Range-scoped collections are passed in pre-loaded; lifetime history is
// loaded per vehicle.
func (s *analyticsService) buildVehicleReport(
	ctx context.Context,
	vehicle *entities.Vehicle,
	rangeTrips []*entities.Trip,
	rangeFuel []*entities.FuelExpense,
) (*vehicleReport, error) {
	var rangeKm, rangeLiters float64
	for _, trip := range rangeTrips {
		if trip.VehicleID != vehicle.ID {
			continue
		}
		if distance, ok := trip.Distance(); ok {
			rangeKm += distance
		}
	}
	for _, expense := range rangeFuel {
		if expense.VehicleID == vehicle.ID {
			rangeLiters += expense.Liters
		}
	}

	kmPerLiter := 0.0
	if rangeLiters > 0 {
		kmPerLiter = roundTo(rangeKm/rangeLiters, 2)
	}

	lifetimeTrips, err := s.tripRepo.ListCompletedByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	lifetimeFuel, err := s.fuelRepo.ListByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	lifetimeLogs, err := s.maintenanceRepo.ListByVehicle(ctx, vehicle.ID)
	if err != nil {
		return nil, err
	}

	var totalRevenue, totalCost float64
	for _, trip := range lifetimeTrips {
		totalRevenue += trip.Revenue
	}
	for _, expense := range lifetimeFuel {
		totalCost += expense.TotalCost
	}
	for _, log := range lifetimeLogs {
		totalCost += log.Cost
	}

	roi := 0.0
	if totalCost > 0 {
		roi = roundTo((totalRevenue-totalCost)/totalCost, 4)
	}

	return &vehicleReport{
		efficiency: FuelEfficiencyEntry{
			VehicleID:    vehicle.ID,
			VehicleName:  vehicle.Name,
			LicensePlate: vehicle.LicensePlate,
			KmPerLiter:   kmPerLiter,
		},
		roi: VehicleROIEntry{
			VehicleID:       vehicle.ID,
			VehicleName:     vehicle.Name,
			LicensePlate:    vehicle.LicensePlate,
			TotalRevenue:    roundTo(totalRevenue, 2),
			TotalCost:       roundTo(totalCost, 2),
			AcquisitionCost: vehicle.AcquisitionCost,
			ROI:             roi,
		},
	}, nil
}

// buildCostBreakdown buckets fleet-wide fuel and maintenance spend into the
// trailing six calendar months, oldest first.
func (s *analyticsService) buildCostBreakdown(ctx context.Context, now time.Time) ([]CostBreakdownEntry, error) {
	first := monthAnchor(now).AddDate(0, -(engine.DefaultMonthsBack - 1), 0)
	last := monthAnchor(now).AddDate(0, 1, 0).Add(-time.Nanosecond)

	fuel, err := s.fuelRepo.ListInRange(ctx, first, last)
	if err != nil {
		return nil, err
	}

	logs, err := s.maintenanceRepo.ListInRange(ctx, first, last)
	if err != nil {
		return nil, err
	}

	breakdown := make([]CostBreakdownEntry, 0, engine.DefaultMonthsBack)
	for i := 0; i < engine.DefaultMonthsBack; i++ {
		bucketStart := first.AddDate(0, i, 0)
		bucketEnd := bucketStart.AddDate(0, 1, 0).Add(-time.Nanosecond)

		var fuelCost, maintenanceCost float64
		for _, expense := range fuel {
			if inRange(expense.FuelDate, bucketStart, bucketEnd) {
				fuelCost += expense.TotalCost
			}
		}
		for _, log := range logs {
			if inRange(log.ServiceDate, bucketStart, bucketEnd) {
				maintenanceCost += log.Cost
			}
		}

		breakdown = append(breakdown, CostBreakdownEntry{
			Month:           bucketStart.Format("Jan 2006"),
			FuelCost:        roundTo(fuelCost, 2),
			MaintenanceCost: roundTo(maintenanceCost, 2),
			TotalCost:       roundTo(fuelCost+maintenanceCost, 2),
		})
	}

	return breakdown, nil
}

// buildKPIs derives the headline block from the assembled summary sections.
// Ties go to whichever entry appears first.
func buildKPIs(summary *AnalyticsSummary) KPISummary {
	kpis := KPISummary{}

	var efficiencySum float64
	var efficiencyCount int
	for _, entry := range summary.FuelEfficiency {
		if entry.KmPerLiter > 0 {
			efficiencySum += entry.KmPerLiter
			efficiencyCount++
		}
	}
	if efficiencyCount > 0 {
		kpis.AvgFuelEfficiency = roundTo(efficiencySum/float64(efficiencyCount), 2)
	}

	var totalCost float64
	for _, entry := range summary.CostBreakdown {
		totalCost += entry.TotalCost
	}
	kpis.TotalCost = roundTo(totalCost, 2)

	for _, entry := range summary.VehicleROI {
		if kpis.TopVehicle == nil || entry.ROI > kpis.TopVehicle.ROI {
			kpis.TopVehicle = &TopVehicle{Name: entry.VehicleName, ROI: entry.ROI}
		}
	}

	for _, entry := range summary.DriverSafetyScores {
		if kpis.TopDriver == nil || entry.Score > kpis.TopDriver.Score {
			kpis.TopDriver = &TopDriver{Name: entry.Name, Score: entry.Score}
		}
	}

	return kpis
}

// GetFleetStatus builds the live operational dashboard: status counts,
// utilization, pending cargo and a fourteen-day trip activity series.
func (s *analyticsService) GetFleetStatus(ctx context.Context) (*FleetStatusSummary, error) {
	counts, err := s.vehicleRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	pending, err := s.tripRepo.CountPending(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	activityStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -13)

	daily, err := s.tripRepo.DailyCounts(ctx, activityStart, now)
	if err != nil {
		return nil, err
	}

	statusOrder := []entities.VehicleStatus{
		entities.VehicleStatusAvailable,
		entities.VehicleStatusOnTrip,
		entities.VehicleStatusInShop,
		entities.VehicleStatusOutOfService,
	}

	total := 0
	statusCounts := make([]FleetStatusCount, 0, len(statusOrder))
	for _, status := range statusOrder {
		count := counts[status]
		total += count
		statusCounts = append(statusCounts, FleetStatusCount{Status: status, Count: count})
	}

	onTrip := counts[entities.VehicleStatusOnTrip]
	utilization := 0.0
	if total > 0 {
		utilization = roundTo(float64(onTrip)/float64(total)*100, 1)
	}

	activity := make([]TripActivityPoint, 0, 14)
	for i := 0; i < 14; i++ {
		day := activityStart.AddDate(0, 0, i)
		activity = append(activity, TripActivityPoint{
			Date:  day.Format("2006-01-02"),
			Count: daily[day.Format("2006-01-02")],
		})
	}

	return &FleetStatusSummary{
		KPIs: FleetKPIs{
			TotalVehicles:     total,
			ActiveFleet:       onTrip,
			AvailableVehicles: counts[entities.VehicleStatusAvailable],
			MaintenanceAlerts: counts[entities.VehicleStatusInShop],
			UtilizationRate:   utilization,
			PendingCargo:      pending,
		},
		StatusCounts: statusCounts,
		TripActivity: activity,
		GeneratedAt:  now,
	}, nil
}

// monthAnchor returns the first instant of t's calendar month in UTC.
func monthAnchor(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// inRange reports whether d falls inside [start, end].
func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
