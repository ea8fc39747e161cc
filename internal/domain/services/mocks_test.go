package services

import (
	"context"
	"sync"
	"time"

	"fleet-service/internal/domain/entities"

	"github.com/google/uuid"
)

// In-memory repository doubles. Each carries an injectable error so tests
// can force individual loads to fail.

type mockDriverRepo struct {
	mu      sync.Mutex
	drivers map[uuid.UUID]*entities.Driver
	order   []uuid.UUID
	scores  map[uuid.UUID]float64

	getErr     error
	listErr    error
	updateErrs map[uuid.UUID]error
}

func newMockDriverRepo() *mockDriverRepo {
	return &mockDriverRepo{
		drivers:    make(map[uuid.UUID]*entities.Driver),
		scores:     make(map[uuid.UUID]float64),
		updateErrs: make(map[uuid.UUID]error),
	}
}

func (m *mockDriverRepo) add(d *entities.Driver) {
	m.drivers[d.ID] = d
	m.order = append(m.order, d.ID)
}

func (m *mockDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Driver, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	driver, ok := m.drivers[id]
	if !ok {
		return nil, entities.ErrDriverNotFound
	}
	return driver, nil
}

func (m *mockDriverRepo) List(ctx context.Context) ([]*entities.Driver, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	drivers := make([]*entities.Driver, 0, len(m.order))
	for _, id := range m.order {
		drivers = append(drivers, m.drivers[id])
	}
	return drivers, nil
}

func (m *mockDriverRepo) UpdateSafetyScore(ctx context.Context, id uuid.UUID, score float64) error {
	if err := m.updateErrs[id]; err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drivers[id]; !ok {
		return entities.ErrDriverNotFound
	}
	m.scores[id] = score
	return nil
}

type mockVehicleRepo struct {
	vehicles map[uuid.UUID]*entities.Vehicle
	order    []uuid.UUID
	counts   map[entities.VehicleStatus]int

	getErr   error
	listErr  error
	countErr error
}

func newMockVehicleRepo() *mockVehicleRepo {
	return &mockVehicleRepo{
		vehicles: make(map[uuid.UUID]*entities.Vehicle),
		counts:   make(map[entities.VehicleStatus]int),
	}
}

func (m *mockVehicleRepo) add(v *entities.Vehicle) {
	m.vehicles[v.ID] = v
	m.order = append(m.order, v.ID)
}

func (m *mockVehicleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entities.Vehicle, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	vehicle, ok := m.vehicles[id]
	if !ok {
		return nil, entities.ErrVehicleNotFound
	}
	return vehicle, nil
}

func (m *mockVehicleRepo) ListActive(ctx context.Context) ([]*entities.Vehicle, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	vehicles := make([]*entities.Vehicle, 0, len(m.order))
	for _, id := range m.order {
		if v := m.vehicles[id]; !v.IsRetired {
			vehicles = append(vehicles, v)
		}
	}
	return vehicles, nil
}

func (m *mockVehicleRepo) CountByStatus(ctx context.Context) (map[entities.VehicleStatus]int, error) {
	if m.countErr != nil {
		return nil, m.countErr
	}
	return m.counts, nil
}

type mockTripRepo struct {
	trips []*entities.Trip

	byVehicleErr map[uuid.UUID]error
	rangeErr     error
	pending      int
	daily        map[string]int
}

func newMockTripRepo() *mockTripRepo {
	return &mockTripRepo{
		byVehicleErr: make(map[uuid.UUID]error),
		daily:        make(map[string]int),
	}
}

func (m *mockTripRepo) ListCompletedByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.Trip, error) {
	if err := m.byVehicleErr[vehicleID]; err != nil {
		return nil, err
	}
	trips := []*entities.Trip{}
	for _, trip := range m.trips {
		if trip.VehicleID == vehicleID && trip.IsCompleted() {
			trips = append(trips, trip)
		}
	}
	return trips, nil
}

func (m *mockTripRepo) ListCompletedInRange(ctx context.Context, start, end time.Time) ([]*entities.Trip, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	trips := []*entities.Trip{}
	for _, trip := range m.trips {
		if !trip.IsCompleted() || trip.CompletedAt == nil {
			continue
		}
		if !trip.CompletedAt.Before(start) && !trip.CompletedAt.After(end) {
			trips = append(trips, trip)
		}
	}
	return trips, nil
}

func (m *mockTripRepo) CountPending(ctx context.Context) (int, error) {
	return m.pending, nil
}

func (m *mockTripRepo) DailyCounts(ctx context.Context, start, end time.Time) (map[string]int, error) {
	return m.daily, nil
}

type mockMaintenanceRepo struct {
	logs []*entities.MaintenanceLog

	byVehicleErr map[uuid.UUID]error
	rangeErr     error
}

func newMockMaintenanceRepo() *mockMaintenanceRepo {
	return &mockMaintenanceRepo{byVehicleErr: make(map[uuid.UUID]error)}
}

func (m *mockMaintenanceRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.MaintenanceLog, error) {
	if err := m.byVehicleErr[vehicleID]; err != nil {
		return nil, err
	}
	logs := []*entities.MaintenanceLog{}
	for _, log := range m.logs {
		if log.VehicleID == vehicleID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

func (m *mockMaintenanceRepo) ListInRange(ctx context.Context, start, end time.Time) ([]*entities.MaintenanceLog, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	logs := []*entities.MaintenanceLog{}
	for _, log := range m.logs {
		if !log.ServiceDate.Before(start) && !log.ServiceDate.After(end) {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

type mockFuelRepo struct {
	expenses []*entities.FuelExpense

	byVehicleErr map[uuid.UUID]error
	rangeErr     error
}

func newMockFuelRepo() *mockFuelRepo {
	return &mockFuelRepo{byVehicleErr: make(map[uuid.UUID]error)}
}

func (m *mockFuelRepo) ListByVehicle(ctx context.Context, vehicleID uuid.UUID) ([]*entities.FuelExpense, error) {
	if err := m.byVehicleErr[vehicleID]; err != nil {
		return nil, err
	}
	expenses := []*entities.FuelExpense{}
	for _, expense := range m.expenses {
		if expense.VehicleID == vehicleID {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

func (m *mockFuelRepo) ListInRange(ctx context.Context, start, end time.Time) ([]*entities.FuelExpense, error) {
	if m.rangeErr != nil {
		return nil, m.rangeErr
	}
	expenses := []*entities.FuelExpense{}
	for _, expense := range m.expenses {
		if !expense.FuelDate.Before(start) && !expense.FuelDate.After(end) {
			expenses = append(expenses, expense)
		}
	}
	return expenses, nil
}

type publishedEvent struct {
	eventType string
	entityID  uuid.UUID
	data      interface{}
}

type mockEventBus struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (m *mockEventBus) PublishDriverEvent(ctx context.Context, eventType string, driverID uuid.UUID, data interface{}) error {
	return m.record(eventType, driverID, data)
}

func (m *mockEventBus) PublishVehicleEvent(ctx context.Context, eventType string, vehicleID uuid.UUID, data interface{}) error {
	return m.record(eventType, vehicleID, data)
}

func (m *mockEventBus) record(eventType string, entityID uuid.UUID, data interface{}) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, publishedEvent{eventType: eventType, entityID: entityID, data: data})
	return nil
}

func (m *mockEventBus) ofType(eventType string) []publishedEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := []publishedEvent{}
	for _, event := range m.events {
		if event.eventType == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

type mockSummaryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
	gets    int
	sets    int
}

func newMockSummaryCache() *mockSummaryCache {
	return &mockSummaryCache{entries: make(map[string][]byte)}
}

func (m *mockSummaryCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.entries[key], nil
}

func (m *mockSummaryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = value
	return nil
}
