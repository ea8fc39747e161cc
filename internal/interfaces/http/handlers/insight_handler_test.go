package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fleet-service/internal/domain/engine"
	"fleet-service/internal/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubInsightService struct {
	getSafetyScoreFn func(ctx context.Context, driverID uuid.UUID) (*engine.SafetyScoreBreakdown, error)
	recomputeFn      func(ctx context.Context, driverID uuid.UUID) (float64, error)
	recomputeAllFn   func(ctx context.Context) (int, error)
	maintenanceFn    func(ctx context.Context, vehicleID uuid.UUID) ([]*engine.MaintenancePrediction, error)
	fuelAnomaliesFn  func(ctx context.Context, vehicleID uuid.UUID) (*engine.FuelAnomalyResult, error)
	costPredictionFn func(ctx context.Context, vehicleID uuid.UUID) (*engine.CostPrediction, error)
}

func (s *stubInsightService) GetSafetyScore(ctx context.Context, driverID uuid.UUID) (*engine.SafetyScoreBreakdown, error) {
	return s.getSafetyScoreFn(ctx, driverID)
}

func (s *stubInsightService) RecomputeSafetyScore(ctx context.Context, driverID uuid.UUID) (float64, error) {
	return s.recomputeFn(ctx, driverID)
}

func (s *stubInsightService) RecomputeAllSafetyScores(ctx context.Context) (int, error) {
	return s.recomputeAllFn(ctx)
}

func (s *stubInsightService) GetMaintenancePrediction(ctx context.Context, vehicleID uuid.UUID) ([]*engine.MaintenancePrediction, error) {
	return s.maintenanceFn(ctx, vehicleID)
}

func (s *stubInsightService) GetFuelAnomalies(ctx context.Context, vehicleID uuid.UUID) (*engine.FuelAnomalyResult, error) {
	return s.fuelAnomaliesFn(ctx, vehicleID)
}

func (s *stubInsightService) GetCostPrediction(ctx context.Context, vehicleID uuid.UUID) (*engine.CostPrediction, error) {
	return s.costPredictionFn(ctx, vehicleID)
}

func insightRouter(stub *stubInsightService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewInsightHandler(stub, zap.NewNop())

	router := gin.New()
	insights := router.Group("/api/v1/insights")
	insights.GET("/safety-score/:driverId", handler.GetSafetyScore)
	insights.POST("/safety-score/:driverId/recompute", handler.RecomputeSafetyScore)
	insights.POST("/safety-score/recompute-all", handler.RecomputeAllSafetyScores)
	insights.GET("/maintenance/:vehicleId", handler.GetMaintenancePrediction)
	insights.GET("/fuel-anomaly/:vehicleId", handler.GetFuelAnomalies)
	insights.GET("/cost-prediction/:vehicleId", handler.GetCostPrediction)
	return router
}

func TestInsightHandler_GetSafetyScore(t *testing.T) {
	driverID := uuid.New()
	stub := &stubInsightService{
		getSafetyScoreFn: func(ctx context.Context, id uuid.UUID) (*engine.SafetyScoreBreakdown, error) {
			assert.Equal(t, driverID, id)
			return &engine.SafetyScoreBreakdown{DriverID: id, FinalScore: 87.5}, nil
		},
	}
	router := insightRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/safety-score/"+driverID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body engine.SafetyScoreBreakdown
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 87.5, body.FinalScore)
}

func TestInsightHandler_GetSafetyScore_BadID(t *testing.T) {
	router := insightRouter(&stubInsightService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/safety-score/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsightHandler_GetSafetyScore_NotFound(t *testing.T) {
	stub := &stubInsightService{
		getSafetyScoreFn: func(ctx context.Context, id uuid.UUID) (*engine.SafetyScoreBreakdown, error) {
			return nil, entities.ErrDriverNotFound
		},
	}
	router := insightRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/safety-score/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DRIVER_NOT_FOUND", body.Code)
}

func TestInsightHandler_RecomputeSafetyScore(t *testing.T) {
	driverID := uuid.New()
	stub := &stubInsightService{
		recomputeFn: func(ctx context.Context, id uuid.UUID) (float64, error) {
			return 92.3, nil
		},
	}
	router := insightRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/safety-score/"+driverID.String()+"/recompute", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body RecomputeScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, driverID, body.DriverID)
	assert.Equal(t, 92.3, body.Score)
}

func TestInsightHandler_RecomputeSafetyScore_WrappedNotFound(t *testing.T) {
	// The service wraps repository errors with %w on the persist path; the
	// sentinel must still map to 404.
	stub := &stubInsightService{
		recomputeFn: func(ctx context.Context, id uuid.UUID) (float64, error) {
			return 0, fmt.Errorf("failed to persist safety score: %w", entities.ErrDriverNotFound)
		},
	}
	router := insightRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/safety-score/"+uuid.NewString()+"/recompute", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "DRIVER_NOT_FOUND", body.Code)
}

func TestInsightHandler_RecomputeAllSafetyScores(t *testing.T) {
	stub := &stubInsightService{
		recomputeAllFn: func(ctx context.Context) (int, error) {
			return 17, nil
		},
	}
	router := insightRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/insights/safety-score/recompute-all", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body RecomputeAllResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 17, body.Updated)
}

func TestInsightHandler_GetMaintenancePrediction_VehicleNotFound(t *testing.T) {
	stub := &stubInsightService{
		maintenanceFn: func(ctx context.Context, id uuid.UUID) ([]*engine.MaintenancePrediction, error) {
			return nil, entities.ErrVehicleNotFound
		},
	}
	router := insightRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/maintenance/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "VEHICLE_NOT_FOUND", body.Code)
}

func TestInsightHandler_GetFuelAnomalies(t *testing.T) {
	vehicleID := uuid.New()
	stub := &stubInsightService{
		fuelAnomaliesFn: func(ctx context.Context, id uuid.UUID) (*engine.FuelAnomalyResult, error) {
			return &engine.FuelAnomalyResult{
				VehicleID:      id,
				MeanEfficiency: 11.2,
				Anomalies:      []*engine.FuelAnomaly{},
			}, nil
		},
	}
	router := insightRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/fuel-anomaly/"+vehicleID.String(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body engine.FuelAnomalyResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, vehicleID, body.VehicleID)
	assert.Equal(t, 11.2, body.MeanEfficiency)
}

func TestInsightHandler_GetCostPrediction_InternalError(t *testing.T) {
	stub := &stubInsightService{
		costPredictionFn: func(ctx context.Context, id uuid.UUID) (*engine.CostPrediction, error) {
			return nil, errors.New("db down")
		},
	}
	router := insightRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/insights/cost-prediction/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
}
