package handlers

import (
	"errors"
	"net/http"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/domain/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InsightHandler serves the per-entity analytics endpoints.
type InsightHandler struct {
	insightService services.InsightService
	logger         *zap.Logger
}

// NewInsightHandler creates a new InsightHandler.
func NewInsightHandler(insightService services.InsightService, logger *zap.Logger) *InsightHandler {
	return &InsightHandler{
		insightService: insightService,
		logger:         logger,
	}
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// RecomputeScoreResponse is the response to a score recompute.
type RecomputeScoreResponse struct {
	DriverID uuid.UUID `json:"driver_id"`
	Score    float64   `json:"score"`
}

// RecomputeAllResponse is the response to a fleet-wide score recompute.
type RecomputeAllResponse struct {
	Updated int `json:"updated"`
}

// GetSafetyScore computes a driver's safety score breakdown.
func (h *InsightHandler) GetSafetyScore(c *gin.Context) {
	driverID, ok := parseIDParam(c, "driverId", "Invalid driver ID format")
	if !ok {
		return
	}

	breakdown, err := h.insightService.GetSafetyScore(c.Request.Context(), driverID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to compute safety score")
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// RecomputeSafetyScore recomputes and persists a driver's safety score.
func (h *InsightHandler) RecomputeSafetyScore(c *gin.Context) {
	driverID, ok := parseIDParam(c, "driverId", "Invalid driver ID format")
	if !ok {
		return
	}

	score, err := h.insightService.RecomputeSafetyScore(c.Request.Context(), driverID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to recompute safety score")
		return
	}

	c.JSON(http.StatusOK, RecomputeScoreResponse{
		DriverID: driverID,
		Score:    score,
	})
}

// RecomputeAllSafetyScores recomputes every driver's safety score.
func (h *InsightHandler) RecomputeAllSafetyScores(c *gin.Context) {
	updated, err := h.insightService.RecomputeAllSafetyScores(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to recompute fleet safety scores")
		return
	}

	c.JSON(http.StatusOK, RecomputeAllResponse{Updated: updated})
}

// GetMaintenancePrediction projects maintenance due points for a vehicle.
func (h *InsightHandler) GetMaintenancePrediction(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "vehicleId", "Invalid vehicle ID format")
	if !ok {
		return
	}

	predictions, err := h.insightService.GetMaintenancePrediction(c.Request.Context(), vehicleID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to predict maintenance")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vehicle_id":  vehicleID,
		"predictions": predictions,
	})
}

// GetFuelAnomalies flags statistical outliers in a vehicle's fill history.
func (h *InsightHandler) GetFuelAnomalies(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "vehicleId", "Invalid vehicle ID format")
	if !ok {
		return
	}

	result, err := h.insightService.GetFuelAnomalies(c.Request.Context(), vehicleID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to detect fuel anomalies")
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCostPrediction forecasts next month's operating cost for a vehicle.
func (h *InsightHandler) GetCostPrediction(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "vehicleId", "Invalid vehicle ID format")
	if !ok {
		return
	}

	prediction, err := h.insightService.GetCostPrediction(c.Request.Context(), vehicleID)
	if err != nil {
		h.handleServiceError(c, err, "Failed to predict cost")
		return
	}

	c.JSON(http.StatusOK, prediction)
}

func parseIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: message,
		})
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps service errors onto HTTP responses. Services may
// wrap sentinels with %w, so matching goes through errors.Is.
func (h *InsightHandler) handleServiceError(c *gin.Context, err error, message string) {
	h.logger.Error(message, zap.Error(err))

	switch {
	case errors.Is(err, entities.ErrDriverNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Driver not found",
			Code:  "DRIVER_NOT_FOUND",
		})
	case errors.Is(err, entities.ErrVehicleNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error: "Vehicle not found",
			Code:  "VEHICLE_NOT_FOUND",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
