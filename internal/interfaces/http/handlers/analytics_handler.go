package handlers

import (
	"errors"
	"net/http"
	"time"

	"fleet-service/internal/domain/entities"
	"fleet-service/internal/domain/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// AnalyticsHandler serves the fleet-wide report endpoints.
type AnalyticsHandler struct {
	analyticsService   services.AnalyticsService
	defaultRangeMonths int
	logger             *zap.Logger
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService services.AnalyticsService, defaultRangeMonths int, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService:   analyticsService,
		defaultRangeMonths: defaultRangeMonths,
		logger:             logger,
	}
}

// GetSummary builds the fleet-wide analytics report. startDate and endDate
// are optional YYYY-MM-DD query parameters; the range defaults to the
// trailing months configured for the service.
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	now := time.Now().UTC()
	start := now.AddDate(0, -h.defaultRangeMonths, 0)
	end := now

	if raw := c.Query("startDate"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid startDate, expected YYYY-MM-DD",
				Details: err.Error(),
			})
			return
		}
		start = parsed
	}

	if raw := c.Query("endDate"); raw != "" {
		parsed, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Error:   "Invalid endDate, expected YYYY-MM-DD",
				Details: err.Error(),
			})
			return
		}
		// Include the whole end day.
		end = parsed.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	if end.Before(start) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "endDate must not precede startDate",
			Code:  "INVALID_DATE_RANGE",
		})
		return
	}

	summary, err := h.analyticsService.GetSummary(c.Request.Context(), start, end)
	if err != nil {
		h.handleServiceError(c, err, "Failed to build analytics summary")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// GetFleetStatus builds the live fleet dashboard payload.
func (h *AnalyticsHandler) GetFleetStatus(c *gin.Context) {
	status, err := h.analyticsService.GetFleetStatus(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err, "Failed to build fleet status")
		return
	}

	c.JSON(http.StatusOK, status)
}

func (h *AnalyticsHandler) handleServiceError(c *gin.Context, err error, message string) {
	h.logger.Error(message, zap.Error(err))

	switch {
	case errors.Is(err, entities.ErrInvalidDateRange):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error: "Invalid date range",
			Code:  "INVALID_DATE_RANGE",
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "Internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
