package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fleet-service/internal/config"
	"fleet-service/internal/interfaces/http/handlers"
	"fleet-service/internal/interfaces/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP server.
type Server struct {
	config     *config.Config
	logger     *zap.Logger
	httpServer *http.Server
	router     *gin.Engine
}

// NewServer creates the HTTP server and mounts all routes.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	insightHandler *handlers.InsightHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthCheck func(ctx context.Context) error,
) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.RequestID())
	router.Use(middleware.Timeout(cfg.Server.Timeout))
	if cfg.Metrics.Enabled {
		router.Use(middleware.Metrics())
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		if healthCheck != nil {
			if err := healthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":    "unhealthy",
					"service":   "fleet-service",
					"timestamp": time.Now().UTC(),
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"service":   "fleet-service",
			"timestamp": time.Now().UTC(),
		})
	})

	api := router.Group("/api/v1")

	insights := api.Group("/insights")
	{
		insights.GET("/safety-score/:driverId", insightHandler.GetSafetyScore)
		insights.POST("/safety-score/:driverId/recompute", insightHandler.RecomputeSafetyScore)
		insights.POST("/safety-score/recompute-all", insightHandler.RecomputeAllSafetyScores)
		insights.GET("/maintenance/:vehicleId", insightHandler.GetMaintenancePrediction)
		insights.GET("/fuel-anomaly/:vehicleId", insightHandler.GetFuelAnomalies)
		insights.GET("/cost-prediction/:vehicleId", insightHandler.GetCostPrediction)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("", analyticsHandler.GetSummary)
		analytics.GET("/fleet-status", analyticsHandler.GetFleetStatus)
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:        router,
			ReadTimeout:    cfg.Server.Timeout,
			WriteTimeout:   cfg.Server.Timeout,
			IdleTimeout:    2 * cfg.Server.Timeout,
			MaxHeaderBytes: 1 << 20, // 1 MB
		},
	}
}

// Start runs the HTTP server.
func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server",
		zap.Int("port", s.config.Server.HTTPPort),
		zap.String("environment", s.config.Server.Environment),
	)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop shuts the HTTP server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")

	return s.httpServer.Shutdown(ctx)
}

// GetRouter exposes the router for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
