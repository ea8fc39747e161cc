package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fleet-service/internal/config"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// NATSPublisher publishes engine events (safety score updates, overdue
// maintenance) to NATS subjects named after the event type.
type NATSPublisher struct {
	conn   *nats.Conn
	logger *zap.Logger
}

type eventEnvelope struct {
	EventType  string      `json:"event_type"`
	EntityID   uuid.UUID   `json:"entity_id"`
	Data       interface{} `json:"data,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// NewNATSPublisher connects to NATS with reconnect handling.
func NewNATSPublisher(cfg *config.NATSConfig, logger *zap.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name(cfg.ClientID),
		nats.Timeout(cfg.ConnectTimeout),
		nats.MaxReconnects(cfg.MaxReconnect),
		nats.ReconnectWait(cfg.ReconnectDelay),
		nats.PingInterval(cfg.PingInterval),
		nats.MaxPingsOutstanding(cfg.MaxPingsOut),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
	}

	conn, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	logger.Info("Successfully connected to NATS", zap.String("url", cfg.URL))

	return &NATSPublisher{
		conn:   conn,
		logger: logger,
	}, nil
}

// PublishDriverEvent publishes a driver-scoped event on the event type's
// subject.
func (p *NATSPublisher) PublishDriverEvent(ctx context.Context, eventType string, driverID uuid.UUID, data interface{}) error {
	return p.publish(eventType, driverID, data)
}

// PublishVehicleEvent publishes a vehicle-scoped event on the event type's
// subject.
func (p *NATSPublisher) PublishVehicleEvent(ctx context.Context, eventType string, vehicleID uuid.UUID, data interface{}) error {
	return p.publish(eventType, vehicleID, data)
}

func (p *NATSPublisher) publish(eventType string, entityID uuid.UUID, data interface{}) error {
	envelope := eventEnvelope{
		EventType:  eventType,
		EntityID:   entityID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event %s: %w", eventType, err)
	}

	if err := p.conn.Publish(eventType, payload); err != nil {
		p.logger.Error("Failed to publish event",
			zap.Error(err),
			zap.String("event_type", eventType),
			zap.String("entity_id", entityID.String()),
		)
		return fmt.Errorf("failed to publish event %s: %w", eventType, err)
	}

	return nil
}

// Close drains and closes the NATS connection.
func (p *NATSPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("Failed to drain NATS connection", zap.Error(err))
	}
	p.logger.Info("NATS publisher closed")
}
