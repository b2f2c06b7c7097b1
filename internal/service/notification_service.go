package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/dispatch-service/internal/config"
	"github.com/spec-kit/dispatch-service/internal/events"
	"github.com/spec-kit/dispatch-service/internal/persistence"
)

// NotificationService fans dispatch events out to downstream consumers. Each
// event is republished as JSON on a Redis pub/sub channel, and optionally
// POSTed to a webhook. Delivery is best effort; failures are logged and never
// fail the originating operation.
type NotificationService struct {
	cfg    config.NotificationConfig
	redis  *persistence.Redis
	logger *zap.Logger
	client *http.Client
}

// NewNotificationService creates the service.
func NewNotificationService(cfg config.NotificationConfig, redis *persistence.Redis, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		cfg:    cfg,
		redis:  redis,
		logger: logger,
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

// RegisterHandlers subscribes the service to every dispatch event type.
func (s *NotificationService) RegisterHandlers(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventDispatchReviewed,
		events.EventUnitAssigned,
		events.EventDispatchStatusChanged,
		events.EventNotificationSent,
	} {
		dispatcher.Subscribe(eventType, s.HandleEvent)
	}
}

// HandleEvent republishes one event.
func (s *NotificationService) HandleEvent(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("failed to encode event",
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
		return err
	}

	if s.redis != nil {
		if err := s.redis.Publish(ctx, s.cfg.Channel, payload); err != nil {
			s.logger.Warn("failed to publish event to redis",
				zap.String("channel", s.cfg.Channel),
				zap.String("event_type", string(event.Type)),
				zap.Error(err))
		}
	}

	if s.cfg.WebhookURL != "" {
		s.postWebhook(ctx, event.Type, payload)
	}

	s.logger.Info("dispatch event delivered",
		zap.String("event_type", string(event.Type)),
		zap.String("dispatch_id", event.DispatchID))
	return nil
}

func (s *NotificationService) postWebhook(ctx context.Context, eventType events.EventType, payload []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		s.logger.Warn("failed to build webhook request", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("webhook delivery failed",
			zap.String("event_type", string(eventType)),
			zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		s.logger.Warn("webhook returned non-success status",
			zap.String("event_type", string(eventType)),
			zap.Int("status", resp.StatusCode))
	}
}
