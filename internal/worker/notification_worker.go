package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/dispatch-service/internal/events"
	"github.com/spec-kit/dispatch-service/internal/service"
)

// StartNotificationWorker wires the notification service into the event
// dispatcher so every accepted dispatch transition is fanned out.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, logger *zap.Logger) {
	notifications.RegisterHandlers(dispatcher)
	logger.Info("notification worker registered")
}
