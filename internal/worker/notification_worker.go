package worker

import (
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/service"
)

// StartNotificationWorker wires the notification service into the event
// dispatcher so registration, booking, and cancellation events produce
// emails.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		logger.Warn("notification service not configured; email delivery disabled")
		return
	}
	notificationService.RegisterHandlers()
	logger.Info("notification worker started")
}
