package worker

import (
	"go.uber.org/zap"

	"github.com/campusvoice/issue-service/internal/service"
)

// StartNotificationWorker wires notification handlers onto the dispatcher so
// every issue and session event produces its notification.
func StartNotificationWorker(notificationService *service.NotificationService, logger *zap.Logger) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	if logger != nil {
		logger.Info("notification handlers registered")
	}
}
