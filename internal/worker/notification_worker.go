package worker

import (
	"github.com/baroform/lead-service/internal/service"
)

// StartNotificationWorker registers lead notification handlers.
func StartNotificationWorker(notificationService *service.NotificationService) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
}
