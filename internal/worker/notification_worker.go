package worker

import (
	"github.com/spec-kit/servicedesk/internal/email"
	"github.com/spec-kit/servicedesk/internal/events"
	"github.com/spec-kit/servicedesk/internal/service"
)

// StartNotificationWorker registers the post-commit event subscribers:
// in-app notifications and outbound email.
func StartNotificationWorker(dispatcher events.Dispatcher, notifications *service.NotificationService, mail *email.Listener) {
	if notifications != nil {
		notifications.RegisterHandlers()
	}
	if mail != nil {
		mail.RegisterHandlers(dispatcher)
	}
}
