package notify

import (
	"context"
	"fmt"

	"github.com/Brownbull/ayni-be/utils"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationProgress NotificationType = "progress"
	NotificationStatus   NotificationType = "status"
	NotificationError    NotificationType = "error"
	NotificationComplete NotificationType = "complete"
)

type Notification struct {
	Type     NotificationType
	UploadId uuid.UUID
	Payload  map[string]any
}

// Notifier accepts fire-and-forget pipeline checkpoint messages. Delivery and
// transport are the consumer's concern; implementations must never fail the
// pipeline.
type Notifier interface {
	Notify(ctx context.Context, notification Notification)
}

// SlogNotifier is the shipped implementation: it writes every notification to
// the context logger.
type SlogNotifier struct{}

func (n SlogNotifier) Notify(ctx context.Context, notification Notification) {
	logger := utils.LoggerFromContext(ctx)

	attrs := make([]any, 0, 2+2*len(notification.Payload))
	attrs = append(attrs, "upload_id", notification.UploadId)
	for key, value := range notification.Payload {
		attrs = append(attrs, key, value)
	}
	logger.InfoContext(ctx, fmt.Sprintf("upload notification: %s", notification.Type), attrs...)
}
