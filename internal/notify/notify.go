package notify

import (
	"context"

	"ridepool-backend/internal/logger"
	"ridepool-backend/internal/service"
)

// LogNotifier writes notification events to the log instead of delivering
// them. Used in development and as the fallback driver.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, userID, event string, payload map[string]string) error {
	args := []any{"user_id", userID, "event", event}
	for k, v := range payload {
		args = append(args, k, v)
	}
	logger.InfoContext(ctx, "notification", args...)
	return nil
}

var _ service.Notifier = (*LogNotifier)(nil)
