package notification

import (
	"context"

	"github.com/invoicehub/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// LogNotifier writes reminder notifications to the application log. It is the
// default delivery backend when no mail or SMS gateway is configured, and the
// seam where a real gateway plugs in.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a new LogNotifier
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify records the notification. It never fails; a real gateway adapter
// returns delivery errors here so they land in the reminder history.
func (n *LogNotifier) Notify(_ context.Context, channel billing.ReminderChannel, recipients []string, message string) error {
	n.logger.Info("Reminder notification",
		zap.String("channel", string(channel)),
		zap.Strings("recipients", recipients),
		zap.String("message", message),
	)
	return nil
}
