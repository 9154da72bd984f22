package notification

import (
	"context"
	"log/slog"
)

const (
	// KindTransfer indicates a transfer-in event.
	KindTransfer = "transfer"
	// KindDeposit indicates an external deposit credited to an account.
	KindDeposit = "deposit"
	// KindWelfare indicates a welfare payment.
	KindWelfare = "welfare"
)

// Message describes a notification payload.
type Message struct {
	Kind   string
	Owner  string
	Amount int64
	Body   string
}

// Notifier delivers notifications to downstream systems. Delivery is best
// effort; undelivered amounts stay on the account's unseen counters until the
// owner is next shown them.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier is a stub implementation that writes notifications to the
// logger.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier stub.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification", "kind", message.Kind, "owner", message.Owner, "amount", message.Amount, "body", message.Body)
	return nil
}
