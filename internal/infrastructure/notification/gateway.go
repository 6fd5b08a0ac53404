// internal/infrastructure/notification/gateway.go
package notification

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Message is a single outbound notification. Destination is a device push
// token or an email address depending on the gateway behind the interface.
type Message struct {
	Destination string
	Title       string
	Body        string
	Data        map[string]string
}

// Gateway delivers notifications to a single destination. Delivery is best
// effort; callers treat failures as non-fatal and may retry on a later pass.
type Gateway interface {
	Send(ctx context.Context, msg *Message) error
}

// LogGateway writes notifications to the log instead of delivering them.
// Used in development when no push or email provider is configured.
type LogGateway struct {
	logger *logrus.Logger
}

// NewLogGateway creates a gateway that only logs messages
func NewLogGateway(logger *logrus.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// Send logs the message and reports success
func (g *LogGateway) Send(_ context.Context, msg *Message) error {
	g.logger.WithFields(logrus.Fields{
		"destination": msg.Destination,
		"title":       msg.Title,
		"body":        msg.Body,
		"data":        msg.Data,
	}).Info("Notification delivery skipped (log gateway)")
	return nil
}
