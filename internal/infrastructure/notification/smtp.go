// internal/infrastructure/notification/smtp.go
package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/your-org/cart-service/internal/config"
)

// SMTPGateway delivers reminder notifications by email when no push token
// is available. Message.Destination is the recipient address.
type SMTPGateway struct {
	config *config.Config
}

// NewSMTPGateway creates an email gateway from the configured SMTP settings
func NewSMTPGateway(cfg *config.Config) (*SMTPGateway, error) {
	if cfg.External.Email.SMTPHost == "" || cfg.External.Email.SMTPUser == "" {
		return nil, fmt.Errorf("SMTP configuration incomplete: missing host or username")
	}
	return &SMTPGateway{config: cfg}, nil
}

// Send delivers a single email. net/smtp negotiates STARTTLS with the
// server when available.
func (g *SMTPGateway) Send(ctx context.Context, msg *Message) error {
	emailCfg := g.config.External.Email

	auth := smtp.PlainAuth("", emailCfg.SMTPUser, emailCfg.SMTPPass, emailCfg.SMTPHost)

	from := emailCfg.FromEmail
	if emailCfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", emailCfg.FromName, emailCfg.FromEmail)
	}

	var body bytes.Buffer
	fmt.Fprintf(&body, "From: %s\r\n", from)
	fmt.Fprintf(&body, "To: %s\r\n", msg.Destination)
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Title)
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.Body)
	body.WriteString("\r\n")

	serverAddr := fmt.Sprintf("%s:%d", emailCfg.SMTPHost, emailCfg.SMTPPort)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(serverAddr, auth, emailCfg.FromEmail, []string{msg.Destination}, body.Bytes())
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send reminder email: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("reminder email send timed out: %w", ctx.Err())
	}
}
