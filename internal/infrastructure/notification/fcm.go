// internal/infrastructure/notification/fcm.go
package notification

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMGateway delivers push notifications through Firebase Cloud Messaging.
// Message.Destination is the device registration token.
type FCMGateway struct {
	client *messaging.Client
}

// NewFCMGateway initializes the Firebase app and messaging client from a
// service account credentials file.
func NewFCMGateway(ctx context.Context, credentialsFile string) (*FCMGateway, error) {
	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(ctx, nil, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FCMGateway{client: client}, nil
}

// Send delivers a single push notification
func (g *FCMGateway) Send(ctx context.Context, msg *Message) error {
	message := &messaging.Message{
		Token: msg.Destination,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	}

	if _, err := g.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send push notification: %w", err)
	}

	return nil
}
