package service

import (
	"context"
	"fmt"

	"donation-matching-backend/internal/config"
	"donation-matching-backend/internal/logger"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

type firebasePushService struct {
	client messagingClient
}

// NewFirebasePushService returns nil, nil when no credentials are configured.
func NewFirebasePushService(ctx context.Context, cfg config.FirebaseConfig) (PushService, error) {
	if cfg.CredentialsFile == "" {
		return nil, nil
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging: %w", err)
	}
	return &firebasePushService{client: client}, nil
}

// Publish sends a data-only message. Clients treat it as a hint to re-query.
func (p *firebasePushService) Publish(ctx context.Context, topic string, data map[string]string) error {
	logger.ExternalServiceCall("FCM", "Send", "topic", topic)
	_, err := p.client.Send(ctx, &messaging.Message{Topic: topic, Data: data})
	logger.ExternalServiceResult("FCM", "Send", err, "topic", topic)
	return err
}
