package services

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

// PushSender delivers a push message to a device token.
type PushSender interface {
	SendToToken(ctx context.Context, token, title, body string, data map[string]string) error
}

// FCMPush sends push notifications via Firebase Cloud Messaging.
// The client is nil when no service account is configured (dev mode) and
// every send becomes a no-op.
type FCMPush struct {
	client *messaging.Client
	log    zerolog.Logger
}

var _ PushSender = (*FCMPush)(nil)

// NewFCMPush initializes the messaging client. A missing service account is
// not an error; push is simply disabled.
func NewFCMPush(serviceAccountPath string, log zerolog.Logger) *FCMPush {
	l := log.With().Str("component", "fcm").Logger()
	if serviceAccountPath == "" {
		l.Info().Msg("no service account configured, push disabled")
		return &FCMPush{log: l}
	}

	ctx := context.Background()
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		l.Error().Err(err).Msg("failed to initialize firebase app, push disabled")
		return &FCMPush{log: l}
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		l.Error().Err(err).Msg("failed to get messaging client, push disabled")
		return &FCMPush{log: l}
	}

	l.Info().Msg("push notifications enabled")
	return &FCMPush{client: client, log: l}
}

func (p *FCMPush) SendToToken(ctx context.Context, token, title, body string, data map[string]string) error {
	if p.client == nil || token == "" {
		return nil
	}

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
	}
	if data != nil {
		msg.Data = data
	}

	if _, err := p.client.Send(ctx, msg); err != nil {
		return fmt.Errorf("fcm send: %w", err)
	}
	return nil
}
