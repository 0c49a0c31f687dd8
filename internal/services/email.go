package services

import (
	"github.com/rs/zerolog"
)

// EmailMessage is a rendered outbound email.
type EmailMessage struct {
	To          string
	ToName      string
	Subject     string
	TextContent string
	HTMLContent string
}

// EmailSender delivers a single message. Delivery is fire-and-forget from the
// caller's point of view; failures are logged, not propagated into stored
// records.
type EmailSender interface {
	Send(msg EmailMessage) error
}

// ConsoleSender logs messages instead of delivering them. Used in development
// when no sendgrid key is configured.
type ConsoleSender struct {
	log zerolog.Logger
}

var _ EmailSender = (*ConsoleSender)(nil)

func NewConsoleSender(log zerolog.Logger) *ConsoleSender {
	return &ConsoleSender{log: log.With().Str("component", "email").Logger()}
}

func (c *ConsoleSender) Send(msg EmailMessage) error {
	c.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("bytes", len(msg.HTMLContent)).
		Msg("email (console)")
	return nil
}
