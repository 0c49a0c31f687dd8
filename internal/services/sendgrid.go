package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridSender delivers mail through the Sendgrid v3 API.
type SendgridSender struct {
	client     *sendgrid.Client
	from       *sgmail.Email
	subjPrefix string
	log        zerolog.Logger
}

var _ EmailSender = (*SendgridSender)(nil)

func NewSendgridSender(key, appName, fromEmail string, log zerolog.Logger) *SendgridSender {
	return &SendgridSender{
		client:     sendgrid.NewSendClient(key),
		from:       sgmail.NewEmail(appName, fromEmail),
		subjPrefix: "[" + appName + "] ",
		log:        log.With().Str("component", "sendgrid").Logger(),
	}
}

func (s *SendgridSender) Send(msg EmailMessage) error {
	p := sgmail.NewPersonalization()
	p.Subject = s.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.To))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(
		sgmail.NewContent("text/plain", msg.TextContent),
		sgmail.NewContent("text/html", msg.HTMLContent),
	)

	resp, err := s.client.Send(m)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	s.log.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}
