package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/paynudge/paynudge/internal/pkg/env"
)

// ResendMailer sends emails via the Resend API.
type ResendMailer struct {
	client      *resend.Client
	defaultFrom string
}

// NewResendMailer builds the process-wide Resend client from env config.
// RESEND_API_KEY is required; RESEND_FROM is the default sender address.
func NewResendMailer() (*ResendMailer, error) {
	apiKey := env.GetEnv("RESEND_API_KEY", "")
	if apiKey == "" {
		return nil, errors.New("RESEND_API_KEY is not configured")
	}
	return &ResendMailer{
		client:      resend.NewClient(apiKey),
		defaultFrom: env.GetEnv("RESEND_FROM", "PayNudge <billing@paynudge.app>"),
	}, nil
}

// Send implements Mailer.
func (m *ResendMailer) Send(ctx context.Context, msg *Message) (string, error) {
	from := msg.From
	if from == "" {
		from = m.defaultFrom
	}

	req := &resend.SendEmailRequest{
		From:    from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
	}
	if msg.ReplyTo != "" {
		req.ReplyTo = msg.ReplyTo
	}

	sent, err := m.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		return "", fmt.Errorf("resend: failed to send email: %w", err)
	}
	return sent.Id, nil
}
