package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendGridSender sends email through SendGrid.
type SendGridSender struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendGridSender creates a sender authenticated with apiKey that sends
// from the given address.
func NewSendGridSender(apiKey, from string) *SendGridSender {
	return NewSendGridSenderWithHost(apiKey, from, "")
}

// NewSendGridSenderWithHost is NewSendGridSender against a different API
// host. An empty host means the public SendGrid API.
func NewSendGridSenderWithHost(apiKey, from, host string) *SendGridSender {
	req := sendgrid.GetRequest(apiKey, "/v3/mail/send", host)
	req.Method = "POST"
	return &SendGridSender{
		client: &sendgrid.Client{Request: req},
		from:   mail.NewEmail("", from),
	}
}

func (s *SendGridSender) SendEmail(ctx context.Context, to, subject, body string) error {
	msg := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", to), body, body)
	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}
