package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends SMS through Twilio.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSender creates a sender for the given account sending from the
// given number.
func NewTwilioSender(accountSID, authToken, from string) *TwilioSender {
	return NewTwilioSenderWithClient(accountSID, authToken, from, nil)
}

// NewTwilioSenderWithClient is NewTwilioSender with the HTTP client the REST
// calls go through. A nil hc uses Twilio's default client.
func NewTwilioSenderWithClient(accountSID, authToken, from string, hc *http.Client) *TwilioSender {
	c := &client.Client{
		Credentials: client.NewCredentials(accountSID, authToken),
		HTTPClient:  hc,
	}
	c.SetAccountSid(accountSID)
	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{Client: c}),
		from:   from,
	}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, body string) error {
	// The Twilio client does not take a context; honour cancellation up front.
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio create message: %w", err)
	}
	return nil
}
