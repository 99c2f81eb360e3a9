package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/johnwards/caseseed/internal/provider"
)

const graphDateTime = "2006-01-02T15:04:05"

// Outlook creates events through the Microsoft Graph API.
type Outlook struct {
	api *provider.Client
}

// NewOutlook creates an Outlook provider. baseURL defaults to the public
// Graph endpoint.
func NewOutlook(accessToken, baseURL string, timeout time.Duration) *Outlook {
	if baseURL == "" {
		baseURL = "https://graph.microsoft.com"
	}
	return &Outlook{api: provider.NewClient(provider.ClientOptions{
		BaseURL: baseURL,
		Token:   accessToken,
		Timeout: timeout,
	})}
}

type graphDate struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

type graphEvent struct {
	Subject string `json:"subject"`
	Body    struct {
		ContentType string `json:"contentType"`
		Content     string `json:"content"`
	} `json:"body"`
	Start    graphDate `json:"start"`
	End      graphDate `json:"end"`
	Location struct {
		DisplayName string `json:"displayName"`
	} `json:"location"`
}

func (o *Outlook) CreateEvent(ctx context.Context, title, description string, start, end time.Time, location string) (string, error) {
	var ev graphEvent
	ev.Subject = title
	ev.Body.ContentType = "HTML"
	ev.Body.Content = description
	ev.Start = graphDate{DateTime: start.UTC().Format(graphDateTime), TimeZone: "UTC"}
	ev.End = graphDate{DateTime: end.UTC().Format(graphDateTime), TimeZone: "UTC"}
	ev.Location.DisplayName = location

	var out struct {
		ID string `json:"id"`
	}
	if err := o.api.PostJSON(ctx, "/v1.0/me/events", ev, &out); err != nil {
		return "", fmt.Errorf("graph create event: %w", err)
	}
	return out.ID, nil
}
