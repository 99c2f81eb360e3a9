package calendar

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Google creates events in a Google Calendar.
type Google struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogle creates a Google Calendar provider authorised with an OAuth2
// access token. Extra client options are appended, which lets tests point the
// service at a local endpoint.
func NewGoogle(ctx context.Context, accessToken, calendarID string, opts ...option.ClientOption) (*Google, error) {
	if calendarID == "" {
		calendarID = "primary"
	}
	if accessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google calendar service: %w", err)
	}
	return &Google{svc: svc, calendarID: calendarID}, nil
}

func (g *Google) CreateEvent(ctx context.Context, title, description string, start, end time.Time, location string) (string, error) {
	ev := &gcal.Event{
		Summary:     title,
		Description: description,
		Location:    location,
		Start:       &gcal.EventDateTime{DateTime: start.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: end.UTC().Format(time.RFC3339), TimeZone: "UTC"},
	}

	created, err := g.svc.Events.Insert(g.calendarID, ev).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("google insert event: %w", err)
	}
	return created.Id, nil
}
