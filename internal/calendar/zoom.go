package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/johnwards/caseseed/internal/provider"
)

// zoomScheduledMeeting is the Zoom meeting type for a meeting with a fixed time.
const zoomScheduledMeeting = 2

// Zoom schedules meetings through the Zoom REST API.
type Zoom struct {
	api *provider.Client
}

// NewZoom creates a Zoom provider. baseURL defaults to the public API.
func NewZoom(accessToken, baseURL string, timeout time.Duration) *Zoom {
	if baseURL == "" {
		baseURL = "https://api.zoom.us"
	}
	return &Zoom{api: provider.NewClient(provider.ClientOptions{
		BaseURL: baseURL,
		Token:   accessToken,
		Timeout: timeout,
	})}
}

type zoomMeeting struct {
	Topic     string `json:"topic"`
	Type      int    `json:"type"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	Timezone  string `json:"timezone"`
}

func (z *Zoom) CreateMeeting(ctx context.Context, title string, start time.Time, durationMinutes int) (string, error) {
	req := zoomMeeting{
		Topic:     title,
		Type:      zoomScheduledMeeting,
		StartTime: start.UTC().Format(time.RFC3339),
		Duration:  durationMinutes,
		Timezone:  "UTC",
	}

	// Zoom meeting ids are large integers.
	var out struct {
		ID json.Number `json:"id"`
	}
	if err := z.api.PostJSON(ctx, "/v2/users/me/meetings", req, &out); err != nil {
		return "", fmt.Errorf("zoom create meeting: %w", err)
	}
	return out.ID.String(), nil
}
