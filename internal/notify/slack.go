package notify

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"
)

// SlackPoster posts chat messages through the Slack Web API.
type SlackPoster struct {
	client *slack.Client
}

// NewSlackPoster creates a poster using a bot token.
func NewSlackPoster(token string, opts ...slack.Option) *SlackPoster {
	return &SlackPoster{client: slack.New(token, opts...)}
}

func (p *SlackPoster) PostChatMessage(ctx context.Context, handle, text string) error {
	if _, _, err := p.client.PostMessageContext(ctx, handle, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("slack post message: %w", err)
	}
	return nil
}
