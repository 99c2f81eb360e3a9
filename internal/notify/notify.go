// Package notify fans a case update out to a user's email, SMS and chat
// channels. Each channel succeeds or fails on its own; nothing here fails the
// caller.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/provider"
)

// Channel names a delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelChat  Channel = "chat"
)

// EmailSender delivers email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender delivers text messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// ChatPoster posts to a chat handle or channel.
type ChatPoster interface {
	PostChatMessage(ctx context.Context, handle, text string) error
}

// Outcome is the result of one channel attempt. Err is nil on delivery.
type Outcome struct {
	Channel Channel
	Address string
	Err     error
}

// Delivered reports whether the channel accepted the notification.
func (o Outcome) Delivered() bool { return o.Err == nil }

// Options configures a Notifier. Nil senders disable their channel.
type Options struct {
	Email   EmailSender
	SMS     SMSSender
	Chat    ChatPoster
	Timeout time.Duration
	Logger  *slog.Logger
}

// Notifier dispatches case updates to every channel a user has configured.
type Notifier struct {
	email   EmailSender
	sms     SMSSender
	chat    ChatPoster
	timeout time.Duration
	logger  *slog.Logger
}

// New creates a Notifier.
func New(opts Options) *Notifier {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Notifier{
		email:   opts.Email,
		sms:     opts.SMS,
		chat:    opts.Chat,
		timeout: timeout,
		logger:  logger,
	}
}

type attempt struct {
	channel Channel
	address string
	send    func(ctx context.Context) error
}

// Notify sends message about c to u on each channel u has an address for and
// the Notifier has a sender for. Channels run concurrently; outcomes are
// returned in email, SMS, chat order. A missing address or sender is skipped
// silently and yields no outcome.
func (n *Notifier) Notify(ctx context.Context, u domain.User, c domain.Case, message string) []Outcome {
	attempts := n.plan(u, c, message)
	if len(attempts) == 0 {
		return nil
	}

	outcomes := make([]Outcome, len(attempts))
	var g errgroup.Group
	for i, a := range attempts {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, n.timeout)
			defer cancel()

			err := provider.Call(func() error { return a.send(callCtx) })
			outcomes[i] = Outcome{Channel: a.channel, Address: a.address, Err: provider.Wrap(string(a.channel), err)}
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.Err != nil {
			n.logger.Warn("notification failed", "channel", o.Channel, "user", u.Email, "case", c.CaseNumber, "error", o.Err)
			continue
		}
		n.logger.Debug("notification sent", "channel", o.Channel, "user", u.Email, "case", c.CaseNumber)
	}
	return outcomes
}

func (n *Notifier) plan(u domain.User, c domain.Case, message string) []attempt {
	var attempts []attempt
	if n.email != nil && u.Email != "" {
		subject := fmt.Sprintf("New update for case: %s", c.Title)
		attempts = append(attempts, attempt{ChannelEmail, u.Email, func(ctx context.Context) error {
			return n.email.SendEmail(ctx, u.Email, subject, message)
		}})
	}
	if n.sms != nil && u.Phone != "" {
		body := fmt.Sprintf("Case Update: %s\n%s", c.Title, message)
		attempts = append(attempts, attempt{ChannelSMS, u.Phone, func(ctx context.Context) error {
			return n.sms.SendSMS(ctx, u.Phone, body)
		}})
	}
	if n.chat != nil && u.ChatHandle != "" {
		text := fmt.Sprintf("*Case Update: %s*\n%s", c.Title, message)
		attempts = append(attempts, attempt{ChannelChat, u.ChatHandle, func(ctx context.Context) error {
			return n.chat.PostChatMessage(ctx, u.ChatHandle, text)
		}})
	}
	return attempts
}
