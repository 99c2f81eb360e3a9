package main

import (
	"context"
	"log/slog"

	"github.com/johnwards/caseseed/internal/calendar"
	"github.com/johnwards/caseseed/internal/config"
	"github.com/johnwards/caseseed/internal/enrich"
	"github.com/johnwards/caseseed/internal/notify"
	"github.com/johnwards/caseseed/internal/store"
)

type providers struct {
	notifier *notify.Notifier
	calendar *calendar.Aggregator
	enricher *enrich.Enricher
}

// buildProviders constructs a client for every provider with credentials.
// Interface fields are only assigned when enabled so that an absent provider
// is a nil interface rather than a nil pointer.
func buildProviders(ctx context.Context, cfg config.Config, st *store.Store, logger *slog.Logger) (providers, error) {
	nopts := notify.Options{Timeout: cfg.HTTPTimeout, Logger: logger}
	if cfg.SendGrid.Enabled() {
		nopts.Email = notify.NewSendGridSender(cfg.SendGrid.APIKey, cfg.SendGrid.From)
	}
	if cfg.Twilio.Enabled() {
		nopts.SMS = notify.NewTwilioSender(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.From)
	}
	if cfg.Slack.Enabled() {
		nopts.Chat = notify.NewSlackPoster(cfg.Slack.BotToken)
	}

	copts := calendar.Options{Store: st, Timeout: cfg.HTTPTimeout, Logger: logger}
	if cfg.Outlook.Enabled() {
		copts.Primary = calendar.NewOutlook(cfg.Outlook.AccessToken, "", cfg.HTTPTimeout)
	}
	if cfg.Google.Enabled() {
		g, err := calendar.NewGoogle(ctx, cfg.Google.AccessToken, cfg.Google.CalendarID)
		if err != nil {
			return providers{}, err
		}
		copts.Secondary = g
	}
	if cfg.Zoom.Enabled() {
		copts.Meetings = calendar.NewZoom(cfg.Zoom.AccessToken, "", cfg.HTTPTimeout)
	}

	var analyzer enrich.Analyzer
	if cfg.Analytics.Enabled() {
		analyzer = enrich.NewAzure(cfg.Analytics.Endpoint, cfg.Analytics.Key, cfg.HTTPTimeout)
	}

	logger.Info("providers configured",
		"email", nopts.Email != nil, "sms", nopts.SMS != nil, "chat", nopts.Chat != nil,
		"outlook", copts.Primary != nil, "google", copts.Secondary != nil, "zoom", copts.Meetings != nil,
		"text_analytics", analyzer != nil,
	)

	return providers{
		notifier: notify.New(nopts),
		calendar: calendar.New(copts),
		enricher: enrich.New(analyzer, cfg.HTTPTimeout, logger),
	}, nil
}
