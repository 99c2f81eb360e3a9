// Package calendar mirrors created calendar events into external calendar and
// video-conferencing providers and records the ids they hand back.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/provider"
	"github.com/johnwards/caseseed/internal/store"
)

// Provider names an external calendar or meeting provider.
type Provider string

const (
	ProviderOutlook Provider = "outlook"
	ProviderGoogle  Provider = "google"
	ProviderZoom    Provider = "zoom"
)

// Column returns the calendar_events column holding p's external id.
func (p Provider) Column() string {
	switch p {
	case ProviderOutlook:
		return domain.ColumnOutlookID
	case ProviderGoogle:
		return domain.ColumnGoogleID
	case ProviderZoom:
		return domain.ColumnZoomID
	}
	return ""
}

// EventCreator creates an event in an external calendar.
type EventCreator interface {
	CreateEvent(ctx context.Context, title, description string, start, end time.Time, location string) (string, error)
}

// MeetingCreator schedules a video meeting.
type MeetingCreator interface {
	CreateMeeting(ctx context.Context, title string, start time.Time, durationMinutes int) (string, error)
}

// Updater writes a patch onto stored rows.
type Updater interface {
	Update(ctx context.Context, table string, patch store.Row, filter store.Filter) (int64, error)
}

// Options configures an Aggregator. Nil providers are not attempted.
type Options struct {
	Primary   EventCreator // Outlook
	Secondary EventCreator // Google Calendar
	Meetings  MeetingCreator
	Store     Updater
	Timeout   time.Duration
	Logger    *slog.Logger
}

// Aggregator creates each event in every configured provider and writes the
// resulting provider ids back onto the stored event.
type Aggregator struct {
	calendars map[Provider]EventCreator
	meetings  MeetingCreator
	store     Updater
	timeout   time.Duration
	logger    *slog.Logger
}

// New creates an Aggregator.
func New(opts Options) *Aggregator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	calendars := map[Provider]EventCreator{}
	if opts.Primary != nil {
		calendars[ProviderOutlook] = opts.Primary
	}
	if opts.Secondary != nil {
		calendars[ProviderGoogle] = opts.Secondary
	}
	return &Aggregator{
		calendars: calendars,
		meetings:  opts.Meetings,
		store:     opts.Store,
		timeout:   timeout,
		logger:    logger,
	}
}

// SyncEvent creates ev in each calendar provider, and in the meeting provider
// when ev is virtual. The result holds only providers that succeeded; a failed
// provider is logged and left out.
func (a *Aggregator) SyncEvent(ctx context.Context, ev domain.CalendarEvent) map[Provider]string {
	var (
		mu  sync.Mutex
		ids = map[Provider]string{}
		g   errgroup.Group
	)
	attempt := func(p Provider, create func(ctx context.Context) (string, error)) {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			var id string
			err := provider.Call(func() error {
				var err error
				id, err = create(callCtx)
				return err
			})
			if err == nil && id == "" {
				err = errors.New("empty id returned")
			}
			if err != nil {
				a.logger.Warn("calendar sync failed", "provider", p, "event", ev.Title, "error", provider.Wrap(string(p), err))
				return nil
			}

			mu.Lock()
			ids[p] = id
			mu.Unlock()
			return nil
		})
	}

	for p, c := range a.calendars {
		attempt(p, func(ctx context.Context) (string, error) {
			return c.CreateEvent(ctx, ev.Title, ev.Description, ev.Start, ev.End, ev.Location)
		})
	}
	if ev.Virtual && a.meetings != nil {
		minutes := int(ev.Duration() / time.Minute)
		if minutes <= 0 {
			minutes = 60
		}
		attempt(ProviderZoom, func(ctx context.Context) (string, error) {
			return a.meetings.CreateMeeting(ctx, ev.Title, ev.Start, minutes)
		})
	}
	_ = g.Wait()

	return ids
}

// Sync runs SyncEvent for an already stored event and writes whichever ids
// came back onto its row. An event no provider accepted is left as is. The
// only error returned is a failed write-back.
func (a *Aggregator) Sync(ctx context.Context, ev domain.CalendarEvent) (map[Provider]string, error) {
	ids := a.SyncEvent(ctx, ev)
	if len(ids) == 0 || a.store == nil || ev.ID == "" {
		return ids, nil
	}

	patch := store.Row{}
	for p, id := range ids {
		patch[p.Column()] = id
	}
	if _, err := a.store.Update(ctx, domain.TableCalendarEvents, patch, store.Filter{"id": ev.ID}); err != nil {
		return ids, fmt.Errorf("record external ids for event %s: %w", ev.ID, err)
	}
	return ids, nil
}
