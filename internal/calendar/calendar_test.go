package calendar_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/johnwards/caseseed/internal/calendar"
	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/store"
)

type fakeCalendar struct {
	id    string
	err   error
	panic bool
	calls int
	mu    sync.Mutex
}

func (f *fakeCalendar) CreateEvent(context.Context, string, string, time.Time, time.Time, string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.panic {
		panic("calendar exploded")
	}
	return f.id, f.err
}

type fakeMeetings struct {
	id       string
	err      error
	duration int
	calls    int
}

func (f *fakeMeetings) CreateMeeting(_ context.Context, _ string, _ time.Time, minutes int) (string, error) {
	f.calls++
	f.duration = minutes
	return f.id, f.err
}

type fakeUpdater struct {
	table  string
	patch  store.Row
	filter store.Filter
	calls  int
	err    error
}

func (f *fakeUpdater) Update(_ context.Context, table string, patch store.Row, filter store.Filter) (int64, error) {
	f.calls++
	f.table, f.patch, f.filter = table, patch, filter
	return 1, f.err
}

func event(virtual bool) domain.CalendarEvent {
	start := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)
	return domain.CalendarEvent{
		ID:          "evt-1",
		Title:       "Client Meeting",
		Description: "Quarterly review",
		Start:       start,
		End:         start.Add(90 * time.Minute),
		Location:    "Conference Room A",
		Type:        domain.EventMeeting,
		Virtual:     virtual,
	}
}

func TestSyncRecordsSuccessfulProvidersOnly(t *testing.T) {
	outlook := &fakeCalendar{id: "o-1"}
	google := &fakeCalendar{err: errors.New("quota exceeded")}
	zoom := &fakeMeetings{id: "123456789"}
	up := &fakeUpdater{}

	agg := calendar.New(calendar.Options{Primary: outlook, Secondary: google, Meetings: zoom, Store: up})
	ids, err := agg.Sync(context.Background(), event(true))
	require.NoError(t, err)

	assert.Equal(t, map[calendar.Provider]string{
		calendar.ProviderOutlook: "o-1",
		calendar.ProviderZoom:    "123456789",
	}, ids)
	assert.Equal(t, 90, zoom.duration)

	require.Equal(t, 1, up.calls)
	assert.Equal(t, domain.TableCalendarEvents, up.table)
	assert.Equal(t, store.Filter{"id": "evt-1"}, up.filter)
	assert.Equal(t, store.Row{"outlook_id": "o-1", "zoom_id": "123456789"}, up.patch)
}

func TestSyncSkipsMeetingForInPersonEvent(t *testing.T) {
	zoom := &fakeMeetings{id: "1"}
	agg := calendar.New(calendar.Options{Primary: &fakeCalendar{id: "o-1"}, Meetings: zoom})

	ids := agg.SyncEvent(context.Background(), event(false))
	assert.Equal(t, 0, zoom.calls)
	assert.NotContains(t, ids, calendar.ProviderZoom)
}

func TestSyncAllFailedLeavesRowUntouched(t *testing.T) {
	up := &fakeUpdater{}
	agg := calendar.New(calendar.Options{
		Primary:   &fakeCalendar{panic: true},
		Secondary: &fakeCalendar{id: ""},
		Meetings:  &fakeMeetings{err: errors.New("unauthorized")},
		Store:     up,
	})

	ids, err := agg.Sync(context.Background(), event(true))
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Equal(t, 0, up.calls)
}

func TestSyncReportsWriteBackFailure(t *testing.T) {
	up := &fakeUpdater{err: store.ErrUnavailable}
	agg := calendar.New(calendar.Options{Primary: &fakeCalendar{id: "o-1"}, Store: up})

	_, err := agg.Sync(context.Background(), event(false))
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestOutlookCreateEvent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/me/events", r.URL.Path)
		assert.Equal(t, "Bearer graph-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"AAMkAG"}`))
	}))
	defer srv.Close()

	ev := event(false)
	id, err := calendar.NewOutlook("graph-token", srv.URL, time.Second).
		CreateEvent(context.Background(), ev.Title, ev.Description, ev.Start, ev.End, ev.Location)
	require.NoError(t, err)
	assert.Equal(t, "AAMkAG", id)

	assert.Equal(t, "Client Meeting", got["subject"])
	start := got["start"].(map[string]any)
	assert.Equal(t, "2026-03-02T14:00:00", start["dateTime"])
	assert.Equal(t, "UTC", start["timeZone"])
	assert.Equal(t, "Conference Room A", got["location"].(map[string]any)["displayName"])
}

func TestOutlookErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "InvalidAuthenticationToken", http.StatusUnauthorized)
	}))
	defer srv.Close()

	ev := event(false)
	_, err := calendar.NewOutlook("bad", srv.URL, time.Second).
		CreateEvent(context.Background(), ev.Title, ev.Description, ev.Start, ev.End, ev.Location)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestZoomCreateMeeting(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/users/me/meetings", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"id":85746065432,"join_url":"https://zoom.us/j/85746065432"}`))
	}))
	defer srv.Close()

	id, err := calendar.NewZoom("zoom-token", srv.URL, time.Second).
		CreateMeeting(context.Background(), "Deposition", event(true).Start, 120)
	require.NoError(t, err)
	assert.Equal(t, "85746065432", id)
	assert.Equal(t, "Deposition", got["topic"])
	assert.EqualValues(t, 2, got["type"])
	assert.EqualValues(t, 120, got["duration"])
	assert.Equal(t, "2026-03-02T14:00:00Z", got["start_time"])
}

func TestGoogleCreateEvent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/calendars/primary/events"), r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-evt-1"}`))
	}))
	defer srv.Close()

	g, err := calendar.NewGoogle(context.Background(), "", "",
		option.WithEndpoint(srv.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)

	ev := event(false)
	id, err := g.CreateEvent(context.Background(), ev.Title, ev.Description, ev.Start, ev.End, ev.Location)
	require.NoError(t, err)
	assert.Equal(t, "g-evt-1", id)
	assert.Equal(t, "Client Meeting", got["summary"])
}
