package seed_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/johnwards/caseseed/internal/calendar"
	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/notify"
	"github.com/johnwards/caseseed/internal/seed"
	"github.com/johnwards/caseseed/internal/store"
	"github.com/johnwards/caseseed/internal/testhelpers"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func newSeeder(t *testing.T, st *store.Store, configure func(*seed.Options)) *seed.Seeder {
	t.Helper()

	opts := seed.Options{
		Writer:   store.NewGateway(st),
		HashCost: bcrypt.MinCost,
		Rand:     rand.New(rand.NewPCG(1, 2)),
		Now:      func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) },
		Logger:   quiet,
	}
	if configure != nil {
		configure(&opts)
	}

	s, err := seed.New(opts)
	require.NoError(t, err)
	return s
}

type recordingNotifier struct {
	calls []string
}

func (n *recordingNotifier) Notify(_ context.Context, u domain.User, _ domain.Case, _ string) []notify.Outcome {
	n.calls = append(n.calls, u.Email)
	return []notify.Outcome{{Channel: notify.ChannelEmail, Address: u.Email}}
}

type fixedEnricher domain.Analysis

func (e fixedEnricher) Enrich(context.Context, string) domain.Analysis { return domain.Analysis(e) }

type stubCalendar struct {
	prefix string
	err    error
	n      int
}

func (s *stubCalendar) CreateEvent(context.Context, string, string, time.Time, time.Time, string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n), nil
}

func scalar(t *testing.T, st *store.Store, query string) int {
	t.Helper()
	var n int
	require.NoError(t, st.DB.QueryRow(query).Scan(&n), query)
	return n
}

func TestNewRequiresWriter(t *testing.T) {
	_, err := seed.New(seed.Options{})
	assert.Error(t, err)
}

func TestRunSeedsEveryStage(t *testing.T) {
	st := testhelpers.NewTestStore(t)

	report, err := newSeeder(t, st, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, testhelpers.Count(t, st.DB, "practice_areas"))
	assert.Equal(t, 1, testhelpers.Count(t, st.DB, "law_firms"))
	assert.Equal(t, 4, testhelpers.Count(t, st.DB, "users"))
	assert.Equal(t, 3, testhelpers.Count(t, st.DB, "cases"))

	participants := testhelpers.Count(t, st.DB, "case_participants")
	assert.GreaterOrEqual(t, participants, 2*3)
	assert.LessOrEqual(t, participants, 4*3)

	messages := testhelpers.Count(t, st.DB, "messages")
	assert.GreaterOrEqual(t, messages, 5*3)
	assert.LessOrEqual(t, messages, 15*3)

	notes := testhelpers.Count(t, st.DB, "notes")
	assert.GreaterOrEqual(t, notes, 3*3)
	assert.LessOrEqual(t, notes, 8*3)

	events := testhelpers.Count(t, st.DB, "calendar_events")
	assert.GreaterOrEqual(t, events, 2*3)
	assert.LessOrEqual(t, events, 5*3)

	require.Len(t, report.Stages, 8)
	assert.Equal(t, 6, report.Stage(seed.StagePracticeAreas).Created)
	assert.Equal(t, messages, report.Stage(seed.StageMessages).Created)
	assert.Zero(t, report.Stage(seed.StageUsers).Skipped)

	rows, err := st.Select(context.Background(), "cases", store.Filter{"case_number": "CORP-2023-001"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Tech Corp Merger", rows[0].String("title"))

	users, err := st.Select(context.Background(), "users", store.Filter{"email": "john.smith@smithlaw.com"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	hash := users[0].String("password_hash")
	assert.NotEqual(t, seed.DefaultPassword, hash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte(seed.DefaultPassword)))
}

func TestRunIsIdempotentForKeyedEntities(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	ctx := context.Background()

	_, err := newSeeder(t, st, nil).Run(ctx)
	require.NoError(t, err)

	tables := []string{"practice_areas", "law_firms", "users", "cases", "case_participants"}
	first := map[string]int{}
	for _, table := range tables {
		first[table] = testhelpers.Count(t, st.DB, table)
	}

	report, err := newSeeder(t, st, func(o *seed.Options) {
		o.Rand = rand.New(rand.NewPCG(1, 2))
	}).Run(ctx)
	require.NoError(t, err)

	for _, table := range tables {
		assert.Equal(t, first[table], testhelpers.Count(t, st.DB, table), table)
	}
	assert.Zero(t, report.Stage(seed.StagePracticeAreas).Created)
	assert.Equal(t, 6, report.Stage(seed.StagePracticeAreas).Existing)
	assert.Equal(t, 1, report.Stage(seed.StageLawFirm).Existing)
	assert.Equal(t, 4, report.Stage(seed.StageUsers).Existing)
	assert.Equal(t, 3, report.Stage(seed.StageCases).Existing)
}

func TestRunKeepsReferencesAndInvariants(t *testing.T) {
	st := testhelpers.NewTestStore(t)

	_, err := newSeeder(t, st, nil).Run(context.Background())
	require.NoError(t, err)

	for _, q := range []string{
		`SELECT COUNT(*) FROM case_participants p LEFT JOIN cases c ON c.id = p.case_id LEFT JOIN users u ON u.id = p.user_id WHERE c.id IS NULL OR u.id IS NULL`,
		`SELECT COUNT(*) FROM messages m LEFT JOIN cases c ON c.id = m.case_id LEFT JOIN users s ON s.id = m.sender_id LEFT JOIN users r ON r.id = m.recipient_id WHERE c.id IS NULL OR s.id IS NULL OR r.id IS NULL`,
		`SELECT COUNT(*) FROM notes n LEFT JOIN cases c ON c.id = n.case_id LEFT JOIN users u ON u.id = n.user_id WHERE c.id IS NULL OR u.id IS NULL`,
		`SELECT COUNT(*) FROM calendar_events e LEFT JOIN cases c ON c.id = e.case_id LEFT JOIN users u ON u.id = e.user_id WHERE c.id IS NULL OR u.id IS NULL`,
		`SELECT COUNT(*) FROM messages WHERE sender_id = recipient_id`,
		`SELECT COUNT(*) FROM calendar_events WHERE end_time <= start_time`,
	} {
		assert.Zero(t, scalar(t, st, q), q)
	}
}

func TestRunNotifiesSenderAndRecipient(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	n := &recordingNotifier{}

	report, err := newSeeder(t, st, func(o *seed.Options) { o.Notifier = n }).Run(context.Background())
	require.NoError(t, err)

	assert.Len(t, n.calls, 2*report.Stage(seed.StageMessages).Created)

	// Senders are named, not addressed.
	assert.Zero(t, scalar(t, st, `SELECT COUNT(*) FROM messages WHERE content LIKE '%@%'`))
	assert.Equal(t, report.Stage(seed.StageMessages).Created,
		scalar(t, st, `SELECT COUNT(*) FROM messages m JOIN users u ON u.id = m.sender_id
			WHERE m.content = 'Message from ' || u.first_name || ' ' || u.last_name || ' about ' ||
				(SELECT title FROM cases WHERE id = m.case_id)`))
}

func TestRunEnrichesNotes(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	analysis := fixedEnricher{Sentiment: "positive", KeyPhrases: []string{"merger"}}

	_, err := newSeeder(t, st, func(o *seed.Options) { o.Enricher = analysis }).Run(context.Background())
	require.NoError(t, err)

	assert.Zero(t, scalar(t, st, `SELECT COUNT(*) FROM notes WHERE sentiment IS NULL OR sentiment <> 'positive'`))
}

func TestRunRecordsPartialCalendarSync(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	agg := calendar.New(calendar.Options{
		Primary:   &stubCalendar{prefix: "outlook"},
		Secondary: &stubCalendar{err: errors.New("google unavailable")},
		Store:     st,
		Logger:    quiet,
	})

	_, err := newSeeder(t, st, func(o *seed.Options) { o.Calendar = agg }).Run(context.Background())
	require.NoError(t, err)

	events := testhelpers.Count(t, st.DB, "calendar_events")
	require.NotZero(t, events)
	assert.Equal(t, events, scalar(t, st, `SELECT COUNT(*) FROM calendar_events WHERE outlook_id IS NOT NULL`))
	assert.Zero(t, scalar(t, st, `SELECT COUNT(*) FROM calendar_events WHERE google_calendar_id IS NOT NULL`))
	assert.Zero(t, scalar(t, st, `SELECT COUNT(*) FROM calendar_events WHERE zoom_id IS NOT NULL`))
}

func TestRunHaltsWhenNoUsers(t *testing.T) {
	st := testhelpers.NewTestStore(t)

	report, err := newSeeder(t, st, func(o *seed.Options) { o.Password = "weak" }).Run(context.Background())

	var missing *seed.MissingDependencyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, seed.StageCases, missing.Stage)
	assert.Equal(t, seed.StageUsers, missing.Prerequisite)
	assert.Equal(t, seed.KindMissingDependency, seed.KindOf(err))

	assert.Equal(t, 4, report.Stage(seed.StageUsers).Skipped)
	assert.Zero(t, testhelpers.Count(t, st.DB, "users"))
	assert.Zero(t, testhelpers.Count(t, st.DB, "cases"))
	assert.Equal(t, 6, testhelpers.Count(t, st.DB, "practice_areas"))
}

func TestRunSkipsInvalidItems(t *testing.T) {
	st := testhelpers.NewTestStore(t)

	ds := seed.DefaultDataset()
	ds.Users = append(ds.Users, domain.User{Email: "not-an-email", FirstName: "Bad", Role: domain.RoleClient})
	ds.Cases = append(ds.Cases, seed.CaseFixture{
		Title:        "Orphan Matter",
		Status:       domain.StatusOpen,
		Priority:     domain.PriorityLow,
		PracticeArea: "Maritime Law",
		AssignedTo:   "john.smith@smithlaw.com",
		Year:         2023,
		Sequence:     1,
	})

	report, err := newSeeder(t, st, func(o *seed.Options) { o.Dataset = &ds }).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stage(seed.StageUsers).Skipped)
	assert.Equal(t, 4, testhelpers.Count(t, st.DB, "users"))
	assert.Equal(t, 1, report.Stage(seed.StageCases).Skipped)
	assert.Equal(t, 3, testhelpers.Count(t, st.DB, "cases"))
}

func TestRunHaltsWhenStoreUnavailable(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	require.NoError(t, st.DB.Close())

	_, err := newSeeder(t, st, nil).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, seed.KindStoreUnavailable, seed.KindOf(err))
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

// cancelAfter cancels the run's context on the nth Ensure and forwards the
// call, so the store sees a context that is already done.
type cancelAfter struct {
	seed.Writer
	n      int
	calls  int
	cancel context.CancelFunc
}

func (w *cancelAfter) Ensure(ctx context.Context, e store.Keyed) (store.Ensured, error) {
	w.calls++
	if w.calls == w.n {
		w.cancel()
	}
	return w.Writer.Ensure(ctx, e)
}

func TestRunStopsWhenCanceled(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Six practice areas and the firm come first; the eighth Ensure is the
	// first user.
	w := &cancelAfter{Writer: store.NewGateway(st), n: 8, cancel: cancel}
	report, err := newSeeder(t, st, func(o *seed.Options) { o.Writer = w }).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
	var missing *seed.MissingDependencyError
	assert.False(t, errors.As(err, &missing))
	assert.NotErrorIs(t, err, store.ErrUnavailable)
	assert.Equal(t, seed.KindCanceled, seed.KindOf(err))

	assert.Equal(t, 8, w.calls)
	users := report.Stage(seed.StageUsers)
	assert.Zero(t, users.Created)
	assert.Zero(t, users.Skipped)
	assert.Zero(t, testhelpers.Count(t, st.DB, "users"))
	assert.Zero(t, report.Stage(seed.StageCases).Created)
}

func TestRunDoesNotStartWhenCanceled(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newSeeder(t, st, nil).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, testhelpers.Count(t, st.DB, "practice_areas"))
}

func TestCaseNumber(t *testing.T) {
	assert.Equal(t, "CORP-2023-001", seed.CaseNumber("Corporate Law", 2023, 1))
	assert.Equal(t, "TAXL-2024-012", seed.CaseNumber("Tax Law", 2024, 12))
	assert.Equal(t, "DUID-2025-100", seed.CaseNumber("DUI/DWI Law", 2025, 100))
}
