// Package seed populates a case-management store with an interlinked sample
// dataset. Stages run in foreign-key order; a stage whose prerequisite
// produced nothing halts the run, while a failing item is logged and skipped.
package seed

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/johnwards/caseseed/internal/calendar"
	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/notify"
	"github.com/johnwards/caseseed/internal/store"
)

// DefaultPassword is the password given to seeded users when none is set.
const DefaultPassword = "Password123!"

// Writer persists entities. *store.Gateway implements it.
type Writer interface {
	Ensure(ctx context.Context, e store.Keyed) (store.Ensured, error)
	Create(ctx context.Context, r store.Record) (string, error)
}

// Notifier fans a message out to a user's channels.
type Notifier interface {
	Notify(ctx context.Context, u domain.User, c domain.Case, message string) []notify.Outcome
}

// CalendarSyncer mirrors a stored event into external calendars.
type CalendarSyncer interface {
	Sync(ctx context.Context, ev domain.CalendarEvent) (map[calendar.Provider]string, error)
}

// Enricher analyses note content. It never fails; an empty Analysis means
// nothing was available.
type Enricher interface {
	Enrich(ctx context.Context, content string) domain.Analysis
}

// Options configures a Seeder. Writer is required; a nil Notifier, Calendar or
// Enricher disables that side effect.
type Options struct {
	Writer   Writer
	Notifier Notifier
	Calendar CalendarSyncer
	Enricher Enricher

	// Dataset defaults to DefaultDataset.
	Dataset *Dataset
	// Password is hashed for every seeded user. Defaults to DefaultPassword.
	Password string
	// HashCost is the bcrypt cost. Defaults to bcrypt.DefaultCost.
	HashCost int

	Rand   *rand.Rand
	Now    func() time.Time
	Logger *slog.Logger
}

// Seeder runs the seeding pipeline.
type Seeder struct {
	writer   Writer
	notifier Notifier
	calendar CalendarSyncer
	enricher Enricher
	dataset  Dataset
	password string
	hashCost int
	rand     *rand.Rand
	now      func() time.Time
	logger   *slog.Logger
}

// New creates a Seeder.
func New(opts Options) (*Seeder, error) {
	if opts.Writer == nil {
		return nil, errors.New("seed: writer is required")
	}

	s := &Seeder{
		writer:   opts.Writer,
		notifier: opts.Notifier,
		calendar: opts.Calendar,
		enricher: opts.Enricher,
		dataset:  DefaultDataset(),
		password: opts.Password,
		hashCost: opts.HashCost,
		rand:     opts.Rand,
		now:      opts.Now,
		logger:   opts.Logger,
	}
	if opts.Dataset != nil {
		s.dataset = *opts.Dataset
	}
	if s.password == "" {
		s.password = DefaultPassword
	}
	if s.hashCost == 0 {
		s.hashCost = bcrypt.DefaultCost
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// run holds the identifiers produced by one Run. Each stage reads what the
// stages before it produced.
type run struct {
	*Seeder
	report Report

	practiceAreas map[string]string // name -> id
	firmID        string
	users         []domain.User
	usersByEmail  map[string]domain.User
	cases         []domain.Case
	participants  map[string][]domain.User // case id -> users
}

// Run seeds every stage in order and returns the per-stage report. The error
// is non-nil only when the run halted: a prerequisite stage came up empty
// (*MissingDependencyError), the store became unreachable, or ctx was done.
func (s *Seeder) Run(ctx context.Context) (Report, error) {
	r := &run{
		Seeder:        s,
		practiceAreas: map[string]string{},
		usersByEmail:  map[string]domain.User{},
		participants:  map[string][]domain.User{},
	}

	s.logger.Info("seeding started")
	err := r.execute(ctx)
	if err != nil {
		s.logger.Error("seeding halted", "kind", KindOf(err), "error", err)
		return r.report, err
	}
	s.logger.Info("seeding completed")
	return r.report, nil
}

func (r *run) execute(ctx context.Context) error {
	if err := r.stage(ctx, StagePracticeAreas, "", true, r.seedPracticeAreas); err != nil {
		return err
	}
	if err := r.stage(ctx, StageLawFirm, StagePracticeAreas, len(r.practiceAreas) > 0, r.seedLawFirm); err != nil {
		return err
	}
	if err := r.stage(ctx, StageUsers, StageLawFirm, r.firmID != "", r.seedUsers); err != nil {
		return err
	}
	if err := r.stage(ctx, StageCases, StageUsers, len(r.users) > 0, r.seedCases); err != nil {
		return err
	}
	if err := r.stage(ctx, StageParticipants, StageCases, len(r.cases) > 0, r.seedParticipants); err != nil {
		return err
	}

	// Messages, notes and events depend only on users and cases, both of
	// which are known to be non-empty here.
	for _, leaf := range []struct {
		stage Stage
		fn    func(context.Context, *StageReport) error
	}{
		{StageMessages, r.seedMessages},
		{StageNotes, r.seedNotes},
		{StageEvents, r.seedEvents},
	} {
		if err := r.stage(ctx, leaf.stage, StageCases, len(r.cases) > 0, leaf.fn); err != nil {
			return err
		}
	}
	return nil
}

// stage runs fn when ready holds and records its report. A stage that is not
// ready fails the run with a MissingDependencyError naming prerequisite.
func (r *run) stage(ctx context.Context, name, prerequisite Stage, ready bool, fn func(context.Context, *StageReport) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ready {
		return &MissingDependencyError{Stage: name, Prerequisite: prerequisite}
	}

	r.logger.Info("seeding stage", "stage", name)
	sr := StageReport{Stage: name}
	err := fn(ctx, &sr)
	r.report.Stages = append(r.report.Stages, sr)
	r.logger.Info("stage finished", "stage", name, "created", sr.Created, "existing", sr.Existing, "skipped", sr.Skipped)
	return err
}

// absorb decides what an item-level error does to its stage. Fatal kinds are
// returned so the stage stops; anything else is logged and counted as a skip.
func (r *run) absorb(sr *StageReport, item string, err error) error {
	kind := KindOf(err)
	if kind.Fatal() {
		return err
	}
	sr.Skipped++
	r.logger.Warn("skipped item", "stage", sr.Stage, "item", item, "kind", kind, "error", err)
	return nil
}

// ensure validates e and writes it through the gateway, counting the outcome.
func (r *run) ensure(ctx context.Context, sr *StageReport, item string, e interface {
	store.Keyed
	Validate() error
}) (string, error) {
	if err := e.Validate(); err != nil {
		return "", r.absorb(sr, item, err)
	}
	res, err := r.writer.Ensure(ctx, e)
	if err != nil {
		return "", r.absorb(sr, item, err)
	}
	if res.Created {
		sr.Created++
		r.logger.Info("created", "stage", sr.Stage, "item", item)
	} else {
		sr.Existing++
		r.logger.Debug("already exists", "stage", sr.Stage, "item", item)
	}
	return res.ID, nil
}

// create validates and inserts an append-only record.
func (r *run) create(ctx context.Context, sr *StageReport, item string, rec interface {
	store.Record
	Validate() error
}) (string, error) {
	if err := rec.Validate(); err != nil {
		return "", r.absorb(sr, item, err)
	}
	id, err := r.writer.Create(ctx, rec)
	if err != nil {
		return "", r.absorb(sr, item, err)
	}
	sr.Created++
	r.logger.Debug("created", "stage", sr.Stage, "item", item)
	return id, nil
}

// between returns a uniformly random int in [lo, hi].
func (r *run) between(lo, hi int) int {
	return lo + r.rand.IntN(hi-lo+1)
}
