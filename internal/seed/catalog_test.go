package seed_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/caseseed/internal/domain"
	"github.com/johnwards/caseseed/internal/seed"
	"github.com/johnwards/caseseed/internal/store"
	"github.com/johnwards/caseseed/internal/testhelpers"
)

func TestCatalogHasNoDuplicates(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range seed.PracticeAreaCatalog {
		assert.False(t, seen[name], "duplicate %q", name)
		seen[name] = true
	}
	assert.Len(t, seed.PracticeAreaCatalog, 45)
}

func TestRefreshPracticeAreasOnEmptyStore(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	ctx := context.Background()

	sr, err := seed.RefreshPracticeAreas(ctx, st, seed.PracticeAreaCatalog, quiet)
	require.NoError(t, err)
	assert.Equal(t, 45, sr.Created)
	assert.Equal(t, 45, testhelpers.Count(t, st.DB, "practice_areas"))

	sr, err = seed.RefreshPracticeAreas(ctx, st, seed.PracticeAreaCatalog, quiet)
	require.NoError(t, err)
	assert.Zero(t, sr.Created)
	assert.Equal(t, 45, sr.Existing)
}

func TestRefreshPracticeAreasKeepsReferencedRows(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	ctx := context.Background()

	ds := seed.DefaultDataset()
	ds.Cases = append(ds.Cases, seed.CaseFixture{
		Title:        "State v. Daniels",
		Status:       domain.StatusOpen,
		Priority:     domain.PriorityUrgent,
		PracticeArea: "Criminal Law",
		AssignedTo:   "sarah.jones@smithlaw.com",
		Year:         2023,
		Sequence:     1,
		BillingRate:  400,
	})
	_, err := newSeeder(t, st, func(o *seed.Options) { o.Dataset = &ds }).Run(ctx)
	require.NoError(t, err)

	sr, err := seed.RefreshPracticeAreas(ctx, st, seed.PracticeAreaCatalog, quiet)
	require.NoError(t, err)

	// "Intellectual Property" is unreferenced and goes; "Criminal Law" has a case.
	assert.Equal(t, 1, sr.Removed)
	assert.Equal(t, 1, sr.Skipped)
	assert.Equal(t, 4, sr.Existing)
	assert.Equal(t, 41, sr.Created)
	assert.Equal(t, 46, testhelpers.Count(t, st.DB, "practice_areas"))

	rows, err := st.Select(ctx, "practice_areas", store.Filter{"name": "Intellectual Property"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRefreshPracticeAreasStopsWhenStoreUnavailable(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	require.NoError(t, st.DB.Close())

	_, err := seed.RefreshPracticeAreas(context.Background(), st, seed.PracticeAreaCatalog, quiet)
	assert.ErrorIs(t, err, store.ErrUnavailable)
}

func TestArchiveAgesOutOldCases(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	ctx := context.Background()

	seededAt := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	st.SetClock(func() time.Time { return seededAt })
	_, err := newSeeder(t, st, nil).Run(ctx)
	require.NoError(t, err)
	require.NotZero(t, testhelpers.Count(t, st.DB, "messages"))

	day := 24 * time.Hour

	// 400 days later: old enough to archive, too young to purge.
	res, err := seed.Archive(ctx, st, seededAt.Add(400*day), 365*day, 730*day, quiet)
	require.NoError(t, err)
	assert.Equal(t, seed.ArchiveResult{Archived: 3}, res)
	assert.Equal(t, 3, scalar(t, st, `SELECT COUNT(*) FROM cases WHERE status = 'archived'`))

	res, err = seed.Archive(ctx, st, seededAt.Add(800*day), 365*day, 730*day, quiet)
	require.NoError(t, err)
	assert.Equal(t, seed.ArchiveResult{Purged: 3}, res)
	assert.Zero(t, testhelpers.Count(t, st.DB, "cases"))
	assert.Zero(t, testhelpers.Count(t, st.DB, "messages"))
	assert.Zero(t, testhelpers.Count(t, st.DB, "calendar_events"))
}

func TestArchiveRejectsNonPositiveAges(t *testing.T) {
	st := testhelpers.NewTestStore(t)
	_, err := seed.Archive(context.Background(), st, time.Now(), 0, time.Hour, quiet)
	assert.Error(t, err)
}
