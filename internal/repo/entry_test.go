package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
	"github.com/pkordes/travel-ledger/backend/internal/repo"
	"github.com/pkordes/travel-ledger/backend/testutil"
)

// newTestRepo opens a transaction against the test database and returns an
// EntryRepo backed by that transaction. The transaction is rolled back when
// the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; TestMain has already applied the
// migrations.
func newTestRepo(t *testing.T) repo.EntryRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewEntryRepo(tx)
}

// entryFixture returns a domain.Entry with sensible defaults.
// Callers override individual fields after calling this function.
func entryFixture() domain.Entry {
	refuel := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	return domain.Entry{
		Date:       time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Route:      "Home - Office",
		DistanceKM: 12.5,
		Cost:       90,
		RefuelDate: &refuel,
	}
}

// seedEntries inserts one entry per spec and returns them in insertion order.
func seedEntries(t *testing.T, r repo.EntryRepo, specs []domain.Entry) []domain.Entry {
	t.Helper()
	out := make([]domain.Entry, 0, len(specs))
	for _, s := range specs {
		created, err := r.Create(context.Background(), s)
		require.NoError(t, err)
		out = append(out, created)
	}
	return out
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

// ---- CRUD ------------------------------------------------------------------

func TestEntryRepo_Create(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	input := entryFixture()
	got, err := r.Create(ctx, input)

	require.NoError(t, err)
	assert.NotEqual(t, [16]byte{}, got.ID, "ID should be DB-generated UUID")
	assert.Equal(t, input.Route, got.Route)
	assert.True(t, got.Date.Equal(input.Date), "Date mismatch")
	assert.Equal(t, input.DistanceKM, got.DistanceKM)
	assert.Equal(t, input.Cost, got.Cost)
	require.NotNil(t, got.RefuelDate)
	assert.True(t, got.RefuelDate.Equal(*input.RefuelDate), "RefuelDate mismatch")
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
	assert.False(t, got.UpdatedAt.IsZero(), "UpdatedAt should be set by DB")
}

func TestEntryRepo_Create_NilRefuelDate(t *testing.T) {
	r := newTestRepo(t)

	input := entryFixture()
	input.RefuelDate = nil

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.Nil(t, got.RefuelDate)
}

func TestEntryRepo_GetByID(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, entryFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Route, got.Route)
}

func TestEntryRepo_GetByID_NotFound(t *testing.T) {
	r := newTestRepo(t)

	id := [16]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

	_, err := r.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntryRepo_Update(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, entryFixture())
	require.NoError(t, err)

	created.Route = "Home - Airport"
	created.DistanceKM = 48
	created.RefuelDate = nil

	updated, err := r.Update(ctx, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Home - Airport", updated.Route)
	assert.Equal(t, float64(48), updated.DistanceKM)
	assert.Nil(t, updated.RefuelDate)
	assert.False(t, updated.UpdatedAt.IsZero())
}

func TestEntryRepo_Update_NotFound(t *testing.T) {
	r := newTestRepo(t)

	ghost := entryFixture()
	ghost.ID = [16]byte{0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef,
		0xde, 0xad, 0xbe, 0xef, 0xde, 0xad, 0xbe, 0xef}

	_, err := r.Update(context.Background(), ghost)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEntryRepo_Delete(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, entryFixture())
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "entry should be gone after delete")
}

func TestEntryRepo_Delete_NotFound(t *testing.T) {
	r := newTestRepo(t)

	id := [16]byte{0xca, 0xfe, 0xba, 0xbe, 0xca, 0xfe, 0xba, 0xbe,
		0xca, 0xfe, 0xba, 0xbe, 0xca, 0xfe, 0xba, 0xbe}

	err := r.Delete(context.Background(), id)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- filtered reads --------------------------------------------------------

// filteredFixtures is the shared dataset for Count/Totals/List tests:
// three January routes that mention "office" (in varying case) plus one
// February outlier.
func filteredFixtures() []domain.Entry {
	return []domain.Entry{
		{Date: day(5), Route: "Home - Office", DistanceKM: 10, Cost: 100},
		{Date: day(12), Route: "office - Market", DistanceKM: 20, Cost: 50},
		{Date: day(31), Route: "Market - OFFICE", DistanceKM: 5, Cost: 25},
		{Date: time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC), Route: "Home - Station", DistanceKM: 7, Cost: 60},
	}
}

func januaryOfficeFilter() domain.EntryFilter {
	from := day(1)
	to := day(31)
	return domain.EntryFilter{
		Search:   "office",
		DateFrom: &from,
		DateTo:   &to,
		SortBy:   domain.SortByDate,
		SortDir:  domain.SortAsc,
		Page:     1,
		Limit:    2,
	}
}

func TestEntryRepo_Count_Filtered(t *testing.T) {
	r := newTestRepo(t)
	seedEntries(t, r, filteredFixtures())

	n, err := r.Count(context.Background(), januaryOfficeFilter())

	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "search is case-insensitive and date bounds are inclusive")
}

func TestEntryRepo_Count_SearchIsLiteral(t *testing.T) {
	r := newTestRepo(t)
	seedEntries(t, r, filteredFixtures())

	// No route contains a literal "%" — an unescaped pattern would match all.
	n, err := r.Count(context.Background(), domain.EntryFilter{Search: "%"})

	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEntryRepo_Totals_Filtered(t *testing.T) {
	r := newTestRepo(t)
	seedEntries(t, r, filteredFixtures())

	got, err := r.Totals(context.Background(), januaryOfficeFilter())

	require.NoError(t, err)
	assert.Equal(t, float64(35), got.Distance)
	assert.Equal(t, float64(175), got.Cost)
}

func TestEntryRepo_Totals_EmptyMatchIsZero(t *testing.T) {
	r := newTestRepo(t)
	seedEntries(t, r, filteredFixtures())

	got, err := r.Totals(context.Background(), domain.EntryFilter{Search: "nowhere"})

	require.NoError(t, err)
	assert.Zero(t, got.Distance)
	assert.Zero(t, got.Cost)
}

func TestEntryRepo_List_PageWindow(t *testing.T) {
	r := newTestRepo(t)
	seedEntries(t, r, filteredFixtures())
	ctx := context.Background()

	f := januaryOfficeFilter()
	page1, err := r.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "Home - Office", page1[0].Route)
	assert.Equal(t, "office - Market", page1[1].Route)

	f.Page = 2
	page2, err := r.List(ctx, f)
	require.NoError(t, err)
	require.Len(t, page2, 1)
	assert.Equal(t, "Market - OFFICE", page2[0].Route)
}

func TestEntryRepo_List_DateBoundsInclusive(t *testing.T) {
	r := newTestRepo(t)
	seedEntries(t, r, []domain.Entry{
		{Date: day(1), Route: "On the from bound", DistanceKM: 1, Cost: 1},
		{Date: day(15), Route: "Inside", DistanceKM: 1, Cost: 1},
		{Date: day(31), Route: "On the to bound", DistanceKM: 1, Cost: 1},
		{Date: time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC), Route: "Before", DistanceKM: 1, Cost: 1},
	})

	from := day(1)
	to := day(31)
	f := domain.EntryFilter{DateFrom: &from, DateTo: &to, SortBy: domain.SortByDate, SortDir: domain.SortAsc, Page: 1, Limit: 10}

	got, err := r.List(context.Background(), f)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "On the from bound", got[0].Route)
	assert.Equal(t, "On the to bound", got[2].Route)
}

func TestEntryRepo_List_StableOrderOnDuplicateSortValues(t *testing.T) {
	r := newTestRepo(t)
	// All four entries share one date, so the sort field alone cannot order them.
	seedEntries(t, r, []domain.Entry{
		{Date: day(7), Route: "A", DistanceKM: 1, Cost: 1},
		{Date: day(7), Route: "B", DistanceKM: 2, Cost: 2},
		{Date: day(7), Route: "C", DistanceKM: 3, Cost: 3},
		{Date: day(7), Route: "D", DistanceKM: 4, Cost: 4},
	})
	ctx := context.Background()

	f := domain.EntryFilter{SortBy: domain.SortByDate, SortDir: domain.SortDesc, Page: 1, Limit: 10}

	first, err := r.List(ctx, f)
	require.NoError(t, err)
	second, err := r.List(ctx, f)
	require.NoError(t, err)

	require.Len(t, first, 4)
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID, "row %d moved between identical queries", i)
	}
}

func TestEntryRepo_ListAll_IgnoresPageWindow(t *testing.T) {
	r := newTestRepo(t)
	seedEntries(t, r, filteredFixtures())

	f := januaryOfficeFilter() // Limit 2, but ListAll must return all 3
	got, err := r.ListAll(context.Background(), f)

	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Home - Office", got[0].Route)
	assert.Equal(t, "Market - OFFICE", got[2].Route)
}
