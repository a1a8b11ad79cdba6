// Package repo contains all database access logic for the Travel Ledger API.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// EntryRepo defines the persistence operations for Entries.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
//
// Count, Totals, List, and ListAll all take the same domain.EntryFilter and
// apply the identical predicate, so a caller combining their results sees one
// logical filter. There is no cross-call snapshot: concurrent writes between
// calls can make the combination best-effort.
type EntryRepo interface {
	// Create inserts a new entry and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, entry domain.Entry) (domain.Entry, error)

	// GetByID retrieves a single entry by its UUID primary key.
	// Returns domain.ErrNotFound if no entry with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error)

	// Update overwrites the mutable fields of an existing entry and returns
	// the updated record. Returns domain.ErrNotFound if it does not exist.
	Update(ctx context.Context, entry domain.Entry) (domain.Entry, error)

	// Delete removes an entry by ID. Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the number of entries matching the filter predicate,
	// ignoring the filter's page window.
	Count(ctx context.Context, f domain.EntryFilter) (int64, error)

	// Totals returns the sums of distance and cost over every entry matching
	// the filter predicate. An empty match yields zero totals, never an error.
	Totals(ctx context.Context, f domain.EntryFilter) (domain.Totals, error)

	// List returns one page of matching entries in the filter's sort order.
	List(ctx context.Context, f domain.EntryFilter) ([]domain.Entry, error)

	// ListAll returns every matching entry in the filter's sort order,
	// ignoring the page window. Used by the report exports.
	ListAll(ctx context.Context, f domain.EntryFilter) ([]domain.Entry, error)
}

// pgEntryRepo is the Postgres implementation of EntryRepo.
type pgEntryRepo struct {
	db db
}

// NewEntryRepo constructs an EntryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewEntryRepo(db db) EntryRepo {
	return &pgEntryRepo{db: db}
}

// entryColumns is the canonical select list, matching scanEntry's scan order.
const entryColumns = `id, date, route, distance_km, cost, refuel_date, created_at, updated_at`

// Create inserts a new entry row and returns the full persisted record.
func (r *pgEntryRepo) Create(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	const q = `
		INSERT INTO entries (date, route, distance_km, cost, refuel_date)
		VALUES (@date, @route, @distance_km, @cost, @refuel_date)
		RETURNING ` + entryColumns

	args := pgx.NamedArgs{
		"date":        entry.Date,
		"route":       entry.Route,
		"distance_km": entry.DistanceKM,
		"cost":        entry.Cost,
		"refuel_date": entry.RefuelDate, // nil becomes NULL
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEntry(row)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("repo.EntryRepo.Create: %w", err)
	}
	return result, nil
}

// GetByID retrieves an entry by primary key.
func (r *pgEntryRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Entry, error) {
	const q = `SELECT ` + entryColumns + ` FROM entries WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanEntry(row)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("repo.EntryRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update overwrites the mutable fields of an entry and returns the updated record.
func (r *pgEntryRepo) Update(ctx context.Context, entry domain.Entry) (domain.Entry, error) {
	const q = `
		UPDATE entries
		SET date        = @date,
		    route       = @route,
		    distance_km = @distance_km,
		    cost        = @cost,
		    refuel_date = @refuel_date,
		    updated_at  = now()
		WHERE id = @id
		RETURNING ` + entryColumns

	args := pgx.NamedArgs{
		"id":          entry.ID,
		"date":        entry.Date,
		"route":       entry.Route,
		"distance_km": entry.DistanceKM,
		"cost":        entry.Cost,
		"refuel_date": entry.RefuelDate,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanEntry(row)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("repo.EntryRepo.Update: %w", err)
	}
	return result, nil
}

// Delete removes an entry by primary key.
func (r *pgEntryRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM entries WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.EntryRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.EntryRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// Count returns the number of entries matching the filter predicate.
func (r *pgEntryRepo) Count(ctx context.Context, f domain.EntryFilter) (int64, error) {
	where, args := entryPredicate(f)
	q := `SELECT count(*) FROM entries` + where

	var n int64
	if err := r.db.QueryRow(ctx, q, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("repo.EntryRepo.Count: %w", err)
	}
	return n, nil
}

// Totals sums distance and cost over every matching entry.
// COALESCE turns the NULL sums of an empty match into zeros.
func (r *pgEntryRepo) Totals(ctx context.Context, f domain.EntryFilter) (domain.Totals, error) {
	where, args := entryPredicate(f)
	q := `SELECT COALESCE(SUM(distance_km), 0), COALESCE(SUM(cost), 0) FROM entries` + where

	var t domain.Totals
	if err := r.db.QueryRow(ctx, q, args).Scan(&t.Distance, &t.Cost); err != nil {
		return domain.Totals{}, fmt.Errorf("repo.EntryRepo.Totals: %w", err)
	}
	return t, nil
}

// List returns one page of matching entries in the filter's sort order.
func (r *pgEntryRepo) List(ctx context.Context, f domain.EntryFilter) ([]domain.Entry, error) {
	where, args := entryPredicate(f)
	args["limit"] = f.Limit
	args["offset"] = f.Offset()
	q := `SELECT ` + entryColumns + ` FROM entries` + where + orderClause(f) + ` LIMIT @limit OFFSET @offset`

	entries, err := r.queryEntries(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.EntryRepo.List: %w", err)
	}
	return entries, nil
}

// ListAll returns every matching entry in the filter's sort order.
func (r *pgEntryRepo) ListAll(ctx context.Context, f domain.EntryFilter) ([]domain.Entry, error) {
	where, args := entryPredicate(f)
	q := `SELECT ` + entryColumns + ` FROM entries` + where + orderClause(f)

	entries, err := r.queryEntries(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.EntryRepo.ListAll: %w", err)
	}
	return entries, nil
}

func (r *pgEntryRepo) queryEntries(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Entry, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return entries, nil
}

// entryPredicate renders an EntryFilter into a WHERE clause (with a leading
// space, or empty) plus its named args. Every read for one filter — count,
// totals, page, full listing — goes through this single function, so all of
// them see an identical predicate.
func entryPredicate(f domain.EntryFilter) (string, pgx.NamedArgs) {
	args := pgx.NamedArgs{}
	var conds []string

	if f.Search != "" {
		conds = append(conds, `route ILIKE @search`)
		args["search"] = "%" + escapeLike(f.Search) + "%"
	}
	if f.DateFrom != nil {
		conds = append(conds, `date >= @from_date`)
		args["from_date"] = *f.DateFrom
	}
	if f.DateTo != nil {
		conds = append(conds, `date <= @to_date`)
		args["to_date"] = *f.DateTo
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// sortColumns maps the public sort fields onto real column names. Sorting is
// the one place a query parameter becomes a SQL identifier, so it must pass
// through this whitelist.
var sortColumns = map[domain.SortField]string{
	domain.SortByDate:       "date",
	domain.SortByRoute:      "route",
	domain.SortByDistance:   "distance_km",
	domain.SortByCost:       "cost",
	domain.SortByRefuelDate: "refuel_date",
	domain.SortByCreatedAt:  "created_at",
}

// orderClause renders the ORDER BY (with a leading space). The id tiebreaker
// makes the order deterministic when the sort field has duplicate values, so
// re-running a query never reshuffles rows.
func orderClause(f domain.EntryFilter) string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "date"
	}
	dir := "DESC"
	if f.SortDir == domain.SortAsc {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id ASC", col, dir)
}

// escapeLike backslash-escapes the LIKE metacharacters in user search text so
// that it matches as a literal substring rather than as a pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanEntry to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanEntry maps a single database row into a domain.Entry.
// It handles the UUID and the date-typed columns, including the nullable
// refuel_date.
func scanEntry(s scanner) (domain.Entry, error) {
	var (
		e      domain.Entry
		id     pgtype.UUID
		date   pgtype.Date
		refuel pgtype.Date
	)

	err := s.Scan(&id, &date, &e.Route, &e.DistanceKM, &e.Cost, &refuel, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Entry{}, domain.ErrNotFound
		}
		return domain.Entry{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.Date = date.Time
	if refuel.Valid {
		rd := refuel.Time
		e.RefuelDate = &rd
	}

	return e, nil
}
