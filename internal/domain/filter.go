package domain

import (
	"fmt"
	"strconv"
	"time"
)

// SortField names an Entry attribute that listings and exports may sort by.
// The values match the public query-parameter names, not column names; the
// repo layer owns the mapping to SQL identifiers.
type SortField string

const (
	SortByDate       SortField = "date"
	SortByRoute      SortField = "route"
	SortByDistance   SortField = "distance"
	SortByCost       SortField = "cost"
	SortByRefuelDate SortField = "refuelDate"
	SortByCreatedAt  SortField = "createdAt"
)

// SortDirection is the requested ordering of the sort field.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// dateLayout is the wire format for date bounds and date-only fields.
const dateLayout = "2006-01-02"

// FilterDefaults carries the configurable page-size limits into filter
// normalization. Zero values fall back to the built-in 10/100.
type FilterDefaults struct {
	// PageSize is used when the request does not supply a parsable limit.
	PageSize int
	// MaxPageSize is the upper clamp for the limit parameter.
	MaxPageSize int
}

// RawEntryQuery holds the untrusted query-string values of one listing or
// export request, before normalization.
type RawEntryQuery struct {
	Page     string
	Limit    string
	Search   string
	FromDate string
	ToDate   string
	SortBy   string
	SortDir  string
}

// EntryFilter is the normalized filter + sort + page window derived from one
// request. A single EntryFilter value drives every read that must agree:
// the row page, the match count, and the aggregate totals.
type EntryFilter struct {
	// Search matches case-insensitively as a literal substring of Route.
	// Empty imposes no constraint.
	Search string

	// DateFrom and DateTo are inclusive bounds on Date. Either may be nil.
	DateFrom *time.Time
	DateTo   *time.Time

	SortBy  SortField
	SortDir SortDirection

	// Page is 1-indexed. Limit is clamped to [1, MaxPageSize].
	Page  int
	Limit int
}

// NewEntryFilter normalizes raw request parameters into an EntryFilter.
//
// Pagination and sort input is coerced, never rejected: an unparsable page
// becomes 1, an unparsable limit becomes the configured default, an unknown
// sort field becomes "date", and the direction is ascending only for the
// literal value "asc". Malformed date bounds are the one exception — they
// return ErrValidation, because silently dropping a bound would change the
// query's meaning without the caller noticing.
func NewEntryFilter(raw RawEntryQuery, defaults FilterDefaults) (EntryFilter, error) {
	if defaults.PageSize <= 0 {
		defaults.PageSize = 10
	}
	if defaults.MaxPageSize <= 0 {
		defaults.MaxPageSize = 100
	}

	f := EntryFilter{
		Search:  raw.Search,
		SortBy:  parseSortField(raw.SortBy),
		SortDir: parseSortDirection(raw.SortDir),
		Page:    1,
		Limit:   defaults.PageSize,
	}

	if n, err := strconv.Atoi(raw.Page); err == nil && n > 1 {
		f.Page = n
	}
	if n, err := strconv.Atoi(raw.Limit); err == nil {
		switch {
		case n < 1:
			f.Limit = 1
		case n > defaults.MaxPageSize:
			f.Limit = defaults.MaxPageSize
		default:
			f.Limit = n
		}
	}

	var err error
	if f.DateFrom, err = parseDateBound("fromDate", raw.FromDate); err != nil {
		return EntryFilter{}, err
	}
	if f.DateTo, err = parseDateBound("toDate", raw.ToDate); err != nil {
		return EntryFilter{}, err
	}

	return f, nil
}

// Offset returns the zero-based row offset for a SQL OFFSET clause.
func (f EntryFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// parseSortField whitelists the sort field. Anything outside the known set
// falls back to sorting by entry date.
func parseSortField(s string) SortField {
	switch SortField(s) {
	case SortByDate, SortByRoute, SortByDistance, SortByCost, SortByRefuelDate, SortByCreatedAt:
		return SortField(s)
	default:
		return SortByDate
	}
}

// parseSortDirection returns ascending only for the literal "asc";
// everything else, including the empty string, sorts descending.
func parseSortDirection(s string) SortDirection {
	if s == string(SortAsc) {
		return SortAsc
	}
	return SortDesc
}

// parseDateBound parses an optional YYYY-MM-DD bound. Empty input means no
// bound; malformed input is a validation error naming the parameter.
func parseDateBound(name, raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a YYYY-MM-DD date, got %q", ErrValidation, name, raw)
	}
	return &t, nil
}
