package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
)

func pagedFilter(page, limit int) domain.EntryFilter {
	return domain.EntryFilter{Page: page, Limit: limit, SortBy: domain.SortByDate, SortDir: domain.SortDesc}
}

func TestNewEntryPage_TotalPages(t *testing.T) {
	tests := []struct {
		name  string
		total int64
		limit int
		want  int
	}{
		{"exact multiple", 20, 10, 2},
		{"remainder rounds up", 21, 10, 3},
		{"fewer than one page", 3, 10, 1},
		{"empty set still has one page", 0, 10, 1},
		{"limit one", 5, 1, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.NewEntryPage(nil, pagedFilter(1, tt.limit), tt.total, domain.Totals{})
			assert.Equal(t, tt.want, p.TotalPages)
		})
	}
}

func TestNewEntryPage_NilDataBecomesEmptySlice(t *testing.T) {
	p := domain.NewEntryPage(nil, pagedFilter(1, 10), 0, domain.Totals{})

	require.NotNil(t, p.Data)
	assert.Empty(t, p.Data)
}

func TestNewEntryPage_CarriesFilterWindowAndTotals(t *testing.T) {
	entries := []domain.Entry{
		{Route: "Home - Office", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{Route: "Office - Home", Date: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
	}
	totals := domain.Totals{Distance: 35, Cost: 175}

	p := domain.NewEntryPage(entries, pagedFilter(1, 2), 3, totals)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 2, p.Limit)
	assert.Equal(t, int64(3), p.Total)
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, totals, p.Totals)
	assert.Len(t, p.Data, 2)
}
