// Package report turns a filtered, sorted sequence of entries into
// downloadable documents. The column schema and row projection here are
// shared by both renderers; xlsx.go and pdf.go implement the two layouts.
package report

import (
	"io"
	"strconv"
	"time"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
)

// Renderer is the common contract both export formats implement: project the
// entries through the shared column schema and write one complete document.
type Renderer interface {
	ContentType() string
	Filename() string
	Render(w io.Writer, entries []domain.Entry) error
}

// Align is a column's horizontal alignment hint.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

// Column describes one report column: its header label, alignment, and its
// width in each layout. GridWidth is in spreadsheet character units;
// FlowWidth is in PDF points, with 0 meaning the column only appears in the
// grid layout.
type Column struct {
	Label     string
	Align     Align
	GridWidth float64
	FlowWidth float64
}

// columns is the shared schema. Order matters: Row and TotalsRow emit cells
// in this order. The flow widths sum to the usable width of an A4 page
// between the two 30 pt margins.
var columns = []Column{
	{Label: "No.", Align: AlignRight, GridWidth: 6, FlowWidth: 28},
	{Label: "Date", Align: AlignLeft, GridWidth: 16, FlowWidth: 75},
	{Label: "Time", Align: AlignLeft, GridWidth: 10, FlowWidth: 0}, // grid only
	{Label: "Route", Align: AlignLeft, GridWidth: 30, FlowWidth: 192},
	{Label: "Distance (km)", Align: AlignRight, GridWidth: 14, FlowWidth: 75},
	{Label: "Refuel Date", Align: AlignLeft, GridWidth: 16, FlowWidth: 75},
	{Label: "Cost", Align: AlignRight, GridWidth: 12, FlowWidth: 90},
}

// Columns returns the shared column schema.
func Columns() []Column {
	return columns
}

// Cell is one projected value. Text is the display form; Number is set when
// the underlying value is numeric, so the grid renderer can write a real
// number cell instead of a string.
type Cell struct {
	Text   string
	Number *float64
}

// Display formats for the human-readable exports.
const (
	dateDisplayFormat = "02 Jan 2006"
	timeDisplayFormat = "03:04 PM"
)

// Row projects one entry and its 1-based position in the filtered, sorted
// sequence into cells, one per column. The sequence number is purely
// positional — no counter state lives outside the caller's loop index.
func Row(e domain.Entry, seq int) []Cell {
	n := float64(seq)
	return []Cell{
		{Text: strconv.Itoa(seq), Number: &n},
		{Text: e.Date.Format(dateDisplayFormat)},
		{Text: e.CreatedAt.Format(timeDisplayFormat)},
		{Text: e.Route},
		numberCell(e.DistanceKM),
		{Text: formatOptionalDate(e.RefuelDate)},
		numberCell(e.Cost),
	}
}

// TotalsRow projects aggregate sums into the trailing grid row: the label
// sits in the Route column, the sums in their own columns, the rest blank.
func TotalsRow(t domain.Totals) []Cell {
	return []Cell{
		{}, {}, {},
		{Text: "Totals"},
		numberCell(t.Distance),
		{},
		numberCell(t.Cost),
	}
}

// SumEntries computes the totals across the rendered rows.
func SumEntries(entries []domain.Entry) domain.Totals {
	var t domain.Totals
	for _, e := range entries {
		t.Distance += e.DistanceKM
		t.Cost += e.Cost
	}
	return t
}

func numberCell(v float64) Cell {
	return Cell{Text: strconv.FormatFloat(v, 'f', -1, 64), Number: &v}
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateDisplayFormat)
}
