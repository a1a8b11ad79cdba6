package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
)

// Flow layout geometry, in points on an A4 portrait page.
const (
	pageMargin   = 30.0
	headerFontPt = 11.0
	rowFontPt    = 10.0
	lineHeight   = 13.0 // height of one wrapped text line
	ruleGap      = 5.0  // space between the header rule and the first row
	minRowHeight = 16.0 // floor for rows whose tallest cell is a single line
	rowPadding   = 4.0  // breathing room added below every row
	cellPadding  = 4.0  // gap between a cell's text and the next column
)

// PDFRenderer writes the flow-format export: a paginated A4 document with
// per-row heights derived from wrapped text, a repeated header on every page,
// and rows that are never split across a page boundary. Totals are left to
// the grid export.
type PDFRenderer struct{}

func (PDFRenderer) ContentType() string { return "application/pdf" }

func (PDFRenderer) Filename() string { return "entries.pdf" }

// Render lays out all entries and writes the finished document to w.
// fpdf accumulates layout errors internally; they surface as ErrRender before
// any byte is written.
func (PDFRenderer) Render(w io.Writer, entries []domain.Entry) error {
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetMargins(pageMargin, pageMargin, pageMargin)
	// Page breaks are the layout's decision, not fpdf's.
	doc.SetAutoPageBreak(false, 0)

	l := newFlowLayout(doc)
	l.startPage()
	for i, e := range entries {
		l.emitRow(l.flowCells(Row(e, i+1)))
	}

	if err := doc.Error(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("report.PDFRenderer.Render: write: %w", err)
	}
	return nil
}

// flowLayout is the pagination state machine: a cursor walking down the page,
// a fixed bottom limit, and a header redraw on every page start. All page
// geometry lives here so the break decision is one comparison in emitRow.
type flowLayout struct {
	doc    *fpdf.Fpdf
	cols   []Column // flow subset of the shared schema, in order
	cursor float64  // y position where the next row starts
	limit  float64  // maximum usable y extent of a page
}

func newFlowLayout(doc *fpdf.Fpdf) *flowLayout {
	var cols []Column
	for _, c := range Columns() {
		if c.FlowWidth > 0 {
			cols = append(cols, c)
		}
	}
	_, pageH := doc.GetPageSize()
	return &flowLayout{doc: doc, cols: cols, limit: pageH - pageMargin}
}

// startPage opens a fresh page and draws the header band: bold labels at
// fixed column positions, a separator rule, then the cursor lands at the
// same offset on every page.
func (l *flowLayout) startPage() {
	l.doc.AddPage()
	l.doc.SetFont("Helvetica", "B", headerFontPt)

	x := pageMargin
	for _, c := range l.cols {
		l.doc.SetXY(x, pageMargin)
		l.doc.CellFormat(c.FlowWidth-cellPadding, lineHeight, c.Label, "", 0, alignStr(c.Align), false, 0, "")
		x += c.FlowWidth
	}

	ruleY := pageMargin + lineHeight + 2
	l.doc.Line(pageMargin, ruleY, x, ruleY)

	l.cursor = ruleY + ruleGap
	l.doc.SetFont("Helvetica", "", rowFontPt)
}

// rowHeight measures a row before it is placed: the tallest cell's wrapped
// line count at its column width, floored at minRowHeight, plus padding.
// Wrapping is measured with the row font currently set on the document.
func (l *flowLayout) rowHeight(cells []string) float64 {
	lines := 1
	for i, text := range cells {
		if text == "" {
			continue
		}
		if n := len(l.doc.SplitText(text, l.cols[i].FlowWidth-cellPadding)); n > lines {
			lines = n
		}
	}
	h := float64(lines) * lineHeight
	if h < minRowHeight {
		h = minRowHeight
	}
	return h + rowPadding
}

// emitRow writes one row, breaking to a fresh page first when it does not
// fit. The break test is the single comparison that defines the page
// boundary: a row whose height exactly equals the remaining budget stays on
// the current page.
func (l *flowLayout) emitRow(cells []string) {
	h := l.rowHeight(cells)
	if l.cursor+h > l.limit {
		l.startPage()
	}

	x := pageMargin
	for i, c := range l.cols {
		l.doc.SetXY(x, l.cursor)
		l.doc.MultiCell(c.FlowWidth-cellPadding, lineHeight, cells[i], "", alignStr(c.Align), false)
		x += c.FlowWidth
	}
	l.cursor += h
}

// flowCells reduces a full projected row to the display strings of the
// columns that participate in the flow layout.
func (l *flowLayout) flowCells(cells []Cell) []string {
	out := make([]string, 0, len(l.cols))
	for i, c := range Columns() {
		if c.FlowWidth > 0 {
			out = append(out, cells[i].Text)
		}
	}
	return out
}

func alignStr(a Align) string {
	if a == AlignRight {
		return "R"
	}
	return "L"
}
