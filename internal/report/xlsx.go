package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/pkordes/travel-ledger/backend/internal/domain"
)

const sheetName = "Entries"

// XLSXRenderer writes the grid-format export: one flat worksheet with a bold
// frozen header row, one row per entry, a bold totals row, and an auto-filter
// spanning the lot. The grid has no pagination concept — the spreadsheet
// scrolls, however many rows there are.
type XLSXRenderer struct{}

func (XLSXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXRenderer) Filename() string { return "entries.xlsx" }

// Render builds the workbook in memory and writes it to w in one piece.
func (XLSXRenderer) Render(w io.Writer, entries []domain.Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := buildWorkbook(f, entries); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrRender, err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("report.XLSXRenderer.Render: write: %w", err)
	}
	return nil
}

func buildWorkbook(f *excelize.File, entries []domain.Entry) error {
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	cols := Columns()
	lastCol, err := excelize.ColumnNumberToName(len(cols))
	if err != nil {
		return err
	}
	for i, c := range cols {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheetName, name, name, c.GridWidth); err != nil {
			return err
		}
	}

	// Header row: bold, centered, frozen so it stays visible while scrolling.
	header := make([]Cell, len(cols))
	for i, c := range cols {
		header[i] = Cell{Text: c.Label}
	}
	if err := writeRow(f, 1, header); err != nil {
		return err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for i, e := range entries {
		if err := writeRow(f, i+2, Row(e, i+1)); err != nil {
			return err
		}
	}

	// Totals row, bold, directly under the last data row.
	totalsRowNum := len(entries) + 2
	if err := writeRow(f, totalsRowNum, TotalsRow(SumEntries(entries))); err != nil {
		return err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	totalsRange := fmt.Sprintf("A%d", totalsRowNum)
	if err := f.SetCellStyle(sheetName, totalsRange, fmt.Sprintf("%s%d", lastCol, totalsRowNum), boldStyle); err != nil {
		return err
	}

	// Filterable region spans header through totals.
	return f.AutoFilter(sheetName, fmt.Sprintf("A1:%s%d", lastCol, totalsRowNum), nil)
}

// writeRow writes one projected row at the given 1-based row number.
// Numeric cells are written as numbers so spreadsheet formulas work on them.
func writeRow(f *excelize.File, row int, cells []Cell) error {
	vals := make([]any, len(cells))
	for i, c := range cells {
		if c.Number != nil {
			vals[i] = *c.Number
		} else {
			vals[i] = c.Text
		}
	}
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheetName, start, &vals)
}
