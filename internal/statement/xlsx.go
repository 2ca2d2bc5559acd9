package statement

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	sheetStatement = "Statement"
	sheetSummary   = "Summary"
	// numFmtAmount is the built-in "#,##0.00" number format.
	numFmtAmount = 4
)

var xlsxHeader = []string{"Date", "Time", "Title", "Mode", "Type", "Amount", "Balance"}

// XLSXExporter writes a workbook with the entries on one sheet and the
// opening and current balances on another.
type XLSXExporter struct{}

func (XLSXExporter) Format() string { return "xlsx" }

func (XLSXExporter) Export(w io.Writer, s Statement) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetStatement); err != nil {
		return fmt.Errorf("creating statement sheet: %w", err)
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	amountStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtAmount})
	if err != nil {
		return fmt.Errorf("creating amount style: %w", err)
	}

	for i, h := range xlsxHeader {
		if err := setCell(f, sheetStatement, i+1, 1, h); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(sheetStatement, "A1", "G1", bold); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	rows := s.Rows()
	for i, r := range rows {
		row := i + 2
		values := []any{
			r.Date,
			r.Time,
			r.Title,
			string(r.Mode),
			string(r.Type),
			r.Amount.InexactFloat64(),
			r.Balance.InexactFloat64(),
		}
		for col, v := range values {
			if err := setCell(f, sheetStatement, col+1, row, v); err != nil {
				return err
			}
		}
	}
	if len(rows) > 0 {
		last := fmt.Sprintf("G%d", len(rows)+1)
		if err := f.SetCellStyle(sheetStatement, "F2", last, amountStyle); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}

	if err := setWidths(f, sheetStatement, []colWidth{
		{"A", "B", 12},
		{"C", "C", 30},
		{"D", "E", 10},
		{"F", "G", 14},
	}); err != nil {
		return err
	}

	if err := writeSummary(f, s, bold, amountStyle); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, s Statement, bold, amountStyle int) error {
	grid := [][]any{
		{"", "Cash", "Online", "Total"},
	}
	if s.Opening != nil {
		grid = append(grid, []any{
			"Opening",
			s.Opening.Cash.InexactFloat64(),
			s.Opening.Online.InexactFloat64(),
			s.Opening.Total().InexactFloat64(),
		})
	}
	grid = append(grid, []any{
		"Current",
		s.Balances.Cash.InexactFloat64(),
		s.Balances.Online.InexactFloat64(),
		s.Balances.Total.InexactFloat64(),
	})
	grid = append(grid, []any{"Currency", s.Currency})

	for r, line := range grid {
		for c, v := range line {
			if err := setCell(f, sheetSummary, c+1, r+1, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetCellStyle(sheetSummary, "A1", "D1", bold); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}
	last := fmt.Sprintf("D%d", len(grid)-1)
	if err := f.SetCellStyle(sheetSummary, "B2", last, amountStyle); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}
	return setWidths(f, sheetSummary, []colWidth{
		{"A", "A", 12},
		{"B", "D", 14},
	})
}

type colWidth struct {
	from, to string
	width    float64
}

func setWidths(f *excelize.File, sheet string, widths []colWidth) error {
	for _, cw := range widths {
		if err := f.SetColWidth(sheet, cw.from, cw.to, cw.width); err != nil {
			return fmt.Errorf("sizing %s!%s:%s: %w", sheet, cw.from, cw.to, err)
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("setting %s!%s: %w", sheet, cell, err)
	}
	return nil
}
