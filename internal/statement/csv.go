package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVHeader is the header row of a csv statement.
const CSVHeader = "date,time,title,mode,type,amount,balance"

const (
	numFields  = 7
	colDate    = 0
	colTime    = 1
	colTitle   = 2
	colMode    = 3
	colType    = 4
	colAmount  = 5
	colBalance = 6
)

// openingTitle labels the closing row carrying the opening total.
const openingTitle = "Opening balance"

// CSVExporter writes one row per entry, newest first, followed by an opening
// balance row. Amounts are plain numbers so the file stays machine readable.
type CSVExporter struct{}

func (CSVExporter) Format() string { return "csv" }

func (CSVExporter) Export(w io.Writer, s Statement) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(CSVHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range s.Rows() {
		if err := cw.Write(MarshalRow(row)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if s.Opening != nil {
		rec := make([]string, numFields)
		rec[colTitle] = openingTitle
		rec[colBalance] = s.Opening.Total().StringFixed(2)
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing opening row: %w", err)
		}
	}

	// Rows are buffered; write errors surface on Flush.
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}

// MarshalRow converts a Row to a csv record.
func MarshalRow(row Row) []string {
	rec := make([]string, numFields)
	rec[colDate] = row.Date
	rec[colTime] = row.Time
	rec[colTitle] = row.Title
	rec[colMode] = string(row.Mode)
	rec[colType] = string(row.Type)
	rec[colAmount] = row.Amount.StringFixed(2)
	rec[colBalance] = row.Balance.StringFixed(2)
	return rec
}
