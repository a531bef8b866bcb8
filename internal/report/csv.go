package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ToCSV renders the statement rows as CSV text. Cells containing a
// comma, quote, or newline are quoted with internal quotes doubled;
// everything else passes through untouched. This is the one bit-exact
// external contract of the report and encoding/csv emits exactly it.
func ToCSV(rows []Row) string {
	var b strings.Builder
	w := csv.NewWriter(&b)
	for _, r := range rows {
		_ = w.Write(r.Cells[:])
	}
	w.Flush()
	return b.String()
}

// FromCSV parses CSV text back into classified rows. Round-trips output
// of ToCSV for any statement whose cells survive the escaper.
func FromCSV(text string) ([]Row, error) {
	reader := csv.NewReader(strings.NewReader(text))
	reader.FieldsPerRecord = Width

	rows := make([]Row, 0)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse statement csv failed: %w", err)
		}
		var cells [Width]string
		copy(cells[:], record)
		rows = append(rows, classifyRow(cells))
	}
	return rows, nil
}
