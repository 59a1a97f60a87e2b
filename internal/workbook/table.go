// File path: internal/workbook/table.go
package workbook

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/cohortworks/bindery/internal/names"
	"github.com/cohortworks/bindery/internal/report"
	"github.com/cohortworks/bindery/internal/strengths"
)

// TableRow is one participant's line in the strengths table: split name plus
// the ranked strengths, padded with blanks to the full slot count.
type TableRow struct {
	FirstName string
	LastName  string
	Strengths [strengths.SlotCount]string
}

// StrengthsTable extracts a profile from every survey PDF and flattens it
// into rows ordered by the upload filename. An unreadable PDF fails the
// export; this mode has no fail-soft contract.
func (s *Service) StrengthsTable(surveys map[string][]byte) ([]TableRow, error) {
	if len(surveys) == 0 {
		return nil, errors.New("workbook: at least one survey pdf required")
	}
	sources := make([]string, 0, len(surveys))
	for source := range surveys {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	rows := make([]TableRow, 0, len(sources))
	for _, source := range sources {
		text, err := report.ExtractText(surveys[source])
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", source, err)
		}
		profile := report.Parse(text)
		first, last := names.Split(names.Clean(profile.Name))
		row := TableRow{FirstName: first, LastName: last}
		for i, trait := range profile.TopTraits(strengths.SlotCount) {
			row.Strengths[i] = trait.Label
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteTableCSV emits the table as CSV with a header row.
func WriteTableCSV(w io.Writer, rows []TableRow) error {
	writer := csv.NewWriter(w)
	header := make([]string, 0, 2+strengths.SlotCount)
	header = append(header, "First Name", "Last Name")
	for i := 1; i <= strengths.SlotCount; i++ {
		header = append(header, fmt.Sprintf("Strength %d", i))
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := writeTableRecords(writer, rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

// WriteTableTSV emits the table tab-delimited without a header, the shape
// spreadsheet paste expects.
func WriteTableTSV(w io.Writer, rows []TableRow) error {
	writer := csv.NewWriter(w)
	writer.Comma = '\t'
	if err := writeTableRecords(writer, rows); err != nil {
		return err
	}
	writer.Flush()
	return writer.Error()
}

func writeTableRecords(writer *csv.Writer, rows []TableRow) error {
	for _, row := range rows {
		record := make([]string, 0, 2+strengths.SlotCount)
		record = append(record, row.FirstName, row.LastName)
		record = append(record, row.Strengths[:]...)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row for %s %s: %w", row.FirstName, row.LastName, err)
		}
	}
	return nil
}
