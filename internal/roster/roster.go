// File path: internal/roster/roster.go
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cohortworks/bindery/internal/common"
)

// NameColumn is the mandatory header of the participant name field.
const NameColumn = "First and Last Name"

// Row is one participant record from the roster CSV: the display name and the
// raw answer per question column.
type Row struct {
	Name    string
	Answers map[string]string
}

// Roster is the parsed survey response table.
type Roster struct {
	Rows []Row
	// columns present in the CSV header, used to warn about absent questions.
	columns map[string]bool
}

// Parse reads a roster CSV. The header must contain the NameColumn; rows with
// a blank name are skipped silently. Ragged rows are tolerated because
// exported survey tables routinely drop trailing empty cells.
func Parse(r io.Reader) (*Roster, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	logger := common.Logger()

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read roster header: %w", err)
	}
	nameIdx := -1
	columns := make(map[string]bool, len(header))
	for i, col := range header {
		col = strings.TrimSpace(col)
		header[i] = col
		columns[col] = true
		if col == NameColumn {
			nameIdx = i
		}
	}
	if nameIdx < 0 {
		return nil, fmt.Errorf("roster missing %q column", NameColumn)
	}

	roster := &Roster{columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read roster row: %w", err)
		}
		if nameIdx >= len(record) {
			continue
		}
		name := strings.TrimSpace(record[nameIdx])
		if name == "" {
			continue
		}
		answers := make(map[string]string, len(header))
		for i, col := range header {
			if i == nameIdx || i >= len(record) {
				continue
			}
			answers[col] = strings.TrimSpace(record[i])
		}
		roster.Rows = append(roster.Rows, Row{Name: name, Answers: answers})
	}
	logger.Info("roster: parsed", "rows", len(roster.Rows), "columns", len(columns))
	return roster, nil
}

// Names returns the distinct participant names in first-seen order.
func (r *Roster) Names() []string {
	seen := make(map[string]bool, len(r.Rows))
	out := make([]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		if seen[row.Name] {
			continue
		}
		seen[row.Name] = true
		out = append(out, row.Name)
	}
	return out
}

// Find returns the first row whose name equals the given participant name
// exactly, or false when the roster holds no responses for that name.
func (r *Roster) Find(name string) (Row, bool) {
	for _, row := range r.Rows {
		if row.Name == name {
			return row, true
		}
	}
	return Row{}, false
}

// ConflictScores sums a row's answers into the five category totals. Question
// columns absent from the CSV are logged once and contribute nothing.
func (r *Roster) ConflictScores(row Row) map[Category]int {
	logger := common.Logger()
	totals := make(map[Category]int, len(Categories))
	for _, category := range Categories {
		totals[category] = 0
	}
	for question, category := range questionCategories {
		if !r.columns[question] {
			logger.Warn("roster: question column missing", "question", question)
			continue
		}
		totals[category] += Score(row.Answers[question])
	}
	return totals
}
