// File path: internal/render/builtin.go
package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/cohortworks/bindery/internal/common/telemetry"
	"github.com/cohortworks/bindery/internal/roster"
	"github.com/cohortworks/bindery/internal/strengths"
)

// Builtin renders the three fragments directly to PDF, so the service works
// without an external template/conversion stack. Layout mirrors the DOCX
// templates closely enough for the fixed slot assembly.
type Builtin struct{}

// NewBuiltin returns the self-contained fragment renderer.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

func (b *Builtin) Cover(ctx context.Context, data CoverData) ([]byte, error) {
	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.AddPage()
	doc.SetFont("Times", "B", 32)
	doc.SetXY(72, 240)
	doc.CellFormat(468, 40, data.Name, "", 1, "C", false, 0, "")
	doc.SetFont("Times", "", 18)
	doc.CellFormat(468, 28, data.Term, "", 1, "C", false, 0, "")
	doc.CellFormat(468, 28, data.Cohort, "", 1, "C", false, 0, "")
	return output(doc)
}

func (b *Builtin) Strengths(ctx context.Context, data StrengthsData) ([]byte, error) {
	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.AddPage()
	doc.SetFont("Times", "B", 16)
	doc.CellFormat(0, 24, fmt.Sprintf("Strengths Sweet Spot: %s", data.Name), "", 1, "L", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Times", "B", 8)
	widths := []float64{110, 130, 130, 130}
	for i, header := range []string{"Strength", "Underuse", "Optimal", "Overuse"} {
		doc.CellFormat(widths[i], 14, header, "1", 0, "L", false, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Times", "", 7)
	for _, entry := range strengths.Entries(data.Traits) {
		for i, cell := range []string{entry.Strength, entry.Underuse, entry.Optimal, entry.Overuse} {
			doc.CellFormat(widths[i], 22, cell, "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}
	return output(doc)
}

func (b *Builtin) Conflict(ctx context.Context, data ConflictData) ([]byte, error) {
	doc := gofpdf.New("P", "pt", "Letter", "")
	doc.AddPage()
	doc.SetFont("Times", "B", 16)
	doc.CellFormat(0, 24, fmt.Sprintf("Conflict Style: %s", data.Name), "", 1, "L", false, 0, "")
	doc.Ln(10)

	doc.SetFont("Times", "", 12)
	for _, category := range roster.Categories {
		doc.CellFormat(200, 20, string(category), "", 0, "L", false, 0, "")
		doc.CellFormat(60, 20, fmt.Sprintf("%d", data.Totals[category]), "", 1, "R", false, 0, "")
	}
	return output(doc)
}

func output(doc *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	telemetry.RecordConversion("builtin")
	return buf.Bytes(), nil
}
