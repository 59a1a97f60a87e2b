// File path: internal/report/extract_test.go
package report

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/ledongthuc/pdf"
)

// reportPDF renders a minimal survey report: the participant name on the line
// above the title banner, then one ranked trait per line.
func reportPDF(t *testing.T, name string, traits []string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	doc.AddPage()
	y := 72.0
	write := func(s string) {
		doc.SetXY(72, y)
		doc.Cell(0, 14, s)
		y += 24
	}
	write(name)
	write(NameMarker)
	for i, trait := range traits {
		write(fmt.Sprintf("%d. %s", i+1, trait))
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build report fixture: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextKeepsLineStructure(t *testing.T) {
	data := reportPDF(t, "Alice Wu", []string{"Curiosity", "Zest"})
	text, err := ExtractText(data)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	want := "Alice Wu\n" + NameMarker + "\n1. Curiosity\n2. Zest\n"
	if !strings.Contains(text, want) {
		t.Fatalf("line structure lost:\n%q", text)
	}
}

func TestExtractThenParseRecoversProfile(t *testing.T) {
	data := reportPDF(t, "Alice Wu", []string{"Curiosity", "Zest"})
	text, err := ExtractText(data)
	if err != nil {
		t.Fatalf("extract failed: %v", err)
	}
	profile := Parse(text)
	if profile.Name != "Alice Wu" {
		t.Fatalf("expected name above banner, got %q (text %q)", profile.Name, text)
	}
	want := []RankedTrait{{1, "Curiosity"}, {2, "Zest"}}
	if len(profile.Traits) != len(want) {
		t.Fatalf("expected %d traits, got %+v", len(want), profile.Traits)
	}
	for i, trait := range profile.Traits {
		if trait != want[i] {
			t.Fatalf("trait %d: expected %+v, got %+v", i, want[i], trait)
		}
	}
}

func TestPageLinesGroupsBaselinesAndWords(t *testing.T) {
	frags := []pdf.Text{
		// Out of order on a jittered baseline, with a gap wide enough to be a
		// word boundary.
		{X: 130, Y: 700.2, W: 18, S: "Wu"},
		{X: 72, Y: 700, W: 50, S: "Alice"},
		{X: 72, Y: 676, W: 200, S: NameMarker},
		// Abutting glyph runs must not gain a space.
		{X: 72, Y: 652, W: 18, S: "1. Cu"},
		{X: 90, Y: 652, W: 40, S: "riosity"},
	}
	want := []string{"Alice Wu", NameMarker, "1. Curiosity"}
	got := pageLines(frags)
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %v", len(want), got)
	}
	for i, line := range got {
		if line != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], line)
		}
	}
}

func TestPageLinesEmptyPage(t *testing.T) {
	if got := pageLines(nil); got != nil {
		t.Fatalf("expected no lines, got %v", got)
	}
	if got := pageLines([]pdf.Text{{S: ""}}); got != nil {
		t.Fatalf("expected empty fragments dropped, got %v", got)
	}
}

func TestPageCountReadsFixture(t *testing.T) {
	data := reportPDF(t, "Alice Wu", []string{"Curiosity"})
	count, err := PageCount(data)
	if err != nil {
		t.Fatalf("page count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 page, got %d", count)
	}
}
