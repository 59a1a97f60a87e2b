// File path: internal/report/extract.go
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// baselineTol groups fragments onto one visual line when their baselines
	// differ by less than this many points.
	baselineTol = 0.5
	// wordGap is the horizontal distance in points past the previous
	// fragment's right edge that marks a word boundary.
	wordGap = 1.0
)

// ExtractText pulls the plain text of a survey report PDF, one visual line
// per text line, pages separated by a blank line. Line structure matters
// downstream: the participant name is recovered from the line above the
// report banner and trait labels must not fuse, so lines are rebuilt from
// fragment positions instead of using GetPlainText, which flattens the page
// into one run with no separators.
func ExtractText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var sb strings.Builder
	pageCount := reader.NumPage()
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		for _, line := range pageLines(page.Content().Text) {
			sb.WriteString(line)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// pageLines rebuilds the visual lines of a page from its positioned text
// fragments. Fragments sharing a baseline form one line, top to bottom; within
// a line fragments run left to right and a space is inserted across horizontal
// gaps, so word boundaries survive writers that emit one text op per word.
func pageLines(texts []pdf.Text) []string {
	frags := make([]pdf.Text, 0, len(texts))
	for _, frag := range texts {
		if frag.S != "" {
			frags = append(frags, frag)
		}
	}
	if len(frags) == 0 {
		return nil
	}
	sort.SliceStable(frags, func(i, j int) bool {
		if d := frags[i].Y - frags[j].Y; d > baselineTol || d < -baselineTol {
			// PDF Y grows bottom to top.
			return frags[i].Y > frags[j].Y
		}
		return frags[i].X < frags[j].X
	})

	var lines []string
	var line strings.Builder
	flush := func() {
		if text := strings.TrimSpace(line.String()); text != "" {
			lines = append(lines, text)
		}
		line.Reset()
	}
	var lineY, lineEnd float64
	for i, frag := range frags {
		newLine := i == 0 || lineY-frag.Y > baselineTol
		if newLine {
			flush()
			lineY = frag.Y
		} else if frag.X-lineEnd > wordGap {
			line.WriteByte(' ')
		}
		line.WriteString(frag.S)
		if end := frag.X + frag.W; newLine || end > lineEnd {
			lineEnd = end
		}
	}
	flush()
	return lines
}

// PageCount reports the number of pages in a PDF.
func PageCount(data []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	return reader.NumPage(), nil
}
