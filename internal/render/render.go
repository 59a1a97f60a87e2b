// File path: internal/render/render.go
package render

import (
	"context"

	"github.com/cohortworks/bindery/internal/report"
	"github.com/cohortworks/bindery/internal/roster"
)

// CoverData fills the workbook cover page.
type CoverData struct {
	Name   string
	Term   string
	Cohort string
}

// StrengthsData fills the sweet-spot summary: the participant's name and the
// ranked traits recovered from the survey report.
type StrengthsData struct {
	Name   string
	Traits []report.RankedTrait
}

// ConflictData fills the conflict-style summary with the five category
// totals.
type ConflictData struct {
	Name   string
	Totals map[roster.Category]int
}

// FragmentRenderer produces the three generated workbook fragments as PDF
// bytes. The survey fragment is not rendered; it is the uploaded report
// itself.
type FragmentRenderer interface {
	Cover(ctx context.Context, data CoverData) ([]byte, error)
	Strengths(ctx context.Context, data StrengthsData) ([]byte, error)
	Conflict(ctx context.Context, data ConflictData) ([]byte, error)
}

// TemplateRenderer substitutes a key/value context into a named
// word-processor template and returns the rendered document. Implementations
// are external collaborators; the context keys are the contract.
type TemplateRenderer interface {
	Render(ctx context.Context, template string, vars map[string]string) ([]byte, error)
}

// Converter turns a rendered document into PDF bytes. Conversions are
// synchronous and carry no retry; a failure aborts the current participant.
type Converter interface {
	Convert(ctx context.Context, document []byte) ([]byte, error)
	Name() string
}
