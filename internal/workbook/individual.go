// File path: internal/workbook/individual.go
package workbook

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/common/telemetry"
	"github.com/cohortworks/bindery/internal/names"
	"github.com/cohortworks/bindery/internal/pdfops"
	"github.com/cohortworks/bindery/internal/render"
	"github.com/cohortworks/bindery/internal/report"
	"github.com/cohortworks/bindery/internal/roster"
)

// IndividualRequest carries the inputs for a single-participant build. Name,
// Term and Cohort come from the operator; the operator name is trusted over
// whatever the survey report says about itself.
type IndividualRequest struct {
	Name     string
	Term     string
	Cohort   string
	Template string
	Survey   []byte
	Roster   []byte
}

// Workbook is a finished booklet plus its suggested download filename.
type Workbook struct {
	Name     string
	FileName string
	PDF      []byte
}

// BuildIndividual runs the full pipeline for one participant: render the
// cover, parse the survey, render the strengths and conflict summaries,
// assemble the booklet and stamp page numbers.
func (s *Service) BuildIndividual(ctx context.Context, req IndividualRequest) (*Workbook, error) {
	started := time.Now()
	logger := common.Logger()
	ctx, finish := telemetry.StartSpan(ctx, "workbook.individual")

	displayName := names.Clean(req.Name)
	if displayName == "" {
		return nil, errors.New("workbook: participant name required")
	}
	if len(req.Survey) == 0 {
		return nil, errors.New("workbook: survey pdf required")
	}

	template, err := s.template(req.Template)
	if err != nil {
		return nil, err
	}

	text, err := report.ExtractText(req.Survey)
	if err != nil {
		return nil, fmt.Errorf("extract survey text: %w", err)
	}
	profile := report.Parse(text)
	if profile.Name != displayName && profile.Name != report.UnknownName {
		logger.Info("workbook: operator name overrides parsed name",
			"operator", displayName, "parsed", profile.Name)
	}

	totals, err := s.conflictTotals(req.Roster, displayName)
	if err != nil {
		return nil, err
	}

	pdf, err := s.build(ctx, template, buildInputs{
		name:    displayName,
		term:    req.Term,
		cohort:  req.Cohort,
		survey:  req.Survey,
		profile: profile,
		totals:  totals,
	})
	if err != nil {
		return nil, err
	}

	telemetry.RecordWorkbookBuilt(time.Since(started))
	finish("participant", displayName)
	logger.Info("workbook: built", "participant", displayName, "bytes", len(pdf))
	return &Workbook{
		Name:     displayName,
		FileName: names.Sanitize(displayName) + "_workbook.pdf",
		PDF:      pdf,
	}, nil
}

// buildInputs is the per-participant material the shared pipeline consumes.
type buildInputs struct {
	name    string
	term    string
	cohort  string
	survey  []byte
	profile report.Profile
	totals  map[roster.Category]int
}

// build renders the three fragments, assembles them into the template and
// stamps page numbers. Shared by the individual and batch pipelines.
func (s *Service) build(ctx context.Context, template []byte, in buildInputs) ([]byte, error) {
	cover, err := s.renderer.Cover(ctx, render.CoverData{Name: in.name, Term: in.term, Cohort: in.cohort})
	if err != nil {
		return nil, fmt.Errorf("render cover: %w", err)
	}
	strengthsPage, err := s.renderer.Strengths(ctx, render.StrengthsData{Name: in.name, Traits: in.profile.Traits})
	if err != nil {
		return nil, fmt.Errorf("render strengths summary: %w", err)
	}
	conflictPage, err := s.renderer.Conflict(ctx, render.ConflictData{Name: in.name, Totals: in.totals})
	if err != nil {
		return nil, fmt.Errorf("render conflict summary: %w", err)
	}

	assembled, err := pdfops.Assemble(template, pdfops.Fragments{
		pdfops.RoleCover:     cover,
		pdfops.RoleSurvey:    in.survey,
		pdfops.RoleStrengths: strengthsPage,
		pdfops.RoleConflict:  conflictPage,
	}, s.slots)
	if err != nil {
		return nil, fmt.Errorf("assemble workbook: %w", err)
	}

	stamped, err := pdfops.Paginate(assembled, s.stamp)
	if err != nil {
		return nil, fmt.Errorf("paginate workbook: %w", err)
	}
	return stamped, nil
}

// conflictTotals parses the roster CSV and scores the named participant's
// conflict-style answers.
func (s *Service) conflictTotals(rosterCSV []byte, name string) (map[roster.Category]int, error) {
	if len(rosterCSV) == 0 {
		return nil, errors.New("workbook: roster csv required")
	}
	table, err := roster.Parse(bytes.NewReader(rosterCSV))
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	row, ok := table.Find(name)
	if !ok {
		return nil, fmt.Errorf("workbook: no roster row for %q", strings.TrimSpace(name))
	}
	return table.ConflictScores(row), nil
}
