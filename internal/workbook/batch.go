// File path: internal/workbook/batch.go
package workbook

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/common/telemetry"
	"github.com/cohortworks/bindery/internal/match"
	"github.com/cohortworks/bindery/internal/names"
	"github.com/cohortworks/bindery/internal/report"
	"github.com/cohortworks/bindery/internal/roster"
)

// BatchRequest carries the inputs for a roster-driven build: one survey PDF
// per participant keyed by its upload filename, plus the roster CSV.
type BatchRequest struct {
	Term     string
	Cohort   string
	Template string
	Surveys  map[string][]byte
	Roster   []byte
}

// BuiltEntry records one workbook produced by a batch run.
type BuiltEntry struct {
	Name      string `json:"name"`
	DocSource string `json:"doc_source"`
	Score     int    `json:"score"`
	FileName  string `json:"file_name"`
}

// SkipEntry records a participant the batch could not build, with the reason.
type SkipEntry struct {
	Name   string `json:"name"`
	Source string `json:"source,omitempty"`
	Reason string `json:"reason"`
}

// BatchReport groups the outcome of a batch run: workbooks built, roster
// entries with no survey document, survey documents with no roster entry,
// and participants skipped while building.
type BatchReport struct {
	Built         []BuiltEntry   `json:"built"`
	MissingDoc    []string       `json:"missing_doc"`
	MissingRoster []match.Orphan `json:"missing_roster"`
	Skipped       []SkipEntry    `json:"skipped"`
}

// BatchResult is a report plus the name of the workbook archive written
// under the output directory.
type BatchResult struct {
	Report      BatchReport `json:"report"`
	ArchiveName string      `json:"archive"`
}

// BuildBatch reconciles roster names against the names extracted from the
// survey PDFs and builds one workbook per matched pair. A participant whose
// build fails is recorded as a skip; failures to read the template or write
// the archive abort the run.
func (s *Service) BuildBatch(ctx context.Context, req BatchRequest) (*BatchResult, error) {
	logger := common.Logger()
	ctx, finish := telemetry.StartSpan(ctx, "workbook.batch")
	defer finish("surveys", len(req.Surveys))

	if len(req.Surveys) == 0 {
		return nil, errors.New("workbook: at least one survey pdf required")
	}
	if len(req.Roster) == 0 {
		return nil, errors.New("workbook: roster csv required")
	}
	template, err := s.template(req.Template)
	if err != nil {
		return nil, err
	}
	table, err := roster.Parse(bytes.NewReader(req.Roster))
	if err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}

	rep := BatchReport{
		Built:         []BuiltEntry{},
		MissingDoc:    []string{},
		MissingRoster: []match.Orphan{},
		Skipped:       []SkipEntry{},
	}
	skipCounts := map[string]int{}
	skip := func(name, source, reason string) {
		rep.Skipped = append(rep.Skipped, SkipEntry{Name: name, Source: source, Reason: reason})
		skipCounts[reason]++
		logger.Warn("workbook: batch skip", "participant", name, "source", source, "reason", reason)
	}

	// One extraction pass per document. Unreadable PDFs become skips, not
	// aborts, so a single corrupt upload does not sink the run.
	sources := make([]string, 0, len(req.Surveys))
	for source := range req.Surveys {
		sources = append(sources, source)
	}
	sort.Strings(sources)
	docNames := make(map[string]string, len(sources))
	profiles := make(map[string]report.Profile, len(sources))
	for _, source := range sources {
		text, err := report.ExtractText(req.Surveys[source])
		if err != nil {
			// No name is recoverable from an unreadable document, so the
			// entry is keyed by its source file.
			skip(source, source, "unreadable survey pdf")
			continue
		}
		profile := report.Parse(text)
		docNames[source] = profile.Name
		profiles[source] = profile
	}

	matched := match.Reconcile(table.Names(), docNames, s.cfg.MatchThreshold)
	rep.MissingDoc = matched.MissingDoc
	rep.MissingRoster = matched.MissingRoster

	archive := new(bytes.Buffer)
	writer := zip.NewWriter(archive)
	for _, pair := range matched.Pairs {
		row, ok := table.Find(pair.RosterName)
		if !ok {
			skip(pair.RosterName, pair.DocSource, "roster row not found")
			continue
		}
		started := time.Now()
		pdf, err := s.build(ctx, template, buildInputs{
			name:    pair.RosterName,
			term:    req.Term,
			cohort:  req.Cohort,
			survey:  req.Surveys[pair.DocSource],
			profile: profiles[pair.DocSource],
			totals:  table.ConflictScores(row),
		})
		if err != nil {
			skip(pair.RosterName, pair.DocSource, err.Error())
			continue
		}
		fileName := names.Sanitize(pair.RosterName) + "_workbook.pdf"
		entry, err := writer.Create(fileName)
		if err != nil {
			writer.Close()
			return nil, fmt.Errorf("archive %s: %w", fileName, err)
		}
		if _, err := entry.Write(pdf); err != nil {
			writer.Close()
			return nil, fmt.Errorf("archive %s: %w", fileName, err)
		}
		telemetry.RecordWorkbookBuilt(time.Since(started))
		rep.Built = append(rep.Built, BuiltEntry{
			Name:      pair.RosterName,
			DocSource: pair.DocSource,
			Score:     pair.Score,
			FileName:  fileName,
		})
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize archive: %w", err)
	}

	archiveName := fmt.Sprintf("workbooks_%s.zip", time.Now().Format("20060102_150405"))
	archivePath := filepath.Join(s.cfg.OutputDir, archiveName)
	if err := os.WriteFile(archivePath, archive.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write archive: %w", err)
	}

	telemetry.RecordBatchRun(skipCounts)
	logger.Info("workbook: batch complete",
		"dur", telemetry.SpanDuration(ctx),
		"built", len(rep.Built),
		"missing_doc", len(rep.MissingDoc),
		"missing_roster", len(rep.MissingRoster),
		"skipped", len(rep.Skipped),
		"archive", archiveName,
	)
	return &BatchResult{Report: rep, ArchiveName: archiveName}, nil
}
