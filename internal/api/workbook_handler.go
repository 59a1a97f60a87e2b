// File path: internal/api/workbook_handler.go
package api

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/workbook"
)

func (s *Server) handleWorkbook(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	if err := r.ParseMultipartForm(s.maxMem); err != nil {
		logger.Warn("api: workbook form parse failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse upload form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("name is required"))
		return
	}
	template := strings.TrimSpace(r.FormValue("template"))
	if !workbook.KnownTemplate(template) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown template family %q", template))
		return
	}
	survey, err := singleFile(r, "via")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	roster, err := singleFile(r, "roster")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	logger.Info("api: workbook requested", "participant", name, "template", template)
	result, err := s.service.BuildIndividual(ctx, workbook.IndividualRequest{
		Name:     name,
		Term:     strings.TrimSpace(r.FormValue("term")),
		Cohort:   strings.TrimSpace(r.FormValue("cohort")),
		Template: template,
		Survey:   survey,
		Roster:   roster,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.PDF)
}

func (s *Server) handleWorkbookBatch(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	if err := r.ParseMultipartForm(s.maxMem); err != nil {
		logger.Warn("api: batch form parse failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse upload form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	template := strings.TrimSpace(r.FormValue("template"))
	if !workbook.KnownTemplate(template) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown template family %q", template))
		return
	}
	surveys, err := multiFiles(r, "via")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	roster, err := singleFile(r, "roster")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	logger.Info("api: batch requested", "surveys", len(surveys), "template", template)
	result, err := s.service.BuildBatch(ctx, workbook.BatchRequest{
		Term:     strings.TrimSpace(r.FormValue("term")),
		Cohort:   strings.TrimSpace(r.FormValue("cohort")),
		Template: template,
		Surveys:  surveys,
		Roster:   roster,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("file"))
	if name == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("file query parameter required"))
		return
	}
	cleaned := filepath.Clean(name)
	if cleaned == "." || filepath.IsAbs(cleaned) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid file path: %s", name))
		return
	}
	root := s.service.Config().OutputDir
	fullPath := filepath.Join(root, cleaned)
	rel, relErr := filepath.Rel(root, fullPath)
	if relErr != nil || strings.HasPrefix(rel, "..") {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid file path: %s", name))
		return
	}
	file, err := os.Open(fullPath)
	if err != nil {
		status := http.StatusInternalServerError
		if os.IsNotExist(err) {
			status = http.StatusNotFound
		}
		writeError(w, status, err)
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(cleaned)) {
	case ".pdf":
		contentType = "application/pdf"
	case ".zip":
		contentType = "application/zip"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(cleaned)))
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, file)
}

func (s *Server) handleStrengthsTable(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	if err := r.ParseMultipartForm(s.maxMem); err != nil {
		logger.Warn("api: table form parse failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Errorf("failed to parse upload form: %w", err))
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	surveys, err := multiFiles(r, "via")
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	rows, err := s.service.StrengthsTable(surveys)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if strings.EqualFold(r.URL.Query().Get("format"), "tsv") {
		if err := workbook.WriteTableTSV(&buf, rows); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/tab-separated-values")
	} else {
		if err := workbook.WriteTableCSV(&buf, rows); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// singleFile reads the one uploaded file expected under the field name.
func singleFile(r *http.Request, field string) ([]byte, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, fmt.Errorf("%s file is required", field)
	}
	return readPart(r.MultipartForm.File[field][0])
}

// multiFiles reads every uploaded file under the field name, keyed by its
// cleaned upload filename.
func multiFiles(r *http.Request, field string) (map[string][]byte, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, fmt.Errorf("at least one %s file is required", field)
	}
	out := make(map[string][]byte, len(r.MultipartForm.File[field]))
	for i, header := range r.MultipartForm.File[field] {
		name := strings.TrimSpace(header.Filename)
		cleaned := filepath.Clean(name)
		if cleaned == "." || cleaned == "" || filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, "..") {
			return nil, fmt.Errorf("invalid file name: %s", name)
		}
		cleaned = filepath.Base(cleaned)
		if _, exists := out[cleaned]; exists {
			cleaned = fmt.Sprintf("%d_%s", i, cleaned)
		}
		data, err := readPart(header)
		if err != nil {
			return nil, err
		}
		out[cleaned] = data
	}
	return out, nil
}

func readPart(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open uploaded file %s: %w", header.Filename, err)
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read uploaded file %s: %w", header.Filename, err)
	}
	return data, nil
}
