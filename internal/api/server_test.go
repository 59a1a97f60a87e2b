// File path: internal/api/server_test.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jung-kurt/gofpdf"

	"github.com/cohortworks/bindery/internal/report"
	"github.com/cohortworks/bindery/internal/workbook"
)

func surveyPDF(t *testing.T, name string, traits []string) []byte {
	t.Helper()
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 14)
	doc.AddPage()
	y := 72.0
	line := func(text string) {
		doc.SetXY(72, y)
		doc.Cell(0, 16, text)
		y += 24
	}
	line(name)
	line(report.NameMarker)
	for i, trait := range traits {
		line(fmt.Sprintf("%d. %s", i+1, trait))
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build survey fixture: %v", err)
	}
	return buf.Bytes()
}

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	templateDir := t.TempDir()
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 24)
	for i := 0; i < 13; i++ {
		doc.AddPage()
		doc.SetXY(72, 72)
		doc.Cell(0, 20, fmt.Sprintf("template %s", string(rune('a'+i))))
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build template fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(templateDir, "open_template.pdf"), buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write template fixture: %v", err)
	}

	outputDir := t.TempDir()
	service, err := workbook.New(workbook.Config{
		TemplateDir: templateDir,
		OutputDir:   outputDir,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	server, err := NewServer(service, nil)
	if err != nil {
		t.Fatalf("construct server: %v", err)
	}
	return server, outputDir
}

type formFile struct {
	field string
	name  string
	data  []byte
}

func multipartRequest(t *testing.T, target string, values map[string]string, files []formFile) *http.Request {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for key, value := range values {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.name)
		if err != nil {
			t.Fatalf("create form file %s: %v", file.name, err)
		}
		if _, err := part.Write(file.data); err != nil {
			t.Fatalf("write form file %s: %v", file.name, err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

const rosterHeader = "First and Last Name,I try to meet the expectations of others.\n"

func TestHealthz(t *testing.T) {
	server, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestWorkbookEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	req := multipartRequest(t, "/v1/workbook",
		map[string]string{"name": "Alice Wu", "term": "Spring 2026", "cohort": "Cohort 7"},
		[]formFile{
			{"via", "alice.pdf", surveyPDF(t, "Alice Wu", []string{"Curiosity", "Zest"})},
			{"roster", "roster.csv", []byte(rosterHeader + "Alice Wu,Always\n")},
		})
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected pdf content type, got %s", got)
	}
	if !strings.Contains(rec.Header().Get("Content-Disposition"), "Alice_Wu_workbook.pdf") {
		t.Fatalf("unexpected disposition: %s", rec.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Fatalf("body is not a pdf")
	}
}

func TestWorkbookRequiresName(t *testing.T) {
	server, _ := newTestServer(t)
	req := multipartRequest(t, "/v1/workbook", nil, []formFile{
		{"via", "alice.pdf", surveyPDF(t, "Alice Wu", nil)},
		{"roster", "roster.csv", []byte(rosterHeader + "Alice Wu,Always\n")},
	})
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWorkbookRejectsUnknownTemplate(t *testing.T) {
	server, _ := newTestServer(t)
	req := multipartRequest(t, "/v1/workbook",
		map[string]string{"name": "Alice Wu", "template": "velvet"},
		[]formFile{
			{"via", "alice.pdf", surveyPDF(t, "Alice Wu", nil)},
			{"roster", "roster.csv", []byte(rosterHeader + "Alice Wu,Always\n")},
		})
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestBatchEndpointAndDownload(t *testing.T) {
	server, _ := newTestServer(t)
	req := multipartRequest(t, "/v1/workbook/batch",
		map[string]string{"term": "Spring 2026"},
		[]formFile{
			{"via", "alice.pdf", surveyPDF(t, "Alice Wu", []string{"Curiosity"})},
			{"via", "bob.pdf", surveyPDF(t, "Bob Lee", []string{"Hope"})},
			{"roster", "roster.csv", []byte(rosterHeader + "Alice Wu,Always\nCarol Chen,Often\n")},
		})
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var result workbook.BatchResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode batch response: %v", err)
	}
	if len(result.Report.Built) != 1 || result.Report.Built[0].Name != "Alice Wu" {
		t.Fatalf("unexpected built list: %+v", result.Report.Built)
	}
	if result.ArchiveName == "" {
		t.Fatalf("expected archive name in response")
	}

	downloadReq := httptest.NewRequest(http.MethodGet, "/v1/workbook/download?file="+result.ArchiveName, nil)
	downloadRec := httptest.NewRecorder()
	server.ServeHTTP(downloadRec, downloadReq)
	if downloadRec.Code != http.StatusOK {
		t.Fatalf("expected 200 download, got %d: %s", downloadRec.Code, downloadRec.Body.String())
	}
	if got := downloadRec.Header().Get("Content-Type"); got != "application/zip" {
		t.Fatalf("expected zip content type, got %s", got)
	}
}

func TestDownloadRejectsTraversal(t *testing.T) {
	server, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/workbook/download?file=../../etc/passwd", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	server, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/v1/workbook/download?file=nope.zip", nil)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestStrengthsTableFormats(t *testing.T) {
	server, _ := newTestServer(t)
	files := []formFile{
		{"via", "alice.pdf", surveyPDF(t, "Alice Wu", []string{"Curiosity", "Zest"})},
	}

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, multipartRequest(t, "/v1/strengths/table", nil, files))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("expected csv content type, got %s", got)
	}
	if !strings.HasPrefix(rec.Body.String(), "First Name,Last Name,Strength 1,") {
		t.Fatalf("expected csv header, got %q", rec.Body.String()[:40])
	}

	tsvRec := httptest.NewRecorder()
	server.ServeHTTP(tsvRec, multipartRequest(t, "/v1/strengths/table?format=tsv", nil, files))
	if tsvRec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", tsvRec.Code, tsvRec.Body.String())
	}
	if got := tsvRec.Header().Get("Content-Type"); got != "text/tab-separated-values" {
		t.Fatalf("expected tsv content type, got %s", got)
	}
	if !strings.HasPrefix(tsvRec.Body.String(), "Alice\tWu\tCuriosity\t") {
		t.Fatalf("unexpected tsv body: %q", tsvRec.Body.String())
	}
}

func TestLogsEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/logs", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var payload struct {
		Entries []map[string]interface{} `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode logs: %v", err)
	}
}
