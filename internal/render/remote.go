// File path: internal/render/remote.go
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/common/telemetry"
	"github.com/cohortworks/bindery/internal/strengths"
)

// TemplateSet names the word-processor templates used by the templated
// renderer.
type TemplateSet struct {
	Cover     string
	Strengths string
	Conflict  string
}

// DefaultTemplateSet mirrors the resource names of the booklet kit.
func DefaultTemplateSet() TemplateSet {
	return TemplateSet{
		Cover:     "coverTemplate.docx",
		Strengths: "Sweet_Spot_Template.docx",
		Conflict:  "Conflict_Template.docx",
	}
}

// HTTPTemplateRenderer posts a template name and substitution context to a
// rendering service and returns the rendered document bytes.
type HTTPTemplateRenderer struct {
	httpClient *http.Client
	baseURL    string
}

// NewHTTPTemplateRenderer builds a client for the given render service URL.
func NewHTTPTemplateRenderer(baseURL string, timeout time.Duration) *HTTPTemplateRenderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPTemplateRenderer{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

type renderRequest struct {
	Template string            `json:"template"`
	Context  map[string]string `json:"context"`
}

func (r *HTTPTemplateRenderer) Render(ctx context.Context, template string, vars map[string]string) ([]byte, error) {
	payload, err := json.Marshal(renderRequest{Template: template, Context: vars})
	if err != nil {
		return nil, fmt.Errorf("encode render request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/render", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", template, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("render %s: status %d: %s", template, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return io.ReadAll(resp.Body)
}

// HTTPConverter posts a rendered document to a conversion service and
// receives PDF bytes. There is no retry or backoff; a slow or failed remote
// conversion surfaces directly to the caller.
type HTTPConverter struct {
	httpClient *http.Client
	convertURL string
}

// NewHTTPConverter builds a converter client for the given endpoint.
func NewHTTPConverter(convertURL string, timeout time.Duration) *HTTPConverter {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &HTTPConverter{
		httpClient: &http.Client{Timeout: timeout},
		convertURL: convertURL,
	}
}

func (c *HTTPConverter) Name() string { return "http" }

func (c *HTTPConverter) Convert(ctx context.Context, document []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.convertURL, bytes.NewReader(document))
	if err != nil {
		return nil, fmt.Errorf("build convert request: %w", err)
	}
	req.Header.Set("Content-Type", "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("convert: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("convert: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read converted pdf: %w", err)
	}
	telemetry.RecordConversion(c.Name())
	return pdf, nil
}

// Templated composes a template renderer and a converter into a
// FragmentRenderer, for deployments that keep the original DOCX template kit.
type Templated struct {
	renderer  TemplateRenderer
	converter Converter
	templates TemplateSet
}

// NewTemplated wires the remote render and convert collaborators.
func NewTemplated(renderer TemplateRenderer, converter Converter, templates TemplateSet) *Templated {
	return &Templated{renderer: renderer, converter: converter, templates: templates}
}

func (t *Templated) Cover(ctx context.Context, data CoverData) ([]byte, error) {
	return t.produce(ctx, t.templates.Cover, map[string]string{
		"name":   data.Name,
		"date":   data.Term,
		"cohort": data.Cohort,
	})
}

func (t *Templated) Strengths(ctx context.Context, data StrengthsData) ([]byte, error) {
	return t.produce(ctx, t.templates.Strengths, strengths.TemplateContext(data.Name, data.Traits))
}

func (t *Templated) Conflict(ctx context.Context, data ConflictData) ([]byte, error) {
	return t.produce(ctx, t.templates.Conflict, map[string]string{
		"name": data.Name,
		"Col":  fmt.Sprintf("%d", data.Totals["Collaborating"]),
		"Com":  fmt.Sprintf("%d", data.Totals["Competing"]),
		"Avo":  fmt.Sprintf("%d", data.Totals["Avoiding"]),
		"Acc":  fmt.Sprintf("%d", data.Totals["Accommodating"]),
		"Co2":  fmt.Sprintf("%d", data.Totals["Compromising"]),
	})
}

func (t *Templated) produce(ctx context.Context, template string, vars map[string]string) ([]byte, error) {
	logger := common.Logger()
	document, err := t.renderer.Render(ctx, template, vars)
	if err != nil {
		return nil, fmt.Errorf("render template %s: %w", template, err)
	}
	pdf, err := t.converter.Convert(ctx, document)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", template, err)
	}
	logger.Debug("render: fragment produced", "template", template, "bytes", len(pdf))
	return pdf, nil
}
