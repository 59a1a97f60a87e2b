// File path: internal/render/render_test.go
package render

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cohortworks/bindery/internal/report"
	"github.com/cohortworks/bindery/internal/roster"
)

type fakeTemplateRenderer struct {
	lastTemplate string
	lastVars     map[string]string
}

func (f *fakeTemplateRenderer) Render(ctx context.Context, template string, vars map[string]string) ([]byte, error) {
	f.lastTemplate = template
	f.lastVars = vars
	return []byte("rendered-docx"), nil
}

type fakeConverter struct {
	lastInput []byte
}

func (f *fakeConverter) Name() string { return "fake" }

func (f *fakeConverter) Convert(ctx context.Context, document []byte) ([]byte, error) {
	f.lastInput = append([]byte(nil), document...)
	return []byte("%PDF-fake"), nil
}

func TestTemplatedConflictContextKeys(t *testing.T) {
	renderer := &fakeTemplateRenderer{}
	converter := &fakeConverter{}
	templated := NewTemplated(renderer, converter, DefaultTemplateSet())

	totals := map[roster.Category]int{
		roster.Collaborating: 10,
		roster.Competing:     7,
		roster.Avoiding:      5,
		roster.Accommodating: 8,
		roster.Compromising:  9,
	}
	pdf, err := templated.Conflict(context.Background(), ConflictData{Name: "Alice Wu", Totals: totals})
	if err != nil {
		t.Fatalf("conflict render failed: %v", err)
	}
	if string(pdf) != "%PDF-fake" {
		t.Fatalf("expected converter output, got %q", pdf)
	}
	if renderer.lastTemplate != "Conflict_Template.docx" {
		t.Fatalf("wrong template: %s", renderer.lastTemplate)
	}
	want := map[string]string{"name": "Alice Wu", "Col": "10", "Com": "7", "Avo": "5", "Acc": "8", "Co2": "9"}
	for key, value := range want {
		if renderer.lastVars[key] != value {
			t.Fatalf("context key %s: expected %q, got %q", key, value, renderer.lastVars[key])
		}
	}
	if string(converter.lastInput) != "rendered-docx" {
		t.Fatalf("converter should receive the rendered document")
	}
}

func TestTemplatedStrengthsContextHas24Slots(t *testing.T) {
	renderer := &fakeTemplateRenderer{}
	templated := NewTemplated(renderer, &fakeConverter{}, DefaultTemplateSet())
	_, err := templated.Strengths(context.Background(), StrengthsData{
		Name:   "Bob Lee",
		Traits: []report.RankedTrait{{Rank: 1, Label: "Zest"}},
	})
	if err != nil {
		t.Fatalf("strengths render failed: %v", err)
	}
	if renderer.lastVars["strength1"] != "Zest" {
		t.Fatalf("expected first slot filled, got %q", renderer.lastVars["strength1"])
	}
	if _, ok := renderer.lastVars["strength24"]; !ok {
		t.Fatalf("expected all 24 slots in context")
	}
}

func TestBuiltinProducesPDFs(t *testing.T) {
	builtin := NewBuiltin()
	ctx := context.Background()

	cover, err := builtin.Cover(ctx, CoverData{Name: "Alice Wu", Term: "Spring 2026", Cohort: "Cohort 7"})
	if err != nil {
		t.Fatalf("cover: %v", err)
	}
	sweet, err := builtin.Strengths(ctx, StrengthsData{Name: "Alice Wu", Traits: []report.RankedTrait{{Rank: 1, Label: "Curiosity"}}})
	if err != nil {
		t.Fatalf("strengths: %v", err)
	}
	conflict, err := builtin.Conflict(ctx, ConflictData{Name: "Alice Wu", Totals: map[roster.Category]int{roster.Avoiding: 4}})
	if err != nil {
		t.Fatalf("conflict: %v", err)
	}
	for name, data := range map[string][]byte{"cover": cover, "strengths": sweet, "conflict": conflict} {
		if len(data) < 5 || string(data[:5]) != "%PDF-" {
			t.Fatalf("%s fragment is not a PDF", name)
		}
	}
}

func TestHTTPConverterPropagatesFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "conversion backend down", http.StatusBadGateway)
	}))
	defer server.Close()

	converter := NewHTTPConverter(server.URL, 0)
	if _, err := converter.Convert(context.Background(), []byte("doc")); err == nil {
		t.Fatalf("expected error from failing converter")
	}
}

func TestHTTPTemplateRendererRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/render" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("docx-bytes"))
	}))
	defer server.Close()

	renderer := NewHTTPTemplateRenderer(server.URL, 0)
	out, err := renderer.Render(context.Background(), "coverTemplate.docx", map[string]string{"name": "X"})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if string(out) != "docx-bytes" {
		t.Fatalf("unexpected body %q", out)
	}
}
