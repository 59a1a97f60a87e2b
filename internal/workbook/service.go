// File path: internal/workbook/service.go
package workbook

import (
	"fmt"
	"os"

	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/pdfops"
	"github.com/cohortworks/bindery/internal/render"
)

// Service orchestrates the workbook pipelines: individual builds, batch
// builds against a roster, and the strengths table export.
type Service struct {
	cfg      Config
	renderer render.FragmentRenderer
	slots    pdfops.SlotMap
	stamp    pdfops.StampPolicy
}

// New constructs a service from the provided configuration and optional
// overrides. Without a WithRenderer override the service renders fragments
// with the built-in renderer unless a remote render/convert pair is
// configured.
func New(cfg Config, opts ...Option) (*Service, error) {
	cfg = applyDefaults(cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	settings := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	renderer := settings.renderer
	if renderer == nil {
		if cfg.RenderURL != "" && cfg.ConvertURL != "" {
			renderer = render.NewTemplated(
				render.NewHTTPTemplateRenderer(cfg.RenderURL, 0),
				render.NewHTTPConverter(cfg.ConvertURL, 0),
				render.DefaultTemplateSet(),
			)
		} else {
			renderer = render.NewBuiltin()
		}
	}
	slots := settings.slots
	if len(slots) == 0 {
		slots = pdfops.DefaultSlotMap()
	}
	stamp := pdfops.DefaultStampPolicy()
	if settings.stamp != nil {
		stamp = *settings.stamp
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	common.Logger().Info(
		"workbook: service ready",
		"template_dir", cfg.TemplateDir,
		"output_dir", cfg.OutputDir,
		"default_template", cfg.DefaultTemplate,
		"match_threshold", cfg.MatchThreshold,
	)
	return &Service{cfg: cfg, renderer: renderer, slots: slots, stamp: stamp}, nil
}

// Config returns the effective configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// template loads the template family's PDF bytes.
func (s *Service) template(family string) ([]byte, error) {
	path, err := s.cfg.templatePath(family)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", path, err)
	}
	return data, nil
}
