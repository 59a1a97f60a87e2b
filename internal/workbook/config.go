// File path: internal/workbook/config.go
package workbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cohortworks/bindery/internal/match"
)

// Template families shipped with the booklet kit. All share the slot layout;
// they differ in branding and in the number of blank journal pages.
const (
	TemplateOpen = "open"
	TemplateTeam = "team"
	TemplateTiny = "tiny"
)

// templateFiles maps a family name to its paginatable template PDF inside
// the template directory.
var templateFiles = map[string]string{
	TemplateOpen: "open_template.pdf",
	TemplateTeam: "team_template.pdf",
	TemplateTiny: "tiny_template.pdf",
}

// KnownTemplate reports whether family names a shipped template. A blank
// family is acceptable; it selects the configured default.
func KnownTemplate(family string) bool {
	family = strings.TrimSpace(strings.ToLower(family))
	if family == "" {
		return true
	}
	_, ok := templateFiles[family]
	return ok
}

// Config controls the construction of the workbook service.
type Config struct {
	TemplateDir     string
	OutputDir       string
	DefaultTemplate string
	MatchThreshold  int
	RenderURL       string
	ConvertURL      string
}

// DefaultConfig returns the baseline configuration used when no overrides
// are supplied.
func DefaultConfig() Config {
	return Config{
		TemplateDir:     filepath.Join("data", "templates"),
		OutputDir:       filepath.Join("data", "out"),
		DefaultTemplate: TemplateOpen,
		MatchThreshold:  match.DefaultThreshold,
	}
}

// LoadConfig builds a Config from defaults and environment variables.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if value := strings.TrimSpace(os.Getenv("BINDERY_TEMPLATE_DIR")); value != "" {
		cfg.TemplateDir = value
	}
	if value := strings.TrimSpace(os.Getenv("BINDERY_OUTPUT_DIR")); value != "" {
		cfg.OutputDir = value
	}
	if value := strings.TrimSpace(os.Getenv("BINDERY_TEMPLATE")); value != "" {
		cfg.DefaultTemplate = value
	}
	if value := strings.TrimSpace(os.Getenv("BINDERY_MATCH_THRESHOLD")); value != "" {
		threshold, err := strconv.Atoi(value)
		if err != nil {
			return Config{}, fmt.Errorf("parse BINDERY_MATCH_THRESHOLD: %w", err)
		}
		cfg.MatchThreshold = threshold
	}
	if value := strings.TrimSpace(os.Getenv("BINDERY_RENDER_URL")); value != "" {
		cfg.RenderURL = value
	}
	if value := strings.TrimSpace(os.Getenv("BINDERY_CONVERT_URL")); value != "" {
		cfg.ConvertURL = value
	}
	cfg = applyDefaults(cfg)
	return cfg, cfg.validate()
}

func applyDefaults(cfg Config) Config {
	defaults := DefaultConfig()
	if strings.TrimSpace(cfg.TemplateDir) == "" {
		cfg.TemplateDir = defaults.TemplateDir
	}
	if strings.TrimSpace(cfg.OutputDir) == "" {
		cfg.OutputDir = defaults.OutputDir
	}
	if strings.TrimSpace(cfg.DefaultTemplate) == "" {
		cfg.DefaultTemplate = defaults.DefaultTemplate
	}
	if cfg.MatchThreshold <= 0 {
		cfg.MatchThreshold = defaults.MatchThreshold
	}
	return cfg
}

func (c Config) validate() error {
	if strings.TrimSpace(c.TemplateDir) == "" {
		return fmt.Errorf("template dir required")
	}
	if strings.TrimSpace(c.OutputDir) == "" {
		return fmt.Errorf("output dir required")
	}
	if _, ok := templateFiles[c.DefaultTemplate]; !ok {
		return fmt.Errorf("unknown template family %q", c.DefaultTemplate)
	}
	if c.MatchThreshold < 0 || c.MatchThreshold > 100 {
		return fmt.Errorf("match threshold must be between 0 and 100")
	}
	return nil
}

// templatePath resolves a template family to its PDF path, falling back to
// the configured default when family is blank.
func (c Config) templatePath(family string) (string, error) {
	family = strings.TrimSpace(strings.ToLower(family))
	if family == "" {
		family = c.DefaultTemplate
	}
	file, ok := templateFiles[family]
	if !ok {
		return "", fmt.Errorf("unknown template family %q", family)
	}
	return filepath.Join(c.TemplateDir, file), nil
}
