// File path: cmd/bindery/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/cohortworks/bindery/internal/api"
	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/common/process"
	"github.com/cohortworks/bindery/internal/workbook"
)

func main() {
	logger := common.Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(); err != nil {
		logger.Warn("bindery: .env file not loaded", "error", err)
	} else {
		logger.Info("bindery: environment loaded from .env")
	}

	addr := flag.String("addr", ":8085", "listen address")
	templateDir := flag.String("templates", "", "directory holding the booklet template PDFs")
	outputDir := flag.String("output", "", "directory for batch archives and working files")
	threshold := flag.Int("threshold", -1, "name match threshold 0-100 (-1 uses defaults)")
	templateFamily := flag.String("template", "", "default template family (open, team, tiny)")
	renderURL := flag.String("render-url", "", "remote template render service URL (empty for built-in rendering)")
	convertURL := flag.String("convert-url", "", "remote document conversion service URL")

	autoStartDefault := true
	if env := strings.TrimSpace(os.Getenv("BINDERY_AUTOSTART")); env != "" {
		if parsed, err := strconv.ParseBool(env); err == nil {
			autoStartDefault = parsed
		}
	}
	autoStartConverter := flag.Bool("auto-start-converter", autoStartDefault, "automatically launch the configured converter sidecar")

	flag.Parse()

	logger.Info("bindery: startup initiated", "addr", *addr)

	cfg, err := workbook.LoadConfig()
	if err != nil {
		logger.Error("bindery: config load failed", "error", err)
		fmt.Println("config error:", err)
		os.Exit(1)
	}
	if trimmed := strings.TrimSpace(*templateDir); trimmed != "" {
		cfg.TemplateDir = trimmed
	}
	if trimmed := strings.TrimSpace(*outputDir); trimmed != "" {
		cfg.OutputDir = trimmed
	}
	if *threshold >= 0 {
		cfg.MatchThreshold = *threshold
	}
	if trimmed := strings.TrimSpace(*templateFamily); trimmed != "" {
		cfg.DefaultTemplate = trimmed
	}
	if trimmed := strings.TrimSpace(*renderURL); trimmed != "" {
		cfg.RenderURL = trimmed
	}
	if trimmed := strings.TrimSpace(*convertURL); trimmed != "" {
		cfg.ConvertURL = trimmed
	}

	if *autoStartConverter {
		if sidecar := startConverterSidecar(ctx, cfg, logger); sidecar != nil {
			defer func() {
				if err := sidecar.Stop(context.Background()); err != nil {
					logger.Warn("bindery: converter sidecar stop failed", "error", err)
				}
			}()
		}
	}

	probeConverter(ctx, cfg, logger)

	service, err := workbook.New(cfg)
	if err != nil {
		logger.Error("bindery: service construction failed", "error", err)
		fmt.Println("service error:", err)
		os.Exit(1)
	}

	server, err := api.NewServer(service, nil)
	if err != nil {
		logger.Error("bindery: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	logger.Info("bindery: server listening", "addr", *addr, "health", "/healthz")
	fmt.Printf("Serving on %s\n", *addr)
	reachable := *addr
	if strings.HasPrefix(reachable, ":") {
		reachable = "localhost" + reachable
	}
	logger.Info("bindery: verify reachability", "suggestion", fmt.Sprintf("curl http://%s/healthz", reachable))
	if err := http.ListenAndServe(*addr, server); err != nil {
		logger.Error("bindery: server stopped", "error", err)
		fmt.Println("server stopped:", err)
	}
}

// startConverterSidecar launches the conversion service named by
// BINDERY_CONVERTER_CMD, if any. Arguments after the command are split on
// whitespace; the sidecar's readiness probe targets the convert URL.
func startConverterSidecar(ctx context.Context, cfg workbook.Config, logger *slog.Logger) *process.Sidecar {
	command := strings.Fields(strings.TrimSpace(os.Getenv("BINDERY_CONVERTER_CMD")))
	if len(command) == 0 {
		return nil
	}
	sidecarCfg := process.ConverterSidecar(command[0], command[1:], cfg.ConvertURL)
	sidecarCfg.ReadyTimeout = 60 * time.Second
	sidecar, err := process.Start(ctx, sidecarCfg)
	if err != nil {
		logger.Warn("bindery: converter sidecar failed to start", "error", err)
		return nil
	}
	return sidecar
}

// probeConverter reports whether document conversion is available. Absence
// is a log line, not a startup failure: the built-in renderer covers
// deployments without a converter.
func probeConverter(ctx context.Context, cfg workbook.Config, logger *slog.Logger) {
	if cfg.ConvertURL == "" {
		if path, err := process.BinaryPath("soffice"); err == nil {
			logger.Info("bindery: local office converter found", "path", path)
		} else {
			logger.Info("bindery: no converter configured, using built-in renderer")
		}
		return
	}
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(probeCtx, http.MethodGet, cfg.ConvertURL, nil)
	if err != nil {
		logger.Warn("bindery: converter probe request failed", "error", err)
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.Warn("bindery: converter unreachable", "url", cfg.ConvertURL, "error", err)
		return
	}
	resp.Body.Close()
	logger.Info("bindery: converter reachable", "url", cfg.ConvertURL, "status", resp.StatusCode)
}
