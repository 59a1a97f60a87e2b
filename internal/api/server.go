// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/cohortworks/bindery/internal/common"
	"github.com/cohortworks/bindery/internal/workbook"
)

// Server exposes the workbook pipelines over HTTP.
type Server struct {
	router  chi.Router
	service *workbook.Service
	maxMem  int64
}

// Config controls request handling limits.
type Config struct {
	MaxUploadBytes int64
}

// DefaultConfig returns the standard configuration used when no overrides
// are provided.
func DefaultConfig() Config {
	return Config{
		MaxUploadBytes: 64 << 20, // 64 MiB of in-memory file parts
	}
}

// NewServer builds the HTTP surface around a workbook service.
func NewServer(service *workbook.Service, cfg *Config) (*Server, error) {
	if service == nil {
		return nil, fmt.Errorf("workbook service required")
	}
	configuration := DefaultConfig()
	if cfg != nil && cfg.MaxUploadBytes > 0 {
		configuration.MaxUploadBytes = cfg.MaxUploadBytes
	}
	srv := &Server{
		router:  chi.NewRouter(),
		service: service,
		maxMem:  configuration.MaxUploadBytes,
	}
	srv.routes()
	common.Logger().Info("api: server ready", "max_upload_bytes", srv.maxMem)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Post("/v1/workbook", s.handleWorkbook)
	s.router.Post("/v1/workbook/batch", s.handleWorkbookBatch)
	s.router.Get("/v1/workbook/download", s.handleDownload)
	s.router.Post("/v1/strengths/table", s.handleStrengthsTable)
	s.router.Get("/v1/logs", s.handleLogs)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := append([]common.LogEntry(nil), common.LogEntries()...)
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
