// File path: internal/common/log.go
package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// defaultJournalSize bounds the in-memory run journal; a full batch run logs
// a few entries per participant, so 500 covers the largest cohorts seen.
const defaultJournalSize = 500

// binderyComponents are the subsystems whose "component: event" message
// prefix identifies the emitter. Sidecar processes log under an explicit
// "sidecar/<name>" component attribute instead.
var binderyComponents = map[string]bool{
	"api":       true,
	"bindery":   true,
	"match":     true,
	"names":     true,
	"pdfops":    true,
	"process":   true,
	"render":    true,
	"report":    true,
	"roster":    true,
	"strengths": true,
	"trace":     true,
	"workbook":  true,
}

var (
	logger     *slog.Logger
	loggerOnce sync.Once
	journal    = newRunJournal(journalSizeFromEnv())
)

// LogEntry is a captured record emitted through the shared logger. The API
// layer serves these back to the operator so a batch run can be audited after
// the fact.
type LogEntry struct {
	Time       time.Time              `json:"time"`
	Level      string                 `json:"level"`
	Message    string                 `json:"message"`
	Component  string                 `json:"component,omitempty"`
	Attributes map[string]interface{} `json:"attributes,omitempty"`
}

// Logger returns the singleton slog logger. BINDERY_LOG_LEVEL selects the
// level (LOG_LEVEL is honored as a fallback); BINDERY_LOG_HISTORY sizes the
// run journal.
func Logger() *slog.Logger {
	loggerOnce.Do(func() {
		level := slog.LevelInfo
		raw := os.Getenv("BINDERY_LOG_LEVEL")
		if raw == "" {
			raw = os.Getenv("LOG_LEVEL")
		}
		switch strings.ToLower(raw) {
		case "debug":
			level = slog.LevelDebug
		case "warn":
			level = slog.LevelWarn
		case "error":
			level = slog.LevelError
		}
		base := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
		logger = slog.New(&journalHandler{handler: base, journal: journal})
	})
	return logger
}

// LogEntries returns a copy of the captured log history, oldest first.
func LogEntries() []LogEntry {
	if journal == nil {
		return nil
	}
	return journal.entries()
}

func journalSizeFromEnv() int {
	if raw := os.Getenv("BINDERY_LOG_HISTORY"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultJournalSize
}

// journalHandler tees every record into the run journal after the wrapped
// handler has written it.
type journalHandler struct {
	handler slog.Handler
	journal *runJournal
}

func (h *journalHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *journalHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.handler.Handle(ctx, record)
	if h.journal != nil {
		h.journal.record(record)
	}
	return err
}

func (h *journalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &journalHandler{handler: h.handler.WithAttrs(attrs), journal: h.journal}
}

func (h *journalHandler) WithGroup(name string) slog.Handler {
	return &journalHandler{handler: h.handler.WithGroup(name), journal: h.journal}
}

// runJournal keeps the newest entries of the current process, oldest first.
type runJournal struct {
	mu      sync.RWMutex
	max     int
	history []LogEntry
}

func newRunJournal(max int) *runJournal {
	if max <= 0 {
		max = defaultJournalSize
	}
	return &runJournal{max: max}
}

func (j *runJournal) record(record slog.Record) {
	entry := entryFromRecord(record)
	j.mu.Lock()
	defer j.mu.Unlock()
	j.history = append(j.history, entry)
	if len(j.history) > j.max {
		j.history = j.history[len(j.history)-j.max:]
	}
}

func (j *runJournal) entries() []LogEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if len(j.history) == 0 {
		return nil
	}
	out := make([]LogEntry, len(j.history))
	copy(out, j.history)
	return out
}

func entryFromRecord(record slog.Record) LogEntry {
	rec := record.Clone()
	entry := LogEntry{
		Time:    rec.Time,
		Level:   strings.ToLower(rec.Level.String()),
		Message: rec.Message,
	}
	if entry.Time.IsZero() {
		entry.Time = time.Now()
	}
	entry.Time = entry.Time.In(time.UTC)

	var attrs map[string]interface{}
	rec.Attrs(func(a slog.Attr) bool {
		value := attrValue(a.Value)
		if a.Key == "component" {
			entry.Component = strings.TrimSpace(attrString(value))
			return true
		}
		if attrs == nil {
			attrs = make(map[string]interface{})
		}
		attrs[a.Key] = value
		return true
	})

	if entry.Component == "" {
		entry.Component = componentOf(entry.Message)
	}

	if len(attrs) > 0 {
		entry.Attributes = attrs
	}
	return entry
}

// componentOf recovers the emitting subsystem from the "component: event"
// message convention. Only known subsystem names count; a colon inside an
// ordinary message does not make a component.
func componentOf(message string) string {
	idx := strings.Index(message, ":")
	if idx <= 0 {
		return ""
	}
	prefix := strings.TrimSpace(message[:idx])
	if binderyComponents[prefix] || strings.HasPrefix(prefix, "sidecar/") {
		return prefix
	}
	return ""
}

func attrValue(v slog.Value) interface{} {
	switch v.Kind() {
	case slog.KindString:
		return v.String()
	case slog.KindBool:
		return v.Bool()
	case slog.KindInt64:
		return v.Int64()
	case slog.KindUint64:
		return v.Uint64()
	case slog.KindFloat64:
		return v.Float64()
	case slog.KindDuration:
		return v.Duration().String()
	case slog.KindTime:
		return v.Time().In(time.UTC)
	case slog.KindAny:
		return v.Any()
	default:
		return v.String()
	}
}

func attrString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}
