// File path: internal/common/telemetry/telemetry.go
package telemetry

import (
	"context"
	"expvar"
	"strings"
	"sync"
	"time"

	"github.com/cohortworks/bindery/internal/common"
)

type spanKey struct{}

type span struct {
	name  string
	start time.Time
}

var (
	initOnce sync.Once

	profilesParsedTotal *expvar.Int
	workbooksBuiltTotal *expvar.Int
	workbookLatencyMS   *expvar.Int
	batchRunsTotal      *expvar.Int
	batchSkipsTotal     *expvar.Map
	pagesStampedTotal   *expvar.Int
	conversionsTotal    *expvar.Map
)

func ensureInit() {
	initOnce.Do(func() {
		profilesParsedTotal = expvar.NewInt("bindery_profiles_parsed_total")
		workbooksBuiltTotal = expvar.NewInt("bindery_workbooks_built_total")
		workbookLatencyMS = expvar.NewInt("bindery_workbook_latency_ms")
		batchRunsTotal = expvar.NewInt("bindery_batch_runs_total")
		batchSkipsTotal = expvar.NewMap("bindery_batch_skips_total")
		pagesStampedTotal = expvar.NewInt("bindery_pages_stamped_total")
		conversionsTotal = expvar.NewMap("bindery_conversions_total")
	})
}

// StartSpan records a named pipeline stage and returns a completion callback
// that logs the elapsed duration at debug level.
func StartSpan(ctx context.Context, name string) (context.Context, func(attrs ...interface{})) {
	ensureInit()
	sp := &span{name: name, start: time.Now()}
	ctx = context.WithValue(ctx, spanKey{}, sp)
	logger := common.Logger()
	logger.Debug("trace: start", "span", name)
	return ctx, func(attrs ...interface{}) {
		if sp == nil {
			return
		}
		duration := time.Since(sp.start)
		logger.Debug("trace: end", append([]interface{}{"span", name, "dur", duration}, attrs...)...)
	}
}

// RecordProfileParsed counts one survey document pushed through the extractor.
func RecordProfileParsed() {
	ensureInit()
	profilesParsedTotal.Add(1)
}

// RecordWorkbookBuilt counts one finished workbook and its end-to-end latency.
func RecordWorkbookBuilt(duration time.Duration) {
	ensureInit()
	workbooksBuiltTotal.Add(1)
	if duration > 0 {
		workbookLatencyMS.Add(duration.Milliseconds())
	}
}

// RecordBatchRun counts a batch pass and its per-participant skips by reason.
func RecordBatchRun(skips map[string]int) {
	ensureInit()
	batchRunsTotal.Add(1)
	for reason, count := range skips {
		key := strings.TrimSpace(strings.ToLower(reason))
		if key == "" {
			key = "unknown"
		}
		batchSkipsTotal.Add(key, int64(count))
	}
}

// RecordPagesStamped counts pages that received a number stamp.
func RecordPagesStamped(pages int) {
	ensureInit()
	if pages <= 0 {
		return
	}
	pagesStampedTotal.Add(int64(pages))
}

// RecordConversion counts one fragment conversion by backend name.
func RecordConversion(backend string) {
	ensureInit()
	key := strings.TrimSpace(strings.ToLower(backend))
	if key == "" {
		key = "builtin"
	}
	conversionsTotal.Add(key, 1)
}

// SpanDuration reports how long the active span has been running.
func SpanDuration(ctx context.Context) time.Duration {
	sp, _ := ctx.Value(spanKey{}).(*span)
	if sp == nil {
		return 0
	}
	return time.Since(sp.start)
}
