package cli

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cliquecrit/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// elapsed duration. After track it also counts graphs examined by the
// classifier and reports the throughput.
type progress struct {
	logger   *log.Logger
	start    time.Time
	examined atomic.Int64
	prev     observability.ClassifyHooks
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// track chains a graph counter in front of the registered classifier hooks.
// Callers must call untrack when the operation ends.
func (p *progress) track() *progress {
	p.prev = observability.Classify()
	observability.SetClassifyHooks(examinedCounter{ClassifyHooks: p.prev, n: &p.examined})
	return p
}

// untrack restores the classifier hooks replaced by track.
func (p *progress) untrack() {
	if p.prev != nil {
		observability.SetClassifyHooks(p.prev)
		p.prev = nil
	}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Classified 812 graphs into 31 buckets (1m4.21s) examined=12346 rate=193/s"
func (p *progress) done(msg string) {
	elapsed := time.Since(p.start)
	var keyvals []any
	if n := p.examined.Load(); n > 0 {
		keyvals = append(keyvals, "examined", n)
		if secs := elapsed.Seconds(); secs > 0 {
			keyvals = append(keyvals, "rate", fmt.Sprintf("%.0f/s", float64(n)/secs))
		}
	}
	p.logger.Info(fmt.Sprintf("%s (%s)", msg, elapsed.Round(time.Millisecond)), keyvals...)
}

// examinedCounter counts OnGraphExamined calls before passing them on.
type examinedCounter struct {
	observability.ClassifyHooks
	n *atomic.Int64
}

func (c examinedCounter) OnGraphExamined(ctx context.Context, source string) {
	c.n.Add(1)
	c.ClassifyHooks.OnGraphExamined(ctx, source)
}

// ctxKey is the type for context keys used in this package.
// Using a distinct type prevents collisions with other packages.
type ctxKey int

// loggerKey is the context key for storing a logger.
const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
// The logger can be retrieved later with loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx.
// If no logger is attached, it returns log.Default().
// This ensures commands always have a valid logger even if context setup fails.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
