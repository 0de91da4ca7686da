package classify

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/cliquecrit/pkg/critical"
	errs "github.com/matzehuels/cliquecrit/pkg/errors"
	"github.com/matzehuels/cliquecrit/pkg/graph"
	"github.com/matzehuels/cliquecrit/pkg/observability"
	"github.com/matzehuels/cliquecrit/pkg/source"
)

// DefaultThreshold is the largest clique-graph order that is classified.
const DefaultThreshold = 5

// DefaultProgressEvery is how many graphs pass between progress log lines.
const DefaultProgressEvery = 10000

// CriticalityTester decides clique-criticality; see [critical.Tester].
type CriticalityTester interface {
	Test(g *graph.Graph) (critical.Outcome, error)
}

// GraphClassifier maps a clique graph to its key; see [Classifier].
type GraphClassifier interface {
	Classify(h *graph.Graph) (Key, error)
}

// StreamOptions configures one [Streamer.Stream] call.
type StreamOptions struct {
	// FilterConnected skips disconnected graphs before any testing.
	FilterConnected bool

	// Workers is the number of concurrent testers. Values <= 1 process
	// graphs one at a time. Either way buckets receive graphs in source
	// order.
	Workers int

	// ProgressEvery sets how often a debug progress line is logged.
	// 0 means DefaultProgressEvery; negative disables progress lines.
	ProgressEvery int
}

// Stats summarizes one stream.
type Stats struct {
	Source        string        `json:"source" toml:"source"`
	Examined      int           `json:"examined" toml:"examined"`
	Disconnected  int           `json:"disconnected" toml:"disconnected"`
	Indeterminate int           `json:"indeterminate" toml:"indeterminate"`
	NotCritical   int           `json:"not_critical" toml:"not_critical"`
	Oversized     int           `json:"oversized" toml:"oversized"`
	Accepted      int           `json:"accepted" toml:"accepted"`
	Duration      time.Duration `json:"duration" toml:"duration"`
}

// Streamer drives candidate sequences into a classification map.
type Streamer struct {
	Tester     CriticalityTester
	Classifier GraphClassifier

	// Threshold is the largest clique-graph order that is classified.
	// 0 means DefaultThreshold.
	Threshold int

	// Logger receives progress lines. nil discards them.
	Logger *log.Logger
}

// NewStreamer returns a streamer with the default tester and threshold.
func NewStreamer(c GraphClassifier, logger *log.Logger) *Streamer {
	return &Streamer{
		Tester:     critical.NewTester(),
		Classifier: c,
		Threshold:  DefaultThreshold,
		Logger:     logger,
	}
}

type status int

const (
	accepted status = iota
	disconnected
	indeterminate
	notCritical
	oversized
)

var skipReasons = map[status]string{
	disconnected:  observability.SkipDisconnected,
	indeterminate: observability.SkipIndeterminate,
	notCritical:   observability.SkipNotCritical,
	oversized:     observability.SkipOversized,
}

// result is the evaluation of the graph at 1-based position pos.
type result struct {
	pos    int
	g      *graph.Graph
	key    Key
	status status
	err    error
}

// Stream classifies every graph of src into m, which the caller owns and
// may reuse across calls: later calls append to existing buckets.
//
// For each graph: disconnected graphs are skipped when FilterConnected is
// set; the criticality test runs; a Critical graph whose clique graph has
// at most Threshold vertices is classified and the original graph is
// appended to that key's bucket. Everything else is counted and dropped.
//
// A source failure or malformed graph stops the stream and is returned with
// the source name and position. Buckets filled before the failure are kept,
// and nothing from the failing graph is appended.
func (s *Streamer) Stream(ctx context.Context, src source.Source, m *Map, opts StreamOptions) (stats Stats, err error) {
	stats.Source = src.Name
	start := time.Now()
	defer func() {
		stats.Duration = time.Since(start)
		observability.Classify().OnStreamComplete(ctx, src.Name, stats.Examined, stats.Duration, err)
		s.logger().Debug("stream finished", "source", src.Name, "examined", stats.Examined,
			"accepted", stats.Accepted, "duration", stats.Duration)
	}()

	if opts.Workers <= 1 {
		err = s.sequential(ctx, src, m, opts, &stats)
	} else {
		err = s.parallel(ctx, src, m, opts, &stats)
	}
	return stats, err
}

func (s *Streamer) sequential(ctx context.Context, src source.Source, m *Map, opts StreamOptions, stats *Stats) error {
	pos := 0
	for g, err := range src.Seq {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		pos++
		r := result{pos: pos, g: g, err: err}
		if err == nil {
			r = s.evaluate(pos, g, opts)
		}
		if err := s.apply(ctx, src.Name, r, m, opts, stats); err != nil {
			return err
		}
	}
	return ctx.Err()
}

func (s *Streamer) parallel(ctx context.Context, src source.Source, m *Map, opts StreamOptions, stats *Stats) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	grp, gctx := errgroup.WithContext(ctx)

	jobs := make(chan result, opts.Workers)
	results := make(chan result, opts.Workers)

	grp.Go(func() error {
		defer close(jobs)
		pos := 0
		for g, err := range src.Seq {
			pos++
			select {
			case jobs <- result{pos: pos, g: g, err: err}:
			case <-gctx.Done():
				return gctx.Err()
			}
			if err != nil {
				return nil
			}
		}
		return nil
	})

	var workers sync.WaitGroup
	for range opts.Workers {
		workers.Add(1)
		grp.Go(func() error {
			defer workers.Done()
			for j := range jobs {
				r := j
				if j.err == nil {
					r = s.evaluate(j.pos, j.g, opts)
				}
				select {
				case results <- r:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	// Results arrive out of order; hold them until their predecessors
	// have been applied.
	pending := make(map[int]result)
	next := 1
	var streamErr error
	for r := range results {
		if streamErr != nil {
			continue
		}
		pending[r.pos] = r
		for {
			ready, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			next++
			if err := s.apply(ctx, src.Name, ready, m, opts, stats); err != nil {
				streamErr = err
				cancel()
				break
			}
		}
	}

	grpErr := grp.Wait()
	switch {
	case streamErr != nil:
		return streamErr
	case ctx.Err() != nil:
		return context.Cause(ctx)
	default:
		return grpErr
	}
}

// evaluate runs the filter, the criticality test and the classifier on one
// graph. It touches no shared state.
func (s *Streamer) evaluate(pos int, g *graph.Graph, opts StreamOptions) result {
	r := result{pos: pos, g: g}
	if g == nil {
		r.err = errs.Wrap(errs.ErrCodeInvalidGraph, graph.ErrNilGraph, "candidate")
		return r
	}
	if opts.FilterConnected && !g.IsConnected() {
		r.status = disconnected
		return r
	}

	out, err := s.Tester.Test(g)
	if err != nil {
		r.err = err
		return r
	}
	switch {
	case out.Verdict == critical.Indeterminate:
		r.status = indeterminate
	case out.Verdict == critical.NotCritical:
		r.status = notCritical
	case out.CliqueGraph.Order() > s.threshold():
		r.status = oversized
	default:
		r.key, r.err = s.Classifier.Classify(out.CliqueGraph)
		r.status = accepted
	}
	return r
}

// apply records one evaluated graph. It runs on a single goroutine in
// source order.
func (s *Streamer) apply(ctx context.Context, name string, r result, m *Map, opts StreamOptions, stats *Stats) error {
	if r.err != nil {
		code := errs.GetCode(r.err)
		if code == "" {
			code = errs.ErrCodeInvalidInput
		}
		return errs.Wrap(code, r.err, "%s: graph %d", name, r.pos)
	}

	stats.Examined++
	observability.Classify().OnGraphExamined(ctx, name)
	if every := s.progressEvery(opts); every > 0 && stats.Examined%every == 0 {
		s.logger().Debug("classifying", "source", name, "examined", stats.Examined, "accepted", stats.Accepted)
	}

	switch r.status {
	case accepted:
		m.Append(r.key, r.g)
		stats.Accepted++
		observability.Classify().OnGraphAccepted(ctx, name, r.key.String())
		return nil
	case disconnected:
		stats.Disconnected++
	case indeterminate:
		stats.Indeterminate++
	case notCritical:
		stats.NotCritical++
	case oversized:
		stats.Oversized++
	}
	observability.Classify().OnGraphSkipped(ctx, name, skipReasons[r.status])
	return nil
}

func (s *Streamer) threshold() int {
	if s.Threshold <= 0 {
		return DefaultThreshold
	}
	return s.Threshold
}

func (s *Streamer) progressEvery(opts StreamOptions) int {
	if opts.ProgressEvery == 0 {
		return DefaultProgressEvery
	}
	return opts.ProgressEvery
}

func (s *Streamer) logger() *log.Logger {
	if s.Logger == nil {
		return discard
	}
	return s.Logger
}

var discard = log.New(io.Discard)
