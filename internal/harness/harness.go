package harness

import (
	"context"
	"errors"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/sievebench/internal/errors"
	"github.com/agbru/sievebench/internal/format"
	"github.com/agbru/sievebench/internal/logging"
	"github.com/agbru/sievebench/internal/metrics"
	"github.com/agbru/sievebench/internal/sieve"
	"github.com/agbru/sievebench/internal/sysmon"
)

// Column labels of the results table.
const (
	HeaderUpperBound = "Upper Bound"
	HeaderRunTime    = "Run Time (seconds)"
)

var (
	// ErrNoBounds is returned by New when no positive upper bound remains
	// after normalization.
	ErrNoBounds = apperrors.ConfigError{Message: "no positive upper bounds supplied"}

	// ErrAlreadyRun is returned by a second call to Run.
	ErrAlreadyRun = errors.New("harness has already been run")
)

// tracerName identifies the spans emitted by Run.
const tracerName = "github.com/agbru/sievebench/internal/harness"

// SieveObserver receives one call per successfully finished sieve.
type SieveObserver interface {
	ObserveSieve(strategy string, upperBound int, elapsed time.Duration, primes int)
}

// Harness owns one sieve per distinct positive upper bound, in ascending
// order, and runs them sequentially.
type Harness struct {
	bounds   []int
	sieves   []*sieve.Sieve
	marker   sieve.Marker
	logger   logging.Logger
	progress chan<- ProgressUpdate
	sample   bool
	memory   *metrics.MemoryCollector
	observer SieveObserver
	tracer   trace.Tracer
	runID    string

	started atomic.Bool
	done    chan struct{}
	results []Result
	err     error
}

// Option configures a Harness during construction.
type Option func(*Harness)

// WithMarker sets the marking strategy used by every sieve.
func WithMarker(m sieve.Marker) Option {
	return func(h *Harness) { h.marker = m }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// WithProgress makes Run send a ProgressUpdate when each sieve starts and
// finishes. The channel is not closed by the harness.
func WithProgress(ch chan<- ProgressUpdate) Option {
	return func(h *Harness) { h.progress = ch }
}

// WithResourceSampling toggles the per-sieve memory and system CPU samples
// attached to debug logs. Enabled by default.
func WithResourceSampling(enabled bool) Option {
	return func(h *Harness) { h.sample = enabled }
}

// WithObserver registers o to be told about every finished sieve.
func WithObserver(o SieveObserver) Option {
	return func(h *Harness) { h.observer = o }
}

// WithTracerProvider sets the OpenTelemetry provider for the run and
// per-sieve spans. The default is the global provider, a no-op unless the
// host program installed an SDK.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(h *Harness) { h.tracer = tp.Tracer(tracerName) }
}

// Normalize drops non-positive and duplicate bounds and sorts the rest in
// ascending order. The input slice is not modified.
func Normalize(bounds []int) []int {
	out := make([]int, 0, len(bounds))
	for _, b := range bounds {
		if b > 0 {
			out = append(out, b)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// New normalizes bounds and builds one sieve per remaining bound.
//
// Returns:
//   - *Harness: The harness, ready to Run.
//   - error: ErrNoBounds if no positive bound was supplied.
func New(bounds []int, opts ...Option) (*Harness, error) {
	h := &Harness{
		logger: logging.NopLogger{},
		sample: true,
		done:   make(chan struct{}),
		runID:  uuid.NewString(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.marker == nil {
		h.marker = sieve.SequentialMarker{}
	}
	if h.tracer == nil {
		h.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}

	h.bounds = Normalize(bounds)
	if len(h.bounds) == 0 {
		return nil, ErrNoBounds
	}

	h.sieves = make([]*sieve.Sieve, 0, len(h.bounds))
	for _, b := range h.bounds {
		s, err := sieve.New(b, h.marker)
		if err != nil {
			return nil, err
		}
		h.sieves = append(h.sieves, s)
	}
	if h.sample {
		h.memory = metrics.NewMemoryCollector()
	}
	return h, nil
}

// Run executes every sieve in ascending bound order, never two at once, and
// then publishes the results. Waiters blocked in Results, Table or Wait are
// released when Run returns, including when a sieve fails.
func (h *Harness) Run() error {
	if !h.started.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}
	defer close(h.done)

	ctx, runSpan := h.tracer.Start(context.Background(), "harness.Run", trace.WithAttributes(
		attribute.String("run_id", h.runID),
		attribute.String("strategy", h.marker.Name()),
		attribute.Int("sieves", len(h.sieves)),
	))
	defer runSpan.End()

	startFields := []logging.Field{
		logging.String("run_id", h.runID),
		logging.Int("sieves", len(h.sieves)),
		logging.String("strategy", h.marker.Name()),
	}
	if h.sample {
		startFields = append(startFields, logging.Int("logical_cpus", sysmon.LogicalCPUs()))
	}
	h.logger.Info("starting sieve run", startFields...)

	results := make([]Result, 0, len(h.sieves))
	for i, s := range h.sieves {
		h.report(ProgressUpdate{Index: i, Total: len(h.sieves), UpperBound: s.UpperBound()})

		_, span := h.tracer.Start(ctx, "sieve.Run", trace.WithAttributes(attribute.Int("upper_bound", s.UpperBound())))
		if err := s.Run(); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "sieve failed")
			span.End()
			runSpan.SetStatus(codes.Error, "sieve failed")
			h.logger.Error("sieve failed", err,
				logging.String("run_id", h.runID),
				logging.Int("upper_bound", s.UpperBound()))
			h.err = err
			return err
		}

		elapsed, _ := s.Elapsed()
		res := Result{UpperBound: s.UpperBound(), Elapsed: elapsed, Primes: s.Count()}
		span.SetAttributes(attribute.Int("primes", res.Primes), attribute.Int64("elapsed_ns", elapsed.Nanoseconds()))
		span.End()

		results = append(results, res)
		h.logSieve(res)
		if h.observer != nil {
			h.observer.ObserveSieve(h.marker.Name(), res.UpperBound, res.Elapsed, res.Primes)
		}
		h.report(ProgressUpdate{Index: i, Total: len(h.sieves), UpperBound: s.UpperBound(), Done: true, Elapsed: elapsed})
	}

	h.results = results
	h.logger.Info("sieve run complete",
		logging.String("run_id", h.runID),
		logging.Int("sieves", len(results)))
	return nil
}

func (h *Harness) report(u ProgressUpdate) {
	if h.progress != nil {
		h.progress <- u
	}
}

func (h *Harness) logSieve(res Result) {
	fields := []logging.Field{
		logging.String("run_id", h.runID),
		logging.Int("upper_bound", res.UpperBound),
		logging.Int("primes", res.Primes),
		logging.String("elapsed", format.FormatExecutionDuration(res.Elapsed)),
		logging.Uint64("array_bytes", metrics.CandidateArrayBytes(res.UpperBound)),
	}
	if h.sample {
		snap := h.memory.Snapshot()
		stats := sysmon.Sample()
		fields = append(fields,
			logging.Uint64("heap_bytes", snap.HeapAlloc),
			logging.Float64("cpu_percent", stats.CPUPercent),
			logging.Float64("mem_percent", stats.MemPercent))
	}
	h.logger.Debug("sieve finished", fields...)
}

// Done returns a channel closed once Run has returned.
func (h *Harness) Done() <-chan struct{} { return h.done }

// Wait blocks until Run has returned or ctx is done. It returns the run's
// error, or ctx.Err() if the context ended first.
func (h *Harness) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Results blocks until Run has returned and then yields one result per sieve
// in ascending bound order. It is empty if the run failed.
func (h *Harness) Results() []Result {
	<-h.done
	return slices.Clone(h.results)
}

// Table blocks like Results and returns the rendering handoff.
func (h *Harness) Table() Table {
	results := h.Results()
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{strconv.Itoa(r.UpperBound), format.FormatSeconds(r.Elapsed)})
	}
	return Table{
		Header:  []string{HeaderUpperBound, HeaderRunTime},
		Rows:    rows,
		Caption: "Ran " + strconv.Itoa(len(h.sieves)) + " sieves...",
	}
}

// Bounds returns the normalized upper bounds.
func (h *Harness) Bounds() []int { return slices.Clone(h.bounds) }

// Len returns the number of sieves.
func (h *Harness) Len() int { return len(h.sieves) }

// RunID returns the identifier attached to this harness's log entries.
func (h *Harness) RunID() string { return h.runID }

// Strategy returns the name of the marking strategy.
func (h *Harness) Strategy() string { return h.marker.Name() }
