package calibration

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/agbru/sievebench/internal/cli"
	apperrors "github.com/agbru/sievebench/internal/errors"
	"github.com/agbru/sievebench/internal/sieve"
)

// lyingMarker marks nothing, so its sieve reports every index as prime.
type lyingMarker struct{}

func (lyingMarker) Name() string      { return "lying" }
func (lyingMarker) Mark([]bool) error { return nil }

type failingMarker struct{}

func (failingMarker) Name() string      { return "failing" }
func (failingMarker) Mark([]bool) error { return errors.New("boom") }

func TestWorkerCountsFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cpus int
		want []int
	}{
		{1, []int{1}},
		{2, []int{1, 2}},
		{6, []int{1, 2, 4}},
		{8, []int{1, 2, 4, 8}},
		{64, []int{1, 2, 4, 8, 16}},
	}
	for _, tt := range tests {
		if got := workerCountsFor(tt.cpus); !slices.Equal(got, tt.want) {
			t.Errorf("workerCountsFor(%d) = %v, want %v", tt.cpus, got, tt.want)
		}
	}
	if got := GenerateWorkerCounts(); len(got) == 0 || got[0] != 1 {
		t.Errorf("GenerateWorkerCounts() = %v, want a list starting at 1", got)
	}
}

func TestCandidates(t *testing.T) {
	t.Parallel()
	cands, err := Candidates(sieve.NewDefaultFactory(0), []int{1, 4})
	if err != nil {
		t.Fatal(err)
	}
	labels := make([]string, len(cands))
	for i, c := range cands {
		labels[i] = c.Label
	}
	want := []string{"parallel/1", "parallel/4", "sequential", "spawn"}
	if !slices.Equal(labels, want) {
		t.Errorf("labels = %v, want %v", labels, want)
	}
	if cands[1].Marker != (sieve.ParallelMarker{Workers: 4}) {
		t.Errorf("parallel/4 marker = %#v", cands[1].Marker)
	}
}

func TestCalibrate(t *testing.T) {
	t.Parallel()
	cands, err := Candidates(sieve.NewDefaultFactory(0), []int{2})
	if err != nil {
		t.Fatal(err)
	}
	ms, err := Calibrate(context.Background(), 100_000, cands, 2)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if len(ms) != len(cands) {
		t.Fatalf("got %d measurements, want %d", len(ms), len(cands))
	}
	for _, m := range ms {
		if m.Err != nil || m.Primes != 9592 {
			t.Errorf("%s: primes = %d, err = %v; want 9592 primes", m.Label, m.Primes, m.Err)
		}
	}
	if _, ok := Best(ms); !ok {
		t.Error("Best should find a measurement")
	}
}

func TestCalibrate_DetectsDisagreement(t *testing.T) {
	t.Parallel()
	cands := []Candidate{
		{Label: "sequential", Marker: sieve.SequentialMarker{}},
		{Label: "lying", Marker: lyingMarker{}},
	}
	_, err := Calibrate(context.Background(), 1000, cands, 1)
	if err == nil || !strings.Contains(err.Error(), "strategy lying found") {
		t.Errorf("err = %v, want a disagreement error", err)
	}
}

func TestCalibrate_FailedCandidate(t *testing.T) {
	t.Parallel()
	cands := []Candidate{
		{Label: "failing", Marker: failingMarker{}},
		{Label: "sequential", Marker: sieve.SequentialMarker{}},
	}
	ms, err := Calibrate(context.Background(), 1000, cands, 3)
	if err != nil {
		t.Fatalf("a failed candidate alone should not fail calibration: %v", err)
	}
	var sieveErr apperrors.SieveError
	if !errors.As(ms[0].Err, &sieveErr) {
		t.Errorf("failing candidate error = %v, want a SieveError", ms[0].Err)
	}
	best, ok := Best(ms)
	if !ok || best.Label != "sequential" {
		t.Errorf("Best = %+v, %v; want sequential", best, ok)
	}
}

func TestCalibrate_Errors(t *testing.T) {
	t.Parallel()
	cands := []Candidate{{Label: "sequential", Marker: sieve.SequentialMarker{}}}

	if _, err := Calibrate(context.Background(), 0, cands, 1); apperrors.ExitCode(err) != apperrors.ExitErrorConfig {
		t.Errorf("zero bound error = %v, want a validation error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Calibrate(ctx, 1000, cands, 1); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestBest(t *testing.T) {
	t.Parallel()
	if _, ok := Best(nil); ok {
		t.Error("Best(nil) should report no result")
	}
	ms := []Measurement{
		{Label: "a", Elapsed: 3 * time.Millisecond},
		{Label: "b", Elapsed: time.Millisecond, Err: errors.New("x")},
		{Label: "c", Elapsed: 2 * time.Millisecond},
	}
	if best, _ := Best(ms); best.Label != "c" {
		t.Errorf("Best = %s, want c", best.Label)
	}
}

func TestPrintResults(t *testing.T) {
	t.Parallel()
	ms := []Measurement{
		{Label: "sequential", Elapsed: 2 * time.Millisecond},
		{Label: "spawn", Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	if err := PrintResults(&buf, 1000, ms, cli.TablePresenter{Format: cli.FormatPlain}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{HeaderStrategy, HeaderBestRun, "0.002", "N/A", "Calibrated 2 strategies on upper bound 1000.", "Recommended", "sequential"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}
