package harness

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/sievebench/internal/errors"
	"github.com/agbru/sievebench/internal/logging"
	"github.com/agbru/sievebench/internal/sieve"
	"github.com/agbru/sievebench/internal/sieve/mocks"
)

// recordingMarker counts concurrent Mark calls and records the array sizes
// in call order.
type recordingMarker struct {
	mu       sync.Mutex
	sizes    []int
	inFlight atomic.Int32
	maxSeen  atomic.Int32
	failAt   int
}

func (r *recordingMarker) Name() string { return "recording" }

func (r *recordingMarker) Mark(candidates []bool) error {
	n := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		old := r.maxSeen.Load()
		if n <= old || r.maxSeen.CompareAndSwap(old, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)

	r.mu.Lock()
	r.sizes = append(r.sizes, len(candidates))
	r.mu.Unlock()

	if r.failAt != 0 && len(candidates) == r.failAt {
		return errors.New("simulated marking failure")
	}
	return sieve.SequentialMarker{}.Mark(candidates)
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		bounds []int
		want   []int
	}{
		{"dedupes, drops non-positive and sorts", []int{10, 50, 10, 0, -5}, []int{10, 50}},
		{"already normalized", []int{1, 2, 3}, []int{1, 2, 3}},
		{"descending input", []int{1000, 100, 10}, []int{10, 100, 1000}},
		{"only non-positive", []int{0, -1, -2}, []int{}},
		{"empty", nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Normalize(tt.bounds))
		})
	}

	t.Run("Does not modify its input", func(t *testing.T) {
		t.Parallel()
		in := []int{3, -1, 3, 2}
		_ = Normalize(in)
		assert.Equal(t, []int{3, -1, 3, 2}, in)
	})
}

// TestNormalize_PropertyBased checks that Normalize output is strictly
// ascending, positive and contains exactly the positive inputs.
func TestNormalize_PropertyBased(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("strictly ascending positive set of the inputs", prop.ForAll(
		func(bounds []int) bool {
			got := Normalize(bounds)
			if !sort.IntsAreSorted(got) {
				return false
			}
			want := map[int]bool{}
			for _, b := range bounds {
				if b > 0 {
					want[b] = true
				}
			}
			if len(got) != len(want) {
				return false
			}
			for i, v := range got {
				if !want[v] || (i > 0 && got[i-1] == v) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(-1000, 1000)),
	))

	properties.TestingRun(t)
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("Rejects an empty bound set", func(t *testing.T) {
		t.Parallel()
		h, err := New(nil)
		assert.Nil(t, h)
		assert.ErrorIs(t, err, ErrNoBounds)
	})

	t.Run("Rejects a set that is empty after normalization", func(t *testing.T) {
		t.Parallel()
		_, err := New([]int{0, -5})
		require.ErrorIs(t, err, ErrNoBounds)

		var configErr apperrors.ConfigError
		assert.True(t, errors.As(err, &configErr), "ErrNoBounds should be a ConfigError")
	})

	t.Run("Builds one sieve per normalized bound", func(t *testing.T) {
		t.Parallel()
		h, err := New([]int{10, 50, 10, 0, -5})
		require.NoError(t, err)
		assert.Equal(t, []int{10, 50}, h.Bounds())
		assert.Equal(t, 2, h.Len())
		assert.Equal(t, "sequential", h.Strategy())
		assert.NotEmpty(t, h.RunID())
	})
}

func TestRun_ProducesAscendingResults(t *testing.T) {
	t.Parallel()
	h, err := New([]int{10, 50, 10, 0, -5}, WithResourceSampling(false))
	require.NoError(t, err)
	require.NoError(t, h.Run())

	results := h.Results()
	require.Len(t, results, 2)
	assert.Equal(t, 10, results[0].UpperBound)
	assert.Equal(t, 50, results[1].UpperBound)
	assert.Equal(t, 4, results[0].Primes)
	assert.Equal(t, 15, results[1].Primes)
	for _, r := range results {
		assert.GreaterOrEqual(t, r.Elapsed, time.Duration(0))
	}
	assert.Equal(t, h.Len(), len(results))
}

func TestRun_SievesNeverOverlap(t *testing.T) {
	t.Parallel()
	rec := &recordingMarker{}
	h, err := New([]int{300, 20, 100, 5000}, WithMarker(rec), WithResourceSampling(false))
	require.NoError(t, err)
	require.NoError(t, h.Run())

	assert.Equal(t, int32(1), rec.maxSeen.Load(), "two sieves ran concurrently")
	assert.Equal(t, []int{20, 100, 300, 5000}, rec.sizes)
}

func TestRun_SecondCallRejected(t *testing.T) {
	t.Parallel()
	h, err := New([]int{30}, WithResourceSampling(false))
	require.NoError(t, err)
	require.NoError(t, h.Run())
	assert.ErrorIs(t, h.Run(), ErrAlreadyRun)
	assert.Len(t, h.Results(), 1)
}

func TestRun_SieveFailureIsFatal(t *testing.T) {
	t.Parallel()
	rec := &recordingMarker{failAt: 100}
	h, err := New([]int{10, 100, 1000}, WithMarker(rec), WithResourceSampling(false))
	require.NoError(t, err)

	runErr := h.Run()
	var sieveErr apperrors.SieveError
	require.True(t, errors.As(runErr, &sieveErr), "expected SieveError, got %v", runErr)
	assert.Equal(t, 100, sieveErr.UpperBound)

	assert.Equal(t, []int{10, 100}, rec.sizes, "sieves after the failure must not run")
	assert.Empty(t, h.Results())
	assert.ErrorIs(t, h.Wait(context.Background()), runErr)
}

func TestResults_BlocksUntilRunCompletes(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	release := make(chan struct{})

	slow := mocks.NewMockMarker(ctrl)
	slow.EXPECT().Name().Return("slow").AnyTimes()
	slow.EXPECT().Mark(gomock.Any()).DoAndReturn(func([]bool) error {
		<-release
		return nil
	}).Times(2)

	h, err := New([]int{64, 128}, WithMarker(slow), WithResourceSampling(false))
	require.NoError(t, err)

	runDone := make(chan error, 1)
	go func() { runDone <- h.Run() }()

	got := make(chan []Result, 1)
	go func() { got <- h.Results() }()

	select {
	case r := <-got:
		t.Fatalf("Results returned %d results before Run completed", len(r))
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case r := <-got:
		assert.Len(t, r, 2)
	case <-time.After(5 * time.Second):
		t.Fatal("Results did not unblock after Run completed")
	}
	require.NoError(t, <-runDone)
}

func TestWait_RespectsContext(t *testing.T) {
	t.Parallel()
	h, err := New([]int{10}, WithResourceSampling(false))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, h.Wait(ctx), context.DeadlineExceeded)

	require.NoError(t, h.Run())
	assert.NoError(t, h.Wait(context.Background()))
	select {
	case <-h.Done():
	default:
		t.Error("Done should be closed after Run")
	}
}

func TestTable(t *testing.T) {
	t.Parallel()
	h, err := New([]int{50, 10}, WithResourceSampling(false))
	require.NoError(t, err)
	require.NoError(t, h.Run())

	table := h.Table()
	assert.Equal(t, []string{"Upper Bound", "Run Time (seconds)"}, table.Header)
	assert.Equal(t, "Ran 2 sieves...", table.Caption)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "10", table.Rows[0][0])
	assert.Equal(t, "50", table.Rows[1][0])
	for _, row := range table.Rows {
		assert.Regexp(t, `^\d+(\.\d+)?$`, row[1])
	}
}

func TestRun_ReportsProgress(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate, 8)
	h, err := New([]int{20, 10}, WithProgress(ch), WithResourceSampling(false))
	require.NoError(t, err)
	require.NoError(t, h.Run())
	close(ch)

	var updates []ProgressUpdate
	for u := range ch {
		updates = append(updates, u)
	}
	require.Len(t, updates, 4)
	assert.Equal(t, ProgressUpdate{Index: 0, Total: 2, UpperBound: 10}, updates[0])
	assert.True(t, updates[1].Done)
	assert.Equal(t, 10, updates[1].UpperBound)
	assert.Equal(t, 20, updates[2].UpperBound)
	assert.False(t, updates[2].Done)
	assert.True(t, updates[3].Done)
}

func TestRun_LogsEachSieve(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	h, err := New([]int{30}, WithLogger(logging.NewLogger(&buf, "harness")))
	require.NoError(t, err)
	require.NoError(t, h.Run())

	out := buf.String()
	assert.Contains(t, out, "starting sieve run")
	assert.Contains(t, out, "sieve finished")
	assert.Contains(t, out, `"upper_bound":30`)
	assert.Contains(t, out, `"primes":10`)
	assert.Contains(t, out, h.RunID())
	assert.Contains(t, out, "heap_bytes")
}

func TestNullProgressReporter_Drains(t *testing.T) {
	t.Parallel()
	ch := make(chan ProgressUpdate)
	var wg sync.WaitGroup
	wg.Add(1)
	go NullProgressReporter{}.DisplayProgress(&wg, ch, 3, nil)

	for i := 0; i < 3; i++ {
		ch <- ProgressUpdate{Index: i, Total: 3}
	}
	close(ch)
	wg.Wait()
}
