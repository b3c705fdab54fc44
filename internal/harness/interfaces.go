package harness

import (
	"io"
	"sync"
	"time"
)

// Result is the outcome of a single sieve.
type Result struct {
	// UpperBound is the exclusive size of the sieve's candidate space.
	UpperBound int
	// Elapsed is the wall-clock duration of the marking phase.
	Elapsed time.Duration
	// Primes is the number of primes found below UpperBound.
	Primes int
}

// Table is the rendering handoff: a header row, one row per sieve and a
// caption line. Cells are already formatted as strings.
type Table struct {
	Header  []string
	Rows    [][]string
	Caption string
}

// ProgressUpdate is sent when a sieve starts and when it finishes.
type ProgressUpdate struct {
	// Index is the position of the sieve in ascending bound order.
	Index int
	// Total is the number of sieves in the run.
	Total int
	// UpperBound identifies the sieve.
	UpperBound int
	// Done is false when the sieve starts and true once it finished.
	Done bool
	// Elapsed is set on the Done update.
	Elapsed time.Duration
}

// ProgressReporter defines the interface for displaying run progress.
// DisplayProgress is started in its own goroutine, consumes updates until
// the channel is closed and then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSieves int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSieves int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, numSieves int, out io.Writer) {
	f(wg, progressChan, numSieves, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used in quiet mode and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	for range progressChan {
	}
}

// TablePresenter renders a Table. Implemented by the cli package.
type TablePresenter interface {
	PresentTable(t Table, out io.Writer) error
}
