package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/sievebench/internal/format"
	"github.com/agbru/sievebench/internal/harness"
)

// ProgressRefreshRate defines the spinner refresh frequency.
const ProgressRefreshRate = 100 * time.Millisecond

// Spinner abstracts the terminal spinner so the progress display can be
// tested without a terminal.
type Spinner interface {
	Start()
	Stop()
	UpdateSuffix(suffix string)
}

// realSpinner adapts *spinner.Spinner to the Spinner interface.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Lock(); rs.s.Suffix = suffix; rs.s.Unlock() }

var newSpinner = func(out io.Writer) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, spinner.WithWriter(out))
	return &realSpinner{s}
}

// SpinnerReporter implements harness.ProgressReporter with a terminal
// spinner whose suffix follows the current sieve.
type SpinnerReporter struct{}

var _ harness.ProgressReporter = SpinnerReporter{}

// DisplayProgress runs the spinner until progressChan is closed.
func (SpinnerReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan harness.ProgressUpdate, numSieves int, out io.Writer) {
	defer wg.Done()
	s := newSpinner(out)
	s.UpdateSuffix(fmt.Sprintf(" Preparing %d sieve(s)...", numSieves))
	s.Start()
	defer s.Stop()

	for update := range progressChan {
		s.UpdateSuffix(FormatProgress(update))
	}
}

// FormatProgress returns the spinner suffix for a progress update.
func FormatProgress(u harness.ProgressUpdate) string {
	if u.Done {
		return fmt.Sprintf(" [%d/%d] upper bound %d done in %s", u.Index+1, u.Total, u.UpperBound, format.FormatExecutionDuration(u.Elapsed))
	}
	return fmt.Sprintf(" [%d/%d] sieving up to %d...", u.Index+1, u.Total, u.UpperBound)
}
