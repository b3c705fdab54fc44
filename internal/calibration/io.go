package calibration

import (
	"fmt"
	"io"

	"github.com/agbru/sievebench/internal/cli"
	"github.com/agbru/sievebench/internal/format"
	"github.com/agbru/sievebench/internal/harness"
	"github.com/agbru/sievebench/internal/ui"
)

// Column labels of the calibration table.
const (
	HeaderStrategy = "Strategy"
	HeaderBestRun  = "Best Run (seconds)"
)

// ResultsTable builds the calibration summary in the same shape as a run's
// table so the regular presenter can render it.
func ResultsTable(bound int, ms []Measurement) harness.Table {
	t := harness.Table{Header: []string{HeaderStrategy, HeaderBestRun}}
	for _, m := range ms {
		cell := format.FormatSeconds(m.Elapsed)
		if m.Err != nil {
			cell = "N/A"
		}
		t.Rows = append(t.Rows, []string{m.Label, cell})
	}
	t.Caption = fmt.Sprintf("Calibrated %d strategies on upper bound %d.", len(ms), bound)
	return t
}

// PrintResults renders the calibration table and the recommendation line.
func PrintResults(out io.Writer, bound int, ms []Measurement, presenter cli.TablePresenter) error {
	if err := presenter.PresentTable(ResultsTable(bound, ms), out); err != nil {
		return err
	}
	best, ok := Best(ms)
	if !ok {
		fmt.Fprintf(out, "%sNo strategy completed.%s\n", ui.ColorRed(), ui.ColorReset())
		return nil
	}
	fmt.Fprintf(out, "%sRecommended%s: %s%s%s (%s)\n",
		ui.ColorGreen(), ui.ColorReset(),
		ui.ColorYellow(), best.Label, ui.ColorReset(),
		format.FormatExecutionDuration(best.Elapsed))
	return nil
}
