package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/sievebench/internal/format"
	"github.com/agbru/sievebench/internal/harness"
)

type rowState int

const (
	rowPending rowState = iota
	rowRunning
	rowDone
	rowFailed
)

type sieveRow struct {
	bound   int
	state   rowState
	elapsed time.Duration
}

// ResultsModel lists every sieve of the run with its state and run time.
type ResultsModel struct {
	rows   []sieveRow
	offset int
	width  int
	height int
}

// NewResultsModel creates one pending row per bound, in run order.
func NewResultsModel(bounds []int) ResultsModel {
	rows := make([]sieveRow, len(bounds))
	for i, b := range bounds {
		rows[i] = sieveRow{bound: b}
	}
	return ResultsModel{rows: rows}
}

// SetSize updates dimensions.
func (r *ResultsModel) SetSize(w, h int) {
	r.width = w
	r.height = h
	r.clampOffset()
}

// Apply records a progress update. Updates for unknown indices are ignored.
func (r *ResultsModel) Apply(u harness.ProgressUpdate) {
	if u.Index < 0 || u.Index >= len(r.rows) {
		return
	}
	row := &r.rows[u.Index]
	if u.Done {
		row.state = rowDone
		row.elapsed = u.Elapsed
		return
	}
	row.state = rowRunning
	r.follow(u.Index)
}

// Fail marks the sieve that was running as failed.
func (r *ResultsModel) Fail() {
	for i := range r.rows {
		if r.rows[i].state == rowRunning {
			r.rows[i].state = rowFailed
		}
	}
}

// Completed returns the number of finished sieves.
func (r ResultsModel) Completed() int {
	n := 0
	for _, row := range r.rows {
		if row.state == rowDone {
			n++
		}
	}
	return n
}

// Scroll moves the visible window by delta rows.
func (r *ResultsModel) Scroll(delta int) {
	r.offset += delta
	r.clampOffset()
}

// visibleRows is the number of rows that fit under the panel title.
func (r ResultsModel) visibleRows() int {
	return max(r.height-3, 1)
}

// follow scrolls so that row i is visible.
func (r *ResultsModel) follow(i int) {
	if i < r.offset {
		r.offset = i
	} else if i >= r.offset+r.visibleRows() {
		r.offset = i - r.visibleRows() + 1
	}
	r.clampOffset()
}

func (r *ResultsModel) clampOffset() {
	r.offset = max(min(r.offset, len(r.rows)-r.visibleRows()), 0)
}

// View renders the results panel.
func (r ResultsModel) View() string {
	var b strings.Builder
	b.WriteString(panelTitleStyle.Render(fmt.Sprintf(" Sieves %d/%d", r.Completed(), len(r.rows))))

	end := min(r.offset+r.visibleRows(), len(r.rows))
	for _, row := range r.rows[r.offset:end] {
		b.WriteString("\n")
		b.WriteString(renderRow(row))
	}

	return panelStyle.
		Width(max(r.width-2, 0)).
		Height(max(r.height-2, 0)).
		Render(b.String())
}

func renderRow(row sieveRow) string {
	bound := fmt.Sprintf(" %14d  ", row.bound)
	switch row.state {
	case rowRunning:
		return bound + rowRunningStyle.Render("sieving...")
	case rowDone:
		return bound + rowDoneStyle.Render(format.FormatSeconds(row.elapsed)+" s")
	case rowFailed:
		return bound + rowFailedStyle.Render("failed")
	default:
		return bound + rowPendingStyle.Render("pending")
	}
}
