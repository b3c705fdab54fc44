package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/sievebench/internal/format"
)

// HeaderModel renders the top bar: title, version, strategy, elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	strategy  string
	width     int
}

// NewHeaderModel creates a new header.
func NewHeaderModel(version, strategy string) HeaderModel {
	return HeaderModel{
		startTime: time.Now(),
		version:   version,
		strategy:  strategy,
	}
}

// SetDone freezes the elapsed timer at the current time.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the time since start, frozen once SetDone was called.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header.
func (h HeaderModel) View() string {
	titleText := "sievebench"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	pipe := dimStyle.Render(" | ")
	row := titleStyle.Render(titleText) +
		pipe + dimStyle.Render("strategy ") + accentStyle.Render(h.strategy) +
		pipe + accentStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed().Round(time.Millisecond))))
	return headerStyle.Width(h.width).Render(row)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
