package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterModel renders the key help and the run status.
type FooterModel struct {
	keymap KeyMap
	done   bool
	failed bool
	width  int
}

// NewFooterModel creates a new footer.
func NewFooterModel(keymap KeyMap) FooterModel {
	return FooterModel{keymap: keymap}
}

// SetDone marks the run as finished, successfully or not.
func (f *FooterModel) SetDone(failed bool) {
	f.done = true
	f.failed = failed
}

// SetWidth updates the available width.
func (f *FooterModel) SetWidth(w int) {
	f.width = w
}

// View renders the footer.
func (f FooterModel) View() string {
	parts := make([]string, 0, len(f.keymap.ShortHelp()))
	for _, b := range f.keymap.ShortHelp() {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+footerDescStyle.Render(h.Desc))
	}
	left := " " + strings.Join(parts, "  ")

	var status string
	switch {
	case f.failed:
		status = statusErrorStyle.Render("FAILED")
	case f.done:
		status = statusDoneStyle.Render("DONE")
	default:
		status = statusRunningStyle.Render("RUNNING")
	}

	gap := f.width - lipgloss.Width(left) - lipgloss.Width(status) - 1
	return left + spaces(gap) + status
}
