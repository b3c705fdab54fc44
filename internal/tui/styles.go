package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sievebench/internal/ui"
)

// Style variables for the dashboard.
// Initialized from the ui theme system via initTUIStyles().
var (
	panelStyle         lipgloss.Style
	panelTitleStyle    lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	accentStyle        lipgloss.Style
	metricLabelStyle   lipgloss.Style
	metricValueStyle   lipgloss.Style
	rowPendingStyle    lipgloss.Style
	rowRunningStyle    lipgloss.Style
	rowDoneStyle       lipgloss.Style
	rowFailedStyle     lipgloss.Style
	footerKeyStyle     lipgloss.Style
	footerDescStyle    lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// color returns c when the current theme has colors, NoColor otherwise.
func color(c string) lipgloss.TerminalColor {
	if !ui.ColorsEnabled() {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(c)
}

// initTUIStyles rebuilds all dashboard styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTheme()
	success, warning, failure := color("82"), color("220"), color("196")

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Cell)

	panelTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Header)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Header).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Header)

	dimStyle = lipgloss.NewStyle().Foreground(t.Caption)
	accentStyle = lipgloss.NewStyle().Foreground(t.Header)

	metricLabelStyle = lipgloss.NewStyle().Foreground(t.Caption)
	metricValueStyle = lipgloss.NewStyle().Foreground(t.Header).Bold(true)

	rowPendingStyle = lipgloss.NewStyle().Foreground(t.Caption)
	rowRunningStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
	rowDoneStyle = lipgloss.NewStyle().Foreground(success)
	rowFailedStyle = lipgloss.NewStyle().Foreground(failure).Bold(true)

	footerKeyStyle = lipgloss.NewStyle().Foreground(t.Header).Bold(true)
	footerDescStyle = lipgloss.NewStyle().Foreground(t.Caption)

	statusRunningStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
	statusDoneStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	statusErrorStyle = lipgloss.NewStyle().Foreground(failure).Bold(true)

	cpuSparklineStyle = lipgloss.NewStyle().Foreground(t.Header)
	memSparklineStyle = lipgloss.NewStyle().Foreground(warning)
}
