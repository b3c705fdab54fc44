package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	apperrors "github.com/agbru/sievebench/internal/errors"
	"github.com/agbru/sievebench/internal/harness"
	"github.com/agbru/sievebench/internal/ui"
)

// Output formats accepted by TablePresenter.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatMarkdown, FormatPlain}

// TablePresenter renders a harness.Table followed by its caption.
type TablePresenter struct {
	// Format is one of FormatTable, FormatMarkdown or FormatPlain.
	Format string
}

// Verify interface compliance.
var _ harness.TablePresenter = TablePresenter{}

// PresentTable writes t to out in the configured format.
func (p TablePresenter) PresentTable(t harness.Table, out io.Writer) error {
	switch p.Format {
	case FormatPlain:
		return presentPlain(t, out)
	case FormatMarkdown:
		_, err := fmt.Fprintf(out, "%s\n\n%s\n", renderTable(t, lipgloss.MarkdownBorder(), true), t.Caption)
		return err
	case FormatTable, "":
		theme := ui.GetCurrentTheme()
		caption := lipgloss.NewStyle().Foreground(theme.Caption).Italic(ui.ColorsEnabled()).Render(t.Caption)
		_, err := fmt.Fprintf(out, "%s\n%s\n", renderTable(t, lipgloss.RoundedBorder(), false), caption)
		return err
	default:
		return apperrors.NewConfigError("unsupported output format %q", p.Format)
	}
}

// renderTable lays t out with lipgloss. Numeric cells are right-aligned.
func renderTable(t harness.Table, border lipgloss.Border, markdown bool) string {
	theme := ui.GetCurrentTheme()
	headerStyle := lipgloss.NewStyle().Padding(0, 1).Bold(ui.ColorsEnabled()).Foreground(theme.Header)
	cellStyle := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.Cell).Align(lipgloss.Right)

	tbl := table.New().
		Border(border).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(t.Header...).
		Rows(t.Rows...)
	if markdown {
		tbl = tbl.BorderTop(false).BorderBottom(false)
	}
	return tbl.Render()
}

// presentPlain writes tab-aligned columns without borders or colors, suited
// to scripts.
func presentPlain(t harness.Table, out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	writeRow := func(cells []string) {
		for i, c := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	writeRow(t.Header)
	for _, row := range t.Rows {
		writeRow(row)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(out, t.Caption)
	return err
}

// CLIColorProvider implements apperrors.ColorProvider using the active theme.
type CLIColorProvider struct{}

var _ apperrors.ColorProvider = CLIColorProvider{}

func (CLIColorProvider) Red() string    { return ui.ColorRed() }
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }
func (CLIColorProvider) Reset() string  { return ui.ColorReset() }

// PrintRunHeader prints the one-line summary shown before a run starts.
func PrintRunHeader(out io.Writer, bounds []int, strategy string) {
	fmt.Fprintf(out, "%sSieving%s %d upper bound(s) with the %s%s%s strategy\n",
		ui.ColorBold(), ui.ColorReset(), len(bounds), ui.ColorBlue(), strategy, ui.ColorReset())
}
