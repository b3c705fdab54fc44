package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/sievebench/internal/errors"
	"github.com/agbru/sievebench/internal/harness"
	"github.com/agbru/sievebench/internal/ui"
)

func sampleTable() harness.Table {
	return harness.Table{
		Header:  []string{harness.HeaderUpperBound, harness.HeaderRunTime},
		Rows:    [][]string{{"10", "0.000001"}, {"1000000", "0.012345"}},
		Caption: "Ran 2 sieves...",
	}
}

func withNoColor(t *testing.T) {
	t.Helper()
	saved := ui.GetCurrentTheme()
	ui.SetCurrentTheme(ui.NoColorTheme)
	t.Cleanup(func() { ui.SetCurrentTheme(saved) })
}

func TestTablePresenter_Formats(t *testing.T) {
	withNoColor(t)

	tests := []struct {
		format   string
		contains []string
	}{
		{FormatTable, []string{"Upper Bound", "Run Time (seconds)", "1000000", "0.012345", "Ran 2 sieves..."}},
		{"", []string{"Upper Bound", "Ran 2 sieves..."}},
		{FormatMarkdown, []string{"| Upper Bound", "|---", "0.000001", "Ran 2 sieves..."}},
		{FormatPlain, []string{"Upper Bound   Run Time (seconds)", "1000000", "Ran 2 sieves..."}},
	}

	for _, tt := range tests {
		t.Run("format "+tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, TablePresenter{Format: tt.format}.PresentTable(sampleTable(), &buf))
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestTablePresenter_RowOrderPreserved(t *testing.T) {
	withNoColor(t)
	var buf bytes.Buffer
	require.NoError(t, TablePresenter{Format: FormatPlain}.PresentTable(sampleTable(), &buf))

	out := buf.String()
	assert.Less(t, strings.Index(out, "\n10 "), strings.Index(out, "\n1000000 "))
	assert.True(t, strings.HasSuffix(out, "Ran 2 sieves...\n"))
}

func TestTablePresenter_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := TablePresenter{Format: "xml"}.PresentTable(sampleTable(), &buf)
	assert.Equal(t, apperrors.ExitErrorConfig, apperrors.ExitCode(err))
	assert.Zero(t, buf.Len())
}

func TestPrintRunHeader(t *testing.T) {
	withNoColor(t)
	var buf bytes.Buffer
	PrintRunHeader(&buf, []int{10, 50}, "parallel")
	assert.Equal(t, "Sieving 2 upper bound(s) with the parallel strategy\n", buf.String())
}

func TestCLIColorProvider_FollowsTheme(t *testing.T) {
	withNoColor(t)
	c := CLIColorProvider{}
	assert.Empty(t, c.Red()+c.Yellow()+c.Reset())

	ui.SetCurrentTheme(ui.DarkTheme)
	assert.Equal(t, ui.DarkTheme.Error, c.Red())
}
