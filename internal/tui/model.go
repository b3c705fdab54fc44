package tui

import (
	"context"
	"errors"
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/sievebench/internal/harness"
	"github.com/agbru/sievebench/internal/metrics"
	"github.com/agbru/sievebench/internal/sysmon"
)

// ErrAborted is returned by Run when the dashboard is closed before the
// harness finished.
var ErrAborted = errors.New("dashboard closed before the run completed")

// Layout constants for the dashboard.
const (
	headerHeight             = 1
	footerHeight             = 1
	minBodyHeight            = 6
	ResultsPanelWidthPercent = 55
	tickInterval             = 500 * time.Millisecond
)

// Model is the root bubbletea model for the dashboard.
type Model struct {
	header  HeaderModel
	results ResultsModel
	metrics MetricsModel
	footer  FooterModel
	keymap  KeyMap

	harness  *harness.Harness
	progress chan harness.ProgressUpdate
	memory   *metrics.MemoryCollector

	width  int
	height int
	done   bool
	runErr error
}

// NewModel creates a dashboard for h. progress must be the channel h
// reports to; it is closed once h.Run returns.
func NewModel(h *harness.Harness, progress chan harness.ProgressUpdate, version string) Model {
	keymap := DefaultKeyMap()
	return Model{
		header:   NewHeaderModel(version, h.Strategy()),
		results:  NewResultsModel(h.Bounds()),
		metrics:  NewMetricsModel(),
		footer:   NewFooterModel(keymap),
		keymap:   keymap,
		harness:  h,
		progress: progress,
		memory:   metrics.NewMemoryCollector(),
	}
}

// Init starts the harness and the sampling ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.harness, m.progress),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case SieveProgressMsg:
		m.results.Apply(msg.Update)
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case RunCompleteMsg:
		m.done = true
		m.runErr = msg.Err
		if msg.Err != nil {
			m.results.Fail()
		}
		m.header.SetDone()
		m.footer.SetDone(msg.Err != nil)
		return m, nil

	case TickMsg:
		cmds := []tea.Cmd{sampleMemStatsCmd(m.memory), sampleSysStatsCmd()}
		if !m.done {
			cmds = append(cmds, tickCmd())
		}
		return m, tea.Batch(cmds...)

	case MemStatsMsg:
		m.metrics.UpdateMemStats(msg)
		return m, nil

	case SysStatsMsg:
		m.metrics.UpdateSysStats(msg)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.Up):
		m.results.Scroll(-1)
	case key.Matches(msg, m.keymap.Down):
		m.results.Scroll(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.results.Scroll(-m.results.visibleRows())
	case key.Matches(msg, m.keymap.PageDown):
		m.results.Scroll(m.results.visibleRows())
	}
	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.results.View(), m.metrics.View())
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

func (m *Model) layoutPanels() {
	body := max(m.height-headerHeight-footerHeight, minBodyHeight)
	resultsWidth := m.width * ResultsPanelWidthPercent / 100

	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.results.SetSize(resultsWidth, body)
	m.metrics.SetSize(m.width-resultsWidth, body)
}

// Run shows the dashboard while h runs and returns once the user quits.
// The returned error is the run's error, ErrAborted if the user quit before
// the run finished, or a bubbletea error.
func Run(ctx context.Context, h *harness.Harness, progress chan harness.ProgressUpdate, version string) error {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	ref := &programRef{}
	model := NewModel(h, progress, version)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	ref.SetProgram(p)

	var wg sync.WaitGroup
	wg.Add(1)
	reporter := &TUIProgressReporter{ref: ref}
	go reporter.DisplayProgress(&wg, progress, h.Len(), io.Discard)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}
	m, ok := finalModel.(Model)
	if !ok || !m.done {
		return ErrAborted
	}
	wg.Wait()
	return m.runErr
}

// startRunCmd returns a tea.Cmd that runs the harness and closes progress.
func startRunCmd(h *harness.Harness, progress chan harness.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		err := h.Run()
		close(progress)
		return RunCompleteMsg{Err: err}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleMemStatsCmd reads runtime memory stats and returns a MemStatsMsg.
func sampleMemStatsCmd(mc *metrics.MemoryCollector) tea.Cmd {
	return func() tea.Msg {
		snap := mc.Snapshot()
		return MemStatsMsg{
			HeapAlloc:    snap.HeapAlloc,
			Sys:          snap.Sys,
			NumGC:        snap.NumGC,
			NumGoroutine: runtime.NumGoroutine(),
		}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}
