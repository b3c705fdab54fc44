package tui

import (
	"fmt"
	"strings"
)

// sparklineSamples is the CPU and memory history kept for the sparklines.
const sparklineSamples = 32

// MetricsModel displays runtime memory and system load.
type MetricsModel struct {
	heapAlloc    uint64
	sys          uint64
	numGC        uint32
	numGoroutine int
	cpu          *RingBuffer
	mem          *RingBuffer
	width        int
	height       int
}

// NewMetricsModel creates a new metrics panel.
func NewMetricsModel() MetricsModel {
	return MetricsModel{
		cpu: NewRingBuffer(sparklineSamples),
		mem: NewRingBuffer(sparklineSamples),
	}
}

// SetSize updates dimensions.
func (m *MetricsModel) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// UpdateMemStats updates memory statistics.
func (m *MetricsModel) UpdateMemStats(msg MemStatsMsg) {
	m.heapAlloc = msg.HeapAlloc
	m.sys = msg.Sys
	m.numGC = msg.NumGC
	m.numGoroutine = msg.NumGoroutine
}

// UpdateSysStats appends a system load sample.
func (m *MetricsModel) UpdateSysStats(msg SysStatsMsg) {
	m.cpu.Push(msg.CPUPercent)
	m.mem.Push(msg.MemPercent)
}

// View renders the metrics panel.
func (m MetricsModel) View() string {
	lines := []string{
		panelTitleStyle.Render(" Runtime"),
		metricLine("Heap:", formatBytes(m.heapAlloc)+" / "+formatBytes(m.sys)),
		metricLine("GC cycles:", fmt.Sprintf("%d", m.numGC)),
		metricLine("Goroutines:", fmt.Sprintf("%d", m.numGoroutine)),
		metricLine("CPU:", fmt.Sprintf("%5.1f%% ", m.cpu.Last())+cpuSparklineStyle.Render(RenderSparkline(m.cpu.Slice()))),
		metricLine("Memory:", fmt.Sprintf("%5.1f%% ", m.mem.Last())+memSparklineStyle.Render(RenderSparkline(m.mem.Slice()))),
	}

	return panelStyle.
		Width(max(m.width-2, 0)).
		Height(max(m.height-2, 0)).
		Render(strings.Join(lines, "\n"))
}

func metricLine(label, value string) string {
	return " " + metricLabelStyle.Render(fmt.Sprintf("%-12s", label)) + metricValueStyle.Render(value)
}

func formatBytes(b uint64) string {
	switch {
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
