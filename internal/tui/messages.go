package tui

import (
	"time"

	"github.com/agbru/sievebench/internal/harness"
)

// SieveProgressMsg carries one harness progress update.
type SieveProgressMsg struct {
	Update harness.ProgressUpdate
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct{}

// RunCompleteMsg is sent when Harness.Run returns.
type RunCompleteMsg struct {
	Err error
}

// TickMsg drives periodic sampling and the elapsed timer.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory sample.
type MemStatsMsg struct {
	HeapAlloc    uint64
	Sys          uint64
	NumGC        uint32
	NumGoroutine int
}

// SysStatsMsg carries a system-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}
