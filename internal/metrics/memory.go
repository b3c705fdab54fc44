// Package metrics reads runtime memory statistics for the per-sieve debug
// logs and the dashboard, and keeps the Prometheus metrics of a run.
package metrics

import "runtime"

// MemorySnapshot holds a point-in-time memory reading.
type MemorySnapshot struct {
	HeapAlloc  uint64 // bytes in use by the application
	TotalAlloc uint64 // cumulative bytes allocated
	Sys        uint64 // total bytes obtained from the OS
	NumGC      uint32 // completed GC cycles
}

// MemoryCollector reads runtime memory statistics.
type MemoryCollector struct{}

// NewMemoryCollector creates a new memory collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{}
}

// Snapshot reads current memory statistics.
func (mc *MemoryCollector) Snapshot() MemorySnapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return MemorySnapshot{
		HeapAlloc:  m.HeapAlloc,
		TotalAlloc: m.TotalAlloc,
		Sys:        m.Sys,
		NumGC:      m.NumGC,
	}
}

// AllocatedSince returns the bytes allocated between before and s.
func (s MemorySnapshot) AllocatedSince(before MemorySnapshot) uint64 {
	if s.TotalAlloc < before.TotalAlloc {
		return 0
	}
	return s.TotalAlloc - before.TotalAlloc
}

// CandidateArrayBytes is the size of a sieve's candidate array: one byte per
// index.
func CandidateArrayBytes(upperBound int) uint64 {
	if upperBound <= 0 {
		return 0
	}
	return uint64(upperBound)
}
