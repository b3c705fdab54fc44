package sieve

import (
	"fmt"
	"sort"
	"sync"
)

// Factory resolves marking strategies by name.
type Factory interface {
	// Get returns the marker registered under name.
	Get(name string) (Marker, error)
	// List returns the registered names in sorted order.
	List() []string
}

// DefaultFactory is a concurrency-safe registry of markers.
type DefaultFactory struct {
	mu      sync.RWMutex
	markers map[string]Marker
}

// NewDefaultFactory returns a factory with the sequential, spawn and parallel
// strategies registered. The parallel strategy uses workers goroutines at
// most; zero means one per CPU.
func NewDefaultFactory(workers int) *DefaultFactory {
	f := &DefaultFactory{markers: make(map[string]Marker)}
	f.Register(SequentialMarker{})
	f.Register(SpawnJoinMarker{})
	f.Register(ParallelMarker{Workers: workers})
	return f
}

// Register adds or replaces a marker under its own name.
func (f *DefaultFactory) Register(m Marker) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markers[m.Name()] = m
}

// Get returns the marker registered under name.
func (f *DefaultFactory) Get(name string) (Marker, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	m, ok := f.markers[name]
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", name)
	}
	return m, nil
}

// List returns the registered strategy names in sorted order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.markers))
	for name := range f.markers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
