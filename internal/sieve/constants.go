package sieve

const (
	// MinSegmentSize is the smallest marking range the parallel strategy hands
	// to a single goroutine. Smaller batches are marked by fewer goroutines.
	MinSegmentSize = 1 << 15

	// FirstPrime is the smallest index a marker considers as a base.
	FirstPrime = 2
)
