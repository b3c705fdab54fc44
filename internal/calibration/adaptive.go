// This file implements adaptive worker-count generation based on hardware characteristics.

package calibration

import "runtime"

// DefaultProbeBound is the sieve size used when no upper bound is given.
const DefaultProbeBound = 10_000_000

// GenerateWorkerCounts returns the goroutine limits to try for the parallel
// strategy, based on the number of available CPU cores.
//
// The rationale:
// - Single-core: Only one worker; the parallel strategy degenerates to sequential
// - 2-8 cores: Powers of two up to the core count
// - 16+ cores: Stop at 16, segment counts rarely exceed that for practical bounds
func GenerateWorkerCounts() []int {
	return workerCountsFor(runtime.NumCPU())
}

func workerCountsFor(numCPU int) []int {
	counts := []int{1}
	for w := 2; w <= min(numCPU, 16); w *= 2 {
		counts = append(counts, w)
	}
	return counts
}
