//go:generate mockgen -source=marker.go -destination=mocks/mock_marker.go -package=mocks

package sieve

import (
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/sievebench/internal/parallel"
)

// Marker is the composite-marking phase of the sieve. Implementations clear
// candidates[m] for every composite m < len(candidates) and must leave
// indices 0 and 1 untouched.
type Marker interface {
	// Name returns the registry key of the strategy.
	Name() string
	// Mark clears every composite index of candidates in place.
	Mark(candidates []bool) error
}

// SequentialMarker marks composites with a plain nested loop.
type SequentialMarker struct{}

// Name returns "sequential".
func (SequentialMarker) Name() string { return "sequential" }

// Mark runs the classic sieve loop.
func (SequentialMarker) Mark(candidates []bool) error {
	forEachBase(len(candidates), func(base int) {
		if candidates[base] {
			markMultiples(candidates, base)
		}
	})
	return nil
}

// SpawnJoinMarker launches one goroutine per eligible base and waits for it
// before examining the next base. The goroutine hand-off costs time but no
// two marking tasks ever overlap, so the eligibility read of each base always
// happens after all smaller bases finished marking.
type SpawnJoinMarker struct{}

// Name returns "spawn".
func (SpawnJoinMarker) Name() string { return "spawn" }

// Mark runs the spawn-then-join loop. A panicking task aborts the loop and
// is returned as a parallel.PanicError.
func (SpawnJoinMarker) Mark(candidates []bool) error {
	var ec parallel.ErrorCollector
	for base := FirstPrime; base*base <= len(candidates); base++ {
		if !candidates[base] {
			continue
		}
		var wg sync.WaitGroup
		b := base
		parallel.Go(&wg, &ec, func() error {
			markMultiples(candidates, b)
			return nil
		})
		wg.Wait()
		if err := ec.Err(); err != nil {
			return err
		}
	}
	return nil
}

// ParallelMarker marks composites concurrently.
//
// Bases are grouped into batches [lo, min(L, lo*lo-1)] with L = floor(sqrt(n)).
// Every composite inside a batch has a factor below lo, so once the previous
// batches are joined the eligibility of each base in the batch is final. The
// batch's marking range [lo*lo, n) is then split into contiguous segments,
// one goroutine per segment, each clearing the multiples of every eligible
// base inside its own segment only. Goroutines never write the same index.
type ParallelMarker struct {
	// Workers caps the number of segments marked at once. Zero means
	// runtime.NumCPU().
	Workers int
}

// Name returns "parallel".
func (ParallelMarker) Name() string { return "parallel" }

// Mark runs the batched parallel sieve.
func (p ParallelMarker) Mark(candidates []bool) error {
	n := len(candidates)
	workers := p.workers()

	limit := isqrt(n)
	for lo := FirstPrime; lo <= limit; {
		hi := min(limit, lo*lo-1)

		var bases []int
		for b := lo; b <= hi; b++ {
			if candidates[b] {
				bases = append(bases, b)
			}
		}
		if len(bases) > 0 {
			if err := markSegments(candidates, bases, lo*lo, n, workers); err != nil {
				return err
			}
		}
		lo = hi + 1
	}
	return nil
}

func (p ParallelMarker) workers() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.NumCPU()
}

// markSegments clears the multiples of bases inside [from, to), splitting the
// range into at most workers disjoint segments.
func markSegments(candidates []bool, bases []int, from, to, workers int) error {
	span := to - from
	if span <= 0 {
		return nil
	}
	segments := min(workers, (span+MinSegmentSize-1)/MinSegmentSize)
	if segments < 1 {
		segments = 1
	}
	size := (span + segments - 1) / segments

	var g errgroup.Group
	g.SetLimit(workers)
	for lo := from; lo < to; lo += size {
		segLo, segHi := lo, min(lo+size, to)
		g.Go(func() error {
			return parallel.Recover(func() error {
				for _, b := range bases {
					markMultiplesInRange(candidates, b, segLo, segHi)
				}
				return nil
			})
		})
	}
	return g.Wait()
}

// isqrt returns floor(sqrt(n)) for n >= 0.
func isqrt(n int) int {
	r := int(math.Sqrt(float64(n)))
	for r*r > n {
		r--
	}
	for (r+1)*(r+1) <= n {
		r++
	}
	return r
}
