package sieve

import (
	"fmt"
	"sync"
	"time"

	apperrors "github.com/agbru/sievebench/internal/errors"
)

// Sieve holds the candidate array for a single upper bound.
//
// A Sieve is written only by its own Run call; once Run returns the sieve is
// read-only and safe for concurrent readers.
type Sieve struct {
	upperBound int
	candidates []bool
	marker     Marker

	mu      sync.RWMutex
	elapsed time.Duration
	ran     bool
}

// New creates a Sieve whose candidate array covers indices 0..upperBound-1,
// all initialized to true. A nil marker selects the sequential strategy.
//
// Parameters:
//   - upperBound: The exclusive size of the candidate space. Must be > 0.
//   - marker: The composite-marking strategy.
//
// Returns:
//   - *Sieve: The new sieve.
//   - error: An apperrors.ValidationError if upperBound <= 0.
func New(upperBound int, marker Marker) (*Sieve, error) {
	if upperBound <= 0 {
		return nil, apperrors.ValidationError{
			Field:   "upperBound",
			Message: fmt.Sprintf("must be positive, got %d", upperBound),
		}
	}
	if marker == nil {
		marker = SequentialMarker{}
	}
	candidates := make([]bool, upperBound)
	for i := range candidates {
		candidates[i] = true
	}
	return &Sieve{upperBound: upperBound, candidates: candidates, marker: marker}, nil
}

// Run marks every composite index and records the elapsed wall-clock time.
// The only failure is a marking task that could not complete; the returned
// error is an apperrors.SieveError and the elapsed time stays unset.
func (s *Sieve) Run() error {
	start := time.Now()
	if err := s.marker.Mark(s.candidates); err != nil {
		return apperrors.SieveError{UpperBound: s.upperBound, Cause: err}
	}
	elapsed := time.Since(start)

	s.mu.Lock()
	s.elapsed = elapsed
	s.ran = true
	s.mu.Unlock()
	return nil
}

// UpperBound returns the exclusive size of the candidate space.
func (s *Sieve) UpperBound() int { return s.upperBound }

// Strategy returns the name of the marker used by this sieve.
func (s *Sieve) Strategy() string { return s.marker.Name() }

// Elapsed returns the duration of the completed Run. The boolean is false
// until Run has completed successfully.
func (s *Sieve) Elapsed() (time.Duration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed, s.ran
}

// IsCandidate reports the raw flag at index i. Out-of-range indices report
// false. Indices 0 and 1 report true, as they are never marked.
func (s *Sieve) IsCandidate(i int) bool {
	if i < 0 || i >= len(s.candidates) {
		return false
	}
	return s.candidates[i]
}

// Candidates returns a copy of the raw candidate array.
func (s *Sieve) Candidates() []bool {
	out := make([]bool, len(s.candidates))
	copy(out, s.candidates)
	return out
}

// Primes extracts the primes below the upper bound. Indices 0 and 1 are
// excluded even though their raw flags are true.
func (s *Sieve) Primes() []int {
	var primes []int
	for i := FirstPrime; i < len(s.candidates); i++ {
		if s.candidates[i] {
			primes = append(primes, i)
		}
	}
	return primes
}

// Count returns the number of primes below the upper bound.
func (s *Sieve) Count() int {
	n := 0
	for i := FirstPrime; i < len(s.candidates); i++ {
		if s.candidates[i] {
			n++
		}
	}
	return n
}

// markMultiples clears base*base, base*base+base, ... below len(candidates).
func markMultiples(candidates []bool, base int) {
	for m := base * base; m < len(candidates); m += base {
		candidates[m] = false
	}
}

// markMultiplesInRange clears the multiples of base that are >= base*base and
// fall inside [lo, hi).
func markMultiplesInRange(candidates []bool, base, lo, hi int) {
	start := base * base
	if start < lo {
		start = lo + (base-lo%base)%base
	}
	for m := start; m < hi; m += base {
		candidates[m] = false
	}
}

// forEachBase calls fn for every base in 2..floor(sqrt(n)) inclusive.
func forEachBase(n int, fn func(base int)) {
	for base := FirstPrime; base*base <= n; base++ {
		fn(base)
	}
}
