package calibration

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	apperrors "github.com/agbru/sievebench/internal/errors"
	"github.com/agbru/sievebench/internal/sieve"
)

// Candidate is one strategy configuration to time.
type Candidate struct {
	Label  string
	Marker sieve.Marker
}

// Measurement is the best observed run time of a Candidate.
type Measurement struct {
	Label   string
	Elapsed time.Duration
	Primes  int
	Err     error
}

// Candidates lists every strategy of factory once, except "parallel" which
// is expanded into one candidate per worker count.
func Candidates(factory sieve.Factory, workerCounts []int) ([]Candidate, error) {
	var out []Candidate
	for _, name := range factory.List() {
		m, err := factory.Get(name)
		if err != nil {
			return nil, err
		}
		if _, ok := m.(sieve.ParallelMarker); ok {
			for _, w := range workerCounts {
				out = append(out, Candidate{
					Label:  fmt.Sprintf("%s/%d", name, w),
					Marker: sieve.ParallelMarker{Workers: w},
				})
			}
			continue
		}
		out = append(out, Candidate{Label: name, Marker: m})
	}
	return out, nil
}

// Calibrate sieves up to bound with every candidate, repeats times each,
// and keeps the fastest run of each. Every successful candidate must find
// the same number of primes; a disagreement is reported as an error.
//
// Parameters:
//   - ctx: Checked between runs; calibration stops early when it is done.
//   - bound: The probe sieve size.
//   - candidates: The configurations to time.
//   - repeats: Runs per candidate, at least one.
//
// Returns:
//   - []Measurement: One entry per candidate, in candidate order.
//   - error: A context error, a validation error, or a count mismatch.
func Calibrate(ctx context.Context, bound int, candidates []Candidate, repeats int) ([]Measurement, error) {
	if bound <= 0 {
		return nil, apperrors.ValidationError{Field: "bound", Message: fmt.Sprintf("must be positive, got %d", bound)}
	}
	repeats = max(repeats, 1)

	results := make([]Measurement, 0, len(candidates))
	for _, c := range candidates {
		m := Measurement{Label: c.Label}
		for i := range repeats {
			if err := ctx.Err(); err != nil {
				return results, err
			}
			s, err := sieve.New(bound, c.Marker)
			if err != nil {
				return results, err
			}
			if err := s.Run(); err != nil {
				m.Err = err
				break
			}
			elapsed, _ := s.Elapsed()
			if i == 0 || elapsed < m.Elapsed {
				m.Elapsed = elapsed
			}
			m.Primes = s.Count()
		}
		results = append(results, m)
	}

	if err := checkAgreement(results); err != nil {
		return results, err
	}
	return results, nil
}

func checkAgreement(ms []Measurement) error {
	ref := -1
	for _, m := range ms {
		if m.Err != nil {
			continue
		}
		if ref < 0 {
			ref = m.Primes
			continue
		}
		if m.Primes != ref {
			return fmt.Errorf("strategy %s found %d primes, expected %d", m.Label, m.Primes, ref)
		}
	}
	return nil
}

// Best returns the fastest successful measurement.
func Best(ms []Measurement) (Measurement, bool) {
	ok := slices.DeleteFunc(slices.Clone(ms), func(m Measurement) bool { return m.Err != nil })
	if len(ok) == 0 {
		return Measurement{}, false
	}
	return slices.MinFunc(ok, func(a, b Measurement) int { return cmp.Compare(a.Elapsed, b.Elapsed) }), true
}
