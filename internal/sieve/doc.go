// Package sieve implements the Sieve of Eratosthenes over a boolean candidate
// array, with pluggable strategies for the composite-marking phase.
//
// A Sieve owns one candidate array of length upperBound. Index i holds true
// while i is still believed prime. Indices 0 and 1 are never marked; callers
// extracting primes should use Primes, which skips them.
//
// Three marking strategies are registered in the default factory:
//
//   - "sequential": a plain nested loop.
//   - "spawn": one goroutine per eligible base, each joined before the next
//     base is examined, so at most one marking goroutine is ever in flight.
//   - "parallel": bases are grouped into batches whose eligibility can be
//     decided from earlier batches alone; each batch's marking range is split
//     into disjoint segments marked concurrently.
//
// All strategies produce the same candidate array.
package sieve
