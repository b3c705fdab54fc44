// Package harness runs one sieve per requested upper bound, strictly one
// after another, and aggregates their timings into a table for rendering.
// Presentation is left to the caller through the Table handoff and the
// ProgressReporter interface.
package harness
