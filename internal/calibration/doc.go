// Package calibration times every marking strategy on a probe bound and
// recommends the fastest one for this machine.
package calibration
