// Package parallel holds small concurrency helpers shared by the marking
// strategies.
package parallel

import (
	"fmt"
	"sync"
)

// ErrorCollector records the first non-nil error reported by any number of
// goroutines. The zero value is ready to use.
type ErrorCollector struct {
	mu  sync.Mutex
	err error
}

// SetError records err if it is the first non-nil error seen.
func (c *ErrorCollector) SetError(err error) {
	if err == nil {
		return
	}
	c.mu.Lock()
	if c.err == nil {
		c.err = err
	}
	c.mu.Unlock()
}

// Err returns the first recorded error, or nil.
func (c *ErrorCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// PanicError is produced when a task started with Go panics.
type PanicError struct {
	Value any
}

func (e PanicError) Error() string {
	return fmt.Sprintf("task panicked: %v", e.Value)
}

// Go runs fn in a new goroutine tracked by wg. A panic in fn is recovered
// and reported to ec as a PanicError instead of crashing the process.
func Go(wg *sync.WaitGroup, ec *ErrorCollector, fn func() error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				ec.SetError(PanicError{Value: r})
			}
		}()
		ec.SetError(fn())
	}()
}

// Recover converts a panic raised by fn into a PanicError. It is meant for
// errgroup tasks, which do not recover panics on their own.
func Recover(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = PanicError{Value: r}
		}
	}()
	return fn()
}
