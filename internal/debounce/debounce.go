// Package debounce settles a stream of rapidly changing values into the
// last value seen after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer delivers the most recent pushed value once no further value has
// been pushed for the quiet period. It has a single subscriber.
type Debouncer[T any] struct {
	quiet time.Duration
	out   chan T

	mu      sync.Mutex
	timer   *time.Timer
	gen     uint64
	stopped bool
}

func New[T any](quiet time.Duration) *Debouncer[T] {
	return &Debouncer[T]{
		quiet: quiet,
		out:   make(chan T, 1),
	}
}

// Push restarts the quiet period with v as the pending value. Any value
// pending from an earlier Push is discarded.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.quiet, func() {
		d.settle(gen, v)
	})
}

// settle publishes v unless a newer Push or Stop happened after the timer
// for gen was armed. A timer that already fired when Stop was called lands
// here with a stale generation.
func (d *Debouncer[T]) settle(gen uint64, v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped || gen != d.gen {
		return
	}
	d.timer = nil

	// Replace an undelivered older value.
	select {
	case <-d.out:
	default:
	}
	d.out <- v
}

// C returns the settled-value channel. It holds at most one value.
func (d *Debouncer[T]) C() <-chan T {
	return d.out
}

// Pending reports whether a quiet period is running.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels the pending timer. Later pushes are ignored.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
