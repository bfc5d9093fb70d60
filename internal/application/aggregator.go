package application

import (
	"sync"
	"time"

	"voiceclock/internal/domain"
)

// PressAggregator collapses a burst of rapid button presses into a single
// click count. Every press restarts a debounce timer; when the timer fires
// with no press having superseded it, the accumulated count is emitted as
// one ClickResolution and the window resets.
//
// The (count, lastPressAt, timer) triple is guarded by one mutex shared by
// the press path and the timer path, so a press racing the firing timer is
// either counted into the resolution being emitted or opens the next
// window. It is never dropped and never double-counted.
type PressAggregator struct {
	debounce time.Duration
	resolve  func(domain.ClickResolution)

	mu          sync.Mutex
	count       int
	lastPressAt time.Time
	timer       *time.Timer
}

// NewPressAggregator creates an aggregator that calls resolve exactly once
// per finalized window. resolve runs on the timer goroutine, outside the
// aggregator's lock, so presses arriving during a slow dispatch accumulate
// into the next window instead of blocking.
func NewPressAggregator(debounce time.Duration, resolve func(domain.ClickResolution)) *PressAggregator {
	return &PressAggregator{
		debounce: debounce,
		resolve:  resolve,
	}
}

// HandlePress records one raw pulse. Safe to call from any goroutine,
// including interrupt-style callbacks.
func (a *PressAggregator) HandlePress(ev domain.PressEvent) {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.count++
	a.lastPressAt = ev.At
	a.timer = time.AfterFunc(a.debounce, a.fire)
	a.mu.Unlock()
}

func (a *PressAggregator) fire() {
	a.mu.Lock()
	n := a.count
	a.count = 0
	a.lastPressAt = time.Time{}
	a.timer = nil
	a.mu.Unlock()

	// n can be zero when a press superseded this timer after it had already
	// started firing; the replacement timer owns the window then.
	if n > 0 {
		a.resolve(domain.ClickResolution{Count: n})
	}
}
