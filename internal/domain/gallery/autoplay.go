package gallery

import (
	"sync"
	"time"
)

// DefaultRotateInterval is the autoplay period.
const DefaultRotateInterval = 5 * time.Second

// TickerAutoplay calls the tick function on a fixed period from its own
// goroutine. Stop does not wait for an in-flight tick to return, so it may
// be called while the caller holds a lock the tick also takes.
type TickerAutoplay struct {
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
}

func NewTickerAutoplay(interval time.Duration) *TickerAutoplay {
	if interval <= 0 {
		interval = DefaultRotateInterval
	}
	return &TickerAutoplay{interval: interval}
}

// Start replaces any running schedule with one calling tick.
func (a *TickerAutoplay) Start(tick func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stopLocked()
	stop := make(chan struct{})
	a.stop = stop

	go func() {
		ticker := time.NewTicker(a.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				tick()
			}
		}
	}()
}

// Stop cancels the schedule. Calling it when nothing runs is a no-op.
func (a *TickerAutoplay) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopLocked()
}

// Running reports whether a schedule is active.
func (a *TickerAutoplay) Running() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stop != nil
}

func (a *TickerAutoplay) stopLocked() {
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
}

type observedAutoplay struct {
	inner Autoplay
	after func()
}

// Observe wraps inner so that after runs once each tick has been applied.
func Observe(inner Autoplay, after func()) Autoplay {
	return &observedAutoplay{inner: inner, after: after}
}

func (a *observedAutoplay) Start(tick func()) {
	a.inner.Start(func() {
		tick()
		a.after()
	})
}

func (a *observedAutoplay) Stop() { a.inner.Stop() }
