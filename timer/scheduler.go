package timer

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// Handle cancels a scheduled task. Stop never blocks and may be called more
// than once. A run that is already in progress is allowed to finish.
type Handle interface {
	Stop()
}

// Scheduler runs functions later or periodically on its own goroutines.
type Scheduler interface {
	// Every calls fn after delay and then once per period until stopped.
	Every(delay, period time.Duration, fn func()) Handle
	// After calls fn once after d.
	After(d time.Duration, fn func()) Handle
}

// ClockScheduler is a Scheduler driven by a clock.Clock so that tests and
// simulations can substitute a mock clock.
type ClockScheduler struct {
	clock clock.Clock
}

// NewClockScheduler returns a scheduler on c. A nil clock uses wall time.
func NewClockScheduler(c clock.Clock) *ClockScheduler {
	if c == nil {
		c = clock.New()
	}

	return &ClockScheduler{clock: c}
}

type loopHandle struct {
	done chan struct{}
	once sync.Once
}

func (h *loopHandle) Stop() {
	h.once.Do(func() {
		close(h.done)
	})
}

func (h *loopHandle) stopped() bool {
	select {
	case <-h.done:
		return true
	default:
		return false
	}
}

func (s *ClockScheduler) Every(delay, period time.Duration, fn func()) Handle {
	h := &loopHandle{done: make(chan struct{})}

	go func() {
		if delay > 0 {
			t := s.clock.Timer(delay)

			select {
			case <-h.done:
				t.Stop()
				return
			case <-t.C:
			}
		}

		ticker := s.clock.Ticker(period)
		defer ticker.Stop()

		for {
			if h.stopped() {
				return
			}

			fn()

			select {
			case <-h.done:
				return
			case <-ticker.C:
			}
		}
	}()

	return h
}

type timerHandle struct {
	t *clock.Timer
}

func (h timerHandle) Stop() {
	h.t.Stop()
}

func (s *ClockScheduler) After(d time.Duration, fn func()) Handle {
	return timerHandle{t: s.clock.AfterFunc(d, fn)}
}
