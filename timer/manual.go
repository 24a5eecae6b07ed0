package timer

import (
	"sync"
	"time"
)

// ManualScheduler is a Scheduler whose time only moves when Advance is
// called. Due tasks run on the goroutine calling Advance.
type ManualScheduler struct {
	tasks []*manualTask
	now   time.Duration
	mu    sync.Mutex
}

type manualTask struct {
	s       *ManualScheduler
	fn      func()
	next    time.Duration
	period  time.Duration
	stopped bool
}

func (t *manualTask) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	t.stopped = true
}

var _ Scheduler = (*ManualScheduler)(nil)

func (s *ManualScheduler) schedule(delay, period time.Duration, fn func()) *manualTask {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &manualTask{s: s, fn: fn, next: s.now + delay, period: period}
	s.tasks = append(s.tasks, t)

	return t
}

func (s *ManualScheduler) Every(delay, period time.Duration, fn func()) Handle {
	return s.schedule(delay, period, fn)
}

func (s *ManualScheduler) After(d time.Duration, fn func()) Handle {
	return s.schedule(d, 0, fn)
}

// Advance moves time forward by d, running every task that falls due in
// order. Advance(0) runs the tasks that are due now.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d

	for {
		var due *manualTask

		for _, t := range s.tasks {
			if t.stopped || t.next > target {
				continue
			}

			if due == nil || t.next < due.next {
				due = t
			}
		}

		if due == nil {
			break
		}

		s.now = due.next

		if due.period > 0 {
			due.next += due.period
		} else {
			due.stopped = true
		}

		s.mu.Unlock()
		due.fn()
		s.mu.Lock()
	}

	s.now = target
	s.mu.Unlock()
}

// Pending returns the number of tasks that have not been stopped.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int

	for _, t := range s.tasks {
		if !t.stopped {
			n++
		}
	}

	return n
}
