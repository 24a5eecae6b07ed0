// Package timer implements the per-level challenge countdown and the
// schedulers that drive it.
package timer

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayoisaiah/parkour/internal/presentation"
)

// WidgetPriority is the progress widget slot used by the countdown.
const WidgetPriority = 3

// UrgentThreshold is the remaining time at which the widget turns urgent.
const UrgentThreshold = 5

// State is the lifecycle state of a Countdown.
type State int

const (
	Idle State = iota
	Running
	Expired
	Cancelled
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Expired:
		return "expired"
	case Cancelled:
		return "cancelled"
	}

	return fmt.Sprintf("State(%d)", int(s))
}

// Options configures a Countdown.
type Options struct {
	Sink      presentation.Sink
	Scheduler Scheduler
	// Within is cleared when the countdown expires. It is owned by the
	// session; the countdown only ever writes false to it.
	Within *atomic.Bool
	// OnExpire, if set, is called once after the countdown expires. It runs on
	// the scheduler goroutine and must not block.
	OnExpire    func()
	Participant string
	Level       int
	Target      time.Duration
}

// Countdown ticks once per second for a single attempt at a level. It never
// touches session state other than the Within flag, so it is safe to cancel
// from a goroutine that holds the session lock.
type Countdown struct {
	opts    Options
	handle  Handle
	label   string
	target  int
	elapsed int
	state   State
	mu      sync.Mutex
}

// New returns an idle countdown.
func New(opts Options) *Countdown {
	if opts.Within == nil {
		opts.Within = &atomic.Bool{}
		opts.Within.Store(true)
	}

	return &Countdown{
		opts:   opts,
		target: int(math.Ceil(opts.Target.Seconds())),
		label:  fmt.Sprintf("Challenge Time: Level %d", opts.Level),
	}
}

// Schedule starts ticking. The first tick runs immediately.
func (c *Countdown) Schedule() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Idle {
		return errNotIdle.Fmt(c.state)
	}

	if c.opts.Scheduler == nil {
		return errNoScheduler
	}

	c.clearWidget()

	c.state = Running
	c.handle = c.opts.Scheduler.Every(0, time.Second, c.tick)

	return nil
}

func (c *Countdown) tick() {
	c.mu.Lock()

	if c.state != Running {
		c.mu.Unlock()
		return
	}

	remaining := c.target - c.elapsed

	if remaining <= 0 {
		c.opts.Within.Store(false)
		c.state = Expired
		c.stopHandle()
		c.clearWidget()
		c.mu.Unlock()

		if c.opts.OnExpire != nil {
			c.opts.OnExpire()
		}

		return
	}

	if c.opts.Sink != nil {
		c.opts.Sink.SetProgressWidget(
			c.opts.Participant,
			WidgetPriority,
			presentation.Progress{
				Label:    c.label,
				Fraction: float64(remaining) / float64(c.target),
				Urgent:   remaining <= UrgentThreshold,
			},
		)
	}

	c.elapsed++
	c.mu.Unlock()
}

// Cancel stops the countdown. It is idempotent and always clears the widget.
// An expired countdown stays expired.
func (c *Countdown) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Idle || c.state == Running {
		c.state = Cancelled
	}

	c.stopHandle()
	c.clearWidget()
}

// State returns the current state.
func (c *Countdown) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Countdown) stopHandle() {
	if c.handle != nil {
		c.handle.Stop()
		c.handle = nil
	}
}

func (c *Countdown) clearWidget() {
	if c.opts.Sink != nil {
		c.opts.Sink.ClearProgressWidget(c.opts.Participant, WidgetPriority)
	}
}
