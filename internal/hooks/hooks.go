// Package hooks runs the user-configured command after a participant
// finishes a course.
package hooks

import (
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"

	"github.com/ayoisaiah/parkour/internal/apperr"
	"github.com/ayoisaiah/parkour/internal/timeutil"
)

var (
	errParseCmd = &apperr.Error{
		Message: "unable to parse completion command",
	}

	errRunCmd = &apperr.Error{
		Message: "completion command failed",
	}
)

// Completion describes a finished run.
type Completion struct {
	Participant string
	Course      string
	Levels      []time.Duration
}

// Total is the sum of all level times.
func (c Completion) Total() time.Duration {
	var total time.Duration
	for _, d := range c.Levels {
		total += d
	}

	return total
}

// Runner executes a command line for every completion.
type Runner struct {
	args    []string
	timeout time.Duration
}

// New parses cmd. An empty cmd yields a Runner that does nothing.
func New(cmd string, timeout time.Duration) (*Runner, error) {
	args, err := shellquote.Split(cmd)
	if err != nil {
		return nil, errParseCmd.Wrap(err)
	}

	return &Runner{args: args, timeout: timeout}, nil
}

// Enabled reports whether a command is configured.
func (r *Runner) Enabled() bool {
	return r != nil && len(r.args) > 0
}

// Run executes the command with the completion in its environment:
// PARKOUR_PARTICIPANT, PARKOUR_COURSE, PARKOUR_TOTAL_MS and PARKOUR_LEVELS_MS
// (comma separated).
func (r *Runner) Run(ctx context.Context, c Completion) error {
	if !r.Enabled() {
		return nil
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	levels := make([]string, len(c.Levels))
	for i, d := range c.Levels {
		levels[i] = strconv.FormatInt(timeutil.Millis(d), 10)
	}

	cmd := exec.CommandContext(ctx, r.args[0], r.args[1:]...)
	cmd.Env = append(os.Environ(),
		"PARKOUR_PARTICIPANT="+c.Participant,
		"PARKOUR_COURSE="+c.Course,
		"PARKOUR_TOTAL_MS="+strconv.FormatInt(timeutil.Millis(c.Total()), 10),
		"PARKOUR_LEVELS_MS="+strings.Join(levels, ","),
	)

	if err := cmd.Run(); err != nil {
		return errRunCmd.Wrap(err)
	}

	return nil
}
