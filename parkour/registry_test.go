package parkour

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/parkour/internal/hooks"
	"github.com/ayoisaiah/parkour/internal/settings"
	"github.com/ayoisaiah/parkour/internal/testutil"
	"github.com/ayoisaiah/parkour/timer"
)

func TestBeginRejectsSecondRun(t *testing.T) {
	h := newHarness(t, nil)
	h.begin(t)

	_, err := h.reg.Begin(h.course, 0, alice)
	assert.ErrorIs(t, err, ErrSessionActive)

	_, err = h.reg.Begin(h.course, 5, "bob")
	assert.ErrorIs(t, err, ErrStartIndex)
	assert.Equal(t, 1, h.reg.Len())
}

func TestDisconnectEndsRun(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)

	assert.True(t, h.reg.Disconnect(alice))
	assert.False(t, h.reg.Disconnect(alice))
	assert.True(t, s.Snapshot().Closed)

	_, ok := h.reg.Active(alice)
	assert.False(t, ok)

	for _, kind := range settings.Locked {
		assert.False(t, h.settings.IsLocked(alice, kind))
	}

	// a new run may start once the old one is gone
	_, err := h.reg.Begin(h.course, 0, alice)
	assert.NoError(t, err)
}

func TestAbortUnknownParticipant(t *testing.T) {
	h := newHarness(t, nil)

	assert.False(t, h.reg.Abort("nobody"))
}

func TestShutdownAbortsEverything(t *testing.T) {
	h := newHarness(t, nil)
	h.begin(t)

	_, err := h.reg.Begin(h.course, 0, "bob")
	require.NoError(t, err)

	h.reg.Shutdown()

	assert.Equal(t, 0, h.reg.Len())
}

func TestCompletionHookRunsOnFinish(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires sh")
	}

	out := filepath.Join(t.TempDir(), "hook.txt")

	runner, err := hooks.New(
		`sh -c 'echo "$PARKOUR_PARTICIPANT $PARKOUR_TOTAL_MS" > "$0"' `+out,
		5*time.Second,
	)
	require.NoError(t, err)

	sched := &timer.ManualScheduler{}

	reg := NewRegistry(Deps{
		Store:      testutil.NewMemoryStore(),
		Settings:   settings.NewService(nil, nil),
		Sink:       &testutil.RecordingSink{},
		Teleporter: &testutil.RecordingTeleporter{},
		Scheduler:  sched,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, WithCompletionHook(runner))

	_, err = reg.Begin(testCourse(t), 0, alice)
	require.NoError(t, err)

	reg.Dispatch(Sample{Participant: alice, Position: inEnd, OnGround: true})
	reg.Shutdown()

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "alice 0\n", string(b))
}

func TestOnSessionEndedListener(t *testing.T) {
	var results []Result

	reg := NewRegistry(Deps{
		Store:      testutil.NewMemoryStore(),
		Settings:   settings.NewService(nil, nil),
		Sink:       &testutil.RecordingSink{},
		Teleporter: &testutil.RecordingTeleporter{},
		Scheduler:  &timer.ManualScheduler{},
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, OnSessionEnded(func(r Result) {
		results = append(results, r)
	}))

	_, err := reg.Begin(testCourse(t), 0, alice)
	require.NoError(t, err)

	reg.Abort(alice)

	require.Len(t, results, 1)
	assert.Equal(t, OutcomeAborted, results[0].Outcome)
	assert.Equal(t, alice, results[0].Participant)
	assert.Equal(t, "hub", results[0].Course)
}
