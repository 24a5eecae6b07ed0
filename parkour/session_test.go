package parkour

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/parkour/internal/course"
	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/presentation"
	"github.com/ayoisaiah/parkour/internal/settings"
	"github.com/ayoisaiah/parkour/internal/testutil"
	"github.com/ayoisaiah/parkour/timer"
)

const alice = "alice"

var (
	spawn = mgl64.Vec3{0, 70, -10}

	inCourseStart = mgl64.Vec3{2, 64, 1}
	inLevel1Start = mgl64.Vec3{2, 64, 4}
	onLevel1      = mgl64.Vec3{2, 64, 6}
	overLevel1    = mgl64.Vec3{2, 66, 10}
	landLevel1    = mgl64.Vec3{2, 64, 12.5}
	inLevel2Start = mgl64.Vec3{2, 64, 21}
	onLevel2      = mgl64.Vec3{2, 64, 23}
	overLevel2    = mgl64.Vec3{2, 66, 30}
	inEnd         = mgl64.Vec3{2, 64, 41}
)

func box(x1, y1, z1, x2, y2, z2 float64) geom.Box {
	return geom.NewBox(mgl64.Vec3{x1, y1, z1}, mgl64.Vec3{x2, y2, z2})
}

func testCourse(t *testing.T) *course.Course {
	t.Helper()

	c, err := course.New(
		"hub",
		box(0, 64, 0, 4, 67, 2),
		box(0, 64, 40, 4, 67, 42),
		[]course.Level{
			{
				Start:      box(0, 64, 3, 4, 67, 5),
				Checkpoint: inLevel1Start,
				Target:     10 * time.Second,
			},
			{
				Start:      box(0, 64, 20, 4, 67, 22),
				Checkpoint: inLevel2Start,
				Target:     15 * time.Second,
			},
		},
	)
	require.NoError(t, err)

	return c
}

type harness struct {
	clock    *clock.Mock
	sched    *timer.ManualScheduler
	sink     *testutil.RecordingSink
	store    *testutil.MemoryStore
	tele     *testutil.RecordingTeleporter
	settings *settings.Service
	reg      *Registry
	course   *course.Course
}

func newHarness(t *testing.T, policy settings.Policy) *harness {
	t.Helper()

	h := &harness{
		clock: clock.NewMock(),
		sched: &timer.ManualScheduler{},
		sink:  &testutil.RecordingSink{},
		store: testutil.NewMemoryStore(),
		tele:  &testutil.RecordingTeleporter{},
		settings: settings.NewService(map[settings.Kind]bool{
			settings.FlyInHub:       true,
			settings.Players:        true,
			settings.JumpBoost:      true,
			settings.ParticleEffect: true,
		}, policy),
		course: testCourse(t),
	}

	h.reg = NewRegistry(Deps{
		Store:      h.store,
		Settings:   h.settings,
		Sink:       h.sink,
		Teleporter: h.tele,
		Scheduler:  h.sched,
		Clock:      h.clock,
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		Spawn:      spawn,
	})

	return h
}

func (h *harness) begin(t *testing.T) *Session {
	t.Helper()

	s, err := h.reg.Begin(h.course, 0, alice)
	require.NoError(t, err)

	return s
}

func (h *harness) advance(d time.Duration) {
	h.clock.Add(d)
	h.sched.Advance(d)
}

func (h *harness) walk(pos mgl64.Vec3) {
	h.reg.Dispatch(Sample{
		Participant: alice,
		Position:    pos,
		OnGround:    true,
		Material:    geom.StainedClay,
	})
}

func (h *harness) jump(pos mgl64.Vec3) {
	h.reg.Dispatch(Sample{
		Participant: alice,
		Position:    pos,
		Material:    geom.Air,
	})
}

func (h *harness) land(pos mgl64.Vec3, mat geom.Material) {
	h.reg.Dispatch(Sample{
		Participant: alice,
		Position:    pos,
		OnGround:    true,
		Material:    mat,
	})
}

func TestFullRun(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	for _, kind := range settings.Locked {
		assert.False(t, h.settings.Get(alice, kind))
		assert.True(t, h.settings.IsLocked(alice, kind))
	}

	h.walk(inLevel1Start)
	assert.False(t, s.Snapshot().Playing)

	h.walk(onLevel1)

	snap := s.Snapshot()
	require.True(t, snap.Playing)
	assert.Equal(t, 1, snap.LevelIndex)
	assert.Equal(t, timer.Running, snap.Countdown)

	h.advance(8 * time.Second)
	h.walk(inLevel2Start)

	snap = s.Snapshot()
	assert.False(t, snap.Playing)
	assert.False(t, snap.RevertPending)
	assert.Equal(t, timer.Cancelled, snap.Countdown)
	assert.Contains(t, h.sink.Keys(), presentation.MsgTargetTime)

	h.walk(onLevel2)
	require.True(t, s.Snapshot().Playing)
	assert.Equal(t, 2, s.Snapshot().LevelIndex)

	h.advance(12 * time.Second)
	h.sink.Reset()
	h.walk(inEnd)

	assert.Equal(t, []string{
		presentation.MsgEnd,
		presentation.MsgLevelStat,
		presentation.MsgLevelStat,
		presentation.MsgEndTeleport,
		presentation.MsgSettingToggled,
		presentation.MsgSettingToggled,
		presentation.MsgSettingToggled,
		presentation.MsgSettingToggled,
	}, h.sink.Keys())
	assert.Equal(t, []presentation.Cue{presentation.CueFirework}, h.sink.Cues())

	stats := h.sink.Of(testutil.EventNotify)[1:3]
	assert.Equal(t, []string{"<lnumber>", "1", "<ltime>", "8 seconds"}, stats[0].Placeholders)
	assert.Equal(t, []string{"<lnumber>", "2", "<ltime>", "12 seconds"}, stats[1].Placeholders)

	recorded := s.Recorded()
	require.Len(t, recorded, 2)
	assert.Equal(t, 8*time.Second, recorded[0].Elapsed)
	assert.Equal(t, 12*time.Second, recorded[1].Elapsed)

	var total time.Duration
	for _, lt := range recorded {
		total += lt.Elapsed
	}

	assert.Equal(t, 20*time.Second, total)

	for _, kind := range settings.Locked {
		assert.True(t, h.settings.Get(alice, kind))
		assert.False(t, h.settings.IsLocked(alice, kind))
	}

	assert.Equal(t, 0, h.reg.Len())
	assert.True(t, s.Snapshot().Closed)

	best, ok, err := h.store.BestTime(alice, "level-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 8*time.Second, best)

	best, _, _ = h.store.BestTime(alice, "level-2")
	assert.Equal(t, 12*time.Second, best)
	assert.True(t, h.store.Completed(alice, "level-2"))

	assert.Empty(t, h.tele.Teleports())

	h.advance(2 * time.Second)

	assert.Equal(t, []testutil.Teleport{{Participant: alice, To: spawn}}, h.tele.Teleports())
}

func TestFinishHappensOnce(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)
	h.walk(inEnd)
	h.walk(inEnd)

	s.OnPositionSample(Sample{Participant: alice, Position: inEnd, OnGround: true})

	var ends int

	for _, k := range h.sink.Keys() {
		if k == presentation.MsgEnd {
			ends++
		}
	}

	assert.Equal(t, 1, ends)
}

func TestTargetTimeExpires(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)
	h.advance(11 * time.Second)

	snap := s.Snapshot()
	assert.True(t, snap.Playing)
	assert.False(t, snap.WithinTarget)
	assert.Equal(t, timer.Expired, snap.Countdown)

	h.walk(inLevel2Start)

	assert.NotContains(t, h.sink.Keys(), presentation.MsgTargetTime)
	assert.Contains(t, h.sink.Keys(), presentation.MsgLevelComplete)
	assert.NotContains(t, h.sink.Cues(), presentation.CueLevelUpLow)
}

func TestFailedLandingRollsBack(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)
	h.jump(overLevel1)
	h.land(landLevel1, geom.StainedClay)
	h.jump(overLevel1)
	h.land(mgl64.Vec3{2, 64, 14}, "stone")

	snap := s.Snapshot()
	assert.False(t, snap.Playing)
	assert.Equal(t, 0, snap.LevelIndex)
	assert.Equal(t, 0, snap.Markers)
	assert.Equal(t, timer.Cancelled, snap.Countdown)
	assert.Equal(t, []testutil.Teleport{{Participant: alice, To: inLevel1Start}}, h.tele.Teleports())
	assert.Len(t, h.sink.Of(testutil.EventRestoreBlock), 1)
	assert.Equal(t, presentation.CueFail, h.sink.Cues()[len(h.sink.Cues())-1])

	// leaving the checkpoint restarts the level with a fresh countdown
	h.walk(onLevel1)

	snap = s.Snapshot()
	assert.True(t, snap.Playing)
	assert.Equal(t, 1, snap.LevelIndex)
	assert.Equal(t, timer.Running, snap.Countdown)
	assert.True(t, snap.WithinTarget)
}

func TestResetWithoutPendingRevert(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)

	s.mu.Lock()
	s.revertPending = false
	s.mu.Unlock()

	h.jump(overLevel1)
	h.land(landLevel1, "stone")

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.LevelIndex)
	assert.Equal(t, timer.Cancelled, snap.Countdown)
	assert.Equal(t, 0, snap.Markers)
	assert.Equal(t, []testutil.Teleport{{Participant: alice, To: inLevel1Start}}, h.tele.Teleports())

	h.walk(inLevel2Start)
	h.walk(onLevel2)

	snap = s.Snapshot()
	assert.True(t, snap.Playing)
	assert.Equal(t, 2, snap.LevelIndex)
	assert.Equal(t, timer.Running, snap.Countdown)
}

func TestSafeBlockRegisteredOnce(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)

	h.jump(overLevel1)
	h.land(landLevel1, geom.StainedClay)
	h.jump(overLevel1)
	h.land(mgl64.Vec3{2.5, 64, 12.2}, geom.StainedClay)

	assert.Equal(t, 1, s.Snapshot().Markers)

	var pickups int

	for _, c := range h.sink.Cues() {
		if c == presentation.CuePickupHigh {
			pickups++
		}
	}

	assert.Equal(t, 1, pickups)

	shown := h.sink.Of(testutil.EventShowBlock)
	require.Len(t, shown, 1)
	assert.Equal(t, geom.Block{2, 63, 12}, shown[0].Block)
	assert.Equal(t, 8, shown[0].Variant)

	h.walk(inLevel2Start)

	restored := h.sink.Of(testutil.EventRestoreBlock)
	require.Len(t, restored, 1)
	assert.Equal(t, geom.Block{2, 63, 12}, restored[0].Block)
	assert.Equal(t, 0, s.Snapshot().Markers)
}

func TestLadderLandingHasNoMarkerVisual(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)
	h.jump(overLevel1)
	h.land(landLevel1, geom.Ladder)

	assert.Equal(t, 1, s.Snapshot().Markers)
	assert.Empty(t, h.sink.Of(testutil.EventShowBlock))
}

func TestLandingOnAirIsNotGround(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)
	h.jump(overLevel1)
	h.land(landLevel1, geom.Air)

	snap := s.Snapshot()
	assert.True(t, snap.Playing)
	assert.Equal(t, 0, snap.Markers)
	assert.Empty(t, h.tele.Teleports())
}

func TestAbandonment(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inCourseStart)
	h.walk(mgl64.Vec3{10, 64, 1})

	assert.True(t, s.Snapshot().Closed)
	assert.Equal(t, 0, h.reg.Len())

	for _, kind := range settings.Locked {
		assert.True(t, h.settings.Get(alice, kind))
	}
}

func TestCleanupIsIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)

	s.Cleanup()
	s.Cleanup()

	var toggled int

	for _, k := range h.sink.Keys() {
		if k == presentation.MsgSettingToggled {
			toggled++
		}
	}

	// four to lock, four to restore
	assert.Equal(t, 8, toggled)
	assert.Equal(t, timer.Cancelled, s.Snapshot().Countdown)
	assert.Equal(t, 0, h.reg.Len())

	h.walk(inEnd)
	assert.NotContains(t, h.sink.Keys(), presentation.MsgEnd)
}

func TestSettingDenied(t *testing.T) {
	policy := func(_ string, kind settings.Kind, value bool) bool {
		switch kind {
		case settings.FlyInHub:
			return value
		case settings.Players:
			return !value
		}

		return true
	}

	h := newHarness(t, policy)
	s := h.begin(t)

	denied := h.sink.Of(testutil.EventNotify)[0]
	assert.Equal(t, presentation.MsgSettingDenied, denied.Key)
	assert.Equal(t, []string{"<setting>", "fly_in_hub"}, denied.Placeholders)
	assert.True(t, h.settings.Get(alice, settings.FlyInHub))

	h.sink.Reset()
	s.Cleanup()

	assert.Equal(t, []string{
		presentation.MsgSettingDenied,
		presentation.MsgSettingToggled,
		presentation.MsgSettingToggled,
	}, h.sink.Keys())

	for _, kind := range settings.Locked {
		assert.False(t, h.settings.IsLocked(alice, kind))
	}

	assert.False(t, h.settings.Get(alice, settings.Players))
}

func TestStoreFailureDoesNotStopRun(t *testing.T) {
	h := newHarness(t, nil)
	h.store.Err = errors.New("disk on fire")

	s := h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)
	h.advance(3 * time.Second)
	h.walk(inLevel2Start)

	require.Len(t, s.Recorded(), 1)
	assert.Equal(t, 3*time.Second, s.Recorded()[0].Elapsed)
	assert.Contains(t, h.sink.Keys(), presentation.MsgLevelComplete)
}

func TestBestTimeOnlyImproves(t *testing.T) {
	h := newHarness(t, nil)
	require.NoError(t, h.store.SetBestTime(alice, "level-1", 2*time.Second))

	h.begin(t)

	h.walk(inLevel1Start)
	h.walk(onLevel1)
	h.advance(5 * time.Second)
	h.walk(inLevel2Start)

	best, _, _ := h.store.BestTime(alice, "level-1")
	assert.Equal(t, 2*time.Second, best)
	assert.True(t, h.store.Completed(alice, "level-1"))
}

func TestSampleForOtherParticipantIgnored(t *testing.T) {
	h := newHarness(t, nil)
	s := h.begin(t)

	s.OnPositionSample(Sample{Participant: "bob", Position: inEnd, OnGround: true})

	assert.False(t, s.Snapshot().Closed)
	assert.False(t, h.reg.Dispatch(Sample{Participant: "bob", Position: inEnd}))
}

func TestNewValidation(t *testing.T) {
	c := testCourse(t)
	deps := Deps{
		Store:      testutil.NewMemoryStore(),
		Settings:   settings.NewService(nil, nil),
		Sink:       &testutil.RecordingSink{},
		Teleporter: &testutil.RecordingTeleporter{},
	}

	_, err := New(c, 2, alice, deps)
	assert.ErrorIs(t, err, ErrStartIndex)

	_, err = New(c, -1, alice, deps)
	assert.ErrorIs(t, err, ErrStartIndex)

	_, err = New(nil, 0, alice, deps)
	assert.ErrorIs(t, err, errNoCourse)

	deps.Store = nil
	_, err = New(c, 0, alice, deps)
	assert.ErrorIs(t, err, errMissingDependency)
}

func TestStartAtLaterLevel(t *testing.T) {
	h := newHarness(t, nil)

	s, err := h.reg.Begin(h.course, 1, alice)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Nil(t, snap.Current)
	assert.Equal(t, "level-2", snap.Next.ID)

	h.walk(inLevel2Start)
	h.walk(onLevel2)

	snap = s.Snapshot()
	assert.True(t, snap.Playing)
	assert.Equal(t, "level-2", snap.Current.ID)
	assert.Nil(t, snap.Next)

	h.advance(4 * time.Second)
	h.walk(inEnd)

	require.Len(t, s.Recorded(), 1)
	assert.Equal(t, "level-2", s.Recorded()[0].Level.ID)
}
