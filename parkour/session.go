// Package parkour drives a participant through the levels of a course. A
// Session consumes position samples and decides when a level starts, is
// completed, is failed or when the whole run is over. A Registry owns the
// sessions of every connected participant and routes samples to them.
package parkour

import (
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oklog/ulid/v2"

	"github.com/ayoisaiah/parkour/internal/course"
	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/presentation"
	"github.com/ayoisaiah/parkour/internal/settings"
	"github.com/ayoisaiah/parkour/internal/timeutil"
	"github.com/ayoisaiah/parkour/timer"
)

// Outcome is the reason a session ended.
type Outcome string

const (
	OutcomeFinished     Outcome = "finished"
	OutcomeAbandoned    Outcome = "abandoned"
	OutcomeAborted      Outcome = "aborted"
	OutcomeDisconnected Outcome = "disconnected"
)

// Sample is one movement update of a participant.
type Sample struct {
	Participant string
	// Material is the surface directly underneath Position.
	Material geom.Material
	Position mgl64.Vec3
	OnGround bool
}

// LevelTime is the time a participant took to complete a level.
type LevelTime struct {
	Level   *course.Level
	Elapsed time.Duration
}

// Result summarises an ended session.
type Result struct {
	Participant string
	Course      string
	Outcome     Outcome
	Times       []LevelTime
}

type savedSetting struct {
	kind  settings.Kind
	prior bool
}

// Session is one participant's attempt at a course.
type Session struct {
	levelStart    time.Time
	deps          Deps
	course        *course.Course
	countdown     *timer.Countdown
	lastPosition  *mgl64.Vec3
	log           *slog.Logger
	participant   string
	hitMarkers    []geom.Block
	recorded      []LevelTime
	saved         []savedSetting
	startIndex    int
	levelIndex    int
	within        atomic.Bool
	ID            ulid.ULID
	mu            sync.Mutex
	playing       bool
	revertPending bool
	wasAirborne   bool
	started       bool
	closed        bool
}

// New creates a session for participant on c. The participant is about to
// attempt the level at startIndex.
func New(c *course.Course, startIndex int, participant string, deps Deps) (*Session, error) {
	if c == nil {
		return nil, errNoCourse
	}

	if startIndex < 0 || startIndex >= c.Len() {
		return nil, ErrStartIndex.Fmt(startIndex, c.Len())
	}

	deps, err := deps.withDefaults()
	if err != nil {
		return nil, err
	}

	s := &Session{
		ID:          ulid.MustNew(ulid.Timestamp(deps.Clock.Now()), ulid.DefaultEntropy()),
		deps:        deps,
		course:      c,
		participant: participant,
		startIndex:  startIndex,
		levelIndex:  startIndex,
	}

	s.within.Store(true)

	s.log = deps.Logger.With(
		slog.String("attempt", s.ID.String()),
		slog.String("participant", participant),
		slog.String("course", c.Name),
	)

	return s, nil
}

// Participant returns the id of the participant running the session.
func (s *Session) Participant() string {
	return s.participant
}

// Course returns the course being run.
func (s *Session) Course() *course.Course {
	return s.course
}

// Start forces the locked settings off for the duration of the run,
// remembering their previous values.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.closed {
		return
	}

	s.started = true

	for _, kind := range settings.Locked {
		s.forceSetting(kind, false)
	}

	s.log.Info("parkour run started", slog.Int("start_level", s.startIndex+1))
	s.deps.Metrics.SessionStarted()
}

func (s *Session) forceSetting(kind settings.Kind, target bool) {
	prior := s.deps.Settings.Get(s.participant, kind)

	if prior != target {
		err := s.deps.Settings.Set(s.participant, kind, target)
		if err != nil {
			s.deps.Sink.Notify(s.participant, presentation.MsgSettingDenied, "<setting>", string(kind))
			s.log.Warn("setting change denied", slog.String("setting", string(kind)), slog.Any("error", err))
		} else {
			s.notifyToggled(kind, target)
		}
	}

	s.saved = append(s.saved, savedSetting{kind: kind, prior: prior})
	s.deps.Settings.Lock(s.participant, kind)
}

func (s *Session) notifyToggled(kind settings.Kind, value bool) {
	state := "off"
	if value {
		state = "on"
	}

	s.deps.Sink.Notify(
		s.participant,
		presentation.MsgSettingToggled,
		"<setting>", string(kind),
		"<state>", state,
	)
}

func (s *Session) currentLevel() *course.Level {
	if s.levelIndex <= s.startIndex {
		return nil
	}

	return s.course.Level(s.levelIndex - 1)
}

func (s *Session) nextLevel() *course.Level {
	return s.course.Level(s.levelIndex)
}

// OnPositionSample advances the session with one movement update. Samples of
// other participants and samples after the session ended are ignored.
func (s *Session) OnPositionSample(sample Sample) {
	if sample.Participant != s.participant {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}

	pos := sample.Position
	airborne := !s.deps.Materials.grounded(sample.OnGround, sample.Material)

	if s.step(sample, airborne) {
		return
	}

	s.wasAirborne = airborne
	s.lastPosition = &pos
}

// step runs the per-sample checks in priority order. It reports whether the
// edge detection state was already set by a reset.
func (s *Session) step(sample Sample, airborne bool) bool {
	pos := sample.Position

	if s.course.End.Contains(pos) {
		s.finish()
		return false
	}

	next := s.nextLevel()

	if s.playing && next != nil && next.Start.Contains(pos) {
		s.completeLevel()
	}

	if s.course.Start.Contains(pos) || (next != nil && next.Start.Contains(pos)) {
		return false
	}

	if !s.playing && next != nil &&
		(s.lastPosition == nil || next.Start.Contains(*s.lastPosition)) {
		s.beginLevel()
		return false
	}

	if !s.playing {
		s.terminate(OutcomeAbandoned)
		return false
	}

	if !s.wasAirborne || airborne {
		return false
	}

	if !s.deps.Materials.safe(sample.Material) {
		s.reset()
		s.deps.Sink.PlayCue(s.participant, presentation.CueFail)

		return true
	}

	block := geom.BlockAt(pos).Below()
	if slices.Contains(s.hitMarkers, block) {
		return false
	}

	s.hitMarkers = append(s.hitMarkers, block)
	s.deps.Sink.PlayCue(s.participant, presentation.CuePickupHigh)

	if sample.Material == s.deps.Materials.Marker {
		s.deps.Sink.ShowBlock(s.participant, block, sample.Material, s.deps.Materials.MarkerVariant)
	}

	return false
}

func (s *Session) beginLevel() {
	s.levelIndex++
	s.revertPending = true

	level := s.currentLevel()
	number := strconv.Itoa(level.Number)

	s.deps.Sink.Notify(s.participant, presentation.MsgLevelBegin, "<level>", number)
	s.deps.Sink.Notify(
		s.participant,
		presentation.MsgTimeInfo,
		"<duration>", timeutil.Nicely(level.Target),
	)
	s.deps.Sink.PlayCue(s.participant, presentation.CuePickup)

	s.hitMarkers = nil
	s.levelStart = s.deps.Clock.Now()
	s.within.Store(true)

	log := s.log.With(slog.String("level", level.ID))

	s.countdown = timer.New(timer.Options{
		Sink:        s.deps.Sink,
		Scheduler:   s.deps.Scheduler,
		Within:      &s.within,
		Participant: s.participant,
		Level:       level.Number,
		Target:      level.Target,
		OnExpire: func() {
			log.Debug("target time expired")
			s.deps.Metrics.CountdownExpired()
		},
	})

	if err := s.countdown.Schedule(); err != nil {
		log.Error("countdown not scheduled", slog.Any("error", err))
	}

	s.playing = true

	log.Debug("level started")
}

func (s *Session) completeLevel() {
	level := s.currentLevel()
	if level == nil {
		return
	}

	elapsed := s.deps.Clock.Since(s.levelStart)

	s.stopCountdown()
	within := s.within.Load()

	s.record(level, elapsed)

	s.deps.Sink.Notify(
		s.participant,
		presentation.MsgLevelComplete,
		"<level>", strconv.Itoa(level.Number),
	)
	s.deps.Sink.PlayCue(s.participant, presentation.CueLevelUp)
	s.restoreMarkers()

	if within {
		s.deps.Sink.PlayCue(s.participant, presentation.CueLevelUpLow)
		s.deps.Sink.Notify(s.participant, presentation.MsgTargetTime)
	}

	s.persist(level, elapsed)
	s.deps.Metrics.LevelCompleted(s.course.Name, level.ID, elapsed, within)

	s.playing = false
	s.revertPending = false

	s.log.Info(
		"level completed",
		slog.String("level", level.ID),
		slog.Duration("elapsed", elapsed),
		slog.Bool("within_target", within),
	)
}

// record stores the elapsed time of a level, replacing an earlier entry for
// the same level in place.
func (s *Session) record(level *course.Level, elapsed time.Duration) {
	for i := range s.recorded {
		if s.recorded[i].Level == level {
			s.recorded[i].Elapsed = elapsed
			return
		}
	}

	s.recorded = append(s.recorded, LevelTime{Level: level, Elapsed: elapsed})
}

// persist writes the completion and, when improved, the best time. Failures
// are logged and otherwise ignored.
func (s *Session) persist(level *course.Level, elapsed time.Duration) {
	log := s.log.With(slog.String("level", level.ID))

	if err := s.deps.Store.MarkCompleted(s.participant, level.ID); err != nil {
		log.Warn("marking level complete failed", slog.Any("error", err))
		s.deps.Metrics.StoreError()
	}

	best, ok, err := s.deps.Store.BestTime(s.participant, level.ID)
	if err != nil {
		log.Warn("reading best time failed", slog.Any("error", err))
		s.deps.Metrics.StoreError()

		return
	}

	if ok && best <= elapsed {
		return
	}

	if err := s.deps.Store.SetBestTime(s.participant, level.ID, elapsed); err != nil {
		log.Warn("saving best time failed", slog.Any("error", err))
		s.deps.Metrics.StoreError()

		return
	}

	log.Debug("new best time", slog.Duration("best", elapsed))
}

// reset sends the participant back to the current checkpoint after a failed
// landing, undoing the last level transition if it was not confirmed.
func (s *Session) reset() {
	s.restoreMarkers()

	if level := s.currentLevel(); level != nil {
		checkpoint := level.Checkpoint

		if err := s.deps.Teleporter.Teleport(s.participant, checkpoint); err != nil {
			s.log.Warn("checkpoint teleport failed", slog.Any("error", err))
		}

		s.lastPosition = &checkpoint
	}

	s.wasAirborne = false

	s.stopCountdown()
	s.within.Store(true)

	if s.revertPending {
		s.levelIndex--
		s.revertPending = false
	}

	s.playing = false

	s.deps.Metrics.Reset()
	s.log.Debug("level reset", slog.Int("level_index", s.levelIndex))
}

func (s *Session) finish() {
	if s.playing {
		if level := s.currentLevel(); level != nil {
			elapsed := s.deps.Clock.Since(s.levelStart)

			s.stopCountdown()
			s.record(level, elapsed)
			s.persist(level, elapsed)
			s.deps.Metrics.LevelCompleted(s.course.Name, level.ID, elapsed, s.within.Load())
		}

		s.playing = false
	}

	s.deps.Sink.Notify(s.participant, presentation.MsgEnd)

	for _, lt := range s.recorded {
		s.deps.Sink.Notify(
			s.participant,
			presentation.MsgLevelStat,
			"<lnumber>", strconv.Itoa(lt.Level.Number),
			"<ltime>", timeutil.Nicely(lt.Elapsed),
		)
	}

	s.deps.Sink.PlayCue(s.participant, presentation.CueFirework)
	s.deps.Sink.Notify(s.participant, presentation.MsgEndTeleport)

	s.terminate(OutcomeFinished)

	participant, spawn, log := s.participant, s.deps.Spawn, s.log
	teleporter := s.deps.Teleporter

	s.deps.Scheduler.After(s.deps.SpawnDelay, func() {
		if err := teleporter.Teleport(participant, spawn); err != nil {
			log.Debug("spawn teleport skipped", slog.Any("error", err))
		}
	})
}

func (s *Session) stopCountdown() {
	if s.countdown != nil {
		s.countdown.Cancel()
	}
}

func (s *Session) restoreMarkers() {
	for _, b := range s.hitMarkers {
		s.deps.Sink.RestoreBlock(s.participant, b)
	}

	s.hitMarkers = nil
}

// Cleanup ends the session as aborted. It is safe to call more than once.
func (s *Session) Cleanup() {
	s.end(OutcomeAborted)
}

func (s *Session) end(outcome Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.terminate(outcome)
}

// terminate stops the countdown, gives back every setting taken at start and
// tells the coordinator. Only the first call has any effect.
func (s *Session) terminate(outcome Outcome) {
	if s.closed {
		return
	}

	s.closed = true
	s.playing = false

	s.stopCountdown()
	s.restoreMarkers()

	for _, saved := range s.saved {
		current := s.deps.Settings.Get(s.participant, saved.kind)

		s.deps.Settings.Unlock(s.participant, saved.kind)

		if err := s.deps.Settings.Set(s.participant, saved.kind, saved.prior); err != nil {
			s.deps.Sink.Notify(s.participant, presentation.MsgSettingDenied, "<setting>", string(saved.kind))
			s.log.Warn(
				"restoring setting denied",
				slog.String("setting", string(saved.kind)),
				slog.Any("error", err),
			)

			continue
		}

		if current != saved.prior {
			s.notifyToggled(saved.kind, saved.prior)
		}
	}

	s.log.Info("parkour run ended", slog.String("outcome", string(outcome)))

	if s.deps.Coordinator != nil {
		s.deps.Coordinator.SessionEnded(s, s.result(outcome))
	}
}

func (s *Session) result(outcome Outcome) Result {
	times := make([]LevelTime, len(s.recorded))
	copy(times, s.recorded)

	return Result{
		Participant: s.participant,
		Course:      s.course.Name,
		Outcome:     outcome,
		Times:       times,
	}
}

// Recorded returns the level times recorded so far, in completion order.
func (s *Session) Recorded() []LevelTime {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LevelTime, len(s.recorded))
	copy(out, s.recorded)

	return out
}

// Snapshot is a point-in-time view of a session.
type Snapshot struct {
	Current       *course.Level
	Next          *course.Level
	LevelIndex    int
	Markers       int
	Playing       bool
	RevertPending bool
	Closed        bool
	WithinTarget  bool
	Countdown     timer.State
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Current:       s.currentLevel(),
		Next:          s.nextLevel(),
		LevelIndex:    s.levelIndex,
		Markers:       len(s.hitMarkers),
		Playing:       s.playing,
		RevertPending: s.revertPending,
		Closed:        s.closed,
		WithinTarget:  s.within.Load(),
		Countdown:     timer.Idle,
	}

	if s.countdown != nil {
		snap.Countdown = s.countdown.State()
	}

	return snap
}
