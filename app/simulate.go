package app

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayoisaiah/parkour/internal/course"
	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/presentation"
	"github.com/ayoisaiah/parkour/internal/ui"
	"github.com/ayoisaiah/parkour/parkour"
	"github.com/ayoisaiah/parkour/timer"
)

// Replay actions.
const (
	actionJoin       = "join"
	actionMove       = "move"
	actionAbort      = "abort"
	actionDisconnect = "disconnect"
)

// replayLine is one line of a recording. At is the offset from the start of
// the recording.
type replayLine struct {
	At          string     `json:"at"`
	Participant string     `json:"participant"`
	Action      string     `json:"action"`
	Course      string     `json:"course"`
	Level       int        `json:"level"`
	Position    mgl64.Vec3 `json:"position"`
	Material    string     `json:"material"`
	OnGround    bool       `json:"on_ground"`
}

type replayOptions struct {
	Store      parkour.Store
	Settings   parkour.Settings
	Catalog    *presentation.Catalog
	Logger     *slog.Logger
	Materials  *parkour.Materials
	Courses    []*course.Course
	Spawn      mgl64.Vec3
	SpawnDelay time.Duration
}

// replayer feeds a recording to a registry on a mock clock.
type replayer struct {
	clock   *clock.Mock
	sched   *timer.ManualScheduler
	reg     *parkour.Registry
	out     io.Writer
	courses map[string]*course.Course
	results []parkour.Result
	elapsed time.Duration
	mu      sync.Mutex
}

func newReplayer(w io.Writer, opts replayOptions) *replayer {
	r := &replayer{
		clock:   clock.NewMock(),
		sched:   &timer.ManualScheduler{},
		out:     w,
		courses: make(map[string]*course.Course, len(opts.Courses)),
	}

	for _, c := range opts.Courses {
		r.courses[c.Name] = c
	}

	console := presentation.NewConsole(w, opts.Catalog)

	r.reg = parkour.NewRegistry(parkour.Deps{
		Store:      opts.Store,
		Settings:   opts.Settings,
		Sink:       console,
		Teleporter: console,
		Scheduler:  r.sched,
		Clock:      r.clock,
		Logger:     opts.Logger,
		Materials:  opts.Materials,
		Spawn:      opts.Spawn,
		SpawnDelay: opts.SpawnDelay,
	}, parkour.OnSessionEnded(r.collect))

	return r
}

func (r *replayer) collect(res parkour.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = append(r.results, res)
}

// advance moves both the clock and the scheduler forward by d.
func (r *replayer) advance(d time.Duration) {
	if d <= 0 {
		return
	}

	r.clock.Add(d)
	r.sched.Advance(d)
	r.elapsed += d
}

// run replays every line of src, lets pending teleports fire, then aborts
// the runs that are still going.
func (r *replayer) run(src io.Reader, flush time.Duration) ([]parkour.Result, error) {
	scanner := bufio.NewScanner(src)

	var n int

	for scanner.Scan() {
		n++

		raw := scanner.Bytes()
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		var line replayLine

		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, errBadRecording.Fmt(n, err)
		}

		at, err := time.ParseDuration(line.At)
		if err != nil {
			return nil, errBadRecording.Fmt(n, err)
		}

		if at < r.elapsed {
			return nil, errOutOfOrder.Fmt(n, at, r.elapsed)
		}

		r.advance(at - r.elapsed)

		if err := r.apply(line); err != nil {
			return nil, errBadRecording.Fmt(n, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, errReadRecording.Wrap(err)
	}

	r.advance(flush)
	r.reg.Shutdown()

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.results, nil
}

func (r *replayer) apply(line replayLine) error {
	switch line.Action {
	case actionJoin:
		c, ok := r.courses[line.Course]
		if !ok {
			return errUnknownCourse.Fmt(line.Course)
		}

		if _, err := r.reg.Begin(c, line.Level, line.Participant); err != nil {
			fmt.Fprintln(r.out, ui.Cyan(line.Participant+":"), ui.Red(err.Error()))
		}
	case actionMove, "":
		r.reg.Dispatch(parkour.Sample{
			Participant: line.Participant,
			Material:    geom.Material(line.Material),
			Position:    line.Position,
			OnGround:    line.OnGround,
		})
	case actionAbort:
		r.reg.Abort(line.Participant)
	case actionDisconnect:
		r.reg.Disconnect(line.Participant)
	default:
		return errUnknownAction.Fmt(line.Action)
	}

	return nil
}
