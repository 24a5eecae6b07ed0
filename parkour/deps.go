package parkour

import (
	"log/slog"
	"slices"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayoisaiah/parkour/internal/geom"
	"github.com/ayoisaiah/parkour/internal/metrics"
	"github.com/ayoisaiah/parkour/internal/presentation"
	"github.com/ayoisaiah/parkour/internal/settings"
	"github.com/ayoisaiah/parkour/timer"
)

// DefaultSpawnDelay is how long a finished participant waits before being
// sent back to spawn.
const DefaultSpawnDelay = 2 * time.Second

// Store persists best times and completion flags.
type Store interface {
	BestTime(participant, levelID string) (time.Duration, bool, error)
	SetBestTime(participant, levelID string, d time.Duration) error
	MarkCompleted(participant, levelID string) error
}

// Settings toggles and locks participant settings.
type Settings interface {
	Get(participant string, kind settings.Kind) bool
	Set(participant string, kind settings.Kind, value bool) error
	Lock(participant string, kind settings.Kind)
	Unlock(participant string, kind settings.Kind)
}

// Teleporter moves a participant. It fails when the participant is gone.
type Teleporter interface {
	Teleport(participant string, to mgl64.Vec3) error
}

// Coordinator is told when a session ends so it can discard it. It is called
// with the session lock held and must not call back into the session.
type Coordinator interface {
	SessionEnded(s *Session, r Result)
}

// Materials classifies the surfaces a participant can land on.
type Materials struct {
	// Safe surfaces are checkpoints; landing anywhere else fails the level.
	Safe []geom.Material
	// NoGround surfaces never count as ground contact.
	NoGround []geom.Material
	// Marker is the safe surface that changes appearance once touched.
	Marker        geom.Material
	MarkerVariant int
}

// DefaultMaterials returns the stock surface classification.
func DefaultMaterials() Materials {
	return Materials{
		Safe:          []geom.Material{geom.StainedClay, geom.Ladder},
		NoGround:      []geom.Material{geom.Air},
		Marker:        geom.StainedClay,
		MarkerVariant: 8,
	}
}

func (m Materials) safe(mat geom.Material) bool {
	return slices.Contains(m.Safe, mat)
}

func (m Materials) grounded(onGround bool, mat geom.Material) bool {
	return onGround && !slices.Contains(m.NoGround, mat)
}

// Deps are the collaborators of a session.
type Deps struct {
	Store       Store
	Settings    Settings
	Sink        presentation.Sink
	Teleporter  Teleporter
	Scheduler   timer.Scheduler
	Clock       clock.Clock
	Coordinator Coordinator
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Materials   *Materials
	Spawn       mgl64.Vec3
	SpawnDelay  time.Duration
}

func (d Deps) withDefaults() (Deps, error) {
	switch {
	case d.Store == nil:
		return d, errMissingDependency.Fmt("store")
	case d.Settings == nil:
		return d, errMissingDependency.Fmt("settings")
	case d.Sink == nil:
		return d, errMissingDependency.Fmt("sink")
	case d.Teleporter == nil:
		return d, errMissingDependency.Fmt("teleporter")
	}

	if d.Clock == nil {
		d.Clock = clock.New()
	}

	if d.Scheduler == nil {
		d.Scheduler = timer.NewClockScheduler(d.Clock)
	}

	if d.Logger == nil {
		d.Logger = slog.Default()
	}

	if d.Materials == nil {
		m := DefaultMaterials()
		d.Materials = &m
	}

	if d.SpawnDelay <= 0 {
		d.SpawnDelay = DefaultSpawnDelay
	}

	return d, nil
}
