// Package course defines parkour courses: an ordered ladder of levels plus the
// regions that mark the start and the end of the whole run.
package course

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/ayoisaiah/parkour/internal/geom"
)

// MinTarget is the shortest target duration a level may have. The countdown
// ticks once per second so anything shorter would expire on its first tick.
const MinTarget = time.Second

// Level is one segment of a course. Levels are immutable once the course is
// built.
type Level struct {
	// Start is the threshold region the participant leaves to begin the level.
	Start geom.Region
	// End is the region that completes the level: the next level's start, or
	// the course end for the last level.
	End        geom.Region
	ID         string
	Checkpoint mgl64.Vec3
	Target     time.Duration
	// Number is the 1-based position of the level in its course.
	Number int
}

// Course is an ordered ladder of levels.
type Course struct {
	Start  geom.Region
	End    geom.Region
	Name   string
	levels []Level
}

// New validates the ladder and returns a course. Level numbers and end
// regions are filled in from the ladder order; a level without an id is
// named "level-N".
func New(name string, start, end geom.Region, levels []Level) (*Course, error) {
	c := &Course{
		Name:   name,
		Start:  start,
		End:    end,
		levels: make([]Level, len(levels)),
	}

	copy(c.levels, levels)

	for i := range c.levels {
		l := &c.levels[i]

		l.Number = i + 1

		if l.ID == "" {
			l.ID = fmt.Sprintf("level-%d", l.Number)
		}

		if i+1 < len(c.levels) {
			l.End = c.levels[i+1].Start
		} else {
			l.End = end
		}
	}

	if err := c.validate(); err != nil {
		return nil, ErrInvalidCourse.Wrap(err)
	}

	return c, nil
}

func (c *Course) validate() error {
	if c.Start == nil {
		return errMissingRegion.Fmt(c.Name, "start")
	}

	if c.End == nil {
		return errMissingRegion.Fmt(c.Name, "end")
	}

	if len(c.levels) == 0 {
		return errNoLevels.Fmt(c.Name)
	}

	seen := make(map[string]bool, len(c.levels))

	for i := range c.levels {
		l := &c.levels[i]

		if seen[l.ID] {
			return errDuplicateLevel.Fmt(c.Name, l.ID)
		}

		seen[l.ID] = true

		if l.Start == nil {
			return errMissingRegion.Fmt(c.Name, l.ID+" start")
		}

		if l.Target < MinTarget {
			return errTargetTooShort.Fmt(c.Name, l.ID, l.Target, MinTarget)
		}

		// A reset teleports to the checkpoint and the level restarts once the
		// participant steps out of its start region, so the checkpoint has to
		// sit inside it.
		if !l.Start.Contains(l.Checkpoint) {
			return errCheckpointOutside.Fmt(c.Name, l.ID)
		}

		if c.End.Contains(l.Checkpoint) {
			return errCheckpointInEnd.Fmt(c.Name, l.ID)
		}
	}

	return nil
}

// Len returns the number of levels.
func (c *Course) Len() int {
	return len(c.levels)
}

// Level returns the level at index i, or nil when i is out of range.
func (c *Course) Level(i int) *Level {
	if i < 0 || i >= len(c.levels) {
		return nil
	}

	return &c.levels[i]
}

// Levels returns a copy of the ladder.
func (c *Course) Levels() []Level {
	out := make([]Level, len(c.levels))
	copy(out, c.levels)

	return out
}
