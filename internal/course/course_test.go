package course

import (
	"errors"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/parkour/internal/geom"
)

func box(x1, y1, z1, x2, y2, z2 float64) geom.Box {
	return geom.NewBox(mgl64.Vec3{x1, y1, z1}, mgl64.Vec3{x2, y2, z2})
}

func validLevels() []Level {
	return []Level{
		{
			Start:      box(0, 64, 3, 4, 66, 5),
			Checkpoint: mgl64.Vec3{2, 64, 4},
			Target:     10 * time.Second,
		},
		{
			ID:         "the-gap",
			Start:      box(0, 64, 20, 4, 66, 22),
			Checkpoint: mgl64.Vec3{2, 64, 21},
			Target:     15 * time.Second,
		},
	}
}

func TestNewDerivesLadder(t *testing.T) {
	end := box(0, 64, 40, 4, 66, 42)

	c, err := New("hub", box(0, 64, 0, 4, 66, 2), end, validLevels())
	require.NoError(t, err)

	assert.Equal(t, 2, c.Len())

	first := c.Level(0)
	second := c.Level(1)

	assert.Equal(t, "level-1", first.ID)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, second.Start, first.End)

	assert.Equal(t, "the-gap", second.ID)
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, geom.Region(end), second.End)

	assert.Nil(t, c.Level(2))
	assert.Nil(t, c.Level(-1))
}

func TestNewRejectsMalformedLadders(t *testing.T) {
	testCases := []struct {
		Name   string
		Mutate func(levels []Level) []Level
		Want   error
	}{
		{
			Name:   "no levels",
			Mutate: func([]Level) []Level { return nil },
			Want:   errNoLevels,
		},
		{
			Name: "duplicate ids",
			Mutate: func(levels []Level) []Level {
				levels[0].ID = "the-gap"
				return levels
			},
			Want: errDuplicateLevel,
		},
		{
			Name: "target too short",
			Mutate: func(levels []Level) []Level {
				levels[1].Target = 500 * time.Millisecond
				return levels
			},
			Want: errTargetTooShort,
		},
		{
			Name: "checkpoint outside start",
			Mutate: func(levels []Level) []Level {
				levels[0].Checkpoint = mgl64.Vec3{2, 64, 10}
				return levels
			},
			Want: errCheckpointOutside,
		},
		{
			Name: "missing start region",
			Mutate: func(levels []Level) []Level {
				levels[1].Start = nil
				return levels
			},
			Want: errMissingRegion,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := New(
				"hub",
				box(0, 64, 0, 4, 66, 2),
				box(0, 64, 40, 4, 66, 42),
				tc.Mutate(validLevels()),
			)

			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCourse)
			assert.ErrorIs(t, err, tc.Want)
		})
	}
}

func TestNewRejectsCheckpointInEnd(t *testing.T) {
	_, err := New(
		"hub",
		box(0, 64, 0, 4, 66, 2),
		box(0, 64, 3, 4, 66, 5),
		validLevels(),
	)

	assert.True(t, errors.Is(err, errCheckpointInEnd))
}

func TestLoad(t *testing.T) {
	courses, err := Load("testdata/courses.yml")
	require.NoError(t, err)
	require.Len(t, courses, 1)

	c := courses[0]

	assert.Equal(t, "hub", c.Name)
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, "first-jumps", c.Level(0).ID)
	assert.Equal(t, 10*time.Second, c.Level(0).Target)
	assert.Equal(t, "level-2", c.Level(1).ID)
	assert.Equal(t, 15*time.Second, c.Level(1).Target)
	assert.Equal(t, geom.Sphere{Center: mgl64.Vec3{2, 64, 21}, Radius: 1.5}, c.Level(1).Start)
	assert.True(t, c.End.Contains(mgl64.Vec3{2, 65, 41}))
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		Name string
		YAML string
		Want error
	}{
		{
			Name: "bad vector",
			YAML: `
courses:
  - name: a
    start: {min: [0, 0], max: [1, 1, 1]}
    end: {min: [5, 5, 5], max: [6, 6, 6]}
`,
			Want: errInvalidVector,
		},
		{
			Name: "empty region",
			YAML: `
courses:
  - name: a
    start: {}
    end: {min: [5, 5, 5], max: [6, 6, 6]}
`,
			Want: errInvalidRegion,
		},
		{
			Name: "duplicate course",
			YAML: `
courses:
  - name: a
    start: {min: [0, 0, 0], max: [1, 1, 1]}
    end: {min: [5, 5, 5], max: [6, 6, 6]}
    levels:
      - start: {min: [2, 0, 0], max: [3, 1, 1]}
        checkpoint: [2, 0, 0]
        target: 5s
  - name: a
`,
			Want: errDuplicateCourse,
		},
		{
			Name: "not yaml",
			YAML: "courses: [",
			Want: errReadCourses,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := Parse([]byte(tc.YAML))

			assert.ErrorIs(t, err, tc.Want)
		})
	}
}
