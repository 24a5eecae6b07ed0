package course

import (
	"os"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/ayoisaiah/parkour/internal/geom"
)

type fileSpec struct {
	Courses []courseSpec `yaml:"courses"`
}

type courseSpec struct {
	Name   string      `yaml:"name"`
	Start  regionSpec  `yaml:"start"`
	End    regionSpec  `yaml:"end"`
	Levels []levelSpec `yaml:"levels"`
}

type levelSpec struct {
	ID         string        `yaml:"id"`
	Start      regionSpec    `yaml:"start"`
	Checkpoint []float64     `yaml:"checkpoint"`
	Target     time.Duration `yaml:"target"`
}

type regionSpec struct {
	Min    []float64 `yaml:"min"`
	Max    []float64 `yaml:"max"`
	Center []float64 `yaml:"center"`
	Radius float64   `yaml:"radius"`
}

// Load reads and validates every course in a YAML courses file.
func Load(path string) ([]*Course, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errReadCourses.Wrap(err)
	}

	return Parse(data)
}

// Parse decodes and validates courses from YAML.
func Parse(data []byte) ([]*Course, error) {
	var spec fileSpec

	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, errReadCourses.Wrap(err)
	}

	courses := make([]*Course, 0, len(spec.Courses))
	names := make(map[string]bool, len(spec.Courses))

	for _, cs := range spec.Courses {
		if names[cs.Name] {
			return nil, ErrInvalidCourse.Wrap(errDuplicateCourse.Fmt(cs.Name))
		}

		names[cs.Name] = true

		c, err := cs.build()
		if err != nil {
			return nil, err
		}

		courses = append(courses, c)
	}

	return courses, nil
}

func (cs courseSpec) build() (*Course, error) {
	start, err := cs.Start.region(cs.Name, "start")
	if err != nil {
		return nil, ErrInvalidCourse.Wrap(err)
	}

	end, err := cs.End.region(cs.Name, "end")
	if err != nil {
		return nil, ErrInvalidCourse.Wrap(err)
	}

	levels := make([]Level, 0, len(cs.Levels))

	for i, ls := range cs.Levels {
		name := ls.ID
		if name == "" {
			name = "level " + strconv.Itoa(i+1)
		}

		levelStart, err := ls.Start.region(cs.Name, name+" start")
		if err != nil {
			return nil, ErrInvalidCourse.Wrap(err)
		}

		checkpoint, err := vec(cs.Name, name+" checkpoint", ls.Checkpoint)
		if err != nil {
			return nil, ErrInvalidCourse.Wrap(err)
		}

		levels = append(levels, Level{
			ID:         ls.ID,
			Start:      levelStart,
			Checkpoint: checkpoint,
			Target:     ls.Target,
		})
	}

	return New(cs.Name, start, end, levels)
}

func (rs regionSpec) region(courseName, what string) (geom.Region, error) {
	switch {
	case len(rs.Min) > 0 || len(rs.Max) > 0:
		lo, err := vec(courseName, what+" min", rs.Min)
		if err != nil {
			return nil, err
		}

		hi, err := vec(courseName, what+" max", rs.Max)
		if err != nil {
			return nil, err
		}

		return geom.NewBox(lo, hi), nil
	case len(rs.Center) > 0 && rs.Radius > 0:
		c, err := vec(courseName, what+" center", rs.Center)
		if err != nil {
			return nil, err
		}

		return geom.Sphere{Center: c, Radius: rs.Radius}, nil
	default:
		return nil, errInvalidRegion.Fmt(courseName, what)
	}
}

func vec(courseName, what string, v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, errInvalidVector.Fmt(courseName, what, len(v))
	}

	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}
