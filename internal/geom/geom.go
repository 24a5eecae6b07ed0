// Package geom provides the spatial primitives used by courses: regions,
// block positions and surface materials.
package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Region is a volume that can answer point containment. Implementations must
// be pure.
type Region interface {
	Contains(p mgl64.Vec3) bool
}

// Box is an axis-aligned region. Both corners are inclusive.
type Box struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewBox returns a Box spanning the two corners in any order.
func NewBox(a, b mgl64.Vec3) Box {
	return Box{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

func (b Box) Contains(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}

	return true
}

func (b Box) String() string {
	return fmt.Sprintf("box[%v..%v]", b.Min, b.Max)
}

// Sphere is a region of all points within Radius of Center.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

func (s Sphere) Contains(p mgl64.Vec3) bool {
	return p.Sub(s.Center).Len() <= s.Radius
}

func (s Sphere) String() string {
	return fmt.Sprintf("sphere[%v r=%g]", s.Center, s.Radius)
}

// Block is an integer block position.
type Block [3]int

// BlockAt returns the block that contains p.
func BlockAt(p mgl64.Vec3) Block {
	return Block{
		int(math.Floor(p[0])),
		int(math.Floor(p[1])),
		int(math.Floor(p[2])),
	}
}

// Below returns the block directly underneath b.
func (b Block) Below() Block {
	return Block{b[0], b[1] - 1, b[2]}
}

func (b Block) String() string {
	return fmt.Sprintf("%d,%d,%d", b[0], b[1], b[2])
}

// Material names a surface type, e.g. "stone" or "ladder".
type Material string

const (
	Air         Material = "air"
	StainedClay Material = "stained_clay"
	Ladder      Material = "ladder"
)
