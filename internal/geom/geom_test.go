package geom

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestBoxContains(t *testing.T) {
	box := NewBox(mgl64.Vec3{10, 5, 10}, mgl64.Vec3{0, 0, 0})

	testCases := []struct {
		Name string
		P    mgl64.Vec3
		Want bool
	}{
		{Name: "inside", P: mgl64.Vec3{5, 2, 5}, Want: true},
		{Name: "min corner", P: mgl64.Vec3{0, 0, 0}, Want: true},
		{Name: "max corner", P: mgl64.Vec3{10, 5, 10}, Want: true},
		{Name: "above", P: mgl64.Vec3{5, 5.01, 5}, Want: false},
		{Name: "negative x", P: mgl64.Vec3{-0.5, 1, 1}, Want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, box.Contains(tc.P))
		})
	}
}

func TestSphereContains(t *testing.T) {
	s := Sphere{Center: mgl64.Vec3{0, 64, 0}, Radius: 2}

	assert.True(t, s.Contains(mgl64.Vec3{1, 65, 1}))
	assert.True(t, s.Contains(mgl64.Vec3{2, 64, 0}))
	assert.False(t, s.Contains(mgl64.Vec3{2, 65, 0}))
}

func TestBlockAt(t *testing.T) {
	b := BlockAt(mgl64.Vec3{-0.5, 64.99, 3.2})

	assert.Equal(t, Block{-1, 64, 3}, b)
	assert.Equal(t, Block{-1, 63, 3}, b.Below())
	assert.Equal(t, "-1,63,3", b.Below().String())
}
