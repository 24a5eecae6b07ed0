package static_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayoisaiah/parkour/internal/course"
	"github.com/ayoisaiah/parkour/internal/static"
)

func TestExampleCoursesAreValid(t *testing.T) {
	courses, err := course.Parse(static.Courses())
	require.NoError(t, err)
	require.Len(t, courses, 1)

	assert.Equal(t, "tutorial", courses[0].Name)
	assert.Equal(t, 3, courses[0].Len())
}

func TestInstallCourses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "courses.yml")

	wrote, err := static.InstallCourses(path)
	require.NoError(t, err)
	assert.True(t, wrote)

	require.NoError(t, os.WriteFile(path, []byte("courses: []\n"), 0o600))

	wrote, err = static.InstallCourses(path)
	require.NoError(t, err)
	assert.False(t, wrote)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "courses: []\n", string(b))
}
