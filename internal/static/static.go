// Package static embeds the example files that are copied to disk on first
// run
package static

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ayoisaiah/parkour/internal/osutil"
)

const coursesFile = "files/courses.yml"

//go:embed files/*
var embeddedFiles embed.FS

// Courses returns the example courses file.
func Courses() []byte {
	b, _ := embeddedFiles.ReadFile(coursesFile)
	return b
}

// InstallCourses writes the example courses file to path unless a file is
// already there. It reports whether it wrote the file.
func InstallCourses(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}

	if err := osutil.EnsureParentDir(path); err != nil {
		return false, err
	}

	err := os.WriteFile(filepath.Clean(path), Courses(), osutil.FilePermission)
	if err != nil {
		return false, err
	}

	return true, nil
}
