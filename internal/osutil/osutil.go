// Package osutil holds operating system constants used across parkour.
package osutil

import (
	"os"
	"path/filepath"
)

const Windows = "windows"

// ExitCode is a process exit status.
type ExitCode int

const (
	ExitOK    ExitCode = 0
	ExitError ExitCode = 1
)

const (
	DirPermission  = 0o755
	FilePermission = 0o600
)

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), DirPermission)
}
