package platform

import (
	"os"
	"runtime"
)

// Permission defaults for generated project content.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
	ExecPerm os.FileMode = 0755
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// ModeOf returns the permission bits of an existing file, or fallback when the
// file cannot be stat'ed.
func ModeOf(path string, fallback os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return fallback
	}
	return info.Mode().Perm()
}
