package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Default permissions for installed files and directories.
const (
	DirPerm  os.FileMode = 0o755
	FilePerm os.FileMode = 0o644
)

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// WriteFile writes data to path, creating parent directories, and applies
// mode even when the file already existed. A zero mode means FilePerm.
func WriteFile(path string, data []byte, mode os.FileMode) error {
	if mode == 0 {
		mode = FilePerm
	}
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, mode); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := Chmod(path, mode.Perm()); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	return nil
}

// RemoveEmptyDirs removes each directory in order if it is empty. Missing
// or non-empty directories are left alone.
func RemoveEmptyDirs(dirs ...string) {
	for _, dir := range dirs {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			continue
		}
		_ = os.Remove(dir)
	}
}
