package utils

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// FileExists reports whether path can be stat'ed.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and its parents.
func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

// WritableDir creates dir if needed and reports whether files can be
// created inside it.
func WritableDir(dir string) bool {
	if err := EnsureDir(dir); err != nil {
		log.Warnf("Cannot create directory %s: %v", dir, err)
		return false
	}
	f, err := os.CreateTemp(dir, ".wordpredict-*")
	if err != nil {
		log.Warnf("Cannot write to directory %s: %v", dir, err)
		return false
	}
	f.Close()
	os.Remove(f.Name())
	return true
}

// WriteTOMLFile encodes v to path through a temp file in the same
// directory, so readers never see a half-written file.
func WriteTOMLFile(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(v); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// AbsPath returns path made absolute, or path itself if that fails.
func AbsPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ExecutableDir returns the directory holding the running binary.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// ResolvePath resolves a relative path against the working directory first
// and the executable directory second. Absolute paths are returned as is.
func ResolvePath(path string) string {
	if path == "" || filepath.IsAbs(path) || FileExists(path) {
		return path
	}
	if dir, err := ExecutableDir(); err == nil {
		candidate := filepath.Join(dir, path)
		if FileExists(candidate) {
			return candidate
		}
	}
	return path
}
