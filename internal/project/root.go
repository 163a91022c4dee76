package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileName is the name of the project file.
const FileName = "stencil.toml"

// ErrNoProject is returned when no stencil.toml is found.
var ErrNoProject = errors.New("no " + FileName + " found")

// Find locates the project file for start. start may be the project file
// itself or any directory below the project root; parents are searched up to
// the filesystem root.
func Find(start string) (string, error) {
	if start == "" {
		start = "."
	}
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", start, err)
	}
	if info, err := os.Stat(abs); err == nil && !info.IsDir() {
		if filepath.Base(abs) != FileName {
			return "", fmt.Errorf("%s: not a %s file", abs, FileName)
		}
		return abs, nil
	}
	for dir := abs; ; {
		candidate := filepath.Join(dir, FileName)
		_, err := os.Stat(candidate)
		switch {
		case err == nil:
			return candidate, nil
		case !errors.Is(err, os.ErrNotExist):
			return "", fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrNoProject
		}
		dir = parent
	}
}

// Root returns the directory holding the project file for start.
func Root(start string) (string, error) {
	file, err := Find(start)
	if err != nil {
		return "", err
	}
	return filepath.Dir(file), nil
}

// resolve makes rel absolute against root.
func resolve(root, rel string) string {
	rel = filepath.FromSlash(rel)
	if filepath.IsAbs(rel) {
		return filepath.Clean(rel)
	}
	return filepath.Join(root, rel)
}
