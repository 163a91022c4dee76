package diagfmt

import (
	"path/filepath"
	"strings"
)

func formatPath(path string, mode PathMode, base string) string {
	if path == "" {
		return ""
	}
	switch mode {
	case PathModeAbsolute:
		return path
	case PathModeBasename:
		return filepath.Base(path)
	case PathModeRelative, PathModeAuto:
		if base == "" {
			return filepath.ToSlash(path)
		}
		rel, err := filepath.Rel(base, path)
		if err != nil || (mode == PathModeAuto && strings.HasPrefix(rel, "..")) {
			return filepath.ToSlash(path)
		}
		return filepath.ToSlash(rel)
	}
	return path
}

// DisplayPath shows path relative to base when it lies under base.
func DisplayPath(base, path string) string {
	return formatPath(path, PathModeAuto, base)
}
