package testrunner

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/semver"
)

// SupportedRange is the Jest range with an adapter.
const SupportedRange = ">=24.0.0 <30.0.0"

// ErrJestNotInstalled is returned when node_modules/jest is missing.
var ErrJestNotInstalled = errors.New("jest is not installed (node_modules/jest/package.json not found)")

// UnsupportedVersionError is returned for a Jest version without an adapter.
type UnsupportedVersionError struct {
	Version string
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("jest %s is not supported (supported: %s)", e.Version, SupportedRange)
}

// SelectVariant maps a Jest version such as "29.7.0" to its variant.
func SelectVariant(version string) (Variant, error) {
	v := strings.TrimSpace(version)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return 0, fmt.Errorf("invalid jest version %q", version)
	}
	switch {
	case semver.Compare(v, "v24.0.0") < 0, semver.Compare(v, "v30.0.0") >= 0:
		return 0, &UnsupportedVersionError{Version: version}
	case semver.Compare(v, "v27.0.0") < 0:
		return Jest24, nil
	case semver.Major(v) == "v27":
		return Jest27, nil
	case semver.Major(v) == "v28":
		return Jest28, nil
	}
	return Jest29, nil
}

type packageJSON struct {
	Version string `json:"version"`
}

// Detect reads the installed Jest version under root and returns its adapter.
func Detect(root string) (Adapter, error) {
	path := filepath.Join(root, "node_modules", "jest", "package.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Adapter{}, ErrJestNotInstalled
		}
		return Adapter{}, err
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return Adapter{}, fmt.Errorf("%s: %w", path, err)
	}
	variant, err := SelectVariant(pkg.Version)
	if err != nil {
		return Adapter{}, err
	}
	return NewAdapter(variant, pkg.Version)
}
