package project

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/text/unicode/norm"

	"github.com/SunDr17/stencil/internal/component"
)

// DefaultManifest is the manifest location used when [build].manifest is unset.
const DefaultManifest = ".stencil/manifest.mp"

// Config is the decoded stencil.toml.
type Config struct {
	Namespace  string            `toml:"namespace"`
	Build      BuildConfig       `toml:"build"`
	Outputs    []OutputConfig    `toml:"output"`
	Components []ComponentConfig `toml:"component"`
}

type BuildConfig struct {
	Source   string `toml:"source"`
	Jobs     int    `toml:"jobs"`
	Emit     string `toml:"emit"`
	Minify   bool   `toml:"minify"`
	Target   string `toml:"target"`
	Manifest string `toml:"manifest"`
}

type OutputConfig struct {
	Type string `toml:"type"`
	Dir  string `toml:"dir"`
}

// ComponentConfig maps mode names to stylesheet paths.
type ComponentConfig struct {
	Tag    string            `toml:"tag"`
	Styles map[string]string `toml:"styles"`
}

// LoadConfig decodes and validates the project file at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}
	if !meta.IsDefined("build") {
		return Config{}, fmt.Errorf("%s: missing [build]", path)
	}
	if !meta.IsDefined("build", "source") || strings.TrimSpace(cfg.Build.Source) == "" {
		return Config{}, fmt.Errorf("%s: missing [build].source", path)
	}
	if !meta.IsDefined("build", "minify") {
		cfg.Build.Minify = true
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if strings.TrimSpace(cfg.Build.Manifest) == "" {
		cfg.Build.Manifest = DefaultManifest
	}
	for i, out := range cfg.Outputs {
		if strings.TrimSpace(out.Dir) == "" {
			return Config{}, fmt.Errorf("%s: missing [[output]].dir (entry %d)", path, i+1)
		}
	}

	seen := make(map[string]struct{}, len(cfg.Components))
	for i := range cfg.Components {
		c := &cfg.Components[i]
		c.Tag = norm.NFC.String(strings.TrimSpace(c.Tag))
		if err := component.ValidateTag(c.Tag); err != nil {
			return Config{}, fmt.Errorf("%s: [[component]] entry %d: %w", path, i+1, err)
		}
		if _, dup := seen[c.Tag]; dup {
			return Config{}, fmt.Errorf("%s: duplicate component %q", path, c.Tag)
		}
		seen[c.Tag] = struct{}{}

		styles := make(map[string]string, len(c.Styles))
		for mode, file := range c.Styles {
			mode = norm.NFC.String(strings.TrimSpace(mode))
			if err := component.ValidateMode(mode); err != nil {
				return Config{}, fmt.Errorf("%s: component %q: %w", path, c.Tag, err)
			}
			if _, dup := styles[mode]; dup {
				return Config{}, fmt.Errorf("%s: component %q: duplicate mode %q", path, c.Tag, mode)
			}
			styles[mode] = file
		}
		c.Styles = styles
	}
	return cfg, nil
}

// SortedModes returns the modes of c with the default mode first and the rest
// in lexical order.
func (c ComponentConfig) SortedModes() []string {
	modes := make([]string, 0, len(c.Styles))
	for mode := range c.Styles {
		modes = append(modes, mode)
	}
	sort.Slice(modes, func(i, j int) bool {
		if (modes[i] == component.DefaultMode) != (modes[j] == component.DefaultMode) {
			return modes[i] == component.DefaultMode
		}
		return modes[i] < modes[j]
	})
	return modes
}
