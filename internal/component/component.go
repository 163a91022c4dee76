// Package component describes compiled web components as seen by the output stage.
package component

import "strings"

// DefaultMode is the reserved name of the unnamed style mode.
const DefaultMode = "$"

// TargetSelfContained is the output target type served by the self-contained writer.
const TargetSelfContained = "self-contained"

// Style is one style payload of a component for a single mode.
type Style struct {
	Mode string
	Text string
	// Missing marks a declared style whose payload could not be resolved
	// (e.g. the stylesheet file was not readable).
	Missing bool
}

// Component is an immutable record of one compiled component.
type Component struct {
	Tag    string
	Styles []Style
}

// Modes returns the mode names declared by the component, in declaration order.
func (c *Component) Modes() []string {
	if c == nil || len(c.Styles) == 0 {
		return nil
	}
	modes := make([]string, 0, len(c.Styles))
	for _, st := range c.Styles {
		modes = append(modes, st.Mode)
	}
	return modes
}

// Declares reports whether the component declares a style for mode.
func (c *Component) Declares(mode string) bool {
	_, ok := c.Style(mode)
	return ok
}

// Style returns the style declared for mode.
func (c *Component) Style(mode string) (Style, bool) {
	if c == nil {
		return Style{}, false
	}
	for _, st := range c.Styles {
		if st.Mode == mode {
			return st, true
		}
	}
	return Style{}, false
}

// OutputTarget names a destination directory for artifacts.
type OutputTarget struct {
	Type string
	Dir  string
}

// SelfContained reports whether the target receives self-contained artifacts.
// An empty type is treated as self-contained.
func (t OutputTarget) SelfContained() bool {
	typ := strings.TrimSpace(t.Type)
	return typ == "" || typ == TargetSelfContained
}

// FilterSelfContained keeps only the targets served by this stage.
func FilterSelfContained(targets []OutputTarget) []OutputTarget {
	out := make([]OutputTarget, 0, len(targets))
	for _, t := range targets {
		if t.SelfContained() {
			out = append(out, t)
		}
	}
	return out
}
