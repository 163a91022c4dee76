// Package style enumerates style modes and substitutes per-mode style payloads
// into bundle code.
package style

import "github.com/SunDr17/stencil/internal/component"

// AllModes returns every mode name declared by cmps, plus the default mode when
// some component declares no modes. Names appear once, in discovery order.
// An empty input yields only the default mode.
func AllModes(cmps []*component.Component) []string {
	seen := make(map[string]struct{}, 4)
	modes := make([]string, 0, 4)
	add := func(mode string) {
		if _, ok := seen[mode]; ok {
			return
		}
		seen[mode] = struct{}{}
		modes = append(modes, mode)
	}

	needDefault := len(cmps) == 0
	for _, cmp := range cmps {
		declared := cmp.Modes()
		if len(declared) == 0 {
			needDefault = true
			continue
		}
		for _, mode := range declared {
			add(mode)
		}
	}
	if needDefault {
		add(component.DefaultMode)
	}
	return modes
}
