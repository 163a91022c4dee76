package style

import (
	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
)

// Registry is the default style registry used by the self-contained writer.
// It is stateless; both methods are deterministic for identical inputs.
type Registry struct{}

func (Registry) AllModes(cmps []*component.Component) []string {
	return AllModes(cmps)
}

func (Registry) ReplacePlaceholders(cmps []*component.Component, mode, code string) (string, []diag.Diagnostic) {
	return ReplacePlaceholders(cmps, mode, code)
}
