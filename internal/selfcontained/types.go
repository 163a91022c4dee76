// Package selfcontained writes one self-contained script per component, style
// mode and output target.
//
// The bundle source is specialised once per mode (style substitution followed
// by the optimizer) and the resulting code is shared by every component and
// target of that mode. Diagnostics from all modes land in the build context.
package selfcontained

import (
	"fmt"
	"strings"
	"time"

	"github.com/SunDr17/stencil/internal/buildctx"
	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
	"github.com/SunDr17/stencil/internal/metrics"
	"github.com/SunDr17/stencil/internal/optimize"
	"github.com/SunDr17/stencil/internal/vfs"
)

// StyleRegistry enumerates modes and substitutes style placeholders. Both
// methods must be deterministic and safe for concurrent use.
type StyleRegistry interface {
	AllModes(cmps []*component.Component) []string
	ReplacePlaceholders(cmps []*component.Component, mode, code string) (string, []diag.Diagnostic)
}

// EmitPolicy decides which (component, mode) pairs receive an artifact.
type EmitPolicy uint8

const (
	// EmitAll writes every component for every enumerated mode. Components
	// without a style for a mode are written with their default-mode styling.
	EmitAll EmitPolicy = iota
	// EmitDeclared writes every component for the default mode, and for other
	// modes only when the component declares them.
	EmitDeclared
)

func (p EmitPolicy) String() string {
	switch p {
	case EmitAll:
		return "all"
	case EmitDeclared:
		return "declared"
	}
	return "unknown"
}

// ParseEmitPolicy converts "all" or "declared" to an EmitPolicy.
func ParseEmitPolicy(s string) (EmitPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return EmitAll, nil
	case "declared":
		return EmitDeclared, nil
	}
	return EmitAll, fmt.Errorf("invalid emit policy %q (expected all|declared)", s)
}

// Covers reports whether cmp receives an artifact for mode under the policy.
func (p EmitPolicy) Covers(cmp *component.Component, mode string) bool {
	if p != EmitDeclared {
		return true
	}
	return mode == component.DefaultMode || cmp.Declares(mode)
}

// Observer receives completion notices. Methods are called concurrently.
type Observer interface {
	ModeDone(res ModeResult)
	ArtifactDone(art Artifact)
}

// Request configures one run of the writer.
type Request struct {
	Components []*component.Component
	Targets    []component.OutputTarget
	Source     string

	Build     *buildctx.BuildCtx
	Styles    StyleRegistry
	Optimizer optimize.Optimizer
	FS        vfs.FS

	// Jobs limits concurrent tasks per fan-out level; <= 0 means GOMAXPROCS.
	Jobs     int
	Emit     EmitPolicy
	Recorder metrics.Recorder
	Observer Observer
}

// ModeResult is the code produced for one mode. It is created once per mode
// and build and shared by every artifact of that mode.
type ModeResult struct {
	Mode        string
	Code        string
	Diagnostics []diag.Diagnostic
	// Optimized is true when Code is the optimizer output.
	Optimized bool
	Duration  time.Duration
}

// Artifact is one attempted write. Err is set when the write failed.
type Artifact struct {
	Component string
	Mode      string
	TargetDir string
	Path      string
	Size      int
	Err       error
}

// Result summarises a run.
type Result struct {
	Modes       []string
	ModeResults []ModeResult
	Artifacts   []Artifact
}

// Written returns the artifacts that were written successfully.
func (r *Result) Written() []Artifact {
	if r == nil {
		return nil
	}
	out := make([]Artifact, 0, len(r.Artifacts))
	for _, a := range r.Artifacts {
		if a.Err == nil {
			out = append(out, a)
		}
	}
	return out
}

// Failed returns the artifacts whose write failed.
func (r *Result) Failed() []Artifact {
	if r == nil {
		return nil
	}
	var out []Artifact
	for _, a := range r.Artifacts {
		if a.Err != nil {
			out = append(out, a)
		}
	}
	return out
}
