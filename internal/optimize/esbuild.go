package optimize

import (
	"context"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/evanw/esbuild/pkg/api"

	"github.com/SunDr17/stencil/internal/diag"
)

// EsbuildOptions configures the esbuild-backed optimizer.
type EsbuildOptions struct {
	// Target is an ECMAScript target such as "es2017" or "esnext".
	Target string
	// Sourcefile is the name reported in diagnostics.
	Sourcefile string
	// KeepNames preserves function and class names under identifier minification.
	KeepNames bool
}

// Esbuild minifies bundle code with the esbuild transform API.
type Esbuild struct {
	opts api.TransformOptions
}

var targets = map[string]api.Target{
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

// ParseTarget validates an ECMAScript target name.
func ParseTarget(name string) (api.Target, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return api.ES2017, nil
	}
	t, ok := targets[key]
	if !ok {
		return api.DefaultTarget, fmt.Errorf("unsupported target %q (expected es2015..es2022 or esnext)", name)
	}
	return t, nil
}

// NewEsbuild builds an optimizer for the given options.
func NewEsbuild(opts EsbuildOptions) (*Esbuild, error) {
	target, err := ParseTarget(opts.Target)
	if err != nil {
		return nil, err
	}
	sourcefile := opts.Sourcefile
	if sourcefile == "" {
		sourcefile = "app-core.js"
	}
	return &Esbuild{
		opts: api.TransformOptions{
			Loader:            api.LoaderJS,
			Format:            api.FormatESModule,
			Target:            target,
			Charset:           api.CharsetUTF8,
			LegalComments:     api.LegalCommentsNone,
			MinifyWhitespace:  true,
			MinifyIdentifiers: true,
			MinifySyntax:      true,
			KeepNames:         opts.KeepNames,
			Sourcefile:        sourcefile,
		},
	}, nil
}

// Optimize runs the esbuild transform. Every esbuild error and warning becomes
// a diagnostic; output is only returned when there are none.
func (e *Esbuild) Optimize(ctx context.Context, code string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Diagnostics: []diag.Diagnostic{
			diag.NewError(diag.OptOptimizerFailure, "optimizer not started: "+err.Error()),
		}}
	}

	res := api.Transform(code, e.opts)
	diags := make([]diag.Diagnostic, 0, len(res.Errors)+len(res.Warnings))
	for _, msg := range res.Errors {
		diags = append(diags, fromMessage(diag.SevError, diag.OptBundleError, msg))
	}
	for _, msg := range res.Warnings {
		diags = append(diags, fromMessage(diag.SevWarning, diag.OptBundleWarning, msg))
	}
	if len(diags) > 0 {
		return Result{Diagnostics: diags}
	}
	out := string(res.Code)
	return Result{Output: &out, Diagnostics: diags}
}

func fromMessage(sev diag.Severity, code diag.Code, msg api.Message) diag.Diagnostic {
	d := diag.New(sev, code, msg.Text)
	if loc := msg.Location; loc != nil {
		d = d.WithOrigin(origin(loc.File, loc.Line, loc.Column+1))
	}
	for _, note := range msg.Notes {
		var o diag.Origin
		if loc := note.Location; loc != nil {
			o = origin(loc.File, loc.Line, loc.Column+1)
		}
		d = d.WithNote(o, note.Text)
	}
	return d
}

func origin(file string, line, column int) diag.Origin {
	o := diag.Origin{File: file}
	if l, err := safecast.Conv[uint32](line); err == nil {
		o.Line = l
	}
	if c, err := safecast.Conv[uint32](column); err == nil {
		o.Column = c
	}
	return o
}
