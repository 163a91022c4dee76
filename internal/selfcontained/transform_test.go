package selfcontained

import (
	"context"
	"testing"

	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
	"github.com/SunDr17/stencil/internal/optimize"
	"github.com/SunDr17/stencil/internal/style"
)

func TestTransformModeUsesCleanOutput(t *testing.T) {
	cmps := []*component.Component{{Tag: "my-button", Styles: []component.Style{{Mode: "dark", Text: "d"}}}}
	var seen string
	opt := optimize.Func(func(_ context.Context, code string) optimize.Result {
		seen = code
		out := "min"
		return optimize.Result{Output: &out, Diagnostics: []diag.Diagnostic{}}
	})
	res := TransformMode(context.Background(), style.Registry{}, opt, cmps, "dark", "f("+style.Placeholder("my-button")+")")
	if seen != `f("d")` {
		t.Fatalf("optimizer saw %q", seen)
	}
	if !res.Optimized || res.Code != "min" || len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestTransformModeTagsDiagnosticsWithMode(t *testing.T) {
	cmps := []*component.Component{{Tag: "my-card", Styles: []component.Style{{Mode: "dark", Missing: true}}}}
	opt := optimize.Func(func(_ context.Context, code string) optimize.Result {
		return optimize.Result{Diagnostics: []diag.Diagnostic{
			diag.NewWarning(diag.OptBundleWarning, "w"),
			diag.NewError(diag.OptBundleError, "e").WithMode("explicit"),
		}}
	})
	code := style.Placeholder("my-card")
	res := TransformMode(context.Background(), style.Registry{}, opt, cmps, "dark", code)
	if res.Optimized || res.Code != code {
		t.Fatalf("expected fallback to substituted code, got %+v", res)
	}
	if len(res.Diagnostics) != 3 {
		t.Fatalf("expected style + 2 optimizer diagnostics, got %+v", res.Diagnostics)
	}
	if res.Diagnostics[0].Code != diag.StyMissingForMode {
		t.Fatalf("style diagnostics come first: %+v", res.Diagnostics[0])
	}
	wantModes := []string{"dark", "dark", "explicit"}
	for i, d := range res.Diagnostics {
		if d.Mode != wantModes[i] {
			t.Fatalf("diagnostic %d mode = %q, want %q", i, d.Mode, wantModes[i])
		}
	}
}
