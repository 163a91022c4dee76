package selfcontained

import (
	"context"
	"time"

	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
	"github.com/SunDr17/stencil/internal/optimize"
)

// TransformMode specialises code for mode: style placeholders are substituted,
// then the optimizer runs. The optimizer output is used only when it returned
// a string and no diagnostics at all; otherwise the substituted code is kept.
// Every returned diagnostic is tagged with mode.
func TransformMode(ctx context.Context, styles StyleRegistry, opt optimize.Optimizer, cmps []*component.Component, mode, code string) ModeResult {
	start := time.Now()

	substituted, styleDiags := styles.ReplacePlaceholders(cmps, mode, code)
	res := opt.Optimize(ctx, substituted)

	diags := make([]diag.Diagnostic, 0, len(styleDiags)+len(res.Diagnostics))
	diags = append(diags, styleDiags...)
	diags = append(diags, res.Diagnostics...)
	for i := range diags {
		if diags[i].Mode == "" {
			diags[i].Mode = mode
		}
	}

	out := ModeResult{
		Mode:        mode,
		Code:        substituted,
		Diagnostics: diags,
	}
	if res.Clean() {
		out.Code = *res.Output
		out.Optimized = true
	}
	out.Duration = time.Since(start)
	return out
}
