// Package optimize defines the bundle optimizer contract and its implementations.
package optimize

import (
	"context"

	"github.com/SunDr17/stencil/internal/diag"
)

// Result is the outcome of one optimization. Diagnostics is always set (possibly
// empty); Output is set only on a clean optimization.
type Result struct {
	Output      *string
	Diagnostics []diag.Diagnostic
}

// Clean reports whether the result carries output and no diagnostics.
func (r Result) Clean() bool {
	return r.Output != nil && len(r.Diagnostics) == 0
}

// Optimizer performs dead-code elimination, minification or module restructuring
// on bundle code. Implementations must be safe for concurrent use.
type Optimizer interface {
	Optimize(ctx context.Context, code string) Result
}

// Func adapts a plain function to Optimizer.
type Func func(ctx context.Context, code string) Result

func (f Func) Optimize(ctx context.Context, code string) Result {
	return f(ctx, code)
}

// Passthrough returns the code unchanged. Used when minification is disabled.
type Passthrough struct{}

func (Passthrough) Optimize(_ context.Context, code string) Result {
	return Result{Output: &code, Diagnostics: []diag.Diagnostic{}}
}
