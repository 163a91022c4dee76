package selfcontained

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
	"github.com/SunDr17/stencil/internal/optimize"
	"github.com/SunDr17/stencil/internal/vfs"
)

// countingOptimizer counts invocations per input and delegates to fn.
type countingOptimizer struct {
	calls atomic.Int64
	fn    func(code string) optimize.Result
}

func (c *countingOptimizer) Optimize(_ context.Context, code string) optimize.Result {
	c.calls.Add(1)
	return c.fn(code)
}

func cleanOptimizer(out string) *countingOptimizer {
	return &countingOptimizer{fn: func(string) optimize.Result {
		s := out
		return optimize.Result{Output: &s, Diagnostics: []diag.Diagnostic{}}
	}}
}

func failingOptimizer(msg string) *countingOptimizer {
	return &countingOptimizer{fn: func(string) optimize.Result {
		return optimize.Result{Diagnostics: []diag.Diagnostic{diag.NewError(diag.OptBundleError, msg)}}
	}}
}

// flakyFS fails writes to the listed paths and records every write.
type flakyFS struct {
	*vfs.Afero
	fail map[string]bool

	mu     sync.Mutex
	writes map[string]int
}

var errDiskFull = errors.New("disk full")

func newFlakyFS(fail ...string) *flakyFS {
	f := &flakyFS{Afero: vfs.Memory(), fail: map[string]bool{}, writes: map[string]int{}}
	for _, p := range fail {
		f.fail[p] = true
	}
	return f
}

func (f *flakyFS) WriteFile(path, contents string) error {
	f.mu.Lock()
	f.writes[path]++
	f.mu.Unlock()
	if f.fail[path] {
		return errDiskFull
	}
	return f.Afero.WriteFile(path, contents)
}

func outPath(parts ...string) string {
	return filepath.FromSlash(filepath.Join(parts...))
}

func scenarioComponents() []*component.Component {
	return []*component.Component{
		{Tag: "my-button", Styles: []component.Style{{Mode: "dark", Text: "b{}"}}},
		{Tag: "my-icon"},
	}
}

func outTarget() []component.OutputTarget {
	return []component.OutputTarget{{Dir: filepath.FromSlash("/out")}}
}
