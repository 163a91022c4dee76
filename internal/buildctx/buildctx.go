// Package buildctx holds the state shared by every pass of a single build.
package buildctx

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SunDr17/stencil/internal/diag"
)

// BuildCtx lives for exactly one build.
type BuildCtx struct {
	ID          uuid.UUID
	Started     time.Time
	Diagnostics *Diagnostics
}

// New creates a build context with a fresh build ID.
func New() *BuildCtx {
	return &BuildCtx{
		ID:          uuid.New(),
		Started:     time.Now(),
		Diagnostics: &Diagnostics{},
	}
}

// Diagnostics is the append-only, goroutine-safe diagnostics collection of a build.
// Existing entries are never removed or reordered.
type Diagnostics struct {
	mu    sync.Mutex
	items []diag.Diagnostic
}

// Append adds diagnostics in the given order.
func (d *Diagnostics) Append(items ...diag.Diagnostic) {
	if d == nil || len(items) == 0 {
		return
	}
	d.mu.Lock()
	d.items = append(d.items, items...)
	d.mu.Unlock()
}

// Report implements diag.Reporter.
func (d *Diagnostics) Report(item diag.Diagnostic) {
	d.Append(item)
}

// Len returns the number of collected diagnostics.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.items)
}

// Snapshot returns a copy of the collected diagnostics.
func (d *Diagnostics) Snapshot() []diag.Diagnostic {
	if d == nil {
		return nil
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]diag.Diagnostic, len(d.items))
	copy(out, d.items)
	return out
}

// HasErrors reports whether any error diagnostic was collected.
func (d *Diagnostics) HasErrors() bool {
	return d.Bag().HasErrors()
}

// Bag copies the collection into a diag.Bag with the widest limit.
func (d *Diagnostics) Bag() *diag.Bag {
	bag := diag.NewBag(0)
	for _, item := range d.Snapshot() {
		if !bag.Add(item) {
			break
		}
	}
	return bag
}
