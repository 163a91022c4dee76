package buildctx

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/SunDr17/stencil/internal/diag"
)

func TestDiagnosticsConcurrentAppend(t *testing.T) {
	ctx := New()
	if ctx.ID == uuid.Nil {
		t.Fatalf("expected a build id")
	}
	const workers = 32
	const perWorker = 50
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				ctx.Diagnostics.Append(diag.NewWarning(diag.OptBundleWarning, "w"))
			}
		}()
	}
	wg.Wait()
	if got := ctx.Diagnostics.Len(); got != workers*perWorker {
		t.Fatalf("lost updates: got %d, want %d", got, workers*perWorker)
	}
	if ctx.Diagnostics.HasErrors() {
		t.Fatalf("only warnings were appended")
	}
}

func TestDiagnosticsSnapshotIsCopy(t *testing.T) {
	d := &Diagnostics{}
	d.Append(diag.NewError(diag.OptBundleError, "a"), diag.NewError(diag.OptBundleError, "b"))
	snap := d.Snapshot()
	snap[0].Message = "changed"
	if d.Snapshot()[0].Message != "a" {
		t.Fatalf("snapshot must not alias internal storage")
	}
	if !d.HasErrors() {
		t.Fatalf("expected errors")
	}
	if bag := d.Bag(); bag.Len() != 2 {
		t.Fatalf("bag lost items: %d", bag.Len())
	}
}

func TestDiagnosticsAsReporter(t *testing.T) {
	d := &Diagnostics{}
	var rep diag.Reporter = d
	rep.Report(diag.NewWarning(diag.IOReadStyle, "unreadable"))
	if d.Len() != 1 || d.HasErrors() {
		t.Fatalf("unexpected collection: %+v", d.Snapshot())
	}
}

func TestNilDiagnosticsIsSafe(t *testing.T) {
	var d *Diagnostics
	d.Append(diag.NewError(diag.OptBundleError, "a"))
	if d.Len() != 0 || d.Snapshot() != nil {
		t.Fatalf("nil collection must stay empty")
	}
}
