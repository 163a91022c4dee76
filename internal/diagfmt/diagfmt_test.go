package diagfmt

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SunDr17/stencil/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(0)
	bag.Add(diag.NewError(diag.OptBundleError, "Expected \";\" but found \"}\"").
		WithMode("dark").
		WithOrigin(diag.Origin{File: filepath.FromSlash("/proj/build/app-core.js"), Line: 3, Column: 7}).
		WithNote(diag.Origin{}, "while minifying"))
	bag.Add(diag.NewWarning(diag.IOReadStyle, "open src/a.css: no such file").
		WithComponent("my-card").
		WithMode("$"))
	return bag
}

func TestPrettyPlain(t *testing.T) {
	var buf bytes.Buffer
	err := Pretty(&buf, sampleBag(), PrettyOpts{
		BaseDir:   filepath.FromSlash("/proj"),
		ShowNotes: true,
		Summary:   true,
	})
	if err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	want := strings.Join([]string{
		`build/app-core.js:3:7: ERROR OPT1001 [mode dark]: Expected ";" but found "}"`,
		`    note: while minifying`,
		`WARNING IO3002 [mode $] <my-card>: open src/a.css: no such file`,
		`1 error, 1 warning`,
		``,
	}, "\n")
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestPrettyColorAddsEscapes(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{Color: true}); err != nil {
		t.Fatalf("Pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Fatalf("expected ANSI escapes, got %q", buf.String())
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{PathMode: PathModeBasename, Max: 1, IncludeNotes: true}); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 {
		t.Fatalf("unexpected count %d", out.Count)
	}
	d := out.Diagnostics[0]
	if d.Code != "OPT1001" || d.Mode != "dark" || d.Location == nil || d.Location.File != "app-core.js" || d.Location.Line != 3 {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location != nil {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
}

func TestFormatPath(t *testing.T) {
	base := filepath.FromSlash("/proj")
	in := filepath.FromSlash("/proj/src/a.js")
	out := filepath.FromSlash("/other/a.js")
	if got := formatPath(in, PathModeAuto, base); got != "src/a.js" {
		t.Fatalf("auto inside: %q", got)
	}
	if got := formatPath(out, PathModeAuto, base); got != filepath.ToSlash(out) {
		t.Fatalf("auto outside: %q", got)
	}
	if got := formatPath(out, PathModeRelative, base); got != "../other/a.js" {
		t.Fatalf("relative: %q", got)
	}
}
