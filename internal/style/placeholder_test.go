package style

import (
	"strings"
	"testing"

	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
)

func TestPlaceholder(t *testing.T) {
	if got := Placeholder("my-button"); got != "/**:style:MY-BUTTON:**/" {
		t.Fatalf("unexpected placeholder %q", got)
	}
}

func testComponents() []*component.Component {
	return []*component.Component{
		{Tag: "my-button", Styles: []component.Style{
			{Mode: component.DefaultMode, Text: "button{}"},
			{Mode: "dark", Text: "button{color:\"white\"}"},
		}},
		{Tag: "my-icon"},
	}
}

func TestReplacePlaceholdersUsesModeStyle(t *testing.T) {
	code := "a(" + Placeholder("my-button") + ");b(" + Placeholder("my-icon") + ");"
	got, diags := ReplacePlaceholders(testComponents(), "dark", code)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	want := `a("button{color:\"white\"}");b("");`
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestReplacePlaceholdersFallsBackToDefault(t *testing.T) {
	code := "a(" + Placeholder("my-button") + ");"
	got, diags := ReplacePlaceholders(testComponents(), "ios", code)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %+v", diags)
	}
	if got != `a("button{}");` {
		t.Fatalf("got %q", got)
	}
}

func TestReplacePlaceholdersIsTotal(t *testing.T) {
	cmps := testComponents()
	code := strings.Repeat(Placeholder("my-button")+Placeholder("my-icon"), 3)
	for _, mode := range []string{component.DefaultMode, "dark", "other"} {
		got, _ := ReplacePlaceholders(cmps, mode, code)
		if strings.Contains(got, "/**:style:") {
			t.Fatalf("mode %s: unresolved placeholder left in %q", mode, got)
		}
	}
}

func TestReplacePlaceholdersLeavesUnknownTags(t *testing.T) {
	code := Placeholder("other-cmp")
	got, _ := ReplacePlaceholders(testComponents(), "dark", code)
	if got != code {
		t.Fatalf("unknown placeholder must be left alone, got %q", got)
	}
}

func TestReplacePlaceholdersReportsMissingPayload(t *testing.T) {
	cmps := []*component.Component{
		{Tag: "my-card", Styles: []component.Style{{Mode: "dark", Missing: true}}},
		{Tag: "my-icon", Styles: []component.Style{{Mode: "dark", Text: "i{}"}}},
	}
	code := Placeholder("my-card") + "|" + Placeholder("my-icon")
	got, diags := ReplacePlaceholders(cmps, "dark", code)
	if len(diags) != 1 {
		t.Fatalf("expected one diagnostic, got %+v", diags)
	}
	d := diags[0]
	if d.Code != diag.StyMissingForMode || d.Severity != diag.SevError || d.Mode != "dark" || d.Component != "my-card" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if got != Placeholder("my-card")+`|"i{}"` {
		t.Fatalf("best-effort substitution mismatch: %q", got)
	}
}

func TestReplacePlaceholdersWithoutPlaceholders(t *testing.T) {
	got, diags := ReplacePlaceholders(testComponents(), "dark", "PLACEHOLDER")
	if got != "PLACEHOLDER" || len(diags) != 0 {
		t.Fatalf("got %q %+v", got, diags)
	}
}

func TestQuoteKeepsMarkup(t *testing.T) {
	if got := quote("a>b<c&d"); got != `"a>b<c&d"` {
		t.Fatalf("got %s", got)
	}
	if got := quote("line\nnext"); got != `"line\nnext"` {
		t.Fatalf("got %s", got)
	}
}
