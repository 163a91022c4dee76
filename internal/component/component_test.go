package component

import "testing"

func TestComponentModesAndStyle(t *testing.T) {
	cmp := &Component{
		Tag: "my-button",
		Styles: []Style{
			{Mode: DefaultMode, Text: ":host{}"},
			{Mode: "dark", Text: ":host{color:#fff}"},
		},
	}
	modes := cmp.Modes()
	if len(modes) != 2 || modes[0] != DefaultMode || modes[1] != "dark" {
		t.Fatalf("unexpected modes: %v", modes)
	}
	if !cmp.Declares("dark") {
		t.Fatalf("expected dark to be declared")
	}
	if cmp.Declares("ios") {
		t.Fatalf("ios must not be declared")
	}
	st, ok := cmp.Style("dark")
	if !ok || st.Text != ":host{color:#fff}" {
		t.Fatalf("unexpected dark style: %+v ok=%v", st, ok)
	}
}

func TestNilComponentHasNoModes(t *testing.T) {
	var cmp *Component
	if got := cmp.Modes(); got != nil {
		t.Fatalf("expected nil modes, got %v", got)
	}
	if cmp.Declares(DefaultMode) {
		t.Fatalf("nil component declares nothing")
	}
}

func TestFilterSelfContained(t *testing.T) {
	targets := []OutputTarget{
		{Dir: "/a"},
		{Type: TargetSelfContained, Dir: "/b"},
		{Type: "www", Dir: "/c"},
	}
	got := FilterSelfContained(targets)
	if len(got) != 2 || got[0].Dir != "/a" || got[1].Dir != "/b" {
		t.Fatalf("unexpected targets: %+v", got)
	}
}
