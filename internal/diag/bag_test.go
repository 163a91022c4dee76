package diag

import "testing"

func TestBagRespectsLimit(t *testing.T) {
	bag := NewBag(2)
	for i := 0; i < 3; i++ {
		bag.Add(NewError(OptBundleError, "boom"))
	}
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items, got %d", bag.Len())
	}
	if !bag.HasErrors() {
		t.Fatalf("expected errors to be reported")
	}
	if bag.Add(NewError(OptBundleError, "late")) {
		t.Fatalf("add past the limit must report false")
	}
}

func TestBagNonPositiveLimitIsUnbounded(t *testing.T) {
	for _, limit := range []int{0, -1, 1 << 20} {
		bag := NewBag(limit)
		for i := 0; i < 300; i++ {
			if !bag.Add(NewWarning(OptBundleWarning, "w")) {
				t.Fatalf("limit %d: add %d rejected", limit, i)
			}
		}
		if bag.HasErrors() {
			t.Fatalf("warnings only")
		}
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(10)
	bag.Add(NewWarning(OptBundleWarning, "w").WithMode("dark"))
	bag.Add(NewError(OptBundleError, "e").WithMode("dark"))
	bag.Add(NewError(OptBundleError, "e").WithMode("$"))
	bag.Add(NewError(OptBundleError, "e").WithMode("dark"))
	bag.Dedup()
	if bag.Len() != 3 {
		t.Fatalf("expected 3 after dedup, got %d", bag.Len())
	}
	bag.Sort()
	items := bag.Items()
	if items[0].Mode != "$" {
		t.Fatalf("expected default mode first, got %q", items[0].Mode)
	}
	if items[1].Severity != SevError || items[2].Severity != SevWarning {
		t.Fatalf("expected errors before warnings within a mode: %+v", items)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		OptBundleError:    "OPT1001",
		StyMissingForMode: "STY2001",
		IOReadStyle:       "IO3002",
		UnknownCode:       "E0000",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Fatalf("%d: got %s, want %s", code, got, want)
		}
	}
	if Code(1999).Title() != "Unknown error" {
		t.Fatalf("unregistered codes fall back to the unknown title")
	}
}

func TestWithNoteDoesNotAlias(t *testing.T) {
	base := NewError(OptBundleError, "e").WithNote(Origin{}, "first")
	a := base.WithNote(Origin{}, "a")
	b := base.WithNote(Origin{}, "b")
	if a.Notes[1].Msg != "a" || b.Notes[1].Msg != "b" {
		t.Fatalf("notes aliased: %+v %+v", a.Notes, b.Notes)
	}
}

func TestOriginString(t *testing.T) {
	cases := []struct {
		o    Origin
		want string
	}{
		{Origin{}, ""},
		{Origin{File: "a.js"}, "a.js"},
		{Origin{File: "a.js", Line: 3}, "a.js:3"},
		{Origin{File: "a.js", Line: 3, Column: 7}, "a.js:3:7"},
	}
	for _, tc := range cases {
		if got := tc.o.String(); got != tc.want {
			t.Fatalf("%+v: got %q want %q", tc.o, got, tc.want)
		}
	}
}

func TestParseSeverity(t *testing.T) {
	if s, err := ParseSeverity("WARN"); err != nil || s != SevWarning {
		t.Fatalf("got %v %v", s, err)
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Fatalf("expected error for unknown severity")
	}
}
