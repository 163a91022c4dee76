package component

import (
	"strings"
	"testing"
)

func TestValidateTag(t *testing.T) {
	valid := []string{"my-button", "x-a", "x-a-dark", "my-café", "a-1_b"}
	for _, tag := range valid {
		if err := ValidateTag(tag); err != nil {
			t.Errorf("%q: unexpected error %v", tag, err)
		}
	}
	invalid := map[string]string{
		"":          "missing tag",
		"button":    "hyphen",
		"x-a.dark":  "invalid character",
		"X-A":       "lower-case",
		"x-A":       "lower-case",
		"x-É":       "lower-case",
		"1-a":       "start with",
		"-ab":       "start with",
		"x-a/b":     "invalid character",
		`x-a\b`:     "invalid character",
		"x-a b":     "invalid character",
		"font-face": "reserved",
	}
	for tag, want := range invalid {
		err := ValidateTag(tag)
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("%q: got %v, want error containing %q", tag, err, want)
		}
	}
}

func TestValidateMode(t *testing.T) {
	for _, mode := range []string{DefaultMode, "dark", "high-contrast"} {
		if err := ValidateMode(mode); err != nil {
			t.Errorf("%q: %v", mode, err)
		}
	}
	for _, mode := range []string{"", "a/b", `a\b`, "x.y"} {
		if ValidateMode(mode) == nil {
			t.Errorf("%q must be rejected", mode)
		}
	}
}

func TestValidateComponents(t *testing.T) {
	ok := []*Component{
		{Tag: "x-a", Styles: []Style{{Mode: "dark"}}},
		{Tag: "x-a-dark"},
	}
	if err := Validate(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := map[string][]*Component{
		"duplicate":   {{Tag: "x-a"}, {Tag: "x-a"}},
		"dotted tag":  {{Tag: "x-a", Styles: []Style{{Mode: "dark"}}}, {Tag: "x-a.dark"}},
		"dotted mode": {{Tag: "x-a", Styles: []Style{{Mode: "a.b"}}}},
		"nil":         {nil},
	}
	for name, cmps := range cases {
		if Validate(cmps) == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
