package style

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SunDr17/stencil/internal/component"
	"github.com/SunDr17/stencil/internal/diag"
)

// Placeholder returns the token the bundler leaves in code where the styles of
// the component with the given tag belong.
func Placeholder(tag string) string {
	return "/**:style:" + strings.ToUpper(tag) + ":**/"
}

// ReplacePlaceholders substitutes the placeholder of every component in cmps with
// its style for mode, falling back to the default mode style and then to an
// empty style. A component whose chosen style is marked missing keeps its
// placeholder and yields one StyMissingForMode diagnostic.
func ReplacePlaceholders(cmps []*component.Component, mode, code string) (string, []diag.Diagnostic) {
	var diags []diag.Diagnostic
	pairs := make([]string, 0, len(cmps)*2)
	for _, cmp := range cmps {
		if cmp == nil {
			continue
		}
		placeholder := Placeholder(cmp.Tag)
		if !strings.Contains(code, placeholder) {
			continue
		}
		st, resolvedMode, ok := resolve(cmp, mode)
		if ok && st.Missing {
			diags = append(diags, diag.NewError(diag.StyMissingForMode,
				fmt.Sprintf("component %q declares mode %q but its style payload is missing", cmp.Tag, resolvedMode)).
				WithMode(mode).
				WithComponent(cmp.Tag))
			continue
		}
		pairs = append(pairs, placeholder, quote(st.Text))
	}
	if len(pairs) == 0 {
		return code, diags
	}
	return strings.NewReplacer(pairs...).Replace(code), diags
}

// resolve picks the style used for mode. ok is false when neither mode nor the
// default mode is declared; the zero Style (empty text) is used then.
func resolve(cmp *component.Component, mode string) (component.Style, string, bool) {
	if st, ok := cmp.Style(mode); ok {
		return st, mode, true
	}
	if st, ok := cmp.Style(component.DefaultMode); ok {
		return st, component.DefaultMode, true
	}
	return component.Style{}, mode, false
}

// quote renders text as a JavaScript string literal.
func quote(text string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(text); err != nil {
		// строка всегда кодируется; сюда не попадаем
		return `""`
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
