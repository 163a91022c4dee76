package component

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// reservedTags are hyphenated names the HTML standard keeps for SVG and MathML.
var reservedTags = map[string]struct{}{
	"annotation-xml":   {},
	"color-profile":    {},
	"font-face":        {},
	"font-face-src":    {},
	"font-face-uri":    {},
	"font-face-format": {},
	"font-face-name":   {},
	"missing-glyph":    {},
}

// ValidateTag checks tag against the custom element name grammar: a leading
// lower-case ASCII letter, at least one hyphen, and only lower-case letters,
// digits, '-' and '_' after that. '.' is rejected so that "<tag>.<mode>.js"
// names stay unique, and upper case so that placeholders stay unique.
func ValidateTag(tag string) error {
	switch {
	case tag == "":
		return errors.New("missing tag")
	case tag[0] < 'a' || tag[0] > 'z':
		return fmt.Errorf("tag %q must start with a lower-case ASCII letter", tag)
	case !strings.Contains(tag, "-"):
		return fmt.Errorf("tag %q must contain a hyphen", tag)
	}
	if _, ok := reservedTags[tag]; ok {
		return fmt.Errorf("tag %q is a reserved element name", tag)
	}
	for _, r := range tag {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
		case unicode.IsUpper(r):
			return fmt.Errorf("tag %q must be lower-case", tag)
		case r < unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)):
			return fmt.Errorf("tag %q contains invalid character %q", tag, r)
		}
	}
	return nil
}

// ValidateMode checks that a mode name can be used as a file name segment.
func ValidateMode(mode string) error {
	switch {
	case mode == "":
		return errors.New("empty mode name")
	case strings.ContainsAny(mode, `/\.`):
		return fmt.Errorf("mode %q must not contain '/', '\\' or '.'", mode)
	}
	return nil
}

// Validate checks every component before output: tags and modes must be
// valid and tags unique, so that each (component, mode) pair maps to its own
// file name and placeholder.
func Validate(cmps []*Component) error {
	seen := make(map[string]struct{}, len(cmps))
	for i, cmp := range cmps {
		if cmp == nil {
			return fmt.Errorf("component %d is nil", i)
		}
		if err := ValidateTag(cmp.Tag); err != nil {
			return err
		}
		if _, dup := seen[cmp.Tag]; dup {
			return fmt.Errorf("duplicate component %q", cmp.Tag)
		}
		seen[cmp.Tag] = struct{}{}
		for _, st := range cmp.Styles {
			if err := ValidateMode(st.Mode); err != nil {
				return fmt.Errorf("component %q: %w", cmp.Tag, err)
			}
		}
	}
	return nil
}
