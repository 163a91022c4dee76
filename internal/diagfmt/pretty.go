package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/SunDr17/stencil/internal/diag"
)

type palette struct {
	err, warn, info, code, origin, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Faint),
		origin: color.New(color.Bold),
		note:   color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.origin, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждой диагностики печатает:
// [<origin>: ]<SEV> <CODE> [mode <m>] [<component>]: <message>
// затем заметки с отступом.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	pal := newPalette(opts.Color)
	var errs, warns int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		}
		if _, err := fmt.Fprintln(w, formatLine(pal, d, opts)); err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			line := "    " + pal.note.Sprint("note") + ": " + n.Msg
			if !n.Origin.IsZero() {
				line += " (" + originString(n.Origin, opts.PathMode, opts.BaseDir) + ")"
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	if opts.Summary && bag.Len() > 0 {
		_, err := fmt.Fprintf(w, "%s, %s\n", plural(errs, "error"), plural(warns, "warning"))
		return err
	}
	return nil
}

func formatLine(pal palette, d diag.Diagnostic, opts PrettyOpts) string {
	var b strings.Builder
	if !d.Origin.IsZero() {
		b.WriteString(pal.origin.Sprint(originString(d.Origin, opts.PathMode, opts.BaseDir)))
		b.WriteString(": ")
	}
	b.WriteString(pal.severity(d.Severity).Sprint(d.Severity.String()))
	b.WriteString(" ")
	b.WriteString(pal.code.Sprint(d.Code.ID()))
	if d.Mode != "" {
		b.WriteString(" [mode " + d.Mode + "]")
	}
	if d.Component != "" {
		b.WriteString(" <" + d.Component + ">")
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

func originString(o diag.Origin, mode PathMode, base string) string {
	o.File = formatPath(o.File, mode, base)
	return o.String()
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
