package diag

import "fmt"

// Origin points at the place a diagnostic refers to. All fields are optional.
type Origin struct {
	File   string
	Line   uint32
	Column uint32
}

func (o Origin) IsZero() bool {
	return o.File == "" && o.Line == 0 && o.Column == 0
}

func (o Origin) String() string {
	switch {
	case o.IsZero():
		return ""
	case o.Line == 0:
		return o.File
	case o.Column == 0:
		return fmt.Sprintf("%s:%d", o.File, o.Line)
	}
	return fmt.Sprintf("%s:%d:%d", o.File, o.Line, o.Column)
}

type Note struct {
	Origin Origin
	Msg    string
}

// Diagnostic is one build message. Mode and Component scope the message to the
// style mode and component tag it was raised for; both may be empty.
type Diagnostic struct {
	Severity  Severity
	Code      Code
	Message   string
	Mode      string
	Component string
	Origin    Origin
	Notes     []Note
}

func New(sev Severity, code Code, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
	}
}

func NewError(code Code, msg string) Diagnostic {
	return New(SevError, code, msg)
}

func NewWarning(code Code, msg string) Diagnostic {
	return New(SevWarning, code, msg)
}

func (d Diagnostic) WithMode(mode string) Diagnostic {
	d.Mode = mode
	return d
}

func (d Diagnostic) WithComponent(tag string) Diagnostic {
	d.Component = tag
	return d
}

func (d Diagnostic) WithOrigin(o Origin) Diagnostic {
	d.Origin = o
	return d
}

func (d Diagnostic) WithNote(o Origin, msg string) Diagnostic {
	notes := make([]Note, len(d.Notes), len(d.Notes)+1)
	copy(notes, d.Notes)
	d.Notes = append(notes, Note{Origin: o, Msg: msg})
	return d
}

// IsError reports whether the diagnostic has error severity.
func (d Diagnostic) IsError() bool {
	return d.Severity >= SevError
}
