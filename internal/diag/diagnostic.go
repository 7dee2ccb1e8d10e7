package diag

import "neplcore/internal/source"

// Note attaches auxiliary context to a diagnostic at a secondary span.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single compiler-reported issue.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, message string) *Diagnostic {
	return &Diagnostic{Severity: sev, Code: code, Primary: primary, Message: message}
}

func Errorf(code Code, primary source.Span, message string) *Diagnostic {
	return New(SevError, code, primary, message)
}

func Warnf(code Code, primary source.Span, message string) *Diagnostic {
	return New(SevWarning, code, primary, message)
}

func (d *Diagnostic) WithNote(span source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: span, Msg: msg})
	return d
}
