package diag

import (
	"fmt"
	"sort"
	"strings"

	"neplcore/internal/source"
)

type goldenEntry struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatGoldenDiagnostics renders diagnostics into a stable, single-line-
// per-entry representation suitable for golden-file comparison in tests.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	entries := make([]goldenEntry, 0, len(diags))
	for _, d := range diags {
		entries = appendEntry(entries, fs, d.Severity.String(), d.Code, d.Primary, d.Message)
		if includeNotes {
			for _, n := range d.Notes {
				entries = appendEntry(entries, fs, "note", d.Code, n.Span, n.Msg)
			}
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		if a.Severity != b.Severity {
			return a.Severity < b.Severity
		}
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		return a.Message < b.Message
	})
	var b strings.Builder
	for i, e := range entries {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", e.Severity, e.Code, e.Path, e.Line, e.Column, e.Message)
		if i < len(entries)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendEntry(out []goldenEntry, fs *source.FileSet, sev string, code Code, span source.Span, msg string) []goldenEntry {
	loc, ok := resolveSpan(fs, span)
	if !ok {
		return out
	}
	return append(out, goldenEntry{
		Severity: sev,
		Code:     code.ID(),
		Path:     loc.path,
		Line:     loc.line,
		Column:   loc.col,
		Message:  sanitize(msg),
	})
}

type resolved struct {
	path string
	line uint32
	col  uint32
}

func resolveSpan(fs *source.FileSet, span source.Span) (r resolved, ok bool) {
	if fs == nil {
		return resolved{}, false
	}
	defer func() {
		if recover() != nil {
			r, ok = resolved{}, false
		}
	}()
	f := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return resolved{path: f.Path, line: start.Line, col: start.Col}, true
}

func sanitize(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", " ")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
