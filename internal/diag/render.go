package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/width"

	"neplcore/internal/source"
)

// Renderer prints diagnostics with a colored severity header, a source
// excerpt, and a caret range aligned under the primary span. Color can be
// disabled explicitly so rendering stays deterministic regardless of
// whether stdout is a terminal (see DESIGN.md on dropped TTY-probing deps).
type Renderer struct {
	NoColor bool
}

func (r Renderer) colorFor(sev Severity) *color.Color {
	var c *color.Color
	switch sev {
	case SevError:
		c = color.New(color.FgRed, color.Bold)
	case SevWarning:
		c = color.New(color.FgYellow, color.Bold)
	default:
		c = color.New(color.FgCyan, color.Bold)
	}
	c.EnableColor()
	if r.NoColor {
		c.DisableColor()
	}
	return c
}

// Render writes one diagnostic as a multi-line human-readable report.
func (r Renderer) Render(d *Diagnostic, fs *source.FileSet) string {
	var b strings.Builder
	header := r.colorFor(d.Severity).Sprintf("%s[%s]", d.Severity, d.Code.ID())
	loc, ok := resolveSpan(fs, d.Primary)
	if !ok {
		fmt.Fprintf(&b, "%s: %s\n", header, d.Message)
		return b.String()
	}
	fmt.Fprintf(&b, "%s: %s\n", header, d.Message)
	fmt.Fprintf(&b, "  --> %s:%d:%d\n", loc.path, loc.line, loc.col)

	f := fs.Get(d.Primary.File)
	line := f.Line(loc.line)
	fmt.Fprintf(&b, "   | %s\n", line)

	caretCol := runeColumnWidth(line, int(loc.col)-1)
	span := int(d.Primary.Len())
	if span < 1 {
		span = 1
	}
	caretLen := runeColumnWidth(line[min(len(line), int(loc.col)-1):], span)
	if caretLen < 1 {
		caretLen = 1
	}
	b.WriteString("   | ")
	b.WriteString(strings.Repeat(" ", caretCol))
	b.WriteString(strings.Repeat("^", caretLen))
	b.WriteByte('\n')

	for _, n := range d.Notes {
		nloc, nok := resolveSpan(fs, n.Span)
		if nok {
			fmt.Fprintf(&b, "  note: %s:%d:%d: %s\n", nloc.path, nloc.line, nloc.col, n.Msg)
		} else {
			fmt.Fprintf(&b, "  note: %s\n", n.Msg)
		}
	}
	return b.String()
}

// runeColumnWidth sums display widths up to n runes of s, treating
// full-width/wide East-Asian runes as two cells so the caret lines up under
// multi-byte source text.
func runeColumnWidth(s string, n int) int {
	total := 0
	count := 0
	for _, rn := range s {
		if count >= n {
			break
		}
		p := width.LookupRune(rn)
		w := runewidth.RuneWidth(rn)
		switch p.Kind() {
		case width.EastAsianFullwidth, width.EastAsianWide:
			if w < 2 {
				w = 2
			}
		}
		total += w
		count++
	}
	return total
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
