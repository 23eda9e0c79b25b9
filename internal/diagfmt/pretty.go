package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tagcheck/internal/diag"
	"tagcheck/internal/source"
)

type palette struct {
	err, warn, info, note, loc, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	mk := func(attrs ...color.Attribute) *color.Color {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}
	return palette{
		err:    mk(color.FgRed, color.Bold),
		warn:   mk(color.FgYellow, color.Bold),
		info:   mk(color.FgCyan),
		note:   mk(color.FgBlue, color.Bold),
		loc:    mk(color.Bold),
		gutter: mk(color.FgBlue),
		caret:  mk(color.FgGreen, color.Bold),
	}
}

func (p palette) severity(s diag.Severity) *color.Color {
	switch s {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for a terminal. bag is expected to be sorted.
// Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a caret underline, then its notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	items := bag.Items()
	for i := range items {
		d := &items[i]
		if i > 0 {
			fmt.Fprintln(w)
		}
		sev := p.severity(d.Severity).Sprint(d.Severity.String())
		if !d.Located() {
			fmt.Fprintf(w, "%s %s: %s\n", sev, d.Code.ID(), d.Message)
			continue
		}
		f := fs.Get(d.Primary.File)
		if f == nil {
			fmt.Fprintf(w, "%s %s: %s\n", sev, d.Code.ID(), d.Message)
			continue
		}
		start, end := fs.Resolve(d.Primary)
		loc := fmt.Sprintf("%s:%d:%d", formatPath(fs, f, opts.PathMode), start.Line, start.Col)
		fmt.Fprintf(w, "%s: %s %s: %s\n", p.loc.Sprint(loc), sev, d.Code.ID(), d.Message)
		writeSnippet(w, p, f, start, end, opts.Context)

		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			nf := fs.Get(n.Span.File)
			if nf == nil {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
				continue
			}
			ns, _ := fs.Resolve(n.Span)
			nloc := fmt.Sprintf("%s:%d:%d", formatPath(fs, nf, opts.PathMode), ns.Line, ns.Col)
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), nloc, n.Msg)
		}
	}
	if n := bag.Dropped(); n > 0 {
		fmt.Fprintf(w, "\n... %d more diagnostics not shown\n", n)
	}
}

func writeSnippet(w io.Writer, p palette, f *source.File, start, end source.LineCol, context int) {
	if start.Line == 0 {
		return
	}
	first := start.Line
	if context > 0 {
		if uint32(context) >= first { //nolint:gosec // context is a small CLI value
			first = 1
		} else {
			first -= uint32(context) //nolint:gosec // checked above
		}
	}
	width := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", width, ln), expandTabs(f.GetLine(ln)))
	}

	line := f.GetLine(start.Line)
	prefix := visualWidth(line, start.Col-1)
	span := 1
	if end.Line == start.Line && end.Col > start.Col {
		span = visualWidth(line, end.Col-1) - prefix
	} else if end.Line > start.Line {
		span = max(1, runewidth.StringWidth(expandTabs(line))-prefix)
	}
	underline := "^" + strings.Repeat("~", max(0, span-1))
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", width, ""), strings.Repeat(" ", prefix), p.caret.Sprint(underline))
}

// visualWidth is the display width of the first n bytes of line.
func visualWidth(line string, n uint32) int {
	if int(n) > len(line) {
		n = uint32(len(line)) //nolint:gosec // bounded by n
	}
	return runewidth.StringWidth(expandTabs(line[:n]))
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
