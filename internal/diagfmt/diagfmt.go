// Package diagfmt formats diag.Records with source context and a caret
// pointing at the offending column, the same shape the teacher's
// internal/errors package formats compiler errors in. It is kept a
// separate package from diag itself so diag stays a plain, sink-only
// component no rendering concern depends on.
package diagfmt

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/scriptcore/scriptcore/internal/diag"
)

// Format renders every record in order, source giving the text of the
// single file all these records' locations point into (this core compiles
// one file per invocation — see cmd/corec). color enables ANSI escapes for
// terminal output, matching errors.CompilerError.Format's color flag.
func Format(records []diag.Record, source string, color bool) string {
	var sb strings.Builder
	lines := strings.Split(source, "\n")
	for i, r := range records {
		if i > 0 {
			sb.WriteString("\n")
		}
		formatOne(&sb, r, lines, color)
	}
	return sb.String()
}

func formatOne(sb *strings.Builder, r diag.Record, lines []string, color bool) {
	fmt.Fprintf(sb, "%s: %s [%s]\n", r.Location, r.Level, r.Code)

	lineNum := r.Location.Line
	if lineNum < 1 || lineNum > len(lines) {
		fmt.Fprintln(sb, "  "+r.Message)
		return
	}
	srcLine := lines[lineNum-1]

	prefix := fmt.Sprintf("%4d | ", lineNum)
	sb.WriteString(prefix)
	sb.WriteString(srcLine)
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", len(prefix)))
	sb.WriteString(caretPad(srcLine, r.Location.Column))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n  ")
	sb.WriteString(r.Message)
	sb.WriteString("\n")
}

// caretPad returns the whitespace needed to align a caret under column col
// (1-based) of line: a tab expands to a single column-advancing space here
// (this core does not emulate a terminal's own tab-stop width), but a
// double-width rune — full-width CJK punctuation and the like — occupies
// two display columns, so the caret must advance an extra space past it or
// it lands one column short. golang.org/x/text/width classifies each rune
// so the pad can account for that without hand-rolling East Asian Width.
func caretPad(line string, col int) string {
	var sb strings.Builder
	i := 0
	for _, r := range line {
		i++
		if i >= col {
			break
		}
		if width.LookupRune(r).Kind() == width.EastAsianWide || width.LookupRune(r).Kind() == width.EastAsianFullwidth {
			sb.WriteString("  ")
		} else {
			sb.WriteString(" ")
		}
	}
	return sb.String()
}
