package ludtwig

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	severityColor = map[Severity]*color.Color{
		SeverityError:   color.New(color.FgRed, color.Bold),
		SeverityWarning: color.New(color.FgYellow, color.Bold),
		SeverityHelp:    color.New(color.FgCyan),
		SeverityInfo:    color.New(color.FgBlue),
	}
	locColor    = color.New(color.FgHiBlack)
	caretColor  = color.New(color.FgRed, color.Bold)
	sourceColor = color.New(color.Faint)
)

// RenderDiagnostics implements §6's rendering contract: (source, path,
// diagnostics) -> rendered text, one block per diagnostic with severity,
// rule name, file:line:col, the offending source line, and a caret
// underline, styled with fatih/color the way the teacher's own error.go
// keeps rendering and fmt.Stringer right next to the type they describe.
func RenderDiagnostics(w io.Writer, path, source string, diags []Diagnostic) {
	lines := splitLines(source)
	for _, d := range diags {
		line, col := lineCol(lines, d.Primary.Start)
		sc := severityColor[d.Severity]
		if sc == nil {
			sc = color.New()
		}
		label := d.Severity.String()
		if d.RuleName != "" {
			label = fmt.Sprintf("%s[%s]", label, d.RuleName)
		}
		fmt.Fprintf(w, "%s: %s\n", sc.Sprint(label), d.Message)
		fmt.Fprintf(w, "  %s\n", locColor.Sprintf("%s:%d:%d", path, line+1, col+1))
		if line < len(lines) {
			fmt.Fprintf(w, "  %s\n", sourceColor.Sprint(lines[line]))
			width := d.Primary.Len()
			if width < 1 {
				width = 1
			}
			fmt.Fprintf(w, "  %s%s\n", strings.Repeat(" ", col), caretColor.Sprint(strings.Repeat("^", width)))
		}
		for _, s := range d.Suggestions {
			fmt.Fprintf(w, "  help: %s -> %q\n", s.Message, s.Replacement)
		}
		fmt.Fprintln(w)
	}
}

func splitLines(source string) []string {
	return strings.Split(source, "\n")
}

func lineCol(lines []string, offset int) (line, col int) {
	pos := 0
	for i, l := range lines {
		next := pos + len(l) + 1 // +1 for the stripped '\n'
		if offset < next || i == len(lines)-1 {
			return i, offset - pos
		}
		pos = next
	}
	return 0, offset
}
