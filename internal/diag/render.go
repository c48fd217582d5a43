package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"zyl/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	caretColor   = color.New(color.FgGreen)
)

func severityColor(s Severity) *color.Color {
	switch s {
	case SevError:
		return errorColor
	case SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// Render writes a human-readable report of one diagnostic, including the
// offending source line with a caret underline.
func Render(w io.Writer, fs *source.FileSet, d Diagnostic) {
	pos := fs.Position(d.Primary.File, d.Primary.Start)
	file := fs.Get(d.Primary.File)
	path := "<unknown>"
	if file != nil {
		path = file.Path
	}
	fmt.Fprintf(w, "%s[%s]: %s\n", severityColor(d.Severity).Sprint(strings.ToLower(d.Severity.String())), d.Code, d.Message)
	fmt.Fprintf(w, "  --> %s:%d:%d\n", path, pos.Line, pos.Col)

	if file == nil {
		return
	}
	line := string(file.Line(pos.Line))
	if line == "" && d.Primary.Empty() {
		return
	}
	fmt.Fprintf(w, "   | %s\n", line)

	// Caret alignment uses display width so wide runes underline correctly.
	prefix := line
	if int(pos.Col-1) <= len(line) {
		prefix = line[:pos.Col-1]
	}
	pad := runewidth.StringWidth(prefix)
	width := int(d.Primary.Len())
	if width < 1 {
		width = 1
	}
	if int(pos.Col-1)+width <= len(line) {
		width = runewidth.StringWidth(line[pos.Col-1 : int(pos.Col-1)+width])
	}
	fmt.Fprintf(w, "   | %s%s\n", strings.Repeat(" ", pad), caretColor.Sprint(strings.Repeat("^", width)))
}

// RenderAll renders every diagnostic in the bag in sorted order.
func RenderAll(w io.Writer, fs *source.FileSet, bag *Bag) {
	bag.Sort()
	for _, d := range bag.Items() {
		Render(w, fs, d)
	}
}
