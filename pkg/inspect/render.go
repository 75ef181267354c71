package inspect

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Render writes the result the way the inspector panel lays it out.
func Render(w io.Writer, r *Result, colorize bool) error {
	heading := color.New(color.Bold)
	faint := color.New(color.Faint)
	scopeColor := color.New(color.FgCyan)
	warn := color.New(color.FgYellow)
	for _, c := range []*color.Color{heading, faint, scopeColor, warn} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	var err error
	p := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	p("%s %s %s\n", heading.Sprint(r.RootLanguage), r.Position, faint.Sprintf("(%s)", r.Mode))
	p("Scopes:\n")
	for _, s := range r.Scopes {
		p("  - %s\n", scopeColor.Sprint(s))
	}
	if len(r.Path) > 0 {
		p("Path:\n")
		for _, s := range r.Path {
			p("  - %s\n", s)
		}
	}
	if r.Mode == ModeTextMate {
		p("Text:\n")
		p("  - All: %s %s\n", r.Text, faint.Sprint(r.ScopeRange))
		p("  - Imm: %s %s\n", r.TextImmediate, faint.Sprint(r.ImmediateRange))
	}
	if r.Ambiguous {
		p("%s\n", warn.Sprint("ambiguous tokenizer state at end of row"))
	}

	return err
}
