package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"hue/internal/diag"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	codeColor    = color.New(color.Faint)
	noteColor    = color.New(color.FgBlue)
)

func severityColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

// Pretty writes one line per diagnostic in recording order:
//
//	<origin>: <SEV> <CODE>: <Message>
//
// followed by indented notes when requested and a trailing summary of
// diagnostics dropped by the bag limit.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	items := bag.Items()
	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}

	paint := func(c *color.Color, s string) string {
		if !opts.Color {
			return s
		}
		c.EnableColor()
		return c.Sprint(s)
	}

	var sb strings.Builder
	for _, d := range items[:limit] {
		if opts.Origin != "" {
			sb.WriteString(opts.Origin + ": ")
		}
		sb.WriteString(paint(severityColor(d.Severity), d.Severity.String()))
		sb.WriteString(" ")
		sb.WriteString(paint(codeColor, d.Code.ID()))
		sb.WriteString(": ")
		sb.WriteString(d.Message)
		sb.WriteString("\n")
		if opts.ShowNotes || d.Code == diag.ObsTimings {
			for _, note := range d.Notes {
				sb.WriteString("  " + paint(noteColor, "note:") + " " + note + "\n")
			}
		}
	}
	if hidden := len(items) - limit + bag.Dropped(); hidden > 0 {
		fmt.Fprintf(&sb, "... %d more diagnostics not shown\n", hidden)
	}
	_, err := io.WriteString(w, sb.String())
	return err
}
