// Package display renders the run summary for human consumption.
//
// Color is applied only when the destination is a real terminal; piped
// output stays plain so the summary remains grep-friendly. The --json
// output path bypasses this package entirely.
package display

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/shinji-kodama/codepack/internal/model"
)

// Renderer writes summaries to a destination with optional color.
type Renderer struct {
	writer io.Writer

	success *color.Color
	warn    *color.Color
	dim     *color.Color
}

// NewRenderer creates a Renderer for w. Color is enabled when w is a
// terminal; the color library additionally honors NO_COLOR.
func NewRenderer(w io.Writer) *Renderer {
	r := &Renderer{
		writer:  w,
		success: color.New(color.FgGreen),
		warn:    color.New(color.FgYellow),
		dim:     color.New(color.Faint),
	}
	if !isTerminal(w) {
		r.success.DisableColor()
		r.warn.DisableColor()
		r.dim.DisableColor()
	}
	return r
}

// Summary renders the outcome of one packaging run.
func (r *Renderer) Summary(s *model.Summary) {
	r.success.Fprintf(r.writer, "✓ Packaged %d file(s) into %s\n", s.Packaged, s.OutputFile)

	if len(s.Skipped) > 0 {
		fmt.Fprintf(r.writer, "  Skipped %d file(s):\n", len(s.Skipped))
		for _, skip := range s.Skipped {
			r.dim.Fprintf(r.writer, "    %s (%s)\n", skip.Path, skip.Reason)
		}
	}

	for _, warning := range s.Warnings {
		r.warn.Fprintf(r.writer, "  warning: %s\n", warning)
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
