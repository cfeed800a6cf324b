// Package ui renders terse progress lines for both run modes. Color is
// enabled only on a real terminal; piped output stays plain.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/imamik/hostforge/internal/pipeline"
)

// StepReporter prints one status line per pipeline step. It satisfies
// pipeline.Reporter.
type StepReporter struct {
	w     io.Writer
	color bool
}

// NewStepReporter builds a reporter for w, detecting color support when w
// is a terminal.
func NewStepReporter(w io.Writer) *StepReporter {
	return &StepReporter{w: w, color: writerIsTerminal(w)}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (r *StepReporter) render(mark string, style lipgloss.Style, text string) {
	if r.color {
		fmt.Fprintf(r.w, "%s %s\n", style.Render(mark), text)
		return
	}
	fmt.Fprintf(r.w, "%s %s\n", mark, text)
}

// StepStarted is intentionally silent; the result line carries the status.
func (r *StepReporter) StepStarted(string) {}

func (r *StepReporter) StepDone(label string) {
	r.render(checkMark, okStyle, label)
}

func (r *StepReporter) StepSatisfied(label string) {
	r.render(checkMark, okStyle, label+" (already configured)")
}

func (r *StepReporter) StepSkipped(label string) {
	r.render(skipMark, dimStyle, label+" (disabled)")
}

func (r *StepReporter) StepWarned(label string, err error) {
	r.render(warnMark, warnStyle, fmt.Sprintf("%s: %v", label, err))
}

func (r *StepReporter) StepFailed(label string, err error, logPath string) {
	r.render(crossMark, failStyle, fmt.Sprintf("%s: %v", label, err))
	fmt.Fprintf(r.w, "     full output: %s\n", logPath)
}

// PrintSummary writes the end-of-run report: counts, warnings, and the
// failing step when the run aborted.
func PrintSummary(w io.Writer, s *pipeline.Summary) {
	counts := s.Counts()

	fmt.Fprintln(w)
	if s.Completed {
		fmt.Fprintf(w, "Setup complete: %d applied, %d already configured, %d skipped.\n",
			counts[pipeline.StatusDone], counts[pipeline.StatusSatisfied], counts[pipeline.StatusSkipped])
	} else {
		fmt.Fprintf(w, "Setup aborted at %q.\n", s.FailedStep)
	}

	if warnings := s.Warnings(); len(warnings) > 0 {
		fmt.Fprintf(w, "%d optional step(s) failed:\n", len(warnings))
		for _, r := range warnings {
			fmt.Fprintf(w, "  %s %s: %v\n", warnMark, r.Label, r.Err)
		}
	}
	fmt.Fprintf(w, "Full log: %s\n", s.LogPath)
}
