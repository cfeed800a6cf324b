package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes the initiator-side progress lines (provisioning phases,
// final hints). Styling follows the same terminal detection as the step
// reporter.
type Printer struct {
	w     io.Writer
	color bool
}

// NewPrinter builds a printer for w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, color: writerIsTerminal(w)}
}

// Headline prints a bold section line.
func (p *Printer) Headline(format string, args ...any) {
	text := fmt.Sprintf(format, args...)
	if p.color {
		text = headStyle.Render(text)
	}
	fmt.Fprintln(p.w, text)
}

// Phase prints the start of a provisioning phase.
func (p *Printer) Phase(format string, args ...any) {
	p.line(busyMark, dimStyle, fmt.Sprintf(format, args...))
}

// Success prints a completed phase.
func (p *Printer) Success(format string, args ...any) {
	p.line(checkMark, okStyle, fmt.Sprintf(format, args...))
}

// Failure prints a failed phase.
func (p *Printer) Failure(format string, args ...any) {
	p.line(crossMark, failStyle, fmt.Sprintf(format, args...))
}

// Info prints a plain line.
func (p *Printer) Info(format string, args ...any) {
	fmt.Fprintf(p.w, format+"\n", args...)
}

func (p *Printer) line(mark string, style lipgloss.Style, text string) {
	if p.color {
		fmt.Fprintf(p.w, "%s %s\n", style.Render(mark), text)
		return
	}
	fmt.Fprintf(p.w, "%s %s\n", mark, text)
}
