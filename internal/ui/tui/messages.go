// Package tui provides a Bubble Tea progress view for the local
// provisioning phases. It exits before the interactive SSH session is
// attached; the session needs the raw terminal to itself.
package tui

// PhaseMsg reports progress of one provisioning phase.
type PhaseMsg struct {
	Key  string
	Done bool
	Err  error
}

// TickMsg drives the spinner animation.
type TickMsg struct{}

// ErrMsg carries a provisioning failure.
type ErrMsg struct{ Err error }

// DoneMsg signals that all phases completed.
type DoneMsg struct{}
