package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// ErrInterrupted is returned when the operator cancels the provisioning
// view before it completes.
var ErrInterrupted = errors.New("provisioning cancelled")

// RunProvisionTUI wraps the provisioning flow with a progress view.
// provisionFn runs the flow, sending phase updates on the channel; the
// view quits as soon as the flow completes so the caller can attach the
// interactive SSH session to the restored terminal.
func RunProvisionTUI(
	provisionFn func(ch chan<- PhaseMsg) error,
	serverName, location string,
) error {
	m := NewProvisionModel(serverName, location)

	p := tea.NewProgram(m)

	go func() {
		ch := make(chan PhaseMsg, 10)
		go func() {
			defer close(ch)
			if err := provisionFn(ch); err != nil {
				p.Send(ErrMsg{Err: err})
			}
		}()

		for msg := range ch {
			p.Send(msg)
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("terminal ui error: %w", err)
	}

	fm := finalModel.(Model)
	if fm.Err != nil {
		return fm.Err
	}
	return nil
}
