package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Phase keys, in provisioning order.
const (
	PhaseCredential = "credential"
	PhaseServer     = "server"
	PhaseReachable  = "reachable"
	PhaseUpload     = "upload"
)

// Phase is one provisioning phase for display.
type Phase struct {
	Name   string
	Key    string
	Done   bool
	Active bool
	Err    error
}

// Model is the Bubble Tea model for the provisioning view.
type Model struct {
	ServerName string
	Location   string

	Phases []Phase

	StartTime    time.Time
	SpinnerFrame int

	Width  int
	Height int
	Err    error
	Done   bool
}

// NewProvisionModel creates the model for the up command.
func NewProvisionModel(serverName, location string) Model {
	return Model{
		ServerName: serverName,
		Location:   location,
		StartTime:  time.Now(),
		Phases: []Phase{
			{Name: "SSH credential", Key: PhaseCredential},
			{Name: "Server creation", Key: PhaseServer},
			{Name: "Waiting for SSH", Key: PhaseReachable},
			{Name: "Uploading installer", Key: PhaseUpload},
		},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Err = ErrInterrupted
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		m.updatePhase(msg)
		if msg.Err != nil {
			m.Err = msg.Err
			return m, tea.Quit
		}

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}

func (m *Model) updatePhase(msg PhaseMsg) {
	for i := range m.Phases {
		p := &m.Phases[i]
		if p.Key != msg.Key {
			continue
		}
		p.Err = msg.Err
		if msg.Err != nil {
			p.Active = false
			return
		}
		p.Done = msg.Done
		p.Active = !msg.Done
		return
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
