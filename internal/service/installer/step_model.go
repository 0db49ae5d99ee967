package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ModelStep collects the model identifier
type ModelStep struct {
	input textinput.Model
}

func NewModelStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "openai/gpt-4o-mini"

	return &ModelStep{input: ti}
}

func (s *ModelStep) Init() tea.Cmd {
	return textinput.Blink
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if s.input.Value() != "" {
			state.EnvVars["LLM_MODEL"] = s.input.Value()
		}
		return nil, nil
	}
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	return "Which model should judge your debates?\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm, empty keeps the default)\n"
}
