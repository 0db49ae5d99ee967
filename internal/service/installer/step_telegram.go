package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// TelegramStep collects the bot token; skipped when Telegram is not the
// chosen channel
type TelegramStep struct {
	input textinput.Model
}

func NewTelegramStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "123456789:ABCDEF..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'

	return &TelegramStep{input: ti}
}

func (s *TelegramStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, skipStep)
}

func (s *TelegramStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case skipMsg:
		if state.EnvVars["ENABLE_TELEGRAM"] != "true" {
			return nil, nil
		}
	case tea.KeyMsg:
		if msg.String() == "enter" {
			state.EnvVars["TELEGRAM_TOKEN"] = s.input.Value()
			return nil, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *TelegramStep) View(state *InstallState) string {
	return "Enter your Telegram Bot Token:\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
