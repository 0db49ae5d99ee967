package installer

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// keyEnvVar maps a provider to the env var its key lives in. Ollama runs
// without a key.
var keyEnvVar = map[string]string{
	"openrouter": "OPENROUTER_API_KEY",
	"openai":     "OPENAI_API_KEY",
	"anthropic":  "ANTHROPIC_API_KEY",
	"custom":     "CUSTOM_OPENAI_API_KEY",
}

// APIKeyStep collects the API key for the chosen provider
type APIKeyStep struct {
	input textinput.Model
}

func NewAPIKeyStep() Step {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 40
	ti.Placeholder = "sk-..."
	ti.EchoMode = textinput.EchoPassword
	ti.EchoCharacter = '*'

	return &APIKeyStep{input: ti}
}

func (s *APIKeyStep) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, skipStep)
}

func (s *APIKeyStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	envVar, needsKey := keyEnvVar[state.EnvVars["LLM_PROVIDER"]]

	switch msg := msg.(type) {
	case skipMsg:
		if !needsKey {
			return nil, nil
		}
	case tea.KeyMsg:
		if msg.String() == "enter" {
			state.EnvVars[envVar] = s.input.Value()
			return nil, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *APIKeyStep) View(state *InstallState) string {
	return "Enter your API key:\n\n" +
		s.input.View() + "\n\n" +
		"(press enter to confirm)\n"
}
