package installer

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ProviderStep selects the LLM oracle provider
type ProviderStep struct {
	list list.Model
}

func NewProviderStep() Step {
	items := []list.Item{
		item{id: "openrouter", title: "OpenRouter", desc: "Hosted gateway to many models"},
		item{id: "openai", title: "OpenAI", desc: "api.openai.com"},
		item{id: "anthropic", title: "Anthropic", desc: "api.anthropic.com"},
		item{id: "ollama", title: "Ollama", desc: "Local models via Ollama"},
		item{id: "custom", title: "Custom", desc: "Any OpenAI-compatible endpoint"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 40, 14)
	l.Title = "Choose your LLM provider"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return &ProviderStep{list: l}
}

func (s *ProviderStep) Init() tea.Cmd {
	return nil
}

func (s *ProviderStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if sel, ok := s.list.SelectedItem().(item); ok {
			state.EnvVars["LLM_PROVIDER"] = sel.id
			return nil, nil
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ProviderStep) View(state *InstallState) string {
	return s.list.View()
}
