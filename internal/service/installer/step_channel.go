package installer

import (
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// ChannelStep picks the transport the bot listens on
type ChannelStep struct {
	list list.Model
}

func NewChannelStep() Step {
	items := []list.Item{
		item{id: "cli", title: "Terminal", desc: "Interactive session in this terminal"},
		item{id: "telegram", title: "Telegram", desc: "Telegram bot, one debate per chat"},
		item{id: "mcp", title: "MCP", desc: "Expose ask/get_participants over MCP stdio"},
	}

	l := list.New(items, list.NewDefaultDelegate(), 40, 12)
	l.Title = "Where should VerdictBot listen?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return &ChannelStep{list: l}
}

func (s *ChannelStep) Init() tea.Cmd {
	return nil
}

func (s *ChannelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if sel, ok := s.list.SelectedItem().(item); ok {
			state.EnvVars["ENABLE_CLI"] = "false"
			state.EnvVars["ENABLE_TELEGRAM"] = "false"
			state.EnvVars["ENABLE_MCP"] = "false"
			switch sel.id {
			case "cli":
				state.EnvVars["ENABLE_CLI"] = "true"
			case "telegram":
				state.EnvVars["ENABLE_TELEGRAM"] = "true"
			case "mcp":
				state.EnvVars["ENABLE_MCP"] = "true"
			}
			return nil, nil
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ChannelStep) View(state *InstallState) string {
	return s.list.View()
}
