package installer

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// SaveEnvStep writes the collected settings into <runtime>/.env
type SaveEnvStep struct {
	runtimePath string
	done        bool
	err         error
}

func NewSaveEnvStep(runtimePath string) Step {
	return &SaveEnvStep{runtimePath: runtimePath}
}

type savedMsg struct{ err error }

func (s *SaveEnvStep) Init() tea.Cmd {
	return skipStep
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case skipMsg:
		return s, func() tea.Msg {
			return savedMsg{err: writeEnvFile(s.runtimePath, state.EnvVars)}
		}
	case savedMsg:
		s.done = true
		s.err = msg.err
		return s, nil
	case tea.KeyMsg:
		if s.done {
			return nil, nil
		}
	}
	return s, nil
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if !s.done {
		return "Saving configuration...\n"
	}
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("failed to save: %v", s.err)) + "\n\n(press any key to exit)\n"
	}
	return fmt.Sprintf("Configuration written to %s\n\nRun `verdict start` to begin.\n\n(press any key to exit)\n",
		filepath.Join(s.runtimePath, ".env"))
}

func writeEnvFile(runtimePath string, vars map[string]string) error {
	if err := os.MkdirAll(runtimePath, 0755); err != nil {
		return fmt.Errorf("create runtime directory: %w", err)
	}

	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		if vars[k] == "" {
			continue
		}
		fmt.Fprintf(&b, "%s=%s\n", k, vars[k])
	}

	return os.WriteFile(filepath.Join(runtimePath, ".env"), []byte(b.String()), 0600)
}
