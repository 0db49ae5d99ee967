package command

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sandevgo/verdictbot/internal/core"
)

type fakeCommand struct {
	name    string
	result  string
	err     error
	gotArgs []string
}

func (f *fakeCommand) Name() string        { return f.name }
func (f *fakeCommand) Description() string { return "fake" }
func (f *fakeCommand) Execute(_ context.Context, _ string, args []string) (string, error) {
	f.gotArgs = args
	return f.result, f.err
}

func TestRouter_Execute(t *testing.T) {
	ping := &fakeCommand{name: "ping", result: "pong"}
	boom := &fakeCommand{name: "boom", err: errors.New("kaput")}
	router := New([]core.Command{ping, boom})
	ctx := context.Background()

	tests := []struct {
		name        string
		input       string
		wantResult  string
		wantHandled bool
	}{
		{"plain text passes through", "who is right?", "", false},
		{"known command", "/ping", "pong", true},
		{"unknown command", "/frobnicate", "Unknown command: /frobnicate", true},
		{"command error surfaces", "/boom", "Error: kaput", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, handled := router.Execute(ctx, "s1", tt.input)
			if handled != tt.wantHandled {
				t.Fatalf("handled = %v, want %v", handled, tt.wantHandled)
			}
			if result != tt.wantResult {
				t.Errorf("result = %q, want %q", result, tt.wantResult)
			}
		})
	}
}

func TestRouter_PassesArgs(t *testing.T) {
	cmd := &fakeCommand{name: "history"}
	router := New([]core.Command{cmd})

	router.Execute(context.Background(), "s1", "/history 5 verbose")
	if len(cmd.gotArgs) != 2 || cmd.gotArgs[0] != "5" || cmd.gotArgs[1] != "verbose" {
		t.Errorf("args = %v", cmd.gotArgs)
	}
}

func TestFormatScoreboard(t *testing.T) {
	if got := FormatScoreboard(nil); got != "Nobody is on the scoreboard yet." {
		t.Errorf("empty scoreboard = %q", got)
	}

	got := FormatScoreboard([]core.Participant{
		{Name: "Lori", Score: 2},
		{Name: "Jack", Score: 1},
	})
	if !strings.Contains(got, "Lori: 2") || !strings.Contains(got, "Jack: 1") {
		t.Errorf("scoreboard = %q", got)
	}
	if !strings.HasPrefix(got, "**Scoreboard**") {
		t.Errorf("missing header: %q", got)
	}
}
