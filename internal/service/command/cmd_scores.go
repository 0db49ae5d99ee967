package command

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/internal/service/debate"
)

// ScoresCommand prints the scoreboard snapshot. Read-only: running it twice
// with no turn in between yields the same output.
type ScoresCommand struct {
	svc *debate.Service
}

func NewScoresCommand(svc *debate.Service) *ScoresCommand {
	return &ScoresCommand{svc: svc}
}

func (c *ScoresCommand) Name() string        { return "scores" }
func (c *ScoresCommand) Description() string { return "Show the scoreboard for this debate" }

func (c *ScoresCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	participants, err := c.svc.Participants(ctx, sessionID)
	if err != nil {
		if errors.Is(err, core.ErrSessionNotFound) {
			return "No debate in progress yet. Say something to start one.", nil
		}
		return "", err
	}
	return FormatScoreboard(participants), nil
}

func FormatScoreboard(participants []core.Participant) string {
	if len(participants) == 0 {
		return "Nobody is on the scoreboard yet."
	}

	var b strings.Builder
	b.WriteString("**Scoreboard**\n")
	for _, p := range participants {
		fmt.Fprintf(&b, "› %s: %d\n", p.Name, p.Score)
	}
	return b.String()
}
