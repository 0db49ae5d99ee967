package command

import (
	"context"

	"github.com/sandevgo/verdictbot/internal/service/debate"
)

// ResetCommand tears the session down and starts a fresh one, wiping the
// scoreboard with it.
type ResetCommand struct {
	svc *debate.Service
}

func NewResetCommand(svc *debate.Service) *ResetCommand {
	return &ResetCommand{svc: svc}
}

func (c *ResetCommand) Name() string        { return "reset" }
func (c *ResetCommand) Description() string { return "Forget this debate and start over" }

func (c *ResetCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	c.svc.Teardown(ctx, sessionID)
	if err := c.svc.Setup(ctx, sessionID); err != nil {
		return "", err
	}
	return "Fresh start. What are we settling today?", nil
}
