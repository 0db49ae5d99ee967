package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/verdictbot/internal/core"
)

const historyLimit = 20

// HistoryCommand shows the recent transcript of this session from the audit
// log.
type HistoryCommand struct {
	transcript core.TranscriptRepository
}

func NewHistoryCommand(transcript core.TranscriptRepository) *HistoryCommand {
	return &HistoryCommand{transcript: transcript}
}

func (c *HistoryCommand) Name() string        { return "history" }
func (c *HistoryCommand) Description() string { return "Show the recent transcript" }

func (c *HistoryCommand) Execute(ctx context.Context, sessionID string, args []string) (string, error) {
	entries, err := c.transcript.Recent(ctx, sessionID, historyLimit)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "Nothing on record yet.", nil
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(e.Role), e.Content)
	}
	return b.String(), nil
}
