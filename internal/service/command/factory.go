package command

import (
	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/internal/service/debate"
)

func NewCommands(svc *debate.Service, transcript core.TranscriptRepository) []core.Command {
	cmds := []core.Command{
		NewScoresCommand(svc),
		NewResetCommand(svc),
	}
	if transcript != nil {
		cmds = append(cmds, NewHistoryCommand(transcript))
	}
	return cmds
}
