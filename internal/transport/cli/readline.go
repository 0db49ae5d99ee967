package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/sandevgo/verdictbot/internal/config"
	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/internal/service/command"
	"github.com/sandevgo/verdictbot/internal/service/debate"
	"github.com/sandevgo/verdictbot/pkg/log"
)

const defaultSessionID = "cli-local"

type ReadLine struct {
	cfg    *config.AppConfig
	svc    *debate.Service
	router core.CmdRouter
	rl     *readline.Instance
}

func NewReadLine(svc *debate.Service, router core.CmdRouter, cfg *config.AppConfig) (*ReadLine, error) {
	if err := os.MkdirAll(cfg.RuntimePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create runtime directory: %w", err)
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     filepath.Join(cfg.RuntimePath, "input_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, err
	}

	return &ReadLine{
		cfg:    cfg,
		svc:    svc,
		router: router,
		rl:     rl,
	}, nil
}

func (r *ReadLine) Start(ctx context.Context) error {
	logger := log.FromCtx(ctx)

	if err := r.svc.Setup(ctx, defaultSessionID); err != nil {
		return err
	}
	defer r.svc.Teardown(ctx, defaultSessionID)

	logger.Info().Msg("Debate session started. State your dispute, type 'exit' to quit.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, err := r.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if len(line) == 0 {
					return nil
				}
				continue
			} else if err == io.EOF {
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "exit" {
			return nil
		}
		if line == "" {
			continue
		}

		if reply, handled := r.router.Execute(ctx, defaultSessionID, line); handled {
			fmt.Fprintf(r.rl.Stdout(), "%s\n", reply)
			continue
		}

		env, err := r.svc.Turn(ctx, defaultSessionID, line)
		if err != nil {
			logger.Error().Err(err).Msg("turn failed")
			fmt.Fprintf(r.rl.Stdout(), "Error: %v\n", err)
			continue
		}

		fmt.Fprintf(r.rl.Stdout(), "%s\n", env.Content)
		if env.Type == core.EnvelopeJudgment {
			fmt.Fprintf(r.rl.Stdout(), "\n%s\n", command.FormatScoreboard(env.Participants))
		}
	}
}

func (r *ReadLine) Shutdown(ctx context.Context) error {
	if r.rl != nil {
		return r.rl.Close()
	}
	return nil
}
