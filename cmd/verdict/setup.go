package main

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/verdictbot/internal/config"
	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/internal/providers/llm"
	"github.com/sandevgo/verdictbot/internal/service/command"
	"github.com/sandevgo/verdictbot/internal/service/debate"
	"github.com/sandevgo/verdictbot/internal/service/extract"
	"github.com/sandevgo/verdictbot/internal/service/judge"
	"github.com/sandevgo/verdictbot/internal/storage/memory"
	"github.com/sandevgo/verdictbot/internal/storage/sqlite"
	"github.com/sandevgo/verdictbot/internal/transport/cli"
	"github.com/sandevgo/verdictbot/internal/transport/mcp"
	"github.com/sandevgo/verdictbot/internal/transport/telegram"
	"github.com/sandevgo/verdictbot/pkg/log"
	"github.com/sandevgo/verdictbot/pkg/retry"
	"github.com/sandevgo/verdictbot/pkg/srv"
)

func NewServices(ctx context.Context) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	// init env
	err := initEnv(ctx, config.GetRuntimePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	appCfg := config.NewAppConfig(ctx)

	// 2. Storage
	db, transcriptRepo, err := initStorage(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	services = append(services, srv.NewCleanup(db.Close))

	// 3. Oracle provider
	oracle, err := llm.NewProvider(ctx, appCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize LLM provider")
	}

	// 4. Debate service
	svc := debate.NewService(
		memory.NewStore(),
		extract.New(oracle, appCfg.ContextTokenBudget),
		judge.New(oracle),
		transcriptRepo,
		appCfg.OracleTimeout,
	)

	// 5. Command router
	router := command.New(command.NewCommands(svc, transcriptRepo))

	// 6. Transports
	transports, err := initTransports(ctx, appCfg, svc, router)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Fatal().Msg("no transport enabled, set ENABLE_CLI, ENABLE_TELEGRAM or ENABLE_MCP")
	}
	services = append(services, transports...)

	return services
}

func initStorage(ctx context.Context, cfg *config.AppConfig) (*sql.DB, core.TranscriptRepository, error) {
	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, nil, err
	}
	return db, sqlite.NewTranscriptRepo(db), nil
}

func initTransports(
	ctx context.Context,
	cfg *config.AppConfig,
	svc *debate.Service,
	router core.CmdRouter,
) ([]srv.Service, error) {
	var services []srv.Service

	if cfg.EnableTelegram {
		tgCfg := config.NewTelegramConfig(ctx)

		// The long poller handshake hits the network on construction.
		var bot *telegram.Bot
		err := retry.NewDefaultRetrier().Do(ctx, func() error {
			var err error
			bot, err = telegram.NewBot(ctx, tgCfg, svc, router)
			return err
		})
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if cfg.EnableCLI {
		rl, err := cli.NewReadLine(svc, router, cfg)
		if err != nil {
			return nil, err
		}
		services = append(services, rl)
	}

	if cfg.EnableMCP {
		services = append(services, mcp.NewServer(svc))
	}

	return services, nil
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
