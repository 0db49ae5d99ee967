package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/sandevgo/verdictbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"VERDICT_RUNTIME_PATH" envDefault:".verdictbot"`

	// Oracle provider selection
	Provider string `env:"LLM_PROVIDER" envDefault:"openrouter"`
	Model    string `env:"LLM_MODEL" envDefault:"openai/gpt-4o-mini"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey  string `env:"ANTHROPIC_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL    string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey     string `env:"OLLAMA_API_KEY"`
	CustomBaseURL    string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomAPIKey     string `env:"CUSTOM_OPENAI_API_KEY"`

	// Transport flags
	EnableTelegram bool `env:"ENABLE_TELEGRAM" envDefault:"false"`
	EnableCLI      bool `env:"ENABLE_CLI" envDefault:"true"`
	EnableMCP      bool `env:"ENABLE_MCP" envDefault:"false"`

	// Every oracle call is time-bounded; an unbounded wait on a dead
	// upstream would hang the owning session.
	OracleTimeout time.Duration `env:"ORACLE_TIMEOUT" envDefault:"30s"`

	// Token budget for the conversation context sent to the extraction
	// oracle.
	ContextTokenBudget int `env:"CONTEXT_TOKEN_BUDGET" envDefault:"2048"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetRuntimePath() string {
	return c.RuntimePath
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "verdictbot.db")
}
