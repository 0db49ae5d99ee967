package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sandevgo/verdictbot/internal/config"
	"github.com/sandevgo/verdictbot/internal/core"
	"github.com/sandevgo/verdictbot/internal/service/command"
	"github.com/sandevgo/verdictbot/internal/service/debate"
	"github.com/sandevgo/verdictbot/pkg/log"
	tele "gopkg.in/telebot.v3"
)

const baseContextKey = "base_context"

const greeting = "Bring me your dispute! State the question and what each person says, and I will settle it."

type Bot struct {
	bot     *tele.Bot
	cfg     *config.TelegramConfig
	svc     *debate.Service
	router  core.CmdRouter
	ownerID int64
}

func NewBot(
	ctx context.Context,
	cfg *config.TelegramConfig,
	svc *debate.Service,
	router core.CmdRouter,
) (*Bot, error) {
	pref := tele.Settings{
		Token:  cfg.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	bot := &Bot{
		bot:     b,
		cfg:     cfg,
		svc:     svc,
		router:  router,
		ownerID: cfg.OwnerID,
	}

	// Carry the signal context with logger into handlers
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			c.Set(baseContextKey, ctx)
			return next(c)
		}
	})

	// Optional owner gate
	b.Use(func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if bot.ownerID != 0 && c.Sender().ID != bot.ownerID {
				return nil // Ignore unauthorized users
			}
			return next(c)
		}
	})

	b.Handle("/start", bot.handleStart)
	b.Handle(tele.OnText, bot.handleMessage)

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Msg("starting telegram bot")
	b.bot.Start()
	return nil
}

func (b *Bot) Shutdown(ctx context.Context) error {
	b.bot.Stop()
	return nil
}

func (b *Bot) sessionID(c tele.Context) string {
	return fmt.Sprintf("telegram-%d", c.Chat().ID)
}

// ensureSession lazily creates the per-chat session. Telegram has no setup
// event of its own, so first contact is the setup.
func (b *Bot) ensureSession(ctx context.Context, id string) error {
	if err := b.svc.Setup(ctx, id); err != nil && !errors.Is(err, core.ErrDuplicateSession) {
		return err
	}
	return nil
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	id := b.sessionID(c)

	// /start always begins from a clean slate
	b.svc.Teardown(ctx, id)
	if err := b.svc.Setup(ctx, id); err != nil {
		return c.Send(fmt.Sprintf("error: %v", err))
	}
	return newSender(b.bot).sendMarkdown(ctx, c.Chat(), greeting)
}

func (b *Bot) handleMessage(c tele.Context) error {
	ctx := c.Get(baseContextKey).(context.Context)
	logger := log.FromCtx(ctx)
	id := b.sessionID(c)

	if err := b.ensureSession(ctx, id); err != nil {
		logger.Error().Err(err).Msg("failed to ensure session")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	if reply, handled := b.router.Execute(ctx, id, c.Text()); handled {
		return newSender(b.bot).sendMarkdown(ctx, c.Chat(), reply)
	}

	_ = c.Notify(tele.Typing)

	env, err := b.svc.Turn(ctx, id, c.Text())
	if err != nil {
		logger.Error().Err(err).Str("session", id).Msg("turn failed")
		return c.Send(fmt.Sprintf("error: %v", err))
	}

	out := env.Content
	if env.Type == core.EnvelopeJudgment {
		out += "\n\n" + command.FormatScoreboard(env.Participants)
	}
	return newSender(b.bot).sendMarkdown(ctx, c.Chat(), out)
}
