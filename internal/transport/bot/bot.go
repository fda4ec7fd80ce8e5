package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"buff_autoaccept/internal/transport/bot/handler"
	"buff_autoaccept/pkg/contextx"
	"buff_autoaccept/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const longPollingTimeout = 60

// Bot отвечает администратору на команды о состоянии автоприёма.
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler
}

func New(
	ctx context.Context,
	token string,
	adminID int64,
	acceptor handler.OfferAcceptor,
	journal handler.OfferJournal,
	opts ...telego.BotOption,
) (*Bot, error) {
	bot, err := telego.NewBot(token, append([]telego.BotOption{telego.WithDiscardLogger()}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: longPollingTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("bot.UpdatesViaLongPolling: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("th.NewBotHandler: %w", err)
	}

	handler.New(acceptor, journal).RegisterRoutes(botHandler, adminID)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
	}, nil
}

// Run обрабатывает обновления до отмены ctx.
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("botHandler.Start", logx.Error(err))
		}
	}()

	logger(ctx).Info("control bot started")

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("botHandler.Stop", logx.Error(err))
	}

	logger(ctx).Info("control bot stopped")

	return nil
}
