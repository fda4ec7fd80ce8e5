package notifier

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

type TelegramSender struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramSender(token string, chatID int64, opts ...telego.BotOption) (*TelegramSender, error) {
	bot, err := telego.NewBot(token, append([]telego.BotOption{telego.WithDiscardLogger()}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &TelegramSender{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (s *TelegramSender) Send(ctx context.Context, title, body string) error {
	text := body
	if title != "" {
		text = title + "\n\n" + body
	}

	_, err := s.bot.SendMessage(ctx, tu.Message(tu.ID(s.chatID), text))
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

func (s *TelegramSender) Name() string {
	return "telegram"
}
