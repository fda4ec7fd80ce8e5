package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"buff_autoaccept/pkg/logx"
)

// OnIgnoredCallback перелистывает список обработанных офферов. Формат: "ignored_page:<number>".
func (h *Handler) OnIgnoredCallback(ctx *th.Context, query telego.CallbackQuery) error {
	page, err := strconv.Atoi(strings.TrimPrefix(query.Data, ignoredPagePrefix))
	if err != nil || page < 1 {
		page = 1
	}

	if query.Message == nil {
		return h.answer(ctx, query.ID)
	}

	text, keyboard := ignoredPage(h.acceptor.IgnoredOffers(), page)

	// Telegram отвечает ошибкой, если текст не изменился.
	if _, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(query.Message.GetChat().ID),
		MessageID:   query.Message.GetMessageID(),
		Text:        text,
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: keyboard,
	}); err != nil {
		logger(ctx).Debug("bot.EditMessageText", logx.Error(err))
	}

	return h.answer(ctx, query.ID)
}

func (h *Handler) answer(ctx *th.Context, queryID string) error {
	if err := ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(queryID)); err != nil {
		return fmt.Errorf("bot.AnswerCallbackQuery: %w", err)
	}

	return nil
}
