package handler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"buff_autoaccept/pkg/logx"
)

var offerIDRegexp = regexp.MustCompile(`^\d{1,20}$`) //nolint:gochecknoglobals

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, startMessage, nil)
}

func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, statusText(h.acceptor.Status()), nil)
}

func (h *Handler) OnIgnored(ctx *th.Context, msg telego.Message) error {
	text, keyboard := ignoredPage(h.acceptor.IgnoredOffers(), 1)

	return h.sendHTML(ctx, msg.Chat.ID, text, keyboard)
}

// OnJournal без аргумента показывает последние решения, с аргументом показывает историю оффера.
// Использование: /journal 6655443322
func (h *Handler) OnJournal(ctx *th.Context, msg telego.Message) error {
	args := strings.Fields(msg.Text)

	if len(args) < 2 {
		entries, err := h.journal.Recent(ctx, recentJournalLimit)
		if err != nil {
			logger(ctx).Warn("journal.Recent", logx.Error(err))

			return h.sendHTML(ctx, msg.Chat.ID, journalUnavailable, nil)
		}

		return h.sendHTML(ctx, msg.Chat.ID, journalText("Последние решения", entries), nil)
	}

	offerID := args[1]
	if !offerIDRegexp.MatchString(offerID) {
		return h.sendHTML(ctx, msg.Chat.ID, invalidOfferID, nil)
	}

	entries, err := h.journal.ByOffer(ctx, offerID)
	if err != nil {
		logger(ctx).Warn("journal.ByOffer", logx.Error(err))

		return h.sendHTML(ctx, msg.Chat.ID, journalEmpty, nil)
	}

	return h.sendHTML(ctx, msg.Chat.ID, journalText(fmt.Sprintf("Оффер %s", offerID), entries), nil)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string, keyboard *telego.InlineKeyboardMarkup) error {
	params := tu.Message(tu.ID(chatID), text).WithParseMode(telego.ModeHTML)
	if keyboard != nil {
		params = params.WithReplyMarkup(keyboard)
	}

	if _, err := ctx.Bot().SendMessage(ctx, params); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}
