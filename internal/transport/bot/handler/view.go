package handler

import (
	"fmt"
	"html"
	"slices"
	"strings"
	"time"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
	"github.com/samber/lo"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/worker"
)

const (
	pageSize           = 10
	recentJournalLimit = 10
	ignoredPagePrefix  = "ignored_page:"
	timeLayout         = "2006-01-02 15:04:05"
)

const startMessage = `👋 <b>BUFF автоприём</b>

/status — состояние цикла
/ignored — обработанные офферы
/journal — последние решения
/journal <code>ID</code> — история оффера`

const (
	journalUnavailable = "⚠️ Журнал недоступен"
	journalEmpty       = "📭 Записей нет"
	ignoredEmpty       = "📭 Обработанных офферов пока нет"
	invalidOfferID     = "❌ ID оффера должен состоять из цифр"
)

func statusText(s worker.Status) string {
	var sb strings.Builder

	sb.WriteString("📊 <b>Статус автоприёма</b>\n\n")
	fmt.Fprintf(&sb, "🔁 <b>Цикл:</b> %s\n", runningStatus(s.Running))
	fmt.Fprintf(&sb, "👤 <b>BUFF:</b> %s\n", orDash(html.EscapeString(s.Nickname)))
	fmt.Fprintf(&sb, "🎮 <b>Steam:</b> <code>%s</code>\n", orDash(s.SteamID))
	fmt.Fprintf(&sb, "🔢 <b>Итераций:</b> %d\n", s.Iterations)
	fmt.Fprintf(&sb, "🕐 <b>Последняя:</b> %s\n", formatTime(s.LastFinishedAt))
	fmt.Fprintf(&sb, "⏭ <b>Следующая:</b> %s\n", formatTime(s.NextIterationAt))
	fmt.Fprintf(&sb, "✅ <b>Обработано офферов:</b> %d\n", s.IgnoredOffers)
	fmt.Fprintf(&sb, "📦 <b>Известных продаж:</b> %d\n", s.KnownOrders)

	if len(s.Pending) > 0 {
		sb.WriteString("\n📬 <b>Ожидают отправки:</b>\n")

		games := lo.Keys(s.Pending)
		slices.Sort(games)

		for _, game := range games {
			fmt.Fprintf(&sb, "• %s: %d\n", html.EscapeString(game), s.Pending[game])
		}
	}

	if s.LastError != "" {
		fmt.Fprintf(&sb, "\n⚠️ <b>Ошибка:</b> %s\n", html.EscapeString(s.LastError))
	}

	return sb.String()
}

// ignoredPage возвращает страницу списка обработанных офферов и клавиатуру пагинации.
// Номер страницы прижимается к допустимому диапазону.
func ignoredPage(offers []worker.IgnoredOffer, page int) (string, *telego.InlineKeyboardMarkup) {
	if len(offers) == 0 {
		return ignoredEmpty, nil
	}

	totalPages := (len(offers) + pageSize - 1) / pageSize
	page = max(1, min(page, totalPages))

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(offers))

	var sb strings.Builder

	fmt.Fprintf(&sb, "📋 <b>Обработанные офферы</b> (Стр. %d/%d)\n\n", page, totalPages)

	for i, offer := range offers[start:end] {
		fmt.Fprintf(&sb, "%d. <code>%s</code> %s %s\n",
			start+i+1,
			offer.OfferID,
			outcomeIcon(offer.Outcome),
			offer.IgnoredAt.Local().Format(timeLayout),
		)
	}

	return sb.String(), paginationKeyboard(page, totalPages)
}

func journalText(title string, entries []entity.JournalEntry) string {
	if len(entries) == 0 {
		return journalEmpty
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "🗂 <b>%s</b>\n\n", html.EscapeString(title))

	for _, entry := range entries {
		fmt.Fprintf(&sb, "%s <code>%s</code> %s/%s",
			outcomeIcon(entry.Outcome),
			entry.OfferID,
			html.EscapeString(entry.Game),
			html.EscapeString(entry.GoodsID),
		)

		if entry.SalePrice.Valid {
			fmt.Fprintf(&sb, " ¥%s", entry.SalePrice.Decimal.String())
		}

		if entry.LowPrice.Valid {
			fmt.Fprintf(&sb, " (мин. ¥%s)", entry.LowPrice.Decimal.String())
		}

		fmt.Fprintf(&sb, "\n   %s", entry.CreatedAt.Local().Format(timeLayout))

		if entry.Reason != "" {
			fmt.Fprintf(&sb, " — %s", html.EscapeString(entry.Reason))
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

func paginationKeyboard(page, totalPages int) *telego.InlineKeyboardMarkup {
	if totalPages <= 1 {
		return nil
	}

	var buttons []telego.InlineKeyboardButton

	if page > 1 {
		buttons = append(buttons, tu.InlineKeyboardButton("⬅️").
			WithCallbackData(fmt.Sprintf("%s%d", ignoredPagePrefix, page-1)))
	}

	buttons = append(buttons, tu.InlineKeyboardButton(fmt.Sprintf("%d / %d", page, totalPages)).
		WithCallbackData("noop"))

	if page < totalPages {
		buttons = append(buttons, tu.InlineKeyboardButton("➡️").
			WithCallbackData(fmt.Sprintf("%s%d", ignoredPagePrefix, page+1)))
	}

	return tu.InlineKeyboard(tu.InlineKeyboardRow(buttons...))
}

func outcomeIcon(outcome entity.Outcome) string {
	switch outcome {
	case entity.OutcomeAccepted:
		return "✅"
	case entity.OutcomeConfirmed:
		return "🔐"
	case entity.OutcomeRejected:
		return "🛡"
	case entity.OutcomeFailed:
		return "❌"
	default:
		return "•"
	}
}

func runningStatus(running bool) string {
	if running {
		return "🟢 работает"
	}

	return "🔴 остановлен"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "—"
	}

	return t.Local().Format(timeLayout)
}

func orDash(s string) string {
	if s == "" {
		return "—"
	}

	return s
}
