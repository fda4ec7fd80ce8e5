package handler

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mymmrac/telego"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/worker"
)

func makeIgnored(n int) []worker.IgnoredOffer {
	offers := make([]worker.IgnoredOffer, 0, n)
	for i := range n {
		offers = append(offers, worker.IgnoredOffer{
			OfferID:   fmt.Sprintf("%d", 1000+i),
			Outcome:   entity.OutcomeAccepted,
			IgnoredAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		})
	}

	return offers
}

func callbacks(keyboard *telego.InlineKeyboardMarkup) []string {
	var data []string
	for _, row := range keyboard.InlineKeyboard {
		for _, button := range row {
			data = append(data, button.CallbackData)
		}
	}

	return data
}

func TestIgnoredPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		offers        int
		page          int
		wantHeader    string
		wantFirst     string
		wantCallbacks []string
	}{
		{
			name:          "First page",
			offers:        25,
			page:          1,
			wantHeader:    "(Стр. 1/3)",
			wantFirst:     "1. <code>1000</code>",
			wantCallbacks: []string{"noop", "ignored_page:2"},
		},
		{
			name:          "Middle page",
			offers:        25,
			page:          2,
			wantHeader:    "(Стр. 2/3)",
			wantFirst:     "11. <code>1010</code>",
			wantCallbacks: []string{"ignored_page:1", "noop", "ignored_page:3"},
		},
		{
			name:          "Page past the end is clamped",
			offers:        25,
			page:          10,
			wantHeader:    "(Стр. 3/3)",
			wantFirst:     "21. <code>1020</code>",
			wantCallbacks: []string{"ignored_page:2", "noop"},
		},
		{
			name:       "Single page has no keyboard",
			offers:     5,
			page:       1,
			wantHeader: "(Стр. 1/1)",
			wantFirst:  "5. <code>1004</code>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rq := require.New(t)

			text, keyboard := ignoredPage(makeIgnored(tt.offers), tt.page)

			rq.Contains(text, tt.wantHeader)
			rq.Contains(text, tt.wantFirst)

			if tt.wantCallbacks == nil {
				rq.Nil(keyboard)

				return
			}

			rq.NotNil(keyboard)
			rq.Equal(tt.wantCallbacks, callbacks(keyboard))
		})
	}
}

func TestIgnoredPageEmpty(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	text, keyboard := ignoredPage(nil, 1)

	rq.Equal(ignoredEmpty, text)
	rq.Nil(keyboard)
}

func TestStatusText(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	text := statusText(worker.Status{
		Running:       true,
		Nickname:      "<seller>",
		SteamID:       "76561198000000001",
		Iterations:    3,
		LastError:     "buff: bad status <500>",
		Pending:       entity.PendingCounts{"dota2": 1, "csgo": 2},
		IgnoredOffers: 4,
	})

	rq.Contains(text, "🟢 работает")
	rq.Contains(text, "&lt;seller&gt;")
	rq.Contains(text, "<code>76561198000000001</code>")
	rq.Contains(text, "<b>Итераций:</b> 3")
	rq.Contains(text, "bad status &lt;500&gt;")
	rq.Contains(text, "<b>Следующая:</b> —")
	rq.Less(strings.Index(text, "csgo: 2"), strings.Index(text, "dota2: 1"))
}

func TestJournalText(t *testing.T) {
	t.Parallel()

	rq := require.New(t)

	rq.Equal(journalEmpty, journalText("Последние решения", nil))

	text := journalText("Оффер 42", []entity.JournalEntry{
		{
			OfferID:   "42",
			Game:      "csgo",
			GoodsID:   "33815",
			Outcome:   entity.OutcomeRejected,
			SalePrice: decimal.NewNullDecimal(decimal.RequireFromString("50")),
			LowPrice:  decimal.NewNullDecimal(decimal.RequireFromString("100")),
			Reason:    "below threshold",
			CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			OfferID: "42",
			Game:    "csgo",
			GoodsID: "33815",
			Outcome: entity.OutcomeFailed,
		},
	})

	rq.Contains(text, "<b>Оффер 42</b>")
	rq.Contains(text, "🛡 <code>42</code> csgo/33815 ¥50 (мин. ¥100)")
	rq.Contains(text, "— below threshold")
	rq.Contains(text, "❌ <code>42</code> csgo/33815\n")
}
