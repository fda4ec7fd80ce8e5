package server

import (
	"time"

	"github.com/shopspring/decimal"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/worker"
	"buff_autoaccept/pkg/rest"
)

func newRESTStatus(status worker.Status) rest.Status {
	pending := make(map[string]int, len(status.Pending))
	for game, n := range status.Pending {
		pending[game] = n
	}

	return rest.Status{
		Running:         status.Running,
		Nickname:        status.Nickname,
		SteamID:         status.SteamID,
		Iterations:      status.Iterations,
		LastStartedAt:   timeOrNil(status.LastStartedAt),
		LastFinishedAt:  timeOrNil(status.LastFinishedAt),
		NextIterationAt: timeOrNil(status.NextIterationAt),
		LastError:       status.LastError,
		Pending:         pending,
		IgnoredOffers:   status.IgnoredOffers,
		KnownOrders:     status.KnownOrders,
	}
}

func newRESTIgnoredOffer(offer worker.IgnoredOffer) rest.IgnoredOffer {
	return rest.IgnoredOffer{
		OfferID:   offer.OfferID,
		Outcome:   string(offer.Outcome),
		IgnoredAt: offer.IgnoredAt,
	}
}

func newRESTJournalEntry(entry entity.JournalEntry) rest.JournalEntry {
	return rest.JournalEntry{
		OfferID:   entry.OfferID,
		Game:      entry.Game,
		GoodsID:   entry.GoodsID,
		Outcome:   string(entry.Outcome),
		State:     string(entry.State),
		SalePrice: priceOrNil(entry.SalePrice),
		LowPrice:  priceOrNil(entry.LowPrice),
		Reason:    entry.Reason,
		CreatedAt: entry.CreatedAt,
	}
}

func timeOrNil(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}

func priceOrNil(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}

	s := d.Decimal.String()

	return &s
}
