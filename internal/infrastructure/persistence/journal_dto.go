package persistence

import (
	"time"

	"github.com/shopspring/decimal"

	"buff_autoaccept/internal/domain/entity"
)

// journalSchema описывает строку таблицы offer_journal.
type journalSchema struct {
	ID        int64               `db:"id"`
	OfferID   string              `db:"offer_id"`
	Game      string              `db:"game"`
	GoodsID   string              `db:"goods_id"`
	Outcome   string              `db:"outcome"`
	State     string              `db:"state"`
	SalePrice decimal.NullDecimal `db:"sale_price"`
	LowPrice  decimal.NullDecimal `db:"low_price"`
	Reason    string              `db:"reason"`
	CreatedAt time.Time           `db:"created_at"`
}

func (s *journalSchema) toDomain() entity.JournalEntry {
	return entity.JournalEntry{
		OfferID:   s.OfferID,
		Game:      s.Game,
		GoodsID:   s.GoodsID,
		Outcome:   entity.Outcome(s.Outcome),
		State:     entity.OfferState(s.State),
		SalePrice: s.SalePrice,
		LowPrice:  s.LowPrice,
		Reason:    s.Reason,
		CreatedAt: s.CreatedAt,
	}
}

func fromDomain(e entity.JournalEntry) journalSchema {
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	return journalSchema{
		OfferID:   e.OfferID,
		Game:      e.Game,
		GoodsID:   e.GoodsID,
		Outcome:   string(e.Outcome),
		State:     string(e.State),
		SalePrice: e.SalePrice,
		LowPrice:  e.LowPrice,
		Reason:    e.Reason,
		CreatedAt: createdAt,
	}
}
