package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Outcome string

const (
	OutcomeAccepted  Outcome = "accepted"
	OutcomeRejected  Outcome = "rejected"
	OutcomeConfirmed Outcome = "confirmed"
	OutcomeFailed    Outcome = "failed"
)

// JournalEntry хранит одно решение по офферу.
type JournalEntry struct {
	OfferID   string
	Game      string
	GoodsID   string
	Outcome   Outcome
	State     OfferState
	SalePrice decimal.NullDecimal
	LowPrice  decimal.NullDecimal
	Reason    string
	CreatedAt time.Time
}
