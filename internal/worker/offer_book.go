package worker

import (
	"sort"
	"sync"
	"time"

	"buff_autoaccept/internal/domain/entity"
)

// offerBook хранит состояние воркера на время запуска: обработанные офферы,
// записи о продажах и счётчики попыток принятия. После рестарта пустое.
type offerBook struct {
	mu       sync.RWMutex
	ignored  map[string]IgnoredOffer
	orders   map[string]entity.OrderInfo
	attempts map[string]int
}

type IgnoredOffer struct {
	OfferID   string
	Outcome   entity.Outcome
	IgnoredAt time.Time
}

func newOfferBook() *offerBook {
	return &offerBook{
		ignored:  make(map[string]IgnoredOffer),
		orders:   make(map[string]entity.OrderInfo),
		attempts: make(map[string]int),
	}
}

func (b *offerBook) isIgnored(offerID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()

	_, ok := b.ignored[offerID]

	return ok
}

// ignore идемпотентен: первая запись остаётся.
func (b *offerBook) ignore(offerID string, outcome entity.Outcome) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.ignored[offerID]; !ok {
		b.ignored[offerID] = IgnoredOffer{
			OfferID:   offerID,
			Outcome:   outcome,
			IgnoredAt: time.Now(),
		}
	}

	delete(b.attempts, offerID)

	return len(b.ignored)
}

func (b *offerBook) order(offerID string) (entity.OrderInfo, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	order, ok := b.orders[offerID]

	return order, ok
}

func (b *offerBook) putOrders(orders []entity.OrderInfo) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, order := range orders {
		if order.OfferID == "" {
			continue
		}

		b.orders[order.OfferID] = order
	}
}

func (b *offerBook) addAttempt(offerID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.attempts[offerID]++

	return b.attempts[offerID]
}

func (b *offerBook) ignoredOffers() []IgnoredOffer {
	b.mu.RLock()
	defer b.mu.RUnlock()

	offers := make([]IgnoredOffer, 0, len(b.ignored))
	for _, o := range b.ignored {
		offers = append(offers, o)
	}

	sort.Slice(offers, func(i, j int) bool {
		if offers[i].IgnoredAt.Equal(offers[j].IgnoredAt) {
			return offers[i].OfferID < offers[j].OfferID
		}

		return offers[i].IgnoredAt.Before(offers[j].IgnoredAt)
	})

	return offers
}

func (b *offerBook) counts() (ignored, orders int) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.ignored), len(b.orders)
}
