package protection

import (
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
)

const PriceCacheTTL = time.Hour

// PriceCache хранит минимальную цену на рынке по goods id.
// Просроченные записи отбрасываются только при чтении.
type PriceCache struct {
	items *cache.Cache
}

func NewPriceCache(ttl time.Duration) *PriceCache {
	return &PriceCache{
		items: cache.New(ttl, 0),
	}
}

func (c *PriceCache) Get(goodsID string) (decimal.Decimal, bool) {
	v, found := c.items.Get(goodsID)
	if !found {
		return decimal.Decimal{}, false
	}

	price, ok := v.(decimal.Decimal)

	return price, ok
}

func (c *PriceCache) Put(goodsID string, price decimal.Decimal) {
	c.items.Set(goodsID, price, cache.DefaultExpiration)
}
