package entity

import (
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OfferState описывает жизненный цикл оффера внутри одного запуска.
type OfferState string

const (
	OfferStatePending   OfferState = "pending"
	OfferStateToConfirm OfferState = "to-confirm"
	OfferStateAccepted  OfferState = "accepted"
	OfferStateIgnored   OfferState = "ignored"
)

// GameType: имя игры на BUFF и её appid в Steam.
type GameType struct {
	Name  string
	AppID int
}

// GoodsInfo описывает предмет в оффере.
type GoodsInfo struct {
	GoodsID       string
	Name          string
	Game          string
	SteamPrice    string
	SteamPriceCNY string
	IconURL       string
}

// TradeOffer ждёт принятия в Steam.
type TradeOffer struct {
	ID           string
	AppID        int
	Game         string
	Goods        map[string]GoodsInfo
	ItemsToTrade int
	BuyerName    string
	BuyerAvatar  string
	CreatedAt    time.Time
	State        OfferState
}

// PrimaryGoods возвращает первый предмет по возрастанию goods id.
func (o TradeOffer) PrimaryGoods() (GoodsInfo, bool) {
	if len(o.Goods) == 0 {
		return GoodsInfo{}, false
	}

	ids := lo.Keys(o.Goods)
	slices.Sort(ids)

	return o.Goods[ids[0]], true
}

// OrderInfo хранит запись о продаже. Price считается точной ценой продажи.
type OrderInfo struct {
	OfferID string
	GoodsID string
	Game    string
	AppID   int
	Price   decimal.Decimal
}

// PendingCounts: количество заказов к отправке по играм.
type PendingCounts map[string]int

func (p PendingCounts) Total() int {
	var total int
	for _, n := range p {
		total += n
	}

	return total
}

// Decision содержит итог проверки защиты цены.
type Decision struct {
	Accept    bool
	SalePrice decimal.Decimal
	LowPrice  decimal.Decimal
	CacheHit  bool
}
