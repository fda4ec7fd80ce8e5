package protection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/pkg/contextx"
	"buff_autoaccept/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var (
	ErrNoListings         = errors.New("no active listings")
	ErrNoOrderInfo        = errors.New("no order info for offer")
	ErrNoGoods            = errors.New("offer has no goods")
	ErrInvalidMarketPrice = errors.New("market price is not positive")
)

type MarketSource interface {
	LowestSellPrice(ctx context.Context, game, goodsID string) (decimal.Decimal, error)
}

type Notifier interface {
	Notify(ctx context.Context, tmpl *entity.Template, offer entity.TradeOffer, order entity.OrderInfo)
}

type Settings struct {
	Enabled      bool
	Percentage   decimal.Decimal
	MinimumPrice decimal.Decimal
}

type Evaluator struct {
	source       MarketSource
	cache        *PriceCache
	notifier     Notifier
	settings     Settings
	notification *entity.Template
}

func NewEvaluator(source MarketSource, cache *PriceCache, notifier Notifier, settings Settings) *Evaluator {
	return &Evaluator{
		source:   source,
		cache:    cache,
		notifier: notifier,
		settings: settings,
	}
}

// WithNotification задаёт шаблон уведомления об отклонённом оффере.
func (e *Evaluator) WithNotification(tmpl *entity.Template) *Evaluator {
	e.notification = tmpl
	return e
}

// Evaluate решает, можно ли принять оффер по цене продажи.
// Отклоняет, только если sale < low*percentage и low > minimum.
func (e *Evaluator) Evaluate(ctx context.Context, offer entity.TradeOffer, order *entity.OrderInfo) (entity.Decision, error) {
	if !e.settings.Enabled {
		return entity.Decision{Accept: true}, nil
	}

	if order == nil {
		return entity.Decision{}, fmt.Errorf("offer %s: %w", offer.ID, ErrNoOrderInfo)
	}

	goods, ok := offer.PrimaryGoods()
	if !ok {
		return entity.Decision{}, fmt.Errorf("offer %s: %w", offer.ID, ErrNoGoods)
	}

	low, hit, err := e.marketLow(ctx, offer.Game, goods.GoodsID)
	if err != nil {
		return entity.Decision{}, err
	}

	decision := entity.Decision{
		Accept:    !IsBelowThreshold(order.Price, low, e.settings),
		SalePrice: order.Price,
		LowPrice:  low,
		CacheHit:  hit,
	}

	if decision.Accept {
		return decision, nil
	}

	logger(ctx).Warn("sale price below protection threshold, offer skipped",
		slog.String(logx.FieldOfferID, offer.ID),
		slog.String(logx.FieldGoodsID, goods.GoodsID),
		slog.String(logx.FieldSalePrice, order.Price.String()),
		slog.String(logx.FieldLowPrice, low.String()),
	)

	if e.notification.Configured() && e.notifier != nil {
		e.notifier.Notify(ctx, e.notification, offer, *order)
	}

	return decision, nil
}

func (e *Evaluator) marketLow(ctx context.Context, game, goodsID string) (decimal.Decimal, bool, error) {
	if price, ok := e.cache.Get(goodsID); ok {
		logger(ctx).Debug("lowest price from cache",
			slog.String(logx.FieldGoodsID, goodsID),
			slog.String(logx.FieldLowPrice, price.String()),
		)

		return price, true, nil
	}

	price, err := e.source.LowestSellPrice(ctx, game, goodsID)
	if err != nil {
		return decimal.Decimal{}, false, fmt.Errorf("source.LowestSellPrice: %w", err)
	}

	if !price.IsPositive() {
		return decimal.Decimal{}, false, fmt.Errorf("goods %s: %w", goodsID, ErrInvalidMarketPrice)
	}

	e.cache.Put(goodsID, price)

	return price, false, nil
}

func IsBelowThreshold(sale, low decimal.Decimal, settings Settings) bool {
	return sale.LessThan(low.Mul(settings.Percentage)) && low.GreaterThan(settings.MinimumPrice)
}
