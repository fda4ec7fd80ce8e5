package buff

import (
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"buff_autoaccept/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

type envelope struct {
	Code string              `json:"code"`
	Msg  any                 `json:"msg"`
	Data jsoniter.RawMessage `json:"data"`
}

// text принимает и строку, и число, и null: BUFF отдаёт одни и те же поля по-разному.
type text string

func (t *text) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*t = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err //nolint:wrapcheck
		}

		*t = text(s)

		return nil
	}

	*t = text(data)

	return nil
}

type count int

func (c *count) UnmarshalJSON(data []byte) error {
	var t text
	if err := t.UnmarshalJSON(data); err != nil {
		return err
	}

	if t == "" {
		*c = 0
		return nil
	}

	n, err := strconv.Atoi(string(t))
	if err != nil {
		return err //nolint:wrapcheck
	}

	*c = count(n)

	return nil
}

type userInfoDTO struct {
	Nickname string `json:"nickname"`
	SteamID  text   `json:"steamid"`
}

type notificationDTO struct {
	ToDeliverOrder map[string]count `json:"to_deliver_order"`
}

type goodsInfoDTO struct {
	Name            string `json:"name"`
	Game            string `json:"game"`
	SteamPrice      text   `json:"steam_price"`
	SteamPriceCNY   text   `json:"steam_price_cny"`
	OriginalIconURL string `json:"original_icon_url"`
}

type tradeDTO struct {
	TradeOfferID text                    `json:"tradeofferid"`
	AppID        int                     `json:"appid"`
	Game         string                  `json:"game"`
	GoodsInfos   map[string]goodsInfoDTO `json:"goods_infos"`
	BotName      string                  `json:"bot_name"`
	BotAvatar    string                  `json:"bot_avatar"`
	CreatedAt    int64                   `json:"created_at"`
	ItemsToTrade []jsoniter.RawMessage   `json:"items_to_trade"`
}

type sellOrderDTO struct {
	TradeOfferID text            `json:"tradeofferid"`
	GoodsID      text            `json:"goods_id"`
	Game         string          `json:"game"`
	AppID        int             `json:"appid"`
	Price        decimal.Decimal `json:"price"`
}

type itemsDTO[T any] struct {
	Items []T `json:"items"`
}

type listingDTO struct {
	Price decimal.Decimal `json:"price"`
}

type preferRequest struct {
	ForceBuyerSendOffer string `json:"force_buyer_send_offer"`
}

func (d tradeDTO) toEntity() entity.TradeOffer {
	goods := make(map[string]entity.GoodsInfo, len(d.GoodsInfos))
	for id, g := range d.GoodsInfos {
		goods[id] = entity.GoodsInfo{
			GoodsID:       id,
			Name:          g.Name,
			Game:          lo.CoalesceOrEmpty(g.Game, d.Game),
			SteamPrice:    string(g.SteamPrice),
			SteamPriceCNY: string(g.SteamPriceCNY),
			IconURL:       g.OriginalIconURL,
		}
	}

	var createdAt time.Time
	if d.CreatedAt > 0 {
		createdAt = time.Unix(d.CreatedAt, 0)
	}

	return entity.TradeOffer{
		ID:           string(d.TradeOfferID),
		AppID:        d.AppID,
		Game:         d.Game,
		Goods:        goods,
		ItemsToTrade: len(d.ItemsToTrade),
		BuyerName:    d.BotName,
		BuyerAvatar:  d.BotAvatar,
		CreatedAt:    createdAt,
		State:        entity.OfferStatePending,
	}
}

func (d sellOrderDTO) toEntity(game entity.GameType) entity.OrderInfo {
	return entity.OrderInfo{
		OfferID: string(d.TradeOfferID),
		GoodsID: string(d.GoodsID),
		Game:    lo.CoalesceOrEmpty(d.Game, game.Name),
		AppID:   lo.CoalesceOrEmpty(d.AppID, game.AppID),
		Price:   d.Price,
	}
}
