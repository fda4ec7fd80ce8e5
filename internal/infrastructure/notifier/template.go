package notifier

import (
	"strconv"
	"strings"

	"buff_autoaccept/internal/domain/entity"
)

const orderTimeLayout = "2006-01-02 15:04:05"

// Variables собирает значения плейсхолдеров по офферу и записи о продаже.
func Variables(offer entity.TradeOffer, order entity.OrderInfo) map[string]string {
	goods, _ := offer.PrimaryGoods()

	var orderTime string
	if !offer.CreatedAt.IsZero() {
		orderTime = offer.CreatedAt.Local().Format(orderTimeLayout)
	}

	return map[string]string{
		"item_name":       goods.Name,
		"steam_price":     goods.SteamPrice,
		"steam_price_cny": goods.SteamPriceCNY,
		"buyer_name":      offer.BuyerName,
		"buyer_avatar":    offer.BuyerAvatar,
		"order_time":      orderTime,
		"game":            goods.Game,
		"good_icon":       goods.IconURL,
		"buff_price":      order.Price.String(),
		"sold_count":      strconv.Itoa(offer.ItemsToTrade),
		"offer_id":        offer.ID,
	}
}

// Render подставляет {name} из vars. Неизвестные плейсхолдеры остаются как есть.
func Render(text string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(text, "{") {
		return text
	}

	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}

	return strings.NewReplacer(pairs...).Replace(text)
}
