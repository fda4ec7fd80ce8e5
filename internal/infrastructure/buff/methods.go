package buff

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/domain/service/protection"
)

type UserInfo struct {
	Nickname string
	SteamID  string
}

func (c *Client) UserInfo(ctx context.Context) (UserInfo, error) {
	var dto userInfoDTO
	if _, err := c.get(ctx, "/account/api/user/info", nil, &dto); err != nil {
		return UserInfo{}, err
	}

	return UserInfo{
		Nickname: dto.Nickname,
		SteamID:  string(dto.SteamID),
	}, nil
}

// AccountState проверяет, что cookie живы: есть никнейм и steam_trade отдаёт данные.
// ErrLoginRequired возвращается только когда BUFF сам сообщает о разлогине;
// сетевые ошибки и 5xx уходят как есть, их можно повторить.
func (c *Client) AccountState(ctx context.Context) (string, error) {
	info, err := c.UserInfo(ctx)
	if err != nil {
		return "", fmt.Errorf("c.UserInfo: %w", err)
	}

	if info.Nickname == "" {
		return "", fmt.Errorf("empty nickname: %w", ErrLoginRequired)
	}

	var trades []tradeDTO
	if _, err = c.get(ctx, "/api/market/steam_trade", nil, &trades); err != nil {
		if errors.Is(err, ErrEmptyData) {
			return "", fmt.Errorf("steam_trade: %w", errors.Join(ErrLoginRequired, err))
		}

		return "", fmt.Errorf("steam_trade: %w", err)
	}

	return info.Nickname, nil
}

func (c *Client) BoundSteamID(ctx context.Context) (string, error) {
	info, err := c.UserInfo(ctx)
	if err != nil {
		return "", err
	}

	if info.SteamID == "" {
		return "", fmt.Errorf("empty steamid: %w", ErrMalformedResponse)
	}

	return info.SteamID, nil
}

// MessageNotification возвращает количество заказов к отправке по играм.
func (c *Client) MessageNotification(ctx context.Context) (entity.PendingCounts, error) {
	var dto notificationDTO

	local, err := readDevFile(ctx, c.messageNotificationDevPath, &dto)
	if err != nil {
		return nil, err
	}

	if !local {
		if _, err = c.get(ctx, "/api/message/notification", nil, &dto); err != nil {
			return nil, err
		}
	}

	counts := make(entity.PendingCounts, len(dto.ToDeliverOrder))
	for game, n := range dto.ToDeliverOrder {
		counts[game] = int(n)
	}

	return counts, nil
}

// SteamTrades возвращает офферы, которые BUFF ждёт принять в Steam.
func (c *Client) SteamTrades(ctx context.Context) ([]entity.TradeOffer, error) {
	var dto []tradeDTO

	local, err := readDevFile(ctx, c.steamTradeDevPath, &dto)
	if err != nil {
		return nil, err
	}

	if !local {
		if _, err = c.get(ctx, "/api/market/steam_trade", nil, &dto); err != nil {
			return nil, err
		}
	}

	trades := make([]entity.TradeOffer, 0, len(dto))
	for _, d := range dto {
		if d.TradeOfferID == "" {
			continue
		}

		trades = append(trades, d.toEntity())
	}

	return trades, nil
}

// ToDeliver возвращает заказы игры, ожидающие отправки. Заказы без offer id пропускаются.
func (c *Client) ToDeliver(ctx context.Context, game entity.GameType) ([]entity.OrderInfo, error) {
	query := url.Values{}
	query.Set("game", game.Name)
	query.Set("appid", strconv.Itoa(game.AppID))

	var dto itemsDTO[sellOrderDTO]
	if _, err := c.get(ctx, "/api/market/sell_order/to_deliver", query, &dto); err != nil {
		return nil, err
	}

	return ordersWithOffer(dto.Items, game), nil
}

func (c *Client) SellOrderHistory(ctx context.Context, game entity.GameType) ([]entity.OrderInfo, error) {
	query := url.Values{}
	query.Set("appid", strconv.Itoa(game.AppID))
	query.Set("mode", "1")

	var dto itemsDTO[sellOrderDTO]
	if _, err := c.get(ctx, "/api/market/sell_order/history", query, &dto); err != nil {
		return nil, err
	}

	return ordersWithOffer(dto.Items, game), nil
}

// LowestSellPrice возвращает цену первого лота при сортировке default.
func (c *Client) LowestSellPrice(ctx context.Context, game, goodsID string) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("game", game)
	query.Set("goods_id", goodsID)
	query.Set("page_num", "1")
	query.Set("sort_by", "default")
	query.Set("mode", "")
	query.Set("allow_tradable_cooldown", "1")

	var dto itemsDTO[listingDTO]
	if _, err := c.get(ctx, "/api/market/goods/sell_order", query, &dto); err != nil {
		return decimal.Decimal{}, err
	}

	if len(dto.Items) == 0 {
		return decimal.Decimal{}, fmt.Errorf("goods %s: %w", goodsID, protection.ErrNoListings)
	}

	return dto.Items[0].Price, nil
}

// RequireBuyerSendOffer включает настройку "покупатель сам отправляет оффер".
// csrf_token берётся из cookie ответа steam_trade.
func (c *Client) RequireBuyerSendOffer(ctx context.Context) error {
	resp, err := c.get(ctx, "/api/market/steam_trade", nil, nil)
	if err != nil {
		return fmt.Errorf("steam_trade: %w", err)
	}

	var csrf string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "csrf_token" {
			csrf = cookie.Value
		}
	}

	if csrf == "" {
		return ErrNoCSRFToken
	}

	header := http.Header{}
	header.Set("X-CSRFToken", csrf)
	header.Set("Origin", c.baseURL)
	header.Set("Referer", c.baseURL+"/user-center/profile")

	err = c.postJSON(ctx, "/account/api/prefer/force_buyer_send_offer",
		preferRequest{ForceBuyerSendOffer: "true"}, header, nil)
	if err != nil {
		return fmt.Errorf("force_buyer_send_offer: %w", err)
	}

	logger(ctx).Info("buyer send offer preference enabled")

	return nil
}

func ordersWithOffer(items []sellOrderDTO, game entity.GameType) []entity.OrderInfo {
	orders := make([]entity.OrderInfo, 0, len(items))
	for _, item := range items {
		if item.TradeOfferID == "" {
			continue
		}

		orders = append(orders, item.toEntity(game))
	}

	return orders
}
