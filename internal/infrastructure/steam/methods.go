package steam

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"

	"buff_autoaccept/pkg/logx"
)

// TradeOfferStateNeedsConfirmation: оффер принят, но ждёт подтверждения в мобильном аутентификаторе.
const TradeOfferStateNeedsConfirmation = 9

// steamID64Base переводит 32-битный account id в SteamID64.
const steamID64Base = 76561197960265728

type AcceptResult struct {
	TradeID           string
	NeedsConfirmation bool
}

type tradeOffer struct {
	TradeOfferID    string `json:"tradeofferid"`
	AccountIDOther  int64  `json:"accountid_other"`
	TradeOfferState int    `json:"trade_offer_state"`
}

func (c *Client) SteamID() string {
	steamID, _, err := c.identity()
	if err != nil {
		return ""
	}

	return steamID
}

// IsSessionAlive спрашивает у Steam Community, залогинена ли текущая сессия.
func (c *Client) IsSessionAlive(ctx context.Context) (bool, error) {
	var resp struct {
		LoggedIn bool   `json:"logged_in"`
		SteamID  string `json:"steamid"`
	}

	if err := c.getJSON(ctx, c.communityURL("/chat/clientjstoken"), &resp); err != nil {
		if errors.Is(err, ErrSessionExpired) {
			return false, nil
		}

		return false, err
	}

	return resp.LoggedIn, nil
}

// ReLogin перечитывает cookie из файла сессии и проверяет, что сессия ожила.
func (c *Client) ReLogin(ctx context.Context) error {
	if err := c.loadSession(); err != nil {
		return err
	}

	alive, err := c.IsSessionAlive(ctx)
	if err != nil {
		return fmt.Errorf("c.IsSessionAlive: %w", err)
	}

	if !alive {
		return ErrSessionExpired
	}

	logger(ctx).Info("steam session reloaded", slog.String(logx.FieldSteamID, c.SteamID()))

	return nil
}

// SaveSession сохраняет текущие cookie в файл сессии.
func (c *Client) SaveSession() error {
	return c.store.Save(c.client().Jar.Cookies(c.community))
}

func (c *Client) getOffer(ctx context.Context, offerID string) (tradeOffer, error) {
	_, accessToken, err := c.identity()
	if err != nil {
		return tradeOffer{}, err
	}

	query := url.Values{}
	query.Set("access_token", accessToken)
	query.Set("tradeofferid", offerID)

	var resp struct {
		Response struct {
			Offer *tradeOffer `json:"offer"`
		} `json:"response"`
	}

	if err = c.getJSON(ctx, c.apiURL+"/IEconService/GetTradeOffer/v1/?"+query.Encode(), &resp); err != nil {
		return tradeOffer{}, err
	}

	if resp.Response.Offer == nil {
		return tradeOffer{}, fmt.Errorf("offer %s: %w", offerID, ErrOfferNotFound)
	}

	return *resp.Response.Offer, nil
}

func (c *Client) GetOfferState(ctx context.Context, offerID string) (int, error) {
	offer, err := c.getOffer(ctx, offerID)
	if err != nil {
		return 0, err
	}

	return offer.TradeOfferState, nil
}

// AcceptOffer принимает входящий оффер. Партнёр берётся из самого оффера.
func (c *Client) AcceptOffer(ctx context.Context, offerID string) (AcceptResult, error) {
	offer, err := c.getOffer(ctx, offerID)
	if err != nil {
		return AcceptResult{}, fmt.Errorf("c.getOffer: %w", err)
	}

	form := url.Values{}
	form.Set("sessionid", c.cookie("sessionid"))
	form.Set("serverid", "1")
	form.Set("tradeofferid", offerID)
	form.Set("partner", strconv.FormatInt(offer.AccountIDOther+steamID64Base, 10))
	form.Set("captcha", "")

	var resp struct {
		TradeID                 string `json:"tradeid"`
		NeedsMobileConfirmation bool   `json:"needs_mobile_confirmation"`
		NeedsEmailConfirmation  bool   `json:"needs_email_confirmation"`
		StrError                string `json:"strError"`
	}

	referer := c.communityURL("/tradeoffer/" + offerID + "/")

	if err = c.postForm(ctx, referer+"accept", referer, form, &resp); err != nil {
		return AcceptResult{}, errors.Join(ErrAcceptFailed, err)
	}

	if resp.StrError != "" {
		return AcceptResult{}, fmt.Errorf("%w: %s", ErrAcceptFailed, resp.StrError)
	}

	return AcceptResult{
		TradeID:           resp.TradeID,
		NeedsConfirmation: resp.NeedsMobileConfirmation || resp.NeedsEmailConfirmation,
	}, nil
}

type confirmation struct {
	ID        string `json:"id"`
	Nonce     string `json:"nonce"`
	CreatorID string `json:"creator_id"`
}

// ConfirmOffer находит мобильное подтверждение оффера и разрешает его.
func (c *Client) ConfirmOffer(ctx context.Context, offerID string) error {
	query, err := c.confirmationQuery("conf")
	if err != nil {
		return err
	}

	var list struct {
		Success bool           `json:"success"`
		Conf    []confirmation `json:"conf"`
	}

	if err = c.getJSON(ctx, c.communityURL("/mobileconf/getlist?"+query.Encode()), &list); err != nil {
		return fmt.Errorf("getlist: %w", err)
	}

	if !list.Success {
		return fmt.Errorf("getlist: %w", ErrConfirmFailed)
	}

	var found *confirmation
	for i := range list.Conf {
		if list.Conf[i].CreatorID == offerID {
			found = &list.Conf[i]
			break
		}
	}

	if found == nil {
		return fmt.Errorf("offer %s: %w", offerID, ErrConfirmationNotFound)
	}

	if query, err = c.confirmationQuery("allow"); err != nil {
		return err
	}

	query.Set("op", "allow")
	query.Set("cid", found.ID)
	query.Set("ck", found.Nonce)

	var result struct {
		Success bool `json:"success"`
	}

	if err = c.getJSON(ctx, c.communityURL("/mobileconf/ajaxop?"+query.Encode()), &result); err != nil {
		return fmt.Errorf("ajaxop: %w", err)
	}

	if !result.Success {
		return fmt.Errorf("offer %s: %w", offerID, ErrConfirmFailed)
	}

	return nil
}

func (c *Client) confirmationQuery(tag string) (url.Values, error) {
	steamID, _, err := c.identity()
	if err != nil {
		return nil, err
	}

	timestamp := c.now().Unix()

	key, err := ConfirmationKey(c.account.IdentitySecret, timestamp, tag)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("p", DeviceID(steamID))
	query.Set("a", steamID)
	query.Set("k", key)
	query.Set("t", strconv.FormatInt(timestamp, 10))
	query.Set("m", "react")
	query.Set("tag", tag)

	return query, nil
}
