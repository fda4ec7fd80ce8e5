package buff_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"buff_autoaccept/internal/domain/entity"
	"buff_autoaccept/internal/domain/service/protection"
	"buff_autoaccept/internal/infrastructure/buff"
)

const steamTradeBody = `{"code":"OK","data":[
	{"tradeofferid":"6001","appid":730,"game":"csgo","bot_name":"buyer","bot_avatar":"https://a/1.png",
	 "created_at":1700000000,"items_to_trade":[{},{}],
	 "goods_infos":{"33960":{"name":"AK-47 | Redline","game":"csgo","steam_price":"10.5","steam_price_cny":75,
	   "original_icon_url":"https://i/1.png"}}},
	{"tradeofferid":null,"appid":570,"game":"dota2","goods_infos":{}}
]}`

func newServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	for path, h := range routes {
		mux.HandleFunc(path, h)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func body(s string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, s)
	}
}

func TestClientSteamTrades(t *testing.T) {
	rq := require.New(t)

	srv := newServer(t, map[string]http.HandlerFunc{
		"/api/market/steam_trade": body(steamTradeBody),
	})

	client := buff.NewClient(srv.URL, srv.Client())

	trades, err := client.SteamTrades(context.Background())
	rq.NoError(err)
	rq.Len(trades, 1)

	trade := trades[0]
	rq.Equal("6001", trade.ID)
	rq.Equal(730, trade.AppID)
	rq.Equal(2, trade.ItemsToTrade)
	rq.Equal("buyer", trade.BuyerName)
	rq.Equal(int64(1700000000), trade.CreatedAt.Unix())
	rq.Equal(entity.OfferStatePending, trade.State)

	goods, ok := trade.PrimaryGoods()
	rq.True(ok)
	rq.Equal("33960", goods.GoodsID)
	rq.Equal("10.5", goods.SteamPrice)
	rq.Equal("75", goods.SteamPriceCNY)
}

func TestClientStatusCodes(t *testing.T) {
	testCases := []struct {
		name string
		body string
		err  error
	}{
		{
			name: "Login required",
			body: `{"code":"Login Required","msg":null}`,
			err:  buff.ErrLoginRequired,
		},
		{
			name: "Other code",
			body: `{"code":"Action Forbidden","msg":"nope"}`,
			err:  buff.ErrBadStatus,
		},
		{
			name: "Null data",
			body: `{"code":"OK","data":null}`,
			err:  buff.ErrMalformedResponse,
		},
		{
			name: "Not json",
			body: `<html></html>`,
			err:  buff.ErrMalformedResponse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			srv := newServer(t, map[string]http.HandlerFunc{
				"/api/market/steam_trade": body(tc.body),
			})

			_, err := buff.NewClient(srv.URL, srv.Client()).SteamTrades(context.Background())
			rq.ErrorIs(err, tc.err)
		})
	}
}

func TestClientAccountState(t *testing.T) {
	rq := require.New(t)

	srv := newServer(t, map[string]http.HandlerFunc{
		"/account/api/user/info":  body(`{"code":"OK","data":{"nickname":"seller","steamid":"76561198000000001"}}`),
		"/api/market/steam_trade": body(`{"code":"OK","data":null}`),
	})

	client := buff.NewClient(srv.URL, srv.Client())

	_, err := client.AccountState(context.Background())
	rq.ErrorIs(err, buff.ErrLoginRequired)

	steamID, err := client.BoundSteamID(context.Background())
	rq.NoError(err)
	rq.Equal("76561198000000001", steamID)
}

func TestClientAccountStateErrors(t *testing.T) {
	testCases := []struct {
		name          string
		userInfo      http.HandlerFunc
		steamTrade    http.HandlerFunc
		err           error
		loginRequired bool
	}{
		{
			name: "Server error",
			userInfo: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			err: buff.ErrBadStatus,
		},
		{
			name: "Unauthorized",
			userInfo: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			err:           buff.ErrLoginRequired,
			loginRequired: true,
		},
		{
			name:          "Login required code",
			userInfo:      body(`{"code":"Login Required","msg":null}`),
			err:           buff.ErrLoginRequired,
			loginRequired: true,
		},
		{
			name:          "Empty nickname",
			userInfo:      body(`{"code":"OK","data":{"nickname":"","steamid":"76561198000000001"}}`),
			err:           buff.ErrLoginRequired,
			loginRequired: true,
		},
		{
			name:     "Steam trade unavailable",
			userInfo: body(`{"code":"OK","data":{"nickname":"seller"}}`),
			steamTrade: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			err: buff.ErrBadStatus,
		},
		{
			name:       "Steam trade broken json",
			userInfo:   body(`{"code":"OK","data":{"nickname":"seller"}}`),
			steamTrade: body(`<html></html>`),
			err:        buff.ErrMalformedResponse,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			routes := map[string]http.HandlerFunc{"/account/api/user/info": tc.userInfo}
			if tc.steamTrade != nil {
				routes["/api/market/steam_trade"] = tc.steamTrade
			}

			srv := newServer(t, routes)

			_, err := buff.NewClient(srv.URL, srv.Client()).AccountState(context.Background())
			rq.ErrorIs(err, tc.err)
			rq.Equal(tc.loginRequired, errors.Is(err, buff.ErrLoginRequired))
		})
	}
}

func TestClientToDeliver(t *testing.T) {
	rq := require.New(t)

	srv := newServer(t, map[string]http.HandlerFunc{
		"/api/market/sell_order/to_deliver": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("game") != "csgo" || r.URL.Query().Get("appid") != "730" {
				w.WriteHeader(http.StatusBadRequest)
				return
			}

			_, _ = io.WriteString(w, `{"code":"OK","data":{"items":[
				{"tradeofferid":"7001","goods_id":33960,"price":"12.30"},
				{"tradeofferid":null,"goods_id":1,"price":"1"}
			]}}`)
		},
	})

	orders, err := buff.NewClient(srv.URL, srv.Client()).ToDeliver(context.Background(), entity.GameType{Name: "csgo", AppID: 730})
	rq.NoError(err)
	rq.Len(orders, 1)
	rq.Equal("7001", orders[0].OfferID)
	rq.Equal("33960", orders[0].GoodsID)
	rq.Equal("csgo", orders[0].Game)
	rq.Equal(730, orders[0].AppID)
	rq.True(orders[0].Price.Equal(decimal.RequireFromString("12.3")))
}

func TestClientLowestSellPrice(t *testing.T) {
	rq := require.New(t)

	items := `{"code":"OK","data":{"items":[{"price":"99.5"},{"price":"100"}]}}`

	srv := newServer(t, map[string]http.HandlerFunc{
		"/api/market/goods/sell_order": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("goods_id") == "empty" {
				_, _ = io.WriteString(w, `{"code":"OK","data":{"items":[]}}`)
				return
			}

			_, _ = io.WriteString(w, items)
		},
	})

	client := buff.NewClient(srv.URL, srv.Client())

	price, err := client.LowestSellPrice(context.Background(), "csgo", "33960")
	rq.NoError(err)
	rq.True(price.Equal(decimal.RequireFromString("99.5")))

	_, err = client.LowestSellPrice(context.Background(), "csgo", "empty")
	rq.ErrorIs(err, protection.ErrNoListings)
}

func TestClientMessageNotificationDevOverride(t *testing.T) {
	rq := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "message_notification.json")
	rq.NoError(os.WriteFile(path, []byte(`{"data":{"to_deliver_order":{"csgo":"2","dota2":1}}}`), 0o600))

	// сервер не должен вызываться
	srv := newServer(t, map[string]http.HandlerFunc{
		"/api/message/notification": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})

	client := buff.NewClient(srv.URL, srv.Client(), buff.WithDevOverrides(path, filepath.Join(dir, "missing.json")))

	counts, err := client.MessageNotification(context.Background())
	rq.NoError(err)
	rq.Equal(3, counts.Total())
	rq.Equal(2, counts["csgo"])
}

func TestClientSteamTradesDevOverride(t *testing.T) {
	rq := require.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "steam_trade.json")
	rq.NoError(os.WriteFile(path, []byte(steamTradeBody), 0o600))

	var hits atomic.Int32

	srv := newServer(t, map[string]http.HandlerFunc{
		"/api/market/steam_trade": func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			_, _ = io.WriteString(w, `{"code":"OK","data":[]}`)
		},
	})

	client := buff.NewClient(srv.URL, srv.Client(), buff.WithDevOverrides(filepath.Join(dir, "missing.json"), path))

	trades, err := client.SteamTrades(context.Background())
	rq.NoError(err)
	rq.Len(trades, 1)
	rq.Equal("6001", trades[0].ID)
	rq.Equal("buyer", trades[0].BuyerName)
	rq.Zero(hits.Load())

	rq.NoError(os.Remove(path))

	trades, err = client.SteamTrades(context.Background())
	rq.NoError(err)
	rq.Empty(trades)
	rq.Equal(int32(1), hits.Load())
}

func TestClientRequireBuyerSendOffer(t *testing.T) {
	rq := require.New(t)

	var gotCSRF string

	srv := newServer(t, map[string]http.HandlerFunc{
		"/api/market/steam_trade": func(w http.ResponseWriter, _ *http.Request) {
			http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "csrf-123"})
			_, _ = io.WriteString(w, `{"code":"OK","data":[]}`)
		},
		"/account/api/prefer/force_buyer_send_offer": func(w http.ResponseWriter, r *http.Request) {
			gotCSRF = r.Header.Get("X-CSRFToken")
			_, _ = io.WriteString(w, `{"code":"OK"}`)
		},
	})

	err := buff.NewClient(srv.URL, srv.Client()).RequireBuyerSendOffer(context.Background())
	rq.NoError(err)
	rq.Equal("csrf-123", gotCSRF)
}

func TestCookieFile(t *testing.T) {
	rq := require.New(t)

	path := filepath.Join(t.TempDir(), "buff_cookies.txt")
	rq.NoError(os.WriteFile(path, []byte("session=1-abc\n; csrf_token=x"), 0o600))

	cookies := buff.NewCookieFile(path)
	rq.Empty(cookies.Cookie())
	rq.NoError(cookies.Authenticate(context.Background()))
	rq.Equal("session=1-abc", cookies.Cookie())

	rq.NoError(os.WriteFile(path, []byte("\n"), 0o600))
	rq.ErrorIs(cookies.Authenticate(context.Background()), buff.ErrEmptyCookie)
}
