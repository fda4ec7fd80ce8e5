package steam_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"buff_autoaccept/internal/infrastructure/steam"
)

const (
	testSteamID     = "76561198000000001"
	testLoginSecure = testSteamID + "%7C%7Ctoken-abc"
)

type steamServer struct {
	*httptest.Server

	mu          sync.Mutex
	loggedIn    bool
	offerState  int
	acceptForm  map[string]string
	confirmedID string
}

func newSteamServer(t *testing.T) *steamServer {
	t.Helper()

	s := &steamServer{loggedIn: true, offerState: steam.TradeOfferStateNeedsConfirmation}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat/clientjstoken", func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.loggedIn {
			_, _ = io.WriteString(w, `{"logged_in":true,"steamid":"`+testSteamID+`"}`)
			return
		}

		_, _ = io.WriteString(w, `{"logged_in":false}`)
	})
	mux.HandleFunc("/IEconService/GetTradeOffer/v1/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "token-abc" {
			w.WriteHeader(http.StatusForbidden)
			return
		}

		if r.URL.Query().Get("tradeofferid") == "404" {
			_, _ = io.WriteString(w, `{"response":{}}`)
			return
		}

		_, _ = io.WriteString(w, `{"response":{"offer":{"tradeofferid":"6001","accountid_other":100,"trade_offer_state":`+
			strconv.Itoa(s.offerState)+`}}}`)
	})
	mux.HandleFunc("/tradeoffer/6001/accept", func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()

		s.mu.Lock()
		defer s.mu.Unlock()

		s.acceptForm = map[string]string{
			"sessionid": r.PostForm.Get("sessionid"),
			"partner":   r.PostForm.Get("partner"),
			"serverid":  r.PostForm.Get("serverid"),
			"referer":   r.Header.Get("Referer"),
		}
		_, _ = io.WriteString(w, `{"tradeid":"900","needs_mobile_confirmation":true}`)
	})
	mux.HandleFunc("/mobileconf/getlist", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("a") != testSteamID || r.URL.Query().Get("tag") != "conf" {
			_, _ = io.WriteString(w, `{"success":false}`)
			return
		}

		_, _ = io.WriteString(w, `{"success":true,"conf":[{"id":"c1","nonce":"n1","creator_id":"6001"}]}`)
	})
	mux.HandleFunc("/mobileconf/ajaxop", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		q := r.URL.Query()
		if q.Get("op") == "allow" && q.Get("ck") == "n1" {
			s.confirmedID = q.Get("cid")
		}
		_, _ = io.WriteString(w, `{"success":true}`)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)

	return s
}

func (s *steamServer) setLoggedIn(v bool) {
	s.mu.Lock()
	s.loggedIn = v
	s.mu.Unlock()
}

func (s *steamServer) lastAcceptForm() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.acceptForm
}

func (s *steamServer) lastConfirmed() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.confirmedID
}

func writeSession(t *testing.T, loginSecure string) *steam.SessionStore {
	t.Helper()

	path := filepath.Join(t.TempDir(), "steam_session.json")
	data := `[{"name":"steamLoginSecure","value":"` + loginSecure + `"},{"name":"sessionid","value":"sess-1"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	return steam.NewSessionStore(path)
}

func newClient(t *testing.T, srv *steamServer, store *steam.SessionStore) *steam.Client {
	t.Helper()

	client, err := steam.NewClient(
		steam.Config{CommunityURL: srv.URL, APIURL: srv.URL, Timeout: time.Second},
		steam.Account{IdentitySecret: "c2VjcmV0"},
		store,
		http.DefaultTransport,
		steam.WithClock(func() time.Time { return time.Unix(1700000000, 0) }),
	)
	require.NoError(t, err)

	return client
}

func TestClientSession(t *testing.T) {
	rq := require.New(t)

	srv := newSteamServer(t)
	client := newClient(t, srv, writeSession(t, testLoginSecure))

	rq.Equal(testSteamID, client.SteamID())

	alive, err := client.IsSessionAlive(context.Background())
	rq.NoError(err)
	rq.True(alive)

	srv.setLoggedIn(false)

	alive, err = client.IsSessionAlive(context.Background())
	rq.NoError(err)
	rq.False(alive)

	rq.ErrorIs(client.ReLogin(context.Background()), steam.ErrSessionExpired)

	srv.setLoggedIn(true)
	rq.NoError(client.ReLogin(context.Background()))
	rq.NoError(client.SaveSession())
}

func TestClientAcceptOffer(t *testing.T) {
	rq := require.New(t)

	srv := newSteamServer(t)
	client := newClient(t, srv, writeSession(t, testLoginSecure))

	result, err := client.AcceptOffer(context.Background(), "6001")
	rq.NoError(err)
	rq.Equal("900", result.TradeID)
	rq.True(result.NeedsConfirmation)

	form := srv.lastAcceptForm()
	rq.Equal("sess-1", form["sessionid"])
	rq.Equal("76561197960265828", form["partner"])
	rq.Equal("1", form["serverid"])
	rq.Equal(srv.URL+"/tradeoffer/6001/", form["referer"])
}

func TestClientGetOfferState(t *testing.T) {
	rq := require.New(t)

	srv := newSteamServer(t)
	client := newClient(t, srv, writeSession(t, testLoginSecure))

	state, err := client.GetOfferState(context.Background(), "6001")
	rq.NoError(err)
	rq.Equal(steam.TradeOfferStateNeedsConfirmation, state)

	_, err = client.GetOfferState(context.Background(), "404")
	rq.ErrorIs(err, steam.ErrOfferNotFound)
}

func TestClientConfirmOffer(t *testing.T) {
	rq := require.New(t)

	srv := newSteamServer(t)
	client := newClient(t, srv, writeSession(t, testLoginSecure))

	rq.NoError(client.ConfirmOffer(context.Background(), "6001"))
	rq.Equal("c1", srv.lastConfirmed())

	rq.ErrorIs(client.ConfirmOffer(context.Background(), "7001"), steam.ErrConfirmationNotFound)
}

func TestClientWithoutLoginCookie(t *testing.T) {
	rq := require.New(t)

	srv := newSteamServer(t)
	client := newClient(t, srv, writeSession(t, "garbage"))

	rq.Empty(client.SteamID())

	_, err := client.GetOfferState(context.Background(), "6001")
	rq.ErrorIs(err, steam.ErrNoSession)
}

func TestSessionStoreRoundTrip(t *testing.T) {
	rq := require.New(t)

	store := steam.NewSessionStore(filepath.Join(t.TempDir(), "nested", "session.json"))

	_, err := store.Load()
	rq.Error(err)

	rq.NoError(store.Save([]*http.Cookie{{Name: "sessionid", Value: "abc"}}))

	cookies, err := store.Load()
	rq.NoError(err)
	rq.Len(cookies, 1)
	rq.Equal("abc", cookies[0].Value)
}
