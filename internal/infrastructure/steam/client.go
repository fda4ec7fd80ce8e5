package steam

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"buff_autoaccept/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Config struct {
	CommunityURL string
	APIURL       string
	Timeout      time.Duration
}

// Client ходит в Steam Community и Web API с cookie сессии.
// Вызовы, которые трогают сессию, вызывающий сериализует общим мьютексом.
type Client struct {
	community *url.URL
	apiURL    string
	transport http.RoundTripper
	timeout   time.Duration
	account   Account
	store     *SessionStore
	now       func() time.Time

	mu         sync.RWMutex
	httpClient *http.Client
}

type Option func(*Client)

// WithClock подменяет часы, от которых считаются ключи подтверждений.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func NewClient(
	cfg Config,
	account Account,
	store *SessionStore,
	transport http.RoundTripper,
	opts ...Option,
) (*Client, error) {
	community, err := url.Parse(strings.TrimRight(cfg.CommunityURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("url.Parse: %w", err)
	}

	c := &Client{
		community: community,
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		transport: transport,
		timeout:   cfg.Timeout,
		account:   account,
		store:     store,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if err = c.loadSession(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Client) loadSession() error {
	cookies, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("store.Load: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("cookiejar.New: %w", err)
	}

	jar.SetCookies(c.community, cookies)

	c.mu.Lock()
	c.httpClient = &http.Client{
		Transport: c.transport,
		Jar:       jar,
		Timeout:   c.timeout,
	}
	c.mu.Unlock()

	return nil
}

func (c *Client) client() *http.Client {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.httpClient
}

func (c *Client) cookie(name string) string {
	for _, cookie := range c.client().Jar.Cookies(c.community) {
		if cookie.Name == name {
			return cookie.Value
		}
	}

	return ""
}

func (c *Client) identity() (steamID, accessToken string, err error) {
	steamID, accessToken, ok := parseLoginSecure(c.cookie(loginSecureCookie))
	if !ok {
		return "", "", fmt.Errorf("%s cookie: %w", loginSecureCookie, ErrNoSession)
	}

	return steamID, accessToken, nil
}

func (c *Client) communityURL(path string) string {
	return c.community.String() + path
}

func (c *Client) getJSON(ctx context.Context, rawURL string, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	return c.do(req, data)
}

func (c *Client) postForm(ctx context.Context, rawURL, referer string, form url.Values, data any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	req.Header.Set("Referer", referer)

	return c.do(req, data)
}

func (c *Client) do(req *http.Request, data any) error {
	resp, err := c.client().Do(req)
	if err != nil {
		return fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%s: http status %d: %w", req.URL.Path, resp.StatusCode, ErrSessionExpired)
	}

	// strError в теле важнее кода ответа: Steam отдаёт 500 с описанием причины.
	if resp.StatusCode != http.StatusOK {
		var failed struct {
			StrError string `json:"strError"`
		}

		_ = json.Unmarshal(body, &failed)

		return fmt.Errorf("%s: http status %d %q: %w", req.URL.Path, resp.StatusCode, failed.StrError, ErrMalformedResponse)
	}

	if err = json.Unmarshal(body, data); err != nil {
		return errors.Join(ErrMalformedResponse, fmt.Errorf("%s: %w", req.URL.Path, err))
	}

	return nil
}
