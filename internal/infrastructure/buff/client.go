package buff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"

	"buff_autoaccept/pkg/contextx"
	"buff_autoaccept/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	codeOK            = "OK"
	codeLoginRequired = "Login Required"
)

// Client ходит в HTTP API BUFF. Cookie и User-Agent проставляет транспорт
// (httpx.AuthCookieRoundTripper), клиент про авторизацию не знает.
type Client struct {
	baseURL    string
	httpClient *http.Client

	messageNotificationDevPath string
	steamTradeDevPath          string
}

type Option func(*Client)

// WithDevOverrides включает чтение локальных файлов вместо сетевых вызовов.
func WithDevOverrides(messageNotificationPath, steamTradePath string) Option {
	return func(c *Client) {
		c.messageNotificationDevPath = messageNotificationPath
		c.steamTradeDevPath = steamTradePath
	}
}

func NewClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) get(ctx context.Context, path string, query url.Values, data any) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	return c.do(req, data)
}

func (c *Client) postJSON(ctx context.Context, path string, body any, header http.Header, data any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	for k, v := range header {
		req.Header[k] = v
	}

	req.Header.Set("Content-Type", "application/json")

	_, err = c.do(req, data)

	return err
}

func (c *Client) do(req *http.Request, data any) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpClient.Do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("%s: %w", req.URL.Path, ErrLoginRequired)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: http status %d: %w", req.URL.Path, resp.StatusCode, ErrBadStatus)
	}

	if err = decodeEnvelope(body, true, data); err != nil {
		return nil, fmt.Errorf("%s: %w", req.URL.Path, err)
	}

	return resp, nil
}

func decodeEnvelope(body []byte, checkCode bool, data any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return errors.Join(ErrMalformedResponse, err)
	}

	if checkCode {
		switch env.Code {
		case codeOK:
		case codeLoginRequired:
			return ErrLoginRequired
		default:
			return fmt.Errorf("%w: %q %v", ErrBadStatus, env.Code, env.Msg)
		}
	}

	if data == nil {
		return nil
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, ErrEmptyData)
	}

	if err := json.Unmarshal(env.Data, data); err != nil {
		return errors.Join(ErrMalformedResponse, err)
	}

	return nil
}

// readDevFile возвращает false, если файла нет: тогда нужен сетевой вызов.
func readDevFile(ctx context.Context, path string, data any) (bool, error) {
	if path == "" {
		return false, nil
	}

	body, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("os.ReadFile: %w", err)
	}

	logger(ctx).Info("using local override file", slog.String(logx.FieldPath, path))

	if err = decodeEnvelope(body, false, data); err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}

	return true, nil
}
