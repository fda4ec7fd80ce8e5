package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"buff_autoaccept/pkg/httpx"
)

type stubCookieSource struct {
	cookies []string
	calls   int
	current string
}

func (s *stubCookieSource) Authenticate(context.Context) error {
	s.current = s.cookies[s.calls]
	s.calls++

	return nil
}

func (s *stubCookieSource) Cookie() string {
	return s.current
}

func TestAuthCookieRoundTripper(t *testing.T) {
	rq := require.New(t)

	var hits atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)

		rq.Equal("test-agent", r.Header.Get("User-Agent"))

		if r.Header.Get("Cookie") != "session=fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	source := &stubCookieSource{cookies: []string{"session=stale", "session=fresh"}}

	client := &http.Client{
		Transport: httpx.NewAuthCookieRoundTripper(
			http.DefaultTransport,
			source,
			http.Header{"User-Agent": []string{"test-agent"}},
		),
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, server.URL, strings.NewReader(`{"a":1}`))
	rq.NoError(err)

	resp, err := client.Do(req)
	rq.NoError(err)

	defer resp.Body.Close()

	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(2, source.calls)
	rq.Equal(int32(2), hits.Load())
}
