package httpx

import (
	"context"
	"fmt"
	"net/http"
)

type cookieSource interface {
	Authenticate(context.Context) error
	Cookie() string
}

// AuthCookieRoundTripper attaches a session cookie and static headers to
// every request. On 401 the cookie source is asked to re-authenticate once
// and the request is replayed.
type AuthCookieRoundTripper struct {
	next    http.RoundTripper
	source  cookieSource
	headers http.Header
}

func NewAuthCookieRoundTripper(
	next http.RoundTripper,
	source cookieSource,
	headers http.Header,
) AuthCookieRoundTripper {
	return AuthCookieRoundTripper{
		next:    next,
		source:  source,
		headers: headers,
	}
}

func (rt AuthCookieRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if rt.source.Cookie() == "" {
		if err := rt.source.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("source.Authenticate: %w", err)
		}
	}

	req = req.Clone(req.Context())
	rt.setHeaders(req)

	resp, err := rt.next.RoundTrip(req)
	if err != nil {
		return nil, fmt.Errorf("next.RoundTrip: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized && replayable(req) {
		resp.Body.Close()

		if err = rt.source.Authenticate(req.Context()); err != nil {
			return nil, fmt.Errorf("source.Authenticate: %w", err)
		}

		retry := req.Clone(req.Context())
		if req.GetBody != nil {
			if retry.Body, err = req.GetBody(); err != nil {
				return nil, fmt.Errorf("req.GetBody: %w", err)
			}
		}

		rt.setHeaders(retry)

		return rt.next.RoundTrip(retry) //nolint:wrapcheck
	}

	return resp, nil
}

func (rt AuthCookieRoundTripper) setHeaders(req *http.Request) {
	for k, v := range rt.headers {
		req.Header[k] = v
	}

	req.Header.Set("Cookie", rt.source.Cookie())
}

func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}
