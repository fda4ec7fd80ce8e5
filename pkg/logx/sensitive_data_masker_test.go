package logx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"buff_autoaccept/pkg/logx"
)

func TestSensitiveDataMaskerMask(t *testing.T) {
	rq := require.New(t)

	masker := logx.NewSensitiveDataMasker()

	testCases := []struct {
		name   string
		input  []byte
		output []byte
	}{
		{
			name:   "Password",
			input:  []byte(`{"hello":"world","password":"abc123"}`),
			output: []byte(`{"hello":"world","password":"[MASKED]"}`),
		},
		{
			name:   "Password capital letter",
			input:  []byte(`{"hello":"world","Password":"abc123"}`),
			output: []byte(`{"hello":"world","Password":"[MASKED]"}`),
		},
		{
			name:   "Cookie header",
			input:  []byte("GET / HTTP/1.1\r\nCookie: session=1-abc; csrf_token=xyz\r\nHost: buff.163.com\r\n"),
			output: []byte("GET / HTTP/1.1\r\nCookie: [MASKED]\r\nHost: buff.163.com\r\n"),
		},
		{
			name:   "Csrf header",
			input:  []byte("POST / HTTP/1.1\r\nX-Csrftoken: abcdef\r\n"),
			output: []byte("POST / HTTP/1.1\r\nX-Csrftoken: [MASKED]\r\n"),
		},
		{
			name:   "Steam form session id",
			input:  []byte(`sessionid=abc123&serverid=1&tradeofferid=42`),
			output: []byte(`sessionid=[MASKED]&serverid=1&tradeofferid=42`),
		},
		{
			name:   "Confirmation key and access token",
			input:  []byte(`/mobileconf/getlist?p=android&a=7656&k=c2VjcmV0&t=1&access_token=eyJ`),
			output: []byte(`/mobileconf/getlist?p=android&a=7656&k=[MASKED]&t=1&access_token=[MASKED]`),
		},
		{
			name:   "Discord webhook token",
			input:  []byte("POST /api/webhooks/123456/tok-EN_x HTTP/1.1\r\n"),
			output: []byte("POST /api/webhooks/123456/[MASKED] HTTP/1.1\r\n"),
		},
		{
			name:   "Secrets",
			input:  []byte(`{"identity_secret": "aaa", "shared_secret": "bbb", "steam_username": "user"}`),
			output: []byte(`{"identity_secret": "[MASKED]", "shared_secret": "[MASKED]", "steam_username": "user"}`),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			output := masker.Mask(tc.input)

			rq.Equal(tc.output, output, "%s vs %s", tc.output, output)
		})
	}
}
