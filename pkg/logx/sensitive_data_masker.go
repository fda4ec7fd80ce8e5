package logx

import (
	"regexp"
)

type SensitiveDataMaskerInterface interface {
	Mask(input []byte) []byte
}

//nolint:gochecknoglobals
var sensitiveDataPatterns = []*regexp.Regexp{
	// Headers.
	regexp.MustCompile("(?s)(Cookie: ).+?(\r)"),
	regexp.MustCompile("(?s)(Set-Cookie: ).+?(\r)"),
	regexp.MustCompile("(?s)(X-Csrftoken: ).+?(\r)"),
	// Form and query values.
	regexp.MustCompile(`(sessionid=)[^&\s]+()`),
	regexp.MustCompile(`(access_token=)[^&\s]+()`),
	regexp.MustCompile(`([?&]k=)[^&\s]+()`),
	// Webhook tokens in URL paths.
	regexp.MustCompile(`(/api/webhooks/\d+/)[^\s/?]+()`),
	// JSON fields.
	regexp.MustCompile(`(?s)("[Pp]assword":\s?").+?(")`),
	regexp.MustCompile(`(?s)("identity_secret":\s?").+?(")`),
	regexp.MustCompile(`(?s)("shared_secret":\s?").+?(")`),
	regexp.MustCompile(`(?s)("token":\s?").+?(")`),
}

type SensitiveDataMasker struct{}

func NewSensitiveDataMasker() SensitiveDataMasker {
	return SensitiveDataMasker{}
}

func (s SensitiveDataMasker) Mask(input []byte) []byte {
	for _, pattern := range sensitiveDataPatterns {
		input = pattern.ReplaceAll(input, []byte("${1}[MASKED]${2}"))
	}

	return input
}
