package buff

import "errors"

var (
	ErrBadStatus         = errors.New("buff: response code is not OK")
	ErrLoginRequired     = errors.New("buff: login required")
	ErrMalformedResponse = errors.New("buff: malformed response")
	ErrEmptyCookie       = errors.New("buff: cookies file is empty")
	ErrNoCSRFToken       = errors.New("buff: csrf_token cookie not found")
	ErrEmptyData         = errors.New("buff: response data is null")
)
