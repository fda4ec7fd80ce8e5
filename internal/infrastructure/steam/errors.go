package steam

import "errors"

var (
	ErrNoSession            = errors.New("steam: no session cookies")
	ErrSessionExpired       = errors.New("steam: session expired")
	ErrOfferNotFound        = errors.New("steam: trade offer not found")
	ErrAcceptFailed         = errors.New("steam: accept failed")
	ErrConfirmationNotFound = errors.New("steam: confirmation not found")
	ErrConfirmFailed        = errors.New("steam: confirmation failed")
	ErrMalformedResponse    = errors.New("steam: malformed response")
)
