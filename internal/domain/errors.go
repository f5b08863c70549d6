package domain

import "errors"

var (
	ErrInvalidAccount = errors.New("invalid account")
	// ErrTransport marks network-level failures (timeouts, refused connections, proxy errors).
	ErrTransport = errors.New("transport failure")
)
