package client

import "errors"

var (
	ErrUnknownMediaMode     = errors.New("unknown media mode")
	ErrUnknownTripsFallback = errors.New("unknown trips fallback policy")
)
