// Package common defines shared constants and sentinel errors used across
// the TripJournal client layers. Callers should use errors.Is to match these
// values; most of them arrive wrapped with additional context.
package common

import "errors"

var (
	// ErrBadURL marks an endpoint that cannot be turned into a valid URL.
	// It is a programming error and is raised by panicking, not returned.
	ErrBadURL = errors.New("bad url")

	// ErrBadResponse covers unexpected status codes and transport failures
	// that happened before a status code was obtained.
	ErrBadResponse = errors.New("bad response")

	// ErrFailedToDecodeResponse is returned when a 200 body does not match
	// the expected shape.
	ErrFailedToDecodeResponse = errors.New("failed to decode response")

	// ErrInvalidValue is returned when an authenticated operation is
	// attempted without a token.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnprocessableEntity maps HTTP 422 (server-side validation failure).
	ErrUnprocessableEntity = errors.New("unprocessable entity")

	// ErrSessionExpired is returned only when expiry enforcement is enabled
	// and the current token is past its expiration date.
	ErrSessionExpired = errors.New("session expired")
)
