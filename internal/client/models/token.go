// Package models defines the data types exchanged with the journal service.
package models

import "time"

// DefaultTokenTTL is the validity window assigned to a freshly issued token.
// The service does not report an expiry, so the client picks one.
const DefaultTokenTTL = time.Hour

// Token is the bearer credential returned by /register and /token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`

	// ExpirationDate is not on the wire; it is set when the token is adopted.
	ExpirationDate time.Time `json:"-"`
}

// WithExpiration returns a copy of t that expires ttl after issuedAt.
func (t Token) WithExpiration(issuedAt time.Time, ttl time.Duration) Token {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	t.ExpirationDate = issuedAt.Add(ttl).UTC()
	return t
}

// Expired reports whether the token is past its expiration date at now.
// A zero expiration date is treated as expired.
func (t Token) Expired(now time.Time) bool {
	if t.ExpirationDate.IsZero() {
		return true
	}
	return !now.Before(t.ExpirationDate)
}

// LoginRequest is the JSON body sent to /register.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
