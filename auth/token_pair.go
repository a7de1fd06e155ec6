package auth

import (
	"strings"
	"time"
)

// BearerScheme is the credential scheme marker both tokens are prefixed
// with on the wire.
const BearerScheme = "Bearer"

// TokenPair is the login/refresh response body. It is constructed fresh
// on every issuance and never stored.
type TokenPair struct {
	Token            string    `json:"token"`
	ExpiresAt        time.Time `json:"expiresAt"`
	RefreshToken     string    `json:"refreshToken"`
	RefreshExpiresAt time.Time `json:"refreshExpiresAt"`
}

// NewTokenPair wraps freshly signed tokens with the bearer scheme marker.
func NewTokenPair(access string, expiresAt time.Time, refresh string, refreshExpiresAt time.Time) *TokenPair {
	return &TokenPair{
		Token:            BearerScheme + " " + access,
		ExpiresAt:        expiresAt,
		RefreshToken:     BearerScheme + " " + refresh,
		RefreshExpiresAt: refreshExpiresAt,
	}
}

// StripBearer removes a leading bearer scheme marker, case-insensitively.
// The second return reports whether the marker was present.
func StripBearer(value string) (string, bool) {
	if len(value) <= len(BearerScheme)+1 {
		return value, false
	}
	if !strings.EqualFold(value[:len(BearerScheme)], BearerScheme) || value[len(BearerScheme)] != ' ' {
		return value, false
	}
	return strings.TrimSpace(value[len(BearerScheme)+1:]), true
}
