package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims is the signed payload of an access token. Field names are
// part of the wire contract consumed by client SDKs; do not rename them.
type AccessClaims struct {
	jwt.RegisteredClaims

	ID        int64      `json:"id,omitempty"`
	Roles     string     `json:"roles,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	IsActive  bool       `json:"isActive"`
}

// RefreshClaims mirrors AccessClaims but is keyed on refreshId and always
// carries the refreshjwt sentinel role, so the token can refresh and do
// nothing else.
type RefreshClaims struct {
	jwt.RegisteredClaims

	RefreshID int64      `json:"refreshId,omitempty"`
	Roles     string     `json:"roles,omitempty"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	IsActive  bool       `json:"isActive"`
}

// RoleSet parses the roles descriptor carried by the claims.
func (c *AccessClaims) RoleSet() RoleSet {
	return ParseRoles(c.Roles)
}

// Complete reports whether the claims carry everything authentication
// depends on: issued-at, expiry, and the subject id.
func (c *AccessClaims) Complete() bool {
	return c != nil &&
		c.RegisteredClaims.IssuedAt != nil &&
		c.RegisteredClaims.ExpiresAt != nil &&
		c.ID != 0
}

// Complete reports whether the refresh claims carry issued-at, expiry,
// and the refresh subject id.
func (c *RefreshClaims) Complete() bool {
	return c != nil &&
		c.RegisteredClaims.IssuedAt != nil &&
		c.RegisteredClaims.ExpiresAt != nil &&
		c.RefreshID != 0
}

// Expires returns the expiration time, zero when unset.
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// Expires returns the expiration time, zero when unset.
func (c *RefreshClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
