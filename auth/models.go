package auth

import (
	"time"

	"github.com/uptrace/bun"
)

// User is the principal model. The password hash is never serialized
// outward; email is unique per account.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`

	ID           int64      `bun:"id,pk,autoincrement" json:"id,omitempty"`
	Email        string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash string     `bun:"password_hash,notnull" json:"-"`
	Name         string     `bun:"name,notnull" json:"name,omitempty"`
	Roles        string     `bun:"roles,notnull" json:"roles,omitempty"`
	IsActive     bool       `bun:"is_active,notnull,default:true" json:"isActive"`
	CreatedAt    *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updatedAt,omitempty"`
}

// HasRole reports whether the user's role descriptor contains the given
// token. Membership, not equality: a descriptor may hold several roles.
func (u *User) HasRole(role Role) bool {
	if u == nil {
		return false
	}
	return ParseRoles(u.Roles).Has(role)
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// Sanitized returns a shallow copy with the password hash stripped, safe
// to hand to transport or token layers.
func (u *User) Sanitized() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.PasswordHash = ""
	return &out
}

// AnonymousUser is the sentinel principal for requests without usable
// credentials. It only ever lives on a request, never in storage.
func AnonymousUser() *User {
	return &User{
		Roles:    RoleAnonymous,
		IsActive: true,
	}
}
