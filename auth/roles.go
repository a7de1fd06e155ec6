package auth

import "strings"

// Role is a capability tag attached to a principal.
type Role = string

const (
	// RoleAnonymous marks the sentinel principal attached to requests
	// that carry no usable credentials.
	RoleAnonymous Role = "anonymous"
	// RoleUser is the regular account role.
	RoleUser Role = "user"
	// RoleAdmin is the administrator role.
	RoleAdmin Role = "admin"
	// RoleRefresh is the sentinel role carried only by refresh tokens and
	// by the transient principal resolved from one. It never appears in
	// persisted user data.
	RoleRefresh Role = "refreshjwt"
)

// RoleDescriptorSeparator is the wire separator for role descriptors. The
// persisted and token form is a pipe-delimited string ("user|admin") kept
// for compatibility with existing clients and issued tokens.
const RoleDescriptorSeparator = "|"

// RoleSet is an ordered set of role tokens. The descriptor string form only
// exists at the serialization boundary; membership checks happen here.
type RoleSet []Role

// ParseRoles splits a pipe-delimited role descriptor into a RoleSet,
// dropping empty tokens and surrounding whitespace.
func ParseRoles(descriptor string) RoleSet {
	parts := strings.Split(descriptor, RoleDescriptorSeparator)
	set := make(RoleSet, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !set.Has(p) {
			set = append(set, p)
		}
	}
	return set
}

// Has reports whether the set contains the given role token.
func (rs RoleSet) Has(role Role) bool {
	for _, r := range rs {
		if r == role {
			return true
		}
	}
	return false
}

// Intersects reports whether any role in other is present in the set.
// There is no hierarchy: admin does not satisfy a "user" requirement
// unless the requirement lists admin explicitly.
func (rs RoleSet) Intersects(other RoleSet) bool {
	for _, r := range other {
		if rs.Has(r) {
			return true
		}
	}
	return false
}

// String renders the set back into its pipe-delimited wire form.
func (rs RoleSet) String() string {
	return strings.Join(rs, RoleDescriptorSeparator)
}

// IsValidRole reports whether the role belongs to the closed set this
// application understands.
func IsValidRole(role Role) bool {
	switch role {
	case RoleAnonymous, RoleUser, RoleAdmin, RoleRefresh:
		return true
	default:
		return false
	}
}
