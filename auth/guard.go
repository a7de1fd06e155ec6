package auth

import "github.com/gofiber/fiber/v2"

// RequireRoles gates a route on the authenticated principal's roles. An
// empty requirement makes the route public. Otherwise the principal's
// descriptor must intersect the requirement; there is no hierarchy, so a
// shared endpoint must enumerate every role it accepts. Runs strictly
// after a strategy and fails closed with a Forbidden-kind error.
func RequireRoles(roles ...Role) fiber.Handler {
	required := RoleSet(roles)

	return func(c *fiber.Ctx) error {
		if len(required) == 0 {
			return c.Next()
		}

		principal, ok := PrincipalFromFiber(c)
		if !ok || principal == nil {
			return ErrRoleNotAllowed
		}

		if !ParseRoles(principal.Roles).Intersects(required) {
			return ErrRoleNotAllowed
		}

		return c.Next()
	}
}

// CheckRoles is the guard predicate without the middleware wrapping:
// true iff the requirement is empty or the principal holds one of the
// required roles.
func CheckRoles(required RoleSet, principal *User) bool {
	if len(required) == 0 {
		return true
	}
	if principal == nil {
		return false
	}
	return ParseRoles(principal.Roles).Intersects(required)
}
