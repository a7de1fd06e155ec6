package auth

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

var principalCtxKey = &contextKey{"principal"}

type contextKey struct {
	name string
}

// LocalsPrincipalKey is the fiber locals key the resolved principal is
// stored under.
const LocalsPrincipalKey = "principal"

// WithPrincipal sets the principal in the given context
func WithPrincipal(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, principalCtxKey, user)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (*User, bool) {
	raw, ok := ctx.Value(principalCtxKey).(*User)
	return raw, ok
}

// SetPrincipal attaches the principal to the request, both in fiber
// locals and in the request's user context for non-HTTP collaborators.
func SetPrincipal(c *fiber.Ctx, user *User) {
	c.Locals(LocalsPrincipalKey, user)
	c.SetUserContext(WithPrincipal(c.UserContext(), user))
}

// PrincipalFromFiber extracts the principal a strategy attached to the
// request, if any.
func PrincipalFromFiber(c *fiber.Ctx) (*User, bool) {
	raw := c.Locals(LocalsPrincipalKey)
	if raw == nil {
		return nil, false
	}
	user, ok := raw.(*User)
	return user, ok
}
