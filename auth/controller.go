package auth

import "github.com/gofiber/fiber/v2"

// Controller exposes the login and refresh HTTP operations. It is a thin
// pass-through to the Service; strategies and the role guard run before
// either handler.
type Controller struct {
	Service    *Service
	Strategies *Strategies
	Logger     Logger
}

// NewController returns the auth HTTP controller.
func NewController(service *Service, strategies *Strategies) *Controller {
	return &Controller{
		Service:    service,
		Strategies: strategies,
		Logger:     defLogger{},
	}
}

// RegisterRoutes mounts the auth endpoints:
//
//	POST /auth/local   local strategy -> Login
//	POST /auth/refresh refresh strategy + refreshjwt guard -> Refresh
func (ct *Controller) RegisterRoutes(app fiber.Router) {
	grp := app.Group("/auth")

	grp.Post("/local", ct.Strategies.Local(), ct.Login)
	grp.Post("/refresh", ct.Strategies.Refresh(), RequireRoles(RoleRefresh), ct.Refresh)
}

// Login returns a fresh token pair for the principal the local strategy
// attached.
func (ct *Controller) Login(c *fiber.Ctx) error {
	principal, ok := PrincipalFromFiber(c)
	if !ok {
		return ErrClaimsIncomplete
	}

	pair, err := ct.Service.SignIn(c.UserContext(), principal)
	if err != nil {
		ct.Logger.Error("Login sign-in error", "user_id", principal.ID, "error", err)
		return err
	}

	return c.JSON(pair)
}

// Refresh re-mints a token pair for the account behind the refresh
// principal.
func (ct *Controller) Refresh(c *fiber.Ctx) error {
	principal, ok := PrincipalFromFiber(c)
	if !ok {
		return ErrClaimsIncomplete
	}

	pair, err := ct.Service.RefreshSignIn(c.UserContext(), principal)
	if err != nil {
		ct.Logger.Error("Refresh sign-in error", "user_id", principal.ID, "error", err)
		return err
	}

	return c.JSON(pair)
}
