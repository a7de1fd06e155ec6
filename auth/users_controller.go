package auth

import (
	"strconv"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// CreateUserPayload is the body of POST /users. Regular callers always
// get the user role; only an authenticated admin may set a descriptor.
type CreateUserPayload struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Name     string `json:"name" form:"name"`
	Roles    string `json:"roles,omitempty" form:"roles"`
}

// Validate will validate the payload
func (p CreateUserPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(6, 200)),
		validation.Field(&p.Name, validation.Required, validation.Length(1, 200)),
	)
}

// UpdateUserPayload is the body of PUT /users/:id.
type UpdateUserPayload struct {
	Name     string `json:"name,omitempty" form:"name"`
	Password string `json:"password,omitempty" form:"password"`
}

// Validate will validate the payload
func (p UpdateUserPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Length(1, 200)),
		validation.Field(&p.Password, validation.Length(6, 200)),
	)
}

// UsersController exposes the account endpoints around the Users
// repository.
type UsersController struct {
	Users      Users
	Strategies *Strategies
	Logger     Logger
}

// NewUsersController returns the users HTTP controller.
func NewUsersController(repo Users, strategies *Strategies) *UsersController {
	return &UsersController{
		Users:      repo,
		Strategies: strategies,
		Logger:     defLogger{},
	}
}

// RegisterRoutes mounts the user endpoints. Registration is open to
// anonymous callers; reads require an account; deactivation is
// admin-only.
func (ct *UsersController) RegisterRoutes(app fiber.Router) {
	grp := app.Group("/users")

	grp.Post("/", ct.Strategies.Anonymous(), RequireRoles(RoleAnonymous, RoleUser, RoleAdmin), ct.Create)
	grp.Get("/me", ct.Strategies.Bearer(), RequireRoles(RoleUser, RoleAdmin), ct.Me)
	grp.Get("/:id", ct.Strategies.Bearer(), RequireRoles(RoleAdmin), ct.Get)
	grp.Put("/:id", ct.Strategies.Bearer(), RequireRoles(RoleUser, RoleAdmin), ct.Update)
	grp.Delete("/:id", ct.Strategies.Bearer(), RequireRoles(RoleAdmin), ct.Deactivate)
}

// Create registers a new account. Only admins may grant roles beyond
// "user"; everyone else gets the default descriptor no matter what the
// payload says.
func (ct *UsersController) Create(c *fiber.Ctx) error {
	payload := CreateUserPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid user payload").
			WithCode(errors.CodeBadRequest)
	}

	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid user payload").
			WithCode(errors.CodeBadRequest)
	}

	roles := RoleUser
	if principal, ok := PrincipalFromFiber(c); ok && principal.IsAdmin() && payload.Roles != "" {
		roles = ParseRoles(payload.Roles).String()
	}

	hash, err := HashPassword(payload.Password)
	if err != nil {
		return err
	}

	user, err := ct.Users.Create(c.UserContext(), &User{
		Email:        payload.Email,
		PasswordHash: hash,
		Name:         payload.Name,
		Roles:        roles,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(user.Sanitized())
}

// Me returns the authenticated principal.
func (ct *UsersController) Me(c *fiber.Ctx) error {
	principal, ok := PrincipalFromFiber(c)
	if !ok {
		return ErrClaimsIncomplete
	}
	return c.JSON(principal.Sanitized())
}

// Get returns a single account by id.
func (ct *UsersController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	user, err := ct.Users.ByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(user.Sanitized())
}

// Update changes an account's name or password. Non-admins can only
// touch their own account.
func (ct *UsersController) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	principal, ok := PrincipalFromFiber(c)
	if !ok {
		return ErrClaimsIncomplete
	}
	if !principal.IsAdmin() && principal.ID != id {
		return ErrRoleNotAllowed
	}

	payload := UpdateUserPayload{}
	if err := c.BodyParser(&payload); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "invalid user payload").
			WithCode(errors.CodeBadRequest)
	}
	if err := payload.Validate(); err != nil {
		return errors.Wrap(err, errors.CategoryValidation, "invalid user payload").
			WithCode(errors.CodeBadRequest)
	}

	user, err := ct.Users.ByID(c.UserContext(), id)
	if err != nil {
		return err
	}

	if payload.Name != "" {
		user.Name = payload.Name
	}
	if payload.Password != "" {
		hash, err := HashPassword(payload.Password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}

	user, err = ct.Users.Update(c.UserContext(), user)
	if err != nil {
		return err
	}

	return c.JSON(user.Sanitized())
}

// Deactivate disables an account. Outstanding tokens stop resolving on
// their next use.
func (ct *UsersController) Deactivate(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := ct.Users.Deactivate(c.UserContext(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id parameter", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest)
	}
	return id, nil
}
