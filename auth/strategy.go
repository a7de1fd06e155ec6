package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

// ResolutionState classifies a bearer-credential extraction attempt.
type ResolutionState int

const (
	// ResolutionOk means a principal was verified and attached.
	ResolutionOk ResolutionState = iota
	// ResolutionAbsent means the request carried no credentials at all.
	ResolutionAbsent
	// ResolutionInvalid means credentials were present but failed
	// verification (malformed, unsigned, expired, or account gone).
	ResolutionInvalid
)

// Resolution is the outcome of a strategy's verification step. Route
// policy, not the strategy itself, decides whether Invalid degrades to
// the anonymous principal or rejects the request.
type Resolution struct {
	State     ResolutionState
	Principal *User
	Cause     error
}

// LoginPayload is the body of POST /auth/local.
type LoginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Validate will validate the payload
func (p LoginPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Username, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(1, 200)),
	)
}

// Strategies is the closed set of request-authentication procedures.
// Routes pick one by calling the matching middleware constructor; there
// is no runtime plugin lookup.
type Strategies struct {
	service              *Service
	tokens               *TokenService
	logger               Logger
	rejectInvalidAnonOpt bool
}

// NewStrategies builds the strategy set over a service and token service.
func NewStrategies(service *Service, tokens *TokenService) *Strategies {
	return &Strategies{
		service: service,
		tokens:  tokens,
		logger:  defLogger{},
	}
}

func (s *Strategies) WithLogger(logger Logger) *Strategies {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// RejectInvalidAnonymous controls what anonymous routes do with a
// present-but-invalid bearer token: false (default) silently downgrades
// to the anonymous principal, true rejects the request.
func (s *Strategies) RejectInvalidAnonymous(reject bool) *Strategies {
	s.rejectInvalidAnonOpt = reject
	return s
}

// Local authenticates an email/password body and attaches the principal.
// Failures reject the request before any handler runs.
func (s *Strategies) Local() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload := LoginPayload{}
		if err := c.BodyParser(&payload); err != nil {
			return errors.Wrap(err, errors.CategoryBadInput, "invalid login payload").
				WithCode(errors.CodeBadRequest)
		}

		if err := payload.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryValidation, "invalid login payload").
				WithCode(errors.CodeBadRequest)
		}

		user, err := s.service.Authenticate(c.UserContext(), payload.Username, payload.Password)
		if err != nil {
			return err
		}

		SetPrincipal(c, user)
		return c.Next()
	}
}

// Bearer verifies an access token from the Authorization header and
// attaches the principal it resolves to.
func (s *Strategies) Bearer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := s.resolveAccess(c)
		if res.State != ResolutionOk {
			if res.Cause != nil {
				return res.Cause
			}
			return ErrTokenMalformed
		}

		SetPrincipal(c, res.Principal)
		return c.Next()
	}
}

// Refresh verifies a refresh token and attaches the sentinel-role
// principal resolved from it.
func (s *Strategies) Refresh() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, state := s.extractBearer(c)
		if state != ResolutionOk {
			return ErrTokenMalformed
		}

		claims, err := s.tokens.ValidateRefresh(raw)
		if err != nil {
			return err
		}

		user, err := s.service.ResolveRefreshClaims(c.UserContext(), claims)
		if err != nil {
			return err
		}

		SetPrincipal(c, user)
		return c.Next()
	}
}

// Anonymous attempts access-token verification but succeeds regardless.
// Absent credentials always degrade to the anonymous principal; invalid
// credentials degrade too unless RejectInvalidAnonymous was set.
func (s *Strategies) Anonymous() fiber.Handler {
	return func(c *fiber.Ctx) error {
		res := s.resolveAccess(c)

		switch res.State {
		case ResolutionOk:
			SetPrincipal(c, res.Principal)
		case ResolutionAbsent:
			SetPrincipal(c, AnonymousUser())
		case ResolutionInvalid:
			if s.rejectInvalidAnonOpt {
				return res.Cause
			}
			s.logger.Debug("anonymous route downgrading invalid token", "error", res.Cause)
			SetPrincipal(c, AnonymousUser())
		}

		return c.Next()
	}
}

func (s *Strategies) resolveAccess(c *fiber.Ctx) Resolution {
	raw, state := s.extractBearer(c)
	if state != ResolutionOk {
		return Resolution{State: state, Cause: ErrTokenMalformed}
	}

	claims, err := s.tokens.ValidateAccess(raw)
	if err != nil {
		return Resolution{State: ResolutionInvalid, Cause: err}
	}

	user, err := s.service.ResolveAccessClaims(c.UserContext(), claims)
	if err != nil {
		return Resolution{State: ResolutionInvalid, Cause: err}
	}

	return Resolution{State: ResolutionOk, Principal: user}
}

// extractBearer distinguishes a missing Authorization header (Absent)
// from one that is present but unusable (Invalid).
func (s *Strategies) extractBearer(c *fiber.Ctx) (string, ResolutionState) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return "", ResolutionAbsent
	}

	raw, ok := StripBearer(header)
	if !ok || raw == "" {
		return "", ResolutionInvalid
	}

	return raw, ResolutionOk
}
