package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// Service orchestrates credential checking, token issuance, and
// claim-to-user resolution. It is the single place that enforces the
// token-expiry and account-active invariants.
type Service struct {
	users  UserStore
	tokens *TokenService
	logger Logger
}

// NewService returns a Service over the given user store and token
// service.
func NewService(users UserStore, tokens *TokenService) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: defLogger{},
	}
}

func (s *Service) WithLogger(logger Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// Authenticate verifies an email/password pair and returns the matching
// principal with its password hash stripped. Unknown emails report
// ErrUserNotFound; a bad password reports ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = CleanEmail(email)

	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.Error("Authenticate lookup error", "email", email, "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during authentication")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user.Sanitized(), nil
}

// SignIn mints a fresh token pair for the principal. The access TTL is
// the optional override, else the configured default; the refresh TTL is
// exactly double the access TTL, both derived from one clock sample.
func (s *Service) SignIn(ctx context.Context, user *User, ttlOverride ...time.Duration) (*TokenPair, error) {
	if user == nil {
		return nil, ErrClaimsIncomplete
	}

	ttl := s.tokens.DefaultTTL()
	if len(ttlOverride) > 0 && ttlOverride[0] > 0 {
		ttl = ttlOverride[0]
	}
	refreshTTL := 2 * ttl

	now := time.Now()

	access, err := s.tokens.AccessToken(user, now, ttl)
	if err != nil {
		s.logger.Error("SignIn failed to mint access token", "user_id", user.ID, "error", err)
		return nil, err
	}

	refresh, err := s.tokens.RefreshToken(user, now, refreshTTL)
	if err != nil {
		s.logger.Error("SignIn failed to mint refresh token", "user_id", user.ID, "error", err)
		return nil, err
	}

	return NewTokenPair(access, now.Add(ttl), refresh, now.Add(refreshTTL)), nil
}

// RefreshSignIn mints a fresh token pair for the account behind a
// refresh principal. The persisted user is re-read so the new access
// token carries the account's real role descriptor, not the refreshjwt
// sentinel the guard saw.
func (s *Service) RefreshSignIn(ctx context.Context, principal *User) (*TokenPair, error) {
	if principal == nil {
		return nil, ErrClaimsIncomplete
	}

	user, err := s.users.ByID(ctx, principal.ID)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrUserNotFound) {
			return nil, ErrAccountDisabled
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during token refresh")
	}

	return s.SignIn(ctx, user.Sanitized())
}

// ResolveAccessClaims turns verified access claims into a principal. The
// expiry is re-checked against wall-clock time here even though the
// issuer already verified it, so a verified-but-stale token still fails.
func (s *Service) ResolveAccessClaims(ctx context.Context, claims *AccessClaims) (*User, error) {
	if claims == nil {
		return nil, ErrClaimsIncomplete
	}
	if !claims.Complete() {
		return nil, ErrClaimsIncomplete
	}
	if time.Now().After(claims.Expires()) {
		return nil, ErrTokenExpired
	}

	user, err := s.users.ByID(ctx, claims.ID)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrUserNotFound) {
			return nil, ErrAccountDisabled
		}
		s.logger.Error("ResolveAccessClaims lookup error", "user_id", claims.ID, "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user for token claims")
	}

	return user, nil
}

// ResolveRefreshClaims is the refresh-token counterpart, keyed on
// refreshId. The returned principal's role descriptor is overwritten with
// the refreshjwt sentinel so downstream role checks recognize it as
// authorized to refresh and nothing else. The sentinel lives only on the
// returned copy, never in storage.
func (s *Service) ResolveRefreshClaims(ctx context.Context, claims *RefreshClaims) (*User, error) {
	if claims == nil {
		return nil, ErrClaimsIncomplete
	}
	if !claims.Complete() {
		return nil, ErrClaimsIncomplete
	}
	if time.Now().After(claims.Expires()) {
		return nil, ErrTokenExpired
	}

	user, err := s.users.ByID(ctx, claims.RefreshID)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrUserNotFound) {
			return nil, ErrAccountDisabled
		}
		s.logger.Error("ResolveRefreshClaims lookup error", "user_id", claims.RefreshID, "error", err)
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user for refresh claims")
	}

	out := *user
	out.Roles = RoleRefresh
	return &out, nil
}
