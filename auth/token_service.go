package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService mints and validates the HS256 compact tokens this backend
// issues. The signing key is process-wide and immutable after startup.
type TokenService struct {
	signingKey []byte
	defaultTTL time.Duration
	logger     Logger
}

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, defaultTTL time.Duration, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		signingKey: signingKey,
		defaultTTL: defaultTTL,
		logger:     logger,
	}
}

func (ts *TokenService) WithLogger(logger Logger) *TokenService {
	if logger != nil {
		ts.logger = logger
	}
	return ts
}

// DefaultTTL returns the configured access-token lifetime.
func (ts *TokenService) DefaultTTL() time.Duration {
	return ts.defaultTTL
}

// AccessToken signs an access token for the user, valid from issuedAt for
// ttl. Both tokens of a pair must be minted from the same issuedAt sample
// so the pair invariant holds exactly.
func (ts *TokenService) AccessToken(user *User, issuedAt time.Time, ttl time.Duration) (string, error) {
	if len(ts.signingKey) == 0 {
		return "", ErrSigningKeyMissing
	}

	claims := &AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		ID:        user.ID,
		Roles:     user.Roles,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		IsActive:  user.IsActive,
	}
	ensureTokenID(&claims.RegisteredClaims)

	return ts.sign(claims)
}

// RefreshToken signs a refresh token for the user. The roles claim is
// forced to the refreshjwt sentinel regardless of the user's descriptor.
func (ts *TokenService) RefreshToken(user *User, issuedAt time.Time, ttl time.Duration) (string, error) {
	if len(ts.signingKey) == 0 {
		return "", ErrSigningKeyMissing
	}

	claims := &RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		RefreshID: user.ID,
		Roles:     RoleRefresh,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
		IsActive:  user.IsActive,
	}
	ensureTokenID(&claims.RegisteredClaims)

	return ts.sign(claims)
}

func (ts *TokenService) sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signed, nil
}

// ValidateAccess checks signature and expiry and returns the access
// claims. Expired tokens map to ErrTokenExpired; everything else that is
// not a valid signed token maps to ErrTokenMalformed.
func (ts *TokenService) ValidateAccess(raw string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := ts.parse(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// ValidateRefresh checks signature and expiry and returns refresh claims.
func (ts *TokenService) ValidateRefresh(raw string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := ts.parse(raw, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

func (ts *TokenService) parse(raw string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode).
			WithCode(ErrTokenMalformed.Code)
	}

	if !token.Valid {
		ts.logger.Error("TokenService validate could not decode or validate claims")
		return ErrTokenMalformed
	}

	return nil
}
