package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// ErrUserNotFound is returned when a login email matches no account.
var ErrUserNotFound = errors.New("no account matches that email address", errors.CategoryNotFound).
	WithTextCode("USER_NOT_FOUND").
	WithCode(errors.CodeNotFound)

// ErrInvalidCredentials is returned when the supplied password does not
// match the stored hash.
var ErrInvalidCredentials = errors.New("the email or password is incorrect", errors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(errors.CodeUnauthorized)

// ErrClaimsIncomplete is returned when token claims are absent or missing
// one of the fields authentication depends on (iat, exp, subject id).
var ErrClaimsIncomplete = errors.New("the details for authentication were not found", errors.CategoryAuth).
	WithTextCode("CLAIMS_INCOMPLETE").
	WithCode(errors.CodeUnauthorized)

// ErrTokenExpired is returned for tokens whose exp lies in the past.
var ErrTokenExpired = errors.New("the authentication token is expired", errors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers unsigned, truncated, and otherwise unusable
// tokens. Callers cannot distinguish why verification failed beyond this.
var ErrTokenMalformed = errors.New("missing or malformed authentication token", errors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(errors.CodeUnauthorized)

// ErrAccountDisabled is returned when a verified token references an
// account that was deactivated or removed.
var ErrAccountDisabled = errors.New("you no longer have permission to perform this action, your account was deactivated or removed", errors.CategoryAuth).
	WithTextCode("ACCOUNT_DISABLED").
	WithCode(errors.CodeUnauthorized)

// ErrRoleNotAllowed is the authorization failure, distinct from the
// authentication failures above. It fails closed: no principal means deny.
var ErrRoleNotAllowed = errors.New("you do not have permission to access this resource", errors.CategoryAuthz).
	WithTextCode("ROLE_NOT_ALLOWED").
	WithCode(errors.CodeForbidden)

// ErrSigningKeyMissing indicates server misconfiguration, not client fault.
// The message must never carry secret material.
var ErrSigningKeyMissing = errors.New("token signing key is not configured", errors.CategoryInternal).
	WithTextCode("SIGNING_KEY_MISSING").
	WithCode(errors.CodeInternal)

// ErrMismatchedHashAndPassword is the low-level hash comparison failure.
var ErrMismatchedHashAndPassword = errors.New("hashed password does not match", errors.CategoryAuth).
	WithTextCode("PASSWORD_MISMATCH").
	WithCode(errors.CodeUnauthorized)

// ErrNoEmptyString rejects empty input to the password hasher.
var ErrNoEmptyString = errors.New("value must not be an empty string", errors.CategoryValidation).
	WithTextCode("EMPTY_STRING").
	WithCode(errors.CodeBadRequest)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed")
}
