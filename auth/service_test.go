package auth_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/classware/catalog/auth"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func storedUser(t *testing.T, password string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	user := testUser()
	user.PasswordHash = hash
	return user
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenService(testSigningKey, time.Hour, nil)

	t.Run("unknown email", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "nobody@example.com").
			Return(nil, auth.ErrUserNotFound)

		svc := auth.NewService(store, tokens)

		_, err := svc.Authenticate(ctx, "nobody@example.com", "secret123")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
		store.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "user@example.com").
			Return(storedUser(t, "secret123"), nil)

		svc := auth.NewService(store, tokens)

		_, err := svc.Authenticate(ctx, "user@example.com", "not-the-password")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("success strips the password hash", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "user@example.com").
			Return(storedUser(t, "secret123"), nil)

		svc := auth.NewService(store, tokens)

		user, err := svc.Authenticate(ctx, "user@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, int64(42), user.ID)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("email is cleaned before lookup", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "user@example.com").
			Return(storedUser(t, "secret123"), nil)

		svc := auth.NewService(store, tokens)

		_, err := svc.Authenticate(ctx, "  USER@Example.com ", "secret123")
		require.NoError(t, err)
		store.AssertExpectations(t)
	})
}

func TestSignInPairInvariants(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenService(testSigningKey, time.Hour, nil)
	svc := auth.NewService(&MockUserStore{}, tokens)

	pair, err := svc.SignIn(ctx, testUser(), 30*time.Second)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(pair.Token, "Bearer "))
	assert.True(t, strings.HasPrefix(pair.RefreshToken, "Bearer "))

	// refresh lives exactly twice as long as access, from the same
	// clock sample
	assert.Greater(t, time.Until(pair.ExpiresAt), time.Duration(0))
	assert.Equal(t, 30*time.Second, pair.RefreshExpiresAt.Sub(pair.ExpiresAt))

	raw, ok := auth.StripBearer(pair.Token)
	require.True(t, ok)
	accessClaims, err := tokens.ValidateAccess(raw)
	require.NoError(t, err)

	raw, ok = auth.StripBearer(pair.RefreshToken)
	require.True(t, ok)
	refreshClaims, err := tokens.ValidateRefresh(raw)
	require.NoError(t, err)

	assert.Equal(t, accessClaims.IssuedAt.Unix(), refreshClaims.IssuedAt.Unix())
	assert.Equal(t,
		2*(accessClaims.ExpiresAt.Unix()-accessClaims.IssuedAt.Unix()),
		refreshClaims.ExpiresAt.Unix()-refreshClaims.IssuedAt.Unix(),
	)
}

func TestSignInNilUser(t *testing.T) {
	tokens := auth.NewTokenService(testSigningKey, time.Hour, nil)
	svc := auth.NewService(&MockUserStore{}, tokens)

	_, err := svc.SignIn(context.Background(), nil)
	assert.ErrorIs(t, err, auth.ErrClaimsIncomplete)
}

func TestResolveAccessClaims(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenService(testSigningKey, time.Hour, nil)

	validClaims := func() *auth.AccessClaims {
		now := time.Now()
		return &auth.AccessClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			},
			ID:       42,
			Roles:    "user",
			IsActive: true,
		}
	}

	t.Run("nil claims", func(t *testing.T) {
		svc := auth.NewService(&MockUserStore{}, tokens)
		_, err := svc.ResolveAccessClaims(ctx, nil)
		assert.ErrorIs(t, err, auth.ErrClaimsIncomplete)
	})

	t.Run("incomplete claims", func(t *testing.T) {
		svc := auth.NewService(&MockUserStore{}, tokens)
		claims := validClaims()
		claims.ID = 0
		_, err := svc.ResolveAccessClaims(ctx, claims)
		assert.ErrorIs(t, err, auth.ErrClaimsIncomplete)
	})

	t.Run("stale expiry", func(t *testing.T) {
		svc := auth.NewService(&MockUserStore{}, tokens)
		claims := validClaims()
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := svc.ResolveAccessClaims(ctx, claims)
		assert.ErrorIs(t, err, auth.ErrTokenExpired)
	})

	t.Run("account gone or deactivated", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByID", mock.Anything, int64(42)).
			Return(nil, auth.ErrUserNotFound)

		svc := auth.NewService(store, tokens)
		_, err := svc.ResolveAccessClaims(ctx, validClaims())
		assert.ErrorIs(t, err, auth.ErrAccountDisabled)
	})

	t.Run("resolves the persisted user", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByID", mock.Anything, int64(42)).
			Return(testUser(), nil)

		svc := auth.NewService(store, tokens)
		user, err := svc.ResolveAccessClaims(ctx, validClaims())
		require.NoError(t, err)
		assert.Equal(t, "user|admin", user.Roles)
	})
}

func TestResolveRefreshClaims(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenService(testSigningKey, time.Hour, nil)

	now := time.Now()
	claims := &auth.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(2 * time.Hour)),
		},
		RefreshID: 42,
		Roles:     auth.RoleRefresh,
		IsActive:  true,
	}

	persisted := testUser()
	store := &MockUserStore{}
	store.On("ByID", mock.Anything, int64(42)).Return(persisted, nil)

	svc := auth.NewService(store, tokens)

	principal, err := svc.ResolveRefreshClaims(ctx, claims)
	require.NoError(t, err)

	// sentinel role on the returned copy only, never on the stored user
	assert.Equal(t, auth.RoleRefresh, principal.Roles)
	assert.Equal(t, "user|admin", persisted.Roles)
}

func TestRefreshSignIn(t *testing.T) {
	ctx := context.Background()
	tokens := auth.NewTokenService(testSigningKey, time.Hour, nil)

	t.Run("new access token carries the real roles", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByID", mock.Anything, int64(42)).
			Return(storedUser(t, "secret123"), nil)

		svc := auth.NewService(store, tokens)

		principal := testUser()
		principal.Roles = auth.RoleRefresh

		pair, err := svc.RefreshSignIn(ctx, principal)
		require.NoError(t, err)

		raw, ok := auth.StripBearer(pair.Token)
		require.True(t, ok)
		claims, err := tokens.ValidateAccess(raw)
		require.NoError(t, err)
		assert.Equal(t, "user|admin", claims.Roles)
	})

	t.Run("deactivated account cannot refresh", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByID", mock.Anything, int64(42)).
			Return(nil, auth.ErrUserNotFound)

		svc := auth.NewService(store, tokens)

		_, err := svc.RefreshSignIn(ctx, testUser())
		assert.ErrorIs(t, err, auth.ErrAccountDisabled)
	})
}
