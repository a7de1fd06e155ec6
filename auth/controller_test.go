package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/classware/catalog/auth"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	signingKey    string
	expiration    time.Duration
	rejectInvalid bool
}

func (c testConfig) GetSigningKey() string             { return c.signingKey }
func (c testConfig) GetTokenExpiration() time.Duration { return c.expiration }
func (c testConfig) GetAnonymousRejectInvalid() bool   { return c.rejectInvalid }

func newTestModule(t *testing.T, store auth.UserStore) (*fiber.App, *auth.Module) {
	t.Helper()

	module := auth.New(store, testConfig{
		signingKey: string(testSigningKey),
		expiration: time.Hour,
	})

	app := fiber.New(fiber.Config{
		ErrorHandler: auth.NewErrorHandler(nil),
	})
	module.Controller.RegisterRoutes(app)

	return app, module
}

func postJSON(t *testing.T, app *fiber.App, path string, body any, headers ...http.Header) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))

	req := httptest.NewRequest(fiber.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	for _, hdr := range headers {
		for key, values := range hdr {
			for _, v := range values {
				req.Header.Set(key, v)
			}
		}
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodePair(t *testing.T, resp *http.Response) *auth.TokenPair {
	t.Helper()

	pair := &auth.TokenPair{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(pair))
	return pair
}

func TestLoginLocal(t *testing.T) {
	t.Run("valid credentials return a bearer pair", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "user@example.com").
			Return(storedUser(t, "secret123"), nil)

		app, _ := newTestModule(t, store)

		resp := postJSON(t, app, "/auth/local", fiber.Map{
			"username": "user@example.com",
			"password": "secret123",
		})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		pair := decodePair(t, resp)
		assert.True(t, strings.HasPrefix(pair.Token, "Bearer "))
		assert.True(t, strings.HasPrefix(pair.RefreshToken, "Bearer "))
		assert.True(t, pair.ExpiresAt.After(time.Now()))
		assert.True(t, pair.RefreshExpiresAt.After(pair.ExpiresAt))
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "user@example.com").
			Return(storedUser(t, "secret123"), nil)

		app, _ := newTestModule(t, store)

		resp := postJSON(t, app, "/auth/local", fiber.Map{
			"username": "user@example.com",
			"password": "wrong-password",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown email is 404", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "nobody@example.com").
			Return(nil, auth.ErrUserNotFound)

		app, _ := newTestModule(t, store)

		resp := postJSON(t, app, "/auth/local", fiber.Map{
			"username": "nobody@example.com",
			"password": "secret123",
		})
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed payload is 400", func(t *testing.T) {
		app, _ := newTestModule(t, &MockUserStore{})

		resp := postJSON(t, app, "/auth/local", fiber.Map{
			"username": "nope",
			"password": "",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}

func TestRefresh(t *testing.T) {
	user := storedUser(t, "secret123")

	t.Run("refresh token mints a new pair with real roles", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "user@example.com").Return(user, nil)
		store.On("ByID", mock.Anything, int64(42)).Return(user, nil)

		app, module := newTestModule(t, store)

		login := postJSON(t, app, "/auth/local", fiber.Map{
			"username": "user@example.com",
			"password": "secret123",
		})
		require.Equal(t, fiber.StatusOK, login.StatusCode)
		pair := decodePair(t, login)

		hdr := http.Header{}
		hdr.Set(fiber.HeaderAuthorization, pair.RefreshToken)

		resp := postJSON(t, app, "/auth/refresh", fiber.Map{}, hdr)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		fresh := decodePair(t, resp)
		raw, ok := auth.StripBearer(fresh.Token)
		require.True(t, ok)

		claims, err := module.Tokens.ValidateAccess(raw)
		require.NoError(t, err)
		assert.Equal(t, "user|admin", claims.Roles)
		assert.NotEqual(t, auth.RoleRefresh, claims.Roles)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		store := &MockUserStore{}
		store.On("ByEmail", mock.Anything, "user@example.com").Return(user, nil)
		store.On("ByID", mock.Anything, int64(42)).Return(user, nil)

		app, _ := newTestModule(t, store)

		login := postJSON(t, app, "/auth/local", fiber.Map{
			"username": "user@example.com",
			"password": "secret123",
		})
		require.Equal(t, fiber.StatusOK, login.StatusCode)
		pair := decodePair(t, login)

		hdr := http.Header{}
		hdr.Set(fiber.HeaderAuthorization, pair.Token)

		resp := postJSON(t, app, "/auth/refresh", fiber.Map{}, hdr)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("missing token cannot refresh", func(t *testing.T) {
		app, _ := newTestModule(t, &MockUserStore{})

		resp := postJSON(t, app, "/auth/refresh", fiber.Map{})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
