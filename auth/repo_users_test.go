package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/classware/catalog/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	sqldb, err := sql.Open(sqliteshim.ShimName, fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	require.NoError(t, auth.EnsureSchema(context.Background(), db))
	return db
}

func seedUser(t *testing.T, repo auth.Users, email, roles string) *auth.User {
	t.Helper()

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)

	user, err := repo.Create(context.Background(), &auth.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Seeded",
		Roles:        roles,
	})
	require.NoError(t, err)
	return user
}

func TestUsersRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create assigns an id and cleans the email", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))

		user := seedUser(t, repo, "  New@Example.COM ", "user")
		assert.NotZero(t, user.ID)
		assert.Equal(t, "new@example.com", user.Email)
		assert.True(t, user.IsActive)
	})

	t.Run("duplicate email is a conflict", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))
		seedUser(t, repo, "dup@example.com", "user")

		_, err := repo.Create(ctx, &auth.User{
			Email:        "dup@example.com",
			PasswordHash: "x",
			Name:         "Other",
			Roles:        "user",
		})
		require.Error(t, err)
		assert.NotErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("lookup by id and email", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))
		created := seedUser(t, repo, "find@example.com", "user|admin")

		byID, err := repo.ByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "find@example.com", byID.Email)

		byEmail, err := repo.ByEmail(ctx, "find@example.com")
		require.NoError(t, err)
		assert.Equal(t, created.ID, byEmail.ID)
	})

	t.Run("missing user is not found", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))

		_, err := repo.ByID(ctx, 9999)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)

		_, err = repo.ByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("update persists changes", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))
		created := seedUser(t, repo, "edit@example.com", "user")

		created.Name = "Renamed"
		updated, err := repo.Update(ctx, created)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Name)
		require.NotNil(t, updated.UpdatedAt)

		again, err := repo.ByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", again.Name)
	})

	t.Run("update of a missing user is not found", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))

		_, err := repo.Update(ctx, &auth.User{
			ID:           9999,
			Email:        "ghost@example.com",
			PasswordHash: "x",
			Name:         "Ghost",
			Roles:        "user",
		})
		assert.ErrorIs(t, err, auth.ErrUserNotFound)
	})

	t.Run("deactivated accounts stop resolving", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))
		created := seedUser(t, repo, "gone@example.com", "user")

		require.NoError(t, repo.Deactivate(ctx, created.ID))

		_, err := repo.ByID(ctx, created.ID)
		assert.ErrorIs(t, err, auth.ErrUserNotFound)

		// still counted, just inactive
		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("deactivating a missing user is not found", func(t *testing.T) {
		repo := auth.NewUsersRepository(newTestDB(t))
		assert.ErrorIs(t, repo.Deactivate(ctx, 9999), auth.ErrUserNotFound)
	})
}

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	repo := auth.NewUsersRepository(newTestDB(t))

	require.NoError(t, auth.SeedAdmin(ctx, repo, "admin@example.com", "changeme1"))

	admin, err := repo.ByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.HasRole(auth.RoleUser))
	require.NoError(t, auth.ComparePasswordAndHash("changeme1", admin.PasswordHash))

	// second run is a no-op
	require.NoError(t, auth.SeedAdmin(ctx, repo, "other@example.com", "changeme1"))
	_, err = repo.ByEmail(ctx, "other@example.com")
	assert.ErrorIs(t, err, auth.ErrUserNotFound)
}
