package auth

import (
	"context"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// EnsureSchema creates the users table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}

	return nil
}

// SeedAdmin inserts a bootstrap admin account when the users table is
// empty, so a fresh install has a way in. No-op otherwise.
func SeedAdmin(ctx context.Context, repo Users, email, password string) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	_, err = repo.Create(ctx, &User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Administrator",
		Roles:        RoleSet{RoleUser, RoleAdmin}.String(),
	})
	return err
}
