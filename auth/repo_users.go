package auth

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the persistence collaborator for principals.
type Users interface {
	UserStore

	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
	Deactivate(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a bun-backed Users repository.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

// ByID returns the active user with the given id. Deactivated accounts
// are indistinguishable from missing ones.
func (r *users) ByID(ctx context.Context, id int64) (*User, error) {
	record := &User{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.is_active = ?", true).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, wrapLookupErr(err, "id")
	}

	return record, nil
}

// ByEmail returns the active user with the given email.
func (r *users) ByEmail(ctx context.Context, email string) (*User, error) {
	record := &User{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", email).
		Where("?TableAlias.is_active = ?", true).
		Limit(1).
		Scan(ctx)

	if err != nil {
		return nil, wrapLookupErr(err, "email")
	}

	return record, nil
}

// Create inserts a user. The caller provides a password hash, never a
// plain password; email uniqueness violations surface as conflicts.
func (r *users) Create(ctx context.Context, user *User) (*User, error) {
	user.Email = CleanEmail(user.Email)
	user.IsActive = true

	_, err := r.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, errors.Wrap(err, errors.CategoryConflict, "an account with that email already exists").
				WithTextCode("EMAIL_TAKEN").
				WithCode(errors.CodeConflict)
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return user, nil
}

// Update persists changes to an existing user and bumps updated_at.
func (r *users) Update(ctx context.Context, user *User) (*User, error) {
	now := time.Now()
	user.UpdatedAt = &now

	res, err := r.db.NewUpdate().
		Model(user).
		WherePK().
		Returning("*").
		Exec(ctx)

	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not update user")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// Deactivate flips is_active off. Tokens already issued for the account
// stop resolving on their next use.
func (r *users) Deactivate(ctx context.Context, id int64) error {
	res, err := r.db.NewUpdate().
		Model((*User)(nil)).
		Set("is_active = ?", false).
		Set("updated_at = ?", time.Now()).
		Where("?TableAlias.id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "could not deactivate user")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Count returns the number of user rows, active or not.
func (r *users) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*User)(nil)).Count(ctx)
}

func wrapLookupErr(err error, by string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return errors.Wrap(err, errors.CategoryInternal, "user lookup by "+by+" failed")
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToUpper(err.Error())
	return strings.Contains(msg, "UNIQUE") || strings.Contains(msg, "DUPLICATE")
}
