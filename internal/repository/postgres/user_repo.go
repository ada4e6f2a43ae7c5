package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5"

	"github.com/and161185/todo-cli/internal/errs"
	"github.com/and161185/todo-cli/internal/model"
)

// UserRepo implements repository.UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

const userColumns = `id, username, email, password_hash, created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// Store inserts a new user row. The unique constraints are the final
// authority on username/email uniqueness.
func (r *UserRepo) Store(ctx context.Context, req model.StoreUserRequest) (*model.User, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()

	const q = `
INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns
	u, err := scanUser(r.db.Pool.QueryRow(ctx, q, id, req.Username, req.Email, req.PasswordHash, now, now))
	if err != nil {
		if c := uniqueViolation(err); c != "" {
			if strings.Contains(c, "email") {
				return nil, errs.ErrEmailExists
			}
			return nil, errs.ErrUsernameExists
		}
		return nil, err
	}
	return u, nil
}

// FindByID selects a user by ID; nil if absent.
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, id))
}

// FindByUsername selects a user by username; nil if absent.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE username=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, username))
}

// FindByEmail selects a user by email; nil if absent.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.db.Pool.QueryRow(ctx, q, email))
}

// Update applies optional email/password changes and returns the updated row.
func (r *UserRepo) Update(ctx context.Context, id uuid.UUID, updates model.UpdateUserRequest) (*model.User, error) {
	const q = `
UPDATE users
SET email = COALESCE($2, email),
    password_hash = COALESCE($3, password_hash),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + userColumns
	u, err := scanUser(r.db.Pool.QueryRow(ctx, q, id, updates.Email, updates.PasswordHash))
	if err != nil {
		if c := uniqueViolation(err); c != "" {
			return nil, errs.ErrEmailExists
		}
		return nil, err
	}
	if u == nil {
		return nil, errs.ErrNotFound
	}
	return u, nil
}

// Delete removes the user row; false if no such user.
func (r *UserRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	const q = `DELETE FROM users WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// UsernameExists reports whether the username is taken.
func (r *UserRepo) UsernameExists(ctx context.Context, username string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE username=$1)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// EmailExists reports whether the email is taken.
func (r *UserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE email=$1)`
	var exists bool
	if err := r.db.Pool.QueryRow(ctx, q, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
