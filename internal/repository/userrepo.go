// Package repository defines storage interfaces implemented by concrete backends.
package repository

import (
	"context"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/todo-cli/internal/model"
)

// UserRepository provides CRUD access for user accounts.
type UserRepository interface {
	// Store inserts a new user. Duplicate username/email yield
	// errs.ErrUsernameExists / errs.ErrEmailExists respectively.
	Store(ctx context.Context, req model.StoreUserRequest) (*model.User, error)
	// FindByID loads a user by ID; nil if absent.
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// FindByUsername loads a user by username; nil if absent.
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// FindByEmail loads a user by email; nil if absent.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// Update applies profile changes and returns the updated row.
	Update(ctx context.Context, id uuid.UUID, updates model.UpdateUserRequest) (*model.User, error)
	// Delete removes the user; false means no such user.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	// UsernameExists reports whether the username is taken.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// EmailExists reports whether the email is taken.
	EmailExists(ctx context.Context, email string) (bool, error)
}
