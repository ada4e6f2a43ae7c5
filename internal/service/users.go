// Package service contains application services for users, tasks, and authentication.
package service

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"
	"go.uber.org/zap"

	"github.com/and161185/todo-cli/internal/errs"
	"github.com/and161185/todo-cli/internal/model"
	"github.com/and161185/todo-cli/internal/repository"
)

// UserService defines account operations.
type UserService interface {
	// Register creates a new account after validation and uniqueness checks.
	Register(ctx context.Context, username, email, password string) (model.PublicUser, error)
	// Authenticate resolves identifier (username first, then email) and
	// verifies the password. All failures normalize to ErrAuthenticationFailed.
	Authenticate(ctx context.Context, identifier, password string) (model.PublicUser, error)
	// GetProfile returns the public view of a user by ID.
	GetProfile(ctx context.Context, userID uuid.UUID) (model.PublicUser, error)
	// UpdateProfile applies optional email/password changes.
	UpdateProfile(ctx context.Context, userID uuid.UUID, email, password *string) (model.PublicUser, error)
	// UsernameExists reports whether the username is taken.
	UsernameExists(ctx context.Context, username string) (bool, error)
	// EmailExists reports whether the email is taken.
	EmailExists(ctx context.Context, email string) (bool, error)
	// DeleteAccount removes the account; false means no such user.
	DeleteAccount(ctx context.Context, userID uuid.UUID) (bool, error)
}

type UserServiceImpl struct {
	users repository.UserRepository
	log   *zap.Logger
}

// NewUserService constructs UserService. A nil logger means no logging.
func NewUserService(users repository.UserRepository, log *zap.Logger) *UserServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserServiceImpl{users: users, log: log}
}

// Register validates the request, proactively checks uniqueness, then stores.
// The storage-level unique constraints remain the final authority; their
// conflicts surface as the same ErrUsernameExists/ErrEmailExists kinds.
func (s *UserServiceImpl) Register(ctx context.Context, username, email, password string) (model.PublicUser, error) {
	req, err := model.NewStoreUserRequest(username, email, password)
	if err != nil {
		return model.PublicUser{}, err
	}

	taken, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return model.PublicUser{}, errs.ErrUsernameExists
	}
	taken, err = s.users.EmailExists(ctx, email)
	if err != nil {
		return model.PublicUser{}, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return model.PublicUser{}, errs.ErrEmailExists
	}

	u, err := s.users.Store(ctx, *req)
	if err != nil {
		return model.PublicUser{}, err
	}
	s.log.Info("user registered", zap.String("username", u.Username))
	return u.Public(), nil
}

// Authenticate verifies credentials. Unknown user and wrong password are
// indistinguishable to the caller.
func (s *UserServiceImpl) Authenticate(ctx context.Context, identifier, password string) (model.PublicUser, error) {
	if identifier == "" || password == "" {
		return model.PublicUser{}, errs.ErrAuthenticationFailed
	}

	u, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return model.PublicUser{}, err
	}
	if u == nil {
		return model.PublicUser{}, errs.ErrAuthenticationFailed
	}
	if !u.VerifyPassword(password) {
		s.log.Warn("authentication failed", zap.String("identifier", identifier))
		return model.PublicUser{}, errs.ErrAuthenticationFailed
	}
	return u.Public(), nil
}

// findByIdentifier tries username first, then email.
func (s *UserServiceImpl) findByIdentifier(ctx context.Context, identifier string) (*model.User, error) {
	u, err := s.users.FindByUsername(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("find by username: %w", err)
	}
	if u != nil {
		return u, nil
	}
	u, err = s.users.FindByEmail(ctx, identifier)
	if err != nil {
		return nil, fmt.Errorf("find by email: %w", err)
	}
	return u, nil
}

// GetProfile returns the public user view by ID.
func (s *UserServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (model.PublicUser, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return model.PublicUser{}, err
	}
	if u == nil {
		return model.PublicUser{}, errs.ErrNotFound
	}
	return u.Public(), nil
}

// UpdateProfile validates and applies optional email/password changes.
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, email, password *string) (model.PublicUser, error) {
	req, err := model.NewUpdateUserRequest(email, password)
	if err != nil {
		return model.PublicUser{}, err
	}

	if req.Email != nil {
		taken, err := s.users.EmailExists(ctx, *req.Email)
		if err != nil {
			return model.PublicUser{}, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return model.PublicUser{}, errs.ErrEmailExists
		}
	}

	u, err := s.users.Update(ctx, userID, *req)
	if err != nil {
		return model.PublicUser{}, err
	}
	s.log.Info("profile updated", zap.String("username", u.Username))
	return u.Public(), nil
}

// UsernameExists reports whether the username is taken.
func (s *UserServiceImpl) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.users.UsernameExists(ctx, username)
}

// EmailExists reports whether the email is taken.
func (s *UserServiceImpl) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.users.EmailExists(ctx, email)
}

// DeleteAccount removes the account.
func (s *UserServiceImpl) DeleteAccount(ctx context.Context, userID uuid.UUID) (bool, error) {
	deleted, err := s.users.Delete(ctx, userID)
	if err != nil {
		return false, err
	}
	if deleted {
		s.log.Info("account deleted", zap.String("user_id", userID.String()))
	}
	return deleted, nil
}
