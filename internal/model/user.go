package model

import (
	"net/mail"
	"time"
	"unicode"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/todo-cli/internal/crypto"
	"github.com/and161185/todo-cli/internal/errs"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 50
	passwordMinLen = 8
	passwordMaxLen = 128
)

// User is an account. PasswordHash is never exposed outside the service layer.
type User struct {
	ID           uuid.UUID
	Username     string // unique
	Email        string // unique
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PublicUser is the externally visible view of a user (no password hash).
type PublicUser struct {
	ID        uuid.UUID
	Username  string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Public strips the password hash.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// VerifyPassword compares password against the stored hash. It returns false
// on any mismatch and never errors.
func (u *User) VerifyPassword(password string) bool {
	return crypto.VerifyPassword(password, u.PasswordHash)
}

// StoreUserRequest carries validated registration fields with the password
// already hashed.
type StoreUserRequest struct {
	Username     string
	Email        string
	PasswordHash string
}

// NewStoreUserRequest validates username/email/password shape and hashes the
// password. The plaintext is not retained.
func NewStoreUserRequest(username, email, password string) (*StoreUserRequest, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &StoreUserRequest{Username: username, Email: email, PasswordHash: hash}, nil
}

// UpdateUserRequest carries optional profile changes. PasswordHash is derived
// from Password by the constructor when a password change is requested.
type UpdateUserRequest struct {
	Email        *string
	PasswordHash *string
}

// NewUpdateUserRequest validates and hashes optional profile changes.
func NewUpdateUserRequest(email, password *string) (*UpdateUserRequest, error) {
	req := &UpdateUserRequest{}
	if email != nil {
		if err := validateEmail(*email); err != nil {
			return nil, err
		}
		req.Email = email
	}
	if password != nil {
		if err := ValidatePassword(*password); err != nil {
			return nil, err
		}
		hash, err := crypto.HashPassword(*password)
		if err != nil {
			return nil, err
		}
		req.PasswordHash = &hash
	}
	return req, nil
}

func validateUsername(username string) error {
	if len(username) < usernameMinLen || len(username) > usernameMaxLen {
		return errs.Validation("username", "username must be between 3 and 50 characters")
	}
	for _, r := range username {
		ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		if !ok {
			return errs.Validation("username", "username can only contain letters, numbers, and underscores")
		}
	}
	return nil
}

func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errs.Validation("email", "invalid email format")
	}
	return nil
}

// ValidatePassword enforces the password policy: 8-128 characters with at
// least one letter and one digit.
func ValidatePassword(password string) error {
	if len(password) < passwordMinLen {
		return errs.Validation("password", "password must be at least 8 characters")
	}
	if len(password) > passwordMaxLen {
		return errs.Validation("password", "password must be at most 128 characters")
	}
	hasLetter, hasDigit := false, false
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return errs.Validation("password", "password must contain at least one letter and one digit")
	}
	return nil
}
