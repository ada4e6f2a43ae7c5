package model

import (
	"strings"
	"testing"

	"github.com/and161185/todo-cli/internal/errs"
)

func TestNewStoreUserRequest_Valid(t *testing.T) {
	t.Parallel()

	req, err := NewStoreUserRequest("alice_01", "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("NewStoreUserRequest: %v", err)
	}
	if req.PasswordHash == "" || req.PasswordHash == "password1" {
		t.Fatalf("password must be hashed, got %q", req.PasswordHash)
	}
}

func TestNewStoreUserRequest_FieldValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		username string
		email    string
		password string
		field    string
	}{
		{"username too short", "ab", "a@example.com", "password1", "username"},
		{"username too long", strings.Repeat("a", 51), "a@example.com", "password1", "username"},
		{"username bad chars", "bad name!", "a@example.com", "password1", "username"},
		{"email invalid", "alice", "not-an-email", "password1", "email"},
		{"email with display name", "alice", "Alice <a@example.com>", "password1", "email"},
		{"password too short", "alice", "a@example.com", "pass1", "password"},
		{"password too long", "alice", "a@example.com", strings.Repeat("a1", 65), "password"},
		{"password no digit", "alice", "a@example.com", "passwords", "password"},
		{"password no letter", "alice", "a@example.com", "12345678", "password"},
	}
	for _, tc := range cases {
		_, err := NewStoreUserRequest(tc.username, tc.email, tc.password)
		var ve *errs.ValidationError
		if !errs.IsValidation(err) {
			t.Errorf("%s: want validation error, got %v", tc.name, err)
			continue
		}
		if verr, ok := err.(*errs.ValidationError); ok {
			ve = verr
		}
		if ve != nil && ve.Field != tc.field {
			t.Errorf("%s: failed field = %q, want %q", tc.name, ve.Field, tc.field)
		}
	}
}

func TestUser_VerifyPasswordAndPublic(t *testing.T) {
	t.Parallel()

	req, err := NewStoreUserRequest("alice", "alice@example.com", "password1")
	if err != nil {
		t.Fatalf("NewStoreUserRequest: %v", err)
	}
	u := User{Username: req.Username, Email: req.Email, PasswordHash: req.PasswordHash}

	if !u.VerifyPassword("password1") {
		t.Fatalf("correct password rejected")
	}
	if u.VerifyPassword("password2") {
		t.Fatalf("wrong password accepted")
	}

	pub := u.Public()
	if pub.Username != "alice" || pub.Email != "alice@example.com" {
		t.Fatalf("Public() lost fields: %+v", pub)
	}
}

func TestNewUpdateUserRequest(t *testing.T) {
	t.Parallel()

	email := "new@example.com"
	pw := "newpassword1"
	req, err := NewUpdateUserRequest(&email, &pw)
	if err != nil {
		t.Fatalf("NewUpdateUserRequest: %v", err)
	}
	if req.Email == nil || *req.Email != email {
		t.Fatalf("email not carried: %+v", req)
	}
	if req.PasswordHash == nil || *req.PasswordHash == pw {
		t.Fatalf("password must be hashed: %+v", req)
	}

	bad := "nope"
	if _, err := NewUpdateUserRequest(&bad, nil); !errs.IsValidation(err) {
		t.Fatalf("want validation error for bad email, got %v", err)
	}
	short := "short1"
	if _, err := NewUpdateUserRequest(nil, &short); !errs.IsValidation(err) {
		t.Fatalf("want validation error for short password, got %v", err)
	}
}
