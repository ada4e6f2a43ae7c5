package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/and161185/todo-cli/internal/errs"
	"github.com/and161185/todo-cli/internal/session"
)

func newAuthFixture(t *testing.T) (*AuthServiceImpl, *session.Store, UserService) {
	t.Helper()
	store, err := session.NewStore(filepath.Join(t.TempDir(), ".todo-cli"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	users := NewUserService(newFakeUsers(), nil)
	auth := NewAuthService(users, store, []byte("test-secret"), nil)
	return auth, store, users
}

func registerAlice(t *testing.T, users UserService) {
	t.Helper()
	if _, err := users.Register(context.Background(), "alice", "alice@example.com", "password1"); err != nil {
		t.Fatalf("Register: %v", err)
	}
}

func TestAuth_Login_Success(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	resp, err := auth.Login(ctx, "alice", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token == "" || resp.RefreshToken == "" || resp.Token == resp.RefreshToken {
		t.Fatalf("bad token pair: %+v", resp)
	}
	if resp.User.Username != "alice" {
		t.Fatalf("bad user: %+v", resp.User)
	}
	if !resp.ExpiresAt.After(time.Now().Add(29 * 24 * time.Hour)) {
		t.Fatalf("expiry should track the refresh token TTL: %v", resp.ExpiresAt)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if sess.Token != resp.Token || sess.RefreshToken != resp.RefreshToken {
		t.Fatalf("session tokens differ from response")
	}

	// Login by email also works.
	if _, err := auth.Login(ctx, "alice@example.com", "password1"); err != nil {
		t.Fatalf("Login by email: %v", err)
	}
}

func TestAuth_Login_BadCredentials(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	// Unknown user and wrong password collapse to the same error.
	if _, err := auth.Login(ctx, "nobody", "password1"); !errors.Is(err, errs.ErrAuthenticationFailed) {
		t.Fatalf("unknown user: got %v", err)
	}
	if _, err := auth.Login(ctx, "alice", "wrongpass1"); !errors.Is(err, errs.ErrAuthenticationFailed) {
		t.Fatalf("wrong password: got %v", err)
	}
	if store.Exists() {
		t.Fatalf("failed login must not write a session file")
	}
}

func TestAuth_Login_OverwritesPriorSession(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	if _, err := users.Register(context.Background(), "bob", "bob@example.com", "password1"); err != nil {
		t.Fatalf("Register bob: %v", err)
	}
	ctx := context.Background()

	if _, err := auth.Login(ctx, "alice", "password1"); err != nil {
		t.Fatalf("Login alice: %v", err)
	}
	if _, err := auth.Login(ctx, "bob", "password1"); err != nil {
		t.Fatalf("Login bob: %v", err)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.Username != "bob" {
		t.Fatalf("second login should overwrite the session, got %q", sess.Username)
	}
}

func TestAuth_ValidateToken(t *testing.T) {
	t.Parallel()
	auth, _, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	resp, err := auth.Login(ctx, "alice", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	user, err := auth.ValidateToken(ctx, resp.Token)
	if err != nil || user.Username != "alice" {
		t.Fatalf("ValidateToken: %v, %+v", err, user)
	}

	if _, err := auth.ValidateToken(ctx, "garbage"); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("garbage token: got %v", err)
	}

	// Token signed with a different key must be rejected.
	forged := mintToken(t, []byte("other-secret"), resp.User.ID.String(), time.Now().Add(time.Hour))
	if _, err := auth.ValidateToken(ctx, forged); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("forged token: got %v", err)
	}

	// Expired token must be rejected even with a valid signature.
	expired := mintToken(t, []byte("test-secret"), resp.User.ID.String(), time.Now().Add(-time.Hour))
	if _, err := auth.ValidateToken(ctx, expired); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("expired token: got %v", err)
	}
}

func mintToken(t *testing.T, key []byte, subject string, expiresAt time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func TestAuth_ValidateToken_ReResolvesUser(t *testing.T) {
	t.Parallel()
	auth, _, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	resp, err := auth.Login(ctx, "alice", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Claims carry the old email; validation must return fresh store data.
	email := "fresh@example.com"
	if _, err := users.UpdateProfile(ctx, resp.User.ID, &email, nil); err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}

	user, err := auth.ValidateToken(ctx, resp.Token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if user.Email != email {
		t.Fatalf("stale claims trusted: got %q, want %q", user.Email, email)
	}
}

func TestAuth_GetCurrentSession_Lifecycle(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	// No session file: none, no error.
	user, err := auth.GetCurrentSession(ctx)
	if err != nil || user != nil {
		t.Fatalf("no session: %v, %+v", err, user)
	}

	if _, err := auth.Login(ctx, "alice", "password1"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	before, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	user, err = auth.GetCurrentSession(ctx)
	if err != nil {
		t.Fatalf("GetCurrentSession: %v", err)
	}
	if user == nil || user.Username != "alice" {
		t.Fatalf("want alice, got %+v", user)
	}

	// Successful access bumps last_accessed.
	after, err := store.Load()
	if err != nil {
		t.Fatalf("Load(2): %v", err)
	}
	if after.LastAccessed.Before(before.LastAccessed) {
		t.Fatalf("last_accessed not refreshed")
	}
}

func TestAuth_GetCurrentSession_ExpiredIsDeleted(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	if _, err := auth.Login(ctx, "alice", "password1"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Force the session expiry into the past.
	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	user, err := auth.GetCurrentSession(ctx)
	if err != nil || user != nil {
		t.Fatalf("expired session: %v, %+v", err, user)
	}
	if store.Exists() {
		t.Fatalf("expired session file must be removed")
	}
}

func TestAuth_GetCurrentSession_InvalidTokenIsDeleted(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	if _, err := auth.Login(ctx, "alice", "password1"); err != nil {
		t.Fatalf("Login: %v", err)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sess.Token = "tampered"
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	user, err := auth.GetCurrentSession(ctx)
	if err != nil || user != nil {
		t.Fatalf("invalid token session: %v, %+v", err, user)
	}
	if store.Exists() {
		t.Fatalf("invalid session file must be removed")
	}
}

func TestAuth_Logout_Idempotent(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	if _, err := auth.Login(ctx, "alice", "password1"); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if store.Exists() {
		t.Fatalf("session file should be gone")
	}
	// Second logout with nothing to remove still succeeds.
	if err := auth.Logout(ctx); err != nil {
		t.Fatalf("Logout(again): %v", err)
	}

	if auth.IsAuthenticated(ctx) {
		t.Fatalf("IsAuthenticated after logout")
	}
	if _, err := auth.GetCurrentUser(ctx); !errors.Is(err, errs.ErrSessionNotFound) {
		t.Fatalf("GetCurrentUser after logout: got %v", err)
	}
}

func TestAuth_RefreshToken_ExactMatchRequired(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	// No session at all.
	if _, err := auth.RefreshToken(ctx, "whatever"); !errors.Is(err, errs.ErrSessionNotFound) {
		t.Fatalf("refresh without session: got %v", err)
	}

	resp, err := auth.Login(ctx, "alice", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// A cryptographically valid token that is not the stored one is rejected.
	forged := mintToken(t, []byte("test-secret"), resp.User.ID.String(), time.Now().Add(time.Hour))
	if _, err := auth.RefreshToken(ctx, forged); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("non-stored refresh token: got %v", err)
	}

	refreshed, err := auth.RefreshToken(ctx, resp.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshToken: %v", err)
	}
	if refreshed.Token == resp.Token || refreshed.RefreshToken == resp.RefreshToken {
		t.Fatalf("refresh must mint new tokens")
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if sess.RefreshToken != refreshed.RefreshToken {
		t.Fatalf("session not overwritten with new refresh token")
	}

	// The superseded refresh token is dead even though its signature is valid.
	if _, err := auth.RefreshToken(ctx, resp.RefreshToken); !errors.Is(err, errs.ErrInvalidToken) {
		t.Fatalf("superseded refresh token: got %v", err)
	}
}

func TestAuth_RefreshToken_ExpiredSessionDeleted(t *testing.T) {
	t.Parallel()
	auth, store, users := newAuthFixture(t)
	registerAlice(t, users)
	ctx := context.Background()

	resp, err := auth.Login(ctx, "alice", "password1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	sess, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := auth.RefreshToken(ctx, resp.RefreshToken); !errors.Is(err, errs.ErrSessionExpired) {
		t.Fatalf("expired session refresh: got %v", err)
	}
	if store.Exists() {
		t.Fatalf("expired session file must be removed on refresh")
	}
}
