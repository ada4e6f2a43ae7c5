package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/and161185/todo-cli/internal/errs"
	"github.com/and161185/todo-cli/internal/model"
	"github.com/and161185/todo-cli/internal/session"
)

// Token lifetimes. The session expiry equals the refresh token expiry.
const (
	AccessTokenTTL  = 24 * time.Hour
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// Claims is the shared claim shape of access and refresh tokens. The two are
// distinguished only by expiry and by the stored-refresh-token comparison.
type Claims struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// LoginResponse carries both tokens issued on a successful login.
type LoginResponse struct {
	User         model.PublicUser
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// TokenRefreshResponse carries the replacement token pair.
type TokenRefreshResponse struct {
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// AuthService manages login, tokens, and the on-disk session lifecycle.
type AuthService interface {
	// Login authenticates by username-or-email and overwrites the session file.
	Login(ctx context.Context, identifier, password string) (*LoginResponse, error)
	// Logout removes the session file; idempotent.
	Logout(ctx context.Context) error
	// ValidateToken verifies signature and expiry, then re-resolves the
	// subject to a fresh user record.
	ValidateToken(ctx context.Context, token string) (model.PublicUser, error)
	// GetCurrentSession returns the logged-in user, or nil if there is no
	// valid session. Invalid or expired sessions are deleted on sight.
	GetCurrentSession(ctx context.Context) (*model.PublicUser, error)
	// GetCurrentUser is GetCurrentSession that errors when not logged in.
	GetCurrentUser(ctx context.Context) (model.PublicUser, error)
	// IsAuthenticated reports whether a valid session exists.
	IsAuthenticated(ctx context.Context) bool
	// RefreshToken exchanges the exact stored refresh token for a new pair.
	RefreshToken(ctx context.Context, refreshToken string) (*TokenRefreshResponse, error)
}

type AuthServiceImpl struct {
	users      UserService
	store      *session.Store
	signKey    []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	log        *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
// A nil logger means no logging.
func NewAuthService(users UserService, store *session.Store, signKey []byte, log *zap.Logger) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{
		users:      users,
		store:      store,
		signKey:    signKey,
		accessTTL:  AccessTokenTTL,
		refreshTTL: RefreshTokenTTL,
		log:        log,
	}
}

// Login authenticates, mints both tokens, and persists the session. Any
// previous session is overwritten.
func (s *AuthServiceImpl) Login(ctx context.Context, identifier, password string) (*LoginResponse, error) {
	user, err := s.users.Authenticate(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, errs.ErrAuthenticationFailed) || errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrAuthenticationFailed
		}
		return nil, err
	}

	token, refreshToken, expiresAt, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	sess := &session.Session{
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Token:        token,
		RefreshToken: refreshToken,
		CreatedAt:    now,
		ExpiresAt:    expiresAt,
		LastAccessed: now,
	}
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}

	s.log.Info("user logged in", zap.String("username", user.Username))
	return &LoginResponse{
		User:         user,
		Token:        token,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// Logout removes the session file if present; already absent is success.
func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	if err := s.store.Delete(); err != nil {
		return err
	}
	s.log.Info("session cleared")
	return nil
}

// ValidateToken checks signature and expiry, then loads the subject from the
// user store rather than trusting stale display claims.
func (s *AuthServiceImpl) ValidateToken(ctx context.Context, token string) (model.PublicUser, error) {
	claims, err := s.decodeToken(token)
	if err != nil {
		return model.PublicUser{}, err
	}

	userID, err := uuid.FromString(claims.Subject)
	if err != nil {
		return model.PublicUser{}, errs.ErrInvalidToken
	}

	user, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.PublicUser{}, errs.ErrInvalidToken
		}
		return model.PublicUser{}, err
	}
	return user, nil
}

// GetCurrentSession loads and revalidates the stored session. Every failure
// path collapses to (nil, nil) with the file removed; the cause is only logged.
func (s *AuthServiceImpl) GetCurrentSession(ctx context.Context) (*model.PublicUser, error) {
	sess, err := s.store.Load()
	if err != nil {
		if errors.Is(err, errs.ErrSessionNotFound) {
			return nil, nil
		}
		s.log.Debug("failed to load session", zap.Error(err))
		return nil, nil
	}

	if sess.Expired() {
		s.log.Debug("session expired, clearing it", zap.String("username", sess.Username))
		if err := s.store.Delete(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	user, err := s.ValidateToken(ctx, sess.Token)
	if err != nil {
		s.log.Debug("invalid session token, clearing session", zap.Error(err))
		if err := s.store.Delete(); err != nil {
			return nil, err
		}
		return nil, nil
	}

	sess.LastAccessed = time.Now().UTC()
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetCurrentUser returns the logged-in user or ErrSessionNotFound.
func (s *AuthServiceImpl) GetCurrentUser(ctx context.Context) (model.PublicUser, error) {
	user, err := s.GetCurrentSession(ctx)
	if err != nil {
		return model.PublicUser{}, err
	}
	if user == nil {
		return model.PublicUser{}, errs.ErrSessionNotFound
	}
	return *user, nil
}

// IsAuthenticated reports whether a valid session exists.
func (s *AuthServiceImpl) IsAuthenticated(ctx context.Context) bool {
	user, err := s.GetCurrentSession(ctx)
	return err == nil && user != nil
}

// RefreshToken requires the supplied token to exactly match the stored
// refresh token, not merely be cryptographically valid. The session file is
// overwritten on each refresh, so a superseded token can never be replayed.
func (s *AuthServiceImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenRefreshResponse, error) {
	sess, err := s.store.Load()
	if err != nil {
		return nil, err
	}

	if sess.RefreshToken != refreshToken {
		s.log.Warn("refresh token does not match stored session")
		return nil, errs.ErrInvalidToken
	}

	if sess.Expired() {
		s.log.Warn("refresh token expired", zap.String("username", sess.Username))
		if err := s.store.Delete(); err != nil {
			return nil, err
		}
		return nil, errs.ErrSessionExpired
	}

	user := model.PublicUser{
		ID:       sess.UserID,
		Username: sess.Username,
		Email:    sess.Email,
	}
	token, newRefreshToken, expiresAt, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	sess.Token = token
	sess.RefreshToken = newRefreshToken
	sess.ExpiresAt = expiresAt
	sess.LastAccessed = time.Now().UTC()
	if err := s.store.Save(sess); err != nil {
		return nil, err
	}

	s.log.Info("token refreshed", zap.String("username", sess.Username))
	return &TokenRefreshResponse{
		Token:        token,
		RefreshToken: newRefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

// generateTokens mints the access and refresh pair. The returned expiry is
// the refresh token's, which bounds the session lifetime.
func (s *AuthServiceImpl) generateTokens(user model.PublicUser) (token, refreshToken string, expiresAt time.Time, err error) {
	now := time.Now()
	token, err = s.signToken(user, now, now.Add(s.accessTTL))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	expiresAt = now.Add(s.refreshTTL)
	refreshToken, err = s.signToken(user, now, expiresAt)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}
	return token, refreshToken, expiresAt, nil
}

// signToken creates a signed HS256 JWT with a unique jti.
func (s *AuthServiceImpl) signToken(user model.PublicUser, issuedAt, expiresAt time.Time) (string, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return "", err
	}
	claims := Claims{
		Username: user.Username,
		Email:    user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        jti.String(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signKey)
}

// decodeToken verifies signature, algorithm, and expiry.
func (s *AuthServiceImpl) decodeToken(token string) (*Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.signKey, nil
	})
	if err != nil || !parsed.Valid {
		s.log.Debug("token decode failed", zap.Error(err))
		return nil, errs.ErrInvalidToken
	}
	return &claims, nil
}
