package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gomokuarena/backend/internal/repository/postgres"
	"github.com/gomokuarena/backend/internal/repository/redis"
	"github.com/gomokuarena/backend/pkg/auth"
	"github.com/gomokuarena/backend/pkg/uid"
)

var (
	ErrBadCredentials = errors.New("invalid username or password")
	ErrSessionExpired = errors.New("session expired or revoked")
)

// AuthService issues and validates authenticated sessions. The JWT carries
// the identity, the redis entry makes revocation effective immediately.
type AuthService struct {
	users      *postgres.UserRepo
	cache      *redis.Cache
	tokens     *auth.TokenManager
	sessionTTL time.Duration
}

func NewAuthService(users *postgres.UserRepo, cache *redis.Cache, tokens *auth.TokenManager, sessionTTL time.Duration) *AuthService {
	return &AuthService{users: users, cache: cache, tokens: tokens, sessionTTL: sessionTTL}
}

// Register creates a user with a hashed password.
func (s *AuthService) Register(ctx context.Context, username, displayName, password, email string) (*postgres.User, error) {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := s.users.Create(ctx, username, displayName, hash, email, "")
	if err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// Login verifies the credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*postgres.User, string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if errors.Is(err, postgres.ErrUserNotFound) {
		return nil, "", ErrBadCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if !auth.CheckPasswordHash(password, user.PasswordHash) {
		return nil, "", ErrBadCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// LoginGoogle signs in (or up) a user verified by Google. displayName and
// email are only used when the account does not exist yet.
func (s *AuthService) LoginGoogle(ctx context.Context, googleID, username, displayName, email string) (*postgres.User, string, error) {
	user, err := s.users.GetByGoogleID(ctx, googleID)
	if errors.Is(err, postgres.ErrUserNotFound) {
		userID, createErr := s.users.Create(ctx, username, displayName, "", email, googleID)
		if createErr != nil {
			return nil, "", createErr
		}
		user, err = s.users.GetByID(ctx, userID)
	}
	if err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) openSession(ctx context.Context, user *postgres.User) (string, error) {
	sessionID := uid.NewSessionID()
	if err := s.cache.PutSession(ctx, sessionID, user.ID, s.sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	token, err := s.tokens.Generate(user.ID, user.Username, sessionID)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

// ValidateToken checks the JWT signature and that the session behind it is
// still live.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	claims, err := s.tokens.Validate(tokenString)
	if err != nil {
		return nil, err
	}

	userID, err := s.cache.GetSession(ctx, claims.SessionID)
	if errors.Is(err, redis.ErrCacheMiss) {
		return nil, ErrSessionExpired
	}
	if err != nil {
		return nil, err
	}
	if userID != claims.UserID {
		return nil, ErrSessionExpired
	}
	return claims, nil
}

// Logout revokes the session behind the token.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.cache.DeleteSession(ctx, sessionID)
}
