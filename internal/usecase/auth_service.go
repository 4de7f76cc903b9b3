package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/analoghub/backend/internal/domain"
)

// DefaultRole is assigned to every new account
const DefaultRole = "default"

const (
	refreshKeyPrefix = "refresh_token:"
	revokedKeyPrefix = "revoked:"
)

// AuthServiceConfig holds configuration for the auth service
type AuthServiceConfig struct {
	RefreshTTL time.Duration
	BcryptCost int
}

// AuthService handles accounts and the token lifecycle. The cache keeps the
// single live refresh token per user and the access tokens revoked by logout.
type AuthService struct {
	users  domain.UserRepository
	tokens domain.TokenManager
	cache  domain.CacheRepository
	cfg    AuthServiceConfig
	now    func() time.Time
}

// NewAuthService creates a new auth service with dependencies
func NewAuthService(users domain.UserRepository, tokens domain.TokenManager, cache domain.CacheRepository, cfg AuthServiceConfig) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, tokens: tokens, cache: cache, cfg: cfg, now: time.Now}
}

// Signup registers an active account with the default role
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: string(hash),
		Role:         DefaultRole,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	log.Printf("[AUTH] Signed up user %s", user.ID)
	return user, nil
}

// Login checks credentials and issues a token pair
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.TokenPair{}, domain.ErrInvalidCredentials
	}
	if !user.IsActive || user.Disabled {
		return domain.TokenPair{}, domain.ErrInactiveUser
	}

	return s.issue(ctx, user)
}

// Refresh exchanges the current refresh token for a new pair.
// A refresh token that was already rotated or logged out is rejected.
func (s *AuthService) Refresh(ctx context.Context, raw string) (domain.TokenPair, error) {
	claims, err := s.tokens.Parse(raw, domain.RefreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}

	stored, err := s.cache.Get(ctx, refreshKeyPrefix+claims.UserID)
	if err != nil || stored != raw {
		log.Printf("[AUTH] Rejected refresh for user %s", claims.UserID)
		return domain.TokenPair{}, domain.ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TokenPair{}, domain.ErrUnauthorized
	}
	if err != nil {
		return domain.TokenPair{}, err
	}
	if !user.IsActive || user.Disabled {
		return domain.TokenPair{}, domain.ErrInactiveUser
	}

	return s.issue(ctx, user)
}

// Authenticate verifies an access token and rejects revoked ones
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*domain.TokenClaims, error) {
	claims, err := s.tokens.Parse(raw, domain.AccessToken)
	if err != nil {
		return nil, err
	}

	revoked, err := s.cache.Exists(ctx, revokedKeyPrefix+raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if revoked {
		return nil, domain.ErrUnauthorized
	}
	return claims, nil
}

// Logout revokes the access token until it expires and drops the refresh token
func (s *AuthService) Logout(ctx context.Context, claims *domain.TokenClaims) error {
	if ttl := claims.ExpiresAt.Sub(s.now()); ttl > 0 {
		if err := s.cache.Set(ctx, revokedKeyPrefix+claims.Value, true, ttl); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
		}
	}
	if err := s.cache.Delete(ctx, refreshKeyPrefix+claims.UserID); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	log.Printf("[AUTH] Logged out user %s", claims.UserID)
	return nil
}

// Me returns the account behind verified claims
func (s *AuthService) Me(ctx context.Context, claims *domain.TokenClaims) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, claims.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrUnauthorized
	}
	return user, err
}

func (s *AuthService) issue(ctx context.Context, user *domain.User) (domain.TokenPair, error) {
	pair, err := s.tokens.IssuePair(user.ID, user.Role)
	if err != nil {
		return domain.TokenPair{}, err
	}
	if err := s.cache.Set(ctx, refreshKeyPrefix+user.ID, pair.RefreshToken, s.cfg.RefreshTTL); err != nil {
		return domain.TokenPair{}, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	return pair, nil
}
