// Package token signs and verifies the JWTs of the auth service.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/analoghub/backend/internal/domain"
)

// Config holds signing keys and lifetimes
type Config struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// claims is the JWT body: sub, role, type, exp, iat, jti
type claims struct {
	Role string `json:"role"`
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// JWT issues and verifies HS256 tokens. Access and refresh tokens are
// signed with different keys so one can never be used as the other.
type JWT struct {
	cfg Config
	now func() time.Time
}

// NewJWT creates a token manager
func NewJWT(cfg Config) *JWT {
	return &JWT{cfg: cfg, now: time.Now}
}

func (j *JWT) key(typ string) ([]byte, time.Duration, error) {
	switch typ {
	case domain.AccessToken:
		return []byte(j.cfg.AccessSecret), j.cfg.AccessTTL, nil
	case domain.RefreshToken:
		return []byte(j.cfg.RefreshSecret), j.cfg.RefreshTTL, nil
	default:
		return nil, 0, fmt.Errorf("unknown token type %q", typ)
	}
}

// Issue signs a token of type typ for a user
func (j *JWT) Issue(userID, role, typ string) (string, error) {
	key, ttl, err := j.key(typ)
	if err != nil {
		return "", err
	}

	now := j.now()
	c := claims{
		Role: role,
		Type: typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("sign %s: %w", typ, err)
	}
	return signed, nil
}

// IssuePair signs a fresh access and refresh token
func (j *JWT) IssuePair(userID, role string) (domain.TokenPair, error) {
	access, err := j.Issue(userID, role, domain.AccessToken)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refresh, err := j.Issue(userID, role, domain.RefreshToken)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Parse verifies raw as a token of type typ
func (j *JWT) Parse(raw, typ string) (*domain.TokenClaims, error) {
	key, _, err := j.key(typ)
	if err != nil {
		return nil, err
	}

	var c claims
	_, err = jwt.ParseWithClaims(raw, &c,
		func(*jwt.Token) (interface{}, error) { return key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(j.now),
		jwt.WithExpirationRequired(),
	)
	if errors.Is(err, jwt.ErrTokenExpired) {
		return nil, domain.ErrTokenExpired
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if c.Type != typ || c.Subject == "" {
		return nil, domain.ErrUnauthorized
	}

	return &domain.TokenClaims{
		UserID:    c.Subject,
		Role:      c.Role,
		Type:      c.Type,
		ExpiresAt: c.ExpiresAt.Time,
		Value:     raw,
	}, nil
}
