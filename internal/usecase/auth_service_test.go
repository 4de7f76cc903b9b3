package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/analoghub/backend/internal/domain"
	"github.com/analoghub/backend/internal/infrastructure/token"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	users map[string]*domain.User
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[string]*domain.User)}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func newTestAuthService() (*AuthService, *MockUserRepository, *MockCacheRepository) {
	users := NewMockUserRepository()
	cache := NewMockCacheRepository()
	tokens := token.NewJWT(token.Config{
		AccessSecret:  "access",
		RefreshSecret: "refresh",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
	svc := NewAuthService(users, tokens, cache, AuthServiceConfig{
		RefreshTTL: 24 * time.Hour,
		BcryptCost: bcrypt.MinCost,
	})
	return svc, users, cache
}

func signup(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	user, err := svc.Signup(context.Background(), domain.SignupRequest{
		Username: "ivan",
		Email:    "ivan@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	return user
}

func TestAuthService_Signup(t *testing.T) {
	svc, _, _ := newTestAuthService()

	user := signup(t, svc)
	assert.True(t, user.IsActive)
	assert.Equal(t, DefaultRole, user.Role)
	assert.NotEqual(t, "secret", user.PasswordHash)

	_, err := svc.Signup(context.Background(), domain.SignupRequest{Username: "x", Email: "ivan@example.com", Password: "p"})
	assert.True(t, errors.Is(err, domain.ErrUserExists))
}

func TestAuthService_Login(t *testing.T) {
	svc, users, cache := newTestAuthService()
	user := signup(t, svc)
	ctx := context.Background()

	t.Run("issues a pair and stores the refresh token", func(t *testing.T) {
		pair, err := svc.Login(ctx, "ivan@example.com", "secret")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Equal(t, pair.RefreshToken, cache.data["refresh_token:"+user.ID])
		assert.Equal(t, 24*time.Hour, cache.ttls["refresh_token:"+user.ID])
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, "ivan@example.com", "nope")
		assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	})

	t.Run("rejects an unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, "who@example.com", "secret")
		assert.True(t, errors.Is(err, domain.ErrInvalidCredentials))
	})

	t.Run("rejects a disabled account", func(t *testing.T) {
		users.users[user.ID].Disabled = true
		defer func() { users.users[user.ID].Disabled = false }()

		_, err := svc.Login(ctx, "ivan@example.com", "secret")
		assert.True(t, errors.Is(err, domain.ErrInactiveUser))
	})
}

func TestAuthService_Refresh(t *testing.T) {
	svc, _, _ := newTestAuthService()
	signup(t, svc)
	ctx := context.Background()

	first, err := svc.Login(ctx, "ivan@example.com", "secret")
	require.NoError(t, err)

	second, err := svc.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// the rotated token is no longer accepted
	_, err = svc.Refresh(ctx, first.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	// an access token is not a refresh token
	_, err = svc.Refresh(ctx, second.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestAuthService_Logout(t *testing.T) {
	svc, _, cache := newTestAuthService()
	user := signup(t, svc)
	ctx := context.Background()

	pair, err := svc.Login(ctx, "ivan@example.com", "secret")
	require.NoError(t, err)

	claims, err := svc.Authenticate(ctx, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	me, err := svc.Me(ctx, claims)
	require.NoError(t, err)
	assert.Equal(t, "ivan@example.com", me.Email)

	require.NoError(t, svc.Logout(ctx, claims))
	assert.NotContains(t, cache.data, "refresh_token:"+user.ID)

	ttl := cache.ttls["revoked:"+pair.AccessToken]
	assert.True(t, ttl > 0 && ttl <= time.Hour, "revocation ttl %v", ttl)

	_, err = svc.Authenticate(ctx, pair.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}
