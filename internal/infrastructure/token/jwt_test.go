package token

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/analoghub/backend/internal/domain"
)

func newTestJWT() *JWT {
	return NewJWT(Config{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		AccessTTL:     90 * time.Minute,
		RefreshTTL:    120 * time.Hour,
	})
}

func TestJWT_RoundTrip(t *testing.T) {
	j := newTestJWT()

	pair, err := j.IssuePair("user-1", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := j.Parse(pair.AccessToken, domain.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", access.UserID)
	assert.Equal(t, "admin", access.Role)
	assert.Equal(t, domain.AccessToken, access.Type)
	assert.Equal(t, pair.AccessToken, access.Value)
	assert.WithinDuration(t, time.Now().Add(90*time.Minute), access.ExpiresAt, 5*time.Second)

	refresh, err := j.Parse(pair.RefreshToken, domain.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, domain.RefreshToken, refresh.Type)
}

func TestJWT_TokensAreNotInterchangeable(t *testing.T) {
	j := newTestJWT()
	pair, err := j.IssuePair("user-1", "default")
	require.NoError(t, err)

	_, err = j.Parse(pair.RefreshToken, domain.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	_, err = j.Parse(pair.AccessToken, domain.RefreshToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestJWT_Expired(t *testing.T) {
	j := newTestJWT()
	tok, err := j.Issue("user-1", "default", domain.AccessToken)
	require.NoError(t, err)

	j.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = j.Parse(tok, domain.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrTokenExpired))
}

func TestJWT_Garbage(t *testing.T) {
	_, err := newTestJWT().Parse("not-a-token", domain.AccessToken)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestJWT_UniquePerIssue(t *testing.T) {
	j := newTestJWT()
	a, err := j.Issue("user-1", "default", domain.RefreshToken)
	require.NoError(t, err)
	b, err := j.Issue("user-1", "default", domain.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
