package tokens

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-jwt-secret")

func TestSignAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(AccessTTL)
	token, err := SignAccessToken("user-1", RoleAdmin, exp, secret)
	require.NoError(t, err)

	claims, err := AccessClaimsFromToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.WithinDuration(t, exp, claims.ExpiresAt.Time, time.Second)
}

func TestAccessClaimsFromToken_Rejects(t *testing.T) {
	t.Parallel()

	expired, err := SignAccessToken("user-1", RoleUser, time.Now().Add(-time.Minute), secret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(expired, secret)
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))

	valid, err := SignAccessToken("user-1", RoleUser, time.Now().Add(time.Minute), secret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(valid, []byte("other-secret"))
	assert.Error(t, err)

	_, err = AccessClaimsFromToken("", secret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	noSubject, err := SignAccessToken("", RoleUser, time.Now().Add(time.Minute), secret)
	require.NoError(t, err)
	_, err = AccessClaimsFromToken(noSubject, secret)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteCookie_Expires(t *testing.T) {
	t.Parallel()

	c := DeleteCookie(AccessCookieName, "/", true)
	assert.Equal(t, -1, c.MaxAge)
	assert.Empty(t, c.Value)
	assert.True(t, c.HttpOnly)
}
