package pkg

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePairAndParse(t *testing.T) {
	InitSecrets("test-access-secret", "test-refresh-secret")

	pair, err := GeneratePair(42, 3)
	require.NoError(t, err)

	claims, err := ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), claims.UserID)
	assert.Equal(t, int64(3), claims.Version)

	// refresh token 不能当 access 用
	_, err = ParseAccess(pair.RefreshToken)
	assert.Error(t, err)

	rc, err := ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), rc.UserID)
	assert.Equal(t, int64(3), rc.Version)

	_, err = ParseRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrRefreshInvalid)
}

func TestParseAccessExpired(t *testing.T) {
	InitSecrets("test-access-secret", "test-refresh-secret")

	token, err := sign(7, 0, "access", time.Minute, accessSecret, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseAccess(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessWrongSecret(t *testing.T) {
	InitSecrets("test-access-secret", "test-refresh-secret")

	token, err := sign(7, 0, "access", time.Minute, []byte("other-secret"), time.Now())
	require.NoError(t, err)

	_, err = ParseAccess(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.NotErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseRefreshExpired(t *testing.T) {
	InitSecrets("test-access-secret", "test-refresh-secret")

	token, err := sign(7, 0, "refresh", time.Minute, refreshSecret, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = ParseRefresh(token)
	assert.ErrorIs(t, err, ErrRefreshExpired)
}
