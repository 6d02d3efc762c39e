package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWT_AccessAndRefreshUseSeparateSecrets(t *testing.T) {
	m := NewJWTManager("access", "refresh", time.Minute, time.Hour)

	access, aexp, err := m.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), aexp, 2*time.Second)

	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "s1", claims.SessionID)

	_, err = m.ParseRefreshToken(access)
	assert.Error(t, err)
}

func TestJWT_ExpiredTokenRejected(t *testing.T) {
	m := NewJWTManager("access", "refresh", -time.Minute, time.Hour)
	tok, _, err := m.GenerateAccessToken("u1", "s1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(tok)
	assert.Error(t, err)
}

func TestJWT_TypeIsChecked(t *testing.T) {
	m := NewJWTManager("same", "same", time.Minute, time.Hour)
	refresh, _, err := m.GenerateRefreshToken("u1", "s1")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	claims, err := m.ParseRefreshToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)
}

func TestRandomToken(t *testing.T) {
	a, err := RandomToken(20)
	require.NoError(t, err)
	b, err := RandomToken(20)
	require.NoError(t, err)

	assert.Len(t, a, 40)
	assert.NotEqual(t, a, b)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.True(t, CompareHashAndPassword(hash, "secret"))
	assert.False(t, CompareHashAndPassword(hash, "Secret"))
}

func TestObjectID(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 24)
	assert.True(t, IsValidID(id))
	assert.False(t, IsValidID("u1"))
	assert.False(t, IsValidID(""))
}
