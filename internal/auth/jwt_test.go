package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_IssueAndParse(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)

	token, err := m.Issue("alice")
	require.NoError(t, err)

	name, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", name)
}

func TestManager_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, NewManager([]byte("s"), 0).TTL())
}

func TestManager_WrongSecret(t *testing.T) {
	token, err := NewManager([]byte("one"), time.Hour).Issue("alice")
	require.NoError(t, err)

	_, err = NewManager([]byte("two"), time.Hour).Parse(token)
	assert.Error(t, err)
}

func TestManager_Expired(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.Issue("alice")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestManager_RejectsOtherAlgorithms(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)

	// токен без подписи ("none") не должен проходить
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "mallory",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Parse(tokenStr)
	assert.Error(t, err)
}

func TestManager_MissingSubject(t *testing.T) {
	m := NewManager([]byte("test-secret"), time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	tokenStr, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.Parse(tokenStr)
	assert.EqualError(t, err, "missing subject")
}

func TestManager_Garbage(t *testing.T) {
	_, err := NewManager([]byte("s"), time.Hour).Parse("badtoken")
	assert.Error(t, err)
}
