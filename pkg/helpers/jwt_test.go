package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }

func TestJWTManager_IssueAndValidate(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("test-secret").WithClock(fixedClock(start))

	tok, exp, err := m.Issue("user-123")
	require.NoError(t, err)
	assert.Equal(t, start.Add(30*24*time.Hour), exp)

	uid, err := m.Validate(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", uid)
}

func TestJWTManager_Expired(t *testing.T) {
	start := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewJWTManager("test-secret").WithClock(fixedClock(start))

	tok, exp, err := m.Issue("u1")
	require.NoError(t, err)

	m.WithClock(fixedClock(exp.Add(-time.Minute)))
	_, err = m.Validate(tok)
	require.NoError(t, err)

	m.WithClock(fixedClock(exp.Add(time.Second)))
	_, err = m.Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestJWTManager_WrongSecret(t *testing.T) {
	tok, _, err := NewJWTManager("right-secret").Issue("u2")
	require.NoError(t, err)

	_, err = NewJWTManager("wrong-secret").Validate(tok)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestJWTManager_Malformed(t *testing.T) {
	m := NewJWTManager("k")
	for _, tok := range []string{"", "not.a.jwt", "garbage"} {
		_, err := m.Validate(tok)
		assert.ErrorIs(t, err, ErrInvalidSession, "token %q", tok)
	}
}

func TestJWTManager_RejectsNoneAlgAndMissingClaims(t *testing.T) {
	m := NewJWTManager("k")

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: "u"})
	s, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Validate(s)
	assert.ErrorIs(t, err, ErrInvalidSession)

	noUID := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	s, err = noUID.SignedString(m.Secret)
	require.NoError(t, err)
	_, err = m.Validate(s)
	assert.ErrorIs(t, err, ErrInvalidSession)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u"})
	s, err = noExp.SignedString(m.Secret)
	require.NoError(t, err)
	_, err = m.Validate(s)
	assert.ErrorIs(t, err, ErrInvalidSession)
}
