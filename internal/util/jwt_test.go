package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, now time.Time) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testSecret, "HS256", 30*time.Minute)
	require.NoError(t, err)
	return m.WithClock(func() time.Time { return now })
}

func TestIssueAndVerify(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)

	token, err := m.Issue("owner@example.com")
	require.NoError(t, err)

	subject, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", subject)
}

func TestTokensAreUnique(t *testing.T) {
	m := newTestManager(t, time.Now())

	a, err := m.Issue("owner@example.com")
	require.NoError(t, err)
	b, err := m.Issue("owner@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestVerifyExpired(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := newTestManager(t, issued)

	token, err := m.Issue("owner@example.com")
	require.NoError(t, err)

	m.WithClock(func() time.Time { return issued.Add(31 * time.Minute) })
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyNegativeTTLIsExpired(t *testing.T) {
	m := newTestManager(t, time.Now())

	token, err := m.IssueWithTTL("owner@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestVerifyRejectsTampering(t *testing.T) {
	m := newTestManager(t, time.Now())

	token, err := m.Issue("owner@example.com")
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	accepted := 0
	for i := range token {
		for _, c := range []byte(alphabet) {
			if c == token[i] {
				continue
			}
			tampered := []byte(token)
			tampered[i] = c
			if _, err := m.Verify(string(tampered)); err == nil {
				accepted++
				t.Errorf("token with byte %d changed from %q to %q verified", i, token[i], c)
			}
		}
	}
	assert.Zero(t, accepted)
}

func TestVerifyRejectsOtherKey(t *testing.T) {
	m := newTestManager(t, time.Now())
	other, err := NewTokenManager("another-secret-another-secret-xx", "HS256", time.Hour)
	require.NoError(t, err)

	token, err := other.Issue("owner@example.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithm(t *testing.T) {
	m := newTestManager(t, time.Now())
	other, err := NewTokenManager(testSecret, "HS512", time.Hour)
	require.NoError(t, err)

	token, err := other.Issue("owner@example.com")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnsigned(t *testing.T) {
	m := newTestManager(t, time.Now())

	claims := jwt.RegisteredClaims{
		Subject:   "owner@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsMissingExpiry(t *testing.T) {
	m := newTestManager(t, time.Now())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "owner@example.com"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t, time.Now())

	for _, token := range []string{"", "abc", "a.b.c", "Bearer x.y.z"} {
		_, err := m.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, token)
	}
}

func TestNewTokenManagerValidation(t *testing.T) {
	_, err := NewTokenManager("", "HS256", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenManager(testSecret, "RS256", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenManager(testSecret, "none", time.Minute)
	assert.Error(t, err)

	_, err = NewTokenManager(testSecret, "HS256", 0)
	assert.Error(t, err)
}
