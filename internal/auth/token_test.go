package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfume-catalog/internal/domain"
)

func newTestTokens(t *testing.T, secret string) *TokenService {
	t.Helper()
	svc, err := NewTokenService(TokenConfig{Secret: secret, Algorithm: "HS256", TTL: 30 * time.Minute})
	require.NoError(t, err)
	return svc
}

func fixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}

func TestIssueAndVerify_Success(t *testing.T) {
	svc := newTestTokens(t, "super-secret")

	tok, err := svc.Issue("alice")
	require.NoError(t, err)

	subject, err := svc.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestVerify_ExpiryWindow(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestTokens(t, "super-secret")

	tok, err := svc.WithClock(fixedClock(issuedAt)).Issue("alice")
	require.NoError(t, err)

	subject, err := svc.WithClock(fixedClock(issuedAt.Add(29 * time.Minute))).Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	_, err = svc.WithClock(fixedClock(issuedAt.Add(31 * time.Minute))).Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerify_WrongSecret(t *testing.T) {
	tok, err := newTestTokens(t, "right-secret").Issue("bob")
	require.NoError(t, err)

	_, err = newTestTokens(t, "wrong-secret").Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerify_Malformed(t *testing.T) {
	_, err := newTestTokens(t, "k").Verify("not.a.jwt")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerify_MissingSubjectOrExpiry(t *testing.T) {
	svc := newTestTokens(t, "secret")

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noSubject)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "alice",
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = svc.Verify(noExpiry)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerify_RejectsOtherAlgorithm(t *testing.T) {
	svc := newTestTokens(t, "secret")

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.Verify(tok)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestNewTokenService_RejectsBadConfig(t *testing.T) {
	_, err := NewTokenService(TokenConfig{Secret: "", Algorithm: "HS256", TTL: time.Minute})
	assert.Error(t, err)
	_, err = NewTokenService(TokenConfig{Secret: "s", Algorithm: "RS256", TTL: time.Minute})
	assert.Error(t, err)
	_, err = NewTokenService(TokenConfig{Secret: "s", Algorithm: "HS256", TTL: 0})
	assert.Error(t, err)
}
