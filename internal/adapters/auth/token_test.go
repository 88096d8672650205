package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTProvider_IssueAndVerify(t *testing.T) {
	p := NewJWTProvider("test-secret")

	token, err := p.Issue("user-123", "a@b.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := p.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestJWTProvider_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTProvider("secret-a")
	verifier := NewJWTProvider("secret-b")

	token, err := issuer.Issue("user-123", "a@b.com", time.Hour)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	require.Error(t, err)
}

func TestJWTProvider_VerifyRejectsExpired(t *testing.T) {
	p := NewJWTProvider("test-secret")

	token, err := p.Issue("user-123", "a@b.com", -time.Minute)
	require.NoError(t, err)

	_, err = p.Verify(token)
	require.Error(t, err)
}

func TestJWTProvider_VerifyRejectsGarbage(t *testing.T) {
	p := NewJWTProvider("test-secret")
	_, err := p.Verify("not-a-token")
	require.Error(t, err)
}
