package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	salt, err := h.GenerateSalt()
	require.NoError(t, err)
	require.Len(t, salt, 64) // 32 bytes hex encoded

	hash, err := h.Hash(salt, "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, h.Compare(hash, salt, "correct horse battery"))
	require.Error(t, h.Compare(hash, salt, "wrong password"))
	require.Error(t, h.Compare(hash, "other-salt", "correct horse battery"))
}

func TestBcryptHasher_SaltsAreUnique(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)
	s1, err := h.GenerateSalt()
	require.NoError(t, err)
	s2, err := h.GenerateSalt()
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}
