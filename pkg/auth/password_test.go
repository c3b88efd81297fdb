package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, true)

	for _, pw := range []string{"secret1", "correct horse battery staple", "пароль-123", "x"} {
		digest, err := h.Hash(pw)
		require.NoError(t, err)
		assert.NotEqual(t, pw, digest)
		assert.False(t, IsLegacyDigest(digest))

		ok, legacy := h.Verify(pw, digest)
		assert.True(t, ok, pw)
		assert.False(t, legacy)

		ok, _ = h.Verify(pw+"!", digest)
		assert.False(t, ok, pw)
	}
}

func TestPasswordHasher_SaltsDigests(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, false)
	a, err := h.Hash("secret1")
	require.NoError(t, err)
	b, err := h.Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestPasswordHasher_Legacy(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost, true)

	ok, legacy := h.Verify("admin123", "admin123")
	assert.True(t, ok)
	assert.True(t, legacy)

	ok, legacy = h.Verify("admin124", "admin123")
	assert.False(t, ok)
	assert.True(t, legacy)

	strict := NewPasswordHasher(bcrypt.MinCost, false)
	ok, legacy = strict.Verify("admin123", "admin123")
	assert.False(t, ok)
	assert.True(t, legacy)
}

func TestIsLegacyDigest(t *testing.T) {
	assert.True(t, IsLegacyDigest("short"))
	assert.False(t, IsLegacyDigest("$2short"))
	assert.False(t, IsLegacyDigest("a-plaintext-value-that-is-way-too-long"))
}

func TestNewPasswordHasher_DefaultsOutOfRangeCost(t *testing.T) {
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher(0, false).Cost)
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher(99, false).Cost)
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost, false).Cost)
}
