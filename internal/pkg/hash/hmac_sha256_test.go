package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHMACSHA256HashVerify(t *testing.T) {
	h := NewHMACSHA256("test-secret")

	hashed, err := h.Hash("123456")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)

	assert.True(t, h.Verify(string(hashed), "123456"))
	assert.False(t, h.Verify(string(hashed), "654321"))
}

func TestHMACSHA256IsDeterministic(t *testing.T) {
	h := NewHMACSHA256("test-secret")

	first, err := h.Hash("123456")
	require.NoError(t, err)
	second, err := h.Hash("123456")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestHMACSHA256SecretChangesDigest(t *testing.T) {
	a, err := NewHMACSHA256("secret-a").Hash("123456")
	require.NoError(t, err)
	b, err := NewHMACSHA256("secret-b").Hash("123456")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
