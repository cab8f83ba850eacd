package otp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecret(t *testing.T) {
	o := NewTOTP("passgate", 300, 1, 6)

	first, err := o.GenerateSecret("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := o.GenerateSecret("user@example.com")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestGenerateCodeValidate(t *testing.T) {
	o := NewTOTP("passgate", 300, 1, 6)
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	secret, err := o.GenerateSecret("user@example.com")
	require.NoError(t, err)

	code, err := o.GenerateCode(secret, at)
	require.NoError(t, err)
	require.Len(t, code, 6)

	assert.True(t, o.Validate(code, secret, at))
}

func TestValidateRejectsWrongCode(t *testing.T) {
	o := NewTOTP("passgate", 300, 1, 6)
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	secret, err := o.GenerateSecret("user@example.com")
	require.NoError(t, err)

	code, err := o.GenerateCode(secret, at)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == code {
		wrong = "111111"
	}

	assert.False(t, o.Validate(wrong, secret, at))
}

func TestValidateRejectsStaleCode(t *testing.T) {
	o := NewTOTP("passgate", 300, 1, 6)
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	secret, err := o.GenerateSecret("user@example.com")
	require.NoError(t, err)

	code, err := o.GenerateCode(secret, at)
	require.NoError(t, err)

	// Skew of one step keeps the previous code alive for one period, two
	// full steps later it must be dead.
	assert.True(t, o.Validate(code, secret, at.Add(300*time.Second)))
	assert.False(t, o.Validate(code, secret, at.Add(2*300*time.Second)))
}

func TestPeriodDefaults(t *testing.T) {
	assert.Equal(t, 300*time.Second, NewTOTP("passgate", 0, 1, 6).Period())
	assert.Equal(t, 60*time.Second, NewTOTP("passgate", 60, 1, 6).Period())
}
