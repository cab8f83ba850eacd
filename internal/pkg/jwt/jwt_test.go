package jwt

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type staticUUID struct{}

func (staticUUID) Generate() string { return "0f9a1c3e-test-test-test-8c2b6d4e0a1f" }

func newTestJWT(t *testing.T) (*Symmetric, *fakeClock) {
	t.Helper()

	clk := &fakeClock{now: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
	j, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("s", 64)),
		Issuer:    "passgate",
		Audiences: []string{"passgate-api"},
		TTL:       time.Hour,
		Clock:     clk,
		UUID:      staticUUID{},
	})
	require.NoError(t, err)

	return j, clk
}

func TestNewHS512RejectsShortSecret(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("too-short")})

	assert.ErrorIs(t, err, ErrSigningKeyTooShort)
}

func TestGenerateVerify(t *testing.T) {
	j, _ := newTestJWT(t)

	token, err := j.Generate(42, "user@example.com")
	require.NoError(t, err)

	clm, err := j.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), clm.UserID)
	assert.Equal(t, "user@example.com", clm.Destination)
	assert.Equal(t, "42", clm.Subject)
	assert.Equal(t, "passgate", clm.Issuer)
}

func TestVerifyExpired(t *testing.T) {
	j, clk := newTestJWT(t)

	token, err := j.Generate(42, "user@example.com")
	require.NoError(t, err)

	clk.Advance(61 * time.Minute)

	_, err = j.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTampered(t *testing.T) {
	j, _ := newTestJWT(t)

	token, err := j.Generate(42, "user@example.com")
	require.NoError(t, err)

	_, err = j.Verify(token + "x")
	assert.Error(t, err)
}

func TestVerifyForeignSignature(t *testing.T) {
	j, _ := newTestJWT(t)

	other, err := NewHS512(Config{
		Secret:    []byte(strings.Repeat("x", 64)),
		Issuer:    "passgate",
		Audiences: []string{"passgate-api"},
		TTL:       time.Hour,
		Clock:     &fakeClock{now: time.Now()},
		UUID:      staticUUID{},
	})
	require.NoError(t, err)

	token, err := other.Generate(42, "user@example.com")
	require.NoError(t, err)

	_, err = j.Verify(token)
	assert.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetAuth(ctx))

	ctx = SetAuth(ctx, Claims{UserID: 7, Destination: "+15551234567"})

	clm := GetAuth(ctx)
	require.NotNil(t, clm)
	assert.Equal(t, int64(7), clm.UserID)
	assert.Equal(t, "+15551234567", clm.Destination)
}
