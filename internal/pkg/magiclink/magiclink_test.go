package magiclink

import (
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

func newTestCodec(t *testing.T, ttl time.Duration) (*Codec, *fakeClock) {
	t.Helper()

	clk := &fakeClock{now: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)}
	codec, err := NewCodec([]byte("magiclink-test-secret"), ttl, clk)
	require.NoError(t, err)

	return codec, clk
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec(nil, time.Minute, &fakeClock{})

	assert.ErrorIs(t, err, ErrSecretRequired)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	codec, _ := newTestCodec(t, 0)

	token, err := codec.Issue("user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	dest, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", dest)
}

func TestVerifyIsRepeatable(t *testing.T) {
	// Tokens are stateless; verifying consumes nothing, so a double-click on
	// the link still works within the TTL.
	codec, clk := newTestCodec(t, 0)

	token, err := codec.Issue("user@example.com")
	require.NoError(t, err)

	clk.Advance(5 * time.Second)

	for range 3 {
		dest, err := codec.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", dest)
	}
}

func TestVerifyExpired(t *testing.T) {
	codec, clk := newTestCodec(t, 0) // defaults to 20s

	token, err := codec.Issue("user@example.com")
	require.NoError(t, err)

	clk.Advance(19 * time.Second)
	_, err = codec.Verify(token)
	assert.NoError(t, err)

	clk.Advance(2 * time.Second)
	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestVerifyTampered(t *testing.T) {
	codec, _ := newTestCodec(t, time.Minute)

	token, err := codec.Issue("user@example.com")
	require.NoError(t, err)

	_, err = codec.Verify(token + "x")
	assert.ErrorIs(t, err, ErrTampered)
}

func TestVerifyForeignSignature(t *testing.T) {
	codec, _ := newTestCodec(t, time.Minute)

	other, err := NewCodec([]byte("a-different-secret"), time.Minute, &fakeClock{now: time.Now()})
	require.NoError(t, err)

	token, err := other.Issue("user@example.com")
	require.NoError(t, err)

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, ErrTampered)
}

func TestVerifyGarbage(t *testing.T) {
	codec, _ := newTestCodec(t, time.Minute)

	_, err := codec.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrTampered)
}
