package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
app:
  tz: "UTC"
  server:
    max_goroutine: 100
modules:
  auth:
    enabled: true
    otp:
      period_seconds: 300
      digits: 6
magiclink:
  ttl_seconds: 20
jwt:
  ttl_minutes: 60
  audiences:
    - "passgate-api"
    - "passgate-web"
instrument:
  trace_sample_ratio: 0.25
`

func TestNewViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
	require.NoError(t, err)

	assert.Equal(t, "UTC", cfg.GetString("app.tz"))
	assert.Equal(t, 100, cfg.GetInt("app.server.max_goroutine"))
	assert.True(t, cfg.GetBool("modules.auth.enabled"))
	assert.Equal(t, uint(6), cfg.GetUint("modules.auth.otp.digits"))
	assert.Equal(t, 300*time.Second, cfg.GetSecond("modules.auth.otp.period_seconds"))
	assert.Equal(t, 20*time.Second, cfg.GetSecond("magiclink.ttl_seconds"))
	assert.Equal(t, 60*time.Minute, cfg.GetMinute("jwt.ttl_minutes"))
	assert.Equal(t, []string{"passgate-api", "passgate-web"}, cfg.GetArray("jwt.audiences"))
	assert.InDelta(t, 0.25, cfg.GetFloat64("instrument.trace_sample_ratio"), 1e-9)
}

func TestNewViperFromBytesRequiresType(t *testing.T) {
	_, err := NewViperFromBytes("  ", []byte(testYAML))
	assert.Error(t, err)
}

func TestMissingKeysReturnZeroValues(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(testYAML))
	require.NoError(t, err)

	assert.Empty(t, cfg.GetString("no.such.key"))
	assert.Zero(t, cfg.GetInt("no.such.key"))
	assert.False(t, cfg.GetBool("no.such.key"))
	assert.Empty(t, cfg.GetArray("no.such.key"))
}
