package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannelOf(t *testing.T) {
	assert.Equal(t, ChannelEmail, ChannelOf("user@example.com"))
	assert.Equal(t, ChannelPhone, ChannelOf("+15551234567"))
	assert.Equal(t, ChannelUnknown, ChannelOf("garbage"))
}

func TestChannelString(t *testing.T) {
	assert.Equal(t, "email", ChannelEmail.String())
	assert.Equal(t, "phone", ChannelPhone.String())
	assert.Equal(t, "unknown", ChannelUnknown.String())
}
