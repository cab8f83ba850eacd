package entity

import "strings"

// Channel identifies how a destination is reached out-of-band.
type Channel int16

const (
	// ChannelUnknown means the destination shape was not recognized.
	ChannelUnknown Channel = 0

	// ChannelEmail means the destination is an email address.
	ChannelEmail Channel = 1

	// ChannelPhone means the destination is a phone number in E.164 form.
	ChannelPhone Channel = 2
)

func (c Channel) String() string {
	switch c {
	case ChannelEmail:
		return "email"
	case ChannelPhone:
		return "phone"
	default:
		return "unknown"
	}
}

// ChannelOf classifies a destination. Validation upstream guarantees the
// value is either an email address or an E.164 number.
func ChannelOf(destination string) Channel {
	if strings.Contains(destination, "@") {
		return ChannelEmail
	}
	if strings.HasPrefix(destination, "+") {
		return ChannelPhone
	}
	return ChannelUnknown
}

// PayloadKind labels what a delivery carries.
type PayloadKind string

const (
	// PayloadOTPCode is a one-time code to be typed by the user.
	PayloadOTPCode PayloadKind = "otp_code"
	// PayloadMagicLink is a clickable login URL.
	PayloadMagicLink PayloadKind = "magic_link"
)

// Payload is the out-of-band artifact handed to the delivery channel.
type Payload struct {
	Kind PayloadKind
	// Value is the plaintext code or the full callback URL.
	Value string
}
