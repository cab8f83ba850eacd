package entity

// User is a single identity record addressed by a destination.
//
// OTPSecret is generated once at provisioning and never rotated; rotating it
// would invalidate every pending challenge for that user.
type User struct {
	ID          int64
	Destination string
	// OTPSecret is the base32 TOTP seed, already decrypted for use.
	OTPSecret string
}

// UserRecord is the at-rest shape held by the user directory. The seed is
// stored encrypted and bound to the destination.
type UserRecord struct {
	ID          int64
	Destination string
	OTPSecret   []byte
}

// DeliveryEvent is the message published for destinations an SMS gateway
// serves; the gateway consumes it from the bus and sends the text.
type DeliveryEvent struct {
	Destination string `json:"destination"`
	Kind        string `json:"kind"`
	Body        string `json:"body"`
}
