package secrets

// Purpose identifies the encryption purpose.
type Purpose string

const (
	// PurposeOTPSeed scopes encryption to OTP seeds.
	PurposeOTPSeed Purpose = "otp_seed"
)

// Scope binds encryption to the owning account.
// It is used as AAD (Additional Authenticated Data) in AES-GCM.
type Scope struct {
	// Destination is the delivery address the secret belongs to.
	Destination string
	// Purpose is the encryption purpose.
	Purpose Purpose
}
