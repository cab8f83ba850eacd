// Package secrets encrypts long-lived credential material at rest.
//
// OTP seeds are stored encrypted in the user directory; the ciphertext is
// bound to the owning destination and purpose via AES-GCM AAD, so a row
// copied between accounts will not decrypt.
package secrets

// Encryptor defines the interface for encrypting/decrypting.
type Encryptor interface {
	// Encrypt returns ciphertext for the given plaintext and scope.
	Encrypt(plaintext []byte, scope Scope) (ciphertext []byte, err error)
	// Decrypt returns plaintext for the given ciphertext and scope.
	Decrypt(ciphertext []byte, scope Scope) (plaintext []byte, err error)
}

// KeyProvider provides raw AES keys.
// For AES-256-GCM, keys must be 32 bytes.
type KeyProvider interface {
	// Key returns the raw AES key to use for this scope.
	// Implementations may return per-tenant keys, per-environment keys, etc.
	Key(scope Scope) ([]byte, error)
}
