// Package errors defines custom error types for the quantum-pke library.
// These errors provide detailed information for debugging while maintaining
// security by not leaking sensitive information in error messages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for KEM operations
var (
	// ErrInvalidKeySize indicates that a key has an incorrect size
	ErrInvalidKeySize = errors.New("kem: invalid key size")

	// ErrInvalidCiphertext indicates that a KEM ciphertext is malformed
	ErrInvalidCiphertext = errors.New("kem: invalid ciphertext")

	// ErrDecapsulationFailed indicates that KEM decapsulation failed
	ErrDecapsulationFailed = errors.New("kem: decapsulation failed")

	// ErrKeyGenerationFailed indicates that key generation failed
	ErrKeyGenerationFailed = errors.New("kem: key generation failed")

	// ErrEncapsulationFailed indicates that KEM encapsulation failed
	ErrEncapsulationFailed = errors.New("kem: encapsulation failed")

	// ErrInvalidPublicKey indicates that a public key is invalid
	ErrInvalidPublicKey = errors.New("kem: invalid public key")

	// ErrInvalidPrivateKey indicates that a private key is invalid
	ErrInvalidPrivateKey = errors.New("kem: invalid private key")

	// ErrUnknownKEM indicates a KEM name that is not registered
	ErrUnknownKEM = errors.New("kem: unknown scheme")
)

// Sentinel errors for AEAD / DEM operations
var (
	// ErrAuthenticationFailed indicates AEAD authentication/decryption failed
	ErrAuthenticationFailed = errors.New("aead: authentication failed")

	// ErrInvalidNonce indicates the nonce size is incorrect
	ErrInvalidNonce = errors.New("aead: invalid nonce size")

	// ErrCiphertextTooShort indicates ciphertext is too short to be valid
	ErrCiphertextTooShort = errors.New("aead: ciphertext too short")

	// ErrUnsupportedCipherSuite indicates an unsupported cipher suite
	ErrUnsupportedCipherSuite = errors.New("aead: unsupported cipher suite")
)

// Sentinel errors for the public-key encryption transform
var (
	// ErrMalformedCiphertext indicates a ciphertext shorter than the smallest
	// valid kemCiphertext || demCiphertext. Detected before any secret is used.
	ErrMalformedCiphertext = errors.New("pke: malformed ciphertext")

	// ErrDecryptionFailed is the single failure returned for every
	// ciphertext-dependent decryption failure. It carries no cause.
	ErrDecryptionFailed = errors.New("pke: decryption failed")

	// ErrEncryptionFailed indicates encryption could not produce a ciphertext
	ErrEncryptionFailed = errors.New("pke: encryption failed")

	// ErrSymmetricFailure indicates the DEM rejected its input
	ErrSymmetricFailure = errors.New("pke: symmetric encapsulation failed")
)

// Sentinel errors for self-tests
var (
	// ErrSelfTestFailed indicates a power-on or conditional self-test failed
	ErrSelfTestFailed = errors.New("selftest: failed")
)

// CryptoError wraps a cryptographic error with additional context
type CryptoError struct {
	Op  string // Operation that failed
	Err error  // Underlying error
}

func (e *CryptoError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CryptoError) Unwrap() error {
	return e.Err
}

// NewCryptoError creates a new CryptoError
func NewCryptoError(op string, err error) *CryptoError {
	return &CryptoError{Op: op, Err: err}
}

// Wrap attaches a sentinel kind to a cause so that errors.Is matches both.
// A nil cause returns the kind unchanged.
func Wrap(kind, cause error) error {
	if cause == nil {
		return kind
	}
	if errors.Is(cause, kind) {
		return cause
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
