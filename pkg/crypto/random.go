// Package crypto provides the primitives the public-key encryption transform
// is composed from: KEMs, the AEAD-based DEM, the SHAKE-256 key schedule and
// the FIPS 140-3 style self-tests that guard them.
//
// Security Note: all randomness comes from crypto/rand, the operating
// system's CSPRNG.
package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"io"

	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
)

// Reader is the CSPRNG used by every key generation and encapsulation.
var Reader io.Reader = rand.Reader

// SecureRandom fills b with cryptographically secure random bytes.
//
// An error means the system CSPRNG failed and should be treated as fatal by
// the caller.
func SecureRandom(b []byte) error {
	if _, err := io.ReadFull(Reader, b); err != nil {
		return qerrors.NewCryptoError("SecureRandom", err)
	}
	return nil
}

// SecureRandomBytes returns n cryptographically secure random bytes.
func SecureRandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := SecureRandom(b); err != nil {
		return nil, err
	}
	return b, nil
}

// MustSecureRandom is SecureRandom that panics on CSPRNG failure.
func MustSecureRandom(b []byte) {
	if err := SecureRandom(b); err != nil {
		panic("crypto: failed to read from CSPRNG: " + err.Error())
	}
}

// ConstantTimeCompare reports whether a and b are equal without leaking
// the position of the first difference through timing.
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites b with zeros.
//
// Note: the Go runtime may already have copied the data; this only clears
// the backing array the caller holds.
func Zeroize(b []byte) {
	clear(b)
}

// ZeroizeMultiple zeroizes each slice.
func ZeroizeMultiple(slices ...[]byte) {
	for _, s := range slices {
		clear(s)
	}
}

// isAllZero reports whether every byte of b is zero, in constant time.
func isAllZero(b []byte) bool {
	var acc byte
	for _, v := range b {
		acc |= v
	}
	return subtle.ConstantTimeByteEq(acc, 0) == 1
}
