package crypto

import (
	"golang.org/x/sys/cpu"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
)

// DEM is a one-time data encapsulation mechanism: a symmetric cipher whose
// key is used for exactly one message.
//
// Decrypt must report every failure without distinguishing tag mismatch from
// any other cause. Implementations must be safe for concurrent use.
type DEM interface {
	// Encrypt returns the encapsulation of message under key.
	Encrypt(key, message []byte) ([]byte, error)

	// Decrypt inverts Encrypt.
	Decrypt(key, ciphertext []byte) ([]byte, error)

	// KeySize is the required key length.
	KeySize() int

	// Overhead is len(Encrypt(k, m)) - len(m).
	Overhead() int
}

// AppendEncrypter is implemented by DEMs that can write their output into a
// caller-provided buffer.
type AppendEncrypter interface {
	AppendEncrypt(dst, key, message []byte) ([]byte, error)
}

// AEADDEM builds a DEM from an AEAD suite. The 32-byte DEM key is expanded
// with SHAKE-256 into an AEAD key and a nonce:
//
//	aeadKey || nonce = DeriveKey("QPKE-v1-DEM", key, 32 + 12)
//
// A fixed derived nonce is sound only because each DEM key encrypts a
// single message.
type AEADDEM struct {
	suite constants.CipherSuite
}

var (
	_ DEM             = (*AEADDEM)(nil)
	_ AppendEncrypter = (*AEADDEM)(nil)
)

// NewAEADDEM returns a DEM for suite. In FIPS mode only approved suites are
// accepted.
func NewAEADDEM(suite constants.CipherSuite) (*AEADDEM, error) {
	if !suite.IsSupported() {
		return nil, qerrors.ErrUnsupportedCipherSuite
	}
	if FIPSMode() && !suite.IsFIPSApproved() {
		return nil, qerrors.NewCryptoError("NewAEADDEM", qerrors.ErrUnsupportedCipherSuite)
	}
	return &AEADDEM{suite: suite}, nil
}

// DefaultCipherSuite is AES-256-GCM on every host and in every build.
// Ciphertexts carry no suite identifier, so the default must not vary.
func DefaultCipherSuite() constants.CipherSuite {
	return constants.CipherSuiteAES256GCM
}

// HasAESGCMHardware reports whether the CPU accelerates AES-GCM. It only
// informs diagnostics; suite selection never depends on it.
func HasAESGCMHardware() bool {
	switch {
	case cpu.X86.HasAES && cpu.X86.HasPCLMULQDQ:
		return true
	case cpu.ARM64.HasAES && cpu.ARM64.HasPMULL:
		return true
	case cpu.S390X.HasAESGCM:
		return true
	}
	return false
}

// Name returns the suite name.
func (d *AEADDEM) Name() string { return d.suite.String() }

// Suite returns the AEAD suite.
func (d *AEADDEM) Suite() constants.CipherSuite { return d.suite }

// KeySize is 32 for every suite.
func (d *AEADDEM) KeySize() int { return constants.DEMKeySize }

// Overhead is the 16-byte tag.
func (d *AEADDEM) Overhead() int { return constants.AESTagSize }

// keySchedule returns the AEAD and nonce for key. The caller must zeroize
// the returned material.
func (d *AEADDEM) keySchedule(op string, key []byte) (*AEAD, []byte, error) {
	if len(key) != constants.DEMKeySize {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.ErrInvalidKeySize)
	}

	material, err := DeriveKey(constants.DomainSeparatorDEM, key, constants.AESKeySize+constants.AESNonceSize)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(op, err)
	}

	aead, err := NewAEAD(d.suite, material[:constants.AESKeySize])
	if err != nil {
		Zeroize(material)
		return nil, nil, qerrors.NewCryptoError(op, err)
	}
	return aead, material, nil
}

// Encrypt returns ciphertext || tag.
func (d *AEADDEM) Encrypt(key, message []byte) ([]byte, error) {
	return d.AppendEncrypt(make([]byte, 0, len(message)+d.Overhead()), key, message)
}

// AppendEncrypt appends ciphertext || tag to dst.
func (d *AEADDEM) AppendEncrypt(dst, key, message []byte) ([]byte, error) {
	aead, material, err := d.keySchedule("AEADDEM.Encrypt", key)
	if err != nil {
		return nil, err
	}
	defer Zeroize(material)

	return aead.AppendSeal(dst, material[constants.AESKeySize:], message, nil)
}

// Decrypt authenticates and decrypts ciphertext || tag.
func (d *AEADDEM) Decrypt(key, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < d.Overhead() {
		return nil, qerrors.ErrCiphertextTooShort
	}

	aead, material, err := d.keySchedule("AEADDEM.Decrypt", key)
	if err != nil {
		return nil, err
	}
	defer Zeroize(material)

	return aead.OpenWithNonce(material[constants.AESKeySize:], ciphertext, nil)
}
