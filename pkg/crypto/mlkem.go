// mlkem.go adapts ML-KEM (NIST FIPS 203) to the KEM interface.
//
// ML-KEM's security rests on the Module Learning With Errors problem over
// R_q = Z_q[X]/(X^256 + 1), q = 3329. The three parameter sets differ in
// module rank k: 2 (ML-KEM-512), 3 (ML-KEM-768) and 4 (ML-KEM-1024, NIST
// Category 5).
//
// Decapsulation uses implicit rejection: a well-sized but invalid ciphertext
// yields a pseudorandom shared secret rather than an error, so the only
// errors it returns are for wrongly sized inputs.
package crypto

import (
	"github.com/cloudflare/circl/kem"
	"github.com/cloudflare/circl/kem/mlkem/mlkem1024"
	"github.com/cloudflare/circl/kem/mlkem/mlkem512"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
)

// MLKEM is an ML-KEM parameter set exposed as a KEM.
type MLKEM struct {
	name   string
	scheme kem.Scheme
}

var _ KEM = (*MLKEM)(nil)

// NewMLKEM512 returns ML-KEM-512.
func NewMLKEM512() *MLKEM {
	return &MLKEM{name: constants.KEMNameMLKEM512, scheme: mlkem512.Scheme()}
}

// NewMLKEM768 returns ML-KEM-768.
func NewMLKEM768() *MLKEM {
	return &MLKEM{name: constants.KEMNameMLKEM768, scheme: mlkem768.Scheme()}
}

// NewMLKEM1024 returns ML-KEM-1024.
func NewMLKEM1024() *MLKEM {
	return &MLKEM{name: constants.KEMNameMLKEM1024, scheme: mlkem1024.Scheme()}
}

func (m *MLKEM) Name() string          { return m.name }
func (m *MLKEM) PublicKeySize() int    { return m.scheme.PublicKeySize() }
func (m *MLKEM) SecretKeySize() int    { return m.scheme.PrivateKeySize() }
func (m *MLKEM) CiphertextSize() int   { return m.scheme.CiphertextSize() }
func (m *MLKEM) SharedSecretSize() int { return m.scheme.SharedKeySize() }

// SeedSize is the length of the seed accepted by NewKeyPairFromSeed (d || z).
func (m *MLKEM) SeedSize() int { return m.scheme.SeedSize() }

// GenerateKeyPair draws a seed from the CSPRNG and expands it.
func (m *MLKEM) GenerateKeyPair() (publicKey, secretKey []byte, err error) {
	seed := make([]byte, m.scheme.SeedSize())
	defer Zeroize(seed)

	if err := SecureRandomWithCST(seed); err != nil {
		return nil, nil, qerrors.NewCryptoError(m.name+".GenerateKeyPair",
			qerrors.Wrap(qerrors.ErrKeyGenerationFailed, err))
	}
	return m.NewKeyPairFromSeed(seed)
}

// NewKeyPairFromSeed deterministically derives a key pair from a 64-byte
// seed. The same seed always yields the same key pair.
func (m *MLKEM) NewKeyPairFromSeed(seed []byte) (publicKey, secretKey []byte, err error) {
	op := m.name + ".NewKeyPairFromSeed"
	if len(seed) != m.scheme.SeedSize() {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.ErrInvalidKeySize)
	}

	pk, sk := m.scheme.DeriveKeyPair(seed)
	if publicKey, err = pk.MarshalBinary(); err != nil {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrKeyGenerationFailed, err))
	}
	if secretKey, err = sk.MarshalBinary(); err != nil {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrKeyGenerationFailed, err))
	}
	return publicKey, secretKey, nil
}

// Encapsulate draws fresh encapsulation coins and encapsulates to publicKey.
func (m *MLKEM) Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	op := m.name + ".Encapsulate"
	if len(publicKey) != m.scheme.PublicKeySize() {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.ErrInvalidPublicKey)
	}
	pk, err := m.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrInvalidPublicKey, err))
	}

	seed := make([]byte, m.scheme.EncapsulationSeedSize())
	defer Zeroize(seed)
	if err := SecureRandomWithCST(seed); err != nil {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrEncapsulationFailed, err))
	}

	ciphertext, sharedSecret, err = m.scheme.EncapsulateDeterministically(pk, seed)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrEncapsulationFailed, err))
	}
	return ciphertext, sharedSecret, nil
}

// Decapsulate recovers the shared secret. It fails only when the ciphertext
// or secret key has the wrong size or the secret key does not decode.
func (m *MLKEM) Decapsulate(ciphertext, secretKey []byte) ([]byte, error) {
	op := m.name + ".Decapsulate"
	if len(secretKey) != m.scheme.PrivateKeySize() {
		return nil, qerrors.NewCryptoError(op, qerrors.ErrInvalidPrivateKey)
	}
	if len(ciphertext) != m.scheme.CiphertextSize() {
		return nil, qerrors.NewCryptoError(op, qerrors.ErrInvalidCiphertext)
	}

	sk, err := m.scheme.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrInvalidPrivateKey, err))
	}

	ss, err := m.scheme.Decapsulate(sk, ciphertext)
	if err != nil {
		return nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrDecapsulationFailed, err))
	}
	return ss, nil
}
