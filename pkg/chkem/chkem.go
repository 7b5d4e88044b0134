// Package chkem implements the Cascaded Hybrid Key Encapsulation Mechanism
// (CH-KEM) as a crypto.KEM.
//
// CH-KEM combines X25519 with ML-KEM-1024 and derives its shared secret with
// SHAKE-256. It stays IND-CCA2 secure if either component is secure, under
// the random oracle model for SHAKE-256.
//
// # Construction
//
// Key generation:
//
//	(sk_x, pk_x) <- X25519.KeyGen()
//	(sk_m, pk_m) <- ML-KEM-1024.KeyGen()
//	pk = pk_x || pk_m
//	sk = sk_x || sk_m || pk
//
// Encapsulation:
//
//	(ct_m, K_m) <- ML-KEM-1024.Encaps(pk_m)
//	(e, E)      <- X25519.KeyGen()
//	K_x         <- X25519.DH(e, pk_x)
//	ct          =  E || ct_m
//	transcript  <- SHA3-256(pk_x, pk_m, E, ct_m)
//	K           <- SHAKE-256("CH-KEM-v1-SharedSecret", K_x, K_m, transcript)
//
// Decapsulation recomputes K_x from sk_x and E, K_m from sk_m and ct_m, and
// the same transcript from the public key embedded in sk.
//
// # Sizes
//
//	public key    1600 bytes
//	secret key    4800 bytes
//	ciphertext    1600 bytes
//	shared secret   32 bytes
package chkem

import (
	"bytes"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
)

const (
	xLen = constants.X25519PublicKeySize
	// secret key layout offsets
	skMLKEMOffset = constants.X25519PrivateKeySize
	skPubOffset   = constants.X25519PrivateKeySize + constants.MLKEMPrivateKeySize
)

// KEM is CH-KEM. The zero value is not usable; call Scheme.
type KEM struct {
	mlkem *crypto.MLKEM
}

var _ crypto.KEM = (*KEM)(nil)

// Scheme returns CH-KEM over ML-KEM-1024.
func Scheme() *KEM {
	return &KEM{mlkem: crypto.NewMLKEM1024()}
}

func (k *KEM) Name() string          { return constants.KEMNameCHKEM }
func (k *KEM) PublicKeySize() int    { return constants.CHKEMPublicKeySize }
func (k *KEM) SecretKeySize() int    { return constants.CHKEMPrivateKeySize }
func (k *KEM) CiphertextSize() int   { return constants.CHKEMCiphertextSize }
func (k *KEM) SharedSecretSize() int { return constants.CHKEMSharedSecretSize }

// PublicKey is a decoded CH-KEM public key.
type PublicKey struct {
	X25519 []byte
	MLKEM  []byte
}

// ParsePublicKey splits an encoded public key. It checks sizes only; the
// components are validated when used.
func ParsePublicKey(data []byte) (*PublicKey, error) {
	if len(data) != constants.CHKEMPublicKeySize {
		return nil, qerrors.ErrInvalidPublicKey
	}
	return &PublicKey{X25519: data[:xLen], MLKEM: data[xLen:]}, nil
}

// Bytes returns pk_x || pk_m.
func (pk *PublicKey) Bytes() []byte {
	return append(append(make([]byte, 0, constants.CHKEMPublicKeySize), pk.X25519...), pk.MLKEM...)
}

// Ciphertext is a decoded CH-KEM ciphertext.
type Ciphertext struct {
	X25519Ephemeral []byte
	MLKEMCiphertext []byte
}

// ParseCiphertext splits an encoded ciphertext.
func ParseCiphertext(data []byte) (*Ciphertext, error) {
	if len(data) != constants.CHKEMCiphertextSize {
		return nil, qerrors.ErrInvalidCiphertext
	}
	return &Ciphertext{X25519Ephemeral: data[:xLen], MLKEMCiphertext: data[xLen:]}, nil
}

// Bytes returns E || ct_m.
func (ct *Ciphertext) Bytes() []byte {
	return append(append(make([]byte, 0, constants.CHKEMCiphertextSize), ct.X25519Ephemeral...), ct.MLKEMCiphertext...)
}

// GenerateKeyPair generates both component key pairs.
func (k *KEM) GenerateKeyPair() (publicKey, secretKey []byte, err error) {
	xkp, err := crypto.GenerateX25519KeyPairWithCST()
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("CHKEM.GenerateKeyPair", qerrors.Wrap(qerrors.ErrKeyGenerationFailed, err))
	}
	mpk, msk, err := k.mlkem.GenerateKeyPair()
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("CHKEM.GenerateKeyPair", err)
	}
	defer crypto.Zeroize(msk)

	publicKey = (&PublicKey{X25519: xkp.PublicKeyBytes(), MLKEM: mpk}).Bytes()

	xsk := xkp.PrivateKeyBytes()
	defer crypto.Zeroize(xsk)
	secretKey = make([]byte, 0, constants.CHKEMPrivateKeySize)
	secretKey = append(secretKey, xsk...)
	secretKey = append(secretKey, msk...)
	secretKey = append(secretKey, publicKey...)
	return publicKey, secretKey, nil
}

// Encapsulate encapsulates to an encoded public key.
func (k *KEM) Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	const op = "CHKEM.Encapsulate"

	pk, err := ParsePublicKey(publicKey)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(op, err)
	}
	recipient, err := crypto.ParseX25519PublicKey(pk.X25519)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrInvalidPublicKey, err))
	}

	ephemeral, err := crypto.GenerateX25519KeyPair()
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrEncapsulationFailed, err))
	}
	xSecret, err := crypto.X25519(ephemeral.PrivateKey, recipient)
	if err != nil {
		// Only a low-order recipient point fails here.
		return nil, nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrInvalidPublicKey, err))
	}
	defer crypto.Zeroize(xSecret)

	mct, mSecret, err := k.mlkem.Encapsulate(pk.MLKEM)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(op, err)
	}
	defer crypto.Zeroize(mSecret)

	ct := &Ciphertext{X25519Ephemeral: ephemeral.PublicKeyBytes(), MLKEMCiphertext: mct}
	sharedSecret, err = deriveSecret(pk, ct, xSecret, mSecret)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError(op, err)
	}
	return ct.Bytes(), sharedSecret, nil
}

// Decapsulate recovers the shared secret from an encoded ciphertext.
//
// Invalid ciphertexts never fail here. A small-order ephemeral point is
// replaced by a secret derived from the X25519 secret key and the point,
// and a tampered ML-KEM part yields an unrelated secret, so both rejections
// run the full decapsulation and surface only as a DEM failure.
func (k *KEM) Decapsulate(ciphertext, secretKey []byte) ([]byte, error) {
	const op = "CHKEM.Decapsulate"

	if len(secretKey) != constants.CHKEMPrivateKeySize {
		return nil, qerrors.NewCryptoError(op, qerrors.ErrInvalidPrivateKey)
	}
	ct, err := ParseCiphertext(ciphertext)
	if err != nil {
		return nil, qerrors.NewCryptoError(op, err)
	}

	xkp, err := crypto.NewX25519KeyPairFromBytes(secretKey[:skMLKEMOffset])
	if err != nil {
		return nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrInvalidPrivateKey, err))
	}
	pk, err := ParsePublicKey(secretKey[skPubOffset:])
	if err != nil {
		return nil, qerrors.NewCryptoError(op, qerrors.Wrap(qerrors.ErrInvalidPrivateKey, err))
	}
	if !bytes.Equal(xkp.PublicKeyBytes(), pk.X25519) {
		return nil, qerrors.NewCryptoError(op, qerrors.ErrInvalidPrivateKey)
	}

	xSecret, err := x25519Secret(xkp, secretKey[:skMLKEMOffset], ct.X25519Ephemeral)
	if err != nil {
		return nil, qerrors.NewCryptoError(op, err)
	}
	defer crypto.Zeroize(xSecret)

	mSecret, err := k.mlkem.Decapsulate(ct.MLKEMCiphertext, secretKey[skMLKEMOffset:skPubOffset])
	if err != nil {
		return nil, qerrors.NewCryptoError(op, err)
	}
	defer crypto.Zeroize(mSecret)

	ss, err := deriveSecret(pk, ct, xSecret, mSecret)
	if err != nil {
		return nil, qerrors.NewCryptoError(op, err)
	}
	return ss, nil
}

// x25519Secret computes the X25519 shared secret with the ephemeral point,
// falling back to SHAKE-256(sk_x || E) when the point is rejected.
func x25519Secret(xkp *crypto.X25519KeyPair, xsk, ephemeral []byte) ([]byte, error) {
	reject, err := crypto.DeriveKeyMultiple(constants.DomainSeparatorCHKEMReject,
		[][]byte{xsk, ephemeral}, constants.X25519SharedSecretSize)
	if err != nil {
		return nil, err
	}

	e, err := crypto.ParseX25519PublicKey(ephemeral)
	if err != nil {
		return reject, nil
	}
	secret, err := crypto.X25519(xkp.PrivateKey, e)
	if err != nil {
		return reject, nil
	}
	crypto.Zeroize(reject)
	return secret, nil
}

func deriveSecret(pk *PublicKey, ct *Ciphertext, xSecret, mSecret []byte) ([]byte, error) {
	transcript := crypto.TranscriptHash(pk.X25519, pk.MLKEM, ct.X25519Ephemeral, ct.MLKEMCiphertext)
	return crypto.DeriveCHKEMSecret(xSecret, mSecret, transcript)
}
