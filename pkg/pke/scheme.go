package pke

import (
	"context"
	"fmt"

	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
	"github.com/sara-star-quant/quantum-pke/pkg/metrics"
)

// Scheme is a KEM/DEM public-key encryption scheme. A ciphertext is the KEM
// ciphertext followed by the DEM ciphertext:
//
//	ciphertext = kemCiphertext || DEM.Encrypt(sharedSecret, message)
//
// A Scheme is immutable and safe for concurrent use.
type Scheme struct {
	kem      crypto.KEM
	dem      crypto.DEM
	observer Observer
}

// New creates a Scheme. Without options it uses ML-KEM-1024 and an AEAD DEM
// over crypto.DefaultCipherSuite().
func New(opts ...Option) (*Scheme, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.kem == nil {
		k, err := KEMByName("")
		if err != nil {
			return nil, err
		}
		o.kem = k
	}
	if o.dem == nil {
		d, err := crypto.NewAEADDEM(crypto.DefaultCipherSuite())
		if err != nil {
			return nil, err
		}
		o.dem = d
	}
	if o.kem.SharedSecretSize() != o.dem.KeySize() {
		return nil, qerrors.NewCryptoError("pke.New", qerrors.ErrInvalidKeySize)
	}

	s := &Scheme{kem: o.kem, dem: o.dem, observer: o.observer}
	if s.observer == nil {
		s.observer = metrics.NewPKEObserver(metrics.PKEObserverConfig{
			Collector:   o.collector,
			Tracer:      o.tracer,
			Logger:      o.logger,
			KEM:         s.kem.Name(),
			CipherSuite: demName(s.dem),
		})
	}
	return s, nil
}

func demName(d crypto.DEM) string {
	if n, ok := d.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", d)
}

// KEM returns the scheme's KEM.
func (s *Scheme) KEM() crypto.KEM { return s.kem }

// DEM returns the scheme's DEM.
func (s *Scheme) DEM() crypto.DEM { return s.dem }

// Overhead is the ciphertext expansion: KEM ciphertext plus DEM overhead.
func (s *Scheme) Overhead() int { return s.kem.CiphertextSize() + s.dem.Overhead() }

// CiphertextSize returns the ciphertext length for a message of messageLen
// bytes. It depends on nothing else.
func (s *Scheme) CiphertextSize(messageLen int) int { return messageLen + s.Overhead() }

// MinCiphertextSize is the length of the encryption of an empty message.
// Shorter inputs are rejected by Decrypt as malformed.
func (s *Scheme) MinCiphertextSize() int { return s.Overhead() }

// String names the KEM and DEM.
func (s *Scheme) String() string {
	return fmt.Sprintf("PKE(%s, %s)", s.kem.Name(), demName(s.dem))
}

// GenerateKeyPair returns a new key pair for the scheme's KEM.
func (s *Scheme) GenerateKeyPair() (publicKey, secretKey []byte, err error) {
	return s.GenerateKeyPairContext(context.Background())
}

// GenerateKeyPairContext is GenerateKeyPair with a context for tracing.
// The pairwise consistency self-test runs when enabled.
func (s *Scheme) GenerateKeyPairContext(ctx context.Context) (publicKey, secretKey []byte, err error) {
	_, done := s.observer.OnKeygen(ctx)
	publicKey, secretKey, err = crypto.GenerateKeyPairWithCST(s.kem)
	done(err)
	if err != nil {
		return nil, nil, qerrors.NewCryptoError("PKE.GenerateKeyPair", qerrors.Wrap(qerrors.ErrKeyGenerationFailed, err))
	}
	return publicKey, secretKey, nil
}

// Encrypt encrypts message to publicKey. The result is exactly
// CiphertextSize(len(message)) bytes.
func (s *Scheme) Encrypt(message, publicKey []byte) ([]byte, error) {
	return s.EncryptContext(context.Background(), message, publicKey)
}

// EncryptContext is Encrypt with a context for tracing.
func (s *Scheme) EncryptContext(ctx context.Context, message, publicKey []byte) ([]byte, error) {
	_, done := s.observer.OnEncrypt(ctx, len(message))
	ciphertext, err := s.encrypt(message, publicKey)
	done(err)
	return ciphertext, err
}

func (s *Scheme) encrypt(message, publicKey []byte) ([]byte, error) {
	kemCT, ss, err := s.kem.Encapsulate(publicKey)
	if err != nil {
		return nil, qerrors.NewCryptoError("PKE.Encrypt", qerrors.Wrap(qerrors.ErrEncapsulationFailed, err))
	}
	defer crypto.Zeroize(ss)

	c1 := s.kem.CiphertextSize()
	if len(kemCT) != c1 || len(ss) != s.dem.KeySize() {
		return nil, qerrors.NewCryptoError("PKE.Encrypt", qerrors.ErrEncapsulationFailed)
	}

	size := s.CiphertextSize(len(message))
	out := append(make([]byte, 0, size), kemCT...)
	if ae, ok := s.dem.(crypto.AppendEncrypter); ok {
		out, err = ae.AppendEncrypt(out, ss, message)
	} else {
		var demCT []byte
		if demCT, err = s.dem.Encrypt(ss, message); err == nil {
			out = append(out, demCT...)
		}
	}
	if err != nil {
		return nil, qerrors.NewCryptoError("PKE.Encrypt", qerrors.Wrap(qerrors.ErrSymmetricFailure, err))
	}
	if len(out) != size {
		return nil, qerrors.NewCryptoError("PKE.Encrypt", qerrors.ErrSymmetricFailure)
	}
	return out, nil
}

// Decrypt recovers the message from ciphertext.
//
// Inputs shorter than MinCiphertextSize fail with ErrMalformedCiphertext
// before the secret key is used. A secret key of the wrong shape fails with
// ErrInvalidPrivateKey. Every other failure returns ErrDecryptionFailed,
// identical whether the KEM or the DEM part was rejected.
func (s *Scheme) Decrypt(ciphertext, secretKey []byte) ([]byte, error) {
	return s.DecryptContext(context.Background(), ciphertext, secretKey)
}

// DecryptContext is Decrypt with a context for tracing.
func (s *Scheme) DecryptContext(ctx context.Context, ciphertext, secretKey []byte) ([]byte, error) {
	if minLen := s.MinCiphertextSize(); len(ciphertext) < minLen {
		s.observer.OnMalformed(len(ciphertext), minLen)
		return nil, qerrors.ErrMalformedCiphertext
	}

	_, done := s.observer.OnDecrypt(ctx, len(ciphertext))
	message, err := s.decrypt(ciphertext, secretKey)
	done(len(message), err)
	return message, err
}

func (s *Scheme) decrypt(ciphertext, secretKey []byte) ([]byte, error) {
	if len(secretKey) != s.kem.SecretKeySize() {
		return nil, qerrors.NewCryptoError("PKE.Decrypt", qerrors.ErrInvalidPrivateKey)
	}

	c1 := s.kem.CiphertextSize()
	ss, err := s.kem.Decapsulate(ciphertext[:c1], secretKey)
	if err != nil {
		if qerrors.Is(err, qerrors.ErrInvalidPrivateKey) {
			return nil, qerrors.NewCryptoError("PKE.Decrypt", qerrors.ErrInvalidPrivateKey)
		}
		return nil, qerrors.ErrDecryptionFailed
	}
	defer crypto.Zeroize(ss)

	message, err := s.dem.Decrypt(ss, ciphertext[c1:])
	if err != nil {
		return nil, qerrors.ErrDecryptionFailed
	}
	return message, nil
}
