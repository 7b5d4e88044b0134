package pke_test

import (
	"bytes"
	"context"
	"errors"
	"sync/atomic"

	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
)

// countingKEM is a toy KEM whose shared secret is its public key repeated.
// It exists to observe which collaborator calls the scheme makes.
type countingKEM struct {
	ssSize       int
	encapsErr    error
	decapsErr    error
	encapsulated atomic.Int32
	decapsulated atomic.Int32
}

const (
	fakePKSize = 4
	fakeCTSize = 8
)

func (k *countingKEM) Name() string { return "fake-kem" }

func (k *countingKEM) GenerateKeyPair() ([]byte, []byte, error) {
	return []byte{1, 2, 3, 4}, []byte{1, 2, 3, 4}, nil
}

func (k *countingKEM) Encapsulate(pk []byte) ([]byte, []byte, error) {
	k.encapsulated.Add(1)
	if k.encapsErr != nil {
		return nil, nil, k.encapsErr
	}
	ct := append(bytes.Repeat([]byte{0xc7}, fakeCTSize-fakePKSize), pk...)
	return ct, k.secret(pk), nil
}

func (k *countingKEM) Decapsulate(ct, sk []byte) ([]byte, error) {
	k.decapsulated.Add(1)
	if k.decapsErr != nil {
		return nil, k.decapsErr
	}
	return k.secret(ct[fakeCTSize-fakePKSize:]), nil
}

func (k *countingKEM) secret(pk []byte) []byte {
	return bytes.Repeat(pk, k.SharedSecretSize()/len(pk)+1)[:k.SharedSecretSize()]
}

func (k *countingKEM) PublicKeySize() int  { return fakePKSize }
func (k *countingKEM) SecretKeySize() int  { return fakePKSize }
func (k *countingKEM) CiphertextSize() int { return fakeCTSize }

func (k *countingKEM) SharedSecretSize() int {
	if k.ssSize != 0 {
		return k.ssSize
	}
	return 32
}

// countingDEM wraps a real DEM and counts calls. It deliberately does not
// implement crypto.AppendEncrypter.
type countingDEM struct {
	inner     crypto.DEM
	encErr    error
	encrypted atomic.Int32
	decrypted atomic.Int32
}

func (d *countingDEM) Encrypt(key, m []byte) ([]byte, error) {
	d.encrypted.Add(1)
	if d.encErr != nil {
		return nil, d.encErr
	}
	return d.inner.Encrypt(key, m)
}

func (d *countingDEM) Decrypt(key, c []byte) ([]byte, error) {
	d.decrypted.Add(1)
	return d.inner.Decrypt(key, c)
}

func (d *countingDEM) KeySize() int  { return d.inner.KeySize() }
func (d *countingDEM) Overhead() int { return d.inner.Overhead() }

// recordingObserver records hook invocations.
type recordingObserver struct {
	keygens, encrypts, decrypts, malformed atomic.Int32
	lastErr                                atomic.Pointer[error]
}

func (o *recordingObserver) OnKeygen(ctx context.Context) (context.Context, func(error)) {
	o.keygens.Add(1)
	return ctx, o.record
}

func (o *recordingObserver) OnEncrypt(ctx context.Context, _ int) (context.Context, func(error)) {
	o.encrypts.Add(1)
	return ctx, o.record
}

func (o *recordingObserver) OnDecrypt(ctx context.Context, _ int) (context.Context, func(int, error)) {
	o.decrypts.Add(1)
	return ctx, func(_ int, err error) { o.record(err) }
}

func (o *recordingObserver) OnMalformed(_, _ int) { o.malformed.Add(1) }

func (o *recordingObserver) record(err error) { o.lastErr.Store(&err) }

func (o *recordingObserver) last() error {
	if p := o.lastErr.Load(); p != nil {
		return *p
	}
	return errNoCall
}

var errNoCall = errors.New("no hook completed")
