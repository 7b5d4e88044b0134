package metrics

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observerFixture struct {
	obs    *PKEObserver
	col    *Collector
	tracer *SimpleTracer
	logs   *bytes.Buffer
}

func newObserverFixture() observerFixture {
	f := observerFixture{
		col:    NewCollector(nil),
		tracer: NewSimpleTracer(),
		logs:   new(bytes.Buffer),
	}
	f.obs = NewPKEObserver(PKEObserverConfig{
		Collector:   f.col,
		Tracer:      f.tracer,
		Logger:      TestLogger(f.logs),
		KEM:         "ML-KEM-768",
		CipherSuite: "AES-256-GCM",
	})
	return f
}

func TestPKEObserverKeygen(t *testing.T) {
	f := newObserverFixture()

	_, done := f.obs.OnKeygen(context.Background())
	done(nil)
	_, done = f.obs.OnKeygen(context.Background())
	done(errors.New("rng failure"))

	snap := f.col.Snapshot()
	assert.Equal(t, uint64(1), snap.KeyPairsGenerated)
	assert.Equal(t, uint64(1), snap.KeygenErrors)
	assert.Equal(t, uint64(2), snap.KeygenLatency.Count)

	spans := f.tracer.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, SpanKeygen, spans[0].Name)
	assert.Equal(t, "ML-KEM-768", spans[0].Attributes["pke.kem"])
	assert.Error(t, spans[1].Error)
	assert.Contains(t, f.logs.String(), "key generation failed")
}

func TestPKEObserverEncrypt(t *testing.T) {
	f := newObserverFixture()

	_, done := f.obs.OnEncrypt(context.Background(), 42)
	done(nil)

	snap := f.col.Snapshot()
	assert.Equal(t, uint64(1), snap.Encryptions)
	assert.Equal(t, uint64(42), snap.BytesEncrypted)
	assert.Equal(t, uint64(1), snap.EncryptLatency.Count)

	spans := f.tracer.Spans()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanEncrypt, spans[0].Name)
	assert.Equal(t, 42, spans[0].Attributes["pke.input_bytes"])
	assert.Equal(t, "AES-256-GCM", spans[0].Attributes["pke.cipher_suite"])

	out := f.logs.String()
	assert.Contains(t, out, "[pke] encrypted")
	assert.Contains(t, out, "kem=ML-KEM-768")
}

func TestPKEObserverEncryptError(t *testing.T) {
	f := newObserverFixture()

	_, done := f.obs.OnEncrypt(context.Background(), 10)
	done(errors.New("bad public key"))

	snap := f.col.Snapshot()
	assert.Zero(t, snap.Encryptions)
	assert.Zero(t, snap.BytesEncrypted)
	assert.Equal(t, uint64(1), snap.EncryptErrors)
}

func TestPKEObserverDecrypt(t *testing.T) {
	f := newObserverFixture()

	_, done := f.obs.OnDecrypt(context.Background(), 1200)
	done(100, nil)

	snap := f.col.Snapshot()
	assert.Equal(t, uint64(1), snap.Decryptions)
	assert.Equal(t, uint64(100), snap.BytesDecrypted)
	assert.Equal(t, 1200, f.tracer.Spans()[0].Attributes["pke.input_bytes"])
}

func TestPKEObserverDecryptFailureLogsFixedMessage(t *testing.T) {
	f := newObserverFixture()

	_, done := f.obs.OnDecrypt(context.Background(), 1200)
	done(0, errors.New("tag mismatch at byte 17"))

	snap := f.col.Snapshot()
	assert.Zero(t, snap.Decryptions)
	assert.Equal(t, uint64(1), snap.DecryptErrors)

	out := f.logs.String()
	assert.Contains(t, out, "decrypt failed")
	assert.NotContains(t, out, "tag mismatch")
}

func TestPKEObserverMalformed(t *testing.T) {
	f := newObserverFixture()

	f.obs.OnMalformed(3, 1104)

	snap := f.col.Snapshot()
	assert.Equal(t, uint64(1), snap.MalformedCiphertexts)
	assert.Equal(t, uint64(1), snap.DecryptErrors)
	assert.Empty(t, f.tracer.Spans())
	assert.Contains(t, f.logs.String(), "min=1104")
}

func TestPKEObserverDefaults(t *testing.T) {
	obs := NewPKEObserver(PKEObserverConfig{})
	assert.Same(t, Global(), obs.Collector())
	require.NotNil(t, obs.Logger())

	_, done := obs.OnEncrypt(context.Background(), 0)
	assert.NotPanics(t, func() { done(nil) })
}

func TestPKEObserverPropagatesContext(t *testing.T) {
	f := newObserverFixture()

	ctx, endOuter := f.tracer.StartSpan(context.Background(), "request")
	_, done := f.obs.OnDecrypt(ctx, 10)
	done(1, nil)
	endOuter(nil)

	spans := f.tracer.Spans()
	require.Len(t, spans, 2)
	assert.Equal(t, spans[1].SpanID, spans[0].ParentID)
}
