package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorKeygen(t *testing.T) {
	c := NewCollector(nil)

	c.RecordKeyPairGenerated()
	c.RecordKeyPairGenerated()
	c.RecordKeygenError()
	c.RecordKeygenLatency(150 * time.Microsecond)

	snap := c.Snapshot()
	assert.Equal(t, uint64(2), snap.KeyPairsGenerated)
	assert.Equal(t, uint64(1), snap.KeygenErrors)
	assert.Equal(t, uint64(1), snap.KeygenLatency.Count)
	assert.Equal(t, 150.0, snap.KeygenLatency.Sum)
}

func TestCollectorEncryptDecrypt(t *testing.T) {
	c := NewCollector(Labels{"kem": "ML-KEM-768"})

	c.RecordEncryption(100)
	c.RecordEncryption(50)
	c.RecordEncryptError()
	c.RecordDecryption(100)
	c.RecordDecryptError()
	c.RecordEncryptLatency(40 * time.Microsecond)
	c.RecordDecryptLatency(60 * time.Microsecond)

	snap := c.Snapshot()
	assert.Equal(t, uint64(2), snap.Encryptions)
	assert.Equal(t, uint64(150), snap.BytesEncrypted)
	assert.Equal(t, uint64(1), snap.EncryptErrors)
	assert.Equal(t, uint64(1), snap.Decryptions)
	assert.Equal(t, uint64(100), snap.BytesDecrypted)
	assert.Equal(t, uint64(1), snap.DecryptErrors)
	assert.Equal(t, uint64(1), snap.EncryptLatency.Count)
	assert.Equal(t, uint64(1), snap.DecryptLatency.Count)
	assert.Equal(t, "ML-KEM-768", snap.Labels["kem"])
}

func TestCollectorZeroLengthEncryption(t *testing.T) {
	c := NewCollector(nil)
	c.RecordEncryption(0)

	snap := c.Snapshot()
	assert.Equal(t, uint64(1), snap.Encryptions)
	assert.Zero(t, snap.BytesEncrypted)
}

func TestCollectorMalformedCountsAsDecryptError(t *testing.T) {
	c := NewCollector(nil)

	c.RecordMalformedCiphertext()
	c.RecordDecryptError()

	snap := c.Snapshot()
	assert.Equal(t, uint64(1), snap.MalformedCiphertexts)
	assert.Equal(t, uint64(2), snap.DecryptErrors)
	assert.Zero(t, snap.Decryptions)
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector(nil)
	c.RecordKeyPairGenerated()
	c.RecordEncryption(10)
	c.RecordDecryption(10)
	c.RecordMalformedCiphertext()
	c.RecordEncryptLatency(time.Millisecond)

	before := c.Snapshot().Uptime
	time.Sleep(time.Millisecond)
	c.Reset()

	snap := c.Snapshot()
	assert.Zero(t, snap.KeyPairsGenerated)
	assert.Zero(t, snap.Encryptions)
	assert.Zero(t, snap.BytesEncrypted)
	assert.Zero(t, snap.Decryptions)
	assert.Zero(t, snap.MalformedCiphertexts)
	assert.Zero(t, snap.DecryptErrors)
	assert.Zero(t, snap.EncryptLatency.Count)
	assert.Less(t, snap.Uptime, before+time.Millisecond)
}

func TestCollectorConcurrency(t *testing.T) {
	c := NewCollector(nil)

	const workers, iterations = 8, 500
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range iterations {
				c.RecordEncryption(3)
				c.RecordDecryption(3)
				c.RecordDecryptLatency(time.Microsecond)
				_ = c.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := c.Snapshot()
	assert.Equal(t, uint64(workers*iterations), snap.Encryptions)
	assert.Equal(t, uint64(workers*iterations*3), snap.BytesEncrypted)
	assert.Equal(t, uint64(workers*iterations), snap.Decryptions)
	assert.Equal(t, uint64(workers*iterations), snap.DecryptLatency.Count)
}

func TestGlobalCollector(t *testing.T) {
	orig := Global()
	t.Cleanup(func() { SetGlobal(orig) })

	require.NotNil(t, orig)
	assert.Same(t, orig, Global())

	c := NewCollector(nil)
	SetGlobal(c)
	assert.Same(t, c, Global())

	SetGlobal(nil)
	fresh := Global()
	require.NotNil(t, fresh)
	assert.Equal(t, "default", fresh.Snapshot().Labels["instance"])
}

func BenchmarkCollectorRecordEncryption(b *testing.B) {
	c := NewCollector(nil)
	for b.Loop() {
		c.RecordEncryption(1024)
	}
}

func BenchmarkCollectorSnapshot(b *testing.B) {
	c := NewCollector(nil)
	c.RecordEncryption(1024)
	for b.Loop() {
		_ = c.Snapshot()
	}
}
