package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Collector aggregates metrics from key generation, encryption and
// decryption. All methods are safe for concurrent use.
type Collector struct {
	// Operation counters
	keyPairsGenerated atomic.Uint64
	encryptions       atomic.Uint64
	decryptions       atomic.Uint64

	// Volume counters
	bytesEncrypted atomic.Uint64
	bytesDecrypted atomic.Uint64

	// Error counters
	keygenErrors         atomic.Uint64
	encryptErrors        atomic.Uint64
	decryptErrors        atomic.Uint64
	malformedCiphertexts atomic.Uint64

	// Latency histograms (microseconds)
	keygenLatency  *Histogram
	encryptLatency *Histogram
	decryptLatency *Histogram

	mu        sync.RWMutex
	createdAt time.Time

	labels Labels
}

// Labels represents key-value pairs for metric labeling.
type Labels map[string]string

// NewCollector creates a new metrics collector.
func NewCollector(labels Labels) *Collector {
	if labels == nil {
		labels = make(Labels)
	}

	return &Collector{
		keygenLatency:  NewHistogram(LatencyBuckets),
		encryptLatency: NewHistogram(LatencyBuckets),
		decryptLatency: NewHistogram(LatencyBuckets),
		createdAt:      time.Now(),
		labels:         labels,
	}
}

// LatencyBuckets are the default histogram bounds for every operation, in
// microseconds. ML-KEM operations typically land between 20 and 500 µs.
var LatencyBuckets = []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 10000}

// --- Key generation ---

// RecordKeyPairGenerated counts a successful key generation.
func (c *Collector) RecordKeyPairGenerated() {
	c.keyPairsGenerated.Add(1)
}

// RecordKeygenError counts a failed key generation.
func (c *Collector) RecordKeygenError() {
	c.keygenErrors.Add(1)
}

// RecordKeygenLatency records how long a key generation took.
func (c *Collector) RecordKeygenLatency(d time.Duration) {
	c.keygenLatency.Observe(float64(d.Microseconds()))
}

// --- Encryption ---

// RecordEncryption counts a successful encryption of n plaintext bytes.
func (c *Collector) RecordEncryption(n int) {
	c.encryptions.Add(1)
	c.bytesEncrypted.Add(uint64(n))
}

// RecordEncryptError increments the encryption error counter.
func (c *Collector) RecordEncryptError() {
	c.encryptErrors.Add(1)
}

// RecordEncryptLatency records encryption latency.
func (c *Collector) RecordEncryptLatency(d time.Duration) {
	c.encryptLatency.Observe(float64(d.Microseconds()))
}

// --- Decryption ---

// RecordDecryption counts a successful decryption yielding n plaintext bytes.
func (c *Collector) RecordDecryption(n int) {
	c.decryptions.Add(1)
	c.bytesDecrypted.Add(uint64(n))
}

// RecordDecryptError increments the decryption error counter.
func (c *Collector) RecordDecryptError() {
	c.decryptErrors.Add(1)
}

// RecordMalformedCiphertext counts a ciphertext rejected for its length.
// It is counted as a decryption error as well.
func (c *Collector) RecordMalformedCiphertext() {
	c.malformedCiphertexts.Add(1)
	c.decryptErrors.Add(1)
}

// RecordDecryptLatency records decryption latency.
func (c *Collector) RecordDecryptLatency(d time.Duration) {
	c.decryptLatency.Observe(float64(d.Microseconds()))
}

// --- Snapshot ---

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Timestamp time.Time
	Uptime    time.Duration

	KeyPairsGenerated uint64
	Encryptions       uint64
	Decryptions       uint64

	BytesEncrypted uint64
	BytesDecrypted uint64

	KeygenErrors         uint64
	EncryptErrors        uint64
	DecryptErrors        uint64
	MalformedCiphertexts uint64

	KeygenLatency  HistogramSummary
	EncryptLatency HistogramSummary
	DecryptLatency HistogramSummary

	Labels Labels
}

// Snapshot returns a point-in-time snapshot of all metrics.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	createdAt := c.createdAt
	c.mu.RUnlock()

	return Snapshot{
		Timestamp:            time.Now(),
		Uptime:               time.Since(createdAt),
		KeyPairsGenerated:    c.keyPairsGenerated.Load(),
		Encryptions:          c.encryptions.Load(),
		Decryptions:          c.decryptions.Load(),
		BytesEncrypted:       c.bytesEncrypted.Load(),
		BytesDecrypted:       c.bytesDecrypted.Load(),
		KeygenErrors:         c.keygenErrors.Load(),
		EncryptErrors:        c.encryptErrors.Load(),
		DecryptErrors:        c.decryptErrors.Load(),
		MalformedCiphertexts: c.malformedCiphertexts.Load(),
		KeygenLatency:        c.keygenLatency.Summary(),
		EncryptLatency:       c.encryptLatency.Summary(),
		DecryptLatency:       c.decryptLatency.Summary(),
		Labels:               c.labels,
	}
}

// Reset clears all metrics (useful for testing).
func (c *Collector) Reset() {
	for _, v := range []*atomic.Uint64{
		&c.keyPairsGenerated, &c.encryptions, &c.decryptions,
		&c.bytesEncrypted, &c.bytesDecrypted,
		&c.keygenErrors, &c.encryptErrors, &c.decryptErrors, &c.malformedCiphertexts,
	} {
		v.Store(0)
	}
	c.keygenLatency.Reset()
	c.encryptLatency.Reset()
	c.decryptLatency.Reset()

	c.mu.Lock()
	c.createdAt = time.Now()
	c.mu.Unlock()
}

// --- Global Collector ---

var (
	globalCollector   *Collector
	globalCollectorMu sync.Mutex
)

// Global returns the global metrics collector, creating it on first use.
func Global() *Collector {
	globalCollectorMu.Lock()
	defer globalCollectorMu.Unlock()
	if globalCollector == nil {
		globalCollector = NewCollector(Labels{"instance": "default"})
	}
	return globalCollector
}

// SetGlobal replaces the global metrics collector.
func SetGlobal(c *Collector) {
	globalCollectorMu.Lock()
	defer globalCollectorMu.Unlock()
	globalCollector = c
}
