package metrics

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
)

// PromCollector exposes a Collector through the client_golang registry
// interface, for processes that already serve a prometheus.Registry.
// Metric names and help strings match PrometheusExporter.
type PromCollector struct {
	collector *Collector

	counters   []promCounter
	uptime     *prometheus.Desc
	histograms []promHistogram
}

type promCounter struct {
	desc  *prometheus.Desc
	value func(Snapshot) uint64
}

type promHistogram struct {
	desc  *prometheus.Desc
	value func(Snapshot) HistogramSummary
}

var _ prometheus.Collector = (*PromCollector)(nil)

// NewPromCollector wraps c. The collector's labels become constant labels
// on every series.
func NewPromCollector(c *Collector, namespace string) *PromCollector {
	labels := prometheus.Labels(c.Snapshot().Labels)
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, labels)
	}

	return &PromCollector{
		collector: c,
		counters: []promCounter{
			{desc("keypairs_generated_total", "Total key pairs generated"), func(s Snapshot) uint64 { return s.KeyPairsGenerated }},
			{desc("encryptions_total", "Total successful encryptions"), func(s Snapshot) uint64 { return s.Encryptions }},
			{desc("decryptions_total", "Total successful decryptions"), func(s Snapshot) uint64 { return s.Decryptions }},
			{desc("bytes_encrypted_total", "Total plaintext bytes encrypted"), func(s Snapshot) uint64 { return s.BytesEncrypted }},
			{desc("bytes_decrypted_total", "Total plaintext bytes recovered by decryption"), func(s Snapshot) uint64 { return s.BytesDecrypted }},
			{desc("keygen_errors_total", "Total key generation failures"), func(s Snapshot) uint64 { return s.KeygenErrors }},
			{desc("encrypt_errors_total", "Total encryption errors"), func(s Snapshot) uint64 { return s.EncryptErrors }},
			{desc("decrypt_errors_total", "Total decryption errors"), func(s Snapshot) uint64 { return s.DecryptErrors }},
			{desc("malformed_ciphertexts_total", "Total ciphertexts rejected for their length"), func(s Snapshot) uint64 { return s.MalformedCiphertexts }},
		},
		uptime: desc("uptime_seconds", "Time since the collector was created"),
		histograms: []promHistogram{
			{desc("keygen_duration_microseconds", "Key generation duration in microseconds"), func(s Snapshot) HistogramSummary { return s.KeygenLatency }},
			{desc("encrypt_duration_microseconds", "Encryption duration in microseconds"), func(s Snapshot) HistogramSummary { return s.EncryptLatency }},
			{desc("decrypt_duration_microseconds", "Decryption duration in microseconds"), func(s Snapshot) HistogramSummary { return s.DecryptLatency }},
		},
	}
}

// Describe implements prometheus.Collector.
func (p *PromCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range p.counters {
		ch <- c.desc
	}
	ch <- p.uptime
	for _, h := range p.histograms {
		ch <- h.desc
	}
}

// Collect implements prometheus.Collector. All series come from a single
// snapshot.
func (p *PromCollector) Collect(ch chan<- prometheus.Metric) {
	snap := p.collector.Snapshot()

	for _, c := range p.counters {
		ch <- prometheus.MustNewConstMetric(c.desc, prometheus.CounterValue, float64(c.value(snap)))
	}
	ch <- prometheus.MustNewConstMetric(p.uptime, prometheus.GaugeValue, snap.Uptime.Seconds())

	for _, h := range p.histograms {
		s := h.value(snap)
		buckets := make(map[float64]uint64, len(s.Buckets))
		for _, b := range s.Buckets {
			// +Inf is implied by the sample count.
			if !math.IsInf(b.UpperBound, 1) {
				buckets[b.UpperBound] = b.Count
			}
		}
		ch <- prometheus.MustNewConstHistogram(h.desc, s.Count, s.Sum, buckets)
	}
}
