package metrics

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusExporterWriteMetrics(t *testing.T) {
	c := NewCollector(Labels{"instance": "test"})
	c.RecordKeyPairGenerated()
	c.RecordEncryption(1000)
	c.RecordMalformedCiphertext()
	c.RecordEncryptLatency(120 * time.Microsecond)

	var buf bytes.Buffer
	NewPrometheusExporter(c, "quantum_pke").WriteMetrics(&buf)
	out := buf.String()

	for _, line := range []string{
		`quantum_pke_keypairs_generated_total{instance="test"} 1`,
		`quantum_pke_encryptions_total{instance="test"} 1`,
		`quantum_pke_bytes_encrypted_total{instance="test"} 1000`,
		`quantum_pke_malformed_ciphertexts_total{instance="test"} 1`,
		`quantum_pke_decrypt_errors_total{instance="test"} 1`,
		`quantum_pke_decryptions_total{instance="test"} 0`,
		"# HELP quantum_pke_encryptions_total Total successful encryptions",
		"# TYPE quantum_pke_encryptions_total counter",
		"# TYPE quantum_pke_uptime_seconds gauge",
		"# TYPE quantum_pke_encrypt_duration_microseconds histogram",
		`quantum_pke_encrypt_duration_microseconds_bucket{instance="test",le="250"} 1`,
		`quantum_pke_encrypt_duration_microseconds_bucket{instance="test",le="+Inf"} 1`,
		`quantum_pke_encrypt_duration_microseconds_sum{instance="test"} 120`,
		`quantum_pke_encrypt_duration_microseconds_count{instance="test"} 1`,
		`quantum_pke_decrypt_duration_microseconds_count{instance="test"} 0`,
	} {
		assert.Contains(t, out, line)
	}
}

func TestPrometheusExporterNoLabels(t *testing.T) {
	c := NewCollector(nil)
	c.RecordDecryption(7)

	var buf bytes.Buffer
	NewPrometheusExporter(c, "pke").WriteMetrics(&buf)

	assert.Contains(t, buf.String(), "pke_decryptions_total 1\n")
	assert.Contains(t, buf.String(), "pke_bytes_decrypted_total 7\n")
	assert.Contains(t, buf.String(), "pke_keygen_duration_microseconds_count 0\n")
}

func TestPrometheusExporterHandler(t *testing.T) {
	c := NewCollector(nil)
	c.RecordEncryption(1)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	NewPrometheusExporter(c, "test").Handler().ServeHTTP(w, req)

	resp := w.Result()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "test_encryptions_total 1")
}

func TestPrometheusLabelOrderAndEscaping(t *testing.T) {
	exp := NewPrometheusExporter(NewCollector(nil), "x")

	got := exp.formatLabels(Labels{"z": "1", "a": `say "hi"\` + "\n"})
	assert.Equal(t, `a="say \"hi\"\\\n",z="1"`, got)
	assert.Empty(t, exp.formatLabels(nil))
}

func TestPrometheusEveryCounterHasHelpAndType(t *testing.T) {
	var buf bytes.Buffer
	NewPrometheusExporter(NewCollector(nil), "ns").WriteMetrics(&buf)

	var help, typ int
	for _, line := range strings.Split(buf.String(), "\n") {
		switch {
		case strings.HasPrefix(line, "# HELP "):
			help++
		case strings.HasPrefix(line, "# TYPE "):
			typ++
		}
	}
	// Nine counters, one gauge, three histograms.
	assert.Equal(t, 13, help)
	assert.Equal(t, 13, typ)
}

func BenchmarkPrometheusWriteMetrics(b *testing.B) {
	c := NewCollector(Labels{"instance": "bench"})
	for i := range 100 {
		c.RecordEncryptLatency(time.Duration(i) * time.Microsecond)
	}
	exp := NewPrometheusExporter(c, "bench")

	var buf bytes.Buffer
	for b.Loop() {
		buf.Reset()
		exp.WriteMetrics(&buf)
	}
}
