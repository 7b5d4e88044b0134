// Package metrics provides observability primitives for the quantum-pke
// library.
//
// # Overview
//
// The package offers:
//   - Operation counters and latency histograms
//   - Prometheus text-format export
//   - A tracing interface with an OpenTelemetry adapter
//   - Structured, levelled logging
//
// Nothing here ever records key material, shared secrets or plaintext.
//
// # Metrics Collection
//
// The Collector type aggregates metrics from key generation, encryption and
// decryption:
//
//	collector := metrics.NewCollector(metrics.Labels{"instance": "node-1"})
//
//	collector.RecordKeyPairGenerated()
//	collector.RecordEncryption(len(plaintext))
//	collector.RecordEncryptLatency(d)
//	collector.RecordMalformedCiphertext()
//
//	snap := collector.Snapshot()
//
// Most callers do not use the collector directly. A PKEObserver ties a
// collector, tracer and logger to one scheme configuration and is driven by
// package pke:
//
//	obs := metrics.NewPKEObserver(metrics.PKEObserverConfig{
//		Collector: collector,
//		KEM:       "ML-KEM-768",
//	})
//	ctx, done := obs.OnEncrypt(ctx, len(plaintext))
//	defer done(err)
//
// # Prometheus Export
//
//	exporter := metrics.NewPrometheusExporter(collector, "quantum_pke")
//	http.Handle("/metrics", exporter.Handler())
//
// Processes that already run a client_golang registry can register the
// collector there instead:
//
//	prometheus.MustRegister(metrics.NewPromCollector(collector, "quantum_pke"))
//
// # Tracing
//
//	metrics.SetTracer(metrics.NewSimpleTracer())
//
//	// OpenTelemetry adapter using the global provider.
//	// Build with -tags otel to enable it; otherwise it is a no-op.
//	metrics.SetTracer(metrics.NewOTelTracer("quantum-pke"))
//
//	ctx, end := metrics.StartSpan(ctx, metrics.SpanEncrypt)
//	defer end(nil)
//
// # Structured Logging
//
//	logger := metrics.NewLogger(
//		metrics.WithLevel(metrics.LevelInfo),
//		metrics.WithFormat(metrics.FormatJSON),
//	)
//	logger.Named("cli").Info("key pair written", metrics.Fields{"kem": name})
//
// Loggers write to stderr by default so that stdout stays free for
// ciphertext and plaintext.
package metrics
