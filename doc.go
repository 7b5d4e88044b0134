// Package quantumpke provides IND-CCA2 public-key encryption built from a
// post-quantum KEM and a one-time authenticated DEM.
//
// A ciphertext is the KEM ciphertext followed by the DEM ciphertext. There
// is no header: the KEM ciphertext length is fixed by the scheme, so the
// split point is known to both sides.
//
// # Quick Start
//
//	import "github.com/sara-star-quant/quantum-pke/pkg/pke"
//
//	scheme, _ := pke.New(pke.WithKEM(crypto.NewMLKEM768()))
//	pk, sk, _ := scheme.GenerateKeyPair()
//
//	ct, _ := scheme.Encrypt([]byte("Hello!"), pk)
//	msg, err := scheme.Decrypt(ct, sk)
//	if errors.Is(err, pke.ErrDecryptionFailed) {
//		// tampered, wrong key, or otherwise invalid
//	}
//
// Configuration-driven construction picks the KEM and DEM by name:
//
//	scheme, _ := pke.NewFromConfig(pke.Config{KEM: "CH-KEM", Suite: "chacha20"})
//
// # Package Structure
//
//   - pkg/pke: The KEM+DEM transform, KEM registry and configuration
//   - pkg/keccak: Keccak-f[1600] permutation, byte-level absorb/extract and a 4-way batched variant
//   - pkg/crypto: ML-KEM, X25519, SHAKE-256 KDF, AEAD DEM, self-tests
//   - pkg/chkem: Cascaded hybrid KEM (X25519 + ML-KEM-1024)
//   - pkg/metrics: Counters, histograms, Prometheus export, tracing, logging
//   - pkg/version: Build version information
//   - internal/constants: Sizes, domain separators, cipher suites
//   - internal/errors: Sentinel errors and the CryptoError wrapper
//
// # Security Properties
//
//   - Post-quantum security: ML-KEM-512/768/1024 (NIST FIPS 203)
//   - Hybrid option: CH-KEM is secure if either X25519 or ML-KEM is
//   - Fresh encapsulation per message, so encryption is randomized
//   - Every decryption failure past the length check returns the same error
//   - Malformed (too short) ciphertexts are rejected before the secret key is touched
//
// # Testing
//
//	go test ./...                                  # All tests
//	go test -tags otel ./pkg/metrics               # OpenTelemetry adapter
//	go test -fuzz=FuzzDecrypt ./test/fuzz/         # Fuzz tests
//	go test -run TestPOST ./pkg/crypto             # Known Answer Tests
//	go test -bench=. ./test/benchmark              # Benchmarks
//
// # References
//
//   - NIST FIPS 203: Module-Lattice-Based Key-Encapsulation Mechanism Standard
//   - NIST FIPS 202: SHA-3 Standard (Keccak, SHAKE-256)
//   - RFC 7748: Elliptic Curves for Security
//   - Fujisaki-Okamoto / KEM-DEM hybrid encryption (Cramer-Shoup 2003)
package quantumpke
