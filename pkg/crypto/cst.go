// cst.go implements Conditional Self-Tests (CST) in the style of FIPS 140-3.
//
// Unlike the power-on self-tests, these run alongside individual operations:
//
//  1. Pairwise consistency: a freshly generated KEM key pair must
//     encapsulate and decapsulate to the same non-zero secret.
//  2. RNG health: CSPRNG output must be non-zero, non-constant and must
//     never repeat the previous output.
//
// In FIPS mode a failure panics so a faulty key or RNG output is never used.
// Otherwise it is returned as an error wrapping ErrSelfTestFailed.
package crypto

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
)

// CSTConfig configures Conditional Self-Test behavior.
type CSTConfig struct {
	// EnablePairwiseTest runs a pairwise consistency test after key generation.
	EnablePairwiseTest bool

	// EnableRNGHealthCheck runs periodic health checks on the RNG.
	EnableRNGHealthCheck bool

	// RNGHealthCheckInterval is the number of SecureRandomWithCST calls
	// between full health checks.
	RNGHealthCheckInterval uint64
}

// DefaultCSTConfig enables every test in FIPS mode and none otherwise.
func DefaultCSTConfig() CSTConfig {
	return CSTConfig{
		EnablePairwiseTest:     FIPSMode(),
		EnableRNGHealthCheck:   FIPSMode(),
		RNGHealthCheckInterval: 1000,
	}
}

var (
	cstConfig     atomic.Pointer[CSTConfig]
	rngCallCount  atomic.Uint64
	lastRNGOutput []byte
	lastRNGMutex  sync.Mutex
)

// InitCST replaces the Conditional Self-Test configuration. It is safe to
// call concurrently with cryptographic operations.
func InitCST(config CSTConfig) {
	if config.RNGHealthCheckInterval == 0 {
		config.RNGHealthCheckInterval = 1
	}
	cstConfig.Store(&config)
}

// GetCSTConfig returns the active configuration.
func GetCSTConfig() CSTConfig {
	if c := cstConfig.Load(); c != nil {
		return *c
	}
	return DefaultCSTConfig()
}

// CSTEnabled reports whether any Conditional Self-Test is enabled.
func CSTEnabled() bool {
	c := GetCSTConfig()
	return c.EnablePairwiseTest || c.EnableRNGHealthCheck
}

// CSTResult is the outcome of one Conditional Self-Test.
type CSTResult struct {
	Passed bool
	Error  error
}

func cstFail(format string, args ...any) *CSTResult {
	return &CSTResult{Error: fmt.Errorf("%w: "+format, append([]any{qerrors.ErrSelfTestFailed}, args...)...)}
}

// enforce turns a failed result into an error, or a panic in FIPS mode.
func enforce(name string, result *CSTResult) error {
	if result.Passed {
		return nil
	}
	if FIPSMode() {
		panic(fmt.Sprintf("FIPS CST failed: %s: %v", name, result.Error))
	}
	return result.Error
}

// PairwiseConsistencyTest encapsulates to publicKey and checks that
// secretKey decapsulates to the same non-zero shared secret.
func PairwiseConsistencyTest(k KEM, publicKey, secretKey []byte) *CSTResult {
	if k == nil || len(publicKey) == 0 || len(secretKey) == 0 {
		return cstFail("invalid key pair")
	}

	ct, ss1, err := k.Encapsulate(publicKey)
	if err != nil {
		return cstFail("encapsulation failed: %v", err)
	}
	defer Zeroize(ss1)

	ss2, err := k.Decapsulate(ct, secretKey)
	if err != nil {
		return cstFail("decapsulation failed: %v", err)
	}
	defer Zeroize(ss2)

	if !ConstantTimeCompare(ss1, ss2) {
		return cstFail("%s shared secrets do not match", k.Name())
	}
	if isAllZero(ss1) {
		return cstFail("%s shared secret is all zeros", k.Name())
	}
	return &CSTResult{Passed: true}
}

// PairwiseConsistencyTestX25519 runs a Diffie-Hellman exchange in both
// directions against a throwaway key pair.
func PairwiseConsistencyTestX25519(kp *X25519KeyPair) *CSTResult {
	if kp == nil || kp.PrivateKey == nil || kp.PublicKey == nil {
		return cstFail("invalid key pair")
	}

	peer, err := GenerateX25519KeyPair()
	if err != nil {
		return cstFail("failed to generate test key pair: %v", err)
	}

	secret1, err := X25519(kp.PrivateKey, peer.PublicKey)
	if err != nil {
		return cstFail("DH operation 1 failed: %v", err)
	}
	secret2, err := X25519(peer.PrivateKey, kp.PublicKey)
	if err != nil {
		return cstFail("DH operation 2 failed: %v", err)
	}
	defer ZeroizeMultiple(secret1, secret2)

	if !ConstantTimeCompare(secret1, secret2) {
		return cstFail("X25519 shared secrets do not match")
	}
	if isAllZero(secret1) {
		return cstFail("X25519 shared secret is all zeros")
	}
	return &CSTResult{Passed: true}
}

// GenerateKeyPairWithCST generates a key pair with k and, when enabled,
// runs the pairwise consistency test on it before returning it.
func GenerateKeyPairWithCST(k KEM) (publicKey, secretKey []byte, err error) {
	publicKey, secretKey, err = k.GenerateKeyPair()
	if err != nil {
		return nil, nil, err
	}
	if !GetCSTConfig().EnablePairwiseTest {
		return publicKey, secretKey, nil
	}

	if err := enforce(k.Name()+" pairwise consistency test", PairwiseConsistencyTest(k, publicKey, secretKey)); err != nil {
		Zeroize(secretKey)
		return nil, nil, qerrors.NewCryptoError(k.Name()+".GenerateKeyPair", err)
	}
	return publicKey, secretKey, nil
}

// GenerateX25519KeyPairWithCST generates an X25519 key pair and, when
// enabled, runs the pairwise consistency test on it.
func GenerateX25519KeyPairWithCST() (*X25519KeyPair, error) {
	kp, err := GenerateX25519KeyPair()
	if err != nil {
		return nil, err
	}
	if !GetCSTConfig().EnablePairwiseTest {
		return kp, nil
	}
	if err := enforce("X25519 pairwise consistency test", PairwiseConsistencyTestX25519(kp)); err != nil {
		return nil, err
	}
	return kp, nil
}

// RNGHealthCheck draws two 32-byte samples and checks that neither is
// all-zero or constant and that they differ.
func RNGHealthCheck() *CSTResult {
	sample1 := make([]byte, 32)
	sample2 := make([]byte, 32)
	if err := SecureRandom(sample1); err != nil {
		return cstFail("RNG read 1 failed: %v", err)
	}
	if err := SecureRandom(sample2); err != nil {
		return cstFail("RNG read 2 failed: %v", err)
	}

	for i, s := range [][]byte{sample1, sample2} {
		if isAllZero(s) {
			return cstFail("RNG produced all-zero sample %d", i+1)
		}
		if bytes.Count(s, s[:1]) == len(s) {
			return cstFail("RNG sample %d has no variation", i+1)
		}
	}
	if bytes.Equal(sample1, sample2) {
		return cstFail("RNG produced identical consecutive samples")
	}
	return &CSTResult{Passed: true}
}

// ContinuousRNGTest fails when output repeats the previous output of the
// same length.
func ContinuousRNGTest(output []byte) *CSTResult {
	lastRNGMutex.Lock()
	defer lastRNGMutex.Unlock()

	if lastRNGOutput != nil && bytes.Equal(output, lastRNGOutput) {
		return cstFail("RNG produced repeated output")
	}
	lastRNGOutput = append(lastRNGOutput[:0], output...)
	return &CSTResult{Passed: true}
}

func runRNGHealthCheck() error {
	config := GetCSTConfig()
	if !config.EnableRNGHealthCheck {
		return nil
	}
	if rngCallCount.Add(1)%config.RNGHealthCheckInterval != 0 {
		return nil
	}
	return enforce("RNG health check", RNGHealthCheck())
}

// SecureRandomWithCST is SecureRandom followed by the continuous RNG test
// (FIPS mode) and the periodic health check (when enabled).
func SecureRandomWithCST(b []byte) error {
	if err := SecureRandom(b); err != nil {
		return err
	}
	if FIPSMode() && len(b) > 0 {
		if err := enforce("continuous RNG test", ContinuousRNGTest(b)); err != nil {
			return err
		}
	}
	return runRNGHealthCheck()
}
