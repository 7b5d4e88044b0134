// post.go implements Power-On Self-Tests (POST) in the style of FIPS 140-3.
//
// POST is production code. It runs once when the package is loaded and
// checks every primitive the transform depends on against known answers:
//   - Keccak-f[1600] on the all-zero state
//   - SHAKE-256 built from pkg/keccak against golang.org/x/crypto/sha3
//   - the SHAKE-256 key derivation and the DEM key schedule
//   - AES-256-GCM encryption and decryption
//   - ML-KEM-1024 deterministic key generation and encapsulation round trip
//
// In FIPS mode a failure panics. Otherwise the result is recorded and can be
// inspected with RunPOST.
package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
	"github.com/sara-star-quant/quantum-pke/pkg/keccak"
)

// POSTDomain is the domain separator used by the KDF known-answer test.
const POSTDomain = "POST-KAT-TEST"

var (
	// First and last lanes of Keccak-f[1600] applied to the zero state.
	postKATKeccakLane0  uint64 = 0xF1258F7940E1DDE7
	postKATKeccakLane24 uint64 = 0xEAF1FF7B5CECA249

	// SHAKE-256("keccak self-test"), 64 bytes.
	postKATShakeInput       = []byte("keccak self-test")
	postKATShakeExpected, _ = hex.DecodeString(
		"027eef5b6de3ee768f7ed8de8496f132e078d1dd42cd5df27e1583e76424c6cc" +
			"9832247e0308ea9c35bd8ec59bc6f5e180ef095b3ae106968f3191b795292d39")

	// DeriveKey(POSTDomain, 0x0123..ef x4, 32)
	postKATKDFInput, _    = hex.DecodeString("0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef")
	postKATKDFExpected, _ = hex.DecodeString("f6cd6267523cd5717f431170c2501816d6b1439b1fe8f084cd028e892cff9b6a")

	// DEM key schedule for key 0x00..0x1f: aeadKey(32) || nonce(12)
	postKATDEMKey, _      = hex.DecodeString("000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f")
	postKATDEMSchedule, _ = hex.DecodeString(
		"36295ea8f7878cb94db4a4c1b41b3765becc390ca39825b9a922bbd05a1ae1d5" +
			"0192a1dde0e3aef8c4ac0f9a")

	// AES-256-GCM, zero nonce, plaintext "POST-KAT-TEST"
	postKATAESKey         = postKATKDFInput
	postKATAESNonce       = make([]byte, constants.AESNonceSize)
	postKATAESPlaintext   = []byte(POSTDomain)
	postKATAESExpected, _ = hex.DecodeString("5a48b3005aeb1b0a8cd6767b8cded311eb6185c16343d286e3541e9d98")

	// ML-KEM-1024 deterministic key generation seed (d || z)
	postKATMLKEMSeed, _ = hex.DecodeString(
		"0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef" +
			"fedcba9876543210fedcba9876543210fedcba9876543210fedcba9876543210")
)

// POSTResult records the outcome of the Power-On Self-Tests.
type POSTResult struct {
	Passed       bool
	KeccakPassed bool
	SHAKEPassed  bool
	KDFPassed    bool
	DEMPassed    bool
	AESPassed    bool
	MLKEMPassed  bool
	Errors       []string
}

var (
	postResult     *POSTResult
	postResultOnce sync.Once
)

// RunPOST runs the Power-On Self-Tests once and returns the cached result.
func RunPOST() *POSTResult {
	postResultOnce.Do(func() {
		r := &POSTResult{Passed: true}
		check := func(name string, passed *bool, fn func() error) {
			if err := fn(); err != nil {
				r.Passed = false
				r.Errors = append(r.Errors, fmt.Sprintf("%s KAT failed: %v", name, err))
				return
			}
			*passed = true
		}

		check("Keccak-f[1600]", &r.KeccakPassed, runKeccakKAT)
		check("SHAKE-256", &r.SHAKEPassed, runSHAKEKAT)
		check("KDF", &r.KDFPassed, runKDFKAT)
		check("DEM", &r.DEMPassed, runDEMKAT)
		check("AES-GCM", &r.AESPassed, runAESGCMKAT)
		check("ML-KEM", &r.MLKEMPassed, runMLKEMKAT)

		postResult = r
		if FIPSMode() && !r.Passed {
			panic(fmt.Sprintf("FIPS POST failed: %v", r.Errors))
		}
	})
	return postResult
}

// POSTPassed reports whether POST ran and every test passed.
func POSTPassed() bool {
	return RunPOST().Passed
}

func runKeccakKAT() error {
	var s keccak.State
	keccak.Permute(&s)
	if s[0] != postKATKeccakLane0 || s[24] != postKATKeccakLane24 {
		return fmt.Errorf("zero-state permutation mismatch: lane0 %016x lane24 %016x", s[0], s[24])
	}

	four := keccak.Pack4x(&keccak.State{}, &keccak.State{}, &keccak.State{}, &keccak.State{})
	keccak.Permute4x(four)
	for k, got := range four.Unpack() {
		if got != s {
			return fmt.Errorf("4-way instance %d differs from scalar permutation", k)
		}
	}
	return nil
}

// shake256 is SHAKE-256 assembled from the pkg/keccak primitives.
func shake256(msg []byte, outLen int) []byte {
	var s keccak.State
	block := make([]byte, keccak.RateSHAKE256)
	for len(msg) >= len(block) {
		s.XORBytes(msg[:len(block)])
		s.Permute()
		msg = msg[len(block):]
	}
	clear(block)
	copy(block, msg)
	block[len(msg)] ^= 0x1F
	block[len(block)-1] ^= 0x80
	s.XORBytes(block)
	s.Permute()

	out := make([]byte, 0, outLen)
	for {
		s.ExtractBytes(block)
		out = append(out, block[:min(len(block), outLen-len(out))]...)
		if len(out) == outLen {
			return out
		}
		s.Permute()
	}
}

func runSHAKEKAT() error {
	got := shake256(postKATShakeInput, len(postKATShakeExpected))
	if !bytes.Equal(got, postKATShakeExpected) {
		return fmt.Errorf("keccak SHAKE-256 mismatch: got %x", got)
	}

	ref := make([]byte, len(postKATShakeExpected))
	sha3.ShakeSum256(ref, postKATShakeInput)
	if !bytes.Equal(ref, postKATShakeExpected) {
		return fmt.Errorf("x/crypto SHAKE-256 mismatch: got %x", ref)
	}
	return nil
}

func runKDFKAT() error {
	output, err := DeriveKey(POSTDomain, postKATKDFInput, 32)
	if err != nil {
		return fmt.Errorf("DeriveKey failed: %w", err)
	}
	if !bytes.Equal(output, postKATKDFExpected) {
		return fmt.Errorf("KDF output mismatch: got %x, want %x", output, postKATKDFExpected)
	}
	return nil
}

func runDEMKAT() error {
	schedule, err := DeriveKey(constants.DomainSeparatorDEM, postKATDEMKey, constants.AESKeySize+constants.AESNonceSize)
	if err != nil {
		return fmt.Errorf("DeriveKey failed: %w", err)
	}
	if !bytes.Equal(schedule, postKATDEMSchedule) {
		return fmt.Errorf("DEM key schedule mismatch: got %x", schedule)
	}

	dem := &AEADDEM{suite: constants.CipherSuiteAES256GCM}
	ct, err := dem.Encrypt(postKATDEMKey, postKATAESPlaintext)
	if err != nil {
		return fmt.Errorf("DEM encrypt failed: %w", err)
	}
	pt, err := dem.Decrypt(postKATDEMKey, ct)
	if err != nil {
		return fmt.Errorf("DEM decrypt failed: %w", err)
	}
	if !bytes.Equal(pt, postKATAESPlaintext) {
		return fmt.Errorf("DEM round trip mismatch")
	}
	return nil
}

func runAESGCMKAT() error {
	block, err := aes.NewCipher(postKATAESKey)
	if err != nil {
		return fmt.Errorf("NewCipher failed: %w", err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("NewGCM failed: %w", err)
	}

	ciphertext := aesgcm.Seal(nil, postKATAESNonce, postKATAESPlaintext, nil) //nolint:gosec // G407: fixed nonce is the point of a KAT
	if !bytes.Equal(ciphertext, postKATAESExpected) {
		return fmt.Errorf("AES-GCM encrypt mismatch: got %x, want %x", ciphertext, postKATAESExpected)
	}

	plaintext, err := aesgcm.Open(nil, postKATAESNonce, ciphertext, nil) //nolint:gosec // G407: fixed nonce is the point of a KAT
	if err != nil {
		return fmt.Errorf("AES-GCM decrypt failed: %w", err)
	}
	if !bytes.Equal(plaintext, postKATAESPlaintext) {
		return fmt.Errorf("AES-GCM decrypt mismatch: got %x", plaintext)
	}
	return nil
}

// runMLKEMKAT checks deterministic key generation is stable and that an
// encapsulation round-trips. Encapsulation coins are random, so this is a
// consistency test rather than a fixed answer.
func runMLKEMKAT() error {
	m := NewMLKEM1024()
	pk, sk, err := m.NewKeyPairFromSeed(postKATMLKEMSeed)
	if err != nil {
		return fmt.Errorf("NewKeyPairFromSeed failed: %w", err)
	}
	pk2, _, err := m.NewKeyPairFromSeed(postKATMLKEMSeed)
	if err != nil || !bytes.Equal(pk, pk2) {
		return fmt.Errorf("deterministic key generation is not stable")
	}
	if len(pk) != constants.MLKEMPublicKeySize || len(sk) != constants.MLKEMPrivateKeySize {
		return fmt.Errorf("key size mismatch: pk %d sk %d", len(pk), len(sk))
	}

	ct, ss1, err := m.Encapsulate(pk)
	if err != nil {
		return fmt.Errorf("Encapsulate failed: %w", err)
	}
	if len(ct) != constants.MLKEMCiphertextSize || len(ss1) != constants.MLKEMSharedSecretSize {
		return fmt.Errorf("output size mismatch: ct %d ss %d", len(ct), len(ss1))
	}

	ss2, err := m.Decapsulate(ct, sk)
	if err != nil {
		return fmt.Errorf("Decapsulate failed: %w", err)
	}
	if !bytes.Equal(ss1, ss2) {
		return fmt.Errorf("shared secret mismatch after decapsulation")
	}
	return nil
}

func init() {
	RunPOST()
}
