// Package constants defines parameter sets and fixed sizes for the quantum-pke
// public-key encryption library.
//
// Security Level: the default parameter set (ML-KEM-1024 + AES-256-GCM) targets
// NIST Category 5 (equivalent to AES-256 against quantum adversaries).
package constants

// Library identification
const (
	// FormatVersion is the version of the kemCiphertext || demCiphertext layout
	FormatVersion uint16 = 0x0001

	// LibraryName is used for domain separation in key derivation
	LibraryName = "QPKE-v1"
)

// Keccak-f[1600] permutation parameters (NIST FIPS 202)
const (
	// KeccakLanes is the number of 64-bit lanes in the permutation state
	KeccakLanes = 25

	// KeccakStateSize is the size of the permutation state in bytes (1600 bits)
	KeccakStateSize = 200

	// KeccakRounds is the number of rounds of Keccak-f[1600]
	KeccakRounds = 24

	// KeccakLaneSize is the size of a single lane in bytes
	KeccakLaneSize = 8
)

// Sponge rates in bytes for the FIPS 202 instances. The capacity is
// KeccakStateSize minus the rate and is never touched by absorb/extract.
const (
	RateSHAKE128 = 168
	RateSHAKE256 = 136
	RateSHA3_224 = 144
	RateSHA3_256 = 136
	RateSHA3_384 = 104
	RateSHA3_512 = 72
)

// ML-KEM Parameters (NIST FIPS 203)
const (
	// MLKEM512CiphertextSize is the size of an ML-KEM-512 ciphertext in bytes
	MLKEM512CiphertextSize = 768

	// MLKEM768CiphertextSize is the size of an ML-KEM-768 ciphertext in bytes
	MLKEM768CiphertextSize = 1088

	// MLKEMPublicKeySize is the size of ML-KEM-1024 encapsulation key in bytes
	MLKEMPublicKeySize = 1568

	// MLKEMPrivateKeySize is the size of ML-KEM-1024 decapsulation key in bytes
	MLKEMPrivateKeySize = 3168

	// MLKEMCiphertextSize is the size of ML-KEM-1024 ciphertext in bytes
	MLKEMCiphertextSize = 1568

	// MLKEMSharedSecretSize is the size of the shared secret from ML-KEM in bytes
	MLKEMSharedSecretSize = 32

	// MLKEMSeedSize is the size of the deterministic key generation seed (d || z)
	MLKEMSeedSize = 64
)

// KEM scheme names understood by the registry
const (
	KEMNameMLKEM512  = "ML-KEM-512"
	KEMNameMLKEM768  = "ML-KEM-768"
	KEMNameMLKEM1024 = "ML-KEM-1024"
	KEMNameCHKEM     = "CH-KEM"

	// DefaultKEMName is the KEM used when none is configured
	DefaultKEMName = KEMNameMLKEM1024
)

// X25519 Parameters (RFC 7748)
const (
	// X25519PublicKeySize is the size of X25519 public key in bytes
	X25519PublicKeySize = 32

	// X25519PrivateKeySize is the size of X25519 private key in bytes
	X25519PrivateKeySize = 32

	// X25519SharedSecretSize is the size of the X25519 shared secret in bytes
	X25519SharedSecretSize = 32
)

// Symmetric Encryption Parameters
const (
	// AESKeySize is the size of AES-256 keys in bytes
	AESKeySize = 32

	// AESNonceSize is the size of AES-GCM nonce in bytes (96 bits)
	AESNonceSize = 12

	// AESTagSize is the size of AES-GCM authentication tag in bytes
	AESTagSize = 16

	// ChaCha20KeySize is the size of ChaCha20-Poly1305 keys in bytes
	ChaCha20KeySize = 32

	// ChaCha20NonceSize is the size of ChaCha20-Poly1305 nonce in bytes
	ChaCha20NonceSize = 12
)

// DEM Parameters
const (
	// DEMKeySize is the size of the one-time DEM key (KAPPA_BYTES)
	DEMKeySize = 32

	// DEMMinTagSize is the smallest authentication tag any supported DEM
	// appends. A ciphertext shorter than C1_LEN + DEMMinTagSize is malformed.
	DEMMinTagSize = 16

	// DomainSeparatorDEM is used to expand the KEM secret into AEAD key || nonce
	DomainSeparatorDEM = "QPKE-v1-DEM"
)

// Key Derivation Parameters (SHAKE-256)
const (
	// KDFOutputSize is the default output size for key derivation in bytes
	KDFOutputSize = 32

	// KDFMaxOutputSize bounds a single derivation (1 MiB)
	KDFMaxOutputSize = 1 << 20

	// TranscriptHashSize is the size of the CH-KEM transcript hash in bytes
	TranscriptHashSize = 32

	// DomainSeparatorCHKEM is used in CH-KEM key derivation
	DomainSeparatorCHKEM = "CH-KEM-v1-SharedSecret"

	// DomainSeparatorCHKEMReject derives the substitute X25519 secret used
	// when the ephemeral point is rejected
	DomainSeparatorCHKEMReject = "CH-KEM-v1-ImplicitReject"
)

// CH-KEM Sizes (combined)
const (
	// CHKEMPublicKeySize is the combined size of X25519 + ML-KEM-1024 public keys
	CHKEMPublicKeySize = X25519PublicKeySize + MLKEMPublicKeySize

	// CHKEMPrivateKeySize is x25519_sk || mlkem_sk || public key
	CHKEMPrivateKeySize = X25519PrivateKeySize + MLKEMPrivateKeySize + CHKEMPublicKeySize

	// CHKEMCiphertextSize is the combined size of X25519 public + ML-KEM ciphertext
	CHKEMCiphertextSize = X25519PublicKeySize + MLKEMCiphertextSize

	// CHKEMSharedSecretSize is the size of the final derived shared secret
	CHKEMSharedSecretSize = 32
)

// CipherSuite identifiers
type CipherSuite uint16

const (
	// CipherSuiteAES256GCM uses AES-256-GCM for symmetric encryption
	CipherSuiteAES256GCM CipherSuite = 0x0001

	// CipherSuiteChaCha20Poly1305 uses ChaCha20-Poly1305 for symmetric encryption
	CipherSuiteChaCha20Poly1305 CipherSuite = 0x0002
)

// String returns a human-readable name for the cipher suite
func (cs CipherSuite) String() string {
	switch cs {
	case CipherSuiteAES256GCM:
		return "AES-256-GCM"
	case CipherSuiteChaCha20Poly1305:
		return "ChaCha20-Poly1305"
	default:
		return "Unknown"
	}
}

// IsSupported returns true if the cipher suite is supported
func (cs CipherSuite) IsSupported() bool {
	return cs == CipherSuiteAES256GCM || cs == CipherSuiteChaCha20Poly1305
}

// IsFIPSApproved returns true if the cipher suite is FIPS 140-3 approved.
// Currently only AES-256-GCM is FIPS approved; ChaCha20-Poly1305 is not.
func (cs CipherSuite) IsFIPSApproved() bool {
	return cs == CipherSuiteAES256GCM
}

// ParseCipherSuite maps a suite name (as printed by String, or the short CLI
// spellings "aes-gcm" and "chacha20") to its identifier.
func ParseCipherSuite(name string) (CipherSuite, bool) {
	switch name {
	case "AES-256-GCM", "aes-gcm", "aes":
		return CipherSuiteAES256GCM, true
	case "ChaCha20-Poly1305", "chacha20", "chacha":
		return CipherSuiteChaCha20Poly1305, true
	default:
		return 0, false
	}
}
