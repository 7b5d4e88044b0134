package crypto

// KEM is a key encapsulation mechanism over byte-encoded keys.
//
// Encapsulate must return a ciphertext of exactly CiphertextSize bytes and a
// shared secret of exactly SharedSecretSize bytes. Implementations must be
// safe for concurrent use.
type KEM interface {
	// Name identifies the parameter set, e.g. "ML-KEM-1024".
	Name() string

	// GenerateKeyPair returns a fresh public/secret key pair.
	GenerateKeyPair() (publicKey, secretKey []byte, err error)

	// Encapsulate produces a ciphertext and the shared secret it carries.
	Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error)

	// Decapsulate recovers the shared secret from a ciphertext.
	Decapsulate(ciphertext, secretKey []byte) (sharedSecret []byte, err error)

	PublicKeySize() int
	SecretKeySize() int
	CiphertextSize() int
	SharedSecretSize() int
}
