// Package pke implements CCA-secure public-key encryption of arbitrary
// length messages from a KEM and a one-time DEM.
//
// Encryption encapsulates a fresh shared secret to the recipient's public
// key and uses it as the DEM key for the message:
//
//	ciphertext = kemCiphertext || demCiphertext
//
// The ciphertext length is CiphertextSize(len(message)) and depends on
// nothing but the message length.
//
// Decryption rejects inputs shorter than MinCiphertextSize with
// ErrMalformedCiphertext before any secret is used. All other
// ciphertext-dependent failures, in either the KEM or the DEM, are reported
// as the same ErrDecryptionFailed value so that callers cannot learn which
// part was rejected.
//
// # Usage
//
//	scheme, err := pke.New() // ML-KEM-1024, CPU-appropriate AEAD
//	pk, sk, err := scheme.GenerateKeyPair()
//	ct, err := scheme.Encrypt([]byte("hello"), pk)
//	msg, err := scheme.Decrypt(ct, sk)
//
// Other KEMs are selected by name:
//
//	scheme, err := pke.NewFromConfig(pke.Config{KEM: "CH-KEM", Suite: "ChaCha20-Poly1305"})
package pke
