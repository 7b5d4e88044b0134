package chkem_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
	"github.com/sara-star-quant/quantum-pke/pkg/chkem"
	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
)

func generate(t *testing.T) (*chkem.KEM, []byte, []byte) {
	t.Helper()
	k := chkem.Scheme()
	pk, sk, err := k.GenerateKeyPair()
	require.NoError(t, err)
	return k, pk, sk
}

// --- Key Generation Tests ---

func TestSizes(t *testing.T) {
	var k crypto.KEM = chkem.Scheme()
	assert.Equal(t, constants.KEMNameCHKEM, k.Name())
	assert.Equal(t, 1600, k.PublicKeySize())
	assert.Equal(t, 4800, k.SecretKeySize())
	assert.Equal(t, 1600, k.CiphertextSize())
	assert.Equal(t, 32, k.SharedSecretSize())
}

func TestKeyPairGeneration(t *testing.T) {
	k, pk, sk := generate(t)
	assert.Len(t, pk, k.PublicKeySize())
	assert.Len(t, sk, k.SecretKeySize())

	// The secret key embeds the public key.
	assert.Equal(t, pk, sk[len(sk)-len(pk):])
}

// --- Encapsulation Tests ---

// TestEncapsulationDecapsulation verifies both parties derive the same shared secret.
func TestEncapsulationDecapsulation(t *testing.T) {
	k, pk, sk := generate(t)

	ct, ss, err := k.Encapsulate(pk)
	require.NoError(t, err)
	assert.Len(t, ct, k.CiphertextSize())
	assert.Len(t, ss, k.SharedSecretSize())

	got, err := k.Decapsulate(ct, sk)
	require.NoError(t, err)
	assert.Equal(t, ss, got)
}

func TestMultipleEncapsulations(t *testing.T) {
	k, pk, sk := generate(t)

	seen := make(map[string]bool)
	for range 5 {
		ct, ss, err := k.Encapsulate(pk)
		require.NoError(t, err)
		require.False(t, seen[string(ss)], "encapsulation must be randomized")
		seen[string(ss)] = true

		got, err := k.Decapsulate(ct, sk)
		require.NoError(t, err)
		assert.Equal(t, ss, got)
	}
}

// --- Serialization Tests ---

func TestSerialization(t *testing.T) {
	k, pk, _ := generate(t)

	parsed, err := chkem.ParsePublicKey(pk)
	require.NoError(t, err)
	assert.Len(t, parsed.X25519, constants.X25519PublicKeySize)
	assert.Len(t, parsed.MLKEM, constants.MLKEMPublicKeySize)
	assert.Equal(t, pk, parsed.Bytes())

	ct, _, err := k.Encapsulate(pk)
	require.NoError(t, err)
	pct, err := chkem.ParseCiphertext(ct)
	require.NoError(t, err)
	assert.Equal(t, ct, pct.Bytes())

	_, err = chkem.ParsePublicKey(pk[:100])
	assert.ErrorIs(t, err, qerrors.ErrInvalidPublicKey)
	_, err = chkem.ParseCiphertext(ct[:100])
	assert.ErrorIs(t, err, qerrors.ErrInvalidCiphertext)
}

// --- Tampering Tests ---

func TestTamperedMLKEMPart(t *testing.T) {
	k, pk, sk := generate(t)
	ct, ss, err := k.Encapsulate(pk)
	require.NoError(t, err)

	ct[len(ct)-1] ^= 0x01
	got, err := k.Decapsulate(ct, sk)
	require.NoError(t, err, "ML-KEM rejects implicitly")
	assert.NotEqual(t, ss, got)
}

func TestTamperedEphemeral(t *testing.T) {
	k, pk, sk := generate(t)
	ct, ss, err := k.Encapsulate(pk)
	require.NoError(t, err)

	ct[0] ^= 0x01
	got, err := k.Decapsulate(ct, sk)
	if err == nil {
		assert.NotEqual(t, ss, got)
	}

}

// TestLowOrderEphemeralImplicitRejection verifies a low-order ephemeral yields a keyed pseudorandom secret instead of an error.
func TestLowOrderEphemeralImplicitRejection(t *testing.T) {
	k, pk, sk := generate(t)
	ct, ss, err := k.Encapsulate(pk)
	require.NoError(t, err)

	lowOrder := bytes.Clone(ct)
	copy(lowOrder[:32], make([]byte, 32))
	got, err := k.Decapsulate(lowOrder, sk)
	require.NoError(t, err)
	require.Len(t, got, constants.CHKEMSharedSecretSize)
	assert.NotEqual(t, ss, got)

	// Deterministic per (secret key, ciphertext).
	again, err := k.Decapsulate(lowOrder, sk)
	require.NoError(t, err)
	assert.Equal(t, got, again)

	// Bound to the secret key.
	_, _, sk2 := generate(t)
	other, err := k.Decapsulate(lowOrder, sk2)
	require.NoError(t, err)
	assert.NotEqual(t, got, other)

	// Bound to the point.
	one := bytes.Clone(lowOrder)
	one[0] = 0x01
	viaOne, err := k.Decapsulate(one, sk)
	require.NoError(t, err)
	assert.NotEqual(t, got, viaOne)
}

// --- Input Validation Tests ---

func TestInvalidInputs(t *testing.T) {
	k, pk, sk := generate(t)
	ct, _, err := k.Encapsulate(pk)
	require.NoError(t, err)

	_, _, err = k.Encapsulate(pk[:10])
	assert.ErrorIs(t, err, qerrors.ErrInvalidPublicKey)

	lowOrder := bytes.Clone(pk)
	copy(lowOrder[:32], make([]byte, 32))
	_, _, err = k.Encapsulate(lowOrder)
	assert.ErrorIs(t, err, qerrors.ErrInvalidPublicKey)

	_, err = k.Decapsulate(ct[:10], sk)
	assert.ErrorIs(t, err, qerrors.ErrInvalidCiphertext)

	_, err = k.Decapsulate(ct, sk[:10])
	assert.ErrorIs(t, err, qerrors.ErrInvalidPrivateKey)

	// An X25519 scalar that does not match the embedded public key.
	mismatched := bytes.Clone(sk)
	mismatched[0] ^= 0xFF
	_, err = k.Decapsulate(ct, mismatched)
	assert.ErrorIs(t, err, qerrors.ErrInvalidPrivateKey)
}

func TestDifferentKeyPairsDifferentSecrets(t *testing.T) {
	k, pk1, _ := generate(t)
	_, _, sk2 := generate(t)

	ct, ss, err := k.Encapsulate(pk1)
	require.NoError(t, err)

	got, err := k.Decapsulate(ct, sk2)
	require.NoError(t, err)
	assert.NotEqual(t, ss, got)
}
