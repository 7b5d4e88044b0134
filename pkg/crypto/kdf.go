// kdf.go implements key derivation with SHAKE-256 (FIPS 202).
//
// Every input is framed with a 4-byte big-endian length so that distinct
// (domain, input) tuples can never produce the same absorbed byte string:
//
//	output = SHAKE-256(len(domain) || domain || len(input) || input, outputLen)
//
// The DEM expands the one-time KEM secret through DeriveKey, and CH-KEM
// combines its two shared secrets through DeriveKeyMultiple.
package crypto

import (
	"encoding/binary"
	"io"

	"golang.org/x/crypto/sha3"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
	qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"
)

// writeFramed writes a 4-byte big-endian length followed by b.
func writeFramed(w io.Writer, b []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(b)))
	_, _ = w.Write(lenBuf[:])
	_, _ = w.Write(b)
}

func checkOutputLen(op string, n int) error {
	if n <= 0 || n > constants.KDFMaxOutputSize {
		return qerrors.NewCryptoError(op, qerrors.ErrInvalidKeySize)
	}
	return nil
}

// DeriveKey derives outputLen bytes from input under a domain separator.
//
// outputLen must be in (0, 1 MiB].
func DeriveKey(domain string, input []byte, outputLen int) ([]byte, error) {
	if err := checkOutputLen("DeriveKey", outputLen); err != nil {
		return nil, err
	}

	h := sha3.NewShake256()
	writeFramed(h, []byte(domain))
	writeFramed(h, input)

	output := make([]byte, outputLen)
	_, _ = h.Read(output) // SHAKE256.Read never fails
	return output, nil
}

// DeriveKeyMultiple derives outputLen bytes from an ordered list of inputs.
// The number of inputs is absorbed too, so ("ab") and ("a", "b") differ.
func DeriveKeyMultiple(domain string, inputs [][]byte, outputLen int) ([]byte, error) {
	if err := checkOutputLen("DeriveKeyMultiple", outputLen); err != nil {
		return nil, err
	}

	h := sha3.NewShake256()
	writeFramed(h, []byte(domain))

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(inputs)))
	_, _ = h.Write(count[:])
	for _, input := range inputs {
		writeFramed(h, input)
	}

	output := make([]byte, outputLen)
	_, _ = h.Read(output)
	return output, nil
}

// TranscriptHash returns SHA3-256 over the length-framed components.
// CH-KEM binds its shared secret to the public values exchanged with it.
func TranscriptHash(components ...[]byte) []byte {
	h := sha3.New256()

	var count [4]byte
	binary.BigEndian.PutUint32(count[:], uint32(len(components)))
	_, _ = h.Write(count[:])
	for _, c := range components {
		writeFramed(h, c)
	}
	return h.Sum(nil)
}

// DeriveCHKEMSecret combines the X25519 and ML-KEM shared secrets with the
// transcript hash into the 32-byte CH-KEM shared secret. The result stays
// secret as long as either component KEM is unbroken.
func DeriveCHKEMSecret(x25519Secret, mlkemSecret, transcriptHash []byte) ([]byte, error) {
	if len(x25519Secret) != constants.X25519SharedSecretSize ||
		len(mlkemSecret) != constants.MLKEMSharedSecretSize ||
		len(transcriptHash) != constants.TranscriptHashSize {
		return nil, qerrors.NewCryptoError("DeriveCHKEMSecret", qerrors.ErrInvalidKeySize)
	}

	return DeriveKeyMultiple(
		constants.DomainSeparatorCHKEM,
		[][]byte{x25519Secret, mlkemSecret, transcriptHash},
		constants.CHKEMSharedSecretSize,
	)
}
