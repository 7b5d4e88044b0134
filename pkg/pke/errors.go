package pke

import qerrors "github.com/sara-star-quant/quantum-pke/internal/errors"

// Errors returned by Scheme. Match them with errors.Is.
var (
	// ErrMalformedCiphertext is returned by Decrypt for ciphertexts shorter
	// than MinCiphertextSize. No key material is touched.
	ErrMalformedCiphertext = qerrors.ErrMalformedCiphertext

	// ErrDecryptionFailed is the one error Decrypt returns for every other
	// ciphertext-dependent failure, whether the KEM or the DEM part was bad.
	ErrDecryptionFailed = qerrors.ErrDecryptionFailed

	ErrEncapsulationFailed = qerrors.ErrEncapsulationFailed
	ErrSymmetricFailure    = qerrors.ErrSymmetricFailure
	ErrInvalidPublicKey    = qerrors.ErrInvalidPublicKey
	ErrInvalidPrivateKey   = qerrors.ErrInvalidPrivateKey
	ErrInvalidKeySize      = qerrors.ErrInvalidKeySize
	ErrUnknownKEM          = qerrors.ErrUnknownKEM
	ErrUnsupportedSuite    = qerrors.ErrUnsupportedCipherSuite
)
