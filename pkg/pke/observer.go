package pke

import "context"

// Observer receives hooks around every scheme operation. Callbacks run on
// the caller's goroutine and only ever see lengths, never buffer contents.
//
// metrics.PKEObserver is the standard implementation.
type Observer interface {
	OnKeygen(ctx context.Context) (context.Context, func(error))
	OnEncrypt(ctx context.Context, plaintextLen int) (context.Context, func(error))
	OnDecrypt(ctx context.Context, ciphertextLen int) (context.Context, func(plaintextLen int, err error))
	OnMalformed(ciphertextLen, minLen int)
}
