package crypto_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sara-star-quant/quantum-pke/pkg/crypto"
)

func TestSecureRandom(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	require.NoError(t, crypto.SecureRandom(a))
	require.NoError(t, crypto.SecureRandom(b))
	assert.NotEqual(t, a, b)
	assert.NotEqual(t, make([]byte, 32), a)
}

func TestSecureRandomBytes(t *testing.T) {
	for _, n := range []int{0, 1, 16, 64, 1024} {
		b, err := crypto.SecureRandomBytes(n)
		require.NoError(t, err)
		assert.Len(t, b, n)
	}
}

func TestMustSecureRandom(t *testing.T) {
	b := make([]byte, 16)
	assert.NotPanics(t, func() { crypto.MustSecureRandom(b) })
}

func TestConstantTimeCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b []byte
		want bool
	}{
		{"equal", []byte("secret"), []byte("secret"), true},
		{"different", []byte("secret"), []byte("secreT"), false},
		{"length", []byte("secret"), []byte("secrets"), false},
		{"empty", nil, []byte{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, crypto.ConstantTimeCompare(tt.a, tt.b))
		})
	}
}

func TestZeroize(t *testing.T) {
	a := bytes.Repeat([]byte{0xAA}, 32)
	b := bytes.Repeat([]byte{0xBB}, 7)
	crypto.ZeroizeMultiple(a, b, nil)
	assert.Equal(t, make([]byte, 32), a)
	assert.Equal(t, make([]byte, 7), b)

	c := []byte{1, 2, 3}
	crypto.Zeroize(c)
	assert.Equal(t, []byte{0, 0, 0}, c)
}
