// Package keccak implements the Keccak-f[1600] permutation over a 25-lane
// state, plus the little-endian rate-window absorb and extract primitives
// that sponge constructions (SHA-3, SHAKE, cSHAKE) are built from.
//
// Lanes are indexed x + 5*y. A byte window of a state is the concatenation
// of lanes 0, 1, ... each serialized little-endian, so byte i of the window
// is byte i%8 of lane i/8.
//
// Padding, rate selection and domain separation belong to the caller. This
// package only ever touches the first len(window) bytes of the state, which
// keeps the capacity lanes untouched by absorb and extract.
//
// A State4x holds four independent states in lane-interleaved layout and
// permutes them together. Its output is bit-identical to running Permute on
// each state separately.
package keccak

import (
	"encoding/binary"

	"github.com/sara-star-quant/quantum-pke/internal/constants"
)

const (
	// Lanes is the number of 64-bit lanes in a state.
	Lanes = constants.KeccakLanes

	// Size is the state size in bytes.
	Size = constants.KeccakStateSize

	// Rounds is the number of rounds in Keccak-f[1600].
	Rounds = constants.KeccakRounds
)

// Common sponge rates in bytes.
const (
	RateSHAKE128 = constants.RateSHAKE128
	RateSHAKE256 = constants.RateSHAKE256
	RateSHA3_224 = constants.RateSHA3_224
	RateSHA3_256 = constants.RateSHA3_256
	RateSHA3_384 = constants.RateSHA3_384
	RateSHA3_512 = constants.RateSHA3_512
)

// State is a Keccak-f[1600] state. The zero value is the all-zero state.
type State [Lanes]uint64

// roundConstants are the iota constants, one per round.
var roundConstants = [Rounds]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808A, 0x8000000080008000,
	0x000000000000808B, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008A, 0x0000000000000088, 0x0000000080008009, 0x000000008000000A,
	0x000000008000808B, 0x800000000000008B, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800A, 0x800000008000000A,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rhoOffsets holds the rho rotation for lane x + 5*y.
var rhoOffsets = [Lanes]int{
	0, 1, 62, 28, 27,
	36, 44, 6, 55, 20,
	3, 10, 43, 25, 39,
	41, 45, 15, 21, 8,
	18, 2, 61, 56, 14,
}

// piLane holds the pi destination of lane x + 5*y, which is
// y + 5*((2x + 3y) mod 5).
var piLane = [Lanes]int{
	0, 10, 20, 5, 15,
	16, 1, 11, 21, 6,
	7, 17, 2, 12, 22,
	23, 8, 18, 3, 13,
	14, 24, 9, 19, 4,
}

// load64 decodes a little-endian lane. b must hold at least 8 bytes.
func load64(b []byte) uint64 {
	return binary.LittleEndian.Uint64(b)
}

// store64 encodes v little-endian into b[:8].
func store64(b []byte, v uint64) {
	binary.LittleEndian.PutUint64(b, v)
}

// checkWindow panics unless n is a lane-aligned length within the state.
// A violation is a programming error in the sponge that calls us.
func checkWindow(n int) {
	if n%constants.KeccakLaneSize != 0 || n > Size {
		panic("keccak: window length must be a multiple of 8 and at most 200 bytes")
	}
}

// Permute applies Keccak-f[1600] to s in place.
func (s *State) Permute() {
	Permute(s)
}

// XORBytes XORs in into the first len(in) bytes of the state, little-endian.
// len(in) must be a multiple of 8 and at most 200. Lanes past the window are
// left unchanged.
func (s *State) XORBytes(in []byte) {
	checkWindow(len(in))
	for i := 0; i < len(in)/8; i++ {
		s[i] ^= load64(in[8*i:])
	}
}

// ExtractBytes copies the first len(out) bytes of the state into out,
// little-endian. len(out) must be a multiple of 8 and at most 200. The state
// is not modified.
func (s *State) ExtractBytes(out []byte) {
	checkWindow(len(out))
	for i := 0; i < len(out)/8; i++ {
		store64(out[8*i:], s[i])
	}
}

// Bytes returns the full 200-byte little-endian encoding of the state.
func (s *State) Bytes() []byte {
	out := make([]byte, Size)
	s.ExtractBytes(out)
	return out
}

// Reset zeroes every lane.
func (s *State) Reset() {
	clear(s[:])
}
