package keccak

import "math/bits"

// State4x holds four independent Keccak states. Lane i of instance k is
// s[i][k], so the same lane of all four instances is contiguous.
type State4x [Lanes][4]uint64

// Pack4x interleaves four states into a State4x.
func Pack4x(s0, s1, s2, s3 *State) *State4x {
	var out State4x
	for i := range Lanes {
		out[i] = [4]uint64{s0[i], s1[i], s2[i], s3[i]}
	}
	return &out
}

// Unpack splits s into its four instances.
func (s *State4x) Unpack() [4]State {
	var out [4]State
	for i := range Lanes {
		for k := range 4 {
			out[k][i] = s[i][k]
		}
	}
	return out
}

// Permute applies Keccak-f[1600] to all four instances in place.
func (s *State4x) Permute() {
	Permute4x(s)
}

// Permute4x applies Keccak-f[1600] to each of the four instances of s.
// Every instance ends up exactly as Permute would leave it.
func Permute4x(s *State4x) {
	var c, d [5][4]uint64
	var b State4x
	for round := 0; round < Rounds; round++ {
		theta4x(s, &c, &d)
		rhoPi4x(s, &d, &b)
		chi4x(s, &b)
		iota4x(s, round)
	}
}

// theta4x computes the column parities c and the per-column mix d. The mix
// is applied to the lanes by rhoPi4x.
func theta4x(s *State4x, c, d *[5][4]uint64) {
	for x := range 5 {
		for k := range 4 {
			c[x][k] = s[x][k] ^ s[x+5][k] ^ s[x+10][k] ^ s[x+15][k] ^ s[x+20][k]
		}
	}
	for x := range 5 {
		for k := range 4 {
			d[x][k] = c[(x+4)%5][k] ^ bits.RotateLeft64(c[(x+1)%5][k], 1)
		}
	}
}

func rhoPi4x(s *State4x, d *[5][4]uint64, b *State4x) {
	for i := range Lanes {
		dst, r := piLane[i], rhoOffsets[i]
		for k := range 4 {
			b[dst][k] = bits.RotateLeft64(s[i][k]^d[i%5][k], r)
		}
	}
}

func chi4x(s *State4x, b *State4x) {
	for y := 0; y < Lanes; y += 5 {
		for x := range 5 {
			for k := range 4 {
				s[y+x][k] = b[y+x][k] ^ (^b[y+(x+1)%5][k] & b[y+(x+2)%5][k])
			}
		}
	}
}

func iota4x(s *State4x, round int) {
	rc := roundConstants[round]
	for k := range 4 {
		s[0][k] ^= rc
	}
}

// XORBytes absorbs one window into each instance: in0 into instance 0 and so
// on. All four windows must have the same length, a multiple of 8 and at
// most 200.
func (s *State4x) XORBytes(in0, in1, in2, in3 []byte) {
	n := len(in0)
	if len(in1) != n || len(in2) != n || len(in3) != n {
		panic("keccak: 4x windows must have equal length")
	}
	checkWindow(n)
	for i := 0; i < n/8; i++ {
		off := 8 * i
		s[i][0] ^= load64(in0[off:])
		s[i][1] ^= load64(in1[off:])
		s[i][2] ^= load64(in2[off:])
		s[i][3] ^= load64(in3[off:])
	}
}

// ExtractBytes writes the leading window of each instance to the matching
// output. All four outputs must have the same length, a multiple of 8 and at
// most 200.
func (s *State4x) ExtractBytes(out0, out1, out2, out3 []byte) {
	n := len(out0)
	if len(out1) != n || len(out2) != n || len(out3) != n {
		panic("keccak: 4x windows must have equal length")
	}
	checkWindow(n)
	for i := 0; i < n/8; i++ {
		off := 8 * i
		store64(out0[off:], s[i][0])
		store64(out1[off:], s[i][1])
		store64(out2[off:], s[i][2])
		store64(out3[off:], s[i][3])
	}
}

// Reset zeroes all four instances.
func (s *State4x) Reset() {
	clear(s[:])
}
