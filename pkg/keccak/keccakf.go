// Package keccak implements the Keccak-f[1600] permutation and a staged
// block-pipeline core exposing it as an extendable-output hash at the
// SHAKE-128 rate.
package keccak

import "math/bits"

// rc contains the 24 iota round constants, one per round.
// Fixed table; copied verbatim from the Keccak reference.
var rc = [24]uint64{
	0x0000000000000001, 0x0000000000008082,
	0x800000000000808A, 0x8000000080008000,
	0x000000000000808B, 0x0000000080000001,
	0x8000000080008081, 0x8000000000008009,
	0x000000000000008A, 0x0000000000000088,
	0x0000000080008009, 0x000000008000000A,
	0x000000008000808B, 0x800000000000008B,
	0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080,
	0x000000000000800A, 0x800000008000000A,
	0x8000000080008081, 0x8000000000008080,
	0x0000000080000001, 0x8000000080008008,
}

// rotc contains the rho rotation offsets along the pi lane cycle.
var rotc = [24]int{
	1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14,
	27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44,
}

// piln contains the pi destination indices: lane (x,y) moves to
// (y, 2x+3y mod 5), expressed as a single 24-lane cycle starting at lane 1.
var piln = [24]int{
	10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4,
	15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1,
}

// round applies round r (theta, rho/pi, chi, iota) to the state in place.
// Lanes are indexed x + 5*y.
func round(st *[25]uint64, r int) {
	var bc [5]uint64

	// theta: column parities, then each lane XORed with the parity of the
	// column to its left rotated by one bit.
	for i := 0; i < 5; i++ {
		bc[i] = st[i] ^ st[i+5] ^ st[i+10] ^ st[i+15] ^ st[i+20]
	}
	for i := 0; i < 5; i++ {
		t := bc[(i+4)%5] ^ bits.RotateLeft64(bc[(i+1)%5], 1)
		for j := 0; j < 25; j += 5 {
			st[j+i] ^= t
		}
	}

	// rho/pi: walk the lane cycle, rotating each lane into its destination.
	t := st[1]
	for i := 0; i < 24; i++ {
		j := piln[i]
		bc[0] = st[j]
		st[j] = bits.RotateLeft64(t, rotc[i])
		t = bc[0]
	}

	// chi: row-wise nonlinear mix.
	for j := 0; j < 25; j += 5 {
		for i := 0; i < 5; i++ {
			bc[i] = st[j+i]
		}
		for i := 0; i < 5; i++ {
			st[j+i] ^= ^bc[(i+1)%5] & bc[(i+2)%5]
		}
	}

	// iota: round constant into lane (0,0).
	st[0] ^= rc[r]
}

// rounds applies rounds [first, last) to the state in place. The pipeline
// core splits the permutation into rounds(st, 0, 12) and rounds(st, 12, 24).
func rounds(st *[25]uint64, first, last int) {
	for r := first; r < last; r++ {
		round(st, r)
	}
}

// Permute applies the full 24-round Keccak-f[1600] permutation in place.
func Permute(st *[25]uint64) {
	rounds(st, 0, 24)
}
