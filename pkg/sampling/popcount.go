package sampling

// popcount4 is the 4-bit population count lookup. Extracted bit groups are at
// most eta = 3 bits wide, so the 4-bit table covers every input.
var popcount4 = [16]int8{0, 1, 1, 2, 1, 2, 2, 3, 1, 2, 2, 3, 2, 3, 3, 4}

// popCount4 returns the number of set bits among the low 4 bits of x.
func popCount4(x uint8) int8 {
	return popcount4[x&0xF]
}
