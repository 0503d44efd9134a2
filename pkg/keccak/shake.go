package keccak

import "golang.org/x/crypto/sha3"

// dsbyteShake carries the SHAKE domain separation bits plus the first
// padding bit; the pad10*1 end bit goes into the last rate byte.
const dsbyteShake = 0x1f

// PadBlocks splits msg into rate-width blocks with SHAKE padding applied to
// the last one. A message whose length is a multiple of the rate gets one
// extra all-padding block. The engine itself performs only plain XOR-absorb,
// so callers feed these blocks to SubmitBlock, tagging the last one final.
func PadBlocks(msg []byte) []Block {
	blocks := make([]Block, len(msg)/RateBytes+1)
	for i := range blocks {
		if len(msg) >= RateBytes {
			copy(blocks[i][:], msg[:RateBytes])
			msg = msg[RateBytes:]
			continue
		}
		copy(blocks[i][:], msg)
		blocks[i][len(msg)] = dsbyteShake
		blocks[i][RateBytes-1] ^= 0x80
	}
	return blocks
}

// Sum128 absorbs msg through a fresh pipeline core and returns the 128-bit
// digest: the first 16 bytes of SHAKE-128(msg).
func Sum128(msg []byte) [OutputBytes]byte {
	c := NewCore()
	blocks := PadBlocks(msg)
	for i := range blocks {
		final := i == len(blocks)-1
		for !c.SubmitBlock(&blocks[i], final) {
			c.Step()
		}
	}
	for {
		if out, ok := c.PollOutput(); ok {
			c.AcceptOutput()
			return out
		}
		c.Step()
	}
}

// XOF256 returns n bytes of SHAKE-256 output for seed||nonce. This is the
// pseudorandom stream the surrounding scheme feeds to the noise sampler.
func XOF256(seed []byte, nonce uint16, n int) []byte {
	h := sha3.NewShake256()
	h.Write(seed)
	h.Write([]byte{byte(nonce & 0xFF), byte(nonce >> 8)})
	out := make([]byte, n)
	h.Read(out)
	return out
}
