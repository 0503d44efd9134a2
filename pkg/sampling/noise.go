package sampling

import "mlkem-cores/pkg/keccak"

// SampleNoise draws n coefficients from CBD(eta) out of the SHAKE-256 stream
// for seed||nonce. This is the CBD_eta(PRF(seed, nonce)) composition the
// surrounding scheme uses for secret and error polynomials: exactly the words
// the batch needs are derived up front and fed through a sampler engine.
// Panics if eta is not 2 or 3; n < 1 yields nil.
func SampleNoise(seed []byte, nonce uint16, eta, n int) []int8 {
	if eta < EtaMin || eta > EtaMax {
		panic("sampling: unsupported eta")
	}
	if n <= 0 {
		return nil
	}

	words := (n*2*eta + WordBits - 1) / WordBits
	stream := keccak.XOF256(seed, nonce, words*WordBytes)

	s := NewCBD()
	s.StartBatch(n, eta)

	out := make([]int8, 0, n)
	for len(out) < n {
		if len(stream) > 0 && s.WordReady() {
			var w Word
			copy(w[:], stream)
			stream = stream[WordBytes:]
			s.SubmitRandomWord(w)
		}
		s.Step()
		if c, ok := s.PollCoefficient(); ok {
			out = append(out, c.Value)
		}
	}
	return out
}
