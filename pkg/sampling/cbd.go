// Package sampling converts pseudorandom bits into polynomial noise
// coefficients drawn from a centered binomial distribution.
package sampling

import "encoding/binary"

const (
	// WordBytes is the width of one incoming random word: 128 bits.
	WordBytes = 16

	// WordBits is WordBytes in bits.
	WordBits = 8 * WordBytes

	// BufferBits is the bit buffer capacity.
	BufferBits = 256

	// wordHeadroom is the acceptance threshold: a word is taken only while
	// the fill level leaves room for one whole word, so an accepted word can
	// never overflow the buffer. Tunable; this is the loosest safe value.
	wordHeadroom = BufferBits - WordBits

	// EtaMin and EtaMax bound the supported distribution parameter.
	EtaMin = 2
	EtaMax = 3
)

// Word is one 128-bit random input word. Bit k of the stream is bit k%8 of
// byte k/8, so a word appends 128 stream bits in little-endian bit order.
type Word [WordBytes]byte

// Coefficient is one sampled noise value in [-eta, eta]. Last marks the final
// coefficient of a batch; it is set on exactly one coefficient per batch.
type Coefficient struct {
	Value int8
	Last  bool
}

// bitsSlot holds one extracted 2*eta-bit group, already split into its low
// (a) and high (b) eta-bit halves.
type bitsSlot struct {
	a, b  uint8
	last  bool
	valid bool
}

// countSlot holds the two population counts of a group.
type countSlot struct {
	a, b  int8
	last  bool
	valid bool
}

// CBD is the noise sampler engine. Given a batch of count coefficients and
// eta in {2,3}, it consumes 128-bit random words through a sliding 256-bit
// buffer, extracts 2*eta bits per coefficient, and emits the population-count
// difference of the two eta-bit halves, flagging the batch's last
// coefficient.
//
// The per-coefficient work moves through three stages (extract, popcount,
// output), one slot per Step, each stage advancing only while its successor
// is free, so a slow consumer backpressures all the way to word acceptance
// without losing bits. A CBD is not safe for concurrent use.
type CBD struct {
	buf  [4]uint64 // bit buffer, stream bit i at limb i/64 bit i%64
	fill int       // valid bits currently buffered

	eta       int
	remaining int // coefficients still to extract in the active batch
	active    bool

	extract bitsSlot
	count   countSlot

	out      Coefficient
	outValid bool
}

// NewCBD returns an idle sampler.
func NewCBD() *CBD {
	return &CBD{}
}

// Idle reports whether no batch is active. Only an idle sampler accepts
// StartBatch; the engine becomes idle again once a batch's last coefficient
// has been consumed.
func (s *CBD) Idle() bool {
	return !s.active
}

// StartBatch arms the sampler to emit count coefficients from CBD(eta).
// It is accepted only when idle. count < 1 and eta outside {2,3} are
// rejected. The bit buffer is cleared, so a batch's output is a function of
// the words submitted to it alone.
func (s *CBD) StartBatch(count, eta int) bool {
	if s.active {
		return false
	}
	if count <= 0 || eta < EtaMin || eta > EtaMax {
		return false
	}
	s.buf = [4]uint64{}
	s.fill = 0
	s.eta = eta
	s.remaining = count
	s.active = true
	return true
}

// WordReady reports whether the sampler will accept a random word: a batch
// must be active and the buffer must hold headroom for one whole word.
func (s *CBD) WordReady() bool {
	return s.active && s.fill <= wordHeadroom
}

// Buffered returns the number of valid bits currently in the buffer.
func (s *CBD) Buffered() int {
	return s.fill
}

// SubmitRandomWord appends one 128-bit word at the buffer's fill offset.
// It is accepted only while WordReady; rejected words leave the buffer
// untouched.
func (s *CBD) SubmitRandomWord(w Word) bool {
	if !s.WordReady() {
		return false
	}
	lo := binary.LittleEndian.Uint64(w[0:])
	hi := binary.LittleEndian.Uint64(w[8:])
	idx := s.fill >> 6
	sh := uint(s.fill & 63)
	if sh == 0 {
		s.buf[idx] |= lo
		s.buf[idx+1] |= hi
	} else {
		s.buf[idx] |= lo << sh
		s.buf[idx+1] |= lo>>(64-sh) | hi<<sh
		s.buf[idx+2] |= hi >> (64 - sh)
	}
	s.fill += WordBits
	return true
}

// drain shifts the buffer down by n bits, discarding the low end.
func (s *CBD) drain(n int) {
	sh := uint(n)
	s.buf[0] = s.buf[0]>>sh | s.buf[1]<<(64-sh)
	s.buf[1] = s.buf[1]>>sh | s.buf[2]<<(64-sh)
	s.buf[2] = s.buf[2]>>sh | s.buf[3]<<(64-sh)
	s.buf[3] >>= sh
	s.fill -= n
}

// Step advances the coefficient pipeline by one lock-step cycle,
// back-to-front so each stage consumes its predecessor's pre-step value.
func (s *CBD) Step() {
	// Output: difference of the two counts, carrying the last flag.
	if s.count.valid && !s.outValid {
		s.out = Coefficient{Value: s.count.a - s.count.b, Last: s.count.last}
		s.outValid = true
		s.count.valid = false
	}

	// Population count of each eta-bit half independently.
	if s.extract.valid && !s.count.valid {
		s.count.a = popCount4(s.extract.a)
		s.count.b = popCount4(s.extract.b)
		s.count.last = s.extract.last
		s.count.valid = true
		s.extract.valid = false
	}

	// Extract: take the low 2*eta buffer bits, group A low, group B next.
	// Fires only while coefficients remain, the slot is free and the buffer
	// holds a full group. The counter reaching zero halts extraction and
	// tags this item as the batch's last.
	if s.active && s.remaining > 0 && !s.extract.valid {
		need := 2 * s.eta
		if s.fill >= need {
			g := uint8(s.buf[0] & (1<<uint(need) - 1))
			s.drain(need)
			s.extract.a = g & (1<<uint(s.eta) - 1)
			s.extract.b = g >> uint(s.eta)
			s.remaining--
			s.extract.last = s.remaining == 0
			s.extract.valid = true
		}
	}
}

// PollCoefficient takes the held coefficient, freeing the output slot for the
// next one. ok is false while no coefficient is held. Consuming a
// coefficient with Last set completes the batch and returns the sampler to
// idle; bits left in the buffer are discarded by the next StartBatch.
func (s *CBD) PollCoefficient() (Coefficient, bool) {
	if !s.outValid {
		return Coefficient{}, false
	}
	c := s.out
	s.outValid = false
	if c.Last {
		s.active = false
	}
	return c, true
}
