package keccak

import "encoding/binary"

const (
	// RateBytes is the sponge rate: 1344 bits, the SHAKE-128 rate.
	RateBytes = 168

	// RateLanes is the number of 64-bit lanes covered by the rate.
	RateLanes = RateBytes / 8

	// CapacityBytes is the untouched security margin: 256 bits.
	CapacityBytes = 200 - RateBytes

	// OutputBytes is the squeeze output width: 128 bits.
	OutputBytes = 16

	// halfRounds is the number of rounds per pipeline half-stage.
	halfRounds = 12
)

// Block is one rate-width absorb block. Padding of the final block is the
// caller's responsibility; see PadBlocks.
type Block [RateBytes]byte

// slot is one pipeline stage register: the state value being worked on,
// whether the originating block was the last of its message, and whether the
// slot holds valid work.
type slot struct {
	st    [25]uint64
	final bool
	valid bool
}

// Core is the permutation-pipeline engine. It owns a 1600-bit state, absorbs
// one rate-width block at a time, drives it through two 12-round
// half-permutation stages, and after the final block of a message holds a
// 128-bit output until the consumer accepts it.
//
// The engine is strictly single-message-in-flight: a new block is accepted
// only when no stage holds valid work and no output is pending, so one
// message's permutations can never overlap another's on the shared state.
// All stages advance in lock step, one slot per Step call, each stage only
// when its successor is free. A Core is not safe for concurrent use.
type Core struct {
	state [25]uint64 // committed permutation state

	absorb slot // stage 1: state XOR block
	halfA  slot // stage 2: rounds 0..11 applied
	halfB  slot // stage 3: rounds 12..23 applied

	// Stage 4, commit & squeeze: the committed state above plus the held
	// output below.
	out      [OutputBytes]byte
	outReady bool
}

// NewCore returns an idle engine with a zero state.
func NewCore() *Core {
	return &Core{}
}

// Reinitialize clears the state, all pipeline slots and any pending output.
// It may be invoked at any time and cancels in-flight work.
func (c *Core) Reinitialize() {
	*c = Core{}
}

// Idle reports whether the engine holds no in-flight work and no unconsumed
// output. Only an idle engine accepts a new block.
func (c *Core) Idle() bool {
	return !c.absorb.valid && !c.halfA.valid && !c.halfB.valid && !c.outReady
}

// OutputReady reports whether a squeezed output is held for the consumer.
func (c *Core) OutputReady() bool {
	return c.outReady
}

// SubmitBlock offers one rate-width block, tagged final for the last block of
// a message. The block is accepted only when the engine is fully idle; the
// absorb XOR into the low rate lanes happens at the accepting step. Rejected
// submissions never alter state. The caller may reuse b once accepted.
func (c *Core) SubmitBlock(b *Block, final bool) bool {
	if !c.Idle() {
		return false
	}
	c.absorb.st = c.state
	for i := 0; i < RateLanes; i++ {
		c.absorb.st[i] ^= binary.LittleEndian.Uint64(b[8*i:])
	}
	c.absorb.final = final
	c.absorb.valid = true
	return true
}

// Step advances the pipeline by one lock-step cycle. Stages are updated
// back-to-front so that each consumes its predecessor's pre-step value and a
// unit of work moves exactly one slot per call. A stage whose successor is
// occupied holds its value; a Step with nothing to move is a no-op.
func (c *Core) Step() {
	// Commit & squeeze. For a final block the output register is the
	// successor and must be free.
	if c.halfB.valid && !(c.halfB.final && c.outReady) {
		c.state = c.halfB.st
		if c.halfB.final {
			binary.LittleEndian.PutUint64(c.out[0:], c.state[0])
			binary.LittleEndian.PutUint64(c.out[8:], c.state[1])
			c.outReady = true
		}
		c.halfB.valid = false
	}

	// Half-permutation B: rounds 12..23.
	if c.halfA.valid && !c.halfB.valid {
		c.halfB.st = c.halfA.st
		rounds(&c.halfB.st, halfRounds, 2*halfRounds)
		c.halfB.final = c.halfA.final
		c.halfB.valid = true
		c.halfA.valid = false
	}

	// Half-permutation A: rounds 0..11.
	if c.absorb.valid && !c.halfA.valid {
		c.halfA.st = c.absorb.st
		rounds(&c.halfA.st, 0, halfRounds)
		c.halfA.final = c.absorb.final
		c.halfA.valid = true
		c.absorb.valid = false
	}
}

// PollOutput returns the held 128-bit output without consuming it. ok is
// false until the final block's work has fully propagated. The value is held,
// and repeated polls return it unchanged, until AcceptOutput.
func (c *Core) PollOutput() (out [OutputBytes]byte, ok bool) {
	if !c.outReady {
		return out, false
	}
	return c.out, true
}

// AcceptOutput clears the held output, returning the engine to idle so a new
// message may begin. The committed state is unaffected. Calling it with no
// output held does nothing.
func (c *Core) AcceptOutput() {
	c.outReady = false
}
