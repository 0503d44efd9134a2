package keccak

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// paddedEmpty returns the single padded block of the empty message.
func paddedEmpty() Block {
	var b Block
	b[0] = dsbyteShake
	b[RateBytes-1] = 0x80
	return b
}

// runMessage pushes blocks through c as one message and returns the output.
func runMessage(c *Core, blocks []Block) [OutputBytes]byte {
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

// Test the engine end to end on the empty-message SHAKE-128 vector.
func TestCoreEmptyMessageVector(t *testing.T) {
	c := NewCore()
	b := paddedEmpty()
	got := runMessage(c, []Block{b})

	expected, _ := hex.DecodeString("7f9c2ba4e88f827d616045507605853e")
	if !bytes.Equal(got[:], expected) {
		t.Errorf("Core empty-message output = %x, want %x", got, expected)
	}
}

// Test the engine end to end on the "abc" SHAKE-128 vector.
func TestCoreAbcVector(t *testing.T) {
	c := NewCore()
	var b Block
	copy(b[:], "abc")
	b[3] = dsbyteShake
	b[RateBytes-1] = 0x80
	got := runMessage(c, []Block{b})

	expected, _ := hex.DecodeString("5881092dd818bf5cf8a3ddb793fbcba7")
	if !bytes.Equal(got[:], expected) {
		t.Errorf("Core abc output = %x, want %x", got, expected)
	}
}

// Test that a final block's output appears exactly three steps after the
// block is accepted: absorb+half A, half B, commit.
func TestCoreThreeStepLatency(t *testing.T) {
	c := NewCore()
	b := paddedEmpty()
	if !c.SubmitBlock(&b, true) {
		t.Fatal("SubmitBlock rejected on idle engine")
	}
	for step := 1; step <= 3; step++ {
		if c.OutputReady() {
			t.Fatalf("OutputReady before step %d", step)
		}
		c.Step()
	}
	if !c.OutputReady() {
		t.Fatal("OutputReady false after 3 steps")
	}
}

// Test that only one message is in flight: submissions are rejected while any
// stage works or output is held, and a rejected submission does not corrupt
// the result.
func TestCoreSingleMessageInFlight(t *testing.T) {
	c := NewCore()
	b := paddedEmpty()
	var junk Block
	for i := range junk {
		junk[i] = 0xA5
	}

	if !c.SubmitBlock(&b, true) {
		t.Fatal("SubmitBlock rejected on idle engine")
	}
	for step := 0; step < 3; step++ {
		if c.SubmitBlock(&junk, true) {
			t.Fatalf("SubmitBlock accepted with work in flight at step %d", step)
		}
		c.Step()
	}
	if c.SubmitBlock(&junk, true) {
		t.Fatal("SubmitBlock accepted with output held")
	}

	got, ok := c.PollOutput()
	if !ok {
		t.Fatal("no output after final block")
	}
	expected, _ := hex.DecodeString("7f9c2ba4e88f827d616045507605853e")
	if !bytes.Equal(got[:], expected) {
		t.Errorf("output after rejected submissions = %x, want %x", got, expected)
	}
}

// Test that a held output is stable: polls do not consume it, extra steps do
// not disturb it, and the engine stays busy until AcceptOutput.
func TestCoreHeldOutputStable(t *testing.T) {
	c := NewCore()
	b := paddedEmpty()
	c.SubmitBlock(&b, true)
	for !c.OutputReady() {
		c.Step()
	}

	first, _ := c.PollOutput()
	for i := 0; i < 10; i++ {
		c.Step()
		again, ok := c.PollOutput()
		if !ok {
			t.Fatal("held output vanished without AcceptOutput")
		}
		if again != first {
			t.Fatalf("held output changed: %x != %x", again, first)
		}
	}
	if c.Idle() {
		t.Error("engine idle while output still held")
	}

	c.AcceptOutput()
	if !c.Idle() {
		t.Error("engine not idle after AcceptOutput")
	}
	if _, ok := c.PollOutput(); ok {
		t.Error("PollOutput ok after AcceptOutput")
	}
}

// Test that a non-final block produces no output and the engine re-idles so
// the next block of the message can follow.
func TestCoreNonFinalBlockNoOutput(t *testing.T) {
	c := NewCore()
	var b Block
	if !c.SubmitBlock(&b, false) {
		t.Fatal("SubmitBlock rejected on idle engine")
	}
	for step := 0; step < 3; step++ {
		c.Step()
		if c.OutputReady() {
			t.Fatalf("OutputReady after non-final block at step %d", step)
		}
	}
	if !c.Idle() {
		t.Error("engine not idle after non-final block drained")
	}
}

// Test that state persists across messages: repeating a message on the same
// engine chains onto the retained state, and Reinitialize restores the fresh
// result.
func TestCoreStatePersistsAcrossMessages(t *testing.T) {
	c := NewCore()
	b := paddedEmpty()

	out1 := runMessage(c, []Block{b})
	out2 := runMessage(c, []Block{b})
	if out1 == out2 {
		t.Error("second message ignored the retained state")
	}

	c.Reinitialize()
	out3 := runMessage(c, []Block{b})
	if out3 != out1 {
		t.Errorf("output after Reinitialize = %x, want %x", out3, out1)
	}
}

// Test Reinitialize cancels in-flight work at any point.
func TestCoreReinitializeMidFlight(t *testing.T) {
	b := paddedEmpty()
	for cancelAfter := 0; cancelAfter <= 3; cancelAfter++ {
		c := NewCore()
		c.SubmitBlock(&b, true)
		for i := 0; i < cancelAfter; i++ {
			c.Step()
		}
		c.Reinitialize()

		if !c.Idle() {
			t.Fatalf("cancel after %d steps: engine not idle", cancelAfter)
		}
		if c.OutputReady() {
			t.Fatalf("cancel after %d steps: stale output held", cancelAfter)
		}
		got := runMessage(c, []Block{b})
		expected, _ := hex.DecodeString("7f9c2ba4e88f827d616045507605853e")
		if !bytes.Equal(got[:], expected) {
			t.Fatalf("cancel after %d steps: output = %x, want %x", cancelAfter, got, expected)
		}
	}
}

// Benchmark one block through the pipeline: accept plus three steps.
func BenchmarkCoreBlock(b *testing.B) {
	c := NewCore()
	var blk Block
	for i := range blk {
		blk[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.SubmitBlock(&blk, false)
		c.Step()
		c.Step()
		c.Step()
	}
}
