package domain

// Step describes one register transition.
type Step struct {
	Previous Register
	Next     Register
	Bit      bool
	Source   BitSource
}

// SequenceEngine evolves a Register as a circular shift register whose
// incoming bit is chosen by ControlInputs.NextBit.
//
// A SequenceEngine is not safe for concurrent use. The caller serializes
// clock edges (see app.Machine).
type SequenceEngine struct {
	seed Register
	reg  Register
}

// NewSequenceEngine creates an engine whose register starts at seed.
func NewSequenceEngine(seed Register) *SequenceEngine {
	return &SequenceEngine{seed: seed, reg: seed}
}

// Register returns the current register value.
func (e *SequenceEngine) Register() Register {
	return e.reg
}

// Seed returns the value the register was initialized with.
func (e *SequenceEngine) Seed() Register {
	return e.seed
}

// Reset restores the register to its seed.
func (e *SequenceEngine) Reset() {
	e.reg = e.seed
}

// Advance rotates the register left by one and replaces the low bit with
// the bit chosen from in. Bits 1-7 of the result are bits 0-6 of the
// previous register.
func (e *SequenceEngine) Advance(in ControlInputs) Step {
	bit, src := in.NextBit()
	prev := e.reg
	e.reg = prev.Rotate().WithLSB(bit)
	return Step{
		Previous: prev,
		Next:     e.reg,
		Bit:      bit,
		Source:   src,
	}
}

// OnClockEdge advances the register and returns its new value.
func (e *SequenceEngine) OnClockEdge(in ControlInputs) Register {
	return e.Advance(in).Next
}
