package domain

// SampleMax is the largest value of a 10-bit analog sample. Probability
// thresholds and random draws share the [0, SampleMax] scale.
const SampleMax = 1023

// ClampSample clamps v to [0, SampleMax]. Hardware reads cannot signal a
// malformed sample, so out-of-range values saturate at the boundary.
func ClampSample(v int) uint16 {
	if v < 0 {
		return 0
	}
	if v > SampleMax {
		return SampleMax
	}
	return uint16(v)
}

// ControlInputs are the values sampled fresh on every clock edge.
type ControlInputs struct {
	// ForceHigh sets the next bit to 1. It wins over ForceLow.
	ForceHigh bool

	// ForceLow sets the next bit to 0.
	ForceLow bool

	// Probability is the inversion threshold, 0..1023.
	Probability uint16

	// Random is a uniform draw, 0..1023. The feedback bit is inverted when
	// Random < Probability.
	Random uint16

	// Feedback is the bit read back from the register output.
	Feedback bool
}

// Clamped returns a copy with Probability and Random clamped to [0, SampleMax].
func (in ControlInputs) Clamped() ControlInputs {
	in.Probability = ClampSample(int(in.Probability))
	in.Random = ClampSample(int(in.Random))
	return in
}

// BitSource identifies which branch of the insertion policy chose a bit.
type BitSource int

const (
	SourceFeedback BitSource = iota
	SourceInvert
	SourceForceLow
	SourceForceHigh
)

// String returns a human-readable representation of the source.
func (s BitSource) String() string {
	switch s {
	case SourceFeedback:
		return "feedback"
	case SourceInvert:
		return "invert"
	case SourceForceLow:
		return "force-low"
	case SourceForceHigh:
		return "force-high"
	default:
		return "unknown"
	}
}

// NextBit applies the insertion policy in priority order: force-high,
// force-low, probabilistic inversion of the feedback bit, then feedback
// carried through unchanged.
func (in ControlInputs) NextBit() (bool, BitSource) {
	in = in.Clamped()
	switch {
	case in.ForceHigh:
		return true, SourceForceHigh
	case in.ForceLow:
		return false, SourceForceLow
	case in.Random < in.Probability:
		return !in.Feedback, SourceInvert
	default:
		return in.Feedback, SourceFeedback
	}
}
