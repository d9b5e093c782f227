package domain

import "testing"

func TestRegister_Rotate(t *testing.T) {
	tests := []struct {
		in   Register
		want Register
	}{
		{0b00000000, 0b00000000},
		{0b00000001, 0b00000010},
		{0b10000000, 0b00000001},
		{0b11111111, 0b11111111},
		{0b10110010, 0b01100101},
	}

	for _, tt := range tests {
		if got := tt.in.Rotate(); got != tt.want {
			t.Errorf("%s.Rotate() = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRegister_String(t *testing.T) {
	if got := Register(5).String(); got != "00000101" {
		t.Errorf("String() = %q, want %q", got, "00000101")
	}
}

func TestRegister_Bit(t *testing.T) {
	r := Register(0b10000001)
	if !r.MSB() || !r.LSB() {
		t.Errorf("MSB/LSB of %s should be set", r)
	}
	if r.Bit(3) {
		t.Errorf("bit 3 of %s should be clear", r)
	}
	if r.Bit(8) {
		t.Error("bit 8 is outside the register and must be unset")
	}
}

func TestControlInputs_NextBit(t *testing.T) {
	tests := []struct {
		name    string
		in      ControlInputs
		wantBit bool
		wantSrc BitSource
	}{
		{"force high wins over force low", ControlInputs{ForceHigh: true, ForceLow: true}, true, SourceForceHigh},
		{"force high ignores randomness", ControlInputs{ForceHigh: true, Random: 0, Probability: 1023, Feedback: true}, true, SourceForceHigh},
		{"force low", ControlInputs{ForceLow: true, Random: 0, Probability: 1023, Feedback: true}, false, SourceForceLow},
		{"draw below threshold inverts", ControlInputs{Random: 10, Probability: 11, Feedback: true}, false, SourceInvert},
		{"draw equal to threshold passes through", ControlInputs{Random: 11, Probability: 11, Feedback: true}, true, SourceFeedback},
		{"zero probability never inverts", ControlInputs{Random: 0, Probability: 0, Feedback: false}, false, SourceFeedback},
		{"out-of-range samples are clamped", ControlInputs{Random: 5000, Probability: 4000, Feedback: true}, true, SourceFeedback},
		{"clamped threshold still inverts low draws", ControlInputs{Random: 1022, Probability: 60000, Feedback: false}, true, SourceInvert},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bit, src := tt.in.NextBit()
			if bit != tt.wantBit || src != tt.wantSrc {
				t.Errorf("NextBit() = (%v, %v), want (%v, %v)", bit, src, tt.wantBit, tt.wantSrc)
			}
		})
	}
}

func TestSequenceEngine_ForceHighSetsLowBit(t *testing.T) {
	for v := 0; v < 256; v++ {
		e := NewSequenceEngine(Register(v))
		got := e.OnClockEdge(ControlInputs{ForceHigh: true, ForceLow: true, Random: 0, Probability: 1023})
		if !got.LSB() {
			t.Fatalf("register %08b: low bit after force-high = 0", v)
		}
	}
}

func TestSequenceEngine_ForceLowClearsLowBit(t *testing.T) {
	for v := 0; v < 256; v++ {
		for _, draw := range []uint16{0, 512, 1023} {
			e := NewSequenceEngine(Register(v))
			got := e.OnClockEdge(ControlInputs{ForceLow: true, Random: draw, Probability: 1023, Feedback: true})
			if got.LSB() {
				t.Fatalf("register %08b draw %d: low bit after force-low = 1", v, draw)
			}
		}
	}
}

func TestSequenceEngine_FeedbackPolicy(t *testing.T) {
	for v := 0; v < 256; v++ {
		for _, fb := range []bool{false, true} {
			e := NewSequenceEngine(Register(v))
			got := e.OnClockEdge(ControlInputs{Random: 700, Probability: 300, Feedback: fb})
			if got.LSB() != fb {
				t.Fatalf("register %08b: pass-through low bit = %v, want %v", v, got.LSB(), fb)
			}

			e = NewSequenceEngine(Register(v))
			got = e.OnClockEdge(ControlInputs{Random: 300, Probability: 700, Feedback: fb})
			if got.LSB() == fb {
				t.Fatalf("register %08b: inverted low bit = %v, want %v", v, got.LSB(), !fb)
			}
		}
	}
}

func TestSequenceEngine_RotationInvariant(t *testing.T) {
	inputs := []ControlInputs{
		{ForceHigh: true},
		{ForceLow: true},
		{Random: 0, Probability: 1023, Feedback: true},
		{Random: 1023, Probability: 0, Feedback: false},
	}

	for v := 0; v < 256; v++ {
		for _, in := range inputs {
			old := Register(v)
			e := NewSequenceEngine(old)
			got := e.OnClockEdge(in)
			if got>>1 != old&0b01111111 {
				t.Fatalf("register %s -> %s: bits 1-7 do not equal old bits 0-6", old, got)
			}
		}
	}
}

func TestSequenceEngine_PassThroughOfMSBIsPureRotation(t *testing.T) {
	e := NewSequenceEngine(0b10110010)
	for i := 0; i < RegisterBits; i++ {
		r := e.Register()
		e.OnClockEdge(ControlInputs{Random: 1023, Probability: 0, Feedback: r.MSB()})
	}
	if e.Register() != 0b10110010 {
		t.Errorf("after %d rotations register = %s, want 10110010", RegisterBits, e.Register())
	}
}

func TestSequenceEngine_AdvanceAndReset(t *testing.T) {
	e := NewSequenceEngine(0b11111111)
	step := e.Advance(ControlInputs{ForceLow: true})

	if step.Previous != 0b11111111 || step.Next != 0b11111110 {
		t.Errorf("step = %s -> %s, want 11111111 -> 11111110", step.Previous, step.Next)
	}
	if step.Bit || step.Source != SourceForceLow {
		t.Errorf("step bit/source = %v/%v, want false/force-low", step.Bit, step.Source)
	}
	if e.Register() != step.Next {
		t.Errorf("Register() = %s, want %s", e.Register(), step.Next)
	}

	e.Reset()
	if e.Register() != e.Seed() {
		t.Errorf("after Reset register = %s, want seed %s", e.Register(), e.Seed())
	}
}

func TestBitSource_String(t *testing.T) {
	tests := []struct {
		src  BitSource
		want string
	}{
		{SourceFeedback, "feedback"},
		{SourceInvert, "invert"},
		{SourceForceLow, "force-low"},
		{SourceForceHigh, "force-high"},
		{BitSource(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.src.String(); got != tt.want {
			t.Errorf("BitSource(%d).String() = %s, want %s", tt.src, got, tt.want)
		}
	}
}
