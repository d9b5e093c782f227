package shiftreg

import (
	"errors"
	"testing"

	"github.com/bft-labs/turingcv/internal/ports"
)

func clockIn(t *testing.T, r *Register, pins ports.ShiftRegisterPins, bits ...bool) {
	t.Helper()
	for _, b := range bits {
		if err := r.WriteBit(pins.Data, b); err != nil {
			t.Fatalf("WriteBit data: %v", err)
		}
		if err := r.PulseClock(pins.Clock); err != nil {
			t.Fatalf("PulseClock: %v", err)
		}
	}
}

func TestRegister_ShiftAndLatch(t *testing.T) {
	pins := ports.DefaultShiftRegisterPins()
	r := New(pins)

	if err := r.WriteBit(pins.Latch, false); err != nil {
		t.Fatal(err)
	}
	clockIn(t, r, pins, true, false, true, true, false, false, true, false)

	if r.Outputs() != 0 {
		t.Errorf("outputs changed before latch: %08b", r.Outputs())
	}
	if err := r.WriteBit(pins.Latch, true); err != nil {
		t.Fatal(err)
	}
	if got := r.Outputs(); got != 0b10110010 {
		t.Errorf("Outputs() = %08b, want 10110010", got)
	}
	if r.Pulses() != 8 {
		t.Errorf("Pulses() = %d, want 8", r.Pulses())
	}
}

func TestRegister_SerialOutIsTopBit(t *testing.T) {
	pins := ports.DefaultShiftRegisterPins()
	r := New(pins)

	clockIn(t, r, pins, true)
	out, err := r.ReadBit(pins.SerialOut)
	if err != nil {
		t.Fatal(err)
	}
	if out {
		t.Error("serial out set after a single bit")
	}

	clockIn(t, r, pins, false, false, false, false, false, false, false)
	out, _ = r.ReadBit(pins.SerialOut)
	if !out {
		t.Error("serial out clear after the first bit reached the top")
	}
}

func TestRegister_UnknownPin(t *testing.T) {
	r := New(ports.DefaultShiftRegisterPins())

	if err := r.WriteBit(99, true); !errors.Is(err, ErrUnknownPin) {
		t.Errorf("WriteBit err = %v, want ErrUnknownPin", err)
	}
	if _, err := r.ReadBit(99); !errors.Is(err, ErrUnknownPin) {
		t.Errorf("ReadBit err = %v, want ErrUnknownPin", err)
	}
	if err := r.PulseClock(4); !errors.Is(err, ErrUnknownPin) {
		t.Errorf("PulseClock on data pin err = %v, want ErrUnknownPin", err)
	}
}
