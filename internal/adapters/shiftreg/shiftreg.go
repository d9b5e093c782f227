// Package shiftreg simulates an 8-bit serial-in, parallel-out shift register
// with an output latch (74HC595 style) behind the ports.GPIO interface.
package shiftreg

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bft-labs/turingcv/internal/ports"
)

// ErrUnknownPin is returned for pins that are not wired to the register.
var ErrUnknownPin = errors.New("shiftreg: unknown pin")

// Register is a simulated shift register. The shift stage moves one bit in
// from the data pin on each rising clock edge; the storage stage copies the
// shift stage on a rising latch edge and drives the parallel outputs.
type Register struct {
	mu      sync.Mutex
	pins    ports.ShiftRegisterPins
	shift   uint8
	storage uint8
	data    bool
	clock   bool
	latch   bool
	pulses  uint64
}

// New creates a cleared register wired to pins.
func New(pins ports.ShiftRegisterPins) *Register {
	return &Register{pins: pins}
}

// WriteBit implements ports.GPIO.
func (r *Register) WriteBit(pin ports.Pin, level bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch pin {
	case r.pins.Data:
		r.data = level
	case r.pins.Clock:
		if level && !r.clock {
			r.shiftIn()
		}
		r.clock = level
	case r.pins.Latch:
		if level && !r.latch {
			r.storage = r.shift
		}
		r.latch = level
	default:
		return fmt.Errorf("%w: write %d", ErrUnknownPin, pin)
	}
	return nil
}

// PulseClock implements ports.GPIO.
func (r *Register) PulseClock(pin ports.Pin) error {
	if pin != r.pins.Clock {
		return fmt.Errorf("%w: pulse %d", ErrUnknownPin, pin)
	}
	if err := r.WriteBit(pin, true); err != nil {
		return err
	}
	return r.WriteBit(pin, false)
}

// ReadBit implements ports.GPIO. The serial output reflects the top bit of
// the shift stage, the bit that falls out on the next clock.
func (r *Register) ReadBit(pin ports.Pin) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch pin {
	case r.pins.SerialOut:
		return r.shift&0x80 != 0, nil
	case r.pins.Data:
		return r.data, nil
	case r.pins.Clock:
		return r.clock, nil
	case r.pins.Latch:
		return r.latch, nil
	default:
		return false, fmt.Errorf("%w: read %d", ErrUnknownPin, pin)
	}
}

// Outputs returns the latched parallel outputs (the LED row).
func (r *Register) Outputs() uint8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.storage
}

// Pulses returns the number of rising clock edges seen.
func (r *Register) Pulses() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pulses
}

func (r *Register) shiftIn() {
	r.shift <<= 1
	if r.data {
		r.shift |= 1
	}
	r.pulses++
}

var _ ports.GPIO = (*Register)(nil)
