package ports

// Pin identifies a digital I/O pin.
type Pin uint8

// GPIO is pin-level digital I/O. Implementations drive a physical shift
// register or simulate one.
type GPIO interface {
	// WriteBit drives pin to level.
	WriteBit(pin Pin, level bool) error

	// PulseClock raises then lowers pin, shifting whatever is on the data
	// pin into the register.
	PulseClock(pin Pin) error

	// ReadBit samples the level of pin.
	ReadBit(pin Pin) (bool, error)
}

// ShiftRegisterPins names the pins wired to a serial-in, parallel-out shift
// register with a storage latch and a serial output.
type ShiftRegisterPins struct {
	Data      Pin
	Latch     Pin
	Clock     Pin
	SerialOut Pin
}

// DefaultShiftRegisterPins returns the wiring of the reference build.
func DefaultShiftRegisterPins() ShiftRegisterPins {
	return ShiftRegisterPins{
		Data:      4,
		Latch:     5,
		Clock:     6,
		SerialOut: 12,
	}
}
