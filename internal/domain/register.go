package domain

import "fmt"

// RegisterBits is the length of the sequence held in a Register.
const RegisterBits = 8

// Register is the 8-bit pattern that drives the analog output. It mirrors
// the content of the physical shift register.
type Register uint8

// Bit reports whether bit i (0 = least significant) is set.
// Indexes outside the register are reported as unset.
func (r Register) Bit(i uint) bool {
	if i >= RegisterBits {
		return false
	}
	return r&(1<<i) != 0
}

// MSB reports the most significant bit, the one that leaves the register on
// the next rotation.
func (r Register) MSB() bool {
	return r.Bit(RegisterBits - 1)
}

// LSB reports the least significant bit, the most recently inserted one.
func (r Register) LSB() bool {
	return r.Bit(0)
}

// Rotate returns the register circularly shifted left by one position: the
// bit leaving the high end re-enters at the low end.
func (r Register) Rotate() Register {
	return r<<1 | r>>(RegisterBits-1)
}

// WithLSB returns the register with its low bit replaced by bit.
func (r Register) WithLSB(bit bool) Register {
	r &^= 1
	if bit {
		r |= 1
	}
	return r
}

// String returns the register as eight binary digits, MSB first.
func (r Register) String() string {
	return fmt.Sprintf("%08b", uint8(r))
}
