// Package controls provides fixed-value control inputs: a probability knob
// that never moves and force buttons held in a set position.
package controls

import (
	"sync/atomic"

	"github.com/bft-labs/turingcv/internal/domain"
)

// Knob is a probability source whose position can be changed at runtime.
type Knob struct {
	value atomic.Uint32
}

// NewKnob creates a knob at position v, clamped to [0, 1023].
func NewKnob(v int) *Knob {
	k := &Knob{}
	k.Set(v)
	return k
}

// Set moves the knob, clamping to [0, 1023].
func (k *Knob) Set(v int) {
	k.value.Store(uint32(domain.ClampSample(v)))
}

// SampleProbabilityThreshold implements ports.ProbabilitySource.
func (k *Knob) SampleProbabilityThreshold() uint16 {
	return uint16(k.value.Load())
}

// Buttons are force inputs held in a fixed position until changed.
type Buttons struct {
	high atomic.Bool
	low  atomic.Bool
}

// NewButtons creates buttons in the given position.
func NewButtons(high, low bool) *Buttons {
	b := &Buttons{}
	b.Set(high, low)
	return b
}

// Set changes both buttons.
func (b *Buttons) Set(high, low bool) {
	b.high.Store(high)
	b.low.Store(low)
}

// SampleForces implements ports.ForceInputs.
func (b *Buttons) SampleForces() (high, low bool) {
	return b.high.Load(), b.low.Load()
}
