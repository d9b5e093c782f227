// Package keys turns a terminal keyboard into the module's front panel:
// momentary force buttons and a stepped probability knob.
package keys

import (
	"sync/atomic"

	"github.com/bft-labs/turingcv/internal/adapters/controls"
	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
)

// Key bindings.
const (
	KeyForceHigh    = 'h'
	KeyForceLow     = 'l'
	KeyProbDown     = '['
	KeyProbUp       = ']'
	DefaultKnobStep = 64
)

// Panel implements ports.ForceInputs and ports.ProbabilitySource from key
// presses. Force keys arm the matching button for the next clock edge only,
// so the operator has to press at the right moment, like the hardware.
type Panel struct {
	knob   *controls.Knob
	step   int
	high   atomic.Bool
	low    atomic.Bool
	logger ports.Logger

	term terminal
}

// NewPanel creates a panel whose knob starts at probability.
func NewPanel(probability int, logger ports.Logger) *Panel {
	return &Panel{
		knob:   controls.NewKnob(probability),
		step:   DefaultKnobStep,
		logger: logger,
	}
}

// HandleKey applies one key press. Unbound keys are ignored.
func (p *Panel) HandleKey(k byte) {
	switch k {
	case KeyForceHigh, 'H':
		p.high.Store(true)
		p.logger.Debug("force high armed")
	case KeyForceLow, 'L':
		p.low.Store(true)
		p.logger.Debug("force low armed")
	case KeyProbDown:
		p.nudge(-p.step)
	case KeyProbUp:
		p.nudge(p.step)
	}
}

func (p *Panel) nudge(delta int) {
	v := int(p.knob.SampleProbabilityThreshold()) + delta
	p.knob.Set(v)
	p.logger.Info("probability", ports.Int("threshold", int(domain.ClampSample(v))))
}

// SampleForces implements ports.ForceInputs. Armed buttons are released by
// the read.
func (p *Panel) SampleForces() (high, low bool) {
	return p.high.Swap(false), p.low.Swap(false)
}

// SampleProbabilityThreshold implements ports.ProbabilitySource.
func (p *Panel) SampleProbabilityThreshold() uint16 {
	return p.knob.SampleProbabilityThreshold()
}

var (
	_ ports.ForceInputs       = (*Panel)(nil)
	_ ports.ProbabilitySource = (*Panel)(nil)
)
