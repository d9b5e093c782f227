package keys

import (
	"testing"

	"github.com/bft-labs/turingcv/pkg/log"
)

func TestPanel_ForcesAreMomentary(t *testing.T) {
	p := NewPanel(0, log.NewNoopLogger())

	p.HandleKey(KeyForceHigh)
	if h, l := p.SampleForces(); !h || l {
		t.Errorf("first sample = %v, %v; want true, false", h, l)
	}
	if h, l := p.SampleForces(); h || l {
		t.Errorf("second sample = %v, %v; want released buttons", h, l)
	}

	p.HandleKey('L')
	if h, l := p.SampleForces(); h || !l {
		t.Errorf("sample after L = %v, %v; want false, true", h, l)
	}
}

func TestPanel_KnobSteps(t *testing.T) {
	p := NewPanel(1000, log.NewNoopLogger())

	p.HandleKey(KeyProbUp)
	if got := p.SampleProbabilityThreshold(); got != 1023 {
		t.Errorf("threshold = %d, want clamp to 1023", got)
	}

	for i := 0; i < 20; i++ {
		p.HandleKey(KeyProbDown)
	}
	if got := p.SampleProbabilityThreshold(); got != 0 {
		t.Errorf("threshold = %d, want clamp to 0", got)
	}

	p.HandleKey('x')
	if got := p.SampleProbabilityThreshold(); got != 0 {
		t.Errorf("unbound key moved the knob to %d", got)
	}
}

func TestPanel_StopWithoutStart(t *testing.T) {
	p := NewPanel(0, log.NewNoopLogger())
	if err := p.Stop(); err != nil {
		t.Errorf("Stop() = %v", err)
	}
}
