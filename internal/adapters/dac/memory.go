package dac

import (
	"context"
	"sync"

	"github.com/bft-labs/turingcv/internal/domain"
)

// Memory records every code it receives.
type Memory struct {
	mu    sync.Mutex
	codes []domain.VoltageCode
}

// NewMemory creates an empty recorder.
func NewMemory() *Memory {
	return &Memory{}
}

// SendDacCode implements ports.DAC.
func (m *Memory) SendDacCode(_ context.Context, code domain.VoltageCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codes = append(m.codes, code)
	return nil
}

// Codes returns a copy of the recorded codes in arrival order.
func (m *Memory) Codes() []domain.VoltageCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.VoltageCode(nil), m.codes...)
}

// Last returns the most recent code and whether one was recorded.
func (m *Memory) Last() (domain.VoltageCode, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.codes) == 0 {
		return 0, false
	}
	return m.codes[len(m.codes)-1], true
}
