// Package random provides the uniform 10-bit draw used on every clock edge.
package random

import (
	"math/rand"
	"sync"
	"time"

	"github.com/bft-labs/turingcv/internal/domain"
)

// Source draws uniformly from [0, 1023]. A fixed seed makes the sequence
// reproducible; seed 0 seeds from the current time, the way the hardware
// seeds from a floating analog pin.
type Source struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// New creates a Source.
func New(seed int64) *Source {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{rnd: rand.New(rand.NewSource(seed))}
}

// SampleRandom implements ports.RandomSource.
func (s *Source) SampleRandom() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return uint16(s.rnd.Intn(domain.SampleMax + 1))
}
