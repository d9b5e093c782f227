package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bft-labs/turingcv/internal/adapters/controls"
	"github.com/bft-labs/turingcv/internal/adapters/dac"
	"github.com/bft-labs/turingcv/internal/adapters/random"
	"github.com/bft-labs/turingcv/internal/adapters/shiftreg"
	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
)

// fixedDraw always returns the same random draw.
type fixedDraw uint16

func (f fixedDraw) SampleRandom() uint16 { return uint16(f) }

// sliceClock delivers n edges and then closes.
type sliceClock struct{ n int }

func (c sliceClock) Edges(ctx context.Context) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		for i := 0; i < c.n; i++ {
			select {
			case out <- time.Now():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// blockingDAC blocks every write until release is closed.
type blockingDAC struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingDAC() *blockingDAC {
	return &blockingDAC{entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingDAC) SendDacCode(ctx context.Context, code domain.VoltageCode) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return nil
}

type failingDAC struct{}

var errDAC = errors.New("spi bus fault")

func (failingDAC) SendDacCode(context.Context, domain.VoltageCode) error { return errDAC }

// brokenGPIO accepts writes but cannot read.
type brokenGPIO struct{}

func (brokenGPIO) WriteBit(ports.Pin, bool) error  { return nil }
func (brokenGPIO) PulseClock(ports.Pin) error      { return nil }
func (brokenGPIO) ReadBit(ports.Pin) (bool, error) { return false, errors.New("pin floating") }

// memoryStatus keeps the last saved status.
type memoryStatus struct {
	mu    sync.Mutex
	saves int
	last  domain.Status
}

func (m *memoryStatus) Load(context.Context) (domain.Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last, nil
}

func (m *memoryStatus) Save(_ context.Context, s domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.last = s
	return nil
}

// edgeRecorder implements EdgeEmitter.
type edgeRecorder struct {
	mu      sync.Mutex
	edges   []domain.Edge
	dropped []uint64
}

func (r *edgeRecorder) OnEdge(e domain.Edge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edges = append(r.edges, e)
}

func (r *edgeRecorder) OnEdgeDropped(n uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dropped = append(r.dropped, n)
}

type rig struct {
	machine *Machine
	reg     *shiftreg.Register
	mem     *dac.Memory
	buttons *controls.Buttons
	knob    *controls.Knob
}

func newRig(seed domain.Register, feedback domain.FeedbackMode, rnd ports.RandomSource) rig {
	pins := ports.DefaultShiftRegisterPins()
	r := rig{
		reg:     shiftreg.New(pins),
		mem:     dac.NewMemory(),
		buttons: controls.NewButtons(false, false),
		knob:    controls.NewKnob(0),
	}
	if rnd == nil {
		rnd = random.New(1)
	}
	r.machine = NewMachine(MachineConfig{
		Seed:     seed,
		Encoder:  domain.ProfileFull,
		Feedback: feedback,
		Pins:     pins,
	}, r.reg, r.mem, rnd, r.knob, r.buttons, &mockLogger{})
	return r
}

// chanClock hands out the edges the test sends on c.
type chanClock struct{ c chan time.Time }

func (k chanClock) Edges(context.Context) <-chan time.Time { return k.c }

// gateDAC passes writes through until hold is called; the next write then
// blocks until the returned release channel is closed.
type gateDAC struct {
	mu      sync.Mutex
	writes  int
	entered chan struct{}
	release chan struct{}
}

func (g *gateDAC) hold() (entered <-chan struct{}, release chan struct{}) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.entered = make(chan struct{})
	g.release = make(chan struct{})
	return g.entered, g.release
}

func (g *gateDAC) SendDacCode(ctx context.Context, code domain.VoltageCode) error {
	g.mu.Lock()
	g.writes++
	entered, release := g.entered, g.release
	g.entered, g.release = nil, nil
	g.mu.Unlock()

	if entered != nil {
		close(entered)
		<-release
	}
	return nil
}

func (g *gateDAC) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.writes
}
