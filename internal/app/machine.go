package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
)

// MachineConfig contains the static configuration of the edge handler.
type MachineConfig struct {
	Seed           domain.Register
	Encoder        domain.EncoderProfile
	Feedback       domain.FeedbackMode
	Pins           ports.ShiftRegisterPins
	VrefMillivolts int
}

// Machine handles clock edges. It owns the sequence engine and is the only
// writer of the register.
//
// Edge handling is non-reentrant: an edge that arrives while the previous
// one is still being processed is dropped with domain.ErrEdgeInProgress and
// never observes a partially updated register.
type Machine struct {
	config      MachineConfig
	engine      *domain.SequenceEngine
	encoder     domain.VoltageEncoder
	gpio        ports.GPIO
	dac         ports.DAC
	random      ports.RandomSource
	probability ports.ProbabilitySource
	forces      ports.ForceInputs
	logger      ports.Logger
	now         func() time.Time

	edgeMu sync.Mutex

	statusMu sync.RWMutex
	status   domain.Status
}

// NewMachine creates a machine with its register at config.Seed.
func NewMachine(
	config MachineConfig,
	gpio ports.GPIO,
	dac ports.DAC,
	random ports.RandomSource,
	probability ports.ProbabilitySource,
	forces ports.ForceInputs,
	logger ports.Logger,
) *Machine {
	if config.VrefMillivolts <= 0 {
		config.VrefMillivolts = domain.DefaultVrefMillivolts
	}
	if config.Feedback == "" {
		config.Feedback = domain.FeedbackInternal
	}
	encoder := domain.NewVoltageEncoder(config.Encoder)
	m := &Machine{
		config:      config,
		engine:      domain.NewSequenceEngine(config.Seed),
		encoder:     encoder,
		gpio:        gpio,
		dac:         dac,
		random:      random,
		probability: probability,
		forces:      forces,
		logger:      logger,
		now:         time.Now,
	}
	m.status = domain.Status{
		Seed:     uint8(config.Seed),
		Register: uint8(config.Seed),
		Bits:     config.Seed.String(),
		Encoder:  encoder.Profile().Name,
		Feedback: string(config.Feedback),
	}
	return m
}

// Prime restores the seed, clocks it into the shift register MSB first,
// latches it and sends its voltage code once.
func (m *Machine) Prime(ctx context.Context) error {
	m.edgeMu.Lock()
	defer m.edgeMu.Unlock()

	m.engine.Reset()
	seed := m.engine.Register()
	pins := m.config.Pins

	m.write(pins.Latch, false)
	for i := domain.RegisterBits - 1; i >= 0; i-- {
		m.clockBit(seed.Bit(uint(i)))
	}
	m.write(pins.Latch, true)

	code := m.encoder.Encode(seed)
	now := m.now()

	m.statusMu.Lock()
	m.status.Register = uint8(seed)
	m.status.Bits = seed.String()
	m.status.Code = uint16(code)
	m.status.Millivolts = code.Millivolts(m.config.VrefMillivolts)
	m.status.Edges = 0
	m.status.Dropped = 0
	m.status.LastSource = ""
	m.status.LastEdgeAt = time.Time{}
	m.status.StartedAt = now
	m.status.UpdatedAt = now
	m.statusMu.Unlock()

	m.logger.Info("primed",
		ports.Stringer("register", seed),
		ports.Int("code", int(code)),
		ports.String("encoder", m.encoder.Profile().Name),
		ports.String("feedback", string(m.config.Feedback)),
	)

	if err := m.dac.SendDacCode(ctx, code); err != nil {
		m.logger.Warn("dac write failed", ports.Err(err), ports.Int("code", int(code)))
		return fmt.Errorf("send dac code: %w", err)
	}
	return nil
}

// OnEdge samples the control inputs, advances the register, clocks the new
// bit into the shift register and sends exactly one DAC code.
//
// A DAC failure is returned wrapped, but the register update stands.
func (m *Machine) OnEdge(ctx context.Context) (domain.Edge, error) {
	if !m.edgeMu.TryLock() {
		m.statusMu.Lock()
		m.status.Dropped++
		m.statusMu.Unlock()
		return domain.Edge{}, domain.ErrEdgeInProgress
	}
	defer m.edgeMu.Unlock()

	at := m.now()
	pins := m.config.Pins

	m.write(pins.Latch, false)
	in := m.sample()
	step := m.engine.Advance(in)
	m.clockBit(step.Bit)
	m.write(pins.Latch, true)

	code := m.encoder.Encode(step.Next)

	m.statusMu.Lock()
	m.status.Edges++
	seq := m.status.Edges
	m.status.Register = uint8(step.Next)
	m.status.Bits = step.Next.String()
	m.status.Code = uint16(code)
	m.status.Millivolts = code.Millivolts(m.config.VrefMillivolts)
	m.status.LastSource = step.Source.String()
	m.status.LastEdgeAt = at
	m.status.UpdatedAt = at
	m.statusMu.Unlock()

	edge := domain.Edge{Seq: seq, At: at, Step: step, Code: code}

	m.logger.Debug("edge",
		ports.Uint64("seq", seq),
		ports.Stringer("register", step.Next),
		ports.Stringer("source", step.Source),
		ports.Int("probability", int(in.Probability)),
		ports.Int("draw", int(in.Random)),
		ports.Int("code", int(code)),
	)

	if err := m.dac.SendDacCode(ctx, code); err != nil {
		m.logger.Warn("dac write failed", ports.Err(err), ports.Int("code", int(code)))
		return edge, fmt.Errorf("send dac code: %w", err)
	}
	return edge, nil
}

// Snapshot returns a copy of the current status. Safe for concurrent use.
func (m *Machine) Snapshot() domain.Status {
	m.statusMu.RLock()
	defer m.statusMu.RUnlock()
	return m.status
}

// Register returns the register value as of the last completed edge.
func (m *Machine) Register() domain.Register {
	return domain.Register(m.Snapshot().Register)
}

func (m *Machine) sample() domain.ControlInputs {
	var high, low bool
	if m.forces != nil {
		high, low = m.forces.SampleForces()
	}
	in := domain.ControlInputs{
		ForceHigh:   high,
		ForceLow:    low,
		Probability: m.probability.SampleProbabilityThreshold(),
		Random:      m.random.SampleRandom(),
		Feedback:    m.feedback(),
	}
	return in.Clamped()
}

func (m *Machine) feedback() bool {
	internal := m.engine.Register().MSB()
	if m.config.Feedback != domain.FeedbackExternal {
		return internal
	}
	bit, err := m.gpio.ReadBit(m.config.Pins.SerialOut)
	if err != nil {
		m.logger.Warn("feedback read failed, using register top bit", ports.Err(err))
		return internal
	}
	return bit
}

// clockBit presents bit on the data pin, pulses the clock and returns the
// data pin low.
func (m *Machine) clockBit(bit bool) {
	pins := m.config.Pins
	m.write(pins.Data, bit)
	if err := m.gpio.PulseClock(pins.Clock); err != nil {
		m.logger.Warn("gpio pulse failed", ports.Int("pin", int(pins.Clock)), ports.Err(err))
	}
	m.write(pins.Data, false)
}

func (m *Machine) write(pin ports.Pin, level bool) {
	if err := m.gpio.WriteBit(pin, level); err != nil {
		m.logger.Warn("gpio write failed", ports.Int("pin", int(pin)), ports.Err(err))
	}
}
