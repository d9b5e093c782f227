package turingcv

import (
	"fmt"
	"time"

	"github.com/bft-labs/turingcv/internal/app"
	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
)

// Default values applied by Config.SetDefaults.
const (
	DefaultClockInterval  = 250 * time.Millisecond
	DefaultProbability    = 0
	DefaultStatusInterval = 5 * time.Second
	DefaultEncoder        = "full"
	DefaultFeedback       = "internal"
)

// Config holds the configuration of a TuringCV instance.
type Config struct {
	// Seed is the register value at startup and after every restart.
	Seed uint8

	// Encoder names the register to voltage code profile: "full",
	// "hardware" or "linear". Default: "full".
	Encoder string

	// Feedback selects where the recirculated bit comes from: "internal"
	// uses the register top bit, "external" reads the shift register
	// serial output pin. Default: "internal".
	Feedback string

	// ClockInterval is the period of the built-in clock. Ignored when a
	// clock is supplied with WithClock. Default: 250ms.
	ClockInterval time.Duration

	// Probability is the initial probability threshold in [0, 1023] used
	// when no ProbabilitySource is supplied. 0 never flips the feedback bit,
	// 1023 almost always does.
	Probability int

	// ForceHigh and ForceLow hold the force buttons when no ForceInputs is
	// supplied. ForceHigh wins when both are set.
	ForceHigh bool
	ForceLow  bool

	// RandomSeed seeds the default random source. Zero seeds from the
	// current time.
	RandomSeed int64

	// Edges stops the instance after this many clock edges have advanced
	// the register. Dropped edges are not counted. Zero is unlimited.
	Edges int

	// StatusDir is where status.json is written. Empty disables the
	// status file unless WithStatusRepository is used.
	StatusDir string

	// StatusInterval is how often the status snapshot is saved.
	// Default: 5s.
	StatusInterval time.Duration

	// VrefMillivolts is the DAC reference used to report output voltage.
	// Default: 5000.
	VrefMillivolts int

	// Pins maps the shift register lines. Default: data 4, latch 5,
	// clock 6, serial out 12.
	Pins Pins
}

// SetDefaults fills zero values with defaults.
func (c *Config) SetDefaults() {
	if c.Encoder == "" {
		c.Encoder = DefaultEncoder
	}
	if c.Feedback == "" {
		c.Feedback = DefaultFeedback
	}
	if c.ClockInterval == 0 {
		c.ClockInterval = DefaultClockInterval
	}
	if c.StatusInterval == 0 {
		c.StatusInterval = DefaultStatusInterval
	}
	if c.VrefMillivolts == 0 {
		c.VrefMillivolts = domain.DefaultVrefMillivolts
	}
	if c.Pins == (Pins{}) {
		c.Pins = ports.DefaultShiftRegisterPins()
	}
}

// Validate checks the configuration. Errors wrap ErrInvalidConfig or
// ErrUnknownEncoder.
func (c *Config) Validate() error {
	if _, err := domain.LookupEncoderProfile(c.Encoder); err != nil {
		return err
	}
	if _, err := domain.ParseFeedbackMode(c.Feedback); err != nil {
		return err
	}
	if c.ClockInterval <= 0 {
		return fmt.Errorf("%w: clock interval must be positive", ErrInvalidConfig)
	}
	if c.Probability < 0 || c.Probability > domain.SampleMax {
		return fmt.Errorf("%w: probability %d out of range [0, %d]", ErrInvalidConfig, c.Probability, domain.SampleMax)
	}
	if c.Edges < 0 {
		return fmt.Errorf("%w: edges must not be negative", ErrInvalidConfig)
	}
	if c.StatusInterval <= 0 {
		return fmt.Errorf("%w: status interval must be positive", ErrInvalidConfig)
	}
	if c.VrefMillivolts <= 0 {
		return fmt.Errorf("%w: vref must be positive", ErrInvalidConfig)
	}

	p := c.Pins
	seen := map[Pin]string{}
	for _, pin := range []struct {
		name string
		pin  Pin
	}{
		{"data", p.Data},
		{"latch", p.Latch},
		{"clock", p.Clock},
		{"serial-out", p.SerialOut},
	} {
		if other, ok := seen[pin.pin]; ok {
			return fmt.Errorf("%w: %s pin %d already used by %s", ErrInvalidConfig, pin.name, pin.pin, other)
		}
		seen[pin.pin] = pin.name
	}
	return nil
}

func (c Config) machineConfig() app.MachineConfig {
	profile, _ := domain.LookupEncoderProfile(c.Encoder)
	feedback, _ := domain.ParseFeedbackMode(c.Feedback)
	return app.MachineConfig{
		Seed:           domain.Register(c.Seed),
		Encoder:        profile,
		Feedback:       feedback,
		Pins:           c.Pins,
		VrefMillivolts: c.VrefMillivolts,
	}
}
