package turingcv

import "github.com/bft-labs/turingcv/pkg/log"

// Option configures optional behavior of TuringCV.
type Option func(*options)

// options holds the optional dependencies of an instance. Nil fields are
// replaced with defaults built from Config.
type options struct {
	logger       Logger
	gpio         GPIO
	dac          DAC
	clock        Clock
	random       RandomSource
	probability  ProbabilitySource
	forces       ForceInputs
	status       StatusRepository
	eventHandler EventHandler
	plugins      []Plugin
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithGPIO sets the pin driver for the shift register.
// Default: an in-memory 74HC595 simulation.
func WithGPIO(gpio GPIO) Option {
	return func(o *options) {
		o.gpio = gpio
	}
}

// WithDAC sets the DAC that receives one code per edge. The caller owns it
// and closes it after the instance stops.
// Default: a DAC that logs every code at info level.
func WithDAC(dac DAC) Option {
	return func(o *options) {
		o.dac = dac
	}
}

// WithClock sets the edge source. Default: a ticker at Config.ClockInterval.
func WithClock(clock Clock) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithRandomSource sets the random draw source.
// Default: math/rand seeded with Config.RandomSeed.
func WithRandomSource(src RandomSource) Option {
	return func(o *options) {
		o.random = src
	}
}

// WithProbabilitySource sets the probability knob.
// Default: a fixed knob at Config.Probability.
func WithProbabilitySource(src ProbabilitySource) Option {
	return func(o *options) {
		o.probability = src
	}
}

// WithForceInputs sets the force buttons.
// Default: buttons held at Config.ForceHigh and Config.ForceLow.
func WithForceInputs(src ForceInputs) Option {
	return func(o *options) {
		o.forces = src
	}
}

// WithStatusRepository sets where status snapshots are saved.
// Default: status.json in Config.StatusDir, or none when it is empty.
func WithStatusRepository(repo StatusRepository) Option {
	return func(o *options) {
		o.status = repo
	}
}

// WithEventHandler sets a handler for instance events.
// If not provided, no events are emitted.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized when the instance starts.
// Plugins are initialized in registration order and shut down in reverse.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		o.plugins = append(o.plugins, plugin)
	}
}

// WithOptions combines several options into one, for plugins that need to
// register themselves and replace a port at the same time.
func WithOptions(opts ...Option) Option {
	return func(o *options) {
		for _, opt := range opts {
			opt(o)
		}
	}
}
