package turingcv

import (
	"context"
	"errors"
	"sync"

	"github.com/bft-labs/turingcv/internal/adapters/clock"
	"github.com/bft-labs/turingcv/internal/adapters/controls"
	"github.com/bft-labs/turingcv/internal/adapters/dac"
	"github.com/bft-labs/turingcv/internal/adapters/fs"
	"github.com/bft-labs/turingcv/internal/adapters/random"
	"github.com/bft-labs/turingcv/internal/adapters/shiftreg"
	"github.com/bft-labs/turingcv/internal/app"
	"github.com/bft-labs/turingcv/internal/ports"
)

// TuringCV is a sequence generator that can be embedded in other
// applications. Use New to create an instance, then Start to begin
// handling clock edges.
type TuringCV struct {
	config    Config
	lifecycle *app.Lifecycle
	machine   *app.Machine
	runner    *app.Runner
	logger    ports.Logger

	plugins []Plugin

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	teardown *sync.Once
}

// New creates an instance with the given configuration.
// The instance is created in StateStopped; call Start to begin.
// Returns an error if the configuration is invalid.
func New(cfg Config, opts ...Option) (*TuringCV, error) {
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = defaultOptions().logger
	}

	emitter := &eventEmitterWrapper{handler: o.eventHandler}
	lifecycle := app.NewLifecycle(logger, emitter)

	if o.gpio == nil {
		o.gpio = shiftreg.New(cfg.Pins)
	}
	if o.dac == nil {
		o.dac = dac.NewLog(logger, cfg.VrefMillivolts)
	}
	if o.clock == nil {
		o.clock = clock.NewTicker(cfg.ClockInterval)
	}
	if o.random == nil {
		o.random = random.New(cfg.RandomSeed)
	}
	if o.probability == nil {
		o.probability = controls.NewKnob(cfg.Probability)
	}
	if o.forces == nil {
		o.forces = controls.NewButtons(cfg.ForceHigh, cfg.ForceLow)
	}
	if o.status == nil && cfg.StatusDir != "" {
		o.status = fs.NewStatusFileRepository(cfg.StatusDir)
	}

	machine := app.NewMachine(cfg.machineConfig(), o.gpio, o.dac, o.random, o.probability, o.forces, logger)

	runnerCfg := app.RunnerConfig{
		Edges:          cfg.Edges,
		StatusInterval: cfg.StatusInterval,
	}
	runner := app.NewRunner(runnerCfg, machine, o.clock, o.status, logger, emitter)

	done := make(chan struct{})
	close(done)

	return &TuringCV{
		config:    cfg,
		lifecycle: lifecycle,
		machine:   machine,
		runner:    runner,
		logger:    logger,
		plugins:   o.plugins,
		done:      done,
		teardown:  &sync.Once{},
	}, nil
}

// Start primes the register and begins handling clock edges in the
// background. It returns once the clock goroutine is launched.
// The provided context bounds the lifetime of the run.
func (t *TuringCV) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.lifecycle.CanStart() {
		return ErrAlreadyRunning
	}

	if err := t.lifecycle.TransitionTo(app.StateStarting, "Start() called"); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.lifecycle.SetCancel(cancel)
	t.teardown = &sync.Once{}

	pluginCfg := PluginConfig{Config: t.config, Logger: t.logger}
	for i, p := range t.plugins {
		if err := p.Initialize(runCtx, pluginCfg); err != nil {
			t.logger.Error("plugin initialization failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
			t.shutdownPlugins(t.plugins[:i])
			cancel()
			_ = t.lifecycle.TransitionTo(app.StateCrashed, "plugin init failed: "+p.Name())
			return err
		}
		t.logger.Info("plugin initialized", ports.String("plugin", p.Name()))
	}

	done := make(chan struct{})
	t.done = done
	teardown := t.teardown

	t.lifecycle.AddWorker()
	go func() {
		defer t.lifecycle.WorkerDone()
		defer close(done)

		if err := t.lifecycle.TransitionTo(app.StateRunning, "clock starting"); err != nil {
			t.logger.Error("failed to transition to running", ports.Err(err))
			return
		}

		err := t.runner.Run(runCtx)

		switch {
		case err != nil && !errors.Is(err, context.Canceled):
			t.logger.Error("clock loop error", ports.Err(err))
			teardown.Do(func() { t.shutdownPlugins(t.plugins) })
			_ = t.lifecycle.TransitionTo(app.StateCrashed, err.Error())
		case err == nil && t.lifecycle.State() == app.StateRunning:
			teardown.Do(func() { t.shutdownPlugins(t.plugins) })
			_ = t.lifecycle.TransitionTo(app.StateStopped, "clock finished")
		}
	}()

	return nil
}

// Stop cancels the clock loop, waits for it to finish and shuts down
// plugins. Returns ErrShutdownTimeout if the loop does not finish in time.
func (t *TuringCV) Stop() error {
	t.mu.Lock()

	if !t.lifecycle.CanStop() {
		t.mu.Unlock()
		return ErrNotRunning
	}

	if err := t.lifecycle.TransitionTo(app.StateStopping, "Stop() called"); err != nil {
		t.mu.Unlock()
		return err
	}

	if t.cancel != nil {
		t.cancel()
	}
	teardown := t.teardown

	t.mu.Unlock()

	err := t.lifecycle.WaitWithTimeout(app.ShutdownTimeout)

	teardown.Do(func() { t.shutdownPlugins(t.plugins) })

	if err != nil {
		_ = t.lifecycle.TransitionTo(app.StateCrashed, "shutdown timeout")
	} else {
		_ = t.lifecycle.TransitionTo(app.StateStopped, "graceful shutdown")
	}

	return err
}

// Status returns the current lifecycle state.
// Safe to call concurrently from any goroutine.
func (t *TuringCV) Status() State {
	return convertState(t.lifecycle.State())
}

// Snapshot returns the current register, voltage code and edge counters.
// Safe to call concurrently from any goroutine.
func (t *TuringCV) Snapshot() Status {
	return t.machine.Snapshot()
}

// Trigger handles one clock edge immediately, for callers that dispatch
// their own edges such as a GPIO interrupt. It returns ErrEdgeInProgress
// when another edge is being handled and ErrNotRunning before Start.
func (t *TuringCV) Trigger(ctx context.Context) (Edge, error) {
	if t.lifecycle.State() != app.StateRunning {
		return Edge{}, ErrNotRunning
	}
	return t.runner.Trigger(ctx)
}

// Done returns a channel that is closed when the clock loop of the current
// run exits. Before the first Start it is already closed.
func (t *TuringCV) Done() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

func (t *TuringCV) shutdownPlugins(plugins []Plugin) {
	ctx := context.Background()
	for i := len(plugins) - 1; i >= 0; i-- {
		p := plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			t.logger.Error("plugin shutdown failed",
				ports.String("plugin", p.Name()),
				ports.Err(err))
		} else {
			t.logger.Info("plugin shutdown complete", ports.String("plugin", p.Name()))
		}
	}
}
