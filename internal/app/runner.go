package app

import (
	"context"
	"errors"
	"time"

	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
)

// RunnerConfig contains configuration for the clock loop.
type RunnerConfig struct {
	// Edges stops the loop after this many clock edges have advanced the
	// register. Dropped edges do not count. Zero runs until the clock closes
	// or the context is canceled.
	Edges int

	// StatusInterval is how often the status snapshot is saved.
	StatusInterval time.Duration
}

// EdgeEmitter is called after every handled or dropped edge.
type EdgeEmitter interface {
	OnEdge(edge domain.Edge)
	OnEdgeDropped(dropped uint64)
}

// Runner drives a Machine from a Clock.
type Runner struct {
	config  RunnerConfig
	machine *Machine
	clock   ports.Clock
	status  ports.StatusRepository
	logger  ports.Logger
	emitter EdgeEmitter
}

// NewRunner creates a runner. status and emitter may be nil.
func NewRunner(
	config RunnerConfig,
	machine *Machine,
	clock ports.Clock,
	status ports.StatusRepository,
	logger ports.Logger,
	emitter EdgeEmitter,
) *Runner {
	return &Runner{
		config:  config,
		machine: machine,
		clock:   clock,
		status:  status,
		logger:  logger,
		emitter: emitter,
	}
}

// Run primes the machine and handles clock edges until the context is
// canceled, the clock closes or the configured edge count is reached.
// The status snapshot is saved periodically and once more on return.
func (r *Runner) Run(ctx context.Context) error {
	// A failed DAC write is not fatal; the driver owns that failure.
	_ = r.machine.Prime(ctx)
	r.saveStatus(ctx)
	defer r.saveStatus(context.Background())

	var flush <-chan time.Time
	if r.status != nil && r.config.StatusInterval > 0 {
		ticker := time.NewTicker(r.config.StatusInterval)
		defer ticker.Stop()
		flush = ticker.C
	}

	edges := r.clock.Edges(ctx)
	handled := 0

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-flush:
			r.saveStatus(ctx)

		case _, ok := <-edges:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				r.logger.Info("clock stopped", ports.Int("edges", handled))
				return nil
			}

			if _, err := r.Trigger(ctx); errors.Is(err, domain.ErrEdgeInProgress) {
				continue
			}
			handled++

			if r.config.Edges > 0 && handled >= r.config.Edges {
				r.logger.Info("edge limit reached", ports.Int("edges", handled))
				return nil
			}
		}
	}
}

// Trigger handles one edge and emits the matching event. It is safe to call
// concurrently with Run; overlapping edges are dropped.
func (r *Runner) Trigger(ctx context.Context) (domain.Edge, error) {
	edge, err := r.machine.OnEdge(ctx)
	if errors.Is(err, domain.ErrEdgeInProgress) {
		dropped := r.machine.Snapshot().Dropped
		r.logger.Debug("edge dropped", ports.Uint64("dropped", dropped))
		if r.emitter != nil {
			r.emitter.OnEdgeDropped(dropped)
		}
		return edge, err
	}

	if r.emitter != nil {
		r.emitter.OnEdge(edge)
	}
	return edge, err
}

func (r *Runner) saveStatus(ctx context.Context) {
	if r.status == nil {
		return
	}
	if err := r.status.Save(ctx, r.machine.Snapshot()); err != nil {
		r.logger.Error("failed to save status", ports.Err(err))
	}
}
