// Package turingcv runs a "Turing Machine" style random looping sequencer.
//
// Example usage:
//
//	cfg := turingcv.DefaultConfig()
//	cfg.Seed = 0b10110010
//	cfg.Probability = 128
//	if err := turingcv.Run(ctx, cfg, turingcv.WithDAC(myDAC)); err != nil {
//	    log.Fatal(err)
//	}
//
// For lifecycle control, events and plugins use the library in
// github.com/bft-labs/turingcv/pkg/turingcv directly.
package turingcv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/bft-labs/turingcv/pkg/log"
	lib "github.com/bft-labs/turingcv/pkg/turingcv"
)

// Config holds the sequencer configuration.
type Config = lib.Config

// Option configures optional dependencies.
type Option = lib.Option

// Option constructors re-exported for convenience.
var (
	WithLogger            = lib.WithLogger
	WithDAC               = lib.WithDAC
	WithGPIO              = lib.WithGPIO
	WithClock             = lib.WithClock
	WithRandomSource      = lib.WithRandomSource
	WithProbabilitySource = lib.WithProbabilitySource
	WithForceInputs       = lib.WithForceInputs
	WithStatusRepository  = lib.WithStatusRepository
	WithEventHandler      = lib.WithEventHandler
	WithPlugin            = lib.WithPlugin
	WithOptions           = lib.WithOptions
)

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

// Run starts the sequencer and blocks until ctx is canceled, the clock
// closes or Config.Edges edges have been handled. It logs through Logger()
// unless opts carry WithLogger.
func Run(ctx context.Context, cfg Config, opts ...Option) error {
	opts = append([]Option{WithLogger(log.NewZerologAdapterWithLogger(Logger()))}, opts...)
	tm, err := lib.New(cfg, opts...)
	if err != nil {
		return err
	}
	if err := tm.Start(ctx); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
	case <-tm.Done():
	}

	crashed := tm.Status() == lib.StateCrashed
	if err := tm.Stop(); err != nil && !errors.Is(err, lib.ErrNotRunning) {
		return err
	}
	if crashed {
		return fmt.Errorf("turingcv: clock loop crashed")
	}
	return nil
}

var (
	loggerMu sync.RWMutex
	logger   = log.NewConsoleLogger(os.Stderr, "info")
)

// SetLogLevel rebuilds the package-level logger at level (debug, info, warn
// or error).
func SetLogLevel(level string) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = log.NewConsoleLogger(os.Stderr, level)
}

// Logger returns the package-level zerolog logger used by Run and the
// turingcv command.
func Logger() zerolog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}
