package turingcv

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bft-labs/turingcv/internal/adapters/dac"
)

func TestRun_StopsAfterEdges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClockInterval = time.Millisecond
	cfg.Edges = 4
	cfg.ForceLow = true
	cfg.Seed = 0b11110000

	mem := dac.NewMemory()
	if err := Run(context.Background(), cfg, WithDAC(mem)); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	last, ok := mem.Last()
	if !ok || last != 0 {
		t.Errorf("last code = %d (%v), want 0 after four forced lows", last, ok)
	}
	if got := len(mem.Codes()); got != 5 {
		t.Errorf("DAC writes = %d, want 5", got)
	}
}

func TestRun_ReturnsOnCancel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ClockInterval = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg, WithDAC(dac.NewMemory())) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Encoder != "full" || cfg.ClockInterval != 250*time.Millisecond {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { SetLogLevel("info") })

	SetLogLevel("warn")
	if got := Logger().GetLevel(); got != zerolog.WarnLevel {
		t.Errorf("level = %v, want warn", got)
	}

	SetLogLevel("bogus")
	if got := Logger().GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("level = %v, want info for an unknown name", got)
	}
}
