package dac

import (
	"context"
	"errors"
	"io"

	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
)

// Tee fans each code out to several sinks. Every sink is written even when
// an earlier one fails; the errors are joined.
type Tee struct {
	sinks []ports.DAC
}

// NewTee creates a fan-out over sinks.
func NewTee(sinks ...ports.DAC) *Tee {
	return &Tee{sinks: sinks}
}

// SendDacCode implements ports.DAC.
func (t *Tee) SendDacCode(ctx context.Context, code domain.VoltageCode) error {
	var errs []error
	for _, s := range t.sinks {
		if err := s.SendDacCode(ctx, code); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that implements io.Closer.
func (t *Tee) Close() error {
	var errs []error
	for _, s := range t.sinks {
		if c, ok := s.(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
