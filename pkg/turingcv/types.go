package turingcv

import (
	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
	"github.com/bft-labs/turingcv/pkg/log"
)

// Core value types.
type (
	// Register is the 8-bit sequence register.
	Register = domain.Register

	// VoltageCode is a 12-bit DAC input code in [0, 4095].
	VoltageCode = domain.VoltageCode

	// Status is a point-in-time snapshot of a running instance.
	Status = domain.Status

	// Edge is the outcome of one handled clock edge.
	Edge = domain.Edge

	// Pin identifies a digital line.
	Pin = ports.Pin

	// Pins maps the shift register lines to pins.
	Pins = ports.ShiftRegisterPins
)

// Hardware and control ports. Implement these to drive real hardware.
type (
	GPIO              = ports.GPIO
	DAC               = ports.DAC
	Clock             = ports.Clock
	RandomSource      = ports.RandomSource
	ProbabilitySource = ports.ProbabilitySource
	ForceInputs       = ports.ForceInputs
	StatusRepository  = ports.StatusRepository
)

// Logger is the interface for structured logging.
type Logger = log.Logger

// LogField is a structured log field.
type LogField = log.Field

// Errors returned by the public API. Check them with errors.Is.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrUnknownEncoder  = domain.ErrUnknownEncoder
	ErrEdgeInProgress  = domain.ErrEdgeInProgress
)

// EncoderNames returns the names of the available encoder profiles.
func EncoderNames() []string {
	return domain.EncoderProfileNames()
}
