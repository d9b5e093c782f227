package dac

import (
	"context"

	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/internal/ports"
)

// Log writes every code to a logger at info level.
type Log struct {
	logger ports.Logger
	vref   int
}

// NewLog creates a logging sink. vrefMillivolts converts codes to the
// voltage the hardware would output.
func NewLog(logger ports.Logger, vrefMillivolts int) *Log {
	if vrefMillivolts <= 0 {
		vrefMillivolts = domain.DefaultVrefMillivolts
	}
	return &Log{logger: logger, vref: vrefMillivolts}
}

// SendDacCode implements ports.DAC.
func (l *Log) SendDacCode(_ context.Context, code domain.VoltageCode) error {
	l.logger.Info("cv",
		ports.Int("code", int(code)),
		ports.Int("mv", code.Millivolts(l.vref)),
	)
	return nil
}
