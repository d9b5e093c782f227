package ports

import (
	"context"

	"github.com/bft-labs/turingcv/internal/domain"
)

// DAC receives the voltage code computed for each clock edge.
// Write failures are the driver's concern; the machine logs them and moves on.
type DAC interface {
	SendDacCode(ctx context.Context, code domain.VoltageCode) error
}
