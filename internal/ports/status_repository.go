package ports

import (
	"context"

	"github.com/bft-labs/turingcv/internal/domain"
)

// StatusRepository persists status snapshots so they can be inspected while
// or after the machine runs. Snapshots are never used to restore the register.
type StatusRepository interface {
	// Load returns the last saved status, or a zero Status and nil error if
	// none exists.
	Load(ctx context.Context) (domain.Status, error)

	// Save persists the status atomically.
	Save(ctx context.Context, status domain.Status) error
}
