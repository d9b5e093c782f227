package ports

import (
	"context"
	"time"
)

// Clock delivers rising clock edges. The returned channel is closed when the
// clock is exhausted or ctx is done. Edges carry no payload besides their
// arrival time.
type Clock interface {
	Edges(ctx context.Context) <-chan time.Time
}
