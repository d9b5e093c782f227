// Package clock provides ports.Clock implementations: a free-running
// internal ticker and a line clock that turns each input line into an edge.
package clock

import (
	"bufio"
	"context"
	"io"
	"time"
)

// Ticker emits an edge every interval.
type Ticker struct {
	interval time.Duration
}

// NewTicker creates a free-running clock.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{interval: interval}
}

// Edges implements ports.Clock. Edges that the consumer is not ready for are
// dropped by the underlying time.Ticker rather than queued.
func (t *Ticker) Edges(ctx context.Context) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		ticker := time.NewTicker(t.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				select {
				case out <- now:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// Lines emits one edge per line read from r and closes at EOF. It lets an
// external sequencer or a shell pipe drive the machine.
type Lines struct {
	r io.Reader
}

// NewLines creates a line clock reading from r.
func NewLines(r io.Reader) *Lines {
	return &Lines{r: r}
}

// Edges implements ports.Clock.
func (l *Lines) Edges(ctx context.Context) <-chan time.Time {
	out := make(chan time.Time)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(l.r)
		for sc.Scan() {
			select {
			case out <- time.Now():
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
