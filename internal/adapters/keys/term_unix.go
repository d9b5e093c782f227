//go:build !windows

package keys

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/term"

	"github.com/bft-labs/turingcv/internal/ports"
)

const ttyPath = "/dev/tty"

type terminal struct {
	mu sync.Mutex
	t  *term.Term
}

// Start puts the controlling terminal in cbreak mode and reads key presses
// until ctx is done or Stop is called.
func (p *Panel) Start(ctx context.Context) error {
	t, err := term.Open(ttyPath, term.CBreakMode)
	if err != nil {
		return fmt.Errorf("keys: open %s: %w", ttyPath, err)
	}
	p.term.mu.Lock()
	p.term.t = t
	p.term.mu.Unlock()

	go func() {
		buf := make([]byte, 1)
		for {
			n, err := t.Read(buf)
			if err != nil {
				if ctx.Err() == nil {
					p.logger.Debug("keyboard closed", ports.Err(err))
				}
				return
			}
			if n == 1 {
				p.HandleKey(buf[0])
			}
		}
	}()

	go func() {
		<-ctx.Done()
		_ = p.Stop()
	}()

	p.logger.Info("keyboard panel active",
		ports.String("force_high", string(rune(KeyForceHigh))),
		ports.String("force_low", string(rune(KeyForceLow))),
		ports.String("probability", "[ ]"),
	)
	return nil
}

// Stop restores the terminal mode and releases it. Safe to call repeatedly.
func (p *Panel) Stop() error {
	p.term.mu.Lock()
	t := p.term.t
	p.term.t = nil
	p.term.mu.Unlock()

	if t == nil {
		return nil
	}
	if err := t.Restore(); err != nil {
		_ = t.Close()
		return fmt.Errorf("keys: restore: %w", err)
	}
	return t.Close()
}
