//go:build windows

package keys

import (
	"context"
	"errors"
)

type terminal struct{}

// Start is not supported on Windows.
func (p *Panel) Start(ctx context.Context) error {
	return errors.New("keys: keyboard panel is not supported on windows")
}

// Stop is a no-op on Windows.
func (p *Panel) Stop() error {
	return nil
}
