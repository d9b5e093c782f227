package dac

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"

	"github.com/bft-labs/turingcv/internal/domain"
)

// MCP4921 configuration bits, upper nibble of the 16-bit command word.
const (
	mcpChannelB   = 1 << 15
	mcpBuffered   = 1 << 14
	mcpGain1x     = 1 << 13
	mcpActive     = 1 << 12
	mcpDataMask   = 0x0FFF
	mcpDefaultCfg = mcpGain1x | mcpActive
)

// CommandWord builds the MCP4921 write command for code: channel A,
// unbuffered reference, 1x gain, output enabled.
func CommandWord(code domain.VoltageCode) uint16 {
	return mcpDefaultCfg | uint16(code)&mcpDataMask
}

// MCP4921 writes one big-endian command word per code to an SPI device node
// or a capture file.
type MCP4921 struct {
	mu sync.Mutex
	w  io.Writer
}

// NewMCP4921 creates a sink writing to w. If w is an io.Closer, Close closes it.
func NewMCP4921(w io.Writer) *MCP4921 {
	return &MCP4921{w: w}
}

// SendDacCode implements ports.DAC.
func (m *MCP4921) SendDacCode(_ context.Context, code domain.VoltageCode) error {
	var frame [2]byte
	binary.BigEndian.PutUint16(frame[:], CommandWord(code))

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.w.Write(frame[:]); err != nil {
		return fmt.Errorf("mcp4921: %w", err)
	}
	return nil
}

// Close closes the underlying writer when it supports closing.
func (m *MCP4921) Close() error {
	if c, ok := m.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
