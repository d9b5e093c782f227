package dac

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/bft-labs/turingcv/internal/domain"
)

const (
	wavBitDepth  = 16
	wavPCMFormat = 1
)

// ErrClosed is returned when writing to a sink that has been closed.
var ErrClosed = errors.New("dac: sink closed")

// WAV renders the control voltage into a mono 16-bit WAV file. Each code is
// held for a fixed number of samples, so the file plays back as the stepped
// CV the hardware would produce at the configured clock rate.
type WAV struct {
	mu     sync.Mutex
	f      *os.File
	enc    *wav.Encoder
	buf    *audio.IntBuffer
	hold   int
	closed bool
}

// NewWAV creates path and prepares it for writing. hold is the number of
// samples each code occupies and is raised to at least 1.
func NewWAV(path string, sampleRate, hold int) (*WAV, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("wav: sample rate must be positive, got %d", sampleRate)
	}
	if hold < 1 {
		hold = 1
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wav: %w", err)
	}

	return &WAV{
		f:    f,
		enc:  wav.NewEncoder(f, sampleRate, wavBitDepth, 1, wavPCMFormat),
		hold: hold,
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
			Data:           make([]int, hold),
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

// SampleValue converts a 12-bit code to a non-negative 16-bit sample.
func SampleValue(code domain.VoltageCode) int {
	return int(code) << 3
}

// SendDacCode implements ports.DAC.
func (w *WAV) SendDacCode(_ context.Context, code domain.VoltageCode) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrClosed
	}

	v := SampleValue(code)
	for i := range w.buf.Data {
		w.buf.Data[i] = v
	}
	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}

// Close finalizes the WAV header and closes the file.
func (w *WAV) Close() (rerr error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	defer func() {
		if err := w.f.Close(); err != nil && rerr == nil {
			rerr = fmt.Errorf("wav: %w", err)
		}
	}()

	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("wav: %w", err)
	}
	return nil
}
