// Package panelwatcher drives the probability knob and force buttons from
// a TOML panel file. The file is re-read whenever it changes, so another
// process (or an editor) can play the module live.
//
//	probability = 512
//	force_high = false
//	force_low = false
package panelwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pelletier/go-toml/v2"

	"github.com/bft-labs/turingcv/internal/domain"
	"github.com/bft-labs/turingcv/pkg/log"
	"github.com/bft-labs/turingcv/pkg/turingcv"
)

// Panel is the content of the panel file.
type Panel struct {
	Probability int  `toml:"probability"`
	ForceHigh   bool `toml:"force_high"`
	ForceLow    bool `toml:"force_low"`
}

// Config holds configuration options for the panel watcher plugin.
type Config struct {
	// Path is the panel file. Required.
	Path string

	// DebounceDelay is the delay to wait after a file change before
	// re-reading it.
	// Default: 50 milliseconds
	DebounceDelay time.Duration
}

// DefaultConfig returns a Config for path with sensible defaults.
func DefaultConfig(path string) Config {
	return Config{
		Path:          path,
		DebounceDelay: 50 * time.Millisecond,
	}
}

// Plugin watches the panel file and serves its values as
// turingcv.ProbabilitySource and turingcv.ForceInputs.
type Plugin struct {
	mu sync.Mutex

	path          string
	debounceDelay time.Duration

	probability atomic.Uint32
	forceHigh   atomic.Bool
	forceLow    atomic.Bool
	reloads     atomic.Uint64

	logger   log.Logger
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	debounce *time.Timer
}

// New creates a panel watcher plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.DebounceDelay <= 0 {
		cfg.DebounceDelay = 50 * time.Millisecond
	}
	return &Plugin{
		path:          cfg.Path,
		debounceDelay: cfg.DebounceDelay,
		logger:        log.NewNoopLogger(),
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "panelwatcher"
}

// Initialize loads the panel file and starts watching it. A missing file
// is not an error: the panel starts at rest and picks the file up once it
// is created.
func (p *Plugin) Initialize(ctx context.Context, cfg turingcv.PluginConfig) error {
	if p.path == "" {
		return fmt.Errorf("%w: panel file path is empty", turingcv.ErrInvalidConfig)
	}
	if cfg.Logger != nil {
		p.logger = cfg.Logger
	}

	if err := p.reload(); err != nil && !os.IsNotExist(err) {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("panelwatcher: create watcher: %w", err)
	}
	// Editors replace files on save, so watch the directory.
	if err := watcher.Add(filepath.Dir(p.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("panelwatcher: watch %s: %w", filepath.Dir(p.path), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.watchLoop(watchCtx, watcher)

	p.logger.Info("panel watcher started", log.String("path", p.path))
	return nil
}

// Shutdown stops watching.
func (p *Plugin) Shutdown(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()

	p.mu.Lock()
	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.mu.Unlock()
	return nil
}

// SampleProbabilityThreshold implements turingcv.ProbabilitySource.
func (p *Plugin) SampleProbabilityThreshold() uint16 {
	return uint16(p.probability.Load())
}

// SampleForces implements turingcv.ForceInputs.
func (p *Plugin) SampleForces() (high, low bool) {
	return p.forceHigh.Load(), p.forceLow.Load()
}

// Panel returns the values currently in effect.
func (p *Plugin) Panel() Panel {
	high, low := p.SampleForces()
	return Panel{
		Probability: int(p.SampleProbabilityThreshold()),
		ForceHigh:   high,
		ForceLow:    low,
	}
}

// Reloads returns how many times the file has been applied.
func (p *Plugin) Reloads() uint64 {
	return p.reloads.Load()
}

func (p *Plugin) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer p.wg.Done()
	defer watcher.Close()

	name := filepath.Base(p.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			p.debounceReload(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			p.logger.Error("panel watcher error", log.Err(err))
		}
	}
}

func (p *Plugin) debounceReload(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounce != nil {
		p.debounce.Stop()
	}
	p.debounce = time.AfterFunc(p.debounceDelay, func() {
		if ctx.Err() != nil {
			return
		}
		if err := p.reload(); err != nil {
			p.logger.Warn("panel file ignored, keeping previous values",
				log.String("path", p.path), log.Err(err))
		}
	})
}

// reload reads and applies the panel file. On error nothing changes.
func (p *Plugin) reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return err
	}

	var panel Panel
	if err := toml.Unmarshal(data, &panel); err != nil {
		return fmt.Errorf("panelwatcher: parse %s: %w", p.path, err)
	}

	threshold := domain.ClampSample(panel.Probability)
	p.probability.Store(uint32(threshold))
	p.forceHigh.Store(panel.ForceHigh)
	p.forceLow.Store(panel.ForceLow)
	p.reloads.Add(1)

	p.logger.Info("panel loaded",
		log.Int("probability", int(threshold)),
		log.Bool("force_high", panel.ForceHigh),
		log.Bool("force_low", panel.ForceLow),
	)
	return nil
}

var (
	_ turingcv.Plugin            = (*Plugin)(nil)
	_ turingcv.ProbabilitySource = (*Plugin)(nil)
	_ turingcv.ForceInputs       = (*Plugin)(nil)
)
