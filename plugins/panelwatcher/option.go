package panelwatcher

import "github.com/bft-labs/turingcv/pkg/turingcv"

// WithPanelWatcher returns a turingcv Option that reads the probability
// knob and force buttons from a panel file. It replaces any probability
// source or force inputs set earlier.
//
// Usage:
//
//	tm, err := turingcv.New(cfg,
//	    panelwatcher.WithPanelWatcher(panelwatcher.DefaultConfig("panel.toml")),
//	)
func WithPanelWatcher(cfg Config) turingcv.Option {
	p := New(cfg)
	return turingcv.WithOptions(
		turingcv.WithPlugin(p),
		turingcv.WithProbabilitySource(p),
		turingcv.WithForceInputs(p),
	)
}
