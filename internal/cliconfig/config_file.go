package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
// Pointers distinguish an explicit zero from an absent key.
type FileConfig struct {
	Seed           *int     `toml:"seed"`
	Encoder        string   `toml:"encoder"`
	Feedback       string   `toml:"feedback"`
	Probability    *int     `toml:"probability"`
	ForceHigh      *bool    `toml:"force_high"`
	ForceLow       *bool    `toml:"force_low"`
	RandomSeed     *int64   `toml:"random_seed"`
	Vref           int      `toml:"vref_mv"`
	Clock          string   `toml:"clock"`
	Interval       string   `toml:"interval"`
	Edges          int      `toml:"edges"`
	DAC            []string `toml:"dac"`
	WAVFile        string   `toml:"wav_file"`
	WAVRate        int      `toml:"wav_rate"`
	WAVHold        string   `toml:"wav_hold"`
	SPIDevice      string   `toml:"spi_device"`
	PanelFile      string   `toml:"panel_file"`
	Keys           *bool    `toml:"keys"`
	StatusDir      string   `toml:"status_dir"`
	StatusInterval string   `toml:"status_interval"`
	LogLevel       string   `toml:"log_level"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.turingcv/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".turingcv", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("encoder", fc.Encoder, &cfg.Encoder)
	s.setString("feedback", fc.Feedback, &cfg.Feedback)
	s.setString("clock", fc.Clock, &cfg.Clock)
	s.setString("wav-file", fc.WAVFile, &cfg.WAVFile)
	s.setString("spi-device", fc.SPIDevice, &cfg.SPIDevice)
	s.setString("panel-file", fc.PanelFile, &cfg.PanelFile)
	s.setString("status-dir", fc.StatusDir, &cfg.StatusDir)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setStrings("dac", fc.DAC, &cfg.DACs)

	if err := s.setDuration("interval", fc.Interval, &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("wav-hold", fc.WAVHold, &cfg.WAVHold); err != nil {
		return err
	}
	if err := s.setDuration("status-interval", fc.StatusInterval, &cfg.StatusInterval); err != nil {
		return err
	}

	s.setIntPtr("seed", fc.Seed, &cfg.Seed)
	s.setIntPtr("probability", fc.Probability, &cfg.Probability)
	s.setInt64Ptr("random-seed", fc.RandomSeed, &cfg.RandomSeed)
	s.setInt("vref", fc.Vref, &cfg.Vref)
	s.setInt("edges", fc.Edges, &cfg.Edges)
	s.setInt("wav-rate", fc.WAVRate, &cfg.WAVRate)

	s.setBool("force-high", fc.ForceHigh, &cfg.ForceHigh)
	s.setBool("force-low", fc.ForceLow, &cfg.ForceLow)
	s.setBool("keys", fc.Keys, &cfg.Keys)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
