package cliconfig

import (
	"os"
	"strings"
)

// ApplyEnvConfig applies configuration from environment variables (TURINGCV_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("encoder", os.Getenv("TURINGCV_ENCODER"), &cfg.Encoder)
	s.setString("feedback", os.Getenv("TURINGCV_FEEDBACK"), &cfg.Feedback)
	s.setString("clock", os.Getenv("TURINGCV_CLOCK"), &cfg.Clock)
	s.setString("wav-file", os.Getenv("TURINGCV_WAV_FILE"), &cfg.WAVFile)
	s.setString("spi-device", os.Getenv("TURINGCV_SPI_DEVICE"), &cfg.SPIDevice)
	s.setString("panel-file", os.Getenv("TURINGCV_PANEL_FILE"), &cfg.PanelFile)
	s.setString("status-dir", os.Getenv("TURINGCV_STATUS_DIR"), &cfg.StatusDir)
	s.setString("log-level", os.Getenv("TURINGCV_LOG_LEVEL"), &cfg.LogLevel)

	if v := os.Getenv("TURINGCV_DAC"); v != "" {
		s.setStrings("dac", strings.Split(v, ","), &cfg.DACs)
	}

	if err := s.setDuration("interval", os.Getenv("TURINGCV_INTERVAL"), &cfg.Interval); err != nil {
		return err
	}
	if err := s.setDuration("wav-hold", os.Getenv("TURINGCV_WAV_HOLD"), &cfg.WAVHold); err != nil {
		return err
	}
	if err := s.setDuration("status-interval", os.Getenv("TURINGCV_STATUS_INTERVAL"), &cfg.StatusInterval); err != nil {
		return err
	}

	if err := s.setIntFromString("seed", os.Getenv("TURINGCV_SEED"), &cfg.Seed); err != nil {
		return err
	}
	if err := s.setIntFromString("probability", os.Getenv("TURINGCV_PROBABILITY"), &cfg.Probability); err != nil {
		return err
	}
	if err := s.setIntFromString("edges", os.Getenv("TURINGCV_EDGES"), &cfg.Edges); err != nil {
		return err
	}
	if err := s.setIntFromString("wav-rate", os.Getenv("TURINGCV_WAV_RATE"), &cfg.WAVRate); err != nil {
		return err
	}
	if err := s.setIntFromString("vref", os.Getenv("TURINGCV_VREF"), &cfg.Vref); err != nil {
		return err
	}
	if err := s.setInt64FromString("random-seed", os.Getenv("TURINGCV_RANDOM_SEED"), &cfg.RandomSeed); err != nil {
		return err
	}

	s.setBoolFromString("force-high", os.Getenv("TURINGCV_FORCE_HIGH"), &cfg.ForceHigh)
	s.setBoolFromString("force-low", os.Getenv("TURINGCV_FORCE_LOW"), &cfg.ForceLow)
	s.setBoolFromString("keys", os.Getenv("TURINGCV_KEYS"), &cfg.Keys)

	return nil
}
