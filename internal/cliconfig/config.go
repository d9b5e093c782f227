package cliconfig

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bft-labs/turingcv/pkg/turingcv"
)

// Clock sources.
const (
	ClockInternal = "internal"
	ClockStdin    = "stdin"
)

// DAC sinks.
const (
	DACLog     = "log"
	DACWAV     = "wav"
	DACMCP4921 = "mcp4921"
)

// Config holds CLI configuration for turingcv.
type Config struct {
	Seed        int
	Encoder     string
	Feedback    string
	Probability int
	ForceHigh   bool
	ForceLow    bool
	RandomSeed  int64
	Vref        int

	Clock    string
	Interval time.Duration
	Edges    int

	DACs      []string
	WAVFile   string
	WAVRate   int
	WAVHold   time.Duration
	SPIDevice string

	PanelFile string
	Keys      bool

	StatusDir      string
	StatusInterval time.Duration

	LogLevel string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Encoder:        turingcv.DefaultEncoder,
		Feedback:       turingcv.DefaultFeedback,
		Vref:           5000,
		Clock:          ClockInternal,
		Interval:       turingcv.DefaultClockInterval,
		DACs:           []string{DACLog},
		WAVRate:        8000,
		StatusInterval: turingcv.DefaultStatusInterval,
		LogLevel:       "info",
	}
}

// Validate checks the options that only the CLI knows about and normalizes
// list values. Machine options are checked again by turingcv.New.
func (c *Config) Validate() error {
	if c.Seed < 0 || c.Seed > 255 {
		return fmt.Errorf("seed %d out of range [0, 255]", c.Seed)
	}

	switch c.Clock {
	case ClockInternal, ClockStdin:
	default:
		return fmt.Errorf("clock must be %q or %q, got %q", ClockInternal, ClockStdin, c.Clock)
	}
	if c.Clock == ClockInternal && c.Interval <= 0 {
		return fmt.Errorf("interval must be positive")
	}

	c.DACs = splitList(c.DACs)
	if len(c.DACs) == 0 {
		return fmt.Errorf("at least one dac is required")
	}
	for _, d := range c.DACs {
		switch d {
		case DACLog:
		case DACWAV:
			if c.WAVFile == "" {
				return fmt.Errorf("dac wav requires wav-file")
			}
			if c.WAVRate <= 0 {
				return fmt.Errorf("wav-rate must be positive")
			}
		case DACMCP4921:
			if c.SPIDevice == "" {
				return fmt.Errorf("dac mcp4921 requires spi-device")
			}
		default:
			return fmt.Errorf("unknown dac %q", d)
		}
	}
	if c.WAVHold < 0 {
		return fmt.Errorf("wav-hold must not be negative")
	}
	// A stdin clock has no period to hold each code for.
	if c.HasDAC(DACWAV) && c.Clock == ClockStdin && c.WAVHold == 0 {
		return fmt.Errorf("dac wav with the stdin clock requires wav-hold")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log-level must be debug, info, warn or error, got %q", c.LogLevel)
	}

	return nil
}

// Library converts the CLI configuration to the library configuration.
func (c Config) Library() turingcv.Config {
	return turingcv.Config{
		Seed:           uint8(c.Seed),
		Encoder:        c.Encoder,
		Feedback:       c.Feedback,
		ClockInterval:  c.Interval,
		Probability:    c.Probability,
		ForceHigh:      c.ForceHigh,
		ForceLow:       c.ForceLow,
		RandomSeed:     c.RandomSeed,
		Edges:          c.Edges,
		StatusDir:      c.StatusDir,
		StatusInterval: c.StatusInterval,
		VrefMillivolts: c.Vref,
	}
}

// WAVHoldDuration is how long each code lasts in the WAV trace: WAVHold
// when set, otherwise one internal clock period.
func (c Config) WAVHoldDuration() time.Duration {
	if c.WAVHold > 0 {
		return c.WAVHold
	}
	return c.Interval
}

// HasDAC reports whether the named sink is enabled.
func (c Config) HasDAC(name string) bool {
	for _, d := range c.DACs {
		if d == name {
			return true
		}
	}
	return false
}

// splitList flattens comma separated entries and drops blanks and
// duplicates.
func splitList(in []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part == "" || seen[part] {
				continue
			}
			seen[part] = true
			out = append(out, part)
		}
	}
	return out
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a list value if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = append([]string(nil), value...)
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value, zero included, if present and flag not changed.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setInt64Ptr sets an int64 value if present and flag not changed.
func (s *configSetter) setInt64Ptr(flag string, value *int64, dst *int64) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Zero is accepted, since a zero seed or probability is meaningful.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination if valid.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
