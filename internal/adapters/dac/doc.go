// Package dac provides ports.DAC sinks: an in-memory recorder, a logging
// sink, a WAV recorder that renders the control voltage as audio, an
// MCP4921 command-word writer, and a fan-out Tee.
package dac
