// Package log provides the logging abstraction used across turingcv.
//
// Components log through the Logger interface so the sequence machine can
// run silently in tests and with structured console output from the CLI.
//
// # Usage
//
// Wrap a zerolog logger:
//
//	logger := log.NewZerologAdapterWithLogger(zerolog.New(os.Stderr))
//
// Derive a component logger that tags every message:
//
//	machineLog := log.With(logger, log.String("component", "machine"))
//
// Or discard everything:
//
//	logger := log.NewNoopLogger()
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
package log
