// Package domain contains the core entities and value objects for turingcv.
//
// This package is the innermost layer. It has no dependencies on GPIO, DAC,
// file system or logging concerns and contains only the sequence logic.
//
// # Entities
//
//   - [Register]: the 8-bit pattern driving the control voltage
//   - [SequenceEngine]: evolves the Register once per clock edge
//   - [VoltageEncoder]: maps a Register to a 12-bit DAC code
//   - [Status]: a point-in-time snapshot written for inspection
//
// # Design Principles
//
// The engine and encoder are total: every input in their domain produces a
// result and out-of-range samples are clamped rather than rejected. They are
// deterministic given their inputs, so tests need no mocks.
package domain
