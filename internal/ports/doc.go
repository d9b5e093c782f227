// Package ports defines the interfaces that connect the sequence machine to
// hardware and infrastructure adapters.
//
// # Port Interfaces
//
//   - [GPIO]: pin-level digital I/O towards the physical shift register
//   - [DAC]: receives one 12-bit code per clock edge
//   - [RandomSource]: uniform 10-bit draws
//   - [ProbabilitySource]: the inversion threshold knob
//   - [ForceInputs]: the force-high and force-low buttons
//   - [Clock]: delivers rising edges
//   - [StatusRepository]: persists status snapshots for inspection
//   - [Logger]: structured logging abstraction
//
// The application layer (internal/app) depends only on these interfaces.
// Adapters under internal/adapters provide simulated and file-backed
// implementations; real hardware drivers plug in the same way.
package ports
