// Package turingcv provides an embeddable "Turing Machine" sequencer core.
//
// On every clock edge an 8-bit register is rotated left and its lowest bit
// is replaced by a new bit chosen from the force buttons, a random draw
// against the probability knob, and the bit that was rotated out. The
// register is then mapped to a 12-bit code and sent to a DAC, producing a
// stepped control voltage that loops, mutates or locks depending on the
// knob.
//
// # Basic Usage
//
//	cfg := turingcv.Config{
//	    Seed:          0b10110010,
//	    Probability:   256,
//	    ClockInterval: 125 * time.Millisecond,
//	}
//
//	tm, err := turingcv.New(cfg, turingcv.WithDAC(myDAC))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := tm.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	// ... run until shutdown signal ...
//
//	if err := tm.Stop(); err != nil {
//	    log.Printf("shutdown error: %v", err)
//	}
//
// # Hardware
//
// Every hardware touch point is a small interface: [GPIO] for the shift
// register lines, [DAC] for the voltage output, [Clock] for edges and
// [RandomSource], [ProbabilitySource] and [ForceInputs] for the panel.
// Unset ports default to in-memory simulations configured from [Config].
// Callers that receive edges from an interrupt can skip the clock and call
// [TuringCV.Trigger] directly.
//
// # Edge Handling
//
// Edges are handled one at a time. An edge that arrives while the previous
// one is still being handled is dropped and reported through
// [EventHandler.OnEdgeDropped]; the register never observes a partial
// update.
//
// # Lifecycle States
//
// An instance is in one of five states: [StateStopped], [StateStarting],
// [StateRunning], [StateStopping] or [StateCrashed]. When the clock closes
// or Config.Edges is reached the instance returns to StateStopped on its
// own and [TuringCV.Done] is closed.
package turingcv
