package turingcv

import (
	"time"

	"github.com/bft-labs/turingcv/internal/app"
	"github.com/bft-labs/turingcv/internal/domain"
)

// StateChangeEvent is emitted on every lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// EdgeEvent is emitted after every handled clock edge.
type EdgeEvent struct {
	Seq      uint64
	At       time.Time
	Previous Register
	Register Register
	Bit      bool
	// Source is the branch that chose the new bit: "force-high",
	// "force-low", "invert" or "feedback".
	Source string
	Code   VoltageCode
}

// EdgeDroppedEvent is emitted when an edge arrives while the previous one
// is still being handled.
type EdgeDroppedEvent struct {
	// Dropped is the total number of dropped edges since start.
	Dropped uint64
}

// EventHandler receives instance events. Calls are synchronous from the
// clock goroutine and should return quickly.
type EventHandler interface {
	OnStateChange(event StateChangeEvent)
	OnEdge(event EdgeEvent)
	OnEdgeDropped(event EdgeDroppedEvent)
}

// BaseEventHandler implements EventHandler with no-ops. Embed it to handle
// only some events.
type BaseEventHandler struct{}

func (BaseEventHandler) OnStateChange(StateChangeEvent) {}
func (BaseEventHandler) OnEdge(EdgeEvent)               {}
func (BaseEventHandler) OnEdgeDropped(EdgeDroppedEvent) {}

// eventEmitterWrapper adapts EventHandler to the internal emitter interfaces.
type eventEmitterWrapper struct {
	handler EventHandler
}

func (e *eventEmitterWrapper) OnStateChange(previous, current app.State, reason string) {
	if e.handler == nil {
		return
	}
	e.handler.OnStateChange(StateChangeEvent{
		Previous: convertState(previous),
		Current:  convertState(current),
		Reason:   reason,
	})
}

func (e *eventEmitterWrapper) OnEdge(edge domain.Edge) {
	if e.handler == nil {
		return
	}
	e.handler.OnEdge(EdgeEvent{
		Seq:      edge.Seq,
		At:       edge.At,
		Previous: edge.Step.Previous,
		Register: edge.Step.Next,
		Bit:      edge.Step.Bit,
		Source:   edge.Step.Source.String(),
		Code:     edge.Code,
	})
}

func (e *eventEmitterWrapper) OnEdgeDropped(dropped uint64) {
	if e.handler == nil {
		return
	}
	e.handler.OnEdgeDropped(EdgeDroppedEvent{Dropped: dropped})
}
