package domain

import "time"

// Status is a point-in-time snapshot of a running machine. It is written to
// disk for inspection only and never read back into the engine: the register
// always restarts from its seed.
type Status struct {
	Seed       uint8     `json:"seed" yaml:"seed"`
	Register   uint8     `json:"register" yaml:"register"`
	Bits       string    `json:"bits" yaml:"bits"`
	Code       uint16    `json:"code" yaml:"code"`
	Millivolts int       `json:"millivolts" yaml:"millivolts"`
	Encoder    string    `json:"encoder" yaml:"encoder"`
	Feedback   string    `json:"feedback" yaml:"feedback"`
	Edges      uint64    `json:"edges" yaml:"edges"`
	Dropped    uint64    `json:"dropped" yaml:"dropped"`
	LastSource string    `json:"last_source,omitempty" yaml:"last_source,omitempty"`
	LastEdgeAt time.Time `json:"last_edge_at,omitempty" yaml:"last_edge_at,omitempty"`
	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	UpdatedAt  time.Time `json:"updated_at" yaml:"updated_at"`
}

// Edge is the outcome of one handled clock edge.
type Edge struct {
	// Seq is the 1-based edge number since start.
	Seq  uint64
	At   time.Time
	Step Step
	Code VoltageCode
}
