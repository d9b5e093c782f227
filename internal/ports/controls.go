package ports

// RandomSource provides uniform draws on the 0..1023 scale.
type RandomSource interface {
	SampleRandom() uint16
}

// ProbabilitySource provides the inversion threshold on the 0..1023 scale,
// typically read from a potentiometer.
type ProbabilitySource interface {
	SampleProbabilityThreshold() uint16
}

// ForceInputs reports the two operator override buttons. It is sampled once
// per clock edge.
type ForceInputs interface {
	SampleForces() (high, low bool)
}
