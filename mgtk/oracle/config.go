package oracle

import (
	"errors"
	"fmt"
	"math"
)

// BeamConfig bounds the oracle's derivation search. The masking layer passes
// it through without interpreting it.
type BeamConfig struct {
	// MinLogProb prunes search paths whose cumulative log probability drops below it.
	MinLogProb float64
	// MoveProb is the prior weight of a move over a merge.
	MoveProb float64
	// MaxSteps caps derivation depth; 0 means unlimited.
	MaxSteps int
	// NBeams caps the beam width; 0 means unlimited.
	NBeams int
}

// DefaultBeamConfig returns the bounds used when a caller sets none.
func DefaultBeamConfig() BeamConfig {
	return BeamConfig{
		MinLogProb: -128,
		MoveProb:   0.5,
		MaxSteps:   64,
		NBeams:     256,
	}
}

var ErrInvalidConfig = errors.New("invalid beam configuration")

// Validate checks that the bounds describe a log probability, a probability
// and non-negative caps.
func (c BeamConfig) Validate() error {
	if math.IsNaN(c.MinLogProb) || c.MinLogProb > 0 {
		return fmt.Errorf("%w: min log prob %v is not a log probability", ErrInvalidConfig, c.MinLogProb)
	}
	if math.IsNaN(c.MoveProb) || c.MoveProb < 0 || c.MoveProb > 1 {
		return fmt.Errorf("%w: move prob %v is not in [0, 1]", ErrInvalidConfig, c.MoveProb)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("%w: max steps %d is negative", ErrInvalidConfig, c.MaxSteps)
	}
	if c.NBeams < 0 {
		return fmt.Errorf("%w: n beams %d is negative", ErrInvalidConfig, c.NBeams)
	}
	return nil
}
