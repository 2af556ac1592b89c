package sensor

import "math/rand/v2"

// NoiseSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type NoiseSource interface {
	Float64() float64
}

// NewNoiseSource returns a deterministic PCG source. The same (seed, stream)
// pair always yields the same sequence.
func NewNoiseSource(seed, stream uint64) NoiseSource {
	return rand.New(rand.NewPCG(seed, stream))
}

// ConstantNoise always returns the same draw. 0.5 zeroes every noise term.
type ConstantNoise float64

func (c ConstantNoise) Float64() float64 {
	return float64(c)
}
