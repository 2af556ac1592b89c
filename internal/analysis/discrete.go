package analysis

import (
	"fmt"
	"math"

	"cooling-tower.klederson.com/internal/sensor"
)

// ToDiscrete maps a continuous real pole or zero s to z = e^(s·T) for a
// zero-order-hold sampled system with period T seconds.
func ToDiscrete(s, T float64) float64 {
	return math.Exp(s * T)
}

// IsStable reports whether z lies strictly inside the unit circle.
func IsStable(z float64) bool {
	return math.Abs(z) < 1
}

// DiscreteReport is the Z-domain view of one sensor's dominant pole and an
// illustrative zero.
type DiscreteReport struct {
	Sensor           sensor.ID
	SamplingInterval float64 // T (s)
	ContinuousPole   float64 // -1/τ (rad/s)
	ContinuousZero   float64 // rad/s
	ZPole            float64
	ZZero            float64
	Stable           bool
}

// DiscreteReference discretizes the sensor's pole -1/τ and the given zero at
// the sensor's own native sampling interval.
func DiscreteReference(spec sensor.Spec, zero float64) (DiscreteReport, error) {
	T := spec.SamplingInterval()
	if !(T > 0) || math.IsInf(T, 0) {
		return DiscreteReport{}, fmt.Errorf("%s: T = %g s: %w", spec.ID, T, ErrInvalidSamplingInterval)
	}
	r := DiscreteReport{
		Sensor:           spec.ID,
		SamplingInterval: T,
		ContinuousPole:   -1 / spec.TimeConstant,
		ContinuousZero:   zero,
	}
	r.ZPole = ToDiscrete(r.ContinuousPole, T)
	r.ZZero = ToDiscrete(zero, T)
	r.Stable = IsStable(r.ZPole)
	return r, nil
}
