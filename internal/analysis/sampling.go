package analysis

import (
	"fmt"
	"math"

	"cooling-tower.klederson.com/internal/config"
	"cooling-tower.klederson.com/internal/sensor"
)

// Policy bounds the size of a batch.
type Policy struct {
	MinSamples      int     // Samples needed for a meaningful spectrum
	Baseline        float64 // Default batch duration in seconds
	MaxTotalSamples int     // Hard cap on samples per sensor
}

// DefaultPolicy returns 128 samples minimum, 60 s baseline, 200000 cap.
func DefaultPolicy() Policy {
	return Policy{
		MinSamples:      config.MinSamples,
		Baseline:        config.BaselineDuration,
		MaxTotalSamples: config.MaxTotalSamples,
	}
}

// Plan is the outcome of sizing a batch for one sensor.
type Plan struct {
	Count    int     // Number of samples
	Dt       float64 // Spacing in seconds (one native period)
	Duration float64 // Batch duration in seconds
}

// countTolerance keeps rate·duration products such as 0.033·(128/0.033)
// from flooring to one sample short.
const countTolerance = 1e-9

// PlanBatch sizes a batch so every sensor gets at least MinSamples (slow
// sensors stretch past the baseline) while fast sensors are capped at
// MaxTotalSamples. When the cap wins, the batch may cover less than one
// period of the slowest physical oscillation; that trade-off is accepted.
func PlanBatch(spec sensor.Spec, p Policy) (Plan, error) {
	rate := spec.RateHz
	if !(rate > 0) || math.IsInf(rate, 0) {
		return Plan{}, fmt.Errorf("%s: native rate %g Hz: %w", spec.ID, rate, ErrInvalidSampleCount)
	}

	required := float64(p.MinSamples) / rate
	duration := math.Max(p.Baseline, required)
	if duration*rate > float64(p.MaxTotalSamples) {
		duration = float64(p.MaxTotalSamples) / rate
	}

	count := int(math.Floor(rate * duration * (1 + countTolerance)))
	if count <= 0 {
		return Plan{}, fmt.Errorf("%s: planned %d samples: %w", spec.ID, count, ErrInvalidSampleCount)
	}
	return Plan{Count: count, Dt: 1 / rate, Duration: duration}, nil
}
