package analysis

import (
	"math"
	"testing"

	"cooling-tower.klederson.com/internal/sensor"
	"github.com/stretchr/testify/require"
)

func TestPlanBatchAllSensors(t *testing.T) {
	p := DefaultPolicy()
	for _, spec := range sensor.DefaultSpecs() {
		plan, err := PlanBatch(spec, p)
		require.NoError(t, err, spec.ID.String())
		require.GreaterOrEqual(t, plan.Count, p.MinSamples, spec.ID.String())
		require.LessOrEqual(t, plan.Count, p.MaxTotalSamples, spec.ID.String())
		require.Equal(t, 1/spec.RateHz, plan.Dt)
		require.LessOrEqual(t, float64(plan.Count)*plan.Dt, plan.Duration*(1+1e-9), spec.ID.String())
		require.LessOrEqual(t, plan.Duration, float64(p.MaxTotalSamples)/spec.RateHz*(1+1e-9))
	}
}

func TestPlanBatchCases(t *testing.T) {
	tests := []struct {
		name     string
		id       sensor.ID
		count    int
		duration float64
	}{
		{"baseline", sensor.Temperature, 24000, 60},
		{"stretched", sensor.Airflow, 128, 102.4},
		{"capped", sensor.Vibration, 200000, 20},
		{"slowest", sensor.DissolvedOxygen, 128, 128 / 0.033},
	}
	specs := sensor.DefaultSpecs()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			plan, err := PlanBatch(specs[tc.id], DefaultPolicy())
			require.NoError(t, err)
			require.Equal(t, tc.count, plan.Count)
			require.InDelta(t, tc.duration, plan.Duration, 1e-9*tc.duration)
		})
	}
}

func TestPlanBatchInvalidRate(t *testing.T) {
	for _, rate := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := PlanBatch(sensor.Spec{ID: sensor.Airflow, RateHz: rate, TimeConstant: 0.2}, DefaultPolicy())
		require.ErrorIs(t, err, ErrInvalidSampleCount)
		require.Contains(t, err.Error(), "Airflow")
	}
}

func TestPlanBatchCapBelowOnePeriod(t *testing.T) {
	// A tiny cap on a fast sensor is honored even though the batch is then
	// shorter than the minimum sample count.
	p := Policy{MinSamples: 128, Baseline: 60, MaxTotalSamples: 50}
	plan, err := PlanBatch(sensor.Spec{ID: sensor.Vibration, RateHz: 10000, TimeConstant: 0.02}, p)
	require.NoError(t, err)
	require.Equal(t, 50, plan.Count)
	require.InDelta(t, 0.005, plan.Duration, 1e-12)
}
