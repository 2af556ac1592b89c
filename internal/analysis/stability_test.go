package analysis

import (
	"math"
	"math/rand/v2"
	"testing"

	"cooling-tower.klederson.com/internal/sensor"
	"github.com/stretchr/testify/require"
)

func TestClosedLoopReference(t *testing.T) {
	tc := TimeConstantsFrom(sensor.DefaultSpecs())
	require.Equal(t, TimeConstants{Temperature: 0.5, Airflow: 0.2, Humidity: 0.67}, tc)

	r := ClosedLoopPole(tc, ReferenceGains())
	require.Equal(t, 0.67, r.TauSys)
	require.InDelta(t, -1.4925, r.Pole, 1e-4)
	require.InDelta(t, 3.35, r.SettlingTime, 1e-9)
	require.InDelta(t, 1.4925, r.Bandwidth, 1e-4)
	require.InDelta(t, 1.4925/(2*math.Pi), r.NaturalFrequency, 1e-4)
	require.True(t, r.Stable)

	require.InDelta(t, 1/1.5, r.KSys, 1e-12)
	require.Equal(t, 1.5, r.FeedbackFactor)
	require.Equal(t, 1.0, r.OpenLoopGain)
	require.InDelta(t, 33.333, r.GainReduction, 1e-3)

	require.InDelta(t, -2, r.Temperature.Pole(), 1e-12)
	require.Equal(t, "1.00 / (0.20·s + 1)", r.Airflow.String())
}

func TestClosedLoopPoleAlwaysInLeftHalfPlane(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	pos := func(scale float64) float64 { return 1e-6 + rng.Float64()*scale }
	for i := 0; i < 5000; i++ {
		tc := TimeConstants{Temperature: pos(10), Airflow: pos(10), Humidity: pos(10)}
		g := Gains{Effective: pos(5), Temperature: pos(5), Airflow: pos(5), Humidity: pos(5), Feedback: rng.Float64() * 5}

		r := ClosedLoopPole(tc, g)
		require.Less(t, r.Pole, 0.0)
		require.True(t, r.Stable)
		require.Equal(t, math.Max(tc.Temperature, math.Max(tc.Airflow, tc.Humidity)), r.TauSys)
		require.InDelta(t, 5*r.TauSys, r.SettlingTime, 1e-9*r.TauSys)
	}
}

func TestClosedLoopIgnoresProcessParameters(t *testing.T) {
	specs := sensor.DefaultSpecs()
	opts := DefaultOptions()
	opts.Policy = Policy{MinSamples: 4, Baseline: 0.1, MaxTotalSamples: 64}
	a := NewAnalyzer(opts)

	hot := sensor.DefaultParams().With(sensor.FieldAmbientTemp, 50)
	r1 := a.Run(t.Context(), specs, sensor.DefaultParams())
	r2 := a.Run(t.Context(), specs, hot)
	require.Equal(t, r1.Stability, r2.Stability)
}

func TestDiscreteReference(t *testing.T) {
	specs := sensor.DefaultSpecs()
	d, err := DiscreteReference(specs[sensor.DissolvedOxygen], -0.5)
	require.NoError(t, err)
	require.InDelta(t, 30.303, d.SamplingInterval, 1e-3)
	require.Equal(t, -0.8, d.ContinuousPole)
	require.InDelta(t, 2.97e-11, d.ZPole, 0.05e-11)
	require.InDelta(t, math.Exp(-0.5/0.033), d.ZZero, 1e-15)
	require.True(t, d.Stable)
	require.True(t, d.ZPole < 1e-9)

	_, err = DiscreteReference(sensor.Spec{ID: sensor.DissolvedOxygen, RateHz: 0, TimeConstant: 1.25}, -0.5)
	require.ErrorIs(t, err, ErrInvalidSamplingInterval)
	_, err = DiscreteReference(sensor.Spec{ID: sensor.DissolvedOxygen, RateHz: -1, TimeConstant: 1.25}, -0.5)
	require.ErrorIs(t, err, ErrInvalidSamplingInterval)
}

func TestToDiscreteSmallIntervalApproachesOne(t *testing.T) {
	prev := 0.0
	for _, T := range []float64{1, 1e-1, 1e-3, 1e-6, 1e-9} {
		z := ToDiscrete(-0.8, T)
		require.Greater(t, z, prev)
		require.Less(t, z, 1.0)
		prev = z
	}
	require.InDelta(t, 1, ToDiscrete(-0.8, 1e-12), 1e-11)
	require.Equal(t, 1.0, ToDiscrete(-0.8, 0))
}

func TestDiscretePoleStableForAllPositiveInputs(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	for i := 0; i < 5000; i++ {
		tau := 1e-3 + rng.Float64()*100
		T := 1e-4 + rng.Float64()*100
		require.True(t, IsStable(ToDiscrete(-1/tau, T)), "tau=%g T=%g", tau, T)
	}
	require.False(t, IsStable(1))
	require.False(t, IsStable(-1.5))
	require.True(t, IsStable(-0.99))
}
