package sensor

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

type countingNoise struct {
	n int
	v float64
}

func (c *countingNoise) Float64() float64 {
	c.n++
	return c.v
}

func TestVibrationAtZero(t *testing.T) {
	p := DefaultParams()
	p.VibrationBase = 0.5

	// Every periodic term is zero at t=0, so only noise remains.
	v := Generate(Vibration, 0, p, ConstantNoise(0.5))
	require.InDelta(t, 0, v, 1e-12)

	noise := NewNoiseSource(42, 0)
	for i := 0; i < 1000; i++ {
		v := Generate(Vibration, 0, p, noise)
		require.GreaterOrEqual(t, v, -0.05)
		require.LessOrEqual(t, v, 0.05)
	}
}

func TestNoiselessBaselines(t *testing.T) {
	p := DefaultParams()
	quiet := ConstantNoise(0.5)

	// Default parameters cancel every cross-coupling term.
	require.InDelta(t, 25+0.3*0.5, Generate(Temperature, 0, p, quiet), 1e-12)
	require.InDelta(t, 60, Generate(Humidity, 0, p, quiet), 1e-12)
	require.InDelta(t, 5, Generate(Airflow, 0, p, quiet), 1e-12)
	require.InDelta(t, 8-2, Generate(DissolvedOxygen, 0, p, quiet), 1e-12)

	// Quarter period of the 0.5 Hz temperature swing.
	require.InDelta(t, 25+2+0.15, Generate(Temperature, 0.5, p, quiet), 1e-9)
}

func TestOneDrawPerCall(t *testing.T) {
	src := &countingNoise{v: 0.5}
	p := DefaultParams()
	for _, id := range All() {
		Generate(id, 1.25, p, src)
	}
	require.Equal(t, Count, src.n)

	sig := GenerateSignal(Airflow, 17, 0.8, p, src)
	require.Equal(t, Count+17, src.n)
	require.Equal(t, 17, sig.Len())
}

func TestClampedOutputs(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	noise := NewNoiseSource(42, 1)
	for i := 0; i < 2000; i++ {
		p := Params{}
		for f := Field(0); f < FieldCount; f++ {
			info := f.Info()
			p = p.With(f, info.Min+rng.Float64()*(info.Max-info.Min))
		}
		ts := rng.Float64() * 500

		h := Generate(Humidity, ts, p, noise)
		require.GreaterOrEqual(t, h, 0.0)
		require.LessOrEqual(t, h, 100.0)
		require.GreaterOrEqual(t, Generate(Airflow, ts, p, noise), 0.0)
		require.GreaterOrEqual(t, Generate(DissolvedOxygen, ts, p, noise), 0.0)
	}
}

func TestTemperatureAndVibrationAreNotClamped(t *testing.T) {
	p := Params{AmbientTemp: 0, WindSpeed: 20, WaterTemp: 30, Humidity: 60}
	require.Less(t, Generate(Temperature, 0, p, ConstantNoise(0.5)), 0.0)

	p.VibrationBase = 5
	require.Less(t, Generate(Vibration, 0.75/60, p, ConstantNoise(0.5)), -1.0)
}

func TestNonFiniteParamsPropagate(t *testing.T) {
	p := DefaultParams()
	p.AmbientTemp = math.NaN()
	quiet := ConstantNoise(0.5)

	require.True(t, math.IsNaN(Generate(Temperature, 1, p, quiet)))
	require.True(t, math.IsNaN(Generate(Humidity, 1, p, quiet)))
	require.True(t, math.IsNaN(Generate(Airflow, 1, p, quiet)))
	require.True(t, math.IsNaN(Generate(DissolvedOxygen, 1, p, quiet)))
	require.False(t, math.IsNaN(Generate(Vibration, 1, p, quiet)))

	p = DefaultParams()
	p.VibrationBase = math.Inf(1)
	sig := GenerateSignal(Vibration, 10, 0.001, p, quiet)
	// Inf·sin(0) is already NaN at the first sample.
	require.Equal(t, 0, sig.FirstNonFinite())
}

func TestGenerateSignalTimeAxis(t *testing.T) {
	// Two seconds cover one full period of the 0.5 Hz swing.
	sig := GenerateSignal(Temperature, 800, 1.0/400, DefaultParams(), NewNoiseSource(42, 0))
	require.Equal(t, 0.0, sig.Time[0])
	require.InDelta(t, 799.0/400, sig.Time[799], 1e-12)
	require.Equal(t, -1, sig.FirstNonFinite())

	sum := sig.Summarize()
	require.Equal(t, 800, sum.Count)
	require.InDelta(t, 25.15, sum.Mean, 0.1)
	require.LessOrEqual(t, sum.Min, sum.Mean)
	require.GreaterOrEqual(t, sum.Max, sum.Mean)
	require.Greater(t, sum.StdDev, 1.0)

	require.Equal(t, Summary{}, GenerateSignal(Temperature, 0, 1, DefaultParams(), ConstantNoise(0.5)).Summarize())
}

func TestNoiseSourceIsReproducible(t *testing.T) {
	a := NewNoiseSource(42, 3)
	b := NewNoiseSource(42, 3)
	for i := 0; i < 10; i++ {
		require.Equal(t, a.Float64(), b.Float64())
	}
}
