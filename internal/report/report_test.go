package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"cooling-tower.klederson.com/internal/analysis"
	"cooling-tower.klederson.com/internal/sensor"
	"github.com/stretchr/testify/require"
)

func TestIntervalLabel(t *testing.T) {
	require.Equal(t, "2.50 ms", IntervalLabel(400))
	require.Equal(t, "0.10 ms", IntervalLabel(10000))
	require.Equal(t, "800.00 ms", IntervalLabel(1.25))
	require.Equal(t, "30.30 s", IntervalLabel(0.033))
	require.Equal(t, "n/a", IntervalLabel(0))
	require.Equal(t, "n/a", IntervalLabel(-1))
}

func TestLaplaceReference(t *testing.T) {
	r := analysis.ClosedLoopPole(analysis.TimeConstantsFrom(sensor.DefaultSpecs()), analysis.ReferenceGains())
	out := Laplace(r)

	require.Contains(t, out, "G_T(s)  = 1.00 / (0.50·s + 1)")
	require.Contains(t, out, "= 0.6667")
	require.Contains(t, out, "τ_sys ≈ 0.67 s")
	require.Contains(t, out, "-1.4925 rad/s")
	require.Contains(t, out, "STABLE, left half-plane")
	require.Contains(t, out, "Settling time (5τ): 3.35 s")
	require.Contains(t, out, "Feedback factor:  1 + K_T·K_F·K_fb = 1.50")
	require.Contains(t, out, "Gain reduction:   33.3%")
	require.NotContains(t, out, "UNSTABLE")
}

func TestZDomainReference(t *testing.T) {
	do, _ := sensor.Lookup(sensor.DefaultSpecs(), sensor.DissolvedOxygen)
	d, err := analysis.DiscreteReference(do, -0.5)
	require.NoError(t, err)

	out := ZDomain(d, nil)
	require.Contains(t, out, "T = 1/0.033 Hz = 30.30 s")
	require.Contains(t, out, "s = -0.80")
	require.Contains(t, out, "e-11")
	require.Contains(t, out, "inside unit circle")

	out = ZDomain(analysis.DiscreteReport{}, errors.New("DissolvedOxygen: T = +Inf s"))
	require.Contains(t, out, "unavailable")
	require.NotContains(t, out, "z = e^")
}

func TestSensorTableShowsFailures(t *testing.T) {
	specs := sensor.DefaultSpecs()
	specs[sensor.Airflow].RateHz = 0
	opts := analysis.DefaultOptions()
	opts.Policy = analysis.Policy{MinSamples: 128, Baseline: 2, MaxTotalSamples: 4096}
	r := analysis.NewAnalyzer(opts).Run(context.Background(), specs, sensor.DefaultParams())

	out := SensorTable(r)
	for _, id := range sensor.All() {
		require.Contains(t, out, id.String())
	}
	require.Contains(t, out, "2.50 ms")
	require.Contains(t, out, "invalid sample count")
	require.Equal(t, 4, strings.Count(out, " ok "))

	full := Full(r)
	require.Contains(t, full, "S-DOMAIN")
	require.Contains(t, full, "Z-DOMAIN")
}
