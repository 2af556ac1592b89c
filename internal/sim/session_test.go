package sim

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cooling-tower.klederson.com/internal/analysis"
	"cooling-tower.klederson.com/internal/config"
	"cooling-tower.klederson.com/internal/sensor"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T) *Session {
	t.Helper()
	cfg := config.Default()
	cfg.Sampling = config.SamplingConfig{MinSamples: 128, Baseline: 2, MaxTotalSamples: 4096}
	opts, err := OptionsFromConfig(cfg, nil)
	require.NoError(t, err)
	return New(opts)
}

func TestTickRequiresStart(t *testing.T) {
	s := testSession(t)
	_, ok := s.Tick(0)
	require.False(t, ok)
	require.Equal(t, 0.0, s.Now())
	require.False(t, s.Running())
}

func TestTickAdvancesAllSensors(t *testing.T) {
	s := testSession(t)
	gen := s.Start()

	var last []sensor.Reading
	for i := 0; i < 240; i++ {
		r, ok := s.Tick(gen)
		require.True(t, ok)
		last = r
	}
	require.InDelta(t, 12.0, s.Now(), 1e-9)
	require.Len(t, last, sensor.Count)
	for i, r := range last {
		require.Equal(t, sensor.ID(i), r.Sensor)
		require.InDelta(t, 12.0, r.Time, 1e-9)
	}

	x, y, lo, hi := s.Series(int(sensor.Humidity))
	require.Equal(t, len(x), len(y))
	require.InDelta(t, 2.0, lo, 1e-9)
	require.InDelta(t, 12.0, hi, 1e-9)
	for _, tm := range x {
		require.GreaterOrEqual(t, tm, lo-1e-9)
	}
	p, ok := s.Latest(int(sensor.Humidity))
	require.True(t, ok)
	require.Equal(t, y[len(y)-1], p.Value)

	st := s.Stats()
	require.Equal(t, int64(240), st.Ticks)
	require.Equal(t, int64(240*sensor.Count), st.Samples)
	require.Equal(t, st.Samples, st.Evicted+int64(sensor.Count*len(x)))
}

func TestStopFreezesState(t *testing.T) {
	s := testSession(t)
	gen := s.Start()
	for i := 0; i < 10; i++ {
		s.Tick(gen)
	}
	s.Stop()
	now := s.Now()
	x, _, _, _ := s.Series(0)

	_, ok := s.Tick(gen)
	require.False(t, ok)
	require.Equal(t, now, s.Now())
	x2, _, _, _ := s.Series(0)
	require.Equal(t, x, x2)
	s.Stop()
}

func TestRestartResetsAndIgnoresStaleTicks(t *testing.T) {
	s := testSession(t)
	first := s.Start()
	r1, _ := s.Tick(first)
	s.Tick(first)

	second := s.Start()
	require.NotEqual(t, first, second)
	require.Equal(t, 0.0, s.Now())
	x, _, _, _ := s.Series(0)
	require.Empty(t, x)

	_, ok := s.Tick(first)
	require.False(t, ok)

	// The tick noise is reseeded, so a restart replays the same values.
	r2, ok := s.Tick(second)
	require.True(t, ok)
	require.Equal(t, r1, r2)
}

func TestParameterEditsAffectNextTick(t *testing.T) {
	s := testSession(t)
	gen := s.Start()
	before, _ := s.Tick(gen)

	s.Params().Update(func(p sensor.Params) sensor.Params {
		return p.With(sensor.FieldAmbientTemp, 45)
	})
	after, _ := s.Tick(gen)
	require.Greater(t, after[sensor.Temperature].Value, before[sensor.Temperature].Value+15)
}

func TestAnalyzeRecordsMetrics(t *testing.T) {
	s := testSession(t)
	r := s.Analyze(context.Background())
	require.Empty(t, r.Failed())
	require.Len(t, r.Sensors, sensor.Count)

	p := s.Params().Load()
	p.WindSpeed = math.Inf(1)
	s.Params().Store(p)
	r = s.Analyze(context.Background())
	require.NotEmpty(t, r.Failed())
	for _, f := range r.Failed() {
		require.ErrorIs(t, f.Err, analysis.ErrNonFiniteSignal)
	}

	st := s.Stats()
	require.Equal(t, int64(2), st.Runs)
	require.Equal(t, int64(len(r.Failed())), st.Failures)
	require.Greater(t, st.MeanAnalysis, time.Duration(0))
	require.NotNil(t, s.Registry().Get("analysis.duration"))
}

func TestSpecsFromConfigOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tower.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
sensors:
  do:
    rate_hz: 0.05
  Airflow:
    time_constant: 0.4
`), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	specs, err := SpecsFromConfig(cfg)
	require.NoError(t, err)
	require.Equal(t, 0.05, specs[sensor.DissolvedOxygen].RateHz)
	require.Equal(t, 1.25, specs[sensor.DissolvedOxygen].TimeConstant)
	require.Equal(t, 0.4, specs[sensor.Airflow].TimeConstant)

	cfg.Sensors = map[string]config.SensorOverride{"pressure": {}}
	_, err = SpecsFromConfig(cfg)
	require.Error(t, err)
}
