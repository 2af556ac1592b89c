package sim

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"cooling-tower.klederson.com/internal/analysis"
	"cooling-tower.klederson.com/internal/config"
	"cooling-tower.klederson.com/internal/sensor"
	"cooling-tower.klederson.com/internal/stream"
	metrics "github.com/rcrowley/go-metrics"
)

// Options configure a Session.
type Options struct {
	Specs    []sensor.Spec
	Params   sensor.Params
	Seed     uint64
	Step     float64 // Simulated seconds per tick
	Window   float64 // Trailing window per sensor (seconds)
	Analysis analysis.Options
	Logger   *slog.Logger
}

// OptionsFromConfig builds session options from a validated Config.
func OptionsFromConfig(cfg config.Config, log *slog.Logger) (Options, error) {
	specs, err := SpecsFromConfig(cfg)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Specs: specs,
		Params: sensor.Params{
			AmbientTemp:   cfg.Params.AmbientTemp,
			Humidity:      cfg.Params.Humidity,
			WindSpeed:     cfg.Params.WindSpeed,
			VibrationBase: cfg.Params.VibrationBase,
			WaterTemp:     cfg.Params.WaterTemp,
		},
		Seed:   cfg.Seed,
		Step:   cfg.TimeStep,
		Window: cfg.Window,
		Analysis: analysis.Options{
			Policy: analysis.Policy{
				MinSamples:      cfg.Sampling.MinSamples,
				Baseline:        cfg.Sampling.Baseline,
				MaxTotalSamples: cfg.Sampling.MaxTotalSamples,
			},
			Gains: analysis.Gains{
				Effective:   cfg.Gains.Effective,
				Temperature: cfg.Gains.Temperature,
				Airflow:     cfg.Gains.Airflow,
				Humidity:    cfg.Gains.Humidity,
				Feedback:    cfg.Gains.Feedback,
			},
			Zero:    cfg.Zero,
			Workers: cfg.Workers,
			Seed:    cfg.Seed,
			Logger:  log,
		},
		Logger: log,
	}, nil
}

// SpecsFromConfig applies per-sensor overrides to the built-in table.
func SpecsFromConfig(cfg config.Config) ([]sensor.Spec, error) {
	specs := sensor.DefaultSpecs()
	for name, o := range cfg.Sensors {
		id, err := sensor.ParseID(name)
		if err != nil {
			return nil, fmt.Errorf("config sensors: %w", err)
		}
		if o.RateHz != nil {
			specs[id].RateHz = *o.RateHz
		}
		if o.TimeConstant != nil {
			specs[id].TimeConstant = *o.TimeConstant
		}
	}
	for _, s := range specs {
		if !(s.TimeConstant > 0) {
			return nil, fmt.Errorf("sensor %s: time constant must be positive, got %g", s.ID, s.TimeConstant)
		}
	}
	return specs, nil
}

// Stats is a point-in-time view of the session counters.
type Stats struct {
	Ticks        int64
	Samples      int64
	Evicted      int64
	Runs         int64
	Failures     int64
	MeanAnalysis time.Duration
}

// Session owns the real-time state of one simulation: the simulated clock,
// the per-sensor windows and the tick noise source. Tick and the lifecycle
// methods are serialized; Analyze only reads the immutable spec table and a
// parameter snapshot, so it may run concurrently with ticks.
type Session struct {
	mu         sync.Mutex
	specs      []sensor.Spec
	params     *sensor.ParamStore
	seed       uint64
	noise      sensor.NoiseSource
	windows    []*stream.Window
	step       float64
	now        float64
	running    bool
	generation uint64

	analyzer *analysis.Analyzer
	log      *slog.Logger

	registry metrics.Registry
	ticks    metrics.Counter
	samples  metrics.Counter
	evicted  metrics.Counter
	runs     metrics.Counter
	failures metrics.Counter
	duration metrics.Timer
}

// New creates a stopped session.
func New(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if len(opts.Specs) == 0 {
		opts.Specs = sensor.DefaultSpecs()
	}
	if opts.Step <= 0 {
		opts.Step = config.TimeStep
	}
	if opts.Window <= 0 {
		opts.Window = config.TimeWindow
	}
	if opts.Analysis.Logger == nil {
		opts.Analysis.Logger = log
	}

	specs := make([]sensor.Spec, len(opts.Specs))
	copy(specs, opts.Specs)
	windows := make([]*stream.Window, len(specs))
	for i := range windows {
		windows[i] = stream.NewWindow(opts.Window)
	}

	reg := metrics.NewRegistry()
	return &Session{
		specs:    specs,
		params:   sensor.NewParamStore(opts.Params),
		seed:     opts.Seed,
		noise:    sensor.NewNoiseSource(opts.Seed, 0),
		windows:  windows,
		step:     opts.Step,
		analyzer: analysis.NewAnalyzer(opts.Analysis),
		log:      log.With("component", "session"),
		registry: reg,
		ticks:    metrics.GetOrRegisterCounter("sim.ticks", reg),
		samples:  metrics.GetOrRegisterCounter("sim.samples", reg),
		evicted:  metrics.GetOrRegisterCounter("sim.evicted", reg),
		runs:     metrics.GetOrRegisterCounter("analysis.runs", reg),
		failures: metrics.GetOrRegisterCounter("analysis.failures", reg),
		duration: metrics.GetOrRegisterTimer("analysis.duration", reg),
	}
}

// Specs returns a copy of the sensor table.
func (s *Session) Specs() []sensor.Spec {
	out := make([]sensor.Spec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Params returns the live parameter store. Edits take effect on the next
// tick without stopping the simulation.
func (s *Session) Params() *sensor.ParamStore {
	return s.params
}

// Start clears every window, rewinds the clock to zero, reseeds the tick
// noise and marks the session running. It returns the new generation; ticks
// carrying an older generation are ignored.
func (s *Session) Start() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range s.windows {
		w.Reset()
	}
	s.now = 0
	s.noise = sensor.NewNoiseSource(s.seed, 0)
	s.running = true
	s.generation++
	s.log.Info("simulation started", "generation", s.generation)
	return s.generation
}

// Stop halts ticking. The clock and windows keep their last consistent state.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	s.log.Info("simulation stopped", "time", s.now, "generation", s.generation)
}

// Running reports whether ticks are being accepted.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Now returns the simulated time in seconds.
func (s *Session) Now() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now
}

// Tick advances the clock by one step and samples every sensor. It returns
// false without touching any state when the session is stopped or gen is
// stale.
func (s *Session) Tick(gen uint64) ([]sensor.Reading, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running || gen != s.generation {
		return nil, false
	}

	s.now += s.step
	p := s.params.Load()
	readings := make([]sensor.Reading, len(s.specs))
	evicted := 0
	for i, spec := range s.specs {
		v := sensor.Generate(spec.ID, s.now, p, s.noise)
		evicted += s.windows[i].Push(s.now, v)
		readings[i] = sensor.Reading{Sensor: spec.ID, Time: s.now, Value: v}
	}

	s.ticks.Inc(1)
	s.samples.Inc(int64(len(readings)))
	s.evicted.Inc(int64(evicted))
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		s.log.Debug("tick", "time", s.now, "evicted", evicted)
	}
	return readings, true
}

// Series returns the live window of sensor i (index into Specs) as parallel
// slices plus the display axis range.
func (s *Session) Series(i int) (x, y []float64, lo, hi float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := s.windows[i]
	x, y = w.XY()
	lo, hi = w.AxisRange()
	return x, y, lo, hi
}

// Latest returns the newest sample of sensor i.
func (s *Session) Latest(i int) (stream.Point, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.windows[i].Last()
}

// Analyze runs one batch analysis against the current parameter snapshot.
func (s *Session) Analyze(ctx context.Context) analysis.Report {
	report := s.analyzer.Run(ctx, s.specs, s.params.Load())
	s.runs.Inc(1)
	s.failures.Inc(int64(len(report.Failed())))
	s.duration.Update(report.Elapsed)
	return report
}

// Stats snapshots the session counters.
func (s *Session) Stats() Stats {
	return Stats{
		Ticks:        s.ticks.Count(),
		Samples:      s.samples.Count(),
		Evicted:      s.evicted.Count(),
		Runs:         s.runs.Count(),
		Failures:     s.failures.Count(),
		MeanAnalysis: time.Duration(s.duration.Mean()),
	}
}

// Registry exposes the session's metrics registry.
func (s *Session) Registry() metrics.Registry {
	return s.registry
}
