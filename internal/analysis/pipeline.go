package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"cooling-tower.klederson.com/internal/config"
	"cooling-tower.klederson.com/internal/sensor"
)

// Options configure an Analyzer.
type Options struct {
	Policy  Policy
	Gains   Gains
	Zero    float64 // Illustrative continuous zero for the Z-domain report
	Workers int     // Upper bound on concurrent sensor pipelines
	Seed    uint64  // Base seed for batch noise
	Logger  *slog.Logger
}

// DefaultOptions returns the reference policy, gains and zero.
func DefaultOptions() Options {
	return Options{
		Policy:  DefaultPolicy(),
		Gains:   ReferenceGains(),
		Zero:    config.IllustrativeZero,
		Workers: config.MaxWorkers,
		Seed:    config.NoiseSeed,
	}
}

// SensorResult is the outcome of one sensor's plan → generate → analyze
// pipeline. Err is set when that sensor failed; the other fields hold
// whatever was computed before the failure.
type SensorResult struct {
	Spec     sensor.Spec
	Plan     Plan
	Summary  sensor.Summary
	Spectrum Spectrum
	Err      error
}

// Report collects one "update analysis" run.
type Report struct {
	Run         uint64
	Params      sensor.Params
	Sensors     []SensorResult // Same order as the specs passed to Run
	Stability   StabilityReport
	Discrete    DiscreteReport
	DiscreteErr error
	Elapsed     time.Duration
}

// Failed returns the sensors whose pipeline returned an error.
func (r Report) Failed() []SensorResult {
	var out []SensorResult
	for _, s := range r.Sensors {
		if s.Err != nil {
			out = append(out, s)
		}
	}
	return out
}

// Result returns the pipeline outcome for id.
func (r Report) Result(id sensor.ID) (SensorResult, bool) {
	for _, s := range r.Sensors {
		if s.Spec.ID == id {
			return s, true
		}
	}
	return SensorResult{}, false
}

// Analyzer runs the per-sensor pipelines on a bounded worker pool.
type Analyzer struct {
	opts Options
	log  *slog.Logger
	runs atomic.Uint64
}

// NewAnalyzer creates an Analyzer. A nil logger discards output.
func NewAnalyzer(opts Options) *Analyzer {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	return &Analyzer{opts: opts, log: log.With("component", "analysis")}
}

// Run plans, generates and analyzes one batch per sensor using a single
// parameter snapshot. Sensor pipelines share no mutable state: each one owns
// its noise source and buffers, so a failure in one never affects the others.
// Cancelling ctx marks sensors that have not started with ctx.Err().
func (a *Analyzer) Run(ctx context.Context, specs []sensor.Spec, params sensor.Params) Report {
	start := time.Now()
	run := a.runs.Add(1)

	results := make([]SensorResult, len(specs))
	jobs := make(chan int)

	workers := min(a.opts.Workers, len(specs), runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = a.analyzeSensor(ctx, run, specs[i], params)
			}
		}()
	}

dispatch:
	for i := range specs {
		select {
		case jobs <- i:
		case <-ctx.Done():
			for j := i; j < len(specs); j++ {
				results[j] = SensorResult{Spec: specs[j], Err: ctx.Err()}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	report := Report{
		Run:       run,
		Params:    params,
		Sensors:   results,
		Stability: ClosedLoopPole(TimeConstantsFrom(specs), a.opts.Gains),
	}
	if do, ok := sensor.Lookup(specs, sensor.DissolvedOxygen); ok {
		report.Discrete, report.DiscreteErr = DiscreteReference(do, a.opts.Zero)
	} else {
		report.DiscreteErr = fmt.Errorf("%s not configured: %w", sensor.DissolvedOxygen, ErrInvalidSamplingInterval)
	}
	report.Elapsed = time.Since(start)

	for _, f := range report.Failed() {
		a.log.Warn("sensor analysis failed", "run", run, "sensor", f.Spec.ID.String(), "error", f.Err)
	}
	a.log.Info("analysis complete", "run", run, "sensors", len(specs),
		"failed", len(report.Failed()), "pole", report.Stability.Pole, "elapsed", report.Elapsed)
	return report
}

func (a *Analyzer) analyzeSensor(ctx context.Context, run uint64, spec sensor.Spec, params sensor.Params) SensorResult {
	res := SensorResult{Spec: spec}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	plan, err := PlanBatch(spec, a.opts.Policy)
	if err != nil {
		res.Err = err
		return res
	}
	res.Plan = plan

	noise := sensor.NewNoiseSource(a.opts.Seed, run<<8|uint64(spec.ID+1))
	sig := sensor.GenerateSignal(spec.ID, plan.Count, plan.Dt, params, noise)
	if i := sig.FirstNonFinite(); i >= 0 {
		res.Err = fmt.Errorf("%s: sample %d at t=%gs is %g: %w",
			spec.ID, i, sig.Time[i], sig.Value[i], ErrNonFiniteSignal)
		return res
	}
	res.Summary = sig.Summarize()

	sp, err := ComputeSpectrum(sig.Value, spec.RateHz)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", spec.ID, err)
		return res
	}
	res.Spectrum = sp

	a.log.Debug("sensor analyzed", "run", run, "sensor", spec.ID.String(),
		"samples", plan.Count, "duration", plan.Duration, "bins", len(sp.Bins))
	return res
}
