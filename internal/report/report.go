package report

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cooling-tower.klederson.com/internal/analysis"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const rule = "─────────────────────────────────────────────────────────"

// IntervalLabel formats a sampling period: milliseconds below one second,
// seconds otherwise.
func IntervalLabel(fs float64) string {
	if !(fs > 0) {
		return "n/a"
	}
	ts := 1 / fs
	if ts < 1 {
		return fmt.Sprintf("%.2f ms", ts*1000)
	}
	return fmt.Sprintf("%.2f s", ts)
}

// SensorTable renders one row per sensor pipeline.
func SensorTable(r analysis.Report) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.SetTitle("FREQUENCY DOMAIN  (run %d, %s)", r.Run, r.Elapsed.Round(time.Millisecond))
	tw.AppendHeader(table.Row{"Sensor", "fs (Hz)", "Ts", "Samples", "Duration (s)", "Mean", "Std", "Peak (Hz)", "Peak Mag", "Status"})
	for _, s := range r.Sensors {
		row := table.Row{s.Spec.ID.String(), s.Spec.RateHz, IntervalLabel(s.Spec.RateHz)}
		if s.Err != nil {
			row = append(row, "-", "-", "-", "-", "-", "-", s.Err.Error())
			tw.AppendRow(row)
			continue
		}
		peakF, peakM := "-", "-"
		if pk, ok := s.Spectrum.Peak(); ok {
			peakF = fmt.Sprintf("%.3f", pk.Frequency)
			peakM = fmt.Sprintf("%.4f", pk.Magnitude)
		}
		row = append(row,
			s.Plan.Count,
			fmt.Sprintf("%.1f", s.Plan.Duration),
			fmt.Sprintf("%.3f", s.Summary.Mean),
			fmt.Sprintf("%.3f", s.Summary.StdDev),
			peakF, peakM, "ok")
		tw.AppendRow(row)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})
	return tw.Render()
}

// Laplace renders the s-domain stability analysis.
func Laplace(r analysis.StabilityReport) string {
	g := r.Gains
	var b strings.Builder
	section := func(title string) {
		fmt.Fprintf(&b, "%s\n%s\n", title, rule)
	}

	section("S-DOMAIN STABILITY ANALYSIS")
	fmt.Fprintf(&b, "  G_T(s)  = %s   (K_T, τ_T)\n", r.Temperature)
	fmt.Fprintf(&b, "  G_F(s)  = %s   (K_F, τ_F)\n", r.Airflow)
	fmt.Fprintf(&b, "  G_RH(s) = %s   (K_RH, τ_RH)\n\n", r.Humidity)
	b.WriteString("  G_eff(s) = K_eff·G_F(s)·G_RH(s) / (1 + G_T(s)·G_F(s)·K_fb)\n\n")

	fmt.Fprintf(&b, "  K_sys = (%.2f · %.2f · %.2f) / (1 + %.2f · %.2f · %.2f) = %.4f\n",
		g.Effective, g.Airflow, g.Humidity, g.Temperature, g.Airflow, g.Feedback, r.KSys)
	fmt.Fprintf(&b, "  τ_sys ≈ %.2f s (dominant time constant)\n", r.TauSys)
	fmt.Fprintf(&b, "  G_sys(s) = %.4f / (%.2f·s + 1)\n\n", r.KSys, r.TauSys)

	section("SYSTEM POLE")
	fmt.Fprintf(&b, "  s_p = -1/τ_sys = -1/%.2f = %.4f rad/s\n", r.TauSys, r.Pole)
	fmt.Fprintf(&b, "  Re(s_p) = %.4f, Im(s_p) = 0 (real pole)\n", r.Pole)
	if r.Stable {
		fmt.Fprintf(&b, "  ✓ Re(s_p) = %.4f < 0  [STABLE, left half-plane]\n\n", r.Pole)
	} else {
		fmt.Fprintf(&b, "  ✗ Re(s_p) = %.4f ≥ 0  [UNSTABLE, right half-plane]\n\n", r.Pole)
	}

	section("RESPONSE")
	fmt.Fprintf(&b, "  Time constant:      %.2f s\n", r.TauSys)
	fmt.Fprintf(&b, "  Settling time (5τ): %.2f s (%.2f min)\n", r.SettlingTime, r.SettlingTime/60)
	fmt.Fprintf(&b, "  Bandwidth:          %.4f rad/s\n", r.Bandwidth)
	fmt.Fprintf(&b, "  Natural frequency:  %.6f Hz\n", r.NaturalFrequency)
	fmt.Fprintf(&b, "  Decay:              e^(%.4f·t)\n\n", r.Pole)

	section("FEEDBACK EFFECT")
	fmt.Fprintf(&b, "  Open-loop gain:   K_F·K_RH = %.2f\n", r.OpenLoopGain)
	fmt.Fprintf(&b, "  Closed-loop gain: K_sys = %.4f\n", r.KSys)
	fmt.Fprintf(&b, "  Feedback factor:  1 + K_T·K_F·K_fb = %.2f\n", r.FeedbackFactor)
	fmt.Fprintf(&b, "  Gain reduction:   %.1f%%\n\n", r.GainReduction)

	section("GUIDELINES")
	b.WriteString("  • Keep negative feedback (K_fb > 0)\n")
	b.WriteString("  • Keep every sensor time constant positive\n")
	fmt.Fprintf(&b, "  • Sample well above %.6f Hz (Nyquist)\n", 2*r.NaturalFrequency)
	fmt.Fprintf(&b, "  • Keep control delay well below %.2f s\n", -0.5/r.Pole)
	return b.String()
}

// ZDomain renders the zero-order-hold mapping of the dominant pole and zero.
func ZDomain(d analysis.DiscreteReport, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Z-DOMAIN (ZOH)\n%s\n", rule)
	if err != nil {
		fmt.Fprintf(&b, "  unavailable: %v\n", err)
		return b.String()
	}
	b.WriteString("  z = e^(s·T)\n")
	fmt.Fprintf(&b, "  T = 1/%.3f Hz = %.2f s (%s native interval)\n\n", 1/d.SamplingInterval, d.SamplingInterval, d.Sensor)
	fmt.Fprintf(&b, "  pole: s = %.2f → z = e^(%.2f·%.1f) = %s\n", d.ContinuousPole, d.ContinuousPole, d.SamplingInterval, formatZ(d.ZPole))
	fmt.Fprintf(&b, "  zero: s = %.2f → z = e^(%.2f·%.1f) = %s\n\n", d.ContinuousZero, d.ContinuousZero, d.SamplingInterval, formatZ(d.ZZero))
	if d.Stable {
		fmt.Fprintf(&b, "  ✓ |z_pole| = %s < 1  [STABLE, inside unit circle]\n", formatZ(math.Abs(d.ZPole)))
	} else {
		fmt.Fprintf(&b, "  ✗ |z_pole| = %s ≥ 1  [UNSTABLE]\n", formatZ(math.Abs(d.ZPole)))
	}
	return b.String()
}

// formatZ keeps tiny magnitudes readable instead of printing 0.000000.
func formatZ(z float64) string {
	if z != 0 && math.Abs(z) < 1e-4 {
		return fmt.Sprintf("%.3e", z)
	}
	return fmt.Sprintf("%.6f", z)
}

// Full renders the sensor table followed by the Laplace and Z-domain reports.
func Full(r analysis.Report) string {
	return SensorTable(r) + "\n\n" + Laplace(r.Stability) + "\n" + ZDomain(r.Discrete, r.DiscreteErr)
}
