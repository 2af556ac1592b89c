package export

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"cooling-tower.klederson.com/internal/analysis"
	"cooling-tower.klederson.com/internal/report"
	"cooling-tower.klederson.com/internal/telemetry"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	traceColor  = color.RGBA{R: 0x00, G: 0x87, B: 0xaf, A: 0xff}
	poleColor   = color.RGBA{R: 0xd7, G: 0x00, B: 0x00, A: 0xff}
	zeroColor   = color.RGBA{R: 0x00, G: 0x87, B: 0x00, A: 0xff}
	circleColor = color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 4 * vg.Inch
)

// SpectrumPlot builds the single-sided magnitude spectrum of one sensor.
func SpectrumPlot(r analysis.SensorResult) (*plot.Plot, error) {
	if r.Err != nil {
		return nil, fmt.Errorf("spectrum plot: %w", r.Err)
	}
	fs, mag := r.Spectrum.XY()
	if len(fs) == 0 {
		return nil, fmt.Errorf("spectrum plot: %s: %w", r.Spec.ID, analysis.ErrDegenerateSpectrum)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s spectrum (fs = %g Hz, N = %d)", r.Spec.ID, r.Spectrum.SampleRate, r.Spectrum.N)
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = fmt.Sprintf("|X(f)| (%s)", r.Spec.ID.Unit())
	p.Add(plotter.NewGrid())

	line, err := plotter.NewLine(xys(fs, mag))
	if err != nil {
		return nil, fmt.Errorf("spectrum plot: %w", err)
	}
	line.LineStyle.Color = traceColor
	line.LineStyle.Width = vg.Points(1)
	p.Add(line)
	return p, nil
}

// SPlanePlot marks the dominant closed-loop pole and the sensor poles.
func SPlanePlot(r analysis.StabilityReport) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = "S-plane"
	p.X.Label.Text = "Re(s)"
	p.Y.Label.Text = "Im(s)"
	p.Add(plotter.NewGrid())

	sensors, err := plotter.NewScatter(plotter.XYs{
		{X: r.Temperature.Pole()},
		{X: r.Airflow.Pole()},
		{X: r.Humidity.Pole()},
	})
	if err != nil {
		return nil, fmt.Errorf("s-plane plot: %w", err)
	}
	sensors.GlyphStyle.Shape = draw.CrossGlyph{}
	sensors.GlyphStyle.Color = circleColor
	sensors.GlyphStyle.Radius = vg.Points(3)

	dominant, err := plotter.NewScatter(plotter.XYs{{X: r.Pole}})
	if err != nil {
		return nil, fmt.Errorf("s-plane plot: %w", err)
	}
	dominant.GlyphStyle.Shape = draw.CrossGlyph{}
	dominant.GlyphStyle.Color = poleColor
	dominant.GlyphStyle.Radius = vg.Points(6)

	lo := min(r.Pole, r.Temperature.Pole(), r.Airflow.Pole(), r.Humidity.Pole())
	axis, err := plotter.NewLine(plotter.XYs{{X: 0, Y: -1}, {X: 0, Y: 1}})
	if err != nil {
		return nil, fmt.Errorf("s-plane plot: %w", err)
	}
	axis.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	axis.LineStyle.Color = circleColor

	p.Add(axis, sensors, dominant)
	p.Legend.Add("sensor poles", sensors)
	p.Legend.Add(fmt.Sprintf("s_p = %.4f", r.Pole), dominant)
	p.X.Min = math.Min(1.2*lo, -1)
	p.X.Max = 0.5
	p.Y.Min, p.Y.Max = -1, 1
	return p, nil
}

// ZPlanePlot draws the unit circle with the discretized pole and zero.
func ZPlanePlot(d analysis.DiscreteReport) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Z-plane (%s, T = %.2f s)", d.Sensor, d.SamplingInterval)
	p.X.Label.Text = "Re(z)"
	p.Y.Label.Text = "Im(z)"
	p.Add(plotter.NewGrid())

	const steps = 256
	circle := make(plotter.XYs, steps+1)
	for i := range circle {
		a := 2 * math.Pi * float64(i) / steps
		circle[i].X, circle[i].Y = math.Cos(a), math.Sin(a)
	}
	unit, err := plotter.NewLine(circle)
	if err != nil {
		return nil, fmt.Errorf("z-plane plot: %w", err)
	}
	unit.LineStyle.Color = circleColor

	pole, err := plotter.NewScatter(plotter.XYs{{X: d.ZPole}})
	if err != nil {
		return nil, fmt.Errorf("z-plane plot: %w", err)
	}
	pole.GlyphStyle.Shape = draw.CrossGlyph{}
	pole.GlyphStyle.Color = poleColor
	pole.GlyphStyle.Radius = vg.Points(5)

	zero, err := plotter.NewScatter(plotter.XYs{{X: d.ZZero}})
	if err != nil {
		return nil, fmt.Errorf("z-plane plot: %w", err)
	}
	zero.GlyphStyle.Shape = draw.CircleGlyph{}
	zero.GlyphStyle.Color = zeroColor
	zero.GlyphStyle.Radius = vg.Points(5)

	p.Add(unit, pole, zero)
	p.Legend.Add(fmt.Sprintf("pole z = %.3g", d.ZPole), pole)
	p.Legend.Add(fmt.Sprintf("zero z = %.3g", d.ZZero), zero)
	p.X.Min, p.X.Max = -1.2, 1.2
	p.Y.Min, p.Y.Max = -1.2, 1.2
	return p, nil
}

// WriteReport saves one analysis run under dir: a text report, a JSON
// summary, one spectrum PNG per successful sensor and the pole plots.
// Failed sensors are skipped. It returns the files written.
func WriteReport(dir string, r analysis.Report) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	prefix := filepath.Join(dir, fmt.Sprintf("run-%03d", r.Run))
	var files []string

	txt := prefix + "-report.txt"
	if err := os.WriteFile(txt, []byte(report.Full(r)), 0o644); err != nil {
		return files, fmt.Errorf("export: %w", err)
	}
	files = append(files, txt)

	js, err := json.MarshalIndent(telemetry.NewReportMessage(r), "", "  ")
	if err != nil {
		return files, fmt.Errorf("export: encode report: %w", err)
	}
	if err := os.WriteFile(prefix+"-report.json", js, 0o644); err != nil {
		return files, fmt.Errorf("export: %w", err)
	}
	files = append(files, prefix+"-report.json")

	for _, s := range r.Sensors {
		if s.Err != nil {
			continue
		}
		p, err := SpectrumPlot(s)
		if err != nil {
			return files, err
		}
		name := fmt.Sprintf("%s-spectrum-%s.png", prefix, strings.ToLower(s.Spec.ID.Short()))
		if err := p.Save(plotWidth, plotHeight, name); err != nil {
			return files, fmt.Errorf("export: %w", err)
		}
		files = append(files, name)
	}

	sp, err := SPlanePlot(r.Stability)
	if err != nil {
		return files, err
	}
	if err := sp.Save(plotWidth, plotHeight, prefix+"-splane.png"); err != nil {
		return files, fmt.Errorf("export: %w", err)
	}
	files = append(files, prefix+"-splane.png")

	if r.DiscreteErr == nil {
		zp, err := ZPlanePlot(r.Discrete)
		if err != nil {
			return files, err
		}
		if err := zp.Save(5*vg.Inch, 5*vg.Inch, prefix+"-zplane.png"); err != nil {
			return files, fmt.Errorf("export: %w", err)
		}
		files = append(files, prefix+"-zplane.png")
	}
	return files, nil
}

func xys(x, y []float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range pts {
		pts[i].X = x[i]
		pts[i].Y = y[i]
	}
	return pts
}
