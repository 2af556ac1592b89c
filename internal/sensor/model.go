package sensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const twoPi = 2 * math.Pi

// Generate returns the instantaneous value of sensor id at simulated time t.
// It consumes exactly one draw from noise. Inputs are not validated: NaN or
// Inf parameters propagate into the result so the caller can detect them.
func Generate(id ID, t float64, p Params, noise NoiseSource) float64 {
	u := noise.Float64() - 0.5
	switch id {
	case Temperature:
		return temperature(t, p, u)
	case Humidity:
		return humidity(t, p, u)
	case Airflow:
		return airflow(t, p, u)
	case Vibration:
		return vibration(t, p, u)
	case DissolvedOxygen:
		return dissolvedOxygen(t, p, u)
	}
	return math.NaN()
}

// Baseline plus a 0.5 Hz swing, cooled by wind above 5 m/s and warmed by
// mechanical vibration.
func temperature(t float64, p Params, u float64) float64 {
	periodic := 2 * math.Sin(twoPi*0.5*t)
	wind := -0.8 * (p.WindSpeed - 5)
	vib := 0.3 * p.VibrationBase
	return p.AmbientTemp + periodic + wind + vib + 0.5*u
}

func humidity(t float64, p Params, u float64) float64 {
	temp := -1.5 * (p.AmbientTemp - 25)
	water := 0.8 * (p.WaterTemp - 30)
	periodic := 5 * math.Sin(twoPi*0.3*t)
	wind := -0.5 * (p.WindSpeed - 5)
	v := p.Humidity + temp + water + periodic + wind + 1.0*u
	return math.Max(0, math.Min(100, v))
}

func airflow(t float64, p Params, u float64) float64 {
	periodic := 1.5*math.Sin(twoPi*1.0*t) + 0.5*math.Sin(twoPi*3.0*t)
	temp := 0.3 * (p.AmbientTemp - 25)
	hum := -0.05 * (p.Humidity - 60)
	return math.Max(0, p.WindSpeed+periodic+temp+hum+0.3*u)
}

// 60 Hz motor fundamental, 120 Hz harmonic and a 5 Hz wind-induced sway.
func vibration(t float64, p Params, u float64) float64 {
	fundamental := p.VibrationBase * math.Sin(twoPi*60*t)
	harmonic := 0.2 * math.Sin(twoPi*120*t)
	wind := 0.05 * p.WindSpeed * math.Sin(twoPi*5*t)
	return fundamental + harmonic + wind + 0.1*u
}

// Solubility falls 2 mg/L per 10 °C of water above 20 °C; wind aerates.
func dissolvedOxygen(t float64, p Params, u float64) float64 {
	base := 8.0 - 2.0*(p.WaterTemp-20)/10.0
	periodic := 0.5 * math.Sin(twoPi*0.2*t)
	aeration := 0.5 * (p.WindSpeed - 5)
	ambient := -0.15 * (p.AmbientTemp - 25)
	return math.Max(0, base+periodic+aeration+ambient+0.2*u)
}

// Signal is one generated batch: Time[i] and Value[i] describe sample i.
type Signal struct {
	Sensor ID
	Time   []float64
	Value  []float64
}

// GenerateSignal produces count samples spaced dt apart starting at t=0,
// using a single parameter snapshot for the whole batch.
func GenerateSignal(id ID, count int, dt float64, p Params, noise NoiseSource) Signal {
	if count < 0 {
		count = 0
	}
	sig := Signal{
		Sensor: id,
		Time:   make([]float64, count),
		Value:  make([]float64, count),
	}
	for i := 0; i < count; i++ {
		t := float64(i) * dt
		sig.Time[i] = t
		sig.Value[i] = Generate(id, t, p, noise)
	}
	return sig
}

// Len returns the number of samples.
func (s Signal) Len() int {
	return len(s.Value)
}

// FirstNonFinite returns the index of the first NaN or Inf value, or -1.
func (s Signal) FirstNonFinite() int {
	for i, v := range s.Value {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i
		}
	}
	return -1
}

// Summary holds descriptive statistics of a signal.
type Summary struct {
	Count  int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes the statistics of s. An empty signal yields a zero Summary.
func (s Signal) Summarize() Summary {
	n := len(s.Value)
	if n == 0 {
		return Summary{}
	}
	mean, std := stat.MeanStdDev(s.Value, nil)
	if n == 1 {
		std = 0
	}
	return Summary{
		Count:  n,
		Mean:   mean,
		StdDev: std,
		Min:    floats.Min(s.Value),
		Max:    floats.Max(s.Value),
	}
}
