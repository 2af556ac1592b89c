package analysis

import (
	"fmt"
	"math"

	"cooling-tower.klederson.com/internal/config"
	"cooling-tower.klederson.com/internal/sensor"
)

// TransferFunction is the first-order model G(s) = K / (τ·s + 1).
type TransferFunction struct {
	Gain         float64
	TimeConstant float64
}

// Pole returns the real pole -1/τ in rad/s.
func (tf TransferFunction) Pole() float64 {
	return -1 / tf.TimeConstant
}

func (tf TransferFunction) String() string {
	return fmt.Sprintf("%.2f / (%.2f·s + 1)", tf.Gain, tf.TimeConstant)
}

// TimeConstants are the sensor time constants feeding the closed loop.
type TimeConstants struct {
	Temperature float64
	Airflow     float64
	Humidity    float64
}

// TimeConstantsFrom picks the loop's time constants out of a sensor table.
func TimeConstantsFrom(specs []sensor.Spec) TimeConstants {
	var tc TimeConstants
	for _, s := range specs {
		switch s.ID {
		case sensor.Temperature:
			tc.Temperature = s.TimeConstant
		case sensor.Airflow:
			tc.Airflow = s.TimeConstant
		case sensor.Humidity:
			tc.Humidity = s.TimeConstant
		}
	}
	return tc
}

// Gains are the open-loop sensor gains, the overall plant gain and the
// feedback gain.
type Gains struct {
	Effective   float64 // K_eff
	Temperature float64 // K_T
	Airflow     float64 // K_F
	Humidity    float64 // K_RH
	Feedback    float64 // K_fb
}

// ReferenceGains returns unity sensor gains with K_fb = 0.5.
func ReferenceGains() Gains {
	return Gains{
		Effective:   config.GainEffective,
		Temperature: config.GainTemperature,
		Airflow:     config.GainAirflow,
		Humidity:    config.GainHumidity,
		Feedback:    config.GainFeedback,
	}
}

// StabilityReport describes the dominant first-order closed-loop model.
type StabilityReport struct {
	Temperature TransferFunction
	Airflow     TransferFunction
	Humidity    TransferFunction
	Gains       Gains

	TauSys           float64 // Dominant time constant (s)
	KSys             float64 // Closed-loop gain
	Pole             float64 // s_p = -1/τ_sys (rad/s)
	SettlingTime     float64 // 5τ criterion (s)
	Bandwidth        float64 // |s_p| (rad/s)
	NaturalFrequency float64 // |s_p| / 2π (Hz)

	OpenLoopGain   float64 // K_F·K_RH
	FeedbackFactor float64 // 1 + K_T·K_F·K_fb
	GainReduction  float64 // Percent reduction from open to closed loop

	Stable bool // Pole in the left half-plane
}

// ClosedLoopPole reduces
//
//	T(s) = K_eff·G_F(s)·G_RH(s) / (1 + G_T(s)·G_F(s)·K_fb)
//
// to a single dominant pole. τ_sys is the slowest of the three sensor time
// constants rather than an exact pole placement, and the result depends only
// on the static time constants, never on live process parameters.
func ClosedLoopPole(tc TimeConstants, g Gains) StabilityReport {
	r := StabilityReport{
		Temperature: TransferFunction{Gain: g.Temperature, TimeConstant: tc.Temperature},
		Airflow:     TransferFunction{Gain: g.Airflow, TimeConstant: tc.Airflow},
		Humidity:    TransferFunction{Gain: g.Humidity, TimeConstant: tc.Humidity},
		Gains:       g,
	}

	r.FeedbackFactor = 1 + g.Temperature*g.Airflow*g.Feedback
	r.OpenLoopGain = g.Airflow * g.Humidity
	r.KSys = g.Effective * g.Airflow * g.Humidity / r.FeedbackFactor
	if r.OpenLoopGain != 0 {
		r.GainReduction = (1 - r.KSys/r.OpenLoopGain) * 100
	}

	r.TauSys = math.Max(math.Max(tc.Temperature, tc.Airflow), tc.Humidity)
	r.Pole = -1 / r.TauSys
	r.SettlingTime = -5 / r.Pole
	r.Bandwidth = math.Abs(r.Pole)
	r.NaturalFrequency = r.Bandwidth / (2 * math.Pi)
	r.Stable = r.Pole < 0
	return r
}
