package sensor

import (
	"fmt"
	"strings"
)

// ID identifies one of the five cooling-tower sensors.
type ID int

const (
	Temperature ID = iota
	Humidity
	Airflow
	Vibration
	DissolvedOxygen
)

// Count is the number of simulated sensors.
const Count = 5

func (id ID) String() string {
	switch id {
	case Temperature:
		return "Temperature"
	case Humidity:
		return "Humidity"
	case Airflow:
		return "Airflow"
	case Vibration:
		return "Vibration"
	case DissolvedOxygen:
		return "DissolvedOxygen"
	default:
		return fmt.Sprintf("Sensor(%d)", int(id))
	}
}

// Short returns a compact label for narrow displays.
func (id ID) Short() string {
	switch id {
	case Temperature:
		return "TEMP"
	case Humidity:
		return "HUM"
	case Airflow:
		return "AIR"
	case Vibration:
		return "VIB"
	case DissolvedOxygen:
		return "DO"
	default:
		return "?"
	}
}

// Unit returns the engineering unit of the sensor's output.
func (id ID) Unit() string {
	switch id {
	case Temperature:
		return "°C"
	case Humidity:
		return "%RH"
	case Airflow:
		return "m/s"
	case Vibration:
		return "g"
	case DissolvedOxygen:
		return "mg/L"
	default:
		return ""
	}
}

// Valid reports whether id names one of the five sensors.
func (id ID) Valid() bool {
	return id >= Temperature && id <= DissolvedOxygen
}

// ParseID accepts the full name or the short label, case-insensitively.
func ParseID(s string) (ID, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for id := Temperature; id <= DissolvedOxygen; id++ {
		if key == strings.ToLower(id.String()) || key == strings.ToLower(id.Short()) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("unknown sensor %q", s)
}

// All returns the sensors in display order.
func All() []ID {
	return []ID{Temperature, Humidity, Airflow, Vibration, DissolvedOxygen}
}

// Spec describes a sensor's native sampling rate and first-order response.
type Spec struct {
	ID           ID
	RateHz       float64 // Native sampling rate
	TimeConstant float64 // First-order time constant (seconds)
}

// SamplingInterval returns the native sampling period in seconds.
func (s Spec) SamplingInterval() float64 {
	return 1 / s.RateHz
}

// SHT85 (temperature/humidity) at 400 Hz, Testo anemometer at 1.25 Hz,
// PCB accelerometer at 10 kHz, DO probe at 0.033 Hz.
var defaultSpecs = [Count]Spec{
	{ID: Temperature, RateHz: 400, TimeConstant: 0.5},
	{ID: Humidity, RateHz: 400, TimeConstant: 0.67},
	{ID: Airflow, RateHz: 1.25, TimeConstant: 0.2},
	{ID: Vibration, RateHz: 10000, TimeConstant: 0.02},
	{ID: DissolvedOxygen, RateHz: 0.033, TimeConstant: 1.25},
}

// DefaultSpecs returns a fresh copy of the built-in sensor table, indexed by ID.
func DefaultSpecs() []Spec {
	out := make([]Spec, Count)
	copy(out, defaultSpecs[:])
	return out
}

// Lookup returns the spec for id from a table indexed by ID.
func Lookup(specs []Spec, id ID) (Spec, bool) {
	for _, s := range specs {
		if s.ID == id {
			return s, true
		}
	}
	return Spec{}, false
}

// Reading is one real-time sample handed to the rendering and telemetry sinks.
type Reading struct {
	Sensor ID
	Time   float64
	Value  float64
}
