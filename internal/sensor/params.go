package sensor

import (
	"math"
	"sync/atomic"

	"cooling-tower.klederson.com/internal/config"
)

// Params are the process conditions every signal model reads.
type Params struct {
	AmbientTemp   float64 // °C
	Humidity      float64 // %RH
	WindSpeed     float64 // m/s
	VibrationBase float64 // g, amplitude of the 60 Hz fundamental
	WaterTemp     float64 // °C
}

// DefaultParams returns the process conditions the simulator starts with.
func DefaultParams() Params {
	return Params{
		AmbientTemp:   config.DefaultAmbientTemp,
		Humidity:      config.DefaultHumidity,
		WindSpeed:     config.DefaultWindSpeed,
		VibrationBase: config.DefaultVibrationBase,
		WaterTemp:     config.DefaultWaterTemp,
	}
}

// Field selects one process parameter for editing.
type Field int

const (
	FieldAmbientTemp Field = iota
	FieldHumidity
	FieldWindSpeed
	FieldVibrationBase
	FieldWaterTemp
)

// FieldCount is the number of editable parameters.
const FieldCount = 5

// FieldInfo carries the editing bounds of a parameter.
type FieldInfo struct {
	Label string
	Unit  string
	Min   float64
	Max   float64
	Step  float64
}

var fieldInfo = [FieldCount]FieldInfo{
	{Label: "Ambient Temp", Unit: "°C", Min: 0, Max: 50, Step: 0.5},
	{Label: "Humidity", Unit: "%", Min: 0, Max: 100, Step: 1},
	{Label: "Wind Speed", Unit: "m/s", Min: 0, Max: 20, Step: 0.5},
	{Label: "Mech. Vibration", Unit: "g", Min: 0, Max: 5, Step: 0.1},
	{Label: "Water Temp", Unit: "°C", Min: 10, Max: 50, Step: 0.5},
}

// Info returns the editing bounds for f.
func (f Field) Info() FieldInfo {
	if f < 0 || int(f) >= FieldCount {
		return FieldInfo{}
	}
	return fieldInfo[f]
}

// Get returns the value of field f.
func (p Params) Get(f Field) float64 {
	switch f {
	case FieldAmbientTemp:
		return p.AmbientTemp
	case FieldHumidity:
		return p.Humidity
	case FieldWindSpeed:
		return p.WindSpeed
	case FieldVibrationBase:
		return p.VibrationBase
	case FieldWaterTemp:
		return p.WaterTemp
	}
	return math.NaN()
}

// With returns a copy of p with field f set to v, clamped to the field's
// editing bounds. The signal models never clamp their inputs, so this is
// the only place bounds are enforced.
func (p Params) With(f Field, v float64) Params {
	info := f.Info()
	v = math.Max(info.Min, math.Min(info.Max, v))
	switch f {
	case FieldAmbientTemp:
		p.AmbientTemp = v
	case FieldHumidity:
		p.Humidity = v
	case FieldWindSpeed:
		p.WindSpeed = v
	case FieldVibrationBase:
		p.VibrationBase = v
	case FieldWaterTemp:
		p.WaterTemp = v
	}
	return p
}

// Nudge moves field f by n editing steps.
func (p Params) Nudge(f Field, n int) Params {
	v := p.Get(f) + float64(n)*f.Info().Step
	// Snap to the step grid so repeated nudges do not drift.
	step := f.Info().Step
	if step > 0 {
		v = math.Round(v/step) * step
	}
	return p.With(f, v)
}

// ParamStore publishes immutable parameter snapshots. Readers always see a
// complete Params value; writers replace the snapshot instead of mutating it.
type ParamStore struct {
	cur atomic.Pointer[Params]
}

// NewParamStore creates a store holding p.
func NewParamStore(p Params) *ParamStore {
	s := &ParamStore{}
	s.Store(p)
	return s
}

// Load returns the current snapshot.
func (s *ParamStore) Load() Params {
	return *s.cur.Load()
}

// Store publishes p as the new snapshot.
func (s *ParamStore) Store(p Params) {
	s.cur.Store(&p)
}

// Update applies fn to the current snapshot and publishes the result,
// retrying if another writer published in between.
func (s *ParamStore) Update(fn func(Params) Params) Params {
	for {
		old := s.cur.Load()
		next := fn(*old)
		if s.cur.CompareAndSwap(old, &next) {
			return next
		}
	}
}
