package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable of a simulation session. The zero value is not
// useful; start from Default and overlay a file with Load.
type Config struct {
	Seed         uint64        `yaml:"seed"`
	TickInterval time.Duration `yaml:"tick_interval"`
	TimeStep     float64       `yaml:"time_step"`
	Window       float64       `yaml:"window"`
	Workers      int           `yaml:"workers"`

	Sampling SamplingConfig            `yaml:"sampling"`
	Gains    GainsConfig               `yaml:"gains"`
	Zero     float64                   `yaml:"illustrative_zero"`
	Params   ParamsConfig              `yaml:"params"`
	Sensors  map[string]SensorOverride `yaml:"sensors"`

	MQTT      MQTTConfig `yaml:"mqtt"`
	Log       LogConfig  `yaml:"log"`
	ExportDir string     `yaml:"export_dir"`
}

type SamplingConfig struct {
	MinSamples      int     `yaml:"min_samples"`
	Baseline        float64 `yaml:"baseline_seconds"`
	MaxTotalSamples int     `yaml:"max_total_samples"`
}

type GainsConfig struct {
	Effective   float64 `yaml:"effective"`
	Temperature float64 `yaml:"temperature"`
	Airflow     float64 `yaml:"airflow"`
	Humidity    float64 `yaml:"humidity"`
	Feedback    float64 `yaml:"feedback"`
}

type ParamsConfig struct {
	AmbientTemp   float64 `yaml:"ambient_temp"`
	Humidity      float64 `yaml:"humidity"`
	WindSpeed     float64 `yaml:"wind_speed"`
	VibrationBase float64 `yaml:"vibration_base"`
	WaterTemp     float64 `yaml:"water_temp"`
}

// SensorOverride replaces the native rate and/or time constant of one sensor.
// Nil fields keep the built-in value.
type SensorOverride struct {
	RateHz       *float64 `yaml:"rate_hz"`
	TimeConstant *float64 `yaml:"time_constant"`
}

type MQTTConfig struct {
	Broker   string `yaml:"broker"`
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	QoS      byte   `yaml:"qos"`
}

type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Seed:         NoiseSeed,
		TickInterval: TickInterval,
		TimeStep:     TimeStep,
		Window:       TimeWindow,
		Workers:      MaxWorkers,
		Sampling: SamplingConfig{
			MinSamples:      MinSamples,
			Baseline:        BaselineDuration,
			MaxTotalSamples: MaxTotalSamples,
		},
		Gains: GainsConfig{
			Effective:   GainEffective,
			Temperature: GainTemperature,
			Airflow:     GainAirflow,
			Humidity:    GainHumidity,
			Feedback:    GainFeedback,
		},
		Zero: IllustrativeZero,
		Params: ParamsConfig{
			AmbientTemp:   DefaultAmbientTemp,
			Humidity:      DefaultHumidity,
			WindSpeed:     DefaultWindSpeed,
			VibrationBase: DefaultVibrationBase,
			WaterTemp:     DefaultWaterTemp,
		},
		MQTT: MQTTConfig{
			Topic:    MQTTTopic,
			ClientID: MQTTClientID,
		},
		Log: LogConfig{
			File:       LogFile,
			Level:      LogLevel,
			MaxSizeMB:  LogMaxSizeMB,
			MaxBackups: LogMaxBackups,
		},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports configuration errors that must stop the program before
// the simulation starts. A non-positive sensor rate is deliberately allowed:
// it only fails that sensor's batch analysis.
func (c Config) Validate() error {
	var errs []error
	if c.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("tick_interval must be positive, got %s", c.TickInterval))
	}
	if !(c.TimeStep > 0) {
		errs = append(errs, fmt.Errorf("time_step must be positive, got %g", c.TimeStep))
	}
	if !(c.Window > 0) {
		errs = append(errs, fmt.Errorf("window must be positive, got %g", c.Window))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be at least 1, got %d", c.Workers))
	}
	if c.Sampling.MinSamples < 1 || c.Sampling.MaxTotalSamples < 1 {
		errs = append(errs, errors.New("sampling sample counts must be positive"))
	}
	if !(c.Sampling.Baseline > 0) {
		errs = append(errs, fmt.Errorf("sampling baseline must be positive, got %g", c.Sampling.Baseline))
	}
	if c.Gains.Feedback < 0 {
		errs = append(errs, fmt.Errorf("feedback gain must not be negative, got %g", c.Gains.Feedback))
	}
	for name, o := range c.Sensors {
		if o.TimeConstant != nil && !(*o.TimeConstant > 0) {
			errs = append(errs, fmt.Errorf("sensor %s: time_constant must be positive, got %g", name, *o.TimeConstant))
		}
		if o.RateHz != nil && (math.IsNaN(*o.RateHz) || math.IsInf(*o.RateHz, 0)) {
			errs = append(errs, fmt.Errorf("sensor %s: rate_hz must be finite", name))
		}
	}
	if c.MQTT.QoS > 2 {
		errs = append(errs, fmt.Errorf("mqtt qos must be 0, 1 or 2, got %d", c.MQTT.QoS))
	}
	if c.MQTT.Broker != "" && strings.TrimSpace(c.MQTT.Topic) == "" {
		errs = append(errs, errors.New("mqtt topic must be set when a broker is configured"))
	}
	return errors.Join(errs...)
}
