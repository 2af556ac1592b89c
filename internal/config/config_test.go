package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	require.Equal(t, uint64(42), cfg.Seed)
	require.Equal(t, 50*time.Millisecond, cfg.TickInterval)
	require.Equal(t, 10.0, cfg.Window)
	require.Equal(t, 200000, cfg.Sampling.MaxTotalSamples)
	require.Equal(t, 0.5, cfg.Gains.Feedback)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tower.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tick_interval: 100ms
window: 20
params:
  ambient_temp: 31.5
mqtt:
  broker: tcp://127.0.0.1:1883
log:
  level: debug
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	require.Equal(t, 20.0, cfg.Window)
	require.Equal(t, 31.5, cfg.Params.AmbientTemp)
	require.Equal(t, DefaultHumidity, cfg.Params.Humidity)
	require.Equal(t, "tcp://127.0.0.1:1883", cfg.MQTT.Broker)
	require.Equal(t, MQTTTopic, cfg.MQTT.Topic)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, 0.05, cfg.TimeStep)
}

func TestLoadErrors(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("window: [1, 2"), 0o644))
	_, err = Load(path)
	require.ErrorContains(t, err, "parse config")
}

func TestValidateRejectsNonPositiveTimeConstant(t *testing.T) {
	zero := 0.0
	neg := -1.0
	cfg := Default()
	cfg.Sensors = map[string]SensorOverride{
		"Temperature": {TimeConstant: &zero},
		"Humidity":    {RateHz: &neg},
	}
	err := cfg.Validate()
	require.ErrorContains(t, err, "Temperature: time_constant must be positive")
	// A bad rate only fails that sensor's analysis later on.
	require.NotContains(t, err.Error(), "Humidity")
}

func TestValidateCollectsErrors(t *testing.T) {
	cfg := Default()
	cfg.TickInterval = 0
	cfg.Window = -1
	cfg.Workers = 0
	cfg.Gains.Feedback = -0.1
	cfg.MQTT.QoS = 3
	cfg.MQTT.Broker = "tcp://localhost:1883"
	cfg.MQTT.Topic = " "

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"tick_interval", "window", "workers", "feedback", "qos", "topic"} {
		require.ErrorContains(t, err, want)
	}
}
