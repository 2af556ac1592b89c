package config

import "time"

const (
	// Simulation clock
	TickInterval = 50 * time.Millisecond // Real-time interval between ticks
	TimeStep     = 0.05                  // Simulated seconds added per tick
	TimeWindow   = 10.0                  // Trailing window kept per sensor (seconds)
	NoiseSeed    = 42                    // Fixed seed so runs are reproducible

	// Batch analysis sizing
	MinSamples       = 128    // Minimum samples per sensor for a usable FFT
	BaselineDuration = 60.0   // Default batch length in seconds
	MaxTotalSamples  = 200000 // Upper bound per sensor (caps the 10 kHz vibration batch)
	MaxWorkers       = 5      // One worker per sensor at most

	// Reference closed-loop gains
	GainEffective   = 1.0
	GainTemperature = 1.0
	GainAirflow     = 1.0
	GainHumidity    = 1.0
	GainFeedback    = 0.5

	// Illustrative continuous zero used for the Z-domain mapping (rad/s)
	IllustrativeZero = -0.5

	// Default process parameters
	DefaultAmbientTemp   = 25.0 // °C
	DefaultHumidity      = 60.0 // %RH
	DefaultWindSpeed     = 5.0  // m/s
	DefaultVibrationBase = 0.5  // g
	DefaultWaterTemp     = 30.0 // °C

	// Telemetry
	MQTTTopic          = "coolingtower"
	MQTTClientID       = "cooling-tower-sim"
	MQTTConnectTimeout = 5 * time.Second

	// Logging
	LogFile       = "cooling-tower.log"
	LogLevel      = "info"
	LogMaxSizeMB  = 10
	LogMaxBackups = 3

	// App
	AppName    = "COOLING-TOWER"
	AppVersion = "1.0"
)
