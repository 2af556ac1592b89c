package telemetry

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"cooling-tower.klederson.com/internal/analysis"
	"cooling-tower.klederson.com/internal/config"
	"cooling-tower.klederson.com/internal/sensor"
	paho "github.com/eclipse/paho.mqtt.golang"
)

// Options configure the broker connection.
type Options struct {
	Broker         string
	Topic          string
	ClientID       string
	QoS            byte
	ConnectTimeout time.Duration
	Logger         *slog.Logger
}

// OptionsFromConfig copies the mqtt section of cfg.
func OptionsFromConfig(cfg config.Config, log *slog.Logger) Options {
	return Options{
		Broker:         cfg.MQTT.Broker,
		Topic:          cfg.MQTT.Topic,
		ClientID:       cfg.MQTT.ClientID,
		QoS:            cfg.MQTT.QoS,
		ConnectTimeout: config.MQTTConnectTimeout,
		Logger:         log,
	}
}

// ReadingMessage is the payload published per live sample on
// <topic>/<sensor>.
type ReadingMessage struct {
	Sensor string  `json:"sensor"`
	Unit   string  `json:"unit"`
	Time   float64 `json:"t"`
	Value  float64 `json:"value"`
}

// SensorSummary is one sensor's row in a ReportMessage.
type SensorSummary struct {
	Sensor    string  `json:"sensor"`
	RateHz    float64 `json:"rate_hz"`
	Samples   int     `json:"samples,omitempty"`
	Mean      float64 `json:"mean,omitempty"`
	StdDev    float64 `json:"std,omitempty"`
	PeakHz    float64 `json:"peak_hz,omitempty"`
	PeakValue float64 `json:"peak_mag,omitempty"`
	Error     string  `json:"error,omitempty"`
}

// ReportMessage is the payload published on <topic>/analysis.
type ReportMessage struct {
	Run     uint64          `json:"run"`
	Sensors []SensorSummary `json:"sensors"`
	Pole    float64         `json:"pole"`
	KSys    float64         `json:"k_sys"`
	TauSys  float64         `json:"tau_sys"`
	Stable  bool            `json:"stable"`
	ZPole   float64         `json:"z_pole,omitempty"`
	ZZero   float64         `json:"z_zero,omitempty"`
	Elapsed float64         `json:"elapsed_ms"`
}

// NewReportMessage flattens an analysis report for publishing or JSON output.
func NewReportMessage(r analysis.Report) ReportMessage {
	m := ReportMessage{
		Run:     r.Run,
		Pole:    r.Stability.Pole,
		KSys:    r.Stability.KSys,
		TauSys:  r.Stability.TauSys,
		Stable:  r.Stability.Stable,
		Elapsed: float64(r.Elapsed.Microseconds()) / 1000,
	}
	if r.DiscreteErr == nil {
		m.ZPole = r.Discrete.ZPole
		m.ZZero = r.Discrete.ZZero
	}
	for _, s := range r.Sensors {
		row := SensorSummary{Sensor: s.Spec.ID.String(), RateHz: s.Spec.RateHz}
		if s.Err != nil {
			row.Error = s.Err.Error()
		} else {
			row.Samples = s.Plan.Count
			row.Mean = s.Summary.Mean
			row.StdDev = s.Summary.StdDev
			if pk, ok := s.Spectrum.Peak(); ok {
				row.PeakHz = pk.Frequency
				row.PeakValue = pk.Magnitude
			}
		}
		m.Sensors = append(m.Sensors, row)
	}
	return m
}

// Publisher forwards live readings and analysis reports to an MQTT broker.
type Publisher struct {
	client  paho.Client
	topic   string
	qos     byte
	timeout time.Duration
	log     *slog.Logger
}

// Dial connects to opts.Broker and returns a ready Publisher.
func Dial(opts Options) (*Publisher, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log = log.With("component", "mqtt")
	if opts.Broker == "" {
		return nil, fmt.Errorf("mqtt: no broker configured")
	}
	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = config.MQTTConnectTimeout
	}
	if opts.ClientID == "" {
		opts.ClientID = config.MQTTClientID
	}

	co := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(opts.ConnectTimeout)
	co.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn("connection lost", "broker", opts.Broker, "error", err)
	})

	client := paho.NewClient(co)
	tok := client.Connect()
	if !tok.WaitTimeout(opts.ConnectTimeout) {
		return nil, fmt.Errorf("mqtt: connect %s: timed out after %s", opts.Broker, opts.ConnectTimeout)
	}
	if err := tok.Error(); err != nil {
		return nil, fmt.Errorf("mqtt: connect %s: %w", opts.Broker, err)
	}
	log.Info("connected", "broker", opts.Broker, "topic", opts.Topic)

	return &Publisher{
		client:  client,
		topic:   strings.TrimSuffix(opts.Topic, "/"),
		qos:     opts.QoS,
		timeout: opts.ConnectTimeout,
		log:     log,
	}, nil
}

// ReadingTopic returns the topic a sensor's live samples go to.
func (p *Publisher) ReadingTopic(id sensor.ID) string {
	return p.topic + "/" + strings.ToLower(id.Short())
}

// ReportTopic returns the topic analysis reports go to.
func (p *Publisher) ReportTopic() string {
	return p.topic + "/analysis"
}

// PublishReadings sends one message per reading without waiting for acks,
// so a slow broker never stalls the tick loop.
func (p *Publisher) PublishReadings(readings []sensor.Reading) {
	for _, r := range readings {
		payload, err := json.Marshal(ReadingMessage{
			Sensor: r.Sensor.String(),
			Unit:   r.Sensor.Unit(),
			Time:   r.Time,
			Value:  r.Value,
		})
		if err != nil {
			// NaN and Inf are not representable in JSON.
			p.log.Debug("reading dropped", "sensor", r.Sensor.String(), "value", r.Value, "error", err)
			continue
		}
		p.client.Publish(p.ReadingTopic(r.Sensor), p.qos, false, payload)
	}
}

// PublishReport sends a report summary and waits for it to be delivered.
func (p *Publisher) PublishReport(r analysis.Report) error {
	payload, err := json.Marshal(NewReportMessage(r))
	if err != nil {
		return fmt.Errorf("mqtt: encode report %d: %w", r.Run, err)
	}
	tok := p.client.Publish(p.ReportTopic(), p.qos, true, payload)
	if !tok.WaitTimeout(p.timeout) {
		return fmt.Errorf("mqtt: publish report %d: timed out", r.Run)
	}
	if err := tok.Error(); err != nil {
		return fmt.Errorf("mqtt: publish report %d: %w", r.Run, err)
	}
	p.log.Debug("report published", "run", r.Run, "topic", p.ReportTopic())
	return nil
}

// Close disconnects, giving in-flight messages a moment to drain.
func (p *Publisher) Close() error {
	p.client.Disconnect(250)
	p.log.Info("disconnected")
	return nil
}
