package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"cooling-tower.klederson.com/internal/app"
	"cooling-tower.klederson.com/internal/config"
	"cooling-tower.klederson.com/internal/export"
	"cooling-tower.klederson.com/internal/logging"
	"cooling-tower.klederson.com/internal/report"
	"cooling-tower.klederson.com/internal/sim"
	"cooling-tower.klederson.com/internal/telemetry"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	flagConfig      string
	flagLogFile     string
	flagLogLevel    string
	flagBroker      string
	flagTopic       string
	flagExportDir   string
	flagSeed        uint64
	flagWindow      float64
	flagJSON        bool
	flagNoAutoStart bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cooling-tower",
		Short: "Cooling tower sensor simulator with live charts and stability analysis",
		Long: `cooling-tower simulates the five sensors of an evaporative cooling tower
(temperature, humidity, airflow, vibration and dissolved oxygen), plots them
live in the terminal and runs batch frequency, Laplace and Z-domain analyses
at each sensor's native sampling rate.

Readings and reports can be forwarded to an MQTT broker with --mqtt-broker.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML configuration file")
	pf.StringVar(&flagLogFile, "log-file", config.LogFile, "Log file (empty disables logging)")
	pf.StringVar(&flagLogLevel, "log-level", config.LogLevel, "Log level: debug, info, warn, error")
	pf.StringVar(&flagBroker, "mqtt-broker", "", "MQTT broker URL, e.g. tcp://localhost:1883")
	pf.StringVar(&flagTopic, "mqtt-topic", config.MQTTTopic, "MQTT topic prefix")
	pf.StringVar(&flagExportDir, "export-dir", "export", "Directory for exported reports and plots")
	pf.Uint64Var(&flagSeed, "seed", config.NoiseSeed, "Noise seed")
	pf.Float64Var(&flagWindow, "window", config.TimeWindow, "Live chart window in seconds")

	rootCmd.Flags().BoolVar(&flagNoAutoStart, "paused", false, "Wait for [S] instead of starting immediately")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one batch analysis and print the report",
		Args:  cobra.NoArgs,
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().BoolVar(&flagJSON, "json", false, "Print the report as JSON")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s v%s\n", config.AppName, config.AppVersion)
		},
	}

	rootCmd.AddCommand(analyzeCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config and applies any flags set on the command line.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	flags := cmd.Flags()
	if flags.Changed("log-file") {
		cfg.Log.File = flagLogFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("mqtt-broker") {
		cfg.MQTT.Broker = flagBroker
	}
	if flags.Changed("mqtt-topic") {
		cfg.MQTT.Topic = flagTopic
	}
	if flags.Changed("export-dir") || cfg.ExportDir == "" {
		cfg.ExportDir = flagExportDir
	}
	if flags.Changed("seed") {
		cfg.Seed = flagSeed
	}
	if flags.Changed("window") {
		cfg.Window = flagWindow
	}
	return cfg, cfg.Validate()
}

type env struct {
	cfg     config.Config
	log     *slog.Logger
	session *sim.Session
	pub     *telemetry.Publisher
	closers []io.Closer
}

func setup(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	log, logCloser, err := logging.New(logging.Options{
		File:       cfg.Log.File,
		Level:      cfg.Log.Level,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	})
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	e := &env{cfg: cfg, log: log, closers: []io.Closer{logCloser}}

	opts, err := sim.OptionsFromConfig(cfg, log)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.session = sim.New(opts)

	if cfg.MQTT.Broker != "" {
		pub, err := telemetry.Dial(telemetry.OptionsFromConfig(cfg, log))
		if err != nil {
			e.Close()
			return nil, err
		}
		e.pub = pub
		e.closers = append([]io.Closer{pub}, e.closers...)
	}
	log.Info("starting", "version", config.AppVersion, "seed", cfg.Seed, "window", cfg.Window, "mqtt", cfg.MQTT.Broker)
	return e, nil
}

func (e *env) Close() {
	for _, c := range e.closers {
		_ = c.Close()
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	opts := app.Options{
		Session:   e.session,
		Interval:  e.cfg.TickInterval,
		Broker:    e.cfg.MQTT.Broker,
		ExportDir: e.cfg.ExportDir,
		AutoStart: !flagNoAutoStart,
		Logger:    e.log,
	}
	if e.pub != nil {
		opts.Sink = e.pub
	}

	p := tea.NewProgram(app.New(opts), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	r := e.session.Analyze(ctx)
	out := cmd.OutOrStdout()
	if flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(telemetry.NewReportMessage(r)); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, report.Full(r))
	}

	if e.pub != nil {
		if err := e.pub.PublishReport(r); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("export-dir") {
		files, err := export.WriteReport(e.cfg.ExportDir, r)
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintln(cmd.ErrOrStderr(), "wrote", f)
		}
	}
	if failed := r.Failed(); len(failed) > 0 {
		return fmt.Errorf("%d of %d sensors failed", len(failed), len(r.Sensors))
	}
	return nil
}
