package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cooling-tower.klederson.com/internal/analysis"
	"cooling-tower.klederson.com/internal/export"
	"cooling-tower.klederson.com/internal/sensor"
	"cooling-tower.klederson.com/internal/sim"
	"cooling-tower.klederson.com/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Sink receives live readings and finished reports, e.g. an MQTT publisher.
type Sink interface {
	PublishReadings([]sensor.Reading)
	PublishReport(analysis.Report) error
}

// Options configure the TUI model.
type Options struct {
	Session   *sim.Session
	Interval  time.Duration // Wall-clock time between ticks
	Sink      Sink          // Optional
	Broker    string        // Shown in the menu bar
	ExportDir string
	AutoStart bool
	Logger    *slog.Logger
}

// shared holds state shared between the Bubble Tea model copies and main.go.
// Because Bubble Tea uses value receivers, pointer fields ensure all copies
// see the same underlying data.
type shared struct {
	session   *sim.Session
	sink      Sink
	exportDir string
	log       *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// AppModel is the root Bubble Tea model for the cooling tower monitor.
type AppModel struct {
	width  int
	height int

	interval  time.Duration
	autoStart bool
	broker    string

	gen       uint64
	running   bool
	analyzing bool
	selected  sensor.Field
	scroll    int

	report  *analysis.Report
	message string
	isError bool

	shared *shared
}

// New creates a new AppModel.
func New(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return AppModel{
		interval:  opts.Interval,
		autoStart: opts.AutoStart,
		broker:    opts.Broker,
		shared: &shared{
			session:   opts.Session,
			sink:      opts.Sink,
			exportDir: opts.ExportDir,
			log:       log.With("component", "app"),
			ctx:       ctx,
			cancel:    cancel,
		},
	}
}

func (m AppModel) Init() tea.Cmd {
	if m.autoStart {
		return func() tea.Msg { return StartMsg{} }
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StartMsg:
		return m.start()

	case TickMsg:
		if msg.Gen != m.gen {
			return m, nil
		}
		readings, ok := m.shared.session.Tick(msg.Gen)
		if !ok {
			return m, nil
		}
		if m.shared.sink != nil {
			m.shared.sink.PublishReadings(readings)
		}
		return m, m.tickCmd()

	case AnalysisMsg:
		m.analyzing = false
		r := msg.Report
		m.report = &r
		m.setMessage(fmt.Sprintf("analysis %d done, %d failed", r.Run, len(r.Failed())), len(r.Failed()) > 0)
		if msg.PublishErr != nil {
			m.setMessage(msg.PublishErr.Error(), true)
		}
		return m, nil

	case ExportMsg:
		if msg.Err != nil {
			m.setMessage(msg.Err.Error(), true)
		} else {
			m.setMessage(fmt.Sprintf("exported %d files to %s", len(msg.Files), m.shared.exportDir), false)
		}
		return m, nil
	}

	return m, nil
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		m.shared.cancel()
		m.shared.session.Stop()
		return m, tea.Quit

	case "s", "S":
		return m.start()

	case "x", "X":
		m.shared.session.Stop()
		m.running = false

	case "u", "U":
		if !m.analyzing {
			m.analyzing = true
			return m, m.analyzeCmd()
		}

	case "e", "E":
		if m.report == nil {
			m.setMessage("nothing to export yet", true)
			return m, nil
		}
		return m, m.exportCmd(*m.report)

	case "up", "k", "shift+tab":
		m.selected = (m.selected + sensor.FieldCount - 1) % sensor.FieldCount

	case "down", "j", "tab":
		m.selected = (m.selected + 1) % sensor.FieldCount

	case "+", "=", "right", "l":
		m.nudge(1)

	case "-", "_", "left", "h":
		m.nudge(-1)

	case "pgup":
		m.scroll = max(0, m.scroll-5)

	case "pgdown":
		m.scroll = min(m.scroll+5, len(ui.AnalysisLines(m.report)))

	case "home":
		m.scroll = 0
	}

	return m, nil
}

// start resets the session and kicks off both the tick loop and a fresh
// analysis of the initial parameters.
func (m AppModel) start() (tea.Model, tea.Cmd) {
	m.gen = m.shared.session.Start()
	m.running = true
	cmds := []tea.Cmd{m.tickCmd()}
	if !m.analyzing {
		m.analyzing = true
		cmds = append(cmds, m.analyzeCmd())
	}
	return m, tea.Batch(cmds...)
}

func (m *AppModel) nudge(n int) {
	f := m.selected
	p := m.shared.session.Params().Update(func(p sensor.Params) sensor.Params {
		return p.Nudge(f, n)
	})
	m.shared.log.Debug("parameter changed", "field", f.Info().Label, "value", p.Get(f))
}

func (m *AppModel) setMessage(s string, isErr bool) {
	m.message = s
	m.isError = isErr
}

func (m AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing cooling tower monitor..."
	}

	menuH := 1
	statusH := 1
	bodyH := max(m.height-menuH-statusH, 10)

	sideW := max(m.width*2/5, 44)
	chartW := max(m.width-sideW, 30)

	s := m.shared.session
	specs := s.Specs()
	panelH := max(bodyH/max(len(specs), 1), 4)
	charts := make([]string, 0, len(specs))
	for i, spec := range specs {
		x, y, lo, hi := s.Series(i)
		v := ui.SensorView{Spec: spec, X: x, Y: y, Lo: lo, Hi: hi}
		if p, ok := s.Latest(i); ok {
			v.Latest, v.HasAny = p.Value, true
		}
		charts = append(charts, ui.RenderSensorPanel(chartW, panelH, v))
	}

	paramsH := sensor.FieldCount + 6
	params := ui.RenderParamsPanel(sideW, paramsH, s.Params().Load(), m.selected)
	analysisPanel := ui.RenderAnalysisPanel(sideW, max(bodyH-paramsH, 5),
		ui.AnalysisLines(m.report), m.scroll, m.analyzing)

	st := s.Stats()
	status := ui.RenderStatusBar(m.width, ui.StatusInfo{
		Running:      m.running,
		Time:         s.Now(),
		Ticks:        st.Ticks,
		Samples:      st.Samples,
		Runs:         st.Runs,
		Failures:     st.Failures,
		MeanAnalysis: st.MeanAnalysis,
		Message:      m.message,
		Error:        m.isError,
	})

	return ui.ComposeLayout(ui.RenderMenuBar(m.width, m.running, m.broker),
		charts, []string{params, analysisPanel}, status)
}

func (m AppModel) tickCmd() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return TickMsg{Gen: gen, Time: t}
	})
}

// analyzeCmd runs the batch analysis off the UI goroutine.
func (m AppModel) analyzeCmd() tea.Cmd {
	sh := m.shared
	return func() tea.Msg {
		r := sh.session.Analyze(sh.ctx)
		var perr error
		if sh.sink != nil {
			if err := sh.sink.PublishReport(r); err != nil {
				sh.log.Warn("report publish failed", "run", r.Run, "error", err)
				perr = err
			}
		}
		return AnalysisMsg{Report: r, PublishErr: perr}
	}
}

func (m AppModel) exportCmd(r analysis.Report) tea.Cmd {
	sh := m.shared
	return func() tea.Msg {
		files, err := export.WriteReport(sh.exportDir, r)
		if err != nil {
			sh.log.Error("export failed", "run", r.Run, "error", err)
		} else {
			sh.log.Info("report exported", "run", r.Run, "files", len(files), "dir", sh.exportDir)
		}
		return ExportMsg{Files: files, Err: err}
	}
}
