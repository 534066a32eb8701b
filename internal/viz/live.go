package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/mcsim/internal/box"
	"github.com/san-kum/mcsim/internal/mc"
)

const (
	canvasCols      = 40
	canvasRows      = 18
	historyCapacity = 600
	defaultInterval = time.Second / 30
)

type TickMsg time.Time

// LiveModel advances an engine one cycle per tick on the Bubble Tea update
// goroutine and renders the running energy and the particle box. Reported
// energies are forwarded to the observers, so a text sink attached here
// receives the same series as a batch run.
type LiveModel struct {
	engine    *mc.Engine
	box       box.Box
	observers []mc.Observer
	energies  []float64
	canvas    *Canvas
	camera    Camera
	interval  time.Duration
	running   bool
	err       error
	title     string
}

func NewLiveModel(title string, engine *mc.Engine, b box.Box, observers ...mc.Observer) LiveModel {
	return LiveModel{
		engine:    engine,
		box:       b,
		observers: observers,
		energies:  make([]float64, 0, historyCapacity),
		canvas:    NewCanvas(canvasCols, canvasRows),
		camera:    NewCamera(),
		interval:  defaultInterval,
		running:   true,
		title:     title,
	}
}

// WithInterval sets the tick period.
func (m LiveModel) WithInterval(d time.Duration) LiveModel {
	m.interval = d
	return m
}

// Err is the observer error that stopped the run, if any.
func (m LiveModel) Err() error { return m.err }

// Energies returns the reported energies still held in the history window.
func (m LiveModel) Energies() []float64 { return m.energies }

func (m LiveModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m LiveModel) Init() tea.Cmd {
	return m.tick()
}

func (m LiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "left", "h":
			m.camera.Rotate(-0.1, 0)
		case "right", "l":
			m.camera.Rotate(0.1, 0)
		case "up", "k":
			m.camera.Rotate(0, -0.1)
		case "down", "j":
			m.camera.Rotate(0, 0.1)
		case "+", "=":
			m.camera.ZoomBy(1.2)
		case "-", "_":
			m.camera.ZoomBy(1 / 1.2)
		}
	case TickMsg:
		if m.running && !m.engine.Done() && m.err == nil {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step runs one cycle and forwards a report if the cycle falls on the
// reporting cadence.
func (m *LiveModel) step() {
	cycle, energy, report := m.engine.Step()
	if !report {
		return
	}
	m.energies = append(m.energies, energy)
	if len(m.energies) > historyCapacity {
		m.energies = m.energies[1:]
	}
	for _, obs := range m.observers {
		if err := obs.OnReport(cycle, energy); err != nil {
			m.err = &mc.RunError{Cycle: cycle, Wrapped: err}
			return
		}
	}
}

func (m LiveModel) status() string {
	switch {
	case m.err != nil:
		return StatusError.Render("ERROR: " + m.err.Error())
	case m.engine.Done():
		return StatusRunning.Render("DONE")
	case !m.running:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusRunning.Render("SAMPLING")
	}
}

func (m LiveModel) View() string {
	m.canvas.Clear()
	DrawBox(m.canvas, m.camera, m.box, m.engine.Particles())

	var s strings.Builder
	s.WriteString(Title.Render(strings.ToUpper(m.title)) + "\n")
	s.WriteString(m.status() + "\n\n")

	if len(m.energies) > 1 {
		s.WriteString(Plot(m.energies, "Energy", 6, 40) + "\n\n")
	}

	cfg := m.engine.Config()
	acceptance := 0.0
	if n := m.engine.Attempted(); n > 0 {
		acceptance = float64(m.engine.Accepted()) / float64(n)
	}
	progress := 1.0
	if cfg.Cycles > 0 {
		progress = float64(m.engine.Cycle()) / float64(cfg.Cycles)
	}

	s.WriteString(MetricLabel.Render("Cycle") + MetricValue.Render(fmt.Sprintf("%d / %d", m.engine.Cycle(), cfg.Cycles)) + "\n")
	s.WriteString(MetricLabel.Render("Energy") + MetricValue.Render(fmt.Sprintf("%.4f", m.engine.Energy())) + "\n")
	s.WriteString(MetricLabel.Render("Acceptance") + MetricValue.Render(fmt.Sprintf("%.3f", acceptance)) + "\n")
	s.WriteString(MetricLabel.Render("Progress") + ProgressBar(progress, 20) + "\n")
	s.WriteString(KeyHint.Render("\nSP:Pause ←→↑↓:Rotate +/-:Zoom Q:Quit"))

	boxView := Panel.Render(m.canvas.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, boxView, Panel.Render(s.String()))
}

// RunLive runs the model full screen until the user quits. It returns the
// final model so the caller can inspect Err and the energy history.
func RunLive(m LiveModel) (LiveModel, error) {
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return m, err
	}
	return final.(LiveModel), nil
}
