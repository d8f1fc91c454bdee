package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"

	"github.com/appengine-ltd/skyweather/internal/console"
	"github.com/appengine-ltd/skyweather/internal/render"
	"github.com/appengine-ltd/skyweather/internal/world"
)

type AppConfig struct {
	Version string
	// TickInterval is the real time between simulation ticks.
	TickInterval time.Duration
	// SkyInterval throttles redraws of the sky preview.
	SkyInterval time.Duration
}

// App is a terminal monitor: a sky preview, the weather status and a
// command prompt wired to the console.
type App struct {
	cfg     AppConfig
	driver  *world.Driver
	console *console.Console
	sky     *render.Sky
}

func NewApp(cfg AppConfig, d *world.Driver, c *console.Console, sky *render.Sky) *App {
	return &App{cfg: cfg, driver: d, console: c, sky: sky}
}

func (a *App) Run(ctx context.Context) error {
	m := newMonitorModel(ctx, a.cfg, a.driver, a.console, a.sky)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// --- Styles (retro green) ---
var (
	green       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	brightGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimGreen    = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	amber       = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	pane        = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("2")).Padding(0, 1)
)

type clockTickMsg struct {
	at time.Time
}

type monitorModel struct {
	ctx     context.Context
	cfg     AppConfig
	driver  *world.Driver
	console *console.Console
	sky     *render.Sky
	history *console.History

	input      string
	width      int
	height     int
	lastTickAt time.Time

	preview  *skyPreview
	quitting bool
}

// skyPreview caches the rendered sky between redraws.
type skyPreview struct {
	limiter    *rate.Limiter
	text       string
	cols, rows int
}

func newMonitorModel(ctx context.Context, cfg AppConfig, d *world.Driver, c *console.Console, sky *render.Sky) monitorModel {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = 100 * time.Millisecond
	}
	if cfg.SkyInterval <= 0 {
		cfg.SkyInterval = 250 * time.Millisecond
	}
	h := console.NewHistory(200)
	h.Append("Type help and press Enter. Space pauses when the prompt is empty.")
	return monitorModel{
		ctx:        ctx,
		cfg:        cfg,
		driver:     d,
		console:    c,
		sky:        sky,
		history:    h,
		width:      80,
		height:     24,
		lastTickAt: time.Now(),
		preview:    &skyPreview{limiter: rate.NewLimiter(rate.Every(cfg.SkyInterval), 1)},
	}
}

func (m monitorModel) Init() tea.Cmd {
	return m.tick()
}

func (m monitorModel) tick() tea.Cmd {
	return tea.Tick(m.cfg.TickInterval, func(t time.Time) tea.Msg {
		return clockTickMsg{at: t}
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.preview.text = ""
		return m, nil

	case clockTickMsg:
		dt := msg.at.Sub(m.lastTickAt).Seconds()
		if dt < 0 {
			dt = 0
		}
		m.lastTickAt = msg.at
		m.driver.Tick(dt)
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "esc":
			if m.input == "" {
				m.quitting = true
				return m, tea.Quit
			}
			m.input = ""
			return m, nil
		case "enter":
			m.history.Submit(m.ctx, m.console, m.input)
			m.input = ""
			m.preview.text = ""
			return m, nil
		case "backspace":
			if len(m.input) > 0 {
				m.input = m.input[:len(m.input)-1]
			}
			return m, nil
		case " ":
			if m.input == "" {
				m.driver.SetPaused(!m.driver.Paused())
				if m.driver.Paused() {
					m.history.Append("Time paused.")
				} else {
					m.history.Append("Time resumed.")
				}
				return m, nil
			}
			m.input += " "
			return m, nil
		}
		if msg.Type == tea.KeyRunes && len(m.input) < 120 {
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

// skyView redraws the preview at most once per SkyInterval unless the size
// changed or a command just ran.
func (m monitorModel) skyView(cols, rows int) string {
	p := m.preview
	if p.text == "" || p.cols != cols || p.rows != rows || p.limiter.Allow() {
		p.text = renderSkyANSI(m.sky.Frame(), cols, rows)
		p.cols, p.rows = cols, rows
	}
	return p.text
}

func (m monitorModel) View() string {
	if m.quitting {
		return ""
	}
	title := brightGreen.Render("SKYWEATHER") + dimGreen.Render("  "+m.cfg.Version)

	skyCols := clampInt(m.width/2-4, 24, 72)
	skyRows := clampInt(m.height/2-2, 8, 24)
	left := pane.Render(m.skyView(skyCols, skyRows))
	right := pane.Render(green.Render(console.Describe(m.driver)))
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	logRows := clampInt(m.height-skyRows-8, 3, 40)
	lines := m.history.Tail(logRows)
	for i, line := range lines {
		if strings.Contains(line, "] ! ") {
			lines[i] = amber.Render(line)
		} else {
			lines[i] = green.Render(line)
		}
	}

	var b strings.Builder
	b.WriteString(title + "\n")
	b.WriteString(top + "\n")
	b.WriteString(border.Render(strings.Repeat("-", clampInt(m.width, 20, 200))) + "\n")
	b.WriteString(strings.Join(lines, "\n") + "\n")
	b.WriteString(brightGreen.Render(fmt.Sprintf("> %s_", m.input)) + "\n")
	b.WriteString(dimGreen.Render("Enter to run, Space to pause, Esc to quit"))
	return b.String()
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
