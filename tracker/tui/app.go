package tui

import (
	"context"
	"strings"
	"text/template"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rollseq/rollseq/tracker"
	"github.com/sirupsen/logrus"
)

type (
	// App is the bubbletea model of the editor. It owns the tracker model:
	// all key presses and broker messages are applied to it from the
	// bubbletea event loop, one at a time.
	App struct {
		model    *tracker.Model
		keymap   Keymap
		status   *template.Template
		styles   styles
		width    int
		height   int
		lastTick time.Time
		log      logrus.FieldLogger
	}

	// brokerMsg wraps a message from the player, detector or MIDI input.
	brokerMsg tracker.MsgToModel

	tickMsg time.Time
)

// tickInterval is how often the alerts are aged.
const tickInterval = 100 * time.Millisecond

// chromeRows is the number of rows used by other things than the grid: the
// header, the status bar and the alert or help line.
const chromeRows = 3

func NewApp(model *tracker.Model, keymap Keymap, status *template.Template, log logrus.FieldLogger) *App {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &App{
		model:  model,
		keymap: keymap,
		status: status,
		styles: defaultStyles(),
		log:    log.WithField("component", "tui"),
	}
}

func (a *App) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		a.resize()
	case tea.KeyMsg:
		a.handleKey(msg)
		if a.model.Quitted() {
			return a, tea.Quit
		}
	case brokerMsg:
		a.model.ProcessMsg(tracker.MsgToModel(msg))
	case tickMsg:
		t := time.Time(msg)
		if !a.lastTick.IsZero() {
			a.model.Alerts().Update(t.Sub(a.lastTick))
		}
		a.lastTick = t
		return a, tick()
	}
	return a, nil
}

// handleKey runs the first enabled command bound to the key.
func (a *App) handleKey(msg tea.KeyMsg) {
	for _, c := range a.keymap.Commands(msg) {
		if a.model.Action(c).Enabled() {
			a.model.Do(c)
			break
		}
	}
	// the number of columns depends on the resolution
	a.resize()
}

func (a *App) resize() {
	if a.width <= 0 || a.height <= 0 {
		return
	}
	cols := gridColumns(a.width, a.model.Viewport().Resolution)
	a.model.SetViewportSize(cols, max(a.height-chromeRows, 1))
}

func (a *App) View() string {
	if a.model.Quitted() {
		return ""
	}
	statusStyle := a.styles.status
	if a.width > 0 {
		statusStyle = statusStyle.Width(a.width).MaxWidth(a.width)
	}
	status := statusStyle.Render(renderStatus(a.status, a.model))
	footer, ok := renderAlert(a.model, a.styles)
	if !ok {
		footer = renderHelp(a.keymap, a.styles)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		renderHeader(a.model, a.styles),
		renderGrid(a.model, a.styles),
		status,
		strings.TrimRight(footer, "\n"),
	)
}

// Forward passes the messages sent to the model through the broker to the
// bubbletea program, until ctx is done.
func Forward(ctx context.Context, broker *tracker.Broker, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-broker.ToModel:
			send(brokerMsg(msg))
		}
	}
}

// Run runs the editor until the user quits or ctx is done.
func Run(ctx context.Context, app *App, broker *tracker.Broker, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(app, opts...)
	go Forward(ctx, broker, p.Send)
	_, err := p.Run()
	app.log.Info("editor closed")
	return err
}
