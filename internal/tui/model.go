// Package tui renders live copy progress with bubbletea.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tomn/supercopy/internal/copyengine"
)

// Unexported constants.
const (
	tickInterval    = 100 * time.Millisecond
	recentLimit     = 5 // completed files kept in the activity log
	defaultBarWidth = 40
	maxBarWidth     = 80
	barWidthMargin  = 20
	stateCopying    = "copying"
	stateCancelling = "cancelling"
	stateDone       = "done"
)

// TickMsg is sent on each render tick.
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// runCompleteMsg carries the finished run's summary. It is returned from the
// command that runs the engine, so bubbletea delivers it unconditionally;
// bridge events can be dropped under load and are only cosmetic.
type runCompleteMsg struct {
	summary *copyengine.Summary
}

// runCmd runs the engine to completion and returns its summary as a message.
func runCmd(engine *copyengine.Engine) tea.Cmd {
	return func() tea.Msg {
		summary, _ := engine.Run()

		return runCompleteMsg{summary: summary}
	}
}

// Model is the TUI state for one copy run.
type Model struct {
	engine *copyengine.Engine
	bridge *EventBridge

	filesBar progress.Model
	bytesBar progress.Model
	spinner  spinner.Model

	snapshot copyengine.Snapshot
	active   []string // paths currently being copied
	recent   []string // recently completed lines for the activity log
	summary  *copyengine.Summary

	state  string
	width  int
	height int
}

// NewModel creates the TUI model. The bridge must already be registered as the
// engine's event emitter.
func NewModel(engine *copyengine.Engine, bridge *EventBridge) Model {
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(accentColor)

	return Model{
		engine:   engine,
		bridge:   bridge,
		filesBar: newProgressBar(defaultBarWidth),
		bytesBar: newProgressBar(defaultBarWidth),
		spinner:  spin,
		state:    stateCopying,
	}
}

// Summary returns the final run summary, nil until the run completes.
func (m Model) Summary() *copyengine.Summary {
	return m.summary
}

// Init implements tea.Model. The engine is started here, as a command, so its
// completion message reaches Update even if every bridge event was dropped.
func (m Model) Init() tea.Cmd {
	return tea.Batch(runCmd(m.engine), m.spinner.Tick, m.bridge.ListenCmd(), tickCmd())
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)
	case tea.KeyMsg:
		return m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case TickMsg:
		return m.handleTick()
	case runCompleteMsg:
		return m.handleRunComplete(msg.summary)
	case EngineEventMsg:
		return m.handleEngineEvent(msg.Event)
	}

	return m, nil
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	barWidth := msg.Width - barWidthMargin
	barWidth = min(barWidth, maxBarWidth)
	barWidth = max(barWidth, 10)

	m.filesBar.Width = barWidth
	m.bytesBar.Width = barWidth

	return m, nil
}

//nolint:exhaustive // Only handling specific key types
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		// Emergency exit - quit immediately, leaving the run cancelled
		m.engine.Cancel()
		return m, tea.Quit

	case tea.KeyEsc:
		// Cancel gracefully: stop enqueuing, let in-flight copies abort
		m.engine.Cancel()
		m.state = stateCancelling

		return m, nil
	}

	if msg.String() == "q" {
		m.engine.Cancel()
		m.state = stateCancelling
	}

	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.engine.Progress != nil {
		m.snapshot = m.engine.Progress.Snapshot()
	}

	if m.state == stateDone {
		return m, tea.Quit
	}

	return m, tickCmd()
}

func (m Model) handleEngineEvent(event copyengine.Event) (tea.Model, tea.Cmd) {
	switch event := event.(type) {
	case copyengine.TaskStarted:
		m.active = append(m.active, event.Path)

	case copyengine.TaskComplete:
		m.removeActive(event.Path)
		m.pushRecent(event)

	case copyengine.RunComplete:
		return m.handleRunComplete(event.Summary)
	}

	return m, m.bridge.ListenCmd()
}

func (m Model) handleRunComplete(summary *copyengine.Summary) (tea.Model, tea.Cmd) {
	m.summary = summary
	m.state = stateDone

	if m.engine.Progress != nil {
		m.snapshot = m.engine.Progress.Snapshot()
	}

	return m, tea.Quit
}

func (m *Model) removeActive(path string) {
	for i, p := range m.active {
		if p == path {
			m.active = append(m.active[:i], m.active[i+1:]...)
			break
		}
	}
}

func (m *Model) pushRecent(event copyengine.TaskComplete) {
	line := "✓ " + event.Path
	if event.Status != copyengine.StatusSuccess {
		line = "✗ " + event.Path + " (" + string(event.Status) + ")"
	}

	m.recent = append(m.recent, line)
	if len(m.recent) > recentLimit {
		m.recent = m.recent[len(m.recent)-recentLimit:]
	}
}
