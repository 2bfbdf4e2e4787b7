package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomn/supercopy/internal/copyengine"
)

// Run drives an already-planned engine under the TUI and blocks until the run
// finishes or the user quits. The model's init command starts the engine and
// carries the summary back when it completes. The returned summary is nil only
// when the user force-quit before the run completed.
func Run(engine *copyengine.Engine, opts ...tea.ProgramOption) (*copyengine.Summary, error) {
	bridge := NewEventBridge()
	engine.SetEventEmitter(bridge)

	program := tea.NewProgram(NewModel(engine, bridge), opts...)

	finalModel, err := program.Run()
	if err != nil {
		return nil, fmt.Errorf("terminal UI failed: %w", err)
	}

	model, ok := finalModel.(Model)
	if !ok {
		return nil, nil
	}

	return model.Summary(), nil
}
