package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tomn/supercopy/internal/copyengine"
)

// EngineEventMsg wraps a copyengine.Event for use as a tea.Msg.
type EngineEventMsg struct {
	Event copyengine.Event
}

// EventBridge adapts copy engine events to bubble tea messages.
// It implements copyengine.EventEmitter and provides a channel for TUI consumption.
type EventBridge struct {
	eventChan chan tea.Msg
	closed    bool
}

// NewEventBridge creates a new event bridge.
func NewEventBridge() *EventBridge {
	return &EventBridge{
		eventChan: make(chan tea.Msg, 100), // Buffer to prevent blocking engine
	}
}

// Emit implements copyengine.EventEmitter.
// It wraps the event in EngineEventMsg and sends to the channel.
func (b *EventBridge) Emit(event copyengine.Event) {
	if b.closed {
		return
	}
	// Non-blocking send - a full channel drops the event rather than stalling
	// a worker. The tick loop re-reads the progress snapshot anyway.
	select {
	case b.eventChan <- EngineEventMsg{Event: event}:
	default:
	}
}

// ListenCmd returns a tea.Cmd that blocks until an event is received.
// Use this in Init() or after processing an event to continue listening.
func (b *EventBridge) ListenCmd() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-b.eventChan
		if !ok {
			return nil // Channel closed
		}
		return msg
	}
}

// Close closes the event channel.
// Call this when done with the bridge.
func (b *EventBridge) Close() {
	if !b.closed {
		b.closed = true
		close(b.eventChan)
	}
}
