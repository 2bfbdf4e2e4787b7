//nolint:varnamelen // Test files use idiomatic short variable names (t, g)
package tui

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	"github.com/tomn/supercopy/internal/copyengine"
)

func TestEventBridgeDeliversEvents(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	bridge := NewEventBridge()
	bridge.Emit(copyengine.TaskStarted{Path: "a.txt", Size: 10})

	msg := bridge.ListenCmd()()
	eventMsg, ok := msg.(EngineEventMsg)
	g.Expect(ok).To(BeTrue())

	started, ok := eventMsg.Event.(copyengine.TaskStarted)
	g.Expect(ok).To(BeTrue())
	g.Expect(started.Path).To(Equal("a.txt"))
}

func TestEventBridgeDropsWhenFull(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	bridge := NewEventBridge()

	// Overfill the buffer; Emit must never block the caller.
	for i := range 150 {
		bridge.Emit(copyengine.TaskStarted{Path: "f", Size: int64(i)})
	}

	// The first 100 events are buffered, the rest were dropped.
	count := 0

	for range 100 {
		msg := bridge.ListenCmd()()
		g.Expect(msg).ToNot(BeNil())
		count++
	}

	g.Expect(count).To(Equal(100))
}

func TestEventBridgeCloseEndsListeners(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	bridge := NewEventBridge()
	bridge.Close()
	bridge.Close() // idempotent

	g.Expect(bridge.ListenCmd()()).To(BeNil())

	// Emit after close is a no-op, not a panic.
	bridge.Emit(copyengine.TaskStarted{Path: "late"})
}
