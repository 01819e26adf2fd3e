package modal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// publishMsg fires when the debounce window after a burst of navigation
// closes. Only the tick carrying the latest sequence number publishes.
type publishMsg struct {
	seq int
}

func (e *Engine) snapshot() Status {
	var anchor *int
	if e.anchor != nil {
		a := *e.anchor
		anchor = &a
	}
	op := OpNone
	if e.mode == OperatorPending {
		op = e.commandState.operator
	}
	return Status{
		Mode:     e.mode,
		Cursor:   e.cursor,
		Operator: op,
		Anchor:   anchor,
		Enabled:  e.enabled,
		Count:    e.inputCount,
		Register: e.register,
	}
}

// publishNow copies the live state to the observable status and drops any
// pending debounced publication
func (e *Engine) publishNow() {
	e.publishSeq++
	e.status = e.snapshot()
}

// schedulePublish restarts the debounce window
func (e *Engine) schedulePublish() tea.Cmd {
	e.publishSeq++
	seq := e.publishSeq
	if e.debounce <= 0 {
		e.status = e.snapshot()
		return nil
	}
	return tea.Tick(e.debounce, func(time.Time) tea.Msg {
		return publishMsg{seq: seq}
	})
}

// Update consumes the engine's own messages and reports whether msg was one
func (e *Engine) Update(msg tea.Msg) bool {
	m, ok := msg.(publishMsg)
	if !ok {
		return false
	}
	if m.seq == e.publishSeq {
		e.status = e.snapshot()
	}
	return true
}
