package components

import (
	"time"

	"github.com/charmbracelet/lipgloss"
)

// StatuslineMessageType represents the type of statusline message
type StatuslineMessageType int

const (
	StatuslineInfo StatuslineMessageType = iota
	StatuslineWarning
	StatuslineError
)

// DefaultStatuslineDuration is how long a message stays up
const DefaultStatuslineDuration = 4 * time.Second

// StatuslineMessage represents a message to display in the statusline
type StatuslineMessage struct {
	Type     StatuslineMessageType
	Text     string
	Duration time.Duration
	ShowTime time.Time
}

// NewStatuslineMessage stamps a message with the current time and the
// default duration
func NewStatuslineMessage(kind StatuslineMessageType, text string) *StatuslineMessage {
	return &StatuslineMessage{
		Type:     kind,
		Text:     text,
		Duration: DefaultStatuslineDuration,
		ShowTime: time.Now(),
	}
}

// StatuslineComponent handles the rendering of the statusline
type StatuslineComponent struct {
	message *StatuslineMessage
	width   int
}

// NewStatuslineComponent creates a new statusline component
func NewStatuslineComponent(width int) *StatuslineComponent {
	return &StatuslineComponent{
		width: width,
	}
}

// SetMessage sets the current message to display
func (s *StatuslineComponent) SetMessage(msg *StatuslineMessage) {
	s.message = msg
}

// Message returns the message on display, if any
func (s *StatuslineComponent) Message() *StatuslineMessage {
	return s.message
}

// ClearMessage clears the current message
func (s *StatuslineComponent) ClearMessage() {
	s.message = nil
}

// Expire clears the message once its duration has passed at now
func (s *StatuslineComponent) Expire(now time.Time) {
	if s.message == nil || s.message.Duration == 0 {
		return
	}
	if now.Sub(s.message.ShowTime) > s.message.Duration {
		s.message = nil
	}
}

// Render renders the statusline
func (s *StatuslineComponent) Render() string {
	if s.message == nil {
		return lipgloss.NewStyle().
			Background(lipgloss.Color("0")).
			Width(s.width).
			Render(" ")
	}

	// Choose color based on message type
	var fg lipgloss.Color
	switch s.message.Type {
	case StatuslineWarning:
		fg = lipgloss.Color("226") // Yellow
	case StatuslineError:
		fg = lipgloss.Color("196") // Red
	default:
		fg = lipgloss.Color("252") // Light gray for info
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Background(lipgloss.Color("0")).
		Width(s.width).
		MaxWidth(s.width).
		Padding(0, 1).
		Render(s.message.Text)
}

// SetWidth updates the width of the statusline
func (s *StatuslineComponent) SetWidth(width int) {
	s.width = width
}
