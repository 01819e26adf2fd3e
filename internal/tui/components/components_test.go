package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"

	"vellum/internal/modal"
	"vellum/internal/render"
)

func TestModeIndicator(t *testing.T) {
	require.Contains(t, NewModeIndicatorComponent(modal.Visual, true).Render(), "VISUAL")
	require.Contains(t, NewModeIndicatorComponent(modal.OperatorPending, true).Render(), "O-PENDING")
	require.Contains(t, NewModeIndicatorComponent(modal.Normal, false).Render(), "VIEW")
	require.Equal(t, len(" NORMAL "), NewModeIndicatorComponent(modal.Normal, true).Width())
}

func TestFooterShowsPendingOperatorAndPosition(t *testing.T) {
	anchor := 3
	info := FooterInfo{
		Status: modal.Status{
			Mode:     modal.Visual,
			Cursor:   modal.Cursor{Block: 1, Word: 2},
			Anchor:   &anchor,
			Enabled:  true,
			Register: modal.Register{Text: "cat", Linewise: true},
		},
		Document: "notes.md",
		Modified: true,
		Blocks:   5,
		Edits:    2,
	}
	out := NewFooterComponent(info, 160).Render()
	require.Contains(t, out, "notes.md [+]")
	require.Contains(t, out, "[2-4]")
	require.Contains(t, out, "block 2/5")
	require.Contains(t, out, "reg cat (line)")
	require.Contains(t, out, "2 edits")
}

func TestStatuslineExpires(t *testing.T) {
	s := NewStatuslineComponent(40)
	msg := NewStatuslineMessage(StatuslineInfo, "saved")
	s.SetMessage(msg)
	require.Contains(t, s.Render(), "saved")

	s.Expire(msg.ShowTime.Add(time.Second))
	require.NotNil(t, s.Message())
	s.Expire(msg.ShowTime.Add(DefaultStatuslineDuration + time.Second))
	require.Nil(t, s.Message())
}

func TestHelpModalListsBindings(t *testing.T) {
	h := NewHelpModal(HelpSection{
		Title:    "Motions",
		Bindings: []key.Binding{key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "next word"))},
	})
	require.Empty(t, h.View())
	h.Show()
	require.Contains(t, h.View(), "next word")
	h.Hide()
	require.False(t, h.IsVisible())
}

func TestCursorOverlayComposite(t *testing.T) {
	v := render.Render("one two three", 40)
	c := NewCursorOverlay()
	base := v.Plain()

	require.Equal(t, base, c.Composite(base, v, 0, 10))

	c.Place(render.Rect{X: 4, Y: 0, W: 3, H: 1})
	out := c.Composite(base, v, 0, 10)
	require.Contains(t, out, "two")
	require.Contains(t, out, "one")

	// Scrolled out of view
	require.Equal(t, base, c.Composite(base, v, 5, 10))

	c.Hide()
	_, ok := c.Rect()
	require.False(t, ok)
	require.True(t, strings.Contains(c.Composite(base, v, 0, 10), "two"))
}
