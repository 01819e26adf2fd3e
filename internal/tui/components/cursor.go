package components

import (
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"vellum/internal/render"
)

// CursorOverlay is the indicator drawn over the word under the modal cursor.
// It implements the engine's Indicator.
type CursorOverlay struct {
	rect    render.Rect
	visible bool
	style   lipgloss.Style
}

func NewCursorOverlay() *CursorOverlay {
	return &CursorOverlay{
		style: lipgloss.NewStyle().Reverse(true),
	}
}

func (c *CursorOverlay) Place(r render.Rect) {
	c.rect = r
	c.visible = !r.Empty()
}

func (c *CursorOverlay) Hide() {
	c.visible = false
}

// Rect returns the covered rectangle in document cells
func (c *CursorOverlay) Rect() (render.Rect, bool) {
	return c.rect, c.visible
}

// Composite draws the indicator over base, the visible window of the
// document starting at document row top and height rows tall
func (c *CursorOverlay) Composite(base string, v *render.View, top, height int) string {
	if !c.visible || v == nil {
		return base
	}
	r := c.rect
	// Clip to the visible rows
	if r.Y < top {
		r.H -= top - r.Y
		r.Y = top
	}
	if r.Y+r.H > top+height {
		r.H = top + height - r.Y
	}
	if r.Empty() {
		return base
	}
	fg := c.style.Render(v.PlainRect(r))
	return overlay.Composite(fg, base, overlay.Left, overlay.Top, r.X, r.Y-top)
}
