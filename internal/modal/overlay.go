package modal

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/render"
)

// cursorRect measures the rectangle the indicator should cover. Blocks
// without words (rules, empty items) get their first row.
func (e *Engine) cursorRect(v *render.View) (render.Rect, bool) {
	blk := v.Block(e.cursor.Block)
	if blk == nil {
		return render.Rect{}, false
	}
	if words := Words(blk); e.cursor.Word < len(words) {
		if r, ok := words[e.cursor.Word].Rect(); ok {
			return r, true
		}
	}
	b := blk.Bounds()
	if b.Empty() {
		return render.Rect{}, false
	}
	return render.Rect{X: b.X, Y: b.Y, W: b.W, H: 1}, true
}

// syncOverlay re-measures the target and moves the indicator over it. In
// VISUAL mode the indicator covers the whole selected block range.
func (e *Engine) syncOverlay() {
	if !e.enabled || e.mode == Insert {
		e.indicator.Hide()
		return
	}
	e.clamp()
	v := e.host.View()

	if e.mode == Visual && e.anchor != nil {
		lo, hi := *e.anchor, e.cursor.Block
		if lo > hi {
			lo, hi = hi, lo
		}
		var r render.Rect
		for b := lo; b <= hi; b++ {
			blk := v.Block(b)
			switch {
			case blk == nil:
			case r.Empty():
				r = blk.Bounds()
			default:
				r = r.Union(blk.Bounds())
			}
		}
		if r.Empty() {
			e.indicator.Hide()
			return
		}
		e.indicator.Place(r)
		return
	}

	r, ok := e.cursorRect(v)
	if !ok {
		e.indicator.Hide()
		return
	}
	e.indicator.Place(r)
}

// Click moves the cursor to the word nearest to a point in document cells.
// Distance is measured to each word's rectangle; ties go to the earlier word.
func (e *Engine) Click(x, y int) tea.Cmd {
	if !e.enabled || e.mode == Insert {
		return nil
	}
	v := e.host.View()
	best := math.Inf(1)
	var target Cursor
	found := false
	for i, blk := range v.Blocks {
		words := Words(blk)
		measured := false
		for j, w := range words {
			r, ok := w.Rect()
			if !ok {
				continue
			}
			measured = true
			if d := r.Distance(x, y); d < best {
				best, target, found = d, Cursor{Block: i, Word: j}, true
			}
		}
		if !measured {
			if d := blk.Bounds().Distance(x, y); d < best {
				best, target, found = d, Cursor{Block: i}, true
			}
		}
	}
	if !found {
		return nil
	}
	if e.mode == OperatorPending {
		e.mode = Normal
		e.commandState = CommandState{}
	}
	e.inputCount = 0
	e.cursor = target
	e.syncOverlay()
	return e.schedulePublish()
}
