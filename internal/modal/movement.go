package modal

import "time"

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// wordCount returns the number of words in block b of the current view
func (e *Engine) wordCount(b int) int {
	return len(Words(e.host.View().Block(b)))
}

func (e *Engine) blockCount() int {
	return e.host.View().Len()
}

// clamp pulls the cursor and anchor back into the current document
func (e *Engine) clamp() {
	n := e.blockCount()
	if n == 0 {
		e.cursor = Cursor{}
		e.anchor = nil
		return
	}
	e.cursor.Block = clampInt(e.cursor.Block, 0, n-1)
	e.cursor.Word = clampInt(e.cursor.Word, 0, max(e.wordCount(e.cursor.Block)-1, 0))
	if e.anchor != nil {
		a := clampInt(*e.anchor, 0, n-1)
		e.anchor = &a
	}
}

// moveWordForward steps count words ahead, moving into the next block at a
// block's last word and stopping at the end of the document
func (e *Engine) moveWordForward(count int) Cursor {
	c := e.cursor
	n := e.blockCount()
	for i := 0; i < count; i++ {
		if c.Word+1 < e.wordCount(c.Block) {
			c.Word++
			continue
		}
		if c.Block+1 >= n {
			break
		}
		c.Block++
		c.Word = 0
	}
	return c
}

func (e *Engine) moveWordBackward(count int) Cursor {
	c := e.cursor
	for i := 0; i < count; i++ {
		if c.Word > 0 {
			c.Word--
			continue
		}
		if c.Block == 0 {
			break
		}
		c.Block--
		c.Word = max(e.wordCount(c.Block)-1, 0)
	}
	return c
}

// moveBlocks jumps by a signed block delta and lands on the first word
func (e *Engine) moveBlocks(delta int) Cursor {
	n := e.blockCount()
	if n == 0 {
		return Cursor{}
	}
	return Cursor{Block: clampInt(e.cursor.Block+delta, 0, n-1)}
}

func (e *Engine) moveToBlock(b int) Cursor {
	n := e.blockCount()
	if n == 0 {
		return Cursor{}
	}
	return Cursor{Block: clampInt(b, 0, n-1)}
}

func (e *Engine) moveToLastBlock() Cursor {
	return e.moveToBlock(e.blockCount() - 1)
}

func (e *Engine) moveToFirstWord() Cursor {
	return Cursor{Block: e.cursor.Block}
}

func (e *Engine) moveToLastWord() Cursor {
	return Cursor{Block: e.cursor.Block, Word: max(e.wordCount(e.cursor.Block)-1, 0)}
}

// pressG records a "g" press and reports whether it completes a "gg"
// within the double-press window
func (e *Engine) pressG() bool {
	now := e.now()
	if !e.lastG.IsZero() && now.Sub(e.lastG) <= e.gWindow {
		e.lastG = time.Time{}
		return true
	}
	e.lastG = now
	return false
}
