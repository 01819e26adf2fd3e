package modal

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/logger"
)

// HandleKey is the single keyboard entry point. It reports false for keys
// the engine leaves to the host, and always false while modal mode is off
// or the external editor owns input.
func (e *Engine) HandleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	if !e.enabled || e.mode == Insert {
		return false, nil
	}
	e.clamp()

	switch e.mode {
	case OperatorPending:
		return true, e.handleMotionCommand(msg)
	case Visual:
		return e.handleVisualMode(msg)
	default:
		return e.handleNormalMode(msg)
	}
}

// takeDigit folds a count digit into n. A leading "0" is not a count.
func takeDigit(k string, n *int) bool {
	if len(k) != 1 || k[0] < '0' || k[0] > '9' {
		return false
	}
	if k == "0" && *n == 0 {
		return false
	}
	*n = *n*10 + int(k[0]-'0')
	return true
}

func (e *Engine) takeCount() int {
	count := e.inputCount
	e.inputCount = 0
	if count == 0 {
		count = 1
	}
	return count
}

// moved finishes a navigation step: indicator now, status after the
// debounce window
func (e *Engine) moved(c Cursor) tea.Cmd {
	e.cursor = c
	e.clamp()
	e.syncOverlay()
	return e.schedulePublish()
}

// changed finishes a mutation or mode change with an immediate publish
func (e *Engine) changed() {
	e.clamp()
	e.syncOverlay()
	e.publishNow()
}

func (e *Engine) handleNormalMode(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := msg.String()
	if takeDigit(k, &e.inputCount) {
		e.publishNow()
		return true, nil
	}
	if !key.Matches(msg, e.keys.GoStart) {
		e.lastG = time.Time{}
	}

	hadCount := e.inputCount > 0
	count := e.takeCount()
	b, w := e.cursor.Block, e.cursor.Word

	switch {
	// Operators
	case key.Matches(msg, e.keys.Delete):
		e.armOperator(OpDelete, k, count)
	case key.Matches(msg, e.keys.Change):
		e.armOperator(OpChange, k, count)
	case key.Matches(msg, e.keys.Yank):
		e.armOperator(OpYank, k, count)

	// Word movement
	case key.Matches(msg, e.keys.WordForward):
		return true, e.moved(e.moveWordForward(count))
	case key.Matches(msg, e.keys.WordBackward):
		return true, e.moved(e.moveWordBackward(count))

	// Block movement
	case key.Matches(msg, e.keys.Down):
		return true, e.moved(e.moveBlocks(count))
	case key.Matches(msg, e.keys.Up):
		return true, e.moved(e.moveBlocks(-count))
	case key.Matches(msg, e.keys.HalfPageDown):
		return true, e.moved(e.moveBlocks(count * e.pageSize / 2))
	case key.Matches(msg, e.keys.HalfPageUp):
		return true, e.moved(e.moveBlocks(-count * e.pageSize / 2))
	case key.Matches(msg, e.keys.PageDown):
		return true, e.moved(e.moveBlocks(count * e.pageSize))
	case key.Matches(msg, e.keys.PageUp):
		return true, e.moved(e.moveBlocks(-count * e.pageSize))

	// Document navigation
	case key.Matches(msg, e.keys.GoStart):
		if !e.pressG() {
			if hadCount {
				e.inputCount = count
			}
			return true, nil
		}
		if hadCount {
			return true, e.moved(e.moveToBlock(count - 1))
		}
		return true, e.moved(e.moveToBlock(0))
	case key.Matches(msg, e.keys.GoEnd):
		if hadCount {
			return true, e.moved(e.moveToBlock(count - 1))
		}
		return true, e.moved(e.moveToLastBlock())
	case key.Matches(msg, e.keys.LineStart):
		return true, e.moved(e.moveToFirstWord())
	case key.Matches(msg, e.keys.LineEnd):
		return true, e.moved(e.moveToLastWord())

	// Visual mode
	case key.Matches(msg, e.keys.Visual):
		anchor := b
		e.anchor = &anchor
		e.mode = Visual
		e.changed()

	// Insert mode entry
	case key.Matches(msg, e.keys.InsertAt):
		e.insertAtWord(b, w, false)
	case key.Matches(msg, e.keys.InsertAfter):
		e.insertAtWord(b, w, true)
	case key.Matches(msg, e.keys.InsertLineStart):
		e.insertAtContent(b, false)
	case key.Matches(msg, e.keys.InsertLineEnd):
		e.insertAtContent(b, true)
	case key.Matches(msg, e.keys.OpenBelow):
		e.openLine(b, true, false)
	case key.Matches(msg, e.keys.OpenAbove):
		e.openLine(b, false, false)
	case key.Matches(msg, e.keys.CommitLine):
		e.openLine(b, true, true)

	// Text operations
	case key.Matches(msg, e.keys.DeleteWord):
		e.executeWordOperation(OpDelete, b, w, w+count-1)
	case key.Matches(msg, e.keys.DeleteToEnd):
		e.executeWordOperation(OpDelete, b, w, e.wordCount(b)-1)
	case key.Matches(msg, e.keys.ChangeToEnd):
		e.executeWordOperation(OpChange, b, w, e.wordCount(b)-1)
	case key.Matches(msg, e.keys.YankLine):
		e.executeBlockOperation(OpYank, b, b+count-1)
	case key.Matches(msg, e.keys.PasteAfter):
		e.paste(true)
	case key.Matches(msg, e.keys.PasteBefore):
		e.paste(false)

	// Undo/Redo are consumed but do nothing: no mutation history is kept
	case key.Matches(msg, e.keys.Undo):
		e.notice = "undo is not supported in modal mode"
	case key.Matches(msg, e.keys.Redo):
		e.notice = "redo is not supported in modal mode"

	case key.Matches(msg, e.keys.Search):
		e.host.OpenSearch()
	case key.Matches(msg, e.keys.Cancel):
		e.publishNow()

	default:
		return false, nil
	}
	return true, nil
}

func (e *Engine) armOperator(op Operator, k string, count int) {
	e.commandState = CommandState{
		operator:       op,
		key:            k,
		count:          count,
		awaitingMotion: true,
	}
	e.mode = OperatorPending
	e.publishNow()
}

func (e *Engine) cancelOperator() {
	e.commandState = CommandState{}
	e.mode = Normal
	e.publishNow()
}

// handleMotionCommand resolves the armed operator against one motion key
func (e *Engine) handleMotionCommand(msg tea.KeyMsg) tea.Cmd {
	k := msg.String()
	cs := &e.commandState
	if takeDigit(k, &cs.motionCount) {
		return nil
	}

	motionCount := max(cs.motionCount, 1)
	total := cs.count * motionCount
	op := cs.operator
	b, w := e.cursor.Block, e.cursor.Word
	last := e.blockCount() - 1

	if cs.awaitingG {
		cs.awaitingG = false
		if key.Matches(msg, e.keys.GoStart) && e.pressG() && op == OpYank {
			e.finishOperator()
			e.executeBlockOperation(OpYank, 0, b)
			return nil
		}
		e.cancelOperator()
		return nil
	}

	switch {
	// Whole-block operations (dd, cc, yy)
	case k == cs.key:
		e.finishOperator()
		e.executeBlockOperation(op, b, b+total-1)

	// Word motions stay inside the current block
	case key.Matches(msg, e.keys.WordForward):
		e.finishOperator()
		e.executeWordOperation(op, b, w, w+total-1)
	case key.Matches(msg, e.keys.WordBackward):
		e.finishOperator()
		if w == 0 {
			logger.Debug("%s: no word before block start", op)
			e.changed()
			return nil
		}
		e.executeWordOperation(op, b, max(w-total, 0), w-1)
	case key.Matches(msg, e.keys.LineEnd):
		e.finishOperator()
		e.executeWordOperation(op, b, w, e.wordCount(b)-1)
	case key.Matches(msg, e.keys.LineStart):
		e.finishOperator()
		if w == 0 {
			e.changed()
			return nil
		}
		e.executeWordOperation(op, b, 0, w-1)

	// Block motions
	case key.Matches(msg, e.keys.Down):
		e.finishOperator()
		e.executeBlockOperation(op, b, min(b+total, last))
	case key.Matches(msg, e.keys.Up):
		e.finishOperator()
		e.executeBlockOperation(op, max(b-total, 0), b)

	// Document motions, yank only
	case key.Matches(msg, e.keys.GoEnd) && op == OpYank:
		e.finishOperator()
		e.executeBlockOperation(OpYank, b, last)
	case key.Matches(msg, e.keys.GoStart) && op == OpYank:
		e.pressG()
		cs.awaitingG = true

	default:
		// Anything else aborts the pending operator
		e.cancelOperator()
	}
	return nil
}

func (e *Engine) finishOperator() {
	e.commandState = CommandState{}
	e.mode = Normal
}

func (e *Engine) handleVisualMode(msg tea.KeyMsg) (bool, tea.Cmd) {
	k := msg.String()
	if takeDigit(k, &e.inputCount) {
		return true, nil
	}
	if !key.Matches(msg, e.keys.GoStart) {
		e.lastG = time.Time{}
	}
	count := e.takeCount()

	lo, hi := e.cursor.Block, e.cursor.Block
	if e.anchor != nil {
		lo = min(*e.anchor, e.cursor.Block)
		hi = max(*e.anchor, e.cursor.Block)
	}

	switch {
	case key.Matches(msg, e.keys.Cancel), key.Matches(msg, e.keys.Visual):
		e.mode = Normal
		e.anchor = nil
		e.changed()

	// Movement extends the selection; the anchor stays put
	case key.Matches(msg, e.keys.Down):
		return true, e.moved(e.moveBlocks(count))
	case key.Matches(msg, e.keys.Up):
		return true, e.moved(e.moveBlocks(-count))
	case key.Matches(msg, e.keys.HalfPageDown):
		return true, e.moved(e.moveBlocks(count * e.pageSize / 2))
	case key.Matches(msg, e.keys.HalfPageUp):
		return true, e.moved(e.moveBlocks(-count * e.pageSize / 2))
	case key.Matches(msg, e.keys.PageDown):
		return true, e.moved(e.moveBlocks(count * e.pageSize))
	case key.Matches(msg, e.keys.PageUp):
		return true, e.moved(e.moveBlocks(-count * e.pageSize))
	case key.Matches(msg, e.keys.GoStart):
		if e.pressG() {
			return true, e.moved(e.moveToBlock(0))
		}
	case key.Matches(msg, e.keys.GoEnd):
		return true, e.moved(e.moveToLastBlock())

	// Operators apply to the selected block range at once
	case key.Matches(msg, e.keys.Delete), key.Matches(msg, e.keys.DeleteWord):
		e.mode = Normal
		e.anchor = nil
		e.cursor = Cursor{Block: lo}
		e.executeBlockOperation(OpDelete, lo, hi)
	case key.Matches(msg, e.keys.Yank):
		e.mode = Normal
		e.anchor = nil
		e.cursor = Cursor{Block: lo}
		e.executeBlockOperation(OpYank, lo, hi)
	case key.Matches(msg, e.keys.Change):
		e.mode = Normal
		e.anchor = nil
		e.cursor = Cursor{Block: lo}
		e.executeBlockOperation(OpChange, lo, hi)

	case key.Matches(msg, e.keys.Undo), key.Matches(msg, e.keys.Redo):
		e.notice = "undo is not supported in modal mode"
	case key.Matches(msg, e.keys.Search):
		e.host.OpenSearch()

	default:
		return false, nil
	}
	return true, nil
}

// executeWordOperation applies op to words from..to of block b
func (e *Engine) executeWordOperation(op Operator, b, from, to int) {
	source := e.host.Source()
	view := e.host.View()

	switch op {
	case OpYank:
		text, ok := WordRangeText(source, view, b, from, to)
		if !ok {
			logger.Debug("yank: words %d..%d of block %d not found", from, to, b)
			break
		}
		e.setRegister(text, false)
	case OpDelete, OpChange:
		ed, ok := DeleteWordRange(source, view, b, from, to)
		if !ok {
			logger.Debug("%s: words %d..%d of block %d not found", op, from, to, b)
			break
		}
		e.setRegister(ed.Removed, false)
		e.cursor = Cursor{Block: b, Word: from}
		e.apply(op.String()+"-words", ed)
		if op == OpChange {
			e.beginInsert(b, ed.Caret)
			return
		}
	}
	e.changed()
}

// executeBlockOperation applies op to whole blocks lo..hi
func (e *Engine) executeBlockOperation(op Operator, lo, hi int) {
	source := e.host.Source()
	view := e.host.View()
	if view.Len() == 0 {
		e.changed()
		return
	}
	lo = clampInt(lo, 0, view.Len()-1)
	hi = clampInt(hi, 0, view.Len()-1)

	switch op {
	case OpYank:
		text, ok := BlockText(source, view, lo, hi)
		if !ok {
			logger.Debug("yank: blocks %d..%d not found in source", lo, hi)
			break
		}
		e.setRegister(text, true)
	case OpDelete:
		ed, ok := DeleteBlockRange(source, view, lo, hi)
		if !ok {
			logger.Debug("delete: blocks %d..%d not found in source", lo, hi)
			break
		}
		e.setRegister(ed.Removed, true)
		e.cursor = Cursor{Block: lo}
		e.apply("delete-blocks", ed)
	case OpChange:
		ed, ok := ClearBlockRange(source, view, lo, hi)
		if !ok {
			logger.Debug("change: blocks %d..%d not found in source", lo, hi)
			break
		}
		e.setRegister(ed.Removed, true)
		e.cursor = Cursor{Block: lo}
		e.apply("change-blocks", ed)
		e.beginInsert(lo, ed.Caret)
		return
	}
	e.changed()
}

func (e *Engine) paste(after bool) {
	if e.register.Text == "" {
		return
	}
	b, w := e.cursor.Block, e.cursor.Word
	source := e.host.Source()
	view := e.host.View()

	if e.register.Linewise {
		ed, ok := PasteLines(source, view, b, e.register.Text, after)
		if !ok {
			logger.Debug("paste: block %d not found", b)
			return
		}
		e.apply("paste-blocks", ed)
		if after && view.Len() > 0 {
			b++
		}
		e.cursor = Cursor{Block: b}
		e.changed()
		return
	}

	ed, ok := PasteAt(source, view, b, w, e.register.Text, after)
	if !ok {
		logger.Debug("paste: word %d of block %d not found", w, b)
		return
	}
	e.apply("paste-words", ed)
	if after && e.wordCount(b) > 0 {
		w++
	}
	e.cursor = Cursor{Block: b, Word: w}
	e.changed()
}

// insertAtWord enters INSERT with the caret before or after the current word
func (e *Engine) insertAtWord(b, w int, after bool) {
	source := e.host.Source()
	view := e.host.View()
	if start, end, ok := WordSpan(source, view, b, w); ok {
		if after {
			e.beginInsert(b, end)
		} else {
			e.beginInsert(b, start)
		}
		return
	}
	e.insertAtContent(b, true)
}

// insertAtContent enters INSERT at the start or end of the block content
func (e *Engine) insertAtContent(b int, end bool) {
	source := e.host.Source()
	view := e.host.View()
	start, stop, ok := ContentBounds(source, view, b)
	if !ok {
		if view.Len() > 0 {
			logger.Debug("insert: block %d not found", b)
			return
		}
		e.beginInsert(0, len(source))
		return
	}
	if end {
		e.beginInsert(b, stop)
		return
	}
	e.beginInsert(b, start)
}

// openLine splices an empty line next to block b and enters INSERT on it
func (e *Engine) openLine(b int, below, joined bool) {
	view := e.host.View()
	ed, ok := OpenLine(e.host.Source(), view, b, below, joined)
	if !ok {
		logger.Debug("open line: block %d not found", b)
		return
	}
	if ed.Source != e.host.Source() {
		e.apply("open-line", ed)
	}
	target := b
	if below && !joined && view.Len() > 0 {
		target = b + 1
	}
	e.beginInsert(target, ed.Caret)
}
