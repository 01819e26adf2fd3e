// Package modal implements vim-style navigation and editing over a rendered
// markdown document.
//
// The engine never owns the document. It reads the source text and its
// rendered projection from a Host, turns keystrokes into cursor moves or
// whole-text replacements, and keeps a cursor indicator placed over the
// rendered word under the cursor.
package modal

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"vellum/internal/logger"
)

const (
	DefaultDebounce = 50 * time.Millisecond
	DefaultGWindow  = 300 * time.Millisecond
	DefaultPageSize = 10
)

// CommandState tracks an operator waiting for its motion
type CommandState struct {
	operator       Operator
	key            string // key that armed the operator, for the doubled form
	count          int    // count before operator
	motionCount    int    // count before motion
	awaitingMotion bool
	awaitingG      bool // first "g" of "gg" seen while pending
}

// Option configures an Engine
type Option func(*Engine)

func WithKeyMap(k KeyMap) Option { return func(e *Engine) { e.keys = k } }

func WithIndicator(i Indicator) Option { return func(e *Engine) { e.indicator = i } }

func WithStore(s EnabledStore) Option { return func(e *Engine) { e.store = s } }

// WithClipboard mirrors every register write to sink
func WithClipboard(sink func(string) error) Option { return func(e *Engine) { e.clipboard = sink } }

func WithClock(now func() time.Time) Option { return func(e *Engine) { e.now = now } }

func WithDebounce(d time.Duration) Option { return func(e *Engine) { e.debounce = d } }

func WithGWindow(d time.Duration) Option { return func(e *Engine) { e.gWindow = d } }

// WithPageSize sets how many blocks a full-page step moves
func WithPageSize(n int) Option { return func(e *Engine) { e.SetPageSize(n) } }

// Engine is the modal state machine
type Engine struct {
	host      Host
	keys      KeyMap
	indicator Indicator
	store     EnabledStore
	clipboard func(string) error
	now       func() time.Time
	debounce  time.Duration
	gWindow   time.Duration
	pageSize  int

	enabled      bool
	mode         Mode
	cursor       Cursor
	anchor       *int
	commandState CommandState
	inputCount   int
	register     Register
	lastG        time.Time
	notice       string

	status     Status
	publishSeq int
}

// New creates an engine in NORMAL mode. The enabled flag is loaded once from
// the store, defaulting to enabled when none is configured or loading fails.
func New(host Host, opts ...Option) *Engine {
	e := &Engine{
		host:      host,
		keys:      DefaultKeyMap(),
		indicator: nopIndicator{},
		now:       time.Now,
		debounce:  DefaultDebounce,
		gWindow:   DefaultGWindow,
		pageSize:  DefaultPageSize,
		enabled:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store != nil {
		enabled, err := e.store.LoadEnabled()
		if err != nil {
			logger.Error("loading modal enabled flag: %v", err)
		} else {
			e.enabled = enabled
		}
	}
	e.status = e.snapshot()
	return e
}

// KeyMap returns the bindings in use
func (e *Engine) KeyMap() KeyMap { return e.keys }

// Mode returns the live mode
func (e *Engine) Mode() Mode { return e.mode }

// Cursor returns the live cursor, read synchronously by input handling
func (e *Engine) Cursor() Cursor { return e.cursor }

// Register returns the register contents
func (e *Engine) Register() Register { return e.register }

// Enabled reports whether modal mode is on
func (e *Engine) Enabled() bool { return e.enabled }

// Status returns the last published snapshot
func (e *Engine) Status() Status { return e.status }

// Notice returns and clears the last user-facing message
func (e *Engine) Notice() string {
	n := e.notice
	e.notice = ""
	return n
}

func (e *Engine) SetPageSize(n int) {
	if n < 2 {
		n = 2
	}
	e.pageSize = n
}

// SetEnabled turns modal mode on or off and persists the flag
func (e *Engine) SetEnabled(enabled bool) error {
	e.enabled = enabled
	if !enabled {
		e.mode = Normal
		e.anchor = nil
		e.commandState = CommandState{}
		e.inputCount = 0
		e.indicator.Hide()
	} else {
		e.syncOverlay()
	}
	e.publishNow()
	if e.store == nil {
		return nil
	}
	return e.store.SaveEnabled(enabled)
}

// Reset returns the engine to its initial state for a newly opened document.
// The register survives.
func (e *Engine) Reset() {
	e.mode = Normal
	e.cursor = Cursor{}
	e.anchor = nil
	e.commandState = CommandState{}
	e.inputCount = 0
	e.lastG = time.Time{}
	e.syncOverlay()
	e.publishNow()
}

// Refresh re-measures the cursor indicator after the host re-rendered on its
// own, for example after a resize re-wrapped the document
func (e *Engine) Refresh() {
	e.clamp()
	e.syncOverlay()
}

// ExitInsert returns from INSERT to NORMAL with the cursor on the block the
// external editor's caret ended in
func (e *Engine) ExitInsert(block int) tea.Cmd {
	if e.mode != Insert {
		return nil
	}
	e.mode = Normal
	e.cursor = Cursor{Block: block}
	e.clamp()
	e.syncOverlay()
	e.publishNow()
	return nil
}

// JumpTo moves the cursor to a block and word, as the search overlay does
func (e *Engine) JumpTo(block, word int) tea.Cmd {
	e.cursor = Cursor{Block: block, Word: word}
	e.clamp()
	e.syncOverlay()
	return e.schedulePublish()
}

func (e *Engine) setRegister(text string, linewise bool) {
	e.register = Register{Text: text, Linewise: linewise}
	if e.clipboard != nil {
		if err := e.clipboard(text); err != nil {
			logger.Error("mirroring register to clipboard: %v", err)
		}
	}
}

// apply writes a whole new source text back to the host
func (e *Engine) apply(event string, ed Edit) {
	e.host.SetSource(ed.Source)
	logger.Edit(event,
		logger.F("block", e.cursor.Block),
		logger.F("word", e.cursor.Word),
		logger.F("removed", ed.Removed),
	)
}

func (e *Engine) beginInsert(block, offset int) {
	e.mode = Insert
	e.anchor = nil
	e.commandState = CommandState{}
	e.indicator.Hide()
	e.publishNow()
	e.host.BeginInsert(InsertTarget{Block: block, Offset: offset})
}
