package modal

import (
	"vellum/internal/render"
)

// Mode is the engine's modal state
type Mode int

const (
	Normal Mode = iota
	Insert
	Visual
	OperatorPending
)

func (m Mode) String() string {
	switch m {
	case Insert:
		return "INSERT"
	case Visual:
		return "VISUAL"
	case OperatorPending:
		return "O-PENDING"
	default:
		return "NORMAL"
	}
}

// Operator is an edit intent waiting for a motion
type Operator int

const (
	OpNone Operator = iota
	OpDelete
	OpChange
	OpYank
)

func (o Operator) String() string {
	switch o {
	case OpDelete:
		return "d"
	case OpChange:
		return "c"
	case OpYank:
		return "y"
	default:
		return ""
	}
}

// Cursor is a position in rendered coordinates
type Cursor struct {
	Block int
	Word  int
}

// Register is the single yank/delete slot
type Register struct {
	Text     string
	Linewise bool
}

// Status is the read-only snapshot published for observers such as a status bar
type Status struct {
	Mode     Mode
	Cursor   Cursor
	Operator Operator
	Anchor   *int
	Enabled  bool
	Count    int
	Register Register
}

// InsertTarget tells the host where INSERT should put the caret
type InsertTarget struct {
	Block  int
	Offset int // byte offset into the source text
}

// Host is the document-state owner the engine reads from and writes to
type Host interface {
	// Source returns the current source text
	Source() string
	// SetSource replaces the source text wholesale and re-renders
	SetSource(text string)
	// View returns the rendered projection of the current source text
	View() *render.View
	// BeginInsert hands input over to the external editor
	BeginInsert(target InsertTarget)
	// OpenSearch opens the document-wide search overlay
	OpenSearch()
}

// Indicator is the on-screen cursor overlay element
type Indicator interface {
	Place(r render.Rect)
	Hide()
}

// EnabledStore persists the "modal mode enabled" flag
type EnabledStore interface {
	LoadEnabled() (bool, error)
	SaveEnabled(enabled bool) error
}

type nopIndicator struct{}

func (nopIndicator) Place(render.Rect) {}
func (nopIndicator) Hide()             {}
