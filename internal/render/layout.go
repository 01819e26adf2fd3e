package render

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"vellum/internal/blocks"
)

const tabWidth = 4

// cell records where one grapheme of a fragment landed
type cell struct {
	off, size int
	x, y, w   int
}

// gridCell is one painted terminal cell; continuation cells of wide
// graphemes carry an empty text
type gridCell struct {
	text  string
	style Style
	kind  blocks.Kind
	level int
	decor bool
	set   bool
}

type glyph struct {
	frag  *Fragment
	off   int
	text  string
	w     int
	space bool
}

type layout struct {
	width int
	rows  [][]gridCell

	// current block state
	block  *Block
	left   int
	x      int
	prefix func(first bool) string
}

func newLayout(width int) *layout {
	return &layout{width: width}
}

func (l *layout) blankRow() {
	l.rows = append(l.rows, nil)
}

func graphemeWidth(text string) int {
	if text == "\t" {
		return tabWidth
	}
	w := runewidth.StringWidth(text)
	if w == 0 {
		w = uniseg.StringWidth(text)
	}
	return w
}

func splitGlyphs(f *Fragment) []glyph {
	var out []glyph
	g := uniseg.NewGraphemes(f.text)
	for g.Next() {
		start, _ := g.Positions()
		text := g.Str()
		out = append(out, glyph{
			frag:  f,
			off:   start,
			text:  text,
			w:     graphemeWidth(text),
			space: strings.TrimSpace(text) == "",
		})
	}
	return out
}

// place lays out b starting on a fresh row
func (l *layout) place(b *Block) {
	top := len(l.rows)
	l.block = b

	switch b.Kind {
	case blocks.Rule:
		l.left = 0
		l.prefix = func(bool) string { return strings.Repeat("─", l.width) }
		l.newRow(true)
	case blocks.Code:
		l.left = 2
		l.prefix = func(bool) string { return "  " }
		if len(b.lines) == 0 {
			l.newRow(true)
		}
		for i, line := range b.lines {
			l.newRow(i == 0)
			for _, f := range line {
				for _, gl := range splitGlyphs(f) {
					if l.x+gl.w > l.width && l.x > l.left {
						l.newRow(false)
					}
					l.put(gl)
				}
			}
		}
	default:
		l.left, l.prefix = l.prefixFor(b)
		l.newRow(true)
		l.flow(b)
	}

	b.bounds = Rect{X: 0, Y: top, W: l.width, H: len(l.rows) - top}
}

func (l *layout) prefixFor(b *Block) (int, func(bool) string) {
	switch b.Kind {
	case blocks.ListItem:
		marker := b.marker
		if marker == "-" || marker == "*" || marker == "+" {
			marker = "•"
		}
		indent := strings.Repeat("  ", b.Level)
		head := indent + marker + " "
		pad := strings.Repeat(" ", runewidth.StringWidth(head))
		return runewidth.StringWidth(head), func(first bool) string {
			if first {
				return head
			}
			return pad
		}
	case blocks.Quote:
		bar := strings.Repeat("│ ", max(b.Level, 1))
		return runewidth.StringWidth(bar), func(bool) string { return bar }
	default:
		return 0, func(bool) string { return "" }
	}
}

// flow word-wraps the block's fragments between l.left and l.width
func (l *layout) flow(b *Block) {
	var glyphs []glyph
	for _, f := range b.fragments {
		glyphs = append(glyphs, splitGlyphs(f)...)
	}

	for i := 0; i < len(glyphs); i++ {
		gl := glyphs[i]
		if gl.space {
			if l.x == l.left {
				continue
			}
			if l.x+1 > l.width {
				l.newRow(false)
				continue
			}
			gl.w = 1
			l.put(gl)
			continue
		}

		// wrap before a word that does not fit, unless it starts the row
		if i == 0 || glyphs[i-1].space {
			ww := 0
			for j := i; j < len(glyphs) && !glyphs[j].space; j++ {
				ww += glyphs[j].w
			}
			if l.x+ww > l.width && l.x > l.left {
				l.newRow(false)
			}
		}
		if l.x+gl.w > l.width && l.x > l.left {
			l.newRow(false)
		}
		l.put(gl)
	}
}

func (l *layout) newRow(first bool) {
	l.rows = append(l.rows, nil)
	l.x = 0
	if p := l.prefix(first); p != "" {
		y := len(l.rows) - 1
		g := uniseg.NewGraphemes(p)
		for g.Next() {
			w := graphemeWidth(g.Str())
			l.set(l.x, y, gridCell{text: g.Str(), kind: l.block.Kind, level: l.block.Level, decor: true}, w)
			l.x += w
		}
	}
	l.x = max(l.x, l.left)
}

func (l *layout) put(gl glyph) {
	y := len(l.rows) - 1
	text := gl.text
	if text == "\t" {
		text = strings.Repeat(" ", tabWidth)
	} else if gl.space {
		text = " "
	}
	gl.frag.cells = append(gl.frag.cells, cell{off: gl.off, size: len(gl.text), x: l.x, y: y, w: gl.w})
	l.set(l.x, y, gridCell{text: text, style: gl.frag.style, kind: l.block.Kind, level: l.block.Level}, gl.w)
	l.x += max(gl.w, 1)
}

func (l *layout) set(x, y int, c gridCell, w int) {
	row := l.rows[y]
	for len(row) < x+max(w, 1) {
		row = append(row, gridCell{})
	}
	c.set = true
	row[x] = c
	for k := 1; k < w; k++ {
		row[x+k] = gridCell{kind: c.kind, style: c.style, level: c.level, decor: c.decor, set: true}
	}
	l.rows[y] = row
}
