// Package render turns markdown source text into a laid-out block tree.
//
// Every block keeps its text fragments with the terminal cell of each
// grapheme, so callers can measure the rectangle of any byte range of a
// fragment without re-rendering.
package render

import (
	"strings"

	"vellum/internal/blocks"
)

// Fragment is a run of rendered text sharing one inline style
type Fragment struct {
	text  string
	style Style
	cells []cell
}

// Text returns the visible text of the fragment
func (f *Fragment) Text() string { return f.text }

// Style returns the inline style flags of the fragment
func (f *Fragment) Style() Style { return f.style }

// Rect returns the bounding rectangle of the byte range [start, end) of the
// fragment text. ok is false when no laid-out grapheme overlaps the range.
func (f *Fragment) Rect(start, end int) (Rect, bool) {
	var r Rect
	found := false
	for _, c := range f.cells {
		if c.off+c.size <= start || c.off >= end {
			continue
		}
		cr := Rect{X: c.x, Y: c.y, W: max(c.w, 1), H: 1}
		if !found {
			r = cr
			found = true
			continue
		}
		r = r.Union(cr)
	}
	return r, found
}

// Block is one rendered block in document order
type Block struct {
	Index  int
	Kind   blocks.Kind
	Level  int
	Source blocks.Range

	fragments []*Fragment
	lines     [][]*Fragment
	text      string
	bounds    Rect
	marker    string
}

// Fragments returns the text fragments of the block in document order
func (b *Block) Fragments() []*Fragment { return b.fragments }

// Lines returns the fragments grouped by rendered source line. Code blocks
// have one entry per code line; every other block has a single entry.
func (b *Block) Lines() [][]*Fragment { return b.lines }

// Text returns the visible text of the block
func (b *Block) Text() string { return b.text }

// Bounds returns the rectangle the block occupies in the laid-out view
func (b *Block) Bounds() Rect { return b.bounds }

// View is a rendered document snapshot
type View struct {
	Blocks []*Block
	Width  int

	rows [][]gridCell
}

// Len returns the number of blocks
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Blocks)
}

// Block returns block i, or nil when i is out of range
func (v *View) Block(i int) *Block {
	if v == nil || i < 0 || i >= len(v.Blocks) {
		return nil
	}
	return v.Blocks[i]
}

// Height returns the number of laid-out rows
func (v *View) Height() int { return len(v.rows) }

// Render renders source for a view width in cells
func Render(source string, width int) *View {
	if width < 8 {
		width = 8
	}
	lines := blocks.Lines(source)
	ranges := blocks.ProjectLines(lines)

	v := &View{Width: width}
	l := newLayout(width)
	for i, r := range ranges {
		b := buildBlock(i, r, lines)
		if i > 0 {
			l.blankRow()
		}
		l.place(b)
		v.Blocks = append(v.Blocks, b)
	}
	v.rows = l.rows
	return v
}

func buildBlock(index int, r blocks.Range, lines []string) *Block {
	b := &Block{Index: index, Kind: r.Kind, Source: r}
	first := strings.TrimRight(lines[r.Start], "\r")

	var spans [][]span
	switch r.Kind {
	case blocks.Code:
		end := r.End
		if end > r.Start {
			if c, run, _ := blocks.FenceOpen(first); blocks.FenceClose(lines[end], c, run) {
				end--
			}
		}
		for i := r.Start + 1; i <= end; i++ {
			line := strings.TrimRight(lines[i], "\r")
			spans = append(spans, []span{{text: line, style: Code}})
		}
	case blocks.Rule:
	case blocks.Heading:
		start, end := blocks.HeadingContent(first)
		b.Level = headingLevel(first)
		spans = append(spans, parseInline(first[start:end], 0))
	case blocks.ListItem:
		start := blocks.ContentStart(first, blocks.ListItem)
		b.marker = strings.TrimSpace(first[:start])
		b.Level = leadingSpaces(first) / 2
		spans = append(spans, parseInline(first[start:], 0))
	case blocks.Quote:
		b.Level = quoteDepth(first)
		spans = append(spans, parseInline(first[blocks.ContentStart(first, blocks.Quote):], 0))
	default:
		parts := make([]string, 0, r.End-r.Start+1)
		for i := r.Start; i <= r.End; i++ {
			parts = append(parts, strings.TrimSpace(lines[i]))
		}
		spans = append(spans, parseInline(strings.Join(parts, " "), 0))
	}

	texts := make([]string, 0, len(spans))
	for _, line := range spans {
		var sb strings.Builder
		row := make([]*Fragment, 0, len(line))
		for _, sp := range line {
			f := &Fragment{text: sp.text, style: sp.style}
			b.fragments = append(b.fragments, f)
			row = append(row, f)
			sb.WriteString(sp.text)
		}
		b.lines = append(b.lines, row)
		texts = append(texts, sb.String())
	}
	b.text = strings.Join(texts, "\n")
	return b
}

func headingLevel(line string) int {
	trimmed := strings.TrimLeft(line, " ")
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	return n
}

func leadingSpaces(line string) int {
	n := 0
	for _, c := range line {
		switch c {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

func quoteDepth(line string) int {
	depth := 0
	for _, c := range line {
		switch c {
		case '>':
			depth++
		case ' ':
		default:
			return depth
		}
	}
	return depth
}
