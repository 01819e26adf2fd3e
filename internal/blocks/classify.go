package blocks

import (
	"strings"
	"unicode"
)

// Kind is the block class a source line belongs to
type Kind int

const (
	Paragraph Kind = iota
	Heading
	Rule
	ListItem
	Quote
	Code
)

func (k Kind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Rule:
		return "rule"
	case ListItem:
		return "list"
	case Quote:
		return "quote"
	case Code:
		return "code"
	default:
		return "paragraph"
	}
}

// IsBlank reports whether a line only holds whitespace
func IsBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// smallIndent counts leading spaces; ok is false past three, where a line can
// no longer open a heading, rule, quote or fence
func smallIndent(line string) (int, bool) {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n, n <= 3
}

// FenceOpen reports whether line opens a fenced code region and returns the
// fence character and run length
func FenceOpen(line string) (byte, int, bool) {
	n, ok := smallIndent(line)
	if !ok || n >= len(line) {
		return 0, 0, false
	}
	c := line[n]
	if c != '`' && c != '~' {
		return 0, 0, false
	}
	run := 0
	for n+run < len(line) && line[n+run] == c {
		run++
	}
	if run < 3 {
		return 0, 0, false
	}
	// backtick fences may not carry backticks in the info string
	if c == '`' && strings.ContainsRune(line[n+run:], '`') {
		return 0, 0, false
	}
	return c, run, true
}

// FenceClose reports whether line closes a fence opened with c repeated run times
func FenceClose(line string, c byte, run int) bool {
	n, ok := smallIndent(line)
	if !ok {
		return false
	}
	rest := strings.TrimRight(line[n:], " \t\r")
	if len(rest) < run {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] != c {
			return false
		}
	}
	return true
}

// IsHeading reports an ATX heading line
func IsHeading(line string) bool {
	n, ok := smallIndent(line)
	if !ok {
		return false
	}
	hashes := 0
	for n+hashes < len(line) && line[n+hashes] == '#' {
		hashes++
	}
	if hashes == 0 || hashes > 6 {
		return false
	}
	rest := line[n+hashes:]
	return rest == "" || rest[0] == ' ' || rest[0] == '\t' || rest[0] == '\r'
}

// IsRule reports a thematic break: three or more of the same -, * or _
// optionally separated by spaces
func IsRule(line string) bool {
	_, ok := smallIndent(line)
	if !ok {
		return false
	}
	var mark byte
	count := 0
	for i := 0; i < len(line); i++ {
		switch c := line[i]; c {
		case ' ', '\t', '\r':
		case '-', '*', '_':
			if mark == 0 {
				mark = c
			} else if c != mark {
				return false
			}
			count++
		default:
			return false
		}
	}
	return count >= 3
}

// ListMarkerEnd returns the byte offset just past a list item marker and its
// trailing space, or -1 when line is not a list item
func ListMarkerEnd(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	if n >= len(line) {
		return -1
	}
	i := n
	switch line[i] {
	case '-', '*', '+':
		i++
	default:
		digits := 0
		for i < len(line) && line[i] >= '0' && line[i] <= '9' && digits < 9 {
			i++
			digits++
		}
		if digits == 0 || i >= len(line) || (line[i] != '.' && line[i] != ')') {
			return -1
		}
		i++
	}
	if i == len(line) {
		return i
	}
	if line[i] != ' ' && line[i] != '\t' {
		return -1
	}
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}

// IsListItem reports a bullet or ordered list item line
func IsListItem(line string) bool {
	return ListMarkerEnd(line) >= 0
}

// IsQuote reports a blockquote line
func IsQuote(line string) bool {
	n, ok := smallIndent(line)
	return ok && n < len(line) && line[n] == '>'
}

// Classify returns the kind a single non-blank line opens. Fences are
// reported as Code; continuation lines are paragraphs.
func Classify(line string) Kind {
	line = strings.TrimRight(line, "\r")
	switch {
	case isFence(line):
		return Code
	case IsHeading(line):
		return Heading
	case IsRule(line):
		return Rule
	case IsListItem(line):
		return ListItem
	case IsQuote(line):
		return Quote
	default:
		return Paragraph
	}
}

func isFence(line string) bool {
	_, _, ok := FenceOpen(line)
	return ok
}

// ContentStart returns the byte offset where the visible content of line
// begins once its block marker (heading hashes, bullet, quote) is skipped
func ContentStart(line string, kind Kind) int {
	switch kind {
	case Heading:
		n, _ := smallIndent(line)
		for n < len(line) && line[n] == '#' {
			n++
		}
		for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		return n
	case ListItem:
		if end := ListMarkerEnd(line); end >= 0 {
			return end
		}
	case Quote:
		n := 0
		for n < len(line) && line[n] == ' ' {
			n++
		}
		for n < len(line) && line[n] == '>' {
			n++
			if n < len(line) && line[n] == ' ' {
				n++
			}
		}
		return n
	case Paragraph:
		n := 0
		for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
			n++
		}
		return n
	}
	return 0
}

// HeadingContent returns the byte span of the text of heading line, past the
// opening hashes and before an optional closing run of hashes
func HeadingContent(line string) (int, int) {
	line = strings.TrimRight(line, "\r")
	start := ContentStart(line, Heading)
	content := strings.TrimRightFunc(line[start:], unicode.IsSpace)
	if trimmed := strings.TrimRight(content, "#"); trimmed == "" || strings.HasSuffix(trimmed, " ") || strings.HasSuffix(trimmed, "\t") {
		content = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	}
	return start, start + len(content)
}

// StripMarker returns the visible text of a line with block markers and
// surrounding whitespace removed
func StripMarker(line string) string {
	line = strings.TrimRight(line, "\r")
	kind := Classify(line)
	return strings.TrimFunc(line[ContentStart(line, kind):], unicode.IsSpace)
}

// OpensBlock reports whether line starts a block of its own, which ends any
// run of paragraph lines above it
func OpensBlock(line string) bool {
	return !IsBlank(line) && Classify(line) != Paragraph
}
