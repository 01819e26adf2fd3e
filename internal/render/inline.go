package render

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Style is a set of inline formatting flags carried by a fragment
type Style uint8

const (
	Bold Style = 1 << iota
	Italic
	Code
	Strike
)

// span is a run of visible text with a single style, before layout. src
// holds, for every byte of text, its offset in the parsed string.
type span struct {
	text  string
	style Style
	src   []int
}

type delimiter struct {
	marker string
	style  Style
}

// Longer markers first so "**" is never read as two "*".
var delimiters = []delimiter{
	{"**", Bold},
	{"__", Bold},
	{"~~", Strike},
	{"*", Italic},
	{"_", Italic},
}

// Visible returns the text inline markdown s renders to and, for every byte
// of that text, the offset in s it was taken from
func Visible(s string) (string, []int) {
	var sb strings.Builder
	var src []int
	for _, sp := range parseInline(s, 0) {
		sb.WriteString(sp.text)
		src = append(src, sp.src...)
	}
	return sb.String(), src
}

// parseInline strips inline emphasis and code markers from s and returns the
// visible text split into styled spans
func parseInline(s string, base Style) []span {
	return mergeSpans(parseSpans(s, 0, base))
}

// parseSpans parses s, which starts at offset at of the outermost string
func parseSpans(s string, at int, base Style) []span {
	var out []span
	var plain strings.Builder
	var src []int

	flush := func() {
		if plain.Len() > 0 {
			out = append(out, span{text: plain.String(), style: base, src: src})
			plain.Reset()
			src = nil
		}
	}
	keep := func(from, to int) {
		plain.WriteString(s[from:to])
		for k := from; k < to; k++ {
			src = append(src, at+k)
		}
	}

	i := 0
	for i < len(s) {
		c := s[i]

		if c == '\\' && i+1 < len(s) && isMarkerByte(s[i+1]) {
			keep(i+1, i+2)
			i += 2
			continue
		}

		if c == '`' {
			run := countRun(s, i, '`')
			if end := findCodeClose(s, i+run, run); end >= 0 {
				flush()
				from, to := i+run, end
				if inner := s[from:to]; strings.TrimSpace(inner) != "" && len(inner) > 2 && inner[0] == ' ' && inner[len(inner)-1] == ' ' {
					from, to = from+1, to-1
				}
				code := make([]int, 0, to-from)
				for k := from; k < to; k++ {
					code = append(code, at+k)
				}
				out = append(out, span{text: s[from:to], style: base | Code, src: code})
				i = end + run
				continue
			}
			keep(i, i+run)
			i += run
			continue
		}

		if d, ok := openerAt(s, i); ok {
			if end := findCloser(s, i+len(d.marker), d.marker); end >= 0 {
				flush()
				inner := i + len(d.marker)
				out = append(out, parseSpans(s[inner:end], at+inner, base|d.style)...)
				i = end + len(d.marker)
				continue
			}
		}

		_, size := utf8.DecodeRuneInString(s[i:])
		keep(i, i+size)
		i += size
	}
	flush()
	return out
}

func isMarkerByte(c byte) bool {
	return c == '*' || c == '_' || c == '`' || c == '~' || c == '\\'
}

func countRun(s string, i int, c byte) int {
	n := 0
	for i+n < len(s) && s[i+n] == c {
		n++
	}
	return n
}

func findCodeClose(s string, from, run int) int {
	for j := from; j < len(s); {
		if s[j] != '`' {
			j++
			continue
		}
		n := countRun(s, j, '`')
		if n == run {
			return j
		}
		j += n
	}
	return -1
}

// openerAt reports a delimiter that can open emphasis at i: it must be
// followed by a non-space character, and "_" must not sit inside a word
func openerAt(s string, i int) (delimiter, bool) {
	for _, d := range delimiters {
		if !strings.HasPrefix(s[i:], d.marker) {
			continue
		}
		after := i + len(d.marker)
		if after >= len(s) {
			return delimiter{}, false
		}
		next, _ := utf8.DecodeRuneInString(s[after:])
		if unicode.IsSpace(next) {
			return delimiter{}, false
		}
		if d.marker[0] == '_' && i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(s[:i])
			if unicode.IsLetter(prev) || unicode.IsDigit(prev) {
				return delimiter{}, false
			}
		}
		return d, true
	}
	return delimiter{}, false
}

// findCloser returns the index of the closing marker matching an opener whose
// content starts at from, or -1
func findCloser(s string, from int, marker string) int {
	for j := from + 1; j+len(marker) <= len(s); j++ {
		if s[j] == '`' {
			run := countRun(s, j, '`')
			if end := findCodeClose(s, j+run, run); end >= 0 {
				j = end + run - 1
				continue
			}
		}
		if !strings.HasPrefix(s[j:], marker) {
			continue
		}
		prev, _ := utf8.DecodeLastRuneInString(s[:j])
		if unicode.IsSpace(prev) {
			continue
		}
		run := countRun(s, j, marker[0])
		if len(marker) > 1 && run > len(marker) {
			// "***" closing "**": the outer pair takes the last two
			j += run - len(marker)
		}
		after := j + len(marker)
		// a single marker directly followed by the same char belongs to a longer run
		if len(marker) == 1 && after < len(s) && s[after] == marker[0] {
			j++
			continue
		}
		if marker[0] == '_' && after < len(s) {
			next, _ := utf8.DecodeRuneInString(s[after:])
			if unicode.IsLetter(next) || unicode.IsDigit(next) {
				continue
			}
		}
		return j
	}
	return -1
}

func mergeSpans(in []span) []span {
	var out []span
	for _, sp := range in {
		if sp.text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].style == sp.style {
			out[n-1].text += sp.text
			out[n-1].src = append(out[n-1].src, sp.src...)
			continue
		}
		out = append(out, sp)
	}
	return out
}
