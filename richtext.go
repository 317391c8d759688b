package xlgrid

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// NonNucleotidePattern matches runs of characters other than A, T, G, C.
const NonNucleotidePattern = "[^ATGC]+"

// DefaultHighlight is the style FindSpans callers conventionally use: red bold.
func DefaultHighlight() Props {
	return Props{KeyColor: "red", KeyBold: true}
}

// Span is a half-open rune range [Start, End) inside a cell's text.
type Span struct {
	Start int
	End   int
}

func (s Span) String() string { return fmt.Sprintf("(%d, %d)", s.Start, s.End) }

// SpanStyle binds a partial format to a span.
type SpanStyle struct {
	Span  Span
	Props Props
}

// SpanStyles is an ordered set of span overrides. When spans overlap, the
// one applied later wins.
type SpanStyles []SpanStyle

// Set returns s with the override for span replaced, or appended when the
// span is new.
func (s SpanStyles) Set(span Span, props Props) SpanStyles {
	for i := range s {
		if s[i].Span == span {
			out := append(SpanStyles(nil), s...)
			out[i].Props = props
			return out
		}
	}
	return append(s, SpanStyle{Span: span, Props: props})
}

// Run is one character of a segmented string with its resolved style.
type Run struct {
	Style Format
	Char  rune
}

// TextRun is a maximal stretch of characters sharing one style.
type TextRun struct {
	Style Format
	Text  string
}

// Segment resolves a style for every rune of text. Each rune starts from the
// default format narrowed to the base font name and size; every span then
// overlays its props (plus the same font name and size) onto the runes in
// [Start, End). Indices outside the text are ignored.
func Segment(text string, base Format, spans SpanStyles) []Run {
	font := narrowedFont(base)
	plain := NewFormat(font)

	chars := []rune(text)
	runs := make([]Run, len(chars))
	for i, ch := range chars {
		runs[i] = Run{Style: plain, Char: ch}
	}

	for _, ss := range spans {
		start, end := ss.Span.Start, ss.Span.End
		if start < 0 {
			start = 0
		}
		if end > len(runs) {
			end = len(runs)
		}
		for i := start; i < end; i++ {
			runs[i].Style = runs[i].Style.Overlay(ss.Props).Overlay(font)
		}
	}
	return runs
}

func narrowedFont(base Format) Props {
	font := Props{KeyFontName: DefaultFontName, KeyFontSize: DefaultFontSize}
	if v, ok := base.Get(KeyFontName); ok {
		font[KeyFontName] = v
	}
	if v, ok := base.Get(KeyFontSize); ok {
		font[KeyFontSize] = v
	}
	return font
}

// Coalesce joins adjacent runs whose styles are equal.
func Coalesce(runs []Run) []TextRun {
	var out []TextRun
	var b strings.Builder
	for i, r := range runs {
		if i > 0 && !r.Style.Equal(runs[i-1].Style) {
			out = append(out, TextRun{Style: runs[i-1].Style, Text: b.String()})
			b.Reset()
		}
		b.WriteRune(r.Char)
	}
	if len(runs) > 0 {
		out = append(out, TextRun{Style: runs[len(runs)-1].Style, Text: b.String()})
	}
	return out
}

// FindSpans returns one override per match of re in text, with rune
// offsets, each carrying props.
func FindSpans(text string, re *regexp.Regexp, props Props) SpanStyles {
	var spans SpanStyles
	for _, m := range re.FindAllStringIndex(text, -1) {
		if m[0] == m[1] {
			continue
		}
		start := utf8.RuneCountInString(text[:m[0]])
		end := start + utf8.RuneCountInString(text[m[0]:m[1]])
		spans = spans.Set(Span{Start: start, End: end}, props)
	}
	return spans
}

// Highlight compiles pattern and returns FindSpans over text. A nil props
// uses DefaultHighlight.
func Highlight(text, pattern string, props Props) (SpanStyles, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile highlight pattern %q: %w", pattern, err)
	}
	if props == nil {
		props = DefaultHighlight()
	}
	return FindSpans(text, re, props), nil
}
