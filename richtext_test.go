package xlgrid

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegment_SpanOverride(t *testing.T) {
	base := NewFormat(Props{KeyBgColor: "yellow", KeyFontName: "Arial", KeyFontSize: 12})
	spans := SpanStyles{}.Set(Span{Start: 1, End: 3}, Props{KeyColor: "red", KeyBold: true})

	runs := Segment("ATAGC", base, spans)
	require.Len(t, runs, 5)

	plain := Props{KeyColor: "black", KeyFontName: "Arial", KeyFontSize: 12}
	marked := Props{KeyColor: "red", KeyBold: true, KeyFontName: "Arial", KeyFontSize: 12}
	for i, r := range runs {
		want := plain
		if i == 1 || i == 2 {
			want = marked
		}
		assert.Equal(t, want, r.Style.Props(), "index %d", i)
	}
	assert.Equal(t, "ATAGC", string([]rune{runs[0].Char, runs[1].Char, runs[2].Char, runs[3].Char, runs[4].Char}))
}

func TestSegment_DropsNonFontBaseProps(t *testing.T) {
	base := NewFormat(Props{KeyBgColor: "yellow", KeyBold: true})
	for _, r := range Segment("ab", base, nil) {
		assert.False(t, r.Style.Has(KeyBgColor))
		assert.False(t, r.Style.Has(KeyBold))
		assert.Equal(t, "Courier new", r.Style.Str(KeyFontName))
	}
}

func TestSegment_SpanCannotOverrideFont(t *testing.T) {
	spans := SpanStyles{}.Set(Span{0, 1}, Props{KeyFontName: "Arial"})
	runs := Segment("ab", NewFormat(), spans)
	assert.Equal(t, "Courier new", runs[0].Style.Str(KeyFontName))
}

func TestSegment_LaterSpanWins(t *testing.T) {
	spans := SpanStyles{}.
		Set(Span{0, 3}, Props{KeyColor: "red"}).
		Set(Span{2, 4}, Props{KeyColor: "blue"})
	runs := Segment("abcd", NewFormat(), spans)
	assert.Equal(t, "red", runs[1].Style.Str(KeyColor))
	assert.Equal(t, "blue", runs[2].Style.Str(KeyColor))
	assert.Equal(t, "blue", runs[3].Style.Str(KeyColor))
}

func TestSegment_OutOfRangeClamped(t *testing.T) {
	spans := SpanStyles{}.Set(Span{-2, 1}, Props{KeyBold: true}).Set(Span{2, 10}, Props{KeyItalic: true})
	runs := Segment("abc", NewFormat(), spans)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].Style.Bool(KeyBold))
	assert.False(t, runs[1].Style.Has(KeyBold))
	assert.True(t, runs[2].Style.Bool(KeyItalic))
}

func TestSegment_Unicode(t *testing.T) {
	spans := SpanStyles{}.Set(Span{1, 2}, Props{KeyBold: true})
	runs := Segment("é漢x", NewFormat(), spans)
	require.Len(t, runs, 3)
	assert.Equal(t, '漢', runs[1].Char)
	assert.True(t, runs[1].Style.Bool(KeyBold))
}

func TestSpanStyles_SetReplacesInPlace(t *testing.T) {
	s := SpanStyles{}.Set(Span{0, 1}, Props{KeyBold: true}).Set(Span{1, 2}, Props{KeyItalic: true})
	s2 := s.Set(Span{0, 1}, Props{KeyColor: "red"})
	require.Len(t, s2, 2)
	assert.Equal(t, Span{0, 1}, s2[0].Span)
	assert.Equal(t, Props{KeyColor: "red"}, s2[0].Props)
	assert.Equal(t, Props{KeyBold: true}, s[0].Props, "original untouched")
}

func TestCoalesce(t *testing.T) {
	spans := SpanStyles{}.Set(Span{1, 3}, DefaultHighlight())
	merged := Coalesce(Segment("ATAGC", NewFormat(), spans))
	require.Len(t, merged, 3)
	assert.Equal(t, "A", merged[0].Text)
	assert.Equal(t, "TA", merged[1].Text)
	assert.Equal(t, "GC", merged[2].Text)
	assert.True(t, merged[1].Style.Bool(KeyBold))
	assert.Nil(t, Coalesce(nil))
}

func TestFindSpans_NonNucleotide(t *testing.T) {
	re := regexp.MustCompile(NonNucleotidePattern)
	spans := FindSpans("ATGCNNATGCRRATGC", re, DefaultHighlight())
	require.Len(t, spans, 2)
	assert.Equal(t, Span{4, 6}, spans[0].Span)
	assert.Equal(t, Span{10, 12}, spans[1].Span)
	assert.Equal(t, "red", spans[0].Props[KeyColor])
}

func TestFindSpans_RuneOffsets(t *testing.T) {
	spans := FindSpans("ééX", regexp.MustCompile("X"), Props{KeyBold: true})
	require.Len(t, spans, 1)
	assert.Equal(t, Span{2, 3}, spans[0].Span)
}

func TestFindSpans_SkipsEmptyMatches(t *testing.T) {
	spans := FindSpans("abc", regexp.MustCompile("x*"), Props{KeyBold: true})
	assert.Empty(t, spans)
}

func TestHighlight(t *testing.T) {
	spans, err := Highlight("ATXGC", NonNucleotidePattern, nil)
	require.NoError(t, err)
	require.Len(t, spans, 1)
	assert.Equal(t, Span{2, 3}, spans[0].Span)
	assert.Equal(t, DefaultHighlight(), spans[0].Props)

	_, err = Highlight("abc", "(", nil)
	assert.Error(t, err)
}
