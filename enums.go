package xlgrid

import (
	"fmt"
	"strings"
)

// Style keys understood by the excelize writer. Any other key is carried
// through overlays untouched; see recognizedKeys in style.go.
const (
	KeyColor       = "color"
	KeyFontColor   = "font_color"
	KeyFontName    = "font_name"
	KeyFontSize    = "font_size"
	KeyBold        = "bold"
	KeyItalic      = "italic"
	KeyUnderline   = "underline"
	KeyStrikeout   = "font_strikeout"
	KeyBgColor     = "bg_color"
	KeyPattern     = "pattern"
	KeyAlign       = "align"
	KeyVAlign      = "valign"
	KeyTextWrap    = "text_wrap"
	KeyShrink      = "shrink"
	KeyIndent      = "indent"
	KeyRotation    = "rotation"
	KeyNumFormat   = "num_format"
	KeyTop         = "top"
	KeyBottom      = "bottom"
	KeyLeft        = "left"
	KeyRight       = "right"
	KeyBorderColor = "border_color"
	KeyLocked      = "locked"
	KeyHidden      = "hidden"
)

// Line is a border strength. Values are the xlsx border style numbers.
type Line int

const (
	LineNone   Line = 0
	LineNormal Line = 1
	LineThick  Line = 2
	LineDashed Line = 3
	LineHeavy  Line = 5
	LineDouble Line = 6
	LineDotted Line = 7
)

var lineNames = map[Line]string{
	LineNone:   "none",
	LineNormal: "normal",
	LineThick:  "thick",
	LineDashed: "dashed",
	LineHeavy:  "heavy",
	LineDouble: "double",
	LineDotted: "dotted",
}

func (l Line) String() string {
	if name, ok := lineNames[l]; ok {
		return name
	}
	return fmt.Sprintf("Line(%d)", int(l))
}

// ParseLine converts a name such as "thick" to a Line.
func ParseLine(name string) (Line, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for l, n := range lineNames {
		if n == name {
			return l, nil
		}
	}
	return LineNone, fmt.Errorf("unknown line strength %q", name)
}

// Side names one edge of a cell; the value doubles as the style key.
type Side string

const (
	SideTop    Side = KeyTop
	SideBottom Side = KeyBottom
	SideLeft   Side = KeyLeft
	SideRight  Side = KeyRight
)

// Align is a horizontal alignment.
type Align string

const (
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "justify"
)

// VAlign is a vertical alignment.
type VAlign string

const (
	VAlignTop    VAlign = "top"
	VAlignCenter VAlign = "vcenter"
	VAlignBottom VAlign = "bottom"
)
