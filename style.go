package xlgrid

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/xuri/excelize/v2"
	"golang.org/x/image/colornames"
)

// recognizedKeys is the closed set of style keys the excelize writer turns
// into spreadsheet formatting. Other keys survive overlays but are ignored
// on output (or rejected with WithStrictStyles).
var recognizedKeys = map[string]bool{
	KeyColor:       true,
	KeyFontColor:   true,
	KeyFontName:    true,
	KeyFontSize:    true,
	KeyBold:        true,
	KeyItalic:      true,
	KeyUnderline:   true,
	KeyStrikeout:   true,
	KeyBgColor:     true,
	KeyPattern:     true,
	KeyAlign:       true,
	KeyVAlign:      true,
	KeyTextWrap:    true,
	KeyShrink:      true,
	KeyIndent:      true,
	KeyRotation:    true,
	KeyNumFormat:   true,
	KeyTop:         true,
	KeyBottom:      true,
	KeyLeft:        true,
	KeyRight:       true,
	KeyBorderColor: true,
	KeyLocked:      true,
	KeyHidden:      true,
}

// IsRecognizedKey reports whether the writer gives key a meaning.
func IsRecognizedKey(key string) bool {
	return recognizedKeys[key]
}

// UnrecognizedKeys lists the keys of f the writer would ignore, sorted.
func UnrecognizedKeys(f Format) []string {
	var out []string
	for _, k := range f.Keys() {
		if !recognizedKeys[k] {
			out = append(out, k)
		}
	}
	return out
}

// legacyPalette holds the color names spreadsheet writers have
// traditionally accepted; they take precedence over the CSS names, which
// disagree for a few of them (brown, orange, pink).
var legacyPalette = map[string]string{
	"black":   "000000",
	"blue":    "0000FF",
	"brown":   "800000",
	"cyan":    "00FFFF",
	"gray":    "808080",
	"green":   "008000",
	"lime":    "00FF00",
	"magenta": "FF00FF",
	"navy":    "000080",
	"orange":  "FF6600",
	"pink":    "FF00FF",
	"purple":  "800080",
	"red":     "FF0000",
	"silver":  "C0C0C0",
	"white":   "FFFFFF",
	"yellow":  "FFFF00",
}

// ResolveColor turns a color name ("red", "lightsteelblue") or hex string
// ("#FDE9D9", "fde9d9", "#abc") into an upper-case "RRGGBB".
func ResolveColor(value string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(value))
	if name == "" {
		return "", fmt.Errorf("empty color")
	}
	if hex, ok := legacyPalette[name]; ok {
		return hex, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B), nil
	}
	if !strings.HasPrefix(name, "#") {
		name = "#" + name
	}
	c, err := colorful.Hex(name)
	if err != nil {
		return "", fmt.Errorf("invalid color %q: %w", value, err)
	}
	return strings.ToUpper(strings.TrimPrefix(c.Hex(), "#")), nil
}

var horizontalAlign = map[string]string{
	"left":          "left",
	"center":        "center",
	"right":         "right",
	"fill":          "fill",
	"justify":       "justify",
	"center_across": "centerContinuous",
	"distributed":   "distributed",
}

var verticalAlign = map[string]string{
	"top":          "top",
	"vcenter":      "center",
	"center":       "center",
	"bottom":       "bottom",
	"vjustify":     "justify",
	"vdistributed": "distributed",
}

var borderSides = []string{KeyLeft, KeyTop, KeyRight, KeyBottom}

// excelizeStyle translates f. Values the writer cannot use are reported in
// ignored; in strict mode they are an error instead.
func excelizeStyle(f Format, strict bool) (style *excelize.Style, ignored []string, err error) {
	reject := func(key string, reason error) error {
		if strict {
			return fmt.Errorf("%w: %s: %v", ErrUnsupportedStyleKey, key, reason)
		}
		ignored = append(ignored, fmt.Sprintf("%s (%v)", key, reason))
		return nil
	}

	for _, k := range UnrecognizedKeys(f) {
		if err := reject(k, fmt.Errorf("unknown key")); err != nil {
			return nil, nil, err
		}
	}

	style = &excelize.Style{}

	font := &excelize.Font{
		Family: f.Str(KeyFontName),
		Size:   f.Float(KeyFontSize),
		Bold:   f.Bool(KeyBold),
		Italic: f.Bool(KeyItalic),
		Strike: f.Bool(KeyStrikeout),
	}
	if f.Has(KeyUnderline) {
		font.Underline = underlineStyle(f)
	}
	colorKey := KeyColor
	if f.Has(KeyFontColor) {
		colorKey = KeyFontColor
	}
	if f.Has(colorKey) {
		hex, cerr := ResolveColor(f.Str(colorKey))
		if cerr != nil {
			if err := reject(colorKey, cerr); err != nil {
				return nil, nil, err
			}
		} else {
			font.Color = hex
		}
	}
	style.Font = font

	if f.Has(KeyBgColor) {
		hex, cerr := ResolveColor(f.Str(KeyBgColor))
		if cerr != nil {
			if err := reject(KeyBgColor, cerr); err != nil {
				return nil, nil, err
			}
		} else {
			pattern := 1
			if f.Has(KeyPattern) {
				pattern = f.Int(KeyPattern)
			}
			style.Fill = excelize.Fill{Type: "pattern", Pattern: pattern, Color: []string{hex}}
		}
	}

	borderColor := "000000"
	if f.Has(KeyBorderColor) {
		hex, cerr := ResolveColor(f.Str(KeyBorderColor))
		if cerr != nil {
			if err := reject(KeyBorderColor, cerr); err != nil {
				return nil, nil, err
			}
		} else {
			borderColor = hex
		}
	}
	for _, side := range borderSides {
		weight := f.Int(side)
		if weight <= 0 {
			continue
		}
		if weight > 13 {
			if err := reject(side, fmt.Errorf("border style %d out of range", weight)); err != nil {
				return nil, nil, err
			}
			continue
		}
		style.Border = append(style.Border, excelize.Border{Type: side, Color: borderColor, Style: weight})
	}

	align := &excelize.Alignment{
		WrapText:     f.Bool(KeyTextWrap),
		ShrinkToFit:  f.Bool(KeyShrink),
		Indent:       f.Int(KeyIndent),
		TextRotation: f.Int(KeyRotation),
	}
	if v := f.Str(KeyAlign); v != "" {
		if h, ok := horizontalAlign[v]; ok {
			align.Horizontal = h
		} else if err := reject(KeyAlign, fmt.Errorf("unknown alignment %q", v)); err != nil {
			return nil, nil, err
		}
	}
	if v := f.Str(KeyVAlign); v != "" {
		if va, ok := verticalAlign[v]; ok {
			align.Vertical = va
		} else if err := reject(KeyVAlign, fmt.Errorf("unknown vertical alignment %q", v)); err != nil {
			return nil, nil, err
		}
	}
	if *align != (excelize.Alignment{}) {
		style.Alignment = align
	}

	if v, ok := f.Get(KeyNumFormat); ok {
		switch n := v.(type) {
		case string:
			code := n
			style.CustomNumFmt = &code
		default:
			if id, ok := toInt(n); ok {
				style.NumFmt = id
			} else if err := reject(KeyNumFormat, fmt.Errorf("unsupported value %v", v)); err != nil {
				return nil, nil, err
			}
		}
	}

	if f.Has(KeyLocked) || f.Has(KeyHidden) {
		locked := true
		if f.Has(KeyLocked) {
			locked = f.Bool(KeyLocked)
		}
		style.Protection = &excelize.Protection{Locked: locked, Hidden: f.Bool(KeyHidden)}
	}

	return style, ignored, nil
}

// richFont translates the font part of a rich-text run style.
func richFont(f Format) *excelize.Font {
	font := &excelize.Font{
		Family: f.Str(KeyFontName),
		Size:   f.Float(KeyFontSize),
		Bold:   f.Bool(KeyBold),
		Italic: f.Bool(KeyItalic),
		Strike: f.Bool(KeyStrikeout),
	}
	if f.Has(KeyUnderline) {
		font.Underline = underlineStyle(f)
	}
	colorKey := KeyColor
	if f.Has(KeyFontColor) {
		colorKey = KeyFontColor
	}
	if hex, err := ResolveColor(f.Str(colorKey)); err == nil {
		font.Color = hex
	}
	return font
}

func underlineStyle(f Format) string {
	v, _ := f.Get(KeyUnderline)
	switch u := v.(type) {
	case string:
		return u
	case bool:
		if u {
			return "single"
		}
		return ""
	}
	switch f.Int(KeyUnderline) {
	case 0:
		return ""
	case 2:
		return "double"
	default:
		return "single"
	}
}
