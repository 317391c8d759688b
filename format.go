package xlgrid

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/tiendc/go-deepcopy"
)

// Default values seeded into every Format created with NewFormat.
const (
	DefaultColor    = "black"
	DefaultFontName = "Courier new"
	DefaultFontSize = 10
)

// Props is a partial format: style-property name to value. It is the patch
// argument of Format.Overlay.
type Props map[string]any

// Format is an immutable style record. Every transformation returns a new
// Format; the receiver is never modified.
type Format struct {
	props map[string]any
}

// NewFormat returns the default format (color, font_name, font_size) with
// the given props applied on top, in order.
func NewFormat(initial ...Props) Format {
	f := Format{props: map[string]any{
		KeyColor:    DefaultColor,
		KeyFontName: DefaultFontName,
		KeyFontSize: DefaultFontSize,
	}}
	for _, p := range initial {
		f = f.Overlay(p)
	}
	return f
}

// Overlay returns a copy of f where every key in patch replaces the key in f.
// Keys absent from patch are preserved. Values are deep-copied.
func (f Format) Overlay(patch Props) Format {
	out := make(map[string]any, len(f.props)+len(patch))
	for k, v := range f.props {
		out[k] = v
	}
	for k, v := range cloneProps(patch) {
		out[k] = v
	}
	return Format{props: out}
}

// OverlayFormat overlays every key of other onto f.
func (f Format) OverlayFormat(other Format) Format {
	return f.Overlay(other.props)
}

// With overlays a single key.
func (f Format) With(key string, value any) Format {
	return f.Overlay(Props{key: value})
}

// Get returns the value stored under key.
func (f Format) Get(key string) (any, bool) {
	v, ok := f.props[key]
	return v, ok
}

// Has reports whether key is set.
func (f Format) Has(key string) bool {
	_, ok := f.props[key]
	return ok
}

// Len returns the number of keys.
func (f Format) Len() int { return len(f.props) }

// Keys returns the keys in sorted order.
func (f Format) Keys() []string {
	keys := make([]string, 0, len(f.props))
	for k := range f.props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Props returns a deep copy of the underlying map.
func (f Format) Props() Props {
	return cloneProps(f.props)
}

// Equal reports structural equality.
func (f Format) Equal(other Format) bool {
	if len(f.props) != len(other.props) {
		return false
	}
	for k, v := range f.props {
		ov, ok := other.props[k]
		if !ok || !reflect.DeepEqual(v, ov) {
			return false
		}
	}
	return true
}

// Fingerprint is a deterministic encoding of the format, suitable as a
// cache key. Equal formats have equal fingerprints.
func (f Format) Fingerprint() string {
	var b strings.Builder
	for i, k := range f.Keys() {
		if i > 0 {
			b.WriteByte(';')
		}
		fmt.Fprintf(&b, "%s=%#v", k, f.props[k])
	}
	return b.String()
}

func (f Format) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range f.Keys() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s: %v", k, f.props[k])
	}
	b.WriteByte('}')
	return b.String()
}

// Str returns the value under key as a string, or "" when absent.
func (f Format) Str(key string) string {
	v, ok := f.props[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Int returns the value under key as an int, or 0 when absent or not numeric.
func (f Format) Int(key string) int {
	n, _ := toInt(f.props[key])
	return n
}

// Float returns the value under key as a float64, or 0 when absent or not numeric.
func (f Format) Float(key string) float64 {
	n, _ := toFloat(f.props[key])
	return n
}

// Bool returns the value under key as a bool. Non-zero numbers are true.
func (f Format) Bool(key string) bool {
	switch v := f.props[key].(type) {
	case bool:
		return v
	case nil:
		return false
	default:
		n, ok := toFloat(v)
		return ok && n != 0
	}
}

// Convenience transformations, each a single-key Overlay.

func (f Format) WithBackground(color string) Format { return f.With(KeyBgColor, color) }
func (f Format) WithFontColor(color string) Format  { return f.With(KeyFontColor, color) }
func (f Format) WithFontName(name string) Format    { return f.With(KeyFontName, name) }
func (f Format) WithFontSize(size float64) Format   { return f.With(KeyFontSize, size) }
func (f Format) WithAlignment(a Align) Format       { return f.With(KeyAlign, string(a)) }
func (f Format) WithVAlign(a VAlign) Format         { return f.With(KeyVAlign, string(a)) }
func (f Format) WithBold() Format                   { return f.With(KeyBold, true) }
func (f Format) WithItalic() Format                 { return f.With(KeyItalic, true) }
func (f Format) WithWrap() Format                   { return f.With(KeyTextWrap, true) }
func (f Format) WithNumFormat(code string) Format   { return f.With(KeyNumFormat, code) }

// WithBorder sets the strength of one cell edge.
func (f Format) WithBorder(side Side, line Line) Format {
	return f.With(string(side), int(line))
}

// WithBorders sets all four edges.
func (f Format) WithBorders(line Line) Format {
	return f.Overlay(Props{
		KeyTop:    int(line),
		KeyBottom: int(line),
		KeyLeft:   int(line),
		KeyRight:  int(line),
	})
}

// WithDivisor sets the bottom edge; it is what a divisor stamps on a cell.
func (f Format) WithDivisor(line Line) Format {
	return f.WithBorder(SideBottom, line)
}

func cloneProps(p map[string]any) map[string]any {
	if len(p) == 0 {
		return map[string]any{}
	}
	out := make(map[string]any, len(p))
	composite := false
	for k, v := range p {
		out[k] = v
		if v == nil {
			continue
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Map, reflect.Slice, reflect.Pointer, reflect.Struct, reflect.Array:
			composite = true
		}
	}
	if !composite {
		return out
	}
	deep := make(map[string]any, len(p))
	if err := deepcopy.Copy(&deep, p); err != nil {
		return out
	}
	return deep
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case Line:
		return int(n), true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	if i, ok := toInt(v); ok {
		return float64(i), true
	}
	return 0, false
}
