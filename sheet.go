package xlgrid

import "fmt"

// DefaultZoom is the zoom percentage of a new sheet.
const DefaultZoom = 100

// RowHeight sets the height of one 0-based row.
type RowHeight struct {
	Row    int
	Height float64
}

// ColumnRange sets the width of the 0-based columns First..Last.
type ColumnRange struct {
	First int
	Last  int
	Width float64
}

// Image is a picture anchored at a cell.
type Image struct {
	Data    []byte
	Type    string  // PNG, JPEG, GIF, BMP (default: PNG)
	XOffset int     // pixels from the anchor cell's left edge
	YOffset int     // pixels from the anchor cell's top edge
	XScale  float64 // default 1
	YScale  float64 // default 1
}

// ImagePlacement is an image with its anchor.
type ImagePlacement struct {
	Ref   CellRef
	Image Image
}

// Sheet is the top-level document node: tables, free-standing cells, images
// and sheet-wide presentation directives.
type Sheet struct {
	Name         string
	Zoom         int
	FreezePanes  []CellRef
	RowHeights   []RowHeight
	ColumnWidths []ColumnRange
	Style        Format

	tables map[string]*Table
	order  []string
	cells  []*Cell
	images []ImagePlacement
	strict bool
}

// SheetOption configures a sheet at creation.
type SheetOption func(*Sheet)

// WithZoom sets the zoom percentage.
func WithZoom(percent int) SheetOption {
	return func(s *Sheet) { s.Zoom = percent }
}

// WithFreezePanes adds freeze points; rows above and columns left of each
// ref stay visible.
func WithFreezePanes(refs ...CellRef) SheetOption {
	return func(s *Sheet) { s.FreezePanes = append(s.FreezePanes, refs...) }
}

// WithRowHeight sets the height of a row.
func WithRowHeight(row int, height float64) SheetOption {
	return func(s *Sheet) { s.RowHeights = append(s.RowHeights, RowHeight{Row: row, Height: height}) }
}

// WithColumnWidth sets the width of columns first..last.
func WithColumnWidth(first, last int, width float64) SheetOption {
	return func(s *Sheet) {
		s.ColumnWidths = append(s.ColumnWidths, ColumnRange{First: first, Last: last, Width: width})
	}
}

// WithSheetFormat overlays p onto the default format to form the sheet style.
func WithSheetFormat(p Props) SheetOption {
	return func(s *Sheet) { s.Style = s.Style.Overlay(p) }
}

// WithStrictNames makes duplicate table and column names an error instead
// of a silent replacement.
func WithStrictNames() SheetOption {
	return func(s *Sheet) { s.strict = true }
}

// NewSheet creates an empty sheet.
func NewSheet(name string, opts ...SheetOption) *Sheet {
	s := &Sheet{
		Name:   name,
		Zoom:   DefaultZoom,
		Style:  NewFormat(),
		tables: make(map[string]*Table),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddTable anchors a new table at origin. Its style is the sheet style with
// the table format overlaid. Reusing a name replaces the registered table
// unless strict names are on.
func (s *Sheet) AddTable(name string, origin CellRef, opts ...TableOption) (*Table, error) {
	_, exists := s.tables[name]
	if exists && s.strict {
		return nil, fmt.Errorf("%w: table %q in sheet %q", ErrDuplicateName, name, s.Name)
	}
	t := newTable(name, origin, s.Style, s.strict, opts)
	if !exists {
		s.order = append(s.order, name)
	}
	s.tables[name] = t
	return t, nil
}

// AddTableAt is AddTable with an A1-style origin label.
func (s *Sheet) AddTableAt(name, label string, opts ...TableOption) (*Table, error) {
	origin, err := ParseCellRef(label)
	if err != nil {
		return nil, fmt.Errorf("table %q origin: %w", name, err)
	}
	return s.AddTable(name, origin, opts...)
}

// Table returns the table registered under name.
func (s *Sheet) Table(name string) (*Table, bool) {
	t, ok := s.tables[name]
	return t, ok
}

// Tables returns the tables in the order their names were first added.
func (s *Sheet) Tables() []*Table {
	out := make([]*Table, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tables[name])
	}
	return out
}

// InsertCell places a free-standing cell at ref, styled as the sheet style
// with the cell options overlaid.
func (s *Sheet) InsertCell(text string, ref CellRef, opts ...CellOption) *Cell {
	cell := newCell(text, ref.Row, ref.Col, s.Style, opts)
	s.cells = append(s.cells, cell)
	return cell
}

// InsertCellAt is InsertCell with an A1-style label.
func (s *Sheet) InsertCellAt(text, label string, opts ...CellOption) (*Cell, error) {
	ref, err := ParseCellRef(label)
	if err != nil {
		return nil, err
	}
	return s.InsertCell(text, ref, opts...), nil
}

// Cells returns the free-standing cells in insertion order.
func (s *Sheet) Cells() []*Cell {
	return s.cells
}

// Merge stamps cells with their bounding rectangle.
func (s *Sheet) Merge(cells ...*Cell) (AreaRef, error) {
	return ComputeMergeRect(cells)
}

// AddImage anchors img at ref, replacing any image already there.
func (s *Sheet) AddImage(ref CellRef, img Image) {
	ref.Sheet = ""
	for i := range s.images {
		if s.images[i].Ref == ref {
			s.images[i].Image = img
			return
		}
	}
	s.images = append(s.images, ImagePlacement{Ref: ref, Image: img})
}

// AddImageAt is AddImage with an A1-style label.
func (s *Sheet) AddImageAt(label string, img Image) error {
	ref, err := ParseCellRef(label)
	if err != nil {
		return err
	}
	s.AddImage(ref, img)
	return nil
}

// Images returns the images in insertion order.
func (s *Sheet) Images() []ImagePlacement {
	return s.images
}
