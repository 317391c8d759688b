package xlgrid

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
)

// Table is a named group of columns anchored at an origin. The k-th column
// added sits at (Row, Col+k); each column then grows downward on its own.
type Table struct {
	Name   string
	Row    int
	Col    int
	Style  Format
	Filter bool // emit an autofilter over the table bounds

	columns map[string]*Column
	order   []string
	count   int
	strict  bool
}

// TableOption configures a table at creation.
type TableOption func(*tableConfig)

type tableConfig struct {
	patch  Props
	filter bool
}

// WithTableFormat overlays p onto the inherited sheet style.
func WithTableFormat(p Props) TableOption {
	return func(c *tableConfig) {
		for k, v := range p {
			c.patch[k] = v
		}
	}
}

// WithFilter enables an autofilter over the table.
func WithFilter(enabled bool) TableOption {
	return func(c *tableConfig) { c.filter = enabled }
}

func newTable(name string, origin CellRef, inherited Format, strict bool, opts []TableOption) *Table {
	cfg := &tableConfig{patch: Props{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Table{
		Name:    name,
		Row:     origin.Row,
		Col:     origin.Col,
		Style:   inherited.Overlay(cfg.patch),
		Filter:  cfg.filter,
		columns: make(map[string]*Column),
		strict:  strict,
	}
}

// AddColumn places a new column to the right of the previous one. Its style
// is the table style with overrides applied in order. Reusing a name
// replaces the registered column; with strict names it is an error instead.
func (t *Table) AddColumn(name string, width float64, overrides ...Props) (*Column, error) {
	_, exists := t.columns[name]
	if exists && t.strict {
		return nil, fmt.Errorf("%w: column %q in table %q", ErrDuplicateName, name, t.Name)
	}

	style := t.Style
	for _, p := range overrides {
		style = style.Overlay(p)
	}
	col := newColumn(name, width, t.Row, t.Col+t.count, style)

	if !exists {
		t.order = append(t.order, name)
	}
	t.columns[name] = col
	t.count++
	return col, nil
}

// Column returns the column registered under name.
func (t *Table) Column(name string) (*Column, bool) {
	c, ok := t.columns[name]
	return c, ok
}

// Columns returns the registered columns in the order their names were
// first added.
func (t *Table) Columns() []*Column {
	cols := make([]*Column, 0, len(t.order))
	for _, name := range t.order {
		cols = append(cols, t.columns[name])
	}
	return cols
}

// ColumnCount returns how many columns were added, including replaced ones.
func (t *Table) ColumnCount() int {
	return t.count
}

// ApplyDivisor draws a bottom border under the most recently appended cell
// of every column.
func (t *Table) ApplyDivisor(line Line) error {
	return t.ApplyDivisorAt(line, -1)
}

// ApplyDivisorAt draws a bottom border on the cell at offset in every column
// (negative offsets count from each column's end). Every column is checked
// before any cell is changed.
func (t *Table) ApplyDivisorAt(line Line, offset int) error {
	cols := t.Columns()
	targets := make([]*Cell, 0, len(cols))
	for _, col := range cols {
		cell, err := col.Cell(offset)
		if err != nil {
			return fmt.Errorf("table %q: %w", t.Name, err)
		}
		targets = append(targets, cell)
	}
	for _, cell := range targets {
		cell.ApplyDivisor(line)
	}
	return nil
}

// Merge stamps cells with their bounding rectangle.
func (t *Table) Merge(cells ...*Cell) (AreaRef, error) {
	return ComputeMergeRect(cells)
}

// Bounds returns the rectangle covered by the table's columns and cells.
// It reports false for a table without cells.
func (t *Table) Bounds() (AreaRef, bool) {
	cols := t.Columns()
	lastRow, lastCol := -1, -1
	for _, col := range cols {
		if col.Len() == 0 {
			continue
		}
		if r := col.LastRow(); r > lastRow {
			lastRow = r
		}
		if col.Col > lastCol {
			lastCol = col.Col
		}
	}
	if lastRow < 0 {
		return AreaRef{}, false
	}
	return NewAreaRef(At(t.Row, t.Col), At(lastRow, lastCol)), true
}

// Rows returns the cell texts row by row. Shorter columns are padded with
// empty strings.
func (t *Table) Rows() [][]string {
	cols := t.Columns()
	height := 0
	for _, col := range cols {
		if col.Len() > height {
			height = col.Len()
		}
	}
	rows := make([][]string, height)
	for i := range rows {
		rows[i] = make([]string, len(cols))
		for j, col := range cols {
			if i < col.Len() {
				rows[i][j] = col.cells[i].Text
			}
		}
	}
	return rows
}

// Show prints the table as text, headed by its name and column names.
func (t *Table) Show(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "[%s]\n", t.Name); err != nil {
		return err
	}
	cols := t.Columns()
	header := make([]any, len(cols))
	for i, col := range cols {
		header[i] = col.Name
	}

	tw := tablewriter.NewWriter(w)
	tw.Header(header...)
	for _, row := range t.Rows() {
		if err := tw.Append(row); err != nil {
			return fmt.Errorf("show table %q: %w", t.Name, err)
		}
	}
	if err := tw.Render(); err != nil {
		return fmt.Errorf("show table %q: %w", t.Name, err)
	}
	return nil
}
