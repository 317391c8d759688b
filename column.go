package xlgrid

import (
	"fmt"

	"github.com/mattn/go-runewidth"
)

// Column is a vertical run of cells sharing one column index. Cells are
// placed one per Append, growing downward from the origin without gaps.
type Column struct {
	Name  string
	Width float64
	Row   int // origin row
	Col   int // fixed column index
	Style Format

	cells []*Cell
}

func newColumn(name string, width float64, row, col int, style Format) *Column {
	return &Column{Name: name, Width: width, Row: row, Col: col, Style: style}
}

// Append adds a cell below the last one. Its style is the column style with
// the cell options overlaid.
func (c *Column) Append(text string, opts ...CellOption) *Cell {
	cell := newCell(text, c.Row+len(c.cells), c.Col, c.Style, opts)
	c.cells = append(c.cells, cell)
	return cell
}

// Appendf is Append with fmt.Sprint formatting of value.
func (c *Column) Appendf(value any, opts ...CellOption) *Cell {
	return c.Append(fmt.Sprint(value), opts...)
}

// Cells returns the cells in placement order.
func (c *Column) Cells() []*Cell {
	return c.cells
}

// Len returns the number of cells appended so far.
func (c *Column) Len() int {
	return len(c.cells)
}

// Cell returns the cell at index i. Negative indices count from the end,
// -1 being the most recently appended cell.
func (c *Column) Cell(i int) (*Cell, error) {
	idx, ok := c.resolveIndex(i)
	if !ok {
		return nil, fmt.Errorf("%w: index %d in column %q of length %d", ErrInvalidDivisorTarget, i, c.Name, len(c.cells))
	}
	return c.cells[idx], nil
}

func (c *Column) resolveIndex(i int) (int, bool) {
	if i < 0 {
		i += len(c.cells)
	}
	if i < 0 || i >= len(c.cells) {
		return 0, false
	}
	return i, true
}

// ApplyDivisor draws a bottom border on the cell at offset (see Cell).
func (c *Column) ApplyDivisor(line Line, offset int) error {
	cell, err := c.Cell(offset)
	if err != nil {
		return err
	}
	cell.ApplyDivisor(line)
	return nil
}

// LastRow returns the row of the last cell, or Row-1 when empty.
func (c *Column) LastRow() int {
	return c.Row + len(c.cells) - 1
}

// AutoFit sets Width from the widest cell text in display columns, clamped
// to [minWidth, maxWidth]. A maxWidth of zero means no upper bound.
func (c *Column) AutoFit(minWidth, maxWidth float64) float64 {
	widest := runewidth.StringWidth(c.Name)
	for _, cell := range c.cells {
		if w := runewidth.StringWidth(cell.Text); w > widest {
			widest = w
		}
	}
	width := float64(widest) + autoFitPadding
	if width < minWidth {
		width = minWidth
	}
	if maxWidth > 0 && width > maxWidth {
		width = maxWidth
	}
	c.Width = width
	return width
}

const autoFitPadding = 2
