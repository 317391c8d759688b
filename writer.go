package xlgrid

import "io"

// GridWriter is the serialization backend a finished Sheet tree is handed
// to. Rows and columns are 0-based; styles arrive fully resolved.
type GridWriter interface {
	// Sheets
	AddSheet(name string) error

	// Cells
	WriteCell(sheet string, ref CellRef, text string, style Format) error
	WriteRich(sheet string, ref CellRef, runs []Run, style Format) error
	WriteURL(sheet string, ref CellRef, text, url string, style Format) error
	Merge(sheet string, rect AreaRef, text string, style Format) error
	InsertComment(sheet string, ref CellRef, text string) error
	InsertImage(sheet string, ref CellRef, img Image) error

	// Sheet directives
	SetZoom(sheet string, percent int) error
	FreezePanes(sheet string, ref CellRef) error
	SetRowHeight(sheet string, row int, height float64) error
	SetColumnWidth(sheet string, first, last int, width float64) error
	SetAutoFilter(sheet string, rect AreaRef) error

	// I/O
	Write(w io.Writer) error
	Close() error
}

// CellListener is notified around every cell the exporter writes.
type CellListener interface {
	// BeforeWriteCell is called before a cell is written.
	// Return false to skip writing this cell.
	BeforeWriteCell(sheet *Sheet, cell *Cell, w GridWriter) bool

	// AfterWriteCell is called after a cell has been written.
	AfterWriteCell(sheet *Sheet, cell *Cell, w GridWriter)
}
