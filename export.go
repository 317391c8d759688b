package xlgrid

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/olekukonko/ll"
)

// WriteFile exports sheets into a new xlsx file at path.
func WriteFile(path string, sheets []*Sheet, opts ...Option) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file %q: %w", path, err)
	}

	if err := WriteTo(out, sheets, opts...); err != nil {
		out.Close()
		os.Remove(path)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(path)
		return writeErr("close", "", path, err)
	}
	return nil
}

// WriteBytes exports sheets and returns the xlsx content.
func WriteBytes(sheets []*Sheet, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTo(&buf, sheets, opts...); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo exports sheets as xlsx to out.
func WriteTo(out io.Writer, sheets []*Sheet, opts ...Option) error {
	gw := NewExcelizeWriter(opts...)
	defer gw.Close()

	if err := NewExporter(gw, opts...).WriteSheets(sheets...); err != nil {
		return err
	}
	return gw.Write(out)
}

// Exporter walks finished sheets and replays them onto a GridWriter.
type Exporter struct {
	w    GridWriter
	opts *Options
	log  *ll.Logger
}

// NewExporter creates an exporter writing to w.
func NewExporter(w GridWriter, opts ...Option) *Exporter {
	o := buildOptions(opts)
	return &Exporter{w: w, opts: o, log: o.logger.Namespace("export")}
}

// WriteSheets exports every sheet in order, then runs the pre-write
// callback. It does not call Write or Close on the writer.
func (e *Exporter) WriteSheets(sheets ...*Sheet) error {
	for _, s := range sheets {
		if err := e.writeSheet(s); err != nil {
			return err
		}
	}
	if e.opts.preWrite != nil {
		if err := e.opts.preWrite(e.w); err != nil {
			return fmt.Errorf("pre-write callback: %w", err)
		}
	}
	return nil
}

// mergeGroup collects the cells stamped with one rectangle.
type mergeGroup struct {
	rect  AreaRef
	cells []*Cell
}

func (e *Exporter) writeSheet(s *Sheet) error {
	name := SafeSheetName(s.Name)
	if name != s.Name {
		e.log.Warnf("sheet name %q written as %q", s.Name, name)
	}
	if err := e.w.AddSheet(name); err != nil {
		return err
	}
	if err := e.writeDirectives(s, name); err != nil {
		return err
	}

	// Cells in traversal order: tables as added, columns left to right,
	// then free-standing cells.
	var cells []*Cell
	for _, t := range s.Tables() {
		for _, col := range t.Columns() {
			if col.Width > 0 {
				if err := e.w.SetColumnWidth(name, col.Col, col.Col, col.Width); err != nil {
					return err
				}
			}
			cells = append(cells, col.Cells()...)
		}
	}
	cells = append(cells, s.Cells()...)

	var groups []*mergeGroup
	byRect := make(map[AreaRef]*mergeGroup)
	for _, c := range cells {
		if c.IsMerged() {
			g, ok := byRect[*c.MergeRect]
			if !ok {
				g = &mergeGroup{rect: *c.MergeRect}
				byRect[g.rect] = g
				groups = append(groups, g)
			}
			g.cells = append(g.cells, c)
			continue
		}
		if err := e.writeCell(s, name, c); err != nil {
			return err
		}
	}

	for _, g := range groups {
		if err := e.writeMerge(s, name, g); err != nil {
			return err
		}
	}

	for _, t := range s.Tables() {
		if !t.Filter {
			continue
		}
		rect, ok := t.Bounds()
		if !ok {
			e.log.Debugf("table %q has no cells, no autofilter", t.Name)
			continue
		}
		if err := e.w.SetAutoFilter(name, rect); err != nil {
			return err
		}
	}

	for _, img := range s.Images() {
		if err := e.w.InsertImage(name, img.Ref, img.Image); err != nil {
			return err
		}
	}

	e.log.Infof("sheet %q exported: %d tables, %d cells, %d merges", name, len(s.Tables()), len(cells), len(groups))
	return nil
}

func (e *Exporter) writeDirectives(s *Sheet, name string) error {
	for _, ref := range s.FreezePanes {
		if err := e.w.FreezePanes(name, ref); err != nil {
			return err
		}
	}
	if s.Zoom > 0 {
		if err := e.w.SetZoom(name, s.Zoom); err != nil {
			return err
		}
	}
	for _, rh := range s.RowHeights {
		if err := e.w.SetRowHeight(name, rh.Row, rh.Height); err != nil {
			return err
		}
	}
	for _, cr := range s.ColumnWidths {
		if err := e.w.SetColumnWidth(name, cr.First, cr.Last, cr.Width); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) before(s *Sheet, c *Cell) bool {
	for _, l := range e.opts.cellListeners {
		if !l.BeforeWriteCell(s, c, e.w) {
			return false
		}
	}
	return true
}

func (e *Exporter) after(s *Sheet, c *Cell) {
	for _, l := range e.opts.cellListeners {
		l.AfterWriteCell(s, c, e.w)
	}
}

func (e *Exporter) writeCell(s *Sheet, name string, c *Cell) error {
	if !e.before(s, c) {
		return nil
	}
	ref := c.Ref()
	var err error
	switch {
	case c.URL != "":
		err = e.w.WriteURL(name, ref, c.Text, c.URL, c.Style)
	case c.IsRich():
		err = e.w.WriteRich(name, ref, c.Segments(), c.Style)
	default:
		err = e.w.WriteCell(name, ref, c.Text, c.Style)
	}
	if err != nil {
		return err
	}
	if c.Comment != "" {
		if err := e.w.InsertComment(name, ref, c.Comment); err != nil {
			return err
		}
	}
	e.after(s, c)
	return nil
}

// writeMerge emits one merged block carrying the first cell's text. Rich
// text of the first cell is replayed into the block's top-left cell.
func (e *Exporter) writeMerge(s *Sheet, name string, g *mergeGroup) error {
	lead := g.cells[0]
	if !e.before(s, lead) {
		return nil
	}
	style := MergeStyle(g.cells, g.rect, e.opts.mergePolicy)
	if err := e.w.Merge(name, g.rect, lead.Text, style); err != nil {
		return err
	}
	if lead.IsRich() {
		if err := e.w.WriteRich(name, g.rect.First, lead.Segments(), style); err != nil {
			return err
		}
	}
	for _, c := range g.cells {
		if c.Comment == "" {
			continue
		}
		if err := e.w.InsertComment(name, c.Ref(), c.Comment); err != nil {
			return err
		}
	}
	e.after(s, lead)
	return nil
}
