package xlgrid

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable tree of sheets, tables, columns, merges
// and free cells. Useful for debugging a layout before writing it.
func Describe(sheets ...*Sheet) string {
	var b strings.Builder
	for _, s := range sheets {
		describeSheet(&b, s)
	}
	return b.String()
}

func describeSheet(b *strings.Builder, s *Sheet) {
	fmt.Fprintf(b, "Sheet %q zoom=%d", s.Name, s.Zoom)
	if len(s.FreezePanes) > 0 {
		refs := make([]string, len(s.FreezePanes))
		for i, r := range s.FreezePanes {
			refs[i] = r.CellName()
		}
		fmt.Fprintf(b, " freeze=%s", strings.Join(refs, ","))
	}
	b.WriteByte('\n')

	seen := make(map[AreaRef]bool)
	for _, t := range s.Tables() {
		fmt.Fprintf(b, "  Table %q at %s", t.Name, At(t.Row, t.Col).CellName())
		if rect, ok := t.Bounds(); ok {
			fmt.Fprintf(b, " %s %s", rect, rect.Size())
		}
		if t.Filter {
			b.WriteString(" filter")
		}
		b.WriteByte('\n')
		for _, col := range t.Columns() {
			fmt.Fprintf(b, "    %s %q width=%g cells=%d\n", At(col.Row, col.Col).CellName(), col.Name, col.Width, col.Len())
			describeCells(b, col.Cells(), seen, "      ")
		}
	}

	if cells := s.Cells(); len(cells) > 0 {
		b.WriteString("  Cells:\n")
		for _, c := range cells {
			fmt.Fprintf(b, "    %s %q\n", c.Ref().CellName(), c.Text)
		}
		describeCells(b, cells, seen, "    ")
	}

	for _, img := range s.Images() {
		typ := img.Image.Type
		if typ == "" {
			typ = "PNG"
		}
		fmt.Fprintf(b, "  Image %s %s (%d bytes)\n", img.Ref.CellName(), typ, len(img.Image.Data))
	}
}

// describeCells lists the merges and rich cells among cells, each merge once.
func describeCells(b *strings.Builder, cells []*Cell, seen map[AreaRef]bool, prefix string) {
	for _, c := range cells {
		if c.IsMerged() && !seen[*c.MergeRect] {
			seen[*c.MergeRect] = true
			fmt.Fprintf(b, "%sMerge %s %s %q\n", prefix, c.MergeRect, c.MergeRect.Size(), c.Text)
		}
		if c.IsRich() {
			fmt.Fprintf(b, "%sRich %s %d spans\n", prefix, c.Ref().CellName(), len(c.Spans))
		}
	}
}
