package report

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"

	"github.com/javajack/xlgrid"
)

// ErrNoColumns is returned for a table definition without columns.
var ErrNoColumns = errors.New("table has no columns")

// Builder turns a Definition into a sheet.
type Builder struct {
	def *Definition
	ev  Evaluator
}

// NewBuilder creates a Builder for def.
func NewBuilder(def *Definition) *Builder {
	return &Builder{def: def, ev: NewEvaluator()}
}

// Build lays out def over records. It is shorthand for NewBuilder(def).Build.
func Build(def *Definition, records []map[string]any) (*xlgrid.Sheet, error) {
	return NewBuilder(def).Build(records)
}

// Build creates the sheet, fills every table from records and places the
// free cells.
func (b *Builder) Build(records []map[string]any) (*xlgrid.Sheet, error) {
	cfg := b.def.Sheet
	if cfg.Name == "" {
		cfg.Name = "Sheet1"
	}
	sheet, err := cfg.NewSheet()
	if err != nil {
		return nil, err
	}
	origin, err := cfg.OriginRef()
	if err != nil {
		return nil, fmt.Errorf("sheet %q origin: %w", cfg.Name, err)
	}

	ctx := NewContext(map[string]any{"records": toAnySlice(records), "total": len(records)}, b.ev)
	for i, td := range b.def.Tables {
		if td.Name == "" {
			td.Name = fmt.Sprintf("Table%d", i+1)
		}
		if err := b.buildTable(sheet, origin, td, records, ctx); err != nil {
			return nil, fmt.Errorf("table %q: %w", td.Name, err)
		}
	}

	for _, cd := range b.def.Cells {
		if err := b.buildCell(sheet, cd, ctx); err != nil {
			return nil, fmt.Errorf("cell %s: %w", cd.At, err)
		}
	}
	return sheet, nil
}

// columnState tracks one column while a table is filled.
type columnState struct {
	def       ColumnDef
	col       *xlgrid.Column
	highlight *regexp.Regexp
	group     []*xlgrid.Cell
}

func (b *Builder) buildTable(sheet *xlgrid.Sheet, origin xlgrid.CellRef, td TableDef, records []map[string]any, ctx *Context) error {
	if len(td.Columns) == 0 {
		return ErrNoColumns
	}
	if td.Origin != "" {
		ref, err := xlgrid.ParseCellRef(td.Origin)
		if err != nil {
			return fmt.Errorf("origin: %w", err)
		}
		origin = ref
	}
	var divisor, final xlgrid.Line
	var err error
	if td.Divisor != "" {
		if divisor, err = xlgrid.ParseLine(td.Divisor); err != nil {
			return err
		}
	}
	if td.FinalDivisor != "" {
		if final, err = xlgrid.ParseLine(td.FinalDivisor); err != nil {
			return err
		}
	}

	t, err := sheet.AddTable(td.Name, origin, xlgrid.WithTableFormat(td.Format), xlgrid.WithFilter(td.Filter))
	if err != nil {
		return err
	}

	hasHeader := false
	states := make([]*columnState, len(td.Columns))
	for i, cd := range td.Columns {
		name := cd.Header
		if name == "" {
			name = fmt.Sprintf("Column%d", i+1)
		}
		col, err := t.AddColumn(name, cd.Width, cd.Format)
		if err != nil {
			return err
		}
		st := &columnState{def: cd, col: col}
		if cd.Highlight != "" {
			if st.highlight, err = regexp.Compile(cd.Highlight); err != nil {
				return fmt.Errorf("column %q highlight: %w", name, err)
			}
		}
		states[i] = st
		hasHeader = hasHeader || cd.Header != ""
	}
	if hasHeader {
		for _, st := range states {
			st.col.Append(st.def.Header, xlgrid.WithProps(td.HeaderFormat), xlgrid.WithProps(st.def.HeaderFormat))
		}
	}

	rows, err := filter(ctx, td.Where, records)
	if err != nil {
		return err
	}
	if rows, err = sortRecords(ctx, td.OrderBy, rows); err != nil {
		return err
	}
	groups, err := groupRecords(ctx, td.GroupBy, rows)
	if err != nil {
		return err
	}

	rv := ctx.Scope("r", "index", "row", "group", "key", "total")
	defer rv.Close()
	rv.Set("total", len(rows))

	n := 0
	for _, g := range groups {
		for _, st := range states {
			st.group = st.group[:0]
		}
		rv.Set("group", toAnySlice(g.records))
		rv.Set("key", g.key)
		for idx, rec := range g.records {
			rv.Set("r", rec)
			rv.Set("index", idx)
			rv.Set("row", n)
			for _, st := range states {
				cell, err := fillCell(ctx, st)
				if err != nil {
					return fmt.Errorf("record %d column %q: %w", n, st.col.Name, err)
				}
				st.group = append(st.group, cell)
			}
			n++
		}
		for _, st := range states {
			if st.def.Merge && len(st.group) > 1 {
				if _, err := t.Merge(st.group...); err != nil {
					return err
				}
			}
		}
		if divisor != xlgrid.LineNone {
			if err := t.ApplyDivisor(divisor); err != nil {
				return err
			}
		}
	}
	if final != xlgrid.LineNone && len(groups) > 0 {
		if err := t.ApplyDivisor(final); err != nil {
			return err
		}
	}

	for _, st := range states {
		if st.def.AutoFit {
			st.col.AutoFit(st.def.Width, 0)
		}
	}
	return nil
}

// fillCell appends the current record's cell to st's column. A value of
// hyperlink(url, display) becomes a link cell.
func fillCell(ctx *Context, st *columnState) (*xlgrid.Cell, error) {
	v, err := ctx.Evaluate(st.def.Value)
	if err != nil {
		return nil, err
	}
	var opts []xlgrid.CellOption
	if link, ok := v.(xlgrid.HyperlinkValue); ok {
		v = link.String()
		opts = append(opts, xlgrid.WithURL(link.URL))
	}
	text := formatValue(v)

	if st.def.Link != "" {
		url, err := ctx.Evaluate(st.def.Link)
		if err != nil {
			return nil, err
		}
		if s := formatValue(url); s != "" {
			opts = append(opts, xlgrid.WithURL(s))
		}
	}
	if st.def.Comment != "" {
		note, err := ctx.Evaluate(st.def.Comment)
		if err != nil {
			return nil, err
		}
		if s := formatValue(note); s != "" {
			opts = append(opts, xlgrid.WithComment(s))
		}
	}
	if st.highlight != nil {
		props := st.def.HighlightFormat
		if props == nil {
			props = xlgrid.DefaultHighlight()
		}
		if spans := xlgrid.FindSpans(text, st.highlight, props); len(spans) > 0 {
			opts = append(opts, xlgrid.WithSpans(spans))
		}
	}
	return st.col.Append(text, opts...), nil
}

func filter(ctx *Context, where string, records []map[string]any) ([]map[string]any, error) {
	if where == "" {
		return records, nil
	}
	rv := ctx.Scope("r", "row")
	defer rv.Close()

	var out []map[string]any
	for i, rec := range records {
		rv.Set("r", rec)
		rv.Set("row", i)
		ok, err := ctx.IsConditionTrue(where)
		if err != nil {
			return nil, fmt.Errorf("where: %w", err)
		}
		if ok {
			out = append(out, rec)
		}
	}
	return out, nil
}

type group struct {
	key     any
	records []map[string]any
}

// groupRecords splits records into runs of consecutive records sharing a
// key. Without a key expression every record is its own group.
func groupRecords(ctx *Context, by string, records []map[string]any) ([]group, error) {
	rv := ctx.Scope("r", "row")
	defer rv.Close()

	var groups []group
	for i, rec := range records {
		if by == "" {
			groups = append(groups, group{key: i, records: []map[string]any{rec}})
			continue
		}
		rv.Set("r", rec)
		rv.Set("row", i)
		key, err := ctx.Evaluate(by)
		if err != nil {
			return nil, fmt.Errorf("group_by: %w", err)
		}
		if n := len(groups); n > 0 && reflect.DeepEqual(groups[n-1].key, key) {
			groups[n-1].records = append(groups[n-1].records, rec)
			continue
		}
		groups = append(groups, group{key: key, records: []map[string]any{rec}})
	}
	return groups, nil
}

func (b *Builder) buildCell(sheet *xlgrid.Sheet, cd CellDef, ctx *Context) error {
	ref, err := xlgrid.ParseCellRef(cd.At)
	if err != nil {
		return err
	}
	text, err := ctx.Text(cd.Text)
	if err != nil {
		return err
	}
	opts := []xlgrid.CellOption{xlgrid.WithProps(cd.Format)}
	if cd.Comment != "" {
		opts = append(opts, xlgrid.WithComment(cd.Comment))
	}
	if cd.URL != "" {
		opts = append(opts, xlgrid.WithURL(cd.URL))
	}
	cell := sheet.InsertCell(text, ref, opts...)

	if cd.MergeTo != "" {
		to, err := xlgrid.ParseCellRef(cd.MergeTo)
		if err != nil {
			return fmt.Errorf("merge_to: %w", err)
		}
		corner := sheet.InsertCell("", to, xlgrid.WithProps(cd.Format))
		if _, err := sheet.Merge(cell, corner); err != nil {
			return err
		}
	}
	return nil
}

func toAnySlice(records []map[string]any) []any {
	out := make([]any, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
