package xlgrid

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a GridWriter that logs every call.
type recorder struct {
	calls  []string
	styles map[string]Format // "merge F7:F9" / "cell A1" → style
	failOn string            // call prefix that returns an error
}

func newRecorder() *recorder {
	return &recorder{styles: make(map[string]Format)}
}

func (r *recorder) record(call string) error {
	r.calls = append(r.calls, call)
	if r.failOn != "" && strings.HasPrefix(call, r.failOn) {
		return writeErr("fake", "", "", errors.New("boom"))
	}
	return nil
}

func (r *recorder) AddSheet(name string) error { return r.record("sheet " + name) }
func (r *recorder) WriteCell(sheet string, ref CellRef, text string, style Format) error {
	r.styles["cell "+ref.CellName()] = style
	return r.record(fmt.Sprintf("cell %s %s", ref.CellName(), text))
}
func (r *recorder) WriteRich(sheet string, ref CellRef, runs []Run, style Format) error {
	return r.record(fmt.Sprintf("rich %s %d", ref.CellName(), len(Coalesce(runs))))
}
func (r *recorder) WriteURL(sheet string, ref CellRef, text, url string, style Format) error {
	return r.record(fmt.Sprintf("url %s %s %s", ref.CellName(), text, url))
}
func (r *recorder) Merge(sheet string, rect AreaRef, text string, style Format) error {
	r.styles["merge "+rect.String()] = style
	return r.record(fmt.Sprintf("merge %s %s", rect, text))
}
func (r *recorder) InsertComment(sheet string, ref CellRef, text string) error {
	return r.record(fmt.Sprintf("comment %s %s", ref.CellName(), text))
}
func (r *recorder) InsertImage(sheet string, ref CellRef, img Image) error {
	return r.record(fmt.Sprintf("image %s %d", ref.CellName(), len(img.Data)))
}
func (r *recorder) SetZoom(sheet string, percent int) error {
	return r.record(fmt.Sprintf("zoom %d", percent))
}
func (r *recorder) FreezePanes(sheet string, ref CellRef) error {
	return r.record("freeze " + ref.CellName())
}
func (r *recorder) SetRowHeight(sheet string, row int, height float64) error {
	return r.record(fmt.Sprintf("row %d %g", row, height))
}
func (r *recorder) SetColumnWidth(sheet string, first, last int, width float64) error {
	return r.record(fmt.Sprintf("width %d-%d %g", first, last, width))
}
func (r *recorder) SetAutoFilter(sheet string, rect AreaRef) error {
	return r.record("filter " + rect.String())
}
func (r *recorder) Write(w io.Writer) error { return r.record("write") }
func (r *recorder) Close() error            { return r.record("close") }

func TestExporter_Protocol(t *testing.T) {
	s := NewSheet("People", WithZoom(85), WithFreezePanes(At(1, 0)), WithRowHeight(0, 20), WithColumnWidth(0, 0, 1))
	tbl, err := s.AddTable("T", At(0, 1), WithFilter(true))
	require.NoError(t, err)
	name, _ := tbl.AddColumn("Name", 12)
	score, _ := tbl.AddColumn("Score", 0)
	name.Append("Name")
	name.Append("Alice", WithComment("top"))
	score.Append("Score")
	score.Append("90")
	s.InsertCell("Total", At(5, 1))
	s.AddImage(At(7, 1), Image{Data: []byte{1, 2, 3}})

	rec := newRecorder()
	require.NoError(t, NewExporter(rec).WriteSheets(s))

	assert.Equal(t, []string{
		"sheet People",
		"freeze A2",
		"zoom 85",
		"row 0 20",
		"width 0-0 1",
		"width 1-1 12",
		"cell B1 Name",
		"cell B2 Alice",
		"comment B2 top",
		"cell C1 Score",
		"cell C2 90",
		"cell B6 Total",
		"filter B1:C2",
		"image B8 3",
	}, rec.calls)
}

func TestExporter_SingleCellMergeIsSkipped(t *testing.T) {
	s := NewSheet("S")
	tbl, _ := s.AddTable("T", At(0, 0))
	col, _ := tbl.AddColumn("A", 0)
	c := col.Append("alone")
	_, err := s.Merge(c)
	require.NoError(t, err)

	rec := newRecorder()
	require.NoError(t, NewExporter(rec).WriteSheets(s))
	assert.Contains(t, rec.calls, "cell A1 alone")
	for _, call := range rec.calls {
		assert.False(t, strings.HasPrefix(call, "merge"), call)
	}
}

func TestExporter_MergeUsesFirstTextAndTrailingBorders(t *testing.T) {
	s := NewSheet("S")
	tbl, _ := s.AddTable("T", At(0, 0))
	col, _ := tbl.AddColumn("Avg", 0, Props{KeyRight: 2})
	col.Append("Average")
	a := col.Append("92.5", WithProps(Props{KeyLeft: 1}))
	b := col.Append("92.5")
	b.ApplyDivisor(LineThick)
	_, err := tbl.Merge(a, b)
	require.NoError(t, err)

	rec := newRecorder()
	require.NoError(t, NewExporter(rec).WriteSheets(s))

	assert.Equal(t, []string{"sheet S", "zoom 100", "cell A1 Average", "merge A2:A3 92.5"}, rec.calls)
	style := rec.styles["merge A2:A3"]
	assert.Equal(t, 2, style.Int(KeyBottom), "bottom from the last cell")
	assert.Equal(t, 2, style.Int(KeyRight))
	assert.Equal(t, 1, style.Int(KeyLeft), "rest from the first cell")
}

func TestExporter_MergeGroupsAcrossTablesAndFreeCells(t *testing.T) {
	s := NewSheet("S")
	title := s.InsertCell("Title", At(0, 0))
	corner := s.InsertCell("", At(0, 3))
	_, err := s.Merge(title, corner)
	require.NoError(t, err)

	tbl, _ := s.AddTable("T", At(2, 0))
	col, _ := tbl.AddColumn("A", 0)
	x := col.Append("x")
	y := col.Append("y")
	tbl.Merge(x, y)

	rec := newRecorder()
	require.NoError(t, NewExporter(rec).WriteSheets(s))

	var merges []string
	for _, call := range rec.calls {
		if strings.HasPrefix(call, "merge") {
			merges = append(merges, call)
		}
	}
	assert.Equal(t, []string{"merge A3:A4 x", "merge A1:D1 Title"}, merges)
}

func TestExporter_OrientedPolicy(t *testing.T) {
	s := NewSheet("S")
	a := s.InsertCell("a", At(0, 0), WithProps(Props{KeyRight: 1}))
	b := s.InsertCell("b", At(1, 0), WithProps(Props{KeyRight: 2, KeyBottom: 2}))
	s.Merge(a, b)

	rec := newRecorder()
	require.NoError(t, NewExporter(rec, WithMergePolicy(OrientedBorders)).WriteSheets(s))
	style := rec.styles["merge A1:A2"]
	assert.Equal(t, 1, style.Int(KeyRight))
	assert.Equal(t, 2, style.Int(KeyBottom))
}

func TestExporter_RichAndURLCells(t *testing.T) {
	s := NewSheet("S")
	spans, err := Highlight("ATXGC", NonNucleotidePattern, nil)
	require.NoError(t, err)
	s.InsertCell("ATXGC", At(0, 0), WithSpans(spans))
	s.InsertCell("site", At(1, 0), WithURL("https://example.com"))

	rec := newRecorder()
	require.NoError(t, NewExporter(rec).WriteSheets(s))
	assert.Contains(t, rec.calls, "rich A1 3")
	assert.Contains(t, rec.calls, "url A2 site https://example.com")
}

func TestExporter_RichMergeLead(t *testing.T) {
	s := NewSheet("S")
	spans := SpanStyles{}.Set(Span{0, 1}, DefaultHighlight())
	a := s.InsertCell("AB", At(0, 0), WithSpans(spans))
	b := s.InsertCell("", At(0, 1))
	s.Merge(a, b)

	rec := newRecorder()
	require.NoError(t, NewExporter(rec).WriteSheets(s))
	assert.Equal(t, []string{"sheet S", "zoom 100", "merge A1:B1 AB", "rich A1 2"}, rec.calls)
}

func TestExporter_NoFilterOnEmptyTable(t *testing.T) {
	s := NewSheet("S")
	tbl, _ := s.AddTable("T", At(0, 0), WithFilter(true))
	tbl.AddColumn("A", 0)

	rec := newRecorder()
	require.NoError(t, NewExporter(rec).WriteSheets(s))
	for _, call := range rec.calls {
		assert.False(t, strings.HasPrefix(call, "filter"), call)
	}
}

func TestExporter_SanitizesSheetName(t *testing.T) {
	rec := newRecorder()
	require.NoError(t, NewExporter(rec).WriteSheets(NewSheet("Q1/Q2")))
	assert.Equal(t, "sheet Q1_Q2", rec.calls[0])
}

type skipListener struct {
	skip  string
	after []string
}

func (l *skipListener) BeforeWriteCell(_ *Sheet, c *Cell, _ GridWriter) bool {
	return c.Text != l.skip
}

func (l *skipListener) AfterWriteCell(_ *Sheet, c *Cell, _ GridWriter) {
	l.after = append(l.after, c.Text)
}

func TestExporter_CellListener(t *testing.T) {
	s := NewSheet("S")
	s.InsertCell("keep", At(0, 0))
	s.InsertCell("drop", At(1, 0))

	l := &skipListener{skip: "drop"}
	rec := newRecorder()
	require.NoError(t, NewExporter(rec, WithCellListener(l)).WriteSheets(s))
	assert.Contains(t, rec.calls, "cell A1 keep")
	assert.NotContains(t, rec.calls, "cell A2 drop")
	assert.Equal(t, []string{"keep"}, l.after)
}

func TestExporter_PreWrite(t *testing.T) {
	called := false
	rec := newRecorder()
	err := NewExporter(rec, WithPreWrite(func(w GridWriter) error {
		called = true
		return w.InsertComment("S", At(0, 0), "stamped")
	})).WriteSheets(NewSheet("S"))
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "comment A1 stamped", rec.calls[len(rec.calls)-1])

	err = NewExporter(newRecorder(), WithPreWrite(func(GridWriter) error {
		return errors.New("nope")
	})).WriteSheets(NewSheet("S"))
	assert.ErrorContains(t, err, "pre-write callback")
}

func TestExporter_WriterErrorPropagates(t *testing.T) {
	s := NewSheet("S")
	s.InsertCell("x", At(0, 0))

	rec := newRecorder()
	rec.failOn = "cell"
	err := NewExporter(rec).WriteSheets(s)
	require.Error(t, err)
	assert.True(t, IsWriteError(err))
}
