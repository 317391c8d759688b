package xlgrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe_Students(t *testing.T) {
	out := Describe(buildStudents(t))

	assert.Contains(t, out, `Sheet "Students" zoom=85 freeze=A7`)
	assert.Contains(t, out, `Table "Records" at F6 F6:G8 (2x3) filter`)
	assert.Contains(t, out, `F6 "Name" width=13.5 cells=3`)
	assert.Contains(t, out, `G6 "Average" width=8 cells=3`)
	assert.Contains(t, out, `Merge G7:G8 (1x2) "80.00"`)
}

func TestDescribe_FreeCellsAndImages(t *testing.T) {
	s := NewSheet("Free")
	spans, _ := Highlight("ATXGC", NonNucleotidePattern, nil)
	s.InsertCell("ATXGC", At(0, 0), WithSpans(spans))
	a := s.InsertCell("Title", At(2, 0))
	b := s.InsertCell("", At(2, 2))
	s.Merge(a, b)
	s.AddImage(At(4, 0), Image{Data: []byte{1, 2}, Type: "JPEG"})

	out := Describe(s)
	assert.Contains(t, out, `Sheet "Free" zoom=100`)
	assert.NotContains(t, out, "freeze=")
	assert.Contains(t, out, "Cells:")
	assert.Contains(t, out, `A1 "ATXGC"`)
	assert.Contains(t, out, "Rich A1 1 spans")
	assert.Contains(t, out, `Merge A3:C3 (3x1) "Title"`)
	assert.Contains(t, out, "Image A5 JPEG (2 bytes)")
}

func TestDescribe_MultipleSheets(t *testing.T) {
	out := Describe(NewSheet("One"), NewSheet("Two"))
	assert.Contains(t, out, `Sheet "One"`)
	assert.Contains(t, out, `Sheet "Two"`)
	assert.Equal(t, "", Describe())
}
