package xlgrid

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- CellRef Tests ---

func TestParseCellRef_SimpleCell(t *testing.T) {
	ref, err := ParseCellRef("A1")
	require.NoError(t, err)
	assert.Equal(t, "", ref.Sheet)
	assert.Equal(t, 0, ref.Row)
	assert.Equal(t, 0, ref.Col)
}

func TestParseCellRef_WithSheet(t *testing.T) {
	ref, err := ParseCellRef("Sheet1!B5")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", ref.Sheet)
	assert.Equal(t, 4, ref.Row) // 0-based
	assert.Equal(t, 1, ref.Col)
}

func TestParseCellRef_AbsoluteRef(t *testing.T) {
	ref, err := ParseCellRef("$A$1")
	require.NoError(t, err)
	assert.Equal(t, 0, ref.Row)
	assert.Equal(t, 0, ref.Col)
}

func TestParseCellRef_LowerCase(t *testing.T) {
	ref, err := ParseCellRef("h5")
	require.NoError(t, err)
	assert.Equal(t, 4, ref.Row)
	assert.Equal(t, 7, ref.Col)
}

func TestParseCellRef_QuotedSheet(t *testing.T) {
	ref, err := ParseCellRef("'My Sheet'!A1")
	require.NoError(t, err)
	assert.Equal(t, "My Sheet", ref.Sheet)
}

func TestParseCellRef_Malformed(t *testing.T) {
	for _, label := range []string{"", "A", "123", "A0", "A-1", "1A", "ABCD1", "A1B", "A1048577"} {
		_, err := ParseCellRef(label)
		assert.Error(t, err, label)
		assert.True(t, errors.Is(err, ErrMalformedReference), label)
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		label    string
		row, col int
	}{
		{"A1", 0, 0},
		{"AA1", 0, 26},
		{"H5", 4, 7},
		{"Z10", 9, 25},
		{"AZ10", 9, 51},
		{"XFD1048576", MaxRows - 1, MaxColumns - 1},
	}
	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			row, col, err := Decode(tt.label)
			require.NoError(t, err)
			assert.Equal(t, tt.row, row)
			assert.Equal(t, tt.col, col)
		})
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for row := 0; row < 100; row++ {
		for col := 0; col < 700; col++ {
			r, c, err := Decode(Encode(row, col))
			require.NoError(t, err)
			if r != row || c != col {
				t.Fatalf("round trip (%d, %d) → %q → (%d, %d)", row, col, Encode(row, col), r, c)
			}
		}
	}
}

func TestCellRef_String(t *testing.T) {
	assert.Equal(t, "Sheet1!B5", NewCellRef("Sheet1", 4, 1).String())
	assert.Equal(t, "A1", At(0, 0).String())
}

// --- Column name tests ---

func TestColToName(t *testing.T) {
	assert.Equal(t, "A", ColToName(0))
	assert.Equal(t, "Z", ColToName(25))
	assert.Equal(t, "AA", ColToName(26))
	assert.Equal(t, "AZ", ColToName(51))
	assert.Equal(t, "ZZ", ColToName(701))
	assert.Equal(t, "AAA", ColToName(702))
}

func TestNameToCol(t *testing.T) {
	col, err := NameToCol("aa")
	require.NoError(t, err)
	assert.Equal(t, 26, col)

	_, err = NameToCol("")
	assert.Error(t, err)
	_, err = NameToCol("A1")
	assert.Error(t, err)

	col, err = NameToCol("XFD")
	require.NoError(t, err)
	assert.Equal(t, MaxColumns-1, col)
	_, err = NameToCol("XFE")
	assert.ErrorIs(t, err, ErrMalformedReference)
}

func TestDecode_ColumnBeyondGrid(t *testing.T) {
	for _, label := range []string{"XFE1", "ZZZ1"} {
		_, _, err := Decode(label)
		assert.ErrorIs(t, err, ErrMalformedReference, label)
	}
}

// --- AreaRef tests ---

func TestParseAreaRef(t *testing.T) {
	area, err := ParseAreaRef("Sheet1!B2:D5")
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", area.Last.Sheet)
	assert.Equal(t, Size{Width: 3, Height: 4}, area.Size())
	assert.Equal(t, "Sheet1!B2:D5", area.String())

	_, err = ParseAreaRef("B2")
	assert.True(t, errors.Is(err, ErrMalformedReference))
}

func TestAreaRef_ContainsOverlaps(t *testing.T) {
	a := NewAreaRef(At(1, 1), At(3, 3))
	assert.True(t, a.Contains(At(2, 2)))
	assert.False(t, a.Contains(At(4, 1)))

	assert.True(t, a.Overlaps(NewAreaRef(At(3, 3), At(5, 5))))
	assert.False(t, a.Overlaps(NewAreaRef(At(4, 1), At(5, 5))))
	assert.True(t, NewAreaRef(At(2, 2), At(2, 2)).IsSingle())
	assert.False(t, a.IsSingle())
}

func TestSafeSheetName(t *testing.T) {
	assert.Equal(t, "Q1_Q2 _draft_", SafeSheetName("Q1/Q2 [draft]"))
	assert.Len(t, []rune(SafeSheetName("a very long sheet name that keeps going on")), 31)
	assert.Equal(t, "Students", SafeSheetName("Students"))
}
