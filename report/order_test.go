package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderBy(t *testing.T) {
	assert.Nil(t, parseOrderBy("  "))
	assert.Equal(t, []orderTerm{
		{expr: "r.name"},
		{expr: "r.score + r.bonus", desc: true},
		{expr: "r.subject"},
	}, parseOrderBy("r.name, r.score + r.bonus desc, r.subject ASC"))
}

func TestSortRecords(t *testing.T) {
	records := []map[string]any{
		{"name": "Max", "score": 70},
		{"name": "Jiyeon", "score": 80},
		{"name": "Max", "score": 95},
		{"name": "Jiyeon", "score": 90},
	}
	ctx := NewContext(nil, nil)

	got, err := sortRecords(ctx, "r.name, r.score DESC", records)
	require.NoError(t, err)
	var pairs []any
	for _, r := range got {
		pairs = append(pairs, r["name"], r["score"])
	}
	assert.Equal(t, []any{"Jiyeon", 90, "Jiyeon", 80, "Max", 95, "Max", 70}, pairs)
	assert.Equal(t, "Max", records[0]["name"], "input order is untouched")
	assert.Nil(t, ctx.GetVar("r"))

	_, err = sortRecords(ctx, "r.name +", records)
	assert.ErrorContains(t, err, "order_by")
}

func TestCompareValues(t *testing.T) {
	assert.Equal(t, 0, compareValues(nil, nil))
	assert.Equal(t, -1, compareValues(nil, 1))
	assert.Equal(t, 1, compareValues(1, nil))
	assert.Equal(t, -1, compareValues(2, 10.5), "numbers compare numerically")
	assert.Equal(t, 1, compareValues("b", "a"))
	assert.Equal(t, 0, compareValues(3, 3.0))
}

func TestBuild_OrderBy(t *testing.T) {
	def, err := ParseDefinition([]byte(`
tables:
  - order_by: r.score DESC
    columns:
      - {value: r.name}
      - {value: r.score}
`))
	require.NoError(t, err)
	_, records := loadScores(t)
	sheet, err := Build(def, records)
	require.NoError(t, err)
	tbl, _ := sheet.Table("Table1")
	assert.Equal(t, [][]string{{"Jiyeon", "90"}, {"Jiyeon", "80"}, {"Max", "70"}}, tbl.Rows())
}
