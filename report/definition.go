// Package report builds xlgrid sheets from a YAML report definition and a
// list of records. Cell values are expr-lang expressions evaluated per
// record.
package report

import (
	"fmt"
	"os"

	"github.com/javajack/xlgrid"
	"gopkg.in/yaml.v3"
)

// Definition describes one report sheet.
//
//	sheet: {name: Students, zoom: 85, freeze_panes: [A3]}
//	tables:
//	  - name: Records
//	    origin: F6
//	    filter: true
//	    format: {align: center, valign: vcenter, left: 7, right: 7}
//	    group_by: r.name
//	    divisor: thick
//	    columns:
//	      - header: Name
//	        value: r.name
//	        merge: true
//	      - header: Average
//	        value: round(mean(map(group, .score)) * 100) / 100
//	        merge: true
//	cells:
//	  - at: B2
//	    text: "${total} records"
type Definition struct {
	Sheet  xlgrid.SheetConfig `yaml:"sheet"`
	Tables []TableDef         `yaml:"tables"`
	Cells  []CellDef          `yaml:"cells"`
}

// TableDef is one table of the report.
type TableDef struct {
	Name         string       `yaml:"name"`
	Origin       string       `yaml:"origin"` // defaults to the sheet origin
	Format       xlgrid.Props `yaml:"format"`
	HeaderFormat xlgrid.Props `yaml:"header_format"` // applied to every header cell
	Filter       bool         `yaml:"filter"`
	Where        string       `yaml:"where"`    // records failing this condition are skipped
	OrderBy      string       `yaml:"order_by"` // "r.name, r.score DESC"; applied before grouping
	GroupBy      string       `yaml:"group_by"` // consecutive records with equal keys form a group
	Divisor      string       `yaml:"divisor"`  // line drawn under every group
	FinalDivisor string       `yaml:"final_divisor"`
	Columns      []ColumnDef  `yaml:"columns"`
}

// ColumnDef is one column of a table.
type ColumnDef struct {
	Header          string       `yaml:"header"`
	HeaderFormat    xlgrid.Props `yaml:"header_format"`
	Width           float64      `yaml:"width"`
	AutoFit         bool         `yaml:"auto_fit"`
	Format          xlgrid.Props `yaml:"format"`
	Value           string       `yaml:"value"`
	Link            string       `yaml:"link"`    // expression producing a URL
	Comment         string       `yaml:"comment"` // expression producing a note
	Merge           bool         `yaml:"merge"`   // merge the column's cells within each group
	Highlight       string       `yaml:"highlight"`
	HighlightFormat xlgrid.Props `yaml:"highlight_format"`
}

// CellDef is a free-standing cell. Text may embed ${expr} placeholders
// evaluated against {records, total}.
type CellDef struct {
	At      string       `yaml:"at"`
	Text    string       `yaml:"text"`
	Format  xlgrid.Props `yaml:"format"`
	MergeTo string       `yaml:"merge_to"`
	Comment string       `yaml:"comment"`
	URL     string       `yaml:"url"`
}

// LoadDefinition reads a Definition from a YAML or JSON file.
func LoadDefinition(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report definition %q: %w", path, err)
	}
	def, err := ParseDefinition(data)
	if err != nil {
		return nil, fmt.Errorf("report definition %q: %w", path, err)
	}
	return def, nil
}

// ParseDefinition decodes a Definition.
func ParseDefinition(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("parse report definition: %w", err)
	}
	return &def, nil
}

// LoadRecords reads a YAML or JSON list of records.
func LoadRecords(path string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records %q: %w", path, err)
	}
	records, err := ParseRecords(data)
	if err != nil {
		return nil, fmt.Errorf("records %q: %w", path, err)
	}
	return records, nil
}

// ParseRecords decodes a list of records.
func ParseRecords(data []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	return records, nil
}
