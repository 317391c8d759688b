package xlgrid

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SheetConfig is the file form of a sheet's presentation settings. YAML is
// a superset of JSON, so either syntax loads.
//
//	name: Students
//	zoom: 80
//	freeze_panes: [B2]
//	row_heights: [{row: 0, height: 30}]
//	columns: [{range: "A:C", width: 14}]
//	format: {font_name: Arial, font_size: 11}
//	origin: B2
type SheetConfig struct {
	Name        string              `yaml:"name"`
	Zoom        int                 `yaml:"zoom"`
	FreezePanes []string            `yaml:"freeze_panes"`
	RowHeights  []RowHeightConfig   `yaml:"row_heights"`
	Columns     []ColumnRangeConfig `yaml:"columns"`
	Format      Props               `yaml:"format"`
	Origin      string              `yaml:"origin"` // where the first table starts (default A1)
	StrictNames bool                `yaml:"strict_names"`
}

// RowHeightConfig sets the height of a 0-based row.
type RowHeightConfig struct {
	Row    int     `yaml:"row"`
	Height float64 `yaml:"height"`
}

// ColumnRangeConfig sets the width of a column range such as "B" or "B:D".
type ColumnRangeConfig struct {
	Range string  `yaml:"range"`
	Width float64 `yaml:"width"`
}

// LoadSheetConfig reads a SheetConfig from a YAML or JSON file.
func LoadSheetConfig(path string) (*SheetConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sheet config %q: %w", path, err)
	}
	cfg, err := ParseSheetConfig(data)
	if err != nil {
		return nil, fmt.Errorf("sheet config %q: %w", path, err)
	}
	return cfg, nil
}

// ParseSheetConfig decodes a SheetConfig.
func ParseSheetConfig(data []byte) (*SheetConfig, error) {
	var cfg SheetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse sheet config: %w", err)
	}
	return &cfg, nil
}

// OriginRef returns the parsed origin, A1 when unset.
func (c *SheetConfig) OriginRef() (CellRef, error) {
	if c.Origin == "" {
		return At(0, 0), nil
	}
	return ParseCellRef(c.Origin)
}

// Options converts the config into sheet options.
func (c *SheetConfig) Options() ([]SheetOption, error) {
	var opts []SheetOption
	if c.Zoom != 0 {
		opts = append(opts, WithZoom(c.Zoom))
	}
	for _, label := range c.FreezePanes {
		ref, err := ParseCellRef(label)
		if err != nil {
			return nil, fmt.Errorf("freeze pane: %w", err)
		}
		opts = append(opts, WithFreezePanes(ref))
	}
	for _, rh := range c.RowHeights {
		opts = append(opts, WithRowHeight(rh.Row, rh.Height))
	}
	for _, cr := range c.Columns {
		first, last, err := parseColumnRange(cr.Range)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithColumnWidth(first, last, cr.Width))
	}
	if len(c.Format) > 0 {
		opts = append(opts, WithSheetFormat(c.Format))
	}
	if c.StrictNames {
		opts = append(opts, WithStrictNames())
	}
	return opts, nil
}

// NewSheet creates a sheet configured by c.
func (c *SheetConfig) NewSheet() (*Sheet, error) {
	opts, err := c.Options()
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", c.Name, err)
	}
	return NewSheet(c.Name, opts...), nil
}

func parseColumnRange(s string) (first, last int, err error) {
	from, to, found := strings.Cut(strings.ToUpper(strings.TrimSpace(s)), ":")
	if !found {
		to = from
	}
	if first, err = NameToCol(from); err != nil {
		return 0, 0, fmt.Errorf("%w: column range %q: %v", ErrMalformedReference, s, err)
	}
	if last, err = NameToCol(to); err != nil {
		return 0, 0, fmt.Errorf("%w: column range %q: %v", ErrMalformedReference, s, err)
	}
	if last < first {
		first, last = last, first
	}
	return first, last, nil
}
