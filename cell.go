package xlgrid

// Cell holds one addressed, styled value of a sheet.
type Cell struct {
	Text      string     // cell value as written
	Row       int        // 0-based row
	Col       int        // 0-based column
	Style     Format     // resolved style
	Spans     SpanStyles // per-character overrides; non-empty means rich text
	MergeRect *AreaRef   // set by the merge resolver
	Comment   string     // cell note text
	URL       string     // hyperlink target
}

// Ref returns the cell position.
func (c *Cell) Ref() CellRef {
	return At(c.Row, c.Col)
}

// IsRich reports whether the cell carries per-character formatting.
func (c *Cell) IsRich() bool {
	return len(c.Spans) > 0
}

// IsMerged reports whether the cell belongs to a merge of more than one cell.
func (c *Cell) IsMerged() bool {
	return c.MergeRect != nil && !c.MergeRect.IsSingle()
}

// Segments resolves the cell's rich-text runs.
func (c *Cell) Segments() []Run {
	return Segment(c.Text, c.Style, c.Spans)
}

// ApplyDivisor overlays a bottom border of the given strength.
func (c *Cell) ApplyDivisor(line Line) {
	c.Style = c.Style.WithDivisor(line)
}

func (c *Cell) String() string { return c.Text }

// CellOption configures a cell at creation.
type CellOption func(*cellConfig)

type cellConfig struct {
	patch   Props
	spans   SpanStyles
	comment string
	url     string
}

func newCellConfig(opts []CellOption) *cellConfig {
	cfg := &cellConfig{patch: Props{}}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithFormat overlays every key of f onto the inherited style.
func WithFormat(f Format) CellOption {
	return WithProps(f.props)
}

// WithProps overlays a partial format onto the inherited style.
func WithProps(p Props) CellOption {
	return func(c *cellConfig) {
		for k, v := range p {
			c.patch[k] = v
		}
	}
}

// WithSpans sets per-character overrides.
func WithSpans(spans SpanStyles) CellOption {
	return func(c *cellConfig) { c.spans = spans }
}

// WithComment attaches a note to the cell.
func WithComment(text string) CellOption {
	return func(c *cellConfig) { c.comment = text }
}

// WithURL turns the cell into a hyperlink.
func WithURL(url string) CellOption {
	return func(c *cellConfig) { c.url = url }
}

func newCell(text string, row, col int, inherited Format, opts []CellOption) *Cell {
	cfg := newCellConfig(opts)
	return &Cell{
		Text:    text,
		Row:     row,
		Col:     col,
		Style:   inherited.Overlay(cfg.patch),
		Spans:   cfg.spans,
		Comment: cfg.comment,
		URL:     cfg.url,
	}
}
